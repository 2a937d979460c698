package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/internal/domain/entity"
	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/internal/domain/enum"
	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/internal/domain/repository"
	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShouldGenerate(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		cycle enum.RecurringCycle
		last  time.Time
		now   time.Time
		want  bool
	}{
		{"none never generates", enum.RecurringNone, base, base.AddDate(1, 0, 0), false},
		{"monthly one day short", enum.RecurringMonthly, base, base.AddDate(0, 0, 29), false},
		{"monthly exactly at threshold", enum.RecurringMonthly, base, base.AddDate(0, 0, 30), true},
		{"monthly well past threshold", enum.RecurringMonthly, base, base.AddDate(0, 2, 0), true},
		{"daily next day", enum.RecurringDaily, base, base.AddDate(0, 0, 1), true},
		{"daily same day", enum.RecurringDaily, base, base.Add(23 * time.Hour), false},
		{"weekly after six days", enum.RecurringWeekly, base, base.AddDate(0, 0, 6), false},
		{"weekly after seven days", enum.RecurringWeekly, base, base.AddDate(0, 0, 7), true},
		{"yearly after a year", enum.RecurringYearly, base, base.AddDate(0, 0, 365), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := &entity.Invoice{Recurring: tt.cycle}
			source.CreatedAt = tt.last
			assert.Equal(t, tt.want, ShouldGenerate(source, tt.now))
		})
	}
}

func TestShouldGeneratePrefersGenerationCursor(t *testing.T) {
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	lastGen := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	source := &entity.Invoice{
		Recurring:              enum.RecurringMonthly,
		LastRecurringGenerated: &lastGen,
	}
	source.CreatedAt = created

	// far past the threshold counting from creation, but not from the cursor
	assert.False(t, ShouldGenerate(source, lastGen.AddDate(0, 0, 10)))
	assert.True(t, ShouldGenerate(source, lastGen.AddDate(0, 0, 30)))
}

func (e *testEnv) createTemplate(t *testing.T, cycle enum.RecurringCycle) *entity.Invoice {
	t.Helper()
	template, err := e.recurring.CreateTemplate(context.Background(), &CreateTemplateInput{
		CreatedByID: e.user.ID,
		CustomerID:  e.customer.ID,
		Recurring:   cycle,
		TaxRate:     10,
		Items: []InvoiceItemInput{
			{Name: "Hosting", Quantity: 1, Price: 25},
			{Name: "Support", Quantity: 2, Price: 40},
		},
	})
	require.NoError(t, err)
	return template
}

func TestCreateTemplateRequiresCycle(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.recurring.CreateTemplate(context.Background(), &CreateTemplateInput{
		CreatedByID: env.user.ID,
		CustomerID:  env.customer.ID,
		Recurring:   enum.RecurringNone,
		Items: []InvoiceItemInput{
			{Name: "Hosting", Quantity: 1, Price: 25},
		},
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperror.GetAppError(err).Code)
}

func TestGenerateCopiesTemplate(t *testing.T) {
	env := newTestEnv(t)
	template := env.createTemplate(t, enum.RecurringMonthly)
	now := time.Now()

	generated, err := env.recurring.Generate(context.Background(), template, now)
	require.NoError(t, err)

	// the child inherits the template's cycle and keeps recurring on its own
	assert.Equal(t, enum.RecurringMonthly, generated.Recurring)
	assert.False(t, generated.IsRecurringTemplate)
	require.NotNil(t, generated.RecurringTemplateID)
	assert.Equal(t, template.ID, *generated.RecurringTemplateID)
	assert.Equal(t, enum.InvoiceStatusSent, generated.Status)
	assert.Equal(t, enum.PaymentStatusUnpaid, generated.PaymentStatus)
	assert.Equal(t, int64(0), generated.Credit)

	// 25 + 2x40 = 105.00, plus 10% tax
	assert.Equal(t, int64(10500), generated.SubTotal)
	assert.Equal(t, int64(1050), generated.TaxTotal)
	assert.Equal(t, int64(11550), generated.Total)
	require.Len(t, generated.Items, 2)

	// items are copies, not shared rows
	for _, item := range generated.Items {
		assert.Equal(t, generated.ID, item.InvoiceID)
	}

	// generation cursor advanced on the template
	refreshed, err := env.recurring.GetTemplate(context.Background(), template.ID, env.user.ID)
	require.NoError(t, err)
	require.NotNil(t, refreshed.LastRecurringGenerated)
	assert.WithinDuration(t, now, *refreshed.LastRecurringGenerated, time.Second)
}

func TestGenerateRejectsNonRecurringSource(t *testing.T) {
	env := newTestEnv(t)
	invoice := env.createInvoice(t)

	_, err := env.recurring.Generate(context.Background(), invoice, time.Now())
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperror.GetAppError(err).Code)
}

func TestProcessAllGeneratesOnlyDue(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	due := env.createTemplate(t, enum.RecurringMonthly)
	env.createTemplate(t, enum.RecurringMonthly)

	// age the first template past its threshold
	cursor := time.Now().AddDate(0, 0, -31)
	require.NoError(t, env.db.Model(&entity.Invoice{}).
		Where("id = ?", due.ID).
		Update("last_recurring_generated", cursor).Error)

	result, err := env.recurring.ProcessAll(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Scanned)
	assert.Equal(t, 1, result.Generated)
	assert.Equal(t, 0, result.Failed)

	// the sweep advanced the cursor and the new child counts as a source,
	// but nothing is due again until another cycle elapses
	again, err := env.recurring.ProcessAll(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 3, again.Scanned)
	assert.Equal(t, 0, again.Generated)
}

func TestGeneratedInvoiceVisibleInListings(t *testing.T) {
	env := newTestEnv(t)
	template := env.createTemplate(t, enum.RecurringWeekly)

	generated, err := env.recurring.TriggerTemplate(context.Background(), template.ID, env.user.ID)
	require.NoError(t, err)

	result, err := env.invoices.ListInvoices(context.Background(), &repository.InvoiceFilterParams{})
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, generated.ID, result.Items[0].ID)
}

func TestTemplateLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	template := env.createTemplate(t, enum.RecurringMonthly)

	templates, err := env.recurring.ListTemplates(ctx, env.user.ID)
	require.NoError(t, err)
	require.Len(t, templates, 1)

	// templates are creator-scoped
	other := seedUser(t, env.db)
	_, err = env.recurring.GetTemplate(ctx, template.ID, other.ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperror.GetAppError(err).Code)

	require.NoError(t, env.recurring.DeleteTemplate(ctx, template.ID, env.user.ID))

	templates, err = env.recurring.ListTemplates(ctx, env.user.ID)
	require.NoError(t, err)
	assert.Empty(t, templates)

	// a removed template no longer generates
	result, err := env.recurring.ProcessAll(ctx, time.Now().AddDate(0, 2, 0))
	require.NoError(t, err)
	assert.Equal(t, 0, result.Scanned)
}

func TestUpdateTemplateRecomputesTotals(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	template := env.createTemplate(t, enum.RecurringMonthly)

	taxRate := 20.0
	updated, err := env.recurring.UpdateTemplate(ctx, &UpdateTemplateInput{
		TemplateID:  template.ID,
		UpdatedByID: env.user.ID,
		TaxRate:     &taxRate,
		Items: []InvoiceItemInput{
			{Name: "Managed Hosting", Quantity: 1, Price: 200},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(20000), updated.SubTotal)
	assert.Equal(t, int64(4000), updated.TaxTotal)
	assert.Equal(t, int64(24000), updated.Total)
	require.Len(t, updated.Items, 1)
	assert.Equal(t, "Managed Hosting", updated.Items[0].Name)
	assert.True(t, updated.IsRecurringTemplate)
	require.NotNil(t, updated.UpdatedByID)
	assert.Equal(t, env.user.ID, *updated.UpdatedByID)
}

func TestUpdateTemplateChangesCycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	template := env.createTemplate(t, enum.RecurringMonthly)

	cycle := enum.RecurringWeekly
	updated, err := env.recurring.UpdateTemplate(ctx, &UpdateTemplateInput{
		TemplateID:  template.ID,
		UpdatedByID: env.user.ID,
		Recurring:   &cycle,
	})
	require.NoError(t, err)
	assert.Equal(t, enum.RecurringWeekly, updated.Recurring)

	// the due date follows the new cycle from the template's date
	assert.WithinDuration(t, updated.Date.AddDate(0, 0, 7), updated.ExpiredDate, time.Second)

	// the cycle cannot be cleared, a template always recurs
	none := enum.RecurringNone
	_, err = env.recurring.UpdateTemplate(ctx, &UpdateTemplateInput{
		TemplateID:  template.ID,
		UpdatedByID: env.user.ID,
		Recurring:   &none,
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperror.GetAppError(err).Code)
}

func TestUpdateTemplateScopedToCreator(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	template := env.createTemplate(t, enum.RecurringMonthly)

	other := seedUser(t, env.db)
	taxRate := 0.0
	_, err := env.recurring.UpdateTemplate(ctx, &UpdateTemplateInput{
		TemplateID:  template.ID,
		UpdatedByID: other.ID,
		TaxRate:     &taxRate,
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperror.GetAppError(err).Code)
}

func TestUpdateTemplateRejectsEmptyItemList(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	template := env.createTemplate(t, enum.RecurringMonthly)

	_, err := env.recurring.UpdateTemplate(ctx, &UpdateTemplateInput{
		TemplateID:  template.ID,
		UpdatedByID: env.user.ID,
		Items:       []InvoiceItemInput{},
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperror.GetAppError(err).Code)

	// the stored items survived the rejected update
	stored, err := env.recurring.GetTemplate(ctx, template.ID, env.user.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Items, 2)
}
