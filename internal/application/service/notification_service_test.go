package service

import (
	"context"
	"testing"
	"time"

	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/internal/domain/entity"
	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/internal/domain/enum"
	infra "github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/internal/infrastructure/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedDatedInvoice(t *testing.T, db *gorm.DB, customer *entity.Customer, due time.Time, status enum.PaymentStatus) *entity.Invoice {
	t.Helper()
	invoice := &entity.Invoice{
		CreatedByID:   customer.CreatedByID,
		CustomerID:    customer.ID,
		Date:          due.AddDate(0, -1, 0),
		ExpiredDate:   due,
		Currency:      "USD",
		Status:        enum.InvoiceStatusSent,
		PaymentStatus: status,
		Total:         10000,
	}
	require.NoError(t, db.Create(invoice).Error)
	return invoice
}

func newTestNotifier(t *testing.T, db *gorm.DB) (*NotificationService, *fakeMailer) {
	t.Helper()
	mailer := newFakeMailer()
	notifier := NewNotificationService(infra.NewInvoiceRepository(db), mailer, zerolog.Nop(), 16, 3)
	notifier.Start()
	return notifier, mailer
}

func TestNotifyPaymentRemindersQueuesUpcomingOnly(t *testing.T) {
	db := openTestDB(t)
	user := seedUser(t, db)
	customer := seedCustomer(t, db, user.ID)
	now := time.Now()

	inWindow := seedDatedInvoice(t, db, customer, now.AddDate(0, 0, 2), enum.PaymentStatusUnpaid)
	seedDatedInvoice(t, db, customer, now.AddDate(0, 0, 10), enum.PaymentStatusUnpaid) // beyond look-ahead
	seedDatedInvoice(t, db, customer, now.AddDate(0, 0, -1), enum.PaymentStatusUnpaid) // already overdue
	seedDatedInvoice(t, db, customer, now.AddDate(0, 0, 2), enum.PaymentStatusPaid)    // settled

	notifier, mailer := newTestNotifier(t, db)

	queued, err := notifier.NotifyPaymentReminders(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 1, queued)

	notifier.Close()
	assert.Equal(t, 1, mailer.count("reminder"))
	assert.Equal(t, InvoiceRef(inWindow), mailer.sent["reminder"][0].InvoiceRef)
	assert.Equal(t, *customer.Email, mailer.sent["reminder"][0].To)
}

func TestNotifyOverdueInvoices(t *testing.T) {
	db := openTestDB(t)
	user := seedUser(t, db)
	customer := seedCustomer(t, db, user.ID)
	now := time.Now()

	seedDatedInvoice(t, db, customer, now.AddDate(0, 0, -5), enum.PaymentStatusUnpaid)
	seedDatedInvoice(t, db, customer, now.AddDate(0, 0, -5), enum.PaymentStatusPartial)
	seedDatedInvoice(t, db, customer, now.AddDate(0, 0, -5), enum.PaymentStatusPaid)  // settled, no notice
	seedDatedInvoice(t, db, customer, now.AddDate(0, 0, 5), enum.PaymentStatusUnpaid) // not yet due

	notifier, mailer := newTestNotifier(t, db)

	queued, err := notifier.NotifyOverdueInvoices(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 2, queued)

	notifier.Close()
	assert.Equal(t, 2, mailer.count("overdue"))
}

func TestNotifySkipsCustomerWithoutEmail(t *testing.T) {
	db := openTestDB(t)
	user := seedUser(t, db)

	silent := &entity.Customer{CreatedByID: user.ID, Name: "No Mail Ltd"}
	require.NoError(t, db.Create(silent).Error)

	now := time.Now()
	seedDatedInvoice(t, db, silent, now.AddDate(0, 0, -5), enum.PaymentStatusUnpaid)

	notifier, mailer := newTestNotifier(t, db)

	queued, err := notifier.NotifyOverdueInvoices(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 0, queued)

	notifier.Close()
	assert.Equal(t, 0, mailer.count("overdue"))
}

func TestNotifyPaymentReceivedUsesPaymentAmount(t *testing.T) {
	db := openTestDB(t)
	user := seedUser(t, db)
	customer := seedCustomer(t, db, user.ID)
	invoice := seedDatedInvoice(t, db, customer, time.Now().AddDate(0, 0, 10), enum.PaymentStatusPartial)
	invoice.Customer = customer

	notifier, mailer := newTestNotifier(t, db)

	notifier.NotifyPaymentReceived(invoice, &entity.Payment{Amount: 2500})
	notifier.Close()

	require.Equal(t, 1, mailer.count("payment"))
	assert.Equal(t, 25.0, mailer.sent["payment"][0].Amount)
}

func TestEnqueueNeverBlocksWhenQueueFull(t *testing.T) {
	db := openTestDB(t)
	user := seedUser(t, db)
	customer := seedCustomer(t, db, user.ID)

	mailer := newFakeMailer()
	notifier := NewNotificationService(infra.NewInvoiceRepository(db), mailer, zerolog.Nop(), 1, 3)
	// worker not started, so the buffer fills after one entry

	invoice := seedDatedInvoice(t, db, customer, time.Now().AddDate(0, 0, 10), enum.PaymentStatusUnpaid)
	invoice.Customer = customer

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 10; i++ {
			notifier.NotifyInvoiceCreated(invoice)
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("enqueue blocked on a full queue")
	}

	notifier.Start()
	notifier.Close()
	assert.Equal(t, 1, mailer.count("created"))
}

func TestInvoiceRef(t *testing.T) {
	id := uuid.MustParse("a1b2c3d4-0000-0000-0000-000000000000")
	inv := &entity.Invoice{ID: id}
	assert.Equal(t, "INV-a1b2c3d4", InvoiceRef(inv))
}
