package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/internal/domain/entity"
	infra "github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/internal/infrastructure/repository"
	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/pkg/email"
	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/pkg/insight"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// unique in-memory DB per test name to avoid leakage via shared cache
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&entity.User{},
		&entity.Customer{},
		&entity.Invoice{},
		&entity.InvoiceItem{},
		&entity.InvoiceAttachment{},
		&entity.Payment{},
		&entity.PaymentMode{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB) *entity.User {
	t.Helper()
	user := &entity.User{
		FirstName: "Test",
		LastName:  "User",
		Email:     fmt.Sprintf("%s@example.com", uuid.New().String()[:8]),
		Password:  "hash",
		Role:      "staff",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedCustomer(t *testing.T, db *gorm.DB, createdBy uuid.UUID) *entity.Customer {
	t.Helper()
	mail := fmt.Sprintf("%s@customer.example.com", uuid.New().String()[:8])
	customer := &entity.Customer{
		CreatedByID: createdBy,
		Name:        "Acme Corp",
		Email:       &mail,
	}
	require.NoError(t, db.Create(customer).Error)
	return customer
}

// memStorage is an in-memory FileStorage for attachment tests.
type memStorage struct {
	mu    sync.Mutex
	files map[string][]byte
}

func newMemStorage() *memStorage {
	return &memStorage{files: map[string][]byte{}}
}

func (m *memStorage) Save(name string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	path := "mem/" + uuid.New().String() + "-" + name
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = data
	return path, nil
}

func (m *memStorage) Exists(path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.files[path]
	return ok
}

func (m *memStorage) Delete(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, path)
	return nil
}

func (m *memStorage) Open(path string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// fakeMailer records every outbound mail by kind.
type fakeMailer struct {
	mu   sync.Mutex
	sent map[string][]email.InvoiceMail
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{sent: map[string][]email.InvoiceMail{}}
}

func (f *fakeMailer) record(kind string, mail email.InvoiceMail) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent[kind] = append(f.sent[kind], mail)
	return nil
}

func (f *fakeMailer) SendInvoiceCreatedEmail(mail email.InvoiceMail) error {
	return f.record("created", mail)
}

func (f *fakeMailer) SendPaymentReceivedEmail(mail email.InvoiceMail) error {
	return f.record("payment", mail)
}

func (f *fakeMailer) SendInvoiceOverdueEmail(mail email.InvoiceMail) error {
	return f.record("overdue", mail)
}

func (f *fakeMailer) SendPaymentReminderEmail(mail email.InvoiceMail) error {
	return f.record("reminder", mail)
}

func (f *fakeMailer) count(kind string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent[kind])
}

// testEnv wires the service layer against an in-memory database.
type testEnv struct {
	db        *gorm.DB
	files     *memStorage
	invoices  *InvoiceService
	payments  *PaymentService
	recurring *RecurringService
	user      *entity.User
	customer  *entity.Customer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := openTestDB(t)
	logger := zerolog.Nop()

	invoiceRepo := infra.NewInvoiceRepository(db)
	customerRepo := infra.NewCustomerRepository(db)
	paymentRepo := infra.NewPaymentRepository(db)
	paymentModeRepo := infra.NewPaymentModeRepository(db)
	analyticsRepo := infra.NewAnalyticsRepository(db)

	files := newMemStorage()
	invoices := NewInvoiceService(invoiceRepo, customerRepo, paymentRepo, analyticsRepo,
		files, insight.NopGenerator{}, nil, logger, 1<<20)
	payments := NewPaymentService(paymentRepo, paymentModeRepo, invoiceRepo, nil, logger)
	recurring := NewRecurringService(invoiceRepo, customerRepo, nil, logger)

	user := seedUser(t, db)
	customer := seedCustomer(t, db, user.ID)

	return &testEnv{
		db:        db,
		files:     files,
		invoices:  invoices,
		payments:  payments,
		recurring: recurring,
		user:      user,
		customer:  customer,
	}
}

// createInvoice makes a standard invoice: two units at 500.00, 10% tax and a
// 50.00 discount, so totals land on 1000.00 / 100.00 / 1050.00.
func (e *testEnv) createInvoice(t *testing.T) *entity.Invoice {
	t.Helper()
	now := time.Now()
	invoice, err := e.invoices.CreateInvoice(context.Background(), &CreateInvoiceInput{
		CreatedByID: e.user.ID,
		CustomerID:  e.customer.ID,
		Date:        now,
		ExpiredDate: now.AddDate(0, 1, 0),
		TaxRate:     10,
		Discount:    50,
		Items: []InvoiceItemInput{
			{Name: "Consulting", Quantity: 2, Price: 500},
		},
	})
	require.NoError(t, err)
	return invoice
}
