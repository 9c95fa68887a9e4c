// File: internal/infra/web/mock_test.go
package web

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"opsdesk/internal/config"
	"opsdesk/internal/domain"
	"opsdesk/internal/domain/model"
	"opsdesk/internal/usecase"
)

func testConfig() *config.Config {
	return &config.Config{
		Server:   config.ServerConfig{Port: 8080, BaseURL: "http://localhost:8080"},
		Paystack: config.PaystackConfig{WebhookSecret: "whsec_test"},
		Auth:     config.AuthConfig{JWTSecret: "test-secret", SessionTTL: time.Hour},
		Runtime:  config.RuntimeConfig{Dev: true},
	}
}

func newTestServer(opts ...func(*testServerDeps)) *Server {
	deps := &testServerDeps{
		users:     &mockUserUC{},
		billing:   &mockBillingUC{},
		reconcile: &mockReconcileUC{},
		subs:      &mockSubscriptionUC{},
	}
	for _, o := range opts {
		o(deps)
	}
	log := zerolog.Nop()
	return NewServer(
		testConfig(),
		deps.users, deps.billing, deps.reconcile, deps.subs,
		&mockClientUC{}, &mockJobUC{}, &mockInvoiceUC{}, &mockExpenseUC{}, &mockReportUC{},
		deps.limiter, &log,
	)
}

type testServerDeps struct {
	users     usecase.UserUseCase
	billing   usecase.BillingUseCase
	reconcile usecase.ReconcileUseCase
	subs      usecase.SubscriptionUseCase
	limiter   RateLimiter
}

// mockRateLimiter records the keys it was asked about and denies once the
// configured limit is reached.
type mockRateLimiter struct {
	Keys  []string
	Limit int
	count int
}

func (m *mockRateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	m.Keys = append(m.Keys, key)
	m.count++
	if m.Limit > 0 {
		return m.count <= m.Limit, nil
	}
	return m.count <= limit, nil
}

// --- use case mocks ---

type mockUserUC struct {
	RegisterFunc func(ctx context.Context, email, name, password string) (*model.User, error)
	LoginFunc    func(ctx context.Context, email, password string) (*model.User, error)
	FindByIDFunc func(ctx context.Context, id string) (*model.User, error)
}

func (m *mockUserUC) Register(ctx context.Context, email, name, password string) (*model.User, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, email, name, password)
	}
	return &model.User{ID: "user-1", Email: email, Name: name}, nil
}

func (m *mockUserUC) Login(ctx context.Context, email, password string) (*model.User, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	return &model.User{ID: "user-1", Email: email}, nil
}

func (m *mockUserUC) FindByID(ctx context.Context, id string) (*model.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return &model.User{ID: id, Email: "u@example.com"}, nil
}

type mockBillingUC struct {
	StartSubscriptionCheckoutFunc func(ctx context.Context, userID, email, planID string, cycle model.BillingCycle) (*model.PaymentRecord, string, error)
	PaymentStatusFunc             func(ctx context.Context, reference string) (*model.PaymentRecord, error)
}

func (m *mockBillingUC) StartSubscriptionCheckout(ctx context.Context, userID, email, planID string, cycle model.BillingCycle) (*model.PaymentRecord, string, error) {
	if m.StartSubscriptionCheckoutFunc != nil {
		return m.StartSubscriptionCheckoutFunc(ctx, userID, email, planID, cycle)
	}
	rec := &model.PaymentRecord{Reference: "sub_test_ref", Amount: 500_000, Currency: "NGN", Status: model.PaymentStatusPending}
	return rec, "https://checkout.example/sub_test_ref", nil
}

func (m *mockBillingUC) StartPurchaseCheckout(ctx context.Context, userID, email string, product model.ProductType) (*model.PaymentRecord, string, error) {
	rec := &model.PaymentRecord{Reference: "buy_test_ref", Amount: 50_000_000, Currency: "NGN", Status: model.PaymentStatusPending}
	return rec, "https://checkout.example/buy_test_ref", nil
}

func (m *mockBillingUC) PaymentStatus(ctx context.Context, reference string) (*model.PaymentRecord, error) {
	if m.PaymentStatusFunc != nil {
		return m.PaymentStatusFunc(ctx, reference)
	}
	return nil, domain.ErrNotFound
}

type mockReconcileUC struct {
	ChargeRefs   []string
	CreatedRefs  []string
	CancelRefs   []string
	ChargeErr    error
	CreatedErr   error
	CancelErr    error
	PendingCalls int
}

func (m *mockReconcileUC) HandleChargeSuccess(ctx context.Context, reference string) error {
	m.ChargeRefs = append(m.ChargeRefs, reference)
	return m.ChargeErr
}

func (m *mockReconcileUC) HandleSubscriptionCreated(ctx context.Context, gatewaySubRef, customerRef, customerEmail string) error {
	m.CreatedRefs = append(m.CreatedRefs, gatewaySubRef)
	return m.CreatedErr
}

func (m *mockReconcileUC) HandleSubscriptionCanceled(ctx context.Context, gatewaySubRef string) error {
	m.CancelRefs = append(m.CancelRefs, gatewaySubRef)
	return m.CancelErr
}

func (m *mockReconcileUC) ReconcilePending(ctx context.Context, olderThan time.Time, limit int) error {
	m.PendingCalls++
	return nil
}

type mockSubscriptionUC struct {
	StatusFunc func(ctx context.Context, userID string) (*usecase.AccessStatus, error)
	CancelFunc func(ctx context.Context, userID string) (*model.Subscription, error)
}

func (m *mockSubscriptionUC) Status(ctx context.Context, userID string) (*usecase.AccessStatus, error) {
	if m.StatusFunc != nil {
		return m.StatusFunc(ctx, userID)
	}
	return &usecase.AccessStatus{}, nil
}

func (m *mockSubscriptionUC) Cancel(ctx context.Context, userID string) (*model.Subscription, error) {
	if m.CancelFunc != nil {
		return m.CancelFunc(ctx, userID)
	}
	return nil, domain.ErrNoActiveSubscription
}

type mockClientUC struct{}

func (m *mockClientUC) Create(ctx context.Context, userID, name, email, phone, notes string) (*model.Client, error) {
	return &model.Client{ID: "client-1", UserID: userID, Name: name, Email: email}, nil
}
func (m *mockClientUC) Get(ctx context.Context, userID, id string) (*model.Client, error) {
	return nil, domain.ErrNotFound
}
func (m *mockClientUC) List(ctx context.Context, userID string) ([]*model.Client, error) {
	return nil, nil
}
func (m *mockClientUC) Update(ctx context.Context, userID, id, name, email, phone, notes string) (*model.Client, error) {
	return nil, domain.ErrNotFound
}
func (m *mockClientUC) Delete(ctx context.Context, userID, id string) error {
	return domain.ErrNotFound
}

type mockJobUC struct{}

func (m *mockJobUC) Create(ctx context.Context, userID, clientID, title, description string, amountKobo int64, scheduledFor *time.Time) (*model.Job, error) {
	return &model.Job{ID: "job-1", UserID: userID, ClientID: clientID, Title: title, Status: model.JobStatusQuoted}, nil
}
func (m *mockJobUC) Get(ctx context.Context, userID, id string) (*model.Job, error) {
	return nil, domain.ErrNotFound
}
func (m *mockJobUC) List(ctx context.Context, userID string) ([]*model.Job, error) { return nil, nil }
func (m *mockJobUC) SetStatus(ctx context.Context, userID, id string, status model.JobStatus) (*model.Job, error) {
	return nil, domain.ErrNotFound
}
func (m *mockJobUC) Delete(ctx context.Context, userID, id string) error { return domain.ErrNotFound }

type mockInvoiceUC struct{}

func (m *mockInvoiceUC) Create(ctx context.Context, userID, clientID string, lines []model.InvoiceLine, vatPercent int64, issueDate, dueDate time.Time) (*model.Invoice, error) {
	return &model.Invoice{ID: "inv-1", UserID: userID, ClientID: clientID, Number: "INV-0001", Status: model.InvoiceStatusDraft, Lines: lines, VATPercent: vatPercent}, nil
}
func (m *mockInvoiceUC) Get(ctx context.Context, userID, id string) (*model.Invoice, error) {
	return nil, domain.ErrNotFound
}
func (m *mockInvoiceUC) List(ctx context.Context, userID string) ([]*model.Invoice, error) {
	return nil, nil
}
func (m *mockInvoiceUC) Send(ctx context.Context, userID, id string) (*model.Invoice, error) {
	return nil, domain.ErrPlanLimitReached
}
func (m *mockInvoiceUC) MarkPaid(ctx context.Context, userID, id string) (*model.Invoice, error) {
	return nil, domain.ErrNotFound
}
func (m *mockInvoiceUC) Void(ctx context.Context, userID, id string) (*model.Invoice, error) {
	return nil, domain.ErrNotFound
}
func (m *mockInvoiceUC) Delete(ctx context.Context, userID, id string) error {
	return domain.ErrNotFound
}

type mockExpenseUC struct{}

func (m *mockExpenseUC) Create(ctx context.Context, userID, category string, amountKobo int64, incurredOn time.Time, notes string) (*model.Expense, error) {
	return &model.Expense{ID: "exp-1", UserID: userID, Category: category, AmountKobo: amountKobo}, nil
}
func (m *mockExpenseUC) Get(ctx context.Context, userID, id string) (*model.Expense, error) {
	return nil, domain.ErrNotFound
}
func (m *mockExpenseUC) List(ctx context.Context, userID string) ([]*model.Expense, error) {
	return nil, nil
}
func (m *mockExpenseUC) Update(ctx context.Context, userID, id, category string, amountKobo int64, incurredOn time.Time, notes string) (*model.Expense, error) {
	return nil, domain.ErrNotFound
}
func (m *mockExpenseUC) Delete(ctx context.Context, userID, id string) error {
	return domain.ErrNotFound
}

type mockReportUC struct{}

func (m *mockReportUC) Summary(ctx context.Context, userID string, from, to time.Time) (*usecase.Summary, error) {
	return &usecase.Summary{From: from, To: to}, nil
}
