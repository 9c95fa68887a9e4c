// File: internal/usecase/mocks_test.go
package usecase_test

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"opsdesk/internal/domain"
	"opsdesk/internal/domain/model"
	"opsdesk/internal/domain/ports/adapter"
	"opsdesk/internal/domain/ports/repository"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// --- payments ---

type MockPaymentRepo struct {
	mu       sync.Mutex
	store    map[string]*model.PaymentRecord // by reference
	SaveFunc func(ctx context.Context, tx repository.Tx, p *model.PaymentRecord) error
}

func NewMockPaymentRepo() *MockPaymentRepo {
	return &MockPaymentRepo{store: make(map[string]*model.PaymentRecord)}
}

func (m *MockPaymentRepo) Save(ctx context.Context, tx repository.Tx, p *model.PaymentRecord) error {
	if m.SaveFunc != nil {
		if err := m.SaveFunc(ctx, tx, p); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.store[p.Reference] = &cp
	return nil
}

func (m *MockPaymentRepo) FindByReference(ctx context.Context, tx repository.Tx, reference string) (*model.PaymentRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[reference]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MockPaymentRepo) UpdateStatusIfPending(ctx context.Context, tx repository.Tx, reference string, status model.PaymentStatus) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[reference]
	if !ok || p.Status != model.PaymentStatusPending {
		return false, nil
	}
	p.Status = status
	p.UpdatedAt = time.Now()
	return true, nil
}

func (m *MockPaymentRepo) ListPendingOlderThan(ctx context.Context, tx repository.Tx, olderThan time.Time, limit int) ([]*model.PaymentRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.PaymentRecord
	for _, p := range m.store {
		if p.Status == model.PaymentStatusPending && p.CreatedAt.Before(olderThan) {
			cp := *p
			out = append(out, &cp)
		}
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

// --- subscriptions ---

type MockSubscriptionRepo struct {
	mu    sync.Mutex
	store map[string]*model.Subscription // by id
}

func NewMockSubscriptionRepo() *MockSubscriptionRepo {
	return &MockSubscriptionRepo{store: make(map[string]*model.Subscription)}
}

func (m *MockSubscriptionRepo) Save(ctx context.Context, tx repository.Tx, s *model.Subscription) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.store[s.ID] = &cp
	return nil
}

func (m *MockSubscriptionRepo) FindCurrentByUser(ctx context.Context, tx repository.Tx, userID string) (*model.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.store {
		if s.UserID == userID && s.IsCurrent() {
			cp := *s
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockSubscriptionRepo) FindByGatewayRef(ctx context.Context, tx repository.Tx, ref string) (*model.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.store {
		if s.GatewaySubscriptionRef == ref {
			cp := *s
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockSubscriptionRepo) FindByGatewayCustomerRef(ctx context.Context, tx repository.Tx, ref string) (*model.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.store {
		if s.GatewayCustomerRef == ref && s.IsCurrent() {
			cp := *s
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockSubscriptionRepo) CancelLapsed(ctx context.Context, tx repository.Tx, asOf time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, s := range m.store {
		if s.IsCurrent() && s.CurrentPeriodEnd.Before(asOf) {
			s.Status = model.SubscriptionStatusCanceled
			n++
		}
	}
	return n, nil
}

func (m *MockSubscriptionRepo) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.store)
}

// --- purchases ---

type MockPurchaseRepo struct {
	mu    sync.Mutex
	store []*model.Purchase
}

func NewMockPurchaseRepo() *MockPurchaseRepo { return &MockPurchaseRepo{} }

func (m *MockPurchaseRepo) Save(ctx context.Context, tx repository.Tx, p *model.Purchase) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.store = append(m.store, &cp)
	return nil
}

func (m *MockPurchaseRepo) ListByUser(ctx context.Context, tx repository.Tx, userID string) ([]*model.Purchase, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Purchase
	for _, p := range m.store {
		if p.UserID == userID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockPurchaseRepo) ExpireLapsed(ctx context.Context, tx repository.Tx, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, p := range m.store {
		if p.Status == "active" && p.ExpiresAt != nil && !now.Before(*p.ExpiresAt) {
			p.Status = "expired"
			n++
		}
	}
	return n, nil
}

func (m *MockPurchaseRepo) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.store)
}

// --- users ---

type MockUserRepo struct {
	mu    sync.Mutex
	store map[string]*model.User // by id
}

func NewMockUserRepo() *MockUserRepo {
	return &MockUserRepo{store: make(map[string]*model.User)}
}

func (m *MockUserRepo) Save(ctx context.Context, tx repository.Tx, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *u
	m.store[u.ID] = &cp
	return nil
}

func (m *MockUserRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *MockUserRepo) FindByEmail(ctx context.Context, tx repository.Tx, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.store {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

// --- clients ---

type MockClientRepo struct {
	mu    sync.Mutex
	store map[string]*model.Client
}

func NewMockClientRepo() *MockClientRepo {
	return &MockClientRepo{store: make(map[string]*model.Client)}
}

func (m *MockClientRepo) Save(ctx context.Context, tx repository.Tx, c *model.Client) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	m.store[c.ID] = &cp
	return nil
}

func (m *MockClientRepo) FindByID(ctx context.Context, tx repository.Tx, userID, id string) (*model.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.store[id]
	if !ok || c.UserID != userID {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *MockClientRepo) ListByUser(ctx context.Context, tx repository.Tx, userID string) ([]*model.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Client
	for _, c := range m.store {
		if c.UserID == userID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockClientRepo) CountByUser(ctx context.Context, tx repository.Tx, userID string) (int, error) {
	list, _ := m.ListByUser(ctx, tx, userID)
	return len(list), nil
}

func (m *MockClientRepo) Delete(ctx context.Context, tx repository.Tx, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.store[id]
	if !ok || c.UserID != userID {
		return domain.ErrNotFound
	}
	delete(m.store, id)
	return nil
}

// --- jobs ---

type MockJobRepo struct {
	mu    sync.Mutex
	store map[string]*model.Job
}

func NewMockJobRepo() *MockJobRepo {
	return &MockJobRepo{store: make(map[string]*model.Job)}
}

func (m *MockJobRepo) Save(ctx context.Context, tx repository.Tx, j *model.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *j
	m.store[j.ID] = &cp
	return nil
}

func (m *MockJobRepo) FindByID(ctx context.Context, tx repository.Tx, userID, id string) (*model.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.store[id]
	if !ok || j.UserID != userID {
		return nil, domain.ErrNotFound
	}
	cp := *j
	return &cp, nil
}

func (m *MockJobRepo) ListByUser(ctx context.Context, tx repository.Tx, userID string) ([]*model.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Job
	for _, j := range m.store {
		if j.UserID == userID {
			cp := *j
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockJobRepo) Delete(ctx context.Context, tx repository.Tx, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.store[id]
	if !ok || j.UserID != userID {
		return domain.ErrNotFound
	}
	delete(m.store, id)
	return nil
}

// --- invoices ---

type MockInvoiceRepo struct {
	mu    sync.Mutex
	store map[string]*model.Invoice
}

func NewMockInvoiceRepo() *MockInvoiceRepo {
	return &MockInvoiceRepo{store: make(map[string]*model.Invoice)}
}

func (m *MockInvoiceRepo) Save(ctx context.Context, tx repository.Tx, inv *model.Invoice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *inv
	m.store[inv.ID] = &cp
	return nil
}

func (m *MockInvoiceRepo) FindByID(ctx context.Context, tx repository.Tx, userID, id string) (*model.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.store[id]
	if !ok || inv.UserID != userID {
		return nil, domain.ErrNotFound
	}
	cp := *inv
	return &cp, nil
}

func (m *MockInvoiceRepo) ListByUser(ctx context.Context, tx repository.Tx, userID string) ([]*model.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Invoice
	for _, inv := range m.store {
		if inv.UserID == userID {
			cp := *inv
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockInvoiceRepo) Delete(ctx context.Context, tx repository.Tx, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.store[id]
	if !ok || inv.UserID != userID {
		return domain.ErrNotFound
	}
	delete(m.store, id)
	return nil
}

func (m *MockInvoiceRepo) NextSequence(ctx context.Context, tx repository.Tx, userID string) (int, error) {
	list, _ := m.ListByUser(ctx, tx, userID)
	return len(list) + 1, nil
}

func (m *MockInvoiceRepo) TotalsBetween(ctx context.Context, tx repository.Tx, userID string, from, to time.Time) (*repository.InvoiceTotals, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := &repository.InvoiceTotals{}
	for _, inv := range m.store {
		if inv.UserID != userID || inv.IssueDate.Before(from) || !inv.IssueDate.Before(to) {
			continue
		}
		if inv.Status == model.InvoiceStatusVoid {
			continue
		}
		t.InvoicedKobo += inv.TotalKobo()
		t.VATKobo += inv.VATKobo()
		if inv.Status == model.InvoiceStatusPaid {
			t.PaidKobo += inv.TotalKobo()
		}
	}
	return t, nil
}

// --- expenses ---

type MockExpenseRepo struct {
	mu    sync.Mutex
	store map[string]*model.Expense
}

func NewMockExpenseRepo() *MockExpenseRepo {
	return &MockExpenseRepo{store: make(map[string]*model.Expense)}
}

func (m *MockExpenseRepo) Save(ctx context.Context, tx repository.Tx, e *model.Expense) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *e
	m.store[e.ID] = &cp
	return nil
}

func (m *MockExpenseRepo) FindByID(ctx context.Context, tx repository.Tx, userID, id string) (*model.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.store[id]
	if !ok || e.UserID != userID {
		return nil, domain.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (m *MockExpenseRepo) ListByUser(ctx context.Context, tx repository.Tx, userID string) ([]*model.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Expense
	for _, e := range m.store {
		if e.UserID == userID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockExpenseRepo) Delete(ctx context.Context, tx repository.Tx, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.store[id]
	if !ok || e.UserID != userID {
		return domain.ErrNotFound
	}
	delete(m.store, id)
	return nil
}

func (m *MockExpenseRepo) SumBetween(ctx context.Context, tx repository.Tx, userID string, from, to time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var sum int64
	for _, e := range m.store {
		if e.UserID == userID && !e.IncurredOn.Before(from) && e.IncurredOn.Before(to) {
			sum += e.AmountKobo
		}
	}
	return sum, nil
}

// --- gateway ---

type MockPaymentGateway struct {
	InitializeFunc func(ctx context.Context, email string, amountKobo int64, reference string, meta map[string]string) (*adapter.InitializeResult, error)
	VerifyFunc     func(ctx context.Context, reference string) (*adapter.VerifyResult, error)
	VerifyCalls    int
}

func (m *MockPaymentGateway) Name() string { return "mock" }

func (m *MockPaymentGateway) Initialize(ctx context.Context, email string, amountKobo int64, reference string, meta map[string]string) (*adapter.InitializeResult, error) {
	if m.InitializeFunc != nil {
		return m.InitializeFunc(ctx, email, amountKobo, reference, meta)
	}
	return &adapter.InitializeResult{
		AuthorizationURL: "https://checkout.example/" + reference,
		AccessCode:       "ac_" + reference,
		Reference:        reference,
	}, nil
}

func (m *MockPaymentGateway) Verify(ctx context.Context, reference string) (*adapter.VerifyResult, error) {
	m.VerifyCalls++
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, reference)
	}
	return &adapter.VerifyResult{Reference: reference, Status: "success"}, nil
}

// --- tx manager / locker / mailer ---

type MockTxManager struct{}

func NewMockTxManager() *MockTxManager { return &MockTxManager{} }

func (m *MockTxManager) WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	return fn(ctx, repository.NoTX)
}

type MockLocker struct{}

func (m *MockLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (string, error) {
	return "token", nil
}

func (m *MockLocker) Unlock(ctx context.Context, key, token string) error { return nil }

type MockMailer struct {
	mu      sync.Mutex
	Sent    []string // recipient addresses
	SendErr error
}

func (m *MockMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	if m.SendErr != nil {
		return m.SendErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, to)
	return nil
}
