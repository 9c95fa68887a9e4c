package repository

import (
	"context"
	"time"

	"opsdesk/internal/domain/model"
)

// PaymentRepository persists checkout attempts keyed by reference.
type PaymentRepository interface {
	Save(ctx context.Context, tx Tx, p *model.PaymentRecord) error
	FindByReference(ctx context.Context, tx Tx, reference string) (*model.PaymentRecord, error)
	// UpdateStatusIfPending flips status only when the current status is
	// 'pending' and reports whether a row changed. This is the idempotency
	// guard for concurrent webhook deliveries: exactly one caller wins.
	UpdateStatusIfPending(ctx context.Context, tx Tx, reference string, status model.PaymentStatus) (bool, error)
	ListPendingOlderThan(ctx context.Context, tx Tx, olderThan time.Time, limit int) ([]*model.PaymentRecord, error)
}

// PurchaseRepository persists one-time entitlements.
type PurchaseRepository interface {
	Save(ctx context.Context, tx Tx, p *model.Purchase) error
	ListByUser(ctx context.Context, tx Tx, userID string) ([]*model.Purchase, error)
	// ExpireLapsed marks active purchases whose expiry has passed and reports
	// how many rows changed.
	ExpireLapsed(ctx context.Context, tx Tx, now time.Time) (int64, error)
}
