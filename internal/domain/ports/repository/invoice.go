package repository

import (
	"context"
	"time"

	"opsdesk/internal/domain/model"
)

// InvoiceTotals aggregates invoice amounts for a reporting period.
type InvoiceTotals struct {
	InvoicedKobo int64
	PaidKobo     int64
	VATKobo      int64
}

type InvoiceRepository interface {
	Save(ctx context.Context, tx Tx, inv *model.Invoice) error
	FindByID(ctx context.Context, tx Tx, userID, id string) (*model.Invoice, error)
	ListByUser(ctx context.Context, tx Tx, userID string) ([]*model.Invoice, error)
	Delete(ctx context.Context, tx Tx, userID, id string) error
	// NextSequence returns the next per-account invoice number, starting at 1.
	NextSequence(ctx context.Context, tx Tx, userID string) (int, error)
	TotalsBetween(ctx context.Context, tx Tx, userID string, from, to time.Time) (*InvoiceTotals, error)
}
