// File: internal/usecase/report_uc.go
package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"opsdesk/internal/domain"
	"opsdesk/internal/domain/ports/repository"
)

// Summary is an accounting rollup for one period. All amounts in kobo.
type Summary struct {
	From         time.Time
	To           time.Time
	InvoicedKobo int64
	PaidKobo     int64
	VATKobo      int64
	ExpensesKobo int64
	NetKobo      int64 // paid minus expenses
}

// Compile-time check
var _ ReportUseCase = (*reportUC)(nil)

type ReportUseCase interface {
	Summary(ctx context.Context, userID string, from, to time.Time) (*Summary, error)
}

type reportUC struct {
	invoices repository.InvoiceRepository
	expenses repository.ExpenseRepository
	log      *zerolog.Logger
}

func NewReportUseCase(invoices repository.InvoiceRepository, expenses repository.ExpenseRepository, log *zerolog.Logger) *reportUC {
	return &reportUC{invoices: invoices, expenses: expenses, log: log}
}

func (u *reportUC) Summary(ctx context.Context, userID string, from, to time.Time) (*Summary, error) {
	if !from.Before(to) {
		return nil, domain.ErrInvalidArgument
	}
	totals, err := u.invoices.TotalsBetween(ctx, repository.NoTX, userID, from, to)
	if err != nil {
		return nil, err
	}
	expenses, err := u.expenses.SumBetween(ctx, repository.NoTX, userID, from, to)
	if err != nil {
		return nil, err
	}
	return &Summary{
		From:         from,
		To:           to,
		InvoicedKobo: totals.InvoicedKobo,
		PaidKobo:     totals.PaidKobo,
		VATKobo:      totals.VATKobo,
		ExpensesKobo: expenses,
		NetKobo:      totals.PaidKobo - expenses,
	}, nil
}
