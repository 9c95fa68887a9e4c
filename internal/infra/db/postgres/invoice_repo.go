package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"opsdesk/internal/domain"
	"opsdesk/internal/domain/model"
	"opsdesk/internal/domain/ports/repository"
)

var _ repository.InvoiceRepository = (*invoiceRepo)(nil)

// invoiceRepo stores line items as JSONB and keeps the derived amounts in
// their own columns so reporting queries aggregate without unpacking JSON.
type invoiceRepo struct{ pool *pgxpool.Pool }

func NewInvoiceRepo(pool *pgxpool.Pool) *invoiceRepo {
	return &invoiceRepo{pool: pool}
}

const invoiceColumns = `id, user_id, client_id, number, status, lines, vat_percent, issue_date, due_date, paid_at, created_at, updated_at`

func scanInvoice(row pgx.Row) (*model.Invoice, error) {
	inv := &model.Invoice{}
	var lines []byte
	if err := row.Scan(&inv.ID, &inv.UserID, &inv.ClientID, &inv.Number, &inv.Status, &lines, &inv.VATPercent, &inv.IssueDate, &inv.DueDate, &inv.PaidAt, &inv.CreatedAt, &inv.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	if err := json.Unmarshal(lines, &inv.Lines); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return inv, nil
}

func (r *invoiceRepo) Save(ctx context.Context, tx repository.Tx, inv *model.Invoice) error {
	lines, err := json.Marshal(inv.Lines)
	if err != nil {
		return domain.ErrInvalidArgument
	}
	const q = `
INSERT INTO invoices (id, user_id, client_id, number, status, lines, vat_percent, issue_date, due_date, paid_at, subtotal, vat_amount, total, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
ON CONFLICT (id) DO UPDATE SET
  status=$5, lines=$6, vat_percent=$7, issue_date=$8, due_date=$9, paid_at=$10,
  subtotal=$11, vat_amount=$12, total=$13, updated_at=$15;`

	_, err = execSQL(ctx, r.pool, tx, q,
		inv.ID, inv.UserID, inv.ClientID, inv.Number, inv.Status, lines, inv.VATPercent,
		inv.IssueDate, inv.DueDate, inv.PaidAt,
		inv.SubtotalKobo(), inv.VATKobo(), inv.TotalKobo(),
		inv.CreatedAt, inv.UpdatedAt)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *invoiceRepo) FindByID(ctx context.Context, tx repository.Tx, userID, id string) (*model.Invoice, error) {
	const q = `SELECT ` + invoiceColumns + ` FROM invoices WHERE id=$1 AND user_id=$2;`
	row, err := pickRow(ctx, r.pool, tx, q, id, userID)
	if err != nil {
		return nil, err
	}
	return scanInvoice(row)
}

func (r *invoiceRepo) ListByUser(ctx context.Context, tx repository.Tx, userID string) ([]*model.Invoice, error) {
	const q = `SELECT ` + invoiceColumns + ` FROM invoices WHERE user_id=$1 ORDER BY created_at DESC;`
	rows, err := queryRows(ctx, r.pool, tx, q, userID)
	if err != nil {
		switch err {
		case domain.ErrInvalidArgument, domain.ErrInvalidExecContext:
			return nil, err
		default:
			return nil, domain.ErrOperationFailed
		}
	}
	defer rows.Close()

	var out []*model.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, nil
}

func (r *invoiceRepo) Delete(ctx context.Context, tx repository.Tx, userID, id string) error {
	const q = `DELETE FROM invoices WHERE id=$1 AND user_id=$2;`
	cmd, err := execSQL(ctx, r.pool, tx, q, id, userID)
	if err != nil {
		if err == domain.ErrInvalidArgument || err == domain.ErrInvalidExecContext {
			return err
		}
		return domain.ErrOperationFailed
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// NextSequence reserves the next per-account invoice number. Numbers count up
// from 1 and never reuse gaps left by deleted drafts.
func (r *invoiceRepo) NextSequence(ctx context.Context, tx repository.Tx, userID string) (int, error) {
	const q = `
INSERT INTO invoice_sequences (user_id, last_value)
VALUES ($1, 1)
ON CONFLICT (user_id) DO UPDATE SET last_value = invoice_sequences.last_value + 1
RETURNING last_value;`

	row, err := pickRow(ctx, r.pool, tx, q, userID)
	if err != nil {
		return 0, err
	}
	var seq int
	if err := row.Scan(&seq); err != nil {
		return 0, domain.ErrReadDatabaseRow
	}
	return seq, nil
}

func (r *invoiceRepo) TotalsBetween(ctx context.Context, tx repository.Tx, userID string, from, to time.Time) (*repository.InvoiceTotals, error) {
	const q = `
SELECT
  COALESCE(SUM(total), 0),
  COALESCE(SUM(total) FILTER (WHERE status = 'paid'), 0),
  COALESCE(SUM(vat_amount), 0)
FROM invoices
WHERE user_id = $1
  AND status <> 'void'
  AND issue_date >= $2 AND issue_date < $3;`

	row, err := pickRow(ctx, r.pool, tx, q, userID, from, to)
	if err != nil {
		return nil, err
	}
	t := &repository.InvoiceTotals{}
	if err := row.Scan(&t.InvoicedKobo, &t.PaidKobo, &t.VATKobo); err != nil {
		return nil, domain.ErrReadDatabaseRow
	}
	return t, nil
}
