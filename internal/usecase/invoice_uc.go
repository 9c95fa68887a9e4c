// File: internal/usecase/invoice_uc.go
package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"opsdesk/internal/domain"
	"opsdesk/internal/domain/model"
	"opsdesk/internal/domain/ports/adapter"
	"opsdesk/internal/domain/ports/repository"
)

// Compile-time check
var _ InvoiceUseCase = (*invoiceUC)(nil)

type InvoiceUseCase interface {
	Create(ctx context.Context, userID, clientID string, lines []model.InvoiceLine, vatPercent int64, issueDate, dueDate time.Time) (*model.Invoice, error)
	Get(ctx context.Context, userID, id string) (*model.Invoice, error)
	List(ctx context.Context, userID string) ([]*model.Invoice, error)
	// Send emails the invoice summary to the client and marks it sent.
	// Gated on the plan's invoicing permission.
	Send(ctx context.Context, userID, id string) (*model.Invoice, error)
	MarkPaid(ctx context.Context, userID, id string) (*model.Invoice, error)
	Void(ctx context.Context, userID, id string) (*model.Invoice, error)
	Delete(ctx context.Context, userID, id string) error
}

type invoiceUC struct {
	invoices repository.InvoiceRepository
	clients  repository.ClientRepository
	access   SubscriptionUseCase
	mailer   adapter.Mailer
	log      *zerolog.Logger
}

func NewInvoiceUseCase(invoices repository.InvoiceRepository, clients repository.ClientRepository, access SubscriptionUseCase, mailer adapter.Mailer, log *zerolog.Logger) *invoiceUC {
	return &invoiceUC{invoices: invoices, clients: clients, access: access, mailer: mailer, log: log}
}

func (u *invoiceUC) Create(ctx context.Context, userID, clientID string, lines []model.InvoiceLine, vatPercent int64, issueDate, dueDate time.Time) (*model.Invoice, error) {
	if _, err := u.clients.FindByID(ctx, repository.NoTX, userID, clientID); err != nil {
		return nil, err
	}
	seq, err := u.invoices.NextSequence(ctx, repository.NoTX, userID)
	if err != nil {
		return nil, err
	}
	number := fmt.Sprintf("INV-%04d", seq)
	inv, err := model.NewInvoice(uuid.NewString(), userID, clientID, number, lines, vatPercent, issueDate, dueDate)
	if err != nil {
		return nil, err
	}
	if err := u.invoices.Save(ctx, repository.NoTX, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

func (u *invoiceUC) Get(ctx context.Context, userID, id string) (*model.Invoice, error) {
	return u.invoices.FindByID(ctx, repository.NoTX, userID, id)
}

func (u *invoiceUC) List(ctx context.Context, userID string) ([]*model.Invoice, error) {
	return u.invoices.ListByUser(ctx, repository.NoTX, userID)
}

func (u *invoiceUC) Send(ctx context.Context, userID, id string) (*model.Invoice, error) {
	status, err := u.access.Status(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !model.PermissionsFor(status.PlanID).CanSendInvoices {
		return nil, domain.ErrPlanLimitReached
	}

	inv, err := u.invoices.FindByID(ctx, repository.NoTX, userID, id)
	if err != nil {
		return nil, err
	}
	if inv.Status != model.InvoiceStatusDraft && inv.Status != model.InvoiceStatusSent {
		return nil, domain.ErrInvalidArgument
	}
	client, err := u.clients.FindByID(ctx, repository.NoTX, userID, inv.ClientID)
	if err != nil {
		return nil, err
	}
	if client.Email == "" {
		return nil, fmt.Errorf("client %s has no email address: %w", client.ID, domain.ErrInvalidArgument)
	}

	body := fmt.Sprintf(
		"<p>Invoice %s</p><p>Subtotal: %.2f<br>VAT (%d%%): %.2f<br>Total: %.2f</p><p>Due %s.</p>",
		inv.Number,
		float64(inv.SubtotalKobo())/100,
		inv.VATPercent,
		float64(inv.VATKobo())/100,
		float64(inv.TotalKobo())/100,
		inv.DueDate.Format("2 Jan 2006"),
	)
	if err := u.mailer.Send(ctx, client.Email, "Invoice "+inv.Number, body); err != nil {
		return nil, fmt.Errorf("send invoice email: %w", err)
	}

	inv.Status = model.InvoiceStatusSent
	inv.UpdatedAt = time.Now().UTC()
	if err := u.invoices.Save(ctx, repository.NoTX, inv); err != nil {
		return nil, err
	}
	u.log.Info().Str("invoice", inv.Number).Str("client_id", client.ID).Msg("invoice sent")
	return inv, nil
}

func (u *invoiceUC) MarkPaid(ctx context.Context, userID, id string) (*model.Invoice, error) {
	inv, err := u.invoices.FindByID(ctx, repository.NoTX, userID, id)
	if err != nil {
		return nil, err
	}
	if inv.Status == model.InvoiceStatusVoid {
		return nil, domain.ErrInvalidArgument
	}
	if inv.Status == model.InvoiceStatusPaid {
		return inv, nil
	}
	now := time.Now().UTC()
	inv.Status = model.InvoiceStatusPaid
	inv.PaidAt = &now
	inv.UpdatedAt = now
	if err := u.invoices.Save(ctx, repository.NoTX, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

func (u *invoiceUC) Void(ctx context.Context, userID, id string) (*model.Invoice, error) {
	inv, err := u.invoices.FindByID(ctx, repository.NoTX, userID, id)
	if err != nil {
		return nil, err
	}
	if inv.Status == model.InvoiceStatusPaid {
		return nil, domain.ErrInvalidArgument
	}
	inv.Status = model.InvoiceStatusVoid
	inv.UpdatedAt = time.Now().UTC()
	if err := u.invoices.Save(ctx, repository.NoTX, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

func (u *invoiceUC) Delete(ctx context.Context, userID, id string) error {
	inv, err := u.invoices.FindByID(ctx, repository.NoTX, userID, id)
	if err != nil {
		return err
	}
	if inv.Status != model.InvoiceStatusDraft {
		return domain.ErrInvalidArgument
	}
	return u.invoices.Delete(ctx, repository.NoTX, userID, id)
}
