package model

import (
	"time"

	"opsdesk/internal/domain"
)

type InvoiceStatus string

const (
	InvoiceStatusDraft InvoiceStatus = "draft"
	InvoiceStatusSent  InvoiceStatus = "sent"
	InvoiceStatusPaid  InvoiceStatus = "paid"
	InvoiceStatusVoid  InvoiceStatus = "void"
)

// InvoiceLine is one billable line item. Prices are in kobo.
type InvoiceLine struct {
	Description   string `json:"description"`
	Quantity      int64  `json:"quantity"`
	UnitPriceKobo int64  `json:"unit_price_kobo"`
}

func (l InvoiceLine) TotalKobo() int64 { return l.Quantity * l.UnitPriceKobo }

// Invoice is a bill issued to a client. VAT is a whole-number percentage
// applied to the subtotal; all arithmetic stays in integer kobo.
type Invoice struct {
	ID         string // UUID
	UserID     string
	ClientID   string
	Number     string // e.g. INV-0007, sequential per account
	Status     InvoiceStatus
	Lines      []InvoiceLine
	VATPercent int64
	IssueDate  time.Time
	DueDate    time.Time
	PaidAt     *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func NewInvoice(id, userID, clientID, number string, lines []InvoiceLine, vatPercent int64, issueDate, dueDate time.Time) (*Invoice, error) {
	if id == "" || userID == "" || clientID == "" || number == "" || len(lines) == 0 {
		return nil, domain.ErrInvalidArgument
	}
	if vatPercent < 0 || vatPercent > 100 {
		return nil, domain.ErrInvalidArgument
	}
	for _, l := range lines {
		if l.Description == "" || l.Quantity <= 0 || l.UnitPriceKobo < 0 {
			return nil, domain.ErrInvalidArgument
		}
	}
	now := time.Now().UTC()
	return &Invoice{
		ID:         id,
		UserID:     userID,
		ClientID:   clientID,
		Number:     number,
		Status:     InvoiceStatusDraft,
		Lines:      lines,
		VATPercent: vatPercent,
		IssueDate:  issueDate,
		DueDate:    dueDate,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// SubtotalKobo is the sum of line totals before VAT.
func (inv *Invoice) SubtotalKobo() int64 {
	var sum int64
	for _, l := range inv.Lines {
		sum += l.TotalKobo()
	}
	return sum
}

// VATKobo is the VAT amount on the subtotal, rounded half up.
func (inv *Invoice) VATKobo() int64 {
	return (inv.SubtotalKobo()*inv.VATPercent + 50) / 100
}

// TotalKobo is subtotal plus VAT.
func (inv *Invoice) TotalKobo() int64 {
	return inv.SubtotalKobo() + inv.VATKobo()
}
