// File: internal/infra/web/crud_handlers.go
package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"opsdesk/internal/domain"
	"opsdesk/internal/domain/model"
)

// --- clients ---

type clientRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"omitempty,email"`
	Phone string `json:"phone"`
	Notes string `json:"notes"`
}

func (s *Server) handleClientCreate(w http.ResponseWriter, r *http.Request) {
	var req clientRequest
	if err := s.decodeValid(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	c, err := s.clients.Create(r.Context(), userIDFrom(r), req.Name, req.Email, req.Phone, req.Notes)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) handleClientList(w http.ResponseWriter, r *http.Request) {
	list, err := s.clients.List(r.Context(), userIDFrom(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": list})
}

func (s *Server) handleClientGet(w http.ResponseWriter, r *http.Request) {
	c, err := s.clients.Get(r.Context(), userIDFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleClientUpdate(w http.ResponseWriter, r *http.Request) {
	var req clientRequest
	if err := s.decodeValid(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	c, err := s.clients.Update(r.Context(), userIDFrom(r), chi.URLParam(r, "id"), req.Name, req.Email, req.Phone, req.Notes)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleClientDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.clients.Delete(r.Context(), userIDFrom(r), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- jobs ---

type jobCreateRequest struct {
	ClientID     string     `json:"client_id" validate:"required"`
	Title        string     `json:"title" validate:"required"`
	Description  string     `json:"description"`
	AmountKobo   int64      `json:"amount_kobo" validate:"gte=0"`
	ScheduledFor *time.Time `json:"scheduled_for"`
}

func (s *Server) handleJobCreate(w http.ResponseWriter, r *http.Request) {
	var req jobCreateRequest
	if err := s.decodeValid(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	j, err := s.jobs.Create(r.Context(), userIDFrom(r), req.ClientID, req.Title, req.Description, req.AmountKobo, req.ScheduledFor)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, j)
}

func (s *Server) handleJobList(w http.ResponseWriter, r *http.Request) {
	list, err := s.jobs.List(r.Context(), userIDFrom(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": list})
}

func (s *Server) handleJobGet(w http.ResponseWriter, r *http.Request) {
	j, err := s.jobs.Get(r.Context(), userIDFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, j)
}

type jobStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (s *Server) handleJobSetStatus(w http.ResponseWriter, r *http.Request) {
	var req jobStatusRequest
	if err := s.decodeValid(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	j, err := s.jobs.SetStatus(r.Context(), userIDFrom(r), chi.URLParam(r, "id"), model.JobStatus(req.Status))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, j)
}

func (s *Server) handleJobDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.jobs.Delete(r.Context(), userIDFrom(r), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- invoices ---

type invoiceLineRequest struct {
	Description   string `json:"description" validate:"required"`
	Quantity      int64  `json:"quantity" validate:"gt=0"`
	UnitPriceKobo int64  `json:"unit_price_kobo" validate:"gte=0"`
}

type invoiceCreateRequest struct {
	ClientID   string               `json:"client_id" validate:"required"`
	Lines      []invoiceLineRequest `json:"lines" validate:"required,min=1,dive"`
	VATPercent int64                `json:"vat_percent" validate:"gte=0,lte=100"`
	IssueDate  time.Time            `json:"issue_date" validate:"required"`
	DueDate    time.Time            `json:"due_date" validate:"required"`
}

func (s *Server) handleInvoiceCreate(w http.ResponseWriter, r *http.Request) {
	var req invoiceCreateRequest
	if err := s.decodeValid(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	lines := make([]model.InvoiceLine, len(req.Lines))
	for i, l := range req.Lines {
		lines[i] = model.InvoiceLine{Description: l.Description, Quantity: l.Quantity, UnitPriceKobo: l.UnitPriceKobo}
	}
	inv, err := s.invoices.Create(r.Context(), userIDFrom(r), req.ClientID, lines, req.VATPercent, req.IssueDate, req.DueDate)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, inv)
}

func (s *Server) handleInvoiceList(w http.ResponseWriter, r *http.Request) {
	list, err := s.invoices.List(r.Context(), userIDFrom(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": list})
}

func (s *Server) handleInvoiceGet(w http.ResponseWriter, r *http.Request) {
	inv, err := s.invoices.Get(r.Context(), userIDFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

func (s *Server) handleInvoiceSend(w http.ResponseWriter, r *http.Request) {
	inv, err := s.invoices.Send(r.Context(), userIDFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

func (s *Server) handleInvoiceMarkPaid(w http.ResponseWriter, r *http.Request) {
	inv, err := s.invoices.MarkPaid(r.Context(), userIDFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

func (s *Server) handleInvoiceVoid(w http.ResponseWriter, r *http.Request) {
	inv, err := s.invoices.Void(r.Context(), userIDFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

func (s *Server) handleInvoiceDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.invoices.Delete(r.Context(), userIDFrom(r), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- expenses ---

type expenseRequest struct {
	Category   string    `json:"category" validate:"required"`
	AmountKobo int64     `json:"amount_kobo" validate:"gt=0"`
	IncurredOn time.Time `json:"incurred_on" validate:"required"`
	Notes      string    `json:"notes"`
}

func (s *Server) handleExpenseCreate(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := s.decodeValid(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	e, err := s.expenses.Create(r.Context(), userIDFrom(r), req.Category, req.AmountKobo, req.IncurredOn, req.Notes)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (s *Server) handleExpenseList(w http.ResponseWriter, r *http.Request) {
	list, err := s.expenses.List(r.Context(), userIDFrom(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": list})
}

func (s *Server) handleExpenseGet(w http.ResponseWriter, r *http.Request) {
	e, err := s.expenses.Get(r.Context(), userIDFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) handleExpenseUpdate(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := s.decodeValid(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	e, err := s.expenses.Update(r.Context(), userIDFrom(r), chi.URLParam(r, "id"), req.Category, req.AmountKobo, req.IncurredOn, req.Notes)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) handleExpenseDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.expenses.Delete(r.Context(), userIDFrom(r), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- reports ---

// handleReportSummary aggregates invoiced, paid, VAT and expense totals for
// ?from=YYYY-MM-DD&to=YYYY-MM-DD. Defaults to the current calendar month.
func (s *Server) handleReportSummary(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	var err error
	if v := r.URL.Query().Get("from"); v != "" {
		if from, err = time.Parse("2006-01-02", v); err != nil {
			s.writeError(w, r, domain.ErrInvalidArgument)
			return
		}
	}
	if v := r.URL.Query().Get("to"); v != "" {
		if to, err = time.Parse("2006-01-02", v); err != nil {
			s.writeError(w, r, domain.ErrInvalidArgument)
			return
		}
	}

	sum, err := s.reports.Summary(r.Context(), userIDFrom(r), from, to)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"from":          sum.From,
		"to":            sum.To,
		"invoiced_kobo": sum.InvoicedKobo,
		"paid_kobo":     sum.PaidKobo,
		"vat_kobo":      sum.VATKobo,
		"expenses_kobo": sum.ExpensesKobo,
		"net_kobo":      sum.NetKobo,
	})
}
