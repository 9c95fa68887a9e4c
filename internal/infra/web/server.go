// File: internal/infra/web/server.go
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"opsdesk/internal/config"
	"opsdesk/internal/domain"
	"opsdesk/internal/infra/metrics"
	"opsdesk/internal/usecase"
)

// RateLimiter throttles brute-force-prone endpoints. Implemented by the redis
// fixed-window counter.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

type Server struct {
	cfg       *config.Config
	users     usecase.UserUseCase
	billing   usecase.BillingUseCase
	reconcile usecase.ReconcileUseCase
	subs      usecase.SubscriptionUseCase
	clients   usecase.ClientUseCase
	jobs      usecase.JobUseCase
	invoices  usecase.InvoiceUseCase
	expenses  usecase.ExpenseUseCase
	reports   usecase.ReportUseCase
	poller    *usecase.StatusPoller
	limiter   RateLimiter
	validate  *validator.Validate
	log       *zerolog.Logger
	srv       *http.Server
}

func NewServer(
	cfg *config.Config,
	users usecase.UserUseCase,
	billing usecase.BillingUseCase,
	reconcile usecase.ReconcileUseCase,
	subs usecase.SubscriptionUseCase,
	clients usecase.ClientUseCase,
	jobs usecase.JobUseCase,
	invoices usecase.InvoiceUseCase,
	expenses usecase.ExpenseUseCase,
	reports usecase.ReportUseCase,
	limiter RateLimiter,
	log *zerolog.Logger,
) *Server {
	return &Server{
		cfg:       cfg,
		users:     users,
		billing:   billing,
		reconcile: reconcile,
		subs:      subs,
		clients:   clients,
		jobs:      jobs,
		invoices:  invoices,
		expenses:  expenses,
		reports:   reports,
		poller:    usecase.NewStatusPoller(billing),
		limiter:   limiter,
		validate:  validator.New(),
		log:       log,
	}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.metricsMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK")
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		// Unauthenticated: the gateway signs its own requests.
		r.Post("/webhooks/paystack", s.handlePaystackWebhook)

		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)
		r.Post("/auth/logout", s.handleLogout)

		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			r.Get("/me", s.handleMe)

			r.Post("/checkout/subscription", s.handleCheckoutSubscription)
			r.Post("/checkout/purchase", s.handleCheckoutPurchase)
			r.Get("/payment/verify", s.handlePaymentVerify)
			r.Get("/payment/wait", s.handlePaymentWait)
			r.Get("/subscription/status", s.handleSubscriptionStatus)
			r.Post("/subscription/cancel", s.handleSubscriptionCancel)

			r.Route("/clients", func(r chi.Router) {
				r.Post("/", s.handleClientCreate)
				r.Get("/", s.handleClientList)
				r.Get("/{id}", s.handleClientGet)
				r.Put("/{id}", s.handleClientUpdate)
				r.Delete("/{id}", s.handleClientDelete)
			})

			r.Route("/jobs", func(r chi.Router) {
				r.Post("/", s.handleJobCreate)
				r.Get("/", s.handleJobList)
				r.Get("/{id}", s.handleJobGet)
				r.Post("/{id}/status", s.handleJobSetStatus)
				r.Delete("/{id}", s.handleJobDelete)
			})

			r.Route("/invoices", func(r chi.Router) {
				r.Post("/", s.handleInvoiceCreate)
				r.Get("/", s.handleInvoiceList)
				r.Get("/{id}", s.handleInvoiceGet)
				r.Post("/{id}/send", s.handleInvoiceSend)
				r.Post("/{id}/pay", s.handleInvoiceMarkPaid)
				r.Post("/{id}/void", s.handleInvoiceVoid)
				r.Delete("/{id}", s.handleInvoiceDelete)
			})

			r.Route("/expenses", func(r chi.Router) {
				r.Post("/", s.handleExpenseCreate)
				r.Get("/", s.handleExpenseList)
				r.Get("/{id}", s.handleExpenseGet)
				r.Put("/{id}", s.handleExpenseUpdate)
				r.Delete("/{id}", s.handleExpenseDelete)
			})

			r.Get("/reports/summary", s.handleReportSummary)
		})
	})

	return r
}

func (s *Server) Start() error {
	s.srv = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Server.Port),
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.log.Info().Int("port", s.cfg.Server.Port).Msg("http server listening")
	return s.srv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

func (s *Server) metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		routePattern := chi.RouteContext(r.Context()).RoutePattern()
		statusClass := fmt.Sprintf("%dxx", ww.Status()/100)
		metrics.ObserveHTTPRequest(routePattern, r.Method, statusClass, float64(time.Since(start).Milliseconds()))
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain sentinels onto HTTP statuses.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var status int
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrAlreadyExists):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, domain.ErrPlanLimitReached), errors.Is(err, domain.ErrNoActiveSubscription):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrNotConfigured):
		status = http.StatusServiceUnavailable
	default:
		status = http.StatusInternalServerError
	}
	if status >= 500 {
		s.log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeJSON(w, status, map[string]string{"error": "internal error"})
		return
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// decodeValid decodes the JSON body into dst and runs struct validation.
func (s *Server) decodeValid(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", domain.ErrInvalidArgument)
	}
	if err := s.validate.Struct(dst); err != nil {
		return fmt.Errorf("%s: %w", err.Error(), domain.ErrInvalidArgument)
	}
	return nil
}
