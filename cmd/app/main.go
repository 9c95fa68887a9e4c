// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"opsdesk/internal/config"
	pg "opsdesk/internal/infra/db/postgres"
	"opsdesk/internal/infra/logging"
	"opsdesk/internal/infra/mail"
	"opsdesk/internal/infra/metrics"
	"opsdesk/internal/infra/payment"
	red "opsdesk/internal/infra/redis"
	"opsdesk/internal/infra/sched"
	"opsdesk/internal/infra/web"
	"opsdesk/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, insecure cookies)")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Warn().Msg("dev mode enabled")
	}

	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := pg.Connect(ctx, cfg.Database.URL)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres connect failed")
	}
	defer pool.Close()

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis connect failed")
	}
	defer redisClient.Close()
	locker := red.NewLocker(redisClient)
	rateLimiter := red.NewRateLimiter(redisClient)

	// ---- Repositories ----
	txManager := pg.NewTxManager(pool)
	userRepo := pg.NewUserRepo(pool)
	clientRepo := pg.NewClientRepo(pool)
	jobRepo := pg.NewJobRepo(pool)
	invoiceRepo := pg.NewInvoiceRepo(pool)
	expenseRepo := pg.NewExpenseRepo(pool)
	paymentRepo := pg.NewPaymentRepo(pool)
	subRepo := pg.NewSubscriptionRepo(pool)
	purchaseRepo := pg.NewPurchaseRepo(pool)

	// ---- Adapters ----
	gateway := payment.NewPaystackGateway(cfg.Paystack.SecretKey, cfg.Paystack.BaseURL)
	mailer := mail.NewSMTPMailer(cfg.Mail)

	// ---- Use cases ----
	userUC := usecase.NewUserUseCase(userRepo, logger)
	subUC := usecase.NewSubscriptionUseCase(subRepo, purchaseRepo, logger)
	billingUC := usecase.NewBillingUseCase(paymentRepo, gateway, logger)
	reconcileUC := usecase.NewReconcileUseCase(paymentRepo, subRepo, purchaseRepo, userRepo, gateway, txManager, locker, mailer, logger)
	clientUC := usecase.NewClientUseCase(clientRepo, subUC, logger)
	jobUC := usecase.NewJobUseCase(jobRepo, clientRepo, logger)
	invoiceUC := usecase.NewInvoiceUseCase(invoiceRepo, clientRepo, subUC, mailer, logger)
	expenseUC := usecase.NewExpenseUseCase(expenseRepo, logger)
	reportUC := usecase.NewReportUseCase(invoiceRepo, expenseRepo, logger)

	// ---- HTTP server ----
	server := web.NewServer(cfg, userUC, billingUC, reconcileUC, subUC, clientUC, jobUC, invoiceUC, expenseUC, reportUC, rateLimiter, logger)
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	// ---- Workers ----
	reconciler := sched.NewPaymentReconciler(reconcileUC, cfg.Sched.ReconcileInterval, cfg.Sched.StaleAfter, logger)
	go func() { _ = reconciler.Run(ctx) }()

	expiry := sched.NewExpiryWorker(cfg.Sched.ExpiryInterval, subRepo, purchaseRepo, logger)
	go func() { _ = expiry.Run(ctx) }()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown failed")
	}
}
