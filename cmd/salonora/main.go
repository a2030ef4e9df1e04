package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/salonora/salonora/internal/admin"
	"github.com/salonora/salonora/internal/app"
	"github.com/salonora/salonora/internal/auth"
	"github.com/salonora/salonora/internal/billing/coupons"
	"github.com/salonora/salonora/internal/billing/memberships"
	"github.com/salonora/salonora/internal/billing/payouts"
	"github.com/salonora/salonora/internal/catalog/branches"
	"github.com/salonora/salonora/internal/catalog/categories"
	"github.com/salonora/salonora/internal/catalog/services"
	"github.com/salonora/salonora/internal/media"
	"github.com/salonora/salonora/internal/options"
	"github.com/salonora/salonora/internal/orders"
	"github.com/salonora/salonora/internal/platform/cache"
	"github.com/salonora/salonora/internal/platform/db"
	"github.com/salonora/salonora/internal/shared"
	"github.com/salonora/salonora/internal/signup"
	"github.com/salonora/salonora/internal/staff/managers"
	"github.com/salonora/salonora/internal/upload"
	"github.com/salonora/salonora/jobs"
)

type statementQueue struct {
	client *jobs.Client
}

func (q statementQueue) QueueStatement(ctx context.Context, salonID string) error {
	return q.client.EnqueuePayoutStatement(ctx, jobs.PayoutStatementPayload{SalonID: salonID})
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "salonora_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)
	auditLogger := shared.NewAuditLogger(dbpool)

	optionLoader := options.NewLoader(options.NewPGSource(dbpool), redisClient, cfg.OptionCacheTTL, logger)

	authRepo := auth.NewRepository(dbpool)
	authService := auth.NewService(authRepo)
	authHandler := auth.NewHandler(logger, authService, sessionManager, csrfManager)

	jobsClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init jobs client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobsClient.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()

	paymentGateway := signup.NewHTTPGateway(cfg.PaymentBaseURL, cfg.PaymentKeyID, cfg.PaymentKeySecret)
	signupRepo := signup.NewRepository(dbpool)
	signupService := signup.NewService(logger, signupRepo, paymentGateway, jobsClient)
	signupHandler := signup.NewHandler(logger, signupService)

	branchRepo := branches.NewRepository(dbpool)
	branchService := branches.NewService(branchRepo, optionLoader)
	branchHandler := branches.NewHandler(logger, branchService)

	serviceRepo := services.NewRepository(dbpool)
	serviceManager := services.NewManager(serviceRepo, optionLoader)
	serviceHandler := services.NewHandler(logger, serviceManager)

	categoryRepo := categories.NewRepository(dbpool)
	categoryManager := categories.NewManager(categoryRepo, optionLoader)
	categoryHandler := categories.NewHandler(logger, categoryManager)

	adminRepo := admin.NewRepository(dbpool)
	adminEngine := admin.NewEngine(adminRepo, optionLoader)
	adminHandler := admin.NewHandler(logger, adminEngine)

	couponRepo := coupons.NewRepository(dbpool)
	couponService := coupons.NewService(couponRepo)
	couponHandler := coupons.NewHandler(logger, couponService)

	membershipRepo := memberships.NewRepository(dbpool)
	membershipService := memberships.NewService(membershipRepo)
	membershipHandler := memberships.NewHandler(logger, membershipService)

	payoutRepo := payouts.NewRepository(dbpool)
	payoutService := payouts.NewService(payoutRepo)
	payoutHandler := payouts.NewHandler(logger, payoutService, statementQueue{client: jobsClient})

	managerRepo := managers.NewRepository(dbpool)
	managerService := managers.NewService(managerRepo, optionLoader)
	managerHandler := managers.NewHandler(logger, managerService)

	orderRepo := orders.NewRepository(dbpool)
	orderService := orders.NewService(orderRepo)
	orderHandler := orders.NewHandler(logger, orderService)

	mediaHandler := media.NewHandler(logger, upload.NewPipeline(logger))

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:         logger,
		Config:         cfg,
		SessionManager: sessionManager,
		CSRFManager:    csrfManager,
		AuditLogger:    auditLogger,

		AuthHandler:       authHandler,
		SignupHandler:     signupHandler,
		BranchHandler:     branchHandler,
		ServiceHandler:    serviceHandler,
		CategoryHandler:   categoryHandler,
		AdminHandler:      adminHandler,
		CouponHandler:     couponHandler,
		MembershipHandler: membershipHandler,
		PayoutHandler:     payoutHandler,
		ManagerHandler:    managerHandler,
		OrderHandler:      orderHandler,
		MediaHandler:      mediaHandler,
		JobHandler:        jobHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
