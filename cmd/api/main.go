package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/xavierca1/rewards-onboarding/internal/config"
	"github.com/xavierca1/rewards-onboarding/internal/infra/auth"
	"github.com/xavierca1/rewards-onboarding/internal/infra/database"
	"github.com/xavierca1/rewards-onboarding/internal/infra/http/handlers"
	"github.com/xavierca1/rewards-onboarding/internal/infra/integration/automation"
	"github.com/xavierca1/rewards-onboarding/internal/infra/integration/places"
	"github.com/xavierca1/rewards-onboarding/internal/infra/integration/stripe"
	"github.com/xavierca1/rewards-onboarding/internal/infra/mail"
	"github.com/xavierca1/rewards-onboarding/internal/infra/queue"
	"github.com/xavierca1/rewards-onboarding/internal/infra/redisstore"
	"github.com/xavierca1/rewards-onboarding/internal/infra/worker"
	"github.com/xavierca1/rewards-onboarding/internal/onboarding"
	"github.com/xavierca1/rewards-onboarding/internal/usecase"
)

const (
	activationLockTTL = 30 * time.Second
	shutdownTimeout   = 15 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load config")
	}

	logger := config.NewLogger(cfg.LogLevel)
	logger.WithField("env", cfg.Environment).Info("starting rewards onboarding api")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Database
	db, err := database.NewDBConnection(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to database")
	}
	defer db.Close()

	if err := database.InitSchema(ctx, db); err != nil {
		logger.WithError(err).Fatal("failed to initialize schema")
	}

	userRepo := database.NewUserRepository(db)
	listingRepo := database.NewListingRepository(db)

	// 2. Gateways
	hasher := auth.NewBcryptHasher()
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.SessionTTL)
	validator := usecase.NewValidator(cfg.PhoneRegion)
	placesClient := places.NewClient(cfg.PlacesAPIKey, cfg.PlacesBaseURL)
	stripeClient := stripe.NewClient(cfg.StripeSecretKey, cfg.StripeBaseURL, logger)

	dispatcher := &queue.Dispatcher{Logger: logger}
	if cfg.MailHost != "" {
		dispatcher.Mailer = mail.NewEmailSender(cfg.MailHost, cfg.MailPort, cfg.MailUser, cfg.MailPass, cfg.MailFrom, cfg.AppBaseURL)
	} else {
		logger.Warn("MAIL_HOST not set; welcome emails disabled")
	}
	if cfg.AutomationHookURL != "" {
		dispatcher.Notifier = automation.NewClient(cfg.AutomationHookURL)
	}

	// 3. Queue
	checks := map[string]handlers.HealthCheck{
		"database": db.PingContext,
		"rabbitmq": nil,
		"redis":    nil,
	}

	var publisher queue.Publisher
	var inline *queue.InlinePublisher
	if cfg.RabbitMQURL != "" {
		rabbitMQ, err := queue.NewRabbitMQ(cfg.RabbitMQURL)
		if err != nil {
			logger.WithError(err).Fatal("failed to connect to rabbitmq")
		}
		defer rabbitMQ.Close()

		publisher = queue.NewProducer(rabbitMQ.Ch)
		checks["rabbitmq"] = func(context.Context) error {
			if rabbitMQ.Conn.IsClosed() {
				return errors.New("connection closed")
			}
			return nil
		}

		consumer := queue.NewWorker(rabbitMQ.Ch, dispatcher, logger)
		go func() {
			if err := consumer.Start(ctx, queue.QueueName); err != nil {
				logger.WithError(err).Error("worker stopped")
			}
		}()
	} else {
		logger.Warn("RABBITMQ_URL not set; running tasks in-process")
		inline = queue.NewInlinePublisher(dispatcher, logger)
		publisher = inline
	}

	// 4. Step state
	var (
		store  onboarding.StepStore
		locker onboarding.VisitorLocker
	)
	if cfg.RedisAddress != "" {
		rdb, err := redisstore.NewClient(cfg.RedisAddress, cfg.RedisPassword)
		if err != nil {
			logger.WithError(err).Fatal("failed to connect to redis")
		}
		defer rdb.Close()

		store = redisstore.NewStepStore(rdb, cfg.StepStateTTL)
		locker = redisstore.NewLocker(rdb, activationLockTTL, logger)
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	} else {
		logger.Warn("REDIS_ADDRESS not set; step state kept in memory")
		memStore := onboarding.NewMemoryStore(cfg.StepStateTTL)
		go worker.NewSweepWorker("step_state", memStore, time.Minute, logger).Start(ctx)
		store = memStore
		locker = onboarding.NewMemoryLocker()
	}

	// 5. UseCases
	registerUC := usecase.NewRegisterUserUseCase(userRepo, hasher, validator, logger)
	authenticateUC := usecase.NewAuthenticateUserUseCase(userRepo, hasher, tokens)
	createListingUC := usecase.NewCreateListingUseCase(listingRepo, userRepo, tokens, validator, publisher, logger)
	intakeUC := usecase.NewSubmitIntakeUseCase(createListingUC, tokens, placesClient, validator, logger)
	statusUC := usecase.NewGetListingStatusUseCase(listingRepo)
	checkoutUC := usecase.NewCreateCheckoutUseCase(tokens, userRepo, stripeClient, publisher, logger, cfg.AppBaseURL)

	activation := onboarding.NewActivation(registerUC, authenticateUC, createListingUC, logger)
	machine := onboarding.NewMachine(store, placesClient, activation, locker, validator, logger)
	upsell := onboarding.NewUpsellGate(checkoutUC, logger)

	// 6. Handlers
	secure := cfg.IsProduction()
	srv := &server{
		cfg:        cfg,
		logger:     logger,
		health:     handlers.NewHealthHandler(checks),
		initDB:     handlers.NewInitDBHandler(func(ctx context.Context) error { return database.InitSchema(ctx, db) }, logger),
		places:     handlers.NewPlacesHandler(placesClient, logger),
		auth:       handlers.NewAuthHandler(registerUC, authenticateUC, secure),
		business:   handlers.NewBusinessHandler(createListingUC, intakeUC, statusUC),
		checkout:   handlers.NewCheckoutHandler(checkoutUC),
		onboarding: handlers.NewOnboardingHandler(machine, upsell, secure, logger),
	}

	httpServer := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.WithField("port", cfg.HTTPPort).Info("http server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("http server failed")
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("http shutdown failed")
	}
	if inline != nil {
		inline.Wait()
	}
}

