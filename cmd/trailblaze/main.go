package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	campgroundapp "trailblaze/internal/app/campgrounds"
	"trailblaze/internal/app/commands"
	"trailblaze/internal/app/middleware"
	appoutbox "trailblaze/internal/app/outbox"
	"trailblaze/internal/app/queries"
	reviewapp "trailblaze/internal/app/reviews"
	authsvc "trailblaze/internal/app/services/auth"
	"trailblaze/internal/app/uow"
	domaincampground "trailblaze/internal/domain/campground"
	domainreview "trailblaze/internal/domain/review"
	domainuser "trailblaze/internal/domain/user"
	kafkabroker "trailblaze/internal/infra/broker/kafka"
	"trailblaze/internal/infra/config"
	mongodb "trailblaze/internal/infra/db/mongo"
	"trailblaze/internal/infra/geo"
	ginserver "trailblaze/internal/infra/http/gin"
	"trailblaze/internal/infra/obs"
	infraoutbox "trailblaze/internal/infra/outbox"
	"trailblaze/internal/infra/security"
	"trailblaze/internal/infra/storage/memory"
	"trailblaze/internal/infra/storage/s3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration invalid", "error", err)
		os.Exit(1)
	}
	logger := obs.NewLogger(cfg.Env)

	app, err := buildApplication(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{
		Ready: app.ready,
	}, app.handlers)

	if app.worker != nil {
		go func() {
			if err := app.worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("outbox worker stopped", "error", err)
			}
		}()
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
		app.close()
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

type application struct {
	handlers ginserver.Handlers
	worker   *infraoutbox.Worker
	ready    func() error
	close    func()
}

func buildApplication(ctx context.Context, cfg config.Config, logger *slog.Logger) (application, error) {
	var (
		campgroundRepo domaincampground.Repository
		reviewRepo     domainreview.Repository
		userRepo       domainuser.Repository
		uowFactory     uow.UoWFactory
		outboxStore    appoutbox.Outbox
		outboxQueue    infraoutbox.Queue
		ready          = func() error { return nil }
	)

	if cfg.MongoURI != "" {
		client, err := mongodb.New(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return application{}, err
		}
		users := mongodb.NewUserRepository(client.DB)
		if err := users.EnsureIndexes(ctx); err != nil {
			logger.Warn("user indexes not ensured", "error", err)
		}
		store := infraoutbox.NewStore(client.DB)

		campgroundRepo = mongodb.NewCampgroundRepository(client.DB)
		reviewRepo = mongodb.NewReviewRepository(client.DB)
		userRepo = users
		uowFactory = mongodb.Factory{
			DB:             client.DB,
			CampgroundRepo: campgroundRepo,
			ReviewRepo:     reviewRepo,
			UserRepo:       userRepo,
		}
		outboxStore = store
		outboxQueue = store
		ready = func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return client.Ping(pingCtx)
		}
		logger.Info("storage backend configured", "backend", "mongo", "database", cfg.MongoDB)
	} else {
		memOutbox := memory.NewOutbox()
		campgroundRepo = memory.NewCampgroundRepository()
		reviewRepo = memory.NewReviewRepository()
		userRepo = memory.NewUserRepository()
		uowFactory = memory.Factory{
			CampgroundRepo: campgroundRepo,
			ReviewRepo:     reviewRepo,
			UserRepo:       userRepo,
		}
		outboxStore = memOutbox
		outboxQueue = memOutbox
		logger.Warn("MONGO_URI not set, using in-memory storage")
	}

	sessions := memory.NewSessionStore()
	authService := &authsvc.Service{
		Users:      userRepo,
		Sessions:   sessions,
		Passwords:  security.BcryptHasher{Cost: cfg.BcryptCost},
		Tokens:     security.RandomTokenGenerator{},
		SessionTTL: cfg.SessionTTL,
		Logger:     logger,
	}

	geocoder := geo.NewMapTilerClient(cfg.MapTilerURL, cfg.MapTilerKey, cfg.GeocodeTimeout, logger)
	if cfg.MapTilerKey == "" {
		logger.Warn("MAPTILER_KEY not set, campground mutations will fail at geocoding")
	}

	var photoStorage s3.Storage
	if store, err := s3.NewClient(cfg.S3Endpoint, cfg.S3UseSSL, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3PublicEndpoint, logger); err != nil {
		logger.Warn("object storage unavailable, photo uploads will fail", "error", err)
		photoStorage = s3.NoopStorage{}
	} else {
		photoStorage = store
	}

	encoder := appoutbox.JSONEventEncoder{}

	commandBus := commands.NewInMemoryBus()
	commands.RegisterHandler(commandBus, campgroundapp.CreateCampgroundCommand{}.Key(), &campgroundapp.CreateCampgroundHandler{
		Geocoder: geocoder,
		Storage:  photoStorage,
		Outbox:   outboxStore,
		Encoder:  encoder,
		Logger:   logger,
	})
	commands.RegisterHandler(commandBus, campgroundapp.UpdateCampgroundCommand{}.Key(), &campgroundapp.UpdateCampgroundHandler{
		Geocoder: geocoder,
		Storage:  photoStorage,
		Outbox:   outboxStore,
		Encoder:  encoder,
		Logger:   logger,
	})
	commands.RegisterHandler(commandBus, campgroundapp.DeleteCampgroundCommand{}.Key(), &campgroundapp.DeleteCampgroundHandler{
		Outbox:  outboxStore,
		Encoder: encoder,
		Logger:  logger,
	})
	commands.RegisterHandler(commandBus, reviewapp.PostReviewCommand{}.Key(), &reviewapp.PostReviewHandler{
		Outbox:  outboxStore,
		Encoder: encoder,
		Logger:  logger,
	})
	commands.RegisterHandler(commandBus, reviewapp.DeleteReviewCommand{}.Key(), &reviewapp.DeleteReviewHandler{
		Outbox:  outboxStore,
		Encoder: encoder,
		Logger:  logger,
	})

	queryBus := queries.NewInMemoryBus()
	queries.RegisterHandler(queryBus, campgroundapp.GetCampgroundQuery{}.Key(), &campgroundapp.GetCampgroundHandler{
		UoWFactory: uowFactory,
	})
	queries.RegisterHandler(queryBus, campgroundapp.ListCampgroundsQuery{}.Key(), &campgroundapp.ListCampgroundsHandler{
		UoWFactory: uowFactory,
	})

	commandBusWithMiddleware := middleware.ChainCommands(
		commandBus,
		middleware.Transaction(uowFactory, nil),
	)
	queryBusWithMiddleware := middleware.ChainQueries(queryBus)

	var worker *infraoutbox.Worker
	closeFuncs := []func(){}
	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafkabroker.NewProducer(cfg.KafkaBrokers, nil)
		if err != nil {
			return application{}, err
		}
		closeFuncs = append(closeFuncs, func() {
			if err := producer.Close(); err != nil {
				logger.Warn("kafka producer close failed", "error", err)
			}
		})
		worker = &infraoutbox.Worker{
			Queue:       outboxQueue,
			Producer:    producer,
			Interval:    cfg.OutboxPollInterval,
			TopicPrefix: cfg.KafkaTopicPrefix,
		}
		logger.Info("outbox publisher configured", "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("KAFKA_BROKERS not set, outbox publisher disabled")
	}

	authMW := ginserver.AuthMiddleware{Service: authService, Logger: logger}

	return application{
		handlers: ginserver.Handlers{
			Auth: ginserver.AuthHandler{
				Service: authService,
				Logger:  logger,
			},
			Campground: ginserver.CampgroundHandler{
				Commands: commandBusWithMiddleware,
				Queries:  queryBusWithMiddleware,
				Logger:   logger,
			},
			Review: ginserver.ReviewHandler{
				Commands: commandBusWithMiddleware,
				Logger:   logger,
			},
			AuthMiddleware: authMW.Handle,
		},
		worker: worker,
		ready:  ready,
		close: func() {
			for _, fn := range closeFuncs {
				fn()
			}
		},
	}, nil
}
