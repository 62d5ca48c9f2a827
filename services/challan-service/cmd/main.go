package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/vasapolrittideah/challan-api/services/challan-service/internal/config"
	"github.com/vasapolrittideah/challan-api/services/challan-service/internal/handler"
	"github.com/vasapolrittideah/challan-api/services/challan-service/internal/repository"
	"github.com/vasapolrittideah/challan-api/services/challan-service/internal/usecase"
	"github.com/vasapolrittideah/challan-api/services/challan-service/internal/webhook"
	"github.com/vasapolrittideah/challan-api/shared/auth"
	"github.com/vasapolrittideah/challan-api/shared/discovery"
	"github.com/vasapolrittideah/challan-api/shared/logger"
	"github.com/vasapolrittideah/challan-api/shared/security"
	"github.com/vasapolrittideah/challan-api/shared/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLogger := zerolog.New(os.Stderr).With().Timestamp().Logger()
		bootLogger.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.New(cfg.ServiceName, cfg.LogLevel, cfg.Development())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	jwtAuth, err := auth.NewJWTAuthenticator(cfg.Token.SecretKey, cfg.Token.Algorithm, cfg.Token.Issuer, cfg.Token.Issuer)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create JWT authenticator")
	}

	hasher, err := security.NewHasher(security.Scheme(cfg.Hash.Scheme), cfg.Hash.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create password hasher")
	}

	v, err := validator.New()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create request validator")
	}

	userRepo, healthCheck, closeStore := newUserRepository(ctx, cfg, log)
	defer closeStore()

	webhookClient := webhook.NewClient(webhook.Options{
		Timeout:    cfg.Webhook.Timeout,
		MaxRetries: cfg.Webhook.MaxRetries,
		Backoff:    cfg.Webhook.Backoff,
	}, log)

	router := handler.NewRouter(handler.RouterDeps{
		Logger:            log,
		AuthUsecase:       usecase.NewAuthUsecase(userRepo, hasher, jwtAuth, cfg.Token, log),
		SubmissionUsecase: usecase.NewSubmissionUsecase(webhookClient, cfg.Webhook, log),
		JWTAuth:           jwtAuth,
		Validator:         v,
		HealthCheck:       healthCheck,
		MaxUploadBytes:    cfg.HTTP.MaxUploadBytes,
	})

	server := newHTTPServer(cfg, router)

	registrar := registerService(cfg, log)

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Msg("starting HTTP server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	case err := <-serverErr:
		if err != nil {
			log.Error().Err(err).Msg("HTTP server stopped unexpectedly")
		}
	}

	if registrar != nil {
		if err := registrar.Deregister(); err != nil {
			log.Warn().Err(err).Msg("failed to deregister service")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("failed to shut down HTTP server gracefully")
	}
}

func newHTTPServer(cfg *config.ChallanServiceConfig, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           h,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	}
}

// newUserRepository opens the configured account store. The returned health check
// and close function belong to the same store.
func newUserRepository(
	ctx context.Context,
	cfg *config.ChallanServiceConfig,
	log *zerolog.Logger,
) (repository.UserRepository, handler.HealthChecker, func()) {
	if cfg.Mongo.StorageDriver == config.StorageMemory {
		log.Warn().Msg("using in-memory user storage; accounts are lost on restart")
		return repository.NewUserMemoryRepository(), nil, func() {}
	}

	client, err := mongo.Connect(options.Client().
		ApplyURI(cfg.Mongo.URL).
		SetConnectTimeout(cfg.Mongo.ConnectTimeout).
		SetServerSelectionTimeout(cfg.Mongo.ConnectTimeout))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create MongoDB client")
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.Mongo.ConnectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		log.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}

	repo, err := repository.NewUserMongoRepository(pingCtx, log, client.Database(cfg.Mongo.Database))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize user repository")
	}

	healthCheck := func(ctx context.Context) error {
		return client.Ping(ctx, readpref.Primary())
	}

	closeFn := func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), cfg.Mongo.ConnectTimeout)
		defer cancel()
		if err := client.Disconnect(disconnectCtx); err != nil {
			log.Error().Err(err).Msg("failed to disconnect from MongoDB")
		}
	}

	return repo, healthCheck, closeFn
}

func registerService(cfg *config.ChallanServiceConfig, log *zerolog.Logger) *discovery.Registrar {
	if cfg.Consul.Addr == "" {
		return nil
	}

	registrar, err := discovery.NewRegistrar(cfg.Consul.Addr, log)
	if err != nil {
		log.Warn().Err(err).Msg("service discovery disabled")
		return nil
	}

	host := cfg.Consul.ServiceAddress
	if host == "" {
		host, _ = os.Hostname()
	}

	if err := registrar.Register(discovery.ServiceInfo{
		Name:       cfg.ServiceName,
		Host:       host,
		Port:       cfg.HTTP.Port,
		HealthPath: "/healthz",
	}); err != nil {
		log.Warn().Err(err).Msg("service discovery disabled")
		return nil
	}

	return registrar
}
