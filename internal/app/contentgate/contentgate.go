package contentgate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/content-gate/internal/cache"
	"github.com/magabrotheeeer/content-gate/internal/config"
	"github.com/magabrotheeeer/content-gate/internal/http/handlers/health"
	"github.com/magabrotheeeer/content-gate/internal/lib/jwt"
	"github.com/magabrotheeeer/content-gate/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/content-gate/internal/lib/sl"
	"github.com/magabrotheeeer/content-gate/internal/migrations"
	"github.com/magabrotheeeer/content-gate/internal/platform"
	"github.com/magabrotheeeer/content-gate/internal/services/bridge"
	contentservice "github.com/magabrotheeeer/content-gate/internal/services/content"
	"github.com/magabrotheeeer/content-gate/internal/services/entitlement"
	"github.com/magabrotheeeer/content-gate/internal/services/ledger"
	"github.com/magabrotheeeer/content-gate/internal/services/pending"
	"github.com/magabrotheeeer/content-gate/internal/storage/repository"
)

// ErrAMQPClosed соединение с брокером закрыто.
var ErrAMQPClosed = errors.New("amqp connection is closed")

// App HTTP-сервис и потребитель сообщений моста.
type App struct {
	server     *http.Server
	logger     *slog.Logger
	db         *repository.Storage
	cache      *cache.Cache
	conn       *amqp.Connection
	bridgeCh   *amqp.Channel
	notifyCh   *amqp.Channel
	registry   *entitlement.Registry
	dispatcher *bridge.Dispatcher
}

// New поднимает зависимости: базу с миграциями, Redis, брокер, реестр движков.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.contentgate.New"

	db, err := repository.New(ctx, cfg.StorageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		_ = cacheRedis.Db.Close()
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	bridgeCh, err := rabbitmq.SetupChannel(conn, rabbitmq.BridgeExchange, rabbitmq.GetBridgeQueues())
	if err != nil {
		_ = conn.Close()
		_ = cacheRedis.Db.Close()
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	notifyCh, err := rabbitmq.SetupChannel(conn, rabbitmq.NotificationsExchange, rabbitmq.GetNotificationQueues())
	if err != nil {
		_ = conn.Close()
		_ = cacheRedis.Db.Close()
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	platformClient := platform.NewClient(cfg.PlatformBaseURL, cfg.PlatformAPIKey, cfg.PlatformTimeout, logger)
	if !platformClient.Enabled() {
		logger.Warn("platform billing is not configured, mobile plans resolve from the ledger only")
	}

	contentService := contentservice.New(db, cacheRedis, cfg.ContentCacheTTL, logger)

	registry := entitlement.NewRegistry(entitlement.Deps{
		Ledger:      ledger.New(db, logger),
		Pending:     pending.New(cacheRedis.Db, cfg.PendingTokenTTL),
		Invalidator: contentService,
		Platform: func(userID string) entitlement.Platform {
			return platformClient.ForUser(userID)
		},
		PurchaseRefreshDelay: cfg.PurchaseRefreshDelay,
	}, logger)

	dispatcher, err := bridge.New(
		bridge.RegistryEngines{Registry: registry},
		rabbitmq.NewPublisher(notifyCh, rabbitmq.NotificationsExchange, rabbitmq.PurchaseRoutingKey),
		logger,
	)
	if err != nil {
		_ = conn.Close()
		_ = cacheRedis.Db.Close()
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, Deps{
		Tokens:   jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL),
		Registry: registry,
		Content:  contentService,
		Checks: map[string]health.Check{
			"postgres": db.DB.PingContext,
			"redis": func(ctx context.Context) error {
				return cacheRedis.Db.Ping(ctx).Err()
			},
			"rabbitmq": func(_ context.Context) error {
				if conn.IsClosed() {
					return ErrAMQPClosed
				}
				return nil
			},
		},
	})

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:     srv,
		logger:     logger,
		db:         db,
		cache:      cacheRedis,
		conn:       conn,
		bridgeCh:   bridgeCh,
		notifyCh:   notifyCh,
		registry:   registry,
		dispatcher: dispatcher,
	}, nil
}

// Run запускает потребителя моста, затем HTTP-сервер, и ждёт отмены ctx.
func (a *App) Run(ctx context.Context) error {
	// Сообщения моста должны обрабатываться до первого запроса клиента.
	if err := rabbitmq.ConsumerMessage(ctx, a.bridgeCh, rabbitmq.BridgeQueue, a.logger, a.dispatcher.HandleDelivery); err != nil {
		a.logger.Error("failed to start bridge consumer", sl.Err(err))
		a.close()
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

func (a *App) close() {
	a.registry.Close()
	if err := a.bridgeCh.Close(); err != nil {
		a.logger.Error("failed to close bridge channel", sl.Err(err))
	}
	if err := a.notifyCh.Close(); err != nil {
		a.logger.Error("failed to close notifications channel", sl.Err(err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close rabbitmq connection", sl.Err(err))
	}
	if err := a.cache.Db.Close(); err != nil {
		a.logger.Error("failed to close redis", sl.Err(err))
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close database", sl.Err(err))
	}
}
