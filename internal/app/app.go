package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/qs-lzh/concert-storefront/config"
	"github.com/qs-lzh/concert-storefront/internal/api"
	"github.com/qs-lzh/concert-storefront/internal/cache"
	"github.com/qs-lzh/concert-storefront/internal/model"
	"github.com/qs-lzh/concert-storefront/internal/mq"
	"github.com/qs-lzh/concert-storefront/internal/repository"
	"github.com/qs-lzh/concert-storefront/internal/service/domain"
	"github.com/qs-lzh/concert-storefront/internal/service/workflow"
)

const sessionSweepInterval = 10 * time.Minute

type App struct {
	Config *config.Config
	Logger *zap.Logger

	// infrastructure, each nil unless selected by config
	DB       *gorm.DB
	Cache    *cache.RedisCache
	MQConn   *amqp.Connection
	producer *mq.Producer

	SessionRepo repository.SessionRepo
	Storage     domain.SessionStorage
	Publisher   mq.Publisher
	API         *api.Client

	SessionService   domain.SessionService
	DashboardService domain.DashboardService
	OrderService     domain.OrderService
	PaymentService   domain.PaymentService

	SessionWorkflow  *workflow.SessionWorkflow
	PurchaseWorkflow *workflow.PurchaseWorkflow
	PaymentWorkflow  *workflow.PaymentWorkflow
	ActivityWorkflow *workflow.ActivityWorkflow

	stopSweep context.CancelFunc
}

// New wires services over an already opened session storage and publisher.
func New(config *config.Config, logger *zap.Logger, storage domain.SessionStorage, publisher mq.Publisher) *App {
	if publisher == nil {
		publisher = mq.NopPublisher{}
	}
	client := api.NewClient(config.APIBaseURL, &http.Client{})

	sessionService := domain.NewSessionService(storage, client, logger)
	dashboardService := domain.NewDashboardService(logger)
	orderService := domain.NewOrderService(logger)
	paymentService := domain.NewPaymentService(logger)

	sessionWorkflow := workflow.NewSessionWorkflow(sessionService, publisher, logger)
	purchaseWorkflow := workflow.NewPurchaseWorkflow(publisher, logger)
	paymentWorkflow := workflow.NewPaymentWorkflow(paymentService, publisher, logger)
	activityWorkflow := workflow.NewActivityWorkflow(logger)

	return &App{
		Config:           config,
		Logger:           logger,
		Storage:          storage,
		Publisher:        publisher,
		API:              client,
		SessionService:   sessionService,
		DashboardService: dashboardService,
		OrderService:     orderService,
		PaymentService:   paymentService,
		SessionWorkflow:  sessionWorkflow,
		PurchaseWorkflow: purchaseWorkflow,
		PaymentWorkflow:  paymentWorkflow,
		ActivityWorkflow: activityWorkflow,
	}
}

// Open connects the infrastructure named by config and wires the App over it.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	var (
		storage domain.SessionStorage
		db      *gorm.DB
		rdb     *cache.RedisCache
		repo    repository.SessionRepo
	)

	switch cfg.SessionStore {
	case "", config.SessionStoreRedis:
		c, err := cache.NewRedisCache(cfg.CacheURL, cfg.SessionTTL)
		if err != nil {
			return nil, fmt.Errorf("failed to configure redis: %w", err)
		}
		if err := c.Ping(ctx); err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		rdb, storage = c, c
	case config.SessionStorePostgres:
		if cfg.DatabaseDSN == "" {
			return nil, errors.New("DATABASE_DSN is required for the postgres session store")
		}
		d, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := d.AutoMigrate(&model.SessionRecord{}); err != nil {
			return nil, fmt.Errorf("failed to migrate sessions: %w", err)
		}
		db = d
		repo = repository.NewSessionRepoGorm(d)
		storage = repository.NewSessionStorage(repo, cfg.SessionTTL)
	case config.SessionStoreMemory:
		storage = cache.NewMemoryCache()
	default:
		return nil, fmt.Errorf("unknown SESSION_STORE %q", cfg.SessionStore)
	}

	var (
		conn     *amqp.Connection
		producer *mq.Producer
	)
	if cfg.MQURL != "" {
		c, err := mq.NewMQConn(cfg.MQURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
		}
		if err := mq.InitQueues(c); err != nil {
			c.Close()
			return nil, fmt.Errorf("failed to declare queues: %w", err)
		}
		p, err := mq.NewProducer(c)
		if err != nil {
			c.Close()
			return nil, err
		}
		conn, producer = c, p
	}

	var publisher mq.Publisher = mq.NopPublisher{}
	if producer != nil {
		publisher = producer
	}
	app := New(cfg, logger, storage, publisher)
	app.DB = db
	app.Cache = rdb
	app.SessionRepo = repo
	app.MQConn = conn
	app.producer = producer
	return app, nil
}

// Init starts background work: the activity consumer when enabled, and the
// expired-session sweep for Postgres. Redis expires keys itself.
func (app *App) Init() error {
	if app.MQConn != nil && app.Config.ConsumeActivity {
		if err := app.ActivityWorkflow.Start(app.MQConn); err != nil {
			return fmt.Errorf("failed to start activity consumer: %w", err)
		}
	}
	if app.SessionRepo == nil {
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	app.stopSweep = cancel
	go app.sweepSessions(ctx)
	return nil
}

func (app *App) sweepSessions(ctx context.Context) {
	ticker := time.NewTicker(sessionSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := app.SessionRepo.DeleteExpired(ctx, now)
			if err != nil {
				app.Logger.Warn("session sweep failed", zap.Error(err))
				continue
			}
			if n > 0 {
				app.Logger.Info("expired sessions removed", zap.Int("count", n))
			}
		}
	}
}

func (app *App) Close() error {
	if app.stopSweep != nil {
		app.stopSweep()
	}
	var errs []error
	if app.producer != nil {
		errs = append(errs, app.producer.Close())
	}
	if app.MQConn != nil {
		errs = append(errs, app.MQConn.Close())
	}
	if app.Cache != nil {
		errs = append(errs, app.Cache.Close())
	}
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err != nil {
			errs = append(errs, err)
		} else {
			errs = append(errs, sqlDB.Close())
		}
	}
	return errors.Join(errs...)
}
