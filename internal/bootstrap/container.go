package bootstrap

import (
	"context"
	"log"
	"path/filepath"

	"policfy-be/internal/config"
	"policfy-be/internal/controller"
	"policfy-be/internal/entity"
	"policfy-be/internal/pkg/logger"
	"policfy-be/internal/pkg/mailer"
	"policfy-be/internal/pkg/metrics"
	"policfy-be/internal/pkg/serverutils"
	"policfy-be/internal/pkg/token"
	"policfy-be/internal/repository/contract"
	"policfy-be/internal/repository/implementation"
	"policfy-be/internal/repository/memory"
	"policfy-be/internal/repository/specification"
	"policfy-be/internal/repository/unitofwork"
	"policfy-be/internal/service"
	"policfy-be/internal/websocket"
	adminUser "policfy-be/pkg/admin/user"
	appEvents "policfy-be/pkg/application/events"
	"policfy-be/pkg/dashboard"
	pktNats "policfy-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController        controller.IAuthController
	OAuthController       controller.IOAuthController
	UserController        controller.IUserController
	PolicyController      controller.IPolicyController
	ApplicationController controller.IApplicationController
	DashboardController   controller.IDashboardController
	LiveController        controller.ILiveController
	HealthController      controller.IHealthController

	// Background Services (Exposed for main.go to run)
	NotificationService *service.NotificationService

	Logger   logger.ILogger
	Registry *prometheus.Registry

	closers []func()
}

// NewContainer wires every component. A nil db selects the in-memory store.
// Redis and NATS are optional: when unreachable the container logs a warning
// and falls back to in-process session storage and bus-only events.
func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	return NewContainerWithLogger(db, cfg, sysLogger)
}

// NewContainerWithLogger is NewContainer with a caller-supplied logger.
func NewContainerWithLogger(db *gorm.DB, cfg *config.Config, sysLogger logger.ILogger) *Container {
	c := &Container{Logger: sysLogger}
	checks := make(map[string]controller.Pinger)

	// 1. Persistence
	var uowFactory unitofwork.RepositoryFactory
	if db != nil {
		uowFactory = unitofwork.NewRepositoryFactory(db)
		checks["database"] = func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}
	} else {
		log.Println("[INFO] Using in-memory store")
		uowFactory = memory.NewRepositoryFactory(memory.NewStore())
	}
	userManager := adminUser.NewManager(sysLogger, cfg.Auth.SuperAdminEmail)
	if db == nil {
		// Nothing seeds the memory store otherwise.
		if _, err := userManager.EnsureSuperAdmin(context.Background(), uowFactory.NewUnitOfWork(context.Background()), cfg.Auth.SuperAdminPassword); err != nil {
			log.Printf("[WARN] Failed to seed super admin: %v", err)
		}
	}

	// 2. Sessions (Redis, falling back to in-process)
	var sessionRepo contract.SessionRepository = memory.NewSessionRepository()
	var rdb *redis.Client
	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{
				Addr: cfg.App.RedisURL,
			}
		}
		client := redis.NewClient(opt)
		if _, err := client.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v. Sessions kept in memory", err)
			_ = client.Close()
		} else {
			rdb = client
			sessionRepo = implementation.NewRedisSessionRepository(rdb)
			checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
			c.closers = append(c.closers, func() { _ = rdb.Close() })
		}
	}

	// 3. Event Bus
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermill.NewStdLogger(false, false),
	)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	var sink appEvents.Sink
	if cfg.App.NatsURL != "" {
		natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			sink = natsPub
			c.closers = append(c.closers, natsPub.Close)
		}
	}
	eventPublisher := appEvents.NewBusPublisher(pubSub, sink, sysLogger)

	// 4. Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.New(registry)
	c.Registry = registry

	// 5. Services
	tokens := token.NewManager(cfg.Auth.JwtSecret, cfg.Auth.TokenTTL)
	protect := serverutils.NewJwtMiddleware(tokens, sessionRepo, func(ctx context.Context, id uuid.UUID) (*entity.User, error) {
		return uowFactory.NewUnitOfWork(ctx).UserRepository().FindOne(ctx, specification.ByID{ID: id})
	})

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
		cfg.App.ClientURL,
	)

	authService := service.NewAuthService(uowFactory, tokens, sessionRepo, sysLogger)
	oauthService := service.NewOAuthService(cfg.OAuth, authService, sysLogger)
	userService := service.NewUserService(uowFactory, userManager, sessionRepo)
	policyService := service.NewPolicyService(uowFactory, sysLogger)
	applicationService := service.NewApplicationService(uowFactory, eventPublisher, appMetrics, sysLogger)
	dashboardService := service.NewDashboardService(uowFactory, dashboard.NewAggregator(sysLogger))

	// Live updates share the isolated notification log.
	mailLogger := logger.NewIsolatedLogger(filepath.Join(filepath.Dir(cfg.App.LogFilePath), "notification.log"))
	hub := websocket.NewHub(rdb, mailLogger)
	hubCtx, stopHub := context.WithCancel(context.Background())
	go hub.Run(hubCtx)
	c.closers = append(c.closers, stopHub)

	c.NotificationService = service.NewNotificationService(pubSub, uowFactory, emailService, hub, mailLogger)

	// 6. Controllers
	c.AuthController = controller.NewAuthController(authService, protect)
	c.OAuthController = controller.NewOAuthController(oauthService, cfg.App.ClientURL, sysLogger)
	c.UserController = controller.NewUserController(userService, protect)
	c.PolicyController = controller.NewPolicyController(policyService, protect)
	c.ApplicationController = controller.NewApplicationController(applicationService, protect)
	c.DashboardController = controller.NewDashboardController(dashboardService, protect)
	c.LiveController = controller.NewLiveController(hub, protect, sysLogger)
	c.HealthController = controller.NewHealthController(checks)

	return c
}

// Close releases connections opened by NewContainer.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	_ = c.Logger.Sync()
}
