package api

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SundayYogurt/bachelor-point/config"
	"github.com/SundayYogurt/bachelor-point/infra/queue"
	"github.com/SundayYogurt/bachelor-point/internal/api/rest/handlers"
	"github.com/SundayYogurt/bachelor-point/internal/api/rest/middleware"
	"github.com/SundayYogurt/bachelor-point/internal/blobstore"
	"github.com/SundayYogurt/bachelor-point/internal/domain"
	"github.com/SundayYogurt/bachelor-point/internal/helper"
	"github.com/SundayYogurt/bachelor-point/internal/helper/utils"
	"github.com/SundayYogurt/bachelor-point/internal/interfaces"
	"github.com/SundayYogurt/bachelor-point/internal/repository"
	"github.com/SundayYogurt/bachelor-point/internal/repository/cache"
	"github.com/SundayYogurt/bachelor-point/internal/services"
	"github.com/SundayYogurt/bachelor-point/pkg/metrics"
	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Deps is everything the HTTP app is built from.
type Deps struct {
	Config   config.Config
	DB       *gorm.DB
	Store    *blobstore.Store
	Cache    interfaces.ListingCache
	Producer interfaces.ProducerHandler
	Logger   *zap.Logger
	Metrics  *metrics.Metrics
}

// OpenDatabase connects with the configured driver and migrates the schema.
func OpenDatabase(cfg config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DatabaseDriver {
	case "postgres":
		dialector = postgres.New(postgres.Config{
			DSN:                  cfg.DatabaseDSN,
			PreferSimpleProtocol: true,
		})
	case "sqlite":
		dialector = sqlite.Open(cfg.DatabaseDSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DatabaseDriver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("database connection error: %w", err)
	}

	if err := db.AutoMigrate(&domain.Account{}, &domain.Listing{}, &domain.AuditLog{}); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}
	return db, nil
}

// NewApp wires repositories, services and handlers onto a fiber app.
func NewApp(d Deps) (*fiber.App, services.AccountService) {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	app := fiber.New(fiber.Config{
		BodyLimit: d.Config.BodyLimit,
		ErrorHandler: func(ctx *fiber.Ctx, err error) error {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				return utils.ResponseError(ctx, fe.Code, fe.Message)
			}
			return utils.ResponseFromError(ctx, err)
		},
	})

	// ---------- Middleware ----------
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.RequestLogger(logger, d.Metrics))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     d.Config.BaseURL,
		AllowHeaders:     "Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		AllowCredentials: true,
	}))

	authHelper := helper.SetupAuth(d.Config.AccessSecret, d.Config.TokenTTL)

	// ---------- Repositories ----------
	accountRepo := repository.NewAccountRepository(d.DB)
	listingRepo := repository.NewListingRepository(d.DB)
	auditRepo := repository.NewAuditRepository(d.DB)

	// ---------- Services ----------
	accountSvc := services.NewAccountService(accountRepo, auditRepo, d.Store, d.Producer, authHelper, logger, d.Metrics)
	listingSvc := services.NewListingService(listingRepo, d.Store, d.Cache, d.Producer, logger, d.Metrics, services.ListingOptions{
		OwnerScopedDelete: d.Config.ListingDeleteOwnerScoped,
	})
	contactSvc := services.NewContactService(accountRepo, listingRepo, logger)

	// ---------- Handlers ----------
	handlers.NewAccountHandler(accountSvc, contactSvc, authHelper).SetupRoutes(app)
	handlers.NewListingHandler(listingSvc, authHelper, accountSvc).SetupRoutes(app)

	// ---------- Static blobs ----------
	for _, ns := range blobstore.Namespaces {
		app.Use("/"+ns.String(), filesystem.New(filesystem.Config{
			Root:   d.Store.FileSystem(ns),
			MaxAge: 3600,
		}))
	}

	// ---------- Health & metrics ----------
	app.Get("/healthz", func(c *fiber.Ctx) error {
		sqlDB, err := d.DB.DB()
		if err == nil {
			err = sqlDB.PingContext(c.UserContext())
		}
		if err != nil {
			c.Locals(utils.LocalsError, err)
			return utils.ResponseError(c, fiber.StatusServiceUnavailable, "database unavailable")
		}
		return utils.ResponseSuccess(c, fiber.StatusOK, fiber.Map{"status": "ok"})
	})
	if d.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(d.Metrics.Handler()))
	}

	return app, accountSvc
}

func StartServer(cfg config.Config, logger *zap.Logger) error {
	m := metrics.New("bachelor_point")

	// ---------- DB ----------
	db, err := OpenDatabase(cfg)
	if err != nil {
		return err
	}
	logger.Info("database connected", zap.String("driver", cfg.DatabaseDriver))

	// ---------- Infra ----------
	store, err := blobstore.NewOnDisk(cfg.UploadDir, logger.Named("blobstore"), m)
	if err != nil {
		return err
	}

	kafkaProducer := queue.NewProducer(cfg.KafkaBroker, cfg.KafkaTopic, cfg.KafkaUsername, cfg.KafkaPassword, logger.Named("kafka"))
	defer kafkaProducer.Close()
	logger.Info("event producer", zap.Bool("enabled", cfg.KafkaEnabled()), zap.String("topic", cfg.KafkaTopic))

	var listingCache interfaces.ListingCache
	if cfg.RedisAddr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		c, err := cache.NewListingCache(ctx, cfg.RedisAddr, cfg.ListingCacheTTL)
		cancel()
		if err != nil {
			logger.Warn("redis unavailable, listing cache disabled", zap.Error(err))
		} else {
			defer c.Close()
			listingCache = c
		}
	}

	app, accountSvc := NewApp(Deps{
		Config:   cfg,
		DB:       db,
		Store:    store,
		Cache:    listingCache,
		Producer: kafkaProducer,
		Logger:   logger,
		Metrics:  m,
	})

	if cfg.BootstrapAdminID != "" {
		if err := accountSvc.BootstrapAdmin(context.Background(), cfg.BootstrapAdminID); err != nil {
			logger.Warn("bootstrap admin skipped", zap.Error(err))
		}
	}

	// ---------- Listen ----------
	logger.Info("listening", zap.String("addr", cfg.ServerPort))
	return app.Listen(cfg.ServerPort)
}
