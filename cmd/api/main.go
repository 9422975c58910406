package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/shopspring/decimal"

	appanalytics "github.com/jhoicas/kirana-admin-api/internal/application/analytics"
	"github.com/jhoicas/kirana-admin-api/internal/application/auth"
	"github.com/jhoicas/kirana-admin-api/internal/application/ports"
	"github.com/jhoicas/kirana-admin-api/internal/application/querycache"
	"github.com/jhoicas/kirana-admin-api/internal/application/realtime"
	"github.com/jhoicas/kirana-admin-api/internal/application/usecase"
	"github.com/jhoicas/kirana-admin-api/internal/infrastructure/cache"
	"github.com/jhoicas/kirana-admin-api/internal/infrastructure/metrics"
	"github.com/jhoicas/kirana-admin-api/internal/infrastructure/otp"
	infrapdf "github.com/jhoicas/kirana-admin-api/internal/infrastructure/pdf"
	"github.com/jhoicas/kirana-admin-api/internal/infrastructure/postgres"
	"github.com/jhoicas/kirana-admin-api/internal/infrastructure/scheduler"
	"github.com/jhoicas/kirana-admin-api/internal/infrastructure/storage"
	"github.com/jhoicas/kirana-admin-api/internal/infrastructure/supabase"
	httpRouter "github.com/jhoicas/kirana-admin-api/internal/interfaces/http"
	"github.com/jhoicas/kirana-admin-api/pkg/config"
	"github.com/jhoicas/kirana-admin-api/pkg/logger"
)

const maxUploadBody = 6 << 20

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("timezone", cfg.App.Timezone).
		Msg("iniciando aplicación")

	// Importes como números JSON (45.5), igual que los devuelve Postgres.
	decimal.MarshalJSONWithoutQuotes = true
	loc := cfg.App.Location()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.DB.MigrateOnStart {
		if err := postgres.MigrateUp(cfg.DB); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		log.Info().Msg("migraciones aplicadas")
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	m := metrics.New()

	// Caché de consultas: memoria del proceso o redis compartido entre réplicas.
	var backend ports.Cache
	switch cfg.Cache.Driver {
	case "redis":
		rc, err := cache.NewRedis(ctx, cfg.Cache)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a redis")
		}
		defer rc.Close()
		backend = rc
	default:
		mc := cache.NewMemory(time.Minute)
		defer mc.Close()
		backend = mc
	}
	qc := querycache.New(backend, m, log.Component("querycache"))

	var blobs ports.BlobStorage
	switch cfg.Storage.Driver {
	case "supabase":
		blobs, err = supabase.NewStorage(cfg.Supabase.URL, cfg.Supabase.ServiceKey, &http.Client{Timeout: 30 * time.Second})
	default:
		blobs, err = storage.NewLocal(cfg.Storage.LocalDir, cfg.Storage.PublicBaseURL)
	}
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Storage.Driver).Msg("almacenamiento de imágenes")
	}

	userRepo := postgres.NewUserRepository(pool)
	adminRepo := postgres.NewStoreAdminRepository(pool)
	storeRepo := postgres.NewStoreRepository(pool)
	hoursRepo := postgres.NewStoreHoursRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	notificationRepo := postgres.NewNotificationRepository(pool)
	analyticsRepo := postgres.NewAnalyticsRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	broker := realtime.NewBroker(64, log.Component("broker"))
	defer broker.Close()

	authUC := auth.NewAuthUseCase(userRepo, adminRepo, txRunner, backend,
		otp.NewLogSender(log.Component("otp")),
		auth.JWTConfig{
			Secret:     cfg.JWT.Secret,
			ExpMinutes: cfg.JWT.Expiration,
			Issuer:     cfg.JWT.Issuer,
		},
		time.Duration(cfg.Auth.OTPTTLMinutes)*time.Minute,
		log.Component("auth"),
	)
	orderUC := usecase.NewOrderUseCase(orderRepo, adminRepo, txRunner, qc, broker, m, loc, log.Component("orders"))
	productUC := usecase.NewProductUseCase(productRepo, qc, broker, cfg.Scheduler.LowStockThreshold)
	categoryUC := usecase.NewCategoryUseCase(categoryRepo, qc)
	customerUC := usecase.NewCustomerUseCase(customerRepo, orderRepo, qc)
	settingsUC := usecase.NewSettingsUseCase(storeRepo, adminRepo, hoursRepo, txRunner, qc, authUC, log.Component("settings"))
	profileUC := usecase.NewProfileUseCase(adminRepo, txRunner, qc)
	notificationUC := usecase.NewNotificationUseCase(notificationRepo, adminRepo, storeRepo, analyticsRepo,
		qc, backend, broker, cfg.Scheduler.LowStockThreshold, loc, log.Component("notifications"))
	uploadUC := usecase.NewUploadUseCase(blobs)
	analyticsUC := appanalytics.NewAnalyticsUseCase(analyticsRepo, qc, loc)
	dashboardUC := appanalytics.NewDashboardUseCase(analyticsRepo, qc)
	reportUC := appanalytics.NewReportUseCase(analyticsRepo, storeRepo, qc, infrapdf.NewMarotoPDFGenerator(), loc)

	// Feed de cambios de pedidos: LISTEN/NOTIFY o Supabase Realtime.
	var feed ports.ChangeFeed
	switch cfg.Realtime.Driver {
	case "postgres":
		listener := postgres.NewListener(pool, cfg.Realtime.PGChannel, log.Component("pg-listener"))
		if err := listener.Verify(ctx); err != nil {
			log.Fatal().Err(err).Msg("realtime postgres")
		}
		feed = listener
	case "supabase":
		feed = supabase.NewRealtime(cfg.Supabase.URL, cfg.Supabase.ServiceKey, "public", "orders", log.Component("supabase-realtime"))
	}
	watcherDone := make(chan struct{})
	if feed != nil {
		watcher := realtime.NewOrderWatcher(feed, qc, broker, notificationUC, m, log.Component("watcher"))
		go func() {
			defer close(watcherDone)
			if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error().Err(err).Msg("watcher de pedidos finalizado")
			}
		}()
	} else {
		close(watcherDone)
		log.Warn().Msg("realtime deshabilitado: los pedidos nuevos solo se verán al refrescar")
	}

	sched := scheduler.New(loc, log.Component("scheduler"), m)
	if err := sched.Add(cfg.Scheduler.LowStockCron, "low_stock", notificationUC.CheckLowStock); err != nil {
		log.Fatal().Err(err).Str("spec", cfg.Scheduler.LowStockCron).Msg("expresión cron inválida")
	}
	sched.Start()

	loginLimiter := httpRouter.NewRateLimiter(cfg.Auth.LoginRatePerMinute, log.Component("ratelimit"))
	loginLimiter.StartCleanup(10*time.Minute, ctx.Done())

	// Sin WriteTimeout: cortaría los streams SSE de /api/events.
	app := fiber.New(fiber.Config{
		AppName:     cfg.App.Name,
		ReadTimeout: time.Second * 10,
		IdleTimeout: time.Second * 60,
		BodyLimit:   maxUploadBody,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.HTTP.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	}))
	app.Use(httpRouter.MetricsMiddleware(m))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Kirana Admin API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))
	if cfg.Storage.Driver == "local" {
		app.Static("/uploads", cfg.Storage.LocalDir, fiber.Static{MaxAge: 3600})
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:         authUC,
		OrderUC:        orderUC,
		ProductUC:      productUC,
		CategoryUC:     categoryUC,
		CustomerUC:     customerUC,
		SettingsUC:     settingsUC,
		ProfileUC:      profileUC,
		NotificationUC: notificationUC,
		UploadUC:       uploadUC,
		AnalyticsUC:    analyticsUC,
		DashboardUC:    dashboardUC,
		ReportUC:       reportUC,
		Broker:         broker,
		Validator:      httpRouter.NewValidator(),
		LoginLimiter:   loginLimiter,
		JWTSecret:      cfg.JWT.Secret,
		Log:            log.Component("http"),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Cerrar el broker termina los streams SSE abiertos antes de esperar al servidor.
	broker.Close()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	sched.Stop(shutdownCtx)
	select {
	case <-watcherDone:
	case <-shutdownCtx.Done():
		log.Warn().Msg("watcher de pedidos no terminó a tiempo")
	}

	log.Info().Msg("aplicación detenida")
}
