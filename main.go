package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"marinehub.app/configs/configsapp"
	"marinehub.app/configs/configsdatabase"
	"marinehub.app/configs/configslog"
	"marinehub.app/pkg/events"
	"marinehub.app/pkg/kvstore"
	"marinehub.app/pkg/mailer"
	"marinehub.app/pkg/pinger"
	"marinehub.app/pkg/tokens"
	"marinehub.app/repositories"
	"marinehub.app/routes"
	"marinehub.app/services"

	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configslog.InitLogger()
	defer configslog.SyncLogger()

	cfg := configsapp.Load()
	configslog.SLog.Infof("Starting marinehub (env=%s, base_url=%s)", cfg.Env, cfg.BaseURL)

	configsdatabase.InitDB()
	defer configsdatabase.CloseDB()
	db := configsdatabase.GetDB()

	startCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	store, err := kvstore.NewRedisStore(startCtx, kvstore.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	cancel()
	if err != nil {
		configslog.Log.Fatal("Redis connection could not be opened", zap.String("addr", cfg.RedisAddr), zap.Error(err))
	}
	defer store.Close()

	publisher, err := events.NewPublisher(cfg.NATSURL)
	if err != nil {
		configslog.Log.Fatal("NATS connection could not be opened", zap.Error(err))
	}
	defer publisher.Close()

	mail, err := mailer.New(mailer.Options{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		User:     cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	})
	if err != nil {
		configslog.Log.Fatal("Mailer could not be initialised", zap.Error(err))
	}

	tokenManager, err := tokens.NewManager(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		configslog.Log.Fatal("JWT manager could not be created", zap.Error(err))
	}

	users := repositories.NewUserRepository(db)
	superintendents := repositories.NewSuperintendentRepository(db)
	managers := repositories.NewManagerRepository(db)
	jobs := repositories.NewJobRepository(db)
	applications := repositories.NewApplicationRepository(db)
	notifications := repositories.NewNotificationRepository(db)
	blog := repositories.NewBlogRepository(db)
	ports := repositories.NewPortRepository(db)
	analytics := repositories.NewAnalyticsRepository(db)
	tx := repositories.NewTransactor(db)

	notificationService := services.NewNotificationService(notifications, publisher)
	svc := routes.Services{
		Auth: services.NewAuthService(users, superintendents, managers, tx, store, mail, tokenManager, services.AuthConfig{
			OTPTTL:         cfg.OTPTTL,
			ResendCooldown: cfg.OTPResendCooldown,
		}),
		Profiles:      services.NewProfileService(users, superintendents, managers, cfg.UploadDir, cfg.BaseURL),
		Jobs:          services.NewJobService(jobs),
		Applications:  services.NewApplicationService(applications, jobs, tx, notificationService, mail, cfg.BaseURL),
		Notifications: notificationService,
		Blog:          services.NewBlogService(blog, tx),
		Admin:         services.NewAdminService(users, superintendents, jobs, applications, blog, ports, tx, notificationService),
		Analytics:     services.NewAnalyticsService(analytics),
		Ports:         services.NewPortService(ports),
		Sitemap: services.NewSitemapService(blog, jobs,
			pinger.New(cfg.SitemapPingURLs, &http.Client{Timeout: 10 * time.Second}), cfg.BaseURL),
	}

	app := routes.NewApp(cfg)
	routes.SetupRoutes(app, cfg, svc)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			configslog.Log.Fatal("HTTP server stopped", zap.Error(err))
		}
	}()
	configslog.SLog.Infof("HTTP server listening on :%s", cfg.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	configslog.SLog.Info("Shutting down HTTP server...")
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		configslog.Log.Error("HTTP server did not shut down cleanly", zap.Error(err))
	}
	configslog.SLog.Info("Server stopped.")
}
