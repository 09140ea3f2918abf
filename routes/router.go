package routes

import (
	"time"

	"marinehub.app/configs/configsapp"
	"marinehub.app/handlers/apierror"
	"marinehub.app/middlewares"
	"marinehub.app/services"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	recoverMiddleware "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// bodyLimit leaves room for a 2MB avatar plus multipart framing.
const bodyLimit = 4 << 20

// Services are the service instances the handlers are built from.
type Services struct {
	Auth          services.IAuthService
	Profiles      services.IProfileService
	Jobs          services.IJobService
	Applications  services.IApplicationService
	Notifications services.INotificationService
	Blog          services.IBlogService
	Admin         services.IAdminService
	Analytics     services.IAnalyticsService
	Ports         services.IPortService
	Sitemap       services.ISitemapService
}

// NewApp returns a Fiber app using goccy/go-json and JSON error bodies.
func NewApp(cfg *configsapp.Config) *fiber.App {
	return fiber.New(fiber.Config{
		AppName:      "marinehub",
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
		ErrorHandler: apierror.ErrorHandler,
		BodyLimit:    bodyLimit,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		ProxyHeader:  cfg.ProxyHeader,
	})
}

// SetupRoutes installs the global middleware chain and every route group.
func SetupRoutes(app *fiber.App, cfg *configsapp.Config, svc Services) {
	app.Use(recoverMiddleware.New(recoverMiddleware.Config{EnableStackTrace: !cfg.IsProduction()}))
	app.Use(requestid.New())
	app.Use(middlewares.RequestLogger())
	app.Use(middlewares.Metrics())
	app.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.CORSOrigins,
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, X-Session-Id",
		ExposeHeaders: "X-Session-Id, X-Request-Id",
	}))

	if cfg.MetricsEnabled {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	}
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Static("/uploads", cfg.UploadDir, fiber.Static{MaxAge: 86400})

	api := app.Group("/api")
	registerAuthRoutes(api, svc)
	registerPublicRoutes(app, api, svc)
	registerPanelRoutes(api, svc)
	registerAdminRoutes(api, svc)

	app.Use(notFoundHandler)
}

// rateLimit keys on the client IP and answers 429 with the JSON error body.
func rateLimit(max int, window time.Duration) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:          max,
		Expiration:   window,
		KeyGenerator: func(c *fiber.Ctx) string { return c.IP() },
		LimitReached: func(c *fiber.Ctx) error {
			return apierror.Message(c, fiber.StatusTooManyRequests, "too many requests")
		},
	})
}

func notFoundHandler(c *fiber.Ctx) error {
	return apierror.Message(c, fiber.StatusNotFound, "resource not found")
}
