package routes

import (
	"time"

	public_handlers "marinehub.app/handlers/public"
	"marinehub.app/middlewares"

	"github.com/gofiber/fiber/v2"
)

// registerPublicRoutes wires the anonymous endpoints. Some of them recognise
// an optional bearer token (drafts for admins, beacon user ids).
func registerPublicRoutes(app *fiber.App, api fiber.Router, svc Services) {
	blogHandler := public_handlers.NewBlogHandler(svc.Blog)
	jobHandler := public_handlers.NewJobHandler(svc.Jobs)
	directoryHandler := public_handlers.NewSuperintendentHandler(svc.Profiles)
	portHandler := public_handlers.NewPortHandler(svc.Ports)
	seoHandler := public_handlers.NewSEOHandler(svc.Sitemap)
	analyticsHandler := public_handlers.NewAnalyticsHandler(svc.Analytics)
	optionalAuth := middlewares.OptionalAuthMiddleware(svc.Auth)

	app.Get("/robots.txt", seoHandler.Robots)
	app.Get("/sitemap.xml", seoHandler.Sitemap)

	api.Get("/blog/posts", optionalAuth, blogHandler.ListPosts)
	api.Get("/blog/posts/:slug", optionalAuth, blogHandler.GetPost)
	api.Get("/blog/categories", blogHandler.ListCategories)

	api.Get("/jobs", jobHandler.ListJobs)
	api.Get("/jobs/:id", optionalAuth, jobHandler.GetJob)

	api.Get("/superintendents", directoryHandler.Directory)
	api.Get("/superintendents/:id", directoryHandler.Profile)

	api.Get("/ports", portHandler.Search)
	api.Get("/ports/:locode", portHandler.Get)

	api.Post("/analytics/events", rateLimit(120, time.Minute), optionalAuth, analyticsHandler.Track)
}
