package routes

import (
	admin_handlers "marinehub.app/handlers/admin"
	"marinehub.app/middlewares"

	"github.com/gofiber/fiber/v2"
)

func registerAdminRoutes(api fiber.Router, svc Services) {
	adminHandler := admin_handlers.NewAdminHandler(svc.Admin, svc.Analytics, svc.Sitemap)
	blogHandler := admin_handlers.NewBlogHandler(svc.Blog)
	admin := []fiber.Handler{middlewares.AuthMiddleware(svc.Auth), middlewares.RequireAdmin()}

	adminGroup := api.Group("/admin", admin...)
	adminGroup.Get("/superintendents", adminHandler.ListSuperintendents)
	adminGroup.Put("/superintendents/:id/verify", adminHandler.Verify)
	adminGroup.Post("/superintendents/:id/premium", adminHandler.GrantPremium)
	adminGroup.Get("/stats", adminHandler.Stats)
	adminGroup.Get("/analytics/summary", adminHandler.AnalyticsSummary)

	// Blog writes and the sitemap ping live outside /admin but are admin only.
	api.Get("/sitemap/ping", append(admin, adminHandler.PingSitemap)...)
	api.Post("/blog/posts", append(admin, blogHandler.CreatePost)...)
	api.Put("/blog/posts/:slug", append(admin, blogHandler.UpdatePost)...)
	api.Delete("/blog/posts/:slug", append(admin, blogHandler.DeletePost)...)
	api.Post("/blog/categories", append(admin, blogHandler.CreateCategory)...)
}
