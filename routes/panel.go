package routes

import (
	panel_handlers "marinehub.app/handlers/panel"
	"marinehub.app/middlewares"
	"marinehub.app/models"

	"github.com/gofiber/fiber/v2"
)

// registerPanelRoutes wires the signed-in areas of managers and
// superintendents. Every route needs a bearer token; role guards follow.
func registerPanelRoutes(api fiber.Router, svc Services) {
	profileHandler := panel_handlers.NewProfileHandler(svc.Profiles)
	jobHandler := panel_handlers.NewJobHandler(svc.Jobs)
	applicationHandler := panel_handlers.NewApplicationHandler(svc.Applications)
	notificationHandler := panel_handlers.NewNotificationHandler(svc.Notifications)

	requireAuth := middlewares.AuthMiddleware(svc.Auth)
	manager := middlewares.RequireRole(models.RoleManager)
	superintendent := middlewares.RequireRole(models.RoleSuperintendent)
	jobWriter := middlewares.RequireRole(models.RoleManager, models.RoleAdmin)

	// --- Own profile ---
	api.Get("/profile/superintendent", requireAuth, superintendent, profileHandler.GetSuperintendent)
	api.Put("/profile/superintendent", requireAuth, superintendent, profileHandler.UpdateSuperintendent)
	api.Get("/profile/manager", requireAuth, manager, profileHandler.GetManager)
	api.Put("/profile/manager", requireAuth, manager, profileHandler.UpdateManager)
	api.Post("/profile/avatar", requireAuth, profileHandler.UploadAvatar)

	// --- Jobs (owner or admin; ownership is checked by the service) ---
	api.Post("/jobs", requireAuth, manager, jobHandler.CreateJob)
	api.Put("/jobs/:id", requireAuth, jobWriter, jobHandler.UpdateJob)
	api.Delete("/jobs/:id", requireAuth, jobWriter, jobHandler.DeleteJob)
	api.Post("/jobs/:id/close", requireAuth, jobWriter, jobHandler.CloseJob)
	api.Get("/manager/jobs", requireAuth, manager, jobHandler.MyJobs)

	// --- Applications ---
	api.Post("/jobs/:id/applications", requireAuth, superintendent, applicationHandler.Apply)
	api.Get("/jobs/:id/applications", requireAuth, jobWriter, applicationHandler.ListForJob)
	api.Get("/superintendent/applications", requireAuth, superintendent, applicationHandler.Mine)
	api.Put("/applications/:id/status", requireAuth, jobWriter, applicationHandler.UpdateStatus)
	api.Delete("/applications/:id", requireAuth, superintendent, applicationHandler.Withdraw)

	// --- Notifications ---
	api.Get("/notifications", requireAuth, notificationHandler.List)
	api.Get("/notifications/unread-count", requireAuth, notificationHandler.UnreadCount)
	api.Post("/notifications/read-all", requireAuth, notificationHandler.MarkAllRead)
	api.Post("/notifications/:id/read", requireAuth, notificationHandler.MarkRead)
}
