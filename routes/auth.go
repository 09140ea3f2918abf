package routes

import (
	"time"

	auth_handlers "marinehub.app/handlers/auth"
	"marinehub.app/middlewares"

	"github.com/gofiber/fiber/v2"
)

func registerAuthRoutes(api fiber.Router, svc Services) {
	authHandler := auth_handlers.NewAuthHandler(svc.Auth)
	requireAuth := middlewares.AuthMiddleware(svc.Auth)

	authGroup := api.Group("/auth", rateLimit(30, time.Minute))
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/verify-otp", authHandler.VerifyOTP)
	authGroup.Post("/resend-otp", authHandler.ResendOTP)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/password/forgot", authHandler.ForgotPassword)
	authGroup.Post("/password/reset", authHandler.ResetPassword)

	authGroup.Post("/logout", requireAuth, authHandler.Logout)
	authGroup.Get("/me", requireAuth, authHandler.Me)
	authGroup.Put("/password", requireAuth, authHandler.ChangePassword)
}
