package authRoutes

import (
	authControllers "careerhub/controllers/auth"
	"careerhub/middleware"
	authValidators "careerhub/validators/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(router fiber.Router) {
	authGroup := router.Group("/auth")

	authGroup.Post("/signup", authValidators.Signup(), authControllers.Signup)
	authGroup.Post("/login", authValidators.Login(), authControllers.Login)
	authGroup.Get("/me", middleware.JWTMiddleware, authControllers.Me)
	authGroup.Get("/login/history", middleware.JWTMiddleware, authControllers.LoginHistoryList)
}
