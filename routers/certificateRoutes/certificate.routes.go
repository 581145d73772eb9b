package certificateRoutes

import (
	controllers "careerhub/controllers/certificate"
	"careerhub/middleware"
	validators "careerhub/validators/certificate"

	"github.com/gofiber/fiber/v2"
)

func SetupCertificateRoutes(router fiber.Router, h *controllers.Handler) {
	certificateGroup := router.Group("/certificates")

	// Public
	certificateGroup.Get("/verify/:certificateId", validators.VerifyCertificate(), h.VerifyCertificate)

	certificateGroup.Get("/", middleware.JWTMiddleware, h.GetCertificates)
	certificateGroup.Post("/course/:courseId", middleware.JWTMiddleware, validators.CourseID(), h.GenerateCertificate)
	certificateGroup.Get("/:id", middleware.JWTMiddleware, validators.CertificateID(), h.GetCertificate)
	certificateGroup.Get("/:id/download", middleware.JWTMiddleware, validators.CertificateID(), h.DownloadCertificate)
}
