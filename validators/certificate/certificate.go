package certificateValidator

import (
	"strings"

	"careerhub/middleware"
	"careerhub/services/learning"
	"careerhub/validators"

	"github.com/gofiber/fiber/v2"
)

// VerifyCertificate rejects identifiers that could never have been issued.
func VerifyCertificate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		certificateID := strings.TrimSpace(c.Params("certificateId"))
		if !learning.ValidCertificateID(certificateID) {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid certificate ID!", nil)
		}
		c.Locals("certificateId", certificateID)
		return c.Next()
	}
}

func CertificateID() fiber.Handler {
	return validators.ParamID("id", "Certificate ID")
}

func CourseID() fiber.Handler {
	return validators.ParamID("courseId", "Course ID")
}
