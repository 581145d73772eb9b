package courseRoutes

import (
	controllers "careerhub/controllers/course"
	"careerhub/middleware"
	validators "careerhub/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up the course catalogue, enrollment and progress routes
func SetupCourseRoutes(router fiber.Router, h *controllers.Handler) {
	courseGroup := router.Group("/courses")

	// Learner routes
	courseGroup.Get("/my/courses", middleware.JWTMiddleware, h.GetMyCourses)
	courseGroup.Post("/:id/enroll", middleware.JWTMiddleware, validators.CourseID(), h.EnrollInCourse)
	courseGroup.Get("/:id/progress", middleware.JWTMiddleware, validators.CourseID(), h.GetUserProgress)
	courseGroup.Post("/:id/certificate", middleware.JWTMiddleware, validators.CourseID(), h.GenerateCertificate)

	// Public catalogue; admins also see unpublished courses
	courseGroup.Get("/", middleware.OptionalJWT, validators.CourseList(), h.GetAllCourses)
	courseGroup.Get("/:id", middleware.OptionalJWT, validators.CourseID(), h.GetCourseDetails)

	// Admin routes
	courseGroup.Post("/", middleware.JWTMiddleware, middleware.AdminOnly, validators.CreateCourse(), h.AdminCreateCourse)
	courseGroup.Put("/:id", middleware.JWTMiddleware, middleware.AdminOnly, validators.CourseID(), validators.UpdateCourse(), h.AdminUpdateCourse)
	courseGroup.Delete("/:id", middleware.JWTMiddleware, middleware.AdminOnly, validators.CourseID(), h.AdminDeleteCourse)
	courseGroup.Put("/:id/publish", middleware.JWTMiddleware, middleware.AdminOnly, validators.CourseID(), h.AdminPublishCourse)
}
