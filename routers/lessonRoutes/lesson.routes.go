package lessonRoutes

import (
	controllers "careerhub/controllers/lesson"
	"careerhub/middleware"
	validators "careerhub/validators/lesson"

	"github.com/gofiber/fiber/v2"
)

func SetupLessonRoutes(router fiber.Router, h *controllers.Handler) {
	lessonGroup := router.Group("/lessons", middleware.JWTMiddleware)

	lessonGroup.Get("/course/:courseId", validators.CourseID(), h.GetLessons)
	lessonGroup.Get("/:id", validators.LessonID(), h.GetLesson)
	lessonGroup.Post("/:id/complete", validators.LessonID(), h.CompleteLesson)

	// Admin routes
	lessonGroup.Post("/course/:courseId", middleware.AdminOnly, validators.CourseID(), validators.CreateLesson(), h.AdminCreateLesson)
	lessonGroup.Put("/:id", middleware.AdminOnly, validators.LessonID(), validators.UpdateLesson(), h.AdminUpdateLesson)
	lessonGroup.Delete("/:id", middleware.AdminOnly, validators.LessonID(), h.AdminDeleteLesson)
}
