package quizRoutes

import (
	controllers "careerhub/controllers/quiz"
	"careerhub/middleware"
	validators "careerhub/validators/quiz"

	"github.com/gofiber/fiber/v2"
)

func SetupQuizRoutes(router fiber.Router, h *controllers.Handler) {
	quizGroup := router.Group("/quizzes", middleware.JWTMiddleware)

	quizGroup.Get("/lesson/:lessonId", validators.LessonID(), h.GetQuiz)
	quizGroup.Post("/:quizId/submit", validators.QuizID(), validators.SubmitQuiz(), h.SubmitQuiz)
	quizGroup.Get("/:quizId/attempts", validators.QuizID(), h.GetQuizAttempts)

	// Admin routes
	quizGroup.Post("/lesson/:lessonId", middleware.AdminOnly, validators.LessonID(), validators.CreateQuiz(), h.AdminCreateQuiz)
	quizGroup.Put("/:id", middleware.AdminOnly, validators.ID(), validators.UpdateQuiz(), h.AdminUpdateQuiz)
	quizGroup.Delete("/:id", middleware.AdminOnly, validators.ID(), h.AdminDeleteQuiz)
}
