package quizValidator

import (
	"careerhub/middleware"
	"careerhub/services/learning"
	"careerhub/validators"

	"github.com/gofiber/fiber/v2"
)

// CreateQuiz requires a title and at least one question.
func CreateQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(learning.QuizInput)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := validators.Struct(reqData)
		if errors == nil {
			errors = map[string]string{}
		}
		if reqData.Title == nil {
			errors["title"] = "Title is required!"
		}
		if len(reqData.Questions) == 0 {
			errors["questions"] = "At least one question is required!"
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedQuiz", reqData)
		return c.Next()
	}
}

func UpdateQuiz() fiber.Handler {
	return validators.Body[learning.QuizInput]("validatedQuiz")
}

func SubmitQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(learning.SubmitQuizInput)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if reqData.Answers == nil {
			return middleware.ValidationErrorResponse(c, map[string]string{"answers": "Answers are required!"})
		}
		if reqData.TimeSpent < 0 {
			return middleware.ValidationErrorResponse(c, map[string]string{"time_spent": "Time spent cannot be negative!"})
		}
		c.Locals("validatedSubmission", reqData)
		return c.Next()
	}
}

func QuizID() fiber.Handler {
	return validators.ParamID("quizId", "Quiz ID")
}

func ID() fiber.Handler {
	return validators.ParamID("id", "Quiz ID")
}

func LessonID() fiber.Handler {
	return validators.ParamID("lessonId", "Lesson ID")
}
