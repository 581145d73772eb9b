package quizController

import (
	"careerhub/middleware"
	"careerhub/services/learning"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	Learning *learning.Service
}

func NewHandler(svc *learning.Service) *Handler {
	return &Handler{Learning: svc}
}

// GetQuiz returns a lesson's quiz without its answers, plus the caller's
// attempt history.
func (h *Handler) GetQuiz(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	lessonID := c.Locals("lessonId").(uint)

	overview, err := h.Learning.QuizForLearner(c.UserContext(), userId, lessonID)
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to fetch quiz!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz fetched successfully!", overview)
}

func (h *Handler) SubmitQuiz(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	quizID := c.Locals("quizId").(uint)

	reqData, ok := c.Locals("validatedSubmission").(*learning.SubmitQuizInput)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	submission, err := h.Learning.SubmitQuiz(c.UserContext(), userId, quizID, *reqData)
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to submit quiz!")
	}

	message := "Quiz completed. Review and try again!"
	if submission.Attempt.Passed {
		message = "Congratulations! You passed the quiz!"
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, message, submission)
}

// GetQuizAttempts lists the caller's attempts, newest first.
func (h *Handler) GetQuizAttempts(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	quizID := c.Locals("quizId").(uint)

	attempts, err := h.Learning.ListAttempts(c.UserContext(), userId, quizID)
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to fetch attempts!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Attempts fetched successfully!", attempts)
}

func (h *Handler) AdminCreateQuiz(c *fiber.Ctx) error {
	lessonID := c.Locals("lessonId").(uint)

	reqData, ok := c.Locals("validatedQuiz").(*learning.QuizInput)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	quiz, err := h.Learning.CreateQuiz(c.UserContext(), lessonID, *reqData)
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to create quiz!")
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Quiz created successfully", quiz)
}

func (h *Handler) AdminUpdateQuiz(c *fiber.Ctx) error {
	quizID := c.Locals("id").(uint)

	reqData, ok := c.Locals("validatedQuiz").(*learning.QuizInput)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	quiz, err := h.Learning.UpdateQuiz(c.UserContext(), quizID, *reqData)
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to update quiz!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz updated successfully", quiz)
}

func (h *Handler) AdminDeleteQuiz(c *fiber.Ctx) error {
	quizID := c.Locals("id").(uint)

	if err := h.Learning.DeleteQuiz(c.UserContext(), quizID); err != nil {
		return middleware.ErrorResponse(c, err, "Failed to delete quiz!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz deleted successfully", nil)
}
