package controllers

import (
	"careerhub/middleware"

	"github.com/gofiber/fiber/v2"
)

// EnrollInCourse enrolls the caller in a course.
func (h *Handler) EnrollInCourse(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	courseID := c.Locals("id").(uint)

	course, progress, err := h.Learning.Enroll(c.UserContext(), userId, courseID)
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to enroll in course!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Successfully enrolled in course", fiber.Map{
		"course":   course,
		"progress": progress,
	})
}

// GenerateCertificate issues the caller's certificate for a completed course.
func (h *Handler) GenerateCertificate(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	courseID := c.Locals("id").(uint)

	cert, created, err := h.Learning.GenerateCertificate(c.UserContext(), userId, courseID)
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to generate certificate!")
	}

	message := "Certificate generated successfully"
	if !created {
		message = "Certificate already generated"
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, message, cert)
}
