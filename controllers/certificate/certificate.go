package certificateController

import (
	"bytes"
	"fmt"

	"careerhub/middleware"
	"careerhub/services/certimage"
	"careerhub/services/learning"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	Learning *learning.Service
}

func NewHandler(svc *learning.Service) *Handler {
	return &Handler{Learning: svc}
}

// VerifyCertificate is the public lookup by certificate identifier.
func (h *Handler) VerifyCertificate(c *fiber.Ctx) error {
	certificateID := c.Locals("certificateId").(string)

	verified, err := h.Learning.VerifyCertificate(c.UserContext(), certificateID)
	if err != nil {
		if learning.IsNotFound(err) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Certificate not found or invalid certificate ID", nil)
		}
		return middleware.ErrorResponse(c, err, "Failed to verify certificate!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate is valid", verified)
}

// GetCertificates lists the caller's certificates, newest first.
func (h *Handler) GetCertificates(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	certificates, err := h.Learning.ListCertificates(c.UserContext(), userId)
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to fetch certificates!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificates fetched successfully!", fiber.Map{
		"count":        len(certificates),
		"certificates": certificates,
	})
}

func (h *Handler) GetCertificate(c *fiber.Ctx) error {
	viewer, err := middleware.CurrentUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	detail, err := h.Learning.GetCertificate(c.UserContext(), viewer, c.Locals("id").(uint))
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to fetch certificate!")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate fetched successfully!", detail)
}

// DownloadCertificate renders the certificate as a PNG attachment.
func (h *Handler) DownloadCertificate(c *fiber.Ctx) error {
	viewer, err := middleware.CurrentUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	detail, err := h.Learning.GetCertificate(c.UserContext(), viewer, c.Locals("id").(uint))
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to download certificate!")
	}

	var buf bytes.Buffer
	err = certimage.RenderPNG(&buf, certimage.Data{
		CertificateID:   detail.CertificateID,
		HolderName:      detail.UserName,
		CourseTitle:     detail.CourseTitle,
		CompletionDate:  detail.CompletionDate,
		IssuedAt:        detail.IssuedAt,
		Score:           detail.Score,
		VerificationURL: detail.VerificationURL,
	})
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to render certificate!")
	}

	c.Set(fiber.HeaderContentType, "image/png")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s.png"`, detail.CertificateID))
	return c.Status(fiber.StatusOK).Send(buf.Bytes())
}

// GenerateCertificate issues the caller's certificate for a completed course.
func (h *Handler) GenerateCertificate(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	courseID := c.Locals("courseId").(uint)

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
