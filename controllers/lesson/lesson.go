package lessonController

import (
	"careerhub/database"
	"careerhub/middleware"
	"careerhub/models"
	courseModels "careerhub/models/course"
	"careerhub/services/learning"
	lessonValidator "careerhub/validators/lesson"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type Handler struct {
	Learning *learning.Service
}

func NewHandler(svc *learning.Service) *Handler {
	return &Handler{Learning: svc}
}

// canView reports whether the caller is enrolled in the course or is an admin.
func (h *Handler) canView(c *fiber.Ctx, courseID uint) (bool, error) {
	if role, _ := c.Locals("role").(string); role == models.RoleAdmin {
		return true, nil
	}
	return h.Learning.IsEnrolled(c.UserContext(), c.Locals("userId").(uint), courseID)
}

// GetLessons lists the published lessons of a course in order.
func (h *Handler) GetLessons(c *fiber.Ctx) error {
	courseID := c.Locals("courseId").(uint)
	db := database.Database.Db

	var course courseModels.Course
	if err := db.First(&course, courseID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	allowed, err := h.canView(c, course.ID)
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to fetch lessons!")
	}
	if !allowed {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Not enrolled in this course", nil)
	}

	var lessons []courseModels.Lesson
	if err := db.Where("course_id = ? AND status = ?", course.ID, courseModels.LessonStatusPublished).
		Order(`"order" ASC`).
		Find(&lessons).Error; err != nil {
		return middleware.ErrorResponse(c, err, "Failed to fetch lessons!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lessons fetched successfully!", lessons)
}

func (h *Handler) GetLesson(c *fiber.Ctx) error {
	lessonID := c.Locals("id").(uint)

	var lesson courseModels.Lesson
	if err := database.Database.Db.First(&lesson, lessonID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}

	allowed, err := h.canView(c, lesson.CourseID)
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to fetch lesson!")
	}
	if !allowed {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Not enrolled in this course", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson fetched successfully!", lesson)
}

// CompleteLesson marks a lesson finished for the caller.
func (h *Handler) CompleteLesson(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	lessonID := c.Locals("id").(uint)

	result, err := h.Learning.CompleteLesson(c.UserContext(), userId, lessonID)
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to complete lesson!")
	}

	message := "Lesson marked as completed"
	if result.AlreadyCompleted {
		message = "Lesson already completed"
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, message, result)
}

func applyLesson(lesson *courseModels.Lesson, reqData *lessonValidator.LessonRequest) {
	if reqData.Title != nil {
		lesson.Title = *reqData.Title
	}
	if reqData.Description != nil {
		lesson.Description = *reqData.Description
	}
	if reqData.Order != nil {
		lesson.Order = *reqData.Order
	}
	if reqData.Type != nil {
		lesson.Type = *reqData.Type
	}
	if reqData.TextContent != nil {
		lesson.TextContent = *reqData.TextContent
	}
	if reqData.VideoURL != nil {
		lesson.VideoURL = *reqData.VideoURL
	}
	if reqData.VideoDuration != nil {
		lesson.VideoDuration = *reqData.VideoDuration
	}
	if reqData.Resources != nil {
		lesson.Resources = reqData.Resources
	}
	if reqData.Duration != nil {
		lesson.Duration = *reqData.Duration
	}
	if reqData.IsFree != nil {
		lesson.IsFree = *reqData.IsFree
	}
	if reqData.Status != nil {
		lesson.Status = *reqData.Status
	}
}

// orderTaken reports whether another lesson of the course already uses order.
func orderTaken(db *gorm.DB, courseID uint, order int, exceptID uint) (bool, error) {
	var count int64
	err := db.Model(&courseModels.Lesson{}).
		Where(`course_id = ? AND "order" = ? AND id <> ?`, courseID, order, exceptID).
		Count(&count).Error
	return count > 0, err
}

func (h *Handler) AdminCreateLesson(c *fiber.Ctx) error {
	courseID := c.Locals("courseId").(uint)
	db := database.Database.Db

	reqData, ok := c.Locals("validatedLesson").(*lessonValidator.LessonRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var course courseModels.Course
	if err := db.First(&course, courseID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	lesson := courseModels.Lesson{CourseID: course.ID, Status: courseModels.LessonStatusDraft}
	applyLesson(&lesson, reqData)

	taken, err := orderTaken(db, course.ID, lesson.Order, 0)
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to create lesson!")
	}
	if taken {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "A lesson with this order already exists in the course!", nil)
	}

	if err := db.Create(&lesson).Error; err != nil {
		return middleware.ErrorResponse(c, err, "Failed to create lesson!")
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Lesson created successfully", lesson)
}

func (h *Handler) AdminUpdateLesson(c *fiber.Ctx) error {
	lessonID := c.Locals("id").(uint)
	db := database.Database.Db

	reqData, ok := c.Locals("validatedLesson").(*lessonValidator.LessonRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var lesson courseModels.Lesson
	if err := db.First(&lesson, lessonID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}

	applyLesson(&lesson, reqData)
	if reqData.Order != nil {
		taken, err := orderTaken(db, lesson.CourseID, lesson.Order, lesson.ID)
		if err != nil {
			return middleware.ErrorResponse(c, err, "Failed to update lesson!")
		}
		if taken {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "A lesson with this order already exists in the course!", nil)
		}
	}

	if err := db.Save(&lesson).Error; err != nil {
		return middleware.ErrorResponse(c, err, "Failed to update lesson!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson updated successfully", lesson)
}

func (h *Handler) AdminDeleteLesson(c *fiber.Ctx) error {
	lessonID := c.Locals("id").(uint)

	res := database.Database.Db.Delete(&courseModels.Lesson{}, lessonID)
	if res.Error != nil {
		return middleware.ErrorResponse(c, res.Error, "Failed to delete lesson!")
	}
	if res.RowsAffected == 0 {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson deleted successfully", nil)
}

