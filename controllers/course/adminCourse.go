package controllers

import (
	"errors"

	"careerhub/database"
	"careerhub/logger"
	"careerhub/middleware"
	courseModels "careerhub/models/course"
	courseValidator "careerhub/validators/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func applyCourse(course *courseModels.Course, reqData *courseValidator.CourseRequest) {
	if reqData.Title != nil {
		course.Title = *reqData.Title
	}
	if reqData.Description != nil {
		course.Description = *reqData.Description
	}
	if reqData.Category != nil {
		course.Category = *reqData.Category
	}
	if reqData.Level != nil {
		course.Level = *reqData.Level
	}
	if reqData.Thumbnail != nil {
		course.Thumbnail = *reqData.Thumbnail
	}
	if reqData.Duration != nil {
		course.Duration = *reqData.Duration
	}
	if reqData.Price != nil {
		course.Price = *reqData.Price
	}
	if reqData.IsPaid != nil {
		course.IsPaid = *reqData.IsPaid
	}
	if reqData.Tags != nil {
		course.Tags = reqData.Tags
	}
	if reqData.Prerequisites != nil {
		course.Prerequisites = reqData.Prerequisites
	}
	if reqData.LearningOutcomes != nil {
		course.LearningOutcomes = reqData.LearningOutcomes
	}
}

// AdminCreateCourse creates a draft course taught by the calling admin.
func (h *Handler) AdminCreateCourse(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	reqData, ok := c.Locals("validatedCourse").(*courseValidator.CourseRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	course := courseModels.Course{
		InstructorID: userId,
		Status:       courseModels.CourseStatusDraft,
	}
	applyCourse(&course, reqData)

	if err := database.Database.Db.Create(&course).Error; err != nil {
		return middleware.ErrorResponse(c, err, "Failed to create course!")
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully!", course)
}

// AdminUpdateCourse updates course fields. Moving a course to published
// goes through the publish workflow so subscribers are notified.
func (h *Handler) AdminUpdateCourse(c *fiber.Ctx) error {
	courseID := c.Locals("id").(uint)

	reqData, ok := c.Locals("validatedCourse").(*courseValidator.CourseRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var course courseModels.Course
	if err := database.Database.Db.First(&course, courseID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	applyCourse(&course, reqData)
	publish := false
	if reqData.Status != nil {
		if *reqData.Status == courseModels.CourseStatusPublished {
			publish = course.Status != courseModels.CourseStatusPublished
		} else {
			course.Status = *reqData.Status
		}
	}

	if err := database.Database.Db.Save(&course).Error; err != nil {
		return middleware.ErrorResponse(c, err, "Failed to update course!")
	}

	if publish {
		published, _, err := h.Learning.PublishCourse(c.UserContext(), course.ID)
		if err != nil {
			return middleware.ErrorResponse(c, err, "Failed to publish course!")
		}
		course = *published
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course updated successfully!", course)
}

// AdminDeleteCourse deletes a course together with its lessons.
func (h *Handler) AdminDeleteCourse(c *fiber.Ctx) error {
	courseID := c.Locals("id").(uint)

	err := database.Database.Db.Transaction(func(tx *gorm.DB) error {
		var course courseModels.Course
		if err := tx.First(&course, courseID).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", courseID).Delete(&courseModels.Lesson{}).Error; err != nil {
			return err
		}
		return tx.Delete(&course).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to delete course!")
	}

	logger.Log.Info("course deleted", "course_id", courseID)
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course deleted successfully!", nil)
}

// AdminPublishCourse publishes a course and announces it.
func (h *Handler) AdminPublishCourse(c *fiber.Ctx) error {
	courseID := c.Locals("id").(uint)

	course, changed, err := h.Learning.PublishCourse(c.UserContext(), courseID)
	if err != nil {
		return middleware.ErrorResponse(c, err, "Failed to publish course!")
	}

	message := "Course published successfully!"
	if !changed {
		message = "Course is already published"
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, message, course)
}
