package controllers

import (
	"strings"
	"time"

	"careerhub/database"
	"careerhub/middleware"
	"careerhub/models"
	courseModels "careerhub/models/course"
	courseValidator "careerhub/validators/course"

	"github.com/gofiber/fiber/v2"
)

func isAdmin(c *fiber.Ctx) bool {
	role, _ := c.Locals("role").(string)
	return role == models.RoleAdmin
}

// GetAllCourses lists courses. Anonymous callers and learners only see
// published courses.
func (h *Handler) GetAllCourses(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedList").(*courseValidator.CourseListQuery)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db.Model(&courseModels.Course{})

	if isAdmin(c) {
		if reqData.Status != "" {
			db = db.Where("status = ?", reqData.Status)
		}
	} else {
		db = db.Where("status = ?", courseModels.CourseStatusPublished)
	}
	if reqData.Category != "" {
		db = db.Where("category = ?", reqData.Category)
	}
	if reqData.Level != "" {
		db = db.Where("level = ?", reqData.Level)
	}
	if search := strings.TrimSpace(reqData.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		db = db.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return middleware.ErrorResponse(c, err, "Failed to fetch courses!")
	}

	offset := (reqData.Page - 1) * reqData.Limit
	var courses []courseModels.Course
	if err := db.Offset(offset).Limit(reqData.Limit).Order("created_at desc").Find(&courses).Error; err != nil {
		return middleware.ErrorResponse(c, err, "Failed to fetch courses!")
	}

	response := map[string]interface{}{
		"courses": courses,
		"pagination": map[string]interface{}{
			"total": total,
			"page":  reqData.Page,
			"limit": reqData.Limit,
			"pages": (total + int64(reqData.Limit) - 1) / int64(reqData.Limit),
		},
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", response)
}

type lessonOutline struct {
	ID       uint   `json:"id"`
	Title    string `json:"title"`
	Order    int    `json:"order"`
	Type     string `json:"type"`
	Duration int    `json:"duration"`
	IsFree   bool   `json:"is_free"`
}

// GetCourseDetails returns one course with its published lesson outline.
func (h *Handler) GetCourseDetails(c *fiber.Ctx) error {
	courseID := c.Locals("id").(uint)

	var course courseModels.Course
	if err := database.Database.Db.First(&course, courseID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}
	if course.Status != courseModels.CourseStatusPublished && !isAdmin(c) {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var lessons []lessonOutline
	if err := database.Database.Db.Model(&courseModels.Lesson{}).
		Where("course_id = ? AND status = ?", course.ID, courseModels.LessonStatusPublished).
		Order(`"order" ASC`).
		Find(&lessons).Error; err != nil {
		return middleware.ErrorResponse(c, err, "Failed to fetch course!")
	}

	var instructor models.User
	database.Database.Db.Unscoped().Select("id", "name").First(&instructor, course.InstructorID)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course fetched successfully!", fiber.Map{
		"course":     course,
		"instructor": fiber.Map{"id": instructor.ID, "name": instructor.Name},
		"lessons":    lessons,
	})
}

type myCourse struct {
	Course             courseModels.Course `json:"course"`
	ProgressPercentage int                 `json:"progress_percentage"`
	EnrolledAt         time.Time           `json:"enrolled_at"`
	LastAccessedAt     time.Time           `json:"last_accessed_at"`
	CompletedAt        *time.Time          `json:"completed_at"`
	CertificateIssued  bool                `json:"certificate_issued"`
}

// GetMyCourses lists the caller's enrolled courses with their progress,
// most recently accessed first.
func (h *Handler) GetMyCourses(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	db := database.Database.Db

	var progresses []courseModels.CourseProgress
	if err := db.Where("user_id = ?", userId).Order("last_accessed_at desc").Find(&progresses).Error; err != nil {
		return middleware.ErrorResponse(c, err, "Failed to fetch enrolled courses!")
	}

	courseIDs := make([]uint, 0, len(progresses))
	for _, p := range progresses {
		courseIDs = append(courseIDs, p.CourseID)
	}
	var courses []courseModels.Course
	if len(courseIDs) > 0 {
		if err := db.Where("id IN ?", courseIDs).Find(&courses).Error; err != nil {
			return middleware.ErrorResponse(c, err, "Failed to fetch enrolled courses!")
		}
	}
	byID := make(map[uint]courseModels.Course, len(courses))
	for _, course := range courses {
		byID[course.ID] = course
	}

	result := make([]myCourse, 0, len(progresses))
	for _, p := range progresses {
		course, ok := byID[p.CourseID]
		if !ok {
			continue // course deleted
		}
		result = append(result, myCourse{
			Course:             course,
			ProgressPercentage: p.ProgressPercentage,
			EnrolledAt:         p.EnrolledAt,
			LastAccessedAt:     p.LastAccessedAt,
			CompletedAt:        p.CompletedAt,
			CertificateIssued:  p.CertificateIssued,
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrolled courses fetched successfully!", result)
}

// GetUserProgress returns the caller's progress record for a course.
func (h *Handler) GetUserProgress(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	courseID := c.Locals("id").(uint)

	var progress courseModels.CourseProgress
	err := database.Database.Db.
		Preload("CompletedLessons").
		Preload("QuizResults").
		Where("user_id = ? AND course_id = ?", userId, courseID).
		First(&progress).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course progress not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", progress)
}
