package lessonValidator

import (
	"careerhub/middleware"
	courseModels "careerhub/models/course"
	"careerhub/validators"

	"github.com/gofiber/fiber/v2"
)

type LessonRequest struct {
	Title         *string                       `json:"title" validate:"omitempty,notblank,max=200"`
	Description   *string                       `json:"description"`
	Order         *int                          `json:"order" validate:"omitempty,min=1"`
	Type          *string                       `json:"type" validate:"omitempty,oneof=video text mixed"`
	TextContent   *string                       `json:"text_content"`
	VideoURL      *string                       `json:"video_url" validate:"omitempty,url"`
	VideoDuration *int                          `json:"video_duration" validate:"omitempty,min=0"`
	Resources     []courseModels.LessonResource `json:"resources"`
	Duration      *int                          `json:"duration" validate:"omitempty,min=0"`
	IsFree        *bool                         `json:"is_free"`
	Status        *string                       `json:"status" validate:"omitempty,oneof=draft published"`
}

// CreateLesson requires title, order and type.
func CreateLesson() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(LessonRequest)
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
		if reqData.Order == nil {
			errors["order"] = "Order is required!"
		}
		if reqData.Type == nil {
			errors["type"] = "Type is required!"
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedLesson", reqData)
		return c.Next()
	}
}

func UpdateLesson() fiber.Handler {
	return validators.Body[LessonRequest]("validatedLesson")
}

func LessonID() fiber.Handler {
	return validators.ParamID("id", "Lesson ID")
}

func CourseID() fiber.Handler {
	return validators.ParamID("courseId", "Course ID")
}
