package courseValidator

import (
	"careerhub/middleware"
	"careerhub/validators"

	"github.com/gofiber/fiber/v2"
)

type CourseRequest struct {
	Title            *string  `json:"title" validate:"omitempty,notblank,max=100"`
	Description      *string  `json:"description" validate:"omitempty,notblank,max=2000"`
	Category         *string  `json:"category" validate:"omitempty,oneof=technology business design marketing personal-development other"`
	Level            *string  `json:"level" validate:"omitempty,oneof=beginner intermediate advanced"`
	Thumbnail        *string  `json:"thumbnail"`
	Duration         *float64 `json:"duration" validate:"omitempty,min=0"`
	Price            *float64 `json:"price" validate:"omitempty,min=0"`
	IsPaid           *bool    `json:"is_paid"`
	Tags             []string `json:"tags" validate:"omitempty,dive,notblank"`
	Prerequisites    []string `json:"prerequisites"`
	LearningOutcomes []string `json:"learning_outcomes"`
	Status           *string  `json:"status" validate:"omitempty,oneof=draft published archived"`
}

type CourseListQuery struct {
	Page     int    `query:"page" json:"page" validate:"min=1"`
	Limit    int    `query:"limit" json:"limit" validate:"min=1,max=100"`
	Category string `query:"category" json:"category" validate:"omitempty,oneof=technology business design marketing personal-development other"`
	Level    string `query:"level" json:"level" validate:"omitempty,oneof=beginner intermediate advanced"`
	Status   string `query:"status" json:"status" validate:"omitempty,oneof=draft published archived"`
	Search   string `query:"search" json:"search" validate:"max=100"`
}

// CreateCourse requires title, description, category and level.
func CreateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CourseRequest)
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
		if reqData.Description == nil {
			errors["description"] = "Description is required!"
		}
		if reqData.Category == nil {
			errors["category"] = "Category is required!"
		}
		if reqData.Level == nil {
			errors["level"] = "Level is required!"
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

func UpdateCourse() fiber.Handler {
	return validators.Body[CourseRequest]("validatedCourse")
}

func CourseList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := &CourseListQuery{Page: 1, Limit: 10}
		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}
		if errors := validators.Struct(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}
		c.Locals("validatedList", reqData)
		return c.Next()
	}
}

func CourseID() fiber.Handler {
	return validators.ParamID("id", "Course ID")
}
