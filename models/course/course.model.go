package course

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	CourseStatusDraft     = "draft"
	CourseStatusPublished = "published"
	CourseStatusArchived  = "archived"
)

var (
	CourseCategories = []string{"technology", "business", "design", "marketing", "personal-development", "other"}
	CourseLevels     = []string{"beginner", "intermediate", "advanced"}
)

// Course represents a learning course
type Course struct {
	gorm.Model
	Title            string                      `json:"title" gorm:"not null"`
	Description      string                      `json:"description"`
	Category         string                      `json:"category" gorm:"index"`
	Level            string                      `json:"level" gorm:"index"`
	Thumbnail        string                      `json:"thumbnail"`
	InstructorID     uint                        `json:"instructor_id" gorm:"index;not null"`
	Duration         float64                     `json:"duration" gorm:"default:0"` // hours
	Price            float64                     `json:"price" gorm:"default:0"`
	IsPaid           bool                        `json:"is_paid" gorm:"default:false"`
	Tags             datatypes.JSONSlice[string] `json:"tags"`
	Prerequisites    datatypes.JSONSlice[string] `json:"prerequisites"`
	LearningOutcomes datatypes.JSONSlice[string] `json:"learning_outcomes"`
	Status           string                      `json:"status" gorm:"index;default:'draft'"` // draft, published, archived
	TotalEnrollments int                         `json:"total_enrollments" gorm:"default:0"`
	Rating           float64                     `json:"rating" gorm:"default:0"`
	TotalRatings     int                         `json:"total_ratings" gorm:"default:0"`
}

// CourseEnrollment is one row of a course's enrolled-user list
type CourseEnrollment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CourseID  uint      `json:"course_id" gorm:"uniqueIndex:idx_course_enrollment;not null"`
	UserID    uint      `json:"user_id" gorm:"uniqueIndex:idx_course_enrollment;index;not null"`
	CreatedAt time.Time `json:"created_at"`
}
