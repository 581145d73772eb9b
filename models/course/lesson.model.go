package course

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	LessonStatusDraft     = "draft"
	LessonStatusPublished = "published"
)

var LessonTypes = []string{"video", "text", "mixed"}

// LessonResource is an attachment listed under a lesson
type LessonResource struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Type  string `json:"type"` // pdf, doc, link, ...
}

// Lesson belongs to exactly one course, ordered by Order
type Lesson struct {
	gorm.Model
	CourseID      uint                                `json:"course_id" gorm:"index:idx_lesson_course_order;not null"`
	Title         string                              `json:"title" gorm:"not null"`
	Description   string                              `json:"description"`
	Order         int                                 `json:"order" gorm:"index:idx_lesson_course_order;not null"`
	Type          string                              `json:"type" gorm:"not null"` // video, text, mixed
	TextContent   string                              `json:"text_content" gorm:"type:text"`
	VideoURL      string                              `json:"video_url"`
	VideoDuration int                                 `json:"video_duration"` // minutes
	Resources     datatypes.JSONSlice[LessonResource] `json:"resources"`
	Duration      int                                 `json:"duration"` // minutes
	IsFree        bool                                `json:"is_free" gorm:"default:false"`
	Status        string                              `json:"status" gorm:"index;default:'draft'"` // draft, published
}
