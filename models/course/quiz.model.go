package course

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	QuestionMultipleChoice = "multiple-choice"
	QuestionTrueFalse      = "true-false"
	QuestionShortAnswer    = "short-answer"
)

// Quiz belongs to one lesson and, redundantly, its course
type Quiz struct {
	gorm.Model
	LessonID     uint           `json:"lesson_id" gorm:"uniqueIndex;not null"`
	CourseID     uint           `json:"course_id" gorm:"index;not null"`
	Title        string         `json:"title" gorm:"not null"`
	Description  string         `json:"description"`
	PassingScore float64        `json:"passing_score" gorm:"default:70"` // percentage
	TimeLimit    *int           `json:"time_limit"`                      // minutes
	Attempts     int            `json:"attempts" gorm:"default:3"`       // maximum attempts allowed
	Questions    []QuizQuestion `json:"questions" gorm:"foreignKey:QuizID"`
}

type QuizQuestion struct {
	ID            uint         `json:"id" gorm:"primaryKey"`
	QuizID        uint         `json:"quiz_id" gorm:"index;not null"`
	Position      int          `json:"position" gorm:"not null"`
	Prompt        string       `json:"question" gorm:"type:text;not null"`
	Type          string       `json:"type" gorm:"default:'multiple-choice'"`
	CorrectAnswer string       `json:"correct_answer,omitempty"` // short-answer only
	Points        int          `json:"points" gorm:"default:1"`
	Explanation   string       `json:"explanation,omitempty"`
	Options       []QuizOption `json:"options" gorm:"foreignKey:QuestionID"`
}

type QuizOption struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	QuestionID uint   `json:"question_id" gorm:"index;not null"`
	Position   int    `json:"position" gorm:"not null"`
	Text       string `json:"text"`
	IsCorrect  bool   `json:"is_correct" gorm:"default:false"`
}

// GradedAnswer is the per-question outcome stored with an attempt
type GradedAnswer struct {
	QuestionID    uint   `json:"question_id"`
	Answer        string `json:"answer"`
	IsCorrect     bool   `json:"is_correct"`
	PointsEarned  int    `json:"points_earned"`
	CorrectAnswer string `json:"correct_answer"`
	Explanation   string `json:"explanation,omitempty"`
}

// QuizAttempt is immutable once created
type QuizAttempt struct {
	ID            uint                              `json:"id" gorm:"primaryKey"`
	QuizID        uint                              `json:"quiz_id" gorm:"uniqueIndex:idx_attempt_number;not null"`
	UserID        uint                              `json:"user_id" gorm:"uniqueIndex:idx_attempt_number;not null"`
	AttemptNumber int                               `json:"attempt_number" gorm:"uniqueIndex:idx_attempt_number;not null"`
	CourseID      uint                              `json:"course_id" gorm:"index;not null"`
	LessonID      uint                              `json:"lesson_id" gorm:"not null"`
	Answers       datatypes.JSONSlice[GradedAnswer] `json:"answers"`
	Score         int                               `json:"score"`
	TotalPoints   int                               `json:"total_points"`
	Percentage    float64                           `json:"percentage"`
	Passed        bool                              `json:"passed"`
	StartedAt     time.Time                         `json:"started_at"`
	CompletedAt   time.Time                         `json:"completed_at"`
	TimeSpent     int                               `json:"time_spent"` // seconds
	CreatedAt     time.Time                         `json:"created_at"`
}
