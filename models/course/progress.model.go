package course

import (
	"time"

	"gorm.io/gorm"
)

// CourseProgress is the per-(user, course) progress record
type CourseProgress struct {
	gorm.Model
	UserID             uint              `json:"user_id" gorm:"uniqueIndex:idx_progress_user_course;not null"`
	CourseID           uint              `json:"course_id" gorm:"uniqueIndex:idx_progress_user_course;index;not null"`
	ProgressPercentage int               `json:"progress_percentage" gorm:"default:0"`
	EnrolledAt         time.Time         `json:"enrolled_at"`
	LastAccessedAt     time.Time         `json:"last_accessed_at"`
	CompletedAt        *time.Time        `json:"completed_at"`
	CertificateIssued  bool              `json:"certificate_issued" gorm:"default:false"`
	CompletedLessons   []CompletedLesson `json:"completed_lessons" gorm:"foreignKey:ProgressID"`
	QuizResults        []QuizResult      `json:"quiz_results" gorm:"foreignKey:ProgressID"`
}

// CompletedLesson records one finished lesson; the unique index keeps completion idempotent
type CompletedLesson struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	ProgressID  uint      `json:"progress_id" gorm:"uniqueIndex:idx_completed_lesson;not null"`
	LessonID    uint      `json:"lesson_id" gorm:"uniqueIndex:idx_completed_lesson;not null"`
	CompletedAt time.Time `json:"completed_at"`
}

// QuizResult summarises a user's attempts at one quiz of the course
type QuizResult struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	ProgressID uint      `json:"progress_id" gorm:"uniqueIndex:idx_quiz_result;not null"`
	QuizID     uint      `json:"quiz_id" gorm:"uniqueIndex:idx_quiz_result;not null"`
	Attempts   int       `json:"attempts" gorm:"default:0"`
	BestScore  float64   `json:"best_score" gorm:"default:0"`
	Passed     bool      `json:"passed" gorm:"default:false"`
	UpdatedAt  time.Time `json:"updated_at"`
}
