package course

import (
	"time"
)

// Certificate represents an issued certificate for course completion
type Certificate struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	UserID          uint      `json:"user_id" gorm:"uniqueIndex:idx_certificate_user_course;not null"`
	CourseID        uint      `json:"course_id" gorm:"uniqueIndex:idx_certificate_user_course;not null"`
	CertificateID   string    `json:"certificate_id" gorm:"uniqueIndex;size:64;not null"`
	IssuedAt        time.Time `json:"issued_at"`
	CompletionDate  time.Time `json:"completion_date"`
	Score           *int      `json:"score"`
	VerificationURL string    `json:"verification_url"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
