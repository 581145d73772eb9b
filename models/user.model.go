package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

type User struct {
	gorm.Model
	Name             string `json:"name" gorm:"not null"`
	Email            string `json:"email" gorm:"uniqueIndex;not null"`
	Password         string `json:"-" gorm:"not null"`
	Role             string `json:"role" gorm:"default:'USER'"` // USER, ADMIN
	IsActive         bool   `json:"is_active" gorm:"default:true"`
	NotifyNewCourses bool   `json:"notify_new_courses" gorm:"default:true"`

	FailedLoginAttempts int        `json:"-" gorm:"default:0"`
	LastFailedLogin     *time.Time `json:"-"`
	BlockedUntil        *time.Time `json:"-"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
