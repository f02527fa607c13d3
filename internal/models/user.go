package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleTeacher UserRole = "teacher"
	RoleManager UserRole = "manager"
	RoleAdmin   UserRole = "admin"
)

// IsStaff reports whether the role carries full visibility and deletion
// rights over quizzes and sessions, bypassing ownership checks.
func (r UserRole) IsStaff() bool {
	return r == RoleManager || r == RoleAdmin
}

type User struct {
	ID       string   `json:"id" gorm:"primaryKey;size:36"`
	FullName string   `json:"full_name" gorm:"not null;size:100"`
	Email    string   `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Role     UserRole `json:"role" gorm:"not null;default:student;size:20;index"`

	AvatarURL *string `json:"avatar_url" gorm:"size:500"`

	EmailVerified bool `json:"email_verified" gorm:"default:false"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (User) TableName() string {
	return "users"
}
