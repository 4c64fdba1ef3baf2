package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	ProfileImage    string     `gorm:"default:''"`
	Name            string     `gorm:"default:''"`
	Email           string     `gorm:"unique;not null"`
	Mobile          string     `gorm:"default:''"`
	CNIC            string     `gorm:"column:cnic;default:''"` // National ID, forwarded to the payment gateway
	Role            string     `gorm:"default:'USER'"`         // USER, ADMIN
	Password        string     `gorm:"not null" json:"-"`
	IsEmailVerified bool       `gorm:"default:false"`
	LastLogin       *time.Time `json:"last_login"`
	IsDeleted       bool       `gorm:"default:false"`

	// Enrolled courses and per-course progress
	Enrollments    []Enrollment     `gorm:"foreignKey:UserID" json:"enrollments,omitempty"`
	CourseProgress []CourseProgress `gorm:"foreignKey:UserID" json:"courseProgress,omitempty"`
}
