package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CourseProgress records the videos a user has completed in a course.
// Uniqueness of (course_id, user_id) is an application convention, not a
// database constraint; concurrent verifies can race on find-or-create.
type CourseProgress struct {
	gorm.Model
	CourseID        uint                        `json:"course_id" gorm:"index;not null"`
	UserID          uint                        `json:"user_id" gorm:"index;not null"`
	CompletedVideos datatypes.JSONSlice[string] `json:"completed_videos"`
	IsDeleted       bool                        `gorm:"default:false"`
}
