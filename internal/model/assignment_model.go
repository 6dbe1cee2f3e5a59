package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Assignment struct {
	Id          uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CourseId    uuid.UUID      `gorm:"type:uuid;not null;index"`
	Title       string         `gorm:"type:varchar(255);not null"`
	Description string         `gorm:"type:text"`
	DueAt       *time.Time     `gorm:"index"`
	CreatedAt   time.Time      `gorm:"autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime"`
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

func (Assignment) TableName() string {
	return "assignments"
}

type Grade struct {
	Id           uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	AssignmentId uuid.UUID      `gorm:"type:uuid;not null;index:idx_grades_assignment_user,unique"`
	UserId       uuid.UUID      `gorm:"type:uuid;not null;index:idx_grades_assignment_user,unique"`
	Score        float64        `gorm:"not null"` // 0-100 scale
	Feedback     string         `gorm:"type:text"`
	GradedAt     time.Time      `gorm:"autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime"`
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

func (Grade) TableName() string {
	return "grades"
}
