package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Course struct {
	Id          uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Code        string         `gorm:"type:varchar(50);uniqueIndex;not null"`
	Title       string         `gorm:"type:varchar(255);not null"`
	Description string         `gorm:"type:text"`
	LecturerId  uuid.UUID      `gorm:"type:uuid;not null;index"`
	CreatedAt   time.Time      `gorm:"autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime"`
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

func (Course) TableName() string {
	return "courses"
}

type Enrollment struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CourseId  uuid.UUID      `gorm:"type:uuid;not null;index:idx_enrollments_course_user,unique"`
	UserId    uuid.UUID      `gorm:"type:uuid;not null;index:idx_enrollments_course_user,unique"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}
