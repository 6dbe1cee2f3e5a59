package entity

import (
	"time"

	"github.com/google/uuid"
)

type Course struct {
	Id          uuid.UUID
	Code        string
	Title       string
	Description string
	LecturerId  uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   *time.Time
	DeletedAt   *time.Time
	IsDeleted   bool
}

type Enrollment struct {
	Id        uuid.UUID
	CourseId  uuid.UUID
	UserId    uuid.UUID
	CreatedAt time.Time
	DeletedAt *time.Time
	IsDeleted bool
}
