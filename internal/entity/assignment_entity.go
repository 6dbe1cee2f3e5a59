package entity

import (
	"time"

	"github.com/google/uuid"
)

type Assignment struct {
	Id          uuid.UUID
	CourseId    uuid.UUID
	Title       string
	Description string
	DueAt       *time.Time
	CreatedAt   time.Time
	UpdatedAt   *time.Time
	DeletedAt   *time.Time
	IsDeleted   bool
}

type Grade struct {
	Id           uuid.UUID
	AssignmentId uuid.UUID
	UserId       uuid.UUID
	Score        float64
	Feedback     string
	GradedAt     time.Time
	UpdatedAt    *time.Time
	DeletedAt    *time.Time
	IsDeleted    bool
}
