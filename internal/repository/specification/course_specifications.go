package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByCourseID struct {
	CourseID uuid.UUID
}

func (s ByCourseID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("course_id = ?", s.CourseID)
}

type ByCourseIDs struct {
	CourseIDs []uuid.UUID
}

func (s ByCourseIDs) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("course_id IN ?", s.CourseIDs)
}

type ByLecturerID struct {
	LecturerID uuid.UUID
}

func (s ByLecturerID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("lecturer_id = ?", s.LecturerID)
}

type ByAssignmentIDs struct {
	AssignmentIDs []uuid.UUID
}

func (s ByAssignmentIDs) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("assignment_id IN ?", s.AssignmentIDs)
}
