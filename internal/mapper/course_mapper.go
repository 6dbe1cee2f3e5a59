package mapper

import (
	"time"

	"edudash-be/internal/entity"
	"edudash-be/internal/model"

	"gorm.io/gorm"
)

type CourseMapper struct{}

func NewCourseMapper() *CourseMapper {
	return &CourseMapper{}
}

func (m *CourseMapper) ToEntity(c *model.Course) *entity.Course {
	if c == nil {
		return nil
	}

	var deletedAt *time.Time
	if c.DeletedAt.Valid {
		t := c.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !c.UpdatedAt.IsZero() {
		t := c.UpdatedAt
		updatedAt = &t
	}

	return &entity.Course{
		Id:          c.Id,
		Code:        c.Code,
		Title:       c.Title,
		Description: c.Description,
		LecturerId:  c.LecturerId,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   updatedAt,
		DeletedAt:   deletedAt,
		IsDeleted:   c.DeletedAt.Valid,
	}
}

func (m *CourseMapper) ToModel(c *entity.Course) *model.Course {
	if c == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if c.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *c.DeletedAt, Valid: true}
	} else if c.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if c.UpdatedAt != nil {
		updatedAt = *c.UpdatedAt
	}

	return &model.Course{
		Id:          c.Id,
		Code:        c.Code,
		Title:       c.Title,
		Description: c.Description,
		LecturerId:  c.LecturerId,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   updatedAt,
		DeletedAt:   deletedAt,
	}
}

func (m *CourseMapper) ToEntities(courses []*model.Course) []*entity.Course {
	entities := make([]*entity.Course, len(courses))
	for i, c := range courses {
		entities[i] = m.ToEntity(c)
	}
	return entities
}

func (m *CourseMapper) EnrollmentToEntity(e *model.Enrollment) *entity.Enrollment {
	if e == nil {
		return nil
	}

	var deletedAt *time.Time
	if e.DeletedAt.Valid {
		t := e.DeletedAt.Time
		deletedAt = &t
	}

	return &entity.Enrollment{
		Id:        e.Id,
		CourseId:  e.CourseId,
		UserId:    e.UserId,
		CreatedAt: e.CreatedAt,
		DeletedAt: deletedAt,
		IsDeleted: e.DeletedAt.Valid,
	}
}

func (m *CourseMapper) EnrollmentToModel(e *entity.Enrollment) *model.Enrollment {
	if e == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if e.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *e.DeletedAt, Valid: true}
	} else if e.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	return &model.Enrollment{
		Id:        e.Id,
		CourseId:  e.CourseId,
		UserId:    e.UserId,
		CreatedAt: e.CreatedAt,
		DeletedAt: deletedAt,
	}
}
