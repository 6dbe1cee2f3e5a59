package mapper

import (
	"time"

	"edudash-be/internal/entity"
	"edudash-be/internal/model"

	"gorm.io/gorm"
)

type AssignmentMapper struct{}

func NewAssignmentMapper() *AssignmentMapper {
	return &AssignmentMapper{}
}

func (m *AssignmentMapper) ToEntity(a *model.Assignment) *entity.Assignment {
	if a == nil {
		return nil
	}

	var deletedAt *time.Time
	if a.DeletedAt.Valid {
		t := a.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !a.UpdatedAt.IsZero() {
		t := a.UpdatedAt
		updatedAt = &t
	}

	return &entity.Assignment{
		Id:          a.Id,
		CourseId:    a.CourseId,
		Title:       a.Title,
		Description: a.Description,
		DueAt:       a.DueAt,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   updatedAt,
		DeletedAt:   deletedAt,
		IsDeleted:   a.DeletedAt.Valid,
	}
}

func (m *AssignmentMapper) ToModel(a *entity.Assignment) *model.Assignment {
	if a == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if a.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *a.DeletedAt, Valid: true}
	} else if a.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if a.UpdatedAt != nil {
		updatedAt = *a.UpdatedAt
	}

	return &model.Assignment{
		Id:          a.Id,
		CourseId:    a.CourseId,
		Title:       a.Title,
		Description: a.Description,
		DueAt:       a.DueAt,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   updatedAt,
		DeletedAt:   deletedAt,
	}
}

func (m *AssignmentMapper) ToEntities(assignments []*model.Assignment) []*entity.Assignment {
	entities := make([]*entity.Assignment, len(assignments))
	for i, a := range assignments {
		entities[i] = m.ToEntity(a)
	}
	return entities
}

func (m *AssignmentMapper) GradeToEntity(g *model.Grade) *entity.Grade {
	if g == nil {
		return nil
	}

	var deletedAt *time.Time
	if g.DeletedAt.Valid {
		t := g.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !g.UpdatedAt.IsZero() {
		t := g.UpdatedAt
		updatedAt = &t
	}

	return &entity.Grade{
		Id:           g.Id,
		AssignmentId: g.AssignmentId,
		UserId:       g.UserId,
		Score:        g.Score,
		Feedback:     g.Feedback,
		GradedAt:     g.GradedAt,
		UpdatedAt:    updatedAt,
		DeletedAt:    deletedAt,
		IsDeleted:    g.DeletedAt.Valid,
	}
}

func (m *AssignmentMapper) GradeToModel(g *entity.Grade) *model.Grade {
	if g == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if g.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *g.DeletedAt, Valid: true}
	} else if g.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if g.UpdatedAt != nil {
		updatedAt = *g.UpdatedAt
	}

	return &model.Grade{
		Id:           g.Id,
		AssignmentId: g.AssignmentId,
		UserId:       g.UserId,
		Score:        g.Score,
		Feedback:     g.Feedback,
		GradedAt:     g.GradedAt,
		UpdatedAt:    updatedAt,
		DeletedAt:    deletedAt,
	}
}

func (m *AssignmentMapper) GradesToEntities(grades []*model.Grade) []*entity.Grade {
	entities := make([]*entity.Grade, len(grades))
	for i, g := range grades {
		entities[i] = m.GradeToEntity(g)
	}
	return entities
}
