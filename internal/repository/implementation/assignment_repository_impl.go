package implementation

import (
	"context"
	"errors"

	"edudash-be/internal/entity"
	"edudash-be/internal/mapper"
	"edudash-be/internal/model"
	"edudash-be/internal/repository/contract"
	"edudash-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AssignmentRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.AssignmentMapper
}

func NewAssignmentRepository(db *gorm.DB) contract.AssignmentRepository {
	return &AssignmentRepositoryImpl{
		db:     db,
		mapper: mapper.NewAssignmentMapper(),
	}
}

func (r *AssignmentRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *AssignmentRepositoryImpl) Create(ctx context.Context, assignment *entity.Assignment) error {
	m := r.mapper.ToModel(assignment)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*assignment = *r.mapper.ToEntity(m)
	return nil
}

func (r *AssignmentRepositoryImpl) Update(ctx context.Context, assignment *entity.Assignment) error {
	m := r.mapper.ToModel(assignment)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*assignment = *r.mapper.ToEntity(m)
	return nil
}

func (r *AssignmentRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Assignment{}, id).Error
}

func (r *AssignmentRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Assignment, error) {
	var m model.Assignment
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *AssignmentRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Assignment, error) {
	var models []*model.Assignment
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *AssignmentRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Assignment{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *AssignmentRepositoryImpl) FindForUser(ctx context.Context, userId uuid.UUID) ([]*entity.Assignment, error) {
	var models []*model.Assignment
	err := r.db.WithContext(ctx).
		Joins("JOIN enrollments ON enrollments.course_id = assignments.course_id").
		Where("enrollments.user_id = ?", userId).
		Where("enrollments.deleted_at IS NULL").
		Order("assignments.due_at ASC NULLS LAST").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

// Grade repository

type GradeRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.AssignmentMapper
}

func NewGradeRepository(db *gorm.DB) contract.GradeRepository {
	return &GradeRepositoryImpl{
		db:     db,
		mapper: mapper.NewAssignmentMapper(),
	}
}

func (r *GradeRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *GradeRepositoryImpl) Create(ctx context.Context, grade *entity.Grade) error {
	m := r.mapper.GradeToModel(grade)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*grade = *r.mapper.GradeToEntity(m)
	return nil
}

func (r *GradeRepositoryImpl) Update(ctx context.Context, grade *entity.Grade) error {
	m := r.mapper.GradeToModel(grade)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*grade = *r.mapper.GradeToEntity(m)
	return nil
}

func (r *GradeRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Grade{}, id).Error
}

func (r *GradeRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Grade, error) {
	var m model.Grade
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.GradeToEntity(&m), nil
}

func (r *GradeRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Grade, error) {
	var models []*model.Grade
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.GradesToEntities(models), nil
}

func (r *GradeRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Grade{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GradeRepositoryImpl) AverageForUser(ctx context.Context, userId uuid.UUID) (float64, bool, error) {
	var avg *float64
	err := r.db.WithContext(ctx).
		Model(&model.Grade{}).
		Select("AVG(score)").
		Where("user_id = ?", userId).
		Scan(&avg).Error
	if err != nil {
		return 0, false, err
	}
	if avg == nil {
		return 0, false, nil
	}
	return *avg, true, nil
}

func (r *GradeRepositoryImpl) FindByCourse(ctx context.Context, courseId uuid.UUID) ([]*entity.Grade, error) {
	var models []*model.Grade
	err := r.db.WithContext(ctx).
		Joins("JOIN assignments ON assignments.id = grades.assignment_id").
		Where("assignments.course_id = ?", courseId).
		Where("assignments.deleted_at IS NULL").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return r.mapper.GradesToEntities(models), nil
}
