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

type CourseRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CourseMapper
}

func NewCourseRepository(db *gorm.DB) contract.CourseRepository {
	return &CourseRepositoryImpl{
		db:     db,
		mapper: mapper.NewCourseMapper(),
	}
}

func (r *CourseRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *CourseRepositoryImpl) Create(ctx context.Context, course *entity.Course) error {
	m := r.mapper.ToModel(course)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*course = *r.mapper.ToEntity(m)
	return nil
}

func (r *CourseRepositoryImpl) Update(ctx context.Context, course *entity.Course) error {
	m := r.mapper.ToModel(course)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*course = *r.mapper.ToEntity(m)
	return nil
}

func (r *CourseRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Course{}, id).Error
}

func (r *CourseRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Course, error) {
	var m model.Course
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *CourseRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Course, error) {
	var models []*model.Course
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *CourseRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Course{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *CourseRepositoryImpl) FindEnrolledByUser(ctx context.Context, userId uuid.UUID) ([]*entity.Course, error) {
	var models []*model.Course
	err := r.db.WithContext(ctx).
		Joins("JOIN enrollments ON enrollments.course_id = courses.id").
		Where("enrollments.user_id = ?", userId).
		Where("enrollments.deleted_at IS NULL").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

// Enrollment repository

type EnrollmentRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CourseMapper
}

func NewEnrollmentRepository(db *gorm.DB) contract.EnrollmentRepository {
	return &EnrollmentRepositoryImpl{
		db:     db,
		mapper: mapper.NewCourseMapper(),
	}
}

func (r *EnrollmentRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *EnrollmentRepositoryImpl) Create(ctx context.Context, enrollment *entity.Enrollment) error {
	m := r.mapper.EnrollmentToModel(enrollment)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*enrollment = *r.mapper.EnrollmentToEntity(m)
	return nil
}

func (r *EnrollmentRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Enrollment{}, id).Error
}

func (r *EnrollmentRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Enrollment, error) {
	var models []*model.Enrollment
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Enrollment, len(models))
	for i, m := range models {
		entities[i] = r.mapper.EnrollmentToEntity(m)
	}
	return entities, nil
}

func (r *EnrollmentRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Enrollment{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
