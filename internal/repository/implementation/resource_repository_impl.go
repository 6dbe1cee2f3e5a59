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

type ResourceRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ResourceMapper
}

func NewResourceRepository(db *gorm.DB) contract.ResourceRepository {
	return &ResourceRepositoryImpl{
		db:     db,
		mapper: mapper.NewResourceMapper(),
	}
}

func (r *ResourceRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ResourceRepositoryImpl) Create(ctx context.Context, resource *entity.Resource) error {
	m := r.mapper.ToModel(resource)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*resource = *r.mapper.ToEntity(m)
	return nil
}

func (r *ResourceRepositoryImpl) Update(ctx context.Context, resource *entity.Resource) error {
	m := r.mapper.ToModel(resource)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*resource = *r.mapper.ToEntity(m)
	return nil
}

func (r *ResourceRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Resource{}, id).Error
}

func (r *ResourceRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Resource, error) {
	var m model.Resource
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ResourceRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Resource, error) {
	var models []*model.Resource
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *ResourceRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Resource{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
