package unitofwork

import (
	"context"
	"fmt"

	"edudash-be/internal/repository/contract"
	"edudash-be/internal/repository/implementation"

	"gorm.io/gorm"
)

type UnitOfWorkImpl struct {
	db *gorm.DB
	tx *gorm.DB // The active transaction, nil outside Begin/Commit
}

func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &UnitOfWorkImpl{
		db: db,
	}
}

func (u *UnitOfWorkImpl) getDB() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

func (u *UnitOfWorkImpl) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}
	u.tx = u.db.WithContext(ctx).Begin()
	return u.tx.Error
}

func (u *UnitOfWorkImpl) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}
	err := u.tx.Commit().Error
	u.tx = nil
	return err
}

func (u *UnitOfWorkImpl) Rollback() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to rollback")
	}
	err := u.tx.Rollback().Error
	u.tx = nil
	return err
}

// Repository Accessors

func (u *UnitOfWorkImpl) UserRepository() contract.UserRepository {
	return implementation.NewUserRepository(u.getDB())
}

func (u *UnitOfWorkImpl) CourseRepository() contract.CourseRepository {
	return implementation.NewCourseRepository(u.getDB())
}

func (u *UnitOfWorkImpl) EnrollmentRepository() contract.EnrollmentRepository {
	return implementation.NewEnrollmentRepository(u.getDB())
}

func (u *UnitOfWorkImpl) AssignmentRepository() contract.AssignmentRepository {
	return implementation.NewAssignmentRepository(u.getDB())
}

func (u *UnitOfWorkImpl) GradeRepository() contract.GradeRepository {
	return implementation.NewGradeRepository(u.getDB())
}

func (u *UnitOfWorkImpl) ResourceRepository() contract.ResourceRepository {
	return implementation.NewResourceRepository(u.getDB())
}

func (u *UnitOfWorkImpl) ResourceEmbeddingRepository() contract.ResourceEmbeddingRepository {
	return implementation.NewResourceEmbeddingRepository(u.getDB())
}

func (u *UnitOfWorkImpl) ChatRepository() contract.ChatRepository {
	return implementation.NewChatRepository(u.getDB())
}

func (u *UnitOfWorkImpl) ChatMessageRepository() contract.ChatMessageRepository {
	return implementation.NewChatMessageRepository(u.getDB())
}
