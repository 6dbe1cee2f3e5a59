package unitofwork

import (
	"context"

	"edudash-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	CourseRepository() contract.CourseRepository
	EnrollmentRepository() contract.EnrollmentRepository
	AssignmentRepository() contract.AssignmentRepository
	GradeRepository() contract.GradeRepository
	ResourceRepository() contract.ResourceRepository
	ResourceEmbeddingRepository() contract.ResourceEmbeddingRepository
	ChatRepository() contract.ChatRepository
	ChatMessageRepository() contract.ChatMessageRepository
}
