package contract

import (
	"context"

	"edudash-be/internal/entity"
	"edudash-be/internal/repository/specification"

	"github.com/google/uuid"
)

type AssignmentRepository interface {
	Create(ctx context.Context, assignment *entity.Assignment) error
	Update(ctx context.Context, assignment *entity.Assignment) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Assignment, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Assignment, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// FindForUser returns assignments across every course the user is enrolled in.
	FindForUser(ctx context.Context, userId uuid.UUID) ([]*entity.Assignment, error)
}

type GradeRepository interface {
	Create(ctx context.Context, grade *entity.Grade) error
	Update(ctx context.Context, grade *entity.Grade) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Grade, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Grade, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// AverageForUser computes the mean score over the user's grades.
	// Returns false when the user has no grades.
	AverageForUser(ctx context.Context, userId uuid.UUID) (float64, bool, error)
	// FindByCourse returns every grade recorded for assignments of the course.
	FindByCourse(ctx context.Context, courseId uuid.UUID) ([]*entity.Grade, error)
}
