package contract

import (
	"context"

	"edudash-be/internal/entity"
	"edudash-be/internal/repository/specification"

	"github.com/google/uuid"
)

type CourseRepository interface {
	Create(ctx context.Context, course *entity.Course) error
	Update(ctx context.Context, course *entity.Course) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Course, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Course, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// FindEnrolledByUser returns the courses the user is enrolled in.
	FindEnrolledByUser(ctx context.Context, userId uuid.UUID) ([]*entity.Course, error)
}

type EnrollmentRepository interface {
	Create(ctx context.Context, enrollment *entity.Enrollment) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Enrollment, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
