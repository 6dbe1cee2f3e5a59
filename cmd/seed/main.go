package main

import (
	"context"
	"log"
	"os"
	"time"

	"edudash-be/internal/config"
	"edudash-be/internal/entity"
	"edudash-be/internal/model"
	"edudash-be/internal/repository/specification"
	"edudash-be/internal/repository/unitofwork"
	"edudash-be/pkg/chunker"
	"edudash-be/pkg/database"
	"edudash-be/pkg/embedding"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Seeds a small demo campus: users of each role, two courses with
// enrollments, assignments and grades, plus a starter knowledge
// resource announced on the ingestion topic via the running server.
func main() {
	cfg := config.Load()

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		color.Red("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	ctx := context.Background()
	uow := unitofwork.NewRepositoryFactory(db).NewUnitOfWork(ctx)

	color.Cyan("Seeding demo users...")

	admin := seedUser(ctx, uow, "admin@edudash.local", "Avery Admin", model.RoleAdmin)
	lecturer := seedUser(ctx, uow, "lecturer@edudash.local", "Lee Lecturer", model.RoleLecturer)
	student := seedUser(ctx, uow, "student@edudash.local", "Sam Student", model.RoleStudent)
	_ = admin

	color.Cyan("Seeding courses and enrollments...")

	algo := seedCourse(ctx, uow, "CS201", "Algorithms and Data Structures", lecturer.Id)
	db101 := seedCourse(ctx, uow, "CS240", "Database Systems", lecturer.Id)

	seedEnrollment(ctx, uow, algo.Id, student.Id)
	seedEnrollment(ctx, uow, db101.Id, student.Id)

	color.Cyan("Seeding assignments and grades...")

	due := time.Now().Add(14 * 24 * time.Hour)
	hw1 := seedAssignment(ctx, uow, algo.Id, "Sorting algorithms worksheet", &due)
	seedGrade(ctx, uow, hw1.Id, student.Id, 87.5)

	color.Cyan("Seeding starter knowledge resource...")

	resource := entity.Resource{
		Id:      uuid.New(),
		Title:   "Grading policy",
		Content: "Grades range from 0 to 100. Late work is penalized by ten percent per day. A final average above 90 earns distinction.",
		UserId:  lecturer.Id,
	}
	existing, err := uow.ResourceRepository().FindAll(ctx, specification.FilterBy{Field: "title", Value: resource.Title})
	if err != nil {
		color.Red("Failed to check resources: %v", err)
		os.Exit(1)
	}
	if len(existing) == 0 {
		if err := uow.ResourceRepository().Create(ctx, &resource); err != nil {
			color.Red("Failed to create resource: %v", err)
			os.Exit(1)
		}
		embedSeedResource(ctx, uow, cfg, &resource)
	}

	color.Green("✅ Seed complete")
}

// embedSeedResource runs the ingestion pipeline inline. The server's
// ingestion topic lives in its own process, so the seeder cannot
// publish to it; a resource left unembedded here can be recovered with
// POST /api/knowledge/v1/:id/reembed against the running server.
func embedSeedResource(ctx context.Context, uow unitofwork.UnitOfWork, cfg *config.Config, resource *entity.Resource) {
	var provider embedding.Provider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		provider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaModel)
	} else {
		provider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
	}

	chunks := chunker.Split(resource.Content)
	vectors, err := provider.EmbedMany(ctx, chunks)
	if err != nil {
		color.Yellow("Embedding failed (%v); re-embed resource %s once the provider is reachable", err, resource.Id)
		return
	}
	if len(vectors) != len(chunks) {
		color.Yellow("Embedding returned %d vectors for %d chunks; re-embed resource %s", len(vectors), len(chunks), resource.Id)
		return
	}

	embeddings := make([]*entity.ResourceEmbedding, len(chunks))
	for i, chunk := range chunks {
		embeddings[i] = &entity.ResourceEmbedding{
			Id:             uuid.New(),
			Document:       chunk,
			EmbeddingValue: vectors[i],
			ResourceId:     resource.Id,
			ChunkIndex:     i,
			CreatedAt:      time.Now(),
		}
	}
	if err := uow.ResourceEmbeddingRepository().CreateBulk(ctx, embeddings); err != nil {
		color.Red("Failed to store embeddings: %v", err)
		os.Exit(1)
	}
	color.Green("Embedded %d chunks for %s", len(embeddings), resource.Title)
}

func seedUser(ctx context.Context, uow unitofwork.UnitOfWork, email, fullName, role string) *entity.User {
	existing, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: email})
	if err != nil {
		color.Red("Failed to check user %s: %v", email, err)
		os.Exit(1)
	}
	if existing != nil {
		color.Yellow("User %s already exists, skipping", email)
		return existing
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("bcrypt failed: %v", err)
	}
	hashStr := string(hash)

	user := entity.User{
		Id:           uuid.New(),
		Email:        email,
		PasswordHash: &hashStr,
		FullName:     fullName,
		Role:         role,
		CreatedAt:    time.Now(),
	}
	if err := uow.UserRepository().Create(ctx, &user); err != nil {
		color.Red("Failed to create user %s: %v", email, err)
		os.Exit(1)
	}
	color.Green("Created %s (%s)", email, role)
	return &user
}

func seedCourse(ctx context.Context, uow unitofwork.UnitOfWork, code, title string, lecturerId uuid.UUID) *entity.Course {
	existing, err := uow.CourseRepository().FindOne(ctx, specification.FilterBy{Field: "code", Value: code})
	if err != nil {
		color.Red("Failed to check course %s: %v", code, err)
		os.Exit(1)
	}
	if existing != nil {
		return existing
	}

	course := entity.Course{
		Id:         uuid.New(),
		Code:       code,
		Title:      title,
		LecturerId: lecturerId,
		CreatedAt:  time.Now(),
	}
	if err := uow.CourseRepository().Create(ctx, &course); err != nil {
		color.Red("Failed to create course %s: %v", code, err)
		os.Exit(1)
	}
	color.Green("Created course %s", code)
	return &course
}

func seedEnrollment(ctx context.Context, uow unitofwork.UnitOfWork, courseId, userId uuid.UUID) {
	existing, err := uow.EnrollmentRepository().FindAll(ctx,
		specification.ByCourseID{CourseID: courseId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		color.Red("Failed to check enrollment: %v", err)
		os.Exit(1)
	}
	if len(existing) > 0 {
		return
	}

	enrollment := entity.Enrollment{
		Id:        uuid.New(),
		CourseId:  courseId,
		UserId:    userId,
		CreatedAt: time.Now(),
	}
	if err := uow.EnrollmentRepository().Create(ctx, &enrollment); err != nil {
		color.Red("Failed to create enrollment: %v", err)
		os.Exit(1)
	}
}

func seedAssignment(ctx context.Context, uow unitofwork.UnitOfWork, courseId uuid.UUID, title string, dueAt *time.Time) *entity.Assignment {
	existing, err := uow.AssignmentRepository().FindOne(ctx,
		specification.ByCourseID{CourseID: courseId},
		specification.FilterBy{Field: "title", Value: title},
	)
	if err != nil {
		color.Red("Failed to check assignment: %v", err)
		os.Exit(1)
	}
	if existing != nil {
		return existing
	}

	assignment := entity.Assignment{
		Id:        uuid.New(),
		CourseId:  courseId,
		Title:     title,
		DueAt:     dueAt,
		CreatedAt: time.Now(),
	}
	if err := uow.AssignmentRepository().Create(ctx, &assignment); err != nil {
		color.Red("Failed to create assignment: %v", err)
		os.Exit(1)
	}
	return &assignment
}

func seedGrade(ctx context.Context, uow unitofwork.UnitOfWork, assignmentId, userId uuid.UUID, score float64) {
	existing, err := uow.GradeRepository().FindOne(ctx,
		specification.FilterBy{Field: "assignment_id", Value: assignmentId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		color.Red("Failed to check grade: %v", err)
		os.Exit(1)
	}
	if existing != nil {
		return
	}

	grade := entity.Grade{
		Id:           uuid.New(),
		AssignmentId: assignmentId,
		UserId:       userId,
		Score:        score,
		GradedAt:     time.Now(),
	}
	if err := uow.GradeRepository().Create(ctx, &grade); err != nil {
		color.Red("Failed to create grade: %v", err)
		os.Exit(1)
	}
}
