package service

import (
	"context"
	"encoding/json"
	"fmt"

	"edudash-be/internal/dto"
	"edudash-be/internal/entity"
	"edudash-be/internal/model"
	"edudash-be/internal/repository/specification"
	"edudash-be/internal/repository/unitofwork"
	"edudash-be/pkg/tools"

	"github.com/google/uuid"
)

// BuildAssistantCatalog assembles the tools the model is allowed to
// call during a chat turn. Every handler resolves data through its own
// unit of work so tool calls never share transaction state.
func BuildAssistantCatalog(uowFactory unitofwork.RepositoryFactory, knowledge IKnowledgeService) []tools.Tool {
	return []tools.Tool{
		{
			Name:        "add_knowledge",
			Description: "Store a new knowledge resource so it becomes searchable later.",
			Trigger:     "When the user explicitly asks to save, remember, or add information to the knowledge base.",
			Parameters: tools.ObjectSchema(map[string]any{
				"title":   map[string]any{"type": "string", "description": "Short title for the resource. Optional."},
				"content": map[string]any{"type": "string", "description": "The full text to store"},
			}, "content"),
			Execute: func(ctx context.Context, call tools.CallContext, args json.RawMessage) (any, error) {
				var req struct {
					Title   string `json:"title"`
					Content string `json:"content"`
				}
				if err := json.Unmarshal(args, &req); err != nil {
					return nil, fmt.Errorf("invalid arguments: %w", err)
				}
				if req.Title == "" {
					req.Title = resourceTitleFromContent(req.Content)
				}
				return knowledge.Ingest(ctx, call.UserID, &dto.IngestResourceRequest{
					Title:   req.Title,
					Content: req.Content,
				})
			},
		},
		{
			Name:        "search_knowledge",
			Description: "Semantic search over the stored knowledge base.",
			Trigger:     "When the user asks a question that could be answered by course materials or saved notes.",
			Parameters: tools.ObjectSchema(map[string]any{
				"query": map[string]any{"type": "string", "description": "What to search for"},
			}, "query"),
			Execute: func(ctx context.Context, call tools.CallContext, args json.RawMessage) (any, error) {
				var req struct {
					Query string `json:"query"`
				}
				if err := json.Unmarshal(args, &req); err != nil {
					return nil, fmt.Errorf("invalid arguments: %w", err)
				}
				return knowledge.FindRelevant(ctx, req.Query, 0, 0)
			},
		},
		{
			Name:        "get_user_profile",
			Description: "Returns the profile of the user who is chatting.",
			Trigger:     "When the user asks about their own account, name, email, or role.",
			Parameters:  tools.ObjectSchema(map[string]any{}),
			Execute: func(ctx context.Context, call tools.CallContext, args json.RawMessage) (any, error) {
				uow := uowFactory.NewUnitOfWork(ctx)
				user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: call.UserID})
				if err != nil {
					return nil, err
				}
				if user == nil {
					return nil, fmt.Errorf("user not found")
				}
				return map[string]any{
					"id":        user.Id,
					"email":     user.Email,
					"full_name": user.FullName,
					"role":      user.Role,
				}, nil
			},
		},
		{
			Name:        "get_user_courses",
			Description: "Lists the courses the user is enrolled in.",
			Trigger:     "When the user asks which courses they take or are enrolled in.",
			Parameters:  tools.ObjectSchema(map[string]any{}),
			Execute: func(ctx context.Context, call tools.CallContext, args json.RawMessage) (any, error) {
				uow := uowFactory.NewUnitOfWork(ctx)
				courses, err := uow.CourseRepository().FindEnrolledByUser(ctx, call.UserID)
				if err != nil {
					return nil, err
				}
				return coursesToPayload(courses), nil
			},
		},
		{
			Name:        "get_all_courses",
			Description: "Lists every course on the platform.",
			Trigger:     "When the user asks what courses exist or are available.",
			Parameters:  tools.ObjectSchema(map[string]any{}),
			Execute: func(ctx context.Context, call tools.CallContext, args json.RawMessage) (any, error) {
				uow := uowFactory.NewUnitOfWork(ctx)
				courses, err := uow.CourseRepository().FindAll(ctx, specification.OrderBy{Field: "code", Desc: false})
				if err != nil {
					return nil, err
				}
				return coursesToPayload(courses), nil
			},
		},
		{
			Name:        "get_user_assignments",
			Description: "Lists assignments across the user's enrolled courses, soonest due first.",
			Trigger:     "When the user asks about homework, assignments, or deadlines.",
			Parameters:  tools.ObjectSchema(map[string]any{}),
			Execute: func(ctx context.Context, call tools.CallContext, args json.RawMessage) (any, error) {
				uow := uowFactory.NewUnitOfWork(ctx)
				assignments, err := uow.AssignmentRepository().FindForUser(ctx, call.UserID)
				if err != nil {
					return nil, err
				}
				out := make([]map[string]any, len(assignments))
				for i, a := range assignments {
					out[i] = map[string]any{
						"id":        a.Id,
						"course_id": a.CourseId,
						"title":     a.Title,
						"due_at":    a.DueAt,
					}
				}
				return out, nil
			},
		},
		{
			Name:        "get_lecturers",
			Description: "Lists all lecturers on the platform.",
			Trigger:     "When the user asks who teaches or who the lecturers are.",
			Parameters:  tools.ObjectSchema(map[string]any{}),
			Execute: func(ctx context.Context, call tools.CallContext, args json.RawMessage) (any, error) {
				uow := uowFactory.NewUnitOfWork(ctx)
				lecturers, err := uow.UserRepository().FindAll(ctx, specification.ByRole{Role: model.RoleLecturer})
				if err != nil {
					return nil, err
				}
				out := make([]map[string]any, len(lecturers))
				for i, l := range lecturers {
					out[i] = map[string]any{
						"id":        l.Id,
						"full_name": l.FullName,
						"email":     l.Email,
					}
				}
				return out, nil
			},
		},
		{
			Name:        "get_average_grade",
			Description: "Computes the average grade of a user. Students may only see their own.",
			Trigger:     "When the user asks about average grades or overall performance.",
			Parameters: tools.ObjectSchema(map[string]any{
				"user_id": map[string]any{"type": "string", "description": "Target user id. Omit for the current user."},
			}),
			Execute: func(ctx context.Context, call tools.CallContext, args json.RawMessage) (any, error) {
				var req struct {
					UserId string `json:"user_id"`
				}
				if len(args) > 0 {
					if err := json.Unmarshal(args, &req); err != nil {
						return nil, fmt.Errorf("invalid arguments: %w", err)
					}
				}

				target := call.UserID
				if req.UserId != "" {
					parsed, err := uuid.Parse(req.UserId)
					if err != nil {
						return nil, fmt.Errorf("invalid user_id: %w", err)
					}
					if parsed != call.UserID && call.Role == model.RoleStudent {
						return nil, fmt.Errorf("students may only view their own average")
					}
					target = parsed
				}

				uow := uowFactory.NewUnitOfWork(ctx)
				avg, found, err := uow.GradeRepository().AverageForUser(ctx, target)
				if err != nil {
					return nil, err
				}
				if !found {
					return map[string]any{"user_id": target, "average": nil, "graded": false}, nil
				}
				return map[string]any{"user_id": target, "average": avg, "graded": true}, nil
			},
		},
		{
			Name:        "get_course_grades",
			Description: "Lists grades recorded for a course. Students see only their own rows.",
			Trigger:     "When the user asks about grades in a specific course.",
			Parameters: tools.ObjectSchema(map[string]any{
				"course_id": map[string]any{"type": "string", "description": "The course id"},
			}, "course_id"),
			Execute: func(ctx context.Context, call tools.CallContext, args json.RawMessage) (any, error) {
				var req struct {
					CourseId string `json:"course_id"`
				}
				if err := json.Unmarshal(args, &req); err != nil {
					return nil, fmt.Errorf("invalid arguments: %w", err)
				}
				courseId, err := uuid.Parse(req.CourseId)
				if err != nil {
					return nil, fmt.Errorf("invalid course_id: %w", err)
				}

				uow := uowFactory.NewUnitOfWork(ctx)
				grades, err := uow.GradeRepository().FindByCourse(ctx, courseId)
				if err != nil {
					return nil, err
				}

				out := make([]map[string]any, 0, len(grades))
				for _, g := range grades {
					if call.Role == model.RoleStudent && g.UserId != call.UserID {
						continue
					}
					out = append(out, map[string]any{
						"assignment_id": g.AssignmentId,
						"user_id":       g.UserId,
						"score":         g.Score,
					})
				}
				return out, nil
			},
		},
		{
			Name:        "list_resources",
			Description: "Lists the titles of all stored knowledge resources.",
			Trigger:     "When the user asks what is in the knowledge base.",
			Parameters:  tools.ObjectSchema(map[string]any{}),
			Execute: func(ctx context.Context, call tools.CallContext, args json.RawMessage) (any, error) {
				return knowledge.AllResources(ctx)
			},
		},
	}
}

func resourceTitleFromContent(content string) string {
	const maxTitleRunes = 60
	runes := []rune(content)
	if len(runes) <= maxTitleRunes {
		return content
	}
	return string(runes[:maxTitleRunes]) + "..."
}

func coursesToPayload(courses []*entity.Course) []map[string]any {
	out := make([]map[string]any, len(courses))
	for i, c := range courses {
		out[i] = map[string]any{
			"id":    c.Id,
			"code":  c.Code,
			"title": c.Title,
		}
	}
	return out
}
