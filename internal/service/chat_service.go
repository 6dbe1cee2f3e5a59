package service

import (
	"context"
	"encoding/json"
	"time"

	"edudash-be/internal/dto"
	"edudash-be/internal/entity"
	"edudash-be/internal/pkg/apperrors"
	"edudash-be/internal/pkg/logger"
	"edudash-be/internal/repository/memory"
	"edudash-be/internal/repository/specification"
	"edudash-be/internal/repository/unitofwork"
	"edudash-be/pkg/agent"
	"edudash-be/pkg/events"
	"edudash-be/pkg/llm"
	pktNats "edudash-be/pkg/nats"

	"github.com/google/uuid"
)

const defaultChatTitle = "New Conversation"

type IChatService interface {
	// StreamChat runs one assistant turn, pushing events onto the stream.
	// All failures are reported as error events; the returned error mirrors
	// them for logging.
	StreamChat(ctx context.Context, userId uuid.UUID, req *dto.StreamChatRequest, stream chan<- agent.Event) error
	ListChats(ctx context.Context, userId uuid.UUID) ([]*dto.GetAllChatsResponse, error)
	GetChatWithMessages(ctx context.Context, userId uuid.UUID, chatId uuid.UUID) (*dto.GetChatDetailResponse, error)
	DeleteChat(ctx context.Context, userId uuid.UUID, chatId uuid.UUID) error
}

type chatService struct {
	uowFactory     unitofwork.RepositoryFactory
	orchestrator   *agent.Orchestrator
	turnGuard      *memory.TurnGuard
	eventPublisher *pktNats.Publisher
	logger         logger.ILogger
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	orchestrator *agent.Orchestrator,
	turnGuard *memory.TurnGuard,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IChatService {
	return &chatService{
		uowFactory:     uowFactory,
		orchestrator:   orchestrator,
		turnGuard:      turnGuard,
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

func (s *chatService) StreamChat(ctx context.Context, userId uuid.UUID, req *dto.StreamChatRequest, stream chan<- agent.Event) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return s.fail(stream, &apperrors.PersistenceError{Op: "load user", Err: err})
	}
	if user == nil {
		return s.fail(stream, &apperrors.AuthError{Reason: "unknown user"})
	}

	stream <- agent.Event{Type: agent.EventInitialized, At: time.Now()}

	userMessage := req.History[len(req.History)-1].Content

	var chat *entity.Chat
	if req.ChatId != nil {
		chat, err = uow.ChatRepository().FindOne(ctx,
			specification.ByID{ID: *req.ChatId},
			specification.UserOwnedBy{UserID: userId},
		)
		if err != nil {
			return s.fail(stream, &apperrors.PersistenceError{Op: "load chat", Err: err})
		}
		if chat == nil {
			return s.fail(stream, &apperrors.AuthError{Reason: "chat not found or not owned"})
		}
	} else {
		// First turn: suppress client retries that would open a second
		// chat for the same message.
		if !s.turnGuard.Claim(userId, userMessage) {
			return s.fail(stream, &apperrors.AuthError{Reason: "identical turn already in flight"})
		}
		defer s.turnGuard.Release(userId, userMessage)
	}

	history := historyToModelMessages(req.History)

	result, err := s.orchestrator.Run(ctx, agent.Request{
		UserID:  userId,
		Role:    user.Role,
		History: history,
	}, stream)
	if err != nil {
		return s.fail(stream, err)
	}

	chatId, created, err := s.persistTurn(ctx, userId, chat, userMessage, result)
	if err != nil {
		return s.fail(stream, err)
	}

	if created {
		stream <- agent.Event{Type: agent.EventChatCreated, ChatID: chatId}
	}
	stream <- agent.Event{Type: agent.EventComplete, At: time.Now()}

	if s.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: events.TypeChatTurnSaved,
			Data: map[string]interface{}{
				"chat_id": chatId,
				"user_id": userId,
				"steps":   result.Steps,
			},
			OccurredAt: time.Now(),
		}
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("ChatService", "Failed to publish CHAT_TURN_SAVED event", map[string]interface{}{"error": err.Error()})
		}
	}

	return nil
}

// persistTurn writes the chat (when new), the user message and the
// assistant reply in a single transaction. A mid-write failure leaves
// the transcript untouched.
func (s *chatService) persistTurn(ctx context.Context, userId uuid.UUID, chat *entity.Chat, message string, result *agent.Result) (uuid.UUID, bool, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return uuid.Nil, false, &apperrors.PersistenceError{Op: "persist turn", Err: err}
	}
	defer uow.Rollback()

	created := false
	if chat == nil {
		chat = &entity.Chat{
			Id:        uuid.New(),
			UserId:    userId,
			Title:     defaultChatTitle,
			CreatedAt: time.Now(),
		}
		if err := uow.ChatRepository().Create(ctx, chat); err != nil {
			return uuid.Nil, false, &apperrors.PersistenceError{Op: "create chat", Err: err}
		}
		created = true
	} else {
		now := time.Now()
		chat.UpdatedAt = &now
		if err := uow.ChatRepository().Update(ctx, chat); err != nil {
			return uuid.Nil, false, &apperrors.PersistenceError{Op: "touch chat", Err: err}
		}
	}

	var toolPayload []byte
	if len(result.ToolTrace) > 0 {
		payload, err := json.Marshal(result.ToolTrace)
		if err != nil {
			s.logger.Warn("ChatService", "Tool trace not serializable, dropping", map[string]interface{}{"error": err.Error()})
		} else {
			toolPayload = payload
		}
	}

	turn := []*entity.ChatMessage{
		{
			Id:        uuid.New(),
			Content:   message,
			Role:      llm.RoleUser,
			ChatId:    chat.Id,
			CreatedAt: time.Now(),
		},
		{
			Id:          uuid.New(),
			Content:     result.Reply,
			Role:        llm.RoleAssistant,
			ChatId:      chat.Id,
			ToolPayload: toolPayload,
			CreatedAt:   time.Now(),
		},
	}
	if err := uow.ChatMessageRepository().CreateBulk(ctx, turn); err != nil {
		return uuid.Nil, false, &apperrors.PersistenceError{Op: "create messages", Err: err}
	}

	if err := uow.Commit(); err != nil {
		return uuid.Nil, false, &apperrors.PersistenceError{Op: "commit turn", Err: err}
	}
	return chat.Id, created, nil
}

func (s *chatService) ListChats(ctx context.Context, userId uuid.UUID) ([]*dto.GetAllChatsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	chats, err := uow.ChatRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "updated_at", Desc: true},
	)
	if err != nil {
		return nil, &apperrors.PersistenceError{Op: "list chats", Err: err}
	}

	out := make([]*dto.GetAllChatsResponse, len(chats))
	for i, c := range chats {
		out[i] = &dto.GetAllChatsResponse{
			Id:        c.Id,
			Title:     c.Title,
			CreatedAt: c.CreatedAt,
			UpdatedAt: c.UpdatedAt,
		}
	}
	return out, nil
}

func (s *chatService) GetChatWithMessages(ctx context.Context, userId uuid.UUID, chatId uuid.UUID) (*dto.GetChatDetailResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	chat, err := uow.ChatRepository().FindOne(ctx,
		specification.ByID{ID: chatId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, &apperrors.PersistenceError{Op: "load chat", Err: err}
	}
	if chat == nil {
		return nil, nil
	}

	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatID{ChatID: chatId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, &apperrors.PersistenceError{Op: "load history", Err: err}
	}

	out := &dto.GetChatDetailResponse{
		Id:       chat.Id,
		Title:    chat.Title,
		Messages: make([]dto.GetChatHistoryResponse, len(messages)),
	}
	for i, m := range messages {
		out.Messages[i] = dto.GetChatHistoryResponse{
			Id:          m.Id,
			Role:        m.Role,
			Content:     m.Content,
			ToolPayload: m.ToolPayload,
			CreatedAt:   m.CreatedAt,
		}
	}
	return out, nil
}

func (s *chatService) DeleteChat(ctx context.Context, userId uuid.UUID, chatId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	chat, err := uow.ChatRepository().FindOne(ctx,
		specification.ByID{ID: chatId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return &apperrors.PersistenceError{Op: "load chat", Err: err}
	}
	if chat == nil {
		return &apperrors.AuthError{Reason: "chat not found or not owned"}
	}

	if err := uow.Begin(ctx); err != nil {
		return &apperrors.PersistenceError{Op: "delete chat", Err: err}
	}
	defer uow.Rollback()

	if err := uow.ChatMessageRepository().DeleteByChatId(ctx, chatId); err != nil {
		return &apperrors.PersistenceError{Op: "delete messages", Err: err}
	}
	if err := uow.ChatRepository().Delete(ctx, chatId); err != nil {
		return &apperrors.PersistenceError{Op: "delete chat", Err: err}
	}
	if err := uow.Commit(); err != nil {
		return &apperrors.PersistenceError{Op: "commit delete", Err: err}
	}
	return nil
}

func (s *chatService) fail(stream chan<- agent.Event, err error) error {
	s.logger.Error("ChatService", "Stream turn failed", map[string]interface{}{"error": err.Error()})
	stream <- agent.Event{Type: agent.EventError, Message: err.Error(), At: time.Now()}
	return err
}

// historyToModelMessages converts the caller-supplied turn history to
// the model contract. Validation has already constrained roles to
// user/assistant.
func historyToModelMessages(history []dto.ChatTurnMessage) []llm.Message {
	out := make([]llm.Message, len(history))
	for i, m := range history {
		out[i] = llm.Message{Role: m.Role, Content: m.Content}
	}
	return out
}
