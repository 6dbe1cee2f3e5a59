package service

import (
	"context"
	"testing"

	"edudash-be/internal/dto"
	"edudash-be/internal/entity"
	"edudash-be/internal/model"
	"edudash-be/internal/pkg/logger"
	"edudash-be/internal/repository/contract"
	"edudash-be/internal/repository/memory"
	"edudash-be/internal/repository/specification"
	"edudash-be/internal/repository/unitofwork"
	"edudash-be/pkg/agent"
	"edudash-be/pkg/llm"
	"edudash-be/pkg/tools"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedProvider replays a fixed token stream with no tool calls.
type scriptedProvider struct {
	reply  string
	tokens []string
}

func (p *scriptedProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return p.reply, nil
}

func (p *scriptedProvider) ChatStream(ctx context.Context, history []llm.Message, specs []llm.ToolSpec, onToken func(string), options ...llm.Option) (*llm.StreamResult, error) {
	for _, tok := range p.tokens {
		onToken(tok)
	}
	return &llm.StreamResult{Content: p.reply}, nil
}

type fakeUserRepo struct {
	contract.UserRepository
	user *entity.User
}

func (r *fakeUserRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	return r.user, nil
}

type fakeChatRepo struct {
	contract.ChatRepository
	chats   []*entity.Chat
	touched int
}

func (r *fakeChatRepo) Create(ctx context.Context, chat *entity.Chat) error {
	r.chats = append(r.chats, chat)
	return nil
}

func (r *fakeChatRepo) Update(ctx context.Context, chat *entity.Chat) error {
	r.touched++
	return nil
}

func (r *fakeChatRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Chat, error) {
	if len(r.chats) == 0 {
		return nil, nil
	}
	return r.chats[0], nil
}

type fakeChatMessageRepo struct {
	contract.ChatMessageRepository
	batches [][]*entity.ChatMessage
}

func (r *fakeChatMessageRepo) CreateBulk(ctx context.Context, messages []*entity.ChatMessage) error {
	r.batches = append(r.batches, messages)
	return nil
}

type fakeEmbeddingRepo struct {
	contract.ResourceEmbeddingRepository
	gotLimit     int
	gotThreshold float64
}

func (r *fakeEmbeddingRepo) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, threshold float64) ([]*entity.ScoredEmbedding, error) {
	r.gotLimit = limit
	r.gotThreshold = threshold
	return nil, nil
}

// fakeUnitOfWork satisfies the full interface via embedding; only the
// repositories a test populates are overridden.
type fakeUnitOfWork struct {
	unitofwork.UnitOfWork
	users      *fakeUserRepo
	chats      *fakeChatRepo
	msgs       *fakeChatMessageRepo
	embeddings *fakeEmbeddingRepo
}

func (u *fakeUnitOfWork) Begin(ctx context.Context) error { return nil }
func (u *fakeUnitOfWork) Commit() error                   { return nil }
func (u *fakeUnitOfWork) Rollback() error                 { return nil }

func (u *fakeUnitOfWork) UserRepository() contract.UserRepository { return u.users }
func (u *fakeUnitOfWork) ChatRepository() contract.ChatRepository { return u.chats }
func (u *fakeUnitOfWork) ChatMessageRepository() contract.ChatMessageRepository {
	return u.msgs
}
func (u *fakeUnitOfWork) ResourceEmbeddingRepository() contract.ResourceEmbeddingRepository {
	return u.embeddings
}

type fakeFactory struct {
	uow *fakeUnitOfWork
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}

func newStreamFixture() (*fakeUnitOfWork, IChatService, uuid.UUID) {
	userId := uuid.New()
	uow := &fakeUnitOfWork{
		users: &fakeUserRepo{user: &entity.User{Id: userId, FullName: "Sam Student", Role: model.RoleStudent}},
		chats: &fakeChatRepo{},
		msgs:  &fakeChatMessageRepo{},
	}
	provider := &scriptedProvider{reply: "Hi there!", tokens: []string{"Hi ", "there!"}}
	orch := agent.NewOrchestrator(provider, tools.NewRegistry(), logger.NewNopLogger())
	svc := NewChatService(&fakeFactory{uow: uow}, orch, memory.NewTurnGuard(), nil, logger.NewNopLogger())
	return uow, svc, userId
}

func collectEvents(events chan agent.Event) []agent.Event {
	close(events)
	var out []agent.Event
	for evt := range events {
		out = append(out, evt)
	}
	return out
}

func TestStreamChatFirstTurn(t *testing.T) {
	uow, svc, userId := newStreamFixture()

	events := make(chan agent.Event, 16)
	err := svc.StreamChat(context.Background(), userId, &dto.StreamChatRequest{
		History: []dto.ChatTurnMessage{{Role: "user", Content: "hello"}},
	}, events)
	require.NoError(t, err)

	collected := collectEvents(events)
	require.NotEmpty(t, collected)
	assert.Equal(t, agent.EventInitialized, collected[0].Type)
	assert.Equal(t, agent.EventComplete, collected[len(collected)-1].Type)

	counts := map[agent.EventType]int{}
	for _, evt := range collected {
		counts[evt.Type]++
	}
	assert.Equal(t, 1, counts[agent.EventInitialized])
	assert.GreaterOrEqual(t, counts[agent.EventGenerating], 1)
	assert.Equal(t, 1, counts[agent.EventChatCreated])
	assert.Equal(t, 1, counts[agent.EventComplete])
	assert.Zero(t, counts[agent.EventError])

	require.Len(t, uow.chats.chats, 1, "exactly one chat created")
	chat := uow.chats.chats[0]
	assert.Equal(t, "New Conversation", chat.Title)
	assert.Equal(t, userId, chat.UserId)
	for _, evt := range collected {
		if evt.Type == agent.EventChatCreated {
			assert.Equal(t, chat.Id, evt.ChatID, "annotation carries the persisted chat id")
		}
	}

	require.Len(t, uow.msgs.batches, 1)
	turn := uow.msgs.batches[0]
	require.Len(t, turn, 2, "exactly user + assistant rows")
	assert.Equal(t, llm.RoleUser, turn[0].Role)
	assert.Equal(t, "hello", turn[0].Content)
	assert.Equal(t, llm.RoleAssistant, turn[1].Role)
	assert.Equal(t, "Hi there!", turn[1].Content)
	assert.Equal(t, chat.Id, turn[0].ChatId)
	assert.Equal(t, chat.Id, turn[1].ChatId)
}

func TestStreamChatSecondTurnAppends(t *testing.T) {
	uow, svc, userId := newStreamFixture()

	first := make(chan agent.Event, 16)
	err := svc.StreamChat(context.Background(), userId, &dto.StreamChatRequest{
		History: []dto.ChatTurnMessage{{Role: "user", Content: "hello"}},
	}, first)
	require.NoError(t, err)
	collectEvents(first)
	require.Len(t, uow.chats.chats, 1)
	chatId := uow.chats.chats[0].Id

	second := make(chan agent.Event, 16)
	err = svc.StreamChat(context.Background(), userId, &dto.StreamChatRequest{
		ChatId: &chatId,
		History: []dto.ChatTurnMessage{
			{Role: "user", Content: "hello"},
			{Role: "assistant", Content: "Hi there!"},
			{Role: "user", Content: "and my grades?"},
		},
	}, second)
	require.NoError(t, err)

	assert.Len(t, uow.chats.chats, 1, "existing chat id must not create a second chat")
	assert.Equal(t, 1, uow.chats.touched, "existing chat gets its updated_at bumped")

	require.Len(t, uow.msgs.batches, 2)
	turn := uow.msgs.batches[1]
	require.Len(t, turn, 2)
	assert.Equal(t, "and my grades?", turn[0].Content)
	assert.Equal(t, chatId, turn[0].ChatId)

	for _, evt := range collectEvents(second) {
		assert.NotEqual(t, agent.EventChatCreated, evt.Type, "no chat_created annotation for an existing chat")
	}
}

func TestHistoryToModelMessages(t *testing.T) {
	history := []dto.ChatTurnMessage{
		{Role: "user", Content: "What is my average grade?"},
		{Role: "assistant", Content: "Your average grade is 87.5."},
		{Role: "user", Content: "And in Algorithms?"},
	}

	messages := historyToModelMessages(history)

	assert.Len(t, messages, 3)
	assert.Equal(t, llm.RoleUser, messages[0].Role)
	assert.Equal(t, llm.RoleAssistant, messages[1].Role)
	assert.Equal(t, "And in Algorithms?", messages[2].Content)
}

func TestHistoryToModelMessagesEmpty(t *testing.T) {
	assert.Empty(t, historyToModelMessages(nil))
}
