package services

import (
	"context"
	"strings"
	"testing"

	"github.com/joshua-takyi/tower15/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConcierge struct {
	history []models.ChatMessage
	props   int
}

func (f *fakeConcierge) AskConcierge(ctx context.Context, props []models.Property, message string, history []models.ChatMessage) string {
	f.history = history
	f.props = len(props)
	return "echo: " + message
}

type memSessions struct {
	sessions map[string][]models.ChatMessage
	getErr   error
}

func (m *memSessions) GetChatHistory(ctx context.Context, sessionID string) ([]models.ChatMessage, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.sessions[sessionID], nil
}

func (m *memSessions) AppendChatMessages(ctx context.Context, sessionID string, msgs ...models.ChatMessage) error {
	m.sessions[sessionID] = append(m.sessions[sessionID], msgs...)
	return nil
}

func newConciergeFixture() (*ConciergeService, *fakeConcierge, *memSessions) {
	fc := &fakeConcierge{}
	sessions := &memSessions{sessions: map[string][]models.ChatMessage{}}
	props := NewPropertyService(newFakeProperties(suite201()), nil, &fakeOracle{}, nil, discardLogger())
	return NewConciergeService(fc, sessions, props, discardLogger()), fc, sessions
}

func TestChatIssuesSessionAndKeepsHistory(t *testing.T) {
	svc, fc, sessions := newConciergeFixture()

	first, err := svc.Chat(context.Background(), "", "Is there parking?")
	require.NoError(t, err)
	assert.NotEmpty(t, first.SessionID)
	assert.Equal(t, "echo: Is there parking?", first.Reply)
	assert.Equal(t, 1, fc.props)

	second, err := svc.Chat(context.Background(), first.SessionID, "And breakfast?")
	require.NoError(t, err)
	assert.Equal(t, first.SessionID, second.SessionID)
	require.Len(t, fc.history, 2)
	assert.Equal(t, models.ChatRoleUser, fc.history[0].Role)
	assert.Equal(t, models.ChatRoleModel, fc.history[1].Role)
	assert.Len(t, sessions.sessions[first.SessionID], 4)
}

func TestChatSurvivesHistoryOutage(t *testing.T) {
	svc, fc, sessions := newConciergeFixture()
	sessions.getErr = errBoom

	reply, err := svc.Chat(context.Background(), "s-1", "hello")
	require.NoError(t, err)
	assert.Equal(t, "echo: hello", reply.Reply)
	assert.Empty(t, fc.history)
}

func TestChatRejectsEmptyAndOversizeMessages(t *testing.T) {
	svc, _, _ := newConciergeFixture()

	_, err := svc.Chat(context.Background(), "", "   ")
	assert.Error(t, err)
	_, err = svc.Chat(context.Background(), "", strings.Repeat("a", maxConciergeMessage+1))
	assert.Error(t, err)
}
