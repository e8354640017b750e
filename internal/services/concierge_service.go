package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joshua-takyi/tower15/internal/models"
)

const maxConciergeMessage = 2000

type Concierge interface {
	AskConcierge(ctx context.Context, props []models.Property, message string, history []models.ChatMessage) string
}

type ConciergeService struct {
	concierge  Concierge
	sessions   models.ConciergeRepo
	properties *PropertyService
	logger     *slog.Logger
}

func NewConciergeService(concierge Concierge, sessions models.ConciergeRepo, properties *PropertyService, logger *slog.Logger) *ConciergeService {
	return &ConciergeService{
		concierge:  concierge,
		sessions:   sessions,
		properties: properties,
		logger:     logger,
	}
}

type ChatReply struct {
	SessionID string `json:"session_id"`
	Reply     string `json:"reply"`
}

// Chat answers one guest message. A new session id is issued when none is given.
// History is best effort: a failing session store degrades to a stateless answer.
func (cs *ConciergeService) Chat(ctx context.Context, sessionID, message string) (*ChatReply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, fmt.Errorf("message is required")
	}
	if len(message) > maxConciergeMessage {
		return nil, fmt.Errorf("message must be at most %d characters", maxConciergeMessage)
	}
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	history, err := cs.sessions.GetChatHistory(ctx, sessionID)
	if err != nil {
		cs.logger.Warn("concierge history unavailable", "session_id", sessionID, "error", err)
		history = nil
	}

	props, err := cs.properties.ListProperties(ctx)
	if err != nil {
		return nil, err
	}

	reply := cs.concierge.AskConcierge(ctx, props, message, history)

	now := time.Now().UTC()
	if err := cs.sessions.AppendChatMessages(ctx, sessionID,
		models.ChatMessage{Role: models.ChatRoleUser, Text: message, At: now},
		models.ChatMessage{Role: models.ChatRoleModel, Text: reply, At: now},
	); err != nil {
		cs.logger.Warn("failed to store concierge messages", "session_id", sessionID, "error", err)
	}

	return &ChatReply{SessionID: sessionID, Reply: reply}, nil
}

func (cs *ConciergeService) History(ctx context.Context, sessionID string) ([]models.ChatMessage, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session id is required")
	}
	return cs.sessions.GetChatHistory(ctx, sessionID)
}
