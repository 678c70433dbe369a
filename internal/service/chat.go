package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sashabakes/sasha-bakes/backend/internal/models"
	"github.com/sashabakes/sasha-bakes/backend/internal/types"
)

// ChatInput is one Sasha request. UserID is nil for anonymous callers.
type ChatInput struct {
	UserID         *uuid.UUID
	Access         types.Capabilities
	Turns          []types.ChatTurn
	ConversationID *uuid.UUID
}

// ChatService proxies conversations to the LLM.
type ChatService struct {
	db      *gorm.DB
	llm     Completer
	prompts *PromptBuilder
	log     *zap.Logger
	now     func() time.Time
}

func NewChatService(db *gorm.DB, llm Completer, prompts *PromptBuilder, log *zap.Logger) *ChatService {
	return &ChatService{db: db, llm: llm, prompts: prompts, log: log, now: time.Now}
}

// Chat answers the conversation. Muted users get a *MutedError before any LLM work.
// When the caller is signed in and names a conversation, prior messages are
// prepended and the last user turn plus the reply are stored.
func (s *ChatService) Chat(ctx context.Context, in ChatInput) (string, error) {
	if !hasContent(in.Turns) {
		return "", fmt.Errorf("%w: at least one message with content is required", ErrInvalidInput)
	}

	if in.UserID != nil {
		if err := s.checkMute(ctx, *in.UserID); err != nil {
			return "", err
		}
	}

	persist := in.UserID != nil && in.ConversationID != nil
	var history []models.ChatMessage
	if persist {
		if _, err := s.conversation(ctx, *in.UserID, *in.ConversationID); err != nil {
			return "", err
		}
		var err error
		history, err = s.history(ctx, *in.ConversationID, in.Access.ChatHistoryLimit)
		if err != nil {
			return "", fmt.Errorf("failed to load history: %w", err)
		}
	}

	system, err := s.prompts.SystemPrompt(ctx)
	if err != nil {
		return "", err
	}

	messages := make([]Message, 0, len(history)+len(in.Turns)+1)
	messages = append(messages, TextMessage("system", system))
	for _, m := range history {
		messages = append(messages, turnMessage(m.Role, m.Content, m.ImageURL))
	}
	for _, t := range in.Turns {
		messages = append(messages, turnMessage(t.Role, t.Content, t.Image))
	}

	reply, err := s.llm.Complete(ctx, CompletionRequest{Messages: messages})
	if err != nil {
		return "", err
	}

	if persist {
		if err := s.persist(ctx, *in.UserID, *in.ConversationID, lastUserTurn(in.Turns), reply); err != nil {
			return "", fmt.Errorf("failed to save messages: %w", err)
		}
	}
	return reply, nil
}

func (s *ChatService) checkMute(ctx context.Context, userID uuid.UUID) error {
	var mute models.ChatMute
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND muted_until > ?", userID, s.now()).
		First(&mute).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to check mute: %w", err)
	}
	return &MutedError{Until: mute.MutedUntil, Reason: mute.Reason}
}

// history returns up to limit most recent messages in chronological order.
func (s *ChatService) history(ctx context.Context, conversationID uuid.UUID, limit int) ([]models.ChatMessage, error) {
	if limit <= 0 {
		limit = freeChatHistory
	}
	var msgs []models.ChatMessage
	if err := s.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at DESC").
		Limit(limit).
		Find(&msgs).Error; err != nil {
		return nil, err
	}
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

func (s *ChatService) persist(ctx context.Context, userID, conversationID uuid.UUID, turn *types.ChatTurn, reply string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if turn != nil {
			if err := tx.Create(&models.ChatMessage{
				ConversationID: conversationID,
				UserID:         userID,
				Role:           "user",
				Content:        turn.Content,
				ImageURL:       turn.Image,
			}).Error; err != nil {
				return err
			}
		}
		if err := tx.Create(&models.ChatMessage{
			ConversationID: conversationID,
			UserID:         userID,
			Role:           "assistant",
			Content:        reply,
		}).Error; err != nil {
			return err
		}
		return tx.Model(&models.ChatConversation{}).
			Where("id = ?", conversationID).
			Update("updated_at", s.now()).Error
	})
}

// ListConversations returns the user's conversations, newest activity first.
func (s *ChatService) ListConversations(ctx context.Context, userID uuid.UUID) ([]models.ChatConversation, error) {
	var convs []models.ChatConversation
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&convs).Error
	return convs, err
}

func (s *ChatService) CreateConversation(ctx context.Context, userID uuid.UUID, title string) (*models.ChatConversation, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		title = "New conversation"
	}
	conv := &models.ChatConversation{UserID: userID, Title: title}
	if err := s.db.WithContext(ctx).Create(conv).Error; err != nil {
		return nil, err
	}
	return conv, nil
}

// Messages returns every stored message of a conversation owned by userID.
func (s *ChatService) Messages(ctx context.Context, userID, conversationID uuid.UUID) ([]models.ChatMessage, error) {
	if _, err := s.conversation(ctx, userID, conversationID); err != nil {
		return nil, err
	}
	var msgs []models.ChatMessage
	err := s.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC").
		Find(&msgs).Error
	return msgs, err
}

func (s *ChatService) DeleteConversation(ctx context.Context, userID, conversationID uuid.UUID) error {
	if _, err := s.conversation(ctx, userID, conversationID); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("conversation_id = ?", conversationID).Delete(&models.ChatMessage{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.ChatConversation{}, "id = ?", conversationID).Error
	})
}

func (s *ChatService) conversation(ctx context.Context, userID, conversationID uuid.UUID) (*models.ChatConversation, error) {
	var conv models.ChatConversation
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", conversationID, userID).
		First(&conv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("conversation %w", ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

func turnMessage(role, content, image string) Message {
	if image != "" {
		return ImageMessage(role, content, image)
	}
	return TextMessage(role, content)
}

func hasContent(turns []types.ChatTurn) bool {
	for _, t := range turns {
		if strings.TrimSpace(t.Content) != "" || t.Image != "" {
			return true
		}
	}
	return false
}

func lastUserTurn(turns []types.ChatTurn) *types.ChatTurn {
	for i := len(turns) - 1; i >= 0; i-- {
		if turns[i].Role == "user" {
			return &turns[i]
		}
	}
	return nil
}
