package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sashabakes/sasha-bakes/backend/internal/models"
	"github.com/sashabakes/sasha-bakes/backend/internal/types"
)

// MinInsightLength is the shortest admin message worth mining for insights.
const MinInsightLength = 20

const trainingPersona = `You are in training mode, talking with the owner of Sasha Bakes who is teaching you how Sasha thinks, talks and bakes.
Reply in character, acknowledge what you learned, and ask a short follow-up question when something is unclear.`

const insightPrompt = `Read the admin's message below and extract anything Sasha should remember.
Return ONLY a JSON array of objects with "category" and "content" keys. category is one of
"style", "fact", "do", "dont", "story". content is one short sentence.
Return [] when there is nothing worth saving.

Message:
%s`

// Insight is one note extracted from a training message.
type Insight struct {
	Category string `json:"category"`
	Content  string `json:"content"`
}

// TrainingService runs the admin training chat and stores what it learns.
type TrainingService struct {
	db      *gorm.DB
	llm     Completer
	prompts *PromptBuilder
	cache   *PromptContextCache
	log     *zap.Logger
}

func NewTrainingService(db *gorm.DB, llm Completer, prompts *PromptBuilder, cache *PromptContextCache, log *zap.Logger) *TrainingService {
	return &TrainingService{db: db, llm: llm, prompts: prompts, cache: cache, log: log}
}

// Chat replies to the admin, then saves insights from their latest message.
// Extraction problems never fail the request; they only yield zero insights.
func (s *TrainingService) Chat(ctx context.Context, adminID uuid.UUID, turns []types.ChatTurn) (*types.TrainingChatResponse, error) {
	if !hasContent(turns) {
		return nil, fmt.Errorf("%w: at least one message with content is required", ErrInvalidInput)
	}

	system, err := s.prompts.SystemPrompt(ctx)
	if err != nil {
		return nil, err
	}

	messages := []Message{TextMessage("system", system+"\n\n"+trainingPersona)}
	for _, t := range turns {
		messages = append(messages, turnMessage(t.Role, t.Content, t.Image))
	}

	reply, err := s.llm.Complete(ctx, CompletionRequest{Messages: messages})
	if err != nil {
		return nil, err
	}

	resp := &types.TrainingChatResponse{Message: reply}
	// Only a fresh admin message is mined; an earlier one was mined on its own turn.
	last := turns[len(turns)-1]
	if last.Role != "user" || utf8.RuneCountInString(strings.TrimSpace(last.Content)) < MinInsightLength {
		return resp, nil
	}

	resp.InsightsSaved = s.extractAndSave(ctx, adminID, last.Content)
	return resp, nil
}

func (s *TrainingService) extractAndSave(ctx context.Context, adminID uuid.UUID, text string) int {
	zero := 0.0
	raw, err := s.llm.Complete(ctx, CompletionRequest{
		Messages:    []Message{TextMessage("user", fmt.Sprintf(insightPrompt, text))},
		Temperature: &zero,
	})
	if err != nil {
		s.log.Warn("insight extraction failed", zap.Error(err))
		return 0
	}

	saved := 0
	for _, insight := range ParseInsights(raw) {
		note := models.TrainingNote{
			Category:  insight.Category,
			Content:   insight.Content,
			Source:    "training_chat",
			CreatedBy: &adminID,
		}
		if err := s.db.WithContext(ctx).Create(&note).Error; err != nil {
			s.log.Warn("failed to save insight", zap.String("category", insight.Category), zap.Error(err))
			continue
		}
		saved++
	}
	if saved > 0 {
		s.cache.Invalidate(SectionNotes)
	}
	return saved
}

// ParseInsights decodes the first JSON array in raw model output. Markdown fences
// and prose around it are ignored; malformed output yields nil.
func ParseInsights(raw string) []Insight {
	start := strings.Index(raw, "[")
	if start < 0 {
		return nil
	}

	var parsed []Insight
	if err := json.NewDecoder(strings.NewReader(raw[start:])).Decode(&parsed); err != nil {
		return nil
	}

	insights := make([]Insight, 0, len(parsed))
	for _, in := range parsed {
		in.Category = strings.ToLower(strings.TrimSpace(in.Category))
		in.Content = strings.TrimSpace(in.Content)
		if in.Content == "" || !models.IsNoteCategory(in.Category) {
			continue
		}
		insights = append(insights, in)
	}
	return insights
}
