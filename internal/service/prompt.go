package service

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/sashabakes/sasha-bakes/backend/internal/models"
)

const promptNoteLimit = 50

const sashaPersona = `You are Sasha, the baker behind Sasha Bakes. You help home bakers with recipes, techniques, troubleshooting and tools.
Stay warm and encouraging, keep answers practical, and recommend recipes and tools from the site when they fit.
If you do not know something, say so instead of guessing.`

var noteHeadings = map[string]string{
	models.NoteStyle: "How Sasha talks",
	models.NoteFact:  "Facts about Sasha",
	models.NoteDo:    "Always",
	models.NoteDont:  "Never",
	models.NoteStory: "Stories Sasha tells",
}

// PromptBuilder assembles Sasha's system prompt from recipes, tools and training notes.
type PromptBuilder struct {
	db    *gorm.DB
	cache *PromptContextCache
}

func NewPromptBuilder(db *gorm.DB, cache *PromptContextCache) *PromptBuilder {
	return &PromptBuilder{db: db, cache: cache}
}

// SystemPrompt renders the persona followed by notes, recipes and tools.
func (b *PromptBuilder) SystemPrompt(ctx context.Context) (string, error) {
	var recipes, tools, notes string

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		recipes, err = b.section(gctx, SectionRecipes, b.renderRecipes)
		return err
	})
	g.Go(func() (err error) {
		tools, err = b.section(gctx, SectionTools, b.renderTools)
		return err
	})
	g.Go(func() (err error) {
		notes, err = b.section(gctx, SectionNotes, b.renderNotes)
		return err
	})
	if err := g.Wait(); err != nil {
		return "", fmt.Errorf("failed to build prompt context: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(sashaPersona)
	for _, part := range []string{notes, recipes, tools} {
		if part != "" {
			sb.WriteString("\n\n")
			sb.WriteString(part)
		}
	}
	return sb.String(), nil
}

func (b *PromptBuilder) section(ctx context.Context, name string, render func(context.Context) (string, error)) (string, error) {
	if text, ok := b.cache.Get(name); ok {
		return text, nil
	}
	gen := b.cache.Generation(name)
	text, err := render(ctx)
	if err != nil {
		return "", err
	}
	b.cache.SetIfCurrent(name, text, gen)
	return text, nil
}

func (b *PromptBuilder) renderRecipes(ctx context.Context) (string, error) {
	var recipes []models.Recipe
	if err := b.db.WithContext(ctx).
		Where("is_public = ?", true).
		Order("title").
		Find(&recipes).Error; err != nil {
		return "", err
	}
	if len(recipes) == 0 {
		return "", nil
	}

	var sb strings.Builder
	sb.WriteString("## Recipes on the site")
	for _, r := range recipes {
		sb.WriteString("\n- ")
		sb.WriteString(r.Title)
		if r.Category != "" {
			fmt.Fprintf(&sb, " (%s)", r.Category)
		}
		if r.Description != "" {
			sb.WriteString(": ")
			sb.WriteString(r.Description)
		}
	}
	return sb.String(), nil
}

func (b *PromptBuilder) renderTools(ctx context.Context) (string, error) {
	var tools []models.BakingTool
	if err := b.db.WithContext(ctx).Order("name").Find(&tools).Error; err != nil {
		return "", err
	}
	if len(tools) == 0 {
		return "", nil
	}

	var sb strings.Builder
	sb.WriteString("## Baking tools Sasha recommends")
	for _, t := range tools {
		sb.WriteString("\n- ")
		sb.WriteString(t.Name)
		if t.Description != "" {
			sb.WriteString(": ")
			sb.WriteString(t.Description)
		}
	}
	return sb.String(), nil
}

func (b *PromptBuilder) renderNotes(ctx context.Context) (string, error) {
	var notes []models.TrainingNote
	if err := b.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(promptNoteLimit).
		Find(&notes).Error; err != nil {
		return "", err
	}
	return FormatTrainingNotes(notes), nil
}

// FormatTrainingNotes groups notes by category in the fixed style, fact, do, dont,
// story order. Unknown categories are dropped.
func FormatTrainingNotes(notes []models.TrainingNote) string {
	grouped := make(map[string][]string, len(models.NoteCategories))
	for _, n := range notes {
		content := strings.TrimSpace(n.Content)
		if content == "" || !models.IsNoteCategory(n.Category) {
			continue
		}
		grouped[n.Category] = append(grouped[n.Category], content)
	}

	var blocks []string
	for _, category := range models.NoteCategories {
		items := grouped[category]
		if len(items) == 0 {
			continue
		}
		var sb strings.Builder
		sb.WriteString("## ")
		sb.WriteString(noteHeadings[category])
		for _, item := range items {
			sb.WriteString("\n- ")
			sb.WriteString(item)
		}
		blocks = append(blocks, sb.String())
	}
	return strings.Join(blocks, "\n\n")
}
