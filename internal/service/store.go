package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sashabakes/sasha-bakes/backend/internal/models"
)

// Scope narrows a Store query.
type Scope = func(*gorm.DB) *gorm.DB

// Store is plain CRUD over one table. Last write wins.
type Store[T any] struct {
	db       *gorm.DB
	order    string
	validate func(*T) error
	onChange func()
}

// StoreOption configures a Store.
type StoreOption[T any] func(*Store[T])

// OrderBy sets the default list ordering.
func OrderBy[T any](order string) StoreOption[T] {
	return func(s *Store[T]) { s.order = order }
}

// Validate runs before every create and update.
func Validate[T any](fn func(*T) error) StoreOption[T] {
	return func(s *Store[T]) { s.validate = fn }
}

// OnChange runs after every successful write.
func OnChange[T any](fn func()) StoreOption[T] {
	return func(s *Store[T]) { s.onChange = fn }
}

func NewStore[T any](db *gorm.DB, opts ...StoreOption[T]) *Store[T] {
	s := &Store[T]{db: db, order: "created_at DESC"}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store[T]) List(ctx context.Context, scopes ...Scope) ([]T, error) {
	var items []T
	if err := s.db.WithContext(ctx).Scopes(scopes...).Order(s.order).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store[T]) Get(ctx context.Context, id uuid.UUID, scopes ...Scope) (*T, error) {
	var item T
	err := s.db.WithContext(ctx).Scopes(scopes...).Where("id = ?", id).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store[T]) Create(ctx context.Context, item *T) error {
	if err := s.check(item); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Create(item).Error; err != nil {
		return err
	}
	s.changed()
	return nil
}

// Update replaces every column of row id with item, keeping id and created_at.
func (s *Store[T]) Update(ctx context.Context, id uuid.UUID, item *T) (*T, error) {
	if err := s.check(item); err != nil {
		return nil, err
	}
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).
		Model(existing).
		Select("*").
		Omit("id", "created_at", clause.Associations).
		Updates(item).Error; err != nil {
		return nil, err
	}
	s.changed()
	return s.Get(ctx, id)
}

func (s *Store[T]) Delete(ctx context.Context, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	s.changed()
	return nil
}

func (s *Store[T]) check(item *T) error {
	if s.validate == nil {
		return nil
	}
	if err := s.validate(item); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

func (s *Store[T]) changed() {
	if s.onChange != nil {
		s.onChange()
	}
}

// Published limits a query to rows with is_published set.
func Published(db *gorm.DB) *gorm.DB {
	return db.Where("is_published = ?", true)
}

// Enabled limits a query to rows with enabled set.
func Enabled(db *gorm.DB) *gorm.DB {
	return db.Where("enabled = ?", true)
}

// Stores groups the back-office tables.
type Stores struct {
	Tools    *Store[models.BakingTool]
	Wellness *Store[models.WellnessItem]
	Bakers   *Store[models.FavoriteBaker]
	Blog     *Store[models.BlogPost]
	Support  *Store[models.SupportSetting]
	Notes    *Store[models.TrainingNote]
	Forum    *Store[models.ForumPost]
	Comments *Store[models.ForumComment]
}

// NewStores wires cache invalidation for tables that feed Sasha's prompt.
func NewStores(db *gorm.DB, cache *PromptContextCache) *Stores {
	return &Stores{
		Tools: NewStore(db,
			OrderBy[models.BakingTool]("name"),
			Validate(func(t *models.BakingTool) error {
				if t.Name == "" {
					return errors.New("name is required")
				}
				return nil
			}),
			OnChange[models.BakingTool](func() { cache.Invalidate(SectionTools) })),
		Wellness: NewStore(db, Validate(func(w *models.WellnessItem) error {
			if w.Title == "" {
				return errors.New("title is required")
			}
			return nil
		})),
		Bakers: NewStore(db,
			OrderBy[models.FavoriteBaker]("position, name"),
			Validate(func(b *models.FavoriteBaker) error {
				if b.Name == "" {
					return errors.New("name is required")
				}
				return nil
			})),
		Blog: NewStore(db, Validate(func(p *models.BlogPost) error {
			if p.Title == "" {
				return errors.New("title is required")
			}
			if p.Slug == "" {
				p.Slug = Slugify(p.Title)
			}
			return nil
		})),
		Support: NewStore(db,
			OrderBy[models.SupportSetting]("platform"),
			Validate(func(s *models.SupportSetting) error {
				if s.Platform == "" || s.URL == "" {
					return errors.New("platform and url are required")
				}
				return nil
			})),
		Notes: NewStore(db,
			Validate(func(n *models.TrainingNote) error {
				if !models.IsNoteCategory(n.Category) {
					return fmt.Errorf("unknown category %q", n.Category)
				}
				if n.Content == "" {
					return errors.New("content is required")
				}
				if n.Source == "" {
					n.Source = "manual"
				}
				return nil
			}),
			OnChange[models.TrainingNote](func() { cache.Invalidate(SectionNotes) })),
		Forum:    NewStore[models.ForumPost](db),
		Comments: NewStore(db, OrderBy[models.ForumComment]("created_at ASC")),
	}
}
