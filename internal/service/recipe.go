package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sashabakes/sasha-bakes/backend/internal/models"
	"github.com/sashabakes/sasha-bakes/backend/internal/types"
)

const (
	lockedSignIn  = "Sign in to see the ingredients and method for this recipe."
	lockedPremium = "This is a premium recipe. Upgrade to unlock the full recipe."
)

// RecipeService handles the recipe catalog
type RecipeService struct {
	db    *gorm.DB
	cache *PromptContextCache
	log   *zap.Logger
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB, cache *PromptContextCache, log *zap.Logger) *RecipeService {
	return &RecipeService{db: db, cache: cache, log: log}
}

// GateRecipe builds the view of r allowed by caps. Anonymous callers never see
// ingredients or instructions; free users do not see them for premium recipes.
func GateRecipe(r *models.Recipe, caps types.Capabilities) types.RecipeView {
	view := types.RecipeView{
		ID:          r.ID,
		Title:       r.Title,
		Slug:        r.Slug,
		Description: r.Description,
		Category:    r.Category,
		ImageURL:    r.ImageURL,
		PrepMinutes: r.PrepMinutes,
		BakeMinutes: r.BakeMinutes,
		Servings:    r.Servings,
		Difficulty:  r.Difficulty,
		IsPublic:    r.IsPublic,
		IsPremium:   r.IsPremium,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	for _, p := range r.Photos {
		view.Photos = append(view.Photos, types.PhotoView{ID: p.ID, URL: p.URL, Caption: p.Caption, Position: p.Position})
	}

	switch {
	case !caps.IsAuthenticated:
		view.Locked, view.LockedReason = true, lockedSignIn
	case r.IsPremium && !caps.HasFullAccess:
		view.Locked, view.LockedReason = true, lockedPremium
	default:
		view.Ingredients = append([]string{}, r.Ingredients...)
		view.Instructions = append([]string{}, r.Instructions...)
	}
	return view
}

// List returns catalog recipes. On Postgres a query orders by embedding distance;
// other dialects fall back to keyword matching.
func (s *RecipeService) List(ctx context.Context, filter types.RecipeFilter) ([]models.Recipe, error) {
	query := s.db.WithContext(ctx).Model(&models.Recipe{})
	if !filter.IncludePrivate {
		query = query.Where("is_public = ?", true)
	}
	if filter.Category != "" {
		query = query.Where("LOWER(category) = ?", strings.ToLower(filter.Category))
	}

	if q := strings.TrimSpace(filter.Query); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		if s.db.Dialector.Name() == "postgres" {
			query = query.
				Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(ingredients::text) LIKE ?", like, like, like).
				Clauses(clause.OrderBy{Expression: clause.Expr{SQL: "embedding <-> ?", Vars: []interface{}{GenerateEmbedding(q)}}})
		} else {
			query = query.
				Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(ingredients) LIKE ?", like, like, like).
				Order("title")
		}
	} else {
		query = query.Order("created_at DESC")
	}

	var recipes []models.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// Get loads a recipe with its photos. Non-public recipes are only visible to managers.
func (s *RecipeService) Get(ctx context.Context, id uuid.UUID, caps types.Capabilities) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).
		Preload("Photos", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		First(&recipe, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if !recipe.IsPublic && !caps.CanManageContent() {
		return nil, ErrNotFound
	}
	return &recipe, nil
}

// Exists returns ErrNotFound when no recipe has the id, public or not.
func (s *RecipeService) Exists(ctx context.Context, id uuid.UUID) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Recipe{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}

// View returns the gated recipe with its rating summary.
func (s *RecipeService) View(ctx context.Context, id uuid.UUID, caps types.Capabilities) (*types.RecipeView, error) {
	recipe, err := s.Get(ctx, id, caps)
	if err != nil {
		return nil, err
	}
	view := GateRecipe(recipe, caps)
	if view.Rating, err = s.RatingSummary(ctx, id); err != nil {
		return nil, err
	}
	return &view, nil
}

// Create inserts a recipe and its photos in one transaction.
func (s *RecipeService) Create(ctx context.Context, createdBy uuid.UUID, req *types.RecipeRequest) (*models.Recipe, error) {
	recipe := &models.Recipe{CreatedBy: &createdBy, IsPublic: true}
	applyRecipeRequest(recipe, req)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Photos").Create(recipe).Error; err != nil {
			return err
		}
		return insertPhotos(tx, recipe.ID, req.Photos, 0)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}

	s.cache.Invalidate(SectionRecipes)
	return s.Get(ctx, recipe.ID, types.Capabilities{IsAdmin: true})
}

// Update replaces a recipe's fields. Photos are replaced only when the request
// carries a photo list.
func (s *RecipeService) Update(ctx context.Context, id uuid.UUID, req *types.RecipeRequest) (*models.Recipe, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.First(&recipe, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		applyRecipeRequest(&recipe, req)
		if err := tx.Omit("Photos").Save(&recipe).Error; err != nil {
			return err
		}

		if req.Photos == nil {
			return nil
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.RecipePhoto{}).Error; err != nil {
			return err
		}
		return insertPhotos(tx, id, req.Photos, 0)
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(SectionRecipes)
	return s.Get(ctx, id, types.Capabilities{IsAdmin: true})
}

// Delete soft-deletes a recipe.
func (s *RecipeService) Delete(ctx context.Context, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Delete(&models.Recipe{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	s.cache.Invalidate(SectionRecipes)
	return nil
}

// Rate records the caller's rating. Rating again replaces the previous one.
func (s *RecipeService) Rate(ctx context.Context, userID, recipeID uuid.UUID, req *types.RatingRequest) (*models.RecipeRating, error) {
	if _, err := s.Get(ctx, recipeID, types.Capabilities{}); err != nil {
		return nil, err
	}

	rating := &models.RecipeRating{RecipeID: recipeID, UserID: userID, Rating: req.Rating, Comment: req.Comment}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "recipe_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"rating", "comment", "updated_at"}),
	}).Create(rating).Error
	if err != nil {
		return nil, err
	}

	var stored models.RecipeRating
	if err := s.db.WithContext(ctx).
		Where("recipe_id = ? AND user_id = ?", recipeID, userID).
		First(&stored).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}

func (s *RecipeService) RatingSummary(ctx context.Context, recipeID uuid.UUID) (types.RatingSummary, error) {
	var row struct {
		Average float64
		Count   int64
	}
	err := s.db.WithContext(ctx).Model(&models.RecipeRating{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS count").
		Where("recipe_id = ?", recipeID).
		Scan(&row).Error
	if err != nil {
		return types.RatingSummary{}, err
	}
	return types.RatingSummary{Average: row.Average, Count: row.Count}, nil
}

// Ratings lists individual ratings, newest first.
func (s *RecipeService) Ratings(ctx context.Context, recipeID uuid.UUID) ([]models.RecipeRating, error) {
	var ratings []models.RecipeRating
	err := s.db.WithContext(ctx).
		Where("recipe_id = ?", recipeID).
		Order("created_at DESC").
		Find(&ratings).Error
	return ratings, err
}

func (s *RecipeService) Photos(ctx context.Context, recipeID uuid.UUID) ([]models.RecipePhoto, error) {
	if _, err := s.Get(ctx, recipeID, types.Capabilities{}); err != nil {
		return nil, err
	}
	var photos []models.RecipePhoto
	err := s.db.WithContext(ctx).Where("recipe_id = ?", recipeID).Order("position").Find(&photos).Error
	return photos, err
}

// AddPhoto appends an uploaded photo after the existing ones.
func (s *RecipeService) AddPhoto(ctx context.Context, recipeID uuid.UUID, url, storageKey, caption string) (*models.RecipePhoto, error) {
	photo := &models.RecipePhoto{RecipeID: recipeID, URL: url, StorageKey: storageKey, Caption: caption}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Recipe{}).Where("id = ?", recipeID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
		if err := tx.Model(&models.RecipePhoto{}).Where("recipe_id = ?", recipeID).Count(&count).Error; err != nil {
			return err
		}
		photo.Position = int(count)
		return tx.Create(photo).Error
	})
	if err != nil {
		return nil, err
	}
	return photo, nil
}

func applyRecipeRequest(r *models.Recipe, req *types.RecipeRequest) {
	r.Title = strings.TrimSpace(req.Title)
	r.Slug = req.Slug
	if r.Slug == "" {
		r.Slug = Slugify(r.Title)
	}
	r.Description = req.Description
	r.Category = req.Category
	r.ImageURL = req.ImageURL
	r.Ingredients = models.JSONBStringArray(nonNil(req.Ingredients))
	r.Instructions = models.JSONBStringArray(nonNil(req.Instructions))
	r.PrepMinutes = req.PrepMinutes
	r.BakeMinutes = req.BakeMinutes
	r.Servings = req.Servings
	r.Difficulty = req.Difficulty
	r.IsPremium = req.IsPremium
	if req.IsPublic != nil {
		r.IsPublic = *req.IsPublic
	}
	r.Embedding = RecipeEmbedding(r)
}

func insertPhotos(tx *gorm.DB, recipeID uuid.UUID, photos []types.PhotoRequest, offset int) error {
	for i, p := range photos {
		photo := models.RecipePhoto{RecipeID: recipeID, URL: p.URL, Caption: p.Caption, Position: offset + i}
		if err := tx.Create(&photo).Error; err != nil {
			return fmt.Errorf("failed to insert photo %d: %w", i, err)
		}
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// Slugify lowercases s and joins its letters and digits with dashes.
func Slugify(s string) string {
	var sb strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && sb.Len() > 0 {
				sb.WriteByte('-')
			}
			sb.WriteRune(r)
			dash = false
			continue
		}
		dash = true
	}
	return sb.String()
}
