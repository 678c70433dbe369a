package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sashabakes/sasha-bakes/backend/internal/models"
	"github.com/sashabakes/sasha-bakes/backend/internal/types"
)

// BakeBookService manages saved recipes and their folders.
type BakeBookService struct {
	db *gorm.DB
}

func NewBakeBookService(db *gorm.DB) *BakeBookService {
	return &BakeBookService{db: db}
}

func (s *BakeBookService) ListBooks(ctx context.Context, userID uuid.UUID) ([]models.BakeBook, error) {
	var books []models.BakeBook
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("name").Find(&books).Error
	return books, err
}

func (s *BakeBookService) CreateBook(ctx context.Context, userID uuid.UUID, caps types.Capabilities, req *types.BakeBookRequest) (*models.BakeBook, error) {
	if req.IsWishlist && !caps.CanUseWishlists {
		return nil, ErrWishlistLocked
	}
	book := &models.BakeBook{UserID: userID, Name: strings.TrimSpace(req.Name), IsWishlist: req.IsWishlist}
	if err := s.db.WithContext(ctx).Create(book).Error; err != nil {
		return nil, err
	}
	return book, nil
}

func (s *BakeBookService) UpdateBook(ctx context.Context, userID, bookID uuid.UUID, caps types.Capabilities, req *types.BakeBookRequest) (*models.BakeBook, error) {
	book, err := s.book(s.db.WithContext(ctx), userID, bookID)
	if err != nil {
		return nil, err
	}
	if req.IsWishlist && !book.IsWishlist && !caps.CanUseWishlists {
		return nil, ErrWishlistLocked
	}
	book.Name = strings.TrimSpace(req.Name)
	book.IsWishlist = req.IsWishlist
	if err := s.db.WithContext(ctx).Save(book).Error; err != nil {
		return nil, err
	}
	return book, nil
}

// DeleteBook removes a folder. Its entries stay saved without a folder.
func (s *BakeBookService) DeleteBook(ctx context.Context, userID, bookID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.book(tx, userID, bookID); err != nil {
			return err
		}
		if err := tx.Model(&models.BakeBookEntry{}).
			Where("user_id = ? AND bake_book_id = ?", userID, bookID).
			Update("bake_book_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.BakeBook{}, "id = ?", bookID).Error
	})
}

// ListEntries returns saved recipes, optionally limited to one folder.
func (s *BakeBookService) ListEntries(ctx context.Context, userID uuid.UUID, bookID *uuid.UUID) ([]models.BakeBookEntry, error) {
	query := s.db.WithContext(ctx).Preload("Recipe").Where("user_id = ?", userID)
	if bookID != nil {
		query = query.Where("bake_book_id = ?", *bookID)
	}
	var entries []models.BakeBookEntry
	err := query.Order("created_at DESC").Find(&entries).Error
	return entries, err
}

// SaveRecipe saves a recipe once per user. Saving an already saved recipe returns
// the existing entry with created=false. New entries count against the tier limit.
func (s *BakeBookService) SaveRecipe(ctx context.Context, userID uuid.UUID, caps types.Capabilities, req *types.SaveRecipeRequest) (*models.BakeBookEntry, bool, error) {
	var entry models.BakeBookEntry
	created := false

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ? AND recipe_id = ?", userID, req.RecipeID).First(&entry).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		var count int64
		if err := tx.Model(&models.Recipe{}).Where("id = ?", req.RecipeID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}

		if !caps.BakeBookUnlimited() {
			if err := tx.Model(&models.BakeBookEntry{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
				return err
			}
			if count >= int64(caps.BakeBookLimit) {
				return ErrBakeBookLimit
			}
		}

		if req.BakeBookID != nil {
			if err := s.checkFolder(tx, userID, *req.BakeBookID, caps); err != nil {
				return err
			}
		}

		entry = models.BakeBookEntry{UserID: userID, RecipeID: req.RecipeID, BakeBookID: req.BakeBookID, Notes: req.Notes}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}
		created = true
		return nil
	})
	if err != nil {
		// A concurrent save may have won the unique index.
		if !errors.Is(err, ErrBakeBookLimit) && !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrWishlistLocked) {
			var existing models.BakeBookEntry
			if s.db.WithContext(ctx).Where("user_id = ? AND recipe_id = ?", userID, req.RecipeID).First(&existing).Error == nil {
				return &existing, false, nil
			}
		}
		return nil, false, err
	}
	return &entry, created, nil
}

// MoveEntry changes an entry's folder or notes.
func (s *BakeBookService) MoveEntry(ctx context.Context, userID, entryID uuid.UUID, caps types.Capabilities, req *types.MoveEntryRequest) (*models.BakeBookEntry, error) {
	var entry models.BakeBookEntry
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", entryID, userID).First(&entry).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if req.BakeBookID != nil {
			if err := s.checkFolder(tx, userID, *req.BakeBookID, caps); err != nil {
				return err
			}
		}
		entry.BakeBookID = req.BakeBookID
		if req.Notes != nil {
			entry.Notes = *req.Notes
		}
		return tx.Save(&entry).Error
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *BakeBookService) DeleteEntry(ctx context.Context, userID, entryID uuid.UUID) error {
	res := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", entryID, userID).Delete(&models.BakeBookEntry{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *BakeBookService) checkFolder(tx *gorm.DB, userID, bookID uuid.UUID, caps types.Capabilities) error {
	book, err := s.book(tx, userID, bookID)
	if err != nil {
		return err
	}
	if book.IsWishlist && !caps.CanUseWishlists {
		return ErrWishlistLocked
	}
	return nil
}

func (s *BakeBookService) book(tx *gorm.DB, userID, bookID uuid.UUID) (*models.BakeBook, error) {
	var book models.BakeBook
	err := tx.Where("id = ? AND user_id = ?", bookID, userID).First(&book).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}
