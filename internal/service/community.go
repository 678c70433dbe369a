package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sashabakes/sasha-bakes/backend/internal/models"
	"github.com/sashabakes/sasha-bakes/backend/internal/types"
)

// CommunityService covers the forum, the blog and support clicks.
type CommunityService struct {
	db *gorm.DB
}

func NewCommunityService(db *gorm.DB) *CommunityService {
	return &CommunityService{db: db}
}

func (s *CommunityService) ListPosts(ctx context.Context, category string) ([]models.ForumPost, error) {
	query := s.db.WithContext(ctx).Order("created_at DESC")
	if category != "" {
		query = query.Where("category = ?", category)
	}
	var posts []models.ForumPost
	err := query.Find(&posts).Error
	return posts, err
}

// GetPost returns a post with its comments, oldest first.
func (s *CommunityService) GetPost(ctx context.Context, id uuid.UUID) (*models.ForumPost, error) {
	var post models.ForumPost
	err := s.db.WithContext(ctx).
		Preload("Comments", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		First(&post, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (s *CommunityService) CreatePost(ctx context.Context, authorID uuid.UUID, req *types.ForumPostRequest) (*models.ForumPost, error) {
	post := &models.ForumPost{AuthorID: authorID, Title: req.Title, Body: req.Body, Category: req.Category}
	if err := s.db.WithContext(ctx).Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

func (s *CommunityService) CreateComment(ctx context.Context, authorID, postID uuid.UUID, req *types.ForumCommentRequest) (*models.ForumComment, error) {
	if _, err := s.GetPost(ctx, postID); err != nil {
		return nil, err
	}
	comment := &models.ForumComment{PostID: postID, AuthorID: authorID, Body: req.Body}
	if err := s.db.WithContext(ctx).Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// DeletePost removes a post and its comments. Only the author or an admin may.
func (s *CommunityService) DeletePost(ctx context.Context, userID uuid.UUID, caps types.Capabilities, postID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.ForumPost
		if err := tx.First(&post, "id = ?", postID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if post.AuthorID != userID && !caps.IsAdmin {
			return ErrForbidden
		}
		if err := tx.Where("post_id = ?", postID).Delete(&models.ForumComment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&post).Error
	})
}

func (s *CommunityService) DeleteComment(ctx context.Context, userID uuid.UUID, caps types.Capabilities, commentID uuid.UUID) error {
	var comment models.ForumComment
	if err := s.db.WithContext(ctx).First(&comment, "id = ?", commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if comment.AuthorID != userID && !caps.IsAdmin {
		return ErrForbidden
	}
	return s.db.WithContext(ctx).Delete(&comment).Error
}

// BlogPostBySlug returns a published post.
func (s *CommunityService) BlogPostBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	var post models.BlogPost
	err := s.db.WithContext(ctx).Scopes(Published).Where("slug = ?", slug).First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// RecordSupportClick counts a click on an enabled support link.
func (s *CommunityService) RecordSupportClick(ctx context.Context, settingID uuid.UUID, userID *uuid.UUID) error {
	var setting models.SupportSetting
	if err := s.db.WithContext(ctx).Scopes(Enabled).First(&setting, "id = ?", settingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.db.WithContext(ctx).Create(&models.SupportClick{SettingID: settingID, UserID: userID}).Error
}
