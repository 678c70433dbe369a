package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sashabakes/sasha-bakes/backend/internal/models"
	"github.com/sashabakes/sasha-bakes/backend/internal/types"
)

// UserSummary is a user as listed in the back-office.
type UserSummary struct {
	models.User
	Access     types.Capabilities `json:"access"`
	MutedUntil *time.Time         `json:"muted_until,omitempty"`
}

// AdminService manages roles, promo grants and chat mutes.
type AdminService struct {
	db     *gorm.DB
	access *AccessService
	now    func() time.Time
}

func NewAdminService(db *gorm.DB, access *AccessService) *AdminService {
	return &AdminService{db: db, access: access, now: time.Now}
}

// ListUsers returns every user with effective access and any active mute.
// Access rows are loaded in bulk for the whole list.
func (s *AdminService) ListUsers(ctx context.Context) ([]UserSummary, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, err
	}

	var mutes []models.ChatMute
	if err := s.db.WithContext(ctx).Where("muted_until > ?", s.now()).Find(&mutes).Error; err != nil {
		return nil, err
	}
	muted := make(map[uuid.UUID]time.Time, len(mutes))
	for _, m := range mutes {
		muted[m.UserID] = m.MutedUntil
	}

	ids := make([]uuid.UUID, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	snapshots, err := s.access.Snapshots(ctx, ids)
	if err != nil {
		return nil, err
	}

	now := s.now()
	out := make([]UserSummary, 0, len(users))
	for _, u := range users {
		summary := UserSummary{User: u, Access: ResolveAccess(snapshots[u.ID], now)}
		if until, ok := muted[u.ID]; ok {
			summary.MutedUntil = &until
		}
		out = append(out, summary)
	}
	return out, nil
}

func (s *AdminService) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// SetRole appends a role row; the newest row is the effective role.
func (s *AdminService) SetRole(ctx context.Context, grantedBy *uuid.UUID, userID uuid.UUID, role string) (*models.UserRole, error) {
	switch role {
	case models.RoleAdmin, models.RoleCollaborator, models.RolePaid, models.RoleFree:
	default:
		return nil, ErrInvalidInput
	}
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	row := &models.UserRole{UserID: userID, Role: role, GrantedBy: grantedBy}
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (s *AdminService) GrantPromo(ctx context.Context, grantedBy *uuid.UUID, userID uuid.UUID, req *types.PromoGrantRequest) (*models.PromoUser, error) {
	if req.ExpiresAt != nil && !req.ExpiresAt.After(s.now()) {
		return nil, ErrInvalidInput
	}
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	promo := &models.PromoUser{UserID: userID, Note: req.Note, GrantedBy: grantedBy, ExpiresAt: req.ExpiresAt}
	if err := s.db.WithContext(ctx).Create(promo).Error; err != nil {
		return nil, err
	}
	return promo, nil
}

// RevokePromo removes every promo grant of the user.
func (s *AdminService) RevokePromo(ctx context.Context, userID uuid.UUID) error {
	res := s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.PromoUser{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Mute sets or replaces the user's chat mute.
func (s *AdminService) Mute(ctx context.Context, mutedBy *uuid.UUID, userID uuid.UUID, req *types.MuteRequest) (*models.ChatMute, error) {
	if !req.MutedUntil.After(s.now()) {
		return nil, ErrInvalidInput
	}
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	mute := &models.ChatMute{UserID: userID, MutedUntil: req.MutedUntil, Reason: req.Reason, MutedBy: mutedBy}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"muted_until", "reason", "muted_by", "updated_at"}),
	}).Create(mute).Error
	if err != nil {
		return nil, err
	}

	var stored models.ChatMute
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&stored).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}

func (s *AdminService) Unmute(ctx context.Context, userID uuid.UUID) error {
	res := s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.ChatMute{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *AdminService) requireUser(ctx context.Context, userID uuid.UUID) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}
