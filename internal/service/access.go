package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sashabakes/sasha-bakes/backend/internal/models"
	"github.com/sashabakes/sasha-bakes/backend/internal/types"
)

const (
	freeBakeBookLimit = 10
	freeChatHistory   = 10
	fullChatHistory   = 100
)

// AccessSnapshot is everything the tier rules look at for one caller.
type AccessSnapshot struct {
	Authenticated bool
	// Role from the most recent user_roles row, the least privileged on a
	// timestamp tie. Empty when the user has none.
	Role  string
	Promo *models.PromoUser
}

// ResolveAccess derives capabilities from a snapshot. An active promo lifts a free
// user to paid access and never changes admin or collaborator.
func ResolveAccess(s AccessSnapshot, now time.Time) types.Capabilities {
	if !s.Authenticated {
		return restrictedAccess(models.RoleUnauthenticated)
	}

	role := s.Role
	switch role {
	case models.RoleAdmin, models.RoleCollaborator, models.RolePaid, models.RoleFree:
	default:
		role = models.RoleFree
	}

	promoActive := s.Promo != nil && (s.Promo.ExpiresAt == nil || s.Promo.ExpiresAt.After(now))
	if promoActive && role == models.RoleFree {
		role = models.RolePaid
	}

	caps := types.Capabilities{
		Role:             role,
		IsAuthenticated:  true,
		IsAdmin:          role == models.RoleAdmin,
		IsCollaborator:   role == models.RoleCollaborator,
		BakeBookLimit:    freeBakeBookLimit,
		ChatHistoryLimit: freeChatHistory,
		PromoActive:      promoActive,
	}
	if promoActive {
		caps.PromoExpiresAt = s.Promo.ExpiresAt
	}
	if role != models.RoleFree {
		caps.HasFullAccess = true
		caps.CanUseWishlists = true
		caps.BakeBookLimit = types.UnlimitedBakeBook
		caps.ChatHistoryLimit = fullChatHistory
	}
	return caps
}

func restrictedAccess(role string) types.Capabilities {
	return types.Capabilities{
		Role:             role,
		IsAuthenticated:  role != models.RoleUnauthenticated,
		BakeBookLimit:    freeBakeBookLimit,
		ChatHistoryLimit: freeChatHistory,
	}
}

// AccessService loads role and promo rows and resolves capabilities.
type AccessService struct {
	db  *gorm.DB
	log *zap.Logger
	now func() time.Time
}

func NewAccessService(db *gorm.DB, log *zap.Logger) *AccessService {
	return &AccessService{db: db, log: log, now: time.Now}
}

// Resolve never fails: a lookup error degrades the caller to the free tier.
func (s *AccessService) Resolve(ctx context.Context, userID *uuid.UUID) types.Capabilities {
	if userID == nil {
		return ResolveAccess(AccessSnapshot{}, s.now())
	}

	snapshot, err := s.Snapshot(ctx, *userID)
	if err != nil {
		s.log.Warn("access lookup failed, using restricted tier",
			zap.String("user_id", userID.String()), zap.Error(err))
		return restrictedAccess(models.RoleFree)
	}
	return ResolveAccess(snapshot, s.now())
}

// Snapshot reads the effective role and the longest-lived active promo for a user.
func (s *AccessService) Snapshot(ctx context.Context, userID uuid.UUID) (AccessSnapshot, error) {
	snapshots, err := s.Snapshots(ctx, []uuid.UUID{userID})
	if err != nil {
		return AccessSnapshot{}, err
	}
	return snapshots[userID], nil
}

// Snapshots loads role and promo rows for many users in two queries.
// Every requested id gets an authenticated snapshot, even with no rows.
func (s *AccessService) Snapshots(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]AccessSnapshot, error) {
	out := make(map[uuid.UUID]AccessSnapshot, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}

	var roles []models.UserRole
	if err := s.db.WithContext(ctx).Where("user_id IN ?", userIDs).Find(&roles).Error; err != nil {
		return nil, err
	}
	var promos []models.PromoUser
	if err := s.db.WithContext(ctx).
		Where("user_id IN ? AND (expires_at IS NULL OR expires_at > ?)", userIDs, s.now()).
		Find(&promos).Error; err != nil {
		return nil, err
	}

	latest := make(map[uuid.UUID]*models.UserRole, len(userIDs))
	for i := range roles {
		r := &roles[i]
		cur, ok := latest[r.UserID]
		switch {
		case !ok || r.CreatedAt.After(cur.CreatedAt):
			latest[r.UserID] = r
		case r.CreatedAt.Equal(cur.CreatedAt) && roleRank(r.Role) < roleRank(cur.Role):
			// Rows written in the same instant cannot be ordered; the
			// least privileged one wins so a tie never escalates.
			latest[r.UserID] = r
		}
	}

	for _, id := range userIDs {
		snapshot := AccessSnapshot{Authenticated: true}
		if r, ok := latest[id]; ok {
			snapshot.Role = r.Role
		}
		out[id] = snapshot
	}
	for i := range promos {
		p := &promos[i]
		snapshot, ok := out[p.UserID]
		if !ok {
			continue
		}
		if longerPromo(p, snapshot.Promo) {
			snapshot.Promo = p
			out[p.UserID] = snapshot
		}
	}
	return out, nil
}

// longerPromo reports whether p outlives cur. A nil expiry never ends.
func longerPromo(p, cur *models.PromoUser) bool {
	switch {
	case cur == nil:
		return true
	case cur.ExpiresAt == nil:
		return false
	case p.ExpiresAt == nil:
		return true
	}
	return p.ExpiresAt.After(*cur.ExpiresAt)
}

func roleRank(role string) int {
	switch role {
	case models.RoleAdmin:
		return 3
	case models.RoleCollaborator:
		return 2
	case models.RolePaid:
		return 1
	}
	return 0
}
