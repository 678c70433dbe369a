package models

import (
	"time"

	"github.com/google/uuid"
)

// Role names stored in user_roles.
const (
	RoleAdmin           = "admin"
	RoleCollaborator    = "collaborator"
	RolePaid            = "paid"
	RoleFree            = "free"
	RoleUnauthenticated = "unauthenticated"
)

type User struct {
	Base
	Name         string `gorm:"not null" json:"name"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
}

// ProfileSetting holds the user-editable profile fields.
type ProfileSetting struct {
	Base
	UserID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	DisplayName string    `gorm:"size:80" json:"display_name"`
	Bio         string    `gorm:"type:text" json:"bio"`
	AvatarURL   string    `gorm:"size:255" json:"avatar_url"`
	Newsletter  bool      `gorm:"not null;default:false" json:"newsletter"`
}

func (ProfileSetting) TableName() string {
	return "profile_settings"
}

// UserRole is an append-only role assignment. The most recent row is the effective role.
type UserRole struct {
	Base
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	Role      string     `gorm:"size:20;not null" json:"role"`
	GrantedBy *uuid.UUID `gorm:"type:uuid" json:"granted_by,omitempty"`
}

func (UserRole) TableName() string {
	return "user_roles"
}

// PromoUser grants paid-level access independent of the stored role.
// A nil ExpiresAt never expires.
type PromoUser struct {
	Base
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	Note      string     `gorm:"size:255" json:"note"`
	GrantedBy *uuid.UUID `gorm:"type:uuid" json:"granted_by,omitempty"`
	ExpiresAt *time.Time `json:"expires_at"`
}

func (PromoUser) TableName() string {
	return "promo_users"
}

// ChatMute blocks a user from Sasha until MutedUntil.
type ChatMute struct {
	Base
	UserID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	MutedUntil time.Time  `gorm:"not null" json:"muted_until"`
	Reason     string     `gorm:"type:text" json:"reason"`
	MutedBy    *uuid.UUID `gorm:"type:uuid" json:"muted_by,omitempty"`
}

func (ChatMute) TableName() string {
	return "chat_mutes"
}

type PasswordReset struct {
	Base
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	TokenHash string     `gorm:"size:64;not null;uniqueIndex" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
}

func (PasswordReset) TableName() string {
	return "password_resets"
}
