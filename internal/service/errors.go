package service

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("user already exists")
	ErrTokenRevoked       = errors.New("token has been revoked")
	ErrInvalidResetToken  = errors.New("invalid or expired reset token")
	ErrBakeBookLimit      = errors.New("bakebook limit reached")
	ErrWishlistLocked     = errors.New("wishlists require a paid plan")
	ErrMuted              = errors.New("muted")
	ErrLLMNotConfigured   = errors.New("LLM API key not configured")
	ErrStorageDisabled    = errors.New("photo storage is not configured")
)

// MutedError is returned when a muted user tries to chat. It matches ErrMuted.
type MutedError struct {
	Until  time.Time
	Reason string
}

func (e *MutedError) Error() string {
	return fmt.Sprintf("muted until %s", e.Until.Format(time.RFC3339))
}

func (e *MutedError) Is(target error) bool {
	return target == ErrMuted
}

// ProviderError is a non-2xx response from the LLM provider.
type ProviderError struct {
	Status int
	Body   string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("LLM provider returned status %d: %s", e.Status, e.Body)
}
