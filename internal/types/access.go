package types

import "time"

// UnlimitedBakeBook marks a BakeBook limit with no cap.
const UnlimitedBakeBook = -1

// Capabilities is the effective access of a caller, derived from role and promo grants.
type Capabilities struct {
	Role             string     `json:"role"`
	IsAuthenticated  bool       `json:"is_authenticated"`
	IsAdmin          bool       `json:"is_admin"`
	IsCollaborator   bool       `json:"is_collaborator"`
	HasFullAccess    bool       `json:"has_full_access"`
	CanUseWishlists  bool       `json:"can_use_wishlists"`
	BakeBookLimit    int        `json:"bake_book_limit"`
	ChatHistoryLimit int        `json:"chat_history_limit"`
	PromoActive      bool       `json:"promo_active"`
	PromoExpiresAt   *time.Time `json:"promo_expires_at,omitempty"`
}

// BakeBookUnlimited reports whether the caller may save any number of recipes.
func (c Capabilities) BakeBookUnlimited() bool {
	return c.BakeBookLimit == UnlimitedBakeBook
}

// CanManageContent reports whether the caller may edit catalog content.
func (c Capabilities) CanManageContent() bool {
	return c.IsAdmin || c.IsCollaborator
}
