package models

import "time"

// FamilyInvite is a single-use token granting registration into a family
type FamilyInvite struct {
	ID          int64      `json:"id"`
	FamilyID    int64      `json:"family_id"`
	InviteToken string     `json:"invite_token"`
	CreatedBy   *int64     `json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
	Used        bool       `json:"used"`
	UsedAt      *time.Time `json:"used_at"`
	ExpiresAt   *time.Time `json:"expires_at"`
	FamilyName  string     `json:"family_name,omitempty"` // Populated via JOIN
}

// IsExpired reports whether the invite carries an expiry that has passed
func (i *FamilyInvite) IsExpired() bool {
	return i.ExpiresAt != nil && time.Now().After(*i.ExpiresAt)
}

// IsLive reports whether the invite can still be redeemed
func (i *FamilyInvite) IsLive() bool {
	return !i.Used && !i.IsExpired()
}
