package model

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken stores the SHA-256 digest of an issued refresh token.
// Rows are never removed; rotation and revocation only stamp them.
type RefreshToken struct {
	Base
	TokenHash           string     `gorm:"column:token_hash;size:128;not null;uniqueIndex:idx_refresh_tokens_token_hash"`
	UserID              uuid.UUID  `gorm:"column:user_id;size:36;not null;index"`
	ExpiresAt           time.Time  `gorm:"column:expires_at;not null"`
	IsRevoked           bool       `gorm:"column:is_revoked;not null;default:false"`
	CreatedAt           time.Time  `gorm:"column:created_at"`
	RevokedAt           *time.Time `gorm:"column:revoked_at"`
	RevokedByIP         string     `gorm:"column:revoked_by_ip;size:64"`
	ReplacedByTokenHash string     `gorm:"column:replaced_by_token_hash;size:128"`
}

func (RefreshToken) TableName() string { return "refresh_tokens" }

// IsActive reports whether the token can still be exchanged at now.
func (t *RefreshToken) IsActive(now time.Time) bool {
	return !t.IsRevoked && t.ExpiresAt.After(now)
}
