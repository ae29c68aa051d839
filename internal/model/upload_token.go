package model

import (
	"time"
)

// UploadToken is a revocable upload credential, distinct from a login
// session. Name is unique per owner. When MaxUses is set, Uses never exceeds
// it; each accepted upload increments Uses exactly once.
type UploadToken struct {
	ID          string    `db:"id"`
	UserID      string    `db:"user_id"`
	Name        string    `db:"name"`
	Description *string   `db:"description"`
	Secret      string    `db:"secret"`
	MaxUses     *int      `db:"max_uses"`
	Uses        int       `db:"uses"`
	CreatedAt   time.Time `db:"created_at"`
}

// Exhausted reports whether the token has no uses left.
func (t *UploadToken) Exhausted() bool {
	return t.MaxUses != nil && t.Uses >= *t.MaxUses
}

// UploadTokenUse records a single accepted upload performed with a token.
type UploadTokenUse struct {
	ID        string    `db:"id"`
	TokenID   string    `db:"token_id"`
	FileID    string    `db:"file_id"`
	UserID    string    `db:"user_id"`
	CreatedAt time.Time `db:"created_at"`
}
