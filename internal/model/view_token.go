package model

import (
	"time"
)

// ViewToken grants access to one password-protected file without re-entering
// the password. When IPHash is set the token only verifies from the requester
// IP it was issued to; the hash is one-way, the IP itself is never stored.
// Tokens are scoped, not single-use, and carry no expiry.
type ViewToken struct {
	ID        string    `db:"id"`
	FileID    string    `db:"file_id"`
	Secret    string    `db:"secret"`
	IPHash    *string   `db:"ip_hash"`
	CreatedAt time.Time `db:"created_at"`
}

func (t *ViewToken) IPBound() bool {
	return t.IPHash != nil && *t.IPHash != ""
}
