package model

import (
	"time"
)

// Session is a login credential. The secret is opaque and matched exactly
// against the Authorization bearer value; deleting the row revokes it.
type Session struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Secret    string    `db:"secret"`
	CreatedAt time.Time `db:"created_at"`
}
