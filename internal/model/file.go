package model

import (
	"time"
)

// File is an upload's metadata row. The bytes themselves live in object
// storage under StoragePath. Private and password-protected are orthogonal:
// a file with a non-empty password hash is password-protected regardless of
// its visibility flag, and both dimensions feed quota accounting.
type File struct {
	ID           string    `db:"id"`
	UserID       string    `db:"user_id"`
	MimeType     string    `db:"mime_type"`
	Size         int64     `db:"size"`
	StoragePath  string    `db:"storage_path"`
	Private      bool      `db:"is_private"`
	PasswordHash *string   `db:"password_hash"`
	Views        int       `db:"views"`
	CreatedAt    time.Time `db:"created_at"`
}

func (f *File) PasswordProtected() bool {
	return f.PasswordHash != nil && *f.PasswordHash != ""
}

func (f *File) OwnedBy(userID string) bool {
	return userID != "" && f.UserID == userID
}
