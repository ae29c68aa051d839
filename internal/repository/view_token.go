package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shothost/shothost/internal/model"
)

var ErrViewTokenNotFound = errors.New("view token not found")

type ViewTokenRepository interface {
	Create(token *model.ViewToken) error
	// ByFileAndSecret requires both the secret and the file id to match;
	// a token is never valid for a file it was not issued for.
	ByFileAndSecret(fileID, secret string) (*model.ViewToken, error)
}

type viewTokenRepository struct {
	db *sqlx.DB
}

func NewViewTokenRepository(db *sqlx.DB) ViewTokenRepository {
	return &viewTokenRepository{db: db}
}

func (r *viewTokenRepository) Create(token *model.ViewToken) error {
	if token.ID == "" {
		token.ID = uuid.New().String()
	}
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now()
	}

	query := `INSERT INTO view_tokens (id, file_id, secret, ip_hash, created_at) VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.Exec(query, token.ID, token.FileID, token.Secret, token.IPHash, token.CreatedAt)
	return err
}

func (r *viewTokenRepository) ByFileAndSecret(fileID, secret string) (*model.ViewToken, error) {
	token := &model.ViewToken{}
	query := `SELECT * FROM view_tokens WHERE file_id = $1 AND secret = $2`

	err := r.db.Get(token, query, fileID, secret)
	if err == sql.ErrNoRows {
		return nil, ErrViewTokenNotFound
	}

	return token, err
}
