package repository

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shothost/shothost/internal/model"
)

var (
	ErrUploadTokenNotFound  = errors.New("upload token not found")
	ErrDuplicateTokenName   = errors.New("upload token name already exists")
	ErrUploadTokenExhausted = errors.New("upload token has no uses left")
)

type UploadTokenRepository interface {
	Create(token *model.UploadToken) error
	// Resolve joins the token row to its owning user. Exactly one match is
	// required; anything else is ErrUploadTokenNotFound.
	Resolve(secret string) (*model.User, *model.UploadToken, error)
	ByUser(userID string) ([]*model.UploadToken, error)
	ByID(id, userID string) (*model.UploadToken, error)
	Delete(id, userID string) error
	// UpdateSecret rotates the token secret. Use counters are untouched.
	UpdateSecret(id, userID, secret string) error
	Usage(tokenID string) ([]*model.UploadTokenUse, error)
}

type uploadTokenRepository struct {
	db *sqlx.DB
}

func NewUploadTokenRepository(db *sqlx.DB) UploadTokenRepository {
	return &uploadTokenRepository{db: db}
}

func (r *uploadTokenRepository) Create(token *model.UploadToken) error {
	if token.ID == "" {
		token.ID = uuid.New().String()
	}
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now()
	}

	query := `INSERT INTO upload_tokens (id, user_id, name, description, secret, max_uses, uses, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, 0, $7)`

	_, err := r.db.Exec(query,
		token.ID,
		token.UserID,
		token.Name,
		token.Description,
		token.Secret,
		token.MaxUses,
		token.CreatedAt,
	)
	if err != nil {
		errStr := err.Error()
		if strings.Contains(errStr, "UNIQUE constraint failed") || strings.Contains(errStr, "duplicate key value") {
			return ErrDuplicateTokenName
		}
		return err
	}

	return nil
}

func (r *uploadTokenRepository) Resolve(secret string) (*model.User, *model.UploadToken, error) {
	var row struct {
		model.User
		TokenID          string    `db:"token_id"`
		TokenName        string    `db:"token_name"`
		TokenDescription *string   `db:"token_description"`
		TokenMaxUses     *int      `db:"token_max_uses"`
		TokenUses        int       `db:"token_uses"`
		TokenCreatedAt   time.Time `db:"token_created_at"`
	}

	query := `SELECT u.*,
	                 t.id AS token_id,
	                 t.name AS token_name,
	                 t.description AS token_description,
	                 t.max_uses AS token_max_uses,
	                 t.uses AS token_uses,
	                 t.created_at AS token_created_at
	          FROM upload_tokens t
	          JOIN users u ON u.id = t.user_id
	          WHERE t.secret = $1`

	err := r.db.Get(&row, query, secret)
	if err == sql.ErrNoRows {
		return nil, nil, ErrUploadTokenNotFound
	}
	if err != nil {
		return nil, nil, err
	}

	user := row.User
	token := &model.UploadToken{
		ID:          row.TokenID,
		UserID:      user.ID,
		Name:        row.TokenName,
		Description: row.TokenDescription,
		Secret:      secret,
		MaxUses:     row.TokenMaxUses,
		Uses:        row.TokenUses,
		CreatedAt:   row.TokenCreatedAt,
	}

	return &user, token, nil
}

func (r *uploadTokenRepository) ByUser(userID string) ([]*model.UploadToken, error) {
	var tokens []*model.UploadToken
	query := `SELECT * FROM upload_tokens WHERE user_id = $1 ORDER BY created_at DESC`

	err := r.db.Select(&tokens, query, userID)
	if err != nil {
		return nil, err
	}

	return tokens, nil
}

func (r *uploadTokenRepository) ByID(id, userID string) (*model.UploadToken, error) {
	token := &model.UploadToken{}
	query := `SELECT * FROM upload_tokens WHERE id = $1 AND user_id = $2`

	err := r.db.Get(token, query, id, userID)
	if err == sql.ErrNoRows {
		return nil, ErrUploadTokenNotFound
	}

	return token, err
}

func (r *uploadTokenRepository) Delete(id, userID string) error {
	query := `DELETE FROM upload_tokens WHERE id = $1 AND user_id = $2`

	result, err := r.db.Exec(query, id, userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrUploadTokenNotFound
	}

	return nil
}

func (r *uploadTokenRepository) UpdateSecret(id, userID, secret string) error {
	query := `UPDATE upload_tokens SET secret = $1 WHERE id = $2 AND user_id = $3`

	result, err := r.db.Exec(query, secret, id, userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrUploadTokenNotFound
	}

	return nil
}

func (r *uploadTokenRepository) Usage(tokenID string) ([]*model.UploadTokenUse, error) {
	var uses []*model.UploadTokenUse
	query := `SELECT * FROM upload_token_uses WHERE token_id = $1 ORDER BY created_at DESC`

	err := r.db.Select(&uses, query, tokenID)
	if err != nil {
		return nil, err
	}

	return uses, nil
}
