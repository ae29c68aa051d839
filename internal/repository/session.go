package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shothost/shothost/internal/model"
)

var ErrSessionNotFound = errors.New("session not found")

type SessionRepository interface {
	Create(session *model.Session) error
	DeleteBySecret(secret string) error
	// UserBySecret loads the full user behind a session secret in one
	// round-trip. The secret must match exactly.
	UserBySecret(secret string) (*model.User, error)
}

type sessionRepository struct {
	db *sqlx.DB
}

func NewSessionRepository(db *sqlx.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(session *model.Session) error {
	if session.ID == "" {
		session.ID = uuid.New().String()
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}

	query := `INSERT INTO sessions (id, user_id, secret, created_at) VALUES ($1, $2, $3, $4)`

	_, err := r.db.Exec(query, session.ID, session.UserID, session.Secret, session.CreatedAt)
	return err
}

func (r *sessionRepository) DeleteBySecret(secret string) error {
	query := `DELETE FROM sessions WHERE secret = $1`

	result, err := r.db.Exec(query, secret)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrSessionNotFound
	}

	return nil
}

func (r *sessionRepository) UserBySecret(secret string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT u.* FROM sessions s JOIN users u ON u.id = s.user_id WHERE s.secret = $1`

	err := r.db.Get(user, query, secret)
	if err == sql.ErrNoRows {
		return nil, ErrSessionNotFound
	}

	return user, err
}
