package repository

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/shothost/shothost/internal/model"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrDuplicateUser = errors.New("username or email already exists")
)

type UserRepository interface {
	Create(user *model.User) error
	ByID(id string) (*model.User, error)
	ByUsername(username string) (*model.User, error)
	UpdateAccount(id, username, displayName string) error
	UpdatePassword(id, passwordHash string) error
	SetStripeID(id, stripeID string) error
	SetPlanByStripeID(stripeID string, planID *string) error
}

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *model.User) error {
	query := `INSERT INTO users (id, username, display_name, email, password_hash, permission_level, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(query,
		user.ID,
		user.Username,
		user.DisplayName,
		user.Email,
		user.PasswordHash,
		user.PermissionLevel,
		user.CreatedAt,
	)
	if err != nil {
		// Unique constraint violation, phrased differently by SQLite and PostgreSQL
		errStr := err.Error()
		if strings.Contains(errStr, "UNIQUE constraint failed") || strings.Contains(errStr, "duplicate key value") {
			return ErrDuplicateUser
		}
		return err
	}

	return nil
}

func (r *userRepository) ByID(id string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT * FROM users WHERE id = $1`

	err := r.db.Get(user, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}

	return user, err
}

func (r *userRepository) ByUsername(username string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT * FROM users WHERE username = $1`

	err := r.db.Get(user, query, username)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}

	return user, err
}

func (r *userRepository) UpdateAccount(id, username, displayName string) error {
	query := `UPDATE users SET username = $1, display_name = $2 WHERE id = $3`

	_, err := r.db.Exec(query, username, displayName, id)
	return err
}

func (r *userRepository) UpdatePassword(id, passwordHash string) error {
	query := `UPDATE users SET password_hash = $1 WHERE id = $2`

	_, err := r.db.Exec(query, passwordHash, id)
	return err
}

func (r *userRepository) SetStripeID(id, stripeID string) error {
	query := `UPDATE users SET stripe_id = $1 WHERE id = $2`

	_, err := r.db.Exec(query, stripeID, id)
	return err
}

// SetPlanByStripeID records the billing plan resolved from a subscription
// event. A nil plan id clears the entitlement.
func (r *userRepository) SetPlanByStripeID(stripeID string, planID *string) error {
	query := `UPDATE users SET current_plan_id = $1 WHERE stripe_id = $2`

	result, err := r.db.Exec(query, planID, stripeID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrUserNotFound
	}

	return nil
}
