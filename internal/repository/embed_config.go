package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/shothost/shothost/internal/model"
)

var ErrEmbedConfigNotFound = errors.New("embed config not found")

type EmbedConfigRepository interface {
	CreateDefault(userID string) error
	ByUserID(userID string) (*model.EmbedConfig, error)
	Update(cfg *model.EmbedConfig) error
}

type embedConfigRepository struct {
	db *sqlx.DB
}

func NewEmbedConfigRepository(db *sqlx.DB) EmbedConfigRepository {
	return &embedConfigRepository{db: db}
}

func (r *embedConfigRepository) CreateDefault(userID string) error {
	query := `INSERT INTO embed_configs (user_id, color, background_color, title, web_title)
	          VALUES ($1, $2, $3, '', '')`

	_, err := r.db.Exec(query, userID, model.DefaultEmbedColor, model.DefaultEmbedBackgroundColor)
	return err
}

func (r *embedConfigRepository) ByUserID(userID string) (*model.EmbedConfig, error) {
	cfg := &model.EmbedConfig{}
	query := `SELECT * FROM embed_configs WHERE user_id = $1`

	err := r.db.Get(cfg, query, userID)
	if err == sql.ErrNoRows {
		return nil, ErrEmbedConfigNotFound
	}

	return cfg, err
}

func (r *embedConfigRepository) Update(cfg *model.EmbedConfig) error {
	query := `UPDATE embed_configs SET color = $1, background_color = $2, title = $3, web_title = $4 WHERE user_id = $5`

	result, err := r.db.Exec(query, cfg.Color, cfg.BackgroundColor, cfg.Title, cfg.WebTitle, cfg.UserID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrEmbedConfigNotFound
	}

	return nil
}
