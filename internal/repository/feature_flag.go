package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/shothost/shothost/internal/model"
)

var ErrFeatureFlagNotFound = errors.New("feature flag not found")

type FeatureFlagRepository interface {
	ByFeature(feature string) (*model.FeatureFlag, error)
}

type featureFlagRepository struct {
	db *sqlx.DB
}

func NewFeatureFlagRepository(db *sqlx.DB) FeatureFlagRepository {
	return &featureFlagRepository{db: db}
}

func (r *featureFlagRepository) ByFeature(feature string) (*model.FeatureFlag, error) {
	flag := &model.FeatureFlag{}
	query := `SELECT * FROM feature_flags WHERE feature = $1`

	err := r.db.Get(flag, query, feature)
	if err == sql.ErrNoRows {
		return nil, ErrFeatureFlagNotFound
	}

	return flag, err
}
