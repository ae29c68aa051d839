package model

import (
	"time"
)

type FeatureFlag struct {
	Feature   string    `db:"feature"`
	Enabled   bool      `db:"enabled"`
	UpdatedAt time.Time `db:"updated_at"`
	UpdatedBy string    `db:"updated_by"`
}

const (
	FeatureLogin    = "login"
	FeatureRegister = "register"
)
