package model

import (
	"time"
)

const (
	PermissionUser  = 0
	PermissionStaff = 1
	PermissionAdmin = 2
)

type User struct {
	ID                            string    `db:"id"`
	Username                      string    `db:"username"`
	DisplayName                   string    `db:"display_name"`
	Email                         string    `db:"email"`
	PasswordHash                  string    `db:"password_hash"`
	PermissionLevel               int       `db:"permission_level"`
	TotalViews                    int       `db:"total_views"`
	TotalUploads                  int       `db:"total_uploads"`
	TotalPrivateUploads           int       `db:"total_private_uploads"`
	TotalPasswordProtectedUploads int       `db:"total_password_protected_uploads"`
	StorageUsed                   int64     `db:"storage_used"`
	StripeID                      *string   `db:"stripe_id"`
	CurrentPlanID                 *string   `db:"current_plan_id"`
	CreatedAt                     time.Time `db:"created_at"`
}

func (u *User) IsStaff() bool {
	return u.PermissionLevel >= PermissionStaff
}

func (u *User) IsAdmin() bool {
	return u.PermissionLevel >= PermissionAdmin
}
