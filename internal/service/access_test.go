package service

import (
	"testing"

	"github.com/shothost/shothost/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hashOf(t *testing.T, password string) *string {
	t.Helper()
	hash := "$2a$10$fakehashfortest" + password
	return &hash
}

func TestDecideReadOwnerAlwaysAllowedNeverBillable(t *testing.T) {
	access := NewAccessService()
	owner := &Principal{User: &model.User{ID: "u1"}}

	// Even private and password protected at once
	file := &model.File{ID: "f1", UserID: "u1", Private: true, PasswordHash: hashOf(t, "pw")}

	billable, err := access.DecideRead(owner, file, nil)
	require.NoError(t, err)
	assert.False(t, billable, "owner reads are never billable")
}

func TestDecideReadPrivateHiddenFromOthers(t *testing.T) {
	access := NewAccessService()
	file := &model.File{ID: "f1", UserID: "u1", Private: true}

	// Anonymous
	_, err := access.DecideRead(nil, file, nil)
	assert.ErrorIs(t, err, ErrNotFound, "private files look nonexistent")

	// Authenticated non-owner
	other := &Principal{User: &model.User{ID: "u2"}}
	_, err = access.DecideRead(other, file, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDecideReadPasswordProtectedNeedsGrant(t *testing.T) {
	access := NewAccessService()
	file := &model.File{ID: "f1", UserID: "u1", PasswordHash: hashOf(t, "pw")}

	_, err := access.DecideRead(nil, file, nil)
	assert.ErrorIs(t, err, ErrUnauthorized)

	// Grant for a different file does not carry over
	_, err = access.DecideRead(nil, file, &ViewTokenGrant{TokenID: "vt1", FileID: "f2"})
	assert.ErrorIs(t, err, ErrUnauthorized)

	billable, err := access.DecideRead(nil, file, &ViewTokenGrant{TokenID: "vt1", FileID: "f1"})
	require.NoError(t, err)
	assert.True(t, billable)
}

func TestDecideReadPublicIsBillable(t *testing.T) {
	access := NewAccessService()
	file := &model.File{ID: "f1", UserID: "u1"}

	billable, err := access.DecideRead(nil, file, nil)
	require.NoError(t, err)
	assert.True(t, billable)

	other := &Principal{User: &model.User{ID: "u2"}}
	billable, err = access.DecideRead(other, file, nil)
	require.NoError(t, err)
	assert.True(t, billable)
}
