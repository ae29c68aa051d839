package service

import (
	"fmt"
	"testing"

	"github.com/shothost/shothost/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newViewTokenFixture(t *testing.T, bindIP bool) (*ViewTokenService, *fakeFileRepo, *fakeViewTokenRepo) {
	t.Helper()

	files := newFakeFileRepo()
	viewTokens := &fakeViewTokenRepo{}
	resolver := NewCredentialResolver(newFakeSessionRepo(), newFakeUploadTokenRepo(), viewTokens, testCatalog())
	svc := NewViewTokenService(files, viewTokens, resolver, "https://shot.example", bindIP)

	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)
	hashStr := string(hash)
	files.files["f1"] = &model.File{ID: "f1", UserID: "u1", PasswordHash: &hashStr}
	files.files["plain"] = &model.File{ID: "plain", UserID: "u1"}

	return svc, files, viewTokens
}

func TestIssueWrongPasswordCreatesNothing(t *testing.T) {
	svc, _, viewTokens := newViewTokenFixture(t, false)

	_, err := svc.Issue("f1", "wrong", "203.0.113.7")
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Empty(t, viewTokens.tokens, "a failed redemption must leave no token behind")
}

func TestIssueCorrectPassword(t *testing.T) {
	svc, _, viewTokens := newViewTokenFixture(t, false)

	issue, err := svc.Issue("f1", "hunter2", "203.0.113.7")
	require.NoError(t, err)
	require.Len(t, viewTokens.tokens, 1)

	token := viewTokens.tokens[0]
	assert.Equal(t, "f1", token.FileID)
	assert.Equal(t, issue.Token, token.Secret)
	assert.Nil(t, token.IPHash, "binding disabled stores no IP hash")
	assert.Equal(t, fmt.Sprintf("https://shot.example/f1?vt=%s", issue.Token), issue.URL)
}

func TestIssueUnprotectedFileLooksNonexistent(t *testing.T) {
	svc, _, _ := newViewTokenFixture(t, false)

	_, err := svc.Issue("plain", "hunter2", "203.0.113.7")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Issue("missing", "hunter2", "203.0.113.7")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestIssueWithIPBinding(t *testing.T) {
	svc, _, viewTokens := newViewTokenFixture(t, true)

	issue, err := svc.Issue("f1", "hunter2", "203.0.113.7")
	require.NoError(t, err)
	require.Len(t, viewTokens.tokens, 1)
	require.NotNil(t, viewTokens.tokens[0].IPHash)

	// Same IP verifies, a different one does not
	grant, err := svc.Check("f1", issue.Token, "203.0.113.7")
	require.NoError(t, err)
	assert.Equal(t, "f1", grant.FileID)

	_, err = svc.Check("f1", issue.Token, "198.51.100.1")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestCheckScopedToFile(t *testing.T) {
	svc, files, _ := newViewTokenFixture(t, false)

	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)
	hashStr := string(hash)
	files.files["f2"] = &model.File{ID: "f2", UserID: "u1", PasswordHash: &hashStr}

	issue, err := svc.Issue("f1", "hunter2", "")
	require.NoError(t, err)

	_, err = svc.Check("f2", issue.Token, "")
	assert.ErrorIs(t, err, ErrUnauthorized, "a token is never valid for another file")
}
