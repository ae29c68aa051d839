package service

import (
	"errors"
	"testing"

	"github.com/shothost/shothost/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testCatalog() *model.TierCatalog {
	return model.NewTierCatalog(map[string]model.Tier{
		"price_base_m": model.TierBaseMonthly,
	})
}

func TestResolveSessionMalformedHeaderFailsBeforeLookup(t *testing.T) {
	sessions := newFakeSessionRepo()
	// A store fault would surface as ErrInternal, so getting
	// ErrUnauthenticated proves the store was never consulted
	sessions.err = errors.New("store down")

	resolver := NewCredentialResolver(sessions, newFakeUploadTokenRepo(), &fakeViewTokenRepo{}, testCatalog())

	for _, header := range []string{
		"",
		"Bearer",
		"Bearer abc def",
		"   ",
	} {
		_, err := resolver.ResolveSession(header)
		assert.ErrorIs(t, err, ErrUnauthenticated, "header %q", header)
	}
}

func TestResolveSession(t *testing.T) {
	planID := "price_base_m"
	sessions := newFakeSessionRepo()
	sessions.bySecret["s3cret"] = &model.User{ID: "u1", CurrentPlanID: &planID}

	resolver := NewCredentialResolver(sessions, newFakeUploadTokenRepo(), &fakeViewTokenRepo{}, testCatalog())

	p, err := resolver.ResolveSession("Bearer s3cret")
	require.NoError(t, err)
	require.NotNil(t, p.User)
	assert.Equal(t, "u1", p.User.ID)
	require.True(t, p.HasTier())
	assert.Equal(t, model.TierBaseMonthly, *p.Tier)

	_, err = resolver.ResolveSession("Bearer wrong")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestResolveSessionUnknownPlanGrantsNoTier(t *testing.T) {
	planID := "price_gone"
	sessions := newFakeSessionRepo()
	sessions.bySecret["s3cret"] = &model.User{ID: "u1", CurrentPlanID: &planID}

	resolver := NewCredentialResolver(sessions, newFakeUploadTokenRepo(), &fakeViewTokenRepo{}, testCatalog())

	p, err := resolver.ResolveSession("Bearer s3cret")
	require.NoError(t, err)
	assert.False(t, p.HasTier(), "unknown plan must not resolve to any tier")
}

func TestResolveUploadToken(t *testing.T) {
	tokens := newFakeUploadTokenRepo()
	owner := &model.User{ID: "u1"}
	tokens.add(owner, &model.UploadToken{ID: "t1", UserID: "u1", Secret: "tok"})

	resolver := NewCredentialResolver(newFakeSessionRepo(), tokens, &fakeViewTokenRepo{}, testCatalog())

	p, token, err := resolver.ResolveUploadToken("Bearer tok")
	require.NoError(t, err)
	assert.Equal(t, "u1", p.User.ID)
	assert.Equal(t, "t1", token.ID)

	_, _, err = resolver.ResolveUploadToken("Bearer nope")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestResolveUploadTokenStoreFaultIsInternal(t *testing.T) {
	tokens := newFakeUploadTokenRepo()
	tokens.err = errors.New("store down")

	resolver := NewCredentialResolver(newFakeSessionRepo(), tokens, &fakeViewTokenRepo{}, testCatalog())

	_, _, err := resolver.ResolveUploadToken("Bearer tok")
	assert.ErrorIs(t, err, ErrInternal)
}

func TestResolveViewToken(t *testing.T) {
	viewTokens := &fakeViewTokenRepo{}
	require.NoError(t, viewTokens.Create(&model.ViewToken{FileID: "f1", Secret: "vt"}))

	resolver := NewCredentialResolver(newFakeSessionRepo(), newFakeUploadTokenRepo(), viewTokens, testCatalog())

	grant, err := resolver.ResolveViewToken("vt", "f1", "203.0.113.7")
	require.NoError(t, err)
	assert.Equal(t, "f1", grant.FileID)

	// Wrong file id never matches even with the right secret
	_, err = resolver.ResolveViewToken("vt", "f2", "203.0.113.7")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = resolver.ResolveViewToken("nope", "f1", "203.0.113.7")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestResolveViewTokenIPBound(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("203.0.113.7"), bcrypt.MinCost)
	require.NoError(t, err)
	hashStr := string(hash)

	viewTokens := &fakeViewTokenRepo{}
	require.NoError(t, viewTokens.Create(&model.ViewToken{FileID: "f1", Secret: "vt", IPHash: &hashStr}))

	resolver := NewCredentialResolver(newFakeSessionRepo(), newFakeUploadTokenRepo(), viewTokens, testCatalog())

	_, err = resolver.ResolveViewToken("vt", "f1", "203.0.113.7")
	assert.NoError(t, err, "issuing IP verifies")

	_, err = resolver.ResolveViewToken("vt", "f1", "198.51.100.1")
	assert.ErrorIs(t, err, ErrUnauthorized, "other IPs are rejected")
}
