package service

import (
	"testing"

	"github.com/shothost/shothost/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAccountFixture(t *testing.T) (*AccountService, *fakeUserRepo, *fakeEmbedRepo) {
	t.Helper()

	users := newFakeUserRepo()
	users.add(&model.User{ID: "u1", Username: "alice", DisplayName: "Alice"})

	embeds := newFakeEmbedRepo()
	require.NoError(t, embeds.CreateDefault("u1"))

	return NewAccountService(users, embeds), users, embeds
}

func embedPrincipal(tier model.Tier) *Principal {
	return &Principal{User: &model.User{ID: "u1"}, Tier: &tier}
}

func TestEditAccount(t *testing.T) {
	svc, users, _ := newAccountFixture(t)
	user := users.byID["u1"]

	newName := "alice2"
	require.NoError(t, svc.EditAccount(user, &newName, nil))
	assert.Equal(t, "alice2", user.Username)
	assert.Equal(t, "Alice", user.DisplayName, "unset fields keep their value")

	err := svc.EditAccount(user, nil, nil)
	assert.Error(t, err, "an edit has to change something")
}

func TestUpdateEmbedConfigNeedsPaidTier(t *testing.T) {
	svc, _, _ := newAccountFixture(t)
	color := "#ff0000"

	err := svc.UpdateEmbedConfig(&Principal{User: &model.User{ID: "u1"}}, EmbedConfigUpdate{Color: &color})
	assert.ErrorIs(t, err, ErrUnauthorized)

	err = svc.UpdateEmbedConfig(embedPrincipal(model.TierFree), EmbedConfigUpdate{Color: &color})
	assert.ErrorIs(t, err, ErrUnauthorized)

	err = svc.UpdateEmbedConfig(embedPrincipal(model.TierBaseMonthly), EmbedConfigUpdate{Color: &color})
	assert.NoError(t, err)
}

func TestUpdateEmbedConfigTitlesNeedStandard(t *testing.T) {
	svc, _, embeds := newAccountFixture(t)
	title := "my shots"

	err := svc.UpdateEmbedConfig(embedPrincipal(model.TierBaseMonthly), EmbedConfigUpdate{Title: &title})
	assert.ErrorIs(t, err, ErrUnauthorized)

	err = svc.UpdateEmbedConfig(embedPrincipal(model.TierStandardMonthly), EmbedConfigUpdate{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "my shots", embeds.configs["u1"].Title)
}

func TestUpdateEmbedConfigValidatesColors(t *testing.T) {
	svc, _, _ := newAccountFixture(t)
	bad := "red"

	err := svc.UpdateEmbedConfig(embedPrincipal(model.TierBaseMonthly), EmbedConfigUpdate{Color: &bad})
	assert.Error(t, err)
}

func TestEmbedConfigFallsBackToDefaults(t *testing.T) {
	svc, users, _ := newAccountFixture(t)
	users.add(&model.User{ID: "u2", Username: "bob"})

	cfg, err := svc.EmbedConfig("u2")
	require.NoError(t, err)
	assert.Equal(t, model.DefaultEmbedColor, cfg.Color)
	assert.Equal(t, model.DefaultEmbedBackgroundColor, cfg.BackgroundColor)
}
