package service

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/shothost/shothost/internal/model"
	"github.com/shothost/shothost/internal/repository"
	"github.com/shothost/shothost/internal/validation"
)

// Plan ranks gating embed customization. Colors need any paid tier; custom
// titles need Standard or above.
const (
	embedMinRank      = 1
	embedTitleMinRank = 2
)

// AccountService covers profile edits and the per-user embed configuration.
type AccountService struct {
	users  repository.UserRepository
	embeds repository.EmbedConfigRepository
}

func NewAccountService(users repository.UserRepository, embeds repository.EmbedConfigRepository) *AccountService {
	return &AccountService{users: users, embeds: embeds}
}

// EditAccount updates username and/or display name. Nil fields keep their
// current value; at least one must be set.
func (s *AccountService) EditAccount(user *model.User, username, displayName *string) error {
	if username == nil && displayName == nil {
		return errors.New("nothing to update")
	}

	newUsername := user.Username
	if username != nil {
		newUsername = strings.TrimSpace(*username)
		err := validation.ValidateUsername(newUsername)
		if err != nil {
			return err
		}
	}

	newDisplayName := user.DisplayName
	if displayName != nil {
		newDisplayName = *displayName
		err := validation.ValidateDisplayName(newDisplayName)
		if err != nil {
			return err
		}
	}

	err := s.users.UpdateAccount(user.ID, newUsername, newDisplayName)
	if err != nil {
		slog.Error("account update failed", "error", err, "user_id", user.ID)
		return ErrInternal
	}

	return nil
}

// EmbedConfigUpdate carries the optional embed fields; nil means unchanged.
type EmbedConfigUpdate struct {
	Color           *string
	BackgroundColor *string
	Title           *string
	WebTitle        *string
}

// UpdateEmbedConfig edits the principal's embed styling. Any paid tier may
// set colors; custom titles need Standard or above. Free or no tier is
// rejected outright.
func (s *AccountService) UpdateEmbedConfig(p *Principal, update EmbedConfigUpdate) error {
	if !p.HasTier() || p.Tier.Rank() < embedMinRank {
		return ErrUnauthorized
	}

	if update.Color == nil && update.BackgroundColor == nil && update.Title == nil && update.WebTitle == nil {
		return errors.New("nothing to update")
	}

	cfg, err := s.embeds.ByUserID(p.User.ID)
	if err != nil {
		if errors.Is(err, repository.ErrEmbedConfigNotFound) {
			return ErrNotFound
		}
		slog.Error("embed config lookup failed", "error", err, "user_id", p.User.ID)
		return ErrInternal
	}

	if update.Color != nil {
		err = validation.ValidateHexColor(*update.Color)
		if err != nil {
			return err
		}
		cfg.Color = *update.Color
	}

	if update.BackgroundColor != nil {
		err = validation.ValidateHexColor(*update.BackgroundColor)
		if err != nil {
			return err
		}
		cfg.BackgroundColor = *update.BackgroundColor
	}

	if update.Title != nil || update.WebTitle != nil {
		if p.Tier.Rank() < embedTitleMinRank {
			return ErrUnauthorized
		}
		if update.Title != nil {
			cfg.Title = *update.Title
		}
		if update.WebTitle != nil {
			cfg.WebTitle = *update.WebTitle
		}
	}

	err = s.embeds.Update(cfg)
	if err != nil {
		slog.Error("embed config update failed", "error", err, "user_id", p.User.ID)
		return ErrInternal
	}

	return nil
}

// EmbedConfig loads a user's embed styling, falling back to defaults when
// none exists.
func (s *AccountService) EmbedConfig(userID string) (*model.EmbedConfig, error) {
	cfg, err := s.embeds.ByUserID(userID)
	if err != nil {
		if errors.Is(err, repository.ErrEmbedConfigNotFound) {
			return &model.EmbedConfig{
				UserID:          userID,
				Color:           model.DefaultEmbedColor,
				BackgroundColor: model.DefaultEmbedBackgroundColor,
			}, nil
		}
		slog.Error("embed config lookup failed", "error", err, "user_id", userID)
		return nil, ErrInternal
	}

	return cfg, nil
}

// Owner loads the public identity of a file's owner for the embed view.
func (s *AccountService) Owner(userID string) (*model.User, error) {
	user, err := s.users.ByID(userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrNotFound
		}
		slog.Error("user lookup failed", "error", err, "user_id", userID)
		return nil, ErrInternal
	}

	return user, nil
}
