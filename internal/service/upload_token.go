package service

import (
	"errors"
	"log/slog"

	"github.com/shothost/shothost/internal/model"
	"github.com/shothost/shothost/internal/repository"
	"github.com/shothost/shothost/internal/validation"
)

// UploadTokenService manages the lifecycle of upload tokens: create, list,
// delete, regenerate. Consumption happens through the credential resolver and
// the upload flow.
type UploadTokenService struct {
	tokens repository.UploadTokenRepository
}

func NewUploadTokenService(tokens repository.UploadTokenRepository) *UploadTokenService {
	return &UploadTokenService{tokens: tokens}
}

// CreatedToken is returned once, at mint time. The secret is not readable
// afterwards.
type CreatedToken struct {
	TokenID string `json:"token_id"`
	Token   string `json:"token"`
}

func (s *UploadTokenService) Create(userID, name string, description *string, maxUses *int) (*CreatedToken, error) {
	err := validation.ValidateTokenName(name)
	if err != nil {
		return nil, err
	}

	if maxUses != nil && *maxUses <= 0 {
		return nil, errors.New("max uses must be positive")
	}

	secret, err := generateSecret(uploadTokenSecretBytes)
	if err != nil {
		return nil, ErrInternal
	}

	token := &model.UploadToken{
		UserID:      userID,
		Name:        name,
		Description: description,
		Secret:      secret,
		MaxUses:     maxUses,
	}

	err = s.tokens.Create(token)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateTokenName) {
			return nil, ErrConflict
		}
		slog.Error("upload token create failed", "error", err, "user_id", userID)
		return nil, ErrInternal
	}

	return &CreatedToken{TokenID: token.ID, Token: secret}, nil
}

func (s *UploadTokenService) List(userID string) ([]*model.UploadToken, error) {
	tokens, err := s.tokens.ByUser(userID)
	if err != nil {
		slog.Error("upload token list failed", "error", err, "user_id", userID)
		return nil, ErrInternal
	}

	return tokens, nil
}

func (s *UploadTokenService) Delete(userID, tokenID string) error {
	err := s.tokens.Delete(tokenID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUploadTokenNotFound) {
			return ErrNotFound
		}
		slog.Error("upload token delete failed", "error", err, "token_id", tokenID)
		return ErrInternal
	}

	return nil
}

// Regenerate rotates the token's secret. The use counters are untouched.
func (s *UploadTokenService) Regenerate(userID, tokenID string) (*CreatedToken, error) {
	secret, err := generateSecret(uploadTokenSecretBytes)
	if err != nil {
		return nil, ErrInternal
	}

	err = s.tokens.UpdateSecret(tokenID, userID, secret)
	if err != nil {
		if errors.Is(err, repository.ErrUploadTokenNotFound) {
			return nil, ErrNotFound
		}
		slog.Error("upload token regenerate failed", "error", err, "token_id", tokenID)
		return nil, ErrInternal
	}

	return &CreatedToken{TokenID: tokenID, Token: secret}, nil
}

// Usage lists the uploads performed with a token.
func (s *UploadTokenService) Usage(userID, tokenID string) ([]*model.UploadTokenUse, error) {
	_, err := s.tokens.ByID(tokenID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUploadTokenNotFound) {
			return nil, ErrNotFound
		}
		slog.Error("upload token lookup failed", "error", err, "token_id", tokenID)
		return nil, ErrInternal
	}

	uses, err := s.tokens.Usage(tokenID)
	if err != nil {
		slog.Error("upload token usage list failed", "error", err, "token_id", tokenID)
		return nil, ErrInternal
	}

	return uses, nil
}
