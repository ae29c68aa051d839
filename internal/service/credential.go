package service

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/shothost/shothost/internal/model"
	"github.com/shothost/shothost/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// Principal is the resolved identity and entitlement state of a caller.
// It is constructed per request from a credential lookup and never persisted;
// the counters are a read of the durable user row.
type Principal struct {
	User *model.User
	Tier *model.Tier
}

func (p *Principal) HasTier() bool {
	return p != nil && p.Tier != nil
}

// ViewTokenGrant is proof that a view token verified for a file.
type ViewTokenGrant struct {
	TokenID string
	FileID  string
}

// CredentialResolver turns bearer credentials into principals. One resolver
// handles all credential kinds instead of duplicating the lookup per kind.
// Resolvers are pure reads; nothing here mutates state.
type CredentialResolver struct {
	sessions     repository.SessionRepository
	uploadTokens repository.UploadTokenRepository
	viewTokens   repository.ViewTokenRepository
	catalog      *model.TierCatalog
}

func NewCredentialResolver(
	sessions repository.SessionRepository,
	uploadTokens repository.UploadTokenRepository,
	viewTokens repository.ViewTokenRepository,
	catalog *model.TierCatalog,
) *CredentialResolver {
	return &CredentialResolver{
		sessions:     sessions,
		uploadTokens: uploadTokens,
		viewTokens:   viewTokens,
		catalog:      catalog,
	}
}

// parseBearer extracts the credential value from an Authorization header.
// The header must split into exactly two space-separated tokens, scheme and
// value. Malformed input is rejected here, before any store lookup.
func parseBearer(authorization string) (string, error) {
	if authorization == "" {
		return "", ErrUnauthenticated
	}

	parts := strings.Split(authorization, " ")
	if len(parts) != 2 {
		return "", ErrUnauthenticated
	}

	return parts[1], nil
}

// ResolveSession resolves a login session bearer into a principal with full
// counters and tier. Missing header, malformed header, and unknown secret all
// fail identically.
func (r *CredentialResolver) ResolveSession(authorization string) (*Principal, error) {
	secret, err := parseBearer(authorization)
	if err != nil {
		return nil, err
	}

	user, err := r.sessions.UserBySecret(secret)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil, ErrUnauthenticated
		}
		slog.Error("session lookup failed", "error", err)
		return nil, ErrInternal
	}

	return r.principal(user), nil
}

// ResolveUploadToken resolves an upload-token bearer into the owning user's
// principal plus the token itself, since the caller needs both the tier state
// and the token's use-ceiling state. A store fault is a distinct internal
// failure, not an authentication failure.
func (r *CredentialResolver) ResolveUploadToken(authorization string) (*Principal, *model.UploadToken, error) {
	secret, err := parseBearer(authorization)
	if err != nil {
		return nil, nil, err
	}

	user, token, err := r.uploadTokens.Resolve(secret)
	if err != nil {
		if errors.Is(err, repository.ErrUploadTokenNotFound) {
			return nil, nil, ErrUnauthenticated
		}
		slog.Error("upload token lookup failed", "error", err)
		return nil, nil, ErrInternal
	}

	return r.principal(user), token, nil
}

// ResolveViewToken verifies a view-token secret against a file. The token
// must have been issued for exactly this file. If the stored record is
// IP-bound, the requester's IP must verify against the stored one-way hash;
// unbound records skip the check. Any mismatch is ErrUnauthorized.
func (r *CredentialResolver) ResolveViewToken(secret, fileID, clientIP string) (*ViewTokenGrant, error) {
	if secret == "" || fileID == "" {
		return nil, ErrUnauthorized
	}

	token, err := r.viewTokens.ByFileAndSecret(fileID, secret)
	if err != nil {
		if errors.Is(err, repository.ErrViewTokenNotFound) {
			return nil, ErrUnauthorized
		}
		slog.Error("view token lookup failed", "error", err)
		return nil, ErrInternal
	}

	if token.IPBound() {
		err = bcrypt.CompareHashAndPassword([]byte(*token.IPHash), []byte(clientIP))
		if err != nil {
			return nil, ErrUnauthorized
		}
	}

	return &ViewTokenGrant{TokenID: token.ID, FileID: token.FileID}, nil
}

func (r *CredentialResolver) principal(user *model.User) *Principal {
	p := &Principal{User: user}

	tier, ok := r.catalog.Resolve(user.CurrentPlanID)
	if ok {
		p.Tier = &tier
	}

	return p
}
