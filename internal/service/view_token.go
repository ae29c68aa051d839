package service

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/shothost/shothost/internal/model"
	"github.com/shothost/shothost/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

const ipHashCost = 10

// ViewTokenService implements the redemption protocol for password-protected
// files: a correct password mints a token, later reads present the token
// instead of the password. Tokens are scoped to one file and optionally to
// the issuing IP; they are reusable and carry no expiry.
type ViewTokenService struct {
	files      repository.FileRepository
	viewTokens repository.ViewTokenRepository
	resolver   *CredentialResolver
	appURL     string
	bindIP     bool
}

func NewViewTokenService(
	files repository.FileRepository,
	viewTokens repository.ViewTokenRepository,
	resolver *CredentialResolver,
	appURL string,
	bindIP bool,
) *ViewTokenService {
	return &ViewTokenService{
		files:      files,
		viewTokens: viewTokens,
		resolver:   resolver,
		appURL:     appURL,
		bindIP:     bindIP,
	}
}

// ViewTokenIssue is the result of a successful redemption: a shareable URL
// with the secret embedded as a query parameter, plus the secret itself.
type ViewTokenIssue struct {
	URL   string `json:"url"`
	Token string `json:"token"`
}

// Issue verifies the supplied password against the file's stored hash and on
// success persists a new token scoped to the file. A wrong password creates
// no record. When IP binding is enabled, a one-way hash of the requester's IP
// is stored with the token; the IP itself never is.
func (s *ViewTokenService) Issue(fileID, password, clientIP string) (*ViewTokenIssue, error) {
	file, err := s.files.ByID(fileID)
	if err != nil {
		if errors.Is(err, repository.ErrFileNotFound) {
			return nil, ErrNotFound
		}
		slog.Error("file lookup failed", "error", err, "file_id", fileID)
		return nil, ErrInternal
	}

	if !file.PasswordProtected() {
		return nil, ErrNotFound
	}

	err = bcrypt.CompareHashAndPassword([]byte(*file.PasswordHash), []byte(password))
	if err != nil {
		return nil, ErrUnauthorized
	}

	secret, err := generateSecret(viewTokenSecretBytes)
	if err != nil {
		return nil, ErrInternal
	}

	token := &model.ViewToken{
		FileID: file.ID,
		Secret: secret,
	}

	if s.bindIP {
		hash, hashErr := bcrypt.GenerateFromPassword([]byte(clientIP), ipHashCost)
		if hashErr != nil {
			return nil, ErrInternal
		}
		hashStr := string(hash)
		token.IPHash = &hashStr
	}

	err = s.viewTokens.Create(token)
	if err != nil {
		slog.Error("view token create failed", "error", err, "file_id", fileID)
		return nil, ErrInternal
	}

	return &ViewTokenIssue{
		URL:   fmt.Sprintf("%s/%s?vt=%s", s.appURL, file.ID, secret),
		Token: secret,
	}, nil
}

// Check verifies a previously issued token for a file read.
func (s *ViewTokenService) Check(fileID, secret, clientIP string) (*ViewTokenGrant, error) {
	return s.resolver.ResolveViewToken(secret, fileID, clientIP)
}
