package service

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shothost/shothost/internal/model"
	"github.com/shothost/shothost/internal/repository"
	"github.com/shothost/shothost/internal/validation"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials   = fmt.Errorf("invalid username or password: %w", ErrUnauthenticated)
	ErrLoginDisabled        = errors.New("login is currently disabled")
	ErrRegistrationDisabled = errors.New("registration is currently disabled")
)

// AuthService owns registration, login sessions, and password changes.
type AuthService struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	embeds   repository.EmbedConfigRepository
	flags    repository.FeatureFlagRepository
	billing  *BillingService
	email    *EmailService
}

func NewAuthService(
	users repository.UserRepository,
	sessions repository.SessionRepository,
	embeds repository.EmbedConfigRepository,
	flags repository.FeatureFlagRepository,
	billing *BillingService,
	email *EmailService,
) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		embeds:   embeds,
		flags:    flags,
		billing:  billing,
		email:    email,
	}
}

// Register creates a user with a default embed config and a billing customer.
// Duplicate username or email is a conflict. Registration can be switched off
// with the "register" feature flag.
func (s *AuthService) Register(username, displayName, email, password string) (*model.User, error) {
	flag, err := s.flags.ByFeature(model.FeatureRegister)
	if err != nil && !errors.Is(err, repository.ErrFeatureFlagNotFound) {
		slog.Error("feature flag lookup failed", "error", err)
		return nil, ErrInternal
	}
	if flag == nil || !flag.Enabled {
		return nil, ErrRegistrationDisabled
	}

	username = strings.TrimSpace(username)
	email = strings.TrimSpace(strings.ToLower(email))

	err = validation.ValidateUsername(username)
	if err != nil {
		return nil, err
	}
	err = validation.ValidateDisplayName(displayName)
	if err != nil {
		return nil, err
	}
	err = validation.ValidateEmail(email)
	if err != nil {
		return nil, err
	}
	err = validation.ValidatePassword(password)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost)
	if err != nil {
		return nil, ErrInternal
	}

	user := &model.User{
		ID:           uuid.New().String(),
		Username:     username,
		DisplayName:  displayName,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}

	err = s.users.Create(user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateUser) {
			return nil, ErrConflict
		}
		slog.Error("user create failed", "error", err, "username", username)
		return nil, ErrInternal
	}

	err = s.embeds.CreateDefault(user.ID)
	if err != nil {
		slog.Error("embed config create failed", "error", err, "user_id", user.ID)
		return nil, ErrInternal
	}

	stripeID, err := s.billing.CreateCustomer(user)
	if err != nil {
		slog.Error("billing customer create failed", "error", err, "user_id", user.ID)
		return nil, ErrInternal
	}

	err = s.users.SetStripeID(user.ID, stripeID)
	if err != nil {
		slog.Error("stripe id update failed", "error", err, "user_id", user.ID)
		return nil, ErrInternal
	}
	user.StripeID = &stripeID

	// Welcome mail is best effort; registration already succeeded.
	mailErr := s.email.SendWelcomeEmail(user.Email, user.DisplayName)
	if mailErr != nil {
		slog.Warn("welcome email failed", "error", mailErr, "user_id", user.ID)
	}

	return user, nil
}

// Login verifies the password and mints a new session. The returned secret is
// the bearer value for subsequent requests. Login can be switched off with
// the "login" feature flag.
func (s *AuthService) Login(username, password string) (string, error) {
	flag, err := s.flags.ByFeature(model.FeatureLogin)
	if err != nil && !errors.Is(err, repository.ErrFeatureFlagNotFound) {
		slog.Error("feature flag lookup failed", "error", err)
		return "", ErrInternal
	}
	if flag == nil || !flag.Enabled {
		return "", ErrLoginDisabled
	}

	user, err := s.users.ByUsername(strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", ErrInvalidCredentials
		}
		slog.Error("user lookup failed", "error", err)
		return "", ErrInternal
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err != nil {
		return "", ErrInvalidCredentials
	}

	secret, err := generateSecret(sessionSecretBytes)
	if err != nil {
		return "", ErrInternal
	}

	err = s.sessions.Create(&model.Session{
		UserID: user.ID,
		Secret: secret,
	})
	if err != nil {
		slog.Error("session create failed", "error", err, "user_id", user.ID)
		return "", ErrInternal
	}

	return secret, nil
}

// Logout revokes the presented session.
func (s *AuthService) Logout(sessionSecret string) error {
	err := s.sessions.DeleteBySecret(sessionSecret)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return ErrUnauthenticated
		}
		slog.Error("session delete failed", "error", err)
		return ErrInternal
	}

	return nil
}

// ChangePassword verifies the old password before storing the new hash.
func (s *AuthService) ChangePassword(userID, oldPassword, newPassword string) error {
	user, err := s.users.ByID(userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUnauthenticated
		}
		slog.Error("user lookup failed", "error", err, "user_id", userID)
		return ErrInternal
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword))
	if err != nil {
		return ErrUnauthorized
	}

	err = validation.ValidatePassword(newPassword)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), passwordHashCost)
	if err != nil {
		return ErrInternal
	}

	err = s.users.UpdatePassword(userID, string(hash))
	if err != nil {
		slog.Error("password update failed", "error", err, "user_id", userID)
		return ErrInternal
	}

	return nil
}
