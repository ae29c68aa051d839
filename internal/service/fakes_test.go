package service

import (
	"bytes"
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/shothost/shothost/internal/model"
	"github.com/shothost/shothost/internal/repository"
)

// In-memory repository doubles. They mirror the guard semantics of the real
// implementations where tests depend on them, most importantly the token use
// ceiling inside the accounting write.

type fakeSessionRepo struct {
	bySecret map[string]*model.User
	err      error
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{bySecret: map[string]*model.User{}}
}

func (f *fakeSessionRepo) Create(session *model.Session) error {
	if f.err != nil {
		return f.err
	}
	if session.ID == "" {
		session.ID = uuid.New().String()
	}
	f.bySecret[session.Secret] = &model.User{ID: session.UserID}
	return nil
}

func (f *fakeSessionRepo) DeleteBySecret(secret string) error {
	if _, ok := f.bySecret[secret]; !ok {
		return repository.ErrSessionNotFound
	}
	delete(f.bySecret, secret)
	return nil
}

func (f *fakeSessionRepo) UserBySecret(secret string) (*model.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	user, ok := f.bySecret[secret]
	if !ok {
		return nil, repository.ErrSessionNotFound
	}
	return user, nil
}

type fakeUploadTokenRepo struct {
	owners   map[string]*model.User        // secret -> owner
	bySecret map[string]*model.UploadToken // secret -> token
	err      error
}

func newFakeUploadTokenRepo() *fakeUploadTokenRepo {
	return &fakeUploadTokenRepo{
		owners:   map[string]*model.User{},
		bySecret: map[string]*model.UploadToken{},
	}
}

func (f *fakeUploadTokenRepo) add(owner *model.User, token *model.UploadToken) {
	f.owners[token.Secret] = owner
	f.bySecret[token.Secret] = token
}

func (f *fakeUploadTokenRepo) Create(token *model.UploadToken) error {
	if token.ID == "" {
		token.ID = uuid.New().String()
	}
	f.bySecret[token.Secret] = token
	return nil
}

func (f *fakeUploadTokenRepo) Resolve(secret string) (*model.User, *model.UploadToken, error) {
	if f.err != nil {
		return nil, nil, f.err
	}
	token, ok := f.bySecret[secret]
	if !ok {
		return nil, nil, repository.ErrUploadTokenNotFound
	}
	return f.owners[secret], token, nil
}

func (f *fakeUploadTokenRepo) ByUser(userID string) ([]*model.UploadToken, error) {
	var out []*model.UploadToken
	for _, token := range f.bySecret {
		if token.UserID == userID {
			out = append(out, token)
		}
	}
	return out, nil
}

func (f *fakeUploadTokenRepo) ByID(id, userID string) (*model.UploadToken, error) {
	for _, token := range f.bySecret {
		if token.ID == id && token.UserID == userID {
			return token, nil
		}
	}
	return nil, repository.ErrUploadTokenNotFound
}

func (f *fakeUploadTokenRepo) Delete(id, userID string) error {
	for secret, token := range f.bySecret {
		if token.ID == id && token.UserID == userID {
			delete(f.bySecret, secret)
			delete(f.owners, secret)
			return nil
		}
	}
	return repository.ErrUploadTokenNotFound
}

func (f *fakeUploadTokenRepo) UpdateSecret(id, userID, secret string) error {
	for old, token := range f.bySecret {
		if token.ID == id && token.UserID == userID {
			delete(f.bySecret, old)
			owner := f.owners[old]
			delete(f.owners, old)
			token.Secret = secret
			f.bySecret[secret] = token
			f.owners[secret] = owner
			return nil
		}
	}
	return repository.ErrUploadTokenNotFound
}

func (f *fakeUploadTokenRepo) Usage(tokenID string) ([]*model.UploadTokenUse, error) {
	return nil, nil
}

type fakeViewTokenRepo struct {
	tokens []*model.ViewToken
}

func (f *fakeViewTokenRepo) Create(token *model.ViewToken) error {
	if token.ID == "" {
		token.ID = uuid.New().String()
	}
	f.tokens = append(f.tokens, token)
	return nil
}

func (f *fakeViewTokenRepo) ByFileAndSecret(fileID, secret string) (*model.ViewToken, error) {
	for _, token := range f.tokens {
		if token.FileID == fileID && token.Secret == secret {
			return token, nil
		}
	}
	return nil, repository.ErrViewTokenNotFound
}

type fakeFileRepo struct {
	files  map[string]*model.File
	tokens map[string]*model.UploadToken // token id -> token
	owners map[string]*model.User        // user id -> user
	views  int
}

func newFakeFileRepo() *fakeFileRepo {
	return &fakeFileRepo{
		files:  map[string]*model.File{},
		tokens: map[string]*model.UploadToken{},
		owners: map[string]*model.User{},
	}
}

func (f *fakeFileRepo) CreateWithAccounting(file *model.File, tokenID string, limits model.TierLimits) error {
	owner := f.owners[file.UserID]
	if owner != nil {
		if owner.StorageUsed+file.Size > limits.MaxStorage {
			return repository.ErrQuotaExceeded
		}
		if file.Private && owner.TotalPrivateUploads >= limits.MaxPrivateUploads {
			return repository.ErrQuotaExceeded
		}
		if file.PasswordProtected() && owner.TotalPasswordProtectedUploads >= limits.MaxPasswordProtectedUploads {
			return repository.ErrQuotaExceeded
		}
	}

	token := f.tokens[tokenID]
	if token != nil {
		if token.Exhausted() {
			return repository.ErrUploadTokenExhausted
		}
		token.Uses++
	}

	if owner != nil {
		owner.StorageUsed += file.Size
		owner.TotalUploads++
		if file.Private {
			owner.TotalPrivateUploads++
		}
		if file.PasswordProtected() {
			owner.TotalPasswordProtectedUploads++
		}
	}

	f.files[file.ID] = file
	return nil
}

func (f *fakeFileRepo) ByID(id string) (*model.File, error) {
	file, ok := f.files[id]
	if !ok {
		return nil, repository.ErrFileNotFound
	}
	return file, nil
}

func (f *fakeFileRepo) ByUser(userID string) ([]*model.File, error) {
	var out []*model.File
	for _, file := range f.files {
		if file.UserID == userID {
			out = append(out, file)
		}
	}
	return out, nil
}

func (f *fakeFileRepo) RecordView(fileID, ownerID string) error {
	f.views++
	if file, ok := f.files[fileID]; ok {
		file.Views++
	}
	if owner, ok := f.owners[ownerID]; ok {
		owner.TotalViews++
	}
	return nil
}

type fakeStorage struct {
	objects map[string][]byte
	saveErr error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string][]byte{}}
}

func (f *fakeStorage) Save(ctx context.Context, path string, content io.Reader) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	data, err := io.ReadAll(content)
	if err != nil {
		return err
	}
	f.objects[path] = data
	return nil
}

func (f *fakeStorage) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	data, ok := f.objects[path]
	if !ok {
		return nil, io.ErrUnexpectedEOF
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeStorage) Delete(ctx context.Context, path string) error {
	delete(f.objects, path)
	return nil
}

type fakeUserRepo struct {
	byID       map[string]*model.User
	byUsername map[string]*model.User
	err        error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:       map[string]*model.User{},
		byUsername: map[string]*model.User{},
	}
}

func (f *fakeUserRepo) add(user *model.User) {
	f.byID[user.ID] = user
	f.byUsername[user.Username] = user
}

func (f *fakeUserRepo) Create(user *model.User) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.byUsername[user.Username]; ok {
		return repository.ErrDuplicateUser
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	f.add(user)
	return nil
}

func (f *fakeUserRepo) ByID(id string) (*model.User, error) {
	user, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) ByUsername(username string) (*model.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	user, ok := f.byUsername[username]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) UpdateAccount(id, username, displayName string) error {
	user, ok := f.byID[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	if other, exists := f.byUsername[username]; exists && other.ID != id {
		return repository.ErrDuplicateUser
	}
	delete(f.byUsername, user.Username)
	user.Username = username
	user.DisplayName = displayName
	f.byUsername[username] = user
	return nil
}

func (f *fakeUserRepo) UpdatePassword(id, passwordHash string) error {
	user, ok := f.byID[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	user.PasswordHash = passwordHash
	return nil
}

func (f *fakeUserRepo) SetStripeID(id, stripeID string) error {
	user, ok := f.byID[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	user.StripeID = &stripeID
	return nil
}

func (f *fakeUserRepo) SetPlanByStripeID(stripeID string, planID *string) error {
	for _, user := range f.byID {
		if user.StripeID != nil && *user.StripeID == stripeID {
			user.CurrentPlanID = planID
			return nil
		}
	}
	return repository.ErrUserNotFound
}

type fakeEmbedRepo struct {
	configs map[string]*model.EmbedConfig
}

func newFakeEmbedRepo() *fakeEmbedRepo {
	return &fakeEmbedRepo{configs: map[string]*model.EmbedConfig{}}
}

func (f *fakeEmbedRepo) CreateDefault(userID string) error {
	f.configs[userID] = &model.EmbedConfig{
		UserID:          userID,
		Color:           model.DefaultEmbedColor,
		BackgroundColor: model.DefaultEmbedBackgroundColor,
	}
	return nil
}

func (f *fakeEmbedRepo) ByUserID(userID string) (*model.EmbedConfig, error) {
	cfg, ok := f.configs[userID]
	if !ok {
		return nil, repository.ErrEmbedConfigNotFound
	}
	return cfg, nil
}

func (f *fakeEmbedRepo) Update(cfg *model.EmbedConfig) error {
	f.configs[cfg.UserID] = cfg
	return nil
}

type fakeFlagRepo struct {
	flags map[string]bool
}

func (f *fakeFlagRepo) ByFeature(feature string) (*model.FeatureFlag, error) {
	enabled, ok := f.flags[feature]
	if !ok {
		return nil, repository.ErrFeatureFlagNotFound
	}
	return &model.FeatureFlag{Feature: feature, Enabled: enabled}, nil
}
