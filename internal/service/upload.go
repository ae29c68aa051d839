package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shothost/shothost/internal/model"
	"github.com/shothost/shothost/internal/repository"
	"github.com/shothost/shothost/internal/storage"
	"golang.org/x/crypto/bcrypt"
)

const passwordHashCost = 12

// UploadService owns the upload flow and file reads.
type UploadService struct {
	files    repository.FileRepository
	storage  storage.Storage
	quota    *QuotaEngine
	access   *AccessService
	resolver *CredentialResolver
	appURL   string
}

func NewUploadService(
	files repository.FileRepository,
	store storage.Storage,
	quota *QuotaEngine,
	access *AccessService,
	resolver *CredentialResolver,
	appURL string,
) *UploadService {
	return &UploadService{
		files:    files,
		storage:  store,
		quota:    quota,
		access:   access,
		resolver: resolver,
		appURL:   appURL,
	}
}

// UploadRequest is an already-decoded upload. Password empty means no
// protection; Private and Password are independent dimensions.
type UploadRequest struct {
	Content  io.Reader
	Size     int64
	MimeType string
	Private  bool
	Password string
}

// Upload admits the request against the principal's tier, stores the bytes,
// and records the file with all accounting applied atomically. The token's
// use ceiling is checked before the quota and is an authorization failure,
// not a quota one.
//
// The quota pre-check gives a precise denial reason; the repository re-guards
// the same ceilings inside the accounting transaction, so a concurrent upload
// that passed its own pre-check cannot overshoot the remaining quota.
func (s *UploadService) Upload(ctx context.Context, p *Principal, token *model.UploadToken, req UploadRequest) (*model.File, error) {
	if token.Exhausted() {
		return nil, ErrUnauthorized
	}

	class := Classify(req.Private, req.Password)

	err := s.quota.Admit(p, req.Size, class)
	if err != nil {
		return nil, err
	}

	file := &model.File{
		ID:       uuid.New().String(),
		UserID:   p.User.ID,
		MimeType: req.MimeType,
		Size:     req.Size,
		Private:  req.Private,
	}
	file.StoragePath = "uploads/" + file.ID

	if req.Password != "" {
		hash, hashErr := bcrypt.GenerateFromPassword([]byte(req.Password), passwordHashCost)
		if hashErr != nil {
			return nil, ErrInternal
		}
		hashStr := string(hash)
		file.PasswordHash = &hashStr
	}

	err = s.storage.Save(ctx, file.StoragePath, req.Content)
	if err != nil {
		slog.Error("upload storage write failed", "error", err, "file_id", file.ID)
		return nil, ErrInternal
	}

	err = s.files.CreateWithAccounting(file, token.ID, p.Tier.Limits())
	if err != nil {
		// The accounting failed, so the stored bytes are orphaned. Best
		// effort cleanup; the denial stands either way.
		delErr := s.storage.Delete(ctx, file.StoragePath)
		if delErr != nil {
			slog.Error("failed to delete file from storage during cleanup", "error", delErr, "path", file.StoragePath)
		}

		switch {
		case errors.Is(err, repository.ErrQuotaExceeded):
			return nil, ErrQuotaExceeded
		case errors.Is(err, repository.ErrUploadTokenExhausted):
			return nil, ErrUnauthorized
		default:
			slog.Error("upload accounting failed", "error", err, "file_id", file.ID)
			return nil, ErrInternal
		}
	}

	return file, nil
}

// Read serves file content. The caller passes the raw `vt` query value; it is
// only consulted when the file actually needs one. Billable reads increment
// the owner's and the file's view counters exactly once, after the decision
// and paired with the serve.
func (s *UploadService) Read(ctx context.Context, p *Principal, fileID, viewTokenSecret, clientIP string) (*model.File, io.ReadCloser, error) {
	file, err := s.files.ByID(fileID)
	if err != nil {
		if errors.Is(err, repository.ErrFileNotFound) {
			return nil, nil, ErrNotFound
		}
		slog.Error("file lookup failed", "error", err, "file_id", fileID)
		return nil, nil, ErrInternal
	}

	var grant *ViewTokenGrant
	if file.PasswordProtected() && viewTokenSecret != "" {
		grant, err = s.resolver.ResolveViewToken(viewTokenSecret, file.ID, clientIP)
		if err != nil && !errors.Is(err, ErrUnauthorized) {
			return nil, nil, err
		}
	}

	billable, err := s.access.DecideRead(p, file, grant)
	if err != nil {
		return nil, nil, err
	}

	content, err := s.storage.Open(ctx, file.StoragePath)
	if err != nil {
		slog.Error("storage read failed", "error", err, "file_id", file.ID)
		return nil, nil, ErrInternal
	}

	if billable {
		err = s.files.RecordView(file.ID, file.UserID)
		if err != nil {
			slog.Error("view accounting failed", "error", err, "file_id", file.ID)
		}
	}

	return file, content, nil
}

// Meta loads file metadata and applies the visibility half of the access
// decision, for the HTML embed view. No view is counted here; that happens
// when the content itself is read.
func (s *UploadService) Meta(p *Principal, fileID string) (*model.File, error) {
	file, err := s.files.ByID(fileID)
	if err != nil {
		if errors.Is(err, repository.ErrFileNotFound) {
			return nil, ErrNotFound
		}
		slog.Error("file lookup failed", "error", err, "file_id", fileID)
		return nil, ErrInternal
	}

	var callerID string
	if p != nil && p.User != nil {
		callerID = p.User.ID
	}

	if file.Private && !file.OwnedBy(callerID) {
		return nil, ErrNotFound
	}

	return file, nil
}

// UserUploads lists the principal's own uploads.
func (s *UploadService) UserUploads(userID string) ([]*model.File, error) {
	files, err := s.files.ByUser(userID)
	if err != nil {
		slog.Error("uploads list failed", "error", err, "user_id", userID)
		return nil, ErrInternal
	}

	return files, nil
}

// FileURL is the canonical content URL for an upload.
func (s *UploadService) FileURL(fileID string) string {
	return fmt.Sprintf("%s/api/uploads/content/%s", s.appURL, fileID)
}
