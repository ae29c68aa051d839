package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shothost/shothost/internal/model"
)

var (
	ErrFileNotFound  = errors.New("file not found")
	ErrQuotaExceeded = errors.New("quota exceeded")
)

type FileRepository interface {
	// CreateWithAccounting inserts the file row and applies all upload
	// accounting in one transaction: the owner's storage and upload
	// counters, the upload token's use counter, and a usage record. The
	// counter updates are guarded by the tier ceilings and the token's
	// max_uses, so two racing uploads can never both land past the same
	// remaining quota. Returns ErrQuotaExceeded or ErrUploadTokenExhausted
	// when a guard fails; nothing is written in that case.
	CreateWithAccounting(file *model.File, tokenID string, limits model.TierLimits) error
	ByID(id string) (*model.File, error)
	ByUser(userID string) ([]*model.File, error)
	// RecordView atomically increments the file's view counter and the
	// owner's total views. Relative updates, never read-modify-write.
	RecordView(fileID, ownerID string) error
}

type fileRepository struct {
	db *sqlx.DB
}

func NewFileRepository(db *sqlx.DB) FileRepository {
	return &fileRepository{db: db}
}

func (r *fileRepository) CreateWithAccounting(file *model.File, tokenID string, limits model.TierLimits) error {
	if file.CreatedAt.IsZero() {
		file.CreatedAt = time.Now()
	}

	privateInc := 0
	if file.Private {
		privateInc = 1
	}
	passwordInc := 0
	if file.PasswordProtected() {
		passwordInc = 1
	}

	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	// Guarded counter update: the WHERE clause re-checks the ceilings so the
	// admission decision and the increment are a single atomic step.
	result, err := tx.Exec(`
		UPDATE users SET
			storage_used = storage_used + $1,
			total_uploads = total_uploads + 1,
			total_private_uploads = total_private_uploads + $2,
			total_password_protected_uploads = total_password_protected_uploads + $3
		WHERE id = $4
		  AND storage_used + $5 <= $6
		  AND ($7 = 0 OR total_private_uploads < $8)
		  AND ($9 = 0 OR total_password_protected_uploads < $10)`,
		file.Size, privateInc, passwordInc,
		file.UserID,
		file.Size, limits.MaxStorage,
		privateInc, limits.MaxPrivateUploads,
		passwordInc, limits.MaxPasswordProtectedUploads,
	)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrQuotaExceeded
	}

	result, err = tx.Exec(`
		UPDATE upload_tokens SET uses = uses + 1
		WHERE id = $1 AND (max_uses IS NULL OR uses < max_uses)`,
		tokenID,
	)
	if err != nil {
		return err
	}
	rows, err = result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrUploadTokenExhausted
	}

	_, err = tx.Exec(`
		INSERT INTO files (id, user_id, mime_type, size, storage_path, is_private, password_hash, views, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 0, $8)`,
		file.ID,
		file.UserID,
		file.MimeType,
		file.Size,
		file.StoragePath,
		file.Private,
		file.PasswordHash,
		file.CreatedAt,
	)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
		INSERT INTO upload_token_uses (id, token_id, file_id, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		uuid.New().String(),
		tokenID,
		file.ID,
		file.UserID,
		file.CreatedAt,
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *fileRepository) ByID(id string) (*model.File, error) {
	file := &model.File{}
	query := `SELECT * FROM files WHERE id = $1`

	err := r.db.Get(file, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrFileNotFound
	}

	return file, err
}

func (r *fileRepository) ByUser(userID string) ([]*model.File, error) {
	var files []*model.File
	query := `SELECT * FROM files WHERE user_id = $1 ORDER BY created_at DESC`

	err := r.db.Select(&files, query, userID)
	if err != nil {
		return nil, err
	}

	return files, nil
}

func (r *fileRepository) RecordView(fileID, ownerID string) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.Exec(`UPDATE files SET views = views + 1 WHERE id = $1`, fileID)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`UPDATE users SET total_views = total_views + 1 WHERE id = $1`, ownerID)
	if err != nil {
		return err
	}

	return tx.Commit()
}
