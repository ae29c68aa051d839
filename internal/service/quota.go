package service

import (
	"errors"
	"fmt"
)

// Quota denial reasons. All wrap ErrQuotaExceeded so handlers can map the
// whole family to a single Forbidden response.
var (
	ErrQuotaExceeded                = errors.New("quota exceeded")
	ErrNoEntitlement                = fmt.Errorf("no entitlement: %w", ErrQuotaExceeded)
	ErrUploadTooBig                 = fmt.Errorf("upload too big: %w", ErrQuotaExceeded)
	ErrNoStorageLeft                = fmt.Errorf("no storage left: %w", ErrQuotaExceeded)
	ErrPasswordProtectionNotAllowed = fmt.Errorf("tier does not allow password protected uploads: %w", ErrQuotaExceeded)
	ErrNoPasswordProtectedLeft      = fmt.Errorf("no password protected uploads left: %w", ErrQuotaExceeded)
	ErrNoPrivateLeft                = fmt.Errorf("no private uploads left: %w", ErrQuotaExceeded)
)

// Classification is the billing-relevant category of an upload. Private and
// password-protected are orthogonal dimensions; a single upload can exercise
// both, in which case both ceilings are checked and both counters increment.
type Classification uint8

const (
	ClassNormal            Classification = 0
	ClassPrivate           Classification = 1 << 0
	ClassPasswordProtected Classification = 1 << 1
)

// Classify derives the classification from the proposed visibility flag and
// the supplied password. A non-empty password means password-protected.
func Classify(private bool, password string) Classification {
	var c Classification
	if private {
		c |= ClassPrivate
	}
	if password != "" {
		c |= ClassPasswordProtected
	}
	return c
}

func (c Classification) Private() bool {
	return c&ClassPrivate != 0
}

func (c Classification) PasswordProtected() bool {
	return c&ClassPasswordProtected != 0
}

// QuotaEngine decides whether a proposed upload fits the principal's tier.
// It is a pure check over counters the caller has already loaded; the
// matching counter increments happen atomically with the file write in the
// repository, re-guarded by the same ceilings.
type QuotaEngine struct{}

func NewQuotaEngine() *QuotaEngine {
	return &QuotaEngine{}
}

// Admit returns nil when the upload is within the tier's ceilings.
// Count ceilings use one convention throughout: an upload is denied once the
// current counter has reached the ceiling, so a ceiling of N admits exactly N
// uploads of that kind.
func (e *QuotaEngine) Admit(p *Principal, size int64, class Classification) error {
	if p == nil || p.Tier == nil {
		return ErrNoEntitlement
	}

	limits := p.Tier.Limits()

	if size > limits.MaxUploadSize {
		return ErrUploadTooBig
	}

	if p.User.StorageUsed+size > limits.MaxStorage {
		return ErrNoStorageLeft
	}

	if class.PasswordProtected() {
		if limits.MaxPasswordProtectedUploads == 0 {
			return ErrPasswordProtectionNotAllowed
		}
		if p.User.TotalPasswordProtectedUploads >= limits.MaxPasswordProtectedUploads {
			return ErrNoPasswordProtectedLeft
		}
	}

	if class.Private() {
		if p.User.TotalPrivateUploads >= limits.MaxPrivateUploads {
			return ErrNoPrivateLeft
		}
	}

	return nil
}
