package service

import (
	"github.com/shothost/shothost/internal/model"
)

// AccessService decides whether a file read is permitted and whether it
// counts as a billable view.
type AccessService struct{}

func NewAccessService() *AccessService {
	return &AccessService{}
}

// DecideRead combines ownership, visibility and redemption state. The
// principal may be nil (anonymous read), as may the grant.
//
// Owners always read their own files and self-views are free. Private files
// are reported as not found to everyone else, so they cannot be told apart
// from files that do not exist. Password-protected files require a grant that
// verified for this exact file. An allowed non-owner read is billable: the
// caller must increment the file's and the owner's view counters exactly
// once.
func (s *AccessService) DecideRead(p *Principal, file *model.File, grant *ViewTokenGrant) (billable bool, err error) {
	var callerID string
	if p != nil && p.User != nil {
		callerID = p.User.ID
	}

	if file.OwnedBy(callerID) {
		return false, nil
	}

	if file.Private {
		return false, ErrNotFound
	}

	if file.PasswordProtected() {
		if grant == nil || grant.FileID != file.ID {
			return false, ErrUnauthorized
		}
	}

	return true, nil
}
