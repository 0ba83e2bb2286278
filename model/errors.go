package model

import "errors"

// Validation errors. These are shown to the user and never change state.
var (
	ErrNotJoined        = errors.New("user is not participating")
	ErrAlreadyJoined    = errors.New("user is already participating")
	ErrInvalidMode      = errors.New("invalid mode")
	ErrUnsupportedMedia = errors.New("unsupported media type")
	ErrGuildLocked      = errors.New("challenge is locked in this guild")
	ErrNoFixedEnd       = errors.New("mode has no fixed end")
)

// Collaborator and lookup errors.
var (
	ErrNotFound       = errors.New("resource not found")
	ErrEvidenceUpload = errors.New("evidence upload failed")
	ErrLockHeld       = errors.New("another submission is in progress")
)

// IsValidation reports whether err should be answered with a user facing
// rejection rather than a generic failure.
func IsValidation(err error) bool {
	return errors.Is(err, ErrNotJoined) ||
		errors.Is(err, ErrAlreadyJoined) ||
		errors.Is(err, ErrInvalidMode) ||
		errors.Is(err, ErrUnsupportedMedia) ||
		errors.Is(err, ErrGuildLocked) ||
		errors.Is(err, ErrNoFixedEnd) ||
		errors.Is(err, ErrLockHeld)
}

// IsNotFound reports whether err means an external reference is gone.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
