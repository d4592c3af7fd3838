package apperrors

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidRole        = errors.New("invalid role")
	ErrInvalidStatus      = errors.New("invalid task status")
	ErrValidation         = errors.New("validation failed")
	ErrSelfDelete         = errors.New("cannot delete your own account")
	ErrGenerationFailed   = errors.New("story generation failed")
	ErrInvalidCredentials = errors.New("invalid email or password")
)
