package domain

import "errors"

var (
	ErrValidation         = errors.New("invalid input")
	ErrConflict           = errors.New("already exists")
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")

	// blob store failures
	ErrDecode = errors.New("malformed image payload")
	ErrIO     = errors.New("blob write failed")
)
