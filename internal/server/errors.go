package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/ai-jobs-tracker/internal/scrapestatus"
	"github.com/jonathan/ai-jobs-tracker/internal/storage"
)

// ErrEmailAlreadyExists indicates email is already registered
type ErrEmailAlreadyExists struct {
	Email string
}

func (e *ErrEmailAlreadyExists) Error() string {
	return fmt.Sprintf("email already registered: %s", e.Email)
}

// ErrInvalidCredentials indicates invalid login credentials
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid email or password"
}

// ErrUserNotFound indicates user was not found
type ErrUserNotFound struct {
	UserID uuid.UUID
}

func (e *ErrUserNotFound) Error() string {
	return fmt.Sprintf("user not found: %s", e.UserID)
}

// ErrPasswordMismatch indicates current password is incorrect
type ErrPasswordMismatch struct{}

func (e *ErrPasswordMismatch) Error() string {
	return "current password is incorrect"
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrUnknownCompany indicates a company that is neither configured nor stored.
type ErrUnknownCompany struct {
	Company string
}

func (e *ErrUnknownCompany) Error() string {
	return fmt.Sprintf("unknown company: %s", e.Company)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		exists   *ErrEmailAlreadyExists
		creds    *ErrInvalidCredentials
		mismatch *ErrPasswordMismatch
		notFound *ErrUserNotFound
		invalid  *ErrValidation
		company  *ErrUnknownCompany
	)
	switch {
	case errors.As(err, &exists), errors.Is(err, scrapestatus.ErrAlreadyActive):
		return http.StatusConflict
	case errors.As(err, &creds), errors.As(err, &mismatch):
		return http.StatusUnauthorized
	case errors.As(err, &notFound), errors.As(err, &company), errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &invalid):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
