package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Bookmark is a job posting saved by a user.
type Bookmark struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Company   string    `json:"company"`
	JobURL    string    `json:"job_url"`
	JobTitle  string    `json:"job_title"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateBookmarkRequest represents a request to bookmark a job posting.
type CreateBookmarkRequest struct {
	Company  string `json:"company" validate:"required"`
	JobURL   string `json:"job_url" validate:"required,url"`
	JobTitle string `json:"job_title" validate:"required"`
	Note     string `json:"note,omitempty" validate:"max=500"`
}

// Validate validates the CreateBookmarkRequest using the validator.
func (r *CreateBookmarkRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
