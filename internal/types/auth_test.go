package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUserRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		request CreateUserRequest
		errMsg  string
	}{
		{
			name:    "valid",
			request: CreateUserRequest{Name: "Ada", Email: "ada@example.com", Password: "password123"},
		},
		{
			name:    "missing name",
			request: CreateUserRequest{Email: "ada@example.com", Password: "password123"},
			errMsg:  "required",
		},
		{
			name:    "bad email",
			request: CreateUserRequest{Name: "Ada", Email: "not-an-email", Password: "password123"},
			errMsg:  "email",
		},
		{
			name:    "short password",
			request: CreateUserRequest{Name: "Ada", Email: "ada@example.com", Password: "short"},
			errMsg:  "min",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.errMsg == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoginRequest_Validate(t *testing.T) {
	ok := LoginRequest{Email: "ada@example.com", Password: "x"}
	require.NoError(t, ok.Validate())

	missing := LoginRequest{Email: "ada@example.com"}
	require.Error(t, missing.Validate())
}

func TestUpdatePasswordRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		request UpdatePasswordRequest
		wantErr bool
	}{
		{"valid", UpdatePasswordRequest{CurrentPassword: "oldpassword", NewPassword: "newpassword"}, false},
		{"too short", UpdatePasswordRequest{CurrentPassword: "oldpassword", NewPassword: "short"}, true},
		{"same as current", UpdatePasswordRequest{CurrentPassword: "samepassword", NewPassword: "samepassword"}, true},
		{"missing current", UpdatePasswordRequest{NewPassword: "newpassword"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoginResponse_OmitsPasswordHash(t *testing.T) {
	resp := LoginResponse{
		User: &User{
			ID:          uuid.New(),
			Name:        "Ada",
			Email:       "ada@example.com",
			PasswordSet: true,
			CreatedAt:   time.Now(),
			UpdatedAt:   time.Now(),
		},
		Token: "token-123",
	}

	data, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(data), "token-123")
	assert.NotContains(t, string(data), "password_hash")
}

func TestCreateBookmarkRequest_Validate(t *testing.T) {
	req := CreateBookmarkRequest{
		Company:  "openai",
		JobURL:   "https://openai.com/careers/research-engineer",
		JobTitle: "Research Engineer",
	}
	require.NoError(t, req.Validate())

	req.JobURL = "not a url"
	require.Error(t, req.Validate())
}
