package server

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/ai-jobs-tracker/internal/types"
)

func register(t *testing.T, ts *testServer, email, password string) types.LoginResponse {
	t.Helper()
	w := ts.do(t, http.MethodPost, "/auth/register",
		`{"name":"Ada","email":"`+email+`","password":"`+password+`"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decodeBody[types.LoginResponse](t, w)
}

func TestAuth_RegisterAndLogin(t *testing.T) {
	ts := newTestServer(t)

	resp := register(t, ts, "Ada@Example.com", "password123")
	require.NotNil(t, resp.User)
	assert.Equal(t, "ada@example.com", resp.User.Email)
	assert.True(t, resp.User.PasswordSet)
	assert.NotEmpty(t, resp.Token)
	assert.NotContains(t, ts.do(t, http.MethodPost, "/auth/login",
		`{"email":"ada@example.com","password":"password123"}`).Body.String(), "password_hash")

	w := ts.do(t, http.MethodPost, "/auth/login", `{"email":"ada@example.com","password":"password123"}`)
	require.Equal(t, http.StatusOK, w.Code)
	login := decodeBody[types.LoginResponse](t, w)
	assert.Equal(t, resp.User.ID, login.User.ID)
}

func TestAuth_RegisterErrors(t *testing.T) {
	ts := newTestServer(t)
	register(t, ts, "ada@example.com", "password123")

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"malformed", `{`, http.StatusBadRequest},
		{"short password", `{"name":"Ada","email":"bob@example.com","password":"short"}`, http.StatusBadRequest},
		{"bad email", `{"name":"Ada","email":"nope","password":"password123"}`, http.StatusBadRequest},
		{"duplicate", `{"name":"Ada","email":"ada@example.com","password":"password123"}`, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ts.do(t, http.MethodPost, "/auth/register", tt.body)
			assert.Equal(t, tt.status, w.Code)
			assert.NotEmpty(t, decodeBody[map[string]string](t, w)["error"])
		})
	}
}

func TestAuth_LoginRejectsBadCredentials(t *testing.T) {
	ts := newTestServer(t)
	register(t, ts, "ada@example.com", "password123")

	for _, body := range []string{
		`{"email":"ada@example.com","password":"wrong-password"}`,
		`{"email":"nobody@example.com","password":"password123"}`,
	} {
		w := ts.do(t, http.MethodPost, "/auth/login", body)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "invalid email or password", decodeBody[map[string]string](t, w)["error"])
	}
}

func TestAuth_UpdatePassword(t *testing.T) {
	ts := newTestServer(t)
	resp := register(t, ts, "ada@example.com", "password123")
	bearer := "Bearer " + resp.Token

	w := ts.do(t, http.MethodPut, "/auth/password", `{"current_password":"password123","new_password":"newpassword456"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ts.do(t, http.MethodPut, "/auth/password",
		`{"current_password":"wrong-one","new_password":"newpassword456"}`, "Authorization", bearer)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ts.do(t, http.MethodPut, "/auth/password",
		`{"current_password":"password123","new_password":"newpassword456"}`, "Authorization", bearer)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = ts.do(t, http.MethodPost, "/auth/login", `{"email":"ada@example.com","password":"newpassword456"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	w = ts.do(t, http.MethodPost, "/auth/login", `{"email":"ada@example.com","password":"password123"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_NotConfigured(t *testing.T) {
	s, err := New(Config{}, Deps{Datasets: newMemSource()})
	require.NoError(t, err)
	t.Cleanup(s.Close)
	ts := &testServer{Server: s}

	w := ts.do(t, http.MethodPost, "/auth/login", `{"email":"ada@example.com","password":"x"}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	w = ts.do(t, http.MethodGet, "/bookmarks", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestBookmarks(t *testing.T) {
	ts := newTestServer(t)
	ada := "Bearer " + register(t, ts, "ada@example.com", "password123").Token
	bob := "Bearer " + register(t, ts, "bob@example.com", "password123").Token

	w := ts.do(t, http.MethodGet, "/bookmarks", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ts.do(t, http.MethodPost, "/bookmarks",
		`{"company":"OpenAI","job_url":"https://openai.example/1","job_title":"Research Engineer"}`, "Authorization", ada)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decodeBody[types.Bookmark](t, w)

	w = ts.do(t, http.MethodPost, "/bookmarks", `{"company":"OpenAI","job_url":"not a url","job_title":"x"}`, "Authorization", ada)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, http.MethodGet, "/bookmarks", "", "Authorization", ada)
	require.Equal(t, http.StatusOK, w.Code)
	list := decodeBody[struct {
		Bookmarks []types.Bookmark `json:"bookmarks"`
		Total     int              `json:"total"`
	}](t, w)
	require.Len(t, list.Bookmarks, 1)
	assert.Equal(t, created.ID, list.Bookmarks[0].ID)

	w = ts.do(t, http.MethodGet, "/bookmarks", "", "Authorization", bob)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"bookmarks":[],"total":0}`, w.Body.String())

	w = ts.do(t, http.MethodDelete, "/bookmarks/"+created.ID.String(), "", "Authorization", bob)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = ts.do(t, http.MethodDelete, "/bookmarks/not-a-uuid", "", "Authorization", ada)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = ts.do(t, http.MethodDelete, "/bookmarks/"+created.ID.String(), "", "Authorization", ada)
	assert.Equal(t, http.StatusNoContent, w.Code)
}
