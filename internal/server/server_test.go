package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/ai-jobs-tracker/internal/config"
	"github.com/jonathan/ai-jobs-tracker/internal/db"
	"github.com/jonathan/ai-jobs-tracker/internal/scraper"
	"github.com/jonathan/ai-jobs-tracker/internal/scrapestatus"
	"github.com/jonathan/ai-jobs-tracker/internal/server/ratelimit"
	"github.com/jonathan/ai-jobs-tracker/internal/storage"
	"github.com/jonathan/ai-jobs-tracker/internal/types"
)

// memSource is an in-memory storage.Source keyed by company key.
type memSource struct {
	datasets map[string]*types.CompanyDataset
	err      error
}

func newMemSource(datasets ...*types.CompanyDataset) *memSource {
	m := &memSource{datasets: make(map[string]*types.CompanyDataset)}
	for _, ds := range datasets {
		m.datasets[storage.CompanyKey(ds.Company)] = ds
	}
	return m
}

func (m *memSource) LoadDataset(_ context.Context, company string) (*types.CompanyDataset, error) {
	if m.err != nil {
		return nil, m.err
	}
	ds, ok := m.datasets[storage.CompanyKey(company)]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return ds, nil
}

func (m *memSource) ListCompanies(_ context.Context) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	names := make([]string, 0, len(m.datasets))
	for _, ds := range m.datasets {
		names = append(names, ds.Company)
	}
	sort.Strings(names)
	return names, nil
}

// memUsers implements UserStore.
type memUsers struct {
	mu    sync.Mutex
	users map[uuid.UUID]*db.User
}

func newMemUsers() *memUsers {
	return &memUsers{users: make(map[uuid.UUID]*db.User)}
}

func (m *memUsers) CreateUser(_ context.Context, name, email string) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := uuid.New()
	now := time.Now()
	m.users[id] = &db.User{ID: id, Name: name, Email: strings.ToLower(email), CreatedAt: now, UpdatedAt: now}
	return id, nil
}

func (m *memUsers) GetUser(_ context.Context, id uuid.UUID) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) GetUserByEmail(_ context.Context, email string) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == strings.ToLower(email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memUsers) CheckEmailExists(ctx context.Context, email string) (bool, error) {
	u, err := m.GetUserByEmail(ctx, email)
	return u != nil, err
}

func (m *memUsers) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return errors.New("no such user")
	}
	u.PasswordHash = hash
	u.PasswordSet = true
	return nil
}

// memBookmarks implements BookmarkStore.
type memBookmarks struct {
	mu        sync.Mutex
	bookmarks []types.Bookmark
}

func (m *memBookmarks) CreateBookmark(_ context.Context, userID uuid.UUID, req *types.CreateBookmarkRequest) (*types.Bookmark, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b := types.Bookmark{
		ID:        uuid.New(),
		UserID:    userID,
		Company:   req.Company,
		JobURL:    req.JobURL,
		JobTitle:  req.JobTitle,
		Note:      req.Note,
		CreatedAt: time.Now(),
	}
	m.bookmarks = append(m.bookmarks, b)
	return &b, nil
}

func (m *memBookmarks) ListBookmarks(_ context.Context, userID uuid.UUID) ([]types.Bookmark, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []types.Bookmark
	for _, b := range m.bookmarks {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memBookmarks) DeleteBookmark(_ context.Context, userID, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, b := range m.bookmarks {
		if b.ID == id && b.UserID == userID {
			m.bookmarks = append(m.bookmarks[:i], m.bookmarks[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// blockingRunner returns once release is closed or the context ends.
type blockingRunner struct {
	release chan struct{}
	mu      sync.Mutex
	runs    []string
}

func newBlockingRunner() *blockingRunner {
	return &blockingRunner{release: make(chan struct{})}
}

func (b *blockingRunner) Run(ctx context.Context, c scraper.Company) (*types.CompanyDataset, error) {
	b.mu.Lock()
	b.runs = append(b.runs, c.Name)
	b.mu.Unlock()
	select {
	case <-b.release:
		return &types.CompanyDataset{Company: c.Name}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (b *blockingRunner) Runs() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.runs...)
}

func testJWTConfig() *config.JWTConfig {
	return &config.JWTConfig{
		Secret:          "test-secret-at-least-16-chars",
		Issuer:          config.DefaultJWTIssuer,
		ExpirationHours: 1,
	}
}

func sampleDatasets() []*types.CompanyDataset {
	openai := &types.CompanyDataset{
		ID:      uuid.New(),
		Company: "OpenAI",
		Jobs: []types.JobPosting{
			{Title: "Research Engineer", URL: "https://openai.example/1", Location: "San Francisco", Department: types.DepartmentResearch,
				Salary: &types.Salary{Min: 300, Max: 400}, Skills: []string{"Python", "PyTorch"}},
			{Title: "Backend Engineer", URL: "https://openai.example/2", Location: "Remote", Department: types.DepartmentEngineering,
				Skills: []string{"Go", "SQL"}},
			{Title: "Account Executive", URL: "https://openai.example/3", Location: "New York", Department: types.DepartmentSales,
				Salary: &types.Salary{Min: 150, Max: 200}, Skills: []string{"Sales"}},
		},
		Papers: []types.Paper{{Title: "Scaling Laws", URL: "https://openai.example/papers/1"}},
	}
	anthropic := &types.CompanyDataset{
		ID:      uuid.New(),
		Company: "Anthropic",
		Jobs: []types.JobPosting{
			{Title: "Research Engineer", URL: "https://anthropic.example/1", Location: "San Francisco", Department: types.DepartmentResearch,
				Salary: &types.Salary{Min: 320, Max: 450}, Skills: []string{"Python", "JAX"}},
		},
	}
	return []*types.CompanyDataset{openai, anthropic}
}

type testServer struct {
	*Server
	source    *memSource
	users     *memUsers
	bookmarks *memBookmarks
	tracker   *scrapestatus.MemoryTracker
	runner    *blockingRunner
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ts := &testServer{
		source:    newMemSource(sampleDatasets()...),
		users:     newMemUsers(),
		bookmarks: &memBookmarks{},
		tracker:   scrapestatus.NewMemoryTracker(time.Minute),
		runner:    newBlockingRunner(),
	}
	companies := map[string]scraper.Company{
		"openai": {Name: "OpenAI", CareersURL: "https://openai.example/careers"},
	}

	s, err := New(Config{Port: 0, RateLimit: &ratelimit.Config{Enabled: false}}, Deps{
		Datasets: ts.source,
		Scraper:  ts.runner,
		Companies: func(name string) (scraper.Company, bool) {
			c, ok := companies[storage.CompanyKey(name)]
			return c, ok
		},
		Tracker:   ts.tracker,
		Users:     ts.users,
		Bookmarks: ts.bookmarks,
		JWT:       testJWTConfig(),
		Password:  &config.PasswordConfig{BcryptCost: config.MinBcryptCost},
	})
	require.NoError(t, err)
	ts.Server = s
	t.Cleanup(func() {
		select {
		case <-ts.runner.release:
		default:
			close(ts.runner.release)
		}
		s.Close()
	})
	return ts
}

func (ts *testServer) do(t *testing.T, method, target, body string, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	ts.Handler().ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestNew_RequiresDatasets(t *testing.T) {
	_, err := New(Config{}, Deps{})
	require.Error(t, err)
}

func TestNew_RejectsWeakJWTSecret(t *testing.T) {
	_, err := New(Config{}, Deps{Datasets: newMemSource(), JWT: &config.JWTConfig{Secret: "short", ExpirationHours: 1}})
	require.Error(t, err)
}

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, "ok", decodeBody[map[string]string](t, w)["status"])
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodOptions, "/companies", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Authorization")
}

func TestRecoverMiddleware(t *testing.T) {
	ts := newTestServer(t)
	h := ts.withRecover(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/anything", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal error", decodeBody[map[string]string](t, w)["error"])
}

func TestRateLimitMiddleware(t *testing.T) {
	s, err := New(Config{RateLimit: &ratelimit.Config{
		Enabled:       true,
		DefaultLimit:  1000,
		DefaultWindow: time.Minute,
		EndpointConfigs: []ratelimit.EndpointConfig{
			{Path: "/compare", Method: http.MethodGet, Limit: 1, Window: time.Minute, Burst: 1},
		},
	}}, Deps{Datasets: newMemSource(sampleDatasets()...)})
	require.NoError(t, err)
	t.Cleanup(s.Close)

	call := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/compare?a=openai&b=anthropic", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(w, req)
		return w
	}

	first := call()
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Limit"))

	second := call()
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.NotEmpty(t, second.Header().Get("Retry-After"))
	body := decodeBody[map[string]any](t, second)
	assert.Equal(t, "rate_limit_exceeded", body["error"])
}

func TestExtractClientID(t *testing.T) {
	s := &Server{}
	tests := []struct {
		remote string
		want   string
	}{
		{"192.168.1.5:4321", "192.168.1.5"},
		{"[::1]:8080", "::1"},
		{"not-an-addr", "not-an-addr"},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = tt.remote
		assert.Equal(t, tt.want, s.extractClientID(r))
	}
}

func TestParseQueryInt(t *testing.T) {
	tests := []struct {
		query string
		want  int
	}{
		{"", 50},
		{"limit=10", 10},
		{"limit=-1", 50},
		{"limit=abc", 50},
		{"limit=1000", 500},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/?"+tt.query, nil)
			assert.Equal(t, tt.want, parseQueryInt(r, "limit", 50, 500))
		})
	}
}

func TestStart_StopsOnContextCancel(t *testing.T) {
	s, err := New(Config{Port: 0}, Deps{Datasets: newMemSource()})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
