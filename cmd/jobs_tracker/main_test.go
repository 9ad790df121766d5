package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/ai-jobs-tracker/internal/rules"
)

func listing(titles ...string) string {
	html := `<html><body><main><h1>Open roles</h1><ul>`
	for i, title := range titles {
		html += `<li><a href="/jobs/` + string(rune('1'+i)) + `"><h3>` + title + `</h3></a><span>San Francisco</span></li>`
	}
	return html + `</ul></main></body></html>`
}

func newCareersSite(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/acme/careers", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(listing("Backend Engineer", "Frontend Engineer")))
	})
	mux.HandleFunc("/beta/careers", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(listing("Machine Learning Engineer")))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// isolateEnv points the stores at a temp dir and clears backend settings.
func isolateEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("DATA_DIR", filepath.Join(dir, "data"))
	for _, key := range []string{"SQLITE_PATH", "DATABASE_URL", "REDIS_ADDR", "NATS_URL", "RULES_PATH", "JOBS_TRACKER_CONFIG"} {
		t.Setenv(key, "")
	}
	return dir
}

func writeConfig(t *testing.T, dir, baseURL string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	content := `companies:
  - name: acme
    careers_url: ` + baseURL + `/acme/careers
  - name: beta
    careers_url: ` + baseURL + `/beta/careers
scraper:
  mode: title
  workers: 2
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(append(args, "--log-level", "error"))
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRulesCommand(t *testing.T) {
	isolateEnv(t)

	out, err := execute(t, "rules", "--config", "")
	require.NoError(t, err)
	assert.Contains(t, out, "Extraction rules")
	assert.Contains(t, out, rules.Version)
}

func TestScrapeCompareSkillsAnalyze(t *testing.T) {
	dir := isolateEnv(t)
	site := newCareersSite(t)
	cfg := writeConfig(t, dir, site.URL)
	outDir := filepath.Join(dir, "out")

	out, err := execute(t, "scrape", "--config", cfg, "--quiet", "--out", outDir)
	require.NoError(t, err)
	assert.Contains(t, out, "acme job market summary")
	assert.Contains(t, out, "beta job market summary")
	assert.FileExists(t, filepath.Join(outDir, "acme_jobs.json"))
	assert.FileExists(t, filepath.Join(dir, "data", "acme.dataset.json"))

	out, err = execute(t, "compare", "--config", cfg, "--a", "acme", "--b", "beta")
	require.NoError(t, err)
	assert.Contains(t, out, "acme vs beta")
	assert.Contains(t, out, "Common skills")

	out, err = execute(t, "skills", "--config", cfg, "--company", "acme", "--skill", "golang")
	require.NoError(t, err)
	assert.Contains(t, out, "acme jobs requiring Go")
	assert.Contains(t, out, "Backend Engineer")
	assert.NotContains(t, out, "Frontend Engineer")

	out, err = execute(t, "analyze", "--config", cfg, "--company", "acme", "--mode", "title")
	require.NoError(t, err)
	assert.Contains(t, out, "acme job market summary")
}

func TestSkillsCommand_UnknownSkill(t *testing.T) {
	dir := isolateEnv(t)
	cfg := writeConfig(t, dir, "http://127.0.0.1:1")

	_, err := execute(t, "skills", "--config", cfg, "--company", "acme", "--skill", "basket weaving")
	assert.ErrorContains(t, err, "unknown skill")
}

func TestCompareCommand_MissingDataset(t *testing.T) {
	dir := isolateEnv(t)
	cfg := writeConfig(t, dir, "http://127.0.0.1:1")

	_, err := execute(t, "compare", "--config", cfg, "--a", "acme", "--b", "beta")
	assert.Error(t, err)
}

func TestScrapeCommand_BadMode(t *testing.T) {
	dir := isolateEnv(t)
	cfg := writeConfig(t, dir, "http://127.0.0.1:1")

	_, err := execute(t, "scrape", "--config", cfg, "--mode", "everything")
	assert.ErrorContains(t, err, "unknown scrape mode")
}

func TestConfigCommand_InvalidConfig(t *testing.T) {
	dir := isolateEnv(t)
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("companies:\n  - name: acme\n"), 0o644))

	_, err := execute(t, "rules", "--config", path)
	assert.Error(t, err)
}
