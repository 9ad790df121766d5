package ingestion

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"only whitespace", " \n\t ", ""},
		{"lowercases", "Senior GPU Engineer", "senior gpu engineer"},
		{"collapses runs", "React\n\n   and\tGo", "react and go"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestRequirementsText_TriggerSection(t *testing.T) {
	text := `About the team
We build the inference stack.

Requirements
Strong Python
Experience running Kubernetes

Benefits
Free lunch`

	got := RequirementsText(text, "")

	assert.Contains(t, got, "requirements")
	assert.Contains(t, got, "strong python")
	assert.Contains(t, got, "kubernetes")
	assert.NotContains(t, got, "free lunch")
	assert.NotContains(t, got, "inference stack")
}

func TestRequirementsText_FallsBackToListItems(t *testing.T) {
	html := `<html><body><p>Join us.</p><ul><li>Rust</li><li>Distributed systems</li></ul></body></html>`

	got := RequirementsText("Join us. Rust Distributed systems", html)

	assert.Equal(t, "rust distributed systems", got)
}

func TestRequirementsText_FallsBackToBulletLines(t *testing.T) {
	text := "Join us.\n- Rust\n- CUDA kernels"

	got := RequirementsText(text, "")

	assert.Equal(t, "rust cuda kernels", got)
}

func TestRequirementsText_BoundedFallback(t *testing.T) {
	text := strings.Repeat("word ", 600) + "react components frontend"

	got := RequirementsText(text, "")

	assert.LessOrEqual(t, len([]rune(got)), FallbackChars)
	assert.NotContains(t, got, "react")
}

func TestRequirementsText_Empty(t *testing.T) {
	assert.Equal(t, "", RequirementsText("", ""))
}

func TestTruncate_RespectsRunes(t *testing.T) {
	assert.Equal(t, "héll", Truncate("héllo", 4))
	assert.Equal(t, "abc", Truncate("abc", 10))
}
