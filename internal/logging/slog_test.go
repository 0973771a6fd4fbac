package logging

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeToken(t *testing.T) {
	assert.Equal(t, "<empty>", SanitizeToken(""))
	assert.Equal(t, "[token:8 chars]", SanitizeToken("sess-abc"))
	// The raw credential never appears in the sanitized form.
	assert.NotContains(t, SanitizeToken("super-secret-session"), "secret")
}

func TestErr(t *testing.T) {
	attr := Err(errors.New("boom"))
	assert.Equal(t, KeyError, attr.Key)
	assert.Equal(t, "boom", attr.Value.String())

	// A nil error yields an empty group, which slog drops from output.
	empty := Err(nil)
	assert.Equal(t, "", empty.Key)
	assert.Equal(t, slog.KindGroup, empty.Value.Kind())
}

func TestWithOperation(t *testing.T) {
	logger := WithOperation(slog.Default(), "import_window")
	assert.NotNil(t, logger)
}
