package testutil

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func RandomString(length int) string {
	raw := make([]byte, length/2+1)
	if _, err := rand.Read(raw); err != nil {
		return ""
	}

	return hex.EncodeToString(raw)[:length]
}

// WriteFile creates name with content inside a per-test directory and returns
// its path.
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

// MissingPath returns a path inside a per-test directory that does not exist.
func MissingPath(t *testing.T, name string) string {
	t.Helper()

	return filepath.Join(t.TempDir(), RandomString(8), name)
}

// Logger returns a JSON logger writing into the returned buffer.
func Logger(t *testing.T) (zerolog.Logger, *bytes.Buffer) {
	t.Helper()

	var buf bytes.Buffer

	return zerolog.New(&buf), &buf
}
