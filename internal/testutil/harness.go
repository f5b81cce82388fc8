// Package testutil holds helpers shared by the package tests.
package testutil

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/specialistvlad/cecplan/internal/ctxlog"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// DumpOnFailure logs the buffer once the test ends, if it failed or
// CECPLAN_TEST_LOGS=true.
func (b *SafeBuffer) DumpOnFailure(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		if t.Failed() || os.Getenv("CECPLAN_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), b.String())
		}
	})
}

// Context returns a context carrying a logger that writes through t.
func Context(t *testing.T) context.Context {
	t.Helper()
	return ctxlog.WithLogger(context.Background(), zaptest.NewLogger(t))
}

// WriteFiles creates files, keyed by slash-separated relative path, in a
// fresh temporary directory and returns the directory.
func WriteFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}
