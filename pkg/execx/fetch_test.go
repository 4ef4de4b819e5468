package execx

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchUsesCurlFirst(t *testing.T) {
	m := NewMockRunner()
	dest := filepath.Join(t.TempDir(), "sub", "install.sh")

	ok := Fetch(context.Background(), m, "https://example.com/install.sh", dest)

	assert.True(t, ok)
	require.Len(t, m.Calls, 1)
	assert.Equal(t, "curl", m.Calls[0].Name)
	assert.Contains(t, m.Calls[0].Args, "-fsSL")
}

func TestFetchFallsBackToWget(t *testing.T) {
	m := NewMockRunner()
	m.AddResponse("curl", MockResponse{ExitCode: 22})
	dest := filepath.Join(t.TempDir(), "install.sh")

	ok := Fetch(context.Background(), m, "https://example.com/install.sh", dest)

	assert.True(t, ok)
	require.Len(t, m.Calls, 2)
	assert.Equal(t, "curl", m.Calls[0].Name)
	assert.Equal(t, "wget", m.Calls[1].Name)
}

func TestFetchFailsWhenBothToolsFail(t *testing.T) {
	m := NewMockRunner()
	m.AddResponse("curl", MockResponse{ExitCode: 22})
	m.AddResponse("wget", MockResponse{ExitCode: 8})
	dest := filepath.Join(t.TempDir(), "install.sh")

	ok := Fetch(context.Background(), m, "https://example.com/install.sh", dest)

	assert.False(t, ok)
	assert.Len(t, m.Calls, 2)
}
