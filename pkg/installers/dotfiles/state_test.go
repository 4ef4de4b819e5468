package dotfiles

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	dir := t.TempDir()

	source := filepath.Join(dir, "source")
	require.NoError(t, os.WriteFile(source, []byte("content"), 0644))

	t.Run("absent target", func(t *testing.T) {
		assert.Equal(t, StateAbsent, Classify(source, filepath.Join(dir, "missing")))
	})

	t.Run("correct link", func(t *testing.T) {
		target := filepath.Join(dir, "correct")
		require.NoError(t, os.Symlink(source, target))

		assert.Equal(t, StateCorrectLink, Classify(source, target))
	})

	t.Run("wrong link", func(t *testing.T) {
		other := filepath.Join(dir, "other")
		require.NoError(t, os.WriteFile(other, []byte("other"), 0644))
		target := filepath.Join(dir, "wrong")
		require.NoError(t, os.Symlink(other, target))

		assert.Equal(t, StateWrongLink, Classify(source, target))
	})

	t.Run("dangling link", func(t *testing.T) {
		target := filepath.Join(dir, "dangling")
		require.NoError(t, os.Symlink(filepath.Join(dir, "deleted"), target))

		// A broken link must classify as a wrong link, not absent, and
		// must not raise on resolution.
		assert.Equal(t, StateWrongLink, Classify(source, target))
	})

	t.Run("foreign file", func(t *testing.T) {
		target := filepath.Join(dir, "foreign")
		require.NoError(t, os.WriteFile(target, []byte("something else"), 0644))

		assert.Equal(t, StateForeignFile, Classify(source, target))
	})

	t.Run("same file via hard link", func(t *testing.T) {
		target := filepath.Join(dir, "samefile")
		require.NoError(t, os.Link(source, target))

		assert.Equal(t, StateSameFile, Classify(source, target))
	})

	t.Run("same path", func(t *testing.T) {
		assert.Equal(t, StateSameFile, Classify(source, source))
	})
}

func TestClassifyLinkThroughIndirection(t *testing.T) {
	dir := t.TempDir()

	source := filepath.Join(dir, "source")
	require.NoError(t, os.WriteFile(source, []byte("content"), 0644))

	// target -> hop -> source still resolves to the source.
	hop := filepath.Join(dir, "hop")
	require.NoError(t, os.Symlink(source, hop))
	target := filepath.Join(dir, "target")
	require.NoError(t, os.Symlink(hop, target))

	assert.Equal(t, StateCorrectLink, Classify(source, target))
}

func TestStateDeployed(t *testing.T) {
	assert.True(t, StateSameFile.Deployed())
	assert.True(t, StateCorrectLink.Deployed())
	assert.False(t, StateAbsent.Deployed())
	assert.False(t, StateWrongLink.Deployed())
	assert.False(t, StateForeignFile.Deployed())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "absent", StateAbsent.String())
	assert.Equal(t, "linked", StateCorrectLink.String())
	assert.Equal(t, "wrong link", StateWrongLink.String())
	assert.Equal(t, "foreign file", StateForeignFile.String())
	assert.Equal(t, "same file", StateSameFile.String())
}
