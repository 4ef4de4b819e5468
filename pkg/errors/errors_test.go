package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(ErrPrerequisiteMissing, "zsh is not installed")

	assert.Equal(t, ErrPrerequisiteMissing, err.Code)
	assert.Equal(t, "[PREREQUISITE_MISSING] zsh is not installed", err.Error())
}

func TestNewf(t *testing.T) {
	err := Newf(ErrCommandFailed, "%q exited with status %d", "git pull", 128)

	assert.Equal(t, ErrCommandFailed, err.Code)
	assert.Contains(t, err.Error(), `"git pull" exited with status 128`)
}

func TestWrap(t *testing.T) {
	inner := fmt.Errorf("permission denied")
	err := Wrap(inner, ErrBackupFailed, "cannot back up .zshrc")

	require.NotNil(t, err)
	assert.Equal(t, ErrBackupFailed, err.Code)
	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "permission denied")
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrBackupFailed, "ignored"))
	assert.Nil(t, Wrapf(nil, ErrBackupFailed, "ignored %s", "too"))
}

func TestIs(t *testing.T) {
	err := New(ErrSourceMissing, "no source for .gitconfig")

	assert.True(t, stderrors.Is(err, New(ErrSourceMissing, "different message")))
	assert.False(t, stderrors.Is(err, New(ErrCommandFailed, "different code")))
}

func TestIsErrorCode(t *testing.T) {
	err := Wrapf(fmt.Errorf("exit 1"), ErrCommandFailed, "npm install failed")

	assert.True(t, IsErrorCode(err, ErrCommandFailed))
	assert.False(t, IsErrorCode(err, ErrRestoreFailed))
	assert.False(t, IsErrorCode(fmt.Errorf("plain"), ErrCommandFailed))
}

func TestGetErrorCode(t *testing.T) {
	assert.Equal(t, ErrRestoreFailed, GetErrorCode(New(ErrRestoreFailed, "x")))
	assert.Equal(t, ErrUnknown, GetErrorCode(fmt.Errorf("plain")))
}

func TestWithDetail(t *testing.T) {
	err := New(ErrPrerequisiteMissing, "prerequisites not met").
		WithDetail("issues", []string{"zsh is not installed", "git is not installed"})

	assert.Equal(t, []string{"zsh is not installed", "git is not installed"}, err.Details["issues"])
}

func TestWrappedCodeSurvivesFmtWrapping(t *testing.T) {
	err := New(ErrSymlinkCreate, "cannot link")
	outer := fmt.Errorf("deploy: %w", err)

	assert.True(t, IsErrorCode(outer, ErrSymlinkCreate))
}
