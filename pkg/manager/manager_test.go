package manager

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/devsetup/pkg/errors"
	"github.com/example/devsetup/pkg/installer"
)

// fakeInstaller scripts Installer behavior and records invocations.
type fakeInstaller struct {
	name       string
	installed  bool
	installErr error

	installCalls int
}

func (f *fakeInstaller) Name() string        { return f.name }
func (f *fakeInstaller) Description() string { return f.name + " component" }
func (f *fakeInstaller) IsInstalled() bool   { return f.installed }
func (f *fakeInstaller) Install(ctx context.Context) error {
	f.installCalls++
	return f.installErr
}
func (f *fakeInstaller) Status(ctx context.Context) string {
	return f.name + ": status\n"
}

// updatableInstaller additionally implements the update capability.
type updatableInstaller struct {
	fakeInstaller
	updateCalls int
}

func (u *updatableInstaller) Update(ctx context.Context) error {
	u.updateCalls++
	return nil
}

// removableInstaller additionally implements the uninstall capability.
type removableInstaller struct {
	fakeInstaller
	uninstallCalls int
}

func (r *removableInstaller) Uninstall(ctx context.Context) error {
	r.uninstallCalls++
	return nil
}

func newTestManager() (*Manager, *fakeInstaller, *fakeInstaller, *fakeInstaller) {
	omz := &fakeInstaller{name: string(ComponentOhMyZsh)}
	cc := &fakeInstaller{name: string(ComponentClaude)}
	df := &fakeInstaller{name: string(ComponentDotfiles)}
	m := NewFromInstallers(omz, cc, df)
	m.Confirm = func(string) bool { return false }
	return m, omz, cc, df
}

func TestParse(t *testing.T) {
	for _, name := range []string{"oh-my-zsh", "claude-code", "dotfiles"} {
		c, err := Parse(name)
		require.NoError(t, err)
		assert.Equal(t, Component(name), c)
	}

	_, err := Parse("nonsense")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestInstallSkipsAlreadyInstalled(t *testing.T) {
	m, omz, _, _ := newTestManager()
	omz.installed = true

	require.NoError(t, m.Install(context.Background(), ComponentOhMyZsh))
	assert.Zero(t, omz.installCalls)
}

func TestInstallRunsInstaller(t *testing.T) {
	m, omz, _, _ := newTestManager()

	require.NoError(t, m.Install(context.Background(), ComponentOhMyZsh))
	assert.Equal(t, 1, omz.installCalls)
}

func TestInstallPropagatesError(t *testing.T) {
	m, omz, _, _ := newTestManager()
	omz.installErr = errors.New(errors.ErrInstallFailed, "boom")

	err := m.Install(context.Background(), ComponentOhMyZsh)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInstallFailed))
}

func TestInstallAllRunsInOrder(t *testing.T) {
	m, omz, cc, df := newTestManager()

	results := m.InstallAll(context.Background(), false)

	require.Len(t, results, 3)
	assert.Equal(t, string(ComponentOhMyZsh), results[0].Component)
	assert.Equal(t, string(ComponentClaude), results[1].Component)
	assert.Equal(t, string(ComponentDotfiles), results[2].Component)
	assert.Equal(t, 1, omz.installCalls)
	assert.Equal(t, 1, cc.installCalls)
	assert.Equal(t, 1, df.installCalls)
	assert.True(t, AllOk(results))
}

func TestInstallAllStopsWhenConfirmDeclines(t *testing.T) {
	m, omz, cc, df := newTestManager()
	omz.installErr = errors.New(errors.ErrInstallFailed, "boom")

	var prompted []string
	m.Confirm = func(msg string) bool {
		prompted = append(prompted, msg)
		return false
	}

	results := m.InstallAll(context.Background(), false)

	require.Len(t, results, 1)
	assert.False(t, AllOk(results))
	assert.Equal(t, []string{"Failed to install oh-my-zsh"}, prompted)
	assert.Zero(t, cc.installCalls)
	assert.Zero(t, df.installCalls)
}

func TestInstallAllContinuesWhenConfirmAccepts(t *testing.T) {
	m, omz, cc, df := newTestManager()
	omz.installErr = errors.New(errors.ErrInstallFailed, "boom")
	m.Confirm = func(string) bool { return true }

	results := m.InstallAll(context.Background(), false)

	require.Len(t, results, 3)
	assert.False(t, AllOk(results))
	assert.Equal(t, 1, cc.installCalls)
	assert.Equal(t, 1, df.installCalls)
}

func TestInstallAllAssumeYesNeverPrompts(t *testing.T) {
	m, omz, cc, df := newTestManager()
	omz.installErr = errors.New(errors.ErrInstallFailed, "boom")
	m.Confirm = func(string) bool {
		t.Fatal("must not prompt with assumeYes")
		return false
	}

	results := m.InstallAll(context.Background(), true)

	require.Len(t, results, 3)
	assert.Equal(t, 1, cc.installCalls)
	assert.Equal(t, 1, df.installCalls)
}

func TestUpdateUsesSpecializedPath(t *testing.T) {
	omz := &updatableInstaller{fakeInstaller: fakeInstaller{name: string(ComponentOhMyZsh)}}
	m := NewFromInstallers(omz,
		&fakeInstaller{name: string(ComponentClaude)},
		&fakeInstaller{name: string(ComponentDotfiles)})

	require.NoError(t, m.Update(context.Background(), ComponentOhMyZsh))
	assert.Equal(t, 1, omz.updateCalls)
	assert.Zero(t, omz.installCalls)
}

func TestUpdateFallsBackToInstall(t *testing.T) {
	m, _, _, df := newTestManager()

	require.NoError(t, m.Update(context.Background(), ComponentDotfiles))
	assert.Equal(t, 1, df.installCalls)
}

func TestUninstall(t *testing.T) {
	omz := &removableInstaller{fakeInstaller: fakeInstaller{name: string(ComponentOhMyZsh)}}
	m := NewFromInstallers(omz,
		&fakeInstaller{name: string(ComponentClaude)},
		&fakeInstaller{name: string(ComponentDotfiles)})

	require.NoError(t, m.Uninstall(context.Background(), ComponentOhMyZsh))
	assert.Equal(t, 1, omz.uninstallCalls)
}

func TestUninstallUnsupported(t *testing.T) {
	m, _, _, _ := newTestManager()

	err := m.Uninstall(context.Background(), ComponentClaude)

	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotImplemented))
}

func TestAllOk(t *testing.T) {
	assert.False(t, AllOk(nil), "empty results are not success")
	assert.True(t, AllOk([]installer.Result{{Component: "a"}}))
	assert.False(t, AllOk([]installer.Result{
		{Component: "a"},
		{Component: "b", Err: errors.New(errors.ErrInstallFailed, "boom")},
	}))
}

func TestList(t *testing.T) {
	m, omz, _, _ := newTestManager()
	omz.installed = true

	var b strings.Builder
	m.List(&b)

	out := b.String()
	assert.Contains(t, out, "oh-my-zsh")
	assert.Contains(t, out, "claude-code")
	assert.Contains(t, out, "dotfiles")
}

func TestStatusAll(t *testing.T) {
	m, _, _, _ := newTestManager()

	out := m.StatusAll(context.Background())

	assert.Contains(t, out, "oh-my-zsh: status")
	assert.Contains(t, out, "claude-code: status")
	assert.Contains(t, out, "dotfiles: status")
}
