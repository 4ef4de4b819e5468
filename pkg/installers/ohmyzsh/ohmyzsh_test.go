package ohmyzsh

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/devsetup/pkg/config"
	"github.com/example/devsetup/pkg/errors"
	"github.com/example/devsetup/pkg/execx"
	"github.com/example/devsetup/pkg/paths"
)

func newTestInstaller(t *testing.T, plugins []config.ZshPluginSpec) (*Installer, *execx.MockRunner) {
	t.Helper()
	home := t.TempDir()

	p, err := paths.New(paths.WithHome(home), paths.WithRepoRoot(t.TempDir()))
	require.NoError(t, err)

	runner := execx.NewMockRunner()
	inst := New(runner, p, &config.Config{ZshPlugins: plugins})
	return inst, runner
}

// writeMarker makes the framework look installed.
func writeMarker(t *testing.T, inst *Installer) {
	t.Helper()
	require.NoError(t, os.MkdirAll(inst.frameworkDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(inst.frameworkDir, markerFile), []byte("# omz"), 0644))
}

func allToolsPresent(runner *execx.MockRunner) {
	runner.AddPath("zsh", "/usr/bin/zsh")
	runner.AddPath("curl", "/usr/bin/curl")
	runner.AddPath("git", "/usr/bin/git")
}

func TestIsInstalled(t *testing.T) {
	inst, _ := newTestInstaller(t, nil)
	assert.False(t, inst.IsInstalled())

	writeMarker(t, inst)
	assert.True(t, inst.IsInstalled())
}

func TestInstallEnumeratesMissingPrerequisites(t *testing.T) {
	inst, _ := newTestInstaller(t, nil)

	err := inst.Install(context.Background())

	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrPrerequisiteMissing))
	assert.Contains(t, err.Error(), "zsh is not installed")
	assert.Contains(t, err.Error(), "Neither curl nor wget")
	assert.Contains(t, err.Error(), "git is not installed")
}

func TestInstallAcceptsWgetWithoutCurl(t *testing.T) {
	inst, runner := newTestInstaller(t, nil)
	writeMarker(t, inst)
	runner.AddPath("zsh", "/usr/bin/zsh")
	runner.AddPath("wget", "/usr/bin/wget")
	runner.AddPath("git", "/usr/bin/git")

	assert.NoError(t, inst.Install(context.Background()))
}

func TestInstallRunsBootstrapScript(t *testing.T) {
	inst, runner := newTestInstaller(t, nil)
	allToolsPresent(runner)

	// The mocked script succeeds but never creates the marker, so the
	// post-install verification must fail.
	err := inst.Install(context.Background())

	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInstallFailed))

	require.Len(t, runner.Calls, 1)
	script := runner.Calls[0]
	assert.True(t, script.Shell)
	assert.Contains(t, script.Name, installScriptURL)
	assert.Contains(t, script.Name, "--unattended")
}

func TestInstallSkipsBootstrapWhenMarkerPresent(t *testing.T) {
	inst, runner := newTestInstaller(t, nil)
	writeMarker(t, inst)
	allToolsPresent(runner)

	require.NoError(t, inst.Install(context.Background()))

	for _, call := range runner.Calls {
		assert.NotContains(t, call.Name, installScriptURL)
	}
}

func TestInstallClonesMissingAndUpdatesPresentPlugins(t *testing.T) {
	plugins := []config.ZshPluginSpec{
		{Name: "existing-plugin", URL: "https://example.com/existing.git"},
		{Name: "new-plugin", URL: "https://example.com/new.git"},
	}
	inst, runner := newTestInstaller(t, plugins)
	writeMarker(t, inst)
	allToolsPresent(runner)

	existingDir := filepath.Join(inst.pluginsDir, "existing-plugin")
	require.NoError(t, os.MkdirAll(existingDir, 0755))

	require.NoError(t, inst.Install(context.Background()))

	var pulls, clones []execx.Command
	for _, call := range runner.Calls {
		if call.Name != "git" {
			continue
		}
		switch call.Args[0] {
		case "pull":
			pulls = append(pulls, call)
		case "clone":
			clones = append(clones, call)
		}
	}

	require.Len(t, pulls, 1)
	assert.Equal(t, existingDir, pulls[0].Dir)

	require.Len(t, clones, 1)
	assert.Equal(t, "https://example.com/new.git", clones[0].Args[1])
	assert.Equal(t, filepath.Join(inst.pluginsDir, "new-plugin"), clones[0].Args[2])
}

func TestInstallSurvivesPluginFailure(t *testing.T) {
	plugins := []config.ZshPluginSpec{
		{Name: "broken-plugin", URL: "https://example.com/broken.git"},
	}
	inst, runner := newTestInstaller(t, plugins)
	writeMarker(t, inst)
	allToolsPresent(runner)
	runner.AddResponse("git", execx.MockResponse{ExitCode: 128, Stderr: "fatal: repository not found"})

	// A failing plugin clone is logged and skipped, never fatal.
	assert.NoError(t, inst.Install(context.Background()))
}

func TestUpdateWhenNotInstalled(t *testing.T) {
	inst, runner := newTestInstaller(t, nil)

	require.NoError(t, inst.Update(context.Background()))
	assert.Empty(t, runner.Calls)
}

func TestUpdatePullsFrameworkAndPlugins(t *testing.T) {
	plugins := []config.ZshPluginSpec{
		{Name: "existing-plugin", URL: "https://example.com/existing.git"},
	}
	inst, runner := newTestInstaller(t, plugins)
	writeMarker(t, inst)

	existingDir := filepath.Join(inst.pluginsDir, "existing-plugin")
	require.NoError(t, os.MkdirAll(existingDir, 0755))

	require.NoError(t, inst.Update(context.Background()))

	var pullDirs []string
	for _, call := range runner.Calls {
		if call.Name == "git" && call.Args[0] == "pull" {
			pullDirs = append(pullDirs, call.Dir)
		}
	}
	assert.Equal(t, []string{inst.frameworkDir, existingDir}, pullDirs)
}

func TestUninstallRemovesFrameworkDir(t *testing.T) {
	inst, runner := newTestInstaller(t, nil)
	writeMarker(t, inst)

	require.NoError(t, inst.Uninstall(context.Background()))

	_, err := os.Stat(inst.frameworkDir)
	assert.True(t, os.IsNotExist(err))

	// Restoring bash is attempted but failures are tolerated.
	require.Len(t, runner.Calls, 1)
	assert.Equal(t, "chsh", runner.Calls[0].Name)
	assert.Equal(t, []string{"-s", "/bin/bash"}, runner.Calls[0].Args)
}

func TestStatusReportsFrameworkAndPlugins(t *testing.T) {
	plugins := []config.ZshPluginSpec{
		{Name: "present-plugin", URL: "https://example.com/p.git"},
		{Name: "absent-plugin", URL: "https://example.com/a.git"},
	}
	inst, _ := newTestInstaller(t, plugins)
	writeMarker(t, inst)
	require.NoError(t, os.MkdirAll(filepath.Join(inst.pluginsDir, "present-plugin"), 0755))

	out := inst.Status(context.Background())

	assert.Contains(t, out, "framework: installed")
	assert.Contains(t, out, "present-plugin")
	assert.Contains(t, out, "absent-plugin")
	assert.True(t, strings.Contains(out, "default shell"))
}
