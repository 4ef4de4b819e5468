// Package ohmyzsh installs the oh-my-zsh shell framework and keeps its
// plugin set reconciled. The installed check is shallow (framework marker
// only); Status does the deeper per-plugin check.
package ohmyzsh

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/example/devsetup/pkg/config"
	"github.com/example/devsetup/pkg/errors"
	"github.com/example/devsetup/pkg/execx"
	"github.com/example/devsetup/pkg/installer"
	"github.com/example/devsetup/pkg/logging"
	"github.com/example/devsetup/pkg/paths"
	"github.com/example/devsetup/pkg/style"
)

// ComponentName identifies this installer.
const ComponentName = "oh-my-zsh"

// installScriptURL is the upstream bootstrap script.
const installScriptURL = "https://raw.githubusercontent.com/ohmyzsh/ohmyzsh/master/tools/install.sh"

// markerFile is the file whose presence means the framework is installed.
const markerFile = "oh-my-zsh.sh"

// Installer installs oh-my-zsh and its plugins.
type Installer struct {
	runner       execx.Runner
	frameworkDir string
	pluginsDir   string
	plugins      []config.ZshPluginSpec
	logger       zerolog.Logger
}

// New builds the installer from configuration.
func New(r execx.Runner, p *paths.Paths, cfg *config.Config) *Installer {
	return &Installer{
		runner:       r,
		frameworkDir: p.OhMyZshDir(),
		pluginsDir:   p.OhMyZshPluginsDir(),
		plugins:      cfg.ZshPlugins,
		logger:       logging.GetLogger(ComponentName),
	}
}

func (i *Installer) Name() string { return ComponentName }

func (i *Installer) Description() string {
	return "Oh My Zsh framework with syntax highlighting and autosuggestions (requires zsh)"
}

// IsInstalled checks the framework marker only. Plugins are deliberately
// not verified here; Status reports them individually.
func (i *Installer) IsInstalled() bool {
	_, err := os.Stat(filepath.Join(i.frameworkDir, markerFile))
	return err == nil
}

// checkPrerequisites returns one entry per missing external tool.
func (i *Installer) checkPrerequisites() []string {
	var issues []string

	if !execx.CommandExists(i.runner, "zsh") {
		issues = append(issues, "zsh is not installed")
	}
	if !execx.CommandExists(i.runner, "curl") && !execx.CommandExists(i.runner, "wget") {
		issues = append(issues, "Neither curl nor wget is available for downloading")
	}
	if !execx.CommandExists(i.runner, "git") {
		issues = append(issues, "git is not installed")
	}

	return issues
}

// Install bootstraps the framework if absent and reconciles the plugin
// list. Missing prerequisites abort with an enumerated list; a single
// plugin failure is logged and skipped.
func (i *Installer) Install(ctx context.Context) error {
	if issues := i.checkPrerequisites(); len(issues) > 0 {
		for _, issue := range issues {
			i.logger.Error().Str("issue", issue).Msg("Prerequisite not met")
		}
		i.logger.Info().Msg("Install missing dependencies first:")
		i.logger.Info().Msg("  Ubuntu/Debian: sudo apt install zsh curl git")
		i.logger.Info().Msg("  CentOS/RHEL:   sudo yum install zsh curl git")
		i.logger.Info().Msg("  macOS:         brew install zsh curl git")
		return errors.Newf(errors.ErrPrerequisiteMissing,
			"prerequisites not met: %s", strings.Join(issues, "; ")).
			WithDetail("issues", issues)
	}

	if !i.IsInstalled() {
		i.logger.Info().Msg("Installing Oh My Zsh...")
		if err := i.installFramework(ctx); err != nil {
			return err
		}
	} else {
		i.logger.Info().Msg("Oh My Zsh already installed")
	}

	i.logger.Info().Msg("Installing Oh My Zsh plugins...")
	i.reconcilePlugins(ctx)

	i.suggestDefaultShell(ctx)
	return nil
}

// installFramework downloads and runs the upstream installer unattended.
func (i *Installer) installFramework(ctx context.Context) error {
	script := fmt.Sprintf(`sh -c "$(curl -fsSL %s)" "" --unattended`, installScriptURL)
	if _, err := i.runner.Run(ctx, execx.Command{Name: script, Shell: true, Check: true}); err != nil {
		return errors.Wrap(err, errors.ErrInstallFailed, "oh-my-zsh install script failed")
	}
	if !i.IsInstalled() {
		return errors.New(errors.ErrInstallFailed,
			"oh-my-zsh install script finished but the framework marker is missing")
	}
	return nil
}

// reconcilePlugins clones missing plugins and refreshes present ones. A
// failing plugin is skipped, never fatal to the install.
func (i *Installer) reconcilePlugins(ctx context.Context) {
	if err := os.MkdirAll(i.pluginsDir, 0755); err != nil {
		i.logger.Error().Err(err).Str("dir", i.pluginsDir).Msg("Cannot create plugins directory")
		return
	}

	for _, plugin := range i.plugins {
		pluginDir := filepath.Join(i.pluginsDir, plugin.Name)

		if _, err := os.Stat(pluginDir); err == nil {
			i.logger.Info().Str("plugin", plugin.Name).Msg("Plugin already installed, updating")
			if _, err := i.runner.Run(ctx, execx.Command{
				Name: "git", Args: []string{"pull"}, Dir: pluginDir, Check: true,
			}); err != nil {
				i.logger.Warn().Err(err).Str("plugin", plugin.Name).Msg("Plugin update failed, skipping")
			}
			continue
		}

		i.logger.Info().Str("plugin", plugin.Name).Msg("Installing plugin")
		if _, err := i.runner.Run(ctx, execx.Command{
			Name: "git", Args: []string{"clone", plugin.URL, pluginDir}, Check: true,
		}); err != nil {
			i.logger.Warn().Err(err).Str("plugin", plugin.Name).Msg("Plugin clone failed, skipping")
		}
	}
}

// suggestDefaultShell prints chsh advice when zsh is not the login shell.
// Advice only; devsetup never changes the shell itself during install.
func (i *Installer) suggestDefaultShell(ctx context.Context) {
	if strings.Contains(os.Getenv("SHELL"), "zsh") {
		i.logger.Info().Msg("zsh is already the default shell")
		return
	}

	zshPath, err := i.runner.LookPath("zsh")
	if err != nil {
		zshPath = "$(which zsh)"
	}
	i.logger.Info().Msg("To set zsh as your default shell, run:")
	i.logger.Info().Msgf("  chsh -s %s", zshPath)
	i.logger.Info().Msg("Then log out and log back in for the change to take effect")
}

// Update refreshes the framework itself and its plugins.
func (i *Installer) Update(ctx context.Context) error {
	if !i.IsInstalled() {
		i.logger.Info().Msg("Oh My Zsh is not installed, nothing to update")
		return nil
	}

	i.logger.Info().Msg("Updating Oh My Zsh...")
	if _, err := i.runner.Run(ctx, execx.Command{
		Name: "git", Args: []string{"pull"}, Dir: i.frameworkDir, Check: true,
	}); err != nil {
		return errors.Wrap(err, errors.ErrCommandFailed, "failed to update oh-my-zsh")
	}

	i.reconcilePlugins(ctx)
	return nil
}

// Uninstall removes the framework directory and tries to restore bash as
// the login shell. The chsh step is best-effort.
func (i *Installer) Uninstall(ctx context.Context) error {
	if _, err := os.Stat(i.frameworkDir); err == nil {
		i.logger.Info().Str("dir", i.frameworkDir).Msg("Removing Oh My Zsh directory")
		if err := os.RemoveAll(i.frameworkDir); err != nil {
			return errors.Wrap(err, errors.ErrFileAccess, "failed to remove oh-my-zsh directory")
		}
	}

	if _, err := i.runner.Run(ctx, execx.Command{
		Name: "chsh", Args: []string{"-s", "/bin/bash"},
	}); err != nil {
		i.logger.Debug().Err(err).Msg("Could not restore bash as login shell")
	}

	return nil
}

// Status reports the framework marker, each plugin and the current shell.
func (i *Installer) Status(ctx context.Context) string {
	var b strings.Builder
	b.WriteString(style.Header("Oh My Zsh") + "\n")

	if i.IsInstalled() {
		fmt.Fprintf(&b, "  %s framework: installed at %s\n", style.Glyph(style.StatusOK), i.frameworkDir)
	} else {
		fmt.Fprintf(&b, "  %s framework: not installed\n", style.Glyph(style.StatusMissing))
	}

	for _, plugin := range i.plugins {
		pluginDir := filepath.Join(i.pluginsDir, plugin.Name)
		if _, err := os.Stat(pluginDir); err == nil {
			fmt.Fprintf(&b, "  %s plugin %s\n", style.Glyph(style.StatusOK), plugin.Name)
		} else {
			fmt.Fprintf(&b, "  %s plugin %s\n", style.Glyph(style.StatusMissing), plugin.Name)
		}
	}

	shell := os.Getenv("SHELL")
	if strings.Contains(shell, "zsh") {
		fmt.Fprintf(&b, "  %s default shell: %s\n", style.Glyph(style.StatusOK), shell)
	} else {
		fmt.Fprintf(&b, "  %s default shell: %s\n", style.Glyph(style.StatusWarn), shell)
	}

	return b.String()
}

// Verify interface compliance
var (
	_ installer.Installer   = (*Installer)(nil)
	_ installer.Updater     = (*Installer)(nil)
	_ installer.Uninstaller = (*Installer)(nil)
)
