// Package claude installs the Claude Code CLI and registers its MCP
// plugins. Plugin presence is checked by substring search in the output of
// `claude mcp list`; that is best-effort by design, matching what the tool
// itself exposes.
package claude

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/example/devsetup/pkg/config"
	"github.com/example/devsetup/pkg/errors"
	"github.com/example/devsetup/pkg/execx"
	"github.com/example/devsetup/pkg/installer"
	"github.com/example/devsetup/pkg/logging"
	"github.com/example/devsetup/pkg/style"
)

// ComponentName identifies this installer.
const ComponentName = "claude-code"

// npmPackage is the global npm package providing the claude binary.
const npmPackage = "@anthropics/claude-code"

// fallbackInstall is used when the npm install does not yield a working
// binary.
const fallbackInstall = "curl -fsSL https://claude.ai/install.sh | sh"

// Installer installs Claude Code and its MCP plugins.
type Installer struct {
	runner  execx.Runner
	plugins []config.MCPPluginSpec
	logger  zerolog.Logger
}

// New builds the installer from configuration.
func New(r execx.Runner, cfg *config.Config) *Installer {
	return &Installer{
		runner:  r,
		plugins: cfg.MCPPlugins,
		logger:  logging.GetLogger(ComponentName),
	}
}

func (i *Installer) Name() string { return ComponentName }

func (i *Installer) Description() string {
	return "Claude Code CLI with MCP plugins (requires Node.js/npm)"
}

// IsInstalled reports whether the claude binary is present and answers
// --version. Plugins are not verified here; Status reports them.
func (i *Installer) IsInstalled() bool {
	if !execx.CommandExists(i.runner, "claude") {
		return false
	}
	res, err := i.runner.Run(context.Background(), execx.Command{
		Name: "claude", Args: []string{"--version"},
	})
	return err == nil && res.Ok()
}

// checkPrerequisites returns one entry per missing external tool.
func (i *Installer) checkPrerequisites() []string {
	var issues []string

	if !execx.CommandExists(i.runner, "node") {
		issues = append(issues, "Node.js is not installed")
	}
	if !execx.CommandExists(i.runner, "npm") {
		issues = append(issues, "npm is not installed")
	}

	return issues
}

// Install installs the CLI if absent and registers every configured MCP
// plugin. Missing prerequisites abort with an enumerated list; a failing
// plugin registration is logged and skipped.
func (i *Installer) Install(ctx context.Context) error {
	if issues := i.checkPrerequisites(); len(issues) > 0 {
		for _, issue := range issues {
			i.logger.Error().Str("issue", issue).Msg("Prerequisite not met")
		}
		i.logger.Info().Msg("Install Node.js and npm first:")
		i.logger.Info().Msg("  Ubuntu/Debian: sudo apt install nodejs npm")
		i.logger.Info().Msg("  CentOS/RHEL:   sudo yum install nodejs npm")
		i.logger.Info().Msg("  macOS:         brew install node")
		return errors.Newf(errors.ErrPrerequisiteMissing,
			"prerequisites not met: %s", strings.Join(issues, "; ")).
			WithDetail("issues", issues)
	}

	if !execx.CommandExists(i.runner, "claude") {
		i.logger.Info().Msg("Installing Claude Code...")
		if err := i.installCLI(ctx); err != nil {
			return err
		}
	} else {
		i.logger.Info().Msg("Claude Code already installed")
	}

	i.logger.Info().Msg("Installing MCP plugins...")
	i.registerPlugins(ctx)
	return nil
}

// installCLI installs via npm, verifying with --version and falling back to
// the upstream install script when the npm route does not produce a
// working binary.
func (i *Installer) installCLI(ctx context.Context) error {
	if _, err := i.runner.Run(ctx, execx.Command{
		Name: "npm", Args: []string{"install", "-g", npmPackage}, Check: true,
	}); err != nil {
		i.logger.Warn().Err(err).Msg("npm install failed")
	}

	res, err := i.runner.Run(ctx, execx.Command{Name: "claude", Args: []string{"--version"}})
	if err == nil && res.Ok() {
		return nil
	}

	i.logger.Info().Msg("npm installation did not produce a working binary, trying the install script")
	if _, err := i.runner.Run(ctx, execx.Command{Name: fallbackInstall, Shell: true, Check: true}); err != nil {
		return errors.Wrap(err, errors.ErrInstallFailed, "claude-code install script failed")
	}
	return nil
}

// registerPlugins runs each plugin's registration command. Failures are
// logged and skipped so one broken plugin never fails the install.
func (i *Installer) registerPlugins(ctx context.Context) {
	for _, plugin := range i.plugins {
		if len(plugin.Command) == 0 {
			i.logger.Warn().Str("plugin", plugin.Name).Msg("Plugin has no registration command, skipping")
			continue
		}

		i.logger.Info().Str("plugin", plugin.Name).Msg("Registering MCP plugin")
		if _, err := i.runner.Run(ctx, execx.Command{
			Name:  plugin.Command[0],
			Args:  plugin.Command[1:],
			Check: true,
		}); err != nil {
			i.logger.Warn().Err(err).Str("plugin", plugin.Name).Msg("Failed to register MCP plugin, skipping")
		}
	}
}

// PluginStatus reports which MCP plugins appear in `claude mcp list`. When
// the listing fails, every plugin is reported as absent.
func (i *Installer) PluginStatus(ctx context.Context) map[string]bool {
	status := make(map[string]bool, len(i.plugins))
	for _, plugin := range i.plugins {
		status[plugin.Name] = false
	}

	res, err := i.runner.Run(ctx, execx.Command{Name: "claude", Args: []string{"mcp", "list"}})
	if err != nil || !res.Ok() {
		return status
	}

	for _, plugin := range i.plugins {
		status[plugin.Name] = strings.Contains(res.Stdout, plugin.Name)
	}
	return status
}

// Update updates the CLI via npm and re-registers the plugins.
func (i *Installer) Update(ctx context.Context) error {
	i.logger.Info().Msg("Updating Claude Code...")
	if _, err := i.runner.Run(ctx, execx.Command{
		Name: "npm", Args: []string{"update", "-g", npmPackage}, Check: true,
	}); err != nil {
		return errors.Wrap(err, errors.ErrCommandFailed, "failed to update claude-code")
	}

	i.registerPlugins(ctx)
	return nil
}

// Uninstall removes the npm package. The MCP plugin ecosystem has no safe
// rollback, so plugins are left as they are.
func (i *Installer) Uninstall(ctx context.Context) error {
	i.logger.Info().Msg("Uninstalling Claude Code...")
	if _, err := i.runner.Run(ctx, execx.Command{
		Name: "npm", Args: []string{"uninstall", "-g", npmPackage},
	}); err != nil {
		return errors.Wrap(err, errors.ErrCommandFailed, "failed to uninstall claude-code")
	}
	return nil
}

// Status reports toolchain versions, the CLI itself and each MCP plugin.
func (i *Installer) Status(ctx context.Context) string {
	var b strings.Builder
	b.WriteString(style.Header("Claude Code") + "\n")

	for _, tool := range []string{"node", "npm"} {
		res, err := i.runner.Run(ctx, execx.Command{Name: tool, Args: []string{"--version"}})
		if err == nil && res.Ok() {
			fmt.Fprintf(&b, "  %s %s: %s\n", style.Glyph(style.StatusOK), tool, strings.TrimSpace(res.Stdout))
		} else {
			fmt.Fprintf(&b, "  %s %s: not found\n", style.Glyph(style.StatusMissing), tool)
		}
	}

	if i.IsInstalled() {
		fmt.Fprintf(&b, "  %s claude\n", style.Glyph(style.StatusOK))
	} else {
		fmt.Fprintf(&b, "  %s claude\n", style.Glyph(style.StatusMissing))
	}

	pluginStatus := i.PluginStatus(ctx)
	for _, plugin := range i.plugins {
		if pluginStatus[plugin.Name] {
			fmt.Fprintf(&b, "  %s mcp plugin %s\n", style.Glyph(style.StatusOK), plugin.Name)
		} else {
			fmt.Fprintf(&b, "  %s mcp plugin %s\n", style.Glyph(style.StatusMissing), plugin.Name)
		}
	}

	return b.String()
}

// Verify interface compliance
var (
	_ installer.Installer   = (*Installer)(nil)
	_ installer.Updater     = (*Installer)(nil)
	_ installer.Uninstaller = (*Installer)(nil)
)
