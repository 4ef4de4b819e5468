// Package manager orchestrates the fixed set of component installers:
// ordered installation, per-component dispatch and result aggregation.
// Components are a closed enumeration, so an unknown name is a user error
// caught here rather than a silent registration failure.
package manager

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/rs/zerolog"

	"github.com/example/devsetup/pkg/config"
	"github.com/example/devsetup/pkg/errors"
	"github.com/example/devsetup/pkg/execx"
	"github.com/example/devsetup/pkg/installer"
	"github.com/example/devsetup/pkg/installers/claude"
	"github.com/example/devsetup/pkg/installers/dotfiles"
	"github.com/example/devsetup/pkg/installers/ohmyzsh"
	"github.com/example/devsetup/pkg/logging"
	"github.com/example/devsetup/pkg/paths"
	"github.com/example/devsetup/pkg/style"
)

// Component identifies one installable unit.
type Component string

const (
	ComponentOhMyZsh  Component = ohmyzsh.ComponentName
	ComponentClaude   Component = claude.ComponentName
	ComponentDotfiles Component = dotfiles.ComponentName
)

// InstallOrder is the dependency-driven installation order: the shell
// framework first, then the assistant, then the dotfiles that reference
// both.
var InstallOrder = []Component{ComponentOhMyZsh, ComponentClaude, ComponentDotfiles}

// Parse validates a user-supplied component name.
func Parse(name string) (Component, error) {
	switch Component(name) {
	case ComponentOhMyZsh, ComponentClaude, ComponentDotfiles:
		return Component(name), nil
	}
	return "", errors.Newf(errors.ErrInvalidInput, "unknown component: %s", name)
}

// Manager dispatches operations to the fixed set of installers.
type Manager struct {
	ohmyzsh  installer.Installer
	claude   installer.Installer
	dotfiles installer.Installer

	// Confirm asks the user whether to continue after a failure. It is a
	// field so tests can script answers.
	Confirm func(message string) bool

	logger zerolog.Logger
}

// New wires the three installers from shared configuration.
func New(r execx.Runner, p *paths.Paths, cfg *config.Config) *Manager {
	return NewFromInstallers(
		ohmyzsh.New(r, p, cfg),
		claude.New(r, cfg),
		dotfiles.New(p, cfg),
	)
}

// NewFromInstallers wires explicit installers, used by tests.
func NewFromInstallers(omz, cc, df installer.Installer) *Manager {
	return &Manager{
		ohmyzsh:  omz,
		claude:   cc,
		dotfiles: df,
		Confirm:  askConfirm,
		logger:   logging.GetLogger("manager"),
	}
}

// Installer returns the installer for a component.
func (m *Manager) Installer(c Component) installer.Installer {
	switch c {
	case ComponentOhMyZsh:
		return m.ohmyzsh
	case ComponentClaude:
		return m.claude
	case ComponentDotfiles:
		return m.dotfiles
	}
	return nil
}

// Install installs one component. Installing an already-installed
// component is a reported no-op, never destructive.
func (m *Manager) Install(ctx context.Context, c Component) error {
	inst := m.Installer(c)
	m.logger.Info().Str("component", string(c)).Msg("Installing component")

	if inst.IsInstalled() {
		m.logger.Info().Str("component", string(c)).Msg("Component is already installed")
		return nil
	}
	if err := inst.Install(ctx); err != nil {
		m.logger.Error().Err(err).Str("component", string(c)).Msg("Install failed")
		return err
	}
	return nil
}

// InstallAll installs every component in order. After a failure the user is
// prompted to continue unless assumeYes is set. The returned results hold
// one entry per attempted component; overall success requires all of them
// to have succeeded.
func (m *Manager) InstallAll(ctx context.Context, assumeYes bool) []installer.Result {
	var results []installer.Result

	for _, c := range InstallOrder {
		err := m.Install(ctx, c)
		results = append(results, installer.Result{Component: string(c), Err: err})

		if err != nil && !assumeYes {
			if !m.Confirm(fmt.Sprintf("Failed to install %s", c)) {
				break
			}
		}
	}

	return results
}

// Update brings one component to its latest state, falling back to install
// for components without a specialized update path.
func (m *Manager) Update(ctx context.Context, c Component) error {
	m.logger.Info().Str("component", string(c)).Msg("Updating component")
	if err := installer.Update(ctx, m.Installer(c)); err != nil {
		m.logger.Error().Err(err).Str("component", string(c)).Msg("Update failed")
		return err
	}
	return nil
}

// Uninstall removes one component where supported.
func (m *Manager) Uninstall(ctx context.Context, c Component) error {
	m.logger.Info().Str("component", string(c)).Msg("Uninstalling component")
	if err := installer.Uninstall(ctx, m.Installer(c)); err != nil {
		m.logger.Error().Err(err).Str("component", string(c)).Msg("Uninstall failed")
		return err
	}
	return nil
}

// List writes the component table with installed markers.
func (m *Manager) List(w io.Writer) {
	fmt.Fprintln(w, style.Header("Available components"))
	for _, c := range InstallOrder {
		inst := m.Installer(c)
		glyph := style.Glyph(style.StatusMissing)
		if inst.IsInstalled() {
			glyph = style.Glyph(style.StatusOK)
		}
		fmt.Fprintf(w, "  %s %s: %s\n", glyph, style.Bold(inst.Name()), inst.Description())
	}
}

// Status returns the detailed report for one component.
func (m *Manager) Status(ctx context.Context, c Component) string {
	return m.Installer(c).Status(ctx)
}

// StatusAll concatenates every component's report in install order.
func (m *Manager) StatusAll(ctx context.Context) string {
	var b strings.Builder
	for _, c := range InstallOrder {
		b.WriteString(m.Status(ctx, c))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}

// AllOk reports whether every result succeeded. Partial success counts as
// overall failure.
func AllOk(results []installer.Result) bool {
	for _, r := range results {
		if !r.Ok() {
			return false
		}
	}
	return len(results) > 0
}

// askConfirm prompts on the terminal and defaults to no.
func askConfirm(message string) bool {
	fmt.Print(color.YellowString("%s. Continue? (y/N): ", message))
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
