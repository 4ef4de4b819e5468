// Package installer defines the contract shared by all component
// installers. Variants implement Installer; optional capabilities are
// expressed as separate interfaces so the manager can fall back to default
// behavior instead of relying on inheritance.
package installer

import (
	"context"

	"github.com/example/devsetup/pkg/errors"
	"github.com/example/devsetup/pkg/logging"
)

// Installer is the reconciliation contract every component implements.
type Installer interface {
	// Name is the component's unique identifier.
	Name() string

	// Description is a one-line human-readable summary.
	Description() string

	// IsInstalled reports whether the component is already in the desired
	// state. It never mutates state and never fails; internal errors are
	// treated as "not installed".
	IsInstalled() bool

	// Install brings the component to the desired state. It is safe to
	// call when already installed and safe to call on a clean machine.
	Install(ctx context.Context) error

	// Status returns a multi-line human-oriented report.
	Status(ctx context.Context) string
}

// Updater is implemented by installers with a specialized update path.
type Updater interface {
	Update(ctx context.Context) error
}

// Uninstaller is implemented by installers that support removal.
type Uninstaller interface {
	Uninstall(ctx context.Context) error
}

// Update brings an installer to its latest state. Installers without a
// specialized update path are re-installed, which every Install is required
// to tolerate.
func Update(ctx context.Context, inst Installer) error {
	if u, ok := inst.(Updater); ok {
		return u.Update(ctx)
	}
	logger := logging.GetLogger("installer")
	logger.Debug().
		Str("component", inst.Name()).
		Msg("No specialized update, re-running install")
	return inst.Install(ctx)
}

// Uninstall removes an installer's component. Absence of an uninstall path
// is reported, not fatal.
func Uninstall(ctx context.Context, inst Installer) error {
	if u, ok := inst.(Uninstaller); ok {
		return u.Uninstall(ctx)
	}
	return errors.Newf(errors.ErrNotImplemented,
		"uninstall is not supported for %s", inst.Name())
}

// Result is the outcome of one component operation, aggregated by the
// manager.
type Result struct {
	Component string
	Err       error
}

// Ok reports whether the operation succeeded.
func (r Result) Ok() bool { return r.Err == nil }
