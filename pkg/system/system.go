// Package system gathers host information needed before installing
// anything: platform, distribution, package manager, connectivity and disk
// space. All probes are best-effort queries; none of them mutate state.
package system

import (
	"context"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/example/devsetup/pkg/execx"
	"github.com/example/devsetup/pkg/logging"
)

// pingTimeout bounds the connectivity probe; it is the only external
// command in devsetup that runs under a deadline.
const pingTimeout = 5 * time.Second

// minFreeSpaceBytes is the minimum free space required in home (1 GiB).
const minFreeSpaceBytes = 1 << 30

// connectivityHosts are pinged in order until one answers.
var connectivityHosts = []string{"8.8.8.8", "1.1.1.1"}

// packageManagerPaths maps known package managers to the paths they are
// probed at, in priority order.
var packageManagerPaths = map[string][]string{
	"apt-get": {"/usr/bin/apt-get", "/bin/apt-get"},
	"yum":     {"/usr/bin/yum", "/bin/yum"},
	"dnf":     {"/usr/bin/dnf", "/bin/dnf"},
	"pacman":  {"/usr/bin/pacman", "/bin/pacman"},
	"zypper":  {"/usr/bin/zypper", "/bin/zypper"},
	"brew":    {"/usr/local/bin/brew", "/opt/homebrew/bin/brew"},
}

// Info provides host information queries.
type Info struct {
	runner execx.Runner
	home   string

	// Probe locations, overridable in tests.
	procVersionPath string
	osReleasePath   string
	pkgManagerPaths map[string][]string
}

// Option customizes probe locations for tests.
type Option func(*Info)

// WithProcVersion overrides the /proc/version path.
func WithProcVersion(path string) Option {
	return func(i *Info) { i.procVersionPath = path }
}

// WithOSRelease overrides the /etc/os-release path.
func WithOSRelease(path string) Option {
	return func(i *Info) { i.osReleasePath = path }
}

// WithPackageManagerPaths overrides the package-manager probe table.
func WithPackageManagerPaths(paths map[string][]string) Option {
	return func(i *Info) { i.pkgManagerPaths = paths }
}

// WithHome overrides the home directory used for the disk-space check.
func WithHome(home string) Option {
	return func(i *Info) { i.home = home }
}

// New creates an Info backed by the given runner.
func New(r execx.Runner, opts ...Option) *Info {
	info := &Info{
		runner:          r,
		procVersionPath: "/proc/version",
		osReleasePath:   "/etc/os-release",
		pkgManagerPaths: packageManagerPaths,
	}
	for _, opt := range opts {
		opt(info)
	}
	if info.home == "" {
		info.home, _ = os.UserHomeDir()
	}
	return info
}

// Platform returns the lowercase OS name (linux, darwin).
func (i *Info) Platform() string { return runtime.GOOS }

// Arch returns the machine architecture.
func (i *Info) Arch() string { return runtime.GOARCH }

// IsLinux reports whether the host runs Linux.
func (i *Info) IsLinux() bool { return runtime.GOOS == "linux" }

// IsMacOS reports whether the host runs macOS.
func (i *Info) IsMacOS() bool { return runtime.GOOS == "darwin" }

// IsWSL reports whether the host is Windows Subsystem for Linux.
func (i *Info) IsWSL() bool {
	if !i.IsLinux() {
		return false
	}
	data, err := os.ReadFile(i.procVersionPath)
	if err != nil {
		return false
	}
	version := strings.ToLower(string(data))
	return strings.Contains(version, "microsoft") || strings.Contains(version, "wsl")
}

// Distribution returns the Linux distribution ID, or empty when unknown.
func (i *Info) Distribution(ctx context.Context) string {
	if !i.IsLinux() {
		return ""
	}

	if data, err := os.ReadFile(i.osReleasePath); err == nil {
		for _, line := range strings.Split(string(data), "\n") {
			if strings.HasPrefix(line, "ID=") {
				return strings.Trim(strings.TrimPrefix(line, "ID="), `" `)
			}
		}
	}

	res, err := i.runner.Run(ctx, execx.Command{Name: "lsb_release", Args: []string{"-si"}})
	if err == nil && res.Ok() {
		return strings.ToLower(strings.TrimSpace(res.Stdout))
	}

	return ""
}

// PackageManager detects the system package manager, or empty when none of
// the known ones is present.
func (i *Info) PackageManager() string {
	for _, manager := range []string{"apt-get", "dnf", "yum", "pacman", "zypper", "brew"} {
		for _, path := range i.pkgManagerPaths[manager] {
			if _, err := os.Stat(path); err == nil {
				return manager
			}
		}
	}
	return ""
}

// Shell returns the current login shell.
func (i *Info) Shell() string {
	if shell := os.Getenv("SHELL"); shell != "" {
		return shell
	}
	return "/bin/bash"
}

// EnvironmentInfo returns a summary of the host environment for display.
func (i *Info) EnvironmentInfo(ctx context.Context) map[string]string {
	distro := i.Distribution(ctx)
	if distro == "" {
		distro = "unknown"
	}
	pkgMgr := i.PackageManager()
	if pkgMgr == "" {
		pkgMgr = "unknown"
	}
	user := os.Getenv("USER")
	if user == "" {
		user = "unknown"
	}

	return map[string]string{
		"platform":        i.Platform(),
		"architecture":    i.Arch(),
		"distribution":    distro,
		"package_manager": pkgMgr,
		"shell":           i.Shell(),
		"is_wsl":          boolString(i.IsWSL()),
		"home":            i.home,
		"user":            user,
	}
}

// CheckPrerequisites returns the list of host-level problems that would
// prevent installation. An empty list means the host is ready.
func (i *Info) CheckPrerequisites(ctx context.Context) []string {
	var issues []string

	if !i.HasInternet(ctx) {
		issues = append(issues, "No internet connectivity detected")
	}

	for _, cmd := range []string{"curl", "git"} {
		if !execx.CommandExists(i.runner, cmd) {
			issues = append(issues, "Required command not found: "+cmd)
		}
	}

	if !i.hasSufficientDiskSpace() {
		issues = append(issues, "Insufficient disk space (need at least 1GB free)")
	}

	return issues
}

// HasInternet probes connectivity by pinging well-known resolvers.
func (i *Info) HasInternet(ctx context.Context) bool {
	logger := logging.GetLogger("system")

	for _, host := range connectivityHosts {
		probeCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		res, err := i.runner.Run(probeCtx, execx.Command{
			Name: "ping",
			Args: []string{"-c", "1", "-W", "3", host},
		})
		cancel()
		if err == nil && res.Ok() {
			return true
		}
		logger.Debug().Str("host", host).Msg("Connectivity probe failed")
	}

	return false
}

func (i *Info) hasSufficientDiskSpace() bool {
	free, err := freeBytes(i.home)
	if err != nil {
		// Assume sufficient space if the check itself fails.
		return true
	}
	return free >= minFreeSpaceBytes
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
