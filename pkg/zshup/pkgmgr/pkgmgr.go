// Package pkgmgr detects the host package manager and installs, removes,
// and queries packages through it. All commands run non-interactively;
// install and remove are invoked through sudo on Linux managers.
package pkgmgr

import (
	"context"
	"errors"
	"fmt"
	"os/exec"

	"github.com/zshup/zshup/pkg/zshup/logging"
)

var logger = logging.Get("pkgmgr")

// ErrNoManager is returned by Detect when no supported package manager is
// found on PATH. Install treats this as fatal.
var ErrNoManager = errors.New("no supported package manager found")

// Manager installs, removes, and queries packages.
type Manager interface {
	// Name identifies the package manager (e.g. "apt", "brew").
	Name() string

	// Install installs a package. Installing a package that is already
	// installed is manager-dependent but must not be treated as an
	// error by callers; use IsInstalled to skip beforehand.
	Install(ctx context.Context, pkg string) error

	// Remove uninstalls a package.
	Remove(ctx context.Context, pkg string) error

	// IsInstalled reports whether a package is currently installed.
	IsInstalled(ctx context.Context, pkg string) (bool, error)
}

// spec describes how to drive one package manager. The package name is
// appended to each argv.
type spec struct {
	name    string
	probe   string // binary whose presence identifies the manager
	install []string
	remove  []string
	query   []string // exit status zero means installed
}

// Probe order is fixed: the first manager found on PATH wins.
var specs = []spec{
	{
		name:    "apt",
		probe:   "apt-get",
		install: []string{"sudo", "apt-get", "install", "-y"},
		remove:  []string{"sudo", "apt-get", "remove", "-y"},
		query:   []string{"dpkg", "-s"},
	},
	{
		name:    "dnf",
		probe:   "dnf",
		install: []string{"sudo", "dnf", "install", "-y"},
		remove:  []string{"sudo", "dnf", "remove", "-y"},
		query:   []string{"rpm", "-q"},
	},
	{
		name:    "pacman",
		probe:   "pacman",
		install: []string{"sudo", "pacman", "-S", "--noconfirm", "--needed"},
		remove:  []string{"sudo", "pacman", "-R", "--noconfirm"},
		query:   []string{"pacman", "-Qi"},
	},
	{
		name:    "zypper",
		probe:   "zypper",
		install: []string{"sudo", "zypper", "--non-interactive", "install"},
		remove:  []string{"sudo", "zypper", "--non-interactive", "remove"},
		query:   []string{"rpm", "-q"},
	},
	{
		name:    "apk",
		probe:   "apk",
		install: []string{"sudo", "apk", "add"},
		remove:  []string{"sudo", "apk", "del"},
		query:   []string{"apk", "info", "-e"},
	},
	{
		name:    "brew",
		probe:   "brew",
		install: []string{"brew", "install"},
		remove:  []string{"brew", "uninstall"},
		query:   []string{"brew", "list"},
	},
}

// Detect probes PATH for a supported package manager and returns a
// Manager driving the first one found.
func Detect() (Manager, error) {
	for _, s := range specs {
		if _, err := exec.LookPath(s.probe); err == nil {
			logger.Debug("detected package manager", "name", s.name)
			return &system{spec: s}, nil
		}
	}
	return nil, ErrNoManager
}

// system drives a real package manager through os/exec.
type system struct {
	spec spec
}

func (m *system) Name() string {
	return m.spec.name
}

func (m *system) Install(ctx context.Context, pkg string) error {
	logger.Info("installing package", "manager", m.spec.name, "package", pkg)
	return m.run(ctx, append(m.spec.install, pkg))
}

func (m *system) Remove(ctx context.Context, pkg string) error {
	logger.Info("removing package", "manager", m.spec.name, "package", pkg)
	return m.run(ctx, append(m.spec.remove, pkg))
}

func (m *system) IsInstalled(ctx context.Context, pkg string) (bool, error) {
	argv := append(m.spec.query, pkg)
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// Non-zero exit means not installed, not a failure.
			return false, nil
		}
		return false, fmt.Errorf("querying %s: %w", pkg, err)
	}
	return true, nil
}

func (m *system) run(ctx context.Context, argv []string) error {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %w: %s", argv[0], err, string(out))
	}
	return nil
}
