package pkgmgr

import (
	"context"
	"fmt"
)

// Fake is an in-memory Manager for tests of the install and revert flows.
type Fake struct {
	// Installed is the set of packages currently installed.
	Installed map[string]bool

	// FailInstall and FailRemove make the named operations fail.
	FailInstall map[string]bool
	FailRemove  map[string]bool

	// InstallCalls and RemoveCalls record invocation order.
	InstallCalls []string
	RemoveCalls  []string
}

// NewFake returns a Fake with the given packages pre-installed.
func NewFake(preinstalled ...string) *Fake {
	installed := make(map[string]bool, len(preinstalled))
	for _, pkg := range preinstalled {
		installed[pkg] = true
	}
	return &Fake{
		Installed:   installed,
		FailInstall: make(map[string]bool),
		FailRemove:  make(map[string]bool),
	}
}

func (f *Fake) Name() string { return "fake" }

func (f *Fake) Install(_ context.Context, pkg string) error {
	f.InstallCalls = append(f.InstallCalls, pkg)
	if f.FailInstall[pkg] {
		return fmt.Errorf("install %s: simulated failure", pkg)
	}
	f.Installed[pkg] = true
	return nil
}

func (f *Fake) Remove(_ context.Context, pkg string) error {
	f.RemoveCalls = append(f.RemoveCalls, pkg)
	if f.FailRemove[pkg] {
		return fmt.Errorf("remove %s: simulated failure", pkg)
	}
	delete(f.Installed, pkg)
	return nil
}

func (f *Fake) IsInstalled(_ context.Context, pkg string) (bool, error) {
	return f.Installed[pkg], nil
}

var _ Manager = (*Fake)(nil)
