// Package manifest persists a zshup change record to a durable key-value
// file and loads it back for status and revert. The manifest file is the
// single source of truth across process invocations: it is written once at
// the end of a successful install, read (never mutated in place) by status
// and revert, and deleted by a successful revert.
package manifest

import (
	"errors"
	"time"
)

// Version is the current manifest format version.
const Version = 1

// Manifest file keys. Values are shell-quoted so the file can be reloaded
// as literal key-value assignments and reproduce the exact original
// strings.
const (
	keyVersion      = "MANIFEST_VERSION"
	keyRunID        = "RUN_ID"
	keyCreatedAt    = "CREATED_AT"
	keyOSName       = "OS_NAME"
	keyPkgManager   = "PKG_MANAGER"
	keyOldShell     = "OLD_SHELL"
	keyShellChanged = "CHANGED_DEFAULT_SHELL"
	keyOhMyZsh      = "OHMYZSH_INSTALLED_BY_SCRIPT"
	keyPackages     = "PACKAGES_INSTALLED"
	keyPlugins      = "PLUGINS_CLONED"
	keyBackups      = "FILES_BACKED_UP"
	keyModified     = "FILES_MODIFIED"
)

// List field delimiters. Simple lists are comma-joined; backup pairs are
// encoded as original|backup and semicolon-joined. Encode rejects values
// containing any of these rather than trusting inputs to be delimiter-free.
const (
	listSep = ","
	pairSep = ";"
	kvSep   = "|"
)

// Sentinel errors for manifest loading.
var (
	// ErrNotFound is returned when no manifest file exists. Revert and
	// any required load treat this as fatal before performing any
	// mutation.
	ErrNotFound = errors.New("manifest not found")

	// ErrCorrupt is returned when a manifest file exists but cannot be
	// decoded. Callers treat this as a hard stop, never a partial revert.
	ErrCorrupt = errors.New("manifest corrupt")
)

// Metadata describes the run that produced a manifest.
type Metadata struct {
	// Version is the manifest format version.
	Version int

	// RunID uniquely identifies the install run. Optional on decode:
	// manifests written before the field existed load without it.
	RunID string

	// CreatedAt is when the manifest was written.
	CreatedAt time.Time

	// OSName identifies the host OS (e.g. "linux", "darwin").
	OSName string

	// PkgManager names the detected package manager.
	PkgManager string
}
