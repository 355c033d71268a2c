// Package ledger provides the in-memory change record for a single zshup
// run. Every filesystem or package-manager side effect performed during an
// install is appended here after it has completed, and the record is later
// persisted as a manifest so the run can be reverted.
//
// The ledger only grows within a run; there is no removal operation before
// persistence. All appends are idempotent: recording the same value twice
// under the same field is a no-op rather than a duplicate entry.
package ledger

// BackupPair records a file that was backed up before modification.
type BackupPair struct {
	// Original is the path of the file that was backed up.
	Original string

	// Backup is the path of the timestamped backup copy.
	Backup string
}

// Record holds every change performed by one zshup run.
//
// Callers must append only after the underlying side effect is durable.
// If the process dies between the side effect and the append, the effect
// goes untracked and unrevertable; the record must never claim an effect
// that did not happen.
type Record struct {
	// Packages lists packages installed by this run, in install order.
	// Packages that were already installed before the run are never
	// recorded here and are therefore never candidates for removal.
	Packages []string

	// Plugins lists absolute plugin directories cloned by this run.
	Plugins []string

	// Backups lists files backed up by this run, in backup order.
	Backups []BackupPair

	// Modified lists files whose contents were edited by this run.
	Modified []string

	// OldShell is the login shell observed before any shell change.
	OldShell string

	// ShellChanged is true only if the default shell was successfully
	// altered by this run.
	ShellChanged bool

	// OhMyZshInstalled is true only if this run installed oh-my-zsh,
	// as opposed to it pre-existing.
	OhMyZshInstalled bool
}

// New returns an empty change record.
func New() *Record {
	return &Record{}
}

// AddPackage records a package installed by this run.
func (r *Record) AddPackage(name string) {
	r.Packages = appendUnique(r.Packages, name)
}

// AddPlugin records a plugin directory cloned by this run.
func (r *Record) AddPlugin(dir string) {
	r.Plugins = appendUnique(r.Plugins, dir)
}

// AddBackup records a (original, backup) file pair created by this run.
func (r *Record) AddBackup(original, backup string) {
	pair := BackupPair{Original: original, Backup: backup}
	for _, existing := range r.Backups {
		if existing == pair {
			return
		}
	}
	r.Backups = append(r.Backups, pair)
}

// AddModified records a file edited by this run.
func (r *Record) AddModified(path string) {
	r.Modified = appendUnique(r.Modified, path)
}

// SetOldShell records the login shell as it was before any change.
// Only the first observation is kept.
func (r *Record) SetOldShell(path string) {
	if r.OldShell == "" {
		r.OldShell = path
	}
}

// MarkShellChanged records that the default shell was successfully changed.
func (r *Record) MarkShellChanged() {
	r.ShellChanged = true
}

// MarkOhMyZshInstalled records that this run installed oh-my-zsh.
func (r *Record) MarkOhMyZshInstalled() {
	r.OhMyZshInstalled = true
}

// Empty reports whether the record contains no changes at all.
func (r *Record) Empty() bool {
	return len(r.Packages) == 0 &&
		len(r.Plugins) == 0 &&
		len(r.Backups) == 0 &&
		len(r.Modified) == 0 &&
		!r.ShellChanged &&
		!r.OhMyZshInstalled
}

// LatestBackupFor returns the most recently recorded backup pair whose
// original path equals the given path.
func (r *Record) LatestBackupFor(original string) (BackupPair, bool) {
	for i := len(r.Backups) - 1; i >= 0; i-- {
		if r.Backups[i].Original == original {
			return r.Backups[i], true
		}
	}
	return BackupPair{}, false
}

// appendUnique appends value to list unless it is already present.
func appendUnique(list []string, value string) []string {
	for _, existing := range list {
		if existing == value {
			return list
		}
	}
	return append(list, value)
}
