package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecord_AppendUnique(t *testing.T) {
	t.Parallel()

	t.Run("packages deduplicate and keep order", func(t *testing.T) {
		t.Parallel()
		r := New()

		r.AddPackage("zsh")
		r.AddPackage("git")
		r.AddPackage("zsh")
		r.AddPackage("curl")
		r.AddPackage("git")

		assert.Equal(t, []string{"zsh", "git", "curl"}, r.Packages)
	})

	t.Run("plugins deduplicate", func(t *testing.T) {
		t.Parallel()
		r := New()

		r.AddPlugin("/home/u/.local/share/zshup/plugins/zsh-autosuggestions")
		r.AddPlugin("/home/u/.local/share/zshup/plugins/zsh-autosuggestions")

		assert.Len(t, r.Plugins, 1)
	})

	t.Run("modified files deduplicate", func(t *testing.T) {
		t.Parallel()
		r := New()

		r.AddModified("/home/u/.zshrc")
		r.AddModified("/home/u/.zshrc")

		assert.Equal(t, []string{"/home/u/.zshrc"}, r.Modified)
	})

	t.Run("backup pairs deduplicate on the full pair", func(t *testing.T) {
		t.Parallel()
		r := New()

		r.AddBackup("/home/u/.zshrc", "/home/u/.zshrc.100.zshup.bak")
		r.AddBackup("/home/u/.zshrc", "/home/u/.zshrc.100.zshup.bak")
		r.AddBackup("/home/u/.zshrc", "/home/u/.zshrc.200.zshup.bak")

		assert.Equal(t, []BackupPair{
			{Original: "/home/u/.zshrc", Backup: "/home/u/.zshrc.100.zshup.bak"},
			{Original: "/home/u/.zshrc", Backup: "/home/u/.zshrc.200.zshup.bak"},
		}, r.Backups)
	})
}

func TestRecord_SetOldShell(t *testing.T) {
	t.Parallel()
	r := New()

	r.SetOldShell("/bin/bash")
	r.SetOldShell("/usr/bin/zsh")

	// Only the first observation is kept.
	assert.Equal(t, "/bin/bash", r.OldShell)
}

func TestRecord_Empty(t *testing.T) {
	t.Parallel()

	t.Run("new record is empty", func(t *testing.T) {
		t.Parallel()
		assert.True(t, New().Empty())
	})

	t.Run("old shell alone does not count as a change", func(t *testing.T) {
		t.Parallel()
		r := New()
		r.SetOldShell("/bin/bash")
		assert.True(t, r.Empty())
	})

	t.Run("any recorded change makes it non-empty", func(t *testing.T) {
		t.Parallel()

		for name, mutate := range map[string]func(*Record){
			"package":  func(r *Record) { r.AddPackage("zsh") },
			"plugin":   func(r *Record) { r.AddPlugin("/p") },
			"backup":   func(r *Record) { r.AddBackup("/a", "/b") },
			"modified": func(r *Record) { r.AddModified("/f") },
			"shell":    func(r *Record) { r.MarkShellChanged() },
			"ohmyzsh":  func(r *Record) { r.MarkOhMyZshInstalled() },
		} {
			r := New()
			mutate(r)
			assert.False(t, r.Empty(), "mutation %q should make record non-empty", name)
		}
	})
}

func TestRecord_LatestBackupFor(t *testing.T) {
	t.Parallel()
	r := New()

	r.AddBackup("/home/u/.zshrc", "/home/u/.zshrc.100.zshup.bak")
	r.AddBackup("/home/u/.profile", "/home/u/.profile.100.zshup.bak")
	r.AddBackup("/home/u/.zshrc", "/home/u/.zshrc.200.zshup.bak")

	pair, ok := r.LatestBackupFor("/home/u/.zshrc")
	assert.True(t, ok)
	assert.Equal(t, "/home/u/.zshrc.200.zshup.bak", pair.Backup)

	_, ok = r.LatestBackupFor("/home/u/.bashrc")
	assert.False(t, ok)
}
