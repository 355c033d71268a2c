// Package shellenv handles the pieces of the user's shell environment
// zshup touches: the default login shell and timestamped backups of rc
// files.
package shellenv

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/user"
	"strings"
	"time"

	"github.com/zshup/zshup/pkg/zshup/logging"
)

var logger = logging.Get("shellenv")

// CurrentShell returns the user's login shell, preferring $SHELL and
// falling back to the passwd database. Empty when neither is available.
func CurrentShell() string {
	if shell := os.Getenv("SHELL"); shell != "" {
		return shell
	}

	u, err := user.Current()
	if err != nil {
		return ""
	}
	out, err := exec.Command("getent", "passwd", u.Username).Output()
	if err != nil {
		return ""
	}
	fields := strings.Split(strings.TrimSpace(string(out)), ":")
	if len(fields) < 7 {
		return ""
	}
	return fields[6]
}

// ChangeShell sets the default login shell via chsh. This can require
// privileges the process does not have; callers treat failure as a
// warning, not an abort.
func ChangeShell(ctx context.Context, shell string) error {
	logger.Info("changing default shell", "shell", shell)
	cmd := exec.CommandContext(ctx, "chsh", "-s", shell)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("chsh -s %s: %w: %s", shell, err, strings.TrimSpace(string(out)))
	}
	return nil
}

// IsExecutable reports whether path refers to an executable regular file.
func IsExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() && info.Mode().Perm()&0o111 != 0
}

// BackupFile copies path to <path>.<unix-ts>.zshup.bak, preserving the
// file mode, and returns the backup path. A missing source file is not an
// error: it returns an empty path so callers can skip recording.
func BackupFile(path string) (string, error) {
	src, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer func() { _ = src.Close() }()

	info, err := src.Stat()
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}

	backupPath := fmt.Sprintf("%s.%d.zshup.bak", path, time.Now().Unix())
	dst, err := os.OpenFile(backupPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return "", fmt.Errorf("creating backup %s: %w", backupPath, err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		_ = os.Remove(backupPath)
		return "", fmt.Errorf("copying to %s: %w", backupPath, err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(backupPath)
		return "", fmt.Errorf("closing backup %s: %w", backupPath, err)
	}

	logger.Debug("backed up file", "original", path, "backup", backupPath)
	return backupPath, nil
}

// RestoreFile overwrites original with the content of backup, keeping the
// backup file in place so a revert can be re-run until the manifest is
// deleted.
func RestoreFile(backup, original string) error {
	src, err := os.Open(backup)
	if err != nil {
		return fmt.Errorf("opening backup %s: %w", backup, err)
	}
	defer func() { _ = src.Close() }()

	info, err := src.Stat()
	if err != nil {
		return fmt.Errorf("stat backup %s: %w", backup, err)
	}

	dst, err := os.OpenFile(original, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("opening %s: %w", original, err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return fmt.Errorf("restoring %s: %w", original, err)
	}
	if err := dst.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", original, err)
	}

	logger.Info("restored file from backup", "original", original, "backup", backup)
	return nil
}
