// Package rcblock maintains the single zshup-managed section inside the
// user's rc file. The section is bounded by two exact marker lines; all
// content outside the markers belongs to the user and is never touched.
package rcblock

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Marker lines bounding the managed section. Matching is by exact
// whole-line equality, so user content that merely mentions the marker
// text is never mistaken for a section boundary.
const (
	StartMarker = "# >>> zshup managed block >>>"
	EndMarker   = "# <<< zshup managed block <<<"
)

// Strip removes the managed section from a sequence of lines. It
// partitions the lines into before/inside/after by exact marker equality
// and discards inside, markers included. An unterminated start marker
// drops everything through the end. The second return value reports
// whether a start marker was found.
func Strip(lines []string) ([]string, bool) {
	start := -1
	for i, line := range lines {
		if line == StartMarker {
			start = i
			break
		}
	}
	if start == -1 {
		return lines, false
	}

	end := len(lines)
	for i := start + 1; i < len(lines); i++ {
		if lines[i] == EndMarker {
			end = i + 1
			break
		}
	}

	kept := make([]string, 0, len(lines)-(end-start))
	kept = append(kept, lines[:start]...)
	kept = append(kept, lines[end:]...)
	return kept, true
}

// Remove deletes the managed section from the file at path. A missing
// file is a no-op. A file without the start marker is left byte-for-byte
// unchanged (it is not rewritten at all). When the section is present the
// stripped content is written via a temp file and rename, so a crash
// never leaves the file half-written.
func Remove(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading %s: %w", path, err)
	}

	lines, found := Strip(strings.Split(string(content), "\n"))
	if !found {
		return nil
	}

	return writeAtomic(path, strings.Join(lines, "\n"))
}

// Write replaces the managed section in the file at path with a freshly
// rendered one. It first strips any existing section (reapplying is safe
// and yields exactly one section), then appends the new section at the
// end. The file is created if absent.
func Write(path string, section Section) error {
	var body string
	content, err := os.ReadFile(path)
	switch {
	case err == nil:
		lines, _ := Strip(strings.Split(string(content), "\n"))
		body = strings.Join(lines, "\n")
	case os.IsNotExist(err):
		body = ""
	default:
		return fmt.Errorf("reading %s: %w", path, err)
	}

	if body != "" && !strings.HasSuffix(body, "\n") {
		body += "\n"
	}
	body += section.Render()

	return writeAtomic(path, body)
}

// Present reports whether the file at path contains a managed section.
func Present(path string) bool {
	content, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	for _, line := range strings.Split(string(content), "\n") {
		if line == StartMarker {
			return true
		}
	}
	return false
}

// writeAtomic writes content to path via a temp file in the same
// directory followed by a rename, preserving the existing mode when the
// file already exists.
func writeAtomic(path, content string) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".zshup-rc-*")
	if err != nil {
		return fmt.Errorf("creating temp file in %s: %w", dir, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.WriteString(content); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("setting temp file mode: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
