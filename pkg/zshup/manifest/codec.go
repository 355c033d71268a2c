package manifest

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/zshup/zshup/pkg/zshup/ledger"
)

// Encode serializes a change record and its run metadata to the manifest
// key-value text format. It returns an error if any list entry contains a
// delimiter character, since such a value could not be decoded back.
func Encode(rec *ledger.Record, meta Metadata) ([]byte, error) {
	if err := validateEntries("package", rec.Packages); err != nil {
		return nil, err
	}
	if err := validateEntries("plugin", rec.Plugins); err != nil {
		return nil, err
	}
	if err := validateEntries("modified file", rec.Modified); err != nil {
		return nil, err
	}
	for _, pair := range rec.Backups {
		if err := validateEntries("backup path", []string{pair.Original, pair.Backup}); err != nil {
			return nil, err
		}
	}
	for kind, value := range map[string]string{
		"run id":          meta.RunID,
		"os name":         meta.OSName,
		"package manager": meta.PkgManager,
		"old shell":       rec.OldShell,
	} {
		if err := validateScalar(kind, value); err != nil {
			return nil, err
		}
	}

	pairs := make([]string, 0, len(rec.Backups))
	for _, pair := range rec.Backups {
		pairs = append(pairs, pair.Original+kvSep+pair.Backup)
	}

	var b strings.Builder
	writeField := func(key, value string) {
		b.WriteString(key)
		b.WriteString("=")
		b.WriteString(quote(value))
		b.WriteString("\n")
	}

	writeField(keyVersion, strconv.Itoa(meta.Version))
	if meta.RunID != "" {
		writeField(keyRunID, meta.RunID)
	}
	writeField(keyCreatedAt, meta.CreatedAt.UTC().Format(time.RFC3339))
	writeField(keyOSName, meta.OSName)
	writeField(keyPkgManager, meta.PkgManager)
	writeField(keyOldShell, rec.OldShell)
	writeField(keyShellChanged, strconv.FormatBool(rec.ShellChanged))
	writeField(keyOhMyZsh, strconv.FormatBool(rec.OhMyZshInstalled))
	writeField(keyPackages, strings.Join(rec.Packages, listSep))
	writeField(keyPlugins, strings.Join(rec.Plugins, listSep))
	writeField(keyBackups, strings.Join(pairs, pairSep))
	writeField(keyModified, strings.Join(rec.Modified, listSep))

	return []byte(b.String()), nil
}

// Decode parses manifest bytes back into a change record and metadata.
// It returns ErrCorrupt (wrapped) when required keys are missing or a
// value cannot be parsed.
func Decode(data []byte) (*ledger.Record, Metadata, error) {
	fields, err := parseFields(string(data))
	if err != nil {
		return nil, Metadata{}, err
	}

	for _, key := range []string{keyVersion, keyCreatedAt, keyOSName, keyPkgManager} {
		if _, ok := fields[key]; !ok {
			return nil, Metadata{}, fmt.Errorf("%w: missing required key %s", ErrCorrupt, key)
		}
	}

	version, err := strconv.Atoi(fields[keyVersion])
	if err != nil {
		return nil, Metadata{}, fmt.Errorf("%w: bad %s: %v", ErrCorrupt, keyVersion, err)
	}

	createdAt, err := time.Parse(time.RFC3339, fields[keyCreatedAt])
	if err != nil {
		return nil, Metadata{}, fmt.Errorf("%w: bad %s: %v", ErrCorrupt, keyCreatedAt, err)
	}

	meta := Metadata{
		Version:    version,
		RunID:      fields[keyRunID],
		CreatedAt:  createdAt,
		OSName:     fields[keyOSName],
		PkgManager: fields[keyPkgManager],
	}

	rec := ledger.New()
	rec.OldShell = fields[keyOldShell]

	if rec.ShellChanged, err = parseBool(fields, keyShellChanged); err != nil {
		return nil, Metadata{}, err
	}
	if rec.OhMyZshInstalled, err = parseBool(fields, keyOhMyZsh); err != nil {
		return nil, Metadata{}, err
	}

	rec.Packages = splitList(fields[keyPackages])
	rec.Plugins = splitList(fields[keyPlugins])
	rec.Modified = splitList(fields[keyModified])

	for _, encoded := range strings.Split(fields[keyBackups], pairSep) {
		if encoded == "" {
			continue
		}
		original, backup, ok := strings.Cut(encoded, kvSep)
		if !ok {
			return nil, Metadata{}, fmt.Errorf("%w: bad backup pair %q", ErrCorrupt, encoded)
		}
		rec.Backups = append(rec.Backups, ledger.BackupPair{Original: original, Backup: backup})
	}

	return rec, meta, nil
}

// parseFields splits manifest text into a key/value map, unquoting each
// value. Blank lines and comment lines are ignored.
func parseFields(text string) (map[string]string, error) {
	fields := make(map[string]string)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, raw, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("%w: line %q is not a key=value assignment", ErrCorrupt, line)
		}
		value, err := unquote(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: bad value for %s: %v", ErrCorrupt, key, err)
		}
		fields[key] = value
	}
	return fields, nil
}

func parseBool(fields map[string]string, key string) (bool, error) {
	raw, ok := fields[key]
	if !ok || raw == "" {
		return false, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%w: bad %s: %v", ErrCorrupt, key, err)
	}
	return value, nil
}

func splitList(joined string) []string {
	if joined == "" {
		return nil
	}
	return strings.Split(joined, listSep)
}

// validateEntries rejects list entries containing delimiter characters or
// newlines, which would corrupt the joined encoding.
func validateEntries(kind string, entries []string) error {
	for _, entry := range entries {
		if strings.ContainsAny(entry, listSep+pairSep+kvSep+"\n") {
			return fmt.Errorf("%s %q contains a reserved delimiter character", kind, entry)
		}
	}
	return nil
}

// validateScalar rejects newlines in single-valued fields. Quoting does
// not escape them and the decoder is line-oriented, so a newline would
// produce a manifest that encodes fine but never loads again.
func validateScalar(kind, value string) error {
	if strings.Contains(value, "\n") {
		return fmt.Errorf("%s %q contains a newline", kind, value)
	}
	return nil
}
