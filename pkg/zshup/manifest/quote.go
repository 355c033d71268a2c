package manifest

import (
	"fmt"
	"strings"
)

// quote wraps a value in single quotes, escaping embedded single quotes
// the way a POSIX shell requires ('\''). Sourcing the resulting
// KEY='value' assignment reproduces the exact original string, including
// spaces, double quotes, and the manifest's own delimiter characters.
func quote(value string) string {
	return "'" + strings.ReplaceAll(value, "'", `'\''`) + "'"
}

// unquote is the inverse of quote. It accepts any sequence of
// single-quoted segments and backslash-escaped characters, so values
// produced by quote as well as hand-edited assignments load correctly.
func unquote(raw string) (string, error) {
	var b strings.Builder
	inQuotes := false
	escaped := false

	for _, r := range raw {
		switch {
		case escaped:
			b.WriteRune(r)
			escaped = false
		case inQuotes:
			if r == '\'' {
				inQuotes = false
			} else {
				b.WriteRune(r)
			}
		case r == '\'':
			inQuotes = true
		case r == '\\':
			escaped = true
		default:
			b.WriteRune(r)
		}
	}

	if inQuotes {
		return "", fmt.Errorf("unterminated quote in %q", raw)
	}
	if escaped {
		return "", fmt.Errorf("trailing backslash in %q", raw)
	}
	return b.String(), nil
}
