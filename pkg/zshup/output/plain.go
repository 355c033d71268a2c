package output

import (
	"bytes"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/zshup/zshup/pkg/zshup/status"
)

// PlainFormatter formats the report as simple key-value lines.
// It produces plain text output suitable for scripting and piping.
// No colors or styling are applied.
type PlainFormatter struct{}

// Format writes the formatted report to the buffer.
func (f *PlainFormatter) Format(w *bytes.Buffer, r *status.Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)

	write := func(key, value string) {
		fmt.Fprintf(tw, "%s\t%s\n", key, value)
	}

	switch {
	case r.Manifest.Corrupt:
		write("manifest", "corrupt")
	case r.Manifest.Present:
		write("manifest", "present")
		write("installed_at", r.Manifest.CreatedAt.Format("2006-01-02T15:04:05Z07:00"))
		write("pkg_manager", r.Manifest.PkgManager)
		write("packages", strings.Join(r.Manifest.Packages, ","))
		write("plugins", strings.Join(r.Manifest.Plugins, ","))
		write("modified", strings.Join(r.Manifest.Modified, ","))
		write("backups", fmt.Sprintf("%d", r.Manifest.Backups))
		write("shell_changed", fmt.Sprintf("%t", r.Manifest.ShellChanged))
		write("oh_my_zsh_installed", fmt.Sprintf("%t", r.Manifest.OhMyZshInstalled))
	default:
		write("manifest", "absent")
	}

	write("rc_file", r.RCFile)
	write("block_present", fmt.Sprintf("%t", r.BlockPresent))
	write("oh_my_zsh_present", fmt.Sprintf("%t", r.OhMyZshPresent))
	write("current_shell", r.CurrentShell)
	write("detected_manager", r.PackageManager)

	for _, tool := range r.Tools {
		write("tool_"+tool.Name, fmt.Sprintf("%t", tool.Found))
	}

	return tw.Flush()
}

func init() {
	Register("plain", func() Formatter {
		return &PlainFormatter{}
	})
}

// Ensure PlainFormatter implements Formatter.
var _ Formatter = (*PlainFormatter)(nil)
