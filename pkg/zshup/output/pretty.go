package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/zshup/zshup/pkg/zshup/status"
)

// PrettyFormatter formats the report with colors and styling using
// lipgloss. It produces output suitable for terminal display.
type PrettyFormatter struct{}

// Format writes the formatted report to the buffer.
func (f *PrettyFormatter) Format(w *bytes.Buffer, r *status.Report) error {
	w.WriteString(f.formatHeader(r))
	w.WriteString("\n")
	w.WriteString(f.formatEnvironment(r))
	if r.Manifest.Present && !r.Manifest.Corrupt {
		w.WriteString("\n")
		w.WriteString(f.formatChanges(r))
	}
	return nil
}

// formatHeader builds the header box describing the manifest.
func (f *PrettyFormatter) formatHeader(r *status.Report) string {
	var lines []string

	label := LabelStyle.Render("Manifest:")
	switch {
	case r.Manifest.Corrupt:
		lines = append(lines, fmt.Sprintf("%s %s", label,
			ErrorStyle.Render("present but unreadable ("+r.Manifest.Path+")")))
	case r.Manifest.Present:
		lines = append(lines, fmt.Sprintf("%s %s", label,
			SuccessStyle.Render("installed "+humanize.Time(r.Manifest.CreatedAt))))
		detail := fmt.Sprintf("%s %s  %s %s",
			LabelStyle.Render("OS:"), ValueStyle.Render(r.Manifest.OSName),
			LabelStyle.Render("Manager:"), ValueStyle.Render(r.Manifest.PkgManager))
		lines = append(lines, detail)
		if r.Manifest.RunID != "" {
			lines = append(lines, fmt.Sprintf("%s %s",
				LabelStyle.Render("Run:"), MutedStyle.Render(r.Manifest.RunID)))
		}
	default:
		lines = append(lines, fmt.Sprintf("%s %s", label,
			MutedStyle.Render("none (nothing to revert)")))
	}

	return HeaderBox.Render(strings.Join(lines, "\n"))
}

// formatEnvironment builds the live-environment section.
func (f *PrettyFormatter) formatEnvironment(r *status.Report) string {
	var sb strings.Builder

	sb.WriteString(TitleStyle.Render("Environment"))
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("  %s %s\n",
		LabelStyle.Render("Shell:"), ValueStyle.Render(r.CurrentShell)))

	block := ErrorStyle.Render("absent")
	if r.BlockPresent {
		block = SuccessStyle.Render("present")
	}
	sb.WriteString(fmt.Sprintf("  %s %s %s\n",
		LabelStyle.Render("Managed block:"), block, MutedStyle.Render("("+r.RCFile+")")))

	omz := MutedStyle.Render("absent")
	if r.OhMyZshPresent {
		omz = SuccessStyle.Render("present")
	}
	sb.WriteString(fmt.Sprintf("  %s %s\n", LabelStyle.Render("oh-my-zsh:"), omz))

	mgr := ErrorStyle.Render("none detected")
	if r.PackageManager != "" {
		mgr = ValueStyle.Render(r.PackageManager)
	}
	sb.WriteString(fmt.Sprintf("  %s %s\n", LabelStyle.Render("Package manager:"), mgr))

	var toolParts []string
	for _, tool := range r.Tools {
		if tool.Found {
			toolParts = append(toolParts, SuccessStyle.Render(tool.Name))
		} else {
			toolParts = append(toolParts, ErrorStyle.Render(tool.Name+"?"))
		}
	}
	sb.WriteString(fmt.Sprintf("  %s %s\n",
		LabelStyle.Render("Tools:"), strings.Join(toolParts, " ")))

	return sb.String()
}

// formatChanges builds the recorded-changes section.
func (f *PrettyFormatter) formatChanges(r *status.Report) string {
	var sb strings.Builder

	sb.WriteString(TitleStyle.Render("Recorded changes"))
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("  %s %s\n",
		LabelStyle.Render("Packages:"), formatList(r.Manifest.Packages)))
	sb.WriteString(fmt.Sprintf("  %s %s\n",
		LabelStyle.Render("Plugins:"), formatList(r.Manifest.Plugins)))
	sb.WriteString(fmt.Sprintf("  %s %s\n",
		LabelStyle.Render("Modified:"), formatList(r.Manifest.Modified)))
	sb.WriteString(fmt.Sprintf("  %s %s\n",
		LabelStyle.Render("Backups:"), ValueStyle.Render(fmt.Sprintf("%d", r.Manifest.Backups))))

	if r.Manifest.ShellChanged {
		sb.WriteString(fmt.Sprintf("  %s %s\n",
			LabelStyle.Render("Shell changed from:"), ValueStyle.Render(r.Manifest.OldShell)))
	}
	if r.Manifest.OhMyZshInstalled {
		sb.WriteString(fmt.Sprintf("  %s\n",
			ValueStyle.Render("oh-my-zsh installed by zshup")))
	}

	sb.WriteString(MutedStyle.Render("  Run 'zshup revert' to undo these changes"))
	sb.WriteString("\n")

	return sb.String()
}

func formatList(items []string) string {
	if len(items) == 0 {
		return MutedStyle.Render("none")
	}
	return ValueStyle.Render(strings.Join(items, ", "))
}

func init() {
	Register("pretty", func() Formatter {
		return &PrettyFormatter{}
	})
}

// Ensure PrettyFormatter implements Formatter.
var _ Formatter = (*PrettyFormatter)(nil)
