package rcblock

import (
	"fmt"
	"strings"
)

// Section describes the content of the managed block. Each feature is a
// self-contained fragment of zsh configuration that is fully included or
// fully omitted based on its flag. Fragments render in a fixed order
// regardless of which flags are set, so identical inputs always produce
// identical bytes.
type Section struct {
	// OhMyZsh sources the oh-my-zsh bootstrap from OhMyZshDir.
	OhMyZsh    bool
	OhMyZshDir string

	// Completions adds the zsh-completions directory to fpath and runs
	// compinit.
	Completions    bool
	CompletionsDir string

	// Autosuggestions sources zsh-autosuggestions from its plugin dir.
	Autosuggestions    bool
	AutosuggestionsDir string

	// Aliases adds a small set of convenience aliases.
	Aliases bool

	// History enables shared, deduplicated shell history.
	History bool

	// SyntaxHighlighting sources zsh-syntax-highlighting. It renders
	// last: the plugin requires being sourced after everything that
	// defines widgets.
	SyntaxHighlighting    bool
	SyntaxHighlightingDir string
}

// Render produces the full managed block, marker lines included,
// terminated by a newline.
func (s Section) Render() string {
	var b strings.Builder
	b.WriteString(StartMarker + "\n")
	b.WriteString("# Generated by zshup. Do not edit: changes inside this block are\n")
	b.WriteString("# overwritten on install and removed on revert.\n")

	if s.OhMyZsh {
		b.WriteString(fmt.Sprintf("export ZSH=%q\n", s.OhMyZshDir))
		b.WriteString("plugins=(git)\n")
		b.WriteString("source \"$ZSH/oh-my-zsh.sh\"\n")
	}
	if s.Completions {
		b.WriteString(fmt.Sprintf("fpath+=(%q)\n", s.CompletionsDir+"/src"))
		b.WriteString("autoload -Uz compinit && compinit\n")
	}
	if s.Autosuggestions {
		b.WriteString(fmt.Sprintf("source %q\n", s.AutosuggestionsDir+"/zsh-autosuggestions.zsh"))
	}
	if s.Aliases {
		b.WriteString("alias ll='ls -lah'\n")
		b.WriteString("alias gs='git status'\n")
		b.WriteString("alias gd='git diff'\n")
	}
	if s.History {
		b.WriteString("HISTSIZE=50000\n")
		b.WriteString("SAVEHIST=50000\n")
		b.WriteString("setopt share_history hist_ignore_all_dups hist_reduce_blanks\n")
	}
	if s.SyntaxHighlighting {
		b.WriteString(fmt.Sprintf("source %q\n", s.SyntaxHighlightingDir+"/zsh-syntax-highlighting.zsh"))
	}

	b.WriteString(EndMarker + "\n")
	return b.String()
}
