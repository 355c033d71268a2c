package rcblock

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrip(t *testing.T) {
	t.Parallel()

	t.Run("no marker returns input unchanged", func(t *testing.T) {
		t.Parallel()
		lines := []string{"export PATH=$PATH:/opt/bin", "alias v=vim", ""}

		kept, found := Strip(lines)

		assert.False(t, found)
		assert.Equal(t, lines, kept)
	})

	t.Run("removes markers and everything between", func(t *testing.T) {
		t.Parallel()
		lines := []string{
			"before",
			StartMarker,
			"inside one",
			"inside two",
			EndMarker,
			"after",
		}

		kept, found := Strip(lines)

		assert.True(t, found)
		assert.Equal(t, []string{"before", "after"}, kept)
	})

	t.Run("mentioning the marker text is not a boundary", func(t *testing.T) {
		t.Parallel()
		lines := []string{
			"# see " + StartMarker + " below",
			"echo '" + StartMarker + "'",
		}

		kept, found := Strip(lines)

		assert.False(t, found)
		assert.Equal(t, lines, kept)
	})

	t.Run("unterminated start marker drops through the end", func(t *testing.T) {
		t.Parallel()
		lines := []string{"before", StartMarker, "dangling"}

		kept, found := Strip(lines)

		assert.True(t, found)
		assert.Equal(t, []string{"before"}, kept)
	})
}

func TestRemove(t *testing.T) {
	t.Parallel()

	t.Run("missing file is a no-op", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, Remove(filepath.Join(t.TempDir(), ".zshrc")))
	})

	t.Run("file without marker is byte-identical", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), ".zshrc")
		original := "export EDITOR=vim\n# no trailing newline here"
		require.NoError(t, os.WriteFile(path, []byte(original), 0o644))

		require.NoError(t, Remove(path))

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, original, string(content))
	})

	t.Run("removes the section and preserves surrounding lines", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), ".zshrc")
		content := "top\n" + StartMarker + "\nmanaged\n" + EndMarker + "\nbottom\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		require.NoError(t, Remove(path))

		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "top\nbottom\n", string(got))

		// Mode is preserved and no temp file is left behind.
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

		entries, err := os.ReadDir(filepath.Dir(path))
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})
}

func TestWrite(t *testing.T) {
	t.Parallel()

	section := Section{
		Autosuggestions:    true,
		AutosuggestionsDir: "/plugins/zsh-autosuggestions",
		Aliases:            true,
	}

	t.Run("creates the file when absent", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), ".zshrc")

		require.NoError(t, Write(path, section))

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(content), StartMarker+"\n"))
		assert.True(t, strings.HasSuffix(string(content), EndMarker+"\n"))
	})

	t.Run("appends after existing content", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), ".zshrc")
		require.NoError(t, os.WriteFile(path, []byte("user content\n"), 0o644))

		require.NoError(t, Write(path, section))

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(content), "user content\n"))
		assert.Equal(t, 1, strings.Count(string(content), StartMarker))
	})

	t.Run("idempotent for identical flags", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), ".zshrc")
		require.NoError(t, os.WriteFile(path, []byte("keep me\n"), 0o644))

		require.NoError(t, Write(path, section))
		first, err := os.ReadFile(path)
		require.NoError(t, err)

		require.NoError(t, Write(path, section))
		second, err := os.ReadFile(path)
		require.NoError(t, err)

		assert.Equal(t, string(first), string(second))
		assert.Equal(t, 1, strings.Count(string(second), StartMarker))
	})

	t.Run("fragment set follows the flags", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), ".zshrc")

		require.NoError(t, Write(path, Section{
			Autosuggestions:    true,
			AutosuggestionsDir: "/p/zsh-autosuggestions",
			History:            true,
		}))

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(content), "zsh-autosuggestions.zsh")
		assert.Contains(t, string(content), "share_history")
		assert.NotContains(t, string(content), "zsh-syntax-highlighting")
		assert.NotContains(t, string(content), "oh-my-zsh.sh")
		assert.NotContains(t, string(content), "alias ll")
	})

	t.Run("remove then write round trip", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), ".zshrc")
		require.NoError(t, os.WriteFile(path, []byte("mine\n"), 0o644))

		require.NoError(t, Write(path, section))
		require.NoError(t, Remove(path))

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "mine\n", string(content))
	})
}

func TestSection_RenderOrderIsFixed(t *testing.T) {
	t.Parallel()

	full := Section{
		OhMyZsh:               true,
		OhMyZshDir:            "/home/u/.oh-my-zsh",
		Completions:           true,
		CompletionsDir:        "/p/zsh-completions",
		Autosuggestions:       true,
		AutosuggestionsDir:    "/p/zsh-autosuggestions",
		Aliases:               true,
		History:               true,
		SyntaxHighlighting:    true,
		SyntaxHighlightingDir: "/p/zsh-syntax-highlighting",
	}

	rendered := full.Render()

	// Syntax highlighting must come last, after every other fragment.
	idxAuto := strings.Index(rendered, "zsh-autosuggestions.zsh")
	idxHighlight := strings.Index(rendered, "zsh-syntax-highlighting.zsh")
	idxOhMyZsh := strings.Index(rendered, "oh-my-zsh.sh")
	require.True(t, idxAuto > 0 && idxHighlight > 0 && idxOhMyZsh > 0)
	assert.Greater(t, idxHighlight, idxAuto)
	assert.Greater(t, idxAuto, idxOhMyZsh)
}

func TestPresent(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ".zshrc")
	assert.False(t, Present(path))

	require.NoError(t, os.WriteFile(path, []byte("plain\n"), 0o644))
	assert.False(t, Present(path))

	require.NoError(t, Write(path, Section{Aliases: true}))
	assert.True(t, Present(path))
}
