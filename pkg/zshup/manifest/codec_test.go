package manifest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zshup/zshup/pkg/zshup/ledger"
)

func testMetadata() Metadata {
	return Metadata{
		Version:    Version,
		RunID:      "7b00bd2c-2f9e-44a5-9f55-0a6f1c2a3b4c",
		CreatedAt:  time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC),
		OSName:     "linux",
		PkgManager: "apt",
	}
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	t.Parallel()

	cases := map[string]func() *ledger.Record{
		"empty record": ledger.New,
		"single entries": func() *ledger.Record {
			r := ledger.New()
			r.AddPackage("zsh")
			r.AddPlugin("/home/u/.local/share/zshup/plugins/zsh-autosuggestions")
			r.AddBackup("/home/u/.zshrc", "/home/u/.zshrc.1700000000.zshup.bak")
			r.AddModified("/home/u/.zshrc")
			return r
		},
		"many entries with flags": func() *ledger.Record {
			r := ledger.New()
			r.AddPackage("zsh")
			r.AddPackage("git")
			r.AddPackage("curl")
			r.AddPlugin("/a/zsh-autosuggestions")
			r.AddPlugin("/a/zsh-syntax-highlighting")
			r.AddBackup("/home/u/.zshrc", "/home/u/.zshrc.100.zshup.bak")
			r.AddBackup("/home/u/.profile", "/home/u/.profile.100.zshup.bak")
			r.AddModified("/home/u/.zshrc")
			r.SetOldShell("/bin/bash")
			r.MarkShellChanged()
			r.MarkOhMyZshInstalled()
			return r
		},
		"values with spaces and quotes": func() *ledger.Record {
			r := ledger.New()
			r.AddPlugin(`/home/my user/plugins/it's "quoted"`)
			r.AddBackup("/home/my user/.zshrc", "/home/my user/.zshrc.1.zshup.bak")
			r.SetOldShell("/bin/weird shell")
			return r
		},
	}

	for name, build := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			rec := build()
			meta := testMetadata()

			data, err := Encode(rec, meta)
			require.NoError(t, err)

			got, gotMeta, err := Decode(data)
			require.NoError(t, err)

			assert.Equal(t, rec, got)
			assert.Equal(t, meta, gotMeta)
		})
	}
}

func TestEncode_RejectsDelimiterValues(t *testing.T) {
	t.Parallel()

	for name, build := range map[string]func() *ledger.Record{
		"comma in package": func() *ledger.Record {
			r := ledger.New()
			r.AddPackage("zsh,git")
			return r
		},
		"semicolon in plugin path": func() *ledger.Record {
			r := ledger.New()
			r.AddPlugin("/plugins/a;b")
			return r
		},
		"pipe in backup path": func() *ledger.Record {
			r := ledger.New()
			r.AddBackup("/home/u/.zshrc", "/back|ups/.zshrc.bak")
			return r
		},
		"newline in modified path": func() *ledger.Record {
			r := ledger.New()
			r.AddModified("/home/u/.zsh\nrc")
			return r
		},
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := Encode(build(), testMetadata())
			assert.Error(t, err)
		})
	}
}

func TestEncode_RejectsNewlineInScalarFields(t *testing.T) {
	t.Parallel()

	// A hostile $SHELL could otherwise smuggle extra lines into the
	// manifest, which would encode fine and then never decode again.
	rec := ledger.New()
	rec.SetOldShell("/bin/bash\nPACKAGES_INSTALLED='evil'")
	_, err := Encode(rec, testMetadata())
	assert.Error(t, err)

	meta := testMetadata()
	meta.PkgManager = "apt\nOS_NAME='bogus'"
	_, err = Encode(ledger.New(), meta)
	assert.Error(t, err)
}

func TestDecode_MissingRequiredKeys(t *testing.T) {
	t.Parallel()

	data, err := Encode(ledger.New(), testMetadata())
	require.NoError(t, err)

	_, _, err = Decode([]byte("OS_NAME='linux'\n"))
	assert.ErrorIs(t, err, ErrCorrupt)

	// Sanity: the full encoding decodes fine.
	_, _, err = Decode(data)
	assert.NoError(t, err)
}

func TestDecode_BadContent(t *testing.T) {
	t.Parallel()

	for name, content := range map[string]string{
		"not an assignment":   "MANIFEST_VERSION\n",
		"unterminated quote":  "MANIFEST_VERSION='1\n",
		"non-integer version": "MANIFEST_VERSION='x'\nCREATED_AT='2026-03-14T09:26:53Z'\nOS_NAME='linux'\nPKG_MANAGER='apt'\n",
		"bad timestamp":       "MANIFEST_VERSION='1'\nCREATED_AT='yesterday'\nOS_NAME='linux'\nPKG_MANAGER='apt'\n",
		"bad backup pair":     "MANIFEST_VERSION='1'\nCREATED_AT='2026-03-14T09:26:53Z'\nOS_NAME='linux'\nPKG_MANAGER='apt'\nFILES_BACKED_UP='no-separator'\n",
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, _, err := Decode([]byte(content))
			assert.ErrorIs(t, err, ErrCorrupt)
		})
	}
}

func TestDecode_RunIDOptional(t *testing.T) {
	t.Parallel()

	content := "MANIFEST_VERSION='1'\n" +
		"CREATED_AT='2026-03-14T09:26:53Z'\n" +
		"OS_NAME='linux'\n" +
		"PKG_MANAGER='pacman'\n" +
		"PACKAGES_INSTALLED='zsh,fzf'\n"

	rec, meta, err := Decode([]byte(content))
	require.NoError(t, err)

	assert.Empty(t, meta.RunID)
	assert.Equal(t, "pacman", meta.PkgManager)
	assert.Equal(t, []string{"zsh", "fzf"}, rec.Packages)
}

func TestDecode_IgnoresCommentsAndBlankLines(t *testing.T) {
	t.Parallel()

	content := "# written by zshup\n\n" +
		"MANIFEST_VERSION='1'\n" +
		"CREATED_AT='2026-03-14T09:26:53Z'\n" +
		"OS_NAME='linux'\n" +
		"PKG_MANAGER='dnf'\n"

	_, meta, err := Decode([]byte(content))
	require.NoError(t, err)
	assert.Equal(t, "dnf", meta.PkgManager)
}

func TestQuoteUnquote(t *testing.T) {
	t.Parallel()

	for _, value := range []string{
		"",
		"plain",
		"with space",
		`with "double" quotes`,
		"with 'single' quotes",
		"it's a mix: \"both\" kinds",
		"delimiters , ; | survive quoting",
	} {
		quoted := quote(value)
		got, err := unquote(quoted)
		require.NoError(t, err, "value %q", value)
		assert.Equal(t, value, got)
	}
}
