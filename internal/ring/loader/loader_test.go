package loader

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/firechicken/internal/domain/ring"
)

const ringTOML = `
[[members]]
slug = "arne"
url = "https://arne.me"
name = "Arne Bahlo"
joined = 2023-11-13

[[members.feeds]]
xml_url = "https://arne.me/blog/atom.xml"
title = "Arne's Blog"
html_url = "https://arne.me/blog"

[[members.feeds]]
xml_url = "https://arne.me/weekly/atom.xml"

[[members]]
slug = "broken"
url = "https://broken.example.com"
name = "Broken Site"
joined = 2023-12-01
invalid = true

[[members]]
slug = "jan"
url = "https://jan.example.org/"
name = "Jan"
joined = "2024-02-29"
`

const ringYAML = `
members:
  - slug: arne
    url: https://arne.me
    name: Arne Bahlo
    joined: 2023-11-13
    feeds:
      - xml_url: https://arne.me/blog/atom.xml
        title: Arne's Blog
  - slug: jan
    url: https://jan.example.org/
    name: Jan
    joined: "2024-02-29"
    invalid: true
`

const ringJSONC = `{
  // founding member
  "members": [
    {
      "slug": "arne",
      "url": "https://arne.me",
      "name": "Arne Bahlo",
      "joined": "2023-11-13",
      "feeds": [{"xml_url": "https://arne.me/blog/atom.xml"}],
    },
  ],
}`

func slugs(r *ring.Ring) []string {
	out := make([]string, 0, r.Len())
	for _, m := range r.Members() {
		out = append(out, m.Slug)
	}
	return out
}

func TestLoad_TOML(t *testing.T) {
	fsys := fstest.MapFS{"firechicken.toml": {Data: []byte(ringTOML)}}

	r, err := Load(fsys, "firechicken.toml")

	require.NoError(t, err)
	require.Equal(t, []string{"arne", "broken", "jan"}, slugs(r))

	arne, ok := r.Find("arne")
	require.True(t, ok)
	require.Equal(t, "Arne Bahlo", arne.Name)
	require.Equal(t, "arne.me", arne.Host())
	require.Equal(t, "2023-11-13", arne.Joined.Format(ring.DateLayout))
	require.Len(t, arne.Feeds, 2)
	require.Equal(t, "Arne's Blog", arne.Feeds[0].Title)
	require.Equal(t, "https://arne.me/blog", arne.Feeds[0].HTMLURL.String())
	require.Nil(t, arne.Feeds[1].HTMLURL)

	broken, ok := r.Find("broken")
	require.True(t, ok)
	require.True(t, broken.Invalid)
	require.Empty(t, broken.Feeds)

	jan, _ := r.Find("jan")
	require.Equal(t, "2024-02-29", jan.Joined.Format(ring.DateLayout))
}

func TestLoad_YAML(t *testing.T) {
	fsys := fstest.MapFS{"ring/members.yml": {Data: []byte(ringYAML)}}

	r, err := Load(fsys, "ring/members.yml")

	require.NoError(t, err)
	require.Equal(t, []string{"arne", "jan"}, slugs(r))
	arne, _ := r.Find("arne")
	require.Equal(t, "2023-11-13", arne.Joined.Format(ring.DateLayout))
	jan, _ := r.Find("jan")
	require.True(t, jan.Invalid)
}

func TestLoad_JSONC(t *testing.T) {
	fsys := fstest.MapFS{"ring.jsonc": {Data: []byte(ringJSONC)}}

	r, err := Load(fsys, "ring.jsonc")

	require.NoError(t, err)
	require.Equal(t, []string{"arne"}, slugs(r))
}

func TestLoad_EmptyDocuments(t *testing.T) {
	fsys := fstest.MapFS{
		"empty.toml": {Data: []byte("")},
		"empty.yaml": {Data: []byte("")},
		"empty.json": {Data: []byte(`{"members": []}`)},
	}

	for _, name := range []string{"empty.toml", "empty.yaml", "empty.json"} {
		t.Run(name, func(t *testing.T) {
			r, err := Load(fsys, name)
			require.NoError(t, err)
			require.Equal(t, 0, r.Len())
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(fstest.MapFS{}, "firechicken.toml")

	require.Error(t, err)
	require.NotErrorIs(t, err, ring.ErrMalformedInput)
	require.Contains(t, err.Error(), "read firechicken.toml")
}

func TestLoad_UnknownExtension(t *testing.T) {
	_, err := Load(fstest.MapFS{"ring.ini": {Data: []byte("")}}, "ring.ini")

	require.ErrorIs(t, err, ErrUnknownFormat)
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name        string
		doc         string
		errContains string
	}{
		{
			name: "bad url",
			doc: `[[members]]
slug = "a"
url = "not a url"
name = "A"
joined = 2023-01-01`,
			errContains: `member 0 (slug "a")`,
		},
		{
			name: "bad date",
			doc: `[[members]]
slug = "a"
url = "https://a.example.com"
name = "A"
joined = "yesterday"`,
			errContains: "YYYY-MM-DD",
		},
		{
			name: "missing date",
			doc: `[[members]]
slug = "a"
url = "https://a.example.com"
name = "A"`,
			errContains: "joined date is required",
		},
		{
			name: "duplicate slug",
			doc: `[[members]]
slug = "a"
url = "https://a.example.com"
name = "A"
joined = 2023-01-01

[[members]]
slug = "a"
url = "https://b.example.com"
name = "B"
joined = 2023-01-02`,
			errContains: "duplicate slug",
		},
		{
			name: "relative feed url",
			doc: `[[members]]
slug = "a"
url = "https://a.example.com"
name = "A"
joined = 2023-01-01
feeds = [{ xml_url = "/feed.xml" }]`,
			errContains: "feeds[0].xml_url",
		},
		{
			name: "unknown key",
			doc: `[[members]]
slug = "a"
url = "https://a.example.com"
name = "A"
joined = 2023-01-01
invlaid = true`,
			errContains: "malformed ring input",
		},
		{
			name:        "not toml at all",
			doc:         `members = [`,
			errContains: "malformed ring input",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc), FormatTOML)

			require.ErrorIs(t, err, ring.ErrMalformedInput)
			require.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestParse_YAMLUnknownKey(t *testing.T) {
	doc := `
members:
  - slug: a
    url: https://a.example.com
    name: A
    joined: 2023-01-01
    rss_feeds: []
`
	_, err := Parse([]byte(doc), FormatYAML)

	require.ErrorIs(t, err, ring.ErrMalformedInput)
	require.Contains(t, err.Error(), "rss_feeds")
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "firechicken.toml")
	require.NoError(t, os.WriteFile(path, []byte(ringTOML), 0o600))

	r, err := LoadFile(path)

	require.NoError(t, err)
	require.Equal(t, 3, r.Len())
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]Format{
		"firechicken.toml": FormatTOML,
		"ring.YAML":        FormatYAML,
		"ring.yml":         FormatYAML,
		"ring.json":        FormatJSON,
		"ring.jsonc":       FormatJSON,
	}
	for path, want := range tests {
		got, err := FormatFromPath(path)
		require.NoError(t, err, path)
		require.Equal(t, want, got, path)
	}

	_, err := FormatFromPath("ring")
	require.ErrorIs(t, err, ErrUnknownFormat)
}
