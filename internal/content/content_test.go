package content

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/hikes/internal/errors"
)

func TestSlugFor(t *testing.T) {
	tests := map[string]string{
		"index.html":            "",
		"storage.html":          "storage",
		"hikes/index.html":      "hikes",
		"hikes/erc20.html":      "hikes/erc20",
		"hikes/deep/index.html": "hikes/deep",
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, SlugFor(in))
		})
	}
}

func TestLoadFS(t *testing.T) {
	fsys := fstest.MapFS{
		"index.html":          {Data: []byte("<p>home</p>")},
		"hikes/erc20.html":    {Data: []byte("<h1>ERC20</h1>")},
		"hikes/storage.html":  {Data: []byte("<h1>Storage</h1>")},
		"notes.md":            {Data: []byte("# ignored")},
		".drafts/secret.html": {Data: []byte("hidden")},
		".hidden.html":        {Data: []byte("hidden")},
	}

	pages, err := LoadFS(fsys, "content")
	require.NoError(t, err)
	require.Len(t, pages, 3)

	assert.Equal(t, "", pages[0].Slug)
	assert.Equal(t, "hikes/erc20", pages[1].Slug)
	assert.Equal(t, "hikes/storage", pages[2].Slug)
	assert.Equal(t, filepath.Join("content", "hikes", "erc20.html"), pages[1].Path)
	assert.Equal(t, []byte("<h1>ERC20</h1>"), pages[1].Body)
	assert.Equal(t, "/", pages[0].URLPath())
	assert.Equal(t, "/hikes/storage", pages[2].URLPath())
}

func TestLoadFSDuplicateSlug(t *testing.T) {
	fsys := fstest.MapFS{
		"hikes.html":       {Data: []byte("a")},
		"hikes/index.html": {Data: []byte("b")},
	}

	_, err := LoadFS(fsys, "content")
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<p>hello</p>"), 0o644))

	pages, err := Load(dir)
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, filepath.Join(dir, "index.html"), pages[0].Path)
	assert.False(t, pages[0].ModTime.IsZero())

	empty, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestLoadMissingDirectory(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.ErrorIs(t, err, &errors.HikesError{Type: errors.ErrorTypeIO, Code: errors.ErrCodeFileNotFound})
}

func TestComponentIsVerbatim(t *testing.T) {
	page := Page{Body: []byte("<p>a & b</p><script>x()</script>")}

	var buf bytes.Buffer
	require.NoError(t, page.Component().Render(context.Background(), &buf))
	assert.Equal(t, string(page.Body), buf.String())
}

func TestCleanSlug(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"/", "", false},
		{"", "", false},
		{"/hikes/erc20", "hikes/erc20", false},
		{"/hikes/erc20/", "hikes/erc20", false},
		{"/hikes//erc20.html", "hikes/erc20", false},
		{"/hikes/./erc20", "hikes/erc20", false},
		{"/index", "", false},
		{"/index.html", "", false},
		{"/hikes/index", "hikes", false},
		{"/hikes/index.html", "hikes", false},
		{"/hikes/indexing", "hikes/indexing", false},
		{"/../etc/passwd", "", true},
		{"/hikes/../../x", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := CleanSlug(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsSecurityError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFind(t *testing.T) {
	pages := []Page{{Slug: ""}, {Slug: "a"}, {Slug: "b/c"}}

	page, err := Find(pages, "/b/c")
	require.NoError(t, err)
	assert.Equal(t, "b/c", page.Slug)

	page, err = Find(pages, "/")
	require.NoError(t, err)
	assert.Equal(t, "", page.Slug)

	_, err = Find(pages, "/missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "page not found")
}

func TestFindFoldsIndex(t *testing.T) {
	pages, err := LoadFS(fstest.MapFS{
		"hikes/index.html": {Data: []byte("<h1>Hikes</h1>")},
	}, "content")
	require.NoError(t, err)

	for _, url := range []string{"/hikes", "/hikes/", "/hikes/index", "/hikes/index.html"} {
		page, err := Find(pages, url)
		require.NoError(t, err, url)
		assert.Equal(t, "hikes", page.Slug)
	}
}

func TestWithin(t *testing.T) {
	tests := []struct {
		dir, target string
		want        bool
	}{
		{"dist", "dist", true},
		{"dist", "./dist/", true},
		{"dist", "dist/pages", true},
		{"dist", filepath.Join("dist", "pages", "a.html"), true},
		{"dist", "content", false},
		{"dist", "distribution", false},
		{"dist/pages", "dist", false},
		{"dist", "../dist", false},
	}
	for _, tt := range tests {
		t.Run(tt.dir+"_"+tt.target, func(t *testing.T) {
			assert.Equal(t, tt.want, Within(tt.dir, tt.target))
		})
	}
}
