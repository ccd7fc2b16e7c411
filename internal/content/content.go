// Package content loads page fragments from a content directory. Each
// *.html file is one page; its bytes become the children handed to the
// shell, untouched.
package content

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/a-h/templ"

	"github.com/conneroisu/hikes/internal/errors"
)

// Extension is the file extension of page fragments.
const Extension = ".html"

// Page is one loaded fragment.
type Page struct {
	// Slug is the URL path of the page without leading or trailing
	// slashes. The root page has an empty slug.
	Slug    string
	Path    string
	Body    []byte
	ModTime time.Time
}

// Component returns the page body as shell children.
func (p Page) Component() templ.Component {
	return templ.Raw(string(p.Body))
}

// URLPath returns the path the page is served under.
func (p Page) URLPath() string {
	if p.Slug == "" {
		return "/"
	}
	return "/" + p.Slug
}

// Load reads every page below dir, sorted by slug.
func Load(dir string) ([]Page, error) {
	return LoadFS(os.DirFS(dir), dir)
}

// LoadFS reads every page in fsys. root is only used for Page.Path.
func LoadFS(fsys fs.FS, root string) ([]Page, error) {
	var pages []Page

	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return errors.WrapIO(err, errors.IOCode(err), "walking content").WithPath(filepath.Join(root, filepath.FromSlash(p)))
		}
		name := d.Name()
		if p != "." && strings.HasPrefix(name, ".") {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || path.Ext(name) != Extension {
			return nil
		}

		body, err := fs.ReadFile(fsys, p)
		if err != nil {
			return errors.WrapIO(err, errors.IOCode(err), "reading page").WithPath(p)
		}
		info, err := d.Info()
		if err != nil {
			return errors.WrapIO(err, errors.IOCode(err), "stat page").WithPath(p)
		}

		pages = append(pages, Page{
			Slug:    SlugFor(p),
			Path:    filepath.Join(root, filepath.FromSlash(p)),
			Body:    body,
			ModTime: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(pages, func(i, j int) bool { return pages[i].Slug < pages[j].Slug })

	for i := 1; i < len(pages); i++ {
		if pages[i].Slug == pages[i-1].Slug {
			return nil, errors.NewValidationError(errors.ErrCodeValidationFailed,
				"two files map to the same page: "+pages[i-1].Path+", "+pages[i].Path)
		}
	}

	return pages, nil
}

// SlugFor maps a slash-separated file path relative to the content root
// to its slug: "index.html" is the root, "a/index.html" is "a", and
// "a/b.html" is "a/b".
func SlugFor(rel string) string {
	slug := strings.TrimSuffix(rel, Extension)
	if slug == "index" {
		return ""
	}
	return strings.TrimSuffix(slug, "/index")
}

// Find returns the page with slug.
func Find(pages []Page, slug string) (Page, error) {
	slug, err := CleanSlug(slug)
	if err != nil {
		return Page{}, err
	}
	i := sort.Search(len(pages), func(i int) bool { return pages[i].Slug >= slug })
	if i < len(pages) && pages[i].Slug == slug {
		return pages[i], nil
	}
	return Page{}, errors.ErrPageNotFound(slug)
}

// CleanSlug normalizes a request path into a slug and rejects traversal.
func CleanSlug(p string) (string, error) {
	trimmed := strings.Trim(p, "/")
	if trimmed == "" {
		return "", nil
	}
	for _, part := range strings.Split(trimmed, "/") {
		if part == ".." {
			return "", errors.ErrPathTraversal(p)
		}
	}
	slug := strings.Trim(path.Clean("/"+trimmed), "/")
	return SlugFor(strings.TrimSuffix(slug, Extension) + Extension), nil
}

// Within reports whether target is dir itself or lies below it.
func Within(dir, target string) bool {
	rel, err := filepath.Rel(filepath.Clean(dir), filepath.Clean(target))
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
