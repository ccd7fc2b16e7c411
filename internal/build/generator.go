// Package build generates the static site: every content page rendered
// through the document and written to <out>/<slug>/index.html.
package build

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/conneroisu/hikes/internal/content"
	"github.com/conneroisu/hikes/internal/document"
	"github.com/conneroisu/hikes/internal/errors"
	"github.com/conneroisu/hikes/internal/logging"
)

// Options configures a Generator.
type Options struct {
	OutputDir string
	// ContentDir is the source directory; the output dir may not overlap it.
	ContentDir string
	// Clean removes the output directory before writing.
	Clean bool
}

// Generator writes rendered pages to disk.
type Generator struct {
	doc    *document.Document
	opts   Options
	logger logging.Logger
}

// NewGenerator creates a Generator. A nil logger discards output.
func NewGenerator(doc *document.Document, opts Options, logger logging.Logger) (*Generator, error) {
	if err := validateOutputDir(opts.OutputDir); err != nil {
		return nil, err
	}
	if opts.ContentDir != "" &&
		(content.Within(opts.OutputDir, opts.ContentDir) || content.Within(opts.ContentDir, opts.OutputDir)) {
		return nil, errors.ErrInvalidPath(opts.OutputDir).WithContext("reason", "output directory overlaps content directory "+opts.ContentDir)
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Generator{
		doc:    doc,
		opts:   opts,
		logger: logger.WithComponent("build"),
	}, nil
}

// OutputPath returns the file a page is written to.
func (g *Generator) OutputPath(page content.Page) string {
	if page.Slug == "" {
		return filepath.Join(g.opts.OutputDir, "index.html")
	}
	return filepath.Join(g.opts.OutputDir, filepath.FromSlash(page.Slug), "index.html")
}

// Generate renders pages in order and returns the written paths. It stops
// at the first failure or when ctx is done.
func (g *Generator) Generate(ctx context.Context, pages []content.Page) ([]string, error) {
	op := logging.StartOperation(g.logger, "generate")

	if g.opts.Clean {
		for _, page := range pages {
			if page.Path != "" && content.Within(g.opts.OutputDir, page.Path) {
				err := errors.ErrInvalidPath(page.Path).WithContext("reason", "source page lives inside the output directory")
				op.EndWithError(ctx, err)
				return nil, err
			}
		}
		if err := os.RemoveAll(g.opts.OutputDir); err != nil {
			return nil, errors.WrapIO(err, errors.IOCode(err), "cleaning output directory").WithPath(g.opts.OutputDir)
		}
	}

	written := make([]string, 0, len(pages))
	for _, page := range pages {
		if err := ctx.Err(); err != nil {
			op.EndWithError(ctx, err)
			return written, err
		}

		path, err := g.writePage(ctx, page)
		if err != nil {
			op.EndWithError(ctx, err)
			return written, err
		}
		g.logger.Debug(ctx, "Page written", "slug", page.Slug, "path", path)
		written = append(written, path)
	}

	op.End(ctx, "pages", len(written), "output_dir", g.opts.OutputDir)
	return written, nil
}

func (g *Generator) writePage(ctx context.Context, page content.Page) (string, error) {
	path := g.OutputPath(page)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", errors.WrapIO(err, errors.IOCode(err), "creating page directory").WithPath(path)
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return "", errors.WrapIO(err, errors.IOCode(err), "creating page file").WithPath(path)
	}

	w := bufio.NewWriter(f)
	renderErr := g.doc.Render(ctx, w, page.Component())
	if renderErr == nil {
		renderErr = w.Flush()
	}
	closeErr := f.Close()

	if renderErr != nil {
		_ = os.Remove(tmp)
		return "", errors.WrapRender(renderErr, "rendering page", page.URLPath())
	}
	if closeErr != nil {
		_ = os.Remove(tmp)
		return "", errors.WrapIO(closeErr, errors.IOCode(closeErr), "closing page file").WithPath(path)
	}

	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", errors.WrapIO(err, errors.IOCode(err), "moving page into place").WithPath(path)
	}

	return path, nil
}

// validateOutputDir rejects empty, absolute and traversing output paths
func validateOutputDir(dir string) error {
	if dir == "" {
		return errors.NewValidationError(errors.ErrCodeInvalidPath, "output directory is required")
	}

	clean := filepath.Clean(dir)
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return errors.ErrPathTraversal(dir)
	}
	if filepath.IsAbs(clean) {
		return errors.ErrInvalidPath(dir).WithContext("reason", "output directory should be relative")
	}
	if clean == "." {
		return errors.ErrInvalidPath(dir).WithContext("reason", "output directory cannot be the working directory")
	}

	return nil
}
