// Package document is the hosting side of the page shell. It reads the
// site metadata, builds the head element, and renders complete HTML
// documents by handing every page's content to the shell as children.
package document

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/a-h/templ"

	"github.com/conneroisu/hikes/internal/site"
)

// Document renders full pages around the shell.
type Document struct {
	shell       *site.Shell
	meta        site.PageMetadata
	stylesheets []string
	extraHead   []templ.Component
}

// Option configures a Document.
type Option func(*Document)

// WithStylesheet links an external stylesheet from the head.
func WithStylesheet(href string) Option {
	return func(d *Document) {
		if href != "" {
			d.stylesheets = append(d.stylesheets, href)
		}
	}
}

// WithHeadComponent appends c to the end of the head element.
func WithHeadComponent(c templ.Component) Option {
	return func(d *Document) {
		if c != nil {
			d.extraHead = append(d.extraHead, c)
		}
	}
}

// New creates a Document for shell.
func New(shell *site.Shell, opts ...Option) *Document {
	d := &Document{
		shell: shell,
		meta:  site.Metadata(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Metadata returns the record used for the head.
func (d *Document) Metadata() site.PageMetadata {
	return d.meta
}

// Head returns the head element.
func (d *Document) Head() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<head><meta charset="utf-8">`)
		b.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		b.WriteString(`<title>` + templ.EscapeString(d.meta.Title) + `</title>`)
		b.WriteString(`<meta name="description" content="` + templ.EscapeString(d.meta.Description) + `">`)
		for _, href := range d.stylesheets {
			b.WriteString(`<link rel="stylesheet" href="` + templ.EscapeString(href) + `">`)
		}
		if css := d.shell.Font().Stylesheet; css != "" {
			b.WriteString(`<style>` + strings.ReplaceAll(css, "</", `<\/`) + `</style>`)
		}
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}

		for _, c := range d.extraHead {
			if err := c.Render(ctx, w); err != nil {
				return err
			}
		}

		_, err := io.WriteString(w, `</head>`)
		return err
	})
}

// Page returns the complete document for children, doctype included.
func (d *Document) Page(children templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return d.Render(ctx, w, children)
	})
}

// Render writes the complete document for children to w.
func (d *Document) Render(ctx context.Context, w io.Writer, children templ.Component) error {
	if _, err := io.WriteString(w, "<!DOCTYPE html>"); err != nil {
		return err
	}
	return d.shell.Render(site.WithHead(ctx, d.Head()), w, children)
}

// Handler serves the document for children over HTTP.
func (d *Document) Handler(children templ.Component, options ...func(*templ.ComponentHandler)) http.Handler {
	return templ.Handler(d.Page(children), options...)
}
