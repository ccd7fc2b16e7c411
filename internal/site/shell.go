// Package site defines the root shell shared by every page of the Solidity
// Learning Hikes site, along with the site metadata record.
//
// The shell is the outermost markup wrapper: an <html> element with a fixed
// language and theme classes, and a single <body> carrying the font class.
// Children are written into the body byte for byte. The shell keeps no
// state between renders, so the same children always produce the same
// output.
package site

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
	"golang.org/x/text/language"

	"github.com/conneroisu/hikes/internal/errors"
	"github.com/conneroisu/hikes/internal/font"
)

// FontFamily and FontSubsets describe the body font requested from the
// injected loader.
const FontFamily = "Inter"

var FontSubsets = []string{"latin"}

// Lang is the document language applied to the <html> element.
var Lang = language.English

// htmlClasses are the top-level class tokens: dark theme, background,
// typographic defaults, horizontal centering, vertical padding and the
// maximum width.
var htmlClasses = []string{
	"dark",
	"bg-zinc-950",
	"prose",
	"prose-invert",
	"mx-auto",
	"py-24",
	"max-w-5xl",
}

// HTMLClasses returns the class tokens applied to the <html> element.
func HTMLClasses() []string {
	return append([]string(nil), htmlClasses...)
}

// ShellProps is the input of one shell render.
type ShellProps struct {
	// Children is embedded unchanged inside <body>. When nil, children
	// passed through templ's block syntax are used; when there are none
	// the body is empty.
	Children templ.Component
}

// Shell renders the root document structure for every page.
type Shell struct {
	face *font.Face
}

// New loads the body font through loader and returns the shell. This is
// the only step that can fail.
func New(loader font.Loader) (*Shell, error) {
	if loader == nil {
		return nil, errors.NewConfigError(errors.ErrCodeFontUnavailable, "font loader is required")
	}

	face, err := loader.Load(FontFamily, font.Options{Subsets: FontSubsets})
	if err != nil {
		return nil, errors.WrapConfig(err, errors.ErrCodeFontUnavailable, "loading "+FontFamily)
	}
	if face == nil || face.ClassName == "" {
		return nil, errors.NewConfigError(errors.ErrCodeFontUnavailable, "font loader returned no class name for "+FontFamily)
	}

	return &Shell{face: face}, nil
}

// Font returns the face applied to <body>.
func (s *Shell) Font() font.Face {
	return *s.face
}

// Component returns the shell for props as a templ component.
func (s *Shell) Component(props ShellProps) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return s.render(ctx, w, props)
	})
}

// Render writes the shell around children to w.
func (s *Shell) Render(ctx context.Context, w io.Writer, children templ.Component) error {
	return s.render(ctx, w, ShellProps{Children: children})
}

func (s *Shell) render(ctx context.Context, w io.Writer, props ShellProps) error {
	children := props.Children
	if children == nil {
		children = templ.GetChildren(ctx)
	}
	ctx = templ.ClearChildren(ctx)

	var open strings.Builder
	open.WriteString(`<html lang="`)
	open.WriteString(templ.EscapeString(Lang.String()))
	open.WriteString(`" class="`)
	open.WriteString(templ.EscapeString(strings.Join(htmlClasses, " ")))
	open.WriteString(`">`)
	if _, err := io.WriteString(w, open.String()); err != nil {
		return err
	}

	if head := headFromContext(ctx); head != nil {
		if err := head.Render(ctx, w); err != nil {
			return err
		}
	}

	if _, err := io.WriteString(w, `<body class="`+templ.EscapeString(s.face.ClassName)+`">`); err != nil {
		return err
	}

	if children != nil {
		if err := children.Render(ctx, w); err != nil {
			return err
		}
	}

	_, err := io.WriteString(w, `</body></html>`)
	return err
}

type headKey struct{}

// WithHead attaches the head element the hosting layer wants rendered
// between <html> and <body>. The shell never builds a head itself.
func WithHead(ctx context.Context, head templ.Component) context.Context {
	return context.WithValue(ctx, headKey{}, head)
}

func headFromContext(ctx context.Context) templ.Component {
	head, _ := ctx.Value(headKey{}).(templ.Component)
	return head
}
