// Package font resolves web font families into a CSS class token and the
// stylesheet that defines it.
//
// A Loader is injected into the page shell at start-up; the shell only
// ever sees the resulting class name. GoogleLoader works offline: it
// validates the request against a small catalog and emits a css2 import
// URL together with a class rule, so rendering never touches the network.
package font

import (
	"fmt"
	"hash/crc32"
	"net/url"
	"slices"
	"strings"

	"github.com/conneroisu/hikes/internal/errors"
)

// Options selects the variant of a family to load.
type Options struct {
	Subsets []string
	Weights []string
	Display string
}

// Face is a loaded font family.
type Face struct {
	Family     string
	ClassName  string
	Subsets    []string
	Stylesheet string
}

// Loader maps a family name and options to a Face.
type Loader interface {
	Load(family string, opts Options) (*Face, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(family string, opts Options) (*Face, error)

// Load calls f.
func (f LoaderFunc) Load(family string, opts Options) (*Face, error) {
	return f(family, opts)
}

type familyInfo struct {
	fallback string
	subsets  []string
	weights  []string
}

var catalog = map[string]familyInfo{
	"Inter": {
		fallback: "system-ui, -apple-system, Segoe UI, Roboto, Helvetica, Arial, sans-serif",
		subsets:  []string{"cyrillic", "cyrillic-ext", "greek", "greek-ext", "latin", "latin-ext", "vietnamese"},
		weights:  []string{"100", "200", "300", "400", "500", "600", "700", "800", "900"},
	},
	"JetBrains Mono": {
		fallback: "ui-monospace, SFMono-Regular, Menlo, Consolas, monospace",
		subsets:  []string{"cyrillic", "cyrillic-ext", "greek", "latin", "latin-ext", "vietnamese"},
		weights:  []string{"100", "200", "300", "400", "500", "600", "700", "800"},
	},
	"Roboto Mono": {
		fallback: "ui-monospace, SFMono-Regular, Menlo, Consolas, monospace",
		subsets:  []string{"cyrillic", "cyrillic-ext", "greek", "latin", "latin-ext", "vietnamese"},
		weights:  []string{"100", "200", "300", "400", "500", "600", "700"},
	},
	"Source Serif 4": {
		fallback: "Georgia, Cambria, Times New Roman, serif",
		subsets:  []string{"cyrillic", "cyrillic-ext", "greek", "latin", "latin-ext", "vietnamese"},
		weights:  []string{"200", "300", "400", "500", "600", "700", "800", "900"},
	},
}

var displayValues = []string{"auto", "block", "swap", "fallback", "optional"}

const cssBaseURL = "https://fonts.googleapis.com/css2"

// GoogleLoader resolves Google-hosted families without fetching them.
type GoogleLoader struct {
	crcTable *crc32.Table
}

// NewGoogleLoader creates a GoogleLoader.
func NewGoogleLoader() *GoogleLoader {
	return &GoogleLoader{crcTable: crc32.MakeTable(crc32.Castagnoli)}
}

// Families lists the families the loader knows, sorted.
func (g *GoogleLoader) Families() []string {
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Load validates the request and builds the Face.
func (g *GoogleLoader) Load(family string, opts Options) (*Face, error) {
	info, ok := catalog[family]
	if !ok {
		return nil, errors.NewValidationError(errors.ErrCodeFontUnavailable, "unknown font family: "+family).
			WithContext("family", family)
	}

	if len(opts.Subsets) == 0 {
		return nil, errors.NewValidationError(errors.ErrCodeFontUnavailable, "at least one subset is required").
			WithContext("family", family)
	}

	subsets := normalize(opts.Subsets)
	for _, subset := range subsets {
		if !slices.Contains(info.subsets, subset) {
			return nil, errors.NewValidationError(errors.ErrCodeFontUnavailable,
				fmt.Sprintf("subset %q is not available for %s", subset, family)).
				WithContext("family", family).
				WithContext("subset", subset)
		}
	}

	weights := normalize(opts.Weights)
	for _, weight := range weights {
		if !slices.Contains(info.weights, weight) {
			return nil, errors.NewValidationError(errors.ErrCodeFontUnavailable,
				fmt.Sprintf("weight %q is not available for %s", weight, family)).
				WithContext("family", family).
				WithContext("weight", weight)
		}
	}

	display := opts.Display
	if display == "" {
		display = "swap"
	}
	if !slices.Contains(displayValues, display) {
		return nil, errors.NewValidationError(errors.ErrCodeFontUnavailable, "invalid font-display value: "+display)
	}

	className := g.className(family, subsets, weights)

	return &Face{
		Family:     family,
		ClassName:  className,
		Subsets:    subsets,
		Stylesheet: stylesheet(family, info.fallback, className, subsets, weights, display),
	}, nil
}

// className derives a stable token from everything that changes the face.
func (g *GoogleLoader) className(family string, subsets, weights []string) string {
	key := family + "|" + strings.Join(subsets, ",") + "|" + strings.Join(weights, ",")
	sum := crc32.Checksum([]byte(key), g.crcTable)
	return fmt.Sprintf("__className_%06x", sum&0xffffff)
}

func stylesheet(family, fallback, className string, subsets, weights []string, display string) string {
	param := family
	if len(weights) > 0 {
		param += ":wght@" + strings.Join(weights, ";")
	}

	query := url.Values{}
	query.Set("family", param)
	query.Set("display", display)
	query.Set("subset", strings.Join(subsets, ","))

	var b strings.Builder
	fmt.Fprintf(&b, "@import url('%s?%s');\n", cssBaseURL, query.Encode())
	fmt.Fprintf(&b, ".%s{font-family:'%s', %s;font-style:normal}\n", className, family, fallback)
	return b.String()
}

// normalize lowercases, trims, dedupes and sorts values so equal option
// sets always produce the same face.
func normalize(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" || slices.Contains(out, v) {
			continue
		}
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}

// StaticLoader always returns the same face, whatever is requested.
type StaticLoader struct {
	Face Face
}

// Load returns a copy of the configured face.
func (s StaticLoader) Load(family string, opts Options) (*Face, error) {
	face := s.Face
	if face.Family == "" {
		face.Family = family
	}
	face.Subsets = slices.Clone(face.Subsets)
	return &face, nil
}
