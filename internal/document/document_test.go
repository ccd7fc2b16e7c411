package document

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/conneroisu/hikes/internal/font"
	"github.com/conneroisu/hikes/internal/site"
)

func newTestDocument(t *testing.T, opts ...Option) *Document {
	t.Helper()
	shell, err := site.New(font.NewGoogleLoader())
	require.NoError(t, err)
	return New(shell, opts...)
}

func parse(t *testing.T, s string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(s))
	require.NoError(t, err)
	return doc
}

func find(n *html.Node, match func(*html.Node) bool) *html.Node {
	if match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := find(c, match); found != nil {
			return found
		}
	}
	return nil
}

func element(tag string) func(*html.Node) bool {
	return func(n *html.Node) bool { return n.Type == html.ElementNode && n.Data == tag }
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func TestRenderDocument(t *testing.T) {
	doc := newTestDocument(t)

	var buf bytes.Buffer
	require.NoError(t, doc.Render(context.Background(), &buf, templ.Raw("<p>hello</p>")))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html><html lang=\"en\""))
	assert.Contains(t, out, "<p>hello</p></body></html>")

	root := parse(t, out)

	title := find(root, element("title"))
	require.NotNil(t, title)
	assert.Equal(t, "TRG's Solidity Learning Hikes", title.FirstChild.Data)

	desc := find(root, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "meta" && attr(n, "name") == "description"
	})
	require.NotNil(t, desc)
	assert.Equal(t, "A collection of code walkthroughs for learning Solidity", attr(desc, "content"))

	style := find(root, element("style"))
	require.NotNil(t, style)
	assert.Contains(t, style.FirstChild.Data, "fonts.googleapis.com")
}

func TestHeadEscapesTitle(t *testing.T) {
	doc := newTestDocument(t)

	var buf bytes.Buffer
	require.NoError(t, doc.Head().Render(context.Background(), &buf))
	assert.Contains(t, buf.String(), "<title>TRG&#39;s Solidity Learning Hikes</title>")
}

func TestOptions(t *testing.T) {
	doc := newTestDocument(t,
		WithStylesheet("/globals.css"),
		WithStylesheet(""),
		WithHeadComponent(templ.Raw(`<script src="/reload.js"></script>`)),
		WithHeadComponent(nil),
	)

	var buf bytes.Buffer
	require.NoError(t, doc.Head().Render(context.Background(), &buf))
	out := buf.String()

	assert.Equal(t, 1, strings.Count(out, `<link rel="stylesheet"`))
	assert.Contains(t, out, `<link rel="stylesheet" href="/globals.css">`)
	assert.True(t, strings.HasSuffix(out, `<script src="/reload.js"></script></head>`))
}

func TestHandler(t *testing.T) {
	doc := newTestDocument(t)

	rec := httptest.NewRecorder()
	doc.Handler(templ.Raw("<p>served</p>")).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "<p>served</p></body></html>")
}

func TestMetadataMatchesSite(t *testing.T) {
	doc := newTestDocument(t)
	assert.Equal(t, site.Metadata(), doc.Metadata())
}
