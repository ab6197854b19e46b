// Package goquery implements a source provider for sphinx html build
// output using github.com/PuerkitoBio/goquery.
package goquery

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/confpub"
	"github.com/fwojciec/confpub/fs"
	"github.com/go-git/go-billy/v5"
)

// Ensure HTMLProvider implements confpub.SourceProvider at compile time.
var _ confpub.SourceProvider = (*HTMLProvider)(nil)

// SphinxBodySelector selects the rendered document inside the classic and
// ReadTheDocs sphinx themes, leaving out navigation and sidebars.
const SphinxBodySelector = `div[role="main"] div.body, div.body`

// HTMLProvider reads full html pages and uses the page title and body
// content as the source.
type HTMLProvider struct {
	*fs.Layout
	fs       billy.Filesystem
	selector string
}

// Option configures an HTMLProvider.
type Option func(*HTMLProvider)

// WithContentSelector limits the body to the inner html of the first
// element matching selector. The whole <body> is used by default.
func WithContentSelector(selector string) Option {
	return func(p *HTMLProvider) {
		p.selector = selector
	}
}

// NewHTMLProvider creates a provider reading from fsys.
func NewHTMLProvider(fsys billy.Filesystem, c fs.LayoutConfig, opts ...Option) *HTMLProvider {
	p := &HTMLProvider{
		Layout:   fs.NewLayout(c, fs.HTMLDefaults),
		fs:       fsys,
		selector: "body",
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ReadSource reads the <title> text and the body of the html page at path.
func (p *HTMLProvider) ReadSource(path string) (*confpub.Source, error) {
	f, err := fs.Open(p.fs, path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return nil, confpub.Errorf(confpub.EINVALID, "source %q: failed to parse HTML: %v", path, err)
	}

	title := doc.Find("title").First()
	if title.Length() == 0 {
		return nil, confpub.Errorf(confpub.EINVALID, "source %q: missing <title>", path)
	}

	content := doc.Find(p.selector).First()
	if content.Length() == 0 {
		return nil, confpub.Errorf(confpub.EINVALID, "source %q: no element matches %q", path, p.selector)
	}
	body, err := content.Html()
	if err != nil {
		return nil, confpub.Errorf(confpub.EINVALID, "source %q: failed to render body: %v", path, err)
	}

	return &confpub.Source{
		Title: strings.TrimSpace(title.Text()),
		Body:  strings.TrimSpace(body),
	}, nil
}

// Open opens an attachment for reading.
func (p *HTMLProvider) Open(path string) (io.ReadCloser, error) {
	return fs.Open(p.fs, path)
}
