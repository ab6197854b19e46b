package confpub

import (
	"context"
	"io"
	"strings"
)

// ContentTypePage is the type tag of wiki pages.
const ContentTypePage = "page"

// Page is the remote projection of a wiki page.
type Page struct {
	ID       int
	Type     string
	Version  int
	SpaceKey string

	// Ancestors are ordered root to parent; the last entry is the
	// immediate parent.
	Ancestors []Ancestor

	Title string
	Body  string // storage format markup
}

// Ancestor references a page in the ancestor chain of another page.
type Ancestor struct {
	ID   int
	Type string
}

// Parent returns the immediate parent of the page.
// Returns false for root pages.
func (p *Page) Parent() (Ancestor, bool) {
	if len(p.Ancestors) == 0 {
		return Ancestor{}, false
	}
	return p.Ancestors[len(p.Ancestors)-1], true
}

// Clone returns a deep copy of the page.
func (p *Page) Clone() *Page {
	other := *p
	other.Ancestors = append([]Ancestor(nil), p.Ancestors...)
	return &other
}

// PageState is the state of a page in the synchronization engine.
type PageState string

// PageState constants.
const (
	StateNeedsCreate      PageState = "needs_create"
	StateNeedsUpdateCheck PageState = "needs_update_check"
	StateUpToDate         PageState = "up_to_date"
	StateUpdated          PageState = "updated"
	StateSkipped          PageState = "skipped"
	StateCreated          PageState = "created"
)

// ContentGateway creates, updates and fetches wiki content by identifier.
type ContentGateway interface {
	// LoadPage fetches a page with its ancestors, version, space and body.
	// Returns ENOTFOUND if the page does not exist.
	LoadPage(ctx context.Context, id int) (*Page, error)

	// CreatePage creates a page under the immediate parent in page.Ancestors
	// and returns the new identifier.
	CreatePage(ctx context.Context, page *Page) (int, error)

	// UpdatePage stores page with page.Version as the new version number.
	// The remote system rejects versions other than current + 1.
	UpdatePage(ctx context.Context, page *Page) (int, error)

	// ListAttachments returns the attachments of a page.
	ListAttachments(ctx context.Context, pageID int) ([]*Attachment, error)

	// UploadAttachment adds a new attachment to a page.
	UploadAttachment(ctx context.Context, pageID int, filename string, r io.Reader) (*Attachment, error)
}

// Source is the title and body of a build artifact.
type Source struct {
	Title string
	Body  string
}

// SourceProvider resolves logical source and attachment names to build
// artifacts on disk.
type SourceProvider interface {
	// SourcePath returns the path of the artifact for a logical source name.
	SourcePath(name string) string

	// ReadSource reads the title and body of the artifact at path.
	ReadSource(path string) (*Source, error)

	// ImagePath returns the path of an image attachment.
	ImagePath(name string) string

	// DownloadPath returns the path of a download attachment.
	DownloadPath(name string) string

	// Open opens an attachment file for reading.
	Open(path string) (io.ReadCloser, error)
}

// BodyComparator decides whether two storage format fragments are
// semantically identical.
type BodyComparator interface {
	Equal(old, new string) (bool, error)
}

// StripWhitespace removes every whitespace character from s.
func StripWhitespace(s string) string {
	return strings.Join(strings.Fields(s), "")
}
