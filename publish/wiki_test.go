package publish_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/fwojciec/confpub"
	"github.com/fwojciec/confpub/mock"
)

// wiki is an in-memory remote used to observe the calls made by the
// engine.
type wiki struct {
	pages       map[int]*confpub.Page
	attachments map[int][]*confpub.Attachment
	nextID      int

	loads   []int
	creates []*confpub.Page
	updates []*confpub.Page
	lists   []int
	uploads []string
}

func newWiki(pages ...*confpub.Page) *wiki {
	w := &wiki{
		pages:       make(map[int]*confpub.Page),
		attachments: make(map[int][]*confpub.Attachment),
		nextID:      1000,
	}
	for _, p := range pages {
		w.pages[p.ID] = p
	}
	return w
}

func (w *wiki) gateway() *mock.ContentGateway {
	return &mock.ContentGateway{
		LoadPageFn: func(_ context.Context, id int) (*confpub.Page, error) {
			w.loads = append(w.loads, id)
			page, ok := w.pages[id]
			if !ok {
				return nil, confpub.Errorf(confpub.ENOTFOUND, "HTTP 404 for page %d", id)
			}
			return page.Clone(), nil
		},
		CreatePageFn: func(_ context.Context, page *confpub.Page) (int, error) {
			w.creates = append(w.creates, page.Clone())
			w.nextID++
			created := page.Clone()
			created.ID = w.nextID
			created.Version = 1
			w.pages[created.ID] = created
			return created.ID, nil
		},
		UpdatePageFn: func(_ context.Context, page *confpub.Page) (int, error) {
			w.updates = append(w.updates, page.Clone())
			current, ok := w.pages[page.ID]
			if !ok {
				return 0, confpub.Errorf(confpub.ENOTFOUND, "HTTP 404 for page %d", page.ID)
			}
			if page.Version != current.Version+1 {
				return 0, confpub.Errorf(confpub.ECONFLICT, "HTTP 409: version %d, current %d", page.Version, current.Version)
			}
			w.pages[page.ID] = page.Clone()
			return page.ID, nil
		},
		ListAttachmentsFn: func(_ context.Context, pageID int) ([]*confpub.Attachment, error) {
			w.lists = append(w.lists, pageID)
			return append([]*confpub.Attachment(nil), w.attachments[pageID]...), nil
		},
		UploadAttachmentFn: func(_ context.Context, pageID int, filename string, r io.Reader) (*confpub.Attachment, error) {
			if _, err := io.ReadAll(r); err != nil {
				return nil, err
			}
			w.uploads = append(w.uploads, filename)
			a := &confpub.Attachment{Title: filename}
			w.attachments[pageID] = append(w.attachments[pageID], a)
			return a, nil
		},
	}
}

// sources returns a provider serving the given sources by logical name.
func sources(t *testing.T, srcs map[string]*confpub.Source) *mock.SourceProvider {
	t.Helper()
	return &mock.SourceProvider{
		SourcePathFn:   func(name string) string { return "build/" + name + ".fjson" },
		ImagePathFn:    func(name string) string { return "build/_images/" + name },
		DownloadPathFn: func(name string) string { return "build/_downloads/" + name },
		ReadSourceFn: func(path string) (*confpub.Source, error) {
			for name, src := range srcs {
				if path == "build/"+name+".fjson" {
					return src, nil
				}
			}
			return nil, confpub.Errorf(confpub.ENOTFOUND, "file not found: %s", path)
		},
		OpenFn: func(path string) (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader("data of " + path)), nil
		},
	}
}

func intPtr(v int) *int { return &v }
