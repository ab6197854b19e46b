package mock

import (
	"context"
	"io"

	"github.com/fwojciec/confpub"
)

var _ confpub.ContentGateway = (*ContentGateway)(nil)

// ContentGateway is a mock implementation of confpub.ContentGateway.
type ContentGateway struct {
	LoadPageFn         func(ctx context.Context, id int) (*confpub.Page, error)
	CreatePageFn       func(ctx context.Context, page *confpub.Page) (int, error)
	UpdatePageFn       func(ctx context.Context, page *confpub.Page) (int, error)
	ListAttachmentsFn  func(ctx context.Context, pageID int) ([]*confpub.Attachment, error)
	UploadAttachmentFn func(ctx context.Context, pageID int, filename string, r io.Reader) (*confpub.Attachment, error)
}

func (g *ContentGateway) LoadPage(ctx context.Context, id int) (*confpub.Page, error) {
	return g.LoadPageFn(ctx, id)
}

func (g *ContentGateway) CreatePage(ctx context.Context, page *confpub.Page) (int, error) {
	return g.CreatePageFn(ctx, page)
}

func (g *ContentGateway) UpdatePage(ctx context.Context, page *confpub.Page) (int, error) {
	return g.UpdatePageFn(ctx, page)
}

func (g *ContentGateway) ListAttachments(ctx context.Context, pageID int) ([]*confpub.Attachment, error) {
	return g.ListAttachmentsFn(ctx, pageID)
}

func (g *ContentGateway) UploadAttachment(ctx context.Context, pageID int, filename string, r io.Reader) (*confpub.Attachment, error) {
	return g.UploadAttachmentFn(ctx, pageID, filename, r)
}
