// Package slog provides logging decorators for confpub services using
// the standard structured logger.
package slog

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/confpub"
)

// Ensure LoggingGateway implements confpub.ContentGateway.
var _ confpub.ContentGateway = (*LoggingGateway)(nil)

// LoggingGateway wraps a ContentGateway and logs every remote call.
// Reads are logged at debug level, writes at info level.
type LoggingGateway struct {
	next   confpub.ContentGateway
	logger *slog.Logger
}

// NewLoggingGateway creates a new LoggingGateway.
func NewLoggingGateway(next confpub.ContentGateway, logger *slog.Logger) *LoggingGateway {
	return &LoggingGateway{next: next, logger: logger}
}

// LoadPage delegates to the wrapped gateway and logs the operation.
func (g *LoggingGateway) LoadPage(ctx context.Context, id int) (page *confpub.Page, err error) {
	defer func(begin time.Time) {
		attrs := []any{"id", id, "duration", time.Since(begin), "err", err}
		if page != nil {
			attrs = append(attrs, "version", page.Version)
		}
		g.logger.Debug("load page", attrs...)
	}(time.Now())
	return g.next.LoadPage(ctx, id)
}

// CreatePage delegates to the wrapped gateway and logs the operation.
func (g *LoggingGateway) CreatePage(ctx context.Context, page *confpub.Page) (id int, err error) {
	defer func(begin time.Time) {
		g.logger.Info("create page",
			"title", page.Title,
			"id", id,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return g.next.CreatePage(ctx, page)
}

// UpdatePage delegates to the wrapped gateway and logs the operation.
func (g *LoggingGateway) UpdatePage(ctx context.Context, page *confpub.Page) (id int, err error) {
	defer func(begin time.Time) {
		g.logger.Info("update page",
			"id", page.ID,
			"title", page.Title,
			"version", page.Version,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return g.next.UpdatePage(ctx, page)
}

// ListAttachments delegates to the wrapped gateway and logs the operation.
func (g *LoggingGateway) ListAttachments(ctx context.Context, pageID int) (attachments []*confpub.Attachment, err error) {
	defer func(begin time.Time) {
		g.logger.Debug("list attachments",
			"page_id", pageID,
			"count", len(attachments),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return g.next.ListAttachments(ctx, pageID)
}

// UploadAttachment delegates to the wrapped gateway and logs the operation.
func (g *LoggingGateway) UploadAttachment(ctx context.Context, pageID int, filename string, r io.Reader) (attachment *confpub.Attachment, err error) {
	defer func(begin time.Time) {
		g.logger.Info("upload attachment",
			"page_id", pageID,
			"filename", filename,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return g.next.UploadAttachment(ctx, pageID, filename, r)
}
