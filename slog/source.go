package slog

import (
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/confpub"
)

// Ensure LoggingSourceProvider implements confpub.SourceProvider.
var _ confpub.SourceProvider = (*LoggingSourceProvider)(nil)

// LoggingSourceProvider wraps a SourceProvider with debug logging of file
// reads. Path resolution is not logged.
type LoggingSourceProvider struct {
	next   confpub.SourceProvider
	logger *slog.Logger
}

// NewLoggingSourceProvider creates a new LoggingSourceProvider.
func NewLoggingSourceProvider(next confpub.SourceProvider, logger *slog.Logger) *LoggingSourceProvider {
	return &LoggingSourceProvider{next: next, logger: logger}
}

// SourcePath delegates to the wrapped provider.
func (p *LoggingSourceProvider) SourcePath(name string) string {
	return p.next.SourcePath(name)
}

// ImagePath delegates to the wrapped provider.
func (p *LoggingSourceProvider) ImagePath(name string) string {
	return p.next.ImagePath(name)
}

// DownloadPath delegates to the wrapped provider.
func (p *LoggingSourceProvider) DownloadPath(name string) string {
	return p.next.DownloadPath(name)
}

// ReadSource delegates to the wrapped provider and logs the operation.
func (p *LoggingSourceProvider) ReadSource(path string) (src *confpub.Source, err error) {
	defer func(begin time.Time) {
		attrs := []any{"path", path, "duration", time.Since(begin), "err", err}
		if src != nil {
			attrs = append(attrs, "title", src.Title, "bytes", len(src.Body))
		}
		p.logger.Debug("read source", attrs...)
	}(time.Now())
	return p.next.ReadSource(path)
}

// Open delegates to the wrapped provider and logs the operation.
func (p *LoggingSourceProvider) Open(path string) (rc io.ReadCloser, err error) {
	defer func(begin time.Time) {
		p.logger.Debug("open attachment",
			"path", path,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return p.next.Open(path)
}
