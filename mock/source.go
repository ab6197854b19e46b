package mock

import (
	"io"

	"github.com/fwojciec/confpub"
)

var _ confpub.SourceProvider = (*SourceProvider)(nil)

// SourceProvider is a mock implementation of confpub.SourceProvider.
type SourceProvider struct {
	SourcePathFn   func(name string) string
	ReadSourceFn   func(path string) (*confpub.Source, error)
	ImagePathFn    func(name string) string
	DownloadPathFn func(name string) string
	OpenFn         func(path string) (io.ReadCloser, error)
}

func (p *SourceProvider) SourcePath(name string) string {
	return p.SourcePathFn(name)
}

func (p *SourceProvider) ReadSource(path string) (*confpub.Source, error) {
	return p.ReadSourceFn(path)
}

func (p *SourceProvider) ImagePath(name string) string {
	return p.ImagePathFn(name)
}

func (p *SourceProvider) DownloadPath(name string) string {
	return p.DownloadPathFn(name)
}

func (p *SourceProvider) Open(path string) (io.ReadCloser, error) {
	return p.OpenFn(path)
}
