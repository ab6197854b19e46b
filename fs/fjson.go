package fs

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fwojciec/confpub"
	"github.com/go-git/go-billy/v5"
)

// Ensure FJSONProvider implements confpub.SourceProvider at compile time.
var _ confpub.SourceProvider = (*FJSONProvider)(nil)

// FJSONProvider reads sphinx fjson artifacts: JSON documents carrying the
// page title and rendered body.
type FJSONProvider struct {
	*Layout
	fs billy.Filesystem
}

// NewFJSONProvider creates a provider reading from fsys.
func NewFJSONProvider(fsys billy.Filesystem, c LayoutConfig) *FJSONProvider {
	return &FJSONProvider{
		Layout: NewLayout(c, FJSONDefaults),
		fs:     fsys,
	}
}

type fjsonDocument struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// ReadSource reads the title and body of the fjson document at path.
func (p *FJSONProvider) ReadSource(path string) (*confpub.Source, error) {
	f, err := Open(p.fs, path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var doc fjsonDocument
	if err := json.NewDecoder(f).Decode(&doc); err != nil {
		return nil, confpub.Errorf(confpub.EINVALID, "source %q: invalid fjson document: %v", path, err)
	}
	return &confpub.Source{Title: doc.Title, Body: doc.Body}, nil
}

// Open opens an attachment for reading.
func (p *FJSONProvider) Open(path string) (io.ReadCloser, error) {
	return Open(p.fs, path)
}

// Open opens path on fsys. Missing files are reported as ENOTFOUND.
func Open(fsys billy.Filesystem, path string) (billy.File, error) {
	f, err := fsys.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, confpub.Errorf(confpub.ENOTFOUND, "file not found: %s", path)
	} else if err != nil {
		return nil, fmt.Errorf("open %q: %w", path, err)
	}
	return f, nil
}
