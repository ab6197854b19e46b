// Package yaml reads and writes the declarative page tree document using
// gopkg.in/yaml.v3. JSON documents are accepted on read.
package yaml

import (
	"errors"
	"io"

	"github.com/fwojciec/confpub"
	"github.com/fwojciec/confpub/fs"
	"github.com/go-git/go-billy/v5"
	"gopkg.in/yaml.v3"
)

// document is the on-disk schema. Field order is the order fields are
// written in; empty fields are omitted.
type document struct {
	Version      *int    `yaml:"version"`
	URL          string  `yaml:"url,omitempty"`
	BaseDir      string  `yaml:"base_dir,omitempty"`
	DownloadsDir string  `yaml:"downloads_dir,omitempty"`
	ImagesDir    string  `yaml:"images_dir,omitempty"`
	SourceExt    string  `yaml:"source_ext,omitempty"`
	Pages        *[]page `yaml:"pages"`
}

type page struct {
	ID          *int         `yaml:"id,omitempty"`
	Title       string       `yaml:"title,omitempty"`
	Source      string       `yaml:"source,omitempty"`
	Link        string       `yaml:"link,omitempty"`
	Watermark   string       `yaml:"watermark,omitempty"`
	Attachments *attachments `yaml:"attachments,omitempty"`
	Pages       []page       `yaml:"pages,omitempty"`
}

type attachments struct {
	Images    []string `yaml:"images,omitempty"`
	Downloads []string `yaml:"downloads,omitempty"`
}

// Load decodes a document from r and validates it.
func Load(r io.Reader) (*confpub.Config, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); errors.Is(err, io.EOF) {
		return nil, confpub.Errorf(confpub.EINVALID, "`version` param is required")
	} else if err != nil {
		return nil, confpub.Errorf(confpub.EINVALID, "invalid config document: %v", err)
	}

	if doc.Version == nil {
		return nil, confpub.Errorf(confpub.EINVALID, "`version` param is required")
	}
	if *doc.Version != confpub.ConfigVersion {
		return nil, confpub.Errorf(confpub.EINVALID, "invalid config version %d, required: %d", *doc.Version, confpub.ConfigVersion)
	}
	if doc.Pages == nil {
		return nil, confpub.Errorf(confpub.EINVALID, "`pages` param is required")
	}

	cfg := &confpub.Config{
		URL:          doc.URL,
		BaseDir:      doc.BaseDir,
		DownloadsDir: doc.DownloadsDir,
		ImagesDir:    doc.ImagesDir,
		SourceExt:    doc.SourceExt,
		Pages:        toPageConfigs(*doc.Pages),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile loads the document at path on fsys.
func LoadFile(fsys billy.Filesystem, path string) (*confpub.Config, error) {
	f, err := fs.Open(fsys, path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Load(f)
}

// Dump encodes cfg to w. The version is written first; fields without a
// value are left out.
func Dump(w io.Writer, cfg *confpub.Config) error {
	version := confpub.ConfigVersion
	pages := fromPageConfigs(cfg.Pages)
	if pages == nil {
		pages = []page{}
	}
	doc := document{
		Version:      &version,
		URL:          cfg.URL,
		BaseDir:      cfg.BaseDir,
		DownloadsDir: cfg.DownloadsDir,
		ImagesDir:    cfg.ImagesDir,
		SourceExt:    cfg.SourceExt,
		Pages:        &pages,
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		_ = enc.Close()
		return err
	}
	return enc.Close()
}

func toPageConfigs(pages []page) []*confpub.PageConfig {
	if len(pages) == 0 {
		return nil
	}
	out := make([]*confpub.PageConfig, 0, len(pages))
	for _, p := range pages {
		pc := &confpub.PageConfig{
			ID:        p.ID,
			Title:     p.Title,
			Source:    p.Source,
			Link:      p.Link,
			Watermark: p.Watermark,
			Pages:     toPageConfigs(p.Pages),
		}
		if p.Attachments != nil {
			pc.Images = toRefs(confpub.AttachmentImage, p.Attachments.Images)
			pc.Downloads = toRefs(confpub.AttachmentDownload, p.Attachments.Downloads)
		}
		out = append(out, pc)
	}
	return out
}

func toRefs(kind confpub.AttachmentKind, paths []string) []confpub.AttachmentRef {
	if len(paths) == 0 {
		return nil
	}
	refs := make([]confpub.AttachmentRef, 0, len(paths))
	for _, p := range paths {
		refs = append(refs, confpub.AttachmentRef{Kind: kind, Path: p})
	}
	return refs
}

func fromPageConfigs(pages []*confpub.PageConfig) []page {
	if len(pages) == 0 {
		return nil
	}
	out := make([]page, 0, len(pages))
	for _, pc := range pages {
		p := page{
			ID:        pc.ID,
			Title:     pc.Title,
			Source:    pc.Source,
			Link:      pc.Link,
			Watermark: pc.Watermark,
			Pages:     fromPageConfigs(pc.Pages),
		}
		if len(pc.Images) > 0 || len(pc.Downloads) > 0 {
			p.Attachments = &attachments{
				Images:    fromRefs(pc.Images),
				Downloads: fromRefs(pc.Downloads),
			}
		}
		out = append(out, p)
	}
	return out
}

func fromRefs(refs []confpub.AttachmentRef) []string {
	if len(refs) == 0 {
		return nil
	}
	paths := make([]string, 0, len(refs))
	for _, r := range refs {
		paths = append(paths, r.Path)
	}
	return paths
}
