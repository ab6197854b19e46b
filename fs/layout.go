// Package fs provides file-based access to documentation build output
// through go-billy filesystems.
package fs

import (
	"path/filepath"
)

// Default directory names shared by every build format.
const (
	DefaultRootDir      = "."
	DefaultImagesDir    = "_images"
	DefaultDownloadsDir = "_downloads"
)

// LayoutConfig describes where build artifacts live. Empty fields fall
// back to defaults. Relative base directories are joined onto RootDir;
// relative image and download directories are joined onto the base
// directory.
type LayoutConfig struct {
	RootDir      string
	BaseDir      string
	ImagesDir    string
	DownloadsDir string
	SourceExt    string
}

// FJSONDefaults are the layout defaults of the fjson build format.
var FJSONDefaults = LayoutConfig{BaseDir: "docs/build/json", SourceExt: ".fjson"}

// HTMLDefaults are the layout defaults of the html build format.
var HTMLDefaults = LayoutConfig{BaseDir: "docs/build/html", SourceExt: ".html"}

// Layout resolves logical source and attachment names to file paths.
type Layout struct {
	sourceDir    string
	imagesDir    string
	downloadsDir string
	sourceExt    string
}

// NewLayout resolves c against the format defaults.
func NewLayout(c, defaults LayoutConfig) *Layout {
	root := firstNonEmpty(c.RootDir, defaults.RootDir, DefaultRootDir)
	sourceDir := resolve(root, firstNonEmpty(c.BaseDir, defaults.BaseDir))

	return &Layout{
		sourceDir:    sourceDir,
		imagesDir:    resolve(sourceDir, firstNonEmpty(c.ImagesDir, defaults.ImagesDir, DefaultImagesDir)),
		downloadsDir: resolve(sourceDir, firstNonEmpty(c.DownloadsDir, defaults.DownloadsDir, DefaultDownloadsDir)),
		sourceExt:    firstNonEmpty(c.SourceExt, defaults.SourceExt),
	}
}

// SourcePath returns the artifact path of a logical source name.
func (l *Layout) SourcePath(name string) string {
	return filepath.Join(l.sourceDir, name+l.sourceExt)
}

// ImagePath returns the path of an image attachment.
func (l *Layout) ImagePath(name string) string {
	return filepath.Join(l.imagesDir, name)
}

// DownloadPath returns the path of a download attachment.
func (l *Layout) DownloadPath(name string) string {
	return filepath.Join(l.downloadsDir, name)
}

func resolve(parent, dir string) string {
	if filepath.IsAbs(dir) {
		return filepath.Clean(dir)
	}
	return filepath.Join(parent, dir)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
