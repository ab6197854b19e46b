package fs_test

import (
	"path/filepath"
	"testing"

	"github.com/fwojciec/confpub/fs"
	"github.com/stretchr/testify/assert"
)

func TestNewLayout(t *testing.T) {
	t.Parallel()

	t.Run("uses format defaults", func(t *testing.T) {
		t.Parallel()

		l := fs.NewLayout(fs.LayoutConfig{}, fs.FJSONDefaults)

		assert.Equal(t, filepath.Join("docs", "build", "json", "index.fjson"), l.SourcePath("index"))
		assert.Equal(t, filepath.Join("docs", "build", "json", "_images", "a.png"), l.ImagePath("a.png"))
		assert.Equal(t, filepath.Join("docs", "build", "json", "_downloads", "b.pdf"), l.DownloadPath("b.pdf"))
	})

	t.Run("uses html defaults", func(t *testing.T) {
		t.Parallel()

		l := fs.NewLayout(fs.LayoutConfig{RootDir: "/project"}, fs.HTMLDefaults)

		assert.Equal(t, filepath.Join("/project", "docs", "build", "html", "api", "index.html"), l.SourcePath("api/index"))
	})

	t.Run("joins relative directories onto their parent", func(t *testing.T) {
		t.Parallel()

		l := fs.NewLayout(fs.LayoutConfig{
			RootDir:      "/project",
			BaseDir:      "out",
			ImagesDir:    "img",
			DownloadsDir: "files",
			SourceExt:    ".json",
		}, fs.FJSONDefaults)

		assert.Equal(t, filepath.Join("/project", "out", "page.json"), l.SourcePath("page"))
		assert.Equal(t, filepath.Join("/project", "out", "img", "a.png"), l.ImagePath("a.png"))
		assert.Equal(t, filepath.Join("/project", "out", "files", "b.pdf"), l.DownloadPath("b.pdf"))
	})

	t.Run("keeps absolute directories", func(t *testing.T) {
		t.Parallel()

		l := fs.NewLayout(fs.LayoutConfig{
			RootDir:   "/project",
			BaseDir:   "/build",
			ImagesDir: "/static/images",
		}, fs.FJSONDefaults)

		assert.Equal(t, filepath.Join("/build", "index.fjson"), l.SourcePath("index"))
		assert.Equal(t, filepath.Join("/static", "images", "a.png"), l.ImagePath("a.png"))
		assert.Equal(t, filepath.Join("/build", "_downloads", "b.pdf"), l.DownloadPath("b.pdf"))
	})
}
