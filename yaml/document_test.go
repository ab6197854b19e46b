package yaml_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fwojciec/confpub"
	"github.com/fwojciec/confpub/yaml"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

const fullDocument = `version: 2
url: https://wiki.example.com
base_dir: result
downloads_dir: files
images_dir: img
source_ext: .json
pages:
  - id: 52136662
    title: Release history
    source: release_history
    link: https://git.example.com/docs
    watermark: Generated
    attachments:
      images:
        - diagram.png
      downloads:
        - manual.pdf
    pages:
      - source: release_history/1.0
        attachments:
          downloads:
            - notes.txt
  - source: install
`

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("loads every field", func(t *testing.T) {
		t.Parallel()

		cfg, err := yaml.Load(strings.NewReader(fullDocument))

		require.NoError(t, err)
		assert.Equal(t, &confpub.Config{
			URL:          "https://wiki.example.com",
			BaseDir:      "result",
			DownloadsDir: "files",
			ImagesDir:    "img",
			SourceExt:    ".json",
			Pages: []*confpub.PageConfig{
				{
					ID:        intPtr(52136662),
					Title:     "Release history",
					Source:    "release_history",
					Link:      "https://git.example.com/docs",
					Watermark: "Generated",
					Images:    []confpub.AttachmentRef{{Kind: confpub.AttachmentImage, Path: "diagram.png"}},
					Downloads: []confpub.AttachmentRef{{Kind: confpub.AttachmentDownload, Path: "manual.pdf"}},
					Pages: []*confpub.PageConfig{
						{
							Source:    "release_history/1.0",
							Downloads: []confpub.AttachmentRef{{Kind: confpub.AttachmentDownload, Path: "notes.txt"}},
						},
					},
				},
				{Source: "install"},
			},
		}, cfg)
	})

	t.Run("accepts json", func(t *testing.T) {
		t.Parallel()

		cfg, err := yaml.Load(strings.NewReader(`{"version": 2, "pages": [{"id": 7, "source": "index"}]}`))

		require.NoError(t, err)
		require.Len(t, cfg.Pages, 1)
		assert.Equal(t, 7, *cfg.Pages[0].ID)
	})

	t.Run("rejects invalid documents", func(t *testing.T) {
		t.Parallel()

		cases := []struct {
			name    string
			doc     string
			message string
		}{
			{name: "empty", doc: "", message: "`version`"},
			{name: "missing version", doc: "pages: []\n", message: "`version`"},
			{name: "wrong version", doc: "version: 1\npages: []\n", message: "invalid config version"},
			{name: "missing pages", doc: "version: 2\n", message: "`pages`"},
			{name: "missing source", doc: "version: 2\npages:\n  - id: 1\n    title: Home\n", message: "`source`"},
			{name: "malformed", doc: "version: [", message: "invalid config document"},
		}
		for _, tc := range cases {
			_, err := yaml.Load(strings.NewReader(tc.doc))
			require.Error(t, err, tc.name)
			assert.Equal(t, confpub.EINVALID, confpub.ErrorCode(err), tc.name)
			assert.Contains(t, confpub.ErrorMessage(err), tc.message, tc.name)
		}
	})
}

func TestDump(t *testing.T) {
	t.Parallel()

	t.Run("round trip preserves present fields", func(t *testing.T) {
		t.Parallel()

		cfg, err := yaml.Load(strings.NewReader(fullDocument))
		require.NoError(t, err)

		var buf bytes.Buffer
		require.NoError(t, yaml.Dump(&buf, cfg))

		assert.Equal(t, fullDocument, buf.String())
	})

	t.Run("omits unset fields", func(t *testing.T) {
		t.Parallel()

		cfg := &confpub.Config{Pages: []*confpub.PageConfig{{Source: "index"}}}

		var buf bytes.Buffer
		require.NoError(t, yaml.Dump(&buf, cfg))

		assert.Equal(t, "version: 2\npages:\n  - source: index\n", buf.String())
		assert.NotContains(t, buf.String(), "null")
	})

	t.Run("normalises empty values away", func(t *testing.T) {
		t.Parallel()

		in := "version: 2\npages:\n  - source: index\n    title: \"\"\n    attachments:\n      images: []\n    pages: []\n"
		cfg, err := yaml.Load(strings.NewReader(in))
		require.NoError(t, err)

		var buf bytes.Buffer
		require.NoError(t, yaml.Dump(&buf, cfg))

		assert.Equal(t, "version: 2\npages:\n  - source: index\n", buf.String())
	})

	t.Run("writes downloads without images", func(t *testing.T) {
		t.Parallel()

		cfg := &confpub.Config{Pages: []*confpub.PageConfig{{
			Source:    "index",
			Downloads: []confpub.AttachmentRef{{Kind: confpub.AttachmentDownload, Path: "a.zip"}},
		}}}

		var buf bytes.Buffer
		require.NoError(t, yaml.Dump(&buf, cfg))

		assert.Contains(t, buf.String(), "downloads:\n        - a.zip")
		assert.NotContains(t, buf.String(), "images")
	})

	t.Run("writes assigned identifiers", func(t *testing.T) {
		t.Parallel()

		cfg, err := yaml.Load(strings.NewReader("version: 2\npages:\n  - source: index\n    title: Home\n"))
		require.NoError(t, err)
		cfg.Pages[0].SetID(99)

		var buf bytes.Buffer
		require.NoError(t, yaml.Dump(&buf, cfg))

		assert.Equal(t, "version: 2\npages:\n  - id: 99\n    title: Home\n    source: index\n", buf.String())
	})
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	mem := memfs.New()
	require.NoError(t, util.WriteFile(mem, "conf/pages.yml", []byte(fullDocument), 0o644))

	cfg, err := yaml.LoadFile(mem, "conf/pages.yml")

	require.NoError(t, err)
	assert.Equal(t, "https://wiki.example.com", cfg.URL)

	_, err = yaml.LoadFile(mem, "missing.yml")
	require.Error(t, err)
	assert.Equal(t, confpub.ENOTFOUND, confpub.ErrorCode(err))
}
