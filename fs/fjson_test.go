package fs_test

import (
	"io"
	"testing"

	"github.com/fwojciec/confpub"
	"github.com/fwojciec/confpub/fs"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFJSONProvider_ReadSource(t *testing.T) {
	t.Parallel()

	t.Run("reads title and body", func(t *testing.T) {
		t.Parallel()

		mem := memfs.New()
		require.NoError(t, util.WriteFile(mem, "docs/build/json/index.fjson",
			[]byte(`{"title": "Release history", "body": "<p>hello</p>", "toc": "ignored"}`), 0o644))
		p := fs.NewFJSONProvider(mem, fs.LayoutConfig{})

		src, err := p.ReadSource(p.SourcePath("index"))

		require.NoError(t, err)
		assert.Equal(t, &confpub.Source{Title: "Release history", Body: "<p>hello</p>"}, src)
	})

	t.Run("reports missing file as not found", func(t *testing.T) {
		t.Parallel()

		p := fs.NewFJSONProvider(memfs.New(), fs.LayoutConfig{})

		_, err := p.ReadSource(p.SourcePath("missing"))

		require.Error(t, err)
		assert.Equal(t, confpub.ENOTFOUND, confpub.ErrorCode(err))
	})

	t.Run("rejects malformed document", func(t *testing.T) {
		t.Parallel()

		mem := memfs.New()
		require.NoError(t, util.WriteFile(mem, "docs/build/json/index.fjson", []byte(`{"title": `), 0o644))
		p := fs.NewFJSONProvider(mem, fs.LayoutConfig{})

		_, err := p.ReadSource(p.SourcePath("index"))

		require.Error(t, err)
		assert.Equal(t, confpub.EINVALID, confpub.ErrorCode(err))
	})
}

func TestFJSONProvider_Open(t *testing.T) {
	t.Parallel()

	mem := memfs.New()
	require.NoError(t, util.WriteFile(mem, "docs/build/json/_images/diagram.png", []byte("PNG"), 0o644))
	p := fs.NewFJSONProvider(mem, fs.LayoutConfig{})

	f, err := p.Open(p.ImagePath("diagram.png"))
	require.NoError(t, err)
	defer f.Close()

	b, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "PNG", string(b))
}

// Compile-time verification that FJSONProvider implements confpub.SourceProvider.
var _ confpub.SourceProvider = (*fs.FJSONProvider)(nil)
