package publish_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/fwojciec/confpub"
	"github.com/fwojciec/confpub/publish"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaker_CreatePages(t *testing.T) {
	t.Parallel()

	t.Run("creates missing pages below parent and records ids", func(t *testing.T) {
		t.Parallel()

		w := newWiki(&confpub.Page{ID: 10, Type: "page", SpaceKey: "DOCS", Title: "Root"})
		child := &confpub.PageConfig{Title: "Child", Source: "child"}
		top := &confpub.PageConfig{Title: "Top", Source: "top", Pages: []*confpub.PageConfig{child}}
		cfg := &confpub.Config{Pages: []*confpub.PageConfig{top}}

		m := &publish.Maker{Gateway: w.gateway()}
		result, err := m.CreatePages(context.Background(), cfg, intPtr(10), nil)

		require.NoError(t, err)
		require.NotNil(t, top.ID)
		require.NotNil(t, child.ID)
		assert.Equal(t, 1001, *top.ID)
		assert.Equal(t, 1002, *child.ID)
		assert.Equal(t, 2, result.Count(confpub.StateCreated))

		require.Len(t, w.creates, 2)
		assert.Equal(t, "DOCS", w.creates[0].SpaceKey)
		assert.Equal(t, []confpub.Ancestor{{ID: 10, Type: "page"}}, w.creates[0].Ancestors)
		assert.Equal(t, "Top", w.creates[0].Title)
		assert.Empty(t, w.creates[0].Body)
		assert.Equal(t, []confpub.Ancestor{{ID: 1001, Type: "page"}}, w.creates[1].Ancestors)
	})

	t.Run("descends into existing pages without remote calls", func(t *testing.T) {
		t.Parallel()

		w := newWiki(&confpub.Page{ID: 5, Type: "page", SpaceKey: "DOCS"})
		child := &confpub.PageConfig{Title: "Child", Source: "child"}
		cfg := &confpub.Config{Pages: []*confpub.PageConfig{
			{ID: intPtr(5), Source: "top", Pages: []*confpub.PageConfig{child}},
		}}

		m := &publish.Maker{Gateway: w.gateway()}
		_, err := m.CreatePages(context.Background(), cfg, nil, nil)

		require.NoError(t, err)
		assert.Equal(t, []int{5}, w.loads, "only the parent of the new page is loaded")
		require.Len(t, w.creates, 1)
		assert.Equal(t, []confpub.Ancestor{{ID: 5, Type: "page"}}, w.creates[0].Ancestors)
	})

	t.Run("skips child when parent has no id and no anchor", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := newWiki()
		child := &confpub.PageConfig{Title: "Child", Source: "child"}
		top := &confpub.PageConfig{Title: "Top", Source: "top", Pages: []*confpub.PageConfig{child}}
		cfg := &confpub.Config{Pages: []*confpub.PageConfig{top}}

		m := &publish.Maker{Gateway: w.gateway(), Logger: slog.New(slog.NewTextHandler(&buf, nil))}
		result, err := m.CreatePages(context.Background(), cfg, nil, nil)

		require.NoError(t, err)
		assert.Empty(t, w.creates, "no create call")
		assert.Empty(t, w.loads)
		assert.Nil(t, top.ID)
		assert.Nil(t, child.ID)
		require.Len(t, result.Pages, 1, "descendants of a skipped page are not visited")
		assert.Equal(t, confpub.StateSkipped, result.Pages[0].State)
		assert.Contains(t, buf.String(), "level=WARN")
		assert.Contains(t, buf.String(), "skipping page")
	})

	t.Run("skips page without title and continues with siblings", func(t *testing.T) {
		t.Parallel()

		w := newWiki(&confpub.Page{ID: 10, Type: "page", SpaceKey: "DOCS"})
		untitled := &confpub.PageConfig{Source: "untitled", Pages: []*confpub.PageConfig{{Title: "Orphan", Source: "orphan"}}}
		sibling := &confpub.PageConfig{Title: "Sibling", Source: "sibling"}
		cfg := &confpub.Config{Pages: []*confpub.PageConfig{untitled, sibling}}

		var events []publish.ProgressEvent
		m := &publish.Maker{Gateway: w.gateway()}
		result, err := m.CreatePages(context.Background(), cfg, intPtr(10), func(e publish.ProgressEvent) {
			events = append(events, e)
		})

		require.NoError(t, err)
		assert.Nil(t, untitled.ID)
		require.NotNil(t, sibling.ID)
		require.Len(t, w.creates, 1)
		assert.Equal(t, "Sibling", w.creates[0].Title)
		assert.Equal(t, 1, result.Count(confpub.StateSkipped))
		require.Len(t, events, 2)
		assert.Equal(t, publish.ProgressPageSkipped, events[0].Type)
		assert.Equal(t, publish.ProgressPageCreated, events[1].Type)
	})

	t.Run("rejects invalid config before remote calls", func(t *testing.T) {
		t.Parallel()

		w := newWiki()
		cfg := &confpub.Config{Pages: []*confpub.PageConfig{{Title: "No source"}}}

		m := &publish.Maker{Gateway: w.gateway()}
		_, err := m.CreatePages(context.Background(), cfg, intPtr(10), nil)

		require.Error(t, err)
		assert.Equal(t, confpub.EINVALID, confpub.ErrorCode(err))
		assert.Empty(t, w.loads)
	})

	t.Run("fails when parent cannot be loaded", func(t *testing.T) {
		t.Parallel()

		w := newWiki()
		cfg := &confpub.Config{Pages: []*confpub.PageConfig{{Title: "Top", Source: "top"}}}

		m := &publish.Maker{Gateway: w.gateway()}
		_, err := m.CreatePages(context.Background(), cfg, intPtr(404), nil)

		require.Error(t, err)
		assert.Equal(t, confpub.ENOTFOUND, confpub.ErrorCode(err))
		assert.Empty(t, w.creates)
	})
}
