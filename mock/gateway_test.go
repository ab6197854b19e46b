package mock_test

import (
	"context"
	"testing"

	"github.com/fwojciec/confpub"
	"github.com/fwojciec/confpub/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentGateway_ImplementsInterface(t *testing.T) {
	t.Parallel()

	// Verify mock can be used where ContentGateway is expected
	var _ confpub.ContentGateway = &mock.ContentGateway{}
}

func TestContentGateway_UpdatePage(t *testing.T) {
	t.Parallel()

	t.Run("delegates to UpdatePageFn", func(t *testing.T) {
		t.Parallel()

		var calledWith *confpub.Page
		g := &mock.ContentGateway{
			UpdatePageFn: func(_ context.Context, page *confpub.Page) (int, error) {
				calledWith = page
				return page.ID, nil
			},
		}

		page := &confpub.Page{ID: 42, Title: "Release history", Version: 3}

		id, err := g.UpdatePage(context.Background(), page)

		require.NoError(t, err)
		assert.Equal(t, 42, id)
		assert.Equal(t, page, calledWith)
	})
}
