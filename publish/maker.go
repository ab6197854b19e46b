package publish

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fwojciec/confpub"
)

// Maker creates blank remote pages for tree nodes without an identifier
// and records the new identifiers in the tree.
type Maker struct {
	Gateway confpub.ContentGateway
	Logger  *slog.Logger
}

// CreatePages walks the tree in document order. Pages without an ID are
// created below parentID, or below the page created for their parent
// node. A page that has no parent to attach to or no title is skipped
// together with its descendants.
func (m *Maker) CreatePages(ctx context.Context, cfg *confpub.Config, parentID *int, progress ProgressFunc) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	result := &Result{}
	if err := m.createPages(ctx, cfg.Pages, parentID, result, progress); err != nil {
		return result, err
	}
	return result, nil
}

func (m *Maker) createPages(ctx context.Context, pages []*confpub.PageConfig, parentID *int, result *Result, progress ProgressFunc) error {
	logger := loggerOrDiscard(m.Logger)

	for _, pc := range pages {
		if pc.InitialState() != confpub.StateNeedsCreate {
			if err := m.createPages(ctx, pc.Pages, pc.ID, result, progress); err != nil {
				return err
			}
			continue
		}

		if parentID == nil || pc.Title == "" {
			reason := "no parent page"
			if parentID != nil {
				reason = "no title"
			}
			logger.Warn("skipping page", "source", pc.Source, "reason", reason)
			outcome := Outcome{Source: pc.Source, Title: pc.Title, State: confpub.StateSkipped}
			result.Pages = append(result.Pages, outcome)
			notify(progress, ProgressEvent{Type: ProgressPageSkipped, Outcome: outcome})
			continue
		}

		id, err := m.createPage(ctx, pc, *parentID)
		if err != nil {
			return err
		}
		pc.SetID(id)
		logger.Info("page created", "id", id, "parent_id", *parentID, "title", pc.Title)

		outcome := Outcome{Source: pc.Source, PageID: id, Title: pc.Title, State: confpub.StateCreated}
		result.Pages = append(result.Pages, outcome)
		notify(progress, ProgressEvent{Type: ProgressPageCreated, Outcome: outcome})

		if err := m.createPages(ctx, pc.Pages, pc.ID, result, progress); err != nil {
			return err
		}
	}
	return nil
}

// createPage creates an empty page in the space of its parent.
func (m *Maker) createPage(ctx context.Context, pc *confpub.PageConfig, parentID int) (int, error) {
	parent, err := m.Gateway.LoadPage(ctx, parentID)
	if err != nil {
		return 0, fmt.Errorf("load parent page %d: %w", parentID, err)
	}

	parentType := parent.Type
	if parentType == "" {
		parentType = confpub.ContentTypePage
	}

	id, err := m.Gateway.CreatePage(ctx, &confpub.Page{
		Type:      confpub.ContentTypePage,
		SpaceKey:  parent.SpaceKey,
		Ancestors: []confpub.Ancestor{{ID: parentID, Type: parentType}},
		Title:     pc.Title,
	})
	if err != nil {
		return 0, fmt.Errorf("create page %q: %w", pc.Title, err)
	}
	return id, nil
}
