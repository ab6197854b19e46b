package main

import (
	"fmt"

	"github.com/fwojciec/confpub"
	"github.com/fwojciec/confpub/publish"
)

// Run executes the create command. The config document is rewritten with
// the identifiers of created pages, also when the run fails half-way.
func (c *CreateCmd) Run(deps *Dependencies) error {
	cfg, err := deps.loadConfig(c.Config)
	if err != nil {
		return deps.fail(err)
	}

	baseURL := cfg.URL
	if c.Remote.URL != "" {
		baseURL = c.Remote.URL
	}
	gateway, err := deps.gateway(c.Remote, baseURL)
	if err != nil {
		return deps.fail(err)
	}

	var parentID *int
	if c.ParentID != 0 {
		parentID = &c.ParentID
	}

	maker := &publish.Maker{Gateway: gateway, Logger: deps.Logger}
	result, runErr := maker.CreatePages(deps.Ctx, cfg, parentID, func(e publish.ProgressEvent) {
		switch e.Type {
		case publish.ProgressPageCreated:
			fmt.Fprintf(deps.Stdout, "Created page %d %q\n", e.Outcome.PageID, e.Outcome.Title)
		case publish.ProgressPageSkipped:
			fmt.Fprintf(deps.Stderr, "Skipped %q: no parent page or title\n", e.Outcome.Source)
		}
	})

	if result != nil {
		if err := deps.saveConfig(c.Config, cfg); err != nil {
			return deps.fail(err)
		}
	}
	if runErr != nil {
		return deps.fail(runErr)
	}

	fmt.Fprintf(deps.Stdout, "Created %d pages, skipped %d\n",
		result.Count(confpub.StateCreated), result.Count(confpub.StateSkipped))
	return nil
}
