package main

import (
	"fmt"
	"io"

	"github.com/fwojciec/confpub"
	"github.com/fwojciec/confpub/etree"
	"github.com/fwojciec/confpub/fs"
	"github.com/fwojciec/confpub/goquery"
	"github.com/fwojciec/confpub/publish"
	confslog "github.com/fwojciec/confpub/slog"
	"github.com/fwojciec/confpub/sqlite"
)

// Run executes the publish command.
func (c *PublishCmd) Run(deps *Dependencies) error {
	cfg, err := deps.loadConfig(c.Config)
	if err != nil {
		return deps.fail(err)
	}

	// The document is normalized before overrides so that they are not
	// persisted.
	if err := deps.saveConfig(c.Config, cfg); err != nil {
		return deps.fail(err)
	}
	cfg.ApplyOverrides(c.overrides())

	gateway, err := deps.gateway(c.Remote, cfg.URL)
	if err != nil {
		return deps.fail(err)
	}

	var opts []etree.Option
	if c.StrictMacros {
		opts = append(opts, etree.KeepMacros())
	}

	publisher := &publish.Publisher{
		Gateway:    gateway,
		Sources:    confslog.NewLoggingSourceProvider(c.sources(deps, cfg), deps.Logger),
		Comparator: etree.NewComparator(opts...),
		Logger:     deps.Logger,
		Journal:    deps.Journal,
		RunID:      sqlite.NewRunID(),
		Force:      c.Force,
		HoldTitles: c.HoldTitles,
	}

	result, err := publisher.Publish(deps.Ctx, cfg, progressPrinter(deps.Stdout))
	if err != nil {
		return deps.fail(err)
	}

	fmt.Fprintf(deps.Stdout, "Published %d pages: %d updated, %d up to date, %d attachments uploaded\n",
		len(result.Pages),
		result.Count(confpub.StateUpdated),
		result.Count(confpub.StateUpToDate),
		len(result.AttachmentsUploaded),
	)
	if deps.Journal != nil {
		fmt.Fprintf(deps.Stdout, "Run %s\n", publisher.RunID)
	}
	return nil
}

func (c *PublishCmd) overrides() confpub.Overrides {
	var o confpub.Overrides
	if c.Remote.URL != "" {
		o.URL = &c.Remote.URL
	}
	if c.Watermark != "" {
		o.Watermark = &c.Watermark
	}
	if c.Link != "" {
		o.Link = &c.Link
	}
	return o
}

func (c *PublishCmd) sources(deps *Dependencies, cfg *confpub.Config) confpub.SourceProvider {
	if c.Format == "html" {
		var opts []goquery.Option
		if c.ContentSelector != "" {
			opts = append(opts, goquery.WithContentSelector(c.ContentSelector))
		}
		return goquery.NewHTMLProvider(deps.FS, deps.layout(cfg), opts...)
	}
	return fs.NewFJSONProvider(deps.FS, deps.layout(cfg))
}

func progressPrinter(w io.Writer) publish.ProgressFunc {
	return func(e publish.ProgressEvent) {
		switch e.Type {
		case publish.ProgressPagePushed:
			fmt.Fprintf(w, "Updated page %d %q (version %d)\n", e.Outcome.PageID, e.Outcome.Title, e.Outcome.Version)
		case publish.ProgressAttachmentUploaded:
			fmt.Fprintf(w, "Uploaded %s to page %d\n", e.Attachment, e.Outcome.PageID)
		}
	}
}
