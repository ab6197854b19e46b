package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/confpub"
)

// Run executes the history command.
func (c *HistoryCmd) Run(deps *Dependencies) error {
	if deps.Journal == nil {
		return deps.fail(confpub.Errorf(confpub.EINVALID, "journal path is required: use --journal or CONFPUB_JOURNAL"))
	}

	filter := confpub.PublishRecordFilter{Limit: c.Limit}
	if c.PageID != 0 {
		filter.PageID = &c.PageID
	}
	if c.RunID != "" {
		filter.RunID = &c.RunID
	}

	records, err := deps.Journal.FindPublishRecords(deps.Ctx, filter)
	if err != nil {
		return deps.fail(err)
	}

	if len(records) == 0 {
		fmt.Fprintln(deps.Stdout, "No publish records found.")
		return nil
	}

	for _, r := range records {
		fmt.Fprintf(deps.Stdout, "%s  %s  %d  %s  v%d  %s\n",
			r.PublishedAt.Local().Format(time.DateTime), r.RunID, r.PageID, r.State, r.Version, r.Title)
	}
	return nil
}
