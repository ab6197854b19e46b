// Package publish synchronizes a declarative page tree with the remote
// wiki. Maker creates missing pages; Publisher pushes changed content and
// attachments.
package publish

import (
	"log/slog"

	"github.com/fwojciec/confpub"
)

// Outcome is the decision taken for one page.
type Outcome struct {
	Source  string
	PageID  int
	Title   string
	State   confpub.PageState
	Version int
}

// Result holds the outcome of a run.
type Result struct {
	Pages []Outcome

	// AttachmentsUploaded lists uploaded filenames in upload order.
	AttachmentsUploaded []string
	AttachmentsSkipped  int
}

// Count returns the number of pages that ended in state.
func (r *Result) Count(state confpub.PageState) int {
	var n int
	for _, o := range r.Pages {
		if o.State == state {
			n++
		}
	}
	return n
}

// ProgressEvent reports progress during a run.
type ProgressEvent struct {
	Type    ProgressType
	Outcome Outcome

	// Attachment is set for attachment events.
	Attachment string
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressPageChecked ProgressType = iota
	ProgressPagePushed
	ProgressPageCreated
	ProgressPageSkipped
	ProgressAttachmentUploaded
	ProgressAttachmentSkipped
)

// ProgressFunc is a callback for reporting progress.
type ProgressFunc func(event ProgressEvent)

func notify(progress ProgressFunc, event ProgressEvent) {
	if progress != nil {
		progress(event)
	}
}

func loggerOrDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return logger
}
