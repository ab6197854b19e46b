package publish

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fwojciec/confpub"
)

// Publisher pushes local sources of an existing page tree to the wiki.
type Publisher struct {
	Gateway    confpub.ContentGateway
	Sources    confpub.SourceProvider
	Comparator confpub.BodyComparator
	Logger     *slog.Logger

	// Journal records every page decision when set.
	Journal confpub.JournalService
	RunID   string

	// Force pushes every page, skipping the comparison.
	Force bool

	// HoldTitles keeps the titles of remote pages.
	HoldTitles bool
}

// update is a page queued for the push pass.
type update struct {
	config *confpub.PageConfig
	page   *confpub.Page
}

// Publish synchronizes every page of the tree. Pages are compared first,
// changed pages are pushed next, attachments are uploaded last. Any remote
// or local I/O error aborts the run.
func (p *Publisher) Publish(ctx context.Context, cfg *confpub.Config, progress ProgressFunc) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.RequireIDs(); err != nil {
		return nil, err
	}

	pages := confpub.Flatten(cfg.Pages)
	result := &Result{}

	var queue []update
	for _, pc := range pages {
		page, state, err := p.check(ctx, pc)
		if err != nil {
			return result, err
		}

		outcome := Outcome{Source: pc.Source, PageID: page.ID, Title: page.Title, State: state, Version: page.Version}
		result.Pages = append(result.Pages, outcome)
		notify(progress, ProgressEvent{Type: ProgressPageChecked, Outcome: outcome})

		if state == confpub.StateUpdated {
			queue = append(queue, update{config: pc, page: page})
			continue
		}
		if err := p.record(ctx, outcome, page.Body); err != nil {
			return result, err
		}
	}

	for _, u := range queue {
		if _, err := p.Gateway.UpdatePage(ctx, u.page); err != nil {
			return result, fmt.Errorf("update page %d: %w", u.page.ID, err)
		}

		outcome := Outcome{Source: u.config.Source, PageID: u.page.ID, Title: u.page.Title, State: confpub.StateUpdated, Version: u.page.Version}
		notify(progress, ProgressEvent{Type: ProgressPagePushed, Outcome: outcome})
		if err := p.record(ctx, outcome, u.page.Body); err != nil {
			return result, err
		}
	}

	for _, pc := range pages {
		if err := p.publishAttachments(ctx, pc, result, progress); err != nil {
			return result, err
		}
	}

	return result, nil
}

// check builds the candidate page for pc and decides whether it differs
// from the remote page. The returned page is the stripped remote page for
// UpToDate and the decorated candidate with a bumped version for Updated.
func (p *Publisher) check(ctx context.Context, pc *confpub.PageConfig) (*confpub.Page, confpub.PageState, error) {
	logger := loggerOrDiscard(p.Logger)

	remote, err := p.Gateway.LoadPage(ctx, *pc.ID)
	if err != nil {
		return nil, "", fmt.Errorf("load page %d: %w", *pc.ID, err)
	}

	src, err := p.Sources.ReadSource(p.Sources.SourcePath(pc.Source))
	if err != nil {
		return nil, "", fmt.Errorf("read source %q: %w", pc.Source, err)
	}

	pipeline := confpub.NewPipeline(pc, confpub.PipelineOptions{
		HoldTitles:  p.HoldTitles,
		SourceTitle: src.Title,
	})

	stripped := remote.Clone()
	pipeline.Strip(stripped)

	candidate := remote.Clone()
	candidate.Title = ResolveTitle(p.HoldTitles, remote.Title, pc.Title, src.Title)
	candidate.Body = src.Body
	pipeline.Rewrite(candidate)

	if !p.Force {
		equal, err := p.equal(stripped, candidate)
		if err != nil {
			return nil, "", fmt.Errorf("compare page %d: %w", remote.ID, err)
		}
		if equal {
			logger.Debug("page up to date", "id", remote.ID, "source", pc.Source)
			return stripped, confpub.StateUpToDate, nil
		}
	}

	pipeline.Decorate(candidate)
	candidate.Version = remote.Version + 1
	logger.Debug("page changed", "id", remote.ID, "source", pc.Source, "version", candidate.Version, "force", p.Force)
	return candidate, confpub.StateUpdated, nil
}

func (p *Publisher) equal(remote, candidate *confpub.Page) (bool, error) {
	if remote.Title != candidate.Title {
		return false, nil
	}
	return p.Comparator.Equal(remote.Body, candidate.Body)
}

// ResolveTitle picks the title to publish: the remote title when titles
// are held, else the configured title, else the source title, else the
// remote title.
func ResolveTitle(holdTitles bool, remote, configured, source string) string {
	switch {
	case holdTitles && remote != "":
		return remote
	case configured != "":
		return configured
	case source != "":
		return source
	default:
		return remote
	}
}

// publishAttachments uploads attachments missing on the remote page.
// Attachments already present by filename are left untouched.
func (p *Publisher) publishAttachments(ctx context.Context, pc *confpub.PageConfig, result *Result, progress ProgressFunc) error {
	refs := pc.Attachments()
	if len(refs) == 0 {
		return nil
	}
	logger := loggerOrDiscard(p.Logger)
	pageID := *pc.ID

	existing, err := p.Gateway.ListAttachments(ctx, pageID)
	if err != nil {
		return fmt.Errorf("list attachments of page %d: %w", pageID, err)
	}

	for _, ref := range refs {
		filename := ref.Filename()
		outcome := Outcome{Source: pc.Source, PageID: pageID}

		if confpub.HasAttachment(existing, filename) {
			logger.Debug("attachment exists, skipping", "page_id", pageID, "filename", filename)
			result.AttachmentsSkipped++
			notify(progress, ProgressEvent{Type: ProgressAttachmentSkipped, Outcome: outcome, Attachment: filename})
			continue
		}

		attachment, err := p.upload(ctx, pageID, ref)
		if err != nil {
			return err
		}
		existing = append(existing, attachment)
		result.AttachmentsUploaded = append(result.AttachmentsUploaded, filename)
		notify(progress, ProgressEvent{Type: ProgressAttachmentUploaded, Outcome: outcome, Attachment: filename})
	}
	return nil
}

func (p *Publisher) upload(ctx context.Context, pageID int, ref confpub.AttachmentRef) (*confpub.Attachment, error) {
	path := p.attachmentPath(ref)

	f, err := p.Sources.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open attachment %q: %w", path, err)
	}
	defer f.Close()

	attachment, err := p.Gateway.UploadAttachment(ctx, pageID, ref.Filename(), f)
	if err != nil {
		return nil, fmt.Errorf("upload attachment %q to page %d: %w", ref.Filename(), pageID, err)
	}
	if attachment == nil {
		attachment = &confpub.Attachment{Title: ref.Filename(), Kind: ref.Kind}
	}
	attachment.Path = path
	return attachment, nil
}

func (p *Publisher) attachmentPath(ref confpub.AttachmentRef) string {
	if ref.Kind == confpub.AttachmentImage {
		return p.Sources.ImagePath(ref.Path)
	}
	return p.Sources.DownloadPath(ref.Path)
}

// record writes the outcome to the journal, if any.
func (p *Publisher) record(ctx context.Context, o Outcome, body string) error {
	if p.Journal == nil {
		return nil
	}
	rec := &confpub.PublishRecord{
		RunID:   p.RunID,
		PageID:  o.PageID,
		Source:  o.Source,
		Title:   o.Title,
		State:   o.State,
		Version: o.Version,
	}
	if err := p.Journal.RecordPublish(ctx, rec, body); err != nil {
		return fmt.Errorf("record publish of page %d: %w", o.PageID, err)
	}
	return nil
}
