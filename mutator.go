package confpub

import (
	"html"
	"regexp"
	"strings"
)

// MutatorKind classifies how a mutator changes a page.
type MutatorKind int

const (
	// MutatorDecoration injects markup that is not part of the authored
	// content. Decorations are stripped before comparison and re-applied
	// after it.
	MutatorDecoration MutatorKind = iota

	// MutatorRewrite rewrites authored content in place. Rewrites cannot be
	// undone.
	MutatorRewrite
)

// Mutator is a reversible transformation of a page body.
type Mutator interface {
	// ApplyForward injects the mutation into page.Body.
	ApplyForward(page *Page)

	// ApplyBackward removes exactly what ApplyForward injected.
	ApplyBackward(page *Page)

	Kind() MutatorKind
}

// Marker spans delimiting injected decorations. They must stay stable:
// pages published by earlier runs are stripped using the same markers.
const (
	watermarkBegin = `<span class="WATERMARK BEGIN"> </span>`
	watermarkEnd   = `<span class="WATERMARK END"> </span>`
	linkBegin      = `<span class="LINK BEGIN"> </span>`
	linkEnd        = `<span class="LINK END"> </span>`
)

const watermarkTemplate = `<ac:structured-macro ac:name="info">
        <ac:rich-text-body>
        <p><span>{watermark}</span></p>
        </ac:rich-text-body>
        </ac:structured-macro>`

const linkTemplate = `<ac:structured-macro ac:name="info">
        <ac:rich-text-body>
        <p><span><a href="{link}" _blank="true">{link}</a></span></p>
        </ac:rich-text-body>
        </ac:structured-macro>`

// markerMutator prepends a rendered block between fixed begin/end markers.
type markerMutator struct {
	begin string
	end   string
	block string
}

func (m *markerMutator) ApplyForward(page *Page) {
	page.Body = m.begin + m.block + m.end + page.Body
}

func (m *markerMutator) ApplyBackward(page *Page) {
	page.Body = stripMarked(page.Body, m.begin, m.end)
}

func (m *markerMutator) Kind() MutatorKind {
	return MutatorDecoration
}

// stripMarked removes everything from the first begin marker up to and
// including the last end marker that follows it. Matching is literal and
// spans newlines.
func stripMarked(body, begin, end string) string {
	for {
		i := strings.Index(body, begin)
		if i < 0 {
			return body
		}
		j := strings.LastIndex(body[i+len(begin):], end)
		if j < 0 {
			return body
		}
		body = body[:i] + body[i+len(begin)+j+len(end):]
	}
}

// WatermarkMutator prepends an info block with a watermark text.
type WatermarkMutator struct {
	markerMutator
	Watermark string
}

// NewWatermarkMutator returns a mutator for the given watermark text.
func NewWatermarkMutator(watermark string) *WatermarkMutator {
	return &WatermarkMutator{
		markerMutator: markerMutator{
			begin: watermarkBegin,
			end:   watermarkEnd,
			block: strings.ReplaceAll(watermarkTemplate, "{watermark}", html.EscapeString(watermark)),
		},
		Watermark: watermark,
	}
}

// LinkMutator prepends an info block linking back to the source document.
type LinkMutator struct {
	markerMutator
	Link string
}

// NewLinkMutator returns a mutator for the given back-link URL.
func NewLinkMutator(link string) *LinkMutator {
	return &LinkMutator{
		markerMutator: markerMutator{
			begin: linkBegin,
			end:   linkEnd,
			block: strings.ReplaceAll(linkTemplate, "{link}", html.EscapeString(link)),
		},
		Link: link,
	}
}

// AnchorMutator keeps in-page anchors valid when the published title differs
// from the title the anchors were generated from. Anchor fragments contain
// the title with all whitespace removed.
type AnchorMutator struct {
	// OldTitle is the title baked into the anchors of the body.
	OldTitle string
}

// NewAnchorMutator returns a mutator replacing anchors built from oldTitle.
func NewAnchorMutator(oldTitle string) *AnchorMutator {
	return &AnchorMutator{OldTitle: oldTitle}
}

// ApplyForward replaces every case-insensitive occurrence of the stripped
// old title with the stripped page title.
func (m *AnchorMutator) ApplyForward(page *Page) {
	if page.Title == "" || page.Body == "" || m.OldTitle == "" {
		return
	}
	oldTitle := StripWhitespace(m.OldTitle)
	newTitle := StripWhitespace(page.Title)
	if oldTitle == "" {
		return
	}
	re := regexp.MustCompile("(?i)" + regexp.QuoteMeta(oldTitle))
	page.Body = re.ReplaceAllLiteralString(page.Body, newTitle)
}

// ApplyBackward is a no-op; anchor rewriting is one-directional.
func (m *AnchorMutator) ApplyBackward(page *Page) {}

func (m *AnchorMutator) Kind() MutatorKind {
	return MutatorRewrite
}

// PipelineOptions configures which mutators NewPipeline builds.
type PipelineOptions struct {
	// HoldTitles keeps remote titles; anchors generated from SourceTitle
	// are rewritten to the held title.
	HoldTitles  bool
	SourceTitle string
}

// Pipeline is an ordered set of mutators built for one page.
type Pipeline struct {
	mutators []Mutator
}

// NewPipeline builds the mutators for a page in construction order: link,
// watermark, then anchor when titles are held. Since decorations are
// prepended, the watermark added last ends up first in the body.
func NewPipeline(pc *PageConfig, opts PipelineOptions) *Pipeline {
	p := &Pipeline{}
	if pc.Link != "" {
		p.mutators = append(p.mutators, NewLinkMutator(pc.Link))
	}
	if pc.Watermark != "" {
		p.mutators = append(p.mutators, NewWatermarkMutator(pc.Watermark))
	}
	if opts.HoldTitles {
		p.mutators = append(p.mutators, NewAnchorMutator(opts.SourceTitle))
	}
	return p
}

// Mutators returns the mutators in construction order.
func (p *Pipeline) Mutators() []Mutator {
	return p.mutators
}

// Strip applies every mutator backward in reverse construction order.
func (p *Pipeline) Strip(page *Page) {
	for i := len(p.mutators) - 1; i >= 0; i-- {
		p.mutators[i].ApplyBackward(page)
	}
}

// Rewrite applies rewrite mutators forward.
func (p *Pipeline) Rewrite(page *Page) {
	p.applyForward(page, MutatorRewrite)
}

// Decorate applies decoration mutators forward. It must only be called on
// a page that carries no decorations yet.
func (p *Pipeline) Decorate(page *Page) {
	p.applyForward(page, MutatorDecoration)
}

func (p *Pipeline) applyForward(page *Page, kind MutatorKind) {
	for _, m := range p.mutators {
		if m.Kind() == kind {
			m.ApplyForward(page)
		}
	}
}
