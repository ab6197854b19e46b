package confpub

// DefaultWatermark is the watermark text used when the watermark override
// is "true".
const DefaultWatermark = "This page is generated automatically from the project documentation. Manual changes will be overwritten on the next publish."

// ConfigVersion is the only supported declarative document schema version.
const ConfigVersion = 2

// Config is the declarative description of a documentation tree.
type Config struct {
	URL          string
	BaseDir      string
	DownloadsDir string
	ImagesDir    string
	SourceExt    string

	Pages []*PageConfig
}

// Validate returns an error if any page in the tree is invalid.
func (c *Config) Validate() error {
	for _, page := range Flatten(c.Pages) {
		if err := page.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// RequireIDs returns an EINVALID error naming the first page in the tree
// that has not been created remotely yet.
func (c *Config) RequireIDs() error {
	for _, page := range Flatten(c.Pages) {
		if page.ID == nil {
			return Errorf(EINVALID, "page %q: `id` param is required, create the page first", page.Name())
		}
	}
	return nil
}

// Overrides holds command-level settings applied to the whole tree before
// traversal. Nil fields leave the configuration untouched.
type Overrides struct {
	URL       *string
	Watermark *string
	Link      *string
}

// ApplyOverrides applies command-level overrides to the config and to every
// page in the tree.
//
// A watermark of "false" clears the watermark, "true" sets DefaultWatermark
// and any other value is used literally. A link of "false" clears the link,
// any other value is used as the link URL.
func (c *Config) ApplyOverrides(o Overrides) {
	if o.URL != nil {
		c.URL = *o.URL
	}

	pages := Flatten(c.Pages)

	if o.Watermark != nil {
		watermark := *o.Watermark
		switch watermark {
		case "false":
			watermark = ""
		case "true":
			watermark = DefaultWatermark
		}
		for _, page := range pages {
			page.Watermark = watermark
		}
	}

	if o.Link != nil {
		link := *o.Link
		if link == "false" {
			link = ""
		}
		for _, page := range pages {
			page.Link = link
		}
	}
}

// PageConfig describes a single page in the tree and its children.
type PageConfig struct {
	// ID is the remote page identifier. Nil means the page has not been
	// created yet.
	ID *int

	Title     string
	Source    string
	Link      string
	Watermark string

	Images    []AttachmentRef
	Downloads []AttachmentRef

	Pages []*PageConfig
}

// Validate returns an error if the page contains invalid fields.
// Children are not validated.
func (p *PageConfig) Validate() error {
	if p.Source == "" {
		return Errorf(EINVALID, "page %q: `source` param is required", p.Name())
	}
	for _, ref := range p.Attachments() {
		if ref.Path == "" {
			return Errorf(EINVALID, "page %q: attachment path required", p.Name())
		}
	}
	return nil
}

// Name returns a human readable identifier for log and error messages.
func (p *PageConfig) Name() string {
	switch {
	case p.Source != "":
		return p.Source
	case p.Title != "":
		return p.Title
	default:
		return "(unnamed)"
	}
}

// SetID records the remote identifier once the page has been created.
func (p *PageConfig) SetID(id int) {
	p.ID = &id
}

// InitialState returns the state the synchronization engine starts in for
// this page.
func (p *PageConfig) InitialState() PageState {
	if p.ID == nil {
		return StateNeedsCreate
	}
	return StateNeedsUpdateCheck
}

// Attachments returns all attachment references of the page, images first.
func (p *PageConfig) Attachments() []AttachmentRef {
	refs := make([]AttachmentRef, 0, len(p.Images)+len(p.Downloads))
	refs = append(refs, p.Images...)
	refs = append(refs, p.Downloads...)
	return refs
}

// Flatten returns every page of the tree in pre-order: each parent is
// followed by its children in document order.
func Flatten(pages []*PageConfig) []*PageConfig {
	var out []*PageConfig
	for _, page := range pages {
		out = append(out, page)
		out = append(out, Flatten(page.Pages)...)
	}
	return out
}
