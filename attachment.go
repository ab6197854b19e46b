package confpub

import (
	"path"
	"strings"
)

// AttachmentKind discriminates image attachments from downloads. The kind
// decides which build directory an attachment is read from.
type AttachmentKind string

// AttachmentKind constants.
const (
	AttachmentImage    AttachmentKind = "image"
	AttachmentDownload AttachmentKind = "download"
)

// AttachmentRef references a local attachment in the page tree.
type AttachmentRef struct {
	Kind AttachmentKind
	Path string
}

// Filename returns the basename used as the remote attachment title.
func (r AttachmentRef) Filename() string {
	return path.Base(r.Path)
}

// Attachment is a file attached to a remote page.
type Attachment struct {
	ID        string
	Title     string
	MediaType string
	Kind      AttachmentKind
	Path      string
}

// KindForMediaType returns AttachmentImage for image media types and
// AttachmentDownload otherwise.
func KindForMediaType(mediaType string) AttachmentKind {
	if strings.Contains(mediaType, "image") {
		return AttachmentImage
	}
	return AttachmentDownload
}

// HasAttachment reports whether an attachment titled filename exists.
func HasAttachment(attachments []*Attachment, filename string) bool {
	for _, a := range attachments {
		if a.Title == filename {
			return true
		}
	}
	return false
}
