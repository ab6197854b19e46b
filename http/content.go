package http

import (
	"bytes"
	"io"
	"mime"
	"mime/multipart"
	"path"
	"strconv"

	"github.com/fwojciec/confpub"
)

// Wire representation of the content API. Identifiers travel as strings.

type contentData struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Title     string         `json:"title"`
	Space     *spaceData     `json:"space,omitempty"`
	Version   *versionData   `json:"version,omitempty"`
	Ancestors []ancestorData `json:"ancestors,omitempty"`
	Body      *bodyData      `json:"body,omitempty"`
}

type spaceData struct {
	Key string `json:"key"`
}

type versionData struct {
	Number int `json:"number"`
}

type ancestorData struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

type bodyData struct {
	Storage storageData `json:"storage"`
}

type storageData struct {
	Value          string `json:"value"`
	Representation string `json:"representation"`
}

type attachmentList struct {
	Results []attachmentData `json:"results"`
}

type attachmentData struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Metadata struct {
		MediaType string `json:"mediaType"`
	} `json:"metadata"`
}

// page converts a content response into a domain page.
func (d *contentData) page() (*confpub.Page, error) {
	id, err := parseID(d.ID)
	if err != nil {
		return nil, err
	}

	page := &confpub.Page{
		ID:    id,
		Type:  d.Type,
		Title: d.Title,
	}
	if d.Space != nil {
		page.SpaceKey = d.Space.Key
	}
	if d.Version != nil {
		page.Version = d.Version.Number
	}
	if d.Body != nil {
		page.Body = d.Body.Storage.Value
	}
	for _, a := range d.Ancestors {
		aid, err := parseID(a.ID)
		if err != nil {
			return nil, err
		}
		page.Ancestors = append(page.Ancestors, confpub.Ancestor{ID: aid, Type: a.Type})
	}
	return page, nil
}

// payload is the request body of create and update calls. Only set fields
// are sent.
type payload struct {
	ID        string         `json:"id,omitempty"`
	Type      string         `json:"type"`
	Title     string         `json:"title,omitempty"`
	Space     spaceData      `json:"space"`
	Body      *bodyData      `json:"body,omitempty"`
	Ancestors []ancestorData `json:"ancestors,omitempty"`
	Version   *versionData   `json:"version,omitempty"`
}

// newPayload builds a request body for page. Only the immediate parent is
// sent as ancestor. Update payloads carry the identifier and version and
// always carry a body so that empty content clears the remote page.
func newPayload(page *confpub.Page, update bool) *payload {
	p := &payload{
		Type:  page.Type,
		Title: page.Title,
		Space: spaceData{Key: page.SpaceKey},
	}
	if p.Type == "" {
		p.Type = confpub.ContentTypePage
	}
	if page.Body != "" || update {
		p.Body = &bodyData{Storage: storageData{Value: page.Body, Representation: "storage"}}
	}
	if parent, ok := page.Parent(); ok {
		typ := parent.Type
		if typ == "" {
			typ = confpub.ContentTypePage
		}
		p.Ancestors = []ancestorData{{ID: strconv.Itoa(parent.ID), Type: typ}}
	}
	if update {
		p.ID = strconv.Itoa(page.ID)
		p.Version = &versionData{Number: page.Version}
	}
	return p
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, confpub.Errorf(confpub.EINTERNAL, "invalid content id %q", s)
	}
	return id, nil
}

// multipartFile encodes r as the "file" part of a multipart form.
func multipartFile(filename string, r io.Reader) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

// contentTypeOf guesses a media type from the file extension.
func contentTypeOf(filename string) string {
	return mime.TypeByExtension(path.Ext(filename))
}
