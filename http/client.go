// Package http provides a REST implementation of confpub.ContentGateway
// for wiki servers exposing the v5.5 content API.
package http

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fwojciec/confpub"
	"golang.org/x/time/rate"
)


// apiPath is the REST API prefix below the wiki base URL.
const apiPath = "rest/api"

// pageExpand lists the properties LoadPage asks the server to expand.
const pageExpand = "ancestors,version,space,body.storage"

// Ensure Client implements confpub.ContentGateway at compile time.
var _ confpub.ContentGateway = (*Client)(nil)

// Credentials authenticate requests with HTTP basic auth.
type Credentials struct {
	User     string
	Password string
}

// ParseAuth decodes a base64 encoded "user:password" string.
func ParseAuth(encoded string) (Credentials, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return Credentials{}, confpub.Errorf(confpub.EINVALID, "invalid auth string: %v", err)
	}
	user, password, ok := strings.Cut(string(raw), ":")
	if !ok || user == "" {
		return Credentials{}, confpub.Errorf(confpub.EINVALID, "auth string must encode user:password")
	}
	return Credentials{User: user, Password: password}, nil
}

// Client talks to the wiki content API. Calls are sequential; a Client
// performs no retries.
type Client struct {
	baseURL string
	creds   Credentials
	client  *http.Client
	timeout time.Duration
	limiter *rate.Limiter
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the timeout for HTTP requests.
// Requests have no timeout of their own by default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithRateLimit paces requests to at most rps requests per second.
// Requests are not paced by default.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// WithLogger sets the logger used for request tracing and error bodies.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a Client for the wiki at baseURL.
func NewClient(baseURL string, creds Credentials, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		creds:   creds,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.client = &http.Client{
		Timeout: c.timeout,
	}

	return c
}

// LoadPage fetches a page with its ancestors, version, space and body.
func (c *Client) LoadPage(ctx context.Context, id int) (*confpub.Page, error) {
	query := url.Values{"expand": {pageExpand}}
	var data contentData
	if err := c.doJSON(ctx, http.MethodGet, c.url(query, "content", id), nil, &data); err != nil {
		return nil, err
	}
	return data.page()
}

// CreatePage creates page below its immediate parent and returns the new
// page identifier.
func (c *Client) CreatePage(ctx context.Context, page *confpub.Page) (int, error) {
	var data contentData
	if err := c.doJSON(ctx, http.MethodPost, c.url(nil, "content"), newPayload(page, false), &data); err != nil {
		return 0, err
	}
	return parseID(data.ID)
}

// UpdatePage stores page as version page.Version. The version number is
// sent as is.
func (c *Client) UpdatePage(ctx context.Context, page *confpub.Page) (int, error) {
	var data contentData
	if err := c.doJSON(ctx, http.MethodPut, c.url(nil, "content", page.ID), newPayload(page, true), &data); err != nil {
		return 0, err
	}
	return parseID(data.ID)
}

// ListAttachments returns the attachments of a page.
func (c *Client) ListAttachments(ctx context.Context, pageID int) ([]*confpub.Attachment, error) {
	var data attachmentList
	if err := c.doJSON(ctx, http.MethodGet, c.url(nil, "content", pageID, "child", "attachment"), nil, &data); err != nil {
		return nil, err
	}

	attachments := make([]*confpub.Attachment, 0, len(data.Results))
	for _, r := range data.Results {
		attachments = append(attachments, &confpub.Attachment{
			ID:        r.ID,
			Title:     r.Title,
			MediaType: r.Metadata.MediaType,
			Kind:      confpub.KindForMediaType(r.Metadata.MediaType),
		})
	}
	return attachments, nil
}

// UploadAttachment uploads the content of r as a new attachment named
// filename.
func (c *Client) UploadAttachment(ctx context.Context, pageID int, filename string, r io.Reader) (*confpub.Attachment, error) {
	body, contentType, err := multipartFile(filename, r)
	if err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodPost, c.url(nil, "content", pageID, "child", "attachment"), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Atlassian-Token", "no-check")

	var data attachmentList
	if err := c.do(req, &data); err != nil {
		return nil, err
	}
	if len(data.Results) == 0 {
		return &confpub.Attachment{Title: filename, Kind: confpub.KindForMediaType(contentTypeOf(filename))}, nil
	}
	r0 := data.Results[0]
	return &confpub.Attachment{
		ID:        r0.ID,
		Title:     r0.Title,
		MediaType: r0.Metadata.MediaType,
		Kind:      confpub.KindForMediaType(r0.Metadata.MediaType),
	}, nil
}

// url builds an API URL from path parts and an optional query.
func (c *Client) url(query url.Values, parts ...any) string {
	segments := make([]string, 0, len(parts)+2)
	segments = append(segments, c.baseURL, apiPath)
	for _, p := range parts {
		segments = append(segments, url.PathEscape(fmt.Sprint(p)))
	}
	u := strings.Join(segments, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func (c *Client) doJSON(ctx context.Context, method, u string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := c.newRequest(ctx, method, u, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, out)
}

func (c *Client) newRequest(ctx context.Context, method, u string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.creds.User, c.creds.Password)
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// do sends req and decodes a successful JSON response into out.
// Non-2xx responses are returned as errors carrying status and body.
func (c *Client) do(req *http.Request, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(req.Context()); err != nil {
			return err
		}
	}

	c.logger.Debug("request", "method", req.Method, "url", req.URL.String())

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("request failed", "method", req.Method, "url", req.URL.String(), "status", resp.StatusCode, "body", string(body))
		return confpub.Errorf(errorCode(resp.StatusCode), "HTTP %d for %s %s: %s",
			resp.StatusCode, req.Method, req.URL.Path, strings.TrimSpace(string(body)))
	}

	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response from %s: %w", req.URL.Path, err)
	}
	return nil
}

// errorCode maps an HTTP status to an application error code.
func errorCode(status int) string {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return confpub.EUNAUTHORIZED
	case http.StatusNotFound:
		return confpub.ENOTFOUND
	case http.StatusConflict:
		return confpub.ECONFLICT
	default:
		return confpub.EINTERNAL
	}
}
