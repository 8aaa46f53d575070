package workflow

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// ErrUnreachable indicates a network-level failure: the webhook endpoint
// never produced an HTTP response. Distinct from a non-2xx reply so callers
// can tell "server said no" apart from "could not reach server".
var ErrUnreachable = errors.New("workflow endpoint unreachable")

// Attachment is a binary file included in a webhook payload.
type Attachment struct {
	Field    string
	FileName string
	Content  []byte
}

// Payload accumulates multipart form fields for a single webhook call.
// Field order is preserved on the wire.
type Payload struct {
	fields [][2]string
	files  []Attachment
}

// NewPayload creates a payload carrying the given action marker and a
// submission timestamp, the two fields every workflow call starts with.
func NewPayload(action string) *Payload {
	p := &Payload{}
	p.Set("action", action)
	p.Set("timestamp", time.Now().UTC().Format(time.RFC3339))
	return p
}

// Set appends a form field. Empty values are skipped so optional metadata
// can be passed through unconditionally.
func (p *Payload) Set(name, value string) *Payload {
	if value == "" {
		return p
	}
	p.fields = append(p.fields, [2]string{name, value})
	return p
}

// Attach adds a binary attachment to this payload.
func (p *Payload) Attach(field, fileName string, content []byte) *Payload {
	p.files = append(p.files, Attachment{Field: field, FileName: fileName, Content: content})
	return p
}

// Get returns the first value recorded for name, or "".
func (p *Payload) Get(name string) string {
	for _, f := range p.fields {
		if f[0] == name {
			return f[1]
		}
	}
	return ""
}

// encode writes the payload as multipart/form-data and returns the body and
// content type.
func (p *Payload) encode() (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, f := range p.fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", f[0], err)
		}
	}
	for _, f := range p.files {
		fw, err := w.CreateFormFile(f.Field, f.FileName)
		if err != nil {
			return nil, "", fmt.Errorf("create file part %s: %w", f.Field, err)
		}
		if _, err := fw.Write(f.Content); err != nil {
			return nil, "", fmt.Errorf("write file part %s: %w", f.Field, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

// Reply is the raw outcome of one webhook call. Body is returned verbatim;
// decoding is the caller's concern.
type Reply struct {
	Status int
	Body   string
}

// OK reports whether the server answered with a 2xx status.
func (r *Reply) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// Sender issues one webhook call. Implemented by Client; faked in tests.
type Sender interface {
	Send(ctx context.Context, targetURL string, payload *Payload) (*Reply, error)
}

// Client posts multipart payloads to workflow webhooks. One attempt per
// call, no retries: the claim protocol is not idempotent, so retry policy
// belongs to the user, not this layer.
type Client struct {
	httpc *http.Client
}

// NewClient creates a webhook client using the default http.Client.
func NewClient() *Client {
	return &Client{httpc: &http.Client{}}
}

// Send posts the payload to targetURL and returns the raw reply. A network
// failure is reported as ErrUnreachable; any HTTP response, success or not,
// comes back as a Reply with no error.
func (c *Client) Send(ctx context.Context, targetURL string, payload *Payload) (*Reply, error) {
	if targetURL == "" {
		return nil, fmt.Errorf("send: target URL is empty")
	}

	body, contentType, err := payload.encode()
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, targetURL, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrUnreachable, err)
	}

	return &Reply{Status: resp.StatusCode, Body: string(raw)}, nil
}
