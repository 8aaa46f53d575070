package workflow

import (
	"encoding/json"
	"strings"
)

// Kind classifies a decoded webhook response body.
type Kind int

const (
	// KindEmpty is a blank or whitespace-only body. Treated as an implicit
	// success carrying no data.
	KindEmpty Kind = iota
	// KindStructured is a single JSON object.
	KindStructured
	// KindStream is a newline-delimited sequence of begin/item/end records.
	KindStream
	// KindText is anything else, carried through verbatim.
	KindText
)

// Response is the normalized form of a webhook reply body. The n8n workflow
// answers with whatever shape the active node produces, so every caller goes
// through this one boundary instead of type-checking raw JSON at each site.
type Response struct {
	Kind     Kind
	Fields   map[string]any // structured data, when any was recovered
	Text     string         // combined stream content or raw non-JSON body
	Metadata map[string]any // stream begin.metadata, if present
	Raw      string         // original body, always preserved
}

// streamRecord is one line of an NDJSON stream reply.
type streamRecord struct {
	Type     string         `json:"type"`
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata"`
	Data     map[string]any `json:"data"`
	Result   map[string]any `json:"result"`
}

// Decode normalizes a raw response body. It never fails: unparseable input
// degrades to KindText with the body preserved, so the caller always has
// something to show the user.
func Decode(raw string) Response {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Response{Kind: KindEmpty, Raw: raw}
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(trimmed), &obj); err == nil {
		return Response{Kind: KindStructured, Fields: obj, Raw: raw}
	}

	if resp, ok := decodeStream(trimmed); ok {
		resp.Raw = raw
		return resp
	}

	return Response{Kind: KindText, Text: raw, Raw: raw}
}

// decodeStream parses an NDJSON stream of begin/item/end records. Item
// content is concatenated into one blob; a trailing end/complete record may
// carry the final result object. The combined blob is itself retried as
// JSON, falling back to free-form text.
func decodeStream(body string) (Response, bool) {
	var (
		content  strings.Builder
		fields   map[string]any
		metadata map[string]any
		parsed   int
	)

	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var rec streamRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			continue
		}
		parsed++
		switch rec.Type {
		case "begin":
			metadata = rec.Metadata
		case "item":
			content.WriteString(rec.Content)
		case "end", "complete":
			switch {
			case rec.Data != nil:
				fields = merge(fields, rec.Data)
			case rec.Result != nil:
				fields = merge(fields, rec.Result)
			}
		}
	}

	if parsed == 0 {
		return Response{}, false
	}

	resp := Response{Kind: KindStream, Fields: fields, Metadata: metadata}

	blob := strings.TrimSpace(content.String())
	if blob != "" {
		var obj map[string]any
		if err := json.Unmarshal([]byte(blob), &obj); err == nil {
			resp.Fields = merge(resp.Fields, obj)
		} else {
			resp.Text = blob
		}
	}
	return resp, true
}

func merge(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any, len(src))
	}
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

// Str returns the field as a trimmed string, or "" when absent or not a
// string.
func (r Response) Str(key string) string {
	v, ok := r.Fields[key]
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

// ResumeURL returns the continuation URL the workflow wants the next call
// posted to, if it supplied one.
func (r Response) ResumeURL() string {
	return r.Str("resumeUrl")
}

// ExecutionID returns the workflow run correlation id, if present.
func (r Response) ExecutionID() string {
	return r.Str("executionId")
}

// Serialized renders the recovered fields as indented JSON for display,
// falling back to the raw body.
func (r Response) Serialized() string {
	if r.Fields != nil {
		if out, err := json.MarshalIndent(r.Fields, "", "  "); err == nil {
			return string(out)
		}
	}
	return r.Raw
}
