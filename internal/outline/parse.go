package outline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// ParseError reports model output that could not become a complete outline.
// Index is the offending slide, or -1 when the whole document is at fault.
type ParseError struct {
	Index  int
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	msg := "outline: " + e.Reason
	if e.Index >= 0 {
		msg = fmt.Sprintf("outline: slide %d: %s", e.Index+1, e.Reason)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error { return e.Err }

const fence = "```"

// StripFences removes a markdown code fence around the payload. A fence
// tagged json wins; otherwise the text between the first two fences is used.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if _, after, ok := strings.Cut(s, fence+"json"); ok {
		body, _, _ := strings.Cut(after, fence)
		return strings.TrimSpace(body)
	}
	if !strings.Contains(s, fence) {
		return s
	}
	body := strings.Split(s, fence)[1]
	// drop another language tag such as ```JSON or ```javascript
	if first, rest, ok := strings.Cut(body, "\n"); ok && isTag(strings.TrimSpace(first)) {
		body = rest
	}
	return strings.TrimSpace(body)
}

func isTag(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
			return false
		}
	}
	return true
}

// Parse turns raw model output into an outline. The result is either complete
// or a *ParseError; a syntactically broken array gets one repair attempt.
func Parse(raw string) (Outline, error) {
	text := StripFences(raw)
	if text == "" {
		return nil, &ParseError{Index: -1, Reason: "empty response"}
	}

	var items []json.RawMessage
	if err := json.Unmarshal([]byte(text), &items); err != nil {
		repaired, rerr := jsonrepair.JSONRepair(text)
		if rerr != nil {
			return nil, &ParseError{Index: -1, Reason: "response is not JSON", Err: err}
		}
		if err := json.Unmarshal([]byte(repaired), &items); err != nil {
			return nil, &ParseError{Index: -1, Reason: "response is not a JSON array", Err: err}
		}
	}
	if len(items) == 0 {
		return nil, &ParseError{Index: -1, Reason: "no slides"}
	}

	out := make(Outline, 0, len(items))
	for i, item := range items {
		d, err := parseDescriptor(item)
		if err != nil {
			err.Index = i
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func parseDescriptor(raw json.RawMessage) (Descriptor, *ParseError) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return Descriptor{}, &ParseError{Reason: "slide is not an object", Err: err}
	}

	var d Descriptor
	title, err := optionalString(fields, "title")
	if err != nil {
		return Descriptor{}, &ParseError{Reason: "title must be a string", Err: err}
	}
	if strings.TrimSpace(title) == "" {
		return Descriptor{}, &ParseError{Reason: "missing title"}
	}
	d.Title = title

	content, ok := fields["content"]
	if !ok || isNull(content) {
		return Descriptor{}, &ParseError{Reason: "missing content"}
	}
	switch c := bytes.TrimSpace(content); c[0] {
	case '"':
		var s string
		if err := json.Unmarshal(c, &s); err != nil {
			return Descriptor{}, &ParseError{Reason: "bad content", Err: err}
		}
		d.Content = Text(s)
	case '[':
		list, err := stringList(c)
		if err != nil {
			return Descriptor{}, &ParseError{Reason: "content list must hold strings", Err: err}
		}
		d.Content = Bullets(list...)
	default:
		return Descriptor{}, &ParseError{Reason: "content must be a string or a list of strings"}
	}

	kind, err := optionalString(fields, "slide_type")
	if err != nil {
		return Descriptor{}, &ParseError{Reason: "slide_type must be a string", Err: err}
	}
	d.Kind = ParseKind(kind)

	if d.ImageQuery, err = optionalString(fields, "image_prompt"); err != nil {
		return Descriptor{}, &ParseError{Reason: "image_prompt must be a string", Err: err}
	}
	d.ImageQuery = strings.TrimSpace(d.ImageQuery)
	return d, nil
}

func optionalString(fields map[string]json.RawMessage, key string) (string, error) {
	v, ok := fields[key]
	if !ok || isNull(v) {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return "", err
	}
	return s, nil
}

// stringList decodes a JSON array whose every element is a string. Unlike a
// plain []string decode, a null element is an error.
func stringList(raw json.RawMessage) ([]string, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	list := make([]string, len(items))
	for i, item := range items {
		if isNull(item) {
			return nil, fmt.Errorf("item %d is null", i+1)
		}
		if err := json.Unmarshal(item, &list[i]); err != nil {
			return nil, fmt.Errorf("item %d: %w", i+1, err)
		}
	}
	return list, nil
}

func isNull(v json.RawMessage) bool {
	t := bytes.TrimSpace(v)
	return len(t) == 0 || string(t) == "null"
}
