package output

import (
	"encoding/json"
	"net/http"
	"net/textproto"
	"sort"
	"strconv"
	"strings"
)

// ResponseView is the normalized, print-ready form of a received response.
type ResponseView struct {
	Proto      string
	StatusCode int
	Reason     string

	// Headers are the canonicalized header lines, sorted by name. The
	// Content-Length line carries the resolved length, not the wire value.
	Headers []HeaderLine

	// Body is the decoded body text. JSON is non-nil when Body parses as
	// a JSON object.
	Body string
	JSON map[string]interface{}
}

type HeaderLine struct {
	Name  string
	Value string
}

// NewView normalizes a received response. contentLength is the length of
// the decoded body as reported by the transport; pass a negative value
// when the transport could not determine it (a compressed body, say) and
// the byte count of body is used instead. An empty reason becomes
// "Unknown". A body that does not parse as a JSON object is kept as raw
// text; that is the expected fallback, not an error.
func NewView(proto string, statusCode int, reason string, header http.Header, body []byte, contentLength int64) *ResponseView {
	if reason == "" {
		reason = "Unknown"
	}

	var lines []HeaderLine
	for name, values := range header {
		canonical := textproto.CanonicalMIMEHeaderKey(name)
		if canonical == "Content-Length" {
			// Replaced below by the resolved length, which may differ
			// from the wire value after decompression.
			continue
		}
		for _, value := range values {
			lines = append(lines, HeaderLine{Name: canonical, Value: value})
		}
	}
	resolved := contentLength
	if resolved < 0 {
		resolved = int64(len(body))
	}
	lines = append(lines, HeaderLine{Name: "Content-Length", Value: strconv.FormatInt(resolved, 10)})
	sort.Slice(lines, func(i, j int) bool {
		if lines[i].Name != lines[j].Name {
			return lines[i].Name < lines[j].Name
		}
		return lines[i].Value < lines[j].Value
	})

	view := &ResponseView{
		Proto:      proto,
		StatusCode: statusCode,
		Reason:     reason,
		Headers:    lines,
		Body:       string(body),
	}

	var obj map[string]interface{}
	if err := json.Unmarshal(body, &obj); err == nil && obj != nil {
		view.JSON = obj
	}
	return view
}

// NewViewFromResponse normalizes an *http.Response whose body has already
// been read into body.
func NewViewFromResponse(resp *http.Response, body []byte) *ResponseView {
	reason := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	return NewView(resp.Proto, resp.StatusCode, reason, resp.Header, body, resp.ContentLength)
}

// FormatResponse renders the view as plain text: status line, sorted
// headers, blank line, body. The same view always formats to the same
// bytes.
func FormatResponse(view *ResponseView) string {
	var b strings.Builder
	printer := NewPlainPrinter(&b)
	// strings.Builder writes never fail.
	_ = printer.PrintStatusLine(view)
	_ = printer.PrintHeader(view)
	_ = printer.PrintBody(view)
	return b.String()
}
