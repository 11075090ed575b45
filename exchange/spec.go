package exchange

import (
	"encoding/json"
	"net/url"

	"github.com/mizuno/hurl-go/param"
	"github.com/pkg/errors"
)

// RequestSpec is the transport-agnostic description of one outgoing
// request, assembled from the classified parameters. Building it twice
// from the same inputs yields the same spec.
type RequestSpec struct {
	Method string
	URL    *url.URL

	// Header preserves insertion order; a later value for the same name
	// overwrites an earlier one.
	Header HeaderMap

	// Query keeps every entry in encounter order; duplicate keys survive
	// as repeated query parameters.
	Query []QueryParam

	// Fields are the body fields in insertion order with unique keys
	// (last write wins).
	Fields []BodyField

	// Files are the multipart file parts. Only valid with Form set.
	Files []FilePart

	// Raw is a verbatim request body (from stdin). Mutually exclusive
	// with Fields and Files.
	Raw []byte

	// Form selects multipart/form-data encoding; the default is a JSON
	// object body.
	Form bool
}

type QueryParam struct {
	Key   string
	Value string
}

// BodyField is one body entry. JSON is non-nil for raw JSON fields, which
// are serialized verbatim instead of as quoted strings.
type BodyField struct {
	Key   string
	Value string
	JSON  json.RawMessage
}

type FilePart struct {
	Key      string
	Filename string
}

// HeaderMap is an insertion-ordered header map with last-write-wins keys.
type HeaderMap struct {
	names  []string
	values map[string]string
}

func (h *HeaderMap) Set(name, value string) {
	if h.values == nil {
		h.values = make(map[string]string)
	}
	if _, ok := h.values[name]; !ok {
		h.names = append(h.names, name)
	}
	h.values[name] = value
}

func (h *HeaderMap) Get(name string) (string, bool) {
	value, ok := h.values[name]
	return value, ok
}

// Names returns the header names in insertion order.
func (h *HeaderMap) Names() []string {
	return h.names
}

// HasBody reports whether the spec carries any request body.
func (s *RequestSpec) HasBody() bool {
	return len(s.Fields) > 0 || len(s.Files) > 0 || s.Raw != nil
}

// BuildRequestSpec folds the invocation's parameters into a RequestSpec.
// A key@filename item without form mode fails here with
// FileUploadRequiresForm, and raw JSON fields are rejected in form mode.
func BuildRequestSpec(inv *param.Invocation, options *param.Options, raw []byte) (*RequestSpec, error) {
	spec := &RequestSpec{
		URL:  inv.URL,
		Form: options.Form,
	}

	fieldIndex := map[string]int{}
	setField := func(f BodyField) {
		if i, ok := fieldIndex[f.Key]; ok {
			spec.Fields[i] = f
			return
		}
		fieldIndex[f.Key] = len(spec.Fields)
		spec.Fields = append(spec.Fields, f)
	}

	for _, p := range inv.Parameters {
		switch p.Kind {
		case param.Header:
			spec.Header.Set(p.Key, p.Value)
		case param.Query:
			spec.Query = append(spec.Query, QueryParam{Key: p.Key, Value: p.Value})
		case param.DataField, param.DataFieldFromFile:
			setField(BodyField{Key: p.Key, Value: p.Value})
		case param.RawJSONField, param.RawJSONFieldFromFile:
			if spec.Form {
				return nil, errors.Errorf("raw JSON field '%s' cannot be used in a form body", p.Key)
			}
			setField(BodyField{Key: p.Key, JSON: p.JSON})
		case param.FileUpload:
			if !spec.Form {
				return nil, param.NewError(param.FileUploadRequiresForm, p.Key,
					"file upload '%s@%s' requires form mode (use --form)", p.Key, p.Filename)
			}
			spec.Files = append(spec.Files, FilePart{Key: p.Key, Filename: p.Filename})
		}
	}

	if raw != nil {
		if len(spec.Fields) > 0 || len(spec.Files) > 0 {
			return nil, errors.New("request body (from stdin) and body items (key=value) cannot be mixed")
		}
		spec.Raw = raw
	}

	spec.Method = inv.Method
	if spec.Method == "" {
		if spec.HasBody() {
			spec.Method = "POST"
		} else {
			spec.Method = "GET"
		}
	}

	return spec, nil
}
