package param

import "encoding/json"

// Kind identifies which of the seven request-item forms a command-line
// argument encodes. The form is determined by the separator between the
// key and the value (see grammar.go).
type Kind int

const (
	Header Kind = iota
	FileUpload
	Query
	DataField
	DataFieldFromFile
	RawJSONField
	RawJSONFieldFromFile
)

func (k Kind) String() string {
	switch k {
	case Header:
		return "header"
	case FileUpload:
		return "file upload"
	case Query:
		return "query parameter"
	case DataField:
		return "data field"
	case DataFieldFromFile:
		return "data field from file"
	case RawJSONField:
		return "raw JSON field"
	case RawJSONFieldFromFile:
		return "raw JSON field from file"
	default:
		return "unknown"
	}
}

// Parameter is one classified request item. Key is never empty and never
// contains a separator substring.
type Parameter struct {
	Kind Kind
	Key  string

	// Value holds the literal value for Header, Query and DataField, and
	// the file contents for DataFieldFromFile.
	Value string

	// Filename is the path given on the command line for FileUpload,
	// DataFieldFromFile and RawJSONFieldFromFile.
	Filename string

	// JSON holds the validated JSON text for RawJSONField and
	// RawJSONFieldFromFile.
	JSON json.RawMessage
}

// IsBodyField reports whether the parameter contributes to the request
// body. Used to decide between GET and POST when no method is given.
func (p Parameter) IsBodyField() bool {
	switch p.Kind {
	case DataField, DataFieldFromFile, RawJSONField, RawJSONFieldFromFile, FileUpload:
		return true
	default:
		return false
	}
}
