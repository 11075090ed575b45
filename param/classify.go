package param

import (
	"encoding/json"
	"io/ioutil"
	"regexp"

	"github.com/sirupsen/logrus"
)

var reHeaderFieldName = regexp.MustCompile("^[-!#$%&'*+.^_|~a-zA-Z0-9]+$")

// ParseParameters classifies every argument into a typed Parameter. It is
// pure except for the file reads implied by the *FromFile kinds; each read
// loads the whole file and releases the handle before returning.
func ParseParameters(args []string) ([]Parameter, error) {
	var params []Parameter
	for _, arg := range args {
		p, err := ParseParameter(arg)
		if err != nil {
			return nil, err
		}
		params = append(params, p)
	}
	return params, nil
}

// ParseParameter classifies a single key<sep>value argument.
func ParseParameter(arg string) (Parameter, error) {
	kind, key, value, err := splitArg(arg)
	if err != nil {
		return Parameter{}, err
	}
	p, err := classify(kind, key, value)
	if err != nil {
		return Parameter{}, err
	}
	logrus.Debugf("classified %q as %s '%s'", arg, p.Kind, p.Key)
	return p, nil
}

func classify(kind Kind, key, value string) (Parameter, error) {
	switch kind {
	case Header:
		if !reHeaderFieldName.MatchString(key) {
			return Parameter{}, NewError(MalformedParameter, key, "invalid header field name: %s", key)
		}
		return Parameter{Kind: Header, Key: key, Value: value}, nil

	case Query:
		return Parameter{Kind: Query, Key: key, Value: value}, nil

	case DataField:
		return Parameter{Kind: DataField, Key: key, Value: value}, nil

	case DataFieldFromFile:
		data, err := readFile(key, value)
		if err != nil {
			return Parameter{}, err
		}
		return Parameter{Kind: DataFieldFromFile, Key: key, Filename: value, Value: string(data)}, nil

	case RawJSONField:
		j, err := validateJSON(key, []byte(value))
		if err != nil {
			return Parameter{}, err
		}
		return Parameter{Kind: RawJSONField, Key: key, JSON: j}, nil

	case RawJSONFieldFromFile:
		data, err := readFile(key, value)
		if err != nil {
			return Parameter{}, err
		}
		j, err := validateJSON(key, data)
		if err != nil {
			return Parameter{}, err
		}
		return Parameter{Kind: RawJSONFieldFromFile, Key: key, Filename: value, JSON: j}, nil

	case FileUpload:
		// The form-mode requirement is checked when the request is built.
		return Parameter{Kind: FileUpload, Key: key, Filename: value}, nil

	default:
		return Parameter{}, NewError(MalformedParameter, key, "unknown request item kind: %v", kind)
	}
}

func readFile(key, path string) ([]byte, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, NewError(FileReadError, path, "reading value of '%s': %v", key, err)
	}
	logrus.Debugf("read %d bytes from %s for '%s'", len(data), path, key)
	return data, nil
}

func validateJSON(key string, text []byte) (json.RawMessage, error) {
	var v interface{}
	if err := json.Unmarshal(text, &v); err != nil {
		if syn, ok := err.(*json.SyntaxError); ok {
			return nil, NewError(InvalidJSON, key, "parsing JSON value of '%s' at offset %d: %v", key, syn.Offset, err)
		}
		return nil, NewError(InvalidJSON, key, "parsing JSON value of '%s': %v", key, err)
	}
	return json.RawMessage(text), nil
}
