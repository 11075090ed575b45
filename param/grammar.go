package param

import "strings"

// The separator table, longest token first. Several separators are
// substrings of earlier ones (':' of ':=', ':=' of ':=@', '=' of '==' and
// '=@'), so the scan must try them in exactly this order. A regexp
// alternation would not preserve this precedence.
var separators = []struct {
	token string
	kind  Kind
}{
	{":=@", RawJSONFieldFromFile},
	{":=", RawJSONField},
	{"=@", DataFieldFromFile},
	{"==", Query},
	{"@", FileUpload},
	{":", Header},
	{"=", DataField},
}

// splitArg classifies a single key<sep>value argument. The first separator
// from the table that occurs anywhere in the argument wins, and its first
// occurrence splits the argument into key and value.
func splitArg(arg string) (Kind, string, string, error) {
	for _, sep := range separators {
		i := strings.Index(arg, sep.token)
		if i < 0 {
			continue
		}
		if i == 0 {
			return 0, "", "", NewError(MalformedParameter, arg, "empty key in request item: %s", arg)
		}
		return sep.kind, arg[:i], arg[i+len(sep.token):], nil
	}
	return 0, "", "", NewError(MalformedParameter, arg, "unknown request item: %s", arg)
}
