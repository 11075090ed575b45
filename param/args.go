package param

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

var reScheme = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+-.]*://`)

// The supported method subcommands.
var methods = []string{"HEAD", "GET", "POST", "PUT", "PATCH", "DELETE"}

// Options control positional-argument parsing.
type Options struct {
	// Form selects multipart/form-data body encoding and permits
	// key@filename items.
	Form bool

	// Secure makes https the default scheme for URLs given without one.
	Secure bool

	// ReadStdin requests that the raw request body be read from stdin.
	ReadStdin bool
}

// Invocation is the parsed positional part of the command line.
type Invocation struct {
	// Method is the method subcommand, or empty when the method should be
	// chosen from the body (GET without one, POST with one).
	Method     string
	URL        *url.URL
	Parameters []Parameter
}

// UsageError indicates the command line could not be understood at all;
// callers print usage in response.
type UsageError string

func (e *UsageError) Error() string {
	return string(*e)
}

func newUsageError(message string) error {
	u := UsageError(message)
	return errors.WithStack(&u)
}

// ParseArgs interprets the positional arguments: an optional method
// subcommand, the URL, and zero or more request items.
func ParseArgs(args []string, options *Options) (*Invocation, error) {
	var argMethod string
	var argURL string
	var argItems []string
	switch len(args) {
	case 0:
		return nil, newUsageError("URL is required")
	case 1:
		argURL = args[0]
	default:
		if m, ok := matchMethod(args[0]); ok {
			argMethod = m
			argURL = args[1]
			argItems = args[2:]
		} else {
			argURL = args[0]
			argItems = args[1:]
		}
	}

	u, err := parseURL(argURL, options)
	if err != nil {
		return nil, err
	}

	params, err := ParseParameters(argItems)
	if err != nil {
		return nil, err
	}

	return &Invocation{
		Method:     argMethod,
		URL:        u,
		Parameters: params,
	}, nil
}

func matchMethod(s string) (string, bool) {
	for _, m := range methods {
		if strings.EqualFold(s, m) {
			return m, true
		}
	}
	return "", false
}

func parseURL(s string, options *Options) (*url.URL, error) {
	defaultScheme := "http"
	if options.Secure {
		defaultScheme = "https"
	}
	defaultHost := "localhost"

	// ex) :8080/hello or /hello
	if strings.HasPrefix(s, ":") || strings.HasPrefix(s, "/") {
		s = defaultHost + s
	}

	// ex) example.com/hello
	if !reScheme.MatchString(s) {
		s = defaultScheme + "://" + s
	}

	u, err := url.Parse(s)
	if err != nil {
		return nil, newUsageError("Invalid URL: " + s)
	}
	u.Host = strings.TrimSuffix(u.Host, ":")
	if u.Path == "" {
		u.Path = "/"
	}
	return u, nil
}
