package exchange

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"

	"github.com/mizuno/hurl-go/param"
	"github.com/mizuno/hurl-go/version"
	"github.com/pkg/errors"
)

// BuildHTTPRequest renders a RequestSpec into an *http.Request ready to be
// sent. Auth options contribute an Authorization header unless the user
// supplied one explicitly.
func BuildHTTPRequest(spec *RequestSpec, options *Options) (*http.Request, error) {
	u, err := buildURL(spec)
	if err != nil {
		return nil, err
	}

	header := buildHTTPHeader(spec)

	bodyTuple, err := buildHTTPBody(spec)
	if err != nil {
		return nil, err
	}

	if header.Get("Content-Type") == "" && bodyTuple.contentType != "" {
		header.Set("Content-Type", bodyTuple.contentType)
	}
	if header.Get("User-Agent") == "" {
		header.Set("User-Agent", fmt.Sprintf("hurl-go/%s", version.Current()))
	}
	if header.Get("Authorization") == "" {
		if options.Auth.Enabled {
			header.Set("Authorization", "Basic "+basicCredentials(options.Auth.UserName, options.Auth.Password))
		} else if options.Token != "" {
			header.Set("Authorization", "Bearer "+options.Token)
		}
	}

	r := http.Request{
		Method:        spec.Method,
		URL:           u,
		Header:        header,
		Host:          header.Get("Host"),
		Body:          bodyTuple.body,
		ContentLength: bodyTuple.contentLength,
	}
	return &r, nil
}

func buildURL(spec *RequestSpec) (*url.URL, error) {
	q, err := url.ParseQuery(spec.URL.RawQuery)
	if err != nil {
		return nil, errors.Wrap(err, "parsing query string")
	}
	for _, p := range spec.Query {
		q.Add(p.Key, p.Value)
	}

	u := *spec.URL
	u.RawQuery = q.Encode()
	return &u, nil
}

func buildHTTPHeader(spec *RequestSpec) http.Header {
	header := make(http.Header)
	for _, name := range spec.Header.Names() {
		value, _ := spec.Header.Get(name)
		header.Set(name, value)
	}
	return header
}

type bodyTuple struct {
	body          io.ReadCloser
	contentLength int64
	contentType   string
}

func buildHTTPBody(spec *RequestSpec) (bodyTuple, error) {
	switch {
	case spec.Raw != nil:
		return buildRawBody(spec)
	case !spec.HasBody():
		return bodyTuple{}, nil
	case spec.Form:
		return buildFormBody(spec)
	default:
		return buildJSONBody(spec)
	}
}

func buildJSONBody(spec *RequestSpec) (bodyTuple, error) {
	obj := map[string]interface{}{}
	for _, field := range spec.Fields {
		if field.JSON != nil {
			obj[field.Key] = field.JSON
		} else {
			obj[field.Key] = field.Value
		}
	}
	body, err := json.Marshal(obj)
	if err != nil {
		return bodyTuple{}, errors.Wrap(err, "marshaling JSON of HTTP body")
	}
	return bodyTuple{
		body:          ioutil.NopCloser(bytes.NewReader(body)),
		contentLength: int64(len(body)),
		contentType:   "application/json",
	}, nil
}

func buildFormBody(spec *RequestSpec) (bodyTuple, error) {
	var buffer bytes.Buffer
	writer := multipart.NewWriter(&buffer)

	for _, field := range spec.Fields {
		if err := writer.WriteField(field.Key, field.Value); err != nil {
			return bodyTuple{}, errors.Wrapf(err, "writing form field '%s'", field.Key)
		}
	}
	for _, file := range spec.Files {
		data, err := ioutil.ReadFile(file.Filename)
		if err != nil {
			return bodyTuple{}, param.NewError(param.FileReadError, file.Filename,
				"reading upload file of '%s': %v", file.Key, err)
		}
		part, err := writer.CreateFormFile(file.Key, filepath.Base(file.Filename))
		if err != nil {
			return bodyTuple{}, errors.Wrapf(err, "creating form file part '%s'", file.Key)
		}
		if _, err := part.Write(data); err != nil {
			return bodyTuple{}, errors.Wrapf(err, "writing form file part '%s'", file.Key)
		}
	}
	if err := writer.Close(); err != nil {
		return bodyTuple{}, errors.Wrap(err, "finishing multipart body")
	}

	return bodyTuple{
		body:          ioutil.NopCloser(bytes.NewReader(buffer.Bytes())),
		contentLength: int64(buffer.Len()),
		contentType:   writer.FormDataContentType(),
	}, nil
}

func buildRawBody(spec *RequestSpec) (bodyTuple, error) {
	return bodyTuple{
		body:          ioutil.NopCloser(bytes.NewReader(spec.Raw)),
		contentLength: int64(len(spec.Raw)),
		contentType:   "application/json",
	}, nil
}

func basicCredentials(user, password string) string {
	return base64.StdEncoding.EncodeToString([]byte(user + ":" + password))
}
