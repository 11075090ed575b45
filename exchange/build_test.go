package exchange

import (
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"mime"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/mizuno/hurl-go/version"
)

func readAll(t *testing.T, reader io.Reader) string {
	data, err := ioutil.ReadAll(reader)
	if err != nil {
		t.Fatalf("failed to read: %v", err)
	}
	return string(data)
}

func isEquivalentJSON(t *testing.T, json1, json2 string) bool {
	var obj1, obj2 interface{}
	if err := json.Unmarshal([]byte(json1), &obj1); err != nil {
		t.Fatalf("failed to unmarshal JSON: %s", json1)
	}
	if err := json.Unmarshal([]byte(json2), &obj2); err != nil {
		t.Fatalf("failed to unmarshal JSON: %s", json2)
	}
	return reflect.DeepEqual(obj1, obj2)
}

func makeTempFile(t *testing.T, content string) string {
	tmpfile, err := ioutil.TempFile("", "hurl-go-test-")
	if err != nil {
		t.Fatalf("failed to create temporary file: %v", err)
	}
	if _, err := tmpfile.Write([]byte(content)); err != nil {
		os.Remove(tmpfile.Name())
		t.Fatalf("failed to write to temporary file: %v", err)
	}
	if err := tmpfile.Close(); err != nil {
		os.Remove(tmpfile.Name())
		t.Fatalf("failed to close temporary file: %v", err)
	}
	return tmpfile.Name()
}

func TestBuildHTTPRequest(t *testing.T) {
	// Setup
	spec := &RequestSpec{
		Method: "POST",
		URL:    parseURL(t, "https://localhost:4000/foo"),
		Query: []QueryParam{
			{Key: "q", Value: "hello world"},
		},
		Fields: []BodyField{
			{Key: "hoge", Value: "fuga"},
		},
	}
	spec.Header.Set("X-Foo", "fizz buzz")
	spec.Header.Set("Host", "example.com:8080")
	options := Options{
		Auth: AuthOptions{
			Enabled:  true,
			UserName: "alice",
			Password: "open sesame",
		},
	}

	// Exercise
	actual, err := BuildHTTPRequest(spec, &options)
	if err != nil {
		t.Fatalf("unexpected error: err=%v", err)
	}

	// Verify
	if actual.Method != "POST" {
		t.Errorf("unexpected method: expected=%v, actual=%v", "POST", actual.Method)
	}
	expectedURL := parseURL(t, "https://localhost:4000/foo?q=hello+world")
	if !reflect.DeepEqual(actual.URL, expectedURL) {
		t.Errorf("unexpected URL: expected=%v, actual=%v", expectedURL, actual.URL)
	}
	expectedHeader := http.Header{
		"X-Foo":         []string{"fizz buzz"},
		"Content-Type":  []string{"application/json"},
		"User-Agent":    []string{fmt.Sprintf("hurl-go/%s", version.Current())},
		"Host":          []string{"example.com:8080"},
		"Authorization": []string{"Basic YWxpY2U6b3BlbiBzZXNhbWU="},
	}
	if !reflect.DeepEqual(expectedHeader, actual.Header) {
		t.Errorf("unexpected header: expected=%v, actual=%v", expectedHeader, actual.Header)
	}
	expectedHost := "example.com:8080"
	if actual.Host != expectedHost {
		t.Errorf("unexpected host: expected=%v, actual=%v", expectedHost, actual.Host)
	}
	expectedBody := `{"hoge": "fuga"}`
	actualBody := readAll(t, actual.Body)
	if !isEquivalentJSON(t, expectedBody, actualBody) {
		t.Errorf("unexpected body: expected=%v, actual=%v", expectedBody, actualBody)
	}
}

func TestBuildHTTPRequestBearerToken(t *testing.T) {
	spec := &RequestSpec{
		Method: "GET",
		URL:    parseURL(t, "https://example.com/"),
	}
	options := Options{Token: "abc123"}

	actual, err := BuildHTTPRequest(spec, &options)
	if err != nil {
		t.Fatalf("unexpected error: err=%v", err)
	}

	if got := actual.Header.Get("Authorization"); got != "Bearer abc123" {
		t.Errorf("unexpected Authorization: expected=%q, actual=%q", "Bearer abc123", got)
	}
}

func TestBuildURL(t *testing.T) {
	testCases := []struct {
		title    string
		url      string
		query    []QueryParam
		expected string
	}{
		{
			title: "Typical case",
			url:   "http://example.com/hello",
			query: []QueryParam{
				{Key: "foo", Value: "bar"},
				{Key: "fizz", Value: "buzz"},
			},
			expected: "http://example.com/hello?fizz=buzz&foo=bar",
		},
		{
			title: "Both URL and Query have query string",
			url:   "http://example.com/hello?hoge=fuga",
			query: []QueryParam{
				{Key: "foo", Value: "bar"},
				{Key: "fizz", Value: "buzz"},
			},
			expected: "http://example.com/hello?fizz=buzz&foo=bar&hoge=fuga",
		},
		{
			title: "Multiple values with a key",
			url:   "http://example.com/hello",
			query: []QueryParam{
				{Key: "foo", Value: "value 1"},
				{Key: "foo", Value: "value 2"},
				{Key: "foo", Value: "value 3"},
			},
			expected: "http://example.com/hello?foo=value+1&foo=value+2&foo=value+3",
		},
		{
			title: "Multiple values with a key in both URL and Query",
			url:   "http://example.com/hello?foo=a&foo=z",
			query: []QueryParam{
				{Key: "foo", Value: "value 1"},
				{Key: "foo", Value: "value 2"},
			},
			expected: "http://example.com/hello?foo=a&foo=z&foo=value+1&foo=value+2",
		},
	}
	for _, tt := range testCases {
		t.Run(tt.title, func(t *testing.T) {
			spec := &RequestSpec{
				URL:   parseURL(t, tt.url),
				Query: tt.query,
			}
			u, err := buildURL(spec)
			if err != nil {
				t.Fatalf("unexpected error: err=%v", err)
			}
			if u.String() != tt.expected {
				t.Errorf("unexpected URL: expected=%s, actual=%s", tt.expected, u)
			}
		})
	}
}

func TestBuildJSONBody(t *testing.T) {
	spec := &RequestSpec{
		Fields: []BodyField{
			{Key: "name", Value: "alice"},
			{Key: "numbers", JSON: json.RawMessage("[1,2,3]")},
		},
	}

	bodyTuple, err := buildJSONBody(spec)
	if err != nil {
		t.Fatalf("unexpected error: err=%v", err)
	}

	if bodyTuple.contentType != "application/json" {
		t.Errorf("unexpected content type: %s", bodyTuple.contentType)
	}
	actualBody := readAll(t, bodyTuple.body)
	expectedBody := `{"name": "alice", "numbers": [1,2,3]}`
	if !isEquivalentJSON(t, expectedBody, actualBody) {
		t.Errorf("unexpected body: expected=%v, actual=%v", expectedBody, actualBody)
	}
}

func TestBuildFormBody(t *testing.T) {
	// Setup
	fileName := makeTempFile(t, "uploaded bytes")
	defer os.Remove(fileName)
	spec := &RequestSpec{
		Form: true,
		Fields: []BodyField{
			{Key: "hello", Value: "world"},
		},
		Files: []FilePart{
			{Key: "photo", Filename: fileName},
		},
	}

	// Exercise
	bodyTuple, err := buildFormBody(spec)
	if err != nil {
		t.Fatalf("unexpected error: err=%v", err)
	}

	// Verify
	mediaType, params, err := mime.ParseMediaType(bodyTuple.contentType)
	if err != nil {
		t.Fatalf("failed to parse content type: %v", err)
	}
	if mediaType != "multipart/form-data" {
		t.Errorf("unexpected media type: %s", mediaType)
	}

	reader := multipart.NewReader(bodyTuple.body, params["boundary"])

	part, err := reader.NextPart()
	if err != nil {
		t.Fatalf("failed to read first part: %v", err)
	}
	if part.FormName() != "hello" {
		t.Errorf("unexpected form name: %s", part.FormName())
	}
	if got := readAll(t, part); got != "world" {
		t.Errorf("unexpected field value: %s", got)
	}

	part, err = reader.NextPart()
	if err != nil {
		t.Fatalf("failed to read second part: %v", err)
	}
	if part.FormName() != "photo" {
		t.Errorf("unexpected form name: %s", part.FormName())
	}
	if part.FileName() != filepath.Base(fileName) {
		t.Errorf("unexpected file name: %s", part.FileName())
	}
	if got := readAll(t, part); got != "uploaded bytes" {
		t.Errorf("unexpected file content: %s", got)
	}

	if _, err := reader.NextPart(); err != io.EOF {
		t.Errorf("expected exactly two parts, got err=%v", err)
	}
}

func TestBuildFormBodyMissingUploadFile(t *testing.T) {
	spec := &RequestSpec{
		Form: true,
		Files: []FilePart{
			{Key: "photo", Filename: "no-such-file.png"},
		},
	}

	if _, err := buildFormBody(spec); err == nil {
		t.Fatal("expected an error")
	}
}

func TestBuildHTTPBodyEmpty(t *testing.T) {
	spec := &RequestSpec{URL: parseURL(t, "http://example.com/")}

	bodyTuple, err := buildHTTPBody(spec)
	if err != nil {
		t.Fatalf("unexpected error: err=%v", err)
	}
	if bodyTuple.body != nil || bodyTuple.contentType != "" || bodyTuple.contentLength != 0 {
		t.Errorf("expected empty body tuple, got %+v", bodyTuple)
	}
}

func TestBuildRawBody(t *testing.T) {
	spec := &RequestSpec{Raw: []byte(`{"from":"stdin"}`)}

	bodyTuple, err := buildHTTPBody(spec)
	if err != nil {
		t.Fatalf("unexpected error: err=%v", err)
	}
	if bodyTuple.contentType != "application/json" {
		t.Errorf("unexpected content type: %s", bodyTuple.contentType)
	}
	if got := readAll(t, bodyTuple.body); got != `{"from":"stdin"}` {
		t.Errorf("unexpected body: %s", got)
	}
}
