package output

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"code.cloudfoundry.org/bytefmt"
	"github.com/pkg/errors"
)

type FileWriter struct {
	fullPath string
}

func NewFileWriter(u *url.URL, options *Options) *FileWriter {
	fullPath := options.OutputFile
	if fullPath == "" {
		fullPath = fmt.Sprintf("./%s", filepath.Base(u.Path))
	}

	if !options.Overwrite {
		fullPath = makeNonOverlappingFilename(fullPath)
	}

	return &FileWriter{
		fullPath: fullPath,
	}
}

var reIndexSuffix = regexp.MustCompile(`\.(\d+)$`)

// makeNonOverlappingFilename appends or increments a numeric suffix until
// the path names no existing file: out.json, out.json.1, out.json.2, ...
func makeNonOverlappingFilename(path string) string {
	for {
		if _, err := os.Stat(path); err != nil {
			return path
		}
		m := reIndexSuffix.FindStringSubmatch(path)
		if m == nil {
			path += ".1"
			continue
		}
		i, err := strconv.Atoi(m[1])
		if err != nil {
			path += ".1"
			continue
		}
		path = strings.TrimSuffix(path, m[0]) + "." + strconv.Itoa(i+1)
	}
}

// Download writes the response body to the file, reporting progress on
// stderr while the content length is known.
func (f *FileWriter) Download(resp *http.Response) error {
	file, err := os.Create(f.fullPath)
	if err != nil {
		return errors.Wrapf(err, "creating %s", f.fullPath)
	}
	defer file.Close()

	contentLength := resp.ContentLength
	if contentLength <= 0 {
		_, err := io.Copy(file, resp.Body)
		return errors.Wrap(err, "downloading response body")
	}

	buf := make([]byte, 32*1024)
	var totalRead int64
	for {
		n, err := resp.Body.Read(buf)
		if n > 0 {
			if _, werr := file.Write(buf[:n]); werr != nil {
				return errors.Wrapf(werr, "writing %s", f.fullPath)
			}
			totalRead += int64(n)
			fmt.Fprintf(os.Stderr, "\r%s / %s (%d%%)",
				bytefmt.ByteSize(uint64(totalRead)),
				bytefmt.ByteSize(uint64(contentLength)),
				totalRead*100/contentLength)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return errors.Wrap(err, "downloading response body")
		}
	}
	fmt.Fprintln(os.Stderr)

	return nil
}

func (f *FileWriter) Filename() string {
	return filepath.Base(f.fullPath)
}
