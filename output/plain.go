package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pkg/errors"
)

type PlainPrinter struct {
	writer io.Writer
}

func NewPlainPrinter(writer io.Writer) Printer {
	return &PlainPrinter{
		writer: writer,
	}
}

func (p *PlainPrinter) PrintStatusLine(view *ResponseView) error {
	_, err := fmt.Fprintf(p.writer, "%s %d %s\n", view.Proto, view.StatusCode, view.Reason)
	return err
}

func (p *PlainPrinter) PrintHeader(view *ResponseView) error {
	for _, line := range view.Headers {
		if _, err := fmt.Fprintf(p.writer, "%s: %s\n", line.Name, line.Value); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(p.writer)
	return err
}

func (p *PlainPrinter) PrintBody(view *ResponseView) error {
	if view.JSON == nil {
		_, err := io.WriteString(p.writer, view.Body)
		return err
	}

	encoder := json.NewEncoder(p.writer)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "    ")
	if err := encoder.Encode(view.JSON); err != nil {
		return errors.Wrap(err, "encoding JSON")
	}
	return nil
}
