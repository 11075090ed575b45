package output

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/logrusorgru/aurora"
	"github.com/pkg/errors"
)

type PrettyPrinter struct {
	writer        io.Writer
	plain         Printer
	aurora        aurora.Aurora
	headerPalette *HeaderPalette
	jsonPalette   *JSONPalette
	indentWidth   int
}

type PrettyPrinterConfig struct {
	Writer      io.Writer
	EnableColor bool
}

type HeaderPalette struct {
	Proto          aurora.Color
	Status         aurora.Color
	FieldName      aurora.Color
	FieldValue     aurora.Color
	FieldSeparator aurora.Color
}

var defaultHeaderPalette = HeaderPalette{
	Proto:          aurora.BlueFg,
	Status:         aurora.BrownFg | aurora.BoldFm,
	FieldName:      aurora.GrayFg,
	FieldValue:     aurora.CyanFg,
	FieldSeparator: aurora.GrayFg,
}

type JSONPalette struct {
	Key     aurora.Color
	String  aurora.Color
	Number  aurora.Color
	Boolean aurora.Color
	Null    aurora.Color
	Symbol  aurora.Color
}

var defaultJSONPalette = JSONPalette{
	Key:     aurora.BlueFg,
	String:  aurora.BrownFg,
	Number:  aurora.CyanFg,
	Boolean: aurora.MagentaFg | aurora.BoldFm,
	Null:    aurora.RedFg | aurora.BoldFm,
	Symbol:  aurora.GrayFg,
}

func NewPrettyPrinter(config PrettyPrinterConfig) Printer {
	return &PrettyPrinter{
		writer:        config.Writer,
		plain:         NewPlainPrinter(config.Writer),
		aurora:        aurora.NewAurora(config.EnableColor),
		headerPalette: &defaultHeaderPalette,
		jsonPalette:   &defaultJSONPalette,
		indentWidth:   4,
	}
}

func (p *PrettyPrinter) PrintStatusLine(view *ResponseView) error {
	_, err := fmt.Fprintf(p.writer, "%s %s\n",
		p.aurora.Colorize(view.Proto, p.headerPalette.Proto),
		p.aurora.Colorize(fmt.Sprintf("%d %s", view.StatusCode, view.Reason), p.headerPalette.Status))
	return err
}

func (p *PrettyPrinter) PrintHeader(view *ResponseView) error {
	for _, line := range view.Headers {
		if _, err := fmt.Fprintf(p.writer, "%s%s %s\n",
			p.aurora.Colorize(line.Name, p.headerPalette.FieldName),
			p.aurora.Colorize(":", p.headerPalette.FieldSeparator),
			p.aurora.Colorize(line.Value, p.headerPalette.FieldValue)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(p.writer)
	return err
}

func (p *PrettyPrinter) PrintBody(view *ResponseView) error {
	if view.JSON == nil {
		return p.plain.PrintBody(view)
	}
	if err := p.printJSONValue(view.JSON, 0); err != nil {
		return err
	}
	_, err := fmt.Fprintln(p.writer)
	return err
}

func (p *PrettyPrinter) printJSONValue(value interface{}, depth int) error {
	switch v := value.(type) {
	case map[string]interface{}:
		return p.printJSONObject(v, depth)
	case []interface{}:
		return p.printJSONArray(v, depth)
	case string:
		return p.printJSONScalar(v, p.jsonPalette.String)
	case float64:
		return p.printJSONScalar(v, p.jsonPalette.Number)
	case bool:
		return p.printJSONScalar(v, p.jsonPalette.Boolean)
	case nil:
		_, err := fmt.Fprint(p.writer, p.aurora.Colorize("null", p.jsonPalette.Null))
		return err
	default:
		return errors.Errorf("unexpected JSON value: %v", value)
	}
}

func (p *PrettyPrinter) printJSONScalar(value interface{}, color aurora.Color) error {
	text, err := json.Marshal(value)
	if err != nil {
		return errors.Wrap(err, "encoding JSON value")
	}
	_, err = fmt.Fprint(p.writer, p.aurora.Colorize(string(text), color))
	return err
}

func (p *PrettyPrinter) printJSONObject(obj map[string]interface{}, depth int) error {
	if len(obj) == 0 {
		_, err := fmt.Fprint(p.writer, p.aurora.Colorize("{}", p.jsonPalette.Symbol))
		return err
	}

	keys := make([]string, 0, len(obj))
	for key := range obj {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	fmt.Fprint(p.writer, p.aurora.Colorize("{", p.jsonPalette.Symbol))
	for i, key := range keys {
		name, err := json.Marshal(key)
		if err != nil {
			return errors.Wrap(err, "encoding JSON key")
		}
		fmt.Fprintf(p.writer, "\n%s%s%s ",
			p.indent(depth+1),
			p.aurora.Colorize(string(name), p.jsonPalette.Key),
			p.aurora.Colorize(":", p.jsonPalette.Symbol))
		if err := p.printJSONValue(obj[key], depth+1); err != nil {
			return err
		}
		if i != len(keys)-1 {
			fmt.Fprint(p.writer, p.aurora.Colorize(",", p.jsonPalette.Symbol))
		}
	}
	_, err := fmt.Fprintf(p.writer, "\n%s%s", p.indent(depth), p.aurora.Colorize("}", p.jsonPalette.Symbol))
	return err
}

func (p *PrettyPrinter) printJSONArray(array []interface{}, depth int) error {
	if len(array) == 0 {
		_, err := fmt.Fprint(p.writer, p.aurora.Colorize("[]", p.jsonPalette.Symbol))
		return err
	}

	fmt.Fprint(p.writer, p.aurora.Colorize("[", p.jsonPalette.Symbol))
	for i, value := range array {
		fmt.Fprintf(p.writer, "\n%s", p.indent(depth+1))
		if err := p.printJSONValue(value, depth+1); err != nil {
			return err
		}
		if i != len(array)-1 {
			fmt.Fprint(p.writer, p.aurora.Colorize(",", p.jsonPalette.Symbol))
		}
	}
	_, err := fmt.Fprintf(p.writer, "\n%s%s", p.indent(depth), p.aurora.Colorize("]", p.jsonPalette.Symbol))
	return err
}

func (p *PrettyPrinter) indent(depth int) string {
	return strings.Repeat(" ", p.indentWidth*depth)
}
