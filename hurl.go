package hurl

import (
	"bufio"
	"io/ioutil"
	"os"

	"github.com/mizuno/hurl-go/exchange"
	"github.com/mizuno/hurl-go/flags"
	"github.com/mizuno/hurl-go/output"
	"github.com/mizuno/hurl-go/param"
	"github.com/pkg/errors"
)

// Main runs the command line in os.Args. All fatal errors are returned to
// the caller; exit-code mapping happens in cmd/hurl.
func Main() error {
	// Parse flags
	args, usage, optionSet, err := flags.Parse(os.Args)
	if err != nil {
		return err
	}

	// Parse positional arguments
	inv, err := param.ParseArgs(args, &optionSet.ParamOptions)
	if _, ok := errors.Cause(err).(*param.UsageError); ok {
		usage.PrintUsage(os.Stderr)
		return err
	}
	if err != nil {
		return err
	}

	var raw []byte
	if optionSet.ParamOptions.ReadStdin {
		raw, err = ioutil.ReadAll(os.Stdin)
		if err != nil {
			return errors.Wrap(err, "reading request body from stdin")
		}
	}

	// Assemble and send the request
	spec, err := exchange.BuildRequestSpec(inv, &optionSet.ParamOptions, raw)
	if err != nil {
		return err
	}
	resp, err := exchange.SendRequest(spec, &optionSet.ExchangeOptions)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if optionSet.OutputOptions.Download {
		fileWriter := output.NewFileWriter(resp.Request.URL, &optionSet.OutputOptions)
		return fileWriter.Download(resp)
	}

	// Print response
	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "reading response body")
	}
	view := output.NewViewFromResponse(resp, body)

	writer := bufio.NewWriter(os.Stdout)
	defer writer.Flush()
	printer := output.NewPrettyPrinter(output.PrettyPrinterConfig{
		Writer:      writer,
		EnableColor: optionSet.OutputOptions.EnableColor,
	})
	if optionSet.OutputOptions.PrintResponseHeader {
		if err := printer.PrintStatusLine(view); err != nil {
			return err
		}
		if err := printer.PrintHeader(view); err != nil {
			return err
		}
	}
	if optionSet.OutputOptions.PrintResponseBody {
		if err := printer.PrintBody(view); err != nil {
			return err
		}
	}

	return nil
}
