package flags

import (
	"io"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/mizuno/hurl-go/exchange"
	"github.com/mizuno/hurl-go/output"
	"github.com/mizuno/hurl-go/param"
	"github.com/pborman/getopt"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var reNumber = regexp.MustCompile(`^[0-9.]+$`)

// Usage lets the caller print usage text on a command-line mistake.
type Usage interface {
	PrintUsage(w io.Writer)
}

type OptionSet struct {
	ParamOptions    param.Options
	ExchangeOptions exchange.Options
	OutputOptions   output.Options
}

type terminalInfo struct {
	stdinIsTerminal  bool
	stdoutIsTerminal bool
}

// Parse interprets the flags in args (args[0] is the program name) and
// returns the remaining positional arguments.
func Parse(args []string) ([]string, Usage, *OptionSet, error) {
	return parse(args, terminalInfo{
		stdinIsTerminal:  isatty.IsTerminal(os.Stdin.Fd()),
		stdoutIsTerminal: isatty.IsTerminal(os.Stdout.Fd()),
	})
}

func parse(args []string, terminal terminalInfo) ([]string, Usage, *OptionSet, error) {
	paramOptions := param.Options{}
	exchangeOptions := exchange.Options{}
	outputOptions := output.Options{}
	var ignoreStdin bool
	var authFlag string
	var tokenFlag string
	var verboseFlag bool
	var quietFlag bool
	printFlag := "\000" // "\000" is a special value that indicates user did not specify --print
	timeout := "30s"

	flagSet := getopt.New()
	flagSet.SetParameters("[METHOD] URL [REQUEST_ITEM [REQUEST_ITEM ...]]")
	flagSet.BoolVarLong(&paramOptions.Form, "form", 'f', "serialize body as multipart/form-data")
	flagSet.BoolVarLong(&paramOptions.Secure, "secure", 's', "default to https for URLs given without a scheme")
	flagSet.StringVarLong(&authFlag, "auth", 'a', "basic authentication (user:pass, or user alone to be prompted)")
	flagSet.StringVarLong(&tokenFlag, "token", 't', "bearer token for the Authorization header")
	flagSet.StringVarLong(&printFlag, "print", 'p', "specifies what the output should contain (hb)")
	flagSet.StringVarLong(&timeout, "timeout", 0, "timeout seconds that you allow the whole operation to take")
	flagSet.BoolVarLong(&exchangeOptions.FollowRedirects, "follow", 'F', "follow redirects")
	flagSet.BoolVarLong(&exchangeOptions.SkipVerify, "skip-verify", 0, "skip TLS certificate verification")
	flagSet.BoolVarLong(&exchangeOptions.ForceHTTP1, "http1", 0, "force HTTP/1.1")
	flagSet.BoolVarLong(&ignoreStdin, "ignore-stdin", 0, "do not attempt to read stdin")
	flagSet.BoolVarLong(&outputOptions.Download, "download", 'd', "write the response body to a file")
	flagSet.StringVarLong(&outputOptions.OutputFile, "output", 'o', "output file (implies --download)")
	flagSet.BoolVarLong(&outputOptions.Overwrite, "overwrite", 0, "overwrite the output file if it exists")
	flagSet.BoolVarLong(&verboseFlag, "verbose", 'v', "print debug logs")
	flagSet.BoolVarLong(&quietFlag, "quiet", 'q', "print only errors")
	flagSet.Parse(args)

	// Check stdin
	if !ignoreStdin && !terminal.stdinIsTerminal {
		paramOptions.ReadStdin = true
	}

	// Parse --print
	if err := parsePrintFlag(printFlag, terminal, &outputOptions); err != nil {
		return nil, nil, nil, err
	}

	// Parse --timeout
	d, err := parseDurationOrSeconds(timeout)
	if err != nil {
		return nil, nil, nil, err
	}
	exchangeOptions.Timeout = d

	// Parse --auth
	if authFlag != "" {
		auth, err := parseAuth(authFlag)
		if err != nil {
			return nil, nil, nil, err
		}
		exchangeOptions.Auth = auth
	}
	exchangeOptions.Token = tokenFlag

	if outputOptions.OutputFile != "" {
		outputOptions.Download = true
	}

	// Color
	outputOptions.EnableColor = terminal.stdoutIsTerminal

	applyLogLevel(verboseFlag, quietFlag)

	optionSet := &OptionSet{
		ParamOptions:    paramOptions,
		ExchangeOptions: exchangeOptions,
		OutputOptions:   outputOptions,
	}
	return flagSet.Args(), flagSet, optionSet, nil
}

func parsePrintFlag(printFlag string, terminal terminalInfo, outputOptions *output.Options) error {
	if printFlag == "\000" {
		// --print is not specified
		if terminal.stdoutIsTerminal {
			outputOptions.PrintResponseHeader = true
			outputOptions.PrintResponseBody = true
		} else {
			outputOptions.PrintResponseBody = true
		}
		return nil
	}
	for _, c := range printFlag {
		switch c {
		case 'h':
			outputOptions.PrintResponseHeader = true
		case 'b':
			outputOptions.PrintResponseBody = true
		default:
			return errors.Errorf("Invalid char in --print value (must consist of hb): %c", c)
		}
	}
	return nil
}

func parseDurationOrSeconds(timeout string) (time.Duration, error) {
	if reNumber.MatchString(timeout) {
		timeout += "s"
	}
	d, err := time.ParseDuration(timeout)
	if err != nil {
		return time.Duration(0), errors.Errorf("Value of --timeout must be a number or duration string: %v", timeout)
	}
	return d, nil
}

func parseAuth(value string) (exchange.AuthOptions, error) {
	auth := exchange.AuthOptions{Enabled: true}
	if i := strings.Index(value, ":"); i >= 0 {
		auth.UserName = value[:i]
		auth.Password = value[i+1:]
		return auth, nil
	}

	auth.UserName = value
	password, err := askPassword()
	if err != nil {
		return exchange.AuthOptions{}, err
	}
	auth.Password = password
	return auth, nil
}

// --quiet overrides any verbose setting.
func applyLogLevel(verbose, quiet bool) {
	switch {
	case quiet:
		logrus.SetLevel(logrus.ErrorLevel)
	case verbose:
		logrus.SetLevel(logrus.DebugLevel)
	default:
		logrus.SetLevel(logrus.WarnLevel)
	}
}
