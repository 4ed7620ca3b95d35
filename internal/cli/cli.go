// Package cli implements the formerr command line.
package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/jessevdk/go-flags"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/reoring/formerr"
	"github.com/reoring/formerr/i18n"
	"github.com/reoring/formerr/internal/config"
	"github.com/reoring/formerr/internal/logging"
)

// Exit codes.
const (
	ExitOK       = 0
	ExitFailure  = 1
	ExitUsage    = 2
	ExitHasError = 3
)

// Options defines the global command line options.
type Options struct {
	Config string `short:"c" long:"config" description:"config file (yaml, json or toml)"`
	Debug  bool   `short:"d" long:"debug" description:"debug logging"`
	Lang   string `long:"lang" description:"message language" choice:"en" choice:"ja"`
}

type app struct {
	opts   Options
	stdout io.Writer
	stderr io.Writer

	cfg      config.Config
	log      *zap.Logger
	resolver *formerr.Resolver
}

// Run executes the CLI with args (without the program name) and returns the
// process exit code.
func Run(args []string, stdout, stderr io.Writer) int {
	a := &app{stdout: stdout, stderr: stderr, log: zap.NewNop()}
	defer func() { _ = a.log.Sync() }()

	parser := flags.NewParser(&a.opts, flags.HelpFlag|flags.PassDoubleDash)
	parser.Name = "formerr"
	parser.CommandHandler = func(cmd flags.Commander, rest []string) error {
		if err := a.setup(); err != nil {
			return err
		}
		return cmd.Execute(rest)
	}
	a.register(parser)

	_, err := parser.ParseArgs(args)
	if err == nil {
		return ExitOK
	}
	if flags.WroteHelp(err) {
		fmt.Fprintln(stdout, err)
		return ExitOK
	}
	if iss, ok := formerr.AsIssues(err); ok {
		for _, it := range iss {
			fmt.Fprintf(stderr, "%s: %s\n", it.Path, it.Message)
		}
		return ExitHasError
	}
	var ferr *flags.Error
	switch {
	case errors.As(err, &ferr):
		fmt.Fprintln(stderr, err)
		return ExitUsage
	case errors.Is(err, config.ErrInvalid):
		fmt.Fprintln(stderr, err)
		return ExitUsage
	}
	a.log.Debug("command failed", zap.Error(err))
	fmt.Fprintln(stderr, "formerr:", err)
	return ExitFailure
}

func (a *app) register(p *flags.Parser) {
	_, _ = p.AddCommand("resolve", "Resolve the error of one field",
		"Loads error tree snapshots and prints {hasError, errorMessage} for a field.",
		&resolveCommand{app: a})
	_, _ = p.AddCommand("parse", "Parse a field identifier",
		"Prints the path segments, array matches and dot notation of a field identifier.",
		&parseCommand{app: a})
	_, _ = p.AddCommand("format", "Build an error tree from issues",
		"Reads a list of {path, code, message} issues and prints the error tree.",
		&formatCommand{app: a})
}

// setup loads configuration, applies flag overrides and builds the logger.
func (a *app) setup() error {
	cfg, err := config.Load(a.opts.Config)
	if err != nil {
		return err
	}
	if a.opts.Lang != "" {
		cfg.Lang = a.opts.Lang
	}
	if a.opts.Debug {
		cfg.Log.Level = "debug"
	}
	log, err := logging.New(cfg.Log.Level)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = log
	a.resolver = formerr.New(formerr.WithLogger(log))
	i18n.SetLanguage(cfg.Lang)
	log.Debug("configuration loaded", zap.String("file", a.opts.Config), zap.Any("config", cfg))
	return nil
}

func (a *app) write(v any, output string) error {
	var (
		b   []byte
		err error
	)
	if output == "yaml" {
		b, err = yaml.Marshal(v)
	} else {
		b, err = json.MarshalIndent(v, "", "  ")
		b = append(b, '\n')
	}
	if err != nil {
		return fmt.Errorf("encode %s output: %w", output, err)
	}
	_, err = a.stdout.Write(b)
	return err
}
