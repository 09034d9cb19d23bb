// jsdocschema converts JSDoc @typedef and @property comments into JSON
// Schema documents.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"jsdocschema/internal/batch"
	"jsdocschema/internal/config"
	"jsdocschema/internal/generator"
)

// errHelp reports that usage was printed and nothing else should happen.
var errHelp = errors.New("help requested")

// listFlag collects every occurrence of a repeated flag.
type listFlag []string

func (l *listFlag) String() string { return strings.Join(*l, ",") }

func (l *listFlag) Set(v string) error {
	*l = append(*l, v)
	return nil
}

type options struct {
	files       listFlag
	outputs     listFlag
	configFile  string
	space       string
	types       string
	format      string
	preferInt   bool
	tolerate    bool
	throwOnName bool
	defs        bool
	schemaID    bool
	concurrency int
	verbose     bool
	showHelp    bool
}

func newFlagSet(opts *options, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("jsdocschema", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.Var(&opts.files, "file", "Input file (repeatable, - for stdin)")

	fs.Var(&opts.outputs, "output", "Output path matched to inputs by position (repeatable)")
	fs.Var(&opts.outputs, "o", "Output path (shorthand)")

	fs.StringVar(&opts.configFile, "config", "", "Config file (YAML/JSON)")
	fs.StringVar(&opts.configFile, "c", "", "Config file (shorthand)")

	fs.StringVar(&opts.space, "space", "", "Indentation: a number of spaces or a literal string")
	fs.StringVar(&opts.types, "types", "", `Type aliases as JSON, e.g. {"Id":{"type":"string","format":"uuid"}}`)
	fs.StringVar(&opts.format, "format", "", "Output format: json or yaml")
	fs.BoolVar(&opts.preferInt, "prefer-integer", false, "Use integer for whole-number enums")
	fs.BoolVar(&opts.tolerate, "tolerate-case", true, "Match type names case-insensitively")
	fs.BoolVar(&opts.throwOnName, "throw-on-unrecognized-name", true, "Fail on unknown type names")
	fs.BoolVar(&opts.defs, "defs", false, "Link typedefs into one $defs document")
	fs.BoolVar(&opts.schemaID, "id", false, "Attach a deterministic $id")
	fs.IntVar(&opts.concurrency, "j", 0, "Files converted in parallel (default GOMAXPROCS)")
	fs.BoolVar(&opts.verbose, "v", false, "Verbose output")
	fs.BoolVar(&opts.showHelp, "h", false, "Show help")
	fs.BoolVar(&opts.showHelp, "help", false, "Show help")

	fs.Usage = func() { usage(fs, stderr) }
	return fs
}

func usage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintf(w, `jsdocschema - JSDoc typedef to JSON Schema converter

Usage:
    jsdocschema [options] <file.js>...

Options:
`)
	fs.PrintDefaults()
	fmt.Fprintf(w, `
Examples:
    # Convert one file to shapes.json
    jsdocschema shapes.js

    # Link all typedefs into a single $defs document
    jsdocschema -defs -o schema.json shapes.js

    # Read from stdin and write YAML to stdout
    cat shapes.js | jsdocschema -format yaml -

    # Custom type aliases
    jsdocschema -types '{"Id":{"type":"string","format":"uuid"}}' models.js

`)
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, errHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	var opts options
	fs := newFlagSet(&opts, stderr)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return errHelp
		}
		return err
	}

	if opts.showHelp {
		fs.Usage()
		return errHelp
	}

	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	// Load configuration
	cfg := config.New()
	if opts.configFile != "" {
		if err := cfg.LoadFile(opts.configFile); err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		logger.Debug("loaded config", "file", opts.configFile)
	}

	// Apply CLI overrides
	if err := applyFlags(cfg, fs, &opts); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	inputs := append(append([]string{}, cfg.Files...), opts.files...)
	inputs = append(inputs, fs.Args()...)
	if len(inputs) == 0 {
		return errors.New("the file argument is required (or use -help)")
	}
	outputs := append(append([]string{}, cfg.OutputPaths...), opts.outputs...)

	runner := batch.New(generator.New(cfg),
		batch.WithLogger(logger),
		batch.WithConcurrency(cfg.Options.Concurrency),
		batch.WithStdio(stdin, stdout),
	)
	jobs := batch.Jobs(inputs, outputs, cfg.Options.Format)
	if err := runner.Run(ctx, jobs); err != nil {
		return err
	}

	// Standard output carries only schemas when any job writes there.
	for _, job := range jobs {
		if job.Output == batch.Stdio {
			return nil
		}
	}
	fmt.Fprintln(stdout, "Finished writing files!")
	return nil
}

// applyFlags copies the flags given on the command line over the loaded
// configuration. Flags left at their defaults do not override the file.
func applyFlags(cfg *config.Config, fs *flag.FlagSet, opts *options) error {
	var err error
	fs.Visit(func(f *flag.Flag) {
		if err != nil {
			return
		}
		switch f.Name {
		case "space":
			var indent config.Indent
			if indent, err = config.ParseIndent(opts.space); err == nil {
				cfg.Options.Space = indent
			}
		case "types":
			var types map[string]config.TypeMapping
			if types, err = config.ParseTypes(opts.types); err == nil {
				for name, m := range types {
					cfg.Types[name] = m
				}
			}
		case "format":
			cfg.Options.Format = strings.ToLower(opts.format)
		case "prefer-integer":
			cfg.Options.PreferInteger = opts.preferInt
		case "tolerate-case":
			cfg.Options.TolerateCase = opts.tolerate
		case "throw-on-unrecognized-name":
			cfg.Options.ThrowOnUnrecognizedName = opts.throwOnName
		case "defs":
			cfg.Options.Defs = opts.defs
		case "id":
			cfg.Options.SchemaID = opts.schemaID
		case "j":
			cfg.Options.Concurrency = opts.concurrency
		}
	})
	return err
}
