// Package batch converts many input files independently and writes one
// output per input.
package batch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"jsdocschema/internal/config"
	"jsdocschema/internal/generator"
)

const instrumentationName = "jsdocschema/internal/batch"

// Stdio names standard input as a job input and standard output as a job
// output.
const Stdio = "-"

// ErrStdinReused reports more than one job reading standard input.
var ErrStdinReused = errors.New("standard input can only be read once")

// Job is one input file and the path its schema is written to.
type Job struct {
	Input  string
	Output string
}

// DefaultOutput returns input with its extension replaced by the one for
// format. Standard input maps to standard output.
func DefaultOutput(input, format string) string {
	if input == Stdio {
		return Stdio
	}
	ext := ".json"
	if format == config.FormatYAML {
		ext = ".yaml"
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + ext
}

// Jobs pairs inputs with outputs by index. Missing or empty outputs fall
// back to DefaultOutput.
func Jobs(inputs, outputs []string, format string) []Job {
	jobs := make([]Job, len(inputs))
	for i, in := range inputs {
		out := ""
		if i < len(outputs) {
			out = outputs[i]
		}
		if out == "" {
			out = DefaultOutput(in, format)
		}
		jobs[i] = Job{Input: in, Output: out}
	}
	return jobs
}

// Converter turns source text into an encoded result.
type Converter interface {
	Convert(src string) (*generator.Result, error)
	Write(w io.Writer, res *generator.Result) error
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = l
	}
}

// WithTracerProvider sets a custom tracer provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(r *Runner) {
		r.tracerProvider = tp
	}
}

// WithMeterProvider sets a custom meter provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(r *Runner) {
		r.meterProvider = mp
	}
}

// WithConcurrency bounds the number of files converted at once. Zero or
// less means GOMAXPROCS.
func WithConcurrency(n int) Option {
	return func(r *Runner) {
		r.concurrency = n
	}
}

// WithStdio replaces the streams used for the "-" path.
func WithStdio(in io.Reader, out io.Writer) Option {
	return func(r *Runner) {
		r.stdin = in
		r.stdout = out
	}
}

// Runner converts jobs in parallel.
type Runner struct {
	conv           Converter
	logger         *slog.Logger
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
	concurrency    int
	stdin          io.Reader
	stdout         io.Writer

	tracer trace.Tracer
	files  metric.Int64Counter
	failed metric.Int64Counter

	stdoutMu sync.Mutex
}

// New creates a Runner around conv.
func New(conv Converter, opts ...Option) *Runner {
	r := &Runner{
		conv:           conv,
		logger:         slog.New(slog.DiscardHandler),
		tracerProvider: otel.GetTracerProvider(),
		meterProvider:  otel.GetMeterProvider(),
		stdin:          os.Stdin,
		stdout:         os.Stdout,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.concurrency <= 0 {
		r.concurrency = runtime.GOMAXPROCS(0)
	}

	r.tracer = r.tracerProvider.Tracer(instrumentationName)
	meter := r.meterProvider.Meter(instrumentationName)
	r.files, _ = meter.Int64Counter(
		"jsdocschema.files",
		metric.WithDescription("Number of input files processed"),
		metric.WithUnit("{file}"),
	)
	r.failed, _ = meter.Int64Counter(
		"jsdocschema.errors",
		metric.WithDescription("Number of input files that failed to convert"),
		metric.WithUnit("{file}"),
	)
	return r
}

// Run converts every job. A failing job does not stop the others; all
// failures are returned joined, each prefixed with its input path. At most
// one job may read standard input.
func (r *Runner) Run(ctx context.Context, jobs []Job) error {
	stdin := 0
	for _, job := range jobs {
		if job.Input == Stdio {
			stdin++
		}
	}
	if stdin > 1 {
		return fmt.Errorf("%w: %d inputs name %q", ErrStdinReused, stdin, Stdio)
	}

	errs := make([]error, len(jobs))

	g := new(errgroup.Group)
	g.SetLimit(r.concurrency)
	for i, job := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = fmt.Errorf("%s: %w", job.Input, err)
				return nil
			}
			if err := r.runJob(ctx, job); err != nil {
				errs[i] = fmt.Errorf("%s: %w", job.Input, err)
			}
			return nil
		})
	}
	_ = g.Wait()

	return errors.Join(errs...)
}

func (r *Runner) runJob(ctx context.Context, job Job) error {
	ctx, span := r.tracer.Start(ctx, "jsdocschema.convert",
		trace.WithAttributes(
			attribute.String("file", job.Input),
			attribute.String("output", job.Output),
		),
	)
	defer span.End()

	attrs := metric.WithAttributes(attribute.String("file", job.Input))
	r.files.Add(ctx, 1, attrs)

	n, err := r.convert(job)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		r.failed.Add(ctx, 1, attrs)
		r.logger.Warn("conversion failed", "file", job.Input, "error", err)
		return err
	}

	span.SetAttributes(attribute.Int("schemas", n))
	span.SetStatus(codes.Ok, "")
	r.logger.Debug("wrote schema", "file", job.Input, "output", job.Output, "schemas", n)
	return nil
}

// convert reads, converts and writes one job, returning the number of
// schemas produced. Nothing is written unless conversion succeeds.
func (r *Runner) convert(job Job) (int, error) {
	src, err := r.read(job.Input)
	if err != nil {
		return 0, err
	}

	res, err := r.conv.Convert(string(src))
	if err != nil {
		return 0, err
	}

	var buf bytes.Buffer
	if err := r.conv.Write(&buf, res); err != nil {
		return 0, fmt.Errorf("encoding: %w", err)
	}
	if !bytes.HasSuffix(buf.Bytes(), []byte("\n")) {
		buf.WriteByte('\n')
	}

	if err := r.write(job.Output, buf.Bytes()); err != nil {
		return 0, err
	}

	n := len(res.Schemas)
	if res.Document != nil {
		n = res.Document.Defs.Len()
	}
	return n, nil
}

func (r *Runner) read(path string) ([]byte, error) {
	if path == Stdio {
		data, err := io.ReadAll(r.stdin)
		if err != nil {
			return nil, fmt.Errorf("reading standard input: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return data, nil
}

func (r *Runner) write(path string, data []byte) error {
	if path == Stdio {
		r.stdoutMu.Lock()
		defer r.stdoutMu.Unlock()
		_, err := r.stdout.Write(data)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}
