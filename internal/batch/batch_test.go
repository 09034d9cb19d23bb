package batch

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"jsdocschema/internal/config"
	"jsdocschema/internal/generator"
)

const goodSrc = `
/**
 * @typedef {object} Point
 * @property {number} x
 */`

const badSrc = `
/**
 * @typedef {object} Broken
 * @property {Unknown} x
 */`

func newGenerator() *generator.Generator {
	cfg := config.New()
	cfg.Options.Space = config.Spaces(0)
	return generator.New(cfg)
}

func writeInput(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultOutput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input  string
		format string
		want   string
	}{
		{"types.js", config.FormatJSON, "types.json"},
		{"dir/types.d.ts", config.FormatJSON, "dir/types.d.json"},
		{"types", config.FormatJSON, "types.json"},
		{"types.js", config.FormatYAML, "types.yaml"},
		{Stdio, config.FormatJSON, Stdio},
	}

	for _, tt := range tests {
		t.Run(tt.input+"/"+tt.format, func(t *testing.T) {
			t.Parallel()

			if got := DefaultOutput(tt.input, tt.format); got != tt.want {
				t.Errorf("DefaultOutput(%q, %q) = %q, want %q", tt.input, tt.format, got, tt.want)
			}
		})
	}
}

func TestJobs(t *testing.T) {
	t.Parallel()

	got := Jobs([]string{"a.js", "b.js", "c.js"}, []string{"out/a.json", ""}, config.FormatJSON)
	want := []Job{
		{Input: "a.js", Output: "out/a.json"},
		{Input: "b.js", Output: "b.json"},
		{Input: "c.js", Output: "c.json"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Jobs() mismatch (-want +got):\n%s", diff)
	}
}

func TestRun(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	a := writeInput(t, dir, "a.js", goodSrc)
	b := writeInput(t, dir, "b.js", goodSrc)

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	defer tp.Shutdown(context.Background())

	r := New(newGenerator(), WithTracerProvider(tp), WithConcurrency(1))
	jobs := []Job{
		{Input: a, Output: filepath.Join(dir, "a.json")},
		{Input: b, Output: filepath.Join(dir, "nested", "b.json")},
	}
	if err := r.Run(context.Background(), jobs); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := `[{"type":"object","title":"Point","properties":{"x":{"type":"number"}},"required":["x"]}]` + "\n"
	for _, job := range jobs {
		got, err := os.ReadFile(job.Output)
		if err != nil {
			t.Fatalf("reading %s: %v", job.Output, err)
		}
		if diff := cmp.Diff(want, string(got)); diff != "" {
			t.Errorf("%s mismatch (-want +got):\n%s", job.Output, diff)
		}
	}

	spans := exporter.GetSpans()
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(spans))
	}
	for _, span := range spans {
		if span.Name != "jsdocschema.convert" {
			t.Errorf("span name = %q, want jsdocschema.convert", span.Name)
		}
		if span.Status.Code != codes.Ok {
			t.Errorf("span status = %v, want Ok", span.Status.Code)
		}
	}
}

func TestRunIsolatesFailures(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	good := writeInput(t, dir, "good.js", goodSrc)
	bad := writeInput(t, dir, "bad.js", badSrc)
	missing := filepath.Join(dir, "missing.js")

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	defer tp.Shutdown(context.Background())

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer mp.Shutdown(context.Background())

	r := New(newGenerator(), WithTracerProvider(tp), WithMeterProvider(mp))
	err := r.Run(context.Background(), Jobs([]string{bad, good, missing}, nil, config.FormatJSON))
	if err == nil {
		t.Fatal("Run() succeeded, want error")
	}
	if !errors.Is(err, generator.ErrUnrecognizedTypeName) {
		t.Errorf("Run() error = %v, want ErrUnrecognizedTypeName", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Run() error = %v, want os.ErrNotExist", err)
	}
	for _, path := range []string{bad, missing} {
		if !strings.Contains(err.Error(), path+": ") {
			t.Errorf("Run() error = %q, want prefix for %s", err, path)
		}
	}

	if _, err := os.Stat(filepath.Join(dir, "good.json")); err != nil {
		t.Errorf("good output not written: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "bad.json")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("bad output exists, stat error = %v", err)
	}

	failed := 0
	for _, span := range exporter.GetSpans() {
		if span.Status.Code == codes.Error {
			failed++
			if len(span.Events) == 0 {
				t.Error("expected error event on span")
			}
		}
	}
	if failed != 2 {
		t.Errorf("failed spans = %d, want 2", failed)
	}

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatal(err)
	}
	got := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, dp := range sum.DataPoints {
				got[m.Name] += dp.Value
			}
		}
	}
	want := map[string]int64{"jsdocschema.files": 3, "jsdocschema.errors": 2}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("metrics mismatch (-want +got):\n%s", diff)
	}
}

func TestRunStdio(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	r := New(newGenerator(), WithStdio(strings.NewReader(goodSrc), &out))
	if err := r.Run(context.Background(), []Job{{Input: Stdio, Output: Stdio}}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(out.String(), `"title":"Point"`) || !strings.HasSuffix(out.String(), "\n") {
		t.Errorf("stdout = %q", out.String())
	}
}

func TestRunRejectsRepeatedStdin(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	r := New(newGenerator(), WithStdio(strings.NewReader(goodSrc), &out))
	err := r.Run(context.Background(), Jobs([]string{Stdio, Stdio}, nil, config.FormatJSON))
	if !errors.Is(err, ErrStdinReused) {
		t.Errorf("Run() error = %v, want ErrStdinReused", err)
	}
	if out.Len() != 0 {
		t.Errorf("stdout = %q, want nothing written", out.String())
	}
}

func TestRunCanceled(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := writeInput(t, dir, "a.js", goodSrc)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := New(newGenerator()).Run(ctx, Jobs([]string{in}, nil, config.FormatJSON))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "a.json")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("output written after cancellation, stat error = %v", err)
	}
}
