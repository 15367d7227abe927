package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vertexdlt/wasmdec/disasm"
	"github.com/vertexdlt/wasmdec/internal/logx"
	"github.com/vertexdlt/wasmdec/internal/telemetry"
	"github.com/vertexdlt/wasmdec/wasmfmt"
	"github.com/vertexdlt/wasmdec/xref"
)

// Version is overwritten at build time via -ldflags.
var Version = "dev"

var (
	flagColor       bool
	flagOtelEnabled bool
	flagOtelURL     string
	flagXrefDBPath  string

	log = logx.Default()
)

var rootCmd = &cobra.Command{
	Use:           "wasmdec",
	Short:         "wasmdec disassembles and decompiles WebAssembly MVP modules",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagColor, "color", true, "syntax-highlight output when stdout is a terminal")
	rootCmd.PersistentFlags().BoolVar(&flagOtelEnabled, "otel", false, "send pipeline-stage spans to an OTLP/HTTP collector")
	rootCmd.PersistentFlags().StringVar(&flagOtelURL, "otel-endpoint", "localhost:4318", "OTLP/HTTP collector endpoint")
	rootCmd.PersistentFlags().StringVar(&flagXrefDBPath, "xref-db", "", "persist cross-references to this sqlite file (default: in-memory only)")

	rootCmd.AddCommand(flatCmd, structuredCmd, sectionsCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadProgram parses and disassembles the module at path, tracing the
// parse and disassemble stages when telemetry is enabled.
func loadProgram(ctx context.Context, path string) (*disasm.Program, error) {
	shutdown, err := telemetry.Init(ctx, telemetry.Config{Enabled: flagOtelEnabled, ExporterURL: flagOtelURL})
	if err != nil {
		return nil, fmt.Errorf("wasmdec: init telemetry: %w", err)
	}
	defer shutdown()

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("wasmdec: read %s: %w", path, err)
	}

	_, parseSpan := telemetry.StartStage(ctx, "parse")
	m, err := wasmfmt.ParseModule(b)
	parseSpan.End()
	if err != nil {
		return nil, fmt.Errorf("wasmdec: parse %s: %w", path, err)
	}

	_, disSpan := telemetry.StartStage(ctx, "disassemble")
	p, err := disasm.DisassembleAll(m)
	disSpan.End()
	if err != nil {
		return nil, fmt.Errorf("wasmdec: disassemble %s: %w", path, err)
	}

	if _, err := p.CreateDataStream(m); err != nil {
		log.Warnf("no data stream for %s: %v", path, err)
	}

	return p, nil
}

// openTracker opens the sqlite-backed edge store when --xref-db is set,
// otherwise returns a plain in-memory Tracker with a no-op persist func.
func openTracker() (*xref.Tracker, func(*xref.Tracker) error, func() error, error) {
	tracker := xref.NewTracker()
	if flagXrefDBPath == "" {
		return tracker, func(*xref.Tracker) error { return nil }, func() error { return nil }, nil
	}
	store, err := xref.OpenStore(flagXrefDBPath)
	if err != nil {
		return nil, nil, nil, err
	}
	return tracker, store.Persist, store.Close, nil
}
