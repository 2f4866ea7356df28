// Command crashrender runs the page pipeline once and writes the result to a
// file or stdout.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/star/crashtrack/internal/basemap"
	"github.com/star/crashtrack/internal/ephemeris"
	"github.com/star/crashtrack/internal/page"
)

func main() {
	format := flag.String("format", "html", "output format: html or svg")
	out := flag.String("o", "", "output file (default stdout)")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := run(context.Background(), *format, *out, logger); err != nil {
		fmt.Fprintln(os.Stderr, "crashrender:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, format, path string, logger *slog.Logger) error {
	if format != "html" && format != "svg" {
		return fmt.Errorf("unknown format %q", format)
	}

	bm, err := basemap.Load()
	if err != nil {
		return fmt.Errorf("loading basemap: %w", err)
	}
	pipeline := page.NewPipeline(ephemeris.NewLoader(logger), bm, logger)

	o, err := pipeline.Run(ctx, page.TriggerCLI)
	if err != nil {
		return err
	}

	if path == "" {
		return write(os.Stdout, format, o)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f, format, o); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func write(w io.Writer, format string, o *page.Output) error {
	if format == "svg" {
		_, err := w.Write(o.SVG)
		return err
	}
	return o.Page.WriteHTML(w)
}
