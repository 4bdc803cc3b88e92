// Command doctext prints the plain text of DOCX and PDF documents.
//
// Usage:
//
//	doctext [-config doctext.yaml] [-password PW] [-log-level debug] [-out FILE] FILE...
//
// Settings come from, in increasing priority: defaults, the YAML file given
// by -config, DOCTEXT_* environment variables (a local .env file is loaded
// into the environment first), and flags.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/brunobiangulo/doctext"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the command and returns the process exit code: 0 on success,
// 1 when extraction fails, 2 on usage errors.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("doctext", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		configPath = fs.String("config", "", "Path to YAML config file")
		password   = fs.String("password", "", "Password for encrypted PDFs (default: $DOCTEXT_PDF_PASSWORD)")
		logLevel   = fs.String("log-level", "", "Log level: debug, info, warn, error (default: info)")
		outPath    = fs.String("out", "", "Write text to this file instead of stdout (single input only)")
	)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: doctext [flags] FILE...")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	files := fs.Args()
	if len(files) == 0 {
		fs.Usage()
		return 2
	}
	if *outPath != "" && len(files) > 1 {
		fmt.Fprintln(stderr, "doctext: -out accepts a single input file")
		return 2
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "doctext: %v\n", err)
		return 2
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "password":
			cfg.PDFPassword = *password
		case "log-level":
			cfg.LogLevel = *logLevel
		}
	})

	extractor, err := doctext.New(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "doctext: %v\n", err)
		return 2
	}

	level, _ := cfg.SlogLevel()
	slog.SetDefault(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{
		Level: level,
	})))

	for _, path := range files {
		res, err := extractor.Extract(ctx, path)
		if err != nil {
			fmt.Fprintf(stderr, "doctext: %s: %v\n", path, err)
			return 1
		}
		slog.Info("extracted", "path", path, "format", res.Format, "units", len(res.Units), "bytes", len(res.Text))

		if *outPath != "" {
			err = os.WriteFile(*outPath, []byte(res.Text), 0o644)
		} else {
			_, err = io.WriteString(stdout, res.Text)
		}
		if err != nil {
			fmt.Fprintf(stderr, "doctext: writing output: %v\n", err)
			return 1
		}
	}
	return 0
}
