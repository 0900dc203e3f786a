// Package main is the golive document checker: it loads sound-DSL
// sources into the editing core, reports syntax errors, and can dump the
// display token stream a renderer would receive.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/kelleyvanevert/golive/internal/config"
	"github.com/kelleyvanevert/golive/internal/engine"
	"github.com/kelleyvanevert/golive/internal/layout"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configPath  string
		showTokens  bool
		watchConfig bool
		showVersion bool
	)

	flag.StringVar(&configPath, "config", "golive.toml", "Path to configuration file")
	flag.StringVar(&configPath, "c", "golive.toml", "Path to configuration file (shorthand)")
	flag.BoolVar(&showTokens, "tokens", false, "Dump the display token stream")
	flag.BoolVar(&watchConfig, "watch", false, "Stay running and re-check when the config changes")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "golive - sound-DSL document checker\n\n")
		fmt.Fprintf(os.Stderr, "Usage: golive [options] [files...]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nWith no files, input is read from stdin.\n")
	}
	flag.Parse()

	if showVersion {
		fmt.Printf("golive %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		return 0
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	files := flag.Args()
	check := func(cfg config.Config) bool {
		if len(files) == 0 {
			return checkReader(cfg, "<stdin>", os.Stdin, showTokens)
		}
		ok := true
		for _, path := range files {
			f, err := os.Open(path)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				ok = false
				continue
			}
			if !checkReader(cfg, path, f, showTokens) {
				ok = false
			}
			f.Close()
		}
		return ok
	}

	ok := check(cfg)

	if watchConfig {
		w, err := config.Watch(configPath, func(cfg config.Config) {
			fmt.Fprintf(os.Stderr, "config reloaded from %s\n", configPath)
			check(cfg)
		}, config.WithErrorHandler(func(err error) {
			fmt.Fprintf(os.Stderr, "config watch: %v\n", err)
		}))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		defer w.Close()

		signals := make(chan os.Signal, 1)
		signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
		<-signals
		return 0
	}

	if !ok {
		return 1
	}
	return 0
}

// checkReader loads one document into the engine and reports its parse
// errors as path:line:column diagnostics. Returns false when the
// document has errors.
func checkReader(cfg config.Config, name string, r io.Reader, showTokens bool) bool {
	data, err := io.ReadAll(r)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: reading %s: %v\n", name, err)
		return false
	}

	opts := []engine.Option{
		engine.WithContent(string(data)),
		engine.WithTabWidth(cfg.Editor.TabWidth),
		engine.WithMaxUndoEntries(cfg.Editor.MaxUndoEntries),
	}
	if cfg.Parser.Async {
		opts = append(opts, engine.WithAsyncReparse())
	}
	eng := engine.New(opts...)
	defer eng.Close()

	snap := eng.Snapshot()
	errNodes := eng.Tree().ErrorNodes()
	for _, n := range errNodes {
		p := snap.OffsetToPoint(n.Span.Start)
		fmt.Printf("%s:%d:%d: syntax error near %q\n",
			name, p.Line+1, p.Column+1, clip(n.Text(), 30))
	}

	if showTokens {
		view := layout.NewView(eng)
		for _, vt := range view.VisibleTokens(engine.Range{Start: 0, End: eng.Len()}) {
			fmt.Printf("%6d  %-10s %2d  %q\n",
				vt.Tok.Start, vt.Tok.Kind, vt.Hint.Width, vt.Tok.Text)
		}
	}

	if len(errNodes) > 0 {
		fmt.Printf("%s: %d syntax error(s)\n", name, len(errNodes))
		return false
	}
	return true
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
