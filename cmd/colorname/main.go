// Package main is the entry point for the colorname command.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/term"

	"github.com/dshills/colorname/internal/catalog"
	"github.com/dshills/colorname/internal/config"
	"github.com/dshills/colorname/internal/logging"
	"github.com/dshills/colorname/internal/metrics"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

// Exit codes.
const (
	exitOK        = 0
	exitError     = 1
	exitExhausted = 2
)

type options struct {
	configPath string
	list       string
	unique     bool
	logLevel   string
	pretty     bool
	search     string
	maxResults int
	lists      bool
	version    bool
	values     []string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}

	if opts.version {
		fmt.Fprintf(stdout, "colorname %s (%s)\n", version, commit)
		return exitOK
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(stderr, "Warning: loading .env: %v\n", err)
	}

	path := opts.configPath
	if path == "" {
		path = config.DefaultPath
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(stderr, "Error: loading config: %v\n", err)
		return exitError
	}

	level := cfg.LogLevel()
	if opts.logLevel != "" {
		level = logging.ParseLevel(opts.logLevel)
	}
	log := logging.New(logging.Config{Level: level, Output: stderr, Prefix: "colorname"})
	mt := metrics.New()

	manager := catalog.NewManager(
		catalog.WithLogger(log),
		catalog.WithMetrics(mt),
		catalog.WithFinderOptions(cfg.FinderOptions()...),
		catalog.WithSearchOptions(cfg.SearchOptions()),
	)
	if err := loadCatalogs(manager, cfg, log); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
	defer logStats(log, mt)

	name := opts.list
	if name == "" {
		name = cfg.Catalogs.Default
	}

	out := newPrinter(stdout, opts.pretty, isTerminal(stdout))

	switch {
	case opts.lists:
		return out.write(encodeLists(manager))
	case opts.search != "":
		results, err := manager.SearchByName(name, opts.search, opts.maxResults)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitError
		}
		return out.write(encodeSearch(name, opts.search, results))
	}

	if len(opts.values) == 0 {
		fmt.Fprintln(stderr, "Error: no colors given")
		return exitError
	}

	matches, err := manager.NamesForValues(name, opts.values, opts.unique)
	var exhausted *catalog.BatchExhaustionError
	switch {
	case errors.As(err, &exhausted):
		if code := out.write(encodeExhaustion(exhausted)); code != exitOK {
			return code
		}
		return exitExhausted
	case err != nil:
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
	return out.write(encodeMatches(name, opts.values, matches))
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options

	fs := flag.NewFlagSet("colorname", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configPath, "config", "", "Path to configuration file (default "+config.DefaultPath+")")
	fs.StringVar(&opts.list, "list", "", "Catalog to use (default from config)")
	fs.BoolVar(&opts.unique, "unique", false, "Never return the same name twice in one request")
	fs.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.BoolVar(&opts.pretty, "pretty", false, "Indent JSON output")
	fs.StringVar(&opts.search, "search", "", "Search catalog entries by name")
	fs.IntVar(&opts.maxResults, "max", 0, "Maximum search results (default from config)")
	fs.BoolVar(&opts.lists, "lists", false, "List the available catalogs")
	fs.BoolVar(&opts.version, "version", false, "Show version information")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "colorname - name colors by their closest catalog match\n\n")
		fmt.Fprintf(stderr, "Usage:\n")
		fmt.Fprintf(stderr, "  colorname [options] hex...\n")
		fmt.Fprintf(stderr, "  colorname -search query [-list name] [-max n]\n")
		fmt.Fprintf(stderr, "  colorname -lists\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  colorname ff0000 00ff00         Name two colors\n")
		fmt.Fprintf(stderr, "  colorname -unique f00,f01,f02   Three distinct names\n")
		fmt.Fprintf(stderr, "  colorname -list html -search sea\n")
	}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	if opts.logLevel != "" && !logging.ValidLevel(opts.logLevel) {
		return opts, fmt.Errorf("invalid log level %q (must be debug, info, warn, or error)", opts.logLevel)
	}
	if opts.maxResults < 0 {
		return opts, fmt.Errorf("invalid -max %d", opts.maxResults)
	}

	opts.values = splitValues(fs.Args())
	return opts, nil
}

// splitValues accepts values as separate arguments, comma separated, or both.
func splitValues(args []string) []string {
	var out []string
	for _, a := range args {
		for _, v := range strings.Split(a, ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func logStats(log *logging.Logger, mt *metrics.Metrics) {
	s := mt.Snapshot()
	log.Debug("lookups %d (hit rate %.1f%%), reservations %d, exhaustions %d, widened %d, searches %d (avg %dns, max %dns), name queries %d",
		s.Lookups, s.HitRate(), s.Reservations, s.Exhaustions, s.Widened,
		s.Searches, s.AvgSearchNs, s.MaxSearchNs, s.NameQueries)
}
