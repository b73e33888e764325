// Command needlecrawl searches a bounded frontier of reachable pages,
// starting from a seed URL, for pages whose body contains a needle string.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nsavage/needlecrawl/engine"
	"github.com/nsavage/needlecrawl/fetcher"
	"github.com/nsavage/needlecrawl/report"
	"github.com/nsavage/needlecrawl/tui"
)

// cliFlags holds parsed command-line flags. Seed/needle/workers/cap are
// optional: when given, they prefill the TUI's form instead of requiring
// the user to type them in, but the form is always shown so Enter starts
// the crawl and Stop/restart stay available mid-run.
type cliFlags struct {
	seed      string
	needle    string
	workers   int
	cap       int
	timeout   time.Duration
	rateLimit int
	retries   int
	userAgent string
	robots    bool
	htmlLinks bool
	diskFront bool
	memoryMB  int64

	outputJSON bool
	outputCSV  bool
	outputFile string
}

func parseFlags() *cliFlags {
	opts := &cliFlags{}
	flag.StringVar(&opts.seed, "seed", "", "seed URL to prefill the form with")
	flag.StringVar(&opts.needle, "needle", "", "needle string to prefill the form with")
	flag.IntVar(&opts.workers, "workers", 4, "number of concurrent workers")
	flag.IntVar(&opts.cap, "cap", 500, "maximum number of distinct URLs to visit")
	flag.DurationVar(&opts.timeout, "timeout", fetcher.DefaultTimeout, "per-request timeout")
	flag.IntVar(&opts.rateLimit, "rate-limit", 0, "requests/sec across the whole crawl (0 = unthrottled)")
	flag.IntVar(&opts.retries, "retries", 0, "number of retries for transient fetch errors")
	flag.StringVar(&opts.userAgent, "user-agent", "needlecrawl/1.0", "user agent string")
	flag.BoolVar(&opts.robots, "robots", false, "respect robots.txt")
	flag.BoolVar(&opts.htmlLinks, "html-links", false, "discover URLs from anchor tags only, instead of a broad regex scan")
	flag.BoolVar(&opts.diskFront, "disk-frontier", false, "force the bloom-filter-backed frontier regardless of cap")
	flag.Int64Var(&opts.memoryMB, "memory-limit", 0, "soft memory limit in MB before throttling admissions (0 = disabled)")

	flag.BoolVar(&opts.outputJSON, "json", false, "write results as JSON after the crawl finishes")
	flag.BoolVar(&opts.outputCSV, "csv", false, "write results as CSV after the crawl finishes")
	flag.StringVar(&opts.outputFile, "output", "", "write JSON/CSV output to file instead of stdout")

	flag.Parse()
	return opts
}

func validateFlags(opts *cliFlags) error {
	if opts.outputJSON && opts.outputCSV {
		return fmt.Errorf("--json and --csv are mutually exclusive")
	}
	return nil
}

// buildEngineConfig creates an engine.Config from flags.
func buildEngineConfig(opts *cliFlags) engine.Config {
	cfg := engine.DefaultConfig()
	cfg.RequestTimeout = opts.timeout
	cfg.UserAgent = opts.userAgent
	cfg.RateLimit = opts.rateLimit
	cfg.RespectRobots = opts.robots
	cfg.ForceDiskFrontier = opts.diskFront
	cfg.MemoryLimitMB = opts.memoryMB
	cfg.RetryPolicy = fetcher.RetryPolicy{
		MaxRetries: opts.retries,
		BaseDelay:  500 * time.Millisecond,
		MaxDelay:   10 * time.Second,
	}
	if opts.htmlLinks {
		cfg.Extractor = engine.HTMLExtractor
	}
	return cfg
}

// runTUI creates and runs the TUI, returning the final model.
func runTUI(ctx context.Context, cancel context.CancelFunc, opts *cliFlags) (tui.Model, error) {
	pre := tui.Prefill{Seed: opts.seed, Needle: opts.needle}
	if opts.workers > 0 {
		pre.Workers = strconv.Itoa(opts.workers)
	}
	if opts.cap > 0 {
		pre.Cap = strconv.Itoa(opts.cap)
	}

	model := tui.NewModel(ctx, cancel, func() engine.Config { return buildEngineConfig(opts) }, pre)
	program := tea.NewProgram(model)

	finalModel, err := program.Run()
	if err != nil {
		return tui.Model{}, fmt.Errorf("run tui: %w", err)
	}
	return finalModel.(tui.Model), nil
}

// writeStructuredOutput handles writing JSON/CSV output to stdout or a file.
func writeStructuredOutput(opts *cliFlags, model tui.Model) error {
	summary := model.Summary()

	var w io.Writer = os.Stdout
	if opts.outputFile != "" {
		f, err := os.Create(opts.outputFile)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil {
				fmt.Fprintf(os.Stderr, "Error closing output file: %v\n", cerr)
			}
		}()
		w = f
	}

	useJSON := opts.outputJSON || (!opts.outputCSV && opts.outputFile != "")
	if useJSON {
		return report.WriteJSON(w, summary)
	}
	return report.WriteCSV(w, summary)
}

func main() {
	opts := parseFlags()

	if err := validateFlags(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	finalModel, err := runTUI(ctx, cancel, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if opts.outputJSON || opts.outputCSV || opts.outputFile != "" {
		if err := writeStructuredOutput(opts, finalModel); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	summary := finalModel.Summary()
	if summary.Verdict != "Found" {
		os.Exit(1)
	}
}
