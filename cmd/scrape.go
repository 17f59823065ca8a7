package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/gaurav-prasanna/webscrape/core"
	"github.com/gaurav-prasanna/webscrape/core/output"
	"github.com/gaurav-prasanna/webscrape/core/render"
	"github.com/gaurav-prasanna/webscrape/core/scrape"
	"github.com/gaurav-prasanna/webscrape/crawl"
)

// Flag variables.
var (
	flagAll       bool
	flagPDF       bool
	flagMarkdown  bool
	flagJSON      bool
	flagStdout    bool
	flagTargets   bool
	flagOutputDir string
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape <url>",
	Short: "Scrape a URL and print or save the structured result",
	Long: `Scrape fetches a page once, removes noise elements and extracts the title,
headings, paragraphs, links and cleaned full text.

Without a format flag the JSON result is printed to stdout. With --json,
--markdown or --pdf the rendered result is written to --output_dir unless
--stdout is also given.

Examples:
  webscrape scrape https://example.com
  webscrape scrape https://example.com --markdown --output_dir ./out
  webscrape scrape https://example.com --all --json
  webscrape scrape https://example.com --targets --stdout --json`,
	Args: cobra.ExactArgs(1),
	RunE: runScrape,
}

func init() {
	rootCmd.AddCommand(scrapeCmd)

	scrapeCmd.Flags().BoolVar(&flagAll, "all", false, "Scrape every internal page discovered from the URL")

	// Output format flags (mutually exclusive).
	scrapeCmd.Flags().BoolVar(&flagJSON, "json", false, "Render structured JSON")
	scrapeCmd.Flags().BoolVar(&flagMarkdown, "markdown", false, "Render Markdown")
	scrapeCmd.Flags().BoolVar(&flagPDF, "pdf", false, "Render PDF")
	scrapeCmd.Flags().BoolVar(&flagStdout, "stdout", false, "Print the rendered output instead of writing files")

	scrapeCmd.Flags().BoolVar(&flagTargets, "targets", false, "Include raw link and image URLs in the result")
	scrapeCmd.Flags().StringVar(&flagOutputDir, "output_dir", "", "Output directory (default: current directory)")
}

func runScrape(cmd *cobra.Command, args []string) error {
	rawURL := args[0]
	if err := scrape.ValidateURL(rawURL); err != nil {
		return err
	}

	renderer, chosen, err := selectRenderer(flagJSON, flagMarkdown, flagPDF)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p := newPipeline(cfg, flagTargets, flagMarkdown)
	run := &scrapeRun{scraper: p.scraper, renderer: renderer, out: cmd.OutOrStdout()}

	if chosen && !flagStdout {
		layout := output.Flat
		if flagAll {
			layout = output.Tree
		}
		run.writer, err = output.New(flagOutputDir, layout)
		if err != nil {
			return fmt.Errorf("initializing output writer: %w", err)
		}
	}

	if flagAll {
		return runAll(ctx, rawURL, p, run)
	}

	path, err := run.page(ctx, rawURL)
	if err != nil {
		return err
	}
	if path != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Written: %s\n", path)
	}
	return nil
}

// runAll discovers the internal pages of rawURL and scrapes them with bounded
// concurrency. Individual page failures are logged and counted.
func runAll(ctx context.Context, rawURL string, p *pipeline, run *scrapeRun) error {
	logger := log.With().Str("component", "crawl").Logger()
	logger.Info().Str("url", rawURL).Msg("discovering pages")

	urls, err := crawl.DiscoverAll(ctx, rawURL, p.fetcher, crawl.Options{
		MaxPages:      cfg.Crawl.MaxPages,
		RateLimit:     cfg.Crawl.RateLimit,
		RespectRobots: cfg.Crawl.RespectRobots,
		UserAgent:     cfg.Fetch.UserAgent,
		Logger:        logger,
	})
	if err != nil {
		return fmt.Errorf("discovering pages: %w", err)
	}
	logger.Info().Int("pages", len(urls)).Msg("found pages to scrape")

	limiter := rate.NewLimiter(rate.Limit(cfg.Crawl.RateLimit), 1)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Crawl.Concurrency)

	var failed atomic.Int32
	for i, pageURL := range urls {
		g.Go(func() error {
			if err := limiter.Wait(gctx); err != nil {
				return err
			}
			path, err := run.page(gctx, pageURL)
			if err != nil {
				failed.Add(1)
				log.Warn().Err(err).Str("url", pageURL).Msgf("[%d/%d] failed", i+1, len(urls))
				return nil
			}
			ev := log.Info().Str("url", pageURL)
			if path != "" {
				ev = ev.Str("path", path)
			}
			ev.Msgf("[%d/%d] done", i+1, len(urls))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if n := failed.Load(); n > 0 {
		return fmt.Errorf("%d/%d pages failed", n, len(urls))
	}
	return nil
}

// scrapeRun scrapes one page, renders it and delivers the bytes either to a
// file via writer or to out.
type scrapeRun struct {
	scraper  *scrape.Scraper
	renderer core.Renderer
	writer   *output.Writer // nil prints to out
	out      io.Writer

	mu sync.Mutex
}

// page returns the written file path, or "" when the output went to out.
func (r *scrapeRun) page(ctx context.Context, pageURL string) (string, error) {
	result, err := r.scraper.Scrape(ctx, pageURL)
	if err != nil {
		return "", err
	}
	data, err := r.renderer.Render(result)
	if err != nil {
		return "", fmt.Errorf("render: %w", err)
	}

	if r.writer == nil {
		r.mu.Lock()
		defer r.mu.Unlock()
		if _, err := r.out.Write(data); err != nil {
			return "", fmt.Errorf("writing output: %w", err)
		}
		return "", nil
	}
	return r.writer.Write(pageURL, data, r.renderer.Extension())
}

// selectRenderer picks the renderer for the format flags. chosen is false
// when no format flag was given and JSON is used as the default.
func selectRenderer(jsonOut, markdownOut, pdfOut bool) (renderer core.Renderer, chosen bool, err error) {
	count := 0
	for _, set := range []bool{jsonOut, markdownOut, pdfOut} {
		if set {
			count++
		}
	}
	if count > 1 {
		return nil, false, fmt.Errorf("only one output format allowed per run (got %d)", count)
	}

	switch {
	case markdownOut:
		return render.NewMarkdownRenderer(), true, nil
	case pdfOut:
		return render.NewPDFRenderer(), true, nil
	case jsonOut:
		return render.NewJSONRenderer(), true, nil
	default:
		return render.NewJSONRenderer(), false, nil
	}
}
