// Package cmd implements the webscrape CLI using Cobra.
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/gaurav-prasanna/webscrape/core/config"
	"github.com/gaurav-prasanna/webscrape/core/extract"
	"github.com/gaurav-prasanna/webscrape/core/fetch"
	"github.com/gaurav-prasanna/webscrape/core/normalize"
	"github.com/gaurav-prasanna/webscrape/core/scrape"
	"github.com/gaurav-prasanna/webscrape/core/store"
)

// Persistent flag variables.
var (
	flagConfig    string
	flagVerbose   bool
	flagLogFormat string
	flagStore     string
	flagTimeout   int
	flagUserAgent string
)

// cfg is the effective configuration, resolved before any subcommand runs.
var cfg = config.Default()

var rootCmd = &cobra.Command{
	Use:   "webscrape",
	Short: "Extract structured text from web pages",
	Long: `webscrape fetches web pages, strips scripts, styles and footers, and
returns the title, headings, paragraphs, links and cleaned full text.

Usage:
  webscrape scrape <url> [flags]
  webscrape serve [--host] [--port]
  webscrape history [--limit]`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "Config file (.yaml, .yml, .toml or .json)")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
	pf.StringVar(&flagLogFormat, "log-format", "console", "Log format: console or json")
	pf.StringVar(&flagStore, "store", "", "Append every scrape outcome to this JSONL result log")
	pf.IntVar(&flagTimeout, "timeout", 10, "Fetch timeout in seconds")
	pf.StringVar(&flagUserAgent, "user-agent", "", "User-Agent header sent with every request")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command, _ []string) error {
	loaded, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	applyFlagOverrides(cmd.Flags(), loaded)
	if err := loaded.Validate(); err != nil {
		return err
	}
	if err := setupLogging(loaded.Log.Level, loaded.Log.Format); err != nil {
		return err
	}
	cfg = loaded
	log.Debug().Str("config", flagConfig).Msg("configuration loaded")
	return nil
}

// applyFlagOverrides copies explicitly set flags onto c. Flags left at their
// defaults never override file or environment values.
func applyFlagOverrides(flags *pflag.FlagSet, c *config.Config) {
	flags.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "verbose":
			if flagVerbose {
				c.Log.Level = zerolog.LevelDebugValue
			}
		case "log-format":
			c.Log.Format = flagLogFormat
		case "store":
			c.Store.Enabled = flagStore != ""
			c.Store.Path = flagStore
		case "timeout":
			c.Fetch.TimeoutSeconds = flagTimeout
		case "user-agent":
			c.Fetch.UserAgent = flagUserAgent
		case "host":
			c.Server.Host = flagHost
		case "port":
			c.Server.Port = flagPort
		}
	})
}

func setupLogging(level, format string) error {
	zerolog.TimeFieldFormat = time.RFC3339
	switch format {
	case "json":
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	default:
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	if lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	return nil
}

// pipeline holds the components shared by every subcommand.
type pipeline struct {
	fetcher *fetch.HTTPFetcher
	scraper *scrape.Scraper
	store   *store.FileStore // nil when the result log is disabled
}

// newPipeline builds the fetcher and scraper from c. targets adds raw link
// and image URLs to results; markdown attaches a Markdown body.
func newPipeline(c *config.Config, targets, markdown bool) *pipeline {
	logger := log.Logger
	fetcher := fetch.New(
		fetch.WithTimeout(c.FetchTimeout()),
		fetch.WithUserAgent(c.Fetch.UserAgent),
		fetch.WithMaxBodyBytes(c.Fetch.MaxBodyBytes),
		fetch.WithLogger(logger.With().Str("component", "fetch").Logger()),
	)

	extractor := extract.New()
	extractor.Targets = targets
	extractor.Logger = logger.With().Str("component", "extract").Logger()

	p := &pipeline{fetcher: fetcher}
	opts := []scrape.Option{scrape.WithLogger(logger.With().Str("component", "scrape").Logger())}
	if c.Store.Enabled {
		p.store = store.New(c.Store.Path)
		opts = append(opts, scrape.WithStore(p.store))
	}
	if markdown {
		opts = append(opts, scrape.WithMarkdown(normalize.New()))
	}
	p.scraper = scrape.New(fetcher, extractor, opts...)
	return p
}
