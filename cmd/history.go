package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/webscrape/core"
	"github.com/gaurav-prasanna/webscrape/core/store"
)

var (
	flagLimit       int
	flagHistoryJSON bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent entries of the result log",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		fs := store.New(cfg.Store.Path)
		records, err := fs.Tail(cmd.Context(), flagLimit)
		if err != nil {
			return err
		}
		if flagHistoryJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if records == nil {
				records = []core.Record{}
			}
			return enc.Encode(records)
		}
		return printHistory(cmd.OutOrStdout(), records)
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVarP(&flagLimit, "limit", "n", 20, "Number of entries to show (0 for all)")
	historyCmd.Flags().BoolVar(&flagHistoryJSON, "json", false, "Print raw records as JSON")
}

// printHistory writes one row per record: time, outcome, words and URL or
// error message.
func printHistory(w io.Writer, records []core.Record) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RECORDED\tSTATUS\tWORDS\tDETAIL")
	for _, rec := range records {
		at := rec.RecordedAt.Local().Format(time.DateTime)
		switch {
		case rec.Result != nil:
			fmt.Fprintf(tw, "%s\tok\t%d\t%s\n", at, rec.Result.WordCount, rec.Result.URL)
		case rec.Error != nil:
			fmt.Fprintf(tw, "%s\t%s\t-\t%s\n", at, rec.Error.Kind, rec.Error.Message)
		}
	}
	return tw.Flush()
}
