package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/slicingpie/display"
	"github.com/rustyeddy/slicingpie/ledger"
	"github.com/rustyeddy/slicingpie/pie"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show the current pie",
	Long: `Recompute every founder's slices from the ledger and print the pie.

Formats:
  table - aligned summary (default)
  org   - Emacs org-mode outline
  json  - full calculation results

Examples:
  slicer report
  slicer report --founder asha
  slicer report --format org > pie.org`,
	Args: cobra.NoArgs,
	RunE: runReport,
}

var (
	reportFormat  string
	reportFounder string
)

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVarP(&reportFormat, "format", "F", "table", "output format (table, org, json)")
	reportCmd.Flags().StringVarP(&reportFounder, "founder", "f", "", "show one founder's breakdown")
}

func runReport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	book, err := openBook(ctx)
	if err != nil {
		return err
	}
	defer book.Close()

	p, err := book.Pie(ctx)
	if err != nil {
		return err
	}
	cats, err := book.Categories(ctx)
	if err != nil {
		return err
	}

	if reportFounder != "" {
		for _, s := range p.Shares {
			if s.Founder.ID == reportFounder {
				return writeShare(s, cats)
			}
		}
		return fmt.Errorf("%w: %q", ledger.ErrFounderNotFound, reportFounder)
	}

	switch strings.ToLower(reportFormat) {
	case "table":
		fmt.Printf("%s\n\n", cfg.Company)
		return display.WriteSummary(os.Stdout, p, cats)
	case "org":
		fmt.Print(ledger.FormatPieOrg(p))
		return nil
	case "json":
		return writeJSON(p)
	default:
		return fmt.Errorf("unknown format %q (supported: table, org, json)", reportFormat)
	}
}

func writeShare(s pie.Share, cats []pie.Category) error {
	switch strings.ToLower(reportFormat) {
	case "table":
		return display.WriteFounder(os.Stdout, s.Founder, s.Calculations, cats)
	case "org":
		fmt.Print(ledger.FormatFounderOrg(s.Founder, s.Calculations, s.Percent))
		return nil
	case "json":
		return writeJSON(s)
	default:
		return fmt.Errorf("unknown format %q (supported: table, org, json)", reportFormat)
	}
}

func writeJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
