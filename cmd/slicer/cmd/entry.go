package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/slicingpie/display"
	"github.com/rustyeddy/slicingpie/ledger"
	"github.com/rustyeddy/slicingpie/pie"
)

var entryCmd = &cobra.Command{
	Use:   "entry",
	Short: "Record and manage ledger entries",
	Long: `Record contributions in the ledger.

Subcommands:
  add     - Record a contribution
  remove  - Delete an entry
  list    - List entries
  import  - Append entries from a CSV export
  export  - Write entries as CSV

For the intellectual_property category the amount is a percentage of
the current pie, converted to slices at the moment it is recorded.

Examples:
  slicer entry add --founder asha --category cash --amount 25000
  slicer entry add --founder asha --category time --amount 42.5 --date 2024-03-01
  slicer entry add --founder ravi --category intellectual_property --amount 5
  slicer entry export -o ledger.csv`,
}

var entryAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a contribution",
	Args:  cobra.NoArgs,
	RunE:  runEntryAdd,
}

var entryRemoveCmd = &cobra.Command{
	Use:   "remove <entry-id>",
	Short: "Delete an entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runEntryRemove,
}

var entryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List entries",
	Args:  cobra.NoArgs,
	RunE:  runEntryList,
}

var entryImportCmd = &cobra.Command{
	Use:   "import <file.csv>",
	Short: "Append entries from a CSV export",
	Args:  cobra.ExactArgs(1),
	RunE:  runEntryImport,
}

var entryExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write entries as CSV",
	Args:  cobra.NoArgs,
	RunE:  runEntryExport,
}

var (
	entryFounder     string
	entryCategory    string
	entryAmount      string
	entryDescription string
	entryDate        string
	entryBy          string
	entryAdmin       bool
	entryOutput      string
)

func init() {
	rootCmd.AddCommand(entryCmd)
	entryCmd.AddCommand(entryAddCmd)
	entryCmd.AddCommand(entryRemoveCmd)
	entryCmd.AddCommand(entryListCmd)
	entryCmd.AddCommand(entryImportCmd)
	entryCmd.AddCommand(entryExportCmd)

	entryAddCmd.Flags().StringVarP(&entryFounder, "founder", "f", "", "founder id (required)")
	entryAddCmd.Flags().StringVarP(&entryCategory, "category", "k", "", "category id (required)")
	entryAddCmd.Flags().StringVarP(&entryAmount, "amount", "a", "", "amount in rupees, hours or percent (required)")
	entryAddCmd.Flags().StringVarP(&entryDescription, "description", "m", "", "what was contributed")
	entryAddCmd.Flags().StringVar(&entryDate, "date", "", "contribution date YYYY-MM-DD (default today)")
	entryAddCmd.Flags().StringVar(&entryBy, "by", "", "who recorded the entry")
	entryAddCmd.MarkFlagRequired("founder")
	entryAddCmd.MarkFlagRequired("category")
	entryAddCmd.MarkFlagRequired("amount")

	entryListCmd.Flags().StringVarP(&entryFounder, "founder", "f", "", "only this founder's entries")
	entryListCmd.Flags().BoolVar(&entryAdmin, "admin", false, "include admin-only categories")

	entryExportCmd.Flags().StringVarP(&entryOutput, "output", "o", "", "output file (default stdout)")
}

func runEntryAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	book, err := openBook(ctx)
	if err != nil {
		return err
	}
	defer book.Close()

	amount, err := pie.ParseAmount(entryAmount)
	if err != nil {
		return err
	}
	req := pie.EntryRequest{
		FounderID:   entryFounder,
		CategoryID:  pie.CategoryID(entryCategory),
		Amount:      amount,
		Description: entryDescription,
	}
	if entryDate != "" {
		req.Date, err = time.Parse("2006-01-02", entryDate)
		if err != nil {
			return fmt.Errorf("date: %w", err)
		}
	}
	if entryBy != "" {
		req.CreatedBy = &entryBy
	}

	var e pie.LedgerEntry
	if req.CategoryID == pie.IntellectualProperty {
		e, err = book.AddIntellectualProperty(ctx, req)
	} else {
		e, err = book.AddEntry(ctx, req)
	}
	if err != nil {
		return err
	}

	slices := pie.NewCalculator(book.Params()).EntrySlices(e)
	fmt.Printf("✓ Recorded %s for %s: %s slices (%s)\n",
		e.CategoryID, e.FounderID, display.FormatSlices(slices), e.ID)
	return nil
}

func runEntryRemove(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	book, err := openBook(ctx)
	if err != nil {
		return err
	}
	defer book.Close()

	if err := book.RemoveEntry(ctx, args[0]); err != nil {
		return err
	}
	fmt.Printf("✓ Removed entry %s\n", args[0])
	return nil
}

func runEntryList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	book, err := openBook(ctx)
	if err != nil {
		return err
	}
	defer book.Close()

	entries, err := book.Entries(ctx, entryFounder)
	if err != nil {
		return err
	}
	founders, err := book.Founders(ctx)
	if err != nil {
		return err
	}
	cats, err := book.Categories(ctx)
	if err != nil {
		return err
	}

	entries = pie.VisibleEntries(entries, cats, entryAdmin)
	if len(entries) == 0 {
		fmt.Println("No entries.")
		return nil
	}
	return display.WriteEntries(os.Stdout, entries, founders, cats)
}

func runEntryImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	book, err := openBook(ctx)
	if err != nil {
		return err
	}
	defer book.Close()

	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	entries, err := ledger.ReadCSV(f)
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}
	n, err := book.ImportEntries(ctx, entries)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Imported %d %s from %s\n", n, display.EntryNoun(n), args[0])
	return nil
}

func runEntryExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	book, err := openBook(ctx)
	if err != nil {
		return err
	}
	defer book.Close()

	entries, err := book.Entries(ctx, "")
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if entryOutput != "" {
		f, err := os.Create(entryOutput)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	return ledger.WriteCSV(w, entries)
}
