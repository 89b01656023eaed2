package cmd

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/slicingpie/display"
	"github.com/rustyeddy/slicingpie/pie"
)

var categoryCmd = &cobra.Command{
	Use:   "category",
	Short: "Show and tune contribution categories",
	Long: `List the contribution categories and change their multipliers.

A new multiplier applies only to entries recorded after the change.

Examples:
  slicer category list --admin
  slicer category list --input
  slicer category set cash --multiplier 4
  slicer category set revenue --commission 15`,
}

var categoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories",
	Args:  cobra.NoArgs,
	RunE:  runCategoryList,
}

var categorySetCmd = &cobra.Command{
	Use:   "set <category-id>",
	Short: "Change a category's multiplier or commission",
	Args:  cobra.ExactArgs(1),
	RunE:  runCategorySet,
}

var (
	categoryAdmin      bool
	categoryInput      bool
	categoryMultiplier float64
	categoryCommission float64
)

func init() {
	rootCmd.AddCommand(categoryCmd)
	categoryCmd.AddCommand(categoryListCmd)
	categoryCmd.AddCommand(categorySetCmd)

	categoryListCmd.Flags().BoolVar(&categoryAdmin, "admin", false, "include admin-only categories")
	categoryListCmd.Flags().BoolVar(&categoryInput, "input", false, "hide auto-calculated categories")

	categorySetCmd.Flags().Float64VarP(&categoryMultiplier, "multiplier", "m", 0, "new multiplier")
	categorySetCmd.Flags().Float64Var(&categoryCommission, "commission", 0, "new commission percent (revenue)")
	categorySetCmd.MarkFlagsOneRequired("multiplier", "commission")
}

func runCategoryList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	book, err := openBook(ctx)
	if err != nil {
		return err
	}
	defer book.Close()

	cats, err := book.Categories(ctx)
	if err != nil {
		return err
	}

	if categoryInput {
		cats = pie.InputCategories(cats)
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tName\tMultiplier\tInput\tNotes")
	for _, c := range pie.VisibleCategories(cats, categoryAdmin) {
		notes := ""
		switch {
		case c.IsPercentageBased:
			notes = "percent of pie, frozen at grant"
		case c.ID == pie.ExpenseReceived:
			notes = "subtracted"
		case c.CommissionPercent != nil:
			notes = strconv.FormatFloat(*c.CommissionPercent, 'f', -1, 64) + "% commission"
		}
		if c.AdminOnly {
			notes += " (admin)"
		}
		fmt.Fprintf(tw, "%s\t%s %s\t%s\t%s\t%s\n", c.ID, c.Emoji, c.Name,
			display.FormatMultiplier(c.Multiplier), c.InputType, notes)
	}
	return tw.Flush()
}

func runCategorySet(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	book, err := openBook(ctx)
	if err != nil {
		return err
	}
	defer book.Close()

	id, err := pie.ParseCategoryID(args[0])
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("multiplier") {
		if err := book.SetCategoryMultiplier(ctx, id, categoryMultiplier); err != nil {
			return err
		}
		fmt.Printf("✓ %s multiplier set to %s\n", id, display.FormatMultiplier(categoryMultiplier))
	}
	if cmd.Flags().Changed("commission") {
		if err := book.SetCategoryCommission(ctx, id, categoryCommission); err != nil {
			return err
		}
		fmt.Printf("✓ %s commission set to %s%%\n", id, strconv.FormatFloat(categoryCommission, 'f', -1, 64))
	}
	return nil
}
