package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/slicingpie/display"
	"github.com/rustyeddy/slicingpie/pie"
)

var founderCmd = &cobra.Command{
	Use:   "founder",
	Short: "Manage founders and their salaries",
	Long: `Add founders and keep their current monthly salaries up to date.

Subcommands:
  add     - Add a founder
  list    - List founders with current salaries
  salary  - Change a founder's market and paid salary

Salary changes only affect entries recorded afterwards.

Examples:
  slicer founder add --name Asha --market 150000 --paid 40000
  slicer founder salary asha --market 180000 --paid 60000`,
}

var founderAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a founder",
	Args:  cobra.NoArgs,
	RunE:  runFounderAdd,
}

var founderListCmd = &cobra.Command{
	Use:   "list",
	Short: "List founders",
	Args:  cobra.NoArgs,
	RunE:  runFounderList,
}

var founderSalaryCmd = &cobra.Command{
	Use:   "salary <founder-id>",
	Short: "Change a founder's current salaries",
	Args:  cobra.ExactArgs(1),
	RunE:  runFounderSalary,
}

var (
	founderID     string
	founderName   string
	founderMarket float64
	founderPaid   float64
)

func init() {
	rootCmd.AddCommand(founderCmd)
	founderCmd.AddCommand(founderAddCmd)
	founderCmd.AddCommand(founderListCmd)
	founderCmd.AddCommand(founderSalaryCmd)

	founderAddCmd.Flags().StringVar(&founderID, "id", "", "founder id (generated when empty)")
	founderAddCmd.Flags().StringVarP(&founderName, "name", "n", "", "founder name (required)")
	founderAddCmd.Flags().Float64Var(&founderMarket, "market", 0, "monthly market salary")
	founderAddCmd.Flags().Float64Var(&founderPaid, "paid", 0, "monthly salary actually paid")
	founderAddCmd.MarkFlagRequired("name")

	founderSalaryCmd.Flags().Float64Var(&founderMarket, "market", 0, "monthly market salary")
	founderSalaryCmd.Flags().Float64Var(&founderPaid, "paid", 0, "monthly salary actually paid")
	founderSalaryCmd.MarkFlagRequired("market")
}

func runFounderAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	book, err := openBook(ctx)
	if err != nil {
		return err
	}
	defer book.Close()

	f, err := book.SaveFounder(ctx, pie.Founder{
		ID:           founderID,
		Name:         founderName,
		MarketSalary: founderMarket,
		PaidSalary:   founderPaid,
	})
	if err != nil {
		return err
	}

	fmt.Printf("✓ Added founder %s (%s)\n", f.Name, f.ID)
	return nil
}

func runFounderList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	book, err := openBook(ctx)
	if err != nil {
		return err
	}
	defer book.Close()

	founders, err := book.Founders(ctx)
	if err != nil {
		return err
	}
	if len(founders) == 0 {
		fmt.Println("No founders yet. Add one with: slicer founder add --name <name>")
		return nil
	}

	hpm := book.Params().HoursPerMonth
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tName\tMarket\tPaid\tHourly gap")
	for _, f := range founders {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", f.ID, f.Name,
			display.FormatCurrency(f.MarketSalary),
			display.FormatCurrency(f.PaidSalary),
			display.FormatCurrency(f.Snapshot().HourlyGap(hpm)))
	}
	return tw.Flush()
}

func runFounderSalary(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	book, err := openBook(ctx)
	if err != nil {
		return err
	}
	defer book.Close()

	if err := book.SetFounderSalary(ctx, args[0], founderMarket, founderPaid); err != nil {
		return err
	}

	fmt.Printf("✓ %s now at %s market, %s paid\n", args[0],
		display.FormatCurrency(founderMarket), display.FormatCurrency(founderPaid))
	return nil
}
