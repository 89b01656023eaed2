package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "0.3.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  `Display the current version of the slicer CLI.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("slicer version %s\n", version)
		fmt.Println("Dynamic founder equity with the Slicing Pie model")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
