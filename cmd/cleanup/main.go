package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configDir string
	dryRun    bool
	jsonOut   bool
)

var rootCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Data-quality maintenance for the bookings and customers tables",
	Long: `cleanup normalizes stored phone numbers to the 010XXXXXXXX form,
removes duplicate bookings (same phone, date and time, newest wins) and
applies one-off corrections and CSV imports. Every command supports
--dry-run, which prints the same plan without writing anything.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "Directory holding config.yaml (default: ./config or .)")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Report what would change without writing")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Also write the report as JSON to report.dir (and S3 when configured)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(correctionsCmd)
	rootCmd.AddCommand(validateCSVCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
