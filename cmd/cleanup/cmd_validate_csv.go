package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/BruksfildServices01/booking-cleanup/internal/report"
	"github.com/BruksfildServices01/booking-cleanup/internal/usecase/importer"
)

var (
	csvFile   string
	csvImport bool
)

var validateCSVCmd = &cobra.Command{
	Use:   "validate-csv",
	Short: "Check a bookings CSV and optionally import the valid rows",
	Long: `Columns: name, phone, date (YYYY-MM-DD), time (HH:MM), optional service.
Rows with a missing name, an unusable phone, a bad date or time, or the same
phone/date/time as an earlier row are rejected. With --import the remaining
rows are inserted into bookings with a canonical phone, skipping any slot
that is already booked. Store credentials are only needed with --import.`,
	Args: cobra.NoArgs,
	RunE: runValidateCSV,
}

func init() {
	validateCSVCmd.Flags().StringVar(&csvFile, "file", "", "Bookings CSV file (required)")
	validateCSVCmd.Flags().BoolVar(&csvImport, "import", false, "Insert valid rows into bookings")
	_ = validateCSVCmd.MarkFlagRequired("file")
}

func runValidateCSV(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s, err := openSession(ctx, report.CommandValidateCSV, csvImport)
	if err != nil {
		return err
	}

	uc := importer.New(s.store, s.rec, s.audit, s.log)
	if err := uc.Execute(ctx, importer.Input{Path: csvFile, Import: csvImport, DryRun: dryRun}); err != nil {
		s.close()
		return err
	}
	return s.finish(context.WithoutCancel(ctx))
}
