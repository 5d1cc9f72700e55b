package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/BruksfildServices01/booking-cleanup/internal/report"
	"github.com/BruksfildServices01/booking-cleanup/internal/usecase/cleanup"
)

var runCustomers bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Normalize booking phones and delete duplicate bookings",
	Args:  cobra.NoArgs,
	RunE:  runCleanup,
}

func init() {
	runCmd.Flags().BoolVar(&runCustomers, "customers", false, "Also normalize phones in the customers table")
}

func runCleanup(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s, err := openSession(ctx, report.CommandRun, true)
	if err != nil {
		return err
	}

	uc := cleanup.NewRun(s.store, s.rec, s.audit, s.log)
	if err := uc.Execute(ctx, cleanup.RunInput{DryRun: dryRun, Customers: runCustomers}); err != nil {
		s.close()
		return err
	}

	// the archive upload still gets to finish after an interrupt
	return s.finish(context.WithoutCancel(ctx))
}
