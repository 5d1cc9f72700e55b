package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	domain "github.com/BruksfildServices01/booking-cleanup/internal/domain/correction"
	"github.com/BruksfildServices01/booking-cleanup/internal/report"
	"github.com/BruksfildServices01/booking-cleanup/internal/usecase/correction"
)

var correctionsFile string

var correctionsCmd = &cobra.Command{
	Use:   "corrections",
	Short: "Apply a curated correction list (rename, force_flag, split, delete)",
	Args:  cobra.NoArgs,
	RunE:  runCorrections,
}

func init() {
	correctionsCmd.Flags().StringVar(&correctionsFile, "file", "", "Corrections YAML file (required)")
	_ = correctionsCmd.MarkFlagRequired("file")
}

func runCorrections(cmd *cobra.Command, _ []string) error {
	// a broken list is rejected before touching the store
	entries, err := domain.LoadFile(correctionsFile)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s, err := openSession(ctx, report.CommandCorrections, true)
	if err != nil {
		return err
	}
	s.log.WithField("entries", len(entries)).Info("corrections loaded")

	uc := correction.NewApply(s.store, dryRun, s.rec, s.audit, s.log)
	if err := uc.Execute(ctx, entries); err != nil {
		s.close()
		return err
	}
	return s.finish(context.WithoutCancel(ctx))
}
