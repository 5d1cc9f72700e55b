package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/booking-cleanup/internal/audit"
	"github.com/BruksfildServices01/booking-cleanup/internal/config"
	dbpkg "github.com/BruksfildServices01/booking-cleanup/internal/db"
	"github.com/BruksfildServices01/booking-cleanup/internal/domain/store"
	"github.com/BruksfildServices01/booking-cleanup/internal/infra/repository"
	"github.com/BruksfildServices01/booking-cleanup/internal/infra/supabase"
	"github.com/BruksfildServices01/booking-cleanup/internal/logging"
	"github.com/BruksfildServices01/booking-cleanup/internal/report"
	"github.com/BruksfildServices01/booking-cleanup/internal/timezone"
)

// session is everything one command invocation needs: config, logger, the
// selected store, the report being built and an optional audit trail.
type session struct {
	cfg   *config.Config
	log   logrus.FieldLogger
	store store.Store
	rec   *report.Recorder
	audit *audit.Dispatcher

	db *gorm.DB
}

// openSession loads config and builds the report. With needStore unset no
// credentials are required and s.store stays nil.
func openSession(ctx context.Context, command string, needStore bool) (*session, error) {
	var paths []string
	if configDir != "" {
		paths = append(paths, configDir)
	}
	cfg, err := config.Load(paths...)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if needStore {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	root := logging.New(cfg.Log)
	runID := uuid.NewString()
	log := root.WithField("run_id", runID).WithField("command", command)

	s := &session{cfg: cfg, log: log}

	rep := report.New(command, runID, dryRun, timezone.NowIn(cfg.Timezone))
	s.rec = report.NewRecorder(os.Stdout, rep)

	if !needStore {
		log.Info("session opened without store")
		return s, nil
	}

	switch cfg.Store.Driver {
	case config.DriverPostgres:
		db, err := dbpkg.NewDB(cfg.Database, root)
		if err != nil {
			return nil, err
		}
		s.db = db
		s.store = repository.NewGormStore(db)
	case config.DriverSupabase:
		client := supabase.NewClient(cfg.Supabase.URL, cfg.Supabase.ServiceKey, cfg.Supabase.Timeout)
		if err := client.Ping(ctx); err != nil {
			return nil, fmt.Errorf("supabase unreachable: %w", err)
		}
		s.store = client
	}

	if cfg.Audit.Enabled && !dryRun {
		s.audit = audit.NewDispatcher(audit.New(s.store, runID), log)
	}

	log.WithField("driver", cfg.Store.Driver).
		WithField("dry_run", dryRun).
		Info("session opened")

	return s, nil
}

// finish prints the summary and, with --json, archives the report. The
// store connection is closed in every case.
func (s *session) finish(ctx context.Context) error {
	defer s.close()

	rep := s.rec.Report
	rep.FinishedAt = timezone.NowIn(s.cfg.Timezone)
	s.rec.Summary()

	if !jsonOut {
		return nil
	}

	sinks := []report.Sink{report.FileSink{Dir: s.cfg.Report.Dir}}
	if s.cfg.ArchivesToS3() {
		s3Sink, err := report.NewS3SinkFromConfig(s.cfg.Report)
		if err != nil {
			return err
		}
		sinks = append(sinks, s3Sink)
	}

	locations, err := report.Archive(ctx, rep, sinks...)
	for _, loc := range locations {
		fmt.Fprintf(os.Stdout, "report written: %s\n", loc)
	}
	if err != nil {
		return fmt.Errorf("archive report: %w", err)
	}
	return nil
}

func (s *session) close() {
	if s.db == nil {
		return
	}
	if err := dbpkg.Close(s.db); err != nil {
		s.log.WithError(err).Warn("failed to close database")
	}
}
