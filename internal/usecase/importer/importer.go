package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/BruksfildServices01/booking-cleanup/internal/apperr"
	"github.com/BruksfildServices01/booking-cleanup/internal/audit"
	"github.com/BruksfildServices01/booking-cleanup/internal/domain/booking"
	"github.com/BruksfildServices01/booking-cleanup/internal/domain/phone"
	"github.com/BruksfildServices01/booking-cleanup/internal/domain/store"
	"github.com/BruksfildServices01/booking-cleanup/internal/models"
	"github.com/BruksfildServices01/booking-cleanup/internal/report"
	"github.com/BruksfildServices01/booking-cleanup/internal/validators"
)

// source name used for rejected lines in the console report
const csvSource = "csv"

var requiredColumns = []string{"name", "phone", "date", "time"}

type Input struct {
	Path   string
	Import bool
	DryRun bool
}

// Importer validates a bookings CSV and optionally inserts the clean rows.
type Importer struct {
	store store.Store
	rec   *report.Recorder
	audit *audit.Dispatcher
	log   logrus.FieldLogger
	newID func() string
	now   func() time.Time
}

func New(
	s store.Store,
	rec *report.Recorder,
	auditor *audit.Dispatcher,
	log logrus.FieldLogger,
) *Importer {
	return &Importer{
		store: s,
		rec:   rec,
		audit: auditor,
		log:   log,
		newID: uuid.NewString,
		now:   time.Now,
	}
}

type row struct {
	line  int
	clean validators.CleanBooking
}

func (uc *Importer) Execute(ctx context.Context, in Input) error {
	f, err := os.Open(in.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	rows, err := uc.validate(ctx, f, in.Import)
	if err != nil {
		return err
	}

	if !in.Import {
		return nil
	}
	return uc.insert(ctx, rows, in.DryRun)
}

// ======================================================
// Validation
// ======================================================

func (uc *Importer) validate(ctx context.Context, r io.Reader, againstStore bool) ([]row, error) {
	rep := uc.rec.Report

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, apperr.Errorf(apperr.CodeInvalidCSV, "file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	// chaves já existentes no banco
	booked := map[string]string{}
	if againstStore {
		var existing []models.Booking
		if err := uc.store.Select(ctx, models.TableBookings, store.Filter{}, &existing); err != nil {
			return nil, fmt.Errorf("load bookings: %w", err)
		}
		for _, b := range existing {
			if p, ok := phone.Normalize(b.Phone); ok {
				booked[booking.Key(p, b.Date, b.Time)] = b.ID
			}
		}
	}

	seen := map[string]int{}
	var valid []row

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		line, _ := reader.FieldPos(0)
		if blank(record) {
			continue
		}
		rep.Rows++

		clean, issues := validators.ValidateBookingRow(validators.BookingRow{
			Name:    field(record, cols, "name"),
			Phone:   field(record, cols, "phone"),
			Date:    field(record, cols, "date"),
			Time:    field(record, cols, "time"),
			Service: field(record, cols, "service"),
		})

		if len(issues) == 0 {
			key := booking.Key(clean.Phone, clean.Date, clean.Time)
			if first, dup := seen[key]; dup {
				issues = append(issues, validators.Issue{Code: validators.IssueDuplicate, Detail: "line " + strconv.Itoa(first)})
			} else if id, ok := booked[key]; ok {
				issues = append(issues, validators.Issue{Code: validators.IssueAlreadyBooked, Detail: id})
			} else {
				seen[key] = line
			}
		}

		if len(issues) > 0 {
			rep.Rejected++
			uc.rec.Line(csvSource, strconv.Itoa(line), report.ActionRejected, joinIssues(issues))
			continue
		}
		valid = append(valid, row{line: line, clean: clean})
	}

	uc.log.WithField("rows", rep.Rows).
		WithField("rejected", rep.Rejected).
		Info("csv validated")

	return valid, nil
}

func columnIndex(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimPrefix(h, "\ufeff")
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}

	var missing []string
	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, apperr.Errorf(apperr.CodeInvalidCSV, "missing columns: %s", strings.Join(missing, ", "))
	}
	return cols, nil
}

func field(record []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(record) {
		return ""
	}
	return record[i]
}

func blank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func joinIssues(issues []validators.Issue) string {
	parts := make([]string, len(issues))
	for i, is := range issues {
		parts[i] = is.String()
	}
	return strings.Join(parts, "; ")
}

// ======================================================
// Import
// ======================================================

func (uc *Importer) insert(ctx context.Context, rows []row, dryRun bool) error {
	counts := &report.Counts{}
	uc.rec.Report.Imported = counts

	for _, r := range rows {
		if err := ctx.Err(); err != nil {
			return err
		}

		id := uc.newID()
		if !dryRun {
			err := uc.store.Insert(ctx, models.TableBookings, map[string]any{
				"id":           id,
				"name":         r.clean.Name,
				"phone":        r.clean.Phone.String(),
				"date":         r.clean.Date,
				"time":         r.clean.Time,
				"service":      r.clean.Service,
				"status":       "scheduled",
				"needs_review": false,
				"created_at":   uc.now().UTC(),
			})
			if err != nil {
				counts.Fail()
				uc.rec.Fail(models.TableBookings, id, "insert", err)
				uc.log.WithError(err).WithField("line", r.line).Warn("booking import failed")
				continue
			}

			uc.audit.Dispatch(ctx, audit.Event{
				Action:   audit.ActionImported,
				Entity:   models.TableBookings,
				EntityID: id,
				Metadata: map[string]any{"line": r.line, "phone": r.clean.Phone.String()},
			})
		}

		counts.Ok()
		uc.rec.Line(models.TableBookings, id, report.ActionImported, "line "+strconv.Itoa(r.line))
	}

	return nil
}
