package cleanup

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/BruksfildServices01/booking-cleanup/internal/audit"
	"github.com/BruksfildServices01/booking-cleanup/internal/domain/booking"
	"github.com/BruksfildServices01/booking-cleanup/internal/domain/phone"
	"github.com/BruksfildServices01/booking-cleanup/internal/domain/store"
	"github.com/BruksfildServices01/booking-cleanup/internal/models"
	"github.com/BruksfildServices01/booking-cleanup/internal/report"
)

// ======================================================
// INPUT
// ======================================================

type RunInput struct {
	DryRun    bool
	Customers bool
}

// ======================================================
// USE CASE
// ======================================================

// Run normalizes booking phones, removes duplicate bookings and optionally
// normalizes customer phones. Per-record failures end up in the report;
// only a failed load or a cancelled context is returned as an error.
type Run struct {
	store store.Store
	rec   *report.Recorder
	audit *audit.Dispatcher
	log   logrus.FieldLogger
}

func NewRun(
	s store.Store,
	rec *report.Recorder,
	auditor *audit.Dispatcher,
	log logrus.FieldLogger,
) *Run {
	return &Run{
		store: s,
		rec:   rec,
		audit: auditor,
		log:   log,
	}
}

func (uc *Run) Execute(ctx context.Context, in RunInput) error {
	rep := uc.rec.Report
	rep.DryRun = in.DryRun

	updater := NewBatchUpdater(uc.store, in.DryRun, uc.rec, uc.audit, uc.log)

	// --------------------------------------------------
	// Carga
	// --------------------------------------------------
	var bookings []models.Booking
	if err := uc.store.Select(ctx, models.TableBookings, store.Filter{}, &bookings); err != nil {
		return fmt.Errorf("load bookings: %w", err)
	}
	rep.Bookings.Scanned = len(bookings)
	uc.log.WithField("count", len(bookings)).Info("bookings loaded")

	// --------------------------------------------------
	// Normalização de telefone
	// --------------------------------------------------
	changes, invalid := uc.planPhones(models.TableBookings, bookingPhones(bookings))
	rep.Bookings.InvalidPhones = invalid

	counts, err := updater.ApplyNormalizations(ctx, changes)
	rep.Bookings.Normalized = counts
	if err != nil {
		return err
	}

	// --------------------------------------------------
	// Duplicados (phone + date + time)
	// --------------------------------------------------
	plan := booking.Resolve(bookings)
	rep.DuplicateGroups = len(plan.Groups)

	survivorOf := make(map[string]string, len(plan.ToDelete))
	for _, g := range plan.Groups {
		keep := g.Survivor().ID
		for _, loser := range g.Losers() {
			survivorOf[loser.ID] = keep
			uc.rec.Line(models.TableBookings, loser.ID, report.ActionDuplicate,
				fmt.Sprintf("same as %s (%s %s %s)", keep, g.Phone, loser.Date, loser.Time))
		}
	}

	counts, err = updater.ApplyDeletions(ctx, plan.ToDelete, survivorOf)
	rep.Deleted = counts
	if err != nil {
		return err
	}

	// --------------------------------------------------
	// Clientes (opcional)
	// --------------------------------------------------
	if in.Customers {
		if err := uc.customers(ctx, updater); err != nil {
			return err
		}
	}

	return nil
}

func (uc *Run) customers(ctx context.Context, updater *BatchUpdater) error {
	var customers []models.Customer
	if err := uc.store.Select(ctx, models.TableCustomers, store.Filter{}, &customers); err != nil {
		return fmt.Errorf("load customers: %w", err)
	}

	summary := &report.TableSummary{Scanned: len(customers)}
	uc.rec.Report.Customers = summary

	records := make([]phoneRecord, len(customers))
	for i, c := range customers {
		records[i] = phoneRecord{ID: c.ID, Phone: c.Phone}
	}

	changes, invalid := uc.planPhones(models.TableCustomers, records)
	summary.InvalidPhones = invalid

	counts, err := updater.ApplyNormalizations(ctx, changes)
	summary.Normalized = counts
	return err
}

type phoneRecord struct {
	ID    string
	Phone string
}

func bookingPhones(bookings []models.Booking) []phoneRecord {
	out := make([]phoneRecord, len(bookings))
	for i, b := range bookings {
		out[i] = phoneRecord{ID: b.ID, Phone: b.Phone}
	}
	return out
}

// planPhones returns the rewrites needed for a table and reports records
// whose phone cannot be canonicalized.
func (uc *Run) planPhones(table string, records []phoneRecord) ([]PhoneChange, int) {
	var changes []PhoneChange
	invalid := 0

	for _, r := range records {
		canonical, ok := phone.Normalize(r.Phone)
		if !ok {
			invalid++
			uc.rec.Line(table, r.ID, report.ActionSkippedInvalid,
				fmt.Sprintf("no valid phone (%s) %q", phone.Classify(r.Phone), r.Phone))
			continue
		}
		if canonical.String() == r.Phone {
			continue
		}
		changes = append(changes, PhoneChange{
			Table: table,
			ID:    r.ID,
			From:  r.Phone,
			To:    canonical,
		})
	}

	return changes, invalid
}
