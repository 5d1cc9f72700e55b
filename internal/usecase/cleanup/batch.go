package cleanup

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/BruksfildServices01/booking-cleanup/internal/audit"
	"github.com/BruksfildServices01/booking-cleanup/internal/domain/phone"
	"github.com/BruksfildServices01/booking-cleanup/internal/domain/store"
	"github.com/BruksfildServices01/booking-cleanup/internal/models"
	"github.com/BruksfildServices01/booking-cleanup/internal/report"
)

// PhoneChange rewrites one stored phone to its canonical form.
type PhoneChange struct {
	Table string
	ID    string
	From  string
	To    phone.Canonical
}

// BatchUpdater applies normalization writes and duplicate deletions one
// record at a time. A failed record is reported and skipped; nothing rolls
// back. With dryRun set it reports the same plan and issues no writes.
type BatchUpdater struct {
	store  store.Store
	dryRun bool
	rec    *report.Recorder
	audit  *audit.Dispatcher
	log    logrus.FieldLogger
}

func NewBatchUpdater(
	s store.Store,
	dryRun bool,
	rec *report.Recorder,
	auditor *audit.Dispatcher,
	log logrus.FieldLogger,
) *BatchUpdater {
	return &BatchUpdater{
		store:  s,
		dryRun: dryRun,
		rec:    rec,
		audit:  auditor,
		log:    log,
	}
}

// ======================================================
// Normalizations
// ======================================================

func (u *BatchUpdater) ApplyNormalizations(ctx context.Context, changes []PhoneChange) (report.Counts, error) {
	var counts report.Counts

	for _, ch := range changes {
		if err := ctx.Err(); err != nil {
			return counts, err
		}

		detail := ch.From + " -> " + ch.To.String()

		if !u.dryRun {
			err := u.store.Update(ctx, ch.Table, ch.ID, map[string]any{"phone": ch.To.String()})
			if err != nil {
				counts.Fail()
				u.rec.Fail(ch.Table, ch.ID, "update", err)
				u.log.WithError(err).
					WithField("table", ch.Table).
					WithField("id", ch.ID).
					Warn("phone update failed")
				continue
			}

			u.audit.Dispatch(ctx, audit.Event{
				Action:   audit.ActionPhoneNormalized,
				Entity:   ch.Table,
				EntityID: ch.ID,
				Metadata: map[string]string{
					"from": ch.From,
					"to":   ch.To.String(),
					"e164": phone.E164(ch.To),
				},
			})
		}

		counts.Ok()
		u.rec.Line(ch.Table, ch.ID, report.ActionNormalized, detail)
	}

	return counts, nil
}

// ======================================================
// Deletions
// ======================================================

// ApplyDeletions deletes every booking in toDelete. survivorOf maps a
// deleted id to the id kept in its group, for the report and audit trail.
func (u *BatchUpdater) ApplyDeletions(
	ctx context.Context,
	toDelete []models.Booking,
	survivorOf map[string]string,
) (report.Counts, error) {

	var counts report.Counts

	for _, b := range toDelete {
		if err := ctx.Err(); err != nil {
			return counts, err
		}

		keep := survivorOf[b.ID]

		if !u.dryRun {
			if err := u.store.Delete(ctx, models.TableBookings, b.ID); err != nil {
				counts.Fail()
				u.rec.Fail(models.TableBookings, b.ID, "delete", err)
				u.log.WithError(err).
					WithField("id", b.ID).
					Warn("duplicate delete failed")
				continue
			}

			u.audit.Dispatch(ctx, audit.Event{
				Action:   audit.ActionDuplicateDeleted,
				Entity:   models.TableBookings,
				EntityID: b.ID,
				Metadata: map[string]string{
					"survivor_id": keep,
					"name":        b.Name,
					"phone":       b.Phone,
					"date":        b.Date,
					"time":        b.Time,
				},
			})
		}

		counts.Ok()
		u.rec.Line(models.TableBookings, b.ID, report.ActionDeleted, "kept "+keep)
	}

	return counts, nil
}
