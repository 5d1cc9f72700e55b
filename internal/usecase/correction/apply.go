package correction

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/BruksfildServices01/booking-cleanup/internal/audit"
	domain "github.com/BruksfildServices01/booking-cleanup/internal/domain/correction"
	"github.com/BruksfildServices01/booking-cleanup/internal/domain/store"
	"github.com/BruksfildServices01/booking-cleanup/internal/report"
)

// Apply runs a correction list entry by entry. A failed entry is reported
// and the rest still run.
type Apply struct {
	store  store.Store
	dryRun bool
	rec    *report.Recorder
	audit  *audit.Dispatcher
	log    logrus.FieldLogger
	newID  func() string
}

func NewApply(
	s store.Store,
	dryRun bool,
	rec *report.Recorder,
	auditor *audit.Dispatcher,
	log logrus.FieldLogger,
) *Apply {
	return &Apply{
		store:  s,
		dryRun: dryRun,
		rec:    rec,
		audit:  auditor,
		log:    log,
		newID:  uuid.NewString,
	}
}

func (uc *Apply) Execute(ctx context.Context, entries []domain.Correction) error {
	counts := &report.Counts{}
	uc.rec.Report.Corrections = counts

	for _, c := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}

		table, id := c.Target()
		detail, err := uc.dispatch(ctx, c)
		if err != nil {
			counts.Fail()
			uc.rec.Fail(table, id, c.Kind(), err)
			uc.log.WithError(err).
				WithField("kind", c.Kind()).
				WithField("id", id).
				Warn("correction failed")
			continue
		}

		counts.Ok()
		uc.rec.Line(table, id, report.ActionCorrected, c.Kind()+": "+detail)
	}

	return nil
}

// dispatch is the single place that knows every variant.
func (uc *Apply) dispatch(ctx context.Context, c domain.Correction) (string, error) {
	switch c := c.(type) {
	case domain.Rename:
		return uc.update(ctx, c.Kind(), c.Table, c.ID, map[string]any{"name": c.Name},
			fmt.Sprintf("name = %q", c.Name))

	case domain.ForceFlag:
		return uc.update(ctx, c.Kind(), c.Table, c.ID, map[string]any{c.Flag: c.Value},
			fmt.Sprintf("%s = %t", c.Flag, c.Value))

	case domain.Split:
		return uc.split(ctx, c)

	case domain.Delete:
		return uc.delete(ctx, c)

	default:
		return "", fmt.Errorf("unhandled correction %T", c)
	}
}

func (uc *Apply) update(ctx context.Context, kind, table, id string, fields map[string]any, detail string) (string, error) {
	if uc.dryRun {
		return detail, nil
	}
	if err := uc.store.Update(ctx, table, id, fields); err != nil {
		return "", err
	}
	uc.audit.Dispatch(ctx, audit.Event{
		Action:   audit.ActionCorrection,
		Entity:   table,
		EntityID: id,
		Metadata: map[string]any{"kind": kind, "fields": fields},
	})
	return detail, nil
}

// split copies the original row once per part, then removes the original.
// The original survives if any insert fails.
func (uc *Apply) split(ctx context.Context, c domain.Split) (string, error) {
	var rows []map[string]any
	if err := uc.store.Select(ctx, c.Table, store.Filter{Eq: map[string]any{"id": c.ID}}, &rows); err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return "", fmt.Errorf("split %s/%s: %w", c.Table, c.ID, store.ErrNotFound)
	}
	original := rows[0]

	newIDs := make([]string, 0, len(c.Into))
	for _, part := range c.Into {
		row := make(map[string]any, len(original))
		for k, v := range original {
			row[k] = v
		}
		for k, v := range part.Fields() {
			row[k] = v
		}
		id := uc.newID()
		row["id"] = id

		if !uc.dryRun {
			if err := uc.store.Insert(ctx, c.Table, row); err != nil {
				if len(newIDs) > 0 {
					return "", fmt.Errorf("inserted %s before failing: %w", strings.Join(newIDs, ","), err)
				}
				return "", err
			}
		}
		newIDs = append(newIDs, id)
	}

	if !uc.dryRun {
		if err := uc.store.Delete(ctx, c.Table, c.ID); err != nil {
			return "", fmt.Errorf("inserted %s, original kept: %w", strings.Join(newIDs, ","), err)
		}
		uc.audit.Dispatch(ctx, audit.Event{
			Action:   audit.ActionCorrection,
			Entity:   c.Table,
			EntityID: c.ID,
			Metadata: map[string]any{"kind": c.Kind(), "into": newIDs},
		})
	}

	return "into " + strings.Join(newIDs, ","), nil
}

func (uc *Apply) delete(ctx context.Context, c domain.Delete) (string, error) {
	if uc.dryRun {
		return fmt.Sprintf("%d ids", len(c.IDs)), nil
	}

	n, err := uc.store.DeleteIn(ctx, c.Table, "id", c.IDs)
	if err != nil {
		return "", err
	}
	uc.audit.Dispatch(ctx, audit.Event{
		Action:   audit.ActionCorrection,
		Entity:   c.Table,
		EntityID: strings.Join(c.IDs, ","),
		Metadata: map[string]any{"kind": c.Kind(), "ids": c.IDs, "deleted": n},
	})
	return fmt.Sprintf("%d of %d ids removed", n, len(c.IDs)), nil
}
