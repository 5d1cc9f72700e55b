package audit

import (
	"context"

	"github.com/sirupsen/logrus"
)

const (
	ActionPhoneNormalized  = "phone_normalized"
	ActionDuplicateDeleted = "duplicate_deleted"
	ActionCorrection       = "correction_applied"
	ActionImported         = "booking_imported"
)

type Event struct {
	Action   string
	Entity   string
	EntityID string
	Metadata any
}

// Dispatcher records events after a successful write. A failed audit insert
// is logged and dropped: it never turns a successful write into a failure.
type Dispatcher struct {
	logger *Logger
	log    logrus.FieldLogger
}

func NewDispatcher(logger *Logger, log logrus.FieldLogger) *Dispatcher {
	return &Dispatcher{logger: logger, log: log}
}

func (d *Dispatcher) Dispatch(ctx context.Context, ev Event) {
	if d == nil || d.logger == nil {
		return
	}
	if err := d.logger.Log(ctx, ev.Action, ev.Entity, ev.EntityID, ev.Metadata); err != nil {
		d.log.WithError(err).
			WithField("action", ev.Action).
			WithField("id", ev.EntityID).
			Warn("audit write failed, dropping event")
	}
}
