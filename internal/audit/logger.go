package audit

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"github.com/BruksfildServices01/booking-cleanup/internal/domain/store"
	"github.com/BruksfildServices01/booking-cleanup/internal/models"
)

// Logger writes cleanup_audit_logs rows through the same store the cleanup
// writes to, so both drivers keep a trail.
type Logger struct {
	store store.Store
	runID string
	now   func() time.Time
}

func New(s store.Store, runID string) *Logger {
	return &Logger{store: s, runID: runID, now: time.Now}
}

func (l *Logger) Log(
	ctx context.Context,
	action string,
	entity string,
	entityID string,
	metadata any,
) error {

	var meta datatypes.JSON
	if metadata != nil {
		if b, err := json.Marshal(metadata); err == nil {
			meta = datatypes.JSON(b)
		}
	}

	return l.store.Insert(ctx, models.TableAuditLogs, map[string]any{
		"run_id":     l.runID,
		"action":     action,
		"entity":     entity,
		"entity_id":  entityID,
		"metadata":   meta,
		"created_at": l.now().UTC(),
	})
}
