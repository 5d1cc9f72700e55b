package report

// ===============================
// Record actions
// ===============================

type Action string

const (
	ActionNormalized     Action = "normalized"
	ActionDuplicate      Action = "duplicate"
	ActionDeleted        Action = "deleted"
	ActionSkippedInvalid Action = "skipped-invalid"
	ActionCorrected      Action = "corrected"
	ActionImported       Action = "imported"
	ActionRejected       Action = "rejected"
	ActionFailed         Action = "failed"
)
