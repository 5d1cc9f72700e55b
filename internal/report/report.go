package report

import (
	"encoding/json"
	"time"
)

// Counts tracks one kind of write. In a dry run Succeeded counts the writes
// that would have been issued.
type Counts struct {
	Attempted int `json:"attempted"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

func (c *Counts) Ok() {
	c.Attempted++
	c.Succeeded++
}

func (c *Counts) Fail() {
	c.Attempted++
	c.Failed++
}

const (
	CommandRun         = "run"
	CommandCorrections = "corrections"
	CommandValidateCSV = "validate-csv"
)

type Failure struct {
	Table  string `json:"table"`
	ID     string `json:"id"`
	Op     string `json:"op"`
	Reason string `json:"reason"`
}

type TableSummary struct {
	Scanned       int    `json:"scanned"`
	InvalidPhones int    `json:"invalid_phones"`
	Normalized    Counts `json:"normalized"`
}

type Report struct {
	Command    string    `json:"command"`
	RunID      string    `json:"run_id"`
	DryRun     bool      `json:"dry_run"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	Bookings        TableSummary  `json:"bookings"`
	DuplicateGroups int           `json:"duplicate_groups"`
	Deleted         Counts        `json:"deleted"`
	Customers       *TableSummary `json:"customers,omitempty"`

	Corrections *Counts `json:"corrections,omitempty"`

	Rows     int     `json:"csv_rows,omitempty"`
	Rejected int     `json:"csv_rejected,omitempty"`
	Imported *Counts `json:"imported,omitempty"`

	Failures []Failure `json:"failures"`
}

func New(command, runID string, dryRun bool, startedAt time.Time) *Report {
	return &Report{
		Command:   command,
		RunID:     runID,
		DryRun:    dryRun,
		StartedAt: startedAt,
		Failures:  []Failure{},
	}
}

// TotalFailed sums failures across every section.
func (r *Report) TotalFailed() int {
	return len(r.Failures)
}

func (r *Report) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

func (r *Report) FileName() string {
	return r.Command + "-" + r.RunID + ".json"
}
