package report

import (
	"fmt"
	"io"

	"github.com/BruksfildServices01/booking-cleanup/internal/apperr"
)

// Recorder writes the per-record console lines and keeps the failure list.
type Recorder struct {
	out    io.Writer
	Report *Report
}

func NewRecorder(out io.Writer, rep *Report) *Recorder {
	return &Recorder{out: out, Report: rep}
}

func (r *Recorder) Line(table, id string, action Action, detail string) {
	if detail == "" {
		fmt.Fprintf(r.out, "%-16s %s/%s\n", action, table, id)
		return
	}
	fmt.Fprintf(r.out, "%-16s %s/%s  %s\n", action, table, id, detail)
}

func (r *Recorder) Fail(table, id, op string, err error) {
	reason := apperr.Reason(err)
	r.Report.Failures = append(r.Report.Failures, Failure{
		Table:  table,
		ID:     id,
		Op:     op,
		Reason: reason,
	})
	r.Line(table, id, ActionFailed, op+": "+reason)
}

// Summary prints the aggregate counts for the run.
func (r *Recorder) Summary() {
	rep := r.Report
	w := r.out

	mode := "live"
	if rep.DryRun {
		mode = "dry-run"
	}
	fmt.Fprintf(w, "\n== %s %s (%s) ==\n", rep.Command, rep.RunID, mode)

	switch rep.Command {
	case CommandCorrections:
		if rep.Corrections != nil {
			fmt.Fprintf(w, "corrections:        %d applied, %d failed\n", rep.Corrections.Succeeded, rep.Corrections.Failed)
		}
	case CommandValidateCSV:
		fmt.Fprintf(w, "csv rows:           %d\n", rep.Rows)
		fmt.Fprintf(w, "rejected rows:      %d\n", rep.Rejected)
		if rep.Imported != nil {
			fmt.Fprintf(w, "imported:           %d (%d failed)\n", rep.Imported.Succeeded, rep.Imported.Failed)
		}
	default:
		fmt.Fprintf(w, "records scanned:    %d\n", rep.Bookings.Scanned)
		fmt.Fprintf(w, "no valid phone:     %d\n", rep.Bookings.InvalidPhones)
		fmt.Fprintf(w, "normalized:         %d (%d failed)\n", rep.Bookings.Normalized.Succeeded, rep.Bookings.Normalized.Failed)
		fmt.Fprintf(w, "duplicate groups:   %d\n", rep.DuplicateGroups)
		fmt.Fprintf(w, "deleted:            %d (%d failed)\n", rep.Deleted.Succeeded, rep.Deleted.Failed)
		if c := rep.Customers; c != nil {
			fmt.Fprintf(w, "customers scanned:  %d\n", c.Scanned)
			fmt.Fprintf(w, "customers invalid:  %d\n", c.InvalidPhones)
			fmt.Fprintf(w, "customers fixed:    %d (%d failed)\n", c.Normalized.Succeeded, c.Normalized.Failed)
		}
	}

	fmt.Fprintf(w, "failed:             %d\n", rep.TotalFailed())
	for _, f := range rep.Failures {
		fmt.Fprintf(w, "  - %s/%s %s: %s\n", f.Table, f.ID, f.Op, f.Reason)
	}
}
