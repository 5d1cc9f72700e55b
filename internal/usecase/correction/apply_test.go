package correction

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/booking-cleanup/internal/audit"
	domain "github.com/BruksfildServices01/booking-cleanup/internal/domain/correction"
	"github.com/BruksfildServices01/booking-cleanup/internal/domain/store/storetest"
	"github.com/BruksfildServices01/booking-cleanup/internal/models"
	"github.com/BruksfildServices01/booking-cleanup/internal/report"
)

func seed() *storetest.Memory {
	mem := storetest.NewMemory()
	mem.Seed(models.TableCustomers,
		models.Customer{ID: "c1", Name: "kim  minsu", Phone: "01011112222"},
		models.Customer{ID: "c2", Name: "Park", Phone: "01022223333", MarketingConsent: true},
		models.Customer{ID: "c3", Name: "Lee Jiwoo / Lee Jisoo", Phone: "01033334444", Email: "lee@example.com"},
	)
	mem.Seed(models.TableBookings,
		models.Booking{ID: "b1", Phone: "01011112222"},
		models.Booking{ID: "b2", Phone: "01011112222"},
		models.Booking{ID: "b3", Phone: "01011112222"},
	)
	return mem
}

var entries = []domain.Correction{
	domain.Rename{Table: models.TableCustomers, ID: "c1", Name: "Kim Minsu"},
	domain.ForceFlag{Table: models.TableCustomers, ID: "c2", Flag: "marketing_consent", Value: false},
	domain.Split{Table: models.TableCustomers, ID: "c3", Into: []domain.Part{
		{Name: "Lee Jiwoo"},
		{Name: "Lee Jisoo", Phone: "+82 10 5555 6666", Email: "jisoo@example.com"},
	}},
	domain.Delete{Table: models.TableBookings, IDs: []string{"b1", "b2"}},
}

func newApply(mem *storetest.Memory, dryRun bool, d *audit.Dispatcher) (*Apply, *report.Report, *bytes.Buffer) {
	out := &bytes.Buffer{}
	rep := report.New("corrections", "r-1", dryRun, time.Now())
	log := logrus.New()
	log.SetOutput(io.Discard)

	uc := NewApply(mem, dryRun, report.NewRecorder(out, rep), d, log)
	n := 0
	uc.newID = func() string {
		n++
		return fmt.Sprintf("new-%d", n)
	}
	return uc, rep, out
}

func TestApply_AllVariants(t *testing.T) {
	mem := seed()
	uc, rep, out := newApply(mem, false, nil)

	require.NoError(t, uc.Execute(context.Background(), entries))
	assert.Equal(t, &report.Counts{Attempted: 4, Succeeded: 4}, rep.Corrections)

	c1, _ := mem.Row(models.TableCustomers, "c1")
	assert.Equal(t, "Kim Minsu", c1["name"])

	c2, _ := mem.Row(models.TableCustomers, "c2")
	assert.Equal(t, false, c2["marketing_consent"])

	_, ok := mem.Row(models.TableCustomers, "c3")
	assert.False(t, ok, "split original is removed")

	first, ok := mem.Row(models.TableCustomers, "new-1")
	require.True(t, ok)
	assert.Equal(t, "Lee Jiwoo", first["name"])
	assert.Equal(t, "01033334444", first["phone"])
	assert.Equal(t, "lee@example.com", first["email"])

	second, ok := mem.Row(models.TableCustomers, "new-2")
	require.True(t, ok)
	assert.Equal(t, "01055556666", second["phone"])
	assert.Equal(t, "jisoo@example.com", second["email"])

	assert.Len(t, mem.Rows(models.TableBookings), 1)
	assert.Contains(t, out.String(), "corrected        bookings/b1,b2  delete: 2 of 2 ids removed")
}

func TestApply_DryRun(t *testing.T) {
	mem := seed()
	uc, rep, _ := newApply(mem, true, nil)

	require.NoError(t, uc.Execute(context.Background(), entries))

	assert.Equal(t, &report.Counts{Attempted: 4, Succeeded: 4}, rep.Corrections)
	assert.Zero(t, mem.Writes())
}

func TestApply_FailureIsIsolated(t *testing.T) {
	mem := seed()
	mem.Fail["update:customers:c1"] = errors.New("permission denied for table customers")
	uc, rep, _ := newApply(mem, false, nil)

	require.NoError(t, uc.Execute(context.Background(), entries))

	assert.Equal(t, &report.Counts{Attempted: 4, Succeeded: 3, Failed: 1}, rep.Corrections)
	require.Len(t, rep.Failures, 1)
	assert.Equal(t, "rename", rep.Failures[0].Op)

	c2, _ := mem.Row(models.TableCustomers, "c2")
	assert.Equal(t, false, c2["marketing_consent"])
}

func TestApply_SplitKeepsOriginalWhenInsertFails(t *testing.T) {
	mem := seed()
	mem.Fail["insert:customers:new-2"] = errors.New("duplicate key")
	uc, rep, _ := newApply(mem, false, nil)

	require.NoError(t, uc.Execute(context.Background(), entries[2:3]))

	assert.Equal(t, 1, rep.Corrections.Failed)
	_, ok := mem.Row(models.TableCustomers, "c3")
	assert.True(t, ok)
	assert.Contains(t, rep.Failures[0].Reason, "inserted new-1 before failing")
}

func TestApply_SplitMissingOriginal(t *testing.T) {
	mem := storetest.NewMemory()
	uc, rep, _ := newApply(mem, false, nil)

	require.NoError(t, uc.Execute(context.Background(), entries[2:3]))

	assert.Equal(t, 1, rep.Corrections.Failed)
	assert.Contains(t, rep.Failures[0].Reason, "not found")
}

func TestApply_AuditsEachEntry(t *testing.T) {
	mem := seed()
	log := logrus.New()
	log.SetOutput(io.Discard)
	uc, _, _ := newApply(mem, false, audit.NewDispatcher(audit.New(mem, "r-1"), log))

	require.NoError(t, uc.Execute(context.Background(), entries))

	rows := mem.Rows(models.TableAuditLogs)
	require.Len(t, rows, 4)
	for _, r := range rows {
		assert.Equal(t, audit.ActionCorrection, r["action"])
	}
}
