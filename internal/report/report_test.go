package report

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_LinesAndSummary(t *testing.T) {
	var buf bytes.Buffer
	rep := New("run", "r1", true, time.Now())
	rec := NewRecorder(&buf, rep)

	rec.Line("bookings", "b1", ActionNormalized, "010-1111-2222 -> 01011112222")
	rep.Bookings.Scanned = 3
	rep.Bookings.Normalized.Ok()
	rep.DuplicateGroups = 1
	rep.Deleted.Ok()
	rec.Fail("bookings", "b3", "delete", errors.New("timeout"))
	rep.Deleted.Fail()
	rec.Summary()

	out := buf.String()
	assert.Contains(t, out, "normalized       bookings/b1  010-1111-2222 -> 01011112222")
	assert.Contains(t, out, "failed           bookings/b3  delete: timeout")
	assert.Contains(t, out, "== run r1 (dry-run) ==")
	assert.Contains(t, out, "records scanned:    3")
	assert.Contains(t, out, "duplicate groups:   1")
	assert.Contains(t, out, "deleted:            1 (1 failed)")
	assert.Contains(t, out, "  - bookings/b3 delete: timeout")
	assert.Equal(t, 1, rep.TotalFailed())
}

func TestReport_JSON(t *testing.T) {
	rep := New("run", "r2", false, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
	rep.Bookings.Scanned = 2

	raw, err := rep.JSON()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "r2", decoded["run_id"])
	assert.Equal(t, []any{}, decoded["failures"])
	assert.NotContains(t, decoded, "customers")
	assert.Equal(t, "run-r2.json", rep.FileName())
}

func TestFileSink(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	rep := New("run", "r3", false, time.Now())

	locs, err := Archive(context.Background(), rep, FileSink{Dir: dir})
	require.NoError(t, err)
	require.Len(t, locs, 1)

	raw, err := os.ReadFile(locs[0])
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"run_id": "r3"`)
}

type fakeS3 struct {
	in   *s3.PutObjectInput
	body []byte
	err  error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.in = in
	f.body, _ = io.ReadAll(in.Body)
	return &s3.PutObjectOutput{}, f.err
}

func TestS3Sink(t *testing.T) {
	fake := &fakeS3{}
	sink := NewS3Sink(fake, "ops-reports", "/cleanup/")

	loc, err := sink.Put(context.Background(), "run-r4.json", []byte(`{}`))
	require.NoError(t, err)

	assert.Equal(t, "s3://ops-reports/cleanup/run-r4.json", loc)
	assert.Equal(t, "ops-reports", aws.ToString(fake.in.Bucket))
	assert.Equal(t, "cleanup/run-r4.json", aws.ToString(fake.in.Key))
	assert.Equal(t, "{}", string(fake.body))
}

func TestArchive_StopsOnError(t *testing.T) {
	failing := NewS3Sink(&fakeS3{err: errors.New("access denied")}, "b", "")
	rep := New("run", "r5", false, time.Now())

	locs, err := Archive(context.Background(), rep, FileSink{Dir: t.TempDir()}, failing)
	require.Error(t, err)
	assert.Len(t, locs, 1)
}
