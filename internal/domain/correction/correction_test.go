package correction

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/booking-cleanup/internal/apperr"
)

const sample = `
version: 1
corrections:
  - kind: rename
    table: customers
    id: c1
    name: Kim Minsu
  - kind: force_flag
    table: customers
    id: c2
    flag: marketing_consent
    value: false
  - kind: split
    table: customers
    id: c3
    into:
      - name: Lee Jiwoo
        phone: 010-1111-2222
      - name: Lee Jisoo
        phone: "+82 10 3333 4444"
        email: jisoo@example.com
  - kind: delete
    table: bookings
    ids: [b1, b2]
`

func TestLoad_AllVariants(t *testing.T) {
	got, err := Load(strings.NewReader(sample))
	require.NoError(t, err)

	want := []Correction{
		Rename{Table: "customers", ID: "c1", Name: "Kim Minsu"},
		ForceFlag{Table: "customers", ID: "c2", Flag: "marketing_consent", Value: false},
		Split{Table: "customers", ID: "c3", Into: []Part{
			{Name: "Lee Jiwoo", Phone: "010-1111-2222"},
			{Name: "Lee Jisoo", Phone: "+82 10 3333 4444", Email: "jisoo@example.com"},
		}},
		Delete{Table: "bookings", IDs: []string{"b1", "b2"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Load mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_Rejects(t *testing.T) {
	cases := map[string]string{
		"unknown kind": `
corrections:
  - kind: merge
    table: customers
    id: c1`,
		"flag not allowed": `
corrections:
  - kind: force_flag
    table: bookings
    id: b1
    flag: marketing_consent
    value: true`,
		"unknown table": `
corrections:
  - kind: rename
    table: users
    id: u1
    name: x`,
		"split with one part": `
corrections:
  - kind: split
    table: customers
    id: c1
    into:
      - name: only`,
		"split phone invalid": `
corrections:
  - kind: split
    table: customers
    id: c1
    into:
      - phone: "02-312-3456"
      - phone: "01011112222"`,
		"email on booking": `
corrections:
  - kind: split
    table: bookings
    id: b1
    into:
      - email: a@b.co
      - name: x`,
		"split bad email": `
corrections:
  - kind: split
    table: customers
    id: c1
    into:
      - email: not-an-email
      - name: x`,
		"delete without ids": `
corrections:
  - kind: delete
    table: bookings`,
		"rename without name": `
corrections:
  - kind: rename
    table: customers
    id: c1`,
	}

	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(strings.NewReader(doc))
			require.Error(t, err)
			assert.True(t, apperr.Is(err, apperr.CodeInvalidCorrection), "got %v", err)
		})
	}
}

func TestLoad_ErrorNamesEntry(t *testing.T) {
	doc := `
corrections:
  - kind: rename
    table: customers
    id: c1
    name: ok
  - kind: nope
`
	_, err := Load(strings.NewReader(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "entry 1")
}

func TestLoad_EmptyFile(t *testing.T) {
	got, err := Load(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrections.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	got, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, got, 4)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestPart_Fields(t *testing.T) {
	p := Part{Name: "Lee", Phone: "+82 10 3333 4444"}
	assert.Equal(t, map[string]any{"name": "Lee", "phone": "01033334444"}, p.Fields())
	assert.Empty(t, Part{}.Fields())
}

func TestTarget(t *testing.T) {
	table, id := Delete{Table: "bookings", IDs: []string{"a", "b"}}.Target()
	assert.Equal(t, "bookings", table)
	assert.Equal(t, "a,b", id)
}
