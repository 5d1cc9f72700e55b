package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/booking-cleanup/internal/apperr"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, env := range envAliases {
		t.Setenv(env, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.Store.Driver)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "Asia/Seoul", cfg.Timezone)
	assert.Equal(t, 25*time.Second, cfg.Supabase.Timeout)
	assert.True(t, cfg.Audit.Enabled)
	assert.False(t, cfg.ArchivesToS3())
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	yaml := `
store:
  driver: Supabase
supabase:
  url: https://example.supabase.co
  service_key: from-yaml
log:
  level: debug
report:
  s3_bucket: ops-reports
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))
	t.Setenv("SUPABASE_SERVICE_ROLE_KEY", "from-env")

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, DriverSupabase, cfg.Store.Driver)
	assert.Equal(t, "https://example.supabase.co", cfg.Supabase.URL)
	assert.Equal(t, "from-env", cfg.Supabase.ServiceKey)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.ArchivesToS3())
	require.NoError(t, cfg.Validate())
}

func TestValidate_MissingCredentials(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
	}{
		{"postgres without dsn", Config{Store: StoreConfig{Driver: DriverPostgres}}},
		{"supabase without key", Config{Store: StoreConfig{Driver: DriverSupabase}, Supabase: SupabaseConfig{URL: "https://x"}}},
		{"unknown driver", Config{Store: StoreConfig{Driver: "mysql"}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			require.Error(t, err)
			assert.True(t, apperr.Is(err, apperr.CodeMissingCredentials))
		})
	}
}

func TestValidate_Postgres(t *testing.T) {
	cfg := Config{
		Store:    StoreConfig{Driver: DriverPostgres},
		Database: DatabaseConfig{DSN: "postgres://u:p@localhost:5432/golf?sslmode=disable"},
	}
	assert.NoError(t, cfg.Validate())
}
