package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/BruksfildServices01/booking-cleanup/internal/apperr"
)

const (
	DriverPostgres = "postgres"
	DriverSupabase = "supabase"
)

type Config struct {
	Store    StoreConfig    `mapstructure:"store"`
	Database DatabaseConfig `mapstructure:"database"`
	Supabase SupabaseConfig `mapstructure:"supabase"`
	Log      LogConfig      `mapstructure:"log"`
	Report   ReportConfig   `mapstructure:"report"`
	Audit    AuditConfig    `mapstructure:"audit"`
	Timezone string         `mapstructure:"timezone"`
}

type StoreConfig struct {
	Driver string `mapstructure:"driver"`
}

type DatabaseConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

type SupabaseConfig struct {
	URL        string        `mapstructure:"url"`
	ServiceKey string        `mapstructure:"service_key"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type ReportConfig struct {
	Dir      string `mapstructure:"dir"`
	S3Bucket string `mapstructure:"s3_bucket"`
	S3Region string `mapstructure:"s3_region"`
	S3Prefix string `mapstructure:"s3_prefix"`

	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	SessionToken    string `mapstructure:"session_token"`
}

type AuditConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// env names that don't follow the section_key convention
var envAliases = map[string]string{
	"store.driver":             "STORE_DRIVER",
	"database.dsn":             "DATABASE_URL",
	"supabase.url":             "SUPABASE_URL",
	"supabase.service_key":     "SUPABASE_SERVICE_ROLE_KEY",
	"log.level":                "LOG_LEVEL",
	"log.format":               "LOG_FORMAT",
	"report.dir":               "REPORT_DIR",
	"report.s3_bucket":         "REPORT_S3_BUCKET",
	"report.s3_region":         "AWS_REGION",
	"report.s3_prefix":         "REPORT_S3_PREFIX",
	"report.access_key_id":     "AWS_ACCESS_KEY_ID",
	"report.secret_access_key": "AWS_SECRET_ACCESS_KEY",
	"report.session_token":     "AWS_SESSION_TOKEN",
	"audit.enabled":            "AUDIT_ENABLED",
	"timezone":                 "TIMEZONE",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("store.driver", DriverPostgres)
	v.SetDefault("database.max_open_conns", 5)
	v.SetDefault("database.max_idle_conns", 2)
	v.SetDefault("database.conn_max_lifetime", 30*time.Minute)
	v.SetDefault("database.auto_migrate", false)
	v.SetDefault("supabase.timeout", 25*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("report.dir", "reports")
	v.SetDefault("report.s3_prefix", "cleanup")
	v.SetDefault("report.s3_region", "ap-northeast-2")
	v.SetDefault("audit.enabled", true)
	v.SetDefault("timezone", "Asia/Seoul")
}

// Load reads .env (if present), an optional config/config.yaml and the
// environment, env winning. It does not validate credentials; see Validate.
func Load(configPaths ...string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(configPaths) == 0 {
		configPaths = []string{"./config", "."}
	}
	for _, p := range configPaths {
		v.AddConfigPath(p)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range envAliases {
		if err := v.BindEnv(key, env); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.Store.Driver = strings.ToLower(strings.TrimSpace(cfg.Store.Driver))
	return &cfg, nil
}

// Validate checks the credentials of the selected store. Nothing can run
// without them, so callers abort on error.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverPostgres:
		if c.Database.DSN == "" {
			return apperr.Errorf(apperr.CodeMissingCredentials, "DATABASE_URL is required for the postgres driver")
		}
	case DriverSupabase:
		var missing []string
		if c.Supabase.URL == "" {
			missing = append(missing, "SUPABASE_URL")
		}
		if c.Supabase.ServiceKey == "" {
			missing = append(missing, "SUPABASE_SERVICE_ROLE_KEY")
		}
		if len(missing) > 0 {
			return apperr.Errorf(apperr.CodeMissingCredentials, "%s required for the supabase driver", strings.Join(missing, ", "))
		}
	default:
		return apperr.Errorf(apperr.CodeMissingCredentials, "unknown store driver %q", c.Store.Driver)
	}
	return nil
}

func (c *Config) ArchivesToS3() bool {
	return c.Report.S3Bucket != ""
}
