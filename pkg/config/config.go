package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database  DatabaseConfig
	Redis     RedisConfig
	CORS      CORSConfig
	Log       LogConfig
	Scheduler SchedulerConfig
	Exporter  ExporterConfig
	Jobs      JobsConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// SchedulerConfig toggles the constraint-based schedule generator and
// carries the one documented open question from the domain model: how a
// missing day key in an instructor's availability mask should be treated.
type SchedulerConfig struct {
	Enabled     bool
	ProposalTTL time.Duration
	Seed        int64
	RunTimeout  time.Duration

	// AvailabilityMissingDay is "unconstrained" or "unavailable". The spec's
	// recommended, documented default is "unconstrained": a day absent from
	// an instructor's availability mask does not restrict placement.
	AvailabilityMissingDay string

	// ForcedDistribution spreads a multi-hour course's weekly hours across
	// the least-loaded days instead of bunching them on one random day.
	ForcedDistribution bool

	// RectorWideCodes are course-code prefixes treated as rector-wide
	// shared/common courses for variable-ordering priority.
	RectorWideCodes []string

	// SharedCoursePrefixes are course-code prefixes the importer treats as
	// implicitly shared when no explicit shared-course link is declared.
	SharedCoursePrefixes []string
}

// AvailabilityMissingDayUnconstrained resolves the configured string to the
// boolean the oracle package consumes, defaulting to unconstrained for any
// unrecognised value.
func (c SchedulerConfig) AvailabilityMissingDayUnconstrained() bool {
	return c.AvailabilityMissingDay != "unavailable"
}

// ExporterConfig controls where generated spreadsheet/PDF exports are
// written before being served back to the caller.
type ExporterConfig struct {
	StorageDir string
}

// JobsConfig tunes the bounded worker pool that runs scheduling attempts off
// the request path.
type JobsConfig struct {
	Workers    int
	BufferSize int
	MaxRetries int
	RetryDelay time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Scheduler = SchedulerConfig{
		Enabled:                 v.GetBool("ENABLE_SCHEDULER"),
		ProposalTTL:             parseDuration(v.GetString("SCHEDULER_PROPOSAL_TTL"), 30*time.Minute),
		Seed:                    v.GetInt64("SCHEDULER_SEED"),
		RunTimeout:              parseDuration(v.GetString("SCHEDULER_RUN_TIMEOUT"), 2*time.Minute),
		AvailabilityMissingDay:  v.GetString("SCHEDULER_AVAILABILITY_MISSING_DAY"),
		ForcedDistribution:      v.GetBool("SCHEDULER_FORCED_DISTRIBUTION"),
		RectorWideCodes:         splitAndTrim(v.GetString("SCHEDULER_RECTOR_WIDE_CODES")),
		SharedCoursePrefixes:    splitAndTrim(v.GetString("SCHEDULER_SHARED_COURSE_PREFIXES")),
	}

	cfg.Exporter = ExporterConfig{
		StorageDir: v.GetString("EXPORTER_STORAGE_DIR"),
	}

	cfg.Jobs = JobsConfig{
		Workers:    v.GetInt("JOBS_WORKERS"),
		BufferSize: v.GetInt("JOBS_BUFFER_SIZE"),
		MaxRetries: v.GetInt("JOBS_MAX_RETRIES"),
		RetryDelay: parseDuration(v.GetString("JOBS_RETRY_DELAY"), time.Second),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "timetable")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ENABLE_SCHEDULER", true)
	v.SetDefault("SCHEDULER_PROPOSAL_TTL", "30m")
	v.SetDefault("SCHEDULER_SEED", 1)
	v.SetDefault("SCHEDULER_RUN_TIMEOUT", "2m")
	v.SetDefault("SCHEDULER_AVAILABILITY_MISSING_DAY", "unconstrained")
	v.SetDefault("SCHEDULER_FORCED_DISTRIBUTION", true)
	v.SetDefault("SCHEDULER_RECTOR_WIDE_CODES", "TUR,ATA,DIL,ISG,BLM417,BLM426")
	v.SetDefault("SCHEDULER_SHARED_COURSE_PREFIXES", "TUR,ATA,DIL")

	v.SetDefault("EXPORTER_STORAGE_DIR", "./exports")

	v.SetDefault("JOBS_WORKERS", 2)
	v.SetDefault("JOBS_BUFFER_SIZE", 16)
	v.SetDefault("JOBS_MAX_RETRIES", 1)
	v.SetDefault("JOBS_RETRY_DELAY", "2s")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
