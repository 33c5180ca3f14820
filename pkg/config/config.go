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

	Database DatabaseConfig
	Redis    RedisConfig
	CORS     CORSConfig
	Log      LogConfig
	AntiSpam AntiSpamConfig
	Survey   SurveyConfig
	Reports  ReportsConfig
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

// AntiSpamConfig governs the duplicate-submission guard. DevBypass disables
// the guard entirely and must never be set in production.
type AntiSpamConfig struct {
	Window    time.Duration
	DevBypass bool
}

// SurveyConfig carries answer validation limits and the completion time clamp
// applied before a submission is persisted.
type SurveyConfig struct {
	MaxTextLength        int
	ScaleMin             float64
	ScaleMax             float64
	MinCompletionSeconds int
	MaxCompletionSeconds int
}

// ReportsConfig toggles the aggregate report endpoints and their cache.
type ReportsConfig struct {
	Enabled  bool
	CacheTTL time.Duration
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

	cfg.AntiSpam = AntiSpamConfig{
		Window:    parseDuration(v.GetString("ANTISPAM_WINDOW"), 24*time.Hour),
		DevBypass: v.GetBool("ANTISPAM_DEV_BYPASS"),
	}

	cfg.Survey = SurveyConfig{
		MaxTextLength:        v.GetInt("SURVEY_MAX_TEXT_LENGTH"),
		ScaleMin:             v.GetFloat64("SURVEY_SCALE_MIN"),
		ScaleMax:             v.GetFloat64("SURVEY_SCALE_MAX"),
		MinCompletionSeconds: v.GetInt("SURVEY_MIN_COMPLETION_SECONDS"),
		MaxCompletionSeconds: v.GetInt("SURVEY_MAX_COMPLETION_SECONDS"),
	}

	cfg.Reports = ReportsConfig{
		Enabled:  v.GetBool("ENABLE_REPORTS"),
		CacheTTL: parseDuration(v.GetString("REPORTS_CACHE_TTL"), 10*time.Minute),
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
	v.SetDefault("DB_NAME", "course_eval")
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

	v.SetDefault("ANTISPAM_WINDOW", "24h")
	v.SetDefault("ANTISPAM_DEV_BYPASS", false)

	v.SetDefault("SURVEY_MAX_TEXT_LENGTH", 500)
	v.SetDefault("SURVEY_SCALE_MIN", 1)
	v.SetDefault("SURVEY_SCALE_MAX", 10)
	v.SetDefault("SURVEY_MIN_COMPLETION_SECONDS", 30)
	v.SetDefault("SURVEY_MAX_COMPLETION_SECONDS", 3600)

	v.SetDefault("ENABLE_REPORTS", true)
	v.SetDefault("REPORTS_CACHE_TTL", "10m")
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
