package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	DB       DBConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	QR       QRConfig
	Artifact ArtifactConfig
	Security SecurityConfig
}

type AppConfig struct {
	Port        string
	Env         string
	BaseURL     string
	CORSOrigins []string
	// ResponseEnvelope wraps successful JSON bodies in {success,message,data}.
	ResponseEnvelope bool
}

type DBConfig struct {
	Driver     string
	Host       string
	Port       string
	User       string
	Password   string
	Name       string
	SQLitePath string
	Migrate    bool
}

type MongoConfig struct {
	URL      string
	Database string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
}

type QRConfig struct {
	RecoveryLevel string
	MaxVersion    int
	DefaultSize   int
}

type ArtifactConfig struct {
	Spool    string
	SpoolDir string
	// TrueType files embedded in the PDF. Empty keeps the core fonts.
	FontFile     string
	BoldFontFile string
}

type SecurityConfig struct {
	FieldEncryptionKey string
}

// Database drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMongo    = "mongo"
)

// Spool modes
const (
	SpoolMemory = "memory"
	SpoolDisk   = "disk"
)

const defaultBaseURL = "http://localhost:3000"

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8000")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("RESPONSE_ENVELOPE", true)

	v.SetDefault("DB_DRIVER", DriverPostgres)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_NAME", "lifesaver")
	v.SetDefault("DB_SQLITE_PATH", "lifesaver.db")
	v.SetDefault("DB_MIGRATE", true)

	v.SetDefault("MONGO_URL", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DB", "lifesaver")

	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("QR_RECOVERY_LEVEL", "low")
	v.SetDefault("QR_MAX_VERSION", 10)
	v.SetDefault("QR_DEFAULT_SIZE", 200)

	v.SetDefault("ARTIFACT_SPOOL", SpoolMemory)
	v.SetDefault("ARTIFACT_SPOOL_DIR", os.TempDir())
}

// LoadConfig reads envFile when it exists, then lets environment variables
// and changed command-line flags override it. A missing envFile is not an
// error.
func LoadConfig(envFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if flags != nil {
		if port := flags.Lookup("port"); port != nil {
			if err := v.BindPFlag("APP_PORT", port); err != nil {
				return nil, err
			}
		}
	}

	if envFile != "" {
		v.SetConfigFile(envFile)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
				return nil, err
			}
		}
	}

	cacheTTL, err := time.ParseDuration(v.GetString("PROFILE_CACHE_TTL"))
	if err != nil {
		cacheTTL = 10 * time.Minute
	}

	baseURL := v.GetString("BASE_URL")
	if baseURL == "" {
		baseURL = v.GetString("FRONTEND_URL")
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	config := &Config{
		App: AppConfig{
			Port:        v.GetString("APP_PORT"),
			Env:         v.GetString("APP_ENV"),
			BaseURL:     strings.TrimRight(baseURL, "/"),
			CORSOrigins: splitList(v.GetString("CORS_ORIGINS")),

			ResponseEnvelope: v.GetBool("RESPONSE_ENVELOPE"),
		},
		DB: DBConfig{
			Driver:     strings.ToLower(v.GetString("DB_DRIVER")),
			Host:       v.GetString("DB_HOST"),
			Port:       v.GetString("DB_PORT"),
			User:       v.GetString("DB_USER"),
			Password:   v.GetString("DB_PASSWORD"),
			Name:       v.GetString("DB_NAME"),
			SQLitePath: v.GetString("DB_SQLITE_PATH"),
			Migrate:    v.GetBool("DB_MIGRATE"),
		},
		Mongo: MongoConfig{
			URL:      v.GetString("MONGO_URL"),
			Database: v.GetString("MONGO_DB"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			TTL:      cacheTTL,
		},
		QR: QRConfig{
			RecoveryLevel: v.GetString("QR_RECOVERY_LEVEL"),
			MaxVersion:    v.GetInt("QR_MAX_VERSION"),
			DefaultSize:   v.GetInt("QR_DEFAULT_SIZE"),
		},
		Artifact: ArtifactConfig{
			Spool:    strings.ToLower(v.GetString("ARTIFACT_SPOOL")),
			SpoolDir: v.GetString("ARTIFACT_SPOOL_DIR"),

			FontFile:     v.GetString("PDF_FONT_FILE"),
			BoldFontFile: v.GetString("PDF_FONT_BOLD_FILE"),
		},
		Security: SecurityConfig{
			FieldEncryptionKey: v.GetString("FIELD_ENCRYPTION_KEY"),
		},
	}

	return config, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
