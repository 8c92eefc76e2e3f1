package config

import (
	"os"
	"strconv"
	"strings"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverSupabase = "supabase"

	StorageDriverLocal    = "local"
	StorageDriverSupabase = "supabase"
)

// Config holds runtime configuration loaded from environment variables.
// Nothing here is mandatory at load time; missing values surface through Status.
type Config struct {
	Port               string
	StoreDriver        string
	DatabaseURL        string
	SupabaseURL        string
	SupabaseKey        string
	RunMigrations      bool
	StorageDriver      string
	StorageBucket      string
	MediaStoragePath   string
	PublicBaseURL      string
	UploadFolder       string
	MaxImageBytes      int64
	MaxPDFBytes        int64
	PDFZoom            float64
	JWTSecret          string
	JWTIssuer          string
	AccessTTLSeconds   int64
	AdminEmail         string
	AdminPasswordHash  string
	EmailAPIKey        string
	CorsOrigins        []string
	LogDir             string
	LogRetentionDays   int
	LogLevel           string
	ShutdownTimeoutSec int
}

func Load() Config {
	return Config{
		Port:               envOr("PORT", "8080"),
		StoreDriver:        strings.ToLower(envOr("STORE_DRIVER", StoreDriverPostgres)),
		DatabaseURL:        envOr("DATABASE_URL", ""),
		SupabaseURL:        strings.TrimRight(envOr("SUPABASE_URL", ""), "/"),
		SupabaseKey:        envOr("SUPABASE_SERVICE_KEY", envOr("SUPABASE_ANON_KEY", "")),
		RunMigrations:      envOrBool("MIGRATIONS", true),
		StorageDriver:      strings.ToLower(envOr("STORAGE_DRIVER", StorageDriverLocal)),
		StorageBucket:      envOr("STORAGE_BUCKET", "portfolio-images"),
		MediaStoragePath:   envOr("MEDIA_STORAGE_PATH", "storage/media"),
		PublicBaseURL:      strings.TrimRight(envOr("PUBLIC_BASE_URL", "http://localhost:8080"), "/"),
		UploadFolder:       envOr("UPLOAD_DEFAULT_FOLDER", "bento-grid"),
		MaxImageBytes:      int64(envOrInt("MAX_IMAGE_BYTES", 5<<20)),
		MaxPDFBytes:        int64(envOrInt("MAX_PDF_BYTES", 10<<20)),
		PDFZoom:            envOrFloat("PDF_ZOOM", 2.0),
		JWTSecret:          envOr("JWT_SECRET", ""),
		JWTIssuer:          envOr("JWT_ISSUER", "portfolio"),
		AccessTTLSeconds:   int64(envOrInt("ACCESS_TTL_SECONDS", 43200)),
		AdminEmail:         envOr("ADMIN_EMAIL", ""),
		AdminPasswordHash:  envOr("ADMIN_PASSWORD_HASH", ""),
		EmailAPIKey:        envOr("EMAIL_API_KEY", ""),
		CorsOrigins:        parseCSV(envOr("CORS_ORIGINS", "")),
		LogDir:             envOr("LOG_DIR", "storage/logs"),
		LogRetentionDays:   envOrInt("LOG_RETENTION_DAYS", 7),
		LogLevel:           envOr("LOG_LEVEL", "info"),
		ShutdownTimeoutSec: envOrInt("SHUTDOWN_TIMEOUT_SECONDS", 5),
	}
}

const (
	StatusConfigured = "✅ Configured"
	StatusMissing    = "❌ Missing"
)

// Status reports which external settings are present, keyed by a short name.
func (c Config) Status() map[string]string {
	storeURL, storeKey := c.DatabaseURL, c.DatabaseURL
	if c.StoreDriver == StoreDriverSupabase {
		storeURL, storeKey = c.SupabaseURL, c.SupabaseKey
	}
	return map[string]string{
		"url":       presence(storeURL),
		"key":       presence(storeKey),
		"email":     presence(c.EmailAPIKey),
		"jwtSecret": presence(c.JWTSecret),
		"admin":     presence(c.AdminEmail + c.AdminPasswordHash),
	}
}

func presence(value string) string {
	if strings.TrimSpace(value) == "" {
		return StatusMissing
	}
	return StatusConfigured
}

func envOr(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func envOrInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrFloat(key string, fallback float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func envOrBool(key string, fallback bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func parseCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		value := strings.TrimSpace(part)
		if value != "" {
			items = append(items, value)
		}
	}
	return items
}
