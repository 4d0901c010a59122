package config

import (
	"time"
)

// Settings is the typed view of the environment read once at startup.
type Settings struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	Database DatabaseSettings

	AcceptedOrigins   []string
	RateLimit         string
	TrustProxy        bool
	MaxBodyBytes      int64
	JWTSecret         string
	JWTTTL            time.Duration
	AllowRegistration bool

	LogLevel  string
	LogFormat string

	Notify NotifySettings
}

// DatabaseSettings selects and tunes the storage backend.
type DatabaseSettings struct {
	// URL empty means the in-memory store.
	URL         string
	ReplicaURL  string
	Driver      string
	AutoMigrate bool

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	SlowThreshold   time.Duration
}

type NotifySettings struct {
	ResendAPIKey    string
	ResendFromEmail string
	ResendBaseURL   string
	Emails          []string

	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFromNumber string
	Phone            string
}

// EmailEnabled reports whether Resend is fully configured.
func (n NotifySettings) EmailEnabled() bool {
	return n.ResendAPIKey != "" && n.ResendFromEmail != "" && len(n.Emails) > 0
}

// SMSEnabled reports whether Twilio is fully configured.
func (n NotifySettings) SMSEnabled() bool {
	return n.TwilioAccountSID != "" && n.TwilioAuthToken != "" && n.TwilioFromNumber != "" && n.Phone != ""
}

func Load(c map[string]string) Settings {
	// MYSQL_DATABASE_URL is kept for deployments configured for the old Node server.
	dbURL := GetString(c, "DATABASE_URL", GetString(c, "MYSQL_DATABASE_URL", ""))

	return Settings{
		Port:         GetString(c, "PORT", "8080"),
		ReadTimeout:  GetSeconds(c, "READ_TIMEOUT_SECONDS", 180),
		WriteTimeout: GetSeconds(c, "WRITE_TIMEOUT_SECONDS", 180),
		IdleTimeout:  GetSeconds(c, "IDLE_TIMEOUT_SECONDS", 180),
		Database: DatabaseSettings{
			URL:             dbURL,
			ReplicaURL:      GetString(c, "DATABASE_REPLICA_URL", ""),
			Driver:          GetString(c, "STORAGE_DRIVER", ""),
			AutoMigrate:     GetBool(c, "AUTO_MIGRATE", true),
			MaxOpenConns:    GetInt(c, "DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    GetInt(c, "DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: GetSeconds(c, "DB_CONN_MAX_LIFETIME_SECONDS", 300),
			SlowThreshold:   GetSeconds(c, "DB_SLOW_QUERY_SECONDS", 10),
		},
		AcceptedOrigins:   GetList(c, "ACCEPTED_ORIGINS"),
		RateLimit:         GetString(c, "RATE_LIMIT", "30-M"),
		// Only enable behind a proxy that overwrites X-Forwarded-For.
		TrustProxy:        GetBool(c, "TRUST_PROXY", false),
		MaxBodyBytes:      int64(GetInt(c, "MAX_BODY_BYTES", 1<<20)),
		JWTSecret:         GetString(c, "JWT_SECRET", ""),
		JWTTTL:            time.Duration(GetInt(c, "JWT_TTL_MINUTES", 60)) * time.Minute,
		AllowRegistration: GetBool(c, "ALLOW_REGISTRATION", false),
		LogLevel:          GetString(c, "LOG_LEVEL", "info"),
		LogFormat:         GetString(c, "LOG_FORMAT", "json"),
		Notify: NotifySettings{
			ResendAPIKey:     GetString(c, "RESEND_API_KEY", ""),
			ResendFromEmail:  GetString(c, "RESEND_FROM_EMAIL", ""),
			ResendBaseURL:    GetString(c, "RESEND_BASE_URL", "https://api.resend.com"),
			Emails:           GetList(c, "NOTIFY_EMAILS"),
			TwilioAccountSID: GetString(c, "TWILIO_ACCOUNT_SID", ""),
			TwilioAuthToken:  GetString(c, "TWILIO_AUTH_TOKEN", ""),
			TwilioFromNumber: GetString(c, "TWILIO_FROM_NUMBER", ""),
			Phone:            GetString(c, "NOTIFY_PHONE", ""),
		},
	}
}
