package app

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/ini.v1"
)

type Config struct {
	Issuer string // Issuer claim for minted tokens (default: warta-core)

	DatabaseURL    string        // Database URL, e.g. sqlite:warta.db (default: sqlite:warta.db)
	PepperFile     string        // Path to the password hashing pepper file (default: ./pepper)
	SigningKeyFile string        // Optional: PKCS8 PEM Ed25519 key; ephemeral key generated when unset
	AccessTokenTTL time.Duration // Access token lifetime (default: 15m)
	OnlineWindow   time.Duration // Presence online window (default: 45s)

	// Optional bootstrap admin credential seeded at startup when both are
	// set. The row is overwritten on every start so a forgotten admin
	// password is fixed by restarting with new values.
	AdminUsername string
	AdminPassword string

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

// LoadConfig layers three sources, highest precedence first:
//
//  1. real environment variables
//  2. a config.ini [server] section (path from WARTA_CONFIG_FILE)
//  3. a .env file in the working directory
//
// The ini file and .env layering mirrors how the retired desktop deployment
// was configured, so existing config.ini files keep working.
func LoadConfig() Config {
	// godotenv never overrides variables that are already set, which is
	// exactly the precedence we want for the .env layer.
	_ = godotenv.Load()

	srv := loadServerSection(getEnvOrDefault("WARTA_CONFIG_FILE", "config.ini"))

	cfg := Config{
		Issuer:         srv.get("WARTA_ISSUER", "issuer", "warta-core"),
		DatabaseURL:    srv.get("DATABASE_URL", "database_url", "sqlite:warta.db"),
		PepperFile:     srv.get("WARTA_PEPPER_FILE", "pepper_file", "pepper"),
		SigningKeyFile: srv.get("WARTA_SIGNING_KEY_FILE", "signing_key_file", ""),
		AccessTokenTTL: srv.duration("WARTA_ACCESS_TOKEN_TTL", "access_token_ttl", 15*time.Minute),
		OnlineWindow:   srv.duration("WARTA_ONLINE_WINDOW", "online_window", 45*time.Second),

		AdminUsername: srv.get("WARTA_ADMIN_USERNAME", "admin_username", ""),
		AdminPassword: srv.get("WARTA_ADMIN_PASSWORD", "admin_password", ""),

		Env:                 srv.get("ENV", "env", "dev"),
		LogLevel:            srv.get("LOG_LEVEL", "log_level", "info"),
		LogFormat:           srv.get("LOG_FORMAT", "log_format", "json"),
		Port:                srv.integer("PORT", "port", 8080),
		ShutdownGracePeriod: srv.duration("SHUTDOWN_GRACE_PERIOD", "shutdown_grace_period", 10*time.Second),
	}

	return cfg
}

// serverSection resolves config values against the env-then-ini precedence.
type serverSection struct {
	sec *ini.Section
}

// loadServerSection reads the [server] section of an ini file. A missing or
// unreadable file just yields an empty layer.
func loadServerSection(path string) serverSection {
	f, err := ini.Load(path)
	if err != nil {
		return serverSection{}
	}
	return serverSection{sec: f.Section("server")}
}

func (s serverSection) get(envKey, iniKey, defaultValue string) string {
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	if s.sec != nil && s.sec.HasKey(iniKey) {
		if v := s.sec.Key(iniKey).String(); v != "" {
			return v
		}
	}
	return defaultValue
}

func (s serverSection) integer(envKey, iniKey string, defaultValue int) int {
	if v, err := strconv.Atoi(s.get(envKey, iniKey, "")); err == nil {
		return v
	}
	return defaultValue
}

func (s serverSection) duration(envKey, iniKey string, defaultValue time.Duration) time.Duration {
	raw := s.get(envKey, iniKey, "")
	if raw == "" {
		return defaultValue
	}

	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}

	// Bare integers are seconds, matching the old ONLINE_WINDOW_SECONDS knob
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second
	}

	return defaultValue
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
