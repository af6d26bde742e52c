package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultPort          = "8083"
	defaultDriver        = "sqlite"
	defaultSQLiteDSN     = "project.db"
	defaultPostgresDSN   = "host=localhost user=postgres password=postgres dbname=cafe port=5432 sslmode=disable"
	defaultMySQLDSN      = "root:root@tcp(127.0.0.1:3306)/cafe?charset=utf8mb4&parseTime=True&loc=Local"
	defaultSecretKeyFile = ".secret_key"
	defaultIterations    = 600000
)

type Config struct {
	Port           string
	GinMode        string
	AllowedOrigins string

	DBDriver    string
	DatabaseDSN string

	SecretKey      string
	SecretKeyFile  string
	SessionCookie  string
	SessionTTL     time.Duration
	SessionSecure  bool
	PasswordRounds int

	MailHost     string
	MailPort     string
	MailUsername string
	MailPassword string
	MailFrom     string
	MailTo       string
	MailTimeout  time.Duration

	LogLevel     string
	LogFormat    string
	TemplateGlob string
}

// Load reads the process environment. It never fails on missing values;
// ResolveSecretKey is the only step that touches the filesystem.
func Load() *Config {
	cfg := &Config{
		Port:           getEnv("PORT", defaultPort),
		GinMode:        getEnv("GIN_MODE", ""),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", ""),

		DBDriver: strings.ToLower(getEnv("DB_DRIVER", defaultDriver)),

		SecretKey:      getEnv("SECRET_KEY", ""),
		SecretKeyFile:  getEnv("SECRET_KEY_FILE", defaultSecretKeyFile),
		SessionCookie:  getEnv("SESSION_COOKIE", "session"),
		SessionTTL:     getDuration("SESSION_TTL", 7*24*time.Hour),
		SessionSecure:  getBool("SESSION_SECURE", false),
		PasswordRounds: getInt("PASSWORD_ITERATIONS", defaultIterations),

		MailHost:     getEnv("MAIL_HOST", "smtp.gmail.com"),
		MailPort:     getEnv("MAIL_PORT", "587"),
		MailUsername: getEnv("MAIL_USERNAME", ""),
		MailPassword: getEnv("MAIL_PASSWORD", ""),
		MailTimeout:  getDuration("MAIL_TIMEOUT", 10*time.Second),

		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFormat:    getEnv("LOG_FORMAT", "text"),
		TemplateGlob: getEnv("TEMPLATE_GLOB", ""),
	}

	cfg.MailFrom = getEnv("MAIL_FROM", cfg.MailUsername)
	cfg.MailTo = getEnv("MAIL_TO", cfg.MailUsername)
	cfg.DatabaseDSN = getEnv("DATABASE_DSN", defaultDSN(cfg.DBDriver))

	return cfg
}

func defaultDSN(driver string) string {
	switch driver {
	case "postgres":
		return defaultPostgresDSN
	case "mysql":
		return defaultMySQLDSN
	default:
		return defaultSQLiteDSN
	}
}

// ResolveSecretKey fills SecretKey when it was not given in the environment.
// The key is read from SecretKeyFile, or generated and written there so that
// sessions survive restarts. persisted reports whether the key is stored.
func (c *Config) ResolveSecretKey() (persisted bool, err error) {
	if c.SecretKey != "" {
		return true, nil
	}

	if c.SecretKeyFile != "" {
		raw, err := os.ReadFile(c.SecretKeyFile)
		if err == nil {
			if key := strings.TrimSpace(string(raw)); key != "" {
				c.SecretKey = key
				return true, nil
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return false, fmt.Errorf("read secret key file: %w", err)
		}
	}

	key, err := randomKey()
	if err != nil {
		return false, err
	}
	c.SecretKey = key

	if c.SecretKeyFile == "" {
		return false, nil
	}
	if err := os.WriteFile(c.SecretKeyFile, []byte(key+"\n"), 0600); err != nil {
		return false, nil
	}
	return true, nil
}

func randomKey() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate secret key: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func getEnv(key, defaultValue string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	return value
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, ""))
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}

func getBool(key string, defaultValue bool) bool {
	b, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return b
}

func getInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}
