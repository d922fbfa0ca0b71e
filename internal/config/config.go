package config

import (
	"os"
	"strings"
)

// Config holds process settings read from the environment. Paths may be
// overridden by command-line flags in cmd/web.
type Config struct {
	Addr         string
	Env          string
	DevMode      bool
	LogLevel     string
	BaseURL      string
	TemplatesDir string
	PublicDir    string
	ContentDir   string
	LocalesDir   string
	QuoteWebhook string
	SessionKey   string
	PhoneDisplay string
	Email        string
}

const (
	defaultBaseURL = "https://murerholbaek.dk"
	defaultPhone   = "+27 85 13 81"
	defaultEmail   = "infomurerholbaek@gmail.com"
)

// Load reads configuration from environment variables.
func Load() Config {
	// Port resolution: prefer MURER_WEB_PORT, then Cloud Run's PORT, else 8080
	port := readString("MURER_WEB_PORT", "")
	if port == "" {
		port = readString("PORT", "8080")
	}
	return Config{
		Addr:         ":" + port,
		Env:          strings.ToLower(readString("MURER_WEB_ENV", "dev")),
		DevMode:      readBool("MURER_WEB_DEV") || readBool("DEV"),
		LogLevel:     readString("LOG_LEVEL", "info"),
		BaseURL:      strings.TrimRight(readString("MURER_WEB_BASE_URL", defaultBaseURL), "/"),
		TemplatesDir: "templates",
		PublicDir:    "public",
		ContentDir:   "content",
		LocalesDir:   "locales",
		QuoteWebhook: readString("MURER_WEB_QUOTE_WEBHOOK", ""),
		SessionKey:   readString("MURER_WEB_SESSION_SIGNING_KEY", ""),
		PhoneDisplay: readString("MURER_WEB_PHONE", defaultPhone),
		Email:        readString("MURER_WEB_EMAIL", defaultEmail),
	}
}

// Production reports whether the process runs in the prod environment.
func (c Config) Production() bool {
	return c.Env == "prod"
}

func readString(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// readBool treats any non-empty value other than "0"/"false" as true.
func readBool(key string) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	switch v {
	case "", "0", "false", "no":
		return false
	default:
		return true
	}
}
