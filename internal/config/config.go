package config // package config loads application configuration from environment variables

import (
	"log" // log is used to report configuration errors and halt execution
	"os"  // os provides access to environment variables
)

// Config holds all runtime configuration values.  Each field
// corresponds to an environment variable.  Everything the two run
// endpoints depend on is required and enforced by must(), so a
// misconfigured process dies at startup instead of failing halfway
// through a batch.
type Config struct {
	Env  string // application environment (e.g. "dev", "prod")
	Port string // HTTP port to listen on

	DBUser string // database username
	DBPass string // database password (optional)
	DBHost string // database host address
	DBPort string // database port number
	DBName string // database name

	JWTSecret      string // secret used to verify operator bearer tokens
	InternalAPIKey string // key expected in X-Internal-Key on the trigger routes

	WhatsAppTemplateURL  string // provider template-send endpoint
	WhatsAppTemplateName string // template to render (default "ticket_order")
	WhatsAppLanguageCode string // template language (default "en")
	WhatsAppLoginURL     string // provider login endpoint (basic credentials)
	WhatsAppRefreshURL   string // provider token-refresh endpoint
	WhatsAppUsername     string // provider login username
	WhatsAppPassword     string // provider login password

	AttendanceAPIURL string // base URL of the downstream attendance API
	AttendanceAPIKey string // internal key sent to the downstream mark endpoint
}

// Load reads configuration values from environment variables and
// returns a Config.  Required variables are enforced by must() and
// missing values cause the program to exit with a fatal log message.
func Load() Config {
	return Config{
		Env:  must("APP_ENV"),
		Port: must("APP_PORT"),

		DBUser: must("DB_USER"),
		DBPass: os.Getenv("DB_PASS"), // empty allowed
		DBHost: must("DB_HOST"),
		DBPort: must("DB_PORT"),
		DBName: must("DB_NAME"),

		JWTSecret:      must("JWT_SECRET"),
		InternalAPIKey: must("INTERNAL_API_KEY"),

		WhatsAppTemplateURL:  must("WHATSAPP_TEMPLATE_URL"),
		WhatsAppTemplateName: getenv("WHATSAPP_TEMPLATE_NAME", "ticket_order"),
		WhatsAppLanguageCode: getenv("WHATSAPP_LANGUAGE_CODE", "en"),
		WhatsAppLoginURL:     must("WHATSAPP_AUTH_LOGIN_URL"),
		WhatsAppRefreshURL:   must("WHATSAPP_AUTH_REFRESH_URL"),
		WhatsAppUsername:     must("WHATSAPP_AUTH_USERNAME"),
		WhatsAppPassword:     must("WHATSAPP_AUTH_PASSWORD"),

		AttendanceAPIURL: must("ATTENDANCE_API_URL"),
		AttendanceAPIKey: must("ATTENDANCE_API_KEY"),
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// getenv returns the variable's value or the given default when unset.
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
