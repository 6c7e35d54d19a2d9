package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

func LoadEnv() error {
	// Try to load .env if present (local development). In production the
	// environment variables are set directly on the host.
	_ = godotenv.Load()
	return nil
}

// ValidateEnv checks that critical environment variables are set.
// Returns an error if any critical variable is missing.
func ValidateEnv() error {
	var missing []string

	// Critical variables - the service cannot function without these
	if os.Getenv("CMS_BASE_URL") == "" {
		missing = append(missing, "CMS_BASE_URL")
	}
	if os.Getenv("SESSION_SECRET") == "" {
		missing = append(missing, "SESSION_SECRET")
	}

	if len(missing) > 0 {
		return fmt.Errorf("critical environment variables not set: %v", missing)
	}

	// Non-critical variables - log warnings but don't fail
	if os.Getenv("DATABASE_URL") == "" {
		log.Println("WARNING: DATABASE_URL not set - falling back to file storage")
	}
	if os.Getenv("FRONTEND_URL") == "" {
		log.Println("WARNING: FRONTEND_URL not set - CORS may not work correctly")
	}
	if os.Getenv("ADMIN_URL") == "" {
		log.Println("WARNING: ADMIN_URL not set - the admin frontend origin will not pass CORS")
	}
	if os.Getenv("ADMIN_EMAILS") == "" {
		log.Println("WARNING: ADMIN_EMAILS not set - admin catalog routes will be unusable")
	}

	return nil
}

func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// AdminEmails returns the lowercase set of accounts allowed on the admin
// routes, parsed from the comma-separated ADMIN_EMAILS variable.
func AdminEmails() []string {
	raw := os.Getenv("ADMIN_EMAILS")
	if raw == "" {
		return nil
	}

	var emails []string
	for _, part := range strings.Split(raw, ",") {
		email := strings.ToLower(strings.TrimSpace(part))
		if email != "" {
			emails = append(emails, email)
		}
	}
	return emails
}
