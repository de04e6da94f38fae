package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The struct is constructed once at process start
// and passed by reference into the services that need it, so there is no
// process-wide settings singleton.
type Config struct {
	Env           string // application environment (e.g. "dev", "prod")
	Port          string // HTTP port to listen on
	DBUser        string // database username
	DBPass        string // database password (optional)
	DBHost        string // database host address
	DBPort        string // database port number
	DBName        string // database name
	JWTSecret     string // secret used to sign access tokens
	JWTAlgorithm  string // HMAC signing algorithm identifier (HS256, HS384, HS512)
	AccessTTLMin  int    // access token time-to-live in minutes
	RefreshTTLMin int    // refresh session time-to-live in minutes
	BcryptCost    int    // bcrypt cost for password hashing
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  Token lifetimes and
// the signing algorithm fall back to the documented defaults: 15 minutes
// for access tokens, 10080 minutes (7 days) for refresh sessions, HS256.
func Load() Config {
	return Config{
		Env:           must("APP_ENV"),
		Port:          must("APP_PORT"),
		DBUser:        must("DB_USER"),
		DBPass:        os.Getenv("DB_PASS"), // empty allowed
		DBHost:        must("DB_HOST"),
		DBPort:        must("DB_PORT"),
		DBName:        must("DB_NAME"),
		JWTSecret:     must("JWT_SECRET"),
		JWTAlgorithm:  getenv("JWT_ALGORITHM", "HS256"),
		AccessTTLMin:  atoi(getenv("ACCESS_TOKEN_TTL_MIN", "15")),
		RefreshTTLMin: atoi(getenv("REFRESH_TOKEN_TTL_MIN", "10080")),
		BcryptCost:    atoi(getenv("BCRYPT_COST", "10")),
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

// getenv returns the value of an environment variable or the given default
// when the variable is unset or empty.
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// atoi converts a string to an int and halts on malformed values so that a
// typo in an .env file surfaces at startup rather than at token issuance.
func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int in config: %q", s)
	}
	return n
}
