package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config is the full environment surface of the server. MONGO_URI and
// JWT_SECRET are required; everything else has a default or disables the
// feature it configures when empty.
type Config struct {
	Addr     string
	MongoURI string
	MongoDB  string

	JWTSecret string
	TokenTTL  time.Duration

	// Optional bootstrap admin pair. When both are set, login falls back to
	// them for emails with no stored account.
	AdminEmail    string
	AdminPassword string

	// Optional integrations: empty values disable them.
	KafkaAddress string
	ESUrl        string
	ESUser       string
	ESPassword   string

	LogLevel string
}

func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("notice: .env file not found, using system environment")
	}

	cfg := &Config{
		Addr:          getDefault("ADDR", ":8080"),
		MongoURI:      os.Getenv("MONGO_URI"),
		MongoDB:       getDefault("MONGO_DB", "balmandal"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		KafkaAddress:  os.Getenv("KAFKA_ADDRESS"),
		ESUrl:         os.Getenv("ES_URL"),
		ESUser:        os.Getenv("ES_USER"),
		ESPassword:    os.Getenv("ES_PASSWORD"),
		LogLevel:      getDefault("LOG_LEVEL", "info"),
		TokenTTL:      7 * 24 * time.Hour,
	}

	if raw := os.Getenv("TOKEN_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			return nil, err
		}
		cfg.TokenTTL = ttl
	}

	return cfg, nil
}

func getDefault(env, def string) string {
	if v := os.Getenv(env); v != "" {
		return v
	}
	return def
}

// MustNonEmpty aborts startup on a missing required value. Serving with a
// missing signing secret or database URI is never acceptable.
func MustNonEmpty(value, envName string) {
	if value == "" {
		log.Fatalf("missing required env %s", envName)
	}
}
