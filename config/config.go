package config

import (
	"errors"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration loaded from environment.
type Config struct {
	Server   ServerConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	Admin    AdminConfig
	Voter    VoterConfig
	Instance InstanceConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port               string
	ReadTimeout        int
	WriteTimeout       int
	CORSAllowedOrigins string // comma-separated, or "*" for all
}

// MongoConfig holds MongoDB connection settings.
type MongoConfig struct {
	URI      string
	Database string
}

// RedisConfig holds Redis connection settings for the cross-instance
// broadcast bridge. An empty Addr disables the bridge entirely.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// AdminConfig holds the installation-wide dashboard password. This is
// unrelated to the per-session admin passwords generated at creation.
type AdminConfig struct {
	Password string
}

// VoterConfig holds the signing settings for anonymous voter tokens.
type VoterConfig struct {
	Secret      string
	ExpireHours int
}

// InstanceConfig names this deployment for clients.
type InstanceConfig struct {
	Name    string
	BaseURL string
}

// Load reads configuration from environment, with optional .env file.
// ADMIN_PASSWORD and VOTER_TOKEN_SECRET have no safe defaults and must be
// set.
func Load() (*Config, error) {
	_ = godotenv.Load()

	readTimeout, _ := strconv.Atoi(getEnv("READ_TIMEOUT_SEC", "30"))
	writeTimeout, _ := strconv.Atoi(getEnv("WRITE_TIMEOUT_SEC", "30"))
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	voterExpire, _ := strconv.Atoi(getEnv("VOTER_TOKEN_EXPIRE_HOURS", "720"))

	cfg := &Config{
		Server: ServerConfig{
			Port:               getEnv("PORT", "8080"),
			ReadTimeout:        readTimeout,
			WriteTimeout:       writeTimeout,
			CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
		},
		Mongo: MongoConfig{
			URI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGO_DB", "qa"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Admin: AdminConfig{
			Password: os.Getenv("ADMIN_PASSWORD"),
		},
		Voter: VoterConfig{
			Secret:      os.Getenv("VOTER_TOKEN_SECRET"),
			ExpireHours: voterExpire,
		},
		Instance: InstanceConfig{
			Name:    getEnv("INSTANCE_NAME", "Audience Q&A"),
			BaseURL: getEnv("BASE_URL", "http://localhost:8080"),
		},
	}

	if cfg.Admin.Password == "" {
		return nil, errors.New("environment variable ADMIN_PASSWORD must be set")
	}
	if cfg.Voter.Secret == "" {
		return nil, errors.New("environment variable VOTER_TOKEN_SECRET must be set")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
