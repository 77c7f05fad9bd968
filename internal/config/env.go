package config

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Env struct {
	AppAddr     string
	GinMode     string
	JWTSecret   string
	CORSOrigins []string
	AutoMigrate bool
	DB          DBConfig
}

type DBConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	MaxOpenConns int
}

// DevJWTSecret signs tokens when JWT_SECRET is unset. It is public, so
// release builds refuse to start with it.
const DevJWTSecret = "super-secret-key-change-me"

var errDevJWTSecret = errors.New("JWT_SECRET must be set to a private value in release mode")

var defaultCORSOrigins = []string{
	"http://localhost:3000",
	"http://127.0.0.1:3000",
	"http://localhost:5173",
	"http://127.0.0.1:5173",
}

// LoadEnv reads an optional .env file, then the process environment.
// Values already set in the environment win over the file.
func LoadEnv() Env {
	_ = godotenv.Load()

	appAddr := strings.TrimSpace(os.Getenv("APP_ADDR"))
	if appAddr == "" {
		appAddr = ":8080"
	}

	origins := defaultCORSOrigins
	if raw := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS")); raw != "" {
		origins = splitList(raw)
	}

	return Env{
		AppAddr:     appAddr,
		GinMode:     strings.TrimSpace(os.Getenv("GIN_MODE")),
		JWTSecret:   getEnv("JWT_SECRET", DevJWTSecret),
		CORSOrigins: origins,
		AutoMigrate: getEnvBool("DB_AUTO_MIGRATE", true),
		DB: DBConfig{
			Host:         getEnv("DB_HOST", "127.0.0.1"),
			Port:         getEnvInt("DB_PORT", 3306),
			User:         getEnv("DB_USER", "root"),
			Password:     os.Getenv("DB_PASSWORD"),
			Name:         getEnv("DB_NAME", "travel_booking"),
			MaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 25),
		},
	}
}

// CheckRelease rejects settings that are only safe for local development.
func (e Env) CheckRelease(release bool) error {
	if release && e.JWTSecret == DevJWTSecret {
		return errDevJWTSecret
	}
	return nil
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func splitList(raw string) []string {
	out := []string{}
	for _, p := range strings.Split(raw, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
