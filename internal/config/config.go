package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds everything the process reads from the environment.
type Config struct {
	Port           string
	DatabaseURL    string
	AllowedOrigins []string
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Load reads configs/.env if present, then assembles the config from the
// environment with development defaults.
func Load() Config {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	dbHost := getenv("DB_HOST", "localhost")
	dbPort := getenv("DB_PORT", "5432")
	dbUser := getenv("DB_USER", "postgres")
	dbPassword := getenv("DB_PASSWORD", "postgres")
	dbName := getenv("DB_NAME", "hrms")
	dbSslMode := getenv("DB_SSLMODE", "disable")

	dsn := getenv("DATABASE_URL",
		"postgres://"+dbUser+":"+dbPassword+"@"+dbHost+":"+dbPort+"/"+dbName+"?sslmode="+dbSslMode)

	origins := []string{"http://localhost:5173", "http://127.0.0.1:5173"}
	if raw := os.Getenv("ALLOWED_ORIGIN"); raw != "" {
		origins = append(origins, raw)
	}

	return Config{
		Port:           getenv("PORT", "8080"),
		DatabaseURL:    dsn,
		AllowedOrigins: origins,
	}
}
