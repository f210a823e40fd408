package envconfig

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/02loveslollipop/MiPedido/pkg/logger"
)

// LoadEnvFile loads environment variables from the given file. A missing
// file is not an error in production deployments; the caller decides how to
// report it.
func LoadEnvFile(path string) error {
	return godotenv.Load(path)
}

// GetEnv returns the value of an environment variable or the fallback when
// it is unset or empty.
func GetEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// GetLogLevel reads LOG_LEVEL and returns a valid logger level.
func GetLogLevel() logger.LogLevel {
	switch GetEnv("LOG_LEVEL", "info") {
	case "debug":
		return logger.LevelDebug
	case "warn":
		return logger.LevelWarn
	case "error":
		return logger.LevelError
	default:
		return logger.LevelInfo
	}
}
