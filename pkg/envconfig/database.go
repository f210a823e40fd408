package envconfig

import (
	"strconv"
	"time"

	"github.com/02loveslollipop/MiPedido/pkg/database"
)

// LoadDatabaseConfig loads database configuration from environment variables
func LoadDatabaseConfig() database.Config {
	config := database.DefaultConfig()

	// Override with environment variables if they exist
	if uri := GetEnv("MONGODB_URL", ""); uri != "" {
		config.URI = uri
	}

	if name := GetEnv("DATABASE_NAME", ""); name != "" {
		config.DBName = name
	}

	// Pool settings
	if timeoutStr := GetEnv("DB_CONNECT_TIMEOUT", ""); timeoutStr != "" {
		if timeout, err := time.ParseDuration(timeoutStr); err == nil {
			config.ConnectTimeout = timeout
		}
	}

	if maxPoolStr := GetEnv("DB_MAX_POOL_SIZE", ""); maxPoolStr != "" {
		if maxPool, err := strconv.ParseUint(maxPoolStr, 10, 64); err == nil && maxPool > 0 {
			config.MaxPoolSize = maxPool
		}
	}

	if minPoolStr := GetEnv("DB_MIN_POOL_SIZE", ""); minPoolStr != "" {
		if minPool, err := strconv.ParseUint(minPoolStr, 10, 64); err == nil {
			config.MinPoolSize = minPool
		}
	}

	return config
}
