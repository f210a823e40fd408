// pkg/database/mongo.go
package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/02loveslollipop/MiPedido/pkg/logger"
)

// Connection defaults
const (
	DefaultConnectTimeout = 10 * time.Second
	DefaultMaxPoolSize    = 25
	DefaultMinPoolSize    = 2
)

type Config struct {
	URI    string
	DBName string

	// Pool settings (optional)
	ConnectTimeout time.Duration
	MaxPoolSize    uint64
	MinPoolSize    uint64
}

// DefaultConfig returns a database configuration with sensible defaults
func DefaultConfig() Config {
	return Config{
		URI:            "mongodb://localhost:27017",
		DBName:         "mipedido",
		ConnectTimeout: DefaultConnectTimeout,
		MaxPoolSize:    DefaultMaxPoolSize,
		MinPoolSize:    DefaultMinPoolSize,
	}
}

// DB wraps a connected MongoDB database handle. It is created once at
// process start and passed down explicitly; there is no package-level
// connection state.
type DB struct {
	client   *mongo.Client
	database *mongo.Database
	logger   *logger.Logger
}

func NewConnection(ctx context.Context, config Config, log *logger.Logger) (*DB, error) {
	log.Info("Establishing database connection",
		"uri", config.URI,
		"database", config.DBName)

	connectTimeout := config.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = DefaultConnectTimeout
	}

	maxPoolSize := config.MaxPoolSize
	if maxPoolSize == 0 {
		maxPoolSize = DefaultMaxPoolSize
	}

	minPoolSize := config.MinPoolSize
	if minPoolSize == 0 {
		minPoolSize = DefaultMinPoolSize
	}

	clientOptions := options.Client().
		ApplyURI(config.URI).
		SetConnectTimeout(connectTimeout).
		SetMaxPoolSize(maxPoolSize).
		SetMinPoolSize(minPoolSize)

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, clientOptions)
	if err != nil {
		log.Error("Failed to connect to database", "error", err)
		return nil, fmt.Errorf("failed to connect to database: %v", err)
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		log.Error("Failed to ping database", "error", err)
		return nil, fmt.Errorf("failed to ping database: %v", err)
	}

	log.Debug("Database connection pool configured",
		"connect_timeout", connectTimeout,
		"max_pool_size", maxPoolSize,
		"min_pool_size", minPoolSize)

	log.Info("Database connection established successfully",
		"database", config.DBName)

	return &DB{
		client:   client,
		database: client.Database(config.DBName),
		logger:   log,
	}, nil
}

// Collection returns a handle to the named collection.
func (db *DB) Collection(name string) *mongo.Collection {
	return db.database.Collection(name)
}

// Close disconnects from the database.
func (db *DB) Close(ctx context.Context) error {
	db.logger.Info("Closing database connection")
	return db.client.Disconnect(ctx)
}

// Ping tests the database connection.
func (db *DB) Ping(ctx context.Context) error {
	return db.client.Ping(ctx, readpref.Primary())
}

// HealthCheck returns the database health status
func (db *DB) HealthCheck(ctx context.Context) error {
	db.logger.Debug("Performing database health check")

	if err := db.Ping(ctx); err != nil {
		db.logger.Error("Database health check failed", "error", err)
		return fmt.Errorf("database ping failed: %v", err)
	}

	db.logger.Debug("Database health check passed")
	return nil
}
