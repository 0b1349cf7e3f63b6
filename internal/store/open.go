package store

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"
)

// Backend names accepted by Open
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMySQL  = "mysql"
)

// Options selects and configures a backend
type Options struct {
	Backend     string // One of the Backend* names
	MemoryQuota int    // Byte quota for the memory backend, 0 for none
	SQLitePath  string // Database file for the sqlite backend
	RedisAddr   string // Redis server address
	RedisPass   string // Redis password
	RedisDB     int    // Redis database number
	MySQLDSN    string // Data source name for the mysql backend
}

// Open builds the backend named by opts.Backend.
func Open(ctx context.Context, opts Options) (Store, error) {
	log := logrus.WithField("backend", opts.Backend)
	switch opts.Backend {
	case BackendMemory, "":
		log.Info("Using in-memory store")
		return NewMemory(opts.MemoryQuota), nil
	case BackendSQLite:
		s, err := NewSQLite(opts.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		log.WithField("path", opts.SQLitePath).Info("Using sqlite store")
		return s, nil
	case BackendRedis:
		s, err := NewRedis(ctx, &redis.Options{
			Addr:     opts.RedisAddr, // Redis server address
			Password: opts.RedisPass, // Redis password
			DB:       opts.RedisDB,   // Redis database number
		})
		if err != nil {
			return nil, fmt.Errorf("open redis store: %w", err)
		}
		log.WithField("addr", opts.RedisAddr).Info("Using redis store")
		return s, nil
	case BackendMySQL:
		s, err := OpenMySQL(opts.MySQLDSN)
		if err != nil {
			return nil, fmt.Errorf("open mysql store: %w", err)
		}
		log.Info("Using mysql store")
		return s, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", opts.Backend)
	}
}
