package config

import (
	"fmt"     // Error formatting
	"os"      // For environment variables
	"strconv" // For string to int conversion
	"strings" // Joining validation problems

	"expense_tracker/internal/store" // Store backend names

	"github.com/joho/godotenv"   // For loading .env files
	"github.com/sirupsen/logrus" // Log level parsing
)

// Config holds the application configuration
type Config struct {
	AppPort         string // Application port
	JWTSecret       string // JWT secret key
	IsProd          bool   // Is production environment
	LogLevel        string // Logrus level name
	StoreBackend    string // memory, sqlite, redis or mysql
	SQLitePath      string // Database file for the sqlite backend
	MemoryQuota     int    // Byte quota for the memory backend, 0 for none
	RedisAddr       string // Redis server address
	RedisPass       string // Redis password
	RedisDB         int    // Redis database number
	DBUser          string // Database user
	DBPassword      string // Database password
	DBHost          string // Database host
	DBPort          string // Database port
	DBName          string // Database name
	PasswordHashing string // plain or bcrypt
	AllowReregister bool   // Let registration overwrite an existing username
	Currency        string // ISO currency code for display
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	return &Config{
		AppPort:         getEnv("APP_PORT", "8080"),                   // Application port
		JWTSecret:       os.Getenv("JWT_SECRET"),                      // JWT secret key
		IsProd:          os.Getenv("IS_PROD") == "true",               // Is production environment
		LogLevel:        getEnv("LOG_LEVEL", "info"),                  // Log level
		StoreBackend:    getEnv("STORE_BACKEND", store.BackendMemory), // Store backend
		SQLitePath:      getEnv("SQLITE_PATH", "./data/expenses.db"),  // Sqlite file
		MemoryQuota:     getEnvInt("MEMORY_QUOTA_BYTES", 0),           // Memory quota
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),       // Redis server address
		RedisPass:       os.Getenv("REDIS_PASS"),                      // Redis password
		RedisDB:         getEnvInt("REDIS_DB", 0),                     // Redis database number
		DBUser:          os.Getenv("DB_USER"),                         // Database user
		DBPassword:      os.Getenv("DB_PASSWORD"),                     // Database password
		DBHost:          getEnv("DB_HOST", "localhost"),               // Database host
		DBPort:          getEnv("DB_PORT", "3306"),                    // Database port
		DBName:          os.Getenv("DB_NAME"),                         // Database name
		PasswordHashing: getEnv("PASSWORD_HASHING", "plain"),          // Credential storage
		AllowReregister: os.Getenv("ALLOW_REREGISTER") == "true",      // Registration overwrite
		Currency:        strings.ToUpper(getEnv("CURRENCY", "VND")),   // Display currency
	}
}

// DSN builds the MySQL data source name
func (c *Config) DSN() string {
	return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?parseTime=true"
}

// StoreOptions translates the configuration into store options
func (c *Config) StoreOptions() store.Options {
	return store.Options{
		Backend:     c.StoreBackend,
		MemoryQuota: c.MemoryQuota,
		SQLitePath:  c.SQLitePath,
		RedisAddr:   c.RedisAddr,
		RedisPass:   c.RedisPass,
		RedisDB:     c.RedisDB,
		MySQLDSN:    c.DSN(),
	}
}

// Validate reports every configuration problem at once
func (c *Config) Validate(needsSecret bool) error {
	var problems []string

	if port, err := strconv.Atoi(c.AppPort); err != nil || port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid APP_PORT %q: must be a number between 1 and 65535", c.AppPort))
	}
	if needsSecret && c.JWTSecret == "" {
		problems = append(problems, "JWT_SECRET is required")
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		problems = append(problems, fmt.Sprintf("invalid LOG_LEVEL %q", c.LogLevel))
	}

	switch c.StoreBackend {
	case store.BackendMemory:
		if c.MemoryQuota < 0 {
			problems = append(problems, "MEMORY_QUOTA_BYTES cannot be negative")
		}
	case store.BackendSQLite:
		if c.SQLitePath == "" {
			problems = append(problems, "SQLITE_PATH is required for the sqlite backend")
		}
	case store.BackendRedis:
		if c.RedisAddr == "" {
			problems = append(problems, "REDIS_ADDR is required for the redis backend")
		}
	case store.BackendMySQL:
		if c.DBUser == "" || c.DBName == "" {
			problems = append(problems, "DB_USER and DB_NAME are required for the mysql backend")
		}
	default:
		problems = append(problems, fmt.Sprintf("invalid STORE_BACKEND %q: must be one of memory, sqlite, redis, mysql", c.StoreBackend))
	}

	if c.PasswordHashing != "plain" && c.PasswordHashing != "bcrypt" {
		problems = append(problems, fmt.Sprintf("invalid PASSWORD_HASHING %q: must be plain or bcrypt", c.PasswordHashing))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}
