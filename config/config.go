// Package config provides configuration management for the almacen service.
// It handles loading and validation of configuration values from environment
// variables, with support for required variables, default values, and
// collective error reporting.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// PoolConfig represents configuration for the database connection pool.
type PoolConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	MaxSize  int
}

// AuthConfig holds authentication-related configuration.
// JWTSecret is the sole root of trust for session tokens: anyone holding it
// can forge valid tokens, and rotating it invalidates every outstanding
// token. It is therefore required, with no fallback value.
type AuthConfig struct {
	JWTSecret         string        // Secret key for signing JWTs, required
	AccessTokenExpiry time.Duration // Lifetime of issued access tokens
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Port string // Port for the HTTP server
}

// AppConfig is the top-level configuration structure for the application.
type AppConfig struct {
	DB     *PoolConfig
	Auth   *AuthConfig
	Server *ServerConfig
}

// getRequiredEnv reads a required environment variable, appending to the
// errors slice when it is not set so all configuration problems are reported
// together.
func getRequiredEnv(key string, errors *[]string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		*errors = append(*errors, fmt.Sprintf("missing required environment variable: %s", key))
		return ""
	}
	return value
}

// getOptionalEnv reads an optional environment variable with a default.
func getOptionalEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getOptionalEnvInt reads an optional environment variable parsed as an int.
// Uses defaultValue if not set; appends an error if parsing fails.
func getOptionalEnvInt(key string, defaultValue int, errors *[]string) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		*errors = append(*errors, fmt.Sprintf("invalid value for %s: expected integer, got '%s': %v", key, valueStr, err))
		return defaultValue
	}
	return valueInt
}

// parseAndValidatePoolSize converts a string value to an integer and clamps
// it to [1, 100]. Appends an error to the errors slice on parse failure.
func parseAndValidatePoolSize(valueStr string, varName string, errors *[]string) int {
	size, err := strconv.Atoi(valueStr)
	if err != nil {
		*errors = append(*errors, fmt.Sprintf("invalid pool size for %s: expected integer, got '%s': %v", varName, valueStr, err))
		return 10
	}
	if size < 1 {
		*errors = append(*errors, fmt.Sprintf("pool size for %s (%d) is less than minimum 1, clamping to 1", varName, size))
		size = 1
	}
	if size > 100 {
		*errors = append(*errors, fmt.Sprintf("pool size for %s (%d) is greater than maximum 100, clamping to 100", varName, size))
		size = 100
	}
	return size
}

// LoadConfig creates and returns an AppConfig by reading and validating
// environment variables. It collects all errors encountered during loading
// and returns a single aggregated error if any exist.
func LoadConfig() (*AppConfig, error) {
	var errors []string

	// Database configuration
	dbUser := getRequiredEnv("DB_USER", &errors)
	dbPassword := getRequiredEnv("DB_PASSWORD", &errors)
	dbName := getRequiredEnv("DB_NAME", &errors)
	dbHost := getOptionalEnv("DB_HOST", "localhost")
	dbPort := getOptionalEnvInt("DB_PORT", 5432, &errors)

	poolSize := 10
	if poolSizeStr, exists := os.LookupEnv("DB_POOL_SIZE"); exists {
		poolSize = parseAndValidatePoolSize(poolSizeStr, "DB_POOL_SIZE", &errors)
	}

	dbConfig := &PoolConfig{
		Host:     dbHost,
		Port:     dbPort,
		User:     dbUser,
		Password: dbPassword,
		DBName:   dbName,
		MaxSize:  poolSize,
	}

	// Auth configuration. The token expiry is expressed in minutes, default 30.
	jwtSecret := getRequiredEnv("JWT_SECRET_KEY", &errors)
	expiryMinutes := getOptionalEnvInt("ACCESS_TOKEN_EXPIRE_MINUTES", 30, &errors)
	if expiryMinutes < 1 {
		errors = append(errors, fmt.Sprintf("invalid value for ACCESS_TOKEN_EXPIRE_MINUTES: must be positive, got %d", expiryMinutes))
		expiryMinutes = 30
	}

	authConfig := &AuthConfig{
		JWTSecret:         jwtSecret,
		AccessTokenExpiry: time.Duration(expiryMinutes) * time.Minute,
	}

	// Server configuration
	serverConfig := &ServerConfig{
		Port: getOptionalEnv("PORT", "8080"),
	}

	if len(errors) > 0 {
		return nil, fmt.Errorf("configuration errors:\n- %s", strings.Join(errors, "\n- "))
	}

	return &AppConfig{
		DB:     dbConfig,
		Auth:   authConfig,
		Server: serverConfig,
	}, nil
}
