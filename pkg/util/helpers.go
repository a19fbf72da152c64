package util

import (
	"os"
	"strconv"
)

// GetEnvOrDefault retrieves the value of the environment variable named by the key.
// It returns the default value if the variable is not set.
func GetEnvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// GetEnvInt retrieves an integer value from an environment variable.
// It returns the default value if the variable is not set or parsing fails.
func GetEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

// GetEnvInt64 is GetEnvInt for 64-bit values such as seeds.
func GetEnvInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			return i
		}
	}
	return def
}

// GetEnvFloat retrieves a float64 value from an environment variable.
// It returns the default value if the variable is not set or parsing fails.
func GetEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

// GetEnvBool accepts the values understood by strconv.ParseBool.
func GetEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}
