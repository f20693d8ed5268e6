package config

import (
	"io"
	"time"
)

// DurationConfig reads integer values and scales them into durations.
type DurationConfig interface {
	// GetSecond reads the value for key as a number of seconds.
	GetSecond(key string) time.Duration

	// GetMinute reads the value for key as a number of minutes.
	GetMinute(key string) time.Duration
}

// NumberConfig reads numeric values. Missing or malformed values yield zero.
type NumberConfig interface {
	GetInt(key string) int
	GetInt32(key string) int32
	GetInt64(key string) int64
	GetFloat64(key string) float64
}

// Config is the read side of the service configuration.
//
// Keys are dot separated paths into the YAML document (for example
// "modules.identity.otp_ttl_minutes"). Every key can be overridden by an
// environment variable named after the key in upper snake case with the
// OTPGATE_ prefix (OTPGATE_MODULES_IDENTITY_OTP_TTL_MINUTES).
type Config interface {
	io.Closer
	DurationConfig
	NumberConfig

	// GetBool reads the value for key as a bool.
	GetBool(key string) bool

	// GetString reads the value for key as a string.
	GetString(key string) string

	// GetBinary reads a base64 encoded value for key. It returns nil when the
	// value is not valid base64.
	GetBinary(key string) []byte

	// GetArray reads a value stored as <element1>,<element2>,... Elements are
	// trimmed and empty elements are dropped.
	GetArray(key string) []string

	// GetMap reads a value stored as <key1>:<value1>,<key2>:<value2>,...
	GetMap(key string) map[string]string
}
