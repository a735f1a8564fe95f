package logger

import (
	"time"

	"go.uber.org/zap"
)

// Field type alias for convenience
type Field = zap.Field

// String constructs a field with the given key and value
func String(key string, val string) Field {
	return zap.String(key, val)
}

// Strings constructs a field with the given key and slice of strings
func Strings(key string, val []string) Field {
	return zap.Strings(key, val)
}

// Int constructs a field with the given key and value
func Int(key string, val int) Field {
	return zap.Int(key, val)
}

// Int64 constructs a field with the given key and value
func Int64(key string, val int64) Field {
	return zap.Int64(key, val)
}

// Bool constructs a field with the given key and value
func Bool(key string, val bool) Field {
	return zap.Bool(key, val)
}

// Duration constructs a field with the given key and value
func Duration(key string, val time.Duration) Field {
	return zap.Duration(key, val)
}

// Error constructs a field that lazily stores err.Error() under the key "error"
func Error(err error) Field {
	return zap.Error(err)
}

// Any takes a key and an arbitrary value and chooses the best way to represent them
func Any(key string, val interface{}) Field {
	return zap.Any(key, val)
}

// HTTP request fields

// RequestID constructs a field for request ID
func RequestID(id string) Field {
	return String("request_id", id)
}

// TraceID constructs a field for trace ID (OTEL)
func TraceID(id string) Field {
	return String("trace_id", id)
}

// SpanID constructs a field for span ID (OTEL)
func SpanID(id string) Field {
	return String("span_id", id)
}

// UserID constructs a field for user ID
func UserID(id string) Field {
	return String("user_id", id)
}

// Method constructs a field for HTTP method
func Method(method string) Field {
	return String("method", method)
}

// Path constructs a field for URL path
func Path(path string) Field {
	return String("path", path)
}

// StatusCode constructs a field for HTTP status code
func StatusCode(code int) Field {
	return Int("status_code", code)
}

// Latency constructs a field for request latency
func Latency(d time.Duration) Field {
	return Duration("latency", d)
}

// ClientIP constructs a field for client IP address
func ClientIP(ip string) Field {
	return String("client_ip", ip)
}

// UserAgent constructs a field for user agent
func UserAgent(ua string) Field {
	return String("user_agent", ua)
}

// Query constructs a field for URL query string
func Query(q string) Field {
	return String("query", q)
}

// BodySize constructs a field for response body size
func BodySize(size int) Field {
	return Int("body_size", size)
}

// Service fields

// Component constructs a field for component name
func Component(name string) Field {
	return String("component", name)
}

// Operation constructs a field for operation name
func Operation(name string) Field {
	return String("operation", name)
}

// Service constructs a field for service name
func Service(name string) Field {
	return String("service", name)
}

// Version constructs a field for the running build version
func Version(version string) Field {
	return String("version", version)
}

// Registry fields

// Package constructs a field for a package identity (host/owner/repo)
func Package(id string) Field {
	return String("package", id)
}

// PackageVersion constructs a field for a package version
func PackageVersion(v string) Field {
	return String("package_version", v)
}

// Host constructs a field for an upstream host
func Host(host string) Field {
	return String("host", host)
}

// Login constructs a field for a user login
func Login(login string) Field {
	return String("login", login)
}
