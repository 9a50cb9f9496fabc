package logging

import (
	"encoding/hex"
	"fmt"
	"net/url"
	"os"
	"sort"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger *zap.Logger

// LogLevelEnvVar is the environment variable that controls logging verbosity.
// When unset or empty, logging is silent (no zap output).
// Valid values: "debug", "info", "warn", "error"
const LogLevelEnvVar = "RELAYLINK_LOG_LEVEL"

// Initialize creates a new logger with the specified level.
// If level is empty, it checks RELAYLINK_LOG_LEVEL environment variable.
// If neither is set, logging is disabled (silent mode).
func Initialize(level string) error {
	if level == "" {
		level = os.Getenv(LogLevelEnvVar)
	}

	if level == "" {
		logger = zap.NewNop()
		return nil
	}

	var zapLevel zapcore.Level
	switch strings.ToLower(level) {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}

	config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	built, err := config.Build(zap.WrapCore(newRedactingCore))
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger = built

	return nil
}

// InitializeFromEnv initializes the logger from the RELAYLINK_LOG_LEVEL
// environment variable.
func InitializeFromEnv() error {
	return Initialize("")
}

// ReplaceLogger installs l (wrapped with credential redaction) as the global
// logger and returns a function restoring the previous one.
func ReplaceLogger(l *zap.Logger) func() {
	previous := logger
	logger = l.WithOptions(zap.WrapCore(newRedactingCore))
	return func() { logger = previous }
}

// GetLogger returns the global logger instance
func GetLogger() *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return logger
}

// Info logs an info message
func Info(msg string, fields ...zap.Field) {
	GetLogger().Info(msg, fields...)
}

// Debug logs a debug message
func Debug(msg string, fields ...zap.Field) {
	GetLogger().Debug(msg, fields...)
}

// Warn logs a warning message
func Warn(msg string, fields ...zap.Field) {
	GetLogger().Warn(msg, fields...)
}

// Error logs an error message
func Error(msg string, fields ...zap.Field) {
	GetLogger().Error(msg, fields...)
}

// Fatal logs a fatal message and exits
func Fatal(msg string, fields ...zap.Field) {
	GetLogger().Fatal(msg, fields...)
}

// LogHTTPRequest logs an outgoing relay request. Credential-looking form
// fields are redacted.
func LogHTTPRequest(method, endpoint string, form url.Values) {
	fields := []zap.Field{
		zap.String("method", method),
		zap.String("url", endpoint),
	}
	if len(form) > 0 {
		fields = append(fields, zap.Any("form", RedactForm(form)))
	}
	Debug("Relay request", fields...)
}

// LogHTTPResponse logs a relay response. Only cookie names are logged.
func LogHTTPResponse(method, endpoint string, statusCode int, setCookieNames []string) {
	fields := []zap.Field{
		zap.String("method", method),
		zap.String("url", endpoint),
		zap.Int("status_code", statusCode),
	}
	if len(setCookieNames) > 0 {
		fields = append(fields, zap.Strings("set_cookie_names", setCookieNames))
	}
	Debug("Relay response", fields...)
}

// LogRawBytes logs raw bytes (useful for debugging firmware response shapes)
func LogRawBytes(label string, data []byte) {
	Debug(label,
		zap.Int("length", len(data)),
		zap.String("hex", hexDump(data)),
		zap.String("ascii", asciiDump(data)),
	)
}

// RedactForm flattens form values for logging, replacing credential values
func RedactForm(form url.Values) map[string]string {
	keys := make([]string, 0, len(form))
	for k := range form {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(map[string]string, len(form))
	for _, k := range keys {
		v := strings.Join(form[k], ",")
		if IsSensitiveKey(k) && v != "" {
			v = RedactedValue
		}
		out[k] = v
	}
	return out
}

func hexDump(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	if len(data) > 256 {
		return hex.EncodeToString(data[:256]) + "..."
	}
	return hex.EncodeToString(data)
}

func asciiDump(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	if len(data) > 256 {
		data = data[:256]
	}

	result := make([]byte, len(data))
	for i, b := range data {
		if b >= 32 && b <= 126 {
			result[i] = b
		} else {
			result[i] = '.'
		}
	}
	return string(result)
}

// Sync flushes any buffered log entries
func Sync() {
	if logger != nil {
		_ = logger.Sync()
	}
}
