package logging

import (
	"strings"

	"go.uber.org/zap/zapcore"
)

// RedactedValue replaces sensitive values in log output
const RedactedValue = "***REDACTED***"

// sensitiveKeyPatterns mark field and form keys whose values are never logged
var sensitiveKeyPatterns = []string{
	"password",
	"passwd",
	"pwd",
	"secret",
	"token",
	"credential",
	"digest",
	"passphrase",
	"cookie",
}

// IsSensitiveKey reports whether a field or form key names a credential
func IsSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, pattern := range sensitiveKeyPatterns {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}

// redactingCore replaces string fields with sensitive keys before they reach
// the wrapped core.
type redactingCore struct {
	zapcore.Core
}

func newRedactingCore(core zapcore.Core) zapcore.Core {
	if _, already := core.(*redactingCore); already {
		return core
	}
	return &redactingCore{Core: core}
}

func (c *redactingCore) With(fields []zapcore.Field) zapcore.Core {
	return &redactingCore{Core: c.Core.With(redactFields(fields))}
}

func (c *redactingCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c *redactingCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	return c.Core.Write(ent, redactFields(fields))
}

func redactFields(fields []zapcore.Field) []zapcore.Field {
	var out []zapcore.Field
	for i, f := range fields {
		if !isRedactable(f) {
			continue
		}
		if out == nil {
			out = make([]zapcore.Field, len(fields))
			copy(out, fields)
		}
		out[i] = zapcore.Field{Key: f.Key, Type: zapcore.StringType, String: RedactedValue}
	}
	if out == nil {
		return fields
	}
	return out
}

func isRedactable(f zapcore.Field) bool {
	if !IsSensitiveKey(f.Key) {
		return false
	}
	switch f.Type {
	case zapcore.StringType:
		return f.String != ""
	case zapcore.ByteStringType, zapcore.BinaryType, zapcore.StringerType, zapcore.ReflectType:
		return true
	default:
		return false
	}
}
