package logger

import (
	"strings"

	"go.uber.org/zap/zapcore"
)

// RedactedValue replaces the value of any sensitive field.
const RedactedValue = "REDACTED"

// sensitiveFieldKeys are matched case-insensitively against field keys.
var sensitiveFieldKeys = map[string]bool{
	"authorization": true,
	"accesstoken":   true,
	"password":      true,
	"params":        true,
	"token":         true,
}

// IsSensitiveField reports whether a field with the given key is redacted when sensitive
// data is hidden.
func IsSensitiveField(key string) bool {
	return sensitiveFieldKeys[strings.ToLower(key)]
}

// redactingCore wraps a zapcore.Core and rewrites sensitive fields before they are encoded.
type redactingCore struct {
	zapcore.Core
}

// With adds structured context to the Core, redacting it first.
func (c *redactingCore) With(fields []zapcore.Field) zapcore.Core {
	return &redactingCore{c.Core.With(redactFields(fields))}
}

// Check determines whether the supplied Entry should be logged. It must register this core
// rather than the wrapped one, otherwise Write would be bypassed.
func (c *redactingCore) Check(entry zapcore.Entry, checkedEntry *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return checkedEntry.AddCore(entry, c)
	}
	return checkedEntry
}

// Write serializes the Entry with redacted fields.
func (c *redactingCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	return c.Core.Write(entry, redactFields(fields))
}

// Sync flushes buffered logs (if any).
func (c *redactingCore) Sync() error {
	return c.Core.Sync()
}

func redactFields(fields []zapcore.Field) []zapcore.Field {
	out := make([]zapcore.Field, 0, len(fields))
	for _, field := range fields {
		if IsSensitiveField(field.Key) {
			field = zapcore.Field{Key: field.Key, Type: zapcore.StringType, String: RedactedValue}
		}
		out = append(out, field)
	}
	return out
}
