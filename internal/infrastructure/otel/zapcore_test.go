package otel

import (
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestZapFieldToOTELAttribute(t *testing.T) {
	tests := []struct {
		field zapcore.Field
		kind  log.Kind
		check func(log.Value) bool
	}{
		{zap.String("package", "github.com/acme/widgets"), log.KindString, func(v log.Value) bool { return v.AsString() == "github.com/acme/widgets" }},
		{zap.Int("status", 409), log.KindInt64, func(v log.Value) bool { return v.AsInt64() == 409 }},
		{zap.Bool("insecure", true), log.KindBool, func(v log.Value) bool { return v.AsBool() }},
		{zap.Float64("ratio", 0.25), log.KindFloat64, func(v log.Value) bool { return v.AsFloat64() == 0.25 }},
		{zap.Duration("latency", 1500 * time.Millisecond), log.KindString, func(v log.Value) bool { return v.AsString() == "1.5s" }},
		{zap.Error(errors.New("boom")), log.KindString, func(v log.Value) bool { return v.AsString() == "boom" }},
	}
	for _, tt := range tests {
		t.Run(tt.field.Key, func(t *testing.T) {
			kv := zapFieldToOTELAttribute(tt.field)
			if kv.Key != tt.field.Key {
				t.Fatalf("key = %q", kv.Key)
			}
			if kv.Value.Kind() != tt.kind || !tt.check(kv.Value) {
				t.Fatalf("unexpected value %v", kv.Value)
			}
		})
	}
}

func TestZapFieldSkipped(t *testing.T) {
	if kv := zapFieldToOTELAttribute(zap.Skip()); kv.Key != "" {
		t.Fatalf("expected skip field to be dropped, got %q", kv.Key)
	}
}

func TestSeverityMapping(t *testing.T) {
	if zapLevelToOTELSeverity(zapcore.WarnLevel) != log.SeverityWarn {
		t.Fatalf("warn mapping")
	}
	if zapLevelToOTELSeverity(zapcore.FatalLevel) != log.SeverityFatal {
		t.Fatalf("fatal mapping")
	}
}
