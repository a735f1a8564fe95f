package otel

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.opentelemetry.io/otel/log"
	"go.uber.org/zap/zapcore"
)

// ZapCore is a zapcore.Core implementation that sends logs to OpenTelemetry
type ZapCore struct {
	zapcore.LevelEnabler
	provider *Provider
	logger   log.Logger
	fields   []zapcore.Field
}

// NewZapCore creates a new ZapCore that exports logs to OTEL
func NewZapCore(provider *Provider, level zapcore.LevelEnabler) *ZapCore {
	return &ZapCore{
		LevelEnabler: level,
		provider:     provider,
		logger:       provider.Logger(),
	}
}

// With creates a new ZapCore with additional fields
func (c *ZapCore) With(fields []zapcore.Field) zapcore.Core {
	newFields := make([]zapcore.Field, 0, len(c.fields)+len(fields))
	newFields = append(newFields, c.fields...)
	newFields = append(newFields, fields...)

	return &ZapCore{
		LevelEnabler: c.LevelEnabler,
		provider:     c.provider,
		logger:       c.logger,
		fields:       newFields,
	}
}

// Check implements zapcore.Core
func (c *ZapCore) Check(entry zapcore.Entry, checked *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return checked.AddCore(entry, c)
	}
	return checked
}

// Write implements zapcore.Core
func (c *ZapCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	record := log.Record{}
	record.SetTimestamp(entry.Time)
	record.SetSeverity(zapLevelToOTELSeverity(entry.Level))
	record.SetSeverityText(entry.Level.String())
	record.SetBody(log.StringValue(entry.Message))

	attrs := make([]log.KeyValue, 0, len(c.fields)+len(fields)+3)
	if entry.Caller.Defined {
		attrs = append(attrs, log.String("caller", entry.Caller.TrimmedPath()))
	}
	if entry.LoggerName != "" {
		attrs = append(attrs, log.String("logger", entry.LoggerName))
	}
	if entry.Stack != "" {
		attrs = append(attrs, log.String("stacktrace", entry.Stack))
	}
	for _, group := range [][]zapcore.Field{c.fields, fields} {
		for _, field := range group {
			if attr := zapFieldToOTELAttribute(field); attr.Key != "" {
				attrs = append(attrs, attr)
			}
		}
	}
	record.AddAttributes(attrs...)

	c.logger.Emit(context.Background(), record)
	return nil
}

// Sync implements zapcore.Core
func (c *ZapCore) Sync() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return c.provider.ForceFlush(ctx)
}

func zapLevelToOTELSeverity(level zapcore.Level) log.Severity {
	switch level {
	case zapcore.DebugLevel:
		return log.SeverityDebug
	case zapcore.InfoLevel:
		return log.SeverityInfo
	case zapcore.WarnLevel:
		return log.SeverityWarn
	case zapcore.ErrorLevel, zapcore.DPanicLevel:
		return log.SeverityError
	case zapcore.PanicLevel, zapcore.FatalLevel:
		return log.SeverityFatal
	default:
		return log.SeverityInfo
	}
}

func zapFieldToOTELAttribute(field zapcore.Field) log.KeyValue {
	switch field.Type {
	case zapcore.BoolType:
		return log.Bool(field.Key, field.Integer == 1)
	case zapcore.Int64Type, zapcore.Int32Type, zapcore.Int16Type, zapcore.Int8Type,
		zapcore.Uint64Type, zapcore.Uint32Type, zapcore.Uint16Type, zapcore.Uint8Type:
		return log.Int64(field.Key, field.Integer)
	case zapcore.Float64Type:
		return log.Float64(field.Key, math.Float64frombits(uint64(field.Integer)))
	case zapcore.Float32Type:
		return log.Float64(field.Key, float64(math.Float32frombits(uint32(field.Integer))))
	case zapcore.StringType:
		return log.String(field.Key, field.String)
	case zapcore.DurationType:
		return log.String(field.Key, time.Duration(field.Integer).String())
	case zapcore.TimeType:
		t := time.Unix(0, field.Integer)
		if loc, ok := field.Interface.(*time.Location); ok {
			t = t.In(loc)
		}
		return log.String(field.Key, t.Format(time.RFC3339Nano))
	case zapcore.TimeFullType:
		if t, ok := field.Interface.(time.Time); ok {
			return log.String(field.Key, t.Format(time.RFC3339Nano))
		}
	case zapcore.ErrorType:
		if err, ok := field.Interface.(error); ok {
			return log.String(field.Key, err.Error())
		}
	case zapcore.StringerType:
		if s, ok := field.Interface.(fmt.Stringer); ok {
			return log.String(field.Key, s.String())
		}
	case zapcore.BinaryType:
		if b, ok := field.Interface.([]byte); ok {
			return log.Bytes(field.Key, b)
		}
	case zapcore.ByteStringType:
		if b, ok := field.Interface.([]byte); ok {
			return log.String(field.Key, string(b))
		}
	case zapcore.SkipType, zapcore.NamespaceType:
		return log.KeyValue{}
	default:
		if field.Interface != nil {
			return log.String(field.Key, fmt.Sprintf("%v", field.Interface))
		}
	}
	return log.KeyValue{}
}

// NewCombinedCore creates a zapcore.Core that writes to both a local core and OTEL
func NewCombinedCore(localCore zapcore.Core, provider *Provider, level zapcore.LevelEnabler) zapcore.Core {
	return zapcore.NewTee(localCore, NewZapCore(provider, level))
}

var _ zapcore.Core = (*ZapCore)(nil)
