package logging

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestTraceIDFromContext(t *testing.T) {
	if got := TraceIDFromContext(context.Background()); got != nil {
		t.Fatalf("expected nil trace ID, got %v", got)
	}
	ctx := contextWithTraceID(context.Background(), "req-abc")
	got := TraceIDFromContext(ctx)
	if got == nil || *got != "req-abc" {
		t.Fatalf("expected req-abc, got %v", got)
	}
	if same := contextWithTraceID(ctx, ""); same != ctx {
		t.Fatal("expected same context for empty trace ID")
	}
}

func TestLogHelpersUseContextLogger(t *testing.T) {
	tests := []struct {
		name  string
		log   func(ctx context.Context)
		level zapcore.Level
	}{
		{"debug", func(ctx context.Context) { LogDebug(ctx, "msg", zap.String("foo", "bar")) }, zapcore.DebugLevel},
		{"info", func(ctx context.Context) { LogInfo(ctx, "msg", zap.String("foo", "bar")) }, zapcore.InfoLevel},
		{"warn", func(ctx context.Context) { LogWarn(ctx, "msg", zap.String("foo", "bar")) }, zapcore.WarnLevel},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			core, recorded := observer.New(zapcore.DebugLevel)
			ctx := WithLogger(context.Background(), zap.New(core))

			tc.log(ctx)

			entries := recorded.All()
			if len(entries) != 1 {
				t.Fatalf("expected 1 log entry, got %d", len(entries))
			}
			if entries[0].Level != tc.level {
				t.Fatalf("expected level %s, got %s", tc.level, entries[0].Level)
			}
			if len(entries[0].Context) != 1 || entries[0].Context[0].String != "bar" {
				t.Fatalf("unexpected context fields: %+v", entries[0].Context)
			}
		})
	}
}

func TestLogErrorAppendsErrorField(t *testing.T) {
	core, recorded := observer.New(zapcore.ErrorLevel)
	ctx := WithLogger(context.Background(), zap.New(core))

	LogError(ctx, "failed", errors.New("boom"))
	LogError(ctx, "failed quietly", nil)

	entries := recorded.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 log entries, got %d", len(entries))
	}
	if f := entries[0].Context; len(f) != 1 || f[0].Key != "error" || f[0].Type != zapcore.ErrorType {
		t.Fatalf("expected error field, got %+v", f)
	}
	if len(entries[1].Context) != 0 {
		t.Fatalf("did not expect fields for nil error, got %+v", entries[1].Context)
	}
}

func TestLogFatalUsesFatalHook(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	ctx := WithLogger(context.Background(), zap.New(core, zap.WithFatalHook(zapcore.WriteThenPanic)))

	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic triggered by fatal hook")
		}
		entries := recorded.All()
		if len(entries) != 1 || entries[0].Level != zapcore.FatalLevel {
			t.Fatalf("expected one fatal entry, got %+v", entries)
		}
	}()

	LogFatal(ctx, "config invalid", errors.New("bad target"))
}

func TestLoggerFromContextFallbacks(t *testing.T) {
	var nilCtx context.Context //nolint:revive // testing nil context handling
	if LoggerFromContext(nilCtx) == nil {
		t.Fatal("expected non-nil logger for nil context")
	}
	ctx := context.WithValue(context.Background(), ctxLoggerKey{}, (*zap.Logger)(nil))
	if LoggerFromContext(ctx) == nil {
		t.Fatal("expected non-nil logger when context has nil logger")
	}
	if WithLogger(nilCtx, zap.NewNop()) == nil {
		t.Fatal("expected non-nil context")
	}
}
