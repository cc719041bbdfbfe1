package logger

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name    string
		env     string
		level   string
		want    zapcore.Level
		wantErr bool
	}{
		{name: "local defaults to debug", env: "local", want: zapcore.DebugLevel},
		{name: "prod defaults to info", env: "prod", want: zapcore.InfoLevel},
		{name: "override", env: "prod", level: "warn", want: zapcore.WarnLevel},
		{name: "unknown env", env: "staging", wantErr: true},
		{name: "bad level", env: "local", level: "loud", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := NewLogger(tt.env, tt.level)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewLogger: %v", err)
			}
			if got := l.Level(); got != tt.want {
				t.Errorf("level = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFromContext_Missing(t *testing.T) {
	if l := FromContext(context.Background()); l == nil {
		t.Fatal("expected a no-op logger, got nil")
	}
}

func TestWith(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	ctx := ContextWithLogger(context.Background(), zap.New(core))

	ctx, l := With(ctx, zap.String("tool", "find_restaurants"))
	l.Info("direct")
	FromContext(ctx).Info("from context")

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	for _, e := range entries {
		if e.ContextMap()["tool"] != "find_restaurants" {
			t.Errorf("entry %q missing tool field: %v", e.Message, e.ContextMap())
		}
	}
}
