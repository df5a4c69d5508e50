package logger

import (
	"context"
	"testing"

	"go.uber.org/zap"
)

func TestNewLogger_Environments(t *testing.T) {
	for _, env := range []string{"prod", "local", "dev", "docker", "test"} {
		t.Run(env, func(t *testing.T) {
			l, err := NewLogger(env, "")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if l == nil {
				t.Fatal("expected logger")
			}
		})
	}
}

func TestNewLogger_UnknownEnv(t *testing.T) {
	if _, err := NewLogger("staging", ""); err == nil {
		t.Fatal("expected error for unknown env")
	}
}

func TestNewLogger_LevelOverride(t *testing.T) {
	l, err := NewLogger("prod", "warn")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.Core().Enabled(zap.InfoLevel) {
		t.Error("info must be disabled at warn level")
	}
	if !l.Core().Enabled(zap.WarnLevel) {
		t.Error("warn must be enabled")
	}
}

func TestNewLogger_InvalidLevel(t *testing.T) {
	if _, err := NewLogger("local", "loud"); err == nil {
		t.Fatal("expected error for invalid level")
	}
}

func TestFromContext(t *testing.T) {
	if FromContext(context.Background()) == nil {
		t.Fatal("FromContext must never return nil")
	}

	l := zap.NewExample()
	ctx := ContextWithLogger(context.Background(), l)
	if FromContext(ctx) != l {
		t.Error("expected stored logger")
	}
}

func TestFromContextOr(t *testing.T) {
	fallback := zap.NewExample()
	if FromContextOr(context.Background(), fallback) != fallback {
		t.Error("expected fallback when context has no logger")
	}

	stored := zap.NewNop()
	ctx := ContextWithLogger(context.Background(), stored)
	if FromContextOr(ctx, fallback) != stored {
		t.Error("expected stored logger over fallback")
	}
}
