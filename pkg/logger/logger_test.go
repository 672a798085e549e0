package logger

import (
	"testing"

	"go-inventory-console/pkg/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestInit_Level(t *testing.T) {
	log := Init(&config.Config{Log: config.LogConfig{Level: "warn"}})
	if log.Core().Enabled(zapcore.InfoLevel) || !log.Core().Enabled(zapcore.WarnLevel) {
		t.Fatalf("expected warn level")
	}

	log = Init(&config.Config{Log: config.LogConfig{Level: "chatty"}})
	if !log.Core().Enabled(zapcore.InfoLevel) || log.Core().Enabled(zapcore.DebugLevel) {
		t.Fatalf("unknown level should fall back to info")
	}
}

func TestOrNop(t *testing.T) {
	if OrNop(nil) == nil {
		t.Fatalf("expected a no-op logger")
	}
	l := zap.NewExample()
	if OrNop(l) != l {
		t.Fatalf("non-nil logger should be returned as is")
	}
}
