package logger

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/kavitasoren02/TaskManager/internal/config"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"Warn", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
		{"", slog.LevelInfo, true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.input, func(t *testing.T) {
			t.Parallel()
			got, err := ParseLevel(tc.input)
			if tc.wantErr != (err != nil) {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tc.input, err, tc.wantErr)
			}
			if got != tc.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}
}

func TestSetupRejectsInvalidLevel(t *testing.T) {
	if _, err := Setup(config.ServerConfig{LogLevel: "loud"}); err == nil {
		t.Fatal("Expected error for invalid log level")
	}
}

func TestLoggerContextRoundTrip(t *testing.T) {
	t.Parallel()

	base := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := WithLogger(context.Background(), base)

	if got := FromContext(ctx); got != base {
		t.Error("Expected FromContext to return the stored logger")
	}
	if got := FromContext(context.Background()); got != slog.Default() {
		t.Error("Expected FromContext to fall back to the default logger")
	}

	other := slog.New(slog.NewTextHandler(io.Discard, nil))
	if got := FromContextOrDefault(context.Background(), other); got != other {
		t.Error("Expected FromContextOrDefault to return the provided default")
	}
	if got := FromContextOrDefault(ctx, other); got != base {
		t.Error("Expected FromContextOrDefault to prefer the stored logger")
	}
}
