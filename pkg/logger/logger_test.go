package logger

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestNewLogger(t *testing.T) {
	// No webhooks configured; every level must still log without panicking
	l := NewLogger("", "")
	if l == nil {
		t.Fatal("Expected logger to be created, got nil")
	}
	defer l.Close()

	l.Info("info line", "TEST")
	l.Warn("warn line", "TEST")
	l.Debug("debug line", "TEST")
	l.System("system line", "TEST")
	l.Success("success line", "TEST")
}

func TestLogLevelString(t *testing.T) {
	tests := []struct {
		level LogLevel
		want  string
	}{
		{LevelCritical, "CRITICAL"},
		{LevelError, "ERROR"},
		{LevelWarn, "WARN"},
		{LevelSuccess, "SUCCESS"},
		{LevelInfo, "INFO"},
		{LevelDebug, "DEBUG"},
		{LevelSystem, "SYSTEM"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.level.String(); got != tt.want {
				t.Errorf("LogLevel.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLogLevelColor(t *testing.T) {
	for _, level := range []LogLevel{
		LevelCritical, LevelError, LevelWarn, LevelSuccess, LevelInfo, LevelDebug, LevelSystem,
	} {
		t.Run(level.String(), func(t *testing.T) {
			if level.Color() == "" {
				t.Errorf("LogLevel.Color() empty for %v", level)
			}
		})
	}
}

func TestLogLevelDiscordColor(t *testing.T) {
	tests := []struct {
		level LogLevel
		want  int
	}{
		{LevelCritical, 0xFF0000},
		{LevelError, 0xFF0000},
		{LevelWarn, 0xFFFF00},
		{LevelSuccess, 0x00FF00},
		{LevelInfo, 0x0000FF},
		{LevelDebug, 0x800080},
		{LevelSystem, 0x808080},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			if got := tt.level.DiscordColor(); got != tt.want {
				t.Errorf("LogLevel.DiscordColor() = %#x, want %#x", got, tt.want)
			}
		})
	}
}

func TestLogFileCreation(t *testing.T) {
	logsDir := filepath.Join(".", "logs")
	os.RemoveAll(logsDir)

	l := NewLogger("", "")
	defer l.Close()

	if _, err := os.Stat(logsDir); os.IsNotExist(err) {
		t.Fatal("Expected logs directory to be created")
	}
	for _, name := range []string{"combined.log", "error.log"} {
		if _, err := os.Stat(filepath.Join(logsDir, name)); os.IsNotExist(err) {
			t.Errorf("Expected %s to be created", name)
		}
	}
}

func TestGlobalLoggerInit(t *testing.T) {
	// Reset the global logger for this test
	logger = nil
	once = sync.Once{}

	l := Init("", "")
	if l == nil {
		t.Fatal("Expected Init to return a logger")
	}
	defer l.Close()

	// Init is once-only; later arguments are ignored
	if l2 := Init("different", "different"); l != l2 {
		t.Error("Expected Init to return the same logger on subsequent calls")
	}
	if l3 := Get(); l != l3 {
		t.Error("Expected Get to return the same logger")
	}
}

func TestPackageLevelHelpers(t *testing.T) {
	logger = nil
	once = sync.Once{}
	l := Init("", "")
	defer l.Close()

	// These are what the rest of the codebase calls; none may panic
	Warn("warn via package func", "TEST")
	Success("success via package func", "TEST")
	Info("info via package func", "TEST")
	Debug("debug via package func", "TEST")
	System("system via package func", "TEST")
}
