package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug": zapcore.DebugLevel,
		"warn":  zapcore.WarnLevel,
		"error": zapcore.ErrorLevel,
		"bogus": zapcore.InfoLevel,
		"":      zapcore.InfoLevel,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "odinpkg.log")
	l, err := New(&Config{Level: "info", Format: "json", OutputPath: path})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.WithFields(Component("publish"), Package("github.com/acme/widgets")).Info("published")
	l.Debug("hidden")
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, `"component":"publish"`) || !strings.Contains(out, `"package":"github.com/acme/widgets"`) {
		t.Fatalf("missing fields in %s", out)
	}
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug entry written at info level")
	}
}

func TestGetFallsBackToDefault(t *testing.T) {
	SetGlobal(nil)
	if Get() == nil {
		t.Fatalf("expected default global logger")
	}
	SetGlobal(NewNop())
}
