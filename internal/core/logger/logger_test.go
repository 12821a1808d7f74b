package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewWithRotateWritesFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "app.log")
	l, cleanup := NewWithRotate("info", true, FileRotate{Filename: file, MaxSizeMB: 1})
	l.Info("hardware created", zap.String("assetTag", "AT-001"))
	l.Debug("filtered out")
	cleanup()

	b, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	out := string(b)
	if !strings.Contains(out, "hardware created") || !strings.Contains(out, "AT-001") {
		t.Fatalf("log line missing: %s", out)
	}
	if strings.Contains(out, "filtered out") {
		t.Fatalf("debug line should be filtered at info level")
	}
}

func TestToWriterTrimsNewlines(t *testing.T) {
	file := filepath.Join(t.TempDir(), "app.log")
	l, cleanup := NewWithRotate("debug", true, FileRotate{Filename: file})
	w := ToWriter(l, zapcore.WarnLevel)
	if _, err := w.Write([]byte("slow query\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	cleanup()

	b, _ := os.ReadFile(file)
	if !strings.Contains(string(b), `"msg":"slow query"`) {
		t.Fatalf("unexpected output: %s", b)
	}
	if !strings.Contains(string(b), `"level":"warn"`) {
		t.Fatalf("expected warn level: %s", b)
	}
}

func TestBuildAddsServiceFields(t *testing.T) {
	file := filepath.Join(t.TempDir(), "app.log")
	l, cleanup := Build(Options{
		Level:   "info",
		JSON:    true,
		Service: "it-inventory",
		Env:     "test",
		Rotate:  FileRotate{Enable: true, Filename: file},
	})
	l.Info("vendor deleted")
	cleanup()

	b, _ := os.ReadFile(file)
	out := string(b)
	if !strings.Contains(out, `"service":"it-inventory"`) || !strings.Contains(out, `"env":"test"`) {
		t.Fatalf("base fields missing: %s", out)
	}
}
