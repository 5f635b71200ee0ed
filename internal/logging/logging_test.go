package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"
	"time"
)

// captureLogOutput redirects the global logger to a buffer while f runs.
func captureLogOutput(t *testing.T, level Level, format Format, f func()) string {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	InitLogger(level, format)
	t.Cleanup(func() {
		output = os.Stderr
		InitLogger(LevelInfo, FormatJSON)
	})
	f()
	return buf.String()
}

func decodeLine(t *testing.T, out string) map[string]any {
	t.Helper()
	line := strings.TrimSpace(out)
	if i := strings.LastIndex(line, "\n"); i >= 0 {
		line = line[i+1:]
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(line), &m); err != nil {
		t.Fatalf("Expected JSON log line, got %q: %v", out, err)
	}
	return m
}

func TestInitLogger(t *testing.T) {
	tests := []struct {
		name      string
		level     Level
		format    Format
		logDebug  bool
		wantDebug bool
	}{
		{"debug json", LevelDebug, FormatJSON, true, true},
		{"info json", LevelInfo, FormatJSON, true, false},
		{"warn text", LevelWarn, FormatText, true, false},
		{"unknown level defaults to info", Level(99), FormatText, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := captureLogOutput(t, tt.level, tt.format, func() {
				Debug("debug message")
			})
			if got := strings.Contains(out, "debug message"); got != tt.wantDebug {
				t.Errorf("Expected debug output %v, got %q", tt.wantDebug, out)
			}
		})
	}
}

func TestTimestampFormat(t *testing.T) {
	out := captureLogOutput(t, LevelInfo, FormatJSON, func() {
		Info("hello")
	})
	m := decodeLine(t, out)
	ts, ok := m["time"].(string)
	if !ok {
		t.Fatalf("Expected time field, got %v", m)
	}
	if _, err := time.Parse(time.RFC3339, ts); err != nil {
		t.Errorf("Expected RFC3339 timestamp, got %q", ts)
	}
}

func TestTextFormat(t *testing.T) {
	out := captureLogOutput(t, LevelInfo, FormatText, func() {
		Warn("careful", "key", "value")
	})
	if !strings.Contains(out, "level=WARN") || !strings.Contains(out, "key=value") {
		t.Errorf("Unexpected text output %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in     string
		want   Level
		wantOK bool
	}{
		{"debug", LevelDebug, true},
		{"INFO", LevelInfo, true},
		{"", LevelInfo, true},
		{"warning", LevelWarn, true},
		{" error ", LevelError, true},
		{"verbose", LevelInfo, false},
	}
	for _, tt := range tests {
		got, ok := ParseLevel(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestParseFormat(t *testing.T) {
	if f, ok := ParseFormat("text"); f != FormatText || !ok {
		t.Errorf("Expected text format, got %v %v", f, ok)
	}
	if f, ok := ParseFormat("JSON"); f != FormatJSON || !ok {
		t.Errorf("Expected json format, got %v %v", f, ok)
	}
	if _, ok := ParseFormat("xml"); ok {
		t.Error("Expected xml to be rejected")
	}
}

func TestImportIDContext(t *testing.T) {
	ctx := WithImportID(context.Background(), "imp-1")
	if got := GetImportID(ctx); got != "imp-1" {
		t.Errorf("Expected imp-1, got %q", got)
	}
	if got := GetImportID(context.Background()); got != "" {
		t.Errorf("Expected empty id, got %q", got)
	}

	out := captureLogOutput(t, LevelInfo, FormatJSON, func() {
		LoggerFromContext(ctx).Info("tagged")
	})
	if m := decodeLine(t, out); m["import_id"] != "imp-1" {
		t.Errorf("Expected import_id field, got %v", m)
	}
}

func TestImportHelpers(t *testing.T) {
	ctx := context.Background()
	out := captureLogOutput(t, LevelDebug, FormatJSON, func() {
		ImportStarted(ctx, "Zefania", "kjv.xml", "dry_run", true)
	})
	m := decodeLine(t, out)
	if m["msg"] != "import_started" || m["format"] != "Zefania" || m["path"] != "kjv.xml" || m["dry_run"] != true {
		t.Errorf("Unexpected import_started record %v", m)
	}

	out = captureLogOutput(t, LevelDebug, FormatJSON, func() {
		ImportWarning(ctx, "Zefania", "kjv.xml", "Verse number for 'Genesis 1' could not be parsed")
	})
	m = decodeLine(t, out)
	if m["level"] != "WARN" || m["warning"] == nil {
		t.Errorf("Unexpected import_warning record %v", m)
	}

	out = captureLogOutput(t, LevelDebug, FormatJSON, func() {
		ImportFailed(ctx, "UnboundBible", "kjv.zip", errors.New("missing member"))
	})
	m = decodeLine(t, out)
	if m["level"] != "ERROR" || m["error"] != "missing member" {
		t.Errorf("Unexpected import_failed record %v", m)
	}

	out = captureLogOutput(t, LevelDebug, FormatJSON, func() {
		ImportFinished(ctx, "ChordPro", "a.cho", 2, 1, 0, 1500*time.Millisecond)
	})
	m = decodeLine(t, out)
	if m["created"] != float64(2) || m["updated"] != float64(1) || m["duration_ms"] != float64(1500) {
		t.Errorf("Unexpected import_finished record %v", m)
	}
}

func TestExportAndStoreHelpers(t *testing.T) {
	out := captureLogOutput(t, LevelInfo, FormatJSON, func() {
		ExportFinished("OpenLyrics", "song-1", 512)
		StoreOpened("sqlite", "liturgy.db")
	})
	if !strings.Contains(out, `"msg":"export_finished"`) || !strings.Contains(out, `"bytes":512`) {
		t.Errorf("Unexpected export output %q", out)
	}
	if !strings.Contains(out, `"backend":"sqlite"`) {
		t.Errorf("Unexpected store output %q", out)
	}
}

func TestLevelFiltering(t *testing.T) {
	out := captureLogOutput(t, LevelError, FormatJSON, func() {
		Info("quiet")
		Warn("quiet too")
		Error("loud")
	})
	if strings.Contains(out, "quiet") || !strings.Contains(out, "loud") {
		t.Errorf("Unexpected filtered output %q", out)
	}
}

func TestGetLogger(t *testing.T) {
	if GetLogger() == nil {
		t.Error("Expected non-nil default logger")
	}
}
