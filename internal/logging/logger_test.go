package logging

import (
	"bytes"
	"errors"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestFieldHelpers(t *testing.T) {
	tests := []struct {
		name  string
		field Field
		key   string
		value any
	}{
		{"String", String("strategy", "parallel"), "strategy", "parallel"},
		{"Int", Int("dim", 512), "dim", 512},
		{"Uint64", Uint64("bytes", 1<<40), "bytes", uint64(1 << 40)},
		{"Float64", Float64("progress", 0.75), "progress", 0.75},
		{"Duration", Duration("elapsed", time.Second), "elapsed", time.Second},
		{"Err nil", Err(nil), "error", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.field.Key != tt.key {
				t.Errorf("Key = %q, want %q", tt.field.Key, tt.key)
			}
			if tt.field.Value != tt.value {
				t.Errorf("Value = %v, want %v", tt.field.Value, tt.value)
			}
		})
	}

	boom := errors.New("boom")
	if f := Err(boom); f.Key != "error" || f.Value != boom {
		t.Errorf("Err(boom) = %+v", f)
	}
}

func TestNewLogger_IncludesComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "calibration")
	logger.Info("probe finished", Int("dim", 256))

	out := buf.String()
	for _, want := range []string{"calibration", "probe finished", `"dim":256`, `"level":"info"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output should contain %q, got: %s", want, out)
		}
	}
}

func TestNewDefaultLogger(t *testing.T) {
	if NewDefaultLogger() == nil {
		t.Fatal("NewDefaultLogger returned nil")
	}
}

func TestZerologAdapter_Levels(t *testing.T) {
	tests := []struct {
		name     string
		log      func(Logger)
		contains []string
	}{
		{
			name:     "error with cause",
			log:      func(l Logger) { l.Error("multiplication failed", errors.New("row task 3 failed"), String("strategy", "parallel")) },
			contains: []string{`"level":"error"`, "multiplication failed", "row task 3 failed", "parallel"},
		},
		{
			name:     "error without cause",
			log:      func(l Logger) { l.Error("no result", nil) },
			contains: []string{`"level":"error"`, "no result"},
		},
		{
			name:     "debug",
			log:      func(l Logger) { l.Debug("partitioned", Int("tasks", 8)) },
			contains: []string{`"level":"debug"`, "partitioned", `"tasks":8`},
		},
		{
			name:     "printf",
			log:      func(l Logger) { l.Printf("%dx%d product ready", 4, 4) },
			contains: []string{"4x4 product ready"},
		},
		{
			name:     "println",
			log:      func(l Logger) { l.Println("workers", 8) },
			contains: []string{"workers 8"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.log(NewZerologAdapter(zerolog.New(&buf).Level(zerolog.DebugLevel)))
			out := buf.String()
			for _, want := range tt.contains {
				if !strings.Contains(out, want) {
					t.Errorf("output should contain %q, got: %s", want, out)
				}
			}
		})
	}
}

func TestZerologAdapter_FieldTypes(t *testing.T) {
	tests := []struct {
		name     string
		field    Field
		contains string
	}{
		{"string", Field{Key: "s", Value: "sequential"}, `"s":"sequential"`},
		{"int", Field{Key: "n", Value: 7}, `"n":7`},
		{"int64", Field{Key: "sum", Value: int64(-1) << 40}, "-1099511627776"},
		{"uint64", Field{Key: "u", Value: uint64(18446744073709551615)}, "18446744073709551615"},
		{"float64", Field{Key: "f", Value: 0.5}, "0.5"},
		{"duration", Field{Key: "d", Value: 1500 * time.Millisecond}, `"d":1500`},
		{"error", Field{Key: "cause", Value: errors.New("oops")}, `"cause":"oops"`},
		{"bool", Field{Key: "ok", Value: true}, `"ok":true`},
		{"struct", Field{Key: "shape", Value: struct{ Dim int }{Dim: 3}}, `"Dim":3`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			NewLogger(&buf, "test").Info("fields", tt.field)
			if !strings.Contains(buf.String(), tt.contains) {
				t.Errorf("output should contain %q, got: %s", tt.contains, buf.String())
			}
		})
	}
}

func TestStdLoggerAdapter(t *testing.T) {
	tests := []struct {
		name     string
		log      func(Logger)
		contains []string
	}{
		{"info", func(l Logger) { l.Info("loaded profile", String("path", "/tmp/p.json")) }, []string{"[INFO] loaded profile", "path=/tmp/p.json"}},
		{"error", func(l Logger) { l.Error("read failed", errors.New("bad row"), Int("line", 3)) }, []string{"[ERROR] read failed", "error=bad row", "line=3"}},
		{"debug", func(l Logger) { l.Debug("tick") }, []string{"[DEBUG] tick"}},
		{"printf", func(l Logger) { l.Printf("dim=%d", 9) }, []string{"dim=9"}},
		{"println", func(l Logger) { l.Println("a", "b") }, []string{"a b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.log(NewStdLoggerAdapter(log.New(&buf, "", 0)))
			for _, want := range tt.contains {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("output should contain %q, got: %s", want, buf.String())
				}
			}
		})
	}
}

func TestNewConsoleLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewConsoleLogger(&buf, true).Level(zerolog.InfoLevel)
	l.Info().Int("dim", 2).Msg("ready")
	out := buf.String()
	if !strings.Contains(out, "ready") || !strings.Contains(out, "dim=2") {
		t.Errorf("unexpected console output: %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		verbose bool
		want    zerolog.Level
		wantErr bool
	}{
		{"default", "", false, zerolog.WarnLevel, false},
		{"explicit info", "info", false, zerolog.InfoLevel, false},
		{"case insensitive", " ERROR ", false, zerolog.ErrorLevel, false},
		{"verbose lowers", "warn", true, zerolog.DebugLevel, false},
		{"verbose keeps trace", "trace", true, zerolog.TraceLevel, false},
		{"verbose keeps disabled", "disabled", true, zerolog.Disabled, false},
		{"invalid", "loud", false, zerolog.NoLevel, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLevel(tt.input, tt.verbose)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q, %v) = %v, want %v", tt.input, tt.verbose, got, tt.want)
			}
		})
	}
}

func TestLoggerInterface(t *testing.T) {
	var _ Logger = NewLogger(&bytes.Buffer{}, "test")
	var _ Logger = NewStdLoggerAdapter(log.New(&bytes.Buffer{}, "", 0))
}
