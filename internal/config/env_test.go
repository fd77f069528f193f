package config

import (
	"bytes"
	"testing"
	"time"
)

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("MATCALC_DIM", "128")
	t.Setenv("MATCALC_STRATEGY", "sequential")
	t.Setenv("MATCALC_TIMEOUT", "30s")
	t.Setenv("MATCALC_QUIET", "yes")
	t.Setenv("MATCALC_SEED", "7")
	t.Setenv("MATCALC_WORKERS", "not-a-number")

	cfg, err := ParseConfig("matcalc", nil, &bytes.Buffer{}, testStrategies)
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if cfg.Dim != 128 || cfg.Strategy != "sequential" || cfg.Timeout != 30*time.Second {
		t.Errorf("environment not applied: %+v", cfg)
	}
	if !cfg.Quiet || cfg.Seed != 7 {
		t.Errorf("environment not applied: %+v", cfg)
	}
	if cfg.Workers != 0 {
		t.Errorf("invalid MATCALC_WORKERS should be ignored, got %d", cfg.Workers)
	}
}

func TestApplyEnvOverrides_FlagWins(t *testing.T) {
	t.Setenv("MATCALC_DIM", "128")
	t.Setenv("MATCALC_VERBOSE", "true")

	cfg, err := ParseConfig("matcalc", []string{"-d", "16", "-v=false"}, &bytes.Buffer{}, testStrategies)
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if cfg.Dim != 16 {
		t.Errorf("short flag should beat environment, got dim %d", cfg.Dim)
	}
	if cfg.Verbose {
		t.Error("explicit -v=false should beat MATCALC_VERBOSE")
	}
}

func TestParseBoolEnv(t *testing.T) {
	tests := []struct {
		in   string
		def  bool
		want bool
	}{
		{"true", false, true},
		{"YES", false, true},
		{"1", false, true},
		{"no", true, false},
		{"0", true, false},
		{"maybe", true, true},
		{"maybe", false, false},
	}
	for _, tt := range tests {
		if got := parseBoolEnv(tt.in, tt.def); got != tt.want {
			t.Errorf("parseBoolEnv(%q, %v) = %v, want %v", tt.in, tt.def, got, tt.want)
		}
	}
}
