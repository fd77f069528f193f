package memory

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	apperrors "github.com/agbru/matcalc/internal/errors"
)

func TestEstimateMemoryUsage(t *testing.T) {
	t.Parallel()
	e := EstimateMemoryUsage(1024, 1)
	if e.Operands != 8<<20 || e.Result != 4<<20 || e.Total != 12<<20 {
		t.Errorf("EstimateMemoryUsage(1024, 1) = %+v", e)
	}
	both := EstimateMemoryUsage(1024, 2)
	if both.Total != 16<<20 {
		t.Errorf("two strategies should add one result buffer, got %+v", both)
	}
	if (EstimateMemoryUsage(0, 1) != Estimate{}) {
		t.Error("non-positive dim should estimate zero")
	}
	if EstimateMemoryUsage(4, 0).Result != 64 {
		t.Error("strategies below one should count as one")
	}
}

func TestParseMemoryLimit(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in      string
		want    uint64
		wantErr bool
	}{
		{"", 0, false},
		{"1024", 1024, false},
		{"512MB", 512 << 20, false},
		{"2gib", 2 << 30, false},
		{" 1.5 G ", 3 << 29, false},
		{"64k", 64 << 10, false},
		{"100B", 100, false},
		{"lots", 0, true},
		{"-1GB", 0, true},
		{"0", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseMemoryLimit(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMemoryLimit(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseMemoryLimit(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestCheckBudget(t *testing.T) {
	t.Parallel()
	if err := CheckBudget(100, 0, 0); err != nil {
		t.Errorf("no limit should pass, got %v", err)
	}
	if err := CheckBudget(100, 200, 0); err != nil {
		t.Errorf("within limit should pass, got %v", err)
	}

	err := CheckBudget(300, 200, 1000)
	var memErr apperrors.MemoryError
	if !errors.As(err, &memErr) || memErr.Requested != 300 || memErr.Limit != 200 {
		t.Errorf("expected MemoryError over limit, got %v", err)
	}
	if err := CheckBudget(300, 0, 100); !errors.As(err, &memErr) {
		t.Errorf("expected MemoryError over available memory, got %v", err)
	}
}

func TestGCController_Modes(t *testing.T) {
	t.Parallel()
	tests := []struct {
		mode      string
		footprint uint64
		active    bool
	}{
		{"aggressive", 0, true},
		{"auto", GCAutoThreshold, true},
		{"auto", GCAutoThreshold - 1, false},
		{"disabled", 1 << 40, false},
		{"bogus", 1 << 40, false},
	}
	for _, tt := range tests {
		if got := NewGCController(tt.mode, tt.footprint).Active(); got != tt.active {
			t.Errorf("NewGCController(%q, %d).Active() = %v, want %v", tt.mode, tt.footprint, got, tt.active)
		}
	}
}

var sink []byte

// TestGCController_BeginEnd is not parallel: it changes process-wide GC
// settings.
func TestGCController_BeginEnd(t *testing.T) {
	var buf bytes.Buffer
	gc := NewGCController("aggressive", 0)
	gc.SetLogger(zerolog.New(&buf).Level(zerolog.DebugLevel))

	gc.Begin()
	sink = make([]byte, 1<<20)
	gc.End()
	sink = nil

	if stats := gc.Stats(); stats.TotalAlloc == 0 {
		t.Error("expected allocations to be recorded between Begin and End")
	}
	out := buf.String()
	if !strings.Contains(out, "gc suspended") || !strings.Contains(out, "gc restored") {
		t.Errorf("expected suspend and restore logs, got: %s", out)
	}

	inactive := NewGCController("disabled", 0)
	inactive.Begin()
	inactive.End()
	if (inactive.Stats() != GCStats{}) {
		t.Error("inactive controller should report zero stats")
	}
}
