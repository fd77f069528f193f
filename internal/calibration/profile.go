package calibration

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/agbru/matcalc/internal/config"
	"github.com/agbru/matcalc/internal/sysmon"
)

const (
	// DefaultProfileFileName is the profile name in the home directory.
	DefaultProfileFileName = ".matcalc_calibration.json"
	// CurrentProfileVersion is bumped when the profile layout changes.
	CurrentProfileVersion = 1
	// DefaultProfileMaxAge is how long a saved profile is trusted.
	DefaultProfileMaxAge = 30 * 24 * time.Hour
)

// CalibrationProfile is the persisted outcome of a calibration run, tagged
// with the hardware it was measured on.
type CalibrationProfile struct {
	ProfileVersion int       `json:"profile_version"`
	NumCPU         int       `json:"num_cpu"`
	GOARCH         string    `json:"goarch"`
	GOOS           string    `json:"goos"`
	GoVersion      string    `json:"go_version"`
	WordSize       int       `json:"word_size"`
	CPUModel       string    `json:"cpu_model,omitempty"`
	CalibratedAt   time.Time `json:"calibrated_at"`

	// ProbeDim is the dimension the optima were measured at.
	ProbeDim           int    `json:"probe_dim"`
	OptimalWorkers     int    `json:"optimal_workers"`
	OptimalRowsPerTask int    `json:"optimal_rows_per_task"`
	CalibrationTime    string `json:"calibration_time,omitempty"`
}

// NewProfile returns an empty profile for the running machine.
func NewProfile() *CalibrationProfile {
	return &CalibrationProfile{
		ProfileVersion: CurrentProfileVersion,
		NumCPU:         runtime.NumCPU(),
		GOARCH:         runtime.GOARCH,
		GOOS:           runtime.GOOS,
		GoVersion:      runtime.Version(),
		WordSize:       32 << (^uint(0) >> 63),
		CPUModel:       sysmon.CPUModel(),
		CalibratedAt:   time.Now(),
	}
}

// IsValid reports whether the profile was produced by this profile version
// on hardware matching the running machine.
func (p *CalibrationProfile) IsValid() bool {
	if p == nil {
		return false
	}
	return p.ProfileVersion == CurrentProfileVersion &&
		p.NumCPU == runtime.NumCPU() &&
		p.GOARCH == runtime.GOARCH &&
		p.WordSize == 32<<(^uint(0)>>63)
}

// IsStale reports whether the profile is older than maxAge.
func (p *CalibrationProfile) IsStale(maxAge time.Duration) bool {
	if p == nil {
		return true
	}
	return time.Since(p.CalibratedAt) > maxAge
}

// RowsPerTaskFor scales the calibrated task size to dim so that a task
// keeps the same amount of work as at the probe dimension.
func (p *CalibrationProfile) RowsPerTaskFor(dim int) int {
	if p.OptimalRowsPerTask <= 0 || p.ProbeDim <= 0 || dim <= 0 {
		return config.EstimateRowsPerTask(dim, p.OptimalWorkers)
	}
	ops := p.OptimalRowsPerTask * p.ProbeDim * p.ProbeDim
	return max(min(ops/(dim*dim), dim), 1)
}

// String summarizes the profile on one line.
func (p *CalibrationProfile) String() string {
	return fmt.Sprintf("calibration profile v%d (%s/%s, %d CPUs, probe %dx%d): workers=%d, rows per task=%d, measured %s",
		p.ProfileVersion, p.GOOS, p.GOARCH, p.NumCPU, p.ProbeDim, p.ProbeDim,
		p.OptimalWorkers, p.OptimalRowsPerTask, p.CalibratedAt.Format(time.RFC3339))
}

// SaveProfile writes the profile as indented JSON, creating parent
// directories as needed.
func (p *CalibrationProfile) SaveProfile(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating profile directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding profile: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing profile: %w", err)
	}
	return nil
}

func loadProfile(path string) (*CalibrationProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var p CalibrationProfile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decoding profile %s: %w", path, err)
	}
	return &p, nil
}

// LoadOrCreateProfile loads the profile at path. When it is missing or
// unreadable, a fresh profile is returned and loaded is false.
func LoadOrCreateProfile(path string) (profile *CalibrationProfile, loaded bool) {
	p, err := loadProfile(path)
	if err != nil {
		logger.Debug().Err(err).Str("path", path).Msg("no usable calibration profile")
		return NewProfile(), false
	}
	return p, true
}

// GetDefaultProfilePath returns ~/.matcalc_calibration.json, or the bare
// file name when the home directory is unknown.
func GetDefaultProfilePath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return DefaultProfileFileName
	}
	return filepath.Join(home, DefaultProfileFileName)
}

func resolveProfilePath(path string) string {
	if path == "" {
		return GetDefaultProfilePath()
	}
	return path
}

// LoadCachedCalibration applies a valid, fresh profile from path (the
// default path when empty) to the tuning values cfg leaves at zero.
// Explicit values are kept. It reports whether a profile was applied.
func LoadCachedCalibration(cfg config.AppConfig, path string) (config.AppConfig, bool) {
	p, loaded := LoadOrCreateProfile(resolveProfilePath(path))
	if !loaded || !p.IsValid() || p.IsStale(DefaultProfileMaxAge) || p.OptimalWorkers == 0 {
		return cfg, false
	}
	return applyProfile(cfg, p), true
}

func applyProfile(cfg config.AppConfig, p *CalibrationProfile) config.AppConfig {
	if cfg.Workers == 0 {
		cfg.Workers = p.OptimalWorkers
	}
	if cfg.RowsPerTask == 0 && !cfg.UsesFiles() {
		cfg.RowsPerTask = p.RowsPerTaskFor(cfg.Dim)
	}
	return cfg
}
