package format

import (
	"fmt"
	"strings"
	"time"
)

// ProgressState tracks the latest progress of several concurrent
// multipliers. It is not safe for concurrent use; a single display
// goroutine owns it.
type ProgressState struct {
	progresses     []float64
	numCalculators int
}

// NewProgressState returns a state for n multipliers.
func NewProgressState(n int) *ProgressState {
	if n < 0 {
		n = 0
	}
	return &ProgressState{progresses: make([]float64, n), numCalculators: n}
}

// Update records value for multiplier index, clamped to [0, 1].
// Out-of-range indexes are ignored.
func (p *ProgressState) Update(index int, value float64) {
	if index < 0 || index >= p.numCalculators {
		return
	}
	p.progresses[index] = clamp01(value)
}

// CalculateAverage returns the mean progress over all multipliers.
func (p *ProgressState) CalculateAverage() float64 {
	if p.numCalculators == 0 {
		return 0
	}
	var total float64
	for _, v := range p.progresses {
		total += v
	}
	return total / float64(p.numCalculators)
}

// maxETA caps estimates derived from very slow early progress.
const maxETA = 24 * time.Hour

// etaSmoothing is the weight of the newest rate sample.
const etaSmoothing = 0.3

// ProgressWithETA extends ProgressState with an exponentially smoothed
// progress rate used to estimate the remaining time.
type ProgressWithETA struct {
	*ProgressState
	numCalculators int
	startTime      time.Time
	lastUpdate     time.Time
	lastProgress   float64
	progressRate   float64 // fraction per second
}

// NewProgressWithETA returns a tracker for n multipliers starting now.
func NewProgressWithETA(n int) *ProgressWithETA {
	now := time.Now()
	return &ProgressWithETA{
		ProgressState:  NewProgressState(n),
		numCalculators: n,
		startTime:      now,
		lastUpdate:     now,
	}
}

// UpdateWithETA records an update and returns the average progress and the
// current remaining-time estimate.
func (p *ProgressWithETA) UpdateWithETA(index int, value float64) (float64, time.Duration) {
	p.Update(index, value)
	avg := p.CalculateAverage()

	now := time.Now()
	if elapsed := now.Sub(p.lastUpdate).Seconds(); elapsed > 0 && avg > p.lastProgress {
		rate := (avg - p.lastProgress) / elapsed
		if p.progressRate == 0 {
			p.progressRate = rate
		} else {
			p.progressRate = etaSmoothing*rate + (1-etaSmoothing)*p.progressRate
		}
		p.lastUpdate = now
		p.lastProgress = avg
	}
	return avg, p.GetETA()
}

// GetETA returns the remaining-time estimate, or 0 when none is available.
func (p *ProgressWithETA) GetETA() time.Duration {
	avg := p.CalculateAverage()
	if p.progressRate <= 0 || avg >= 1 {
		return 0
	}
	seconds := (1 - avg) / p.progressRate
	eta := time.Duration(seconds * float64(time.Second))
	if eta > maxETA || eta < 0 {
		return maxETA
	}
	return eta
}

// Elapsed returns the time since the tracker was created.
func (p *ProgressWithETA) Elapsed() time.Duration {
	return time.Since(p.startTime)
}

// ProgressBar renders progress as length cells of █ and ░.
func ProgressBar(progress float64, length int) string {
	if length <= 0 {
		return ""
	}
	filled := int(clamp01(progress) * float64(length))
	return strings.Repeat("█", filled) + strings.Repeat("░", length-filled)
}

// FormatProgressBarWithETA renders "[bar]  42.0% ETA: 3s".
func FormatProgressBarWithETA(progress float64, eta time.Duration, width int) string {
	return fmt.Sprintf("[%s] %5.1f%% ETA: %s", ProgressBar(progress, width), clamp01(progress)*100, FormatETA(eta))
}

// FormatRowProgress renders "rows 1,024/4,096 at 350 rows/s", leaving out
// the rate while it is unknown. It returns "" when total is not positive.
func FormatRowProgress(done, total int, rowsPerSecond float64) string {
	if total <= 0 {
		return ""
	}
	s := fmt.Sprintf("rows %s/%s", FormatInt(int64(done)), FormatInt(int64(total)))
	if rowsPerSecond >= 1 {
		s += fmt.Sprintf(" at %s rows/s", FormatInt(int64(rowsPerSecond)))
	}
	return s
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
