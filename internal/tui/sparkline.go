package tui

import "strings"

var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

// Series keeps the most recent samples of a 0..100 gauge.
type Series struct {
	samples []float64
	limit   int
}

// NewSeries returns a series holding at most limit samples.
func NewSeries(limit int) *Series {
	return &Series{limit: max(limit, 1)}
}

// Add appends v, clamped to 0..100, dropping the oldest sample when full.
func (s *Series) Add(v float64) {
	v = min(max(v, 0), 100)
	if len(s.samples) == s.limit {
		copy(s.samples, s.samples[1:])
		s.samples[len(s.samples)-1] = v
		return
	}
	s.samples = append(s.samples, v)
}

// Last returns the newest sample, or 0 when empty.
func (s *Series) Last() float64 {
	if len(s.samples) == 0 {
		return 0
	}
	return s.samples[len(s.samples)-1]
}

// Values returns the samples oldest first. The slice is owned by s.
func (s *Series) Values() []float64 { return s.samples }

// Reset drops all samples.
func (s *Series) Reset() { s.samples = s.samples[:0] }

// RenderSparkline draws the newest width values as block characters,
// right-aligned and left-padded with spaces.
func RenderSparkline(values []float64, width int) string {
	if width <= 0 {
		return ""
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}
	var b strings.Builder
	b.WriteString(strings.Repeat(" ", width-len(values)))
	for _, v := range values {
		idx := int(min(max(v, 0), 100) / 100 * float64(len(sparkBlocks)-1))
		b.WriteRune(sparkBlocks[idx])
	}
	return b.String()
}
