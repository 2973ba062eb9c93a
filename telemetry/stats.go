package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// WindowStats holds aggregated statistics for a window of frames.
type WindowStats struct {
	WindowStartFrame int     `csv:"-"`
	WindowEndFrame   int     `csv:"window_end"`
	Elapsed          float64 `csv:"elapsed"`
	Source           string  `csv:"source"`

	// State at window end
	State     string `csv:"state"`
	Instances int    `csv:"instances"`

	// Parameters at window end
	Spread float64 `csv:"spread"`
	Depth  float64 `csv:"depth"`
	Size   float64 `csv:"size"`
	Scale  float64 `csv:"scale"`

	// Interaction during window
	Events      int `csv:"events"`
	Dropped     int `csv:"dropped"`
	Transitions int `csv:"transitions"`
	Explodes    int `csv:"explodes"`
	Reforms     int `csv:"reforms"`

	// Touch field energy over the window
	TouchPeak       float64 `csv:"touch_peak"`
	TouchEnergyMean float64 `csv:"touch_energy_mean"`
	TouchEnergyP50  float64 `csv:"touch_energy_p50"`
	TouchEnergyP90  float64 `csv:"touch_energy_p90"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeEnergyStats calculates mean and percentiles from energy values.
func ComputeEnergyStats(values []float64) (mean, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0
	}

	mean = floats.Sum(values) / float64(n)

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	return mean, Percentile(sorted, 0.50), Percentile(sorted, 0.90)
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", s.WindowStartFrame),
		slog.Int("window_end", s.WindowEndFrame),
		slog.Float64("elapsed", s.Elapsed),
		slog.String("source", s.Source),
		slog.String("state", s.State),
		slog.Int("instances", s.Instances),
		slog.Float64("spread", s.Spread),
		slog.Float64("depth", s.Depth),
		slog.Float64("size", s.Size),
		slog.Float64("scale", s.Scale),
		slog.Int("events", s.Events),
		slog.Int("dropped", s.Dropped),
		slog.Int("transitions", s.Transitions),
		slog.Int("explodes", s.Explodes),
		slog.Int("reforms", s.Reforms),
		slog.Float64("touch_peak", s.TouchPeak),
		slog.Float64("touch_energy_mean", s.TouchEnergyMean),
		slog.Float64("touch_energy_p90", s.TouchEnergyP90),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndFrame,
		"state", s.State,
		"instances", s.Instances,
		"spread", s.Spread,
		"events", s.Events,
		"touch_peak", s.TouchPeak,
	)
}
