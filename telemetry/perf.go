package telemetry

import (
	"log/slog"
	"time"

	"github.com/pthm-cable/pixeldust/particles"
)

// Frame phases in the order a frame runs them. The engine phases are marked
// from inside particles.Field.Update.
const (
	PhaseInput     = "input"
	PhaseDrain     = particles.PhaseDrain
	PhaseAdvance   = particles.PhaseAdvance
	PhaseTouch     = particles.PhaseTouch
	PhaseUpload    = particles.PhaseUpload
	PhaseNavigate  = "navigate"
	PhaseTelemetry = "telemetry"
	PhaseRender    = "render"
)

// FramePhases lists the known phases in frame order.
var FramePhases = []string{
	PhaseInput, PhaseDrain, PhaseAdvance, PhaseTouch, PhaseUpload,
	PhaseNavigate, PhaseTelemetry, PhaseRender,
}

// frameSample is the timing of one frame. phases is indexed like
// PerfCollector.names.
type frameSample struct {
	total  time.Duration
	phases []time.Duration
}

// PerfCollector times frame phases over a ring of the last windowSize frames.
// A frame runs from StartTick to EndTick; StartPhase closes the running phase
// and opens the next one.
type PerfCollector struct {
	now func() time.Time

	names []string
	index map[string]int

	ring   []frameSample
	next   int
	filled int

	cur        frameSample
	tickStart  time.Time
	phaseStart time.Time
	phase      int // Index of the running phase, -1 for none

	lastFrame     time.Time
	frameDuration time.Duration
}

// NewPerfCollector creates a collector averaging over windowSize frames
// (60 when windowSize < 1).
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	p := &PerfCollector{
		now:   time.Now,
		ring:  make([]frameSample, windowSize),
		index: make(map[string]int, len(FramePhases)),
		phase: -1,
	}
	for _, name := range FramePhases {
		p.phaseIndex(name)
	}
	return p
}

// SetClock replaces the time source.
func (p *PerfCollector) SetClock(now func() time.Time) { p.now = now }

func (p *PerfCollector) phaseIndex(name string) int {
	if i, ok := p.index[name]; ok {
		return i
	}
	p.index[name] = len(p.names)
	p.names = append(p.names, name)
	return len(p.names) - 1
}

// closePhase books the running phase up to t.
func (p *PerfCollector) closePhase(t time.Time) {
	if p.phase < 0 {
		return
	}
	for len(p.cur.phases) <= p.phase {
		p.cur.phases = append(p.cur.phases, 0)
	}
	p.cur.phases[p.phase] += t.Sub(p.phaseStart)
}

// StartTick begins a frame.
func (p *PerfCollector) StartTick() {
	p.tickStart = p.now()
	p.cur = frameSample{phases: make([]time.Duration, len(p.names))}
	p.phase = -1
}

// StartPhase implements particles.PhaseTimer.
func (p *PerfCollector) StartPhase(name string) {
	t := p.now()
	p.closePhase(t)
	p.phase = p.phaseIndex(name)
	p.phaseStart = t
}

// EndTick closes the frame and stores it in the ring.
func (p *PerfCollector) EndTick() {
	t := p.now()
	p.closePhase(t)
	p.phase = -1
	p.cur.total = t.Sub(p.tickStart)

	p.ring[p.next] = p.cur
	p.next = (p.next + 1) % len(p.ring)
	p.filled = min(p.filled+1, len(p.ring))
}

// RecordFrame measures the wall time between consecutive presented frames.
func (p *PerfCollector) RecordFrame() {
	t := p.now()
	if !p.lastFrame.IsZero() {
		p.frameDuration = t.Sub(p.lastFrame)
	}
	p.lastFrame = t
}

// PerfStats aggregates the frames in the window.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration

	// Per-phase average duration and share of the average frame
	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64

	FrameDuration time.Duration
	FPS           float64
}

// Stats aggregates the current window. Phases never entered are omitted.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{
		PhaseAvg:      make(map[string]time.Duration),
		PhasePct:      make(map[string]float64),
		FrameDuration: p.frameDuration,
	}
	if p.frameDuration > 0 {
		s.FPS = float64(time.Second) / float64(p.frameDuration)
	}
	if p.filled == 0 {
		return s
	}

	sums := make([]time.Duration, len(p.names))
	seen := make([]bool, len(p.names))
	var total time.Duration
	for i, f := range p.ring[:p.filled] {
		total += f.total
		if i == 0 || f.total < s.MinTickDuration {
			s.MinTickDuration = f.total
		}
		s.MaxTickDuration = max(s.MaxTickDuration, f.total)
		for j, d := range f.phases {
			sums[j] += d
			seen[j] = seen[j] || d > 0
		}
	}

	n := time.Duration(p.filled)
	s.AvgTickDuration = total / n
	for j, name := range p.names {
		if !seen[j] {
			continue
		}
		avg := sums[j] / n
		s.PhaseAvg[name] = avg
		if s.AvgTickDuration > 0 {
			s.PhasePct[name] = float64(avg) / float64(s.AvgTickDuration) * 100
		}
	}
	return s
}

// LogStats logs the window through slog.
func (s PerfStats) LogStats() {
	slog.Info("perf", "perf", s)
}

// LogValue implements slog.LogValuer.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_frame_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("max_frame_us", s.MaxTickDuration.Microseconds()),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Int("fps", int(s.FPS)))
	}
	for _, name := range FramePhases {
		if pct, ok := s.PhasePct[name]; ok && pct >= 0.1 {
			attrs = append(attrs, slog.Float64(name+"_pct", float64(int(pct*10))/10))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is one row of perf.csv.
type PerfStatsCSV struct {
	WindowEnd    int     `csv:"window_end"`
	AvgFrameUS   int64   `csv:"avg_frame_us"`
	MinFrameUS   int64   `csv:"min_frame_us"`
	MaxFrameUS   int64   `csv:"max_frame_us"`
	FPS          float64 `csv:"fps"`
	InputPct     float64 `csv:"input_pct"`
	DrainPct     float64 `csv:"drain_pct"`
	AdvancePct   float64 `csv:"advance_pct"`
	TouchPct     float64 `csv:"touch_pct"`
	UploadPct    float64 `csv:"upload_pct"`
	NavigatePct  float64 `csv:"navigate_pct"`
	TelemetryPct float64 `csv:"telemetry_pct"`
	RenderPct    float64 `csv:"render_pct"`
}

// ToCSV flattens s for perf.csv.
func (s PerfStats) ToCSV(windowEnd int) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:    windowEnd,
		AvgFrameUS:   s.AvgTickDuration.Microseconds(),
		MinFrameUS:   s.MinTickDuration.Microseconds(),
		MaxFrameUS:   s.MaxTickDuration.Microseconds(),
		FPS:          s.FPS,
		InputPct:     s.PhasePct[PhaseInput],
		DrainPct:     s.PhasePct[PhaseDrain],
		AdvancePct:   s.PhasePct[PhaseAdvance],
		TouchPct:     s.PhasePct[PhaseTouch],
		UploadPct:    s.PhasePct[PhaseUpload],
		NavigatePct:  s.PhasePct[PhaseNavigate],
		TelemetryPct: s.PhasePct[PhaseTelemetry],
		RenderPct:    s.PhasePct[PhaseRender],
	}
}
