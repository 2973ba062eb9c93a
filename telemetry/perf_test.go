package telemetry

import (
	"math"
	"testing"
	"time"
)

// fakeClock advances only when told to.
type fakeClock struct{ t time.Time }

func newFakeClock() *fakeClock { return &fakeClock{t: time.Unix(1000, 0)} }

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) step(d time.Duration) { c.t = c.t.Add(d) }

func (c *fakeClock) collector(n int) *PerfCollector {
	pc := NewPerfCollector(n)
	pc.SetClock(c.now)
	return pc
}

// frame runs one frame spending the given time in each phase, in order.
func frame(pc *PerfCollector, c *fakeClock, phases ...any) {
	pc.StartTick()
	for i := 0; i < len(phases); i += 2 {
		pc.StartPhase(phases[i].(string))
		c.step(phases[i+1].(time.Duration))
	}
	pc.EndTick()
}

func TestPerfPhaseShares(t *testing.T) {
	c := newFakeClock()
	pc := c.collector(10)

	for i := 0; i < 4; i++ {
		frame(pc, c,
			PhaseInput, 100*time.Microsecond,
			PhaseDrain, 100*time.Microsecond,
			PhaseAdvance, 300*time.Microsecond,
			PhaseRender, 500*time.Microsecond,
		)
	}

	s := pc.Stats()
	if s.AvgTickDuration != time.Millisecond {
		t.Fatalf("expected 1ms frames, got %v", s.AvgTickDuration)
	}
	want := map[string]float64{PhaseInput: 10, PhaseDrain: 10, PhaseAdvance: 30, PhaseRender: 50}
	for name, pct := range want {
		if got := s.PhasePct[name]; math.Abs(got-pct) > 1e-9 {
			t.Errorf("%s: expected %v%%, got %v%%", name, pct, got)
		}
	}
	if _, ok := s.PhaseAvg[PhaseUpload]; ok {
		t.Error("expected phases never entered to be omitted")
	}
}

func TestPerfWindowKeepsLatestFrames(t *testing.T) {
	c := newFakeClock()
	pc := c.collector(3)

	for _, d := range []time.Duration{9, 9, 9, 1, 2, 3} {
		frame(pc, c, PhaseAdvance, d*time.Millisecond)
	}

	s := pc.Stats()
	if s.AvgTickDuration != 2*time.Millisecond {
		t.Errorf("expected average of the last three frames (2ms), got %v", s.AvgTickDuration)
	}
	if s.MinTickDuration != time.Millisecond || s.MaxTickDuration != 3*time.Millisecond {
		t.Errorf("expected min 1ms max 3ms, got %v %v", s.MinTickDuration, s.MaxTickDuration)
	}
}

func TestPerfUnknownPhase(t *testing.T) {
	c := newFakeClock()
	pc := c.collector(2)
	frame(pc, c, "decode", 2*time.Millisecond, PhaseRender, 2*time.Millisecond)

	s := pc.Stats()
	if math.Abs(s.PhasePct["decode"]-50) > 1e-9 {
		t.Errorf("expected ad hoc phase tracked at 50%%, got %v", s.PhasePct["decode"])
	}
}

func TestPerfEmptyStats(t *testing.T) {
	s := NewPerfCollector(10).Stats()
	if s.AvgTickDuration != 0 || s.FPS != 0 {
		t.Errorf("expected zero stats, got %+v", s)
	}
	if s.PhaseAvg == nil || s.PhasePct == nil {
		t.Error("expected non-nil phase maps")
	}
}

func TestPerfFrameRate(t *testing.T) {
	c := newFakeClock()
	pc := c.collector(10)

	pc.RecordFrame()
	c.step(20 * time.Millisecond)
	pc.RecordFrame()

	s := pc.Stats()
	if s.FrameDuration != 20*time.Millisecond || s.FPS != 50 {
		t.Errorf("expected 20ms / 50 fps, got %v / %v", s.FrameDuration, s.FPS)
	}
}

func TestPerfCSVColumns(t *testing.T) {
	c := newFakeClock()
	pc := c.collector(1)
	frame(pc, c, PhaseTouch, time.Millisecond, PhaseUpload, time.Millisecond)

	row := pc.Stats().ToCSV(120)
	if row.WindowEnd != 120 || row.AvgFrameUS != 2000 || row.TouchPct != 50 || row.UploadPct != 50 {
		t.Errorf("unexpected csv row %+v", row)
	}
}
