package gallery

import (
	"testing"

	"github.com/pthm-cable/pixeldust/interact"
)

func TestTouchMode(t *testing.T) {
	cases := []struct {
		mode, goos string
		want       bool
	}{
		{"on", "linux", true},
		{"off", "android", false},
		{"auto", "android", true},
		{"auto", "ios", true},
		{"auto", "darwin", false},
		{"", "android", false},
	}
	for _, c := range cases {
		if got := touchMode(c.mode, c.goos); got != c.want {
			t.Errorf("touchMode(%q, %q) = %v, want %v", c.mode, c.goos, got, c.want)
		}
	}
}

func TestTouchChange(t *testing.T) {
	a := interact.Point{X: 1, Y: 2}
	b := interact.Point{X: 5, Y: 6}
	moved := interact.Point{X: 1, Y: 3}

	cases := []struct {
		name      string
		last, cur []interact.Point
		want      interact.InputKind
		ok        bool
	}{
		{"first finger", nil, []interact.Point{a}, interact.TouchStart, true},
		{"second finger", []interact.Point{a}, []interact.Point{a, b}, interact.TouchStart, true},
		{"lift", []interact.Point{a, b}, []interact.Point{b}, interact.TouchEnd, true},
		{"move", []interact.Point{a, b}, []interact.Point{moved, b}, interact.TouchMove, true},
		{"still", []interact.Point{a}, []interact.Point{a}, 0, false},
		{"none", nil, nil, 0, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			kind, ok := touchChange(c.last, c.cur)
			if ok != c.ok || (ok && kind != c.want) {
				t.Errorf("expected (%v, %v), got (%v, %v)", c.want, c.ok, kind, ok)
			}
		})
	}
}
