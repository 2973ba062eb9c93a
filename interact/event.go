package interact

import "github.com/go-gl/mathgl/mgl32"

// EventKind identifies a semantic interaction event.
type EventKind uint8

const (
	EventOver EventKind = iota
	EventOut
	EventMove
	EventDown
	EventUp
)

var eventKindNames = [...]string{"over", "out", "move", "down", "up"}

func (k EventKind) String() string {
	if int(k) < len(eventKindNames) {
		return eventKindNames[k]
	}
	return "unknown"
}

// Event is one semantic interaction against the registered surfaces.
type Event struct {
	Kind EventKind

	// Surface under the pointer (nil for down/up away from any surface)
	Surface Surface
	// Previous is the surface selected by the prior down (down events only)
	Previous Surface

	// Intersection data, valid when HasHit is set
	HasHit bool
	Point  mgl32.Vec3
	UV     mgl32.Vec2

	// Button classification for down/up
	IsPrimary   bool
	IsSecondary bool // middle (auxiliary) button
}

// Queue is a bounded FIFO of events. When full, the oldest event is dropped.
type Queue struct {
	buf     []Event
	head    int
	count   int
	dropped int
}

// NewQueue creates a queue holding at most capacity events.
func NewQueue(capacity int) *Queue {
	if capacity < 1 {
		capacity = 1
	}
	return &Queue{buf: make([]Event, capacity)}
}

// Push appends ev, evicting the oldest event when the queue is full.
func (q *Queue) Push(ev Event) {
	if q.count == len(q.buf) {
		q.head = (q.head + 1) % len(q.buf)
		q.count--
		q.dropped++
	}
	q.buf[(q.head+q.count)%len(q.buf)] = ev
	q.count++
}

// Pop removes and returns the oldest event.
func (q *Queue) Pop() (Event, bool) {
	if q.count == 0 {
		return Event{}, false
	}
	ev := q.buf[q.head]
	q.buf[q.head] = Event{}
	q.head = (q.head + 1) % len(q.buf)
	q.count--
	return ev, true
}

// Len returns the number of queued events.
func (q *Queue) Len() int { return q.count }

// Dropped returns how many events were evicted because the queue was full.
func (q *Queue) Dropped() int { return q.dropped }

// Clear discards all queued events.
func (q *Queue) Clear() {
	for q.count > 0 {
		q.Pop()
	}
}
