package profiler

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"
)

// Recorder keeps the last capacity scope open/close events in a ring.
type Recorder struct {
	ring evRing

	muFrames sync.Mutex
	frames   []string
	index    map[string]int

	now func() int64 // nanoseconds
}

// NewRecorder makes a recorder holding up to capacity events (1M when <= 0).
func NewRecorder(capacity int) *Recorder {
	if capacity <= 0 {
		capacity = 1 << 20
	}
	r := &Recorder{
		index: map[string]int{},
		now:   func() int64 { return time.Now().UnixNano() },
	}
	r.ring.init(capacity)
	return r
}

// Start begins a scope and returns the func that ends it.
func (r *Recorder) Start(name string) func() {
	fid := r.intern(name)
	start := r.now()
	r.ring.push(evEntry{AtNS: start, FrameID: fid, Open: true})
	return func() {
		end := r.now()
		if end < start {
			end = start
		}
		r.ring.push(evEntry{AtNS: end, FrameID: fid, Open: false})
	}
}

// Len is the number of events currently held.
func (r *Recorder) Len() int { return len(r.ring.snapshot()) }

func (r *Recorder) intern(name string) int {
	r.muFrames.Lock()
	defer r.muFrames.Unlock()
	if id, ok := r.index[name]; ok {
		return id
	}
	id := len(r.frames)
	r.index[name] = id
	r.frames = append(r.frames, name)
	return id
}

// ---------- event ring ----------

type evEntry struct {
	AtNS    int64
	FrameID int
	Open    bool
}

type evRing struct {
	cap   uint64
	write atomic.Uint64
	evs   []evEntry
}

func (r *evRing) init(capacity int) {
	r.cap = uint64(capacity)
	r.evs = make([]evEntry, r.cap)
	r.write.Store(0)
}

func (r *evRing) push(e evEntry) {
	i := r.write.Add(1) - 1
	r.evs[i%r.cap] = e
}

// snapshot returns the held events in write order.
func (r *evRing) snapshot() []evEntry {
	n := r.write.Load()
	if n == 0 {
		return nil
	}
	start := uint64(0)
	if n > r.cap {
		start = n - r.cap
	}
	out := make([]evEntry, 0, n-start)
	for k := start; k < n; k++ {
		out = append(out, r.evs[k%r.cap])
	}
	return out
}

// ---------- speedscope (evented) ----------

type ssFile struct {
	Schema             string      `json:"$schema"`
	Shared             ssShared    `json:"shared"`
	Profiles           []ssProfile `json:"profiles"`
	ActiveProfileIndex int         `json:"activeProfileIndex,omitempty"`
	Exporter           string      `json:"exporter,omitempty"`
	Name               string      `json:"name,omitempty"`
}

type ssShared struct {
	Frames []ssFrame `json:"frames"`
}

type ssFrame struct {
	Name string `json:"name"`
}

type ssProfile struct {
	Type       string    `json:"type"` // "evented"
	Name       string    `json:"name"`
	Unit       string    `json:"unit"` // "microseconds"
	StartValue int64     `json:"startValue"`
	EndValue   int64     `json:"endValue"`
	Events     []ssEvent `json:"events"`
}

type ssEvent struct {
	Type  string `json:"type"`  // "O" or "C"
	At    int64  `json:"at"`    // µs since the first event
	Frame int    `json:"frame"` // index into shared frames
}

// WriteSpeedscope encodes the held events as an evented speedscope profile.
// Closes without a matching open (lost to the ring) are dropped and scopes
// still open are closed at the last timestamp.
func (r *Recorder) WriteSpeedscope(w io.Writer, name string) error {
	evs := r.ring.snapshot()
	if len(evs) == 0 {
		return fmt.Errorf("profiler: no events to dump")
	}

	r.muFrames.Lock()
	fs := make([]ssFrame, len(r.frames))
	for i, n := range r.frames {
		fs[i] = ssFrame{Name: n}
	}
	r.muFrames.Unlock()

	base := evs[0].AtNS
	var endUS int64
	lastUS := int64(-1)
	out := make([]ssEvent, 0, len(evs)+16)
	stack := make([]int, 0, 64)

	for _, e := range evs {
		atUS := (e.AtNS - base) / 1000
		if atUS < lastUS {
			atUS = lastUS
		}
		if e.Open {
			out = append(out, ssEvent{Type: "O", At: atUS, Frame: e.FrameID})
			stack = append(stack, e.FrameID)
		} else {
			if len(stack) == 0 || stack[len(stack)-1] != e.FrameID {
				continue
			}
			stack = stack[:len(stack)-1]
			out = append(out, ssEvent{Type: "C", At: atUS, Frame: e.FrameID})
		}
		lastUS = atUS
		endUS = max(endUS, atUS)
	}
	for i := len(stack) - 1; i >= 0; i-- {
		out = append(out, ssEvent{Type: "C", At: lastUS, Frame: stack[i]})
	}

	doc := ssFile{
		Schema: "https://www.speedscope.app/file-format-schema.json",
		Shared: ssShared{Frames: fs},
		Profiles: []ssProfile{{
			Type:     "evented",
			Name:     name,
			Unit:     "microseconds",
			EndValue: endUS,
			Events:   out,
		}},
		Exporter: "sprig-profiler",
		Name:     name,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(&doc)
}
