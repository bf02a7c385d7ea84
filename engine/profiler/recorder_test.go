package profiler

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stepClock advances 1µs per reading.
func stepClock(r *Recorder) {
	var t int64
	r.now = func() int64 { t += 1000; return t }
}

func decode(t *testing.T, r *Recorder) ssFile {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, r.WriteSpeedscope(&buf, "test"))
	var doc ssFile
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	return doc
}

func TestRecorderNestedScopes(t *testing.T) {
	r := NewRecorder(16)
	stepClock(r)

	endFrame := r.Start("frame")
	endDraw := r.Start("draw")
	endDraw()
	endFrame()

	doc := decode(t, r)
	assert.Equal(t, []ssFrame{{Name: "frame"}, {Name: "draw"}}, doc.Shared.Frames)
	require.Len(t, doc.Profiles, 1)
	p := doc.Profiles[0]
	assert.Equal(t, "evented", p.Type)
	assert.Equal(t, []ssEvent{
		{Type: "O", At: 0, Frame: 0},
		{Type: "O", At: 1, Frame: 1},
		{Type: "C", At: 2, Frame: 1},
		{Type: "C", At: 3, Frame: 0},
	}, p.Events)
	assert.Equal(t, int64(3), p.EndValue)
}

func TestRecorderClosesOpenScopes(t *testing.T) {
	r := NewRecorder(16)
	stepClock(r)
	r.Start("update")
	_ = r.Start("inner")

	p := decode(t, r).Profiles[0]
	require.Len(t, p.Events, 4)
	assert.Equal(t, ssEvent{Type: "C", At: 1, Frame: 1}, p.Events[2])
	assert.Equal(t, ssEvent{Type: "C", At: 1, Frame: 0}, p.Events[3])
}

func TestRecorderRingDropsOrphanCloses(t *testing.T) {
	r := NewRecorder(3)
	stepClock(r)
	end := r.Start("a") // open is overwritten below
	end()
	r.Start("b")()

	assert.Equal(t, 3, r.Len())
	p := decode(t, r).Profiles[0]
	assert.Equal(t, []ssEvent{
		{Type: "O", At: 1, Frame: 1},
		{Type: "C", At: 2, Frame: 1},
	}, p.Events)
}

func TestRecorderEmpty(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, NewRecorder(4).WriteSpeedscope(&buf, "empty"))
}

func TestReadStats(t *testing.T) {
	s := ReadStats()
	assert.Positive(t, s.HeapAlloc)
	assert.Positive(t, s.Goroutines)
	assert.Positive(t, s.CPUs)
}
