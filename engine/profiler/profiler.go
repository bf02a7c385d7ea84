//go:build profile

package profiler

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync/atomic"
)

var global atomic.Pointer[Recorder]

// Enabled reports whether this build records scopes.
const Enabled = true

// Init must be called once, on app start, with the number of events to keep.
func Init(capacity int) { global.Store(NewRecorder(capacity)) }

// Start begins a scope on the global recorder and returns the func ending it.
func Start(name string) func() {
	r := global.Load()
	if r == nil {
		return func() {}
	}
	return r.Start(name)
}

// OpenProfilerGraph writes the capture to a temporary speedscope file and
// launches the speedscope viewer on it. The path is returned even when the
// viewer cannot be started.
func OpenProfilerGraph() (string, error) {
	r := global.Load()
	if r == nil {
		return "", fmt.Errorf("profiler: not initialized")
	}
	path := filepath.Join(os.TempDir(), "sprig.profile.speedscope.json")
	if err := writeFile(r, path); err != nil {
		return "", err
	}

	cmd := exec.Command("speedscope", path)
	cmd.SysProcAttr = hideWindowAttr()
	if err := cmd.Start(); err != nil {
		return path, fmt.Errorf("launch speedscope: %w", err)
	}
	return path, nil
}

func writeFile(r *Recorder, path string) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if err := r.WriteSpeedscope(f, "sprig frame loop"); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
