package profiler

import "runtime"

// Stats is a point-in-time view of the Go runtime.
type Stats struct {
	HeapAlloc  uint64 // bytes
	Mallocs    uint64
	Goroutines int
	CPUs       int
}

func ReadStats() Stats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return Stats{
		HeapAlloc:  m.Alloc,
		Mallocs:    m.Mallocs,
		Goroutines: runtime.NumGoroutine(),
		CPUs:       runtime.NumCPU(),
	}
}
