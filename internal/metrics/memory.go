package metrics

import "runtime"

// MemorySnapshot is a point-in-time reading of the Go runtime's memory.
type MemorySnapshot struct {
	HeapAlloc    uint64 // bytes in live heap objects
	HeapSys      uint64 // heap bytes obtained from the OS
	Sys          uint64 // total bytes obtained from the OS
	TotalAlloc   uint64 // cumulative bytes allocated
	NumGC        uint32 // completed GC cycles
	PauseTotalNs uint64 // cumulative GC pause time
}

// MemoryCollector reads runtime memory statistics.
type MemoryCollector struct{}

// NewMemoryCollector returns a collector.
func NewMemoryCollector() *MemoryCollector {
	return &MemoryCollector{}
}

// Snapshot reads the current statistics. It briefly stops the world.
func (mc *MemoryCollector) Snapshot() MemorySnapshot {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return MemorySnapshot{
		HeapAlloc:    m.HeapAlloc,
		HeapSys:      m.HeapSys,
		Sys:          m.Sys,
		TotalAlloc:   m.TotalAlloc,
		NumGC:        m.NumGC,
		PauseTotalNs: m.PauseTotalNs,
	}
}

// MemoryDelta is the runtime activity between two snapshots.
type MemoryDelta struct {
	Allocated    uint64 // bytes allocated in between
	GCCycles     uint32
	PauseTotalNs uint64
	PeakHeap     uint64 // larger of the two HeapAlloc readings
}

// Since returns the activity from before to s.
func (s MemorySnapshot) Since(before MemorySnapshot) MemoryDelta {
	return MemoryDelta{
		Allocated:    s.TotalAlloc - before.TotalAlloc,
		GCCycles:     s.NumGC - before.NumGC,
		PauseTotalNs: s.PauseTotalNs - before.PauseTotalNs,
		PeakHeap:     max(s.HeapAlloc, before.HeapAlloc),
	}
}
