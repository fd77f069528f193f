// Package sysmon samples host resource usage and CPU capabilities for the
// execution banner and the dashboard gauges.
package sysmon

import (
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
	xcpu "golang.org/x/sys/cpu"
)

// Stats is one snapshot of system-wide resource usage.
type Stats struct {
	CPUPercent float64 // 0.0 .. 100.0
	MemPercent float64 // 0.0 .. 100.0
}

// Sample reads system-wide CPU and memory usage. CPU usage is the delta
// since the previous call. Fields are zero when a reading fails.
func Sample() Stats {
	var s Stats
	if pcts, err := cpu.Percent(0, false); err == nil && len(pcts) > 0 {
		s.CPUPercent = pcts[0]
	}
	if vmem, err := mem.VirtualMemory(); err == nil && vmem != nil {
		s.MemPercent = vmem.UsedPercent
	}
	return s
}

// AvailableMemory returns the bytes available for new allocations, or 0
// when it cannot be determined.
func AvailableMemory() uint64 {
	vmem, err := mem.VirtualMemory()
	if err != nil || vmem == nil {
		return 0
	}
	return vmem.Available
}

// CPUModel returns the first CPU's model name, or "" when unknown.
func CPUModel() string {
	infos, err := cpu.Info()
	if err != nil || len(infos) == 0 {
		return ""
	}
	return strings.TrimSpace(infos[0].ModelName)
}

// CPUFeatures lists the vector extensions the processor advertises. The
// row kernel is scalar; the list is informational.
func CPUFeatures() []string {
	var features []string
	add := func(ok bool, name string) {
		if ok {
			features = append(features, name)
		}
	}
	switch runtime.GOARCH {
	case "amd64", "386":
		add(xcpu.X86.HasSSE41, "sse4.1")
		add(xcpu.X86.HasAVX, "avx")
		add(xcpu.X86.HasAVX2, "avx2")
		add(xcpu.X86.HasAVX512F, "avx512f")
	case "arm64":
		add(xcpu.ARM64.HasASIMD, "asimd")
		add(xcpu.ARM64.HasSVE, "sve")
	}
	return features
}
