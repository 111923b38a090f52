package renderer

import (
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// DefaultWorkerCount returns the number of logical CPUs, falling back to the
// Go runtime's view when the host cannot be queried
func DefaultWorkerCount() int {
	count, err := cpu.Counts(true)
	if err != nil || count <= 0 {
		return runtime.NumCPU()
	}
	return count
}

// SystemInfo describes the machine a render runs on
type SystemInfo struct {
	CPUName      string
	LogicalCores int
	ClockGHz     float64
	TotalRAMGB   uint64
}

// GetSystemInfo queries CPU and memory details for log banners
func GetSystemInfo() (SystemInfo, error) {
	cpuInfo, err := cpu.Info()
	if err != nil {
		return SystemInfo{}, fmt.Errorf("reading cpu info: %w", err)
	}
	if len(cpuInfo) == 0 {
		return SystemInfo{}, fmt.Errorf("no CPU information available")
	}

	memInfo, err := mem.VirtualMemory()
	if err != nil {
		return SystemInfo{}, fmt.Errorf("reading memory info: %w", err)
	}

	return SystemInfo{
		CPUName:      cpuInfo[0].ModelName,
		LogicalCores: DefaultWorkerCount(),
		ClockGHz:     cpuInfo[0].Mhz / 1000,
		TotalRAMGB:   memInfo.Total / (1024 * 1024 * 1024),
	}, nil
}

// String formats the info as a single log line
func (s SystemInfo) String() string {
	return fmt.Sprintf("%s (%d logical cores, %.2f GHz), %d GB RAM",
		s.CPUName, s.LogicalCores, s.ClockGHz, s.TotalRAMGB)
}
