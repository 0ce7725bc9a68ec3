// Package procfs reports the hardware parallelism available to the analysis
// pool and resource usage of the running process.
package procfs

import (
	"math"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

const hundred = 100

// AvailableParallelism returns the number of logical CPUs of the machine.
func AvailableParallelism() int {
	n, err := cpu.Counts(true)
	if err != nil || n < 1 {
		return runtime.NumCPU()
	}
	return n
}

// PoolSize returns the analysis pool size for the given parallelism.
func PoolSize(parallelism int) int {
	if parallelism < 1 {
		parallelism = 1
	}
	return parallelism*2 + 1
}

// Proc represents the process for which we want to find stats
type Proc struct {
	totalMem uint64
	process  *process.Process
}

// Stats represents the process stats
type Stats struct {
	CPUPercentage float64
	MemPercentage float64
	MemConsumed   uint64
	RecordTime    time.Time
}

// New returns new Proc struct
func New(pid int32) (*Proc, error) {
	p, err := process.NewProcess(pid)
	if err != nil {
		return nil, err
	}
	machineMemory, err := mem.VirtualMemory()
	if err != nil {
		return nil, err
	}
	return &Proc{process: p, totalMem: machineMemory.Total}, nil
}

// Self returns the Proc of the running process.
func Self() (*Proc, error) {
	return New(int32(os.Getpid()))
}

// GetStats returns process stats
func (ps *Proc) GetStats() (*Stats, error) {
	s := Stats{RecordTime: time.Now()}
	cpuPerc, err := ps.process.Percent(0)
	if err != nil {
		return nil, err
	}
	// gopsutil reports percentages over all cores
	s.CPUPercentage = math.Min(hundred, cpuPerc/float64(runtime.NumCPU()))

	memInfo, err := ps.process.MemoryInfo()
	if err != nil {
		return nil, err
	}
	s.MemConsumed = memInfo.RSS
	if ps.totalMem > 0 {
		s.MemPercentage = hundred * float64(s.MemConsumed) / float64(ps.totalMem)
	}
	return &s, nil
}
