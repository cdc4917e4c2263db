package profile

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
)

// Profiler controls one profiling session.
//
// Create instances with [Config.NewProfiler].
type Profiler struct {
	config  *Config
	cpuFile *os.File
}

// Start applies the heap sampling rate and starts CPU profiling if enabled.
func (p *Profiler) Start() error {
	if p.config.HeapProfile != "" {
		runtime.MemProfileRate = p.config.MemProfileRate
	}

	if p.config.CPUProfile == "" {
		return nil
	}

	f, err := os.Create(p.config.CPUProfile) //nolint:gosec // Profile path from CLI flag is expected.
	if err != nil {
		return fmt.Errorf("creating CPU profile: %w", err)
	}

	err = pprof.StartCPUProfile(f)
	if err != nil {
		return errors.Join(fmt.Errorf("starting CPU profile: %w", err), f.Close())
	}

	p.cpuFile = f

	return nil
}

// Stop stops CPU profiling and writes the heap profile if enabled. It is
// safe to call when [Profiler.Start] was never called.
func (p *Profiler) Stop() error {
	var errs []error

	if p.cpuFile != nil {
		pprof.StopCPUProfile()

		err := p.cpuFile.Close()
		if err != nil {
			errs = append(errs, fmt.Errorf("closing CPU profile: %w", err))
		}

		p.cpuFile = nil
	}

	if p.config.HeapProfile != "" {
		err := writeHeap(p.config.HeapProfile)
		if err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func writeHeap(path string) error {
	f, err := os.Create(path) //nolint:gosec // Profile path from CLI flag is expected.
	if err != nil {
		return fmt.Errorf("creating heap profile: %w", err)
	}

	runtime.GC()

	err = pprof.WriteHeapProfile(f)
	if err != nil {
		return errors.Join(fmt.Errorf("writing heap profile: %w", err), f.Close())
	}

	err = f.Close()
	if err != nil {
		return fmt.Errorf("closing heap profile: %w", err)
	}

	return nil
}
