//go:build linux

// Package affinity best-effort pins the calling goroutine's OS thread to a
// single logical CPU, the Go analogue of the source's setThreadAffinity.
// This is out of the core's scope (SPEC_FULL.md §1 lists CPU-pinning as an
// external collaborator) but a runnable benchmark needs some rendition of
// it, so it lives under internal/ rather than in any core package.
package affinity

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// Pin locks the calling goroutine to its current OS thread (so the
// scheduler cannot migrate it afterward) and restricts that thread to cpu.
// Go's scheduler still owns thread placement for the rest of the program,
// so this only approximates the source's strict one-thread-per-core model;
// failures are non-fatal and left for the caller to log.
func Pin(cpu int) error {
	runtime.LockOSThread()
	var set unix.CPUSet
	set.Zero()
	set.Set(cpu % unix.CPU_SETSIZE)
	return unix.SchedSetaffinity(0, &set)
}
