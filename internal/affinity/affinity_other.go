//go:build !linux

package affinity

// Pin is a no-op outside Linux; CPU pinning is best-effort everywhere, but
// only Linux exposes SchedSetaffinity through golang.org/x/sys/unix.
func Pin(cpu int) error { return nil }
