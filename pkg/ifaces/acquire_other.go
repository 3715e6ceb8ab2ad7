//go:build !linux && !darwin && !dragonfly && !freebsd && !netbsd && !openbsd && !windows

package ifaces

import (
	"fmt"
	"runtime"
)

// Family tags are meaningless here; no acquirer produces entries.
const (
	afINET  = 2
	afINET6 = 10
	afLink  = -1
)

func acquire() ([]rawEntry, error) {
	return nil, fmt.Errorf("unsupported OS: %s", runtime.GOOS)
}
