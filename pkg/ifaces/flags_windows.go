package ifaces

import "golang.org/x/sys/windows"

// Address family tags as they appear in the captured buffers. afLink
// tags entries built from an adapter's physical address; Windows
// sockaddrs never carry this value themselves.
const (
	afINET  = windows.AF_INET
	afINET6 = windows.AF_INET6
	afLink  = -1
)
