package ifaces

import "golang.org/x/sys/unix"

// Address family tags as they appear in the captured buffers.
const (
	afINET  = unix.AF_INET
	afINET6 = unix.AF_INET6
	afLink  = unix.AF_PACKET
)

var opFlagMap = []struct {
	mask uint32
	bit  opFlag
}{
	{unix.IFF_UP, opUp},
	{unix.IFF_BROADCAST, opBroadcast},
	{unix.IFF_LOOPBACK, opLoopback},
	{unix.IFF_POINTOPOINT, opPointToPoint},
	{unix.IFF_RUNNING, opRunning},
	{unix.IFF_NOARP, opNoARP},
	{unix.IFF_PROMISC, opPromiscuous},
	{unix.IFF_MULTICAST, opMulticast},
	{unix.IFF_MASTER, opMaster},
	{unix.IFF_SLAVE, opSlave},
}

// opFlags maps the kernel's IFF_ word onto the portable predicate bits.
func opFlags(raw uint32) opFlag {
	var f opFlag
	for _, m := range opFlagMap {
		if raw&m.mask != 0 {
			f |= m.bit
		}
	}
	return f
}
