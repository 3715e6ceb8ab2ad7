//go:build darwin || dragonfly || freebsd || netbsd || openbsd

package ifaces

import (
	"os"

	"golang.org/x/net/route"
	"golang.org/x/sys/unix"
)

// acquire fetches the NET_RT_IFLIST routing information base and
// copies it into owned entries. The RIB interleaves one interface
// message per link with the address messages that belong to it,
// referenced by interface index.
func acquire() ([]rawEntry, error) {
	rib, err := route.FetchRIB(unix.AF_UNSPEC, route.RIBTypeInterface, 0)
	if err != nil {
		return nil, os.NewSyscallError("route-sysctl", err)
	}
	msgs, err := route.ParseRIB(route.RIBTypeInterface, rib)
	if err != nil {
		return nil, os.NewSyscallError("route-parserib", err)
	}

	var entries []rawEntry
	byIndex := make(map[int]linkInfo)

	for _, msg := range msgs {
		switch m := msg.(type) {
		case *route.InterfaceMessage:
			if m.Name == "" {
				continue
			}
			flags := uint32(m.Flags)
			byIndex[m.Index] = linkInfo{name: m.Name, flags: flags}

			e := rawEntry{name: m.Name, flags: flags, op: opFlags(flags)}
			if len(m.Addrs) > unix.RTAX_IFP {
				if sa, ok := m.Addrs[unix.RTAX_IFP].(*route.LinkAddr); ok && len(sa.Addr) > 0 {
					e.addr = &rawAddr{family: afLink, data: append([]byte(nil), sa.Addr...)}
				}
			}
			entries = append(entries, e)

		case *route.InterfaceAddrMessage:
			link, ok := byIndex[m.Index]
			if !ok {
				continue
			}
			e := rawEntry{name: link.name, flags: link.flags, op: opFlags(link.flags)}
			if len(m.Addrs) > unix.RTAX_IFA {
				e.addr = toRawAddr(m.Addrs[unix.RTAX_IFA])
			}
			if e.addr == nil {
				continue
			}
			if len(m.Addrs) > unix.RTAX_NETMASK {
				e.netmask = toRawAddr(m.Addrs[unix.RTAX_NETMASK])
			}
			if len(m.Addrs) > unix.RTAX_BRD {
				e.broadcast = toRawAddr(m.Addrs[unix.RTAX_BRD])
			}
			entries = append(entries, e)
		}
	}
	return entries, nil
}

// toRawAddr re-tags a parsed routing sockaddr as a family-tagged
// payload for the shared decoder.
func toRawAddr(sa route.Addr) *rawAddr {
	switch a := sa.(type) {
	case *route.Inet4Addr:
		return &rawAddr{family: afINET, data: append([]byte(nil), a.IP[:]...)}
	case *route.Inet6Addr:
		return &rawAddr{family: afINET6, data: append([]byte(nil), a.IP[:]...), zone: uint32(a.ZoneID)}
	default:
		return nil
	}
}
