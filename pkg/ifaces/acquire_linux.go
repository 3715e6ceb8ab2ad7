package ifaces

import (
	"bytes"
	"net/netip"
	"os"
	"syscall"

	"github.com/josharian/native"
	"golang.org/x/sys/unix"
)

// acquire dumps the kernel's link and address tables over rtnetlink
// and copies them into owned entries. Link records come first so that
// link-layer entries precede the IP entries that correlate to them,
// matching the getifaddrs list order. The netlink walk helpers live in
// syscall; x/sys/unix carries the route attribute constants.
func acquire() ([]rawEntry, error) {
	linkTab, err := syscall.NetlinkRIB(unix.RTM_GETLINK, unix.AF_UNSPEC)
	if err != nil {
		return nil, os.NewSyscallError("netlinkrib", err)
	}
	addrTab, err := syscall.NetlinkRIB(unix.RTM_GETADDR, unix.AF_UNSPEC)
	if err != nil {
		return nil, os.NewSyscallError("netlinkrib", err)
	}

	links, byIndex, err := parseLinks(linkTab)
	if err != nil {
		return nil, err
	}
	addrs, err := parseAddrs(addrTab, byIndex)
	if err != nil {
		return nil, err
	}
	return append(links, addrs...), nil
}

func parseLinks(tab []byte) ([]rawEntry, map[uint32]linkInfo, error) {
	msgs, err := syscall.ParseNetlinkMessage(tab)
	if err != nil {
		return nil, nil, os.NewSyscallError("parsenetlinkmessage", err)
	}

	var entries []rawEntry
	byIndex := make(map[uint32]linkInfo)

	for i := range msgs {
		m := &msgs[i]
		if m.Header.Type != unix.RTM_NEWLINK {
			continue
		}
		if len(m.Data) < unix.SizeofIfInfomsg {
			continue
		}
		// struct ifinfomsg: family u8, pad u8, type u16, index s32, flags u32.
		index := native.Endian.Uint32(m.Data[4:8])
		flags := native.Endian.Uint32(m.Data[8:12])

		attrs, err := syscall.ParseNetlinkRouteAttr(m)
		if err != nil {
			continue
		}

		var name string
		var hw []byte
		for _, a := range attrs {
			switch a.Attr.Type {
			case unix.IFLA_IFNAME:
				name = string(bytes.TrimRight(a.Value, "\x00"))
			case unix.IFLA_ADDRESS:
				hw = append([]byte(nil), a.Value...)
			}
		}
		if name == "" {
			continue
		}
		byIndex[index] = linkInfo{name: name, flags: flags}

		e := rawEntry{name: name, flags: flags, op: opFlags(flags)}
		if hw != nil {
			e.addr = &rawAddr{family: afLink, data: hw}
		}
		entries = append(entries, e)
	}
	return entries, byIndex, nil
}

func parseAddrs(tab []byte, byIndex map[uint32]linkInfo) ([]rawEntry, error) {
	msgs, err := syscall.ParseNetlinkMessage(tab)
	if err != nil {
		return nil, os.NewSyscallError("parsenetlinkmessage", err)
	}

	var entries []rawEntry
	for i := range msgs {
		m := &msgs[i]
		if m.Header.Type != unix.RTM_NEWADDR {
			continue
		}
		if len(m.Data) < unix.SizeofIfAddrmsg {
			continue
		}
		// struct ifaddrmsg: family u8, prefixlen u8, flags u8, scope u8, index u32.
		family := int(m.Data[0])
		prefixLen := int(m.Data[1])
		index := native.Endian.Uint32(m.Data[4:8])

		attrs, err := syscall.ParseNetlinkRouteAttr(m)
		if err != nil {
			continue
		}

		link := byIndex[index]
		e := rawEntry{
			name:      link.name,
			flags:     link.flags,
			op:        opFlags(link.flags),
			prefixLen: prefixLen,
			hasPrefix: true,
		}

		var address, local, brd []byte
		for _, a := range attrs {
			switch a.Attr.Type {
			case unix.IFA_ADDRESS:
				address = a.Value
			case unix.IFA_LOCAL:
				local = a.Value
			case unix.IFA_BROADCAST:
				brd = a.Value
			case unix.IFA_LABEL:
				// IPv4 alias labels such as "eth0:1" override the
				// owning link's name.
				if label := string(bytes.TrimRight(a.Value, "\x00")); label != "" {
					e.name = label
				}
			}
		}

		// On point-to-point links IFA_LOCAL is the interface's own
		// address and IFA_ADDRESS holds the peer.
		payload := address
		if local != nil {
			if payload != nil && !bytes.Equal(local, payload) {
				brd = payload
			}
			payload = local
		}
		if payload == nil {
			continue
		}

		ra := &rawAddr{family: family, data: append([]byte(nil), payload...)}
		if family == unix.AF_INET6 {
			// Netlink address records carry no sockaddr_in6; like
			// getifaddrs, expose the interface index as the zone of
			// link-local addresses.
			if a, ok := netip.AddrFromSlice(payload); ok && (a.IsLinkLocalUnicast() || a.IsLinkLocalMulticast()) {
				ra.zone = index
			}
		}
		e.addr = ra
		if brd != nil {
			e.broadcast = &rawAddr{family: family, data: append([]byte(nil), brd...)}
		}
		entries = append(entries, e)
	}
	return entries, nil
}
