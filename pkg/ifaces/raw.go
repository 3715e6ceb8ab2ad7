package ifaces

import (
	"math/bits"
	"net/netip"
	"strings"
)

// rawAddr is one family-tagged address buffer captured from the OS.
// data holds only the family-specific payload, already copied out of
// the OS reply; decodeAddr validates its length before reading.
type rawAddr struct {
	family int
	data   []byte
	zone   uint32
}

// rawEntry is one record of a snapshot: either a link-layer entry
// carrying a hardware address, or an IP-bearing entry. All byte slices
// are owned copies; nothing references OS memory once acquisition
// returns, so abandoning a snapshot early cannot leak or double-free.
type rawEntry struct {
	name      string
	flags     uint32 // platform flag word, passed through untouched
	op        opFlag
	addr      *rawAddr
	netmask   *rawAddr
	broadcast *rawAddr // broadcast or point-to-point peer, flag-dependent
	prefixLen int      // on-link prefix length where no netmask buffer exists
	hasPrefix bool
}

// linkInfo carries what address records need from their owning link
// record on platforms that report the two separately.
type linkInfo struct {
	name  string
	flags uint32
}

type decodeKind int

const (
	decodeNone decodeKind = iota // missing, malformed or unrecognized
	decodeIP
	decodeLink
)

type decoded struct {
	kind decodeKind
	ip   netip.Addr
	zone uint32
	mac  [6]byte
}

// decodeAddr interprets a family-tagged buffer. Unknown families and
// malformed payloads yield decodeNone: the entry is skipped, never an
// error.
func decodeAddr(ra *rawAddr) decoded {
	if ra == nil {
		return decoded{}
	}
	switch ra.family {
	case afINET:
		if len(ra.data) < 4 {
			return decoded{}
		}
		return decoded{kind: decodeIP, ip: netip.AddrFrom4([4]byte(ra.data[:4]))}
	case afINET6:
		if len(ra.data) < 16 {
			return decoded{}
		}
		return decoded{kind: decodeIP, ip: netip.AddrFrom16([16]byte(ra.data[:16])), zone: ra.zone}
	case afLink:
		// Some virtual devices declare other hardware address lengths
		// (infiniband, firewire); only 6-byte MACs are usable.
		if len(ra.data) != 6 {
			return decoded{}
		}
		var mac [6]byte
		copy(mac[:], ra.data)
		return decoded{kind: decodeLink, mac: mac}
	default:
		return decoded{}
	}
}

// macFor resolves the hardware address for the IP-bearing entry named
// name by rescanning the whole snapshot for a matching link-layer
// record. Aliased sub-entries such as eth0:1 share the physical record
// named eth0. First match in list order wins; no match leaves the MAC
// all-zero.
func macFor(entries []rawEntry, name string) [6]byte {
	for i := range entries {
		if !nameMatchesLink(name, entries[i].name) {
			continue
		}
		if d := decodeAddr(entries[i].addr); d.kind == decodeLink {
			return d.mac
		}
	}
	return [6]byte{}
}

// nameMatchesLink reports whether a link record named linkName serves
// the IP entry named ipName: the names are equal, or ipName is linkName
// plus a ":"-separated alias suffix.
func nameMatchesLink(ipName, linkName string) bool {
	if linkName == "" {
		return false
	}
	if linkName == ipName {
		return true
	}
	return len(ipName) > len(linkName) &&
		strings.HasPrefix(ipName, linkName) &&
		ipName[len(linkName)] == ':'
}

// build runs the filter/decode pipeline over a snapshot in traversal
// order. upOnly additionally requires the operational bit, checked
// before MAC resolution so inactive entries never trigger a rescan.
func build(entries []rawEntry, upOnly bool) []Interface {
	out := make([]Interface, 0, len(entries))
	for i := range entries {
		e := &entries[i]
		if e.name == "" || e.addr == nil {
			continue
		}
		d := decodeAddr(e.addr)
		if d.kind != decodeIP {
			// Link-layer records exist only to be found by macFor;
			// unrecognized families are skipped.
			continue
		}
		if upOnly && e.op&opUp == 0 {
			continue
		}
		ifc := Interface{
			name:    e.name,
			flags:   e.flags,
			op:      e.op,
			addr:    d.ip,
			netmask: netmaskFor(e, d.ip),
			mac:     macFor(entries, e.name),
		}
		if d.ip.Is6() {
			ifc.scopeID = d.zone
			ifc.hasScope = true
		}
		if b := decodeAddr(e.broadcast); b.kind == decodeIP {
			ifc.broadcast = b.ip
		}
		out = append(out, ifc)
	}
	return out
}

// netmaskFor decodes the entry's netmask buffer, or derives the mask
// from the on-link prefix length where the platform reports one
// instead. A missing or undecodable mask defaults to the all-zero
// address of the entry's address family, so the mask and address
// families always agree.
func netmaskFor(e *rawEntry, addr netip.Addr) netip.Addr {
	if m := decodeAddr(e.netmask); m.kind == decodeIP && m.ip.Is4() == addr.Is4() {
		return m.ip
	}
	if e.hasPrefix {
		return maskFromPrefix(e.prefixLen, addr)
	}
	if addr.Is4() {
		return netip.IPv4Unspecified()
	}
	return netip.IPv6Unspecified()
}

// maskFromPrefix left-fills ones one-bits into a mask of the address's
// bit width. Out-of-range prefix lengths are clamped.
func maskFromPrefix(ones int, addr netip.Addr) netip.Addr {
	width := addr.BitLen()
	if ones < 0 {
		ones = 0
	}
	if ones > width {
		ones = width
	}
	buf := make([]byte, width/8)
	for i := 0; i < ones; i++ {
		buf[i/8] |= 1 << (7 - i%8)
	}
	mask, _ := netip.AddrFromSlice(buf)
	return mask
}

// maskOnes counts the one-bits of a netmask.
func maskOnes(mask netip.Addr) int {
	n := 0
	for _, b := range mask.AsSlice() {
		n += bits.OnesCount8(b)
	}
	return n
}
