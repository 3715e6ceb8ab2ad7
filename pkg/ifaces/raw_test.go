package ifaces

import (
	"net/netip"
	"testing"
)

func ipv6Bytes(s string) []byte {
	b := netip.MustParseAddr(s).As16()
	return b[:]
}

func TestDecodeAddr(t *testing.T) {
	tests := []struct {
		name string
		addr *rawAddr
		kind decodeKind
		ip   string
		zone uint32
	}{
		{name: "ipv4", addr: &rawAddr{family: afINET, data: []byte{192, 168, 1, 5}}, kind: decodeIP, ip: "192.168.1.5"},
		{name: "ipv4 short payload", addr: &rawAddr{family: afINET, data: []byte{192, 168}}, kind: decodeNone},
		{name: "ipv6", addr: &rawAddr{family: afINET6, data: ipv6Bytes("fe80::1"), zone: 2}, kind: decodeIP, ip: "fe80::1", zone: 2},
		{name: "ipv6 short payload", addr: &rawAddr{family: afINET6, data: make([]byte, 8)}, kind: decodeNone},
		{name: "mac", addr: &rawAddr{family: afLink, data: []byte{0x02, 0x42, 0xac, 0x11, 0x00, 0x02}}, kind: decodeLink},
		{name: "infiniband-length hardware address", addr: &rawAddr{family: afLink, data: make([]byte, 20)}, kind: decodeNone},
		{name: "empty hardware address", addr: &rawAddr{family: afLink}, kind: decodeNone},
		{name: "unknown family", addr: &rawAddr{family: 0x7ead, data: []byte{1, 2, 3, 4}}, kind: decodeNone},
		{name: "nil buffer", addr: nil, kind: decodeNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := decodeAddr(tt.addr)
			if d.kind != tt.kind {
				t.Fatalf("got kind %v, want %v", d.kind, tt.kind)
			}
			if tt.kind != decodeIP {
				return
			}
			if want := netip.MustParseAddr(tt.ip); d.ip != want {
				t.Errorf("got address %s, want %s", d.ip, want)
			}
			if d.zone != tt.zone {
				t.Errorf("got zone %d, want %d", d.zone, tt.zone)
			}
		})
	}
}

func TestNameMatchesLink(t *testing.T) {
	tests := []struct {
		ipName   string
		linkName string
		want     bool
	}{
		{"eth0", "eth0", true},
		{"eth0:1", "eth0", true},
		{"eth0:1:2", "eth0", true},
		{"eth10", "eth0", false},
		{"eth10", "eth1", false},
		{"eth0", "eth0:1", false},
		{"wlan0", "eth0", false},
		{"eth0", "", false},
	}

	for _, tt := range tests {
		if got := nameMatchesLink(tt.ipName, tt.linkName); got != tt.want {
			t.Errorf("nameMatchesLink(%q, %q) = %v, want %v", tt.ipName, tt.linkName, got, tt.want)
		}
	}
}

func TestMacFor(t *testing.T) {
	mac := []byte{0x02, 0x42, 0xac, 0x11, 0x00, 0x02}
	var want [6]byte
	copy(want[:], mac)

	entries := []rawEntry{
		{name: "eth1", addr: &rawAddr{family: afLink, data: make([]byte, 20)}},
		{name: "eth0", addr: &rawAddr{family: afLink, data: mac}},
		{name: "eth0", addr: &rawAddr{family: afINET, data: []byte{10, 0, 0, 1}}},
	}

	tests := []struct {
		name string
		want [6]byte
	}{
		{"eth0", want},
		{"eth0:1", want},
		{"eth10", [6]byte{}}, // prefix match without the ":" boundary
		{"eth1", [6]byte{}},  // hardware address with a bad length
		{"wlan0", [6]byte{}},
	}

	for _, tt := range tests {
		if got := macFor(entries, tt.name); got != tt.want {
			t.Errorf("macFor(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestBuildPipeline(t *testing.T) {
	mac := []byte{0x02, 0x42, 0xac, 0x11, 0x00, 0x02}
	ethOp := opUp | opRunning | opBroadcast | opMulticast
	loOp := opUp | opRunning | opLoopback

	entries := []rawEntry{
		// link-layer records, discoverable but never emitted
		{name: "eth0", flags: 0x11043, op: ethOp, addr: &rawAddr{family: afLink, data: mac}},
		{name: "lo", flags: 0x49, op: loOp, addr: &rawAddr{family: afLink, data: make([]byte, 6)}},
		// IP records
		{
			name: "eth0", flags: 0x11043, op: ethOp,
			addr:      &rawAddr{family: afINET, data: []byte{10, 1, 2, 3}},
			netmask:   &rawAddr{family: afINET, data: []byte{255, 255, 255, 0}},
			broadcast: &rawAddr{family: afINET, data: []byte{10, 1, 2, 255}},
		},
		{
			name: "eth0:1", flags: 0x11043, op: ethOp,
			addr:      &rawAddr{family: afINET, data: []byte{10, 1, 3, 3}},
			prefixLen: 16, hasPrefix: true,
		},
		{name: "lo", flags: 0x49, op: loOp, addr: &rawAddr{family: afINET, data: []byte{127, 0, 0, 1}}, prefixLen: 8, hasPrefix: true},
		{name: "lo", flags: 0x49, op: loOp, addr: &rawAddr{family: afINET6, data: ipv6Bytes("::1")}, prefixLen: 128, hasPrefix: true},
		{name: "lo", flags: 0x49, op: loOp, addr: &rawAddr{family: afINET6, data: ipv6Bytes("fe80::1"), zone: 1}, prefixLen: 64, hasPrefix: true},
		// records the pipeline must skip
		{name: "tun0", op: opUp}, // missing primary address
		{name: "", addr: &rawAddr{family: afINET, data: []byte{1, 2, 3, 4}}},        // nameless
		{name: "weird0", op: opUp, addr: &rawAddr{family: 0x7ead, data: []byte{1}}}, // unrecognized family
	}

	all := build(entries, false)
	if len(all) != 5 {
		t.Fatalf("build(all) returned %d entries, want 5: %v", len(all), all)
	}

	eth0 := all[0]
	if eth0.Name() != "eth0" {
		t.Fatalf("first entry is %q, want eth0", eth0.Name())
	}
	if got := eth0.HardwareAddr().String(); got != "02:42:ac:11:00:02" {
		t.Errorf("eth0 mac = %s, want 02:42:ac:11:00:02", got)
	}
	if got := eth0.CIDR().String(); got != "10.1.2.3/24" {
		t.Errorf("eth0 cidr = %s, want 10.1.2.3/24", got)
	}
	if brd, ok := eth0.Broadcast(); !ok || brd != netip.MustParseAddr("10.1.2.255") {
		t.Errorf("eth0 broadcast = %v (ok=%v), want 10.1.2.255", brd, ok)
	}
	if eth0.Flags() != 0x11043 {
		t.Errorf("eth0 raw flags = %#x, want 0x11043", eth0.Flags())
	}
	if _, hasScope := eth0.ScopeID(); hasScope {
		t.Error("eth0 is IPv4 but reports a scope id")
	}

	alias := all[1]
	if alias.Name() != "eth0:1" {
		t.Fatalf("second entry is %q, want eth0:1", alias.Name())
	}
	if got := alias.HardwareAddr().String(); got != "02:42:ac:11:00:02" {
		t.Errorf("alias mac = %s, want the eth0 link mac", got)
	}
	if got := alias.Netmask(); got != netip.MustParseAddr("255.255.0.0") {
		t.Errorf("alias netmask = %s, want 255.255.0.0", got)
	}

	for _, ifc := range all {
		if ifc.Name() == "" {
			t.Error("emitted an interface with an empty name")
		}
		if ifc.Netmask().Is4() != ifc.Addr().Is4() {
			t.Errorf("%s: netmask family does not match address family", ifc)
		}
		_, hasScope := ifc.ScopeID()
		if hasScope != ifc.Addr().Is6() {
			t.Errorf("%s: scope id present = %v, address v6 = %v", ifc, hasScope, ifc.Addr().Is6())
		}
	}

	linkLocal := all[4]
	if got := linkLocal.CIDR().String(); got != "fe80::1/64" {
		t.Errorf("link-local cidr = %s, want fe80::1/64", got)
	}
	if zone, ok := linkLocal.ScopeID(); !ok || zone != 1 {
		t.Errorf("link-local scope id = %d (ok=%v), want 1", zone, ok)
	}
	if got := all[3].CIDR().String(); got != "::1/128" {
		t.Errorf("v6 loopback cidr = %s, want ::1/128", got)
	}
	if got := all[2].CIDR().String(); got != "127.0.0.1/8" {
		t.Errorf("v4 loopback cidr = %s, want 127.0.0.1/8", got)
	}

	up := build(entries, true)
	if len(up) != 5 {
		t.Fatalf("build(up) returned %d entries, want 5", len(up))
	}

	// a down interface is filtered by the up variant but kept by the
	// full snapshot, with the documented all-zero mask default
	withDown := append(entries, rawEntry{name: "docker0", op: 0, addr: &rawAddr{family: afINET, data: []byte{172, 17, 0, 1}}})
	if got := build(withDown, true); len(got) != 5 {
		t.Fatalf("build(up) with a down interface returned %d entries, want 5", len(got))
	}
	all = build(withDown, false)
	found := false
	for _, ifc := range all {
		if ifc.Name() != "docker0" {
			continue
		}
		found = true
		if ifc.IsUp() {
			t.Error("docker0 reports up without the up bit")
		}
		if got := ifc.Netmask(); got != netip.IPv4Unspecified() {
			t.Errorf("docker0 netmask = %s, want the all-zero IPv4 mask", got)
		}
		if got := ifc.CIDR().String(); got != "172.17.0.1/0" {
			t.Errorf("docker0 cidr = %s, want 172.17.0.1/0", got)
		}
	}
	if !found {
		t.Error("down interface missing from the unfiltered snapshot")
	}
}

func TestMaskFromPrefix(t *testing.T) {
	tests := []struct {
		ones int
		addr string
		want string
	}{
		{24, "192.168.1.5", "255.255.255.0"},
		{8, "127.0.0.1", "255.0.0.0"},
		{0, "10.0.0.1", "0.0.0.0"},
		{32, "10.0.0.1", "255.255.255.255"},
		{40, "10.0.0.1", "255.255.255.255"}, // clamped
		{-3, "10.0.0.1", "0.0.0.0"},         // clamped
		{64, "fe80::1", "ffff:ffff:ffff:ffff::"},
		{128, "::1", "ffff:ffff:ffff:ffff:ffff:ffff:ffff:ffff"},
	}

	for _, tt := range tests {
		got := maskFromPrefix(tt.ones, netip.MustParseAddr(tt.addr))
		if want := netip.MustParseAddr(tt.want); got != want {
			t.Errorf("maskFromPrefix(%d, %s) = %s, want %s", tt.ones, tt.addr, got, want)
		}
	}
}

func TestCIDRKeepsHostAddress(t *testing.T) {
	i := Interface{
		name:    "eth0",
		addr:    netip.MustParseAddr("192.168.1.5"),
		netmask: netip.MustParseAddr("255.255.255.0"),
	}
	p := i.CIDR()
	if p.Bits() != 24 {
		t.Fatalf("prefix length = %d, want 24", p.Bits())
	}
	// The host address is preserved, not masked to the network address.
	if got := p.String(); got != "192.168.1.5/24" {
		t.Errorf("cidr = %s, want 192.168.1.5/24", got)
	}
}

func TestPointToPointDst(t *testing.T) {
	peer := netip.MustParseAddr("10.9.0.2")
	i := Interface{
		name:      "wg0",
		op:        opUp | opPointToPoint,
		addr:      netip.MustParseAddr("10.9.0.1"),
		netmask:   netip.MustParseAddr("255.255.255.255"),
		broadcast: peer,
	}
	if dst, ok := i.PointToPointDst(); !ok || dst != peer {
		t.Errorf("PointToPointDst = %v (ok=%v), want %s", dst, ok, peer)
	}
	// The shared field is not reported as a broadcast address.
	if _, ok := i.Broadcast(); ok {
		t.Error("point-to-point peer leaked through Broadcast")
	}
}
