package ifaces

import (
	"encoding/json"
	"fmt"
	"net"
	"net/netip"
)

// Interface is one (name, address) pair reported by the OS, enriched
// with netmask, hardware address and the platform flag word. The zero
// value is not a valid Interface; values are comparable and usable as
// map keys.
type Interface struct {
	name      string
	flags     uint32
	op        opFlag
	mac       [6]byte
	addr      netip.Addr
	scopeID   uint32
	hasScope  bool
	netmask   netip.Addr
	broadcast netip.Addr
}

// All returns every address-bearing interface entry that decodes
// successfully, in the order the OS reported them. Each call performs
// one fresh enumeration; under unchanged system state repeated calls
// yield the same entries. An empty slice is a valid result.
func All() ([]Interface, error) {
	entries, err := acquire()
	if err != nil {
		return nil, err
	}
	return build(entries, false), nil
}

// Up is All restricted to operationally active interfaces.
func Up() ([]Interface, error) {
	entries, err := acquire()
	if err != nil {
		return nil, err
	}
	return build(entries, true), nil
}

// Name returns the interface name. Never empty.
func (i Interface) Name() string { return i.name }

// Flags returns the platform flag word unmodified. Bit positions are
// platform-defined; use the Is predicates for portable checks.
func (i Interface) Flags() uint32 { return i.flags }

// HardwareAddr returns the 6-byte MAC address, all zero when no
// link-layer record matched the entry's name.
func (i Interface) HardwareAddr() net.HardwareAddr {
	mac := make(net.HardwareAddr, len(i.mac))
	copy(mac, i.mac[:])
	return mac
}

// Addr returns the interface address.
func (i Interface) Addr() netip.Addr { return i.addr }

// ScopeID returns the IPv6 zone id; present exactly when the address
// is IPv6. On Linux the kernel exposes a zone only for link-local
// addresses, so other IPv6 addresses report zero.
func (i Interface) ScopeID() (uint32, bool) { return i.scopeID, i.hasScope }

// Netmask returns the netmask, always in the address's family. When
// the platform reported no usable mask this is the family's all-zero
// address.
func (i Interface) Netmask() netip.Addr { return i.netmask }

// Broadcast returns the broadcast address; ok only when the interface
// is broadcast-capable and the OS reported one.
func (i Interface) Broadcast() (netip.Addr, bool) {
	if i.op&opBroadcast == 0 || !i.broadcast.IsValid() {
		return netip.Addr{}, false
	}
	return i.broadcast, true
}

// PointToPointDst returns the peer address of a point-to-point link;
// it shares the underlying OS field with Broadcast.
func (i Interface) PointToPointDst() (netip.Addr, bool) {
	if i.op&opPointToPoint == 0 || !i.broadcast.IsValid() {
		return netip.Addr{}, false
	}
	return i.broadcast, true
}

// CIDR pairs the interface address with the netmask's prefix length.
// Deliberately the host address, not the network address: callers of
// the netifaces lineage expect "10.0.0.5/24", not "10.0.0.0/24".
func (i Interface) CIDR() netip.Prefix {
	return netip.PrefixFrom(i.addr, maskOnes(i.netmask))
}

// IsUp reports whether the interface is administratively up.
func (i Interface) IsUp() bool { return i.op&opUp != 0 }

// IsBroadcast reports whether the interface is broadcast-capable.
func (i Interface) IsBroadcast() bool { return i.op&opBroadcast != 0 }

// IsLoopback reports whether the interface is a loopback device.
func (i Interface) IsLoopback() bool { return i.op&opLoopback != 0 }

// IsPointToPoint reports whether the interface is a point-to-point
// link.
func (i Interface) IsPointToPoint() bool { return i.op&opPointToPoint != 0 }

// IsRunning reports whether the interface is operationally running.
func (i Interface) IsRunning() bool { return i.op&opRunning != 0 }

// IsNoARP reports whether ARP is disabled on the interface. Not
// reported on Windows.
func (i Interface) IsNoARP() bool { return i.op&opNoARP != 0 }

// IsPromiscuous reports whether the interface is in promiscuous mode.
// Not reported on Windows.
func (i Interface) IsPromiscuous() bool { return i.op&opPromiscuous != 0 }

// IsMulticast reports whether the interface is multicast-capable.
func (i Interface) IsMulticast() bool { return i.op&opMulticast != 0 }

// IsMaster reports whether the interface is a bonding master. Linux
// only.
func (i Interface) IsMaster() bool { return i.op&opMaster != 0 }

// IsSlave reports whether the interface is a bonding slave. Linux
// only.
func (i Interface) IsSlave() bool { return i.op&opSlave != 0 }

// String renders the record in a compact single-line form.
func (i Interface) String() string {
	return fmt.Sprintf("%s %s mac=%s flags=%#x", i.name, i.CIDR(), i.HardwareAddr(), i.flags)
}

// MarshalJSON renders the record for machine consumption.
func (i Interface) MarshalJSON() ([]byte, error) {
	out := struct {
		Name      string  `json:"name"`
		Addr      string  `json:"addr"`
		Netmask   string  `json:"netmask"`
		CIDR      string  `json:"cidr"`
		MAC       string  `json:"mac"`
		ScopeID   *uint32 `json:"scope_id,omitempty"`
		Broadcast string  `json:"broadcast,omitempty"`
		Flags     uint32  `json:"flags"`
		Up        bool    `json:"up"`
		Loopback  bool    `json:"loopback"`
	}{
		Name:     i.name,
		Addr:     i.addr.String(),
		Netmask:  i.netmask.String(),
		CIDR:     i.CIDR().String(),
		MAC:      i.HardwareAddr().String(),
		Flags:    i.flags,
		Up:       i.IsUp(),
		Loopback: i.IsLoopback(),
	}
	if id, ok := i.ScopeID(); ok {
		out.ScopeID = &id
	}
	if brd, ok := i.Broadcast(); ok {
		out.Broadcast = brd.String()
	}
	return json.Marshal(out)
}
