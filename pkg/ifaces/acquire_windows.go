package ifaces

import (
	"os"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

// IP_ADAPTER_NO_MULTICAST, not exported by x/sys/windows.
const ipAdapterNoMulticast = 0x00000010

// acquire walks the two-level adapter list from GetAdaptersAddresses
// and flattens it into one entry per adapter (link layer) plus one
// entry per unicast address. The call is retried with the size the API
// reports whenever the buffer is too small.
func acquire() ([]rawEntry, error) {
	var b []byte
	size := uint32(15000) // one allocation suffices for most hosts
	for {
		b = make([]byte, size)
		err := windows.GetAdaptersAddresses(
			windows.AF_UNSPEC,
			windows.GAA_FLAG_INCLUDE_PREFIX,
			0,
			(*windows.IpAdapterAddresses)(unsafe.Pointer(&b[0])),
			&size,
		)
		if err == nil {
			break
		}
		if err != windows.ERROR_BUFFER_OVERFLOW {
			return nil, os.NewSyscallError("getadaptersaddresses", err)
		}
		if size <= uint32(len(b)) {
			return nil, os.NewSyscallError("getadaptersaddresses", err)
		}
	}
	if size == 0 {
		return nil, nil
	}

	var entries []rawEntry
	for aa := (*windows.IpAdapterAddresses)(unsafe.Pointer(&b[0])); aa != nil; aa = aa.Next {
		name := windows.UTF16PtrToString(aa.FriendlyName)
		if name == "" {
			continue
		}
		flags := aa.Flags
		op := adapterOpFlags(aa)

		link := rawEntry{name: name, flags: flags, op: op}
		if n := aa.PhysicalAddressLength; n > 0 && int(n) <= len(aa.PhysicalAddress) {
			link.addr = &rawAddr{family: afLink, data: append([]byte(nil), aa.PhysicalAddress[:n]...)}
		}
		entries = append(entries, link)

		for ua := aa.FirstUnicastAddress; ua != nil; ua = ua.Next {
			ra := sockaddrToRaw(ua.Address)
			if ra == nil {
				continue
			}
			entries = append(entries, rawEntry{
				name:      name,
				flags:     flags,
				op:        op,
				addr:      ra,
				prefixLen: int(ua.OnLinkPrefixLength),
				hasPrefix: true,
			})
		}
	}
	return entries, nil
}

// sockaddrToRaw copies the family-tagged payload out of a raw sockaddr
// buffer, validating the declared length before reading fixed fields.
func sockaddrToRaw(sa windows.SocketAddress) *rawAddr {
	if sa.Sockaddr == nil {
		return nil
	}
	switch sa.Sockaddr.Addr.Family {
	case windows.AF_INET:
		if sa.SockaddrLength < int32(unsafe.Sizeof(syscall.RawSockaddrInet4{})) {
			return nil
		}
		v4 := (*syscall.RawSockaddrInet4)(unsafe.Pointer(sa.Sockaddr))
		return &rawAddr{family: afINET, data: append([]byte(nil), v4.Addr[:]...)}
	case windows.AF_INET6:
		if sa.SockaddrLength < int32(unsafe.Sizeof(syscall.RawSockaddrInet6{})) {
			return nil
		}
		v6 := (*syscall.RawSockaddrInet6)(unsafe.Pointer(sa.Sockaddr))
		return &rawAddr{family: afINET6, data: append([]byte(nil), v6.Addr[:]...), zone: v6.Scope_id}
	default:
		return nil
	}
}

// adapterOpFlags derives the portable predicate bits from OperStatus,
// IfType and the adapter flag word; Windows has no single bitmask
// carrying all of them.
func adapterOpFlags(aa *windows.IpAdapterAddresses) opFlag {
	var f opFlag
	if aa.OperStatus == windows.IfOperStatusUp {
		f |= opUp | opRunning
	}
	switch aa.IfType {
	case windows.IF_TYPE_SOFTWARE_LOOPBACK:
		f |= opLoopback | opMulticast
	case windows.IF_TYPE_PPP, windows.IF_TYPE_TUNNEL:
		f |= opPointToPoint | opMulticast
	case windows.IF_TYPE_ETHERNET_CSMACD, windows.IF_TYPE_ISO88025_TOKENRING, windows.IF_TYPE_IEEE80211, windows.IF_TYPE_IEEE1394:
		f |= opBroadcast | opMulticast
	}
	if aa.Flags&ipAdapterNoMulticast != 0 {
		f &^= opMulticast
	}
	return f
}
