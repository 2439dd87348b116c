// Package privacy masks client identifiers before they reach the logs.
package privacy

import (
	"net/netip"
	"strings"
)

const (
	ipv4MaskBits = 24
	ipv6MaskBits = 48
)

// AnonymizeIP keeps only the network part of an address: the /24 of an IPv4 address
// and the /48 of an IPv6 address. Bracketed IPv6 literals ("[::1]") as found in
// RemoteAddr are accepted.
//
// Returns "unknown" for empty input and "invalid" for anything that is not an address.
func AnonymizeIP(ip string) string {
	ip = strings.TrimSpace(ip)
	if ip == "" || ip == "unknown" {
		return "unknown"
	}
	ip = strings.TrimSuffix(strings.TrimPrefix(ip, "["), "]")

	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return "invalid"
	}
	addr = addr.Unmap().WithZone("")

	bits := ipv6MaskBits
	if addr.Is4() {
		bits = ipv4MaskBits
	}
	prefix, err := addr.Prefix(bits)
	if err != nil {
		return "invalid"
	}
	return prefix.Addr().String()
}
