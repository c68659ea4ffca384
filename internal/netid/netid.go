package netid

import (
	"net"
	"strings"

	psnet "github.com/shirou/gopsutil/v3/net"
)

// probeAddr is never contacted; dialing UDP only makes the kernel pick the
// outbound interface.
var probeAddr = "10.0.0.0:80"

var listInterfaces = psnet.Interfaces

// LocalIP returns the address other hosts on the LAN most likely reach this
// machine at. It reports false when nothing usable was found.
func LocalIP() (net.IP, bool) {
	if ip, ok := outboundIP(); ok {
		return ip, true
	}
	return interfaceIP()
}

func outboundIP() (net.IP, bool) {
	conn, err := net.Dial("udp", probeAddr)
	if err != nil {
		return nil, false
	}
	defer conn.Close()
	addr, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok || addr.IP == nil || addr.IP.IsUnspecified() {
		return nil, false
	}
	return addr.IP, true
}

func interfaceIP() (net.IP, bool) {
	ifaces, err := listInterfaces()
	if err != nil {
		return nil, false
	}
	for _, iface := range ifaces {
		if !hasFlag(iface.Flags, "up") || hasFlag(iface.Flags, "loopback") {
			continue
		}
		for _, a := range iface.Addrs {
			ip, _, err := net.ParseCIDR(a.Addr)
			if err != nil {
				ip = net.ParseIP(a.Addr)
			}
			if ip == nil || ip.IsLoopback() || ip.IsLinkLocalUnicast() {
				continue
			}
			if v4 := ip.To4(); v4 != nil {
				return v4, true
			}
		}
	}
	return nil, false
}

func hasFlag(flags []string, want string) bool {
	for _, f := range flags {
		if strings.EqualFold(f, want) {
			return true
		}
	}
	return false
}
