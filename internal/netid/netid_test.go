package netid

import (
	"errors"
	"testing"

	psnet "github.com/shirou/gopsutil/v3/net"
)

func stubProbe(t *testing.T, addr string, ifaces func() (psnet.InterfaceStatList, error)) {
	t.Helper()
	oldAddr, oldList := probeAddr, listInterfaces
	probeAddr = addr
	listInterfaces = ifaces
	t.Cleanup(func() {
		probeAddr = oldAddr
		listInterfaces = oldList
	})
}

func TestLocalIP_FallsBackToInterfaces(t *testing.T) {
	stubProbe(t, "not-an-address", func() (psnet.InterfaceStatList, error) {
		return psnet.InterfaceStatList{
			{Name: "lo", Flags: []string{"up", "loopback"}, Addrs: psnet.InterfaceAddrList{{Addr: "127.0.0.1/8"}}},
			{Name: "eth1", Flags: []string{"broadcast"}, Addrs: psnet.InterfaceAddrList{{Addr: "10.9.9.9/24"}}},
			{Name: "eth0", Flags: []string{"up", "broadcast"}, Addrs: psnet.InterfaceAddrList{
				{Addr: "fe80::1/64"},
				{Addr: "192.168.1.20/24"},
			}},
		}, nil
	})

	ip, ok := LocalIP()
	if !ok {
		t.Fatal("expected fallback address")
	}
	if ip.String() != "192.168.1.20" {
		t.Fatalf("unexpected address %s", ip)
	}
}

func TestLocalIP_UnknownWhenEverythingFails(t *testing.T) {
	stubProbe(t, "not-an-address", func() (psnet.InterfaceStatList, error) {
		return nil, errors.New("sandboxed")
	})

	ip, ok := LocalIP()
	if ok || ip != nil {
		t.Fatalf("expected unknown address, got %v", ip)
	}
}
