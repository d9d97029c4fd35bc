package net

import (
	"log"
	"net"
)

// LANAddress finds the address other machines on the network can reach this
// host on. It prefers the interface used for outbound traffic and falls back
// to the first non-loopback IPv4 interface, then to loopback.
func LANAddress() string {
	if ip := outgoingIP(); ip != nil {
		return ip.String()
	}
	if ip := firstIPv4(); ip != nil {
		return ip.String()
	}
	log.Println("[NET] No LAN address found, falling back to loopback")
	return "127.0.0.1"
}

// outgoingIP asks the kernel which local address would route to the
// internet. A UDP dial sends no packets.
func outgoingIP() net.IP {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return nil
	}
	defer conn.Close()
	addr, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok || addr.IP.IsLoopback() {
		return nil
	}
	return addr.IP
}

func firstIPv4() net.IP {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, a := range addrs {
			if ipnet, ok := a.(*net.IPNet); ok && ipnet.IP.To4() != nil {
				return ipnet.IP.To4()
			}
		}
	}
	return nil
}
