package net

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/mdns"
)

const serviceType = "_sketchpad._tcp"

// Advertise announces a sketchpad server on port over mDNS until the
// returned server is shut down.
func Advertise(port int) (*mdns.Server, error) {
	host, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("could not get hostname: %w", err)
	}

	service, err := mdns.NewMDNSService(
		host,
		serviceType,
		"",
		"",
		port,
		nil,
		[]string{"Sticker Sketchpad", "path=/"},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS service: %w", err)
	}

	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, fmt.Errorf("failed to start mDNS server: %w", err)
	}
	return server, nil
}

// Discovered is a sketchpad server found on the LAN.
type Discovered struct {
	Name string
	URL  string
}

// Browse queries the LAN for sketchpad servers for up to timeout and calls
// found for each one that has a reachable IPv4 address.
func Browse(timeout time.Duration, found func(Discovered)) error {
	entries := make(chan *mdns.ServiceEntry, 8)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for e := range entries {
			if e.AddrV4 == nil || e.Port == 0 {
				continue
			}
			found(Discovered{
				Name: e.Host,
				URL:  fmt.Sprintf("http://%s:%d/", e.AddrV4.String(), e.Port),
			})
		}
	}()

	params := mdns.DefaultParams(serviceType)
	params.Entries = entries
	params.Timeout = timeout
	params.DisableIPv6 = true
	err := mdns.Query(params)
	close(entries)
	<-done
	if err != nil {
		return fmt.Errorf("mDNS query: %w", err)
	}
	return nil
}
