package net

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/mdns"

	"InkBoard/internal/logging"
)

const serviceType = "_inkboard._tcp"

// Advertise announces a host on port until the returned server is shut
// down.
func Advertise(port int) (*mdns.Server, error) {
	host, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("could not get hostname: %w", err)
	}
	service, err := mdns.NewMDNSService(host, serviceType, "", "", port, nil, []string{"InkBoard"})
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS service: %w", err)
	}
	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, fmt.Errorf("failed to start mDNS server: %w", err)
	}
	logging.Logger().Info("net: advertising", "service", serviceType, "port", port)
	return server, nil
}

// Browse looks for hosts for up to timeout and returns their host:port
// addresses.
func Browse(ctx context.Context, timeout time.Duration) ([]string, error) {
	entries := make(chan *mdns.ServiceEntry, 8)
	params := mdns.DefaultParams(serviceType)
	params.Entries = entries
	params.Timeout = timeout
	params.DisableIPv6 = true

	done := make(chan error, 1)
	go func() {
		done <- mdns.QueryContext(ctx, params)
		close(entries)
	}()

	var found []string
	seen := map[string]bool{}
	for e := range entries {
		if e.AddrV4 == nil || e.Port == 0 {
			continue
		}
		addr := fmt.Sprintf("%s:%d", e.AddrV4.String(), e.Port)
		if !seen[addr] {
			seen[addr] = true
			found = append(found, addr)
		}
	}
	if err := <-done; err != nil {
		return found, fmt.Errorf("mDNS browse: %w", err)
	}
	return found, nil
}
