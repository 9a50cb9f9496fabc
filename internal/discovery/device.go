package discovery

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Device represents a relay device discovered on the network
type Device struct {
	// Instance is the mDNS service instance name (e.g., "Tenda A9")
	Instance string

	// Hostname is the mDNS hostname (e.g., "tenda-a9.local.")
	Hostname string

	// IP is the IPv4 address, or IPv6 if the device has none
	IP string

	// Port is the HTTP port (typically 80)
	Port int

	// Metadata contains additional mDNS TXT record data
	Metadata map[string]string

	// DiscoveredAt is when the device was discovered
	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the device
func (d *Device) String() string {
	name := d.Instance
	if name == "" {
		name = d.Hostname
	}
	return fmt.Sprintf("Relay %s (%s) at %s", name, d.Hostname, net.JoinHostPort(d.IP, strconv.Itoa(d.Port)))
}

// BaseURL returns the HTTP base URL for the device. Port 80 is left implicit
// so the URL matches the form operators type.
func (d *Device) BaseURL() string {
	if d.Port == 0 || d.Port == DefaultPort {
		host := d.IP
		if ip := net.ParseIP(d.IP); ip != nil && ip.To4() == nil {
			host = "[" + d.IP + "]"
		}
		return "http://" + host
	}
	return "http://" + net.JoinHostPort(d.IP, strconv.Itoa(d.Port))
}

// GetMetadata retrieves a metadata value by key, or returns empty string if not found
func (d *Device) GetMetadata(key string) string {
	if d.Metadata == nil {
		return ""
	}
	return d.Metadata[key]
}
