package discovery

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/muurk/relaylink/internal/config"
	"github.com/muurk/relaylink/internal/logging"
)

const (
	// ServiceType is the mDNS service type relay web interfaces advertise
	ServiceType = "_http._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."

	// DefaultScanTimeout is the default timeout for device discovery
	DefaultScanTimeout = 5 * time.Second

	// DefaultPort is the default HTTP port of relay devices
	DefaultPort = 80

	// DefaultPattern matches the hostnames and instance names of relay devices
	DefaultPattern = `(?i)tenda|relay|extender`
)

// Browser browses mDNS services. zeroconf.Resolver satisfies it.
type Browser interface {
	Browse(ctx context.Context, service, domain string, entries chan<- *zeroconf.ServiceEntry) error
}

// Scanner handles mDNS device discovery
type Scanner struct {
	// Timeout is the maximum time to wait for device discovery
	Timeout time.Duration

	pattern    *regexp.Regexp
	newBrowser func() (Browser, error)
}

// NewScanner creates a scanner keeping services whose hostname or instance
// name matches pattern. An empty pattern uses DefaultPattern.
func NewScanner(timeout time.Duration, pattern string) (*Scanner, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid discovery pattern %q: %w", pattern, err)
	}
	if timeout <= 0 {
		timeout = DefaultScanTimeout
	}

	return &Scanner{
		Timeout: timeout,
		pattern: re,
		newBrowser: func() (Browser, error) {
			resolver, err := zeroconf.NewResolver(nil)
			if err != nil {
				return nil, err
			}
			return resolver, nil
		},
	}, nil
}

// ScanForDevices discovers relay devices until the timeout expires or ctx
// is canceled. Devices are deduplicated by address.
func (s *Scanner) ScanForDevices(ctx context.Context) ([]*Device, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	resolver, err := s.newBrowser()
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	entries := make(chan *zeroconf.ServiceEntry)
	var (
		mu      sync.Mutex
		devices []*Device
		seen    = make(map[string]bool)
		done    = make(chan struct{})
	)

	go func() {
		defer close(done)
		for entry := range entries {
			device := s.parseServiceEntry(entry)
			if device == nil {
				continue
			}
			mu.Lock()
			if !seen[device.BaseURL()] {
				seen[device.BaseURL()] = true
				devices = append(devices, device)
				logging.Debug("Relay discovered", zap.String("host", device.Hostname), zap.String("ip", device.IP))
			}
			mu.Unlock()
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	<-ctx.Done()

	// The resolver closes entries once ctx is done; wait for the collector
	// unless it is still blocked after a grace period.
	select {
	case <-done:
	case <-time.After(200 * time.Millisecond):
	}

	mu.Lock()
	defer mu.Unlock()
	out := make([]*Device, len(devices))
	copy(out, devices)
	return out, nil
}

// WaitForDevice returns the first relay whose hostname or instance contains
// name (case-insensitive).
func (s *Scanner) WaitForDevice(ctx context.Context, name string) (*Device, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	resolver, err := s.newBrowser()
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	entries := make(chan *zeroconf.ServiceEntry)
	deviceChan := make(chan *Device, 1)
	want := strings.ToLower(name)

	go func() {
		for entry := range entries {
			device := s.parseServiceEntry(entry)
			if device == nil {
				continue
			}
			if strings.Contains(strings.ToLower(device.Hostname), want) ||
				strings.Contains(strings.ToLower(device.Instance), want) {
				deviceChan <- device
				cancel()
				return
			}
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	select {
	case device := <-deviceChan:
		return device, nil
	case <-ctx.Done():
		select {
		case device := <-deviceChan:
			return device, nil
		default:
		}
		return nil, fmt.Errorf("relay %q not found within %s", name, s.Timeout)
	}
}

// parseServiceEntry converts a zeroconf service entry to a Device.
// Returns nil if the entry is not a relay device.
func (s *Scanner) parseServiceEntry(entry *zeroconf.ServiceEntry) *Device {
	hostname := entry.HostName
	if hostname == "" {
		return nil
	}
	if !s.pattern.MatchString(hostname) && !s.pattern.MatchString(entry.Instance) {
		return nil
	}

	var ip string
	if len(entry.AddrIPv4) > 0 {
		ip = entry.AddrIPv4[0].String()
	} else if len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}
	if ip == "" {
		return nil
	}

	port := entry.Port
	if port == 0 {
		port = DefaultPort
	}

	// TXT records are "key=value" or a bare key
	metadata := make(map[string]string)
	for _, txt := range entry.Text {
		key, value, _ := strings.Cut(txt, "=")
		metadata[key] = value
	}

	return &Device{
		Instance:     entry.Instance,
		Hostname:     hostname,
		IP:           ip,
		Port:         port,
		Metadata:     metadata,
		DiscoveredAt: time.Now(),
	}
}

// Record stores discovered devices in the registry's relays section
func Record(registry *config.Registry, devices []*Device) {
	for _, d := range devices {
		registry.UpdateRelayLastSeen(d.BaseURL(), d.IP, d.Hostname)
		if relay := registry.GetRelay(d.BaseURL()); relay.Nickname == "" && d.Instance != "" {
			relay.Nickname = d.Instance
		}
	}
}
