// Package discovery locates relay devices on the local network.
//
// Relay web interfaces advertise themselves as "_http._tcp" mDNS services.
// The Scanner browses that service type and keeps the entries whose hostname
// or instance name matches a pattern (by default "tenda", "relay" or
// "extender", case-insensitive). Probe then checks that a candidate base URL
// answers HTTP before the relay client logs in.
//
// # Usage Example
//
//	scanner, err := discovery.NewScanner(5*time.Second, "")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	devices, err := scanner.ScanForDevices(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, device := range devices {
//	    fmt.Printf("Found: %s\n", device.BaseURL())
//	}
//	discovery.Record(registry, devices)
//
// # Network Requirements
//
// - Requires multicast support on the network interface
// - Devices must be on the same local network segment
// - Firewall must allow mDNS (UDP port 5353)
//
// Many relay firmwares do not advertise over mDNS at all; an explicit base
// URL always works.
package discovery
