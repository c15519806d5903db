// Package discovery announces the daemon's optional TCP endpoint over
// mDNS so lab tooling can find boards without static addressing. The
// unix socket endpoint is never announced.
package discovery

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/enbility/zeroconf/v3"
)

// mDNS service constants.
const (
	// ServiceType is the fpgad endpoint service type.
	ServiceType = "_fpgad._tcp"

	// Domain is the mDNS domain.
	Domain = "local."

	// DefaultTTL is the DNS record TTL.
	DefaultTTL = 120 * time.Second

	// MaxInstanceNameLen is the DNS label length limit.
	MaxInstanceNameLen = 63
)

// Info describes the announced endpoint.
type Info struct {
	// InstanceName is the mDNS instance name. Empty uses the hostname.
	InstanceName string

	// Port is the TCP listen port.
	Port int

	// DeviceHandles lists the FPGA devices present at startup,
	// published in the TXT record.
	DeviceHandles []string

	// Interface restricts announcement to one network interface.
	// Empty announces on all interfaces.
	Interface string
}

// Announcer publishes the endpoint over mDNS.
type Announcer struct {
	mu     sync.Mutex
	server *zeroconf.Server
	ttl    time.Duration
}

// NewAnnouncer creates an announcer with the default TTL.
func NewAnnouncer() *Announcer {
	return &Announcer{ttl: DefaultTTL}
}

// Announce starts publishing the endpoint. An earlier announcement is
// replaced.
func (a *Announcer) Announce(info Info) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.server != nil {
		a.server.Shutdown()
		a.server = nil
	}

	name, err := instanceName(info)
	if err != nil {
		return err
	}
	txt := txtRecords(info)

	var ifaces []net.Interface
	if info.Interface != "" {
		iface, err := net.InterfaceByName(info.Interface)
		if err != nil {
			return fmt.Errorf("unknown interface %q: %w", info.Interface, err)
		}
		ifaces = []net.Interface{*iface}
	}

	var opts []zeroconf.ServerOption
	if a.ttl > 0 {
		opts = append(opts, zeroconf.TTL(uint32(a.ttl.Seconds())))
	}

	server, err := zeroconf.Register(name, ServiceType, Domain, info.Port, txt, ifaces, opts...)
	if err != nil {
		return fmt.Errorf("failed to register mDNS service: %w", err)
	}
	a.server = server
	return nil
}

// instanceName derives the mDNS instance name, defaulting to
// "fpgad-<hostname>" and truncating to the DNS label limit.
func instanceName(info Info) (string, error) {
	name := info.InstanceName
	if name == "" {
		host, err := os.Hostname()
		if err != nil {
			return "", fmt.Errorf("failed to determine instance name: %w", err)
		}
		name = "fpgad-" + host
	}
	if len(name) > MaxInstanceNameLen {
		name = name[:MaxInstanceNameLen]
	}
	return name, nil
}

// txtRecords builds the TXT record set for the endpoint.
func txtRecords(info Info) []string {
	txt := []string{
		"devices=" + strconv.Itoa(len(info.DeviceHandles)),
	}
	for _, h := range info.DeviceHandles {
		txt = append(txt, "device="+h)
	}
	return txt
}

// Stop withdraws the announcement.
func (a *Announcer) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.server != nil {
		a.server.Shutdown()
		a.server = nil
	}
}
