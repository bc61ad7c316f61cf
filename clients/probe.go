package clients

import (
	"context"
	"net"
	"sync/atomic"
	"time"

	"github.com/verifield/verifield/events"
	"github.com/verifield/verifield/logger"
)

var (
	_ NetworkProbe = (*InterfaceProbe)(nil)
	_ NetworkProbe = StaticProbe(true)
	_ Watcher      = (*InterfaceProbe)(nil)
)

// InterfaceProbe reports the host online when at least one non-loopback
// interface is up and running. It mirrors a browser's navigator.onLine: it
// says nothing about whether a particular endpoint is reachable.
type InterfaceProbe struct {
	interfaces func() ([]net.Interface, error)
	bus        events.Publisher
	log        logger.Logger
	last       atomic.Int32 // 0 unknown, 1 online, 2 offline
}

// NewInterfaceProbe returns a probe over the host's network interfaces.
func NewInterfaceProbe(bus events.Publisher, log logger.Logger) *InterfaceProbe {
	if bus == nil {
		bus = events.NoopPublisher{}
	}
	if log == nil {
		log = logger.NoopLogger{}
	}
	return &InterfaceProbe{
		interfaces: net.Interfaces,
		bus:        bus,
		log:        log,
	}
}

func (p *InterfaceProbe) Online() bool {
	ifaces, err := p.interfaces()
	if err != nil {
		p.log.Warn("listing network interfaces failed", map[string]any{"err": err})
		return false
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		if iface.Flags&net.FlagUp != 0 && iface.Flags&net.FlagRunning != 0 {
			return true
		}
	}
	return false
}

// Watch samples the interfaces every interval and publishes TopicNetwork when
// the online flag flips. The first sample is published unconditionally.
func (p *InterfaceProbe) Watch(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	p.check()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.check()
		}
	}
}

func (p *InterfaceProbe) check() {
	online := p.Online()
	state := int32(2)
	if online {
		state = 1
	}
	if p.last.Swap(state) == state {
		return
	}
	p.log.Info("network reachability changed", map[string]any{"online": online})
	p.bus.Publish(events.TopicNetwork, online)
}

// StaticProbe always reports the same reachability.
type StaticProbe bool

func (s StaticProbe) Online() bool { return bool(s) }
