package probe

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/jobharvest/dbinit/internal/core/ports"
)

// tcpProbe checks reachability by dialing host:port and closing the
// connection immediately. No bytes are sent, so it is safe against services
// that have not finished their own startup handshake.
type tcpProbe struct {
	name        string
	addr        string
	dialTimeout time.Duration
}

// NewTCPProbe creates a readiness probe that dials the given host and port.
func NewTCPProbe(name, host, port string, dialTimeout time.Duration) ports.ReadinessProbe {
	return &tcpProbe{
		name:        name,
		addr:        net.JoinHostPort(host, port),
		dialTimeout: dialTimeout,
	}
}

func (p *tcpProbe) Name() string { return p.name }

func (p *tcpProbe) Check(ctx context.Context) error {
	d := net.Dialer{Timeout: p.dialTimeout}
	conn, err := d.DialContext(ctx, "tcp", p.addr)
	if err != nil {
		return fmt.Errorf("%s not reachable at %s: %w", p.name, p.addr, err)
	}
	return conn.Close()
}
