package probe_test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobharvest/dbinit/internal/infrastructure/probe"
)

func TestTCPProbeReady(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	host, port, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)

	p := probe.NewTCPProbe("database", host, port, time.Second)
	assert.Equal(t, "database", p.Name())
	assert.NoError(t, p.Check(context.Background()))
}

func TestTCPProbeNotReady(t *testing.T) {
	// Grab a free port and close the listener so nothing accepts on it.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	host, port, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)
	require.NoError(t, ln.Close())

	p := probe.NewTCPProbe("database", host, port, 200*time.Millisecond)
	err = p.Check(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database not reachable")
}

func TestTCPProbeRespectsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := probe.NewTCPProbe("database", "10.255.255.1", "5432", 5*time.Second)
	err := p.Check(ctx)
	require.Error(t, err)
}

func TestTCPProbeBecomesReady(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	host, port, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)
	require.NoError(t, ln.Close())

	p := probe.NewTCPProbe("database", host, port, 200*time.Millisecond)
	require.Error(t, p.Check(context.Background()))

	// Service comes up on the same port; the very next check must pass.
	ln2, err := net.Listen("tcp", net.JoinHostPort(host, port))
	require.NoError(t, err)
	defer ln2.Close()

	assert.NoError(t, p.Check(context.Background()))
}
