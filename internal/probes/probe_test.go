package probes

import (
	"context"
	"net"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/devwatch/internal/model"
)

// listen opens a loopback listener and returns its port. The listener keeps
// accepting until the test ends.
func listen(t *testing.T) int {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err, "open loopback listener")
	t.Cleanup(func() { ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			conn.Close()
		}
	}()

	return ln.Addr().(*net.TCPAddr).Port
}

// closedPort reserves a port and releases it so nothing is listening there.
func closedPort(t *testing.T) int {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())
	return port
}

func TestProbeTCPOnline(t *testing.T) {
	port := listen(t)
	p := NewProber(2*time.Second, closedPort(t))

	dev := model.Device{ID: 1, Name: "svc", Host: "127.0.0.1", Method: model.MethodTCP, Port: port}
	res := p.Probe(context.Background(), dev)

	assert.Equal(t, int64(1), res.DeviceID)
	assert.Equal(t, model.OutcomeOnline, res.Outcome)
	assert.Greater(t, res.Latency, time.Duration(0))
	assert.False(t, res.AuxService, "nothing listens on the aux port")
	require.NotNil(t, res.LatencyMs())
}

func TestProbeTCPOffline(t *testing.T) {
	p := NewProber(2*time.Second, closedPort(t))

	dev := model.Device{ID: 2, Host: "127.0.0.1", Method: model.MethodTCP, Port: closedPort(t)}
	res := p.Probe(context.Background(), dev)

	// A refused connection is a down verdict, not a check failure.
	assert.Equal(t, model.OutcomeOffline, res.Outcome)
	assert.NotEmpty(t, res.Message)
	assert.Nil(t, res.LatencyMs())
}

func TestProbeTCPError(t *testing.T) {
	p := NewProber(time.Second, closedPort(t))

	// An unresolvable name is an error performing the check.
	dev := model.Device{ID: 3, Host: "definitely-not-a-real-host.invalid", Method: model.MethodTCP, Port: 80}
	res := p.Probe(context.Background(), dev)

	assert.Equal(t, model.OutcomeError, res.Outcome)
	assert.NotEmpty(t, res.Message)
}

func TestProbeDetectsAuxService(t *testing.T) {
	primary := listen(t)
	aux := listen(t)
	p := NewProber(2*time.Second, aux)

	dev := model.Device{ID: 4, Host: "127.0.0.1", Method: model.MethodTCP, Port: primary}
	res := p.Probe(context.Background(), dev)

	assert.Equal(t, model.OutcomeOnline, res.Outcome)
	assert.True(t, res.AuxService)
}

func TestProbeAuxIndependentOfPrimary(t *testing.T) {
	aux := listen(t)
	p := NewProber(2*time.Second, aux)

	dev := model.Device{ID: 5, Host: "127.0.0.1", Method: model.MethodTCP, Port: closedPort(t)}
	res := p.Probe(context.Background(), dev)

	assert.Equal(t, model.OutcomeOffline, res.Outcome)
	assert.True(t, res.AuxService, "aux detection survives a failed primary check")
}

func TestProbeUnknownMethod(t *testing.T) {
	p := NewProber(time.Second, closedPort(t))

	dev := model.Device{ID: 6, Host: "127.0.0.1", Method: "snmp"}
	res := p.Probe(context.Background(), dev)

	assert.Equal(t, model.OutcomeError, res.Outcome)
	assert.Contains(t, res.Message, "snmp")
}

func TestProbeTCPDefaultPort(t *testing.T) {
	p := NewProber(time.Second, closedPort(t))

	// Port 0 falls back to 80; just assert the dial targeted that port by
	// checking the error mentions it.
	dev := model.Device{ID: 7, Host: "127.0.0.1", Method: model.MethodTCP, Port: 0}
	res := p.Probe(context.Background(), dev)

	if res.Outcome != model.OutcomeOnline {
		assert.Contains(t, res.Message, ":"+strconv.Itoa(80))
	}
}

func TestNewProberDefaults(t *testing.T) {
	p := NewProber(0, 0)
	assert.Equal(t, 2*time.Second, p.Timeout())
	assert.Equal(t, 5900, p.auxPort)
}

func TestParsePingOutput(t *testing.T) {
	cases := []struct {
		name    string
		out     string
		ok      bool
		latency time.Duration
	}{
		{
			name:    "linux reply",
			out:     "64 bytes from 10.0.0.5: icmp_seq=1 ttl=64 time=12.3 ms",
			ok:      true,
			latency: 12300 * time.Microsecond,
		},
		{
			name:    "windows reply",
			out:     "Reply from 10.0.0.5: bytes=32 time=4ms TTL=64",
			ok:      true,
			latency: 4 * time.Millisecond,
		},
		{
			name:    "sub-millisecond reply",
			out:     "Reply from 10.0.0.5: bytes=32 time<1ms TTL=64",
			ok:      true,
			latency: time.Millisecond,
		},
		{
			name: "summary only",
			out:  "1 packets transmitted, 1 received, 0% packet loss",
			ok:   true,
		},
		{
			name: "total loss",
			out:  "1 packets transmitted, 0 received, 100% packet loss",
			ok:   false,
		},
		{
			name: "host unreachable trumps reply line",
			out:  "Reply from 10.0.0.1: Destination host unreachable.",
			ok:   false,
		},
		{
			name: "request timed out",
			out:  "Request timed out.",
			ok:   false,
		},
		{
			name: "empty output",
			out:  "",
			ok:   false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ok, latency := parsePingOutput(tc.out)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.latency, latency)
		})
	}
}

func TestFirstLine(t *testing.T) {
	assert.Equal(t, "ping: unknown host", firstLine("ping: unknown host\nmore\nlines"))
	assert.Equal(t, "short", firstLine("  short  "))
	assert.Len(t, firstLine(strings.Repeat("x", 300)), 200)
}
