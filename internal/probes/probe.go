// Package probes performs reachability checks against devices.
package probes

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
	"time"

	"github.com/user/devwatch/internal/model"
)

// Prober performs one reachability check per device. It holds no mutable
// state and is safe to invoke concurrently for independent devices.
type Prober struct {
	timeout time.Duration
	auxPort int
}

// NewProber creates a prober with the given per-probe timeout and
// auxiliary-service port.
func NewProber(timeout time.Duration, auxPort int) *Prober {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	if auxPort < 1 || auxPort > 65535 {
		auxPort = 5900
	}
	return &Prober{timeout: timeout, auxPort: auxPort}
}

// Timeout returns the per-probe timeout bound.
func (p *Prober) Timeout() time.Duration {
	return p.timeout
}

// Probe checks one device and always returns a result; every failure mode
// folds into the outcome rather than an error.
func (p *Prober) Probe(ctx context.Context, dev model.Device) model.ProbeResult {
	result := model.ProbeResult{
		DeviceID:  dev.ID,
		Timestamp: time.Now(),
		Outcome:   model.OutcomeError,
	}

	switch dev.Method {
	case model.MethodTCP:
		port := dev.Port
		if port == 0 {
			port = 80
		}
		result.Outcome, result.Latency, result.Message = p.checkTCP(ctx, dev.Host, port)
	case model.MethodPing:
		result.Outcome, result.Latency, result.Message = p.checkPing(ctx, dev.Host)
	default:
		result.Message = fmt.Sprintf("unknown method %q", dev.Method)
	}

	// Best-effort side check for a remote-access service; never affects
	// the primary outcome.
	result.AuxService = p.checkAux(ctx, dev.Host)

	return result
}

// checkTCP attempts a TCP connection within the timeout. The connection is
// closed immediately regardless of outcome.
func (p *Prober) checkTCP(ctx context.Context, host string, port int) (model.Outcome, time.Duration, string) {
	dialCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	var d net.Dialer
	start := time.Now()
	conn, err := d.DialContext(dialCtx, "tcp", net.JoinHostPort(host, fmt.Sprintf("%d", port)))
	latency := time.Since(start)

	if err == nil {
		conn.Close()
		return model.OutcomeOnline, latency, ""
	}

	if isDown(err) {
		return model.OutcomeOffline, 0, err.Error()
	}
	return model.OutcomeError, 0, err.Error()
}

// checkAux probes the configured remote-access port.
func (p *Prober) checkAux(ctx context.Context, host string) bool {
	dialCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	var d net.Dialer
	conn, err := d.DialContext(dialCtx, "tcp", net.JoinHostPort(host, fmt.Sprintf("%d", p.auxPort)))
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// isDown classifies dial errors that mean the endpoint is down or closed.
// Everything else (DNS failure, permission denial, network unreachable) is
// an error performing the check, not a verdict on the device.
func isDown(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	return errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET)
}
