// Package model defines core data structures for devwatch.
package model

import (
	"fmt"
	"strings"
	"time"
)

// Method is the reachability check method for a device.
type Method string

const (
	MethodPing Method = "ping"
	MethodTCP  Method = "tcp"
)

// ParseMethod parses a method string, accepting legacy capitalizations.
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ping", "icmp", "":
		return MethodPing, nil
	case "tcp":
		return MethodTCP, nil
	default:
		return "", &ConfigError{Field: "method", Reason: fmt.Sprintf("unknown method %q", s)}
	}
}

// Outcome is the result classification of a single probe.
type Outcome string

const (
	OutcomeUnknown Outcome = "unknown"
	OutcomeOnline  Outcome = "online"
	OutcomeOffline Outcome = "offline"
	OutcomeError   Outcome = "error"
)

// Device represents a monitored network endpoint.
type Device struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Host      string    `json:"host"`
	Method    Method    `json:"method"`
	Port      int       `json:"port"`
	TeamID    *int64    `json:"team_id,omitempty"`
	Enabled   bool      `json:"enabled"`
	Watched   bool      `json:"watched"`
	CreatedAt time.Time `json:"created_at"`

	// Last known status columns, written only by the monitoring loop.
	LastStatus    Outcome   `json:"last_status"`
	LastLatencyMs *float64  `json:"last_latency_ms,omitempty"`
	LastCheckedAt time.Time `json:"last_checked_at,omitempty"`
	AuxService    bool      `json:"aux_service"`
}

// Validate checks the device record before it is stored.
func (d *Device) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return &ConfigError{Field: "name", Reason: "device name is required"}
	}
	if strings.TrimSpace(d.Host) == "" {
		return &ConfigError{Field: "host", Reason: "device host is required"}
	}
	switch d.Method {
	case MethodPing:
		// Port is ignored for status determination.
	case MethodTCP:
		if d.Port < 1 || d.Port > 65535 {
			return &ConfigError{Field: "port", Reason: fmt.Sprintf("tcp method requires port in [1, 65535], got %d", d.Port)}
		}
	default:
		return &ConfigError{Field: "method", Reason: fmt.Sprintf("unknown method %q", d.Method)}
	}
	return nil
}

// Team groups devices for display and filtering.
type Team struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ProbeResult is the outcome of one reachability check. It is superseded
// every cycle; only the most recent result per device is retained.
type ProbeResult struct {
	DeviceID   int64         `json:"device_id"`
	Timestamp  time.Time     `json:"timestamp"`
	Outcome    Outcome       `json:"outcome"`
	Latency    time.Duration `json:"latency,omitempty"`
	AuxService bool          `json:"aux_service"`
	Message    string        `json:"message,omitempty"`
}

// LatencyMs returns the latency in milliseconds, or nil when the probe
// did not complete successfully.
func (r *ProbeResult) LatencyMs() *float64 {
	if r.Outcome != OutcomeOnline {
		return nil
	}
	ms := float64(r.Latency.Microseconds()) / 1000.0
	return &ms
}

// CycleSummary aggregates one full pass over the enabled device set.
type CycleSummary struct {
	Started  time.Time     `json:"started"`
	Duration time.Duration `json:"duration"`
	Devices  int           `json:"devices"`
	Online   int           `json:"online"`
	Offline  int           `json:"offline"`
	Errors   int           `json:"errors"`
}
