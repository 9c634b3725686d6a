// Package monitor implements the background monitoring loop.
package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/user/devwatch/internal/model"
	"github.com/user/devwatch/internal/util"
)

// State is the lifecycle state of the monitoring loop.
type State int32

const (
	StateIdle State = iota
	StateRunning
	StateStopping
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Registry is the slice of the device registry the loop needs: a fresh read
// of the probe set and the status write-back it owns.
type Registry interface {
	Enabled() ([]model.Device, error)
	UpdateStatus(id int64, result *model.ProbeResult) error
}

// Prober performs one reachability check for one device.
type Prober interface {
	Probe(ctx context.Context, dev model.Device) model.ProbeResult
}

// IntervalSource supplies the poll cadence, re-read at each cycle boundary
// so interval changes take effect without a restart.
type IntervalSource interface {
	PollInterval() time.Duration
}

// Monitor is the long-lived background loop: it enumerates enabled devices,
// dispatches probes, writes results back to the registry and the status
// cache, and signals the notifier once per cycle.
type Monitor struct {
	registry    Registry
	prober      Prober
	settings    IntervalSource
	cache       *StatusCache
	notifier    *Notifier
	concurrency int

	mu        sync.Mutex
	state     State
	lastCycle model.CycleSummary
	stopCh    chan struct{}
	probeNow  chan struct{}
	done      chan struct{}
}

// New creates a monitor in the idle state.
func New(registry Registry, prober Prober, settings IntervalSource, concurrency int) *Monitor {
	if concurrency <= 0 {
		concurrency = 16
	}
	return &Monitor{
		registry:    registry,
		prober:      prober,
		settings:    settings,
		cache:       NewStatusCache(),
		notifier:    NewNotifier(),
		concurrency: concurrency,
		state:       StateIdle,
		stopCh:      make(chan struct{}),
		probeNow:    make(chan struct{}, 1),
		done:        make(chan struct{}),
	}
}

// Cache returns the status cache read by the presentation layer.
func (m *Monitor) Cache() *StatusCache {
	return m.cache
}

// Notifier returns the change notification channel.
func (m *Monitor) Notifier() *Notifier {
	return m.notifier
}

// State returns the current lifecycle state.
func (m *Monitor) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// LastCycle returns the summary of the most recently completed cycle.
func (m *Monitor) LastCycle() model.CycleSummary {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastCycle
}

// Start launches the loop. Only valid from the idle state.
func (m *Monitor) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateIdle {
		return fmt.Errorf("monitor already %s", m.state)
	}
	m.state = StateRunning
	go m.run()
	return nil
}

// Stop commands the loop to halt. No new cycle starts after the command is
// observed; the in-flight cycle drains (probes finish, results written to
// both stores) before Stop returns with the loop in the stopped state.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if m.state != StateRunning {
		m.mu.Unlock()
		return
	}
	m.state = StateStopping
	close(m.stopCh)
	m.mu.Unlock()

	<-m.done

	m.mu.Lock()
	m.state = StateStopped
	m.mu.Unlock()
}

// ProbeNow requests an immediate extra cycle during the sleep phase.
// Requests arriving faster than cycles complete coalesce into one.
func (m *Monitor) ProbeNow() {
	select {
	case m.probeNow <- struct{}{}:
	default:
	}
}

func (m *Monitor) run() {
	defer close(m.done)

	util.Log().Info().Msg("monitor started")
	ctx := context.Background()

	for {
		select {
		case <-m.stopCh:
			util.Log().Info().Msg("monitor stopping")
			return
		default:
		}

		cycleStart := time.Now()
		m.RunCycle(ctx)

		// Interval changes apply here, at the cycle boundary.
		interval := m.settings.PollInterval()
		deadline := cycleStart.Add(interval)

		if elapsed := time.Since(cycleStart); elapsed > interval {
			util.Log().Warn().
				Dur("elapsed", elapsed).
				Dur("interval", interval).
				Msg("cycle overran the poll interval")
			continue
		}

		if !m.sleepUntil(ctx, deadline) {
			util.Log().Info().Msg("monitor stopping")
			return
		}
	}
}

// sleepUntil waits out the remainder of the interval. Probe-now requests
// trigger extra cycles without moving the deadline; a stop command ends the
// wait. Returns false when the loop should exit.
func (m *Monitor) sleepUntil(ctx context.Context, deadline time.Time) bool {
	for {
		remain := time.Until(deadline)
		if remain <= 0 {
			return true
		}

		timer := time.NewTimer(remain)
		select {
		case <-m.stopCh:
			timer.Stop()
			return false
		case <-m.probeNow:
			timer.Stop()
			m.RunCycle(ctx)
		case <-timer.C:
			return true
		}
	}
}

// RunCycle performs one full pass over the enabled device set. Per-device
// failures are isolated; the cycle itself never fails.
func (m *Monitor) RunCycle(ctx context.Context) model.CycleSummary {
	started := time.Now()

	devices, err := m.registry.Enabled()
	if err != nil {
		// Degrade and retry next cycle rather than stopping.
		util.Log().Error().Err(err).Msg("registry read failed, skipping cycle")
		return model.CycleSummary{Started: started, Duration: time.Since(started)}
	}

	util.Log().Debug().Int("devices", len(devices)).Msg("cycle start")

	results := make([]model.ProbeResult, len(devices))
	sem := make(chan struct{}, m.concurrency)
	var wg sync.WaitGroup

	for i, dev := range devices {
		wg.Add(1)
		go func(idx int, d model.Device) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			res := m.prober.Probe(ctx, d)
			results[idx] = res

			// Cache and registry both carry this result before the cycle's
			// notification fires.
			m.cache.Set(d.ID, res)
			if err := m.registry.UpdateStatus(d.ID, &res); err != nil {
				// Status stays stale until the next successful write.
				util.Log().Error().Err(err).
					Int64("device", d.ID).
					Msg("registry write failed")
			}

			evt := util.Log().Debug().
				Int64("device", d.ID).
				Str("host", d.Host).
				Str("outcome", string(res.Outcome))
			if res.Outcome == model.OutcomeOnline {
				evt = evt.Dur("latency", res.Latency)
			}
			if res.Message != "" {
				evt = evt.Str("message", res.Message)
			}
			evt.Msg("device probed")
		}(i, dev)
	}
	wg.Wait()

	summary := model.CycleSummary{
		Started:  started,
		Duration: time.Since(started),
		Devices:  len(devices),
	}
	for _, res := range results {
		switch res.Outcome {
		case model.OutcomeOnline:
			summary.Online++
		case model.OutcomeOffline:
			summary.Offline++
		case model.OutcomeError:
			summary.Errors++
		}
	}

	m.mu.Lock()
	m.lastCycle = summary
	m.mu.Unlock()

	m.notifier.Notify()

	util.Log().Info().
		Dur("duration", summary.Duration).
		Int("devices", summary.Devices).
		Int("online", summary.Online).
		Int("offline", summary.Offline).
		Int("errors", summary.Errors).
		Msg("cycle complete")

	return summary
}
