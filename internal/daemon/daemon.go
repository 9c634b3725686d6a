// Package daemon provides background service functionality.
package daemon

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/user/devwatch/internal/export"
	"github.com/user/devwatch/internal/monitor"
	"github.com/user/devwatch/internal/probes"
	"github.com/user/devwatch/internal/storage"
	"github.com/user/devwatch/internal/util"
)

// Daemon ties the monitoring loop to a process: pid file, signals, status
// file, graceful shutdown.
type Daemon struct {
	config   *util.Config
	db       *storage.DB
	devices  *storage.DeviceStorage
	settings *storage.SettingsStorage
	monitor  *monitor.Monitor
	pidFile  string

	mu        sync.RWMutex
	running   bool
	startTime time.Time
	wg        sync.WaitGroup
	shutdown  chan struct{}
}

// New creates a daemon instance over an open database.
func New(cfg *util.Config, db *storage.DB) *Daemon {
	devices := storage.NewDeviceStorage(db)
	settings := storage.NewSettingsStorage(db)
	prober := probes.NewProber(settings.ProbeTimeout(), cfg.AuxPort)

	d := &Daemon{
		config:   cfg,
		db:       db,
		devices:  devices,
		settings: settings,
		pidFile:  filepath.Join(cfg.DataDir, "devwatch.pid"),
		shutdown: make(chan struct{}),
	}
	d.monitor = monitor.New(devices, prober, settings, cfg.ProbeConcurrency)

	return d
}

// Monitor exposes the monitoring loop for in-process consumers.
func (d *Daemon) Monitor() *monitor.Monitor {
	return d.monitor
}

// Start begins monitoring and signal handling.
func (d *Daemon) Start() error {
	d.mu.Lock()
	if d.running {
		d.mu.Unlock()
		return fmt.Errorf("daemon already running")
	}
	d.running = true
	d.startTime = time.Now()
	d.mu.Unlock()

	if err := d.writePIDFile(); err != nil {
		return fmt.Errorf("failed to write PID file: %w", err)
	}

	util.Log().Info().Int("pid", os.Getpid()).Msg("daemon starting")

	if err := d.monitor.Start(); err != nil {
		d.removePIDFile()
		return fmt.Errorf("failed to start monitor: %w", err)
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.handleSignals()
	}()

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.writeStatusLoop()
	}()

	return nil
}

// Wait blocks until the daemon has shut down.
func (d *Daemon) Wait() {
	d.wg.Wait()
}

// Stop shuts the daemon down gracefully: the monitor drains its in-flight
// cycle, then files are cleaned up.
func (d *Daemon) Stop() {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return
	}
	d.running = false
	d.mu.Unlock()

	util.Log().Info().Msg("daemon stopping")

	close(d.shutdown)
	d.monitor.Stop()

	if d.settings.ExportOnClose() {
		if _, err := export.Write(d.config.DataDir, d.config.LogFile, d.devices); err != nil {
			util.Log().Warn().Err(err).Msg("export on close failed")
		}
	}

	d.removePIDFile()
	d.removeStatusFile()

	util.Log().Info().Msg("daemon stopped")
}

// IsRunning returns whether the daemon is running.
func (d *Daemon) IsRunning() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.running
}

// writeStatusLoop refreshes the status file whenever a cycle completes.
func (d *Daemon) writeStatusLoop() {
	for {
		select {
		case <-d.shutdown:
			return
		case <-d.monitor.Notifier().Wait():
			if err := d.writeStatusFile(); err != nil {
				util.Log().Warn().Err(err).Msg("failed to write status file")
			}
		}
	}
}

func (d *Daemon) writeStatusFile() error {
	d.mu.RLock()
	start := d.startTime
	d.mu.RUnlock()

	sf := StatusFile{
		Running:   true,
		PID:       os.Getpid(),
		State:     d.monitor.State().String(),
		StartTime: start.Format("2006-01-02 15:04:05"),
		Uptime:    time.Since(start).Round(time.Second).String(),
		LastCycle: d.monitor.LastCycle(),
	}
	return WriteStatusFile(d.config.DataDir, &sf)
}

func (d *Daemon) writePIDFile() error {
	return os.WriteFile(d.pidFile, []byte(strconv.Itoa(os.Getpid())), 0644)
}

func (d *Daemon) removePIDFile() {
	os.Remove(d.pidFile)
}

func (d *Daemon) removeStatusFile() {
	os.Remove(filepath.Join(d.config.DataDir, "status.json"))
}
