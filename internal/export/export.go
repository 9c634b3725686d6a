// Package export writes a point-in-time snapshot of the monitoring data to
// the data directory for copying elsewhere.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/user/devwatch/internal/model"
)

const logTailLines = 500

// DeviceLister is the registry slice the export needs.
type DeviceLister interface {
	List() ([]model.Device, error)
}

// Result names the files an export produced.
type Result struct {
	MonitorPath string
	DBPath      string
}

// Write produces monitor.txt (header, device roll-up, log tail) alongside
// the database file in dataDir.
func Write(dataDir, logFile string, devices DeviceLister) (*Result, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}

	monitorPath := filepath.Join(dataDir, "monitor.txt")

	var sb strings.Builder
	sb.WriteString("devwatch monitor export\n")
	sb.WriteString(fmt.Sprintf("export time: %s\n\n", time.Now().Format("2006-01-02 15:04:05")))

	writeDeviceSection(&sb, devices)
	writeLogTail(&sb, logFile)

	if err := os.WriteFile(monitorPath, []byte(sb.String()), 0644); err != nil {
		return nil, fmt.Errorf("failed to write monitor export: %w", err)
	}

	return &Result{
		MonitorPath: monitorPath,
		DBPath:      filepath.Join(dataDir, "devices.db"),
	}, nil
}

func writeDeviceSection(sb *strings.Builder, devices DeviceLister) {
	list, err := devices.List()
	if err != nil {
		sb.WriteString(fmt.Sprintf("devices: unavailable (%v)\n\n", err))
		return
	}

	sb.WriteString(fmt.Sprintf("devices: %d\n", len(list)))
	for _, d := range list {
		line := fmt.Sprintf("  %-20s %-30s %-5s %s", d.Name, d.Host, d.Method, d.LastStatus)
		if d.LastLatencyMs != nil {
			line += fmt.Sprintf(" %.1fms", *d.LastLatencyMs)
		}
		if !d.LastCheckedAt.IsZero() {
			line += " @ " + d.LastCheckedAt.Format("2006-01-02 15:04:05")
		}
		sb.WriteString(line + "\n")
	}
	sb.WriteString("\n")
}

func writeLogTail(sb *strings.Builder, logFile string) {
	data, err := os.ReadFile(logFile)
	if err != nil {
		sb.WriteString("no logs available\n")
		return
	}

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) > logTailLines {
		lines = lines[len(lines)-logTailLines:]
	}
	sb.WriteString(strings.Join(lines, "\n"))
	sb.WriteString("\n")
}
