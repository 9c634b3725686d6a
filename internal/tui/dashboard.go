package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	devmodel "github.com/user/devwatch/internal/model"
)

// DeviceRow is one rendered line of the device table.
type DeviceRow struct {
	Name     string
	Host     string
	Method   string
	Team     string
	Status   devmodel.Outcome
	Latency  string
	Aux      bool
	LastSeen string
}

// DashboardData holds everything the dashboard renders.
type DashboardData struct {
	Rows      []DeviceRow
	Interval  time.Duration
	LoopState string
	CycleTime time.Duration
	Online    int
	Offline   int
	Errors    int
}

// BuildRows merges the device list with the latest cache snapshot.
func BuildRows(devices []devmodel.Device, teams map[int64]string, statuses map[int64]devmodel.ProbeResult) []DeviceRow {
	rows := make([]DeviceRow, 0, len(devices))
	for _, d := range devices {
		row := DeviceRow{
			Name:   d.Name,
			Host:   d.Host,
			Method: string(d.Method),
			Status: devmodel.OutcomeUnknown,
		}
		if d.TeamID != nil {
			row.Team = teams[*d.TeamID]
		}

		if res, ok := statuses[d.ID]; ok {
			row.Status = res.Outcome
			row.Aux = res.AuxService
			row.LastSeen = res.Timestamp.Format("15:04:05")
			if res.Outcome == devmodel.OutcomeOnline {
				row.Latency = fmt.Sprintf("%.1fms", float64(res.Latency.Microseconds())/1000.0)
			}
		} else if d.LastStatus != "" && d.LastStatus != devmodel.OutcomeUnknown {
			// Fall back to the stored status until the first cycle lands.
			row.Status = d.LastStatus
			row.Aux = d.AuxService
			if d.LastLatencyMs != nil {
				row.Latency = fmt.Sprintf("%.1fms", *d.LastLatencyMs)
			}
			if !d.LastCheckedAt.IsZero() {
				row.LastSeen = d.LastCheckedAt.Format("15:04:05")
			}
		}

		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		return strings.ToLower(rows[i].Name) < strings.ToLower(rows[j].Name)
	})
	return rows
}

// Dashboard is the main dashboard view.
type Dashboard struct {
	data   *DashboardData
	width  int
	height int
}

// NewDashboard creates a new dashboard.
func NewDashboard(data *DashboardData, width, height int) *Dashboard {
	return &Dashboard{data: data, width: width, height: height}
}

// SetSize updates the dashboard size.
func (d *Dashboard) SetSize(width, height int) {
	d.width = width
	d.height = height
}

// View renders the dashboard.
func (d *Dashboard) View() string {
	var sb strings.Builder

	header := HeaderStyle.Width(d.width).Render("devwatch")
	sb.WriteString(header)
	sb.WriteString("\n\n")

	sb.WriteString(d.renderSummary())
	sb.WriteString("\n")
	sb.WriteString(d.renderDevices())
	sb.WriteString("\n")

	help := HelpStyle.Render("p probe now • +/- interval • r reload • q quit")
	sb.WriteString(help)

	return sb.String()
}

func (d *Dashboard) renderSummary() string {
	width := d.sectionWidth()

	content := fmt.Sprintf(
		"%s %s\n%s %s\n%s %s",
		LabelStyle.Render("Loop:"),
		ValueStyle.Render(d.data.LoopState),
		LabelStyle.Render("Interval:"),
		ValueStyle.Render(d.data.Interval.String()),
		LabelStyle.Render("Last cycle:"),
		ValueStyle.Render(fmt.Sprintf("%s  %s / %s / %s",
			d.data.CycleTime.Round(time.Millisecond),
			OnlineStyle.Render(fmt.Sprintf("%d up", d.data.Online)),
			OfflineStyle.Render(fmt.Sprintf("%d down", d.data.Offline)),
			ErrStatusStyle.Render(fmt.Sprintf("%d err", d.data.Errors)))),
	)

	return SectionStyle.Width(width).Render(
		SectionTitleStyle.Render("Monitor") + "\n" + content)
}

func (d *Dashboard) renderDevices() string {
	width := d.sectionWidth()

	if len(d.data.Rows) == 0 {
		content := DimStyle.Render("No devices configured. Add one with: devwatch device add")
		return SectionStyle.Width(width).Render(
			SectionTitleStyle.Render("Devices") + "\n" + content)
	}

	var rows []string
	rows = append(rows, fmt.Sprintf("%-18s %-24s %-5s %-10s %-9s %-4s %-8s %s",
		"NAME", "HOST", "TYPE", "TEAM", "STATUS", "VNC", "LATENCY", "CHECKED"))
	rows = append(rows, strings.Repeat("─", min(width-6, 88)))

	for _, r := range d.data.Rows {
		team := r.Team
		if team == "" {
			team = "-"
		}
		vnc := "-"
		if r.Aux {
			vnc = "yes"
		}
		latency := r.Latency
		if latency == "" {
			latency = "-"
		}
		seen := r.LastSeen
		if seen == "" {
			seen = "-"
		}

		rows = append(rows, fmt.Sprintf("%-18s %-24s %-5s %-10s %s %-4s %-8s %s",
			truncate(r.Name, 18), truncate(r.Host, 24), r.Method, truncate(team, 10),
			renderOutcome(r.Status), vnc, latency, seen))
	}

	content := strings.Join(rows, "\n")
	return SectionStyle.Width(width).Render(
		SectionTitleStyle.Render("Devices") + "\n" + content)
}

func (d *Dashboard) sectionWidth() int {
	w := d.width - 4
	if w < 60 {
		w = 60
	}
	return w
}

func renderOutcome(o devmodel.Outcome) string {
	switch o {
	case devmodel.OutcomeOnline:
		return OnlineStyle.Render(fmt.Sprintf("%-9s", "online"))
	case devmodel.OutcomeOffline:
		return OfflineStyle.Render(fmt.Sprintf("%-9s", "offline"))
	case devmodel.OutcomeError:
		return ErrStatusStyle.Render(fmt.Sprintf("%-9s", "error"))
	default:
		return UnknownStyle.Render(fmt.Sprintf("%-9s", "unknown"))
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
