// Package tui provides the live terminal dashboard.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	devmodel "github.com/user/devwatch/internal/model"
	"github.com/user/devwatch/internal/monitor"
	"github.com/user/devwatch/internal/storage"
	"github.com/user/devwatch/internal/util"
)

// fastBand is the interval range the +/- keys step through, matching the
// interactive refresh band.
const (
	fastBandMin = 1 * time.Second
	fastBandMax = 10 * time.Second
)

// App is the dashboard application. It owns an in-process monitor and
// renders its status cache, woken by the change notification channel.
type App struct {
	db  *storage.DB
	cfg *util.Config
	mon *monitor.Monitor
}

// NewApp creates the dashboard over an open database and a monitor.
func NewApp(db *storage.DB, cfg *util.Config, mon *monitor.Monitor) *App {
	return &App{db: db, cfg: cfg, mon: mon}
}

// Run starts the dashboard and blocks until the user quits.
func (a *App) Run() error {
	p := tea.NewProgram(newModel(a.db, a.cfg, a.mon), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// model is the main bubbletea model.
type model struct {
	devices  *storage.DeviceStorage
	teams    *storage.TeamStorage
	settings *storage.SettingsStorage
	mon      *monitor.Monitor

	deviceList []devmodel.Device
	teamNames  map[int64]string
	dashboard  *Dashboard
	spinner    spinner.Model
	ready      bool
	width      int
	height     int
	err        error
}

func newModel(db *storage.DB, _ *util.Config, mon *monitor.Monitor) model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(Primary)

	return model{
		devices:  storage.NewDeviceStorage(db),
		teams:    storage.NewTeamStorage(db),
		settings: storage.NewSettingsStorage(db),
		mon:      mon,
		spinner:  s,
	}
}

// Init initializes the model.
func (m model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		loadDevices(m.devices, m.teams),
		waitForChange(m.mon.Notifier()),
	)
}

// Update handles messages.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "r":
			return m, loadDevices(m.devices, m.teams)
		case "p":
			m.mon.ProbeNow()
			return m, nil
		case "+", "=":
			m.adjustInterval(time.Second)
			m.refresh()
			return m, nil
		case "-", "_":
			m.adjustInterval(-time.Second)
			m.refresh()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.dashboard != nil {
			m.dashboard.SetSize(msg.Width, msg.Height)
		}

	case devicesMsg:
		m.deviceList = msg.devices
		m.teamNames = msg.teams
		m.ready = true
		m.refresh()

	case changeMsg:
		m.refresh()
		// Re-arm for the next cycle.
		return m, waitForChange(m.mon.Notifier())

	case errMsg:
		m.err = msg.err

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the UI.
func (m model) View() string {
	if m.err != nil {
		return ErrorStyle.Render("Error: " + m.err.Error())
	}
	if !m.ready || m.dashboard == nil {
		return LoadingStyle.Render(m.spinner.View() + " Loading...")
	}
	return m.dashboard.View()
}

// refresh rebuilds the dashboard from the current cache snapshot.
func (m *model) refresh() {
	cycle := m.mon.LastCycle()
	data := &DashboardData{
		Rows:      BuildRows(m.deviceList, m.teamNames, m.mon.Cache().Snapshot()),
		Interval:  m.settings.PollInterval(),
		LoopState: m.mon.State().String(),
		CycleTime: cycle.Duration,
		Online:    cycle.Online,
		Offline:   cycle.Offline,
		Errors:    cycle.Errors,
	}
	if m.dashboard == nil {
		m.dashboard = NewDashboard(data, m.width, m.height)
	} else {
		m.dashboard.data = data
	}
}

// adjustInterval steps the poll interval within the interactive band.
// Validation errors leave the stored interval untouched.
func (m *model) adjustInterval(delta time.Duration) {
	next := m.settings.PollInterval() + delta
	if next < fastBandMin {
		next = fastBandMin
	}
	if next > fastBandMax {
		next = fastBandMax
	}
	if err := m.settings.SetPollInterval(next); err != nil {
		util.Log().Warn().Err(err).Msg("interval change rejected")
	}
}

// Messages
type devicesMsg struct {
	devices []devmodel.Device
	teams   map[int64]string
}

type changeMsg struct{}

type errMsg struct {
	err error
}

func loadDevices(devices *storage.DeviceStorage, teams *storage.TeamStorage) tea.Cmd {
	return func() tea.Msg {
		list, err := devices.List()
		if err != nil {
			return errMsg{err}
		}
		teamList, err := teams.List()
		if err != nil {
			return errMsg{err}
		}
		names := make(map[int64]string, len(teamList))
		for _, t := range teamList {
			names[t.ID] = t.Name
		}
		return devicesMsg{devices: list, teams: names}
	}
}

// waitForChange blocks on the notifier; one receive coalesces every cycle
// completed since the previous one.
func waitForChange(n *monitor.Notifier) tea.Cmd {
	return func() tea.Msg {
		<-n.Wait()
		return changeMsg{}
	}
}
