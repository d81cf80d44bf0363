package tui

import (
	"context"
	"fmt"
	"strings"

	"marathon-coach/internal/service"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// SyncModel is the sync screen model.
type SyncModel struct {
	syncService *service.SyncService
	spinner     spinner.Model
	syncing     bool
	result      *service.SyncResult
	err         error
	done        bool
}

func NewSyncModel(ss *service.SyncService) SyncModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(primaryColor)
	return SyncModel{
		syncService: ss,
		spinner:     sp,
	}
}

func (m SyncModel) Init() tea.Cmd {
	return nil
}

// SyncDoneMsg is sent when a sync finishes.
type SyncDoneMsg struct {
	Result *service.SyncResult
	Err    error
}

func (m SyncModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case SyncDoneMsg:
		m.syncing = false
		m.done = true
		m.result = msg.Result
		m.err = msg.Err
		return m, func() tea.Msg { return SyncCompleteMsg{} }

	case spinner.TickMsg:
		if m.syncing {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}

	case tea.KeyMsg:
		if !m.syncing && m.syncService != nil {
			switch msg.String() {
			case "enter", "s":
				m.syncing = true
				m.done = false
				m.err = nil
				m.result = nil
				return m, tea.Batch(m.runSync, m.spinner.Tick)
			}
		}
	}
	return m, nil
}

func (m SyncModel) runSync() tea.Msg {
	// nil progress channel: the screen shows a static spinner instead of
	// per-page updates
	result, err := m.syncService.SyncAll(context.Background(), nil)
	return SyncDoneMsg{Result: result, Err: err}
}

func (m SyncModel) View() string {
	var sections []string

	title := cardTitleStyle.Render("Strava Sync")
	sections = append(sections, title)

	if m.syncService == nil {
		sections = append(sections, statusStyle.Render(
			"\n  Strava is not configured. Add client credentials to the config file\n  and restart to enable syncing."))
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	if m.err != nil {
		sections = append(sections, errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err)))
		sections = append(sections, "\n"+statusStyle.Render("  Press 's' or Enter to retry"))
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	if m.done && !m.syncing {
		sections = append(sections, successStyle.Render("\n  Sync complete!"))
		sections = append(sections, m.renderSummary())
		sections = append(sections, "\n"+statusStyle.Render("  Press '1' to go to the dashboard"))
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	if m.syncing {
		sections = append(sections, m.renderProgress())
	} else {
		sections = append(sections, m.renderStartPrompt())
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m SyncModel) renderStartPrompt() string {
	var lines []string

	lines = append(lines, "")
	lines = append(lines, "  Syncing will:")
	lines = append(lines, "")
	lines = append(lines, "  1. Fetch new activities from Strava")
	lines = append(lines, "  2. Download GPS tracks")
	lines = append(lines, "  3. Detect personal records")
	lines = append(lines, "  4. Refresh the marathon prediction")
	lines = append(lines, "")

	short, daily := m.syncService.RateLimitStatus()
	lines = append(lines, statusStyle.Render(fmt.Sprintf("  API budget: %d (15min), %d (daily)", short, daily)))
	lines = append(lines, "")
	lines = append(lines, statusStyle.Render("  Press 's' or Enter to start"))

	return strings.Join(lines, "\n")
}

func (m SyncModel) renderProgress() string {
	var lines []string

	lines = append(lines, "")
	lines = append(lines, "  "+m.spinner.View()+" Syncing with Strava...")
	lines = append(lines, "")
	lines = append(lines, statusStyle.Render("  This may take a moment."))

	return strings.Join(lines, "\n")
}

func (m SyncModel) renderSummary() string {
	if m.result == nil {
		return ""
	}

	r := m.result
	var lines []string
	lines = append(lines, "")

	if r.ActivitiesStored > 0 {
		lines = append(lines, successStyle.Render(fmt.Sprintf("  %d runs stored", r.ActivitiesStored)))
	} else {
		lines = append(lines, statusStyle.Render("  No new runs"))
	}
	if r.ActivitiesDropped > 0 {
		lines = append(lines, statusStyle.Render(fmt.Sprintf("  %d activities skipped (not runs or malformed)", r.ActivitiesDropped)))
	}
	if r.TracksFetched > 0 {
		lines = append(lines, successStyle.Render(fmt.Sprintf("  %d GPS tracks downloaded", r.TracksFetched)))
	}
	if len(r.NewRecords) > 0 {
		lines = append(lines, successStyle.Render(fmt.Sprintf("  %d new personal records!", len(r.NewRecords))))
	}
	if r.Prediction != nil && r.Prediction.Seconds > 0 {
		lines = append(lines, successStyle.Render(
			fmt.Sprintf("  Marathon prediction: %s", service.FormatDuration(r.Prediction.Seconds))))
	}
	if len(r.Errors) > 0 {
		lines = append(lines, "")
		lines = append(lines, warningStyle.Render(fmt.Sprintf("  %d errors occurred", len(r.Errors))))
	}

	return strings.Join(lines, "\n")
}
