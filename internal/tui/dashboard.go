package tui

import (
	"fmt"

	"marathon-coach/internal/service"
	"marathon-coach/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

// DashboardModel is the dashboard screen model.
type DashboardModel struct {
	queryService *service.QueryService
	data         *service.DashboardData
	loading      bool
	err          error
}

func NewDashboardModel(qs *service.QueryService) DashboardModel {
	return DashboardModel{
		queryService: qs,
		loading:      true,
	}
}

func (m DashboardModel) Init() tea.Cmd {
	return m.loadData
}

func (m DashboardModel) loadData() tea.Msg {
	data, err := m.queryService.GetDashboardData()
	if err != nil {
		return dashboardDataMsg{err: err}
	}
	return dashboardDataMsg{data: data}
}

type dashboardDataMsg struct {
	data *service.DashboardData
	err  error
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardDataMsg:
		m.loading = false
		m.err = msg.err
		m.data = msg.data
	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			m.loading = true
			return m, m.loadData
		}
	}
	return m, nil
}

func (m DashboardModel) View() string {
	if m.loading {
		return "\n  Loading dashboard..."
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}

	if m.data == nil {
		return "\n  No data yet. Press 's' to sync with Strava."
	}

	var sections []string

	loadCard := m.renderLoadCard()
	weekCard := m.renderWeekCard()
	sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, loadCard, "  ", weekCard))

	if len(m.data.WeeklyDistance) > 2 {
		sections = append(sections, m.renderMileageChart())
	}

	sections = append(sections, m.renderRecentActivities())
	sections = append(sections, statusStyle.Render("Press 'r' to refresh, '2' for the marathon prediction"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m DashboardModel) renderLoadCard() string {
	title := cardTitleStyle.Render("Training Load")

	rec := m.data.Recommendation
	mutedStyle := lipgloss.NewStyle().Foreground(mutedColor)

	lines := []string{
		RenderMetric("Fitness", fmt.Sprintf("%.0f", m.data.CurrentFitness)),
		RenderMetric("Fatigue", fmt.Sprintf("%.0f", m.data.CurrentFatigue)),
		RenderMetric("Form", fmt.Sprintf("%+.0f", m.data.CurrentForm)),
		"",
		RenderMetric("Next workout", string(rec.Workout)),
		mutedStyle.Render(rec.Rationale),
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return cardStyle.Width(44).Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

func (m DashboardModel) renderWeekCard() string {
	title := cardTitleStyle.Render("This Week")

	lines := []string{
		RenderMetric("Runs", fmt.Sprintf("%d", m.data.WeekRunCount)),
		RenderMetric("Distance", fmt.Sprintf("%.1f km", m.data.WeekDistance)),
		RenderMetric("Time", formatShortDuration(int(m.data.WeekTime))),
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return cardStyle.Width(32).Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

func (m DashboardModel) renderMileageChart() string {
	title := cardTitleStyle.Render("Weekly Distance (km)")

	graph := asciigraph.Plot(m.data.WeeklyDistance,
		asciigraph.Height(8),
		asciigraph.Width(60),
		asciigraph.Precision(0),
	)

	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, graph))
}

func (m DashboardModel) renderRecentActivities() string {
	title := cardTitleStyle.Render("Recent Runs")

	if len(m.data.RecentActivities) == 0 {
		return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, "No runs yet"))
	}

	header := tableHeaderStyle.Render(fmt.Sprintf("%-10s  %-24s  %8s  %9s  %5s",
		"Date", "Name", "Distance", "Pace", "HR"))

	rows := []string{header}
	for i, a := range m.data.RecentActivities {
		if i >= 5 {
			break
		}
		rows = append(rows, tableRowStyle.Render(formatActivityRow(a)))
	}

	table := lipgloss.JoinVertical(lipgloss.Left, rows...)
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, table))
}

func formatActivityRow(a store.Activity) string {
	date := "-"
	if a.StartDate != nil {
		date = a.StartDate.Format("Jan 02")
	}

	pace := "-"
	if p, ok := a.PaceSecPerKm(); ok {
		pace = service.FormatPace(p)
	}

	hr := "-"
	if a.AvgHeartrate != nil {
		hr = fmt.Sprintf("%.0f", *a.AvgHeartrate)
	}

	return fmt.Sprintf("%-10s  %-24s  %6.1fkm  %9s  %5s",
		date, truncateName(a.Name, 24), a.Distance/1000, pace, hr)
}

func formatShortDuration(seconds int) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}

func truncateName(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
