package tui

import (
	"fmt"

	"marathon-coach/internal/analysis"
	"marathon-coach/internal/service"
	"marathon-coach/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// RecordsModel is the personal records screen model.
type RecordsModel struct {
	queryService *service.QueryService
	data         *service.PRData
	loading      bool
	err          error
}

func NewRecordsModel(qs *service.QueryService) RecordsModel {
	return RecordsModel{
		queryService: qs,
		loading:      true,
	}
}

func (m RecordsModel) Init() tea.Cmd {
	return m.loadData
}

func (m RecordsModel) loadData() tea.Msg {
	data, err := m.queryService.GetPRData()
	if err != nil {
		return prDataMsg{err: err}
	}
	return prDataMsg{data: data}
}

type prDataMsg struct {
	data *service.PRData
	err  error
}

func (m RecordsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case prDataMsg:
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

func (m RecordsModel) View() string {
	if m.loading {
		return "\n  Loading records..."
	}
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}
	if m.data == nil || len(m.data.Current) == 0 {
		return "\n  No records yet. Sync or import some runs first."
	}

	var sections []string
	sections = append(sections, m.renderRecordsTable())
	sections = append(sections, m.renderRiskCard())
	sections = append(sections, statusStyle.Render("Press 'r' to refresh"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m RecordsModel) renderRecordsTable() string {
	title := cardTitleStyle.Render("Personal Records")

	header := tableHeaderStyle.Render(fmt.Sprintf("%-14s  %12s  %12s  %-10s  %s",
		"Category", "Best", "Improvement", "Confidence", "Date"))

	rows := []string{header}
	for _, pr := range m.data.Current {
		rows = append(rows, tableRowStyle.Render(formatRecordRow(pr)))
	}

	table := lipgloss.JoinVertical(lipgloss.Left, rows...)
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, table))
}

func formatRecordRow(pr store.PersonalRecord) string {
	improvement := "first"
	if pr.ImprovementPct != nil {
		improvement = fmt.Sprintf("%.1f%%", *pr.ImprovementPct)
	}

	return fmt.Sprintf("%-14s  %12s  %12s  %-10s  %s",
		categoryLabel(pr.Category),
		formatRecordValue(pr),
		improvement,
		pr.Confidence,
		pr.AchievedAt.Format("2006-01-02"))
}

func formatRecordValue(pr store.PersonalRecord) string {
	switch pr.Category {
	case analysis.Category5K, analysis.Category10K,
		analysis.CategoryHalfMarathon, analysis.CategoryMarathon:
		return service.FormatDuration(int(pr.Value + 0.5))
	case analysis.CategoryFastest1K:
		return service.FormatPace(pr.Value)
	case analysis.CategoryLongestRun:
		return fmt.Sprintf("%.1f km", pr.Value/1000)
	case analysis.CategoryWeeklyVolume:
		return fmt.Sprintf("%.1f km", pr.Value)
	case analysis.CategoryMostClimb:
		return fmt.Sprintf("%.0f m", pr.Value)
	default:
		return fmt.Sprintf("%.1f", pr.Value)
	}
}

func categoryLabel(category string) string {
	switch category {
	case analysis.Category5K:
		return "5K"
	case analysis.Category10K:
		return "10K"
	case analysis.CategoryHalfMarathon:
		return "Half marathon"
	case analysis.CategoryMarathon:
		return "Marathon"
	case analysis.CategoryFastest1K:
		return "Fastest 1K"
	case analysis.CategoryLongestRun:
		return "Longest run"
	case analysis.CategoryWeeklyVolume:
		return "Weekly volume"
	case analysis.CategoryMostClimb:
		return "Most climb"
	default:
		return category
	}
}

func (m RecordsModel) renderRiskCard() string {
	title := cardTitleStyle.Render("Progress & Injury Risk")
	a := m.data.Analysis

	riskStyle := successStyle
	if a.RiskScore >= 70 {
		riskStyle = errorStyle
	} else if a.RiskScore >= 35 {
		riskStyle = warningStyle
	}

	lines := []string{
		RenderMetric("Records (90 days)", fmt.Sprintf("%d", a.RecentRecords)),
		RenderMetric("Records (30 days)", fmt.Sprintf("%d", a.RecordsLast30)),
		RenderMetric("Avg improvement", fmt.Sprintf("%.1f%%", a.AvgImprovement)),
		RenderMetric("Risk score", riskStyle.Render(fmt.Sprintf("%d / 100", a.RiskScore))),
	}

	for _, w := range a.Warnings {
		lines = append(lines, "", warningStyle.Render("  ! "+w))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}
