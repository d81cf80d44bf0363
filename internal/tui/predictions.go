package tui

import (
	"fmt"

	"marathon-coach/internal/service"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

// PredictionsModel is the marathon prediction screen model.
type PredictionsModel struct {
	queryService *service.QueryService
	data         *service.PredictionData
	loading      bool
	err          error
}

func NewPredictionsModel(qs *service.QueryService) PredictionsModel {
	return PredictionsModel{
		queryService: qs,
		loading:      true,
	}
}

func (m PredictionsModel) Init() tea.Cmd {
	return m.loadData
}

func (m PredictionsModel) loadData() tea.Msg {
	data, err := m.queryService.GetPredictionData()
	if err != nil {
		return predictionDataMsg{err: err}
	}
	return predictionDataMsg{data: data}
}

type predictionDataMsg struct {
	data *service.PredictionData
	err  error
}

func (m PredictionsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case predictionDataMsg:
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

func (m PredictionsModel) View() string {
	if m.loading {
		return "\n  Loading prediction..."
	}
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}
	if m.data == nil || m.data.Current == nil {
		return "\n  Not enough runs for a prediction yet. Sync more training data."
	}

	var sections []string
	sections = append(sections, m.renderPredictionCard())
	if len(m.data.Zones) > 0 {
		sections = append(sections, m.renderZonesCard())
	}
	if len(m.data.History) > 2 {
		sections = append(sections, m.renderHistoryChart())
	}
	sections = append(sections, statusStyle.Render("Press 'r' to refresh"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m PredictionsModel) renderPredictionCard() string {
	title := cardTitleStyle.Render("Marathon Prediction")
	cur := m.data.Current

	interval := fmt.Sprintf("%s - %s",
		service.FormatDuration(cur.Seconds-cur.ConfidenceIntervalSeconds),
		service.FormatDuration(cur.Seconds+cur.ConfidenceIntervalSeconds))

	lines := []string{
		RenderMetric("Predicted time", service.FormatDuration(cur.Seconds)),
		RenderMetric("Likely range", interval),
		RenderMetric("Reliability", reliabilityLabel(cur.Reliability, cur.SampleSize)),
	}

	if m.data.HasGoal {
		gap := m.data.GoalGapSeconds
		goalLine := RenderMetric("Goal", service.FormatDuration(m.data.GoalSeconds))
		lines = append(lines, goalLine)
		if gap <= 0 {
			lines = append(lines, successStyle.Render(
				fmt.Sprintf("  On track: %s ahead of goal", service.FormatDuration(-gap))))
		} else {
			lines = append(lines, warningStyle.Render(
				fmt.Sprintf("  %s behind goal pace", service.FormatDuration(gap))))
		}
	}

	if m.data.HasRace {
		lines = append(lines, RenderMetric("Days to race", fmt.Sprintf("%d", m.data.DaysToRace)))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return cardStyle.Width(52).Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

func (m PredictionsModel) renderZonesCard() string {
	title := cardTitleStyle.Render("Training Paces")

	rows := []string{tableHeaderStyle.Render(fmt.Sprintf("%-10s  %18s", "Zone", "Pace"))}
	for _, z := range m.data.Zones {
		// Min is the faster bound; show slow-to-fast like a watch does
		rows = append(rows, tableRowStyle.Render(fmt.Sprintf("%-10s  %8s - %s",
			z.Name, service.FormatPace(z.Max), service.FormatPace(z.Min))))
	}

	table := lipgloss.JoinVertical(lipgloss.Left, rows...)
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, table))
}

func (m PredictionsModel) renderHistoryChart() string {
	title := cardTitleStyle.Render("Prediction Trend (minutes)")

	// History arrives newest first; plot oldest to newest
	minutes := make([]float64, 0, len(m.data.History))
	for i := len(m.data.History) - 1; i >= 0; i-- {
		minutes = append(minutes, float64(m.data.History[i].Seconds)/60)
	}

	graph := asciigraph.Plot(minutes,
		asciigraph.Height(8),
		asciigraph.Width(60),
		asciigraph.Precision(0),
	)

	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, graph))
}

func reliabilityLabel(reliability string, sampleSize int) string {
	return fmt.Sprintf("%s (%d qualifying runs)", reliability, sampleSize)
}
