// Package historyui provides the Bubble Tea run history browser.
package historyui

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ruarcs/wc/internal/model"
	"github.com/ruarcs/wc/internal/stats"
)

const (
	tabRuns = iota
	tabLetters
	tabTrends
)

const defaultTrendWindow = 1

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// ReportLoader loads history for the given filters.
type ReportLoader func(ctx context.Context, cfg model.HistoryConfig) (stats.Report, error)

// Model implements the Bubble Tea history UI.
type Model struct {
	load ReportLoader
	cfg  model.HistoryConfig

	report stats.Report
	errMsg string

	tabs      []string
	activeTab int
	viewports []viewport.Model
	runTable  table.Model

	width  int
	height int

	trendWindow int

	filterMode  bool
	filterInput textinput.Model
}

// NewModel constructs a history UI model.
func NewModel(load ReportLoader, cfg model.HistoryConfig) *Model {
	m := &Model{
		load:        load,
		cfg:         cfg,
		tabs:        []string{"Runs", "Letters", "Trends"},
		trendWindow: defaultTrendWindow,
	}
	m.filterInput = textinput.New()
	m.filterInput.Prompt = "Path: "
	m.filterInput.Placeholder = "any"
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
	m.runTable = table.New(
		table.WithColumns(runColumns(80)),
		table.WithHeight(1),
		table.WithFocused(true),
	)
	m.runTable.SetStyles(runTableStyles())
	m.refreshReport()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.filterMode {
			return m.updateFilter(msg)
		}
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "=":
			m.trendWindow++
			m.renderTabContents()
			return m, nil
		case "-":
			m.trendWindow = max(1, m.trendWindow-1)
			m.renderTabContents()
			return m, nil
		case "r":
			m.refreshReport()
			return m, nil
		case "/":
			m.filterMode = true
			m.filterInput.SetValue(m.cfg.Path)
			return m, m.filterInput.Focus()
		case "g", "home":
			if m.activeTab == tabRuns {
				m.runTable.GotoTop()
			} else {
				m.viewports[m.activeTab].GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabRuns {
				m.runTable.GotoBottom()
			} else {
				m.viewports[m.activeTab].GotoBottom()
			}
			return m, nil
		}
		var cmd tea.Cmd
		if m.activeTab == tabRuns {
			m.runTable, cmd = m.runTable.Update(msg)
			return m, cmd
		}
		m.viewports[m.activeTab], cmd = m.viewports[m.activeTab].Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filterMode = false
		m.filterInput.Blur()
		return m, nil
	case tea.KeyEnter:
		m.filterMode = false
		m.filterInput.Blur()
		path, err := resolveFilterPath(m.filterInput.Value())
		if err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		m.cfg.Path = path
		m.refreshReport()
		return m, nil
	}
	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	return m, cmd
}

// resolveFilterPath makes a typed path absolute so it matches recorded runs.
func resolveFilterPath(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}
	abs, err := filepath.Abs(value)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", value, err)
	}
	return abs, nil
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := max(1, lipgloss.Height(activeNavStyle.Render("X")))
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = max(1, m.height-headerHeight-footerHeight)
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = bodyHeight
	}
	m.runTable.SetColumns(runColumns(m.width))
	m.runTable.SetWidth(m.width)
	m.runTable.SetHeight(max(1, bodyHeight-1))
	m.filterInput.Width = max(10, m.width-lipgloss.Width(m.filterInput.Prompt)-2)
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	if count == 0 {
		return
	}
	m.activeTab = (m.activeTab + delta + count) % count
	if m.activeTab == tabRuns {
		m.runTable.Focus()
	} else {
		m.runTable.Blur()
	}
}

func (m *Model) refreshReport() {
	report, err := m.load(context.Background(), m.cfg)
	if err != nil {
		m.errMsg = err.Error()
		for i := range m.viewports {
			m.viewports[i].SetContent("Failed to load history.")
		}
		m.runTable.SetRows(nil)
		return
	}
	m.errMsg = ""
	m.report = report
	rows := make([]table.Row, 0, len(report.Runs))
	for i := len(report.Runs) - 1; i >= 0; i-- {
		rows = append(rows, table.Row(stats.RunRow(report.Runs[i])))
	}
	m.runTable.SetRows(rows)
	m.runTable.GotoTop()
	m.renderTabContents()
}

func (m *Model) renderTabContents() {
	if m.errMsg != "" {
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.viewports[tabLetters].SetContent(renderLetters(m.report, width))
	m.viewports[tabTrends].SetContent(renderTrends(m.report.Runs, m.trendWindow, width))
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	path := m.cfg.Path
	if path == "" {
		path = "any"
	}
	summary := fmt.Sprintf("Filter: path=%s  runs=%d  trend window=%d", path, len(m.report.Runs), m.trendWindow)
	return m.renderTabs() + "\n" + headerStyle.Render(truncateLine(summary, m.width))
}

func (m *Model) renderBody() string {
	if m.filterMode {
		return "Filter runs (enter to apply, esc to cancel)\n" + m.filterInput.View()
	}
	if m.activeTab == tabRuns {
		if len(m.report.Runs) == 0 {
			return "No runs found. Record one with: mywc --record <file>"
		}
		return tableMutedStyle.Render(m.runTable.View())
	}
	return m.viewports[m.activeTab].View()
}

func (m *Model) renderFooter() string {
	help := "Nav: left/right  Scroll: up/down/pgup/pgdn  Filter: /  Reload: r  Window: -/=  Quit: q"
	if m.filterMode {
		help = "enter: apply  esc: cancel  ctrl+c: quit"
	}
	out := headerStyle.Render(help)
	if m.errMsg != "" {
		out += "\n" + errorStyle.Render(m.errMsg)
	}
	return out
}

func renderLetters(report stats.Report, width int) string {
	if len(report.Runs) == 0 {
		return "No runs found."
	}
	cards := []string{
		metricCard("Runs", fmt.Sprintf("%d", len(report.Runs))),
		metricCard("Top letters", strings.Join(stats.TopLetters(report.LetterAggs, 5), " ")),
	}
	var buf bytes.Buffer
	if err := stats.RenderHistogramWithColor(&buf, report.LetterCounts, width, true); err != nil {
		return fmt.Sprintf("Failed to render letters: %v", err)
	}
	head := lipgloss.JoinHorizontal(lipgloss.Top, cards...)
	return strings.TrimRight(head+"\n\n"+buf.String(), "\n")
}

func renderTrends(runs []model.RunRecord, window, width int) string {
	if len(runs) == 0 {
		return "No runs found."
	}
	var buf bytes.Buffer
	if err := stats.RenderTrends(&buf, tail(runs, max(1, width-8)), window); err != nil {
		return fmt.Sprintf("Failed to render trends: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func runColumns(width int) []table.Column {
	titles := stats.RunColumns()
	fixed := []int{5, 16, 0, 7, 8, 6, 11}
	used := 0
	for _, w := range fixed {
		used += w + 1
	}
	pathWidth := max(10, width-used)
	cols := make([]table.Column, len(titles))
	for i, title := range titles {
		w := fixed[i]
		if w == 0 {
			w = pathWidth
		}
		cols[i] = table.Column{Title: title, Width: w}
	}
	return cols
}

func runTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func tail(runs []model.RunRecord, n int) []model.RunRecord {
	if len(runs) <= n {
		return runs
	}
	return runs[len(runs)-n:]
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
