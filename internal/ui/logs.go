package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/anodegrind/circuitplayer/internal/logtail"
)

func readLogsCmd(path string) tea.Cmd {
	if path == "" {
		return nil
	}
	return func() tea.Msg {
		lines, err := logtail.Read(path, logLines)
		return logLinesMsg{lines: lines, err: err}
	}
}

// setLogLines replaces the log view content, staying pinned to the bottom
// when the view was already there.
func (m *Model) setLogLines(lines []string) {
	follow := m.logView.AtBottom() || m.logView.TotalLineCount() == 0
	if len(lines) == 0 {
		m.logView.SetContent(m.styles.Muted.Render("No log output yet"))
		return
	}
	m.logView.SetContent(strings.Join(logtail.RenderLines(lines, m.theme.LogStyles()), "\n"))
	if follow {
		m.logView.GotoBottom()
	}
}

func (m Model) renderLogsView() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.logView.View())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}
