package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

const (
	headerRows     = 1
	nowPlayingRows = 2
	trackListRows  = 8
	footerRows     = 1
	minCircuitRows = 3
	statusTTL      = 4 * time.Second
)

// circuitSize is the cell area left for the circuit in the player view.
func (m Model) circuitSize() (cols, rows int) {
	rows = m.height - headerRows - nowPlayingRows - (trackListRows + 1) - footerRows
	return max(m.width, 1), max(rows, minCircuitRows)
}

func (m Model) renderPlayerView() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.circuitView())
	b.WriteString("\n")
	b.WriteString(m.renderNowPlaying())
	b.WriteString("\n")
	b.WriteString(m.renderProgress())
	b.WriteString("\n")
	b.WriteString(m.renderTrackList())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) circuitView() string {
	if m.circuit.err != nil {
		return m.styles.Danger.Render("circuit: " + m.circuit.err.Error())
	}
	return m.circuit.view()
}

// renderHeader shows the logo, library state and transient status.
func (m Model) renderHeader() string {
	s := m.styles
	left := s.Logo.Render("◉ CIRCUIT PLAYER")

	var right string
	snap := m.snapshot
	switch {
	case m.status != "" && time.Since(m.statusTime) < statusTTL:
		if m.statusErr {
			right = s.Danger.Render(m.status)
		} else {
			right = s.Accent.Render(m.status)
		}
	case snap.IsOffline():
		right = s.Danger.Render(fmt.Sprintf("offline (%d failures)", snap.ConsecutiveFailures))
	case snap.LastError != nil && snap.Loaded:
		right = s.Warning.Render("refresh failed")
	case snap.Loaded:
		right = s.Muted.Render(fmt.Sprintf("%d tracks", len(snap.Tracks)))
	}
	if st := m.circuit.stats(); st.Nodes > 0 {
		right += s.Faint.Render(fmt.Sprintf("  %dn %de %dp", st.Nodes, st.Edges, st.Pulses))
	}

	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right)-2, 1)
	return s.Header.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

// renderNowPlaying shows the loaded track with mode flags and volume.
func (m Model) renderNowPlaying() string {
	s := m.styles
	title, artist := "No track loaded", ""
	switch {
	case m.loading:
		title = "Loading..."
		if i := m.queue.Current(); i >= 0 && i < len(m.snapshot.Tracks) {
			artist = m.snapshot.Tracks[i].Artist
		}
	case m.loaded >= 0 && m.loaded < len(m.snapshot.Tracks):
		t := m.snapshot.Tracks[m.loaded]
		title, artist = t.Name, t.Artist
	}

	icon := "▶"
	if m.player != nil && m.player.Playing() {
		icon = "⏸"
	}
	flags := []string{s.Faint.Render("shuffle"), s.Faint.Render("repeat")}
	if m.queue.Shuffle() {
		flags[0] = s.Accent.Render("shuffle")
	}
	if m.queue.Repeat() {
		flags[1] = s.Accent.Render("repeat")
	}
	vol := ""
	if m.player != nil {
		vol = s.Muted.Render("vol " + percent(m.player.Volume()))
	}

	left := " " + s.Accent.Render(icon) + " " + s.Text.Bold(true).Render(truncate(title, max(m.width/2, 8)))
	if artist != "" {
		left += s.Muted.Render(" · " + artist)
	}
	right := strings.Join(flags, " ") + "  " + vol + " "
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return left + strings.Repeat(" ", gap) + right
}

// renderProgress draws the playback bar with elapsed and total time.
func (m Model) renderProgress() string {
	var pos, dur time.Duration
	if m.player != nil && m.loaded >= 0 {
		pos, dur = m.player.Position(), m.player.Duration()
	}
	frac := 0.0
	if dur > 0 {
		frac = float64(pos) / float64(dur)
	}
	elapsed := FormatTime(pos.Seconds())
	total := FormatTime(dur.Seconds())
	return " " + m.styles.Muted.Render(padRight(elapsed, 5)) + " " +
		m.progress.ViewAs(frac) + " " + m.styles.Muted.Render(total)
}

// renderTrackList shows a window of the track list around the cursor.
func (m Model) renderTrackList() string {
	s := m.styles
	lines := make([]string, 0, trackListRows+1)
	lines = append(lines, s.Muted.Render(" TRACKS"))

	snap := m.snapshot
	switch {
	case !snap.Loaded && snap.LastError != nil:
		lines = append(lines, s.Danger.Render(" Error loading tracks"))
	case !snap.Loaded:
		lines = append(lines, s.Muted.Render(" Loading tracks..."))
	case len(snap.Tracks) == 0:
		lines = append(lines, s.Muted.Render(" No tracks found"))
	default:
		start := max(0, min(m.cursor-trackListRows/2, len(snap.Tracks)-trackListRows))
		end := min(start+trackListRows, len(snap.Tracks))
		for i := start; i < end; i++ {
			lines = append(lines, m.renderTrackRow(i))
		}
	}
	for len(lines) < trackListRows+1 {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderTrackRow(i int) string {
	s := m.styles
	t := m.snapshot.Tracks[i]
	marker := "  "
	nameStyle := s.Text
	if i == m.loaded {
		marker = "● "
		nameStyle = s.Current
		if m.bass > pulseBass && m.player != nil && m.player.Playing() {
			marker = "◆ "
			nameStyle = s.Pulsing
		}
	}
	width := max(m.width-4, 10)
	nameWidth := width * 2 / 3
	row := marker + nameStyle.Render(padRight(truncate(t.Name, nameWidth), nameWidth)) +
		" " + s.Muted.Render(truncate(t.Artist, width-nameWidth-1))
	if i == m.cursor {
		return s.Selected.Width(m.width).Render(" " + row)
	}
	return " " + row
}

func (m Model) renderFooter() string {
	return m.styles.Footer.Render(m.help.View(m.keys))
}

// renderSpectrumView shows the full-screen spectrum bars.
func (m Model) renderSpectrumView() string {
	rows := max(m.height-headerRows-nowPlayingRows-footerRows, 1)
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.spectrum.view(m.width, rows))
	b.WriteString("\n")
	b.WriteString(m.renderNowPlaying())
	b.WriteString("\n")
	b.WriteString(m.renderProgress())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderHelp() string {
	h := m.help
	h.ShowAll = true
	body := m.styles.Logo.Render("Keys") + "\n\n" + h.View(m.keys) +
		"\n\n" + m.styles.Faint.Render("theme: "+m.theme.Name+"  ·  any key closes")
	panel := m.styles.HelpPanel.Render(body)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, panel)
}

func percent(v float64) string {
	return fmt.Sprintf("%d%%", int(v*100+0.5))
}
