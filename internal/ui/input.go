package ui

import (
	"log"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.styles = m.theme.Styles()
		width := m.progress.Width
		m.progress = newProgress(m.theme)
		m.progress.Width = width
		return m, nil

	case key.Matches(msg, m.keys.Tab):
		m.currentView = (m.currentView + 1) % 3
		return m, m.enterView()

	case key.Matches(msg, m.keys.ViewPlayer):
		m.currentView = ViewPlayer
		return m, nil

	case key.Matches(msg, m.keys.ViewSpectrum):
		m.currentView = ViewSpectrum
		return m, nil

	case key.Matches(msg, m.keys.ViewLogs):
		m.currentView = ViewLogs
		return m, m.enterView()
	}

	if m.currentView == ViewLogs {
		var cmd tea.Cmd
		m.logView, cmd = m.logView.Update(msg)
		return m, cmd
	}
	return m.handlePlayerKey(msg)
}

func (m Model) enterView() tea.Cmd {
	if m.currentView == ViewLogs {
		return readLogsCmd(m.logFile)
	}
	return nil
}

// handlePlayerKey processes transport and track list keys.
func (m Model) handlePlayerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := len(m.snapshot.Tracks)

	switch {
	case key.Matches(msg, m.keys.PlayPause):
		return m.togglePlay()

	case key.Matches(msg, m.keys.Next):
		if i := m.queue.Next(); i >= 0 {
			m.cursor = i
			return m, m.load(i)
		}

	case key.Matches(msg, m.keys.Previous):
		if i := m.queue.Previous(); i >= 0 {
			m.cursor = i
			return m, m.load(i)
		}

	case key.Matches(msg, m.keys.Select):
		return m.playIndex(m.cursor)

	case key.Matches(msg, m.keys.SeekFwd):
		m.seekBy(seekStep)

	case key.Matches(msg, m.keys.SeekBack):
		m.seekBy(-seekStep)

	case key.Matches(msg, m.keys.SeekTo):
		if f, ok := seekFraction(msg.String()); ok && m.loaded >= 0 {
			if err := m.player.SeekFraction(f); err != nil {
				log.Printf("seek failed: %v", err)
			}
		}

	case key.Matches(msg, m.keys.VolUp):
		m.changeVolume(volumeStep)

	case key.Matches(msg, m.keys.VolDown):
		m.changeVolume(-volumeStep)

	case key.Matches(msg, m.keys.Shuffle):
		on := m.queue.ToggleShuffle()
		m.setStatus("Shuffle "+onOff(on), false)

	case key.Matches(msg, m.keys.Repeat):
		on := m.queue.ToggleRepeat()
		m.setStatus("Repeat "+onOff(on), false)

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < n-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Top):
		m.cursor = 0

	case key.Matches(msg, m.keys.Bottom):
		m.cursor = max(n-1, 0)

	case key.Matches(msg, m.keys.Download):
		if m.cursor < n && m.source != nil {
			t := m.snapshot.Tracks[m.cursor]
			m.setStatus("Downloading "+t.Name+"...", false)
			return m, downloadCmd(m.ctx, m.source, t, m.downloadDir)
		}
	}
	return m, nil
}

// togglePlay pauses or resumes, loading the selected track when nothing is
// loaded yet.
func (m Model) togglePlay() (tea.Model, tea.Cmd) {
	if m.player == nil {
		return m, nil
	}
	if m.loaded < 0 {
		return m.playIndex(m.cursor)
	}
	m.wantPlay = m.player.Toggle()
	return m, nil
}

// playIndex plays track i. Selecting the track that is already playing
// pauses it.
func (m Model) playIndex(i int) (tea.Model, tea.Cmd) {
	if m.player == nil || !m.queue.Select(i) {
		return m, nil
	}
	if i == m.loaded && !m.loading {
		m.wantPlay = m.player.Toggle()
		return m, nil
	}
	m.wantPlay = true
	return m, m.load(i)
}

func (m *Model) seekBy(d time.Duration) {
	if m.player == nil || m.loaded < 0 {
		return
	}
	if err := m.player.SeekBy(d); err != nil {
		log.Printf("seek failed: %v", err)
	}
}

func (m *Model) changeVolume(delta float64) {
	if m.player == nil {
		return
	}
	v := max(0, min(1, m.player.Volume()+delta))
	m.player.SetVolume(v)
	m.setStatus("Volume "+percent(v), false)
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}
