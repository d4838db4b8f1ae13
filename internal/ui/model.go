package ui

import (
	"context"
	"errors"
	"io"
	"log"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/anodegrind/circuitplayer/internal/audio"
	"github.com/anodegrind/circuitplayer/internal/circuit"
	"github.com/anodegrind/circuitplayer/internal/playlist"
	"github.com/anodegrind/circuitplayer/internal/state"
	"github.com/anodegrind/circuitplayer/internal/tracks"
)

// View represents the current active view.
type View int

const (
	ViewPlayer View = iota
	ViewSpectrum
	ViewLogs
)

const (
	snapshotEvery = time.Second
	logLines      = 500
	seekStep      = 5 * time.Second
	volumeStep    = 0.1
	pulseBass     = 0.6
)

// Player is the playback engine the UI drives.
type Player interface {
	Load(r io.ReadCloser, name string) error
	Play()
	Pause()
	Toggle() bool
	Playing() bool
	SeekFraction(f float64) error
	SeekBy(d time.Duration) error
	SetVolume(v float64)
	Volume() float64
	Position() time.Duration
	Duration() time.Duration
	Finished() <-chan struct{}
}

// Analyzer supplies spectrum levels and the energy scalar.
type Analyzer interface {
	Levels(n int) []float64
	Energy() float64
}

// bandAnalyzer is implemented by analyzers that split the spectrum.
type bandAnalyzer interface {
	Bands() audio.Bands
}

// Options configures the UI.
type Options struct {
	Context       context.Context
	Source        tracks.Source
	Store         *state.Store
	Player        Player
	Analyzer      Analyzer
	Circuit       circuit.Options
	Rand          *rand.Rand // nil seeds randomly
	ThemeName     string
	FrameInterval time.Duration
	LogFile       string
	DownloadDir   string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx         context.Context
	source      tracks.Source
	store       *state.Store
	player      Player
	analyzer    Analyzer
	logFile     string
	downloadDir string
	frameEvery  time.Duration
	rng         *rand.Rand

	// UI state
	theme       Theme
	styles      Styles
	keys        keyMap
	help        help.Model
	currentView View
	width       int
	height      int
	ready       bool
	showHelp    bool

	// Library state
	snapshot state.Snapshot
	lastPoll time.Time
	queue    *playlist.Queue
	cursor   int

	// Playback state
	loader     *loader
	loaded     int // index of the track in the player, -1 for none
	loading    bool
	wantPlay   bool
	status     string
	statusErr  bool
	statusTime time.Time

	// Visuals
	circuit  *circuitPane
	spectrum *spectrum
	progress progress.Model
	bass     float64

	// Logs
	logView viewport.Model
}

// loader serializes track loads so only the latest request reaches the
// player.
type loader struct {
	mu     sync.Mutex
	latest atomic.Uint64
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	frameEvery := opts.FrameInterval
	if frameEvery <= 0 {
		frameEvery = time.Second / 30
	}

	var energy circuit.EnergySource
	if opts.Analyzer != nil {
		energy = circuit.EnergyFunc(opts.Analyzer.Energy)
	}

	theme := GetTheme(opts.ThemeName)
	fps := int(time.Second / frameEvery)

	return Model{
		ctx:         ctx,
		source:      opts.Source,
		store:       opts.Store,
		player:      opts.Player,
		analyzer:    opts.Analyzer,
		logFile:     opts.LogFile,
		downloadDir: opts.DownloadDir,
		frameEvery:  frameEvery,
		rng:         opts.Rand,
		theme:       theme,
		styles:      theme.Styles(),
		keys:        DefaultKeyMap(),
		help:        help.New(),
		currentView: ViewPlayer,
		queue:       playlist.New(0, opts.Rand),
		loader:      &loader{},
		loaded:      -1,
		circuit:     newCircuitPane(opts.Circuit, energy, opts.Rand),
		spectrum:    newSpectrum(fps),
		progress:    newProgress(theme),
		logView:     viewport.New(0, 0),
	}
}

func newProgress(t Theme) progress.Model {
	return progress.New(
		progress.WithGradient(t.Accent, t.Glow),
		progress.WithoutPercentage(),
	)
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.frameEvery)}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	if m.player != nil {
		cmds = append(cmds, waitFinishedCmd(m.player.Finished()))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.layout()
		return m, nil

	case tickMsg:
		return m.handleTick(time.Time(msg))

	case snapshotMsg:
		return m.handleSnapshot(state.Snapshot(msg))

	case loadedMsg:
		return m.handleLoaded(msg)

	case finishedMsg:
		cmds := []tea.Cmd{waitFinishedCmd(m.player.Finished())}
		if next := m.queue.Finish(); next >= 0 {
			m.wantPlay = true
			cmds = append(cmds, m.load(next))
		}
		return m, tea.Batch(cmds...)

	case downloadedMsg:
		if msg.err != nil {
			log.Printf("download %s failed: %v", msg.name, msg.err)
			m.setStatus("Download failed: "+msg.err.Error(), true)
		} else {
			log.Printf("downloaded %s to %s", msg.name, msg.path)
			m.setStatus("Saved "+msg.path, false)
		}
		return m, nil

	case logLinesMsg:
		if msg.err != nil {
			log.Printf("read log: %v", msg.err)
			return m, nil
		}
		m.setLogLines(msg.lines)
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	switch m.currentView {
	case ViewSpectrum:
		return m.renderSpectrumView()
	case ViewLogs:
		return m.renderLogsView()
	default:
		return m.renderPlayerView()
	}
}

func (m *Model) setStatus(s string, isErr bool) {
	m.status = s
	m.statusErr = isErr
	m.statusTime = time.Now()
}

// handleTick advances animation and refreshes the snapshot and logs.
func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{tickCmd(m.frameEvery)}

	m.circuit.frame()
	if m.analyzer != nil {
		m.spectrum.step(m.analyzer.Levels(spectrumBars))
		if b, ok := m.analyzer.(bandAnalyzer); ok {
			m.bass = b.Bands().Bass
		}
	}

	if now.Sub(m.lastPoll) >= snapshotEvery {
		m.lastPoll = now
		if m.store != nil {
			cmds = append(cmds, fetchSnapshotCmd(m.store))
		}
		if m.currentView == ViewLogs {
			cmds = append(cmds, readLogsCmd(m.logFile))
		}
	}
	return m, tea.Batch(cmds...)
}

// handleSnapshot adopts a new listing and loads the first track once. The
// loaded track, the cursor and the queue follow their tracks by ID, so a
// reordered listing keeps pointing at the same audio.
func (m Model) handleSnapshot(snap state.Snapshot) (tea.Model, tea.Cmd) {
	changed := snap.Version != m.snapshot.Version
	prev := m.snapshot.Tracks
	m.snapshot = snap
	if !changed {
		return m, nil
	}
	n := len(snap.Tracks)
	current := remap(prev, snap.Tracks, m.queue.Current())
	m.queue.Reset(n)
	if current >= 0 {
		m.queue.Select(current)
	}
	if c := remap(prev, snap.Tracks, m.cursor); c >= 0 {
		m.cursor = c
	} else {
		m.cursor = min(m.cursor, max(n-1, 0))
	}
	m.loaded = remap(prev, snap.Tracks, m.loaded)

	if len(prev) == 0 && m.loaded < 0 && !m.loading && n > 0 {
		m.queue.Select(0)
		return m, m.load(0)
	}
	return m, nil
}

// remap returns the position in next of the track at i in prev, or -1 when
// it is gone.
func remap(prev, next []tracks.Track, i int) int {
	if i < 0 || i >= len(prev) {
		return -1
	}
	return tracks.Index(next, prev[i].ID)
}

func (m Model) handleLoaded(msg loadedMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.loader.latest.Load() {
		return m, nil
	}
	m.loading = false
	if msg.err != nil {
		log.Printf("load %s failed: %v", msg.name, msg.err)
		m.setStatus("Could not load "+msg.name, true)
		return m, nil
	}
	m.loaded = tracks.Index(m.snapshot.Tracks, msg.id)
	m.status = ""
	if m.wantPlay && m.player != nil {
		m.player.Play()
	}
	return m, nil
}

// load requests track i. Earlier pending loads are superseded.
func (m *Model) load(i int) tea.Cmd {
	if m.source == nil || m.player == nil || i < 0 || i >= len(m.snapshot.Tracks) {
		return nil
	}
	m.loading = true
	t := m.snapshot.Tracks[i]
	seq := m.loader.latest.Add(1)
	return loadCmd(m.ctx, m.loader, seq, m.source, m.player, t)
}

// layout sizes every pane from the terminal dimensions.
func (m *Model) layout() {
	m.help.Width = m.width
	m.progress.Width = max(m.width-16, 10)
	cols, rows := m.circuitSize()
	m.circuit.resize(cols, rows)
	m.logView.Width = m.width
	m.logView.Height = max(m.height-2, 1)
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type finishedMsg struct{}

type loadedMsg struct {
	seq  uint64
	id   uuid.UUID
	name string
	err  error
}

type downloadedMsg struct {
	name string
	path string
	err  error
}

type logLinesMsg struct {
	lines []string
	err   error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

func waitFinishedCmd(done <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-done
		return finishedMsg{}
	}
}

func loadCmd(ctx context.Context, l *loader, seq uint64, src tracks.Source, p Player, t tracks.Track) tea.Cmd {
	return func() tea.Msg {
		msg := loadedMsg{seq: seq, id: t.ID, name: t.Name}
		rc, err := src.Open(ctx, t)
		if err != nil {
			msg.err = err
			return msg
		}
		l.mu.Lock()
		defer l.mu.Unlock()
		if seq != l.latest.Load() {
			_ = rc.Close()
			return msg
		}
		msg.err = p.Load(rc, t.FileName())
		return msg
	}
}

func downloadCmd(ctx context.Context, src tracks.Source, t tracks.Track, dir string) tea.Cmd {
	return func() tea.Msg {
		path, err := tracks.Download(ctx, src, t, dir)
		return downloadedMsg{name: t.Name, path: path, err: err}
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	defer m.circuit.stop()
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
