package ui

import (
	"context"
	"errors"
	"io"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/anodegrind/circuitplayer/internal/circuit"
	"github.com/anodegrind/circuitplayer/internal/state"
	"github.com/anodegrind/circuitplayer/internal/tracks"
)

type fakePlayer struct {
	loads    []string
	playing  bool
	volume   float64
	seeks    []float64
	finished chan struct{}
	loadErr  error
}

func newFakePlayer() *fakePlayer {
	return &fakePlayer{volume: 0.5, finished: make(chan struct{}, 1)}
}

func (p *fakePlayer) Load(r io.ReadCloser, name string) error {
	_ = r.Close()
	if p.loadErr != nil {
		return p.loadErr
	}
	p.loads = append(p.loads, name)
	p.playing = false
	return nil
}

func (p *fakePlayer) Play()                     { p.playing = true }
func (p *fakePlayer) Pause()                    { p.playing = false }
func (p *fakePlayer) Playing() bool             { return p.playing }
func (p *fakePlayer) SetVolume(v float64)       { p.volume = v }
func (p *fakePlayer) Volume() float64           { return p.volume }
func (p *fakePlayer) Position() time.Duration   { return 30 * time.Second }
func (p *fakePlayer) Duration() time.Duration   { return 2 * time.Minute }
func (p *fakePlayer) Finished() <-chan struct{} { return p.finished }

func (p *fakePlayer) Toggle() bool {
	p.playing = !p.playing
	return p.playing
}

func (p *fakePlayer) SeekFraction(f float64) error {
	p.seeks = append(p.seeks, f)
	return nil
}

func (p *fakePlayer) SeekBy(time.Duration) error { return nil }

type fakeSource struct {
	list    []tracks.Track
	openErr error
}

func (s *fakeSource) FetchTracks(context.Context) ([]tracks.Track, error) {
	return s.list, nil
}

func (s *fakeSource) Open(context.Context, tracks.Track) (io.ReadCloser, error) {
	if s.openErr != nil {
		return nil, s.openErr
	}
	return io.NopCloser(strings.NewReader("audio")), nil
}

type fakeAnalyzer struct{ level float64 }

func (a fakeAnalyzer) Levels(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = a.level
	}
	return out
}

func (a fakeAnalyzer) Energy() float64 { return a.level }

func track(name, artist, url string) tracks.Track {
	return tracks.Track{ID: tracks.IDFor(url), Name: name, Artist: artist, Ext: ".wav", URL: url}
}

func sampleTracks() []tracks.Track {
	return []tracks.Track{
		track("One", "A", "u1"),
		track("Two", "B", "u2"),
		track("Three", "C", "u3"),
	}
}

type harness struct {
	m      Model
	player *fakePlayer
	source *fakeSource
	store  *state.Store
}

func newHarness(t *testing.T, list []tracks.Track) *harness {
	t.Helper()
	h := &harness{
		player: newFakePlayer(),
		source: &fakeSource{list: list},
		store:  &state.Store{},
	}
	opts := circuit.DefaultOptions()
	opts.AudioReactive = true
	h.m = New(Options{
		Source:        h.source,
		Store:         h.store,
		Player:        h.player,
		Analyzer:      fakeAnalyzer{level: 0.5},
		Circuit:       opts,
		Rand:          rand.New(rand.NewPCG(7, 11)),
		FrameInterval: time.Second / 30,
	})
	h.send(tea.WindowSizeMsg{Width: 80, Height: 40})
	return h
}

// send runs msg through Update and returns the command.
func (h *harness) send(msg tea.Msg) tea.Cmd {
	next, cmd := h.m.Update(msg)
	h.m = next.(Model)
	return cmd
}

// publish stores list and delivers the snapshot, running the resulting
// load to completion.
func (h *harness) publish(list []tracks.Track, err error) {
	h.store.Update(list, err)
	h.finish(h.send(snapshotMsg(h.store.Snapshot())))
}

// finish runs a load command and feeds its result back.
func (h *harness) finish(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	msg := cmd()
	if _, ok := msg.(loadedMsg); !ok {
		return
	}
	h.send(msg)
}

func press(s string) tea.KeyMsg {
	switch s {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModel_FirstSnapshotLoadsFirstTrackPaused(t *testing.T) {
	h := newHarness(t, nil)
	h.publish(sampleTracks(), nil)

	if h.m.loaded != 0 {
		t.Fatalf("loaded = %d, want 0", h.m.loaded)
	}
	if len(h.player.loads) != 1 || h.player.loads[0] != "One.wav" {
		t.Fatalf("loads = %v, want [One.wav]", h.player.loads)
	}
	if h.player.playing {
		t.Fatal("first track should load paused")
	}
}

func TestModel_SameSnapshotVersionDoesNotReload(t *testing.T) {
	h := newHarness(t, nil)
	h.publish(sampleTracks(), nil)
	if cmd := h.send(snapshotMsg(h.store.Snapshot())); cmd != nil {
		t.Fatal("unchanged snapshot should not issue a load")
	}
}

func TestModel_SelectPlaysTrack(t *testing.T) {
	h := newHarness(t, nil)
	h.publish(sampleTracks(), nil)

	h.send(press("down"))
	h.finish(h.send(press("enter")))

	if h.m.loaded != 1 || !h.player.playing {
		t.Fatalf("loaded=%d playing=%v, want 1/true", h.m.loaded, h.player.playing)
	}

	// Selecting the playing track pauses it.
	if cmd := h.send(press("enter")); cmd != nil {
		t.Fatal("re-selecting the loaded track should not reload")
	}
	if h.player.playing {
		t.Fatal("re-selecting the playing track should pause")
	}
}

func TestModel_SpaceTogglesAfterLoad(t *testing.T) {
	h := newHarness(t, nil)
	h.publish(sampleTracks(), nil)

	h.send(press(" "))
	if !h.player.playing || !h.m.wantPlay {
		t.Fatal("space should start playback")
	}
	h.send(press(" "))
	if h.player.playing || h.m.wantPlay {
		t.Fatal("second space should pause")
	}
}

func TestModel_NextKeepsPlaying(t *testing.T) {
	h := newHarness(t, nil)
	h.publish(sampleTracks(), nil)
	h.send(press(" "))

	h.finish(h.send(press("n")))
	if h.m.loaded != 1 || !h.player.playing {
		t.Fatalf("loaded=%d playing=%v, want 1/true", h.m.loaded, h.player.playing)
	}
	h.finish(h.send(press("p")))
	h.finish(h.send(press("p")))
	if h.m.loaded != 2 {
		t.Fatalf("Previous should wrap to 2, got %d", h.m.loaded)
	}
}

func TestModel_StaleLoadIsDropped(t *testing.T) {
	h := newHarness(t, nil)
	h.publish(sampleTracks(), nil)

	first := h.send(press("n"))
	second := h.send(press("n"))

	staleMsg := first()
	h.send(staleMsg)
	h.send(second())

	if len(h.player.loads) != 2 || h.player.loads[1] != "Three.wav" {
		t.Fatalf("loads = %v, want first track then Three.wav only", h.player.loads)
	}
	if h.m.loaded != 2 {
		t.Fatalf("loaded = %d, want 2", h.m.loaded)
	}
}

func TestModel_LoadErrorSetsStatus(t *testing.T) {
	h := newHarness(t, nil)
	h.source.openErr = errors.New("network down")
	h.publish(sampleTracks(), nil)

	if h.m.loaded != -1 || h.m.loading {
		t.Fatalf("loaded=%d loading=%v, want -1/false", h.m.loaded, h.m.loading)
	}
	if !h.m.statusErr || !strings.Contains(h.m.status, "One") {
		t.Fatalf("status = %q err=%v", h.m.status, h.m.statusErr)
	}
}

func TestModel_FinishedRepeatsOrAdvances(t *testing.T) {
	h := newHarness(t, nil)
	h.publish(sampleTracks(), nil)

	h.send(finishedMsg{})
	if h.m.queue.Current() != 1 || !h.m.loading || !h.m.wantPlay {
		t.Fatalf("current=%d loading=%v, want advance to 1", h.m.queue.Current(), h.m.loading)
	}

	h.send(press("r"))
	h.send(finishedMsg{})
	if h.m.queue.Current() != 1 {
		t.Fatalf("repeat should stay on 1, got %d", h.m.queue.Current())
	}
}

func TestModel_VolumeAndSeekKeys(t *testing.T) {
	h := newHarness(t, nil)
	h.publish(sampleTracks(), nil)

	for range 10 {
		h.send(press("+"))
	}
	if h.player.volume != 1 {
		t.Fatalf("volume = %v, want clamp to 1", h.player.volume)
	}
	h.send(press("-"))
	if v := h.player.volume; v < 0.89 || v > 0.91 {
		t.Fatalf("volume = %v, want 0.9", v)
	}

	h.send(press("5"))
	if len(h.player.seeks) != 1 || h.player.seeks[0] != 0.5 {
		t.Fatalf("seeks = %v, want [0.5]", h.player.seeks)
	}
}

func TestModel_TickAdvancesCircuitAndSpectrum(t *testing.T) {
	h := newHarness(t, nil)
	for i := range 10 {
		h.send(tickMsg(time.Unix(int64(i), 0)))
	}
	st := h.m.circuit.stats()
	if st.Nodes == 0 || st.Frames != 10 {
		t.Fatalf("stats = %+v, want nodes and 10 frames", st)
	}
	if h.m.spectrum.heights()[0] <= 0 {
		t.Fatal("spectrum did not move")
	}
}

func TestModel_ResizeRebuildsCircuit(t *testing.T) {
	h := newHarness(t, nil)
	before := h.m.circuit.surface
	bw, bh := before.Size()
	h.send(tea.WindowSizeMsg{Width: 120, Height: 50})
	w, hgt := h.m.circuit.surface.Size()
	if w == bw && hgt == bh {
		t.Fatalf("surface size unchanged at %dx%d", w, hgt)
	}
	if cols, _ := h.m.circuit.surface.Cells(); cols != 120 {
		t.Fatalf("cols = %d, want 120", cols)
	}
}

func TestModel_ViewStates(t *testing.T) {
	h := newHarness(t, nil)
	if !strings.Contains(h.m.View(), "Loading tracks") {
		t.Fatal("expected loading message before first listing")
	}

	h.store.Update(nil, errors.New("boom"))
	h.send(snapshotMsg(h.store.Snapshot()))
	if !strings.Contains(h.m.View(), "Error loading tracks") {
		t.Fatal("expected error message after failed first listing")
	}

	h.publish(nil, nil)
	if !strings.Contains(h.m.View(), "No tracks found") {
		t.Fatal("expected empty message")
	}

	h.publish(sampleTracks(), nil)
	view := h.m.View()
	for _, want := range []string{"One", "Two", "0:30", "2:00"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q", want)
		}
	}
}

func TestModel_ViewCycleAndHelp(t *testing.T) {
	h := newHarness(t, nil)
	h.send(press("tab"))
	if h.m.currentView != ViewSpectrum {
		t.Fatalf("view = %v, want spectrum", h.m.currentView)
	}
	h.send(press("tab"))
	if h.m.currentView != ViewLogs {
		t.Fatalf("view = %v, want logs", h.m.currentView)
	}
	h.send(press("?"))
	if !h.m.showHelp || !strings.Contains(h.m.View(), "Keys") {
		t.Fatal("help overlay not shown")
	}
	h.send(press("x"))
	if h.m.showHelp {
		t.Fatal("any key should close help")
	}
}

func TestModel_ShuffleAndThemeKeys(t *testing.T) {
	h := newHarness(t, nil)
	h.send(press("s"))
	if !h.m.queue.Shuffle() {
		t.Fatal("s should enable shuffle")
	}
	name := h.m.theme.Name
	h.send(press("T"))
	if h.m.theme.Name == name {
		t.Fatal("T should change theme")
	}
}

func TestModel_ReorderedListingFollowsLoadedTrack(t *testing.T) {
	h := newHarness(t, nil)
	h.publish(sampleTracks(), nil)
	h.send(press("down"))
	h.finish(h.send(press("enter")))
	if h.m.loaded != 1 {
		t.Fatalf("loaded = %d, want 1", h.m.loaded)
	}

	grown := append([]tracks.Track{track("Zero", "Z", "u0")}, sampleTracks()...)
	h.store.Update(grown, nil)
	if cmd := h.send(snapshotMsg(h.store.Snapshot())); cmd != nil {
		t.Fatal("a refreshed listing should not reload the playing track")
	}

	if h.m.loaded != 2 {
		t.Fatalf("loaded = %d, want 2 (Two)", h.m.loaded)
	}
	if h.m.cursor != 2 {
		t.Fatalf("cursor = %d, want 2", h.m.cursor)
	}
	if got := h.m.queue.Current(); got != 2 {
		t.Fatalf("queue current = %d, want 2", got)
	}
	if len(h.player.loads) != 2 {
		t.Fatalf("loads = %v, want no new load", h.player.loads)
	}

	h.finish(h.send(press("n")))
	if last := h.player.loads[len(h.player.loads)-1]; last != "Three.wav" {
		t.Fatalf("next loaded %s, want Three.wav", last)
	}
	if h.m.loaded != 3 {
		t.Fatalf("loaded = %d, want 3", h.m.loaded)
	}
}

func TestModel_RemovedTrackIsNoLongerMarked(t *testing.T) {
	h := newHarness(t, nil)
	h.publish(sampleTracks(), nil)
	h.send(press("down"))
	h.finish(h.send(press("enter")))

	list := sampleTracks()
	h.store.Update([]tracks.Track{list[0], list[2]}, nil)
	if cmd := h.send(snapshotMsg(h.store.Snapshot())); cmd != nil {
		t.Fatal("removing the playing track should not start another load")
	}
	if h.m.loaded != -1 {
		t.Fatalf("loaded = %d, want -1", h.m.loaded)
	}
	if !h.player.playing {
		t.Fatal("playback of the removed track should continue")
	}
}

func TestModel_PendingLoadResolvesAgainstNewListing(t *testing.T) {
	h := newHarness(t, nil)
	h.publish(sampleTracks(), nil)

	pending := h.send(press("n"))
	grown := append([]tracks.Track{track("Zero", "Z", "u0")}, sampleTracks()...)
	h.store.Update(grown, nil)
	h.send(snapshotMsg(h.store.Snapshot()))
	h.send(pending())

	if h.m.loaded != 2 {
		t.Fatalf("loaded = %d, want 2 (Two)", h.m.loaded)
	}
}
