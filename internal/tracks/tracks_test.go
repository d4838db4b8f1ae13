package tracks

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.String() != DefaultAPIURL {
		t.Fatalf("url = %q, want %q", u.String(), DefaultAPIURL)
	}

	u, err = parseBaseURL("ghe.example.com/api/v3?x=1")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "https" || u.Path != "" || u.RawQuery != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}
}

func TestNewClient_RejectsBadRepo(t *testing.T) {
	if _, err := NewClient("", "just-a-name", "", DefaultListing); err == nil {
		t.Fatal("expected error for repo without owner")
	}
}

func TestExtractArtist(t *testing.T) {
	tests := []struct {
		name string
		file string
		want string
	}{
		{"separator", "Kraftwerk - Radioactivity.wav", "Kraftwerk"},
		{"first separator wins", "A - B - C.wav", "A"},
		{"no separator", "Untitled.wav", "Fallback"},
		{"hyphen without spaces", "Lo-Fi.wav", "Fallback"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractArtist(tt.file, "Fallback"); got != tt.want {
				t.Fatalf("ExtractArtist(%q) = %q, want %q", tt.file, got, tt.want)
			}
		})
	}
}

func TestListing_MatchesCaseInsensitively(t *testing.T) {
	l := Listing{Extensions: []string{"wav", ".MP3"}, DefaultArtist: "X"}
	tr, ok := l.track("Song.WAV", "u1")
	if !ok {
		t.Fatal("Song.WAV should match")
	}
	if tr.Name != "Song" || tr.Ext != ".WAV" {
		t.Fatalf("track = %+v", tr)
	}
	if _, ok := l.track("song.mp3", "u2"); !ok {
		t.Fatal("song.mp3 should match")
	}
	if _, ok := l.track("cover.jpg", "u3"); ok {
		t.Fatal("cover.jpg should not match")
	}
	if _, ok := l.track(".wav", "u4"); ok {
		t.Fatal("bare extension should not match")
	}
}

func TestTrackID_StablePerURL(t *testing.T) {
	a, _ := DefaultListing.track("a.wav", "https://x/a.wav")
	b, _ := DefaultListing.track("a.wav", "https://x/a.wav")
	c, _ := DefaultListing.track("a.wav", "https://y/a.wav")
	if a.ID != b.ID {
		t.Fatalf("IDs differ for same URL: %v vs %v", a.ID, b.ID)
	}
	if a.ID == c.ID {
		t.Fatal("IDs equal for different URLs")
	}
}

func TestIndex_FindsTrackByID(t *testing.T) {
	list := []Track{
		{Name: "Zero", ID: IDFor("u0")},
		{Name: "One", ID: IDFor("u1")},
		{Name: "Two", ID: IDFor("u2")},
	}
	tests := []struct {
		name string
		id   uuid.UUID
		want int
	}{
		{"first", IDFor("u0"), 0},
		{"last", IDFor("u2"), 2},
		{"missing", IDFor("u9"), -1},
		{"nil", uuid.Nil, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Index(list, tt.id); got != tt.want {
				t.Fatalf("Index = %d, want %d", got, tt.want)
			}
		})
	}
}

func newContentsServer(t *testing.T, audio string) *httptest.Server {
	t.Helper()
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repos/owner/repo/contents/tracks":
			if ua := r.Header.Get("User-Agent"); ua != defaultUserAgent {
				t.Errorf("User-Agent = %q", ua)
			}
			_ = json.NewEncoder(w).Encode([]entry{
				{Name: "Artist - One.wav", Type: "file", DownloadURL: srv.URL + "/raw/one.wav"},
				{Name: "README.md", Type: "file", DownloadURL: srv.URL + "/raw/README.md"},
				{Name: "Two.WAV", Type: "file", DownloadURL: srv.URL + "/raw/two.wav"},
				{Name: "nested.wav", Type: "dir"},
			})
		case "/raw/one.wav":
			_, _ = io.WriteString(w, audio)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_FetchTracks(t *testing.T) {
	srv := newContentsServer(t, "")
	c, err := NewClient(srv.URL, "owner/repo", "/tracks/", DefaultListing)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	got, err := c.FetchTracks(context.Background())
	if err != nil {
		t.Fatalf("FetchTracks: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2: %+v", len(got), got)
	}
	if got[0].Name != "Artist - One" || got[0].Artist != "Artist" {
		t.Fatalf("first = %+v", got[0])
	}
	if got[1].Name != "Two" || got[1].Artist != DefaultListing.DefaultArtist {
		t.Fatalf("second = %+v", got[1])
	}
}

func TestClient_FetchTracksStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()
	c, err := NewClient(srv.URL, "owner/repo", "tracks", DefaultListing)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	_, err = c.FetchTracks(context.Background())
	if err == nil || !strings.Contains(err.Error(), "403") {
		t.Fatalf("err = %v, want status 403", err)
	}
}

func TestClient_EmptyListingIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "[]")
	}))
	defer srv.Close()
	c, err := NewClient(srv.URL, "owner/repo", "tracks", DefaultListing)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	got, err := c.FetchTracks(context.Background())
	if err != nil || len(got) != 0 {
		t.Fatalf("got %v, %v; want empty, nil", got, err)
	}
}

func TestClient_OpenAndDownload(t *testing.T) {
	srv := newContentsServer(t, "RIFFdata")
	c, err := NewClient(srv.URL, "owner/repo", "tracks", DefaultListing)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	list, err := c.FetchTracks(context.Background())
	if err != nil {
		t.Fatalf("FetchTracks: %v", err)
	}

	dir := t.TempDir()
	path, err := c.Download(context.Background(), list[0], dir)
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if filepath.Base(path) != "Artist - One.wav" {
		t.Fatalf("path = %q", path)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "RIFFdata" {
		t.Fatalf("content = %q, %v", data, err)
	}

	if _, err := c.Open(context.Background(), list[1]); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestDir_FetchAndOpen(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b - Beta.wav", "a.wav", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(name), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.wav"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	d := NewDir(dir, DefaultListing)
	got, err := d.FetchTracks(context.Background())
	if err != nil {
		t.Fatalf("FetchTracks: %v", err)
	}
	if len(got) != 2 || got[0].Name != "a" || got[1].Artist != "b" {
		t.Fatalf("tracks = %+v", got)
	}

	rc, err := d.Open(context.Background(), got[0])
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != "a.wav" {
		t.Fatalf("content = %q", data)
	}
}

func TestDir_MissingDirectory(t *testing.T) {
	d := NewDir(filepath.Join(t.TempDir(), "missing"), DefaultListing)
	if _, err := d.FetchTracks(context.Background()); err == nil {
		t.Fatal("expected error for missing dir")
	}
}
