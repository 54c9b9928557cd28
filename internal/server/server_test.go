package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/jumpgame/internal/assets"
	"github.com/vovakirdan/jumpgame/internal/speed"
	"github.com/vovakirdan/jumpgame/internal/storage"
)

var testTable = []assets.Pairing{
	{CharacterPath: "character-1.svg", ObstaclePath: "obstacle-1.svg"},
	{CharacterPath: "character-2.svg", ObstaclePath: "obstacle-2.svg"},
}

// brokenStore fails every call like an unwritable medium.
type brokenStore struct{}

func (brokenStore) Best(context.Context) (int, error) {
	return 0, fmt.Errorf("%w: read: permission denied", storage.ErrStorage)
}

func (brokenStore) Report(context.Context, int) (int, error) {
	return 0, fmt.Errorf("%w: write: permission denied", storage.ErrStorage)
}

func (brokenStore) Close() error { return nil }

func newTestServer(t *testing.T, store storage.Store) *Server {
	t.Helper()
	sel, err := assets.New(testTable, 1)
	if err != nil {
		t.Fatal(err)
	}
	gen, err := speed.New(15, 37, 1)
	if err != nil {
		t.Fatal(err)
	}
	public := fstest.MapFS{
		"index.html":      {Data: []byte("<title>Jump</title>")},
		"character-1.svg": {Data: []byte("<svg/>")},
	}
	return New(sel, gen, store, WithPublic(public), WithLogger(log.New(io.Discard)))
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", path, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	w := get(newTestServer(t, storage.NewMemory(0)).Routes(), "/healthz")
	if w.Code != http.StatusOK || w.Body.String() != "ok" {
		t.Errorf("GET /healthz = %d %q", w.Code, w.Body.String())
	}
}

func TestImagesEndpoint(t *testing.T) {
	h := newTestServer(t, storage.NewMemory(0)).Routes()

	seen := map[assets.Pairing]bool{}
	for i := 0; i < 50; i++ {
		w := get(h, "/getImages")
		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", w.Code)
		}
		if ct := w.Header().Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		var p assets.Pairing
		if err := json.NewDecoder(w.Body).Decode(&p); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		seen[p] = true
	}
	for p := range seen {
		if p != testTable[0] && p != testTable[1] {
			t.Errorf("unexpected pairing %+v", p)
		}
	}
	if len(seen) != 2 {
		t.Errorf("saw %d distinct pairings in 50 draws, expected 2", len(seen))
	}
}

func TestSpeedEndpoint(t *testing.T) {
	h := newTestServer(t, storage.NewMemory(0)).Routes()

	for i := 0; i < 100; i++ {
		w := get(h, "/speed")
		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", w.Code)
		}
		if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
			t.Errorf("Content-Type = %q", ct)
		}
		v, err := strconv.ParseFloat(w.Body.String(), 64)
		if err != nil {
			t.Fatalf("body %q is not a number", w.Body.String())
		}
		if v < 15 || v >= 37 {
			t.Fatalf("speed %v outside [15, 37)", v)
		}
	}
}

func TestRecordEndpoint(t *testing.T) {
	store := storage.NewMemory(0)
	h := newTestServer(t, store).Routes()

	steps := []struct {
		path     string
		code     int
		expected string
	}{
		{"/record/5", http.StatusOK, "5"},
		{"/record/3", http.StatusOK, "5"},
		{"/record/12", http.StatusOK, "12"},
		{"/record/12", http.StatusOK, "12"},
		{"/record/0", http.StatusOK, "12"},
		{"/record", http.StatusOK, "12"},
	}
	for _, st := range steps {
		w := get(h, st.path)
		if w.Code != st.code || w.Body.String() != st.expected {
			t.Errorf("GET %s = %d %q, expected %d %q", st.path, w.Code, w.Body.String(), st.code, st.expected)
		}
	}
}

func TestRecordRejectsBadInput(t *testing.T) {
	store := storage.NewMemory(7)
	h := newTestServer(t, store).Routes()

	for _, path := range []string{
		"/record/abc",
		"/record/-1",
		"/record/05",
		"/record/+5",
		"/record/1.5",
		"/record/%201",
		"/record/99999999999999999999999",
	} {
		w := get(h, path)
		if w.Code != http.StatusBadRequest {
			t.Errorf("GET %s = %d, expected 400", path, w.Code)
		}
	}

	best, _ := store.Best(context.Background())
	if best != 7 {
		t.Errorf("best = %d after rejected input, expected 7", best)
	}
}

func TestRecordStorageFailure(t *testing.T) {
	h := newTestServer(t, brokenStore{}).Routes()

	for _, path := range []string{"/record/5", "/record"} {
		w := get(h, path)
		if w.Code != http.StatusInternalServerError {
			t.Errorf("GET %s = %d, expected 500", path, w.Code)
		}
		if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
			t.Errorf("Content-Type = %q", ct)
		}
	}
}

func TestRecordPassesSessionToStore(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.OpenSQLite(dir + "/records.db")
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	defer store.Close()
	h := newTestServer(t, store).Routes()

	req := httptest.NewRequest("GET", "/record/9", nil)
	req.Header.Set(sessionHeader, "session-42")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /record/9 = %d", w.Code)
	}

	hist, err := store.History(context.Background(), 10)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(hist) != 1 || hist[0].SessionID != "session-42" || hist[0].Seconds != 9 {
		t.Errorf("History() = %+v", hist)
	}
}

func TestStaticFiles(t *testing.T) {
	h := newTestServer(t, storage.NewMemory(0)).Routes()

	if w := get(h, "/"); w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Jump") {
		t.Errorf("GET / = %d %q", w.Code, w.Body.String())
	}
	if w := get(h, "/character-1.svg"); w.Code != http.StatusOK {
		t.Errorf("GET /character-1.svg = %d", w.Code)
	}
	if w := get(h, "/missing.png"); w.Code != http.StatusNotFound {
		t.Errorf("GET /missing.png = %d, expected 404", w.Code)
	}
}

func TestServeShutsDownOnCancel(t *testing.T) {
	srv := newTestServer(t, storage.NewMemory(3))
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/record")
	if err != nil {
		t.Fatalf("GET /record error = %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if string(body) != "3" {
		t.Errorf("GET /record = %q, expected 3", body)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() error = %v", err)
		}
	case <-time.After(ShutdownTimeout):
		t.Fatal("Serve() did not return after cancel")
	}
}
