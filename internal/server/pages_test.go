package server

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/callouts/internal/repositories"
	"github.com/desertthunder/callouts/internal/shared"
	"github.com/desertthunder/callouts/internal/study"
	tu "github.com/desertthunder/callouts/internal/testing"
	"github.com/desertthunder/callouts/internal/web"
)

type site struct {
	handler http.Handler
	deck    *study.Service
	fetcher *tu.MockFetcher
	static  string
}

func newSite(t *testing.T, withYouTube bool) *site {
	t.Helper()

	db := tu.NewTestDB(t)
	deck := study.NewService(repositories.NewEntryRepository(db), repositories.NewReviewRepository(db), nil)

	renderer, err := web.NewRenderer(web.Options{})
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}

	static := t.TempDir()
	os.MkdirAll(filepath.Join(static, "css"), 0755)
	os.WriteFile(filepath.Join(static, "css", "site.css"), []byte(".draggable{}"), 0644)

	logger := log.New(io.Discard)
	s := &site{deck: deck, static: static}
	opts := PagesOptions{
		Renderer:  renderer,
		Site:      Site{shared.DefaultConfig().Site},
		Deck:      deck,
		Cache:     repositories.NewPlaylistCacheAdapter(repositories.NewPlaylistRepository(db), logger),
		StaticDir: static,
		Logger:    logger,
	}
	if withYouTube {
		s.fetcher = &tu.MockFetcher{Playlist: tu.SamplePlaylist("PLcallouts", "vid1", "vid2")}
		opts.YouTube = s.fetcher
	}

	s.handler = NewSiteHandler(NewPages(opts), logger)
	return s
}

func (s *site) do(t *testing.T, method, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func assertBody(t *testing.T, rec *httptest.ResponseRecorder, status int, contains ...string) {
	t.Helper()
	if rec.Code != status {
		t.Errorf("expected status %d, got %d: %s", status, rec.Code, rec.Body.String())
	}
	for _, want := range contains {
		if !strings.Contains(rec.Body.String(), want) {
			t.Errorf("expected %q in body:\n%s", want, rec.Body.String())
		}
	}
}

func TestPages(t *testing.T) {
	t.Run("calendar", func(t *testing.T) {
		s := newSite(t, false)
		if _, err := s.deck.Add("", "Sploosh", "", ""); err != nil {
			t.Fatalf("Add() error = %v", err)
		}

		rec := s.do(t, http.MethodGet, "/", nil)
		assertBody(t, rec, http.StatusOK, "<title>Learn - Splatoon Callouts</title>", "1 due", `href="/study/1"`)
	})

	t.Run("learn", func(t *testing.T) {
		s := newSite(t, false)

		rec := s.do(t, http.MethodGet, "/learn", nil)
		assertBody(t, rec, http.StatusOK, "Test Item", "Sploosh", "Splooshes be splooshing.", "wasm_exec.js")

		s.deck.Add("Moray Towers", "Ramps", "The long ramps.", "")
		s.deck.Add("Moray Towers", "Spire", "The tall tower.", "")

		rec = s.do(t, http.MethodGet, "/learn/", nil)
		assertBody(t, rec, http.StatusOK, "Moray Towers", `class="draggable"`, `data-entry="2"`)
		if strings.Count(rec.Body.String(), `class="draggable"`) != 2 {
			t.Errorf("expected one draggable card per due entry")
		}
	})

	t.Run("study", func(t *testing.T) {
		s := newSite(t, false)
		rec := s.do(t, http.MethodGet, "/study", nil)
		assertBody(t, rec, http.StatusOK, "You need to pick an entry to study.")
		if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
			t.Errorf("unexpected content type %q", ct)
		}
	})

	t.Run("study entry", func(t *testing.T) {
		s := newSite(t, false)
		s.deck.Add("Header", "Sploosh", "Splooshes be splooshing.", "")

		rec := s.do(t, http.MethodGet, "/study/1", nil)
		assertBody(t, rec, http.StatusOK, "Sploosh", `action="/study/1"`, `value="5"`, "perfect")
	})

	t.Run("study entry not found", func(t *testing.T) {
		s := newSite(t, false)

		for _, target := range []string{"/study/9", "/study/abc", "/study/-1", "/study/4294967296"} {
			rec := s.do(t, http.MethodGet, target, nil)
			assertBody(t, rec, http.StatusNotFound, "Page not found", "404 Not Found")
		}
	})

	t.Run("study submit redirects to next due", func(t *testing.T) {
		s := newSite(t, false)
		s.deck.Add("", "first", "", "")
		s.deck.Add("", "second", "", "")

		rec := s.do(t, http.MethodPost, "/study/1", url.Values{"grade": {"4"}})
		if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/study/2" {
			t.Fatalf("expected redirect to /study/2, got %d %q", rec.Code, rec.Header().Get("Location"))
		}

		rec = s.do(t, http.MethodPost, "/study/2", url.Values{"grade": {"5"}})
		if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/learn" {
			t.Fatalf("expected redirect to /learn, got %d %q", rec.Code, rec.Header().Get("Location"))
		}

		entry, err := s.deck.Entry(1)
		if err != nil {
			t.Fatalf("Entry() error = %v", err)
		}
		if entry.Repetitions() != 1 {
			t.Errorf("expected review to be recorded, reps=%d", entry.Repetitions())
		}
	})

	t.Run("study submit errors", func(t *testing.T) {
		s := newSite(t, false)
		s.deck.Add("", "first", "", "")

		rec := s.do(t, http.MethodPost, "/study/1", url.Values{"grade": {"9"}})
		assertBody(t, rec, http.StatusBadRequest, "Grade must be between 0 and 5.")

		rec = s.do(t, http.MethodPost, "/study/7", url.Values{"grade": {"3"}})
		assertBody(t, rec, http.StatusNotFound, "Page not found")
	})

	t.Run("youtube form", func(t *testing.T) {
		s := newSite(t, true)
		rec := s.do(t, http.MethodGet, "/youtube", nil)
		assertBody(t, rec, http.StatusOK, `action="/youtube"`, `name="url"`)
	})

	t.Run("youtube submit", func(t *testing.T) {
		s := newSite(t, true)

		rec := s.do(t, http.MethodPost, "/youtube", url.Values{"url": {"https://www.youtube.com/playlist?list=PLcallouts"}})
		assertBody(t, rec, http.StatusOK, "Splatoon Callouts", "https://www.youtube.com/watch?v=vid2")

		if len(s.fetcher.Calls) != 1 || s.fetcher.Calls[0] != "PLcallouts" {
			t.Errorf("expected playlist id from first query pair, got %v", s.fetcher.Calls)
		}

		rec = s.do(t, http.MethodGet, "/youtube", nil)
		assertBody(t, rec, http.StatusOK, "Fetched", "Splatoon Callouts")
	})

	t.Run("youtube submit without playlist id", func(t *testing.T) {
		s := newSite(t, true)

		for _, raw := range []string{"https://www.youtube.com/playlist", "not a url", ""} {
			rec := s.do(t, http.MethodPost, "/youtube", url.Values{"url": {raw}})
			assertBody(t, rec, http.StatusOK, "No playlist ID.")
		}
		if len(s.fetcher.Calls) != 0 {
			t.Errorf("fetcher should not be called, got %v", s.fetcher.Calls)
		}
	})

	t.Run("youtube submit failures", func(t *testing.T) {
		s := newSite(t, true)
		form := url.Values{"url": {"https://www.youtube.com/playlist?list=PLx"}}

		s.fetcher.Err = shared.ErrPlaylistNotFound
		assertBody(t, s.do(t, http.MethodPost, "/youtube", form), http.StatusOK, "Playlist not found.")

		s.fetcher.Err = errors.Join(shared.ErrAPIRequest, errors.New("quota"))
		assertBody(t, s.do(t, http.MethodPost, "/youtube", form), http.StatusBadGateway, "Failed to fetch playlist.")
	})

	t.Run("youtube not configured", func(t *testing.T) {
		s := newSite(t, false)
		rec := s.do(t, http.MethodPost, "/youtube", url.Values{"url": {"https://www.youtube.com/playlist?list=PL"}})
		assertBody(t, rec, http.StatusServiceUnavailable, "YouTube is not configured.")
	})

	t.Run("copyright", func(t *testing.T) {
		s := newSite(t, false)
		assertBody(t, s.do(t, http.MethodGet, "/copyright", nil), http.StatusOK, "2021 Zageron")
	})

	t.Run("robots", func(t *testing.T) {
		s := newSite(t, false)
		rec := s.do(t, http.MethodGet, "/robots.txt", nil)
		assertBody(t, rec, http.StatusOK, "User-agent: *", "https://www.zageron.com")
		if ct := rec.Header().Get("Content-Type"); ct != "text/plain; charset=utf-8" {
			t.Errorf("unexpected content type %q", ct)
		}
	})

	t.Run("static files", func(t *testing.T) {
		s := newSite(t, false)
		assertBody(t, s.do(t, http.MethodGet, "/css/site.css", nil), http.StatusOK, ".draggable{}")
		assertBody(t, s.do(t, http.MethodGet, "/css/missing.css", nil), http.StatusNotFound, "Page not found", "/css/missing.css")
	})
}
