package server

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"maps"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/callouts/internal/models"
	"github.com/desertthunder/callouts/internal/services"
	"github.com/desertthunder/callouts/internal/shared"
	"github.com/desertthunder/callouts/internal/study"
)

const (
	calendarDays = 7
	learnCards   = 12
)

// learningData fills the learn page when nothing in the deck is due.
var learningData = map[string]any{
	"item_header":      "Test Item",
	"item_title":       "Sploosh",
	"item_description": "Splooshes be splooshing.",
	"item_footer":      "You've learned this already.",
}

// Renderer executes named templates. [web.Renderer] implements it.
type Renderer interface {
	Render(w io.Writer, name string, data any) error
}

// Deck is the study deck as seen by the pages. [study.Service] implements it.
type Deck interface {
	Due(limit int) ([]*models.Entry, error)
	NextDue() (*models.Entry, error)
	Entry(entryID int) (*models.Entry, error)
	Review(entryID int, g study.Grade) (*models.Entry, error)
	Calendar(days int) ([]study.Day, error)
}

// PlaylistCache stores fetched playlists. [repositories.PlaylistCacheAdapter] implements it.
type PlaylistCache interface {
	CachePlaylist(wrapper *models.PlaylistWrapper)
	CachedPlaylists() []models.Playlist
}

// Site is the data shared by every page.
type Site struct {
	shared.SiteConfig
}

// Data returns the site fields merged with extra, later maps overriding earlier keys.
func (s Site) Data(extra ...map[string]any) map[string]any {
	data := map[string]any{
		"title":       s.Title,
		"author":      s.Author,
		"url":         s.URL,
		"description": s.Description,
		"route":       s.Route,
		"parent":      "root",
		"year":        s.Year,
	}
	for _, m := range extra {
		maps.Copy(data, m)
	}
	return data
}

// PagesOptions wires the dependencies of [Pages].
type PagesOptions struct {
	Renderer  Renderer
	Site      Site
	Deck      Deck
	YouTube   services.PlaylistFetcher // nil when YouTube credentials are not configured
	Cache     PlaylistCache            // optional
	StaticDir string                   // optional
	Logger    *log.Logger
}

// Pages serves the site.
type Pages struct {
	renderer  Renderer
	site      Site
	deck      Deck
	youtube   services.PlaylistFetcher
	cache     PlaylistCache
	staticDir string
	logger    *log.Logger
}

// NewPages creates the site handlers.
func NewPages(opts PagesOptions) *Pages {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Pages{
		renderer:  opts.Renderer,
		site:      opts.Site,
		deck:      opts.Deck,
		youtube:   opts.YouTube,
		cache:     opts.Cache,
		staticDir: opts.StaticDir,
		logger:    logger,
	}
}

// Register adds every site route to router.
func (p *Pages) Register(router *BasicRouter) {
	router.HandleFunc(http.MethodGet, "/{$}", p.Index)
	router.HandleFunc(http.MethodGet, "/learn", p.Learn)
	router.HandleFunc(http.MethodGet, "/study", p.Study)
	router.HandleFunc(http.MethodGet, "/study/{entry_id}", p.StudyEntry)
	router.HandleFunc(http.MethodPost, "/study/{entry_id}", p.StudySubmit)
	router.HandleFunc(http.MethodGet, "/youtube", p.YouTube)
	router.HandleFunc(http.MethodPost, "/youtube", p.YouTubeSubmit)
	router.HandleFunc(http.MethodGet, "/copyright", p.Copyright)
	router.HandleFunc(http.MethodGet, "/robots.txt", p.Robots)

	if p.staticDir != "" {
		router.Handle("", "/", http.FileServer(noListingFS{http.Dir(p.staticDir)}))
	}
}

// NewSiteHandler builds the router with the standard middleware stack and every site route.
func NewSiteHandler(pages *Pages, logger *log.Logger) *BasicRouter {
	router := NewBasicRouter()
	router.Use(
		Recover(logger),
		Logging(logger),
		NormalizePath(),
		ErrorPages(pages.renderer, pages.site, logger),
	)
	pages.Register(router)
	return router
}

// Index renders the due calendar.
func (p *Pages) Index(w http.ResponseWriter, r *http.Request) {
	days, err := p.deck.Calendar(calendarDays)
	if err != nil {
		p.serverError(w, "failed to build calendar", err)
		return
	}

	next, err := p.deck.NextDue()
	if err != nil {
		p.serverError(w, "failed to find next entry", err)
		return
	}

	data := map[string]any{"days": days}
	if next != nil {
		data["next"] = next
	}
	p.render(w, http.StatusOK, "pages/calendar", p.site.Data(data))
}

// Learn renders the next due card and the draggable card board.
func (p *Pages) Learn(w http.ResponseWriter, r *http.Request) {
	cards, err := p.deck.Due(learnCards)
	if err != nil {
		p.serverError(w, "failed to list due entries", err)
		return
	}

	item := learningData
	if len(cards) > 0 {
		item = map[string]any{}
		for k, v := range cards[0].Data() {
			item[k] = v
		}
	}

	p.render(w, http.StatusOK, "pages/learn", p.site.Data(item, map[string]any{"cards": cards}))
}

// Study answers the bare /study route.
func (p *Pages) Study(w http.ResponseWriter, r *http.Request) {
	writeText(w, http.StatusOK, "You need to pick an entry to study.")
}

// StudyEntry renders one entry with the grading form.
func (p *Pages) StudyEntry(w http.ResponseWriter, r *http.Request) {
	entry, ok := p.lookupEntry(w, r)
	if !ok {
		return
	}

	p.render(w, http.StatusOK, "pages/study", p.site.Data(map[string]any{
		"entry":  entry,
		"grades": gradeOptions(),
	}))
}

// StudySubmit records a graded review and redirects to the next due entry.
func (p *Pages) StudySubmit(w http.ResponseWriter, r *http.Request) {
	entryID, ok := parseEntryID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	if err := r.ParseForm(); err != nil {
		writeText(w, http.StatusBadRequest, "Invalid form.")
		return
	}

	grade, err := study.ParseGrade(r.PostFormValue("grade"))
	if err != nil {
		writeText(w, http.StatusBadRequest, "Grade must be between 0 and 5.")
		return
	}

	if _, err := p.deck.Review(entryID, grade); err != nil {
		if errors.Is(err, shared.ErrEntryNotFound) {
			http.NotFound(w, r)
			return
		}
		p.serverError(w, "failed to record review", err)
		return
	}

	target := "/learn"
	next, err := p.deck.NextDue()
	if err != nil {
		p.logger.Warn("failed to find next entry", "error", err)
	} else if next != nil {
		target = fmt.Sprintf("/study/%d", next.Sequence())
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// YouTube renders the playlist form with previously fetched playlists.
func (p *Pages) YouTube(w http.ResponseWriter, r *http.Request) {
	var playlists []models.Playlist
	if p.cache != nil {
		playlists = p.cache.CachedPlaylists()
	}
	p.render(w, http.StatusOK, "pages/youtube", p.site.Data(map[string]any{
		"playlists":  playlists,
		"configured": p.youtube != nil,
	}))
}

// YouTubeSubmit fetches the playlist named by the first query pair of the submitted URL.
func (p *Pages) YouTubeSubmit(w http.ResponseWriter, r *http.Request) {
	if p.youtube == nil {
		writeText(w, http.StatusServiceUnavailable, "YouTube is not configured.")
		return
	}

	if err := r.ParseForm(); err != nil {
		writeText(w, http.StatusOK, "No playlist ID.")
		return
	}

	playlistID, ok := services.PlaylistIDFromURL(r.PostFormValue("url"))
	if !ok {
		writeText(w, http.StatusOK, "No playlist ID.")
		return
	}

	wrapper, err := p.youtube.RequestPlaylist(r.Context(), playlistID)
	switch {
	case errors.Is(err, shared.ErrPlaylistNotFound):
		writeText(w, http.StatusOK, "Playlist not found.")
		return
	case err != nil:
		p.logger.Error("failed to fetch playlist", "playlist", playlistID, "error", err)
		writeText(w, http.StatusBadGateway, "Failed to fetch playlist.")
		return
	}

	if p.cache != nil {
		p.cache.CachePlaylist(wrapper)
	}

	p.render(w, http.StatusOK, "pages/playlist", p.site.Data(map[string]any{"playlist": wrapper}))
}

// Copyright renders the copyright notice.
func (p *Pages) Copyright(w http.ResponseWriter, r *http.Request) {
	p.render(w, http.StatusOK, "copyright", p.site.Data())
}

// Robots renders robots.txt as plain text.
func (p *Pages) Robots(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := p.renderer.Render(&buf, "robots", map[string]any{"url": p.site.URL}); err != nil {
		p.serverError(w, "failed to render robots.txt", err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}

func (p *Pages) lookupEntry(w http.ResponseWriter, r *http.Request) (*models.Entry, bool) {
	entryID, ok := parseEntryID(r)
	if !ok {
		http.NotFound(w, r)
		return nil, false
	}

	entry, err := p.deck.Entry(entryID)
	if err != nil {
		if errors.Is(err, shared.ErrEntryNotFound) {
			http.NotFound(w, r)
			return nil, false
		}
		p.serverError(w, "failed to load entry", err)
		return nil, false
	}
	return entry, true
}

// parseEntryID reads the {entry_id} path value as an unsigned 32-bit integer.
func parseEntryID(r *http.Request) (int, bool) {
	n, err := strconv.ParseUint(r.PathValue("entry_id"), 10, 32)
	if err != nil {
		return 0, false
	}
	return int(n), true
}

type gradeOption struct {
	Value int
	Label string
}

func gradeOptions() []gradeOption {
	opts := make([]gradeOption, 0, int(study.GradePerfect)+1)
	for g := study.GradeBlackout; g <= study.GradePerfect; g++ {
		opts = append(opts, gradeOption{Value: int(g), Label: g.String()})
	}
	return opts
}

func (p *Pages) render(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := p.renderer.Render(&buf, name, data); err != nil {
		p.serverError(w, "failed to render "+name, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func (p *Pages) serverError(w http.ResponseWriter, msg string, err error) {
	p.logger.Error(msg, "error", err)
	writeText(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	io.WriteString(w, body)
}
