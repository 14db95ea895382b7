package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/callouts/internal/models"
	"github.com/desertthunder/callouts/internal/study"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	DeckView ViewState = iota
	CardView
	ResultView
)

// Deck is the part of [study.Service] a review session needs.
type Deck interface {
	Due(limit int) ([]*models.Entry, error)
	Review(entryID int, g study.Grade) (*models.Entry, error)
}

// Result is one graded card of the session.
type Result struct {
	Title    string
	Grade    study.Grade
	Interval int
	Due      time.Time
}

// Model represents the TUI application state.
type Model struct {
	ctx      context.Context
	view     ViewState
	deck     Deck
	limit    int
	width    int
	height   int
	deckList list.Model
	due      []*models.Entry
	queue    []*models.Entry
	current  int
	revealed bool
	pending  bool
	results  []Result
	err      error
	bar      progress.Model
	help     help.Model
	keys     keyMap
}

// NewModel creates a new TUI model reviewing at most limit due entries.
func NewModel(ctx context.Context, deck Deck, limit int) *Model {
	return &Model{
		ctx:      ctx,
		view:     DeckView,
		deck:     deck,
		limit:    limit,
		deckList: newDeckList(nil),
		bar:      progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		help:     help.New(),
		keys:     newKeyMap(),
	}
}

// State returns the active view.
func (m *Model) State() ViewState { return m.view }

// Results returns the cards graded so far.
func (m *Model) Results() []Result { return m.results }

// Err returns the last error shown to the user.
func (m *Model) Err() error { return m.err }

// Init initializes the TUI by loading the due deck.
func (m *Model) Init() tea.Cmd {
	return m.fetchDue()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.deckList.SetSize(msg.Width-4, msg.Height-8)
		m.bar.Width = min(max(msg.Width-8, 10), 60)
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.help) && m.deckList.FilterState() != list.Filtering {
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
		switch m.view {
		case DeckView:
			return m.handleDeckKeys(msg)
		case CardView:
			return m.handleCardKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case Msg:
		switch msg.kind {
		case MsgDueFetched:
			data := msg.data.(dueFetched)
			if data.err != nil {
				m.err = data.err
				return m, nil
			}
			m.err = nil
			m.due = data.entries
			m.deckList = newDeckList(data.entries)
			if m.width > 0 {
				m.deckList.SetSize(m.width-4, m.height-8)
			}
			return m, nil

		case MsgReviewed:
			data := msg.data.(reviewed)
			m.pending = false
			if data.err != nil {
				m.err = data.err
				return m, nil
			}
			m.err = nil
			m.results = append(m.results, Result{
				Title:    data.entry.Title(),
				Grade:    data.grade,
				Interval: data.entry.Interval(),
				Due:      data.entry.DueAt(),
			})
			m.current++
			m.revealed = false
			if m.current >= len(m.queue) {
				m.view = ResultView
			}
			return m, nil
		}
	}

	if m.view == DeckView {
		var cmd tea.Cmd
		m.deckList, cmd = m.deckList.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case DeckView:
		return m.renderDeck()
	case CardView:
		return m.renderCard()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleDeckKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.deckList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.deckList, cmd = m.deckList.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.restart):
		return m, m.fetchDue()
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.deckList.SelectedItem().(entryItem); ok {
			m.start(item.entry)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.deckList, cmd = m.deckList.Update(msg)
	return m, cmd
}

func (m *Model) handleCardKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = DeckView
		return m, m.fetchDue()
	case key.Matches(msg, m.keys.reveal):
		m.revealed = true
	case key.Matches(msg, m.keys.grade):
		if !m.revealed || m.pending {
			return m, nil
		}
		g, err := study.ParseGrade(msg.String())
		if err != nil {
			return m, nil
		}
		m.pending = true
		return m, m.review(m.queue[m.current], g)
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.restart):
		m.view = DeckView
		m.results = nil
		m.queue = nil
		m.err = nil
		return m, m.fetchDue()
	}
	return m, nil
}

// start queues every due entry beginning with first, wrapping around to the ones listed before it.
func (m *Model) start(first *models.Entry) {
	idx := 0
	for i, e := range m.due {
		if e.Sequence() == first.Sequence() {
			idx = i
			break
		}
	}
	m.queue = append(append([]*models.Entry{}, m.due[idx:]...), m.due[:idx]...)
	m.current = 0
	m.revealed = false
	m.results = nil
	m.view = CardView
}

func (m *Model) fetchDue() tea.Cmd {
	return func() tea.Msg {
		entries, err := m.deck.Due(m.limit)
		return dueFetchedMsg(entries, err)
	}
}

func (m *Model) review(entry *models.Entry, g study.Grade) tea.Cmd {
	return func() tea.Msg {
		next, err := m.deck.Review(entry.Sequence(), g)
		return reviewedMsg(next, g, err)
	}
}

func newDeckList(entries []*models.Entry) list.Model {
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = entryItem{entry: e}
	}
	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = fmt.Sprintf("Due callouts (%d)", len(entries))
	return l
}

func (m *Model) renderDeck() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress r to retry, q to quit", m.err))
	}
	if len(m.due) == 0 {
		title := styles.ok.Render("Nothing is due. Come back later.")
		return fmt.Sprintf("%s\n\n%s", title, m.helpView(m.keys.restart, m.keys.quit))
	}
	return fmt.Sprintf("%s\n\n%s", m.deckList.View(), m.helpView(m.keys.enter, m.keys.restart, m.keys.quit))
}

func (m *Model) renderCard() string {
	entry := m.queue[m.current]

	var b strings.Builder
	if entry.Header() != "" {
		b.WriteString(styles.help.Render(entry.Header()) + "\n")
	}
	b.WriteString(styles.title.Render(entry.Title()))
	if m.revealed {
		b.WriteString("\n" + entry.Description())
		if entry.Footer() != "" {
			b.WriteString("\n\n" + styles.help.Render(entry.Footer()))
		}
	}

	status := fmt.Sprintf("Card %d of %d", m.current+1, len(m.queue))
	bar := m.bar.ViewAs(float64(m.current) / float64(len(m.queue)))

	var errLine string
	if m.err != nil {
		errLine = "\n" + styles.err.Render(fmt.Sprintf("Error: %v", m.err))
	}

	next := m.keys.reveal
	if m.revealed {
		next = m.keys.grade
	}

	return fmt.Sprintf("%s\n%s\n\n%s%s\n\n%s", status, bar, styles.card.Render(b.String()), errLine, m.helpView(next, m.keys.back, m.keys.quit))
}

func (m *Model) renderResult() string {
	passed := 0
	for _, r := range m.results {
		if r.Grade.Passed() {
			passed++
		}
	}

	title := styles.ok.Render("✓ Session complete!")
	rate := 0.0
	if len(m.results) > 0 {
		rate = float64(passed) / float64(len(m.results))
	}
	info := fmt.Sprintf("\nReviewed: %d\nRecalled: %d/%d (%.1f%%)\n%s", len(m.results), passed, len(m.results), rate*100, m.bar.ViewAs(rate))

	var missed string
	if failed := len(m.results) - passed; failed > 0 {
		missed = fmt.Sprintf("\n\n%s", styles.warn.Render(fmt.Sprintf("Review again tomorrow (%d):", failed)))
		for _, r := range m.results {
			if !r.Grade.Passed() {
				missed += fmt.Sprintf("\n  • %s (%s)", r.Title, r.Grade)
			}
		}
	}

	return fmt.Sprintf("%s\n%s%s\n\n%s", title, info, missed, m.helpView(m.keys.restart, m.keys.quit))
}

// helpView shows the bindings relevant to the current view, or every binding once ? is pressed.
func (m *Model) helpView(bindings ...key.Binding) string {
	if m.help.ShowAll {
		return m.help.FullHelpView(m.keys.FullHelp())
	}
	return m.help.ShortHelpView(append(bindings, m.keys.help))
}
