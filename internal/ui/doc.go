// Package ui implements an interactive terminal review session using bubbletea's Elm architecture.
//
// The TUI walks through the due deck in three views:
//  1. [DeckView] : Browse due entries and pick where to start
//  2. [CardView] : Reveal the answer and grade recall from 0 to 5
//  3. [ResultView] : Summarize the session with the pass rate
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Reviews are recorded through a [Deck] in commands so the database never blocks rendering.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, space, 0-5, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
