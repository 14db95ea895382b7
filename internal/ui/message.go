package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/callouts/internal/models"
	"github.com/desertthunder/callouts/internal/study"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgDueFetched MsgKind = iota
	MsgReviewed
)

type dueFetched struct {
	entries []*models.Entry
	err     error
}

type reviewed struct {
	entry *models.Entry
	grade study.Grade
	err   error
}

// dueFetchedMsg is the constructor for [MsgDueFetched]
func dueFetchedMsg(entries []*models.Entry, err error) Msg {
	return Msg{kind: MsgDueFetched, data: dueFetched{entries, err}}
}

// reviewedMsg is the constructor for [MsgReviewed]
func reviewedMsg(entry *models.Entry, g study.Grade, err error) Msg {
	return Msg{kind: MsgReviewed, data: reviewed{entry, g, err}}
}
