package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	"github.com/desertthunder/callouts/internal/models"
)

var _ list.Item = entryItem{}

// entryItem wraps [models.Entry] to implement [list.Item].
type entryItem struct {
	entry *models.Entry
}

func (i entryItem) FilterValue() string { return i.entry.Title() }
func (i entryItem) Title() string       { return i.entry.Title() }
func (i entryItem) Description() string {
	desc := fmt.Sprintf("#%d", i.entry.Sequence())
	if i.entry.Header() != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.entry.Header())
	}
	if i.entry.Learned() {
		desc = fmt.Sprintf("%s • every %d days", desc, i.entry.Interval())
	}
	return desc
}
