package app

import (
	"fmt"
	"io"
	"strings"

	"charm.land/bubbles/v2/list"
	tea "charm.land/bubbletea/v2"
	xansi "github.com/charmbracelet/x/ansi"

	"notepad/internal/notes"
	"notepad/internal/types"
)

const (
	dirtyMarker    = "●"
	untitledLabel  = "(untitled)"
	noteListHeader = "Notes"
)

type noteItem struct {
	note types.Note
}

func (n *noteItem) Title() string {
	if title := strings.TrimSpace(n.note.Title); title != "" {
		return title
	}
	return untitledLabel
}

func (n *noteItem) Description() string {
	return firstLine(n.note.Content)
}

func (n *noteItem) FilterValue() string {
	return n.Title()
}

type noteDelegate struct {
	selectedID types.NoteID
	dirty      bool
}

func (d *noteDelegate) Height() int {
	return 1
}

func (d *noteDelegate) Spacing() int {
	return 0
}

func (d *noteDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd {
	return nil
}

func (d *noteDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	entry, ok := item.(*noteItem)
	if !ok {
		return
	}
	maxWidth := m.Width()
	isSelected := !d.selectedID.IsZero() && entry.note.ID == d.selectedID
	marker := "  "
	if isSelected && d.dirty {
		marker = dirtyMarker + " "
	}
	title := entry.Title()
	if isSelected {
		line := truncateToWidth(marker+title, maxWidth)
		fmt.Fprint(w, selectedStyle.Render(padToWidth(line, maxWidth)))
		return
	}
	line := truncateToWidth(marker+title, maxWidth)
	if summary := entry.Description(); summary != "" {
		if rest := maxWidth - xansi.StringWidth(line) - 3; rest > 4 {
			fmt.Fprint(w, noteStyle.Render(line)+noteSummaryStyle.Render(" · "+truncateToWidth(summary, rest)))
			return
		}
	}
	fmt.Fprint(w, noteStyle.Render(line))
}

// NoteListController wraps the list widget showing the collection. The
// controller's selection always wins over the widget cursor.
type NoteListController struct {
	list     list.Model
	delegate *noteDelegate
}

func NewNoteListController(width, height int) *NoteListController {
	delegate := &noteDelegate{}
	mlist := list.New([]list.Item{}, delegate, width, height)
	mlist.Title = noteListHeader
	mlist.SetShowHelp(false)
	mlist.SetFilteringEnabled(false)
	mlist.SetShowPagination(false)
	mlist.SetShowStatusBar(false)
	mlist.Styles.Title = headerStyle
	return &NoteListController{list: mlist, delegate: delegate}
}

func (c *NoteListController) View() string {
	return c.list.View()
}

func (c *NoteListController) SetSize(width, height int) {
	c.list.SetSize(width, height)
}

// Sync rebuilds the items from state and moves the cursor to the selected
// note.
func (c *NoteListController) Sync(state notes.State) {
	items := make([]list.Item, 0, len(state.Notes))
	for _, note := range state.Notes {
		items = append(items, &noteItem{note: note})
	}
	c.list.SetItems(items)
	c.delegate.selectedID = state.SelectedID
	c.delegate.dirty = state.Dirty()
	if index := state.SelectedIndex(); index >= 0 {
		c.list.Select(index)
	}
}

// Move shifts the cursor by delta and returns the note under it.
func (c *NoteListController) Move(delta int) (types.NoteID, bool) {
	if len(c.list.Items()) == 0 {
		return "", false
	}
	if delta < 0 {
		c.list.CursorUp()
	} else if delta > 0 {
		c.list.CursorDown()
	}
	entry, ok := c.list.SelectedItem().(*noteItem)
	if !ok {
		return "", false
	}
	return entry.note.ID, true
}

func (c *NoteListController) Len() int {
	return len(c.list.Items())
}
