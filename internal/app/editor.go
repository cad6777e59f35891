package app

import (
	"charm.land/bubbles/v2/textarea"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"notepad/internal/notes"
)

type editorField int

const (
	editorFieldNone editorField = iota
	editorFieldTitle
	editorFieldContent
)

// EditorController owns the title and content inputs for the draft. It only
// reflects the draft; edits flow back to the notes controller through the
// values returned by Update.
type EditorController struct {
	title    textinput.Model
	content  textarea.Model
	focus    editorField
	revision uint64
}

func NewEditorController(width, height int) *EditorController {
	title := textinput.New()
	title.Prompt = ""
	title.Placeholder = "Title"
	title.CharLimit = 200

	content := textarea.New()
	content.Placeholder = "Write your note…"
	content.ShowLineNumbers = false

	c := &EditorController{title: title, content: content}
	c.SetSize(width, height)
	return c
}

func (c *EditorController) SetSize(width, height int) {
	c.title.SetWidth(max(1, width))
	c.content.SetWidth(max(1, width))
	c.content.SetHeight(max(1, height-2))
}

// Sync reloads the inputs when the controller replaced the draft since the
// last call. Keystrokes already reflected in the draft are left alone.
func (c *EditorController) Sync(state notes.State) {
	if state.DraftRevision == c.revision {
		return
	}
	c.revision = state.DraftRevision
	c.title.SetValue(state.Draft.Title)
	c.title.CursorEnd()
	c.content.SetValue(state.Draft.Content)
	if !state.HasSelection() {
		c.Blur()
	}
}

func (c *EditorController) Focus(field editorField) tea.Cmd {
	c.title.Blur()
	c.content.Blur()
	c.focus = field
	switch field {
	case editorFieldTitle:
		return c.title.Focus()
	case editorFieldContent:
		return c.content.Focus()
	}
	return nil
}

func (c *EditorController) Blur() {
	c.Focus(editorFieldNone)
}

func (c *EditorController) Focused() editorField {
	return c.focus
}

// Update forwards msg to the focused input and returns its value afterwards.
func (c *EditorController) Update(msg tea.Msg) (editorField, string, tea.Cmd) {
	var cmd tea.Cmd
	switch c.focus {
	case editorFieldTitle:
		c.title, cmd = c.title.Update(msg)
		return editorFieldTitle, c.title.Value(), cmd
	case editorFieldContent:
		c.content, cmd = c.content.Update(msg)
		return editorFieldContent, c.content.Value(), cmd
	}
	return editorFieldNone, "", nil
}

func (c *EditorController) Title() string {
	return c.title.Value()
}

func (c *EditorController) Content() string {
	return c.content.Value()
}

func (c *EditorController) View() string {
	titleLabel := fieldLabelStyle.Render("Title")
	if c.focus == editorFieldTitle {
		titleLabel = fieldLabelFocusedStyle.Render("Title")
	}
	contentLabel := fieldLabelStyle.Render("Content")
	if c.focus == editorFieldContent {
		contentLabel = fieldLabelFocusedStyle.Render("Content")
	}
	return titleLabel + " " + c.title.View() + "\n" + contentLabel + "\n" + c.content.View()
}
