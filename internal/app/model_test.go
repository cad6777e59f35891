package app

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	xansi "github.com/charmbracelet/x/ansi"

	"notepad/internal/client"
	"notepad/internal/devserver"
	"notepad/internal/logging"
	"notepad/internal/notes"
	"notepad/internal/types"
)

func newTestModel(t *testing.T, seed ...types.Note) (*Model, *devserver.Server) {
	t.Helper()
	srv := devserver.New()
	srv.Seed(seed...)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	controller := notes.NewController(client.New(ts.URL))
	m := NewModel(controller, WithRequestTimeout(2*time.Second))
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	settle(t, m, m.Init())
	return m, srv
}

// settle runs cmd and feeds service and clipboard results back into the
// model until nothing is left. Timer-driven commands are abandoned.
func settle(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	for _, msg := range runCmd(cmd) {
		switch msg.(type) {
		case noteResultMsg, copyResultMsg:
			_, next := m.Update(msg)
			settle(t, m, next)
		}
	}
}

func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()
	select {
	case msg := <-ch:
		if batch, ok := msg.(tea.BatchMsg); ok {
			var out []tea.Msg
			for _, c := range batch {
				out = append(out, runCmd(c)...)
			}
			return out
		}
		return []tea.Msg{msg}
	case <-time.After(200 * time.Millisecond):
		return nil
	}
}

func press(t *testing.T, m *Model, msg tea.KeyPressMsg) {
	t.Helper()
	_, cmd := m.Update(msg)
	settle(t, m, cmd)
}

func keyText(s string) tea.KeyPressMsg {
	r := []rune(s)[0]
	return tea.KeyPressMsg{Code: r, Text: s}
}

func typeText(t *testing.T, m *Model, s string) {
	t.Helper()
	for _, r := range s {
		press(t, m, tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

func TestModelInitLoadsAndSelectsFirstNote(t *testing.T) {
	m, _ := newTestModel(t,
		types.Note{ID: "1", Title: "Groceries", Content: "milk"},
		types.Note{ID: "2", Title: "Ideas"},
	)
	if m.state.Loading {
		t.Fatalf("expected loading to finish")
	}
	if m.state.SelectedID != "1" {
		t.Fatalf("expected first note selected, got %q", m.state.SelectedID)
	}
	if m.editor.Title() != "Groceries" || m.editor.Content() != "milk" {
		t.Fatalf("editor not synced: %q / %q", m.editor.Title(), m.editor.Content())
	}
	view := xansi.Strip(m.render())
	if !strings.Contains(view, "Groceries") || !strings.Contains(view, "Ideas") {
		t.Fatalf("expected notes listed in view:\n%s", view)
	}
}

func TestModelMoveSelectionResetsDraft(t *testing.T) {
	m, _ := newTestModel(t,
		types.Note{ID: "1", Title: "A"},
		types.Note{ID: "2", Title: "B", Content: "bee"},
	)
	press(t, m, tea.KeyPressMsg{Code: tea.KeyDown})
	if m.state.SelectedID != "2" {
		t.Fatalf("expected second note selected, got %q", m.state.SelectedID)
	}
	if m.editor.Title() != "B" || m.editor.Content() != "bee" {
		t.Fatalf("editor not reloaded: %q / %q", m.editor.Title(), m.editor.Content())
	}
}

func TestModelEditAndSave(t *testing.T) {
	m, srv := newTestModel(t, types.Note{ID: "1", Title: "A", Content: "x"})

	press(t, m, tea.KeyPressMsg{Code: tea.KeyTab})
	if m.editor.Focused() != editorFieldTitle {
		t.Fatalf("expected title focused, got %v", m.editor.Focused())
	}
	typeText(t, m, "bc")
	if m.state.Draft.Title != "Abc" {
		t.Fatalf("expected draft title to follow input, got %q", m.state.Draft.Title)
	}
	if !m.state.Dirty() {
		t.Fatalf("expected dirty draft")
	}
	if !strings.Contains(xansi.Strip(m.renderStatus()), "unsaved") {
		t.Fatalf("expected unsaved marker in status")
	}

	press(t, m, tea.KeyPressMsg{Code: 's', Mod: tea.ModCtrl})
	if m.state.Saving || m.state.Err != "" {
		t.Fatalf("unexpected state after save: %#v", m.state)
	}
	stored := srv.Notes()
	if stored[0].Title != "Abc" || stored[0].Content != "x" {
		t.Fatalf("unexpected stored note %#v", stored[0])
	}
	if m.state.Dirty() {
		t.Fatalf("expected clean draft after save")
	}
}

func TestModelTypingQInEditorDoesNotQuit(t *testing.T) {
	m, _ := newTestModel(t, types.Note{ID: "1", Title: ""})
	press(t, m, tea.KeyPressMsg{Code: tea.KeyTab})
	press(t, m, keyText("q"))
	if m.quitting {
		t.Fatalf("q in editor must not quit")
	}
	if m.state.Draft.Title != "q" {
		t.Fatalf("expected q typed into title, got %q", m.state.Draft.Title)
	}
	press(t, m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if m.editor.Focused() != editorFieldNone {
		t.Fatalf("expected esc to return to list")
	}
}

func TestModelCreateNote(t *testing.T) {
	m, srv := newTestModel(t, types.Note{ID: "1", Title: "A"})
	press(t, m, keyText("n"))

	if len(m.state.Notes) != 2 {
		t.Fatalf("expected created note listed, got %#v", m.state.Notes)
	}
	created := m.state.Notes[0]
	if created.Title != notes.UntitledTitle || m.state.SelectedID != created.ID {
		t.Fatalf("expected new untitled note selected, got %#v selected=%q", created, m.state.SelectedID)
	}
	if len(srv.Notes()) != 2 {
		t.Fatalf("expected note stored on the service")
	}
}

func TestModelDeleteRequiresConfirmation(t *testing.T) {
	m, srv := newTestModel(t, types.Note{ID: "1", Title: "A"}, types.Note{ID: "2", Title: "B"})

	press(t, m, keyText("d"))
	if !m.confirm.IsOpen() {
		t.Fatalf("expected confirm dialog")
	}
	press(t, m, keyText("n"))
	if m.confirm.IsOpen() || len(srv.Notes()) != 2 {
		t.Fatalf("cancel must not delete")
	}

	press(t, m, keyText("d"))
	press(t, m, keyText("y"))
	if len(srv.Notes()) != 1 || len(m.state.Notes) != 1 {
		t.Fatalf("expected note deleted, service=%#v state=%#v", srv.Notes(), m.state.Notes)
	}
	if m.state.HasSelection() {
		t.Fatalf("expected no selection after delete")
	}
	if !strings.Contains(xansi.Strip(m.render()), "No note selected") {
		t.Fatalf("expected empty selection hint")
	}
}

func TestModelShowsServiceErrors(t *testing.T) {
	m, srv := newTestModel(t, types.Note{ID: "1", Title: "A"})
	srv.FailNext(http.MethodPost, http.StatusInternalServerError)

	press(t, m, keyText("n"))
	want := "unable to create note: service returned 500 Internal Server Error: injected failure"
	if m.state.Err != want {
		t.Fatalf("unexpected error %q", m.state.Err)
	}
	if !strings.Contains(xansi.Strip(m.renderStatus()), "unable to create note") {
		t.Fatalf("expected error in status line")
	}
	if len(m.state.Notes) != 1 {
		t.Fatalf("failed create must not change the list")
	}
}

func TestModelLogsFailureClass(t *testing.T) {
	srv := devserver.New()
	srv.Seed(types.Note{ID: "1", Title: "A"})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	var logs bytes.Buffer
	controller := notes.NewController(client.New(ts.URL))
	m := NewModel(controller, WithLogger(logging.New(&logs, logging.Debug)))
	settle(t, m, m.Init())

	srv.FailNext(http.MethodPost, http.StatusInternalServerError)
	press(t, m, keyText("n"))
	out := logs.String()
	for _, want := range []string{"request failed", "class=service", "status=500"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in logs:\n%s", want, out)
		}
	}
}

func TestModelBusyBlocksActions(t *testing.T) {
	m, _ := newTestModel(t, types.Note{ID: "1", Title: "A"})

	// Start a create without resolving it.
	_, pending := m.Update(keyText("n"))
	if !m.state.Saving {
		t.Fatalf("expected saving flag while create is in flight")
	}
	_, cmd := m.Update(keyText("r"))
	if cmd == nil || m.toast != "request in progress" {
		t.Fatalf("expected busy toast, got %q", m.toast)
	}
	if m.state.Loading {
		t.Fatalf("refresh must not start while busy")
	}
	settle(t, m, pending)
	if m.state.Saving {
		t.Fatalf("expected create to finish")
	}
}

func TestModelQuitClosesController(t *testing.T) {
	m, _ := newTestModel(t, types.Note{ID: "1", Title: "A"})
	_, cmd := m.Update(keyText("q"))
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
	if m.controller.Refresh() != nil {
		t.Fatalf("expected controller closed after quit")
	}
}

func TestModelPreviewRendersMarkdown(t *testing.T) {
	m, _ := newTestModel(t, types.Note{ID: "1", Title: "A", Content: "# Heading\n\nbody text"})
	press(t, m, keyText("p"))
	if !m.showPreview {
		t.Fatalf("expected preview enabled")
	}
	view := xansi.Strip(m.render())
	if !strings.Contains(view, "Heading") || strings.Contains(view, "# Heading") {
		t.Fatalf("expected rendered markdown in view:\n%s", view)
	}
}

func TestModelCopyContent(t *testing.T) {
	var copied string
	stubClipboard(t, func(text string) error {
		copied = text
		return nil
	}, func(string) error { return nil })

	m, _ := newTestModel(t, types.Note{ID: "1", Title: "A", Content: "copy me"})
	press(t, m, keyText("y"))
	if copied != "copy me" {
		t.Fatalf("unexpected clipboard content %q", copied)
	}
	if m.toast != "note content copied" {
		t.Fatalf("unexpected toast %q", m.toast)
	}
}

func TestModelKeybindingOverride(t *testing.T) {
	srv := devserver.New()
	srv.Seed(types.Note{ID: "1", Title: "A"})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	controller := notes.NewController(client.New(ts.URL))
	m := NewModel(controller, WithKeybindings(NewKeybindings(map[string]string{KeyCommandNewNote: "a"})))
	settle(t, m, m.Init())

	press(t, m, keyText("a"))
	if len(m.state.Notes) != 2 {
		t.Fatalf("expected override key to create a note")
	}
	if !strings.Contains(xansi.Strip(m.renderHelp()), "a new") {
		t.Fatalf("expected help to show overridden key: %q", xansi.Strip(m.renderHelp()))
	}
}
