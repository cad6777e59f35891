package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"notepad/internal/client"
	"notepad/internal/logging"
	"notepad/internal/notes"
)

const (
	defaultRequestTimeout = 10 * time.Second
	minListWidth          = 24
	maxListWidth          = 40
	minPaneWidth          = 20
	minContentHeight      = 6
	chromeLines           = 3
)

type Model struct {
	controller  *notes.Controller
	logger      logging.Logger
	timeout     time.Duration
	keybindings *Keybindings
	hotkeys     []Hotkey

	list        *NoteListController
	editor      *EditorController
	preview     viewport.Model
	showPreview bool
	confirm     *ConfirmController
	loader      spinner.Model
	help        help.Model

	state    notes.State
	width    int
	height   int
	toast    string
	toastErr bool
	toastSeq int
	quitting bool
}

type Option func(*Model)

func WithLogger(logger logging.Logger) Option {
	return func(m *Model) {
		if logger != nil {
			m.logger = logger
		}
	}
}

func WithKeybindings(bindings *Keybindings) Option {
	return func(m *Model) {
		if bindings != nil {
			m.keybindings = bindings
		}
	}
}

func WithRequestTimeout(timeout time.Duration) Option {
	return func(m *Model) {
		if timeout > 0 {
			m.timeout = timeout
		}
	}
}

func WithPreview(enabled bool) Option {
	return func(m *Model) {
		m.showPreview = enabled
	}
}

func NewModel(controller *notes.Controller, opts ...Option) *Model {
	m := &Model{
		controller:  controller,
		logger:      logging.Nop(),
		timeout:     defaultRequestTimeout,
		keybindings: DefaultKeybindings(),
		list:        NewNoteListController(minListWidth, minContentHeight),
		editor:      NewEditorController(minPaneWidth, minContentHeight),
		preview:     viewport.New(viewport.WithWidth(minPaneWidth), viewport.WithHeight(minContentHeight)),
		confirm:     NewConfirmController(),
		loader:      spinner.New(spinner.WithSpinner(spinner.Line), spinner.WithStyle(activityStyle)),
		help:        help.New(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.With(logging.F("component", "ui"))
	m.hotkeys = ResolveHotkeys(DefaultHotkeys(), m.keybindings)
	m.sync()
	return m
}

// Run drives the UI until the user quits or ctx is cancelled. The
// controller is closed on the way out so late responses are dropped.
func Run(ctx context.Context, controller *notes.Controller, opts ...Option) error {
	m := NewModel(controller, opts...)
	defer controller.Close()
	p := tea.NewProgram(m, tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func (m *Model) Init() tea.Cmd {
	m.logger.Info("ui started")
	return tea.Batch(m.request(m.controller.Initialize()), m.loader.Tick)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case noteResultMsg:
		m.logResult(msg.result)
		m.controller.Apply(msg.result)
		m.sync()
		return m, nil
	case copyResultMsg:
		if msg.err != nil {
			m.logger.Warn("copy failed", logging.Err(msg.err))
			return m, m.setToast("copy failed: "+msg.err.Error(), true)
		}
		m.logger.Debug("copied", logging.F("method", msg.method))
		return m, m.setToast(msg.success, false)
	case toastExpiredMsg:
		if msg.seq == m.toastSeq {
			m.toast = ""
			m.toastErr = false
		}
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.loader, cmd = m.loader.Update(msg)
		return m, cmd
	case tea.KeyPressMsg:
		return m, m.handleKey(msg)
	}
	if m.editor.Focused() != editorFieldNone {
		return m, m.forwardToEditor(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}
	if m.confirm.IsOpen() {
		switch m.confirm.HandleKey(msg) {
		case confirmChoiceConfirm:
			m.confirm.Close()
			return m.deleteSelected()
		case confirmChoiceCancel:
			m.confirm.Close()
		}
		return nil
	}
	if m.keyMatchesCommand(msg, KeyCommandSaveNote) {
		return m.saveSelected()
	}
	if m.editor.Focused() != editorFieldNone {
		return m.handleEditorKey(msg)
	}
	return m.handleListKey(msg)
}

func (m *Model) handleEditorKey(msg tea.KeyPressMsg) tea.Cmd {
	switch {
	case m.keyMatchesCommand(msg, KeyCommandFocusList):
		m.editor.Blur()
		return nil
	case m.keyMatchesCommand(msg, KeyCommandFocusNext):
		if m.editor.Focused() == editorFieldTitle {
			return m.editor.Focus(editorFieldContent)
		}
		m.editor.Blur()
		return nil
	case m.keyMatchesCommand(msg, KeyCommandFocusPrev):
		if m.editor.Focused() == editorFieldContent {
			return m.editor.Focus(editorFieldTitle)
		}
		m.editor.Blur()
		return nil
	}
	return m.forwardToEditor(msg)
}

func (m *Model) handleListKey(msg tea.KeyPressMsg) tea.Cmd {
	switch {
	case m.keyMatchesCommand(msg, KeyCommandQuit):
		return m.quit()
	case m.keyMatchesCommand(msg, KeyCommandNewNote):
		if m.state.Busy() {
			return m.busyToast()
		}
		return m.request(m.controller.CreateNote())
	case m.keyMatchesCommand(msg, KeyCommandDeleteNote):
		if m.state.Busy() {
			return m.busyToast()
		}
		note, ok := m.state.Selected()
		if !ok {
			return nil
		}
		title := strings.TrimSpace(note.Title)
		if title == "" {
			title = untitledLabel
		}
		m.confirm.Open("Delete note", fmt.Sprintf("Delete %q?", title), "Delete", "Cancel")
		return nil
	case m.keyMatchesCommand(msg, KeyCommandRefresh):
		if m.state.Busy() {
			return m.busyToast()
		}
		return m.request(m.controller.Refresh())
	case m.keyMatchesCommand(msg, KeyCommandCopyContent):
		if !m.state.HasSelection() {
			return nil
		}
		return copyCmd(m.state.Draft.Content, "note content copied")
	case m.keyMatchesCommand(msg, KeyCommandTogglePreview):
		m.showPreview = !m.showPreview
		m.renderPreview()
		return nil
	case m.keyMatchesCommand(msg, KeyCommandFocusNext), msg.String() == "enter":
		if !m.state.HasSelection() {
			return nil
		}
		m.showPreview = false
		return m.editor.Focus(editorFieldTitle)
	case m.keyMatchesCommand(msg, KeyCommandFocusPrev):
		if !m.state.HasSelection() {
			return nil
		}
		m.showPreview = false
		return m.editor.Focus(editorFieldContent)
	}
	switch msg.String() {
	case "up", "k":
		m.moveSelection(-1)
	case "down", "j":
		m.moveSelection(1)
	case "pgup", "pgdown":
		if m.showPreview {
			var cmd tea.Cmd
			m.preview, cmd = m.preview.Update(msg)
			return cmd
		}
	}
	return nil
}

func (m *Model) moveSelection(delta int) {
	id, ok := m.list.Move(delta)
	if !ok || id == m.state.SelectedID {
		return
	}
	m.controller.SelectNote(id)
	m.sync()
}

func (m *Model) forwardToEditor(msg tea.Msg) tea.Cmd {
	field, value, cmd := m.editor.Update(msg)
	switch field {
	case editorFieldTitle:
		if value != m.state.Draft.Title {
			m.controller.EditDraftTitle(value)
			m.sync()
		}
	case editorFieldContent:
		if value != m.state.Draft.Content {
			m.controller.EditDraftContent(value)
			m.sync()
		}
	}
	return cmd
}

func (m *Model) saveSelected() tea.Cmd {
	if !m.state.HasSelection() {
		return nil
	}
	if m.state.Busy() {
		return m.busyToast()
	}
	return m.request(m.controller.SaveSelected())
}

func (m *Model) deleteSelected() tea.Cmd {
	if m.state.Busy() {
		return m.busyToast()
	}
	return m.request(m.controller.DeleteSelected())
}

// request reflects the controller's new flags right away and schedules req.
func (m *Model) request(req notes.Request) tea.Cmd {
	m.sync()
	return requestCmd(req, m.timeout)
}

func (m *Model) busyToast() tea.Cmd {
	return m.setToast("request in progress", false)
}

func (m *Model) quit() tea.Cmd {
	m.quitting = true
	m.controller.Close()
	m.logger.Info("ui stopped")
	return tea.Quit
}

func (m *Model) setToast(text string, isErr bool) tea.Cmd {
	m.toastSeq++
	m.toast = text
	m.toastErr = isErr
	return toastExpireCmd(m.toastSeq)
}

// sync pulls a fresh snapshot and pushes it into every widget.
func (m *Model) sync() {
	m.state = m.controller.Snapshot()
	m.list.Sync(m.state)
	m.editor.Sync(m.state)
	m.renderPreview()
}

func (m *Model) renderPreview() {
	if !m.showPreview {
		return
	}
	width := max(1, m.preview.Width()-4)
	content := renderMarkdown(m.state.Draft.Content, width)
	if content == "" {
		content = statusStyle.Render("Nothing to preview.")
	}
	m.preview.SetContent(content)
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	listWidth := min(maxListWidth, max(minListWidth, width/3))
	paneWidth := max(minPaneWidth, width-listWidth-1)
	contentHeight := max(minContentHeight, height-chromeLines)
	m.list.SetSize(listWidth, contentHeight)
	m.editor.SetSize(paneWidth, contentHeight)
	m.preview.SetWidth(paneWidth)
	m.preview.SetHeight(max(1, contentHeight-2))
	m.renderPreview()
}

func (m *Model) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

func (m *Model) render() string {
	if m.quitting {
		return ""
	}
	header := headerStyle.Render("notepad")
	body := m.renderBody()
	if m.confirm.IsOpen() {
		body = m.confirm.View(m.width)
	}
	return strings.Join([]string{header, body, m.renderStatus(), m.renderHelp()}, "\n")
}

func (m *Model) renderBody() string {
	var pane string
	switch {
	case m.state.Loading && len(m.state.Notes) == 0:
		pane = statusStyle.Render("Loading notes…")
	case !m.state.HasSelection():
		key := m.keybindings.KeyFor(KeyCommandNewNote)
		pane = statusStyle.Render(fmt.Sprintf("No note selected. Press %s to create one.", key))
	case m.showPreview:
		pane = previewFrameStyle.Render(m.preview.View())
	default:
		pane = m.editor.View()
	}
	divider := dividerStyle.Render("│")
	return lipgloss.JoinHorizontal(lipgloss.Top, m.list.View(), " "+divider+" ", pane)
}

func (m *Model) renderStatus() string {
	parts := []string{}
	switch {
	case m.state.Loading:
		parts = append(parts, m.loader.View()+" "+activityStyle.Render("loading"))
	case m.state.Saving:
		parts = append(parts, m.loader.View()+" "+activityStyle.Render("saving"))
	}
	if m.state.Dirty() {
		parts = append(parts, dirtyMarkerStyle.Render(dirtyMarker+" unsaved"))
	}
	if m.state.Err != "" {
		parts = append(parts, errorStyle.Render(m.state.Err))
	}
	if m.toast != "" {
		style := toastInfoStyle
		if m.toastErr {
			style = toastErrorStyle
		}
		parts = append(parts, style.Render(" "+m.toast+" "))
	}
	if len(parts) == 0 {
		parts = append(parts, statusStyle.Render(fmt.Sprintf("%d notes", len(m.state.Notes))))
	}
	return truncateToWidth(strings.Join(parts, "  "), max(m.width, 1))
}

func (m *Model) renderHelp() string {
	contexts := []HotkeyContext{HotkeyGlobal}
	switch {
	case m.confirm.IsOpen():
		contexts = []HotkeyContext{HotkeyConfirm}
	case m.editor.Focused() != editorFieldNone:
		contexts = append(contexts, HotkeyEditor)
	default:
		contexts = append(contexts, HotkeyList)
	}
	return helpStyle.Render(m.help.ShortHelpView(helpBindings(FilterHotkeys(m.hotkeys, contexts...))))
}

func (m *Model) logResult(result notes.Result) {
	if result == nil {
		return
	}
	err := result.Failed()
	if err == nil {
		m.logger.Debug("request finished", logging.F("op", string(result.Operation())))
		return
	}
	fields := []logging.Field{
		logging.F("op", string(result.Operation())),
		logging.F("class", client.FailureClass(err)),
		logging.Err(err),
	}
	if apiErr := client.AsAPIError(err); apiErr != nil {
		fields = append(fields, logging.F("status", apiErr.StatusCode))
	}
	m.logger.Warn("request failed", fields...)
}
