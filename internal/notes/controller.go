// Package notes keeps the client-side note collection, the selection, the
// editable draft and the request flags consistent while CRUD requests run
// against the remote notes service.
//
// Every mutating operation is split in two. The controller method updates
// state immediately and returns a Request that performs exactly one service
// call. Whoever runs the Request hands its Result back to Apply, which
// finishes the operation. Requests never touch controller state, so a slow
// call only delays its own completion.
package notes

import (
	"context"
	"errors"
	"sync"

	"notepad/internal/logging"
	"notepad/internal/types"
)

// UntitledTitle is the title given to freshly created notes.
const UntitledTitle = "Untitled"

type Service interface {
	ListNotes(ctx context.Context) ([]types.Note, error)
	CreateNote(ctx context.Context, fields types.NoteFields) (types.Note, error)
	UpdateNote(ctx context.Context, id types.NoteID, fields types.NoteFields) (types.Note, error)
	DeleteNote(ctx context.Context, id types.NoteID) error
}

// Request performs the network half of an operation.
type Request func(ctx context.Context) Result

type Controller struct {
	mu      sync.Mutex
	service Service
	logger  logging.Logger
	state   State

	loadGeneration uint64
	closed         bool
}

type Option func(*Controller)

func WithLogger(logger logging.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func NewController(service Service, opts ...Option) *Controller {
	c := &Controller{
		service: service,
		logger:  logging.Nop(),
		state:   State{Notes: []types.Note{}},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(logging.F("component", "notes"))
	return c
}

func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Initialize loads the collection and selects its first note. Only the most
// recent load may land, and nothing lands after Close.
func (c *Controller) Initialize() Request {
	return c.startLoad(false)
}

// Refresh reloads the collection like Initialize but keeps the current
// selection, and with it the draft, when the selected note is still listed.
func (c *Controller) Refresh() Request {
	return c.startLoad(true)
}

func (c *Controller) startLoad(keepSelection bool) Request {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.loadGeneration++
	generation := c.loadGeneration
	c.state.Loading = true
	c.state.Err = ""
	c.logger.Debug("load started", logging.F("generation", generation))

	service := c.service
	return func(ctx context.Context) Result {
		notes, err := service.ListNotes(ctx)
		return LoadResult{
			Notes:         notes,
			Err:           err,
			generation:    generation,
			keepSelection: keepSelection,
		}
	}
}

// SelectNote selects id and resets the draft to that note's fields. An id
// that is no longer in the collection clears the selection instead.
func (c *Controller) SelectNote(id types.NoteID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selectLocked(id)
}

func (c *Controller) EditDraftTitle(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Draft.Title = text
}

func (c *Controller) EditDraftContent(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Draft.Content = text
}

func (c *Controller) CreateNote() Request {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Saving = true
	c.state.Err = ""
	c.logger.Debug("create started")

	service := c.service
	fields := types.NoteFields{Title: UntitledTitle, Content: ""}
	return func(ctx context.Context) Result {
		note, err := service.CreateNote(ctx, fields)
		return CreateResult{Note: note, Err: err}
	}
}

// DeleteSelected returns nil, and changes nothing, when no note is selected.
func (c *Controller) DeleteSelected() Request {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.state.HasSelection() {
		return nil
	}
	id := c.state.SelectedID
	c.state.Saving = true
	c.state.Err = ""
	c.logger.Debug("delete started", logging.F("note_id", id))

	service := c.service
	return func(ctx context.Context) Result {
		err := service.DeleteNote(ctx, id)
		return DeleteResult{ID: id, Err: err}
	}
}

// SaveSelected sends the draft as the selected note's new fields. It returns
// nil, and changes nothing, when no note is selected.
func (c *Controller) SaveSelected() Request {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.state.HasSelection() {
		return nil
	}
	id := c.state.SelectedID
	fields := c.state.Draft.Fields()
	c.state.Saving = true
	c.state.Err = ""
	c.logger.Debug("save started", logging.F("note_id", id))

	service := c.service
	return func(ctx context.Context) Result {
		note, err := service.UpdateNote(ctx, id, fields)
		return SaveResult{ID: id, Note: note, Err: err}
	}
}

// Apply completes the operation that produced result.
func (c *Controller) Apply(result Result) {
	if result == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	switch r := result.(type) {
	case LoadResult:
		c.applyLoad(r)
	case CreateResult:
		c.applyCreate(r)
	case DeleteResult:
		c.applyDelete(r)
	case SaveResult:
		c.applySave(r)
	}
}

// Await runs req inline and applies its result. A nil req is a no-op.
func (c *Controller) Await(ctx context.Context, req Request) {
	if req == nil {
		return
	}
	c.Apply(req(ctx))
}

// Close marks the controller torn down. Loads still in flight are discarded
// when they resolve.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

func (c *Controller) applyLoad(r LoadResult) {
	if c.closed || r.generation != c.loadGeneration {
		c.logger.Debug("load discarded", logging.F("generation", r.generation), logging.F("closed", c.closed))
		return
	}
	defer func() { c.state.Loading = false }()
	if r.Err != nil {
		c.fail(OpLoad, r.Err)
		return
	}
	c.state.Notes = dedupe(r.Notes)
	c.logger.Info("notes loaded", logging.F("count", len(c.state.Notes)))
	if r.keepSelection && c.state.HasSelection() && indexOf(c.state.Notes, c.state.SelectedID) >= 0 {
		return
	}
	if len(c.state.Notes) == 0 {
		c.selectLocked("")
		return
	}
	c.selectLocked(c.state.Notes[0].ID)
}

func (c *Controller) applyCreate(r CreateResult) {
	defer func() { c.state.Saving = false }()
	if r.Err == nil && r.Note.ID.IsZero() {
		r.Err = errMissingID
	}
	if r.Err != nil {
		c.fail(OpCreate, r.Err)
		return
	}
	notes := make([]types.Note, 0, len(c.state.Notes)+1)
	notes = append(notes, r.Note)
	for _, note := range c.state.Notes {
		if note.ID != r.Note.ID {
			notes = append(notes, note)
		}
	}
	c.state.Notes = notes
	c.logger.Info("note created", logging.F("note_id", r.Note.ID))
	c.selectLocked(r.Note.ID)
}

func (c *Controller) applyDelete(r DeleteResult) {
	defer func() { c.state.Saving = false }()
	if r.Err != nil {
		c.fail(OpDelete, r.Err)
		return
	}
	if index := indexOf(c.state.Notes, r.ID); index >= 0 {
		notes := make([]types.Note, 0, len(c.state.Notes)-1)
		notes = append(notes, c.state.Notes[:index]...)
		notes = append(notes, c.state.Notes[index+1:]...)
		c.state.Notes = notes
	}
	c.logger.Info("note deleted", logging.F("note_id", r.ID))
	c.selectLocked("")
}

func (c *Controller) applySave(r SaveResult) {
	defer func() { c.state.Saving = false }()
	if r.Err == nil && r.Note.ID.IsZero() {
		r.Err = errMissingID
	}
	if r.Err != nil {
		c.fail(OpSave, r.Err)
		return
	}
	index := indexOf(c.state.Notes, r.Note.ID)
	if index < 0 {
		c.logger.Warn("saved note no longer listed", logging.F("note_id", r.Note.ID))
		return
	}
	notes := append([]types.Note(nil), c.state.Notes...)
	notes[index] = r.Note
	c.state.Notes = notes
	c.logger.Info("note saved", logging.F("note_id", r.Note.ID))
}

func (c *Controller) selectLocked(id types.NoteID) {
	index := -1
	if !id.IsZero() {
		index = indexOf(c.state.Notes, id)
	}
	if index < 0 {
		c.state.SelectedID = ""
		c.state.Draft = Draft{}
	} else {
		c.state.SelectedID = id
		c.state.Draft = draftOf(c.state.Notes[index])
	}
	c.state.DraftRevision++
}

func (c *Controller) fail(op Operation, err error) {
	c.state.Err = DescribeFailure(op, err)
	c.logger.Warn("request failed", logging.F("op", string(op)), logging.Err(err))
}

var errMissingID = errors.New("malformed response: note has no id")
