package notes

import "notepad/internal/types"

// Draft is the locally edited copy of the selected note's fields.
type Draft struct {
	Title   string
	Content string
}

func draftOf(note types.Note) Draft {
	return Draft{Title: note.Title, Content: note.Content}
}

func (d Draft) Fields() types.NoteFields {
	return types.NoteFields{Title: d.Title, Content: d.Content}
}

// State is a point-in-time copy of everything the view renders. Mutating a
// State never affects the controller it came from.
type State struct {
	Notes      []types.Note
	SelectedID types.NoteID
	Draft      Draft
	Loading    bool
	Saving     bool
	Err        string

	// DraftRevision increases each time the controller replaces the draft,
	// so views know when to reload their inputs.
	DraftRevision uint64
}

func (s State) HasSelection() bool {
	return !s.SelectedID.IsZero()
}

// Busy reports whether any request is in flight. Views disable conflicting
// actions while it is true.
func (s State) Busy() bool {
	return s.Loading || s.Saving
}

func (s State) Selected() (types.Note, bool) {
	if !s.HasSelection() {
		return types.Note{}, false
	}
	index := indexOf(s.Notes, s.SelectedID)
	if index < 0 {
		return types.Note{}, false
	}
	return s.Notes[index], true
}

func (s State) SelectedIndex() int {
	if !s.HasSelection() {
		return -1
	}
	return indexOf(s.Notes, s.SelectedID)
}

// Dirty reports whether the draft holds edits not yet saved.
func (s State) Dirty() bool {
	note, ok := s.Selected()
	if !ok {
		return false
	}
	return note.Title != s.Draft.Title || note.Content != s.Draft.Content
}

func (s State) clone() State {
	out := s
	out.Notes = append([]types.Note(nil), s.Notes...)
	return out
}

func indexOf(notes []types.Note, id types.NoteID) int {
	for i, note := range notes {
		if note.ID == id {
			return i
		}
	}
	return -1
}

func dedupe(notes []types.Note) []types.Note {
	out := make([]types.Note, 0, len(notes))
	seen := make(map[types.NoteID]struct{}, len(notes))
	for _, note := range notes {
		if note.ID.IsZero() {
			continue
		}
		if _, ok := seen[note.ID]; ok {
			continue
		}
		seen[note.ID] = struct{}{}
		out = append(out, note)
	}
	return out
}
