package types

import (
	"bytes"
	"encoding/json"
	"errors"
)

// NoteID is assigned by the notes service and treated as opaque. Services
// may emit it as a JSON string or a JSON number; both decode to the same
// textual form.
type NoteID string

func (id NoteID) String() string {
	return string(id)
}

// IsZero reports a missing id. Any other value, blank or not, is a valid
// opaque id.
func (id NoteID) IsZero() bool {
	return id == ""
}

func (id *NoteID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var value string
		if err := json.Unmarshal(data, &value); err != nil {
			return err
		}
		*id = NoteID(value)
		return nil
	}
	var number json.Number
	if err := json.Unmarshal(data, &number); err != nil {
		return errors.New("note id must be a string or a number")
	}
	*id = NoteID(number.String())
	return nil
}

type Note struct {
	ID      NoteID `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// NoteFields is the editable part of a note, as sent on create and update.
type NoteFields struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (n Note) Fields() NoteFields {
	return NoteFields{Title: n.Title, Content: n.Content}
}
