package client

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"

	"notepad/internal/types"
)

// decodeNoteList never fails: a body that is not a JSON array decodes to an
// empty list and entries that are not notes are dropped. Each dropped piece
// is reported as a problem string for logging.
func decodeNoteList(body []byte) ([]types.Note, []string) {
	notes := []types.Note{}
	if !gjson.ValidBytes(body) {
		return notes, []string{"body is not valid json"}
	}
	result := gjson.ParseBytes(body)
	if !result.IsArray() {
		return notes, []string{"expected array, got " + describeJSONType(result)}
	}
	var problems []string
	index := 0
	result.ForEach(func(_, value gjson.Result) bool {
		note, err := noteFromResult(value)
		if err != nil {
			problems = append(problems, fmt.Sprintf("entry %d: %v", index, err))
		} else {
			notes = append(notes, note)
		}
		index++
		return true
	})
	return notes, problems
}

func decodeNote(body []byte) (types.Note, error) {
	if !gjson.ValidBytes(body) {
		return types.Note{}, &MalformedResponseError{Reason: "body is not valid json"}
	}
	note, err := noteFromResult(gjson.ParseBytes(body))
	if err != nil {
		return types.Note{}, &MalformedResponseError{Reason: err.Error()}
	}
	return note, nil
}

func noteFromResult(value gjson.Result) (types.Note, error) {
	if !value.IsObject() {
		return types.Note{}, fmt.Errorf("expected object, got %s", describeJSONType(value))
	}
	var note types.Note
	if err := json.Unmarshal([]byte(value.Raw), &note); err != nil {
		return types.Note{}, err
	}
	if note.ID.IsZero() {
		return types.Note{}, fmt.Errorf("note has no id")
	}
	return note, nil
}

func describeJSONType(value gjson.Result) string {
	switch {
	case value.IsArray():
		return "array"
	case value.IsObject():
		return "object"
	}
	switch value.Type {
	case gjson.Null:
		return "null"
	case gjson.False, gjson.True:
		return "boolean"
	case gjson.Number:
		return "number"
	case gjson.String:
		return "string"
	default:
		return "unknown"
	}
}
