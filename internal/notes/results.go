package notes

import "notepad/internal/types"

// Operation names an attempted request in user-facing messages.
type Operation string

const (
	OpLoad   Operation = "load notes"
	OpCreate Operation = "create note"
	OpDelete Operation = "delete note"
	OpSave   Operation = "save note"
)

// Result is the outcome of a Request, to be passed to Controller.Apply.
type Result interface {
	Operation() Operation
	Failed() error
}

type LoadResult struct {
	Notes []types.Note
	Err   error

	generation    uint64
	keepSelection bool
}

func (LoadResult) Operation() Operation { return OpLoad }
func (r LoadResult) Failed() error      { return r.Err }

type CreateResult struct {
	Note types.Note
	Err  error
}

func (CreateResult) Operation() Operation { return OpCreate }
func (r CreateResult) Failed() error      { return r.Err }

type DeleteResult struct {
	ID  types.NoteID
	Err error
}

func (DeleteResult) Operation() Operation { return OpDelete }
func (r DeleteResult) Failed() error      { return r.Err }

type SaveResult struct {
	ID   types.NoteID
	Note types.Note
	Err  error
}

func (SaveResult) Operation() Operation { return OpSave }
func (r SaveResult) Failed() error      { return r.Err }
