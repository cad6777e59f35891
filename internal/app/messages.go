package app

import "notepad/internal/notes"

// noteResultMsg carries a finished service call back to Update, which hands
// it to the controller.
type noteResultMsg struct {
	result notes.Result
}

type copyResultMsg struct {
	method  clipboardMethod
	success string
	err     error
}

type toastExpiredMsg struct {
	seq int
}
