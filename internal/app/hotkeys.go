package app

import (
	"sort"

	"charm.land/bubbles/v2/key"
)

type HotkeyContext int

const (
	HotkeyGlobal HotkeyContext = iota
	HotkeyList
	HotkeyEditor
	HotkeyConfirm
)

type Hotkey struct {
	Command  string
	Key      string
	Label    string
	Context  HotkeyContext
	Priority int
}

func DefaultHotkeys() []Hotkey {
	return []Hotkey{
		{Key: "j/k/↑/↓", Label: "move", Context: HotkeyList, Priority: 10},
		{Command: KeyCommandNewNote, Label: "new", Context: HotkeyList, Priority: 20},
		{Command: KeyCommandDeleteNote, Label: "delete", Context: HotkeyList, Priority: 21},
		{Command: KeyCommandRefresh, Label: "refresh", Context: HotkeyList, Priority: 22},
		{Command: KeyCommandCopyContent, Label: "copy", Context: HotkeyList, Priority: 23},
		{Command: KeyCommandTogglePreview, Label: "preview", Context: HotkeyList, Priority: 24},
		{Command: KeyCommandSaveNote, Label: "save", Context: HotkeyGlobal, Priority: 30},
		{Command: KeyCommandFocusNext, Label: "focus", Context: HotkeyGlobal, Priority: 40},
		{Command: KeyCommandFocusList, Label: "list", Context: HotkeyEditor, Priority: 41},
		{Command: KeyCommandQuit, Label: "quit", Context: HotkeyList, Priority: 90},
		{Key: "ctrl+c", Label: "quit", Context: HotkeyGlobal, Priority: 91},
		{Key: "y/enter", Label: "confirm", Context: HotkeyConfirm, Priority: 10},
		{Key: "n/esc", Label: "cancel", Context: HotkeyConfirm, Priority: 11},
	}
}

// ResolveHotkeys fills each command hotkey with its bound key.
func ResolveHotkeys(hotkeys []Hotkey, bindings *Keybindings) []Hotkey {
	out := make([]Hotkey, len(hotkeys))
	for i, hk := range hotkeys {
		if hk.Command != "" {
			if bound := bindings.KeyFor(hk.Command); bound != "" {
				hk.Key = bound
			}
		}
		out[i] = hk
	}
	return out
}

func FilterHotkeys(hotkeys []Hotkey, contexts ...HotkeyContext) []Hotkey {
	allowed := map[HotkeyContext]struct{}{}
	for _, ctx := range contexts {
		allowed[ctx] = struct{}{}
	}
	var out []Hotkey
	for _, hk := range hotkeys {
		if _, ok := allowed[hk.Context]; ok {
			out = append(out, hk)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Priority == out[j].Priority {
			return out[i].Key < out[j].Key
		}
		return out[i].Priority < out[j].Priority
	})
	return out
}

func helpBindings(hotkeys []Hotkey) []key.Binding {
	out := make([]key.Binding, 0, len(hotkeys))
	for _, hk := range hotkeys {
		out = append(out, key.NewBinding(key.WithKeys(hk.Key), key.WithHelp(hk.Key, hk.Label)))
	}
	return out
}
