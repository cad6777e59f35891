package app

import (
	"sort"
	"strings"

	tea "charm.land/bubbletea/v2"
)

const (
	KeyCommandQuit          = "ui.quit"
	KeyCommandNewNote       = "ui.newNote"
	KeyCommandDeleteNote    = "ui.deleteNote"
	KeyCommandSaveNote      = "ui.saveNote"
	KeyCommandRefresh       = "ui.refresh"
	KeyCommandCopyContent   = "ui.copyContent"
	KeyCommandTogglePreview = "ui.togglePreview"
	KeyCommandFocusNext     = "ui.focusNext"
	KeyCommandFocusPrev     = "ui.focusPrev"
	KeyCommandFocusList     = "ui.focusList"
)

var defaultKeybindingByCommand = map[string]string{
	KeyCommandQuit:          "q",
	KeyCommandNewNote:       "n",
	KeyCommandDeleteNote:    "d",
	KeyCommandSaveNote:      "ctrl+s",
	KeyCommandRefresh:       "r",
	KeyCommandCopyContent:   "y",
	KeyCommandTogglePreview: "p",
	KeyCommandFocusNext:     "tab",
	KeyCommandFocusPrev:     "shift+tab",
	KeyCommandFocusList:     "esc",
}

// Keybindings maps commands to keys. Overridden keys are remapped back to
// the command's default key so key handling only ever matches defaults.
type Keybindings struct {
	byCommand map[string]string
	remap     map[string]string
}

func DefaultKeybindings() *Keybindings {
	return NewKeybindings(nil)
}

func NewKeybindings(overrides map[string]string) *Keybindings {
	byCommand := make(map[string]string, len(defaultKeybindingByCommand))
	for command, key := range defaultKeybindingByCommand {
		byCommand[command] = key
	}
	for command, key := range overrides {
		command = strings.TrimSpace(command)
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		if _, ok := defaultKeybindingByCommand[command]; !ok {
			continue
		}
		byCommand[command] = key
	}
	remap := map[string]string{}
	ambiguous := map[string]struct{}{}
	for _, command := range KnownKeybindingCommands() {
		defaultKey := defaultKeybindingByCommand[command]
		key := byCommand[command]
		if key == defaultKey {
			continue
		}
		if _, bad := ambiguous[key]; bad {
			continue
		}
		if existing, ok := remap[key]; ok && existing != defaultKey {
			delete(remap, key)
			ambiguous[key] = struct{}{}
			continue
		}
		remap[key] = defaultKey
	}
	return &Keybindings{byCommand: byCommand, remap: remap}
}

func (k *Keybindings) KeyFor(command string) string {
	command = strings.TrimSpace(command)
	if k != nil {
		if key := strings.TrimSpace(k.byCommand[command]); key != "" {
			return key
		}
	}
	return defaultKeybindingByCommand[command]
}

func (k *Keybindings) Bindings() map[string]string {
	out := make(map[string]string, len(defaultKeybindingByCommand))
	for _, command := range KnownKeybindingCommands() {
		out[command] = k.KeyFor(command)
	}
	return out
}

func (k *Keybindings) Remap(key string) string {
	key = strings.TrimSpace(key)
	if key == "" || k == nil {
		return key
	}
	if canonical, ok := k.remap[key]; ok && canonical != "" {
		return canonical
	}
	return key
}

func (m *Model) keyString(msg tea.KeyPressMsg) string {
	if m.keybindings == nil {
		return msg.String()
	}
	return m.keybindings.Remap(msg.String())
}

// keyMatchesCommand matches the bound key, or the default key when it was
// reached through a remap.
func (m *Model) keyMatchesCommand(msg tea.KeyPressMsg, command string) bool {
	if bound := m.keybindings.KeyFor(command); bound != "" && msg.String() == bound {
		return true
	}
	canonical := defaultKeybindingByCommand[command]
	return canonical != "" && m.keyString(msg) == canonical
}

func KnownKeybindingCommands() []string {
	keys := make([]string, 0, len(defaultKeybindingByCommand))
	for command := range defaultKeybindingByCommand {
		keys = append(keys, command)
	}
	sort.Strings(keys)
	return keys
}
