package app

import (
	"testing"

	tea "charm.land/bubbletea/v2"
)

func TestDefaultKeybindings(t *testing.T) {
	bindings := DefaultKeybindings()
	if got := bindings.KeyFor(KeyCommandNewNote); got != "n" {
		t.Fatalf("unexpected new note binding: %q", got)
	}
	if got := bindings.KeyFor(KeyCommandSaveNote); got != "ctrl+s" {
		t.Fatalf("unexpected save binding: %q", got)
	}
	if got := bindings.KeyFor("ui.unknown"); got != "" {
		t.Fatalf("expected no binding for unknown command, got %q", got)
	}
}

func TestNewKeybindingsOverrideAndRemap(t *testing.T) {
	bindings := NewKeybindings(map[string]string{
		KeyCommandRefresh: "F5",
		"ui.unknown":      "x",
		KeyCommandQuit:    "  ",
	})
	if got := bindings.KeyFor(KeyCommandRefresh); got != "F5" {
		t.Fatalf("unexpected refresh binding: %q", got)
	}
	if got := bindings.KeyFor(KeyCommandQuit); got != "q" {
		t.Fatalf("blank override should keep default, got %q", got)
	}
	if got := bindings.Remap("F5"); got != "r" {
		t.Fatalf("expected remap to canonical key, got %q", got)
	}
	if got := bindings.Remap("z"); got != "z" {
		t.Fatalf("unmapped key should pass through, got %q", got)
	}
	if _, ok := bindings.Bindings()["ui.unknown"]; ok {
		t.Fatalf("unknown commands must not be bound")
	}
}

func TestNewKeybindingsDropsAmbiguousRemap(t *testing.T) {
	bindings := NewKeybindings(map[string]string{
		KeyCommandRefresh: "F5",
		KeyCommandNewNote: "F5",
	})
	if got := bindings.Remap("F5"); got != "F5" {
		t.Fatalf("ambiguous key should not remap, got %q", got)
	}
}

func TestKeyMatchesCommandUsesOverride(t *testing.T) {
	m := &Model{keybindings: NewKeybindings(map[string]string{KeyCommandNewNote: "a"})}
	if !m.keyMatchesCommand(tea.KeyPressMsg{Code: 'a', Text: "a"}, KeyCommandNewNote) {
		t.Fatalf("expected override key to match")
	}
	if m.keyMatchesCommand(tea.KeyPressMsg{Code: 'x', Text: "x"}, KeyCommandNewNote) {
		t.Fatalf("unexpected match for unrelated key")
	}
}

func TestResolveHotkeysUsesBindings(t *testing.T) {
	bindings := NewKeybindings(map[string]string{KeyCommandRefresh: "F5"})
	hotkeys := ResolveHotkeys([]Hotkey{
		{Command: KeyCommandRefresh, Label: "refresh"},
		{Key: "ctrl+c", Label: "quit"},
	}, bindings)
	if hotkeys[0].Key != "F5" {
		t.Fatalf("expected overridden hotkey, got %q", hotkeys[0].Key)
	}
	if hotkeys[1].Key != "ctrl+c" {
		t.Fatalf("expected unchanged hotkey, got %q", hotkeys[1].Key)
	}
}

func TestFilterHotkeysOrdersByPriority(t *testing.T) {
	hotkeys := FilterHotkeys([]Hotkey{
		{Key: "b", Context: HotkeyList, Priority: 2},
		{Key: "a", Context: HotkeyList, Priority: 1},
		{Key: "c", Context: HotkeyEditor, Priority: 0},
	}, HotkeyList)
	if len(hotkeys) != 2 || hotkeys[0].Key != "a" || hotkeys[1].Key != "b" {
		t.Fatalf("unexpected hotkeys %#v", hotkeys)
	}
}
