package tui

import "charm.land/bubbles/v2/key"

// Key constants for event handling.
const (
	keyEnter = "enter"
	keyEsc   = "esc"
	keyCtrlC = "ctrl+c"
)

type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	PageUp    key.Binding
	PageDown  key.Binding
	Edit      key.Binding
	Add       key.Binding
	Delete    key.Binding
	DeleteAll key.Binding
	Sort      key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		Right:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
		PageUp:    key.NewBinding(key.WithKeys("pgup", "[")),
		PageDown:  key.NewBinding(key.WithKeys("pgdown", "]")),
		Edit:      key.NewBinding(key.WithKeys(keyEnter), key.WithHelp("enter", "edit")),
		Add:       key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add task")),
		Delete:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		DeleteAll: key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "delete all")),
		Sort:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort")),
		Quit:      key.NewBinding(key.WithKeys("q", keyCtrlC), key.WithHelp("q", "quit")),
	}
}

// ShortHelp lists the bindings shown in the footer.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Left, k.Right, k.Edit, k.Add, k.Delete, k.DeleteAll, k.Sort, k.Quit}
}

// FullHelp satisfies help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
