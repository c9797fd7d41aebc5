// Package extension describes the tracker to a block host and routes block
// calls to tracker methods.
package extension

import "strconv"

// BlockType is how the host renders a block.
type BlockType string

const (
	Boolean  BlockType = "Boolean"
	Reporter BlockType = "reporter"
	Command  BlockType = "command"
)

type Argument struct {
	Type         string `json:"type"`
	Menu         string `json:"menu,omitempty"`
	DefaultValue string `json:"defaultValue"`
}

type Block struct {
	Opcode    string              `json:"opcode"`
	BlockType BlockType           `json:"blockType"`
	Text      string              `json:"text"`
	Arguments map[string]Argument `json:"arguments,omitempty"`
}

type Menu struct {
	AcceptReporters bool     `json:"acceptReporters"`
	Items           []string `json:"items"`
}

// Descriptor is what the host registers.
type Descriptor struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Color1 string          `json:"color1"`
	Color2 string          `json:"color2"`
	Blocks []Block         `json:"blocks"`
	Menus  map[string]Menu `json:"menus"`
}

func str(menu, def string) Argument {
	return Argument{Type: "string", Menu: menu, DefaultValue: def}
}

// Describe returns the block descriptor. Each block has a handler in Extension.
func Describe() Descriptor {
	return Descriptor{
		ID:     "advancedinput",
		Name:   "Advanced Input",
		Color1: "#4C97FF",
		Color2: "#3373CC",
		Blocks: []Block{
			{Opcode: "mouseWheelTurned", BlockType: Boolean, Text: "mouse wheel turned [DIRECTION]?",
				Arguments: map[string]Argument{"DIRECTION": str("wheelDirection", "up")}},
			{Opcode: "getWheelDelta", BlockType: Reporter, Text: "mouse wheel delta"},
			{Opcode: "mouseButtonPressed", BlockType: Boolean, Text: "[BUTTON] mouse button pressed?",
				Arguments: map[string]Argument{"BUTTON": str("mouseButton", "left")}},
			{Opcode: "doubleClicked", BlockType: Boolean, Text: "mouse double clicked?"},
			{Opcode: "getClickCount", BlockType: Reporter, Text: "mouse click count"},
			{Opcode: "resetClickCount", BlockType: Command, Text: "reset click count"},
			{Opcode: "getMouseX", BlockType: Reporter, Text: "mouse x"},
			{Opcode: "getMouseY", BlockType: Reporter, Text: "mouse y"},
			{Opcode: "keyPressed", BlockType: Boolean, Text: "key [KEY] pressed?",
				Arguments: map[string]Argument{"KEY": str("keyNames", "space")}},
			{Opcode: "keyComboPressed", BlockType: Boolean, Text: "keys [KEY1] + [KEY2] pressed?",
				Arguments: map[string]Argument{"KEY1": str("modifierKeys", "Ctrl"), "KEY2": str("keyNames", "C")}},
			{Opcode: "anyKeyPressed", BlockType: Boolean, Text: "any key pressed?"},
			{Opcode: "keyCount", BlockType: Reporter, Text: "number of keys pressed"},
			{Opcode: "getLastKey", BlockType: Reporter, Text: "last key pressed"},
			{Opcode: "getKeyPressCount", BlockType: Reporter, Text: "key press count"},
			{Opcode: "resetKeyPressCount", BlockType: Command, Text: "reset key press count"},
			{Opcode: "isModifierPressed", BlockType: Boolean, Text: "modifier [MODIFIER] pressed?",
				Arguments: map[string]Argument{"MODIFIER": str("modifierKeys", "Shift")}},
			{Opcode: "isArrowKeyPressed", BlockType: Boolean, Text: "arrow key pressed?"},
			{Opcode: "isNumberKeyPressed", BlockType: Boolean, Text: "number key pressed?"},
			{Opcode: "isLetterKeyPressed", BlockType: Boolean, Text: "letter key pressed?"},
			{Opcode: "receivedMessage", BlockType: Boolean, Text: "received message [MESSAGE]?",
				Arguments: map[string]Argument{"MESSAGE": {Type: "string", DefaultValue: "消息1"}}},
			{Opcode: "getLastMessage", BlockType: Reporter, Text: "last message"},
			{Opcode: "clearLastMessage", BlockType: Command, Text: "clear last message"},
		},
		Menus: map[string]Menu{
			"wheelDirection": {AcceptReporters: true, Items: []string{"up", "down"}},
			"mouseButton":    {AcceptReporters: true, Items: []string{"left", "middle", "right"}},
			"keyNames":       {AcceptReporters: true, Items: keyMenu()},
			"modifierKeys":   {AcceptReporters: true, Items: []string{"Shift", "Ctrl", "Alt", "Meta"}},
		},
	}
}

func keyMenu() []string {
	items := []string{
		"space", "enter", "backspace", "delete", "tab", "escape",
		"arrow-up", "arrow-down", "arrow-left", "arrow-right",
	}
	for c := 'A'; c <= 'Z'; c++ {
		items = append(items, string(c))
	}
	for c := '0'; c <= '9'; c++ {
		items = append(items, string(c))
	}
	for i := 1; i <= 12; i++ {
		items = append(items, "F"+strconv.Itoa(i))
	}
	return items
}
