package input

import "strings"

// Button names used by the host menus. The Chinese menu labels are accepted as aliases.
var buttonNames = map[string]MouseButton{
	"left":   MouseButtonLeft,
	"middle": MouseButtonMiddle,
	"right":  MouseButtonRight,
	"左":      MouseButtonLeft,
	"中":      MouseButtonMiddle,
	"右":      MouseButtonRight,
}

var modifierNames = map[string]string{
	"Shift": "shift",
	"Ctrl":  "control",
	"Alt":   "alt",
	"Meta":  "meta",
}

var namedKeys = map[string]string{
	"space":       " ",
	"enter":       "enter",
	"backspace":   "backspace",
	"delete":      "delete",
	"tab":         "tab",
	"escape":      "escape",
	"arrow-up":    "arrowup",
	"arrow-down":  "arrowdown",
	"arrow-left":  "arrowleft",
	"arrow-right": "arrowright",

	"空格键": " ",
	"回车键": "enter",
	"退格键": "backspace",
	"删除键": "delete",
	"制表键": "tab",
	"逃逸键": "escape",
	"上箭头": "arrowup",
	"下箭头": "arrowdown",
	"左箭头": "arrowleft",
	"右箭头": "arrowright",
}

var wheelNames = map[string]WheelDirection{
	"up":   WheelUp,
	"down": WheelDown,
	"向上":   WheelUp,
	"向下":   WheelDown,
}

// ArrowKeys are the normalized labels of the four directional keys.
var ArrowKeys = []string{"arrowup", "arrowdown", "arrowleft", "arrowright"}

// NormalizeKey lower-cases a raw key label for set membership.
func NormalizeKey(raw string) string {
	return strings.ToLower(raw)
}

// KeyName translates a display name into a normalized key. Unknown names pass
// through lower-cased.
func KeyName(display string) string {
	if k, ok := namedKeys[display]; ok {
		return k
	}
	lower := strings.ToLower(display)
	if k, ok := namedKeys[lower]; ok {
		return k
	}
	return lower
}

// ModifierName translates Shift/Ctrl/Alt/Meta into the normalized key.
func ModifierName(display string) (string, bool) {
	k, ok := modifierNames[display]
	return k, ok
}

// ButtonName translates a button display name into a button index.
func ButtonName(display string) (MouseButton, bool) {
	b, ok := buttonNames[display]
	return b, ok
}

// WheelName translates a wheel direction display name.
func WheelName(display string) (WheelDirection, bool) {
	d, ok := wheelNames[display]
	return d, ok
}

// String returns the internal name of a button, or "" for unknown indices.
func (b MouseButton) String() string {
	switch b {
	case MouseButtonLeft:
		return "left"
	case MouseButtonMiddle:
		return "middle"
	case MouseButtonRight:
		return "right"
	}
	return ""
}
