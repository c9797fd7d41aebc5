package display

import (
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
)

// keyLabels maps physical keys to the key labels a browser reports. The
// virtual KeyShift/KeyControl/KeyAlt/KeyMeta are left out so each press is
// reported once.
var keyLabels = func() map[ebiten.Key]string {
	m := map[ebiten.Key]string{
		ebiten.KeySpace:        " ",
		ebiten.KeyEnter:        "Enter",
		ebiten.KeyNumpadEnter:  "Enter",
		ebiten.KeyBackspace:    "Backspace",
		ebiten.KeyDelete:       "Delete",
		ebiten.KeyTab:          "Tab",
		ebiten.KeyEscape:       "Escape",
		ebiten.KeyArrowUp:      "ArrowUp",
		ebiten.KeyArrowDown:    "ArrowDown",
		ebiten.KeyArrowLeft:    "ArrowLeft",
		ebiten.KeyArrowRight:   "ArrowRight",
		ebiten.KeyHome:         "Home",
		ebiten.KeyEnd:          "End",
		ebiten.KeyPageUp:       "PageUp",
		ebiten.KeyPageDown:     "PageDown",
		ebiten.KeyInsert:       "Insert",
		ebiten.KeyCapsLock:     "CapsLock",
		ebiten.KeyShiftLeft:    "Shift",
		ebiten.KeyShiftRight:   "Shift",
		ebiten.KeyControlLeft:  "Control",
		ebiten.KeyControlRight: "Control",
		ebiten.KeyAltLeft:      "Alt",
		ebiten.KeyAltRight:     "Alt",
		ebiten.KeyMetaLeft:     "Meta",
		ebiten.KeyMetaRight:    "Meta",
		ebiten.KeyMinus:        "-",
		ebiten.KeyEqual:        "=",
		ebiten.KeyComma:        ",",
		ebiten.KeyPeriod:       ".",
		ebiten.KeySlash:        "/",
		ebiten.KeySemicolon:    ";",
		ebiten.KeyQuote:        "'",
		ebiten.KeyBracketLeft:  "[",
		ebiten.KeyBracketRight: "]",
		ebiten.KeyBackslash:    "\\",
		ebiten.KeyBackquote:    "`",
	}
	for k := ebiten.KeyA; k <= ebiten.KeyZ; k++ {
		m[k] = strings.ToLower(k.String())
	}
	digits := []ebiten.Key{
		ebiten.KeyDigit0, ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3, ebiten.KeyDigit4,
		ebiten.KeyDigit5, ebiten.KeyDigit6, ebiten.KeyDigit7, ebiten.KeyDigit8, ebiten.KeyDigit9,
	}
	numpad := []ebiten.Key{
		ebiten.KeyNumpad0, ebiten.KeyNumpad1, ebiten.KeyNumpad2, ebiten.KeyNumpad3, ebiten.KeyNumpad4,
		ebiten.KeyNumpad5, ebiten.KeyNumpad6, ebiten.KeyNumpad7, ebiten.KeyNumpad8, ebiten.KeyNumpad9,
	}
	for i := range digits {
		label := string(rune('0' + i))
		m[digits[i]] = label
		m[numpad[i]] = label
	}
	fkeys := []ebiten.Key{
		ebiten.KeyF1, ebiten.KeyF2, ebiten.KeyF3, ebiten.KeyF4, ebiten.KeyF5, ebiten.KeyF6,
		ebiten.KeyF7, ebiten.KeyF8, ebiten.KeyF9, ebiten.KeyF10, ebiten.KeyF11, ebiten.KeyF12,
	}
	for _, k := range fkeys {
		m[k] = k.String()
	}
	return m
}()

// keyLabel returns the browser key label for k. Letters are upper-cased while
// shift is held. ok is false for keys with no label.
func keyLabel(k ebiten.Key, shift bool) (string, bool) {
	label, ok := keyLabels[k]
	if !ok {
		return "", false
	}
	if shift && len(label) == 1 && label[0] >= 'a' && label[0] <= 'z' {
		label = strings.ToUpper(label)
	}
	return label, true
}
