package console

import (
	"bufio"
	"unicode/utf8"
)

const (
	ctrlC     = 3
	backspace = 8
	tab       = 9
	esc       = 27
	del       = 127
)

// decodeKey turns the byte b, plus any escape sequence that follows it in
// reader, into browser key labels. Ctrl+letter yields "Control" and the
// letter. Unknown sequences yield nothing.
func decodeKey(reader *bufio.Reader, b byte) []string {
	switch {
	case b == '\r' || b == '\n':
		return []string{"Enter"}
	case b == tab:
		return []string{"Tab"}
	case b == backspace || b == del:
		return []string{"Backspace"}
	case b == esc:
		return decodeEscape(reader)
	case b >= 1 && b <= 26:
		return []string{"Control", string(rune('a' + b - 1))}
	case b < ' ':
		return nil
	case b < utf8.RuneSelf:
		return []string{string(rune(b))}
	}

	_ = reader.UnreadByte()
	r, _, err := reader.ReadRune()
	if err != nil || r == utf8.RuneError {
		return nil
	}
	return []string{string(r)}
}

// decodeEscape reads the rest of an ESC sequence. A lone ESC, with nothing
// buffered behind it, is the Escape key.
func decodeEscape(reader *bufio.Reader) []string {
	if reader.Buffered() == 0 {
		return []string{"Escape"}
	}
	next, err := reader.ReadByte()
	if err != nil {
		return []string{"Escape"}
	}

	switch next {
	case '[':
		code, err := reader.ReadByte()
		if err != nil {
			return nil
		}
		switch code {
		case 'A':
			return []string{"ArrowUp"}
		case 'B':
			return []string{"ArrowDown"}
		case 'C':
			return []string{"ArrowRight"}
		case 'D':
			return []string{"ArrowLeft"}
		case 'H':
			return []string{"Home"}
		case 'F':
			return []string{"End"}
		case '3':
			if t, err := reader.ReadByte(); err == nil && t == '~' {
				return []string{"Delete"}
			}
		}
		return nil
	case 'O':
		code, err := reader.ReadByte()
		if err != nil {
			return nil
		}
		switch code {
		case 'P':
			return []string{"F1"}
		case 'Q':
			return []string{"F2"}
		case 'R':
			return []string{"F3"}
		case 'S':
			return []string{"F4"}
		}
		return nil
	case esc:
		_ = reader.UnreadByte()
		return []string{"Escape"}
	}
	// Alt+key arrives as ESC followed by the key.
	_ = reader.UnreadByte()
	return []string{"Alt"}
}
