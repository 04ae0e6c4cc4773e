package tui

import "unicode/utf8"

// maxFieldLen caps form field input.
const maxFieldLen = 120

// editField processes a keystroke for inline text editing: rune-aware
// backspace and single printable characters. Other keys leave the text
// unchanged.
func editField(text, key string) string {
	switch key {
	case "backspace":
		if len(text) > 0 {
			runes := []rune(text)
			return string(runes[:len(runes)-1])
		}
		return text
	default:
		if utf8.RuneCountInString(key) == 1 {
			if utf8.RuneCountInString(text) >= maxFieldLen {
				return text
			}
			return text + key
		}
		return text
	}
}

// renderField renders a labelled form field with a cursor when focused.
func renderField(label, value string, focused, secret bool) string {
	display := value
	if secret {
		display = ""
		for range value {
			display += "•"
		}
	}
	if focused {
		return fieldLabelStyle.Render(label) + focusedFieldStyle.Render(display) + accentStyle.Render("█")
	}
	if display == "" {
		return fieldLabelStyle.Render(label) + dimStyle.Render("…")
	}
	return fieldLabelStyle.Render(label) + display
}
