package ui

import (
	"strings"
	"unicode/utf8"

	tea "charm.land/bubbletea/v2"
)

// ApplyStartupKeys feeds startup keypresses (Vim-like tokens and literal
// text) to the model. It returns the commands the keys produced so the
// program can run them from Init.
func ApplyStartupKeys(m *Model, keys []string) tea.Cmd {
	if len(keys) == 0 || m == nil {
		return nil
	}
	var cmds []tea.Cmd
	send := func(msg tea.KeyPressMsg) {
		_, cmd := m.Update(msg)
		cmds = append(cmds, cmd)
	}
	literal := func(text string) {
		for _, r := range text {
			if r == ' ' {
				send(tea.KeyPressMsg{Code: tea.KeySpace, Text: " "})
				continue
			}
			send(tea.KeyPressMsg{Code: r, Text: string(r)})
		}
	}
	for _, raw := range keys {
		token := strings.TrimSpace(raw)
		if token == "" {
			continue
		}
		// Leading backslash forces literal text (e.g., "\\<F1>").
		if strings.HasPrefix(token, `\`) {
			literal(strings.TrimPrefix(token, `\`))
			continue
		}
		for _, segment := range parseTokenSegments(token) {
			if !segment.isVimKey {
				literal(segment.text)
				continue
			}
			if msgs, ok := keyMsgsFromToken(segment.text); ok {
				for _, msg := range msgs {
					send(msg)
				}
			}
		}
	}
	return tea.Batch(cmds...)
}

// tokenSegment is a parsed piece of a token: a <key> or literal text.
type tokenSegment struct {
	text     string
	isVimKey bool
}

// parseTokenSegments splits a token into segments of vim-style keys and literal text.
// Example: "ls<CR>" -> [segment{text: "ls"}, segment{text: "<CR>", isVimKey: true}]
func parseTokenSegments(token string) []tokenSegment {
	var segments []tokenSegment
	remaining := token

	for len(remaining) > 0 {
		startIdx := strings.Index(remaining, "<")
		if startIdx == -1 {
			segments = append(segments, tokenSegment{text: remaining})
			break
		}
		if startIdx > 0 {
			segments = append(segments, tokenSegment{text: remaining[:startIdx]})
		}
		endIdx := strings.Index(remaining[startIdx:], ">")
		if endIdx == -1 {
			// No closing >, treat the rest as literal text
			segments = append(segments, tokenSegment{text: remaining[startIdx:]})
			break
		}
		segments = append(segments, tokenSegment{text: remaining[startIdx : startIdx+endIdx+1], isVimKey: true})
		remaining = remaining[startIdx+endIdx+1:]
	}

	return segments
}

// keyMsgsFromToken parses a Vim-like token into key messages.
// Examples: "<Esc>", "<CR>", "<Tab>", "<Space>", "<BS>", "<C-c>", "<M-b>", "<F2>".
func keyMsgsFromToken(token string) ([]tea.KeyPressMsg, bool) {
	if !strings.HasPrefix(token, "<") || !strings.HasSuffix(token, ">") {
		return nil, false
	}
	inner := strings.TrimSuffix(strings.TrimPrefix(token, "<"), ">")
	lower := strings.ToLower(inner)
	switch lower {
	case "esc", "c-[", "escape":
		return []tea.KeyPressMsg{{Code: tea.KeyEscape}}, true
	case "cr", "enter", "return":
		return []tea.KeyPressMsg{{Code: tea.KeyEnter}}, true
	case "tab":
		return []tea.KeyPressMsg{{Code: tea.KeyTab}}, true
	case "space":
		return []tea.KeyPressMsg{{Code: tea.KeySpace, Text: " "}}, true
	case "bs", "backspace":
		return []tea.KeyPressMsg{{Code: tea.KeyBackspace}}, true
	case "del", "delete":
		return []tea.KeyPressMsg{{Code: tea.KeyDelete}}, true
	case "left":
		return []tea.KeyPressMsg{{Code: tea.KeyLeft}}, true
	case "right":
		return []tea.KeyPressMsg{{Code: tea.KeyRight}}, true
	case "up":
		return []tea.KeyPressMsg{{Code: tea.KeyUp}}, true
	case "down":
		return []tea.KeyPressMsg{{Code: tea.KeyDown}}, true
	case "home":
		return []tea.KeyPressMsg{{Code: tea.KeyHome}}, true
	case "end":
		return []tea.KeyPressMsg{{Code: tea.KeyEnd}}, true
	case "f1":
		return []tea.KeyPressMsg{{Code: tea.KeyF1}}, true
	case "f2":
		return []tea.KeyPressMsg{{Code: tea.KeyF2}}, true
	case "f3":
		return []tea.KeyPressMsg{{Code: tea.KeyF3}}, true
	}
	// <C-x> and <M-x> take a single letter.
	if len(lower) > 2 && lower[1] == '-' {
		r, size := utf8.DecodeRuneInString(lower[2:])
		if size != len(lower)-2 {
			return nil, false
		}
		switch lower[0] {
		case 'c':
			return []tea.KeyPressMsg{{Code: r, Mod: tea.ModCtrl}}, true
		case 'm', 'a':
			return []tea.KeyPressMsg{{Code: r, Mod: tea.ModAlt}}, true
		}
	}
	return nil, false
}
