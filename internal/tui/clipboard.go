package tui

import (
	"errors"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
)

var errClipboardUnsupported = errors.New("no clipboard utility found (install xclip, xsel or wl-clipboard)")

// clipboardMsg reports the outcome of a copy.
type clipboardMsg struct {
	content string
	err     error
}

// writeClipboard is replaced in tests.
var writeClipboard = func(text string) error {
	if clipboard.Unsupported {
		return errClipboardUnsupported
	}
	return clipboard.WriteAll(text)
}

// copyToClipboard copies text to the system clipboard in the background.
func copyToClipboard(text string) tea.Cmd {
	return func() tea.Msg {
		return clipboardMsg{content: text, err: writeClipboard(text)}
	}
}
