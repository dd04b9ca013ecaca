package cookies

import "github.com/atotto/clipboard"

// Clipboard reads and writes plain text.
type Clipboard interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

// SystemClipboard is the desktop clipboard.
type SystemClipboard struct{}

// ReadAll returns the clipboard text.
func (SystemClipboard) ReadAll() (string, error) {
	return clipboard.ReadAll()
}

// WriteAll replaces the clipboard text.
func (SystemClipboard) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}

// Supported reports whether a clipboard utility is available on this system.
func (SystemClipboard) Supported() bool {
	return !clipboard.Unsupported
}
