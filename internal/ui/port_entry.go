package ui

import (
	"errors"
	"strconv"

	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-wv58a/internal/config"
)

// maxPortDigits is the length of "65535".
const maxPortDigits = 5

// PortEntry is an Entry that only takes digits and validates a TCP port.
type PortEntry struct {
	widget.Entry
}

// NewPortEntry creates a PortEntry. translate resolves the error messages
// shown by the validator.
func NewPortEntry(translate func(key string) string) *PortEntry {
	entry := &PortEntry{}
	entry.ExtendBaseWidget(entry)
	entry.Validator = func(s string) error {
		if _, key := parsePort(s); key != "" {
			return errors.New(translate(key))
		}
		return nil
	}
	return entry
}

// TypedRune drops anything but digits and stops at five characters.
// Pasted text bypasses this, the Validator catches it.
func (e *PortEntry) TypedRune(r rune) {
	if r < '0' || r > '9' || len(e.Text) >= maxPortDigits {
		return
	}
	e.Entry.TypedRune(r)
}

// Keyboard requests the numeric keypad on mobile.
func (e *PortEntry) Keyboard() mobile.KeyboardType {
	return mobile.NumberKeyboard
}

// Port returns the entered port, or 0 when the text is not a valid port.
func (e *PortEntry) Port() int {
	port, key := parsePort(e.Text)
	if key != "" {
		return 0
	}
	return port
}

// parsePort returns the port and an empty key, or the translation key of
// the reason it was refused.
func parsePort(s string) (int, string) {
	if s == "" {
		return 0, config.TKeyErrPortReq
	}
	port, err := strconv.Atoi(s)
	if err != nil {
		return 0, config.TKeyErrPortNum
	}
	if port < config.MinPort || port > config.MaxPort {
		return 0, config.TKeyErrPortRange
	}
	return port, ""
}
