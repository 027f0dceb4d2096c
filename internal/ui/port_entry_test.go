package ui

import (
	"testing"

	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/tartampluch/go-wv58a/internal/config"
)

func identity(key string) string { return key }

func TestPortEntry_TypedRune(t *testing.T) {
	test.NewApp()
	entry := NewPortEntry(identity)
	window := test.NewWindow(entry)
	defer window.Close()

	tests := []struct {
		name     string
		input    rune
		accepted bool
	}{
		{"Digit_Zero", '0', true},
		{"Digit_Nine", '9', true},
		{"Letter_a", 'a', false},
		{"Symbol_Dash", '-', false},
		{"Symbol_Space", ' ', false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry.SetText("")
			test.Type(entry, string(tt.input))

			if tt.accepted {
				assert.Equal(t, string(tt.input), entry.Text)
			} else {
				assert.Empty(t, entry.Text)
			}
		})
	}
}

func TestPortEntry_MaxLength(t *testing.T) {
	test.NewApp()
	entry := NewPortEntry(identity)
	window := test.NewWindow(entry)
	defer window.Close()

	test.Type(entry, "1805899")
	assert.Equal(t, "18058", entry.Text)
	assert.Equal(t, 18058, entry.Port())
}

func TestPortEntry_Validator(t *testing.T) {
	entry := NewPortEntry(identity)

	tests := []struct {
		in      string
		wantKey string
		port    int
	}{
		{"18058", "", 18058},
		{"1", "", 1},
		{"65535", "", 65535},
		{"", config.TKeyErrPortReq, 0},
		{"abc", config.TKeyErrPortNum, 0},
		{"0", config.TKeyErrPortRange, 0},
		{"70000", config.TKeyErrPortRange, 0},
	}

	for _, tt := range tests {
		// SetText bypasses TypedRune, like a paste.
		entry.SetText(tt.in)
		err := entry.Validate()
		if tt.wantKey == "" {
			assert.NoError(t, err, tt.in)
		} else if assert.Error(t, err, tt.in) {
			assert.Equal(t, tt.wantKey, err.Error())
		}
		assert.Equal(t, tt.port, entry.Port(), tt.in)
	}
}

func TestPortEntry_Keyboard(t *testing.T) {
	assert.Equal(t, mobile.NumberKeyboard, NewPortEntry(identity).Keyboard())
}
