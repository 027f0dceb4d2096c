package sensor

import (
	"log/slog"
	"time"

	"github.com/tartampluch/go-wv58a/internal/config"
)

// Haptics drives a vibration motor with an on/off/on... pattern.
type Haptics interface {
	Vibrate(pattern []time.Duration)
}

// HapticsFunc adapts a function to Haptics.
type HapticsFunc func(pattern []time.Duration)

func (f HapticsFunc) Vibrate(pattern []time.Duration) { f(pattern) }

// LogHaptics only records the pattern. Used on hosts without a motor.
type LogHaptics struct{}

func (LogHaptics) Vibrate(pattern []time.Duration) {
	slog.Info(config.MsgVibrate,
		config.LogKeyComponent, config.CompHaptics,
		config.LogKeyPattern, pattern,
	)
}
