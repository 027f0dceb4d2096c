package engine

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/tartampluch/go-wv58a/internal/config"
)

// Store is the persistent key/value storage behind the settings.
// fyne.Preferences satisfies it.
type Store interface {
	BoolWithFallback(key string, fallback bool) bool
	SetBool(key string, value bool)
	IntWithFallback(key string, fallback int) int
	SetInt(key string, value int)
}

// Message is one inbound configuration message: wire key to string value.
type Message map[string]string

// DecodeMessage parses a JSON object into a Message. Values must be strings
// or booleans; booleans map to "yes" and "no".
func DecodeMessage(data []byte) (Message, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrDecodeMessage, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%s: not an object", config.ErrDecodeMessage)
	}

	msg := make(Message, len(raw))
	for k, v := range raw {
		switch val := v.(type) {
		case string:
			msg[k] = val
		case bool:
			msg[k] = FormatToggle(val)
		default:
			return nil, fmt.Errorf("%s: key %q has unsupported value %v", config.ErrDecodeMessage, k, v)
		}
	}
	return msg, nil
}

// LoadConfig reads the three persisted settings. Absent keys resolve to their
// defaults; a stored format outside the known range is returned unchanged.
func LoadConfig(store Store) Config {
	return Config{
		Invert:        store.BoolWithFallback(config.PrefInvert, config.DefaultInvert),
		VibrateHourly: store.BoolWithFallback(config.PrefVibrateHourly, config.DefaultVibrateHourly),
		DateFormat:    DateFormat(store.IntWithFallback(config.PrefDateFormat, int(DefaultDateFormat))),
	}
}

// ParseToggle maps a wire value to a bool: only "yes" is true.
func ParseToggle(v string) bool {
	return v == config.MsgValueYes
}

// FormatToggle is the inverse of ParseToggle.
func FormatToggle(b bool) string {
	if b {
		return config.MsgValueYes
	}
	return config.MsgValueNo
}

// ParseDateFormat maps a wire name to a format, falling back to usa1.
func ParseDateFormat(v string) DateFormat {
	switch v {
	case config.WireUSA2:
		return FormatUSA2
	case config.WireENG:
		return FormatENG
	case config.WireGER:
		return FormatGER
	case config.WireFRA:
		return FormatFRA
	default:
		return FormatUSA1
	}
}

// MessageFromConfig builds the message that would produce cfg when applied.
func MessageFromConfig(cfg Config) Message {
	return Message{
		config.MsgKeyInvert:        FormatToggle(cfg.Invert),
		config.MsgKeyVibrateHourly: FormatToggle(cfg.VibrateHourly),
		config.MsgKeyDateFormat:    cfg.DateFormat.String(),
	}
}

// ApplyMessage persists every recognized key of msg and returns the reloaded
// configuration with the sorted list of keys that were written. Unknown keys
// are logged and skipped. Keys are handled in sorted order, so when a message
// carries both a numeric alias and its name, the name wins.
func ApplyMessage(store Store, msg Message) (Config, []string) {
	log := slog.With(config.LogKeyComponent, config.CompSettings)

	keys := make([]string, 0, len(msg))
	for key := range msg {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	seen := make(map[string]bool, len(msg))
	applied := make([]string, 0, len(msg))
	for _, key := range keys {
		value := msg[key]
		log.Debug(config.MsgConfigKey, config.LogKeyKey, key, config.LogKeyValue, value)

		switch key {
		case config.MsgKeyInvert, config.MsgKeyInvertNum:
			store.SetBool(config.PrefInvert, ParseToggle(value))
			seen[config.MsgKeyInvert] = true
		case config.MsgKeyVibrateHourly, config.MsgKeyVibrateHourlyNum:
			store.SetBool(config.PrefVibrateHourly, ParseToggle(value))
			seen[config.MsgKeyVibrateHourly] = true
		case config.MsgKeyDateFormat, config.MsgKeyDateFormatNum:
			store.SetInt(config.PrefDateFormat, int(ParseDateFormat(value)))
			seen[config.MsgKeyDateFormat] = true
		default:
			log.Warn(config.MsgConfigUnknown, config.LogKeyKey, key)
		}
	}
	for key := range seen {
		applied = append(applied, key)
	}
	sort.Strings(applied)

	return LoadConfig(store), applied
}

// Settings owns the live configuration. Reads from the tick loop and writes
// from the transports may happen on different goroutines, so every access goes
// through the mutex.
type Settings struct {
	mu        sync.RWMutex
	store     Store
	current   Config
	listeners []func(Config)
}

// NewSettings loads the persisted configuration from store.
func NewSettings(store Store) *Settings {
	s := &Settings{store: store}
	s.current = LoadConfig(store)
	s.logCurrent()
	return s
}

// Current returns a copy of the live configuration.
func (s *Settings) Current() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// OnChange registers fn to be called after every applied message.
func (s *Settings) OnChange(fn func(Config)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Apply persists msg, reloads the configuration and notifies listeners.
func (s *Settings) Apply(msg Message) (Config, []string) {
	s.mu.Lock()
	cfg, applied := ApplyMessage(s.store, msg)
	s.current = cfg
	listeners := append([]func(Config){}, s.listeners...)
	s.mu.Unlock()

	s.logCurrent()
	for _, fn := range listeners {
		fn(cfg)
	}
	return cfg, applied
}

// Reload rereads the store, for when something else wrote to it.
func (s *Settings) Reload() Config {
	s.mu.Lock()
	s.current = LoadConfig(s.store)
	cfg := s.current
	s.mu.Unlock()

	s.logCurrent()
	return cfg
}

func (s *Settings) logCurrent() {
	cfg := s.Current()
	slog.Debug(config.MsgCurrentConfig,
		config.LogKeyComponent, config.CompSettings,
		config.LogKeyInvert, cfg.Invert,
		config.LogKeyVibrate, cfg.VibrateHourly,
		config.LogKeyDateFmt, int(cfg.DateFormat),
	)
}
