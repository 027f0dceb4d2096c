package engine_test

import (
	"sync"
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-wv58a/internal/config"
	"github.com/tartampluch/go-wv58a/internal/engine"
)

// newStore returns the preferences of a fresh headless fyne app.
func newStore(t *testing.T) engine.Store {
	t.Helper()
	a := test.NewTempApp(t)
	return a.Preferences()
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg := engine.LoadConfig(newStore(t))

	assert.False(t, cfg.Invert)
	assert.False(t, cfg.VibrateHourly)
	assert.Equal(t, engine.FormatUSA2, cfg.DateFormat, "default format is value 1")
	assert.Equal(t, engine.DefaultConfig(), cfg)
}

func TestParseDateFormat(t *testing.T) {
	tests := map[string]engine.DateFormat{
		"usa1":  engine.FormatUSA1,
		"usa2":  engine.FormatUSA2,
		"eng":   engine.FormatENG,
		"ger":   engine.FormatGER,
		"fra":   engine.FormatFRA,
		"":      engine.FormatUSA1,
		"USA2":  engine.FormatUSA1,
		"dutch": engine.FormatUSA1,
	}

	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			got := engine.ParseDateFormat(in)
			assert.Equal(t, want, got)
			assert.True(t, got.Valid())
		})
	}
}

func TestParseToggle(t *testing.T) {
	assert.True(t, engine.ParseToggle("yes"))
	for _, v := range []string{"no", "YES", "true", "1", ""} {
		assert.False(t, engine.ParseToggle(v), v)
	}
}

func TestApplyMessage_AllKeys(t *testing.T) {
	store := newStore(t)

	cfg, applied := engine.ApplyMessage(store, engine.Message{
		config.MsgKeyInvert:        "yes",
		config.MsgKeyVibrateHourly: "yes",
		config.MsgKeyDateFormat:    "ger",
		"colour":                   "red",
	})

	assert.Equal(t, engine.Config{Invert: true, VibrateHourly: true, DateFormat: engine.FormatGER}, cfg)
	assert.Equal(t, []string{config.MsgKeyDateFormat, config.MsgKeyInvert, config.MsgKeyVibrateHourly}, applied)
	assert.Equal(t, cfg, engine.LoadConfig(store), "values are persisted")
}

func TestApplyMessage_NumericKeys(t *testing.T) {
	store := newStore(t)

	cfg, applied := engine.ApplyMessage(store, engine.Message{"1": "yes", "3": "fra"})

	assert.True(t, cfg.Invert)
	assert.False(t, cfg.VibrateHourly)
	assert.Equal(t, engine.FormatFRA, cfg.DateFormat)
	assert.Len(t, applied, 2)
}

// TestApplyMessage_NameBeatsAlias repeats the call so map iteration order
// cannot hide a nondeterministic outcome.
func TestApplyMessage_NameBeatsAlias(t *testing.T) {
	msg := engine.Message{
		config.MsgKeyInvert:        config.MsgValueYes,
		config.MsgKeyInvertNum:     config.MsgValueNo,
		config.MsgKeyDateFormat:    config.WireGER,
		config.MsgKeyDateFormatNum: config.WireENG,
	}

	for i := 0; i < 20; i++ {
		cfg, applied := engine.ApplyMessage(newStore(t), msg)

		require.True(t, cfg.Invert)
		require.Equal(t, engine.FormatGER, cfg.DateFormat)
		require.Equal(t, []string{config.MsgKeyDateFormat, config.MsgKeyInvert}, applied)
	}
}

func TestApplyMessage_UnrecognizedValues(t *testing.T) {
	store := newStore(t)
	engine.ApplyMessage(store, engine.Message{config.MsgKeyInvert: "yes", config.MsgKeyDateFormat: "fra"})

	cfg, _ := engine.ApplyMessage(store, engine.Message{
		config.MsgKeyInvert:     "maybe",
		config.MsgKeyDateFormat: "klingon",
	})

	assert.False(t, cfg.Invert, "anything but yes is false")
	assert.Equal(t, engine.FormatUSA1, cfg.DateFormat, "unknown formats are stored as usa1")
	assert.Equal(t, int(engine.FormatUSA1), store.IntWithFallback(config.PrefDateFormat, -1))
}

func TestApplyMessage_PartialKeepsOthers(t *testing.T) {
	store := newStore(t)
	engine.ApplyMessage(store, engine.Message{config.MsgKeyVibrateHourly: "yes"})

	cfg, applied := engine.ApplyMessage(store, engine.Message{config.MsgKeyInvert: "yes"})
	assert.Equal(t, []string{config.MsgKeyInvert}, applied)
	assert.True(t, cfg.VibrateHourly)
	assert.Equal(t, engine.DefaultDateFormat, cfg.DateFormat)
}

func TestMessageFromConfig_RoundTrip(t *testing.T) {
	want := engine.Config{Invert: true, DateFormat: engine.FormatENG}
	cfg, _ := engine.ApplyMessage(newStore(t), engine.MessageFromConfig(want))
	assert.Equal(t, want, cfg)
}

func TestSettings_ApplyNotifies(t *testing.T) {
	s := engine.NewSettings(newStore(t))
	require.Equal(t, engine.DefaultConfig(), s.Current())

	got := make(chan engine.Config, 1)
	s.OnChange(func(c engine.Config) { got <- c })

	cfg, _ := s.Apply(engine.Message{config.MsgKeyDateFormat: "eng"})
	assert.Equal(t, engine.FormatENG, cfg.DateFormat)
	assert.Equal(t, cfg, <-got)
	assert.Equal(t, cfg, s.Current())
}

func TestSettings_Reload(t *testing.T) {
	store := newStore(t)
	s := engine.NewSettings(store)

	store.SetBool(config.PrefInvert, true)
	assert.False(t, s.Current().Invert)
	assert.True(t, s.Reload().Invert)
}

// TestSettings_ConcurrentAccess exercises the mutex. Run with -race.
func TestSettings_ConcurrentAccess(t *testing.T) {
	s := engine.NewSettings(newStore(t))
	var wg sync.WaitGroup

	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				s.Apply(engine.Message{config.MsgKeyInvert: engine.FormatToggle((i+j)%2 == 0)})
			}
		}(i)
	}
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				_ = s.Current()
			}
		}()
	}

	wg.Wait()
}

func TestDecodeMessage(t *testing.T) {
	msg, err := engine.DecodeMessage([]byte(`{"invert":"yes","vibrateHourly":false,"dateFormat":"eng"}`))
	require.NoError(t, err)
	assert.Equal(t, engine.Message{"invert": "yes", "vibrateHourly": "no", "dateFormat": "eng"}, msg)

	for _, bad := range []string{`not json`, `null`, `["invert"]`, `{"dateFormat":3}`} {
		_, err := engine.DecodeMessage([]byte(bad))
		assert.ErrorContains(t, err, config.ErrDecodeMessage, bad)
	}
}
