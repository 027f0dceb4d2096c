package ui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-wv58a/internal/config"
	"github.com/tartampluch/go-wv58a/internal/engine"
)

func TestSettingsWidgets_Prefilled(t *testing.T) {
	app, _ := setupTestApp(t)
	app.ApplyMessage(config.TransportLocal, engine.Message{
		config.MsgKeyInvert:     config.MsgValueYes,
		config.MsgKeyDateFormat: config.WireFRA,
	})

	sw := app.buildSettingsWidgets()

	assert.True(t, sw.checkInvert.Checked)
	assert.False(t, sw.checkVibrate.Checked)
	assert.False(t, sw.check24h.Checked)
	assert.Equal(t, int(engine.FormatFRA), sw.formatSelect.SelectedIndex())
	assert.Equal(t, config.DefaultLanguage, sw.langSelect.Selected)
	assert.Equal(t, config.DefaultPort, sw.entryPort.Text)
	assert.NotEmpty(t, sw.tokenEntry.Text)
	assert.True(t, sw.tokenEntry.Disabled())
}

func TestSettings_SaveAppliesEverything(t *testing.T) {
	app, _ := setupTestApp(t)
	sw := app.buildSettingsWidgets()

	sw.checkVibrate.SetChecked(true)
	sw.check24h.SetChecked(true)
	sw.formatSelect.SetSelectedIndex(int(engine.FormatGER))
	sw.langSelect.SetSelected("de")
	sw.entryPort.SetText("19000")

	app.saveSettings(sw)

	assert.Equal(t, engine.Config{VibrateHourly: true, DateFormat: engine.FormatGER}, app.Settings.Current())
	assert.True(t, app.Preferences.Bool(config.PrefClock24h))
	assert.Equal(t, "19000", app.Preferences.String(config.PrefServerPort))
	assert.Equal(t, "Einstellungen...", app.GetMsg(config.TKeyMenuSettings))
}

func TestSettings_PortValidation(t *testing.T) {
	app, _ := setupTestApp(t)
	sw := app.buildSettingsWidgets()

	tests := map[string]bool{
		"18058": true,
		"1":     true,
		"65535": true,
		"":      false,
		"0":     false,
		"70000": false,
		"abc":   false,
	}
	for in, ok := range tests {
		sw.entryPort.SetText(in)
		err := sw.entryPort.Validate()
		if ok {
			assert.NoError(t, err, in)
		} else {
			assert.Error(t, err, in)
		}
	}
}

func TestSettingsWindow_SingleInstance(t *testing.T) {
	app, _ := setupTestApp(t)

	app.ShowSettingsWindow()
	w := app.SettingsWindow
	require.NotNil(t, w)

	app.ShowSettingsWindow()
	assert.Same(t, w, app.SettingsWindow)

	w.Close()
	assert.Nil(t, app.SettingsWindow)
}

func TestSettings_SaveRequestsOneRefresh(t *testing.T) {
	app, _ := setupTestApp(t)
	haptics := &recordingHaptics{}
	app.Haptics = haptics
	app.Clock = MockClock{CurrentTime: time.Date(2025, time.July, 3, 9, 0, 30, 0, time.UTC)}
	app.tick(true)

	// Room for every signal, so none is coalesced by the channel itself.
	app.refreshChan = make(chan struct{}, 8)

	sw := app.buildSettingsWidgets()
	sw.checkVibrate.SetChecked(true)
	sw.check24h.SetChecked(true)
	sw.langSelect.SetSelected("fr")
	sw.entryPort.SetText("19000")
	app.saveSettings(sw)

	require.Len(t, app.refreshChan, 1)

	// Drain like the tick loop does: one forced tick, one vibration.
	for len(app.refreshChan) > 0 {
		<-app.refreshChan
		app.tick(true)
	}
	assert.Equal(t, 1, haptics.count())
	assert.Equal(t, " 9:00", app.Shown().Time)
	assert.Equal(t, "JEU", app.Shown().Weekday)
}
