package ui

import (
	"fmt"
	"log/slog"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-wv58a/internal/config"
	"github.com/tartampluch/go-wv58a/internal/engine"
)

// settingsWidgets holds references to UI elements to simplify data retrieval during save.
type settingsWidgets struct {
	checkInvert  *widget.Check
	checkVibrate *widget.Check
	formatSelect *widget.Select
	check24h     *widget.Check
	langSelect   *widget.Select
	entryPort    *PortEntry
	tokenEntry   *widget.Entry
}

// ShowSettingsWindow displays the local editor for the watch settings. Saving
// goes through the same message path as the phone.
func (app *WatchApp) ShowSettingsWindow() {
	if app.SettingsWindow != nil {
		slog.Debug(config.MsgSettingsFocus, config.LogKeyComponent, config.CompUISet)
		app.SettingsWindow.RequestFocus()
		return
	}

	slog.Info(config.MsgSettingsOpen, config.LogKeyComponent, config.CompUISet)
	w := app.App.NewWindow(app.GetMsg(config.TKeyWinSettings))
	app.SettingsWindow = w

	sw := app.buildSettingsWidgets()

	// --- Display Section ---
	displayForm := widget.NewForm(
		widget.NewFormItem(app.GetMsg(config.TKeyLblDateFormat), sw.formatSelect),
	)
	displayCard := widget.NewCard(app.GetMsg(config.TKeyLblDisplay), "", container.NewVBox(
		sw.checkInvert,
		sw.checkVibrate,
		sw.check24h,
		displayForm,
	))

	// --- General Section ---
	itemLang := widget.NewFormItem(app.GetMsg(config.TKeyLblLanguage), sw.langSelect)
	itemLang.HintText = app.GetMsg(config.TKeyHelpLanguage)

	itemPort := widget.NewFormItem(app.GetMsg(config.TKeyLblPort), sw.entryPort)
	itemPort.HintText = app.GetMsg(config.TKeyHelpPort)

	btnReset := widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnResetToken), theme.ViewRefreshIcon(), func() {
		sw.tokenEntry.SetText(app.ResetPairingToken())
	})
	itemToken := widget.NewFormItem(app.GetMsg(config.TKeyLblPairing), container.NewBorder(nil, nil, nil, btnReset, sw.tokenEntry))
	itemToken.HintText = app.GetMsg(config.TKeyHelpPairing)

	generalCard := widget.NewCard(app.GetMsg(config.TKeyLblGeneral), "", widget.NewForm(itemLang, itemPort, itemToken))

	// --- Actions ---
	saveAction := func() {
		if err := sw.entryPort.Validate(); err != nil {
			dialog.ShowError(err, w)
			return
		}
		app.saveSettings(sw)
		w.Close()
	}

	btnSave := widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnSave), theme.DocumentSaveIcon(), saveAction)
	btnSave.Importance = widget.HighImportance
	btnCancel := widget.NewButtonWithIcon(app.GetMsg(config.TKeyBtnCancel), theme.CancelIcon(), func() { w.Close() })

	footerLabel := widget.NewLabel(fmt.Sprintf(app.GetMsg(config.TKeyLblFooter), config.Version))
	footerLabel.Alignment = fyne.TextAlignCenter
	footerLabel.TextStyle = fyne.TextStyle{Italic: true}

	content := container.NewPadded(container.NewVBox(
		displayCard,
		generalCard,
		container.NewGridWithColumns(config.LayoutColumnsDouble, btnCancel, btnSave),
		footerLabel,
	))

	w.SetContent(content)
	w.Resize(fyne.NewSize(config.SettingsWindowWidth, content.MinSize().Height))
	w.SetFixedSize(true)
	w.SetOnClosed(func() { app.SettingsWindow = nil })
	w.Show()
}

// buildSettingsWidgets creates the editors pre-filled from the current state.
func (app *WatchApp) buildSettingsWidgets() *settingsWidgets {
	cfg := app.Settings.Current()
	sw := &settingsWidgets{}

	sw.checkInvert = widget.NewCheck(app.GetMsg(config.TKeyLblInvert), nil)
	sw.checkInvert.SetChecked(cfg.Invert)

	sw.checkVibrate = widget.NewCheck(app.GetMsg(config.TKeyLblVibrate), nil)
	sw.checkVibrate.SetChecked(cfg.VibrateHourly)

	sw.check24h = widget.NewCheck(app.GetMsg(config.TKeyLblClock24h), nil)
	sw.check24h.SetChecked(app.clock24h())

	options := make([]string, len(engine.DateFormats))
	selected := 0
	for i, f := range engine.DateFormats {
		options[i] = app.GetMsg(config.TKeyFmtPrefix + f.String())
		if f == cfg.DateFormat {
			selected = i
		}
	}
	sw.formatSelect = widget.NewSelect(options, nil)
	sw.formatSelect.SetSelectedIndex(selected)

	sw.langSelect = widget.NewSelect(app.SupportedLanguages, nil)
	sw.langSelect.SetSelected(app.Preferences.StringWithFallback(config.PrefLanguage, config.DefaultLanguage))

	sw.entryPort = NewPortEntry(app.GetMsg)
	sw.entryPort.SetText(app.Preferences.StringWithFallback(config.PrefServerPort, config.DefaultPort))

	sw.tokenEntry = widget.NewEntry()
	sw.tokenEntry.SetText(app.PairingToken())
	sw.tokenEntry.Disable()

	return sw
}

// saveSettings persists the desktop-only preferences, then applies the watch
// settings as a local message. The message goes last: its single forced
// refresh picks up the clock style and weekday names written before it.
func (app *WatchApp) saveSettings(sw *settingsWidgets) {
	slog.Info(config.MsgSettingsSave, config.LogKeyComponent, config.CompUISet)

	format := engine.FormatUSA1
	if idx := sw.formatSelect.SelectedIndex(); idx >= 0 && idx < len(engine.DateFormats) {
		format = engine.DateFormats[idx]
	}

	app.Preferences.SetBool(config.PrefClock24h, sw.check24h.Checked)
	if sw.langSelect.Selected != "" {
		app.Preferences.SetString(config.PrefLanguage, sw.langSelect.Selected)
	}
	if port := sw.entryPort.Port(); port != 0 {
		app.Preferences.SetString(config.PrefServerPort, strconv.Itoa(port))
	}

	app.UpdateLocalizer()
	app.RefreshTrayMenu()
	if app.Window != nil {
		app.Window.SetTitle(app.GetMsg(config.TKeyWinTitle))
	}

	app.ApplyMessage(config.TransportLocal, engine.MessageFromConfig(engine.Config{
		Invert:        sw.checkInvert.Checked,
		VibrateHourly: sw.checkVibrate.Checked,
		DateFormat:    format,
	}))
}
