package ui

import (
	"time"

	"fyne.io/fyne/v2"
	"github.com/tartampluch/go-wv58a/internal/config"
	"github.com/tartampluch/go-wv58a/internal/sensor"
)

// notifyHaptics stands in for a vibration motor on the desktop: the pattern
// is logged and a notification is raised.
type notifyHaptics struct {
	app *WatchApp
}

func (h notifyHaptics) Vibrate(pattern []time.Duration) {
	sensor.LogHaptics{}.Vibrate(pattern)
	h.app.App.SendNotification(fyne.NewNotification(config.AppName, h.app.GetMsg(config.TKeyNotifVibrate)))
}
