package ui

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/go-wv58a/internal/bridge"
	"github.com/tartampluch/go-wv58a/internal/config"
	"github.com/tartampluch/go-wv58a/internal/engine"
	"github.com/tartampluch/go-wv58a/internal/metrics"
	"github.com/tartampluch/go-wv58a/internal/render"
	"github.com/tartampluch/go-wv58a/internal/sensor"
	"github.com/tartampluch/go-wv58a/internal/server"
)

// WatchApp encapsulates the face window, preferences and the tick loop.
type WatchApp struct {
	App            fyne.App
	Window         fyne.Window
	SettingsWindow fyne.Window
	Preferences    fyne.Preferences
	I18nBundle     *i18n.Bundle
	Localizer      *i18n.Localizer // guarded by i18nMu
	Ctx            context.Context

	Settings *engine.Settings
	Clock    engine.Clock
	Style    engine.ClockStyle
	Haptics  sensor.Haptics
	Metrics  *metrics.PrometheusRecorder

	// Optional collaborators, nil when disabled.
	Server *server.WatchServer
	Bridge *bridge.Subscriber
	Poller *sensor.Poller

	Tray desktop.App
	Menu *fyne.Menu

	TrayShowItem     *fyne.MenuItem
	TraySettingsItem *fyne.MenuItem

	SupportedLanguages []string
	refreshChan        chan struct{}
	face               *canvas.Image

	i18nMu sync.RWMutex

	// Face state, owned by the tick loop but also touched by sensor callbacks.
	mu        sync.Mutex
	tracker   engine.Tracker
	weekdays  engine.WeekdayNames
	battery   engine.BatteryState
	connected bool
}

// NewWatchApp constructs the application on top of a fyne app.
func NewWatchApp(a fyne.App, ctx context.Context, rec *metrics.PrometheusRecorder) *WatchApp {
	app := &WatchApp{
		App:                a,
		Preferences:        a.Preferences(),
		Ctx:                ctx,
		Settings:           engine.NewSettings(a.Preferences()),
		Clock:              engine.RealClock{},
		Style:              prefClockStyle{prefs: a.Preferences()},
		Metrics:            rec,
		SupportedLanguages: config.SupportedLanguages,
		refreshChan:        make(chan struct{}, config.ChannelBufferSize),
		weekdays:           engine.DefaultWeekdayNames(),
		battery:            engine.BatteryState{Percent: config.BatteryFullPercent},
	}
	app.Haptics = notifyHaptics{app: app}

	app.face = canvas.NewImageFromImage(image.NewGray(render.Bounds()))
	app.face.ScaleMode = canvas.ImageScalePixels
	app.face.FillMode = canvas.ImageFillContain
	app.face.SetMinSize(fyne.NewSize(
		float32(config.CanvasWidth*config.WindowScale),
		float32(config.CanvasHeight*config.WindowScale),
	))

	app.Settings.OnChange(func(engine.Config) { app.RequestRefresh() })
	return app
}

// Run launches the services and the main UI loop.
func (app *WatchApp) Run() {
	app.SetupI18n()
	app.setIcon()

	if app.Server != nil {
		app.Server.SetToken(app.PairingToken())
		go func() {
			if err := app.Server.Start(app.Ctx); err != nil {
				slog.Error(config.ErrServerStartup,
					config.LogKeyError, err,
					config.LogKeyComponent, config.CompUI)

				app.App.SendNotification(fyne.NewNotification(
					config.TitleStartupError,
					fmt.Sprintf(config.MsgPortBusy, app.Server.Port)))
			}
		}()
	}

	if app.Bridge != nil {
		go func() {
			if err := app.Bridge.Run(app.Ctx); err != nil {
				slog.Error(config.ErrNATSConnect,
					config.LogKeyError, err,
					config.LogKeyComponent, config.CompUI)
			}
		}()
	}

	if app.Poller != nil {
		app.Poller.OnBattery = app.setBattery
		app.Poller.OnLink = app.setConnected
		go app.Poller.Run(app.Ctx)
	}

	if desk, ok := app.App.(desktop.App); ok {
		app.Tray = desk
		app.Tray.SetSystemTrayIcon(app.App.Icon())
		app.setupTrayMenu()
	} else {
		slog.Warn(config.ErrTrayUnsupported,
			config.LogKeyComponent, config.CompUI)
	}

	app.ShowFaceWindow()
	go app.tickLoop()
	app.App.Run()
}

// ApplyMessage is the single entry point for configuration messages, whatever
// transport carried them.
func (app *WatchApp) ApplyMessage(transport string, msg engine.Message) engine.Config {
	cfg, applied := app.Settings.Apply(msg)
	slog.Info(config.MsgConfigApplied,
		config.LogKeyComponent, config.CompUI,
		config.LogKeyTransport, transport,
		config.LogKeyApplied, applied,
	)
	return cfg
}

// RequestRefresh asks the tick loop for a full redraw on its next wakeup.
// Settings.OnChange is the only caller, so one applied message is one
// forced tick.
func (app *WatchApp) RequestRefresh() {
	select {
	case app.refreshChan <- struct{}{}:
	default:
	}
}

// setIcon uses a rendered face as the application and tray icon.
func (app *WatchApp) setIcon() {
	frame := render.Frame{State: engine.Derive(engine.NewSample(app.Clock.Now()), app.clock24h(), engine.DefaultConfig(), app.weekdays)}
	data, err := render.EncodePNG(render.Render(frame))
	if err != nil {
		slog.Warn(config.ErrEncodePNG, config.LogKeyComponent, config.CompUI, config.LogKeyError, err)
		return
	}
	app.App.SetIcon(fyne.NewStaticResource(config.IconFile, data))
}

// ShowFaceWindow opens the watch face, or focuses it when already open.
func (app *WatchApp) ShowFaceWindow() {
	if app.Window != nil {
		app.Window.RequestFocus()
		return
	}

	w := app.App.NewWindow(app.GetMsg(config.TKeyWinTitle))
	app.Window = w
	w.SetContent(app.face)
	w.SetFixedSize(true)
	w.SetOnClosed(func() { app.Window = nil })
	w.Show()
}

// setupTrayMenu constructs the system tray menu.
func (app *WatchApp) setupTrayMenu() {
	app.TrayShowItem = fyne.NewMenuItem(app.GetMsg(config.TKeyMenuShow), func() {
		app.ShowFaceWindow()
	})
	app.TraySettingsItem = fyne.NewMenuItem(app.GetMsg(config.TKeyMenuSettings), func() {
		app.ShowSettingsWindow()
	})

	app.Menu = fyne.NewMenu(config.AppName,
		app.TrayShowItem,
		fyne.NewMenuItemSeparator(),
		app.TraySettingsItem,
	)

	if app.Tray != nil {
		app.Tray.SetSystemTrayMenu(app.Menu)
	}
}

// RefreshTrayMenu updates localized labels in the tray menu.
func (app *WatchApp) RefreshTrayMenu() {
	if app.Menu == nil {
		return
	}
	app.TrayShowItem.Label = app.GetMsg(config.TKeyMenuShow)
	app.TraySettingsItem.Label = app.GetMsg(config.TKeyMenuSettings)
	app.Menu.Refresh()
}

// tickLoop drives the face once per second, aligned to the wall clock.
func (app *WatchApp) tickLoop() {
	log := slog.With(config.LogKeyComponent, config.CompTicker)

	app.tick(true)

	now := app.Clock.Now()
	align := time.NewTimer(now.Truncate(time.Second).Add(time.Second).Sub(now))
	select {
	case <-app.Ctx.Done():
		align.Stop()
		log.Info(config.MsgTickerStop)
		return
	case <-align.C:
	}

	ticker := time.NewTicker(config.TickInterval)
	defer ticker.Stop()

	log.Info(config.MsgTickerStart)
	app.tick(false)

	for {
		select {
		case <-app.Ctx.Done():
			log.Info(config.MsgTickerStop)
			return

		case <-app.refreshChan:
			app.tick(true)

		case <-ticker.C:
			app.tick(false)
		}
	}
}

// tick samples the clock, updates the shown state and redraws.
func (app *WatchApp) tick(force bool) {
	cfg := app.Settings.Current()
	clock24h := app.clock24h()
	sample := engine.NewSample(app.Clock.Now())

	app.mu.Lock()
	st, vibrate := app.tracker.Update(sample, force, clock24h, cfg, app.weekdays)
	refreshed := app.tracker.Refreshed()
	frame := render.Frame{
		State:     st,
		Battery:   app.battery,
		Connected: app.connected,
		Invert:    cfg.Invert,
	}
	app.mu.Unlock()

	app.Metrics.IncTick()
	if refreshed {
		app.Metrics.IncRefresh()
	}
	if vibrate {
		app.Metrics.IncVibration()
		app.Haptics.Vibrate(config.VibePattern)
	}

	app.draw(frame)
}

// draw renders frame to the window and publishes it to the server.
func (app *WatchApp) draw(frame render.Frame) {
	img := render.Render(frame)

	if app.Server != nil {
		if data, err := render.EncodePNG(img); err == nil {
			app.Server.UpdateFace(data)
		} else {
			slog.Warn(config.ErrEncodePNG, config.LogKeyComponent, config.CompUI, config.LogKeyError, err)
		}
	}

	fyne.Do(func() {
		app.face.Image = img
		app.face.Refresh()
	})
}

// Shown returns the state currently on the face.
func (app *WatchApp) Shown() engine.DisplayState {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.tracker.Shown()
}

func (app *WatchApp) clock24h() bool {
	return app.Style.Is24h()
}

// prefClockStyle reads the clock style from the preferences on every call.
type prefClockStyle struct {
	prefs fyne.Preferences
}

func (p prefClockStyle) Is24h() bool {
	return p.prefs.BoolWithFallback(config.PrefClock24h, config.DefaultClock24h)
}

func (app *WatchApp) setBattery(b engine.BatteryState) {
	app.mu.Lock()
	app.battery = b
	app.mu.Unlock()
	app.Metrics.SetBattery(b.Percent, b.Charging)
}

func (app *WatchApp) setConnected(c bool) {
	app.mu.Lock()
	app.connected = c
	app.mu.Unlock()
	app.Metrics.SetLinkConnected(c)
}
