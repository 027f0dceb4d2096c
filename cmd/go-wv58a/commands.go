package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"fyne.io/fyne/v2/app"
	"github.com/tartampluch/go-wv58a/internal/bridge"
	"github.com/tartampluch/go-wv58a/internal/config"
	"github.com/tartampluch/go-wv58a/internal/engine"
	"github.com/tartampluch/go-wv58a/internal/metrics"
	"github.com/tartampluch/go-wv58a/internal/render"
	"github.com/tartampluch/go-wv58a/internal/sensor"
	"github.com/tartampluch/go-wv58a/internal/server"
	"github.com/tartampluch/go-wv58a/internal/ui"
)

// RunCmd shows the face and wires every configuration transport into it.
type RunCmd struct {
	Listen          string `help:"${help_listen}" default:"${default_listen}"`
	Port            string `help:"${help_port}"`
	NATSURL         string `name:"nats-url" help:"${help_nats_url}"`
	NATSSubject     string `name:"nats-subject" help:"${help_nats_subj}" default:"${default_subject}"`
	PowerSupplyRoot string `help:"${help_power_root}" default:"${default_root}" type:"path"`
}

// Run initializes the Fyne application, wires dependencies, and starts the UI loop.
func (c *RunCmd) Run(rc *runContext) error {
	a := app.NewWithID(config.AppID)

	// Record the version for potential migration logic in future updates.
	a.Preferences().SetString(config.PrefLastRun, config.Version)

	rec := metrics.NewPrometheusRecorder(nil)
	gui := ui.NewWatchApp(a, rc.Ctx, rec)

	port := c.Port
	if port == "" {
		port = a.Preferences().StringWithFallback(config.PrefServerPort, config.DefaultPort)
	}
	gui.Server = server.NewWatchServer(c.Listen, port, func(msg engine.Message) {
		gui.ApplyMessage(config.TransportHTTP, msg)
	}, rec)

	if c.NATSURL != "" {
		gui.Bridge = bridge.NewSubscriber(c.NATSURL, c.NATSSubject, func(msg engine.Message) {
			gui.ApplyMessage(config.TransportNATS, msg)
		}, rec)
	}

	link := sensor.NewLinkReader()
	defer func() { _ = link.Close() }()
	gui.Poller = &sensor.Poller{
		Battery:  sensor.NewBatteryReader(c.PowerSupplyRoot),
		Link:     link,
		Interval: config.SensorPollInterval,
	}

	// Lifecycle Bridge:
	// Watch for context cancellation to quit the UI gracefully.
	go func() {
		<-rc.Ctx.Done()
		slog.Info(config.MsgCtxCancel, config.LogKeyComponent, config.CompMain)
		a.Quit()
	}()

	// Blocks until the app quits.
	gui.Run()

	return nil
}

// RenderCmd draws one face headlessly.
type RenderCmd struct {
	Out       string `short:"o" help:"${help_out}" default:"${default_out}" type:"path"`
	At        string `help:"${help_at}"`
	Format    string `help:"${help_format}" default:"${default_format}" enum:"${formats}"`
	Invert    bool   `help:"${help_invert}"`
	Clock24h  bool   `name:"24h" help:"${help_24h}"`
	Battery   int    `help:"${help_battery}" default:"${default_battery}"`
	Charging  bool   `help:"${help_charging}"`
	Connected bool   `help:"${help_connected}"`
}

// Run renders the face for the requested instant and writes it as PNG.
func (c *RenderCmd) Run(_ *runContext) error {
	at, err := c.instant()
	if err != nil {
		return err
	}

	cfg := engine.Config{
		Invert:     c.Invert,
		DateFormat: engine.ParseDateFormat(c.Format),
	}
	frame := render.Frame{
		State:     engine.Derive(engine.NewSample(at), engine.FixedStyle(c.Clock24h).Is24h(), cfg, engine.DefaultWeekdayNames()),
		Battery:   engine.BatteryState{Percent: c.Battery, Charging: c.Charging},
		Connected: c.Connected,
		Invert:    cfg.Invert,
	}

	data, err := render.EncodePNG(render.Render(frame))
	if err != nil {
		return err
	}
	if err := os.WriteFile(c.Out, data, config.FilePermPublicR); err != nil {
		return fmt.Errorf("%s: %w", config.ErrWritePNG, err)
	}

	slog.Info(config.MsgRendered,
		config.LogKeyComponent, config.CompRender,
		config.LogKeyFile, c.Out,
		config.LogKeyTime, at.Format(time.RFC3339),
	)
	return nil
}

func (c *RenderCmd) instant() (time.Time, error) {
	if c.At == "" {
		return time.Now(), nil
	}
	at, err := time.Parse(time.RFC3339, c.At)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", config.ErrParseTime, err)
	}
	return at, nil
}

// PushCmd plays the phone: it sends all three options to a running face.
type PushCmd struct {
	URL         string `help:"${help_url}" default:"${default_url}"`
	Token       string `help:"${help_token}" env:"WV58A_TOKEN"`
	NATSURL     string `name:"nats-url" help:"${help_nats_url}"`
	NATSSubject string `name:"nats-subject" help:"${help_nats_subj}" default:"${default_subject}"`
	Format      string `help:"${help_format}" default:"${default_format}" enum:"${formats}"`
	Invert      bool   `help:"${help_invert}"`
	Vibrate     bool   `help:"${help_vibrate}"`
}

// Run sends the message over NATS when a URL is given, else over HTTP.
func (c *PushCmd) Run(rc *runContext) error {
	ctx, cancel := context.WithTimeout(rc.Ctx, config.HTTPTimeout)
	defer cancel()
	return c.pusher().Push(ctx, c.message())
}

func (c *PushCmd) message() engine.Message {
	return engine.MessageFromConfig(engine.Config{
		Invert:        c.Invert,
		VibrateHourly: c.Vibrate,
		DateFormat:    engine.ParseDateFormat(c.Format),
	})
}

func (c *PushCmd) pusher() engine.ConfigPusher {
	if c.NATSURL != "" {
		return &bridge.Publisher{URL: c.NATSURL, Subject: c.NATSSubject}
	}
	return engine.NewHTTPPusher(c.URL, c.Token)
}

// VersionCmd prints build information.
type VersionCmd struct{}

// Run prints the version line.
func (VersionCmd) Run(_ *runContext) error {
	printVersion(os.Stdout)
	return nil
}
