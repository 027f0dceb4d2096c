package sensor

import (
	"context"
	"log/slog"
	"time"

	"github.com/tartampluch/go-wv58a/internal/config"
	"github.com/tartampluch/go-wv58a/internal/engine"
)

// BatterySource yields battery samples.
type BatterySource interface {
	Read(ctx context.Context) (engine.BatteryState, error)
}

// LinkSource yields the Bluetooth connection state.
type LinkSource interface {
	Connected(ctx context.Context) (bool, error)
}

// Poller samples both sources and reports changes. The first poll always
// reports, so subscribers start from a known state.
type Poller struct {
	Battery  BatterySource
	Link     LinkSource
	Interval time.Duration

	OnBattery func(engine.BatteryState)
	OnLink    func(connected bool)

	polled    bool
	battery   engine.BatteryState
	connected bool
}

// Run polls immediately, then every Interval until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) {
	interval := p.Interval
	if interval <= 0 {
		interval = config.SensorPollInterval
	}

	p.Poll(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Poll(ctx)
		}
	}
}

// Poll runs one sampling round. Not safe for concurrent use.
func (p *Poller) Poll(ctx context.Context) {
	first := !p.polled
	p.polled = true

	if p.Battery != nil {
		b, err := p.Battery.Read(ctx)
		if err != nil {
			slog.Warn(config.ErrBatteryRead,
				config.LogKeyComponent, config.CompSensor,
				config.LogKeyError, err,
			)
		}
		if first || b != p.battery {
			p.battery = b
			slog.Debug(config.MsgBatteryChanged,
				config.LogKeyComponent, config.CompSensor,
				config.LogKeyPercent, b.Percent,
				config.LogKeyCharging, b.Charging,
			)
			if p.OnBattery != nil {
				p.OnBattery(b)
			}
		}
	}

	if p.Link != nil {
		c, err := p.Link.Connected(ctx)
		if err != nil {
			slog.Debug(config.ErrLinkRead,
				config.LogKeyComponent, config.CompSensor,
				config.LogKeyError, err,
			)
			c = false
		}
		if first || c != p.connected {
			p.connected = c
			slog.Debug(config.MsgLinkChanged,
				config.LogKeyComponent, config.CompSensor,
				config.LogKeyConnected, c,
			)
			if p.OnLink != nil {
				p.OnLink(c)
			}
		}
	}
}
