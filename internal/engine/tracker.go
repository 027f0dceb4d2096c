package engine

// Tracker applies the per-tick refresh rules on top of Derive: seconds change
// every tick, the minute-level fields only on a minute boundary, the DST mark
// at 04:00 or on a boundary. It keeps the last shown state between ticks.
//
// A Tracker is not safe for concurrent use; the tick loop owns it.
type Tracker struct {
	shown      DisplayState
	lastMinute int
	started    bool
	refreshed  bool
}

// Update folds one tick into the shown state. force behaves like a minute
// rollover and is used after a configuration change or on startup. The
// returned bool is true when the hourly vibration must fire on this tick,
// which only happens on a refresh tick during minute 0.
func (t *Tracker) Update(s Sample, force bool, clock24h bool, cfg Config, names WeekdayNames) (DisplayState, bool) {
	minuteChanged := force || !t.started || s.Minute != t.lastMinute
	t.started = true
	t.lastMinute = s.Minute

	next := Derive(s, clock24h, cfg, names)
	t.shown.Seconds = next.Seconds

	vibrate := false
	t.refreshed = ShouldRefresh(s, minuteChanged)
	if t.refreshed {
		t.shown.Time = next.Time
		t.shown.AMVisible = next.AMVisible
		t.shown.PMVisible = next.PMVisible
		t.shown.DateText = next.DateText
		t.shown.Weekday = next.Weekday
		t.shown.Year = next.Year

		if ShouldCheckDST(s, minuteChanged) {
			t.shown.DSTVisible = next.DSTVisible
		}

		vibrate = next.ShouldVibrate
	}
	t.shown.ShouldVibrate = vibrate

	return t.shown, vibrate
}

// Shown returns the state produced by the last Update.
func (t *Tracker) Shown() DisplayState {
	return t.shown
}

// Refreshed reports whether the last Update rewrote the minute-level fields.
func (t *Tracker) Refreshed() bool {
	return t.refreshed
}
