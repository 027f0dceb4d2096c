package engine

import (
	"fmt"
	"time"

	"github.com/tartampluch/go-wv58a/internal/config"
)

// DateFormat selects the layout of the day/month field.
type DateFormat int

const (
	FormatUSA1 DateFormat = iota // "MM-D"
	FormatUSA2                   // "MM/D"
	FormatENG                    // "DD/MM"
	FormatGER                    // "DD.MM"
	FormatFRA                    // "DD-MM"
)

// DefaultDateFormat is used when nothing has been persisted yet.
const DefaultDateFormat DateFormat = config.DefaultDateFormat

// DateFormats lists every recognized format in wire order.
var DateFormats = []DateFormat{FormatUSA1, FormatUSA2, FormatENG, FormatGER, FormatFRA}

// String returns the wire name of the format. Unknown values report as usa1,
// which is also how Derive lays them out.
func (f DateFormat) String() string {
	switch f {
	case FormatUSA2:
		return config.WireUSA2
	case FormatENG:
		return config.WireENG
	case FormatGER:
		return config.WireGER
	case FormatFRA:
		return config.WireFRA
	default:
		return config.WireUSA1
	}
}

// Valid reports whether f is one of the five known formats.
func (f DateFormat) Valid() bool {
	return f >= FormatUSA1 && f <= FormatFRA
}

// Config holds the three user preferences pushed from the phone.
type Config struct {
	Invert        bool
	VibrateHourly bool
	DateFormat    DateFormat
}

// DefaultConfig returns the configuration used when storage is empty.
func DefaultConfig() Config {
	return Config{
		Invert:        config.DefaultInvert,
		VibrateHourly: config.DefaultVibrateHourly,
		DateFormat:    DefaultDateFormat,
	}
}

// Sample is one wall-clock reading delivered by a tick.
type Sample struct {
	Year    int
	Month   int // 1-12
	Day     int // 1-31
	Hour    int // 0-23
	Minute  int
	Second  int
	Weekday int // 0 = Sunday

	// IsDST mirrors the host's daylight-saving flag. Some hosts never set it.
	IsDST bool
}

// NewSample converts t into a Sample in t's location.
func NewSample(t time.Time) Sample {
	return Sample{
		Year:    t.Year(),
		Month:   int(t.Month()),
		Day:     t.Day(),
		Hour:    t.Hour(),
		Minute:  t.Minute(),
		Second:  t.Second(),
		Weekday: int(t.Weekday()),
		IsDST:   t.IsDST(),
	}
}

// DisplayState is everything the face shows for one tick.
type DisplayState struct {
	Seconds       string
	Time          string
	AMVisible     bool
	PMVisible     bool
	DateText      string
	Weekday       string
	Year          string
	DSTVisible    bool
	ShouldVibrate bool
}

const weekdayLen = 3

// WeekdayNames holds the locale's three-letter abbreviations indexed from Sunday.
type WeekdayNames [7]string

// DefaultWeekdayNames returns the English abbreviations.
func DefaultWeekdayNames() WeekdayNames {
	return WeekdayNames(config.FallbackWeekdays)
}

// Derive computes the full display state for a sample. It is pure: identical
// inputs always produce identical output.
func Derive(s Sample, clock24h bool, cfg Config, names WeekdayNames) DisplayState {
	st := DisplayState{
		Seconds:       fmt.Sprintf("%02d", s.Second),
		DateText:      FormatDate(s.Month, s.Day, cfg.DateFormat),
		Weekday:       upcase(names.abbrev(s.Weekday)),
		Year:          fmt.Sprintf("%04d", s.Year),
		DSTVisible:    s.IsDST,
		ShouldVibrate: cfg.VibrateHourly && s.Minute == 0,
	}

	if clock24h {
		st.Time = fmt.Sprintf("%2d:%02d", s.Hour, s.Minute)
	} else {
		st.Time = fmt.Sprintf("%2d:%02d", hour12(s.Hour), s.Minute)
		st.AMVisible = s.Hour <= 11
		st.PMVisible = s.Hour >= 12
	}

	return st
}

// FormatDate lays out month and day per format. Only the two USA layouts
// blank a leading zero, and only in the first character.
func FormatDate(month, day int, f DateFormat) string {
	var out string
	switch f {
	case FormatUSA2:
		out = fmt.Sprintf("%02d/%2d", month, day)
	case FormatENG:
		out = fmt.Sprintf("%02d/%02d", day, month)
	case FormatGER:
		out = fmt.Sprintf("%02d.%02d", day, month)
	case FormatFRA:
		out = fmt.Sprintf("%02d-%02d", day, month)
	default:
		out = fmt.Sprintf("%02d-%2d", month, day)
	}

	if (f == FormatUSA1 || f == FormatUSA2) && out[0] == '0' {
		out = " " + out[1:]
	}
	return out
}

// ShouldRefresh reports whether the minute-level fields must be recomputed.
func ShouldRefresh(s Sample, minuteChanged bool) bool {
	return s.Second == 0 || minuteChanged
}

// ShouldCheckDST reports whether the DST mark must be re-evaluated.
func ShouldCheckDST(s Sample, minuteChanged bool) bool {
	return (s.Hour == config.DSTCheckHour && s.Minute == 0) || minuteChanged
}

func hour12(h int) int {
	h %= 12
	if h == 0 {
		return 12
	}
	return h
}

func (n WeekdayNames) abbrev(wd int) string {
	if wd < 0 || wd > 6 {
		wd = ((wd % 7) + 7) % 7
	}
	name := n[wd]
	if name == "" {
		name = config.FallbackWeekdays[wd]
	}
	if r := []rune(name); len(r) > weekdayLen {
		name = string(r[:weekdayLen])
	}
	return name
}

// upcase maps ASCII lowercase letters to uppercase and leaves every other
// byte untouched, so accented abbreviations keep their lowercase accents.
func upcase(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - ('a' - 'A')
		}
	}
	return string(b)
}
