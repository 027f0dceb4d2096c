package engine_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-wv58a/internal/engine"
)

// sampleAt builds a sample with a Monday date unless overridden.
func sampleAt(month, day, hour, minute, second int) engine.Sample {
	return engine.Sample{
		Year:    2025,
		Month:   month,
		Day:     day,
		Hour:    hour,
		Minute:  minute,
		Second:  second,
		Weekday: int(time.Monday),
	}
}

func TestDerive_AfternoonUSA2(t *testing.T) {
	cfg := engine.Config{DateFormat: engine.FormatUSA2}
	st := engine.Derive(sampleAt(7, 3, 14, 5, 0), false, cfg, engine.DefaultWeekdayNames())

	assert.Equal(t, " 2:05", st.Time, "12h hour is space padded")
	assert.True(t, st.PMVisible)
	assert.False(t, st.AMVisible)
	assert.Equal(t, " 7/ 3", st.DateText)
	assert.Equal(t, "00", st.Seconds)
	assert.Equal(t, "2025", st.Year)
	assert.Equal(t, "MON", st.Weekday)
}

func TestDerive_GermanNoBlanking(t *testing.T) {
	cfg := engine.Config{DateFormat: engine.FormatGER}
	st := engine.Derive(sampleAt(12, 5, 9, 0, 0), true, cfg, engine.DefaultWeekdayNames())

	assert.Equal(t, "05.12", st.DateText)
	assert.Equal(t, " 9:00", st.Time)
}

func TestDerive_IndicatorsExclusive(t *testing.T) {
	for hour := 0; hour < 24; hour++ {
		for minute := 0; minute < 60; minute++ {
			s := sampleAt(1, 1, hour, minute, 0)

			st12 := engine.Derive(s, false, engine.DefaultConfig(), engine.DefaultWeekdayNames())
			require.NotEqual(t, st12.AMVisible, st12.PMVisible, "exactly one of AM/PM at %02d:%02d", hour, minute)
			assert.Equal(t, hour <= 11, st12.AMVisible)

			st24 := engine.Derive(s, true, engine.DefaultConfig(), engine.DefaultWeekdayNames())
			require.False(t, st24.AMVisible || st24.PMVisible, "24h mode hides AM/PM at %02d:%02d", hour, minute)
		}
	}
}

func TestDerive_TimeStrings(t *testing.T) {
	tests := []struct {
		hour, minute int
		clock24h     bool
		want         string
	}{
		{0, 0, false, "12:00"},
		{0, 7, true, " 0:07"},
		{11, 59, false, "11:59"},
		{12, 0, false, "12:00"},
		{13, 30, false, " 1:30"},
		{23, 45, true, "23:45"},
		{23, 45, false, "11:45"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%02d%02d_%v", tt.hour, tt.minute, tt.clock24h), func(t *testing.T) {
			st := engine.Derive(sampleAt(1, 1, tt.hour, tt.minute, 0), tt.clock24h, engine.DefaultConfig(), engine.DefaultWeekdayNames())
			assert.Equal(t, tt.want, st.Time)
		})
	}
}

func TestFormatDate_Layouts(t *testing.T) {
	tests := []struct {
		name   string
		format engine.DateFormat
		month  int
		day    int
		want   string
	}{
		{"USA1 single digits", engine.FormatUSA1, 7, 3, " 7- 3"},
		{"USA1 two digit month", engine.FormatUSA1, 11, 3, "11- 3"},
		{"USA2 two digits", engine.FormatUSA2, 12, 25, "12/25"},
		{"ENG keeps zero", engine.FormatENG, 7, 3, "03/07"},
		{"GER keeps zero", engine.FormatGER, 12, 5, "05.12"},
		{"FRA keeps zero", engine.FormatFRA, 1, 9, "09-01"},
		{"Unknown falls back to USA1", engine.DateFormat(9), 7, 3, " 7- 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, engine.FormatDate(tt.month, tt.day, tt.format))
		})
	}
}

func TestFormatDate_USALeadingBlank(t *testing.T) {
	for _, f := range []engine.DateFormat{engine.FormatUSA1, engine.FormatUSA2} {
		for month := 1; month <= 9; month++ {
			for day := 1; day < 10; day++ {
				out := engine.FormatDate(month, day, f)
				assert.Equal(t, byte(' '), out[0], "%s %d/%d", f, month, day)
			}
		}
	}
}

func TestFormatDate_DayFirstNoSubstitution(t *testing.T) {
	for _, f := range []engine.DateFormat{engine.FormatENG, engine.FormatGER, engine.FormatFRA} {
		for day := 1; day < 10; day++ {
			out := engine.FormatDate(3, day, f)
			assert.Equal(t, byte('0'), out[0], "%s day %d", f, day)
		}
	}
}

func TestDerive_WeekdayUppercase(t *testing.T) {
	for wd := 0; wd < 7; wd++ {
		s := sampleAt(1, 1, 10, 0, 0)
		s.Weekday = wd

		st := engine.Derive(s, true, engine.DefaultConfig(), engine.DefaultWeekdayNames())
		require.Len(t, st.Weekday, 3)
		for _, r := range st.Weekday {
			assert.True(t, r >= 'A' && r <= 'Z', "weekday %d produced %q", wd, st.Weekday)
		}
	}
}

func TestDerive_WeekdayNonASCIIUntouched(t *testing.T) {
	names := engine.DefaultWeekdayNames()
	names[int(time.Thursday)] = "jéu"
	names[int(time.Friday)] = "Freitag"

	s := sampleAt(1, 1, 10, 0, 0)
	s.Weekday = int(time.Thursday)
	assert.Equal(t, "JéU", engine.Derive(s, true, engine.DefaultConfig(), names).Weekday)

	s.Weekday = int(time.Friday)
	assert.Equal(t, "FRE", engine.Derive(s, true, engine.DefaultConfig(), names).Weekday, "long names are cut to three letters")

	names[int(time.Saturday)] = ""
	s.Weekday = int(time.Saturday)
	assert.Equal(t, "SAT", engine.Derive(s, true, engine.DefaultConfig(), names).Weekday, "missing names fall back to English")
}

func TestDerive_ShouldVibrate(t *testing.T) {
	for _, enabled := range []bool{false, true} {
		cfg := engine.Config{VibrateHourly: enabled}
		for minute := 0; minute < 60; minute++ {
			st := engine.Derive(sampleAt(1, 1, 9, minute, 0), true, cfg, engine.DefaultWeekdayNames())
			assert.Equal(t, enabled && minute == 0, st.ShouldVibrate, "enabled=%v minute=%d", enabled, minute)
		}
	}
}

func TestDerive_DSTFollowsFlag(t *testing.T) {
	s := sampleAt(6, 1, 4, 0, 0)
	assert.False(t, engine.Derive(s, true, engine.DefaultConfig(), engine.DefaultWeekdayNames()).DSTVisible)

	s.IsDST = true
	assert.True(t, engine.Derive(s, true, engine.DefaultConfig(), engine.DefaultWeekdayNames()).DSTVisible)
}

func TestDerive_Idempotent(t *testing.T) {
	s := sampleAt(2, 28, 23, 59, 59)
	cfg := engine.Config{Invert: true, VibrateHourly: true, DateFormat: engine.FormatFRA}

	a := engine.Derive(s, false, cfg, engine.DefaultWeekdayNames())
	b := engine.Derive(s, false, cfg, engine.DefaultWeekdayNames())
	assert.Equal(t, a, b)
}

func TestNewSample_FromTime(t *testing.T) {
	ts := time.Date(2024, time.February, 29, 16, 4, 9, 0, time.UTC)
	s := engine.NewSample(ts)

	assert.Equal(t, engine.Sample{
		Year: 2024, Month: 2, Day: 29, Hour: 16, Minute: 4, Second: 9,
		Weekday: int(time.Thursday),
	}, s, "UTC never reports DST")
}

func TestRefreshRules(t *testing.T) {
	assert.True(t, engine.ShouldRefresh(sampleAt(1, 1, 8, 30, 0), false))
	assert.True(t, engine.ShouldRefresh(sampleAt(1, 1, 8, 30, 12), true))
	assert.False(t, engine.ShouldRefresh(sampleAt(1, 1, 8, 30, 12), false))

	assert.True(t, engine.ShouldCheckDST(sampleAt(1, 1, 4, 0, 0), false))
	assert.True(t, engine.ShouldCheckDST(sampleAt(1, 1, 5, 17, 0), true))
	assert.False(t, engine.ShouldCheckDST(sampleAt(1, 1, 5, 0, 0), false))
}
