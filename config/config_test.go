package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tzlist/civiltime/calendar"
	"github.com/tzlist/civiltime/duration"
	"github.com/tzlist/civiltime/isostring"
	"github.com/tzlist/civiltime/temporal"
	"github.com/tzlist/civiltime/timezone"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, []string{"/usr/share/zoneinfo", "/usr/share/lib/zoneinfo", "/usr/lib/locale/TZ"}, cfg.ZoneDirs)

	d, err := cfg.Defaults()
	require.NoError(t, err)
	assert.Equal(t, Defaults{
		Overflow:       calendar.Constrain,
		Disambiguation: timezone.Compatible,
		Offset:         temporal.OffsetReject,
		RoundingMode:   duration.ModeUnset,
		CalendarName:   isostring.CalendarAuto,
		LogLevel:       slog.LevelInfo,
	}, d)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "civiltime.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`zoneinfo:
  - /opt/zoneinfo
overflow: reject
disambiguation: later
roundingMode: halfEven
calendarName: always
loglevel: deb
`), 0o644))
	t.Setenv("CIVILTIME_OFFSET", "prefer")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"/opt/zoneinfo"}, cfg.ZoneDirs)

	d, err := cfg.Defaults()
	require.NoError(t, err)
	assert.Equal(t, calendar.Reject, d.Overflow)
	assert.Equal(t, timezone.Later, d.Disambiguation)
	assert.Equal(t, temporal.OffsetPrefer, d.Offset)
	assert.Equal(t, duration.HalfEven, d.RoundingMode)
	assert.Equal(t, isostring.CalendarAlways, d.CalendarName)
	assert.Equal(t, slog.LevelDebug, d.LogLevel)
}

func TestEnvZoneDirs(t *testing.T) {
	t.Setenv("CIVILTIME_ZONEINFO", "/a:/b")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, []string{"/a", "/b"}, cfg.ZoneDirs)
}

func TestDefaultsErrors(t *testing.T) {
	cfg := Config{
		Overflow:       "wrap",
		Disambiguation: "compatible",
		Offset:         "reject",
		RoundingMode:   "up",
		CalendarName:   "auto",
		LogLevel:       "loud",
	}
	_, err := cfg.Defaults()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "wrap")
	assert.Contains(t, err.Error(), "up")
	assert.Contains(t, err.Error(), "loud")
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"t", LevelTrace},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"e", slog.LevelError},
		{"fatal", LevelFatal},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLogLevel(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"", "verbose", "informational"} {
		_, err := ParseLogLevel(bad)
		assert.Error(t, err, bad)
	}
}
