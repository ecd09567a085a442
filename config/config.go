// Package config holds the settings of the civiltime command: where the
// zone database lives and the defaults applied when a flag is not given.
package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/tzlist/civiltime/calendar"
	"github.com/tzlist/civiltime/duration"
	"github.com/tzlist/civiltime/isostring"
	"github.com/tzlist/civiltime/temporal"
	"github.com/tzlist/civiltime/timezone"
)

const (
	LevelTrace = timezone.LevelTrace
	LevelFatal = slog.Level(12)
)

// Config is read from an optional YAML file and then from CIVILTIME_*
// environment variables, which win.
type Config struct {
	ZoneDirs       []string `yaml:"zoneinfo" env:"CIVILTIME_ZONEINFO" env-separator:":" env-default:"/usr/share/zoneinfo:/usr/share/lib/zoneinfo:/usr/lib/locale/TZ"`
	Overflow       string   `yaml:"overflow" env:"CIVILTIME_OVERFLOW" env-default:"constrain"`
	Disambiguation string   `yaml:"disambiguation" env:"CIVILTIME_DISAMBIGUATION" env-default:"compatible"`
	Offset         string   `yaml:"offset" env:"CIVILTIME_OFFSET" env-default:"reject"`
	RoundingMode   string   `yaml:"roundingMode" env:"CIVILTIME_ROUNDING_MODE"`
	CalendarName   string   `yaml:"calendarName" env:"CIVILTIME_CALENDAR_NAME" env-default:"auto"`
	LogLevel       string   `yaml:"loglevel" env:"CIVILTIME_LOGLEVEL" env-default:"info"`
}

// Defaults are the typed form of a Config.
type Defaults struct {
	Overflow       calendar.Overflow
	Disambiguation timezone.Disambiguation
	Offset         temporal.OffsetOption
	RoundingMode   duration.RoundingMode
	CalendarName   isostring.CalendarName
	LogLevel       slog.Level
}

// Load reads path, when it is not empty, and the environment.
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		err := cleanenv.ReadEnv(&cfg)
		return cfg, err
	}
	err := cleanenv.ReadConfig(path, &cfg)
	return cfg, err
}

// Defaults checks every setting and returns the typed values.
func (c Config) Defaults() (Defaults, error) {
	var d Defaults
	var err, errs error
	if d.Overflow, err = calendar.ParseOverflow(c.Overflow); err != nil {
		errs = errors.Join(errs, err)
	}
	if d.Disambiguation, err = timezone.ParseDisambiguation(c.Disambiguation); err != nil {
		errs = errors.Join(errs, err)
	}
	if d.Offset, err = temporal.ParseOffsetOption(c.Offset); err != nil {
		errs = errors.Join(errs, err)
	}
	if c.RoundingMode != "" {
		if d.RoundingMode, err = duration.ParseRoundingMode(c.RoundingMode); err != nil {
			errs = errors.Join(errs, err)
		}
	}
	if d.CalendarName, err = isostring.ParseCalendarName(c.CalendarName); err != nil {
		errs = errors.Join(errs, err)
	}
	if d.LogLevel, err = ParseLogLevel(c.LogLevel); err != nil {
		errs = errors.Join(errs, err)
	}
	return d, errs
}

// ParseLogLevel accepts any prefix of trace, debug, info, warning, error
// or fatal.
func ParseLogLevel(value string) (slog.Level, error) {
	lv := strings.ToLower(value)
	switch {
	case lv == "":
	case strings.HasPrefix("trace", lv):
		return LevelTrace, nil
	case strings.HasPrefix("debug", lv):
		return slog.LevelDebug, nil
	case strings.HasPrefix("info", lv):
		return slog.LevelInfo, nil
	case strings.HasPrefix("warning", lv):
		return slog.LevelWarn, nil
	case strings.HasPrefix("error", lv):
		return slog.LevelError, nil
	case strings.HasPrefix("fatal", lv):
		return LevelFatal, nil
	}
	return slog.LevelInfo, fmt.Errorf("loglevel %q must be a prefix of trace, debug, info, warning, error or fatal", value)
}

// Trace logs below Debug.
func Trace(msg string, args ...any) {
	slog.Log(context.Background(), LevelTrace, msg, args...)
}
