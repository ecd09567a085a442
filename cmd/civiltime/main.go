// Command civiltime does calendar and time zone aware arithmetic on ISO
// 8601 strings, and lists the zones of the local zoneinfo database.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/tzlist/civiltime/config"
	"github.com/tzlist/civiltime/temporal"
	"github.com/tzlist/civiltime/timezone"
)

func main() {
	if err := newRootCommand(afero.NewOsFs()).Execute(); err != nil {
		Fatal("civiltime failed", "error", err)
	}
}

// Fatal logs at LevelFatal and exits.
func Fatal(msg string, args ...any) {
	slog.Log(context.Background(), config.LevelFatal, msg, args...)
	os.Exit(1)
}

var validFormats = []string{"text", "json", "yaml"}

// app is the state shared by every subcommand. It is filled in by the
// root command's PersistentPreRunE.
type app struct {
	fs         afero.Fs
	format     string
	configPath string
	logLevel   string
	zoneDirs   []string

	defaults config.Defaults
	db       *timezone.Database
}

func newRootCommand(fs afero.Fs) *cobra.Command {
	a := &app{fs: fs}
	cmd := &cobra.Command{
		Use:   "civiltime",
		Short: "Calendar and time zone aware date arithmetic",
		Long: `civiltime parses, adds, subtracts, compares and rounds ISO 8601 dates,
times, date-times, instants, zoned date-times and durations.

Values are written the way Temporal writes them, for example
  2024-03-10
  2024-03-10T01:30
  2024-03-10T01:30-08:00
  2024-03-10T01:30-08:00[America/Los_Angeles][u-ca=gregory]
  P1Y2M3DT4H5M6.789S`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&a.format, "format", "text", "output format (text|json|yaml)")
	pf.StringVarP(&a.logLevel, "loglevel", "l", "", "Set loglevel to trace, debug, info, warning, error or fatal")
	pf.StringVar(&a.configPath, "config", "", "YAML file with default settings")
	pf.StringSliceVar(&a.zoneDirs, "zoneinfo", nil, "zoneinfo directories searched in order")

	cmd.AddCommand(
		newParseCommand(a),
		newAddCommand(a, false),
		newAddCommand(a, true),
		newDifferenceCommand(a, false),
		newDifferenceCommand(a, true),
		newRoundCommand(a),
		newTotalCommand(a),
		newCompareCommand(a),
		newZonesCommand(a),
	)
	return cmd
}

func (a *app) setup(cmd *cobra.Command) error {
	if !slices.Contains(validFormats, a.format) {
		return fmt.Errorf("invalid format %q: must be one of %v", a.format, validFormats)
	}

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("reading configuration: %w", err)
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	if a.defaults, err = cfg.Defaults(); err != nil {
		return err
	}
	slog.SetLogLoggerLevel(a.defaults.LogLevel)

	dirs := cfg.ZoneDirs
	if cmd.Flags().Changed("zoneinfo") {
		dirs = a.zoneDirs
	}
	config.Trace("loading zone database", "dirs", dirs)
	a.db, err = timezone.LoadDatabase(a.fs, dirs...)
	return err
}

// parseOptions applies the --disambiguation and --offset flags of cmd,
// falling back to the configured defaults.
func (a *app) parseOptions(cmd *cobra.Command, v *valueFlags) temporal.ParseOptions {
	o := temporal.ParseOptions{
		Zones:          a.db,
		Disambiguation: a.defaults.Disambiguation,
		Offset:         a.defaults.Offset,
	}
	if v == nil {
		return o
	}
	f := cmd.Flags()
	if f.Changed("disambiguation") {
		o.Disambiguation = v.disambiguation
	}
	if f.Changed("offset") {
		o.Offset = v.offset
	}
	return o
}
