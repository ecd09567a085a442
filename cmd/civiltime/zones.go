package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/tzlist/civiltime/instant"
	"github.com/tzlist/civiltime/iso"
	"github.com/tzlist/civiltime/posix/tzposix"
	"github.com/tzlist/civiltime/timezone"
)

// zoneJSON is the zone record written by --json, for schedulers that only
// need the current rules of every zone.
type zoneJSON struct {
	Name    string   `json:"Name,omitempty" yaml:"name,omitempty"`
	HasDst  bool     `json:"HasDst" yaml:"hasDst"`
	Std     string   `json:"Std" yaml:"std"`
	Dst     string   `json:"Dst,omitempty" yaml:"dst,omitempty"`
	Aliases []string `json:"Aliases,omitempty" yaml:"aliases,omitempty"`
	Rules   string   `json:"Rules,omitempty" yaml:"rules,omitempty"`
}

type zoneInfo struct {
	name    string
	aliases []string
	hasDST  bool
	extend  string
}

type zonesOptions struct {
	year   int
	layout string
	file   string
}

func newZonesCommand(a *app) *cobra.Command {
	o := &zonesOptions{}
	cmd := &cobra.Command{
		Use:   "zones [NAME...]",
		Short: "List the zones of the zoneinfo database",
		Long: `List every zone of the zoneinfo database, or the named ones, with its
aliases and the POSIX rule that extends it past its last transition.

--json writes the zones as JSON to a file instead (zones.json when no name
is given), either as a list ("slices") or keyed by name ("objects").`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runZones(cmd, o, args)
		},
	}
	f := cmd.Flags()
	f.IntVar(&o.year, "year", time.Now().Year(), "year whose January and July offsets decide DST")
	f.StringVar(&o.layout, "layout", "slices", "JSON layout (slices|objects)")
	f.StringVarP(&o.file, "json", "j", "", "write the zones as JSON to this file")
	f.Lookup("json").NoOptDefVal = "zones.json"
	return cmd
}

func (a *app) runZones(cmd *cobra.Command, o *zonesOptions, names []string) error {
	if o.layout != "slices" && o.layout != "objects" {
		return fmt.Errorf("invalid layout %q: must be slices or objects", o.layout)
	}
	if len(names) == 0 {
		names = a.db.IDs()
	}

	w := cmd.OutOrStdout()
	var zones []zoneInfo
	for _, name := range names {
		z, ok, err := a.zoneInfo(name, o.year)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintf(w, "Missing zone %s\n", name)
			continue
		}
		zones = append(zones, z)
	}

	if o.file != "" {
		data, err := json.MarshalIndent(schedulerJSON(zones, o.layout), "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling zones: %w", err)
		}
		if err := afero.WriteFile(a.fs, o.file, data, 0o644); err != nil {
			return fmt.Errorf("writing zones: %w", err)
		}
		fmt.Fprintf(w, "Successfully wrote JSON data to %s\n", o.file)
		return nil
	}
	return a.write(w, schedulerJSON(zones, o.layout), func(w io.Writer) error {
		return listZones(w, zones)
	})
}

// zoneInfo looks name up and decides whether it observes DST in year by
// comparing its January and July offsets.
func (a *app) zoneInfo(name string, year int) (zoneInfo, bool, error) {
	tz, err := a.db.Resolve(name)
	if err != nil {
		return zoneInfo{}, false, nil
	}
	id := tz.ID()
	if z, ok := tz.(*timezone.Zone); ok {
		id = z.Canonical()
	}
	info := zoneInfo{name: id, aliases: a.db.Aliases(id)}
	if loc, ok := a.db.Location(id); ok {
		info.extend = loc.Extend()
	}

	var offsets [2]int64
	for i, month := range []int{1, 7} {
		at, err := instant.FromDateTime(iso.DateTime{Date: iso.Date{Year: year, Month: month, Day: 1}}, 0)
		if err != nil {
			return zoneInfo{}, false, err
		}
		if offsets[i], err = timezone.OffsetFor(tz, at); err != nil {
			return zoneInfo{}, false, err
		}
	}
	info.hasDST = offsets[0] != offsets[1]
	return info, true, nil
}

func supportsDST(hasDST bool) string {
	if hasDST {
		return "yes"
	}
	return "no"
}

func listZones(w io.Writer, zones []zoneInfo) error {
	keylen := 0
	for _, z := range zones {
		keylen = max(keylen, len(z.name))
	}
	keylen += 3 // for output spacing
	slog.Info("Statistics", "numKeys", len(zones), "keylen", keylen)

	numAliases := 0
	for _, z := range zones {
		if _, err := fmt.Fprintf(w, "%-*s DST: %-3s %+v Extend %s\n", keylen, z.name, supportsDST(z.hasDST), z.aliases, z.extend); err != nil {
			return err
		}
		if z.extend != "" {
			description, err := tzposix.HumanReadableTZ(z.extend)
			if err != nil {
				slog.Error("HumanReadableTZ failure", "extend", z.extend, "error", err)
			} else if _, err := fmt.Fprintln(w, description); err != nil {
				return err
			}
		}
		numAliases += len(z.aliases)
	}
	slog.Info("Statistics", "zoneinfos", len(zones), "aliases", numAliases, "total", len(zones)+numAliases)
	return nil
}

// schedulerJSON returns the zones as a []zoneJSON, or for the objects
// layout as a map keyed by zone name.
func schedulerJSON(zones []zoneInfo, layout string) any {
	list := make([]zoneJSON, 0, len(zones))
	objects := make(map[string]zoneJSON, len(zones))
	for _, z := range zones {
		var std, dst, rules string
		if z.extend != "" {
			var err error
			if std, dst, rules, err = tzposix.DecodeTZ(z.extend); err != nil {
				slog.Error("DecodeTZ failure", "TZ", z.extend, "error", err)
			}
		}
		zj := zoneJSON{HasDst: z.hasDST, Std: std, Dst: dst, Aliases: z.aliases, Rules: rules}
		if layout == "objects" {
			objects[z.name] = zj
			continue
		}
		zj.Name = z.name
		list = append(list, zj)
	}
	if layout == "objects" {
		return objects
	}
	return list
}
