package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tzlist/civiltime/duration"
	"github.com/tzlist/civiltime/temporal"
)

func newParseCommand(a *app) *cobra.Command {
	v := &valueFlags{}
	cmd := &cobra.Command{
		Use:   "parse VALUE",
		Short: "Read a value and show its fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			val, err := parseValue(args[0], a.parseOptions(cmd, v))
			if err != nil {
				return err
			}
			r, err := a.valueResult(val)
			if err != nil {
				return err
			}
			if r.Fields, err = val.fields(); err != nil {
				return err
			}
			return a.writeResult(cmd.OutOrStdout(), r)
		},
	}
	addValueFlags(cmd, v)
	return cmd
}

func newAddCommand(a *app, subtract bool) *cobra.Command {
	v := &valueFlags{}
	var relativeTo string
	cmd := &cobra.Command{
		Use:   "add VALUE DURATION",
		Short: "Add a duration to a value",
		Long: `Add a duration to a date, time, date-time, instant, zoned date-time or
another duration. Calendar units in a sum of durations need --relative-to.
Put -- before a negative duration.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			o := a.parseOptions(cmd, v)
			vs, err := parseValues(args, o)
			if err != nil {
				return err
			}
			if vs[1].kind != kindDuration {
				return fmt.Errorf("%s: %q is not a duration", cmd.Name(), args[1])
			}
			d := vs[1].duration
			if subtract {
				d = d.Negated()
			}
			rel, err := a.relativeTo(cmd, relativeTo, v)
			if err != nil {
				return err
			}
			sum, err := vs[0].add(d, a.overflow(cmd, v), rel)
			if err != nil {
				return err
			}
			r, err := a.valueResult(sum)
			if err != nil {
				return err
			}
			return a.writeResult(cmd.OutOrStdout(), r)
		},
	}
	if subtract {
		cmd.Use = "subtract VALUE DURATION"
		cmd.Short = "Subtract a duration from a value"
	}
	addValueFlags(cmd, v)
	addRelativeToFlag(cmd, &relativeTo)
	return cmd
}

func newDifferenceCommand(a *app, since bool) *cobra.Command {
	v := &valueFlags{}
	r := &roundingFlags{}
	cmd := &cobra.Command{
		Use:   "until FROM TO",
		Short: "Duration from the first value to the second",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			vs, err := parseValues(args, a.parseOptions(cmd, v))
			if err != nil {
				return err
			}
			d, err := difference(vs[0], vs[1], a.rounding(cmd, r), since)
			if err != nil {
				return err
			}
			return a.writeResult(cmd.OutOrStdout(), result{Kind: kindDuration.String(), Value: d.String()})
		},
	}
	if since {
		cmd.Use = "since FROM TO"
		cmd.Short = "Duration from the second value to the first"
	}
	addValueFlags(cmd, v)
	addRoundingFlags(cmd, r, false)
	return cmd
}

func newRoundCommand(a *app) *cobra.Command {
	v := &valueFlags{}
	r := &roundingFlags{}
	cmd := &cobra.Command{
		Use:   "round VALUE",
		Short: "Round a time, date-time, instant, zoned date-time or duration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			val, err := parseValue(args[0], a.parseOptions(cmd, v))
			if err != nil {
				return err
			}
			rel, err := a.relativeTo(cmd, r.relativeTo, v)
			if err != nil {
				return err
			}
			if val, err = val.round(a.rounding(cmd, r), rel); err != nil {
				return err
			}
			res, err := a.valueResult(val)
			if err != nil {
				return err
			}
			return a.writeResult(cmd.OutOrStdout(), res)
		},
	}
	addValueFlags(cmd, v)
	addRoundingFlags(cmd, r, true)
	return cmd
}

func newTotalCommand(a *app) *cobra.Command {
	v := &valueFlags{}
	var unit duration.Unit
	var relativeTo string
	cmd := &cobra.Command{
		Use:   "total DURATION",
		Short: "Length of a duration in one unit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			val, err := parseValue(args[0], a.parseOptions(cmd, v))
			if err != nil {
				return err
			}
			if val.kind != kindDuration {
				return fmt.Errorf("total: %q is not a duration", args[0])
			}
			rel, err := a.relativeTo(cmd, relativeTo, v)
			if err != nil {
				return err
			}
			total, err := temporal.TotalDuration(val.duration, unit, rel)
			if err != nil {
				return err
			}
			return a.writeResult(cmd.OutOrStdout(), result{
				Kind:  "number",
				Value: strconv.FormatFloat(total, 'f', -1, 64),
			})
		},
	}
	cmd.Flags().Var(newEnumFlag(&unit, duration.ParseUnit, "unit"), "unit", "unit to count in (required)")
	_ = cmd.MarkFlagRequired("unit")
	addValueFlags(cmd, v)
	addRelativeToFlag(cmd, &relativeTo)
	return cmd
}

func newCompareCommand(a *app) *cobra.Command {
	v := &valueFlags{}
	var relativeTo string
	cmd := &cobra.Command{
		Use:   "compare A B",
		Short: "Print -1, 0 or 1 as A is before, equal to or after B",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			vs, err := parseValues(args, a.parseOptions(cmd, v))
			if err != nil {
				return err
			}
			rel, err := a.relativeTo(cmd, relativeTo, v)
			if err != nil {
				return err
			}
			c, err := compare(vs[0], vs[1], rel)
			if err != nil {
				return err
			}
			return a.writeResult(cmd.OutOrStdout(), result{Kind: "number", Value: strconv.Itoa(c)})
		},
	}
	addValueFlags(cmd, v)
	addRelativeToFlag(cmd, &relativeTo)
	return cmd
}
