package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/tzlist/civiltime/calendar"
	"github.com/tzlist/civiltime/duration"
	"github.com/tzlist/civiltime/temporal"
	"github.com/tzlist/civiltime/timezone"
)

// enumFlag is a pflag.Value for the option enums, parsed by their own
// Parse functions.
type enumFlag[T fmt.Stringer] struct {
	p     *T
	parse func(string) (T, error)
	typ   string
}

var _ pflag.Value = (*enumFlag[duration.Unit])(nil)

func newEnumFlag[T fmt.Stringer](p *T, parse func(string) (T, error), typ string) *enumFlag[T] {
	return &enumFlag[T]{p: p, parse: parse, typ: typ}
}

func (f *enumFlag[T]) String() string {
	if f.p == nil {
		return ""
	}
	return (*f.p).String()
}

func (f *enumFlag[T]) Set(s string) error {
	v, err := f.parse(s)
	if err != nil {
		return err
	}
	*f.p = v
	return nil
}

func (f *enumFlag[T]) Type() string { return f.typ }

// valueFlags are the options used when reading and moving values.
type valueFlags struct {
	overflow       calendar.Overflow
	disambiguation timezone.Disambiguation
	offset         temporal.OffsetOption
}

func addValueFlags(cmd *cobra.Command, v *valueFlags) {
	f := cmd.Flags()
	f.Var(newEnumFlag(&v.overflow, calendar.ParseOverflow, "overflow"), "overflow",
		"out of range days: constrain or reject")
	f.Var(newEnumFlag(&v.disambiguation, timezone.ParseDisambiguation, "disambiguation"), "disambiguation",
		"skipped or repeated wall-clock times: compatible, earlier, later or reject")
	f.Var(newEnumFlag(&v.offset, temporal.ParseOffsetOption, "offset"), "offset",
		"written offset that disagrees with the zone: reject, use, prefer or ignore")
}

func (a *app) overflow(cmd *cobra.Command, v *valueFlags) calendar.Overflow {
	if cmd.Flags().Changed("overflow") {
		return v.overflow
	}
	return a.defaults.Overflow
}

// roundingFlags are the options of until, since and round.
type roundingFlags struct {
	opts       duration.RoundingOptions
	relativeTo string
}

func addRoundingFlags(cmd *cobra.Command, r *roundingFlags, relativeTo bool) {
	f := cmd.Flags()
	f.Var(newEnumFlag(&r.opts.LargestUnit, duration.ParseUnit, "unit"), "largest", "largest unit of the result")
	f.Var(newEnumFlag(&r.opts.SmallestUnit, duration.ParseUnit, "unit"), "smallest", "unit to round to")
	f.Int64Var(&r.opts.Increment, "increment", 0, "rounding increment in smallest units (default 1)")
	f.Var(newEnumFlag(&r.opts.Mode, duration.ParseRoundingMode, "mode"), "mode",
		"rounding mode: ceil, floor, expand, trunc, halfCeil, halfFloor, halfExpand, halfTrunc or halfEven")
	if relativeTo {
		addRelativeToFlag(cmd, &r.relativeTo)
	}
}

func addRelativeToFlag(cmd *cobra.Command, p *string) {
	cmd.Flags().StringVar(p, "relative-to", "", "date or zoned date-time that calendar units are counted from")
}

func (a *app) rounding(cmd *cobra.Command, r *roundingFlags) duration.RoundingOptions {
	o := r.opts
	if !cmd.Flags().Changed("mode") {
		o.Mode = a.defaults.RoundingMode
	}
	return o
}

func (a *app) relativeTo(cmd *cobra.Command, s string, v *valueFlags) (temporal.RelativeTo, error) {
	if s == "" {
		return temporal.RelativeTo{}, nil
	}
	rel, err := temporal.ParseRelativeTo(s, a.parseOptions(cmd, v))
	if err != nil {
		return rel, fmt.Errorf("--relative-to: %w", err)
	}
	return rel, nil
}
