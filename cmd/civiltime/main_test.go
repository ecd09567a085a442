package main

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tzlist/civiltime/failure"
	"github.com/tzlist/civiltime/rfc9636/tziftest"
)

var losAngelesData = tziftest.Encode(tziftest.Data{
	Version: 2,
	Zones: []tziftest.Zone{
		{Name: "LMT", Offset: -28378},
		{Name: "PDT", Offset: -25200, IsDST: true},
		{Name: "PST", Offset: -28800},
	},
	Transitions: []tziftest.Transition{
		{When: -2717640000, Zone: 2},
		{When: 1678615200, Zone: 1},
		{When: 1699174800, Zone: 2},
	},
	Footer: "PST8PDT,M3.2.0,M11.1.0",
})

var kolkataData = tziftest.Encode(tziftest.Data{
	Version: 2,
	Zones:   []tziftest.Zone{{Name: "IST", Offset: 19800}},
	Footer:  "IST-5:30",
})

func zoneinfo(t *testing.T) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/zoneinfo/America/Los_Angeles", losAngelesData, 0o644))
	require.NoError(t, afero.WriteFile(fs, "/zoneinfo/Asia/Kolkata", kolkataData, 0o644))
	require.NoError(t, afero.WriteFile(fs, "/zoneinfo/zone.tab", []byte("# not a zone"), 0o644))
	return fs
}

func run(t *testing.T, fs afero.Fs, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand(fs)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append([]string{"--zoneinfo", "/zoneinfo"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func golden(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestCommands(t *testing.T) {
	fs := zoneinfo(t)
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"add date", []string{"add", "2020-01-31", "P1M"}, "2020-02-29"},
		{"add time wraps", []string{"add", "12:30", "PT13H"}, "01:30:00"},
		{"add instant", []string{"add", "2020-01-01T00:00Z", "PT1H"}, "2020-01-01T01:00:00Z"},
		{"add durations", []string{"add", "P1Y", "P365D", "--relative-to", "2016-01-01"}, "P2Y"},
		{"subtract across dst", []string{"subtract", "2024-03-11T00:00-07:00[America/Los_Angeles]", "P1D"},
			"2024-03-10T00:00:00-08:00[America/Los_Angeles]"},
		{"subtract negative", []string{"subtract", "2020-01-01", "--", "-P1D"}, "2020-01-02"},
		{"until months", []string{"until", "2020-01-01", "2020-03-15", "--largest", "month"}, "P2M14D"},
		{"since days", []string{"since", "2020-03-15", "2020-01-01"}, "P74D"},
		{"until short day", []string{"until", "2024-03-10T00:00-08:00[America/Los_Angeles]",
			"2024-03-11T00:00-07:00[America/Los_Angeles]", "--largest", "day"}, "P1D"},
		{"round duration", []string{"round", "PT130M45.5S", "--largest", "hour", "--smallest", "minute"}, "PT2H11M"},
		{"round time", []string{"round", "12:34:56", "--smallest", "minute"}, "12:35:00"},
		{"round floor", []string{"round", "12:34:56", "--smallest", "minute", "--mode", "floor"}, "12:34:00"},
		{"round gap", []string{"round", "2024-03-10T01:45-08:00[America/Los_Angeles]", "--smallest", "hour"},
			"2024-03-10T03:00:00-07:00[America/Los_Angeles]"},
		{"total february", []string{"total", "P1M", "--unit", "days", "--relative-to", "2020-02-01"}, "29"},
		{"total hours", []string{"total", "PT36H", "--unit", "day"}, "1.5"},
		{"compare durations", []string{"compare", "P1M", "P30D", "--relative-to", "2020-02-01"}, "-1"},
		{"compare dates", []string{"compare", "2020-01-01", "2019-12-31"}, "1"},
		{"compare instants", []string{"compare", "2020-01-01T01:00+01:00", "2020-01-01T00:00Z"}, "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, fs, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want+"\n", out)
		})
	}
}

func TestCommandErrors(t *testing.T) {
	fs := zoneinfo(t)

	_, err := run(t, fs, "add", "2020-01-31", "P1M", "--overflow", "reject")
	assert.True(t, failure.IsRange(err))

	_, err = run(t, fs, "compare", "2020-01-01", "12:00")
	assert.ErrorContains(t, err, "cannot mix a date and a time")

	_, err = run(t, fs, "total", "P1M", "--unit", "day")
	assert.True(t, failure.IsRange(err))

	_, err = run(t, fs, "round", "2020-01-01", "--smallest", "day")
	assert.ErrorContains(t, err, "cannot be rounded")

	_, err = run(t, fs, "parse", "2024-03-10T02:30[America/Los_Angeles]", "--disambiguation", "reject")
	assert.True(t, failure.IsRange(err))

	_, err = run(t, fs, "parse", "2020-01-01[Mars/Olympus_Mons]")
	assert.True(t, failure.IsRange(err))

	_, err = run(t, fs, "--format", "xml", "parse", "P1D")
	assert.ErrorContains(t, err, "invalid format")

	_, err = run(t, fs, "--loglevel", "loud", "parse", "P1D")
	assert.ErrorContains(t, err, "loglevel")

	_, err = run(t, fs, "until", "2020-01-01", "2020-02-01", "--mode", "nearest")
	assert.Error(t, err)
}

func TestParse(t *testing.T) {
	fs := zoneinfo(t)

	out, err := run(t, fs, "parse", "2024-03-10")
	require.NoError(t, err)
	golden(t).Assert(t, "parse_date", []byte(out))

	out, err = run(t, fs, "parse", "2024-03-10T02:30[America/Los_Angeles]", "--disambiguation", "earlier")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "2024-03-10T01:30:00-08:00[America/Los_Angeles]\n"), out)
	assert.Contains(t, out, "  hoursInDay: 23\n")

	out, err = run(t, fs, "--format", "json", "parse", "--", "-P1DT2H")
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"duration","value":"-P1DT2H","fields":{"days":-1,"hours":-2,"sign":-1}}`, out)

	out, err = run(t, fs, "--format", "json", "parse", "1970-01-01T00:00:01.5+00:00")
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"instant","value":"1970-01-01T00:00:01.5Z",
		"fields":{"epochSeconds":1,"epochMilliseconds":1500,"epochNanoseconds":"1500000000"}}`, out)
}

func TestYAMLOutput(t *testing.T) {
	out, err := run(t, zoneinfo(t), "--format", "yaml", "until",
		"2024-03-10T00:00-08:00[America/Los_Angeles]", "2024-03-11T00:00-07:00[America/Los_Angeles]")
	require.NoError(t, err)
	golden(t).Assert(t, "until_yaml", []byte(out))
}

func TestZones(t *testing.T) {
	fs := zoneinfo(t)

	out, err := run(t, fs, "zones", "--year", "2024")
	require.NoError(t, err)
	golden(t).Assert(t, "zones", []byte(out))

	out, err = run(t, fs, "zones", "--year", "2024", "asia/kolkata", "Europe/Paris")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Missing zone Europe/Paris\nAsia/Kolkata "), out)

	out, err = run(t, fs, "zones", "--year", "2024", "--json", "--layout", "objects")
	require.NoError(t, err)
	assert.Equal(t, "Successfully wrote JSON data to zones.json\n", out)
	data, err := afero.ReadFile(fs, "zones.json")
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"America/Los_Angeles": {
			"HasDst": true,
			"Std": "PST (UTC -08:00)",
			"Dst": "PDT (UTC -07:00)",
			"Rules": "Starts on the second Sunday of March at 02:00:00, Ends on the first Sunday of November at 02:00:00"
		},
		"Asia/Kolkata": {"HasDst": false, "Std": "IST (UTC +05:30)"}
	}`, string(data))

	out, err = run(t, fs, "--format", "json", "zones", "--year", "2024", "Asia/Kolkata")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"Name": "Asia/Kolkata", "HasDst": false, "Std": "IST (UTC +05:30)"}]`, out)

	_, err = run(t, fs, "zones", "--layout", "table")
	assert.ErrorContains(t, err, "invalid layout")
}
