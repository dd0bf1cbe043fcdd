package duedate_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskdash/internal/duedate"
)

var zones = []*time.Location{
	time.UTC,
	time.FixedZone("UTC-11", -11*3600),
	time.FixedZone("UTC-5", -5*3600),
	time.FixedZone("UTC+5:30", 5*3600+1800),
	time.FixedZone("UTC+9", 9*3600),
	time.FixedZone("UTC+14", 14*3600),
}

func TestToInstant(t *testing.T) {
	got, err := duedate.ToInstant("2024-05-03", time.FixedZone("UTC-4", -4*3600))
	require.NoError(t, err)
	assert.Equal(t, "2024-05-03T04:00:00.000Z", got)

	got, err = duedate.ToInstant("2024-05-03", time.FixedZone("UTC+9", 9*3600))
	require.NoError(t, err)
	assert.Equal(t, "2024-05-02T15:00:00.000Z", got)
}

func TestToInstant_Empty(t *testing.T) {
	got, err := duedate.ToInstant("  ", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestToInstant_Invalid(t *testing.T) {
	_, err := duedate.ToInstant("05/03/2024", time.UTC)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "YYYY-MM-DD")
}

func TestRoundTripKeepsCalendarDate(t *testing.T) {
	for _, loc := range zones {
		for _, date := range []string{"2024-01-01", "2024-02-29", "2024-12-31"} {
			instant, err := duedate.ToInstant(date, loc)
			require.NoError(t, err)

			assert.Equal(t, date, duedate.Display(instant, loc, duedate.FormLayout), "zone %s", loc)
			assert.Equal(t, date, duedate.FormValue(instant, loc), "zone %s", loc)

			// The server hands the instant back without its zone.
			naive := strings.TrimSuffix(strings.Replace(instant, ".000Z", "", 1), "Z")
			assert.Equal(t, date, duedate.Display(naive, loc, duedate.FormLayout), "zone %s naive", loc)
			assert.Equal(t, date, duedate.FormValue(naive, loc), "zone %s naive", loc)
		}
	}
}

func TestParse_Layouts(t *testing.T) {
	want := time.Date(2024, 5, 3, 4, 0, 0, 0, time.UTC)
	for _, s := range []string{
		"2024-05-03T04:00:00Z",
		"2024-05-03T04:00:00.000Z",
		"2024-05-03T04:00:00+00:00",
		"2024-05-03T00:00:00-04:00",
		"2024-05-03T04:00:00",
		"2024-05-03 04:00:00",
	} {
		got, err := duedate.Parse(s, time.UTC)
		require.NoError(t, err, s)
		assert.True(t, want.Equal(got), "%s parsed as %s", s, got)
	}
}

func TestDisplay(t *testing.T) {
	assert.Equal(t, "N/A", duedate.Display("", time.UTC, "1/2/2006"))
	assert.Equal(t, "5/3/2024", duedate.Display("2024-05-03T04:00:00", time.UTC, "1/2/2006"))
	assert.Equal(t, "garbage", duedate.Display("garbage", time.UTC, "1/2/2006"))
}

func TestFormValue_Empty(t *testing.T) {
	assert.Equal(t, "", duedate.FormValue("", time.UTC))
	assert.Equal(t, "", duedate.FormValue("not a date", time.UTC))
}

func TestFormValue_OtherISOForms(t *testing.T) {
	for _, tc := range []struct {
		in   string
		loc  *time.Location
		want string
	}{
		{"2024-05-31T15:00Z", time.UTC, "2024-05-31"},
		{"2024-05-31T15:00Z", time.FixedZone("UTC+9", 9*3600), "2024-06-01"},
		{"2024-05-31T15:00+0200", time.UTC, "2024-05-31"},
		{"2024-05-31T15:00:00+0000", time.UTC, "2024-05-31"},
		{"2024-05-31T15:00:00.123-0500", time.UTC, "2024-05-31"},
		{"2024-05-31T15:00", time.UTC, "2024-05-31"},
		{"2024-05-31 23:30", time.FixedZone("UTC-5", -5*3600), "2024-05-31"},
	} {
		assert.Equal(t, tc.want, duedate.FormValue(tc.in, tc.loc), "%s in %s", tc.in, tc.loc)
	}
}

func TestFormValue_KeepsDatePrefix(t *testing.T) {
	assert.Equal(t, "2024-05-31", duedate.FormValue("2024-05-31T15:00:00 GMT", time.UTC))
	assert.Equal(t, "2024-05-31", duedate.FormValue("2024-05-31Tsoon", time.UTC))
	assert.Equal(t, "", duedate.FormValue("2024-13-01T00:00", time.UTC))
	assert.Equal(t, "", duedate.FormValue("2024-05", time.UTC))
}
