package chrono

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	ts, err := ParseDate("01/03/2019")
	require.NoError(t, err)
	require.Equal(t, time.Date(2019, time.January, 3, 0, 0, 0, 0, time.UTC).Unix(), ts)

	_, err = ParseDate("2019-01-03")
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
}

func TestPadHour(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"06/19/2019-9:15AM", "06/19/2019-09:15AM"},
		{"06/19/2019-10:15AM", "06/19/2019-10:15AM"},
		{"04/30/19 9:30AM", "04/30/19 09:30AM"},
		{"04/30/19 11:30AM", "04/30/19 11:30AM"},
		{"01/03/2019", "01/03/2019"},
	}
	for _, c := range cases {
		require.Equal(t, c.want, PadHour(c.in), c.in)
	}
}

func TestParseDateTime(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{"06/19/2019-9:15AM", time.Date(2019, time.June, 19, 9, 15, 0, 0, time.UTC)},
		{"06/19/2019-10:15PM", time.Date(2019, time.June, 19, 22, 15, 0, 0, time.UTC)},
	}
	for _, c := range cases {
		ts, err := ParseDateTime(c.in)
		require.NoError(t, err)
		require.Equal(t, c.want.Unix(), ts, c.in)
	}

	_, err := ParseDateTime("06/19/2019")
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
}

func TestParseMeetingTime(t *testing.T) {
	ts, err := ParseMeetingTime("04/30/19 9:30AM")
	require.NoError(t, err)
	require.Equal(t, time.Date(2019, time.April, 30, 9, 30, 0, 0, time.UTC).Unix(), ts)
}

func TestParseVoteTimestamp(t *testing.T) {
	ts, err := ParseVoteTimestamp("3-Jan-2019", "18:59")
	require.NoError(t, err)
	require.Equal(t, time.Date(2019, time.January, 3, 18, 59, 0, 0, time.UTC).Unix(), ts)

	// zero-padded days appear in the same feed
	ts, err = ParseVoteTimestamp("12-Jul-2019", "10:02")
	require.NoError(t, err)
	require.Equal(t, time.Date(2019, time.July, 12, 10, 2, 0, 0, time.UTC).Unix(), ts)
}

func TestParseActionTime(t *testing.T) {
	day, err := ParseCompactDate("20190103")
	require.NoError(t, err)

	ts, err := ParseActionTime(day, "20190103T14:03:05")
	require.NoError(t, err)
	require.Equal(t, time.Date(2019, time.January, 3, 14, 3, 5, 0, time.UTC).Unix(), ts)

	_, err = ParseActionTime(day, "14:03:05")
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
}
