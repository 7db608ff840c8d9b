package chrono

import (
	"fmt"
	"strings"
	"time"
)

// The congress.gov pages and clerk.house.gov feeds use a small, fixed set of
// date shapes. Every parser here normalizes to epoch seconds interpreted as
// UTC wall-clock time; the sources carry no zone information and none is
// invented for them.

const (
	layoutDate     = "01/02/2006"
	layoutDateTime = "01/02/2006-03:04PM"
	layoutMeeting  = "01/02/06 03:04PM"
	layoutVote     = "2-Jan-2006 15:04"
	layoutCompact  = "20060102"
	layoutClock    = "15:04:05"
)

// ParseError reports a date or time string that does not match the shape the
// source has always used for that field.
type ParseError struct {
	Input  string
	Layout string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed date %q, expected form %q", e.Input, e.Layout)
}

func parseUTC(layout, s string) (time.Time, error) {
	t, err := time.ParseInLocation(layout, s, time.UTC)
	if err != nil {
		return time.Time{}, &ParseError{Input: s, Layout: layout}
	}
	return t, nil
}

// ParseDate handles the date-only MM/DD/YYYY form used by action overviews,
// cosponsor listings and related-bill tables.
func ParseDate(s string) (int64, error) {
	t, err := parseUTC(layoutDate, strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	return t.Unix(), nil
}

// PadHour zero-pads a single-digit hour so strings like "06/19/2019-9:15AM"
// fit the fixed-width layouts; the source emits both padded and unpadded
// hours for the same field.
func PadHour(s string) string {
	for _, sep := range []byte{'-', ' '} {
		i := strings.LastIndexByte(s, sep)
		if i < 0 {
			continue
		}
		if colon := strings.IndexByte(s[i+1:], ':'); colon == 1 {
			return s[:i+1] + "0" + s[i+1:]
		}
		return s
	}
	return s
}

// ParseDateTime handles the MM/DD/YYYY-HH:MM(AM|PM) form used by the full
// action log.
func ParseDateTime(s string) (int64, error) {
	t, err := parseUTC(layoutDateTime, PadHour(strings.TrimSpace(s)))
	if err != nil {
		return 0, err
	}
	return t.Unix(), nil
}

// ParseMeetingTime handles the MM/DD/YY H:MMPM form used by committee
// meeting links in the bill overview table.
func ParseMeetingTime(s string) (int64, error) {
	t, err := parseUTC(layoutMeeting, PadHour(strings.TrimSpace(s)))
	if err != nil {
		return 0, err
	}
	return t.Unix(), nil
}

// ParseVoteTimestamp combines a roll-call action-date ("3-Jan-2019") with
// the time-etz attribute of action-time ("18:59").
func ParseVoteTimestamp(date, clock string) (int64, error) {
	s := strings.TrimSpace(date) + " " + strings.TrimSpace(clock)
	t, err := parseUTC(layoutVote, s)
	if err != nil {
		return 0, err
	}
	return t.Unix(), nil
}

// ParseCompactDate handles the YYYYMMDD attribute on a legislative day.
func ParseCompactDate(s string) (time.Time, error) {
	return parseUTC(layoutCompact, strings.TrimSpace(s))
}

// ParseActionTime resolves a floor action's for-search attribute
// ("20190103T14:03:05") against the legislative day it belongs to.
func ParseActionTime(day time.Time, forSearch string) (int64, error) {
	_, clock, found := strings.Cut(forSearch, "T")
	if !found {
		return 0, &ParseError{Input: forSearch, Layout: layoutCompact + "T" + layoutClock}
	}
	t, err := parseUTC(layoutClock, clock)
	if err != nil {
		return 0, err
	}
	return time.Date(
		day.Year(), day.Month(), day.Day(),
		t.Hour(), t.Minute(), t.Second(), 0,
		time.UTC,
	).Unix(), nil
}
