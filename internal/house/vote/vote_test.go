package vote

import (
	"testing"
	"time"

	"demnow-backend/internal/house"

	"github.com/stretchr/testify/require"
)

const fixtureFeed = `<?xml version="1.0" encoding="utf-8"?>
<rollcall-vote>
  <vote-metadata>
    <majority>D</majority>
    <congress>116</congress>
    <session>1st</session>
    <chamber>U.S. House of Representatives</chamber>
    <legis-num>H R 21</legis-num>
    <vote-question>On Passage</vote-question>
    <vote-type>YEA-AND-NAY</vote-type>
    <vote-result>Passed</vote-result>
    <action-date>3-Jan-2019</action-date>
    <action-time time-etz="18:59">6:59 PM</action-time>
    <vote-desc>Consolidated Appropriations Act</vote-desc>
    <vote-totals>
      <totals-by-party>
        <party>Democratic</party>
        <yea-total>233</yea-total>
        <nay-total>0</nay-total>
        <present-total>0</present-total>
        <not-voting-total>2</not-voting-total>
      </totals-by-party>
      <totals-by-party>
        <party>Republican</party>
        <yea-total>7</yea-total>
        <nay-total>192</nay-total>
        <present-total>0</present-total>
        <not-voting-total>0</not-voting-total>
      </totals-by-party>
      <totals-by-vote>
        <total-stub>Totals</total-stub>
        <yea-total>240</yea-total>
        <nay-total>192</nay-total>
        <present-total>0</present-total>
        <not-voting-total>2</not-voting-total>
      </totals-by-vote>
    </vote-totals>
  </vote-metadata>
  <vote-data>
    <recorded-vote><legislator name-id="E000296" party="D" state="PA" role="legislator">Evans</legislator><vote>Yea</vote></recorded-vote>
    <recorded-vote><legislator name-id="M001177" party="R" state="CA" role="legislator">McClintock</legislator><vote>Nay</vote></recorded-vote>
  </vote-data>
</rollcall-vote>`

var fixtureSources = house.Sources{
	URL:       "http://clerk.house.gov/evs/2019/roll005.xml",
	CachePath: "data/us/federal/house/votes/web/clerk.house.gov_evs_2019_roll005.xml",
	JSONPath:  "data/us/federal/house/votes/json/house_116_HR21.json",
}

func TestExtract(t *testing.T) {
	v, err := Extract([]byte(fixtureFeed), fixtureSources)
	require.NoError(t, err)

	require.Equal(t, Congress{
		Majority: "D",
		Congress: 116,
		Session:  "1st",
		Chamber:  "U.S. House of Representatives",
		LegisNum: "H R 21",
	}, v.Congress)

	require.Equal(t, "On Passage", v.Votes.Question)
	require.Equal(t, "YEA-AND-NAY", v.Votes.Type)
	require.Equal(t, "Passed", v.Votes.Result)
	require.Equal(t, "Consolidated Appropriations Act", v.Votes.Desc)
	require.Equal(t,
		time.Date(2019, time.January, 3, 18, 59, 0, 0, time.UTC).Unix(),
		v.Votes.Datetime)

	require.Equal(t, Tally{Yea: 240, Nay: 192, NotVoting: 2}, v.Votes.Totals.Overall)
	require.Equal(t, Tally{Yea: 233, NotVoting: 2}, v.Votes.Totals.ByParty["Democratic"])
	require.Equal(t, Tally{Yea: 7, Nay: 192}, v.Votes.Totals.ByParty["Republican"])

	require.Equal(t, []Recorded{
		{Party: "D", Role: "legislator", State: "PA", Name: "Evans", Vote: "Yea"},
		{Party: "R", Role: "legislator", State: "CA", Name: "McClintock", Vote: "Nay"},
	}, v.Votes.Recorded)

	require.Equal(t, "house_116_HR21.json", v.Filename())
}

func TestExtractStripsBOM(t *testing.T) {
	withBOM := append([]byte("\xef\xbb\xbf"), []byte(fixtureFeed)...)
	v, err := Extract(withBOM, fixtureSources)
	require.NoError(t, err)
	require.Equal(t, 116, v.Congress.Congress)
}

func TestExtractCommitteeAsChamber(t *testing.T) {
	feed := `<rollcall-vote><vote-metadata>
	<majority>D</majority><congress>116</congress><session>1st</session>
	<committee>Whole House</committee>
	<legis-num>H R 1</legis-num>
	<vote-question>On Agreeing to the Amendment</vote-question>
	<vote-type>RECORDED VOTE</vote-type>
	<vote-result>Agreed to</vote-result>
	<action-date>12-Jul-2019</action-date>
	<action-time time-etz="10:02">10:02 AM</action-time>
	<vote-desc></vote-desc>
	<vote-totals><totals-by-vote><yea-total>1</yea-total><nay-total>0</nay-total><present-total>0</present-total><not-voting-total>0</not-voting-total></totals-by-vote></vote-totals>
	</vote-metadata><vote-data></vote-data></rollcall-vote>`

	v, err := Extract([]byte(feed), house.Sources{})
	require.NoError(t, err)
	require.Equal(t, "Whole House", v.Congress.Chamber)
}

func TestExtractDeletedVote(t *testing.T) {
	// votes removed from the record carry no action-date
	feed := `<rollcall-vote><vote-metadata>
	<majority>D</majority><congress>116</congress><session>1st</session>
	<chamber>U.S. House of Representatives</chamber>
	<legis-num>H R 2</legis-num>
	<vote-question>On Motion to Table</vote-question>
	<vote-type>YEA-AND-NAY</vote-type>
	<vote-result>Passed</vote-result>
	<vote-totals><totals-by-vote><yea-total>0</yea-total><nay-total>0</nay-total><present-total>0</present-total><not-voting-total>0</not-voting-total></totals-by-vote></vote-totals>
	</vote-metadata><vote-data></vote-data></rollcall-vote>`

	v, err := Extract([]byte(feed), house.Sources{})
	require.NoError(t, err)
	require.Zero(t, v.Votes.Datetime)
}

func TestExtractMissingQuestion(t *testing.T) {
	feed := `<rollcall-vote><vote-metadata>
	<majority>D</majority><congress>116</congress><session>1st</session>
	<chamber>U.S. House of Representatives</chamber>
	<legis-num>H R 2</legis-num>
	</vote-metadata></rollcall-vote>`

	_, err := Extract([]byte(feed), house.Sources{})
	var merr *house.MissingFieldError
	require.ErrorAs(t, err, &merr)
	require.Equal(t, "vote-question", merr.Field)
}
