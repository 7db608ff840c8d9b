package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"demnow-backend/internal/house/bill"
	"demnow-backend/internal/house/corpus"
	"demnow-backend/internal/house/rep"
	"demnow-backend/internal/house/vote"
	"demnow-backend/internal/telemetry"
	"demnow-backend/lib/jsonstore"

	"github.com/stretchr/testify/require"
)

const billPage = `
<html><body>
<h1 class="legDetail">H.R.40 - Commission to Study and Develop Reparation Proposals for African-Americans Act<span>116th Congress (2019-2020)</span></h1>
<div class="overview"><table>
<tr><th>Sponsor:</th><td><a href="/member/sheila-jackson-lee/J000032">Rep. Jackson Lee, Sheila [D-TX-18]</a> (Introduced 01/03/2019)</td></tr>
</table></div>
</body></html>`

const repPage = `
<html><body>
<h1 class="legDetail">Representative Dwight Evans<span class="birthdate">(1954 - )</span></h1>
<div class="overview"><table>
<tr><th>Party:</th><td>Democratic</td></tr>
</table></div>
<table class="member_positions"><tbody>
<tr><td>Pennsylvania</td><td>3</td><td>House</td><td>2016 - Present</td><td>114th-116th</td></tr>
</tbody></table>
</body></html>`

const voteFeed = `<?xml version="1.0"?>
<rollcall-vote><vote-metadata>
<majority>D</majority><congress>116</congress><session>1st</session>
<chamber>U.S. House of Representatives</chamber>
<legis-num>H R 21</legis-num>
<vote-question>On Passage</vote-question>
<vote-type>YEA-AND-NAY</vote-type>
<vote-result>Passed</vote-result>
<action-date>3-Jan-2019</action-date>
<action-time time-etz="18:59">6:59 PM</action-time>
<vote-totals><totals-by-vote><yea-total>240</yea-total><nay-total>192</nay-total><present-total>0</present-total><not-voting-total>2</not-voting-total></totals-by-vote></vote-totals>
</vote-metadata><vote-data></vote-data></rollcall-vote>`

func newServer(t *testing.T, hits *atomic.Int64) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	serve := func(pattern, body string) {
		mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
			if hits != nil {
				hits.Add(1)
			}
			w.Write([]byte(body))
		})
	}
	serve("/bill/116th-congress/house-bill/40", billPage)
	serve("/member/dwight-evans/E000296", repPage)
	serve("/evs/2019/roll005.xml", voteFeed)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newScraper(t *testing.T) (*Scraper, string) {
	t.Helper()
	dataDir := t.TempDir()
	s, err := New(dataDir, telemetry.SlogAPI{}, 2)
	require.NoError(t, err)
	return s, dataDir
}

func TestScrapeBills(t *testing.T) {
	server := newServer(t, nil)
	s, dataDir := newScraper(t)

	url := server.URL + "/bill/116th-congress/house-bill/40"
	report := s.ScrapeBills(context.Background(), []string{url}, false)
	require.NoError(t, report.Err())
	require.Equal(t, 1, report.OK)
	require.Empty(t, report.Failures)

	b, err := jsonstore.Load[bill.Bill](filepath.Join(dataDir, "bills", "json", "116_H.R.40 - Commission to Study and Develop Reparation Proposals for African-Americans Act.json"))
	require.NoError(t, err)
	require.Equal(t, 116, b.Congress)
	require.Equal(t, url, b.Sources.URL)
	require.NotEmpty(t, b.Sources.CachePath)
	require.NotEmpty(t, b.Sources.JSONPath)
}

func TestScrapeReps(t *testing.T) {
	server := newServer(t, nil)
	s, dataDir := newScraper(t)

	url := server.URL + "/member/dwight-evans/E000296"
	report := s.ScrapeReps(context.Background(), []string{url}, false)
	require.NoError(t, report.Err())
	require.Equal(t, 1, report.OK)

	r, err := jsonstore.Load[rep.Representative](filepath.Join(dataDir, "reps", "json", "Dwight Evans.json"))
	require.NoError(t, err)
	require.Equal(t, "Dwight Evans", r.Basics.Name)
}

func TestScrapeVotes(t *testing.T) {
	server := newServer(t, nil)
	s, dataDir := newScraper(t)

	url := server.URL + "/evs/2019/roll005.xml"
	report := s.ScrapeVotes(context.Background(), []string{url}, false)
	require.NoError(t, report.Err())
	require.Equal(t, 1, report.OK)

	v, err := jsonstore.Load[vote.Vote](filepath.Join(dataDir, "votes", "json", "house_116_HR21.json"))
	require.NoError(t, err)
	require.Equal(t, "On Passage", v.Votes.Question)
}

func TestScrapeCollectsFailures(t *testing.T) {
	server := newServer(t, nil)
	s, _ := newScraper(t)

	good := server.URL + "/bill/116th-congress/house-bill/40"
	missing := server.URL + "/bill/116th-congress/house-bill/404"
	report := s.ScrapeBills(context.Background(), []string{good, missing}, false)

	// the 404 page extracts to nothing but the good url still lands
	require.Equal(t, 1, report.OK)
	require.Len(t, report.Failures, 1)
	require.Equal(t, missing, report.Failures[0].URL)
	require.Error(t, report.Err())
}

func TestScrapeUsesCache(t *testing.T) {
	var hits atomic.Int64
	server := newServer(t, &hits)
	s, _ := newScraper(t)

	url := server.URL + "/evs/2019/roll005.xml"
	report := s.ScrapeVotes(context.Background(), []string{url}, false)
	require.Equal(t, 1, report.OK)
	report = s.ScrapeVotes(context.Background(), []string{url}, false)
	require.Equal(t, 1, report.OK)
	require.Equal(t, int64(1), hits.Load())

	report = s.ScrapeVotes(context.Background(), []string{url}, true)
	require.Equal(t, 1, report.OK)
	require.Equal(t, int64(2), hits.Load())
}

func TestRepURLs(t *testing.T) {
	bills := []*bill.Bill{
		{
			Overview: bill.Overview{Sponsor: &bill.Sponsor{URL: "https://example.com/member/b"}},
			Cosponsors: []bill.Cosponsor{
				{URL: "https://example.com/member/a"},
				{URL: "https://example.com/member/c"},
			},
		},
		{
			Overview:   bill.Overview{Sponsor: &bill.Sponsor{URL: "https://example.com/member/a"}},
			Cosponsors: []bill.Cosponsor{{URL: "https://example.com/member/b"}},
		},
	}
	c := corpus.New(bills, nil, nil, nil)

	require.Equal(t, []string{
		"https://example.com/member/a",
		"https://example.com/member/b",
		"https://example.com/member/c",
	}, RepURLs(c))
}
