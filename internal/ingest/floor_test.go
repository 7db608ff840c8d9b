package ingest

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"demnow-backend/internal/house/corpus"
	"demnow-backend/internal/house/floor"
	"demnow-backend/internal/house/vote"
	"demnow-backend/lib/jsonstore"

	"github.com/stretchr/testify/require"
)

const floorFeedTemplate = `<?xml version="1.0"?>
<floor_proceedings>
  <congress>116th Congress</congress>
  <session>1st Session</session>
  <legislative_activity>
    <legislative_header>LEGISLATIVE PROGRAM</legislative_header>
    <legislative_day date="20190103"/>
    <floor_actions>
      <floor_action unique-id="30012" act-id="H30000">
        <action_time for-search="20190103T18:59:00">6:59:00 P.M.</action_time>
        <action_description>On passage Passed by the Yeas and Nays: <a rel="vote" href="%s/evs/2019/roll005.xml">Roll no. 5</a>.</action_description>
        <action_item>H.R. 21</action_item>
      </floor_action>
      <floor_action unique-id="30013" act-id="H30300">
        <action_time for-search="20190103T19:10:00">7:10:00 P.M.</action_time>
        <action_description>Considered under suspension of the rules. <a rel="bill" href="%s/bill/116th-congress/house-bill/40">H.R. 40</a></action_description>
        <action_item>H.R. 40</action_item>
      </floor_action>
    </floor_actions>
  </legislative_activity>
</floor_proceedings>`

func TestScrapeFloor(t *testing.T) {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	mux.HandleFunc("/floorsummary/HDoc-116-1-FloorProceedings.xml", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, floorFeedTemplate, server.URL, server.URL)
	})
	mux.HandleFunc("/evs/2019/roll005.xml", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(voteFeed))
	})
	mux.HandleFunc("/bill/116th-congress/house-bill/40", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(billPage))
	})

	s, dataDir := newScraper(t)

	session, err := s.ScrapeFloor(context.Background(), server.URL+"/floorsummary/HDoc-116-1-FloorProceedings.xml", false)
	require.NoError(t, err)
	require.Equal(t, 116, session.Congress)
	require.Equal(t, "HDoc-116-1-FloorProceedings.xml", session.Source)

	persisted, err := jsonstore.Load[floor.Session](filepath.Join(dataDir, "session", "json", "HDoc-116-1-FloorProceedings.json"))
	require.NoError(t, err)
	require.Len(t, persisted.Activities, 1)

	// both referenced records are new to an empty corpus
	report := s.ResolveFloorRefs(context.Background(), corpus.New(nil, nil, nil, nil), session, false)
	require.NoError(t, report.Err())
	require.Equal(t, 2, report.OK)

	v, err := jsonstore.Load[vote.Vote](filepath.Join(dataDir, "votes", "json", "house_116_HR21.json"))
	require.NoError(t, err)
	require.Equal(t, "On Passage", v.Votes.Question)

	// a corpus that already holds both referenced records has nothing left
	c, err := corpus.Load(dataDir)
	require.NoError(t, err)
	report = s.ResolveFloorRefs(context.Background(), c, session, false)
	require.NoError(t, report.Err())
	require.Zero(t, report.OK)
}
