package vote

import (
	"bytes"
	"encoding/xml"
	"strconv"

	"demnow-backend/internal/chrono"
	"demnow-backend/internal/house"
)

// The clerk's roll-call schema. Element names are a fixed external contract.
type xmlVote struct {
	Metadata xmlMetadata `xml:"vote-metadata"`
	Data     struct {
		Recorded []xmlRecorded `xml:"recorded-vote"`
	} `xml:"vote-data"`
}

type xmlMetadata struct {
	Majority string `xml:"majority"`
	Congress string `xml:"congress"`
	Session  string `xml:"session"`
	Chamber  string `xml:"chamber"`
	// at least one vote lists its chamber under committee instead
	Committee  string `xml:"committee"`
	LegisNum   string `xml:"legis-num"`
	Question   string `xml:"vote-question"`
	Type       string `xml:"vote-type"`
	Result     string `xml:"vote-result"`
	Desc       string `xml:"vote-desc"`
	ActionDate string `xml:"action-date"`
	ActionTime struct {
		TimeETZ string `xml:"time-etz,attr"`
	} `xml:"action-time"`
	Totals struct {
		ByParty []xmlPartyTotal `xml:"totals-by-party"`
		ByVote  xmlTally        `xml:"totals-by-vote"`
	} `xml:"vote-totals"`
}

type xmlPartyTotal struct {
	Party string `xml:"party"`
	xmlTally
}

type xmlTally struct {
	Yea       int `xml:"yea-total"`
	Nay       int `xml:"nay-total"`
	Present   int `xml:"present-total"`
	NotVoting int `xml:"not-voting-total"`
}

type xmlRecorded struct {
	Legislator struct {
		Party string `xml:"party,attr"`
		Role  string `xml:"role,attr"`
		State string `xml:"state,attr"`
		Name  string `xml:",chardata"`
	} `xml:"legislator"`
	Vote string `xml:"vote"`
}

// stripPrefix drops the byte-order mark (and any stray bytes before the
// document) that the 2019 feeds ship with.
func stripPrefix(markup []byte) []byte {
	markup = bytes.TrimPrefix(markup, []byte("\xef\xbb\xbf"))
	if i := bytes.IndexByte(markup, '<'); i > 0 {
		markup = markup[i:]
	}
	return markup
}

// Extract parses a cached roll-call document into a Vote.
func Extract(markup []byte, srcs house.Sources) (*Vote, error) {
	var doc xmlVote
	err := xml.Unmarshal(stripPrefix(markup), &doc)
	if err != nil {
		return nil, err
	}
	meta := doc.Metadata

	if meta.Question == "" {
		return nil, &house.MissingFieldError{Entity: "vote", Field: "vote-question"}
	}
	if meta.LegisNum == "" {
		return nil, &house.MissingFieldError{Entity: "vote", Field: "legis-num"}
	}
	congress, err := strconv.Atoi(meta.Congress)
	if err != nil {
		return nil, &house.MissingFieldError{Entity: "vote", Field: "congress"}
	}

	chamber := meta.Chamber
	if chamber == "" {
		chamber = meta.Committee
	}

	v := &Vote{
		Congress: Congress{
			Majority: meta.Majority,
			Congress: congress,
			Session:  meta.Session,
			Chamber:  chamber,
			LegisNum: meta.LegisNum,
		},
		Votes: Info{
			Question: meta.Question,
			Type:     meta.Type,
			Result:   meta.Result,
			Desc:     meta.Desc,
			Totals: Totals{
				Overall: tally(meta.Totals.ByVote),
			},
		},
		Sources: srcs,
	}

	// votes deleted from the record carry no action-date
	if meta.ActionDate != "" {
		when, err := chrono.ParseVoteTimestamp(meta.ActionDate, meta.ActionTime.TimeETZ)
		if err != nil {
			return nil, err
		}
		v.Votes.Datetime = when
	}

	if len(meta.Totals.ByParty) > 0 {
		v.Votes.Totals.ByParty = map[string]Tally{}
		for _, pt := range meta.Totals.ByParty {
			v.Votes.Totals.ByParty[pt.Party] = tally(pt.xmlTally)
		}
	}

	for _, rv := range doc.Data.Recorded {
		v.Votes.Recorded = append(v.Votes.Recorded, Recorded{
			Party: rv.Legislator.Party,
			Role:  rv.Legislator.Role,
			State: rv.Legislator.State,
			Name:  rv.Legislator.Name,
			Vote:  rv.Vote,
		})
	}

	return v, nil
}

func tally(t xmlTally) Tally {
	return Tally{
		Yea:       t.Yea,
		Nay:       t.Nay,
		Present:   t.Present,
		NotVoting: t.NotVoting,
	}
}
