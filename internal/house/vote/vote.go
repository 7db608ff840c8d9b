// Package vote models a House roll-call vote as published by the clerk's
// XML feed.
package vote

import (
	"fmt"
	"strings"

	"demnow-backend/internal/house"
)

type Vote struct {
	Congress Congress      `json:"congress"`
	Votes    Info          `json:"votes"`
	Sources  house.Sources `json:"sources"`
}

type Congress struct {
	Majority string `json:"majority"`
	Congress int    `json:"congress"`
	Session  string `json:"session"`
	Chamber  string `json:"chamber"`
	LegisNum string `json:"legis_num"`
}

type Info struct {
	Question string     `json:"question"`
	Type     string     `json:"type"`
	Result   string     `json:"result"`
	Desc     string     `json:"desc,omitempty"`
	Datetime int64      `json:"datetime,omitempty"`
	Totals   Totals     `json:"totals"`
	Recorded []Recorded `json:"recorded,omitempty"`
}

type Totals struct {
	Overall Tally            `json:"totals"`
	ByParty map[string]Tally `json:"by_party,omitempty"`
}

// Tally keys mirror the feed's vote values verbatim, "Not Voting" included.
type Tally struct {
	Yea       int `json:"Yea"`
	Nay       int `json:"Nay"`
	Present   int `json:"Present"`
	NotVoting int `json:"Not Voting"`
}

type Recorded struct {
	Party string `json:"party"`
	Role  string `json:"role"`
	State string `json:"state"`
	Name  string `json:"name"`
	Vote  string `json:"vote"`
}

// Filename derives the persisted document name from the vote's identity,
// which is the (congress, legislative number) pair.
func (v *Vote) Filename() string {
	legis := strings.ReplaceAll(v.Congress.LegisNum, " ", "")
	return fmt.Sprintf("house_%d_%s.json", v.Congress.Congress, legis)
}

func (v *Vote) EntityKind() string { return "votes" }
