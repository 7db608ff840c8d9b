// Package rep models a member of Congress as presented by their
// congress.gov member page.
package rep

import (
	"fmt"
	"strconv"
	"strings"

	"demnow-backend/internal/house"
	"demnow-backend/lib/textutil"
)

type Representative struct {
	Basics   Basics        `json:"basics"`
	Sources  house.Sources `json:"sources"`
	Overview Overview      `json:"overview"`
}

type Basics struct {
	// Title is "Representative" or "Senator" exactly; chamber matching
	// depends on that.
	Title     string `json:"title"`
	Name      string `json:"name"`
	BirthYear int    `json:"birth_year,omitempty"`
	DeathYear int    `json:"death_year,omitempty"`
}

type Overview struct {
	Info      Info       `json:"info"`
	Positions []Position `json:"positions,omitempty"`
}

// Info holds the member's overview table. Sitting members have an explicit
// party; members with party changes carry a history of "Party Term" strings
// like "Republican 2009-Present" instead.
type Info struct {
	Website      string   `json:"website,omitempty"`
	Party        string   `json:"party,omitempty"`
	Contact      string   `json:"contact,omitempty"`
	PartyHistory []string `json:"party_history,omitempty"`
}

type Position struct {
	State      string `json:"state"`
	District   int    `json:"district,omitempty"`
	Chamber    string `json:"chamber"`
	StartYear  int    `json:"start_year"`
	EndYear    int    `json:"end_year,omitempty"`
	Congresses []int  `json:"congresses,omitempty"`
}

// Open reports whether the position is currently held.
func (p Position) Open() bool {
	return p.EndYear == 0
}

// CurrentParty resolves the member's party: the explicit field when present,
// otherwise the most recent party-history entry whose term runs to Present.
func (r *Representative) CurrentParty() string {
	if r.Overview.Info.Party != "" {
		return r.Overview.Info.Party
	}
	party := ""
	for _, entry := range r.Overview.Info.PartyHistory {
		i := strings.LastIndex(entry, " ")
		if i < 0 {
			continue
		}
		if strings.HasSuffix(entry[i+1:], "Present") {
			party = entry[:i]
		}
	}
	return party
}

// currentPosition picks the open position, falling back to the most recently
// ended one for former members.
func (r *Representative) currentPosition() (Position, bool) {
	var latest Position
	found := false
	for _, p := range r.Overview.Positions {
		if p.Open() {
			return p, true
		}
		if !found || p.EndYear > latest.EndYear {
			latest = p
			found = true
		}
	}
	return latest, found
}

func (r *Representative) CurrentState() string {
	p, ok := r.currentPosition()
	if !ok {
		return ""
	}
	return p.State
}

func (r *Representative) CurrentDistrict() int {
	p, ok := r.currentPosition()
	if !ok {
		return 0
	}
	return p.District
}

// Active reports whether the member currently holds any position.
func (r *Representative) Active() bool {
	for _, p := range r.Overview.Positions {
		if p.Open() {
			return true
		}
	}
	return false
}

func (r *Representative) Alive() bool {
	return r.Basics.DeathYear == 0
}

// Age computes the member's age against the given year, or their age at
// death for deceased members.
func (r *Representative) Age(year int) int {
	if r.Basics.BirthYear == 0 {
		return 0
	}
	if r.Basics.DeathYear != 0 {
		return r.Basics.DeathYear - r.Basics.BirthYear
	}
	return year - r.Basics.BirthYear
}

// YearsOfService sums position durations, with open-ended positions counted
// up to the given year.
func (r *Representative) YearsOfService(year int) int {
	total := 0
	for _, p := range r.Overview.Positions {
		end := p.EndYear
		if end == 0 {
			end = year
		}
		total += end - p.StartYear
	}
	return total
}

// Chamber maps the member's title to their chamber.
func (r *Representative) Chamber() string {
	switch r.Basics.Title {
	case "Representative":
		return "House"
	case "Senator":
		return "Senate"
	}
	return ""
}

// Filename derives the persisted document name from the member's identity,
// which is their full display name.
func (r *Representative) Filename() string {
	return strings.ReplaceAll(r.Basics.Name, "/", "_") + ".json"
}

func (r *Representative) EntityKind() string { return "reps" }

// Matches implements the representative side of corpus search. The name key
// is fuzzy: the query must be a letter subsequence of the member's name.
func (r *Representative) Matches(key, value string) (bool, error) {
	switch key {
	case "source":
		return r.Sources.URL == value, nil
	case "name":
		return textutil.MatchName(r.Basics.Name, value), nil
	case "chamber":
		return r.Chamber() == value, nil
	case "alive":
		alive, err := strconv.ParseBool(value)
		if err != nil {
			return false, fmt.Errorf("rep: alive value %q: %w", value, err)
		}
		return r.Alive() == alive, nil
	case "party":
		return r.CurrentParty() == value, nil
	case "state":
		return r.CurrentState() == value, nil
	case "district":
		district, err := strconv.Atoi(value)
		if err != nil {
			return false, fmt.Errorf("rep: district value %q: %w", value, err)
		}
		return r.CurrentDistrict() == district, nil
	case "active":
		active, err := strconv.ParseBool(value)
		if err != nil {
			return false, fmt.Errorf("rep: active value %q: %w", value, err)
		}
		return r.Active() == active, nil
	}
	return false, fmt.Errorf("rep: unknown search key %q", key)
}
