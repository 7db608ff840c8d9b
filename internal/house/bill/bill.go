// Package bill models a single bill as presented by its congress.gov detail
// page and extracts it from the scraped markup.
package bill

import (
	"fmt"
	"strconv"
	"strings"

	"demnow-backend/internal/house"
)

// Progress states. A bill page renders its progress bar with exactly one
// current stage, every earlier stage passed and every later stage
// not reached.
const (
	StateNotReached = -1
	StateCurrent    = 0
	StatePassed     = 1
)

type Bill struct {
	Title    string        `json:"title"`
	Congress int           `json:"congress"`
	Summary  string        `json:"summary,omitempty"`
	Text     string        `json:"text,omitempty"`
	Sources  house.Sources `json:"sources"`
	Overview Overview      `json:"overview"`

	Progress       []Stage        `json:"progress,omitempty"`
	Titles         []TitleVariant `json:"titles,omitempty"`
	ActionOverview []Action       `json:"action_overview,omitempty"`
	Actions        []Action       `json:"actions,omitempty"`
	Cosponsors     []Cosponsor    `json:"cosponsors,omitempty"`
	Committees     []Referral     `json:"committees,omitempty"`
	RelatedBills   []Related      `json:"related_bills,omitempty"`
	Subjects       Subjects       `json:"subjects"`
	Amendments     []Amendment    `json:"amendments,omitempty"`
}

type Overview struct {
	Sponsor         *Sponsor         `json:"sponsor"`
	Committees      []string         `json:"committees,omitempty"`
	CommitteeReport *CommitteeReport `json:"committee_report,omitempty"`
	LatestAction    string           `json:"latest_action,omitempty"`
	RollCallCount   int              `json:"roll_call_count,omitempty"`
	Meetings        []Meeting        `json:"meetings,omitempty"`
	Notes           string           `json:"notes,omitempty"`
}

type Sponsor struct {
	URL   string `json:"url"`
	Name  string `json:"name"`
	Title string `json:"title"`
	Date  int64  `json:"date"`
}

type CommitteeReport struct {
	URL    string `json:"url"`
	Report string `json:"report"`
}

type Meeting struct {
	URL      string `json:"url"`
	Datetime int64  `json:"datetime"`
}

type Stage struct {
	Stage string `json:"stage"`
	State int    `json:"state"`
}

// TitleVariant is one entry of the "Titles" tab: short or official, possibly
// tied to a chamber and the point in the process where it applied.
type TitleVariant struct {
	Type     string `json:"type"`
	Chamber  string `json:"chamber,omitempty"`
	Title    string `json:"title"`
	Location string `json:"location,omitempty"`
}

type Action struct {
	Date    int64  `json:"date"`
	Chamber string `json:"chamber,omitempty"`
	Text    string `json:"action"`
}

type Cosponsor struct {
	Date      int64       `json:"date"`
	URL       string      `json:"url"`
	Name      string      `json:"name"`
	Original  bool        `json:"original"`
	Withdrawn *Withdrawal `json:"withdrawn,omitempty"`
}

type Withdrawal struct {
	Date   int64  `json:"date"`
	Reason string `json:"reason,omitempty"`
}

type Referral struct {
	Committee    string `json:"committee"`
	Subcommittee string `json:"subcommittee,omitempty"`
	Date         int64  `json:"date,omitempty"`
	Action       string `json:"action"`
	Report       string `json:"report,omitempty"`
}

type Related struct {
	URL          string `json:"url"`
	Number       string `json:"number"`
	Relationship string `json:"relationship"`
	Identified   int64  `json:"identified,omitempty"`
	LatestAction string `json:"latest_action,omitempty"`
}

type Subjects struct {
	Main   *SubjectRef  `json:"main,omitempty"`
	Others []SubjectRef `json:"others,omitempty"`
}

type SubjectRef struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

type Amendment struct {
	Title        string `json:"title"`
	URL          string `json:"url"`
	Purpose      string `json:"purpose,omitempty"`
	Sponsor      string `json:"sponsor,omitempty"`
	LatestAction string `json:"latest_action,omitempty"`
	Description  string `json:"description,omitempty"`
	Committees   string `json:"committees,omitempty"`
}

// Number returns the legislative number prefix of the title, e.g. "H.R.40"
// out of "H.R.40 - Commission to Study...".
func (b *Bill) Number() string {
	number, _, _ := strings.Cut(b.Title, " - ")
	return number
}

// CurrentStage returns the progress stage the bill currently sits at. The
// extractor guarantees at most one stage carries the current state; a bill
// whose page renders no progress bar has none.
func (b *Bill) CurrentStage() (string, bool) {
	for _, stage := range b.Progress {
		if stage.State == StateCurrent {
			return stage.Stage, true
		}
	}
	return "", false
}

// IntroducedAt exposes the sponsor's introduction timestamp; the web layer
// sorts bills on it.
func (b *Bill) IntroducedAt() int64 {
	if b.Overview.Sponsor == nil {
		return 0
	}
	return b.Overview.Sponsor.Date
}

// Filename derives the persisted document name from the bill's identity,
// which is the (congress, title) pair.
func (b *Bill) Filename() string {
	title := strings.ReplaceAll(b.Title, "/", "_")
	return fmt.Sprintf("%d_%s.json", b.Congress, title)
}

func (b *Bill) EntityKind() string { return "bills" }

// Matches implements the bill side of corpus search. The title key accepts
// either the full title or the bare legislative number.
func (b *Bill) Matches(key, value string) (bool, error) {
	switch key {
	case "source":
		return b.Sources.URL == value, nil
	case "title":
		return b.Title == value || b.Number() == value, nil
	case "congress":
		congress, err := strconv.Atoi(value)
		if err != nil {
			return false, fmt.Errorf("bill: congress value %q: %w", value, err)
		}
		return b.Congress == congress, nil
	case "sponsor url":
		return b.Overview.Sponsor != nil && b.Overview.Sponsor.URL == value, nil
	case "cosponsor url":
		for _, co := range b.Cosponsors {
			if co.URL == value {
				return true, nil
			}
		}
		return false, nil
	}
	return false, fmt.Errorf("bill: unknown search key %q", key)
}
