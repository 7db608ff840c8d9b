// Package floor models a House floor-proceedings session: one document per
// congressional session, holding a legislative activity per legislative day,
// each a sequence of timestamped floor actions.
package floor

import (
	"strings"

	"demnow-backend/internal/house"
)

// Action item types a floor action can reference.
const (
	ItemVote = "vote"
	ItemBill = "bill"
)

type Session struct {
	Congress   int                   `json:"congress"`
	Session    int                   `json:"session"`
	Source     string                `json:"source"`
	Sources    house.Sources         `json:"sources"`
	Activities []LegislativeActivity `json:"activities,omitempty"`
}

type LegislativeActivity struct {
	Header   string        `json:"header"`
	Language string        `json:"language,omitempty"`
	Date     int64         `json:"date"`
	Actions  []FloorAction `json:"floor_actions,omitempty"`
}

type FloorAction struct {
	Time        int64       `json:"time"`
	UniqueID    string      `json:"unique_id"`
	ActID       string      `json:"act_id,omitempty"`
	Description string      `json:"description"`
	Item        *ActionItem `json:"item,omitempty"`
}

// ActionItem is a lazy reference to the vote or bill a floor action points
// at. Only the url and type tag are kept; the referenced record is resolved
// on demand through the corpus so that a vote referenced by many actions is
// fetched once.
type ActionItem struct {
	Label string `json:"label"`
	Text  string `json:"text,omitempty"`
	URL   string `json:"url,omitempty"`
	Type  string `json:"type,omitempty"`
}

func (a FloorAction) ItemType() string {
	if a.Item == nil {
		return ""
	}
	return a.Item.Type
}

// Votes returns the day's actions that reference a roll-call vote.
func (l LegislativeActivity) Votes() []FloorAction {
	return l.byType(ItemVote)
}

// Bills returns the day's actions that reference a bill.
func (l LegislativeActivity) Bills() []FloorAction {
	return l.byType(ItemBill)
}

func (l LegislativeActivity) byType(itemType string) []FloorAction {
	var out []FloorAction
	for _, action := range l.Actions {
		if action.ItemType() == itemType {
			out = append(out, action)
		}
	}
	return out
}

// Filename derives the persisted document name from the source document's
// name, which identifies the session.
func (s *Session) Filename() string {
	name := strings.TrimSuffix(s.Source, ".xml")
	return name + ".json"
}

func (s *Session) EntityKind() string { return "session" }
