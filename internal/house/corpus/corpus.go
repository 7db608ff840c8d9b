// Package corpus loads every persisted House document into memory and
// answers (group, key, value) queries over the loaded records. A Corpus is
// immutable once built; changing the data on disk means building a new one.
package corpus

import (
	"fmt"
	"path/filepath"

	"demnow-backend/internal/house/bill"
	"demnow-backend/internal/house/floor"
	"demnow-backend/internal/house/rep"
	"demnow-backend/internal/house/vote"
	"demnow-backend/lib/jsonstore"
)

// Entity is any persisted House record. The kind string names the group the
// record belongs to and doubles as its directory name under the data root.
type Entity interface {
	EntityKind() string
}

// Set is an unordered collection of entities. Sets returned by Search are
// shared across callers and must not be mutated; compose them with Intersect
// and Union instead.
type Set map[Entity]struct{}

func NewSet(entities ...Entity) Set {
	s := make(Set, len(entities))
	for _, e := range entities {
		s[e] = struct{}{}
	}
	return s
}

func (s Set) Contains(e Entity) bool {
	_, ok := s[e]
	return ok
}

func (s Set) Intersect(other Set) Set {
	small, large := s, other
	if len(large) < len(small) {
		small, large = large, small
	}
	out := Set{}
	for e := range small {
		if large.Contains(e) {
			out[e] = struct{}{}
		}
	}
	return out
}

func (s Set) Union(other Set) Set {
	out := make(Set, len(s)+len(other))
	for e := range s {
		out[e] = struct{}{}
	}
	for e := range other {
		out[e] = struct{}{}
	}
	return out
}

type Corpus struct {
	Bills    []*bill.Bill
	Reps     []*rep.Representative
	Votes    []*vote.Vote
	Sessions []*floor.Session

	byURL map[string]Entity
	memo  *memo
}

// New builds a corpus over already-loaded records and its lookup indices.
func New(bills []*bill.Bill, reps []*rep.Representative, votes []*vote.Vote, sessions []*floor.Session) *Corpus {
	c := &Corpus{
		Bills:    bills,
		Reps:     reps,
		Votes:    votes,
		Sessions: sessions,
		byURL:    map[string]Entity{},
		memo:     newMemo(),
	}
	for _, b := range bills {
		c.byURL[b.Sources.URL] = b
	}
	for _, v := range votes {
		c.byURL[v.Sources.URL] = v
	}
	return c
}

// Load reads every persisted document under root, which is laid out as
// {bills,reps,votes,session}/json/*.json. The first document that fails to
// load aborts the whole load: a corpus with silently missing records would
// answer queries wrong.
func Load(root string) (*Corpus, error) {
	bills, err := loadAll[bill.Bill](filepath.Join(root, "bills", "json"))
	if err != nil {
		return nil, err
	}
	reps, err := loadAll[rep.Representative](filepath.Join(root, "reps", "json"))
	if err != nil {
		return nil, err
	}
	votes, err := loadAll[vote.Vote](filepath.Join(root, "votes", "json"))
	if err != nil {
		return nil, err
	}
	sessions, err := loadAll[floor.Session](filepath.Join(root, "session", "json"))
	if err != nil {
		return nil, err
	}
	return New(bills, reps, votes, sessions), nil
}

func loadAll[T any](dir string) ([]*T, error) {
	paths, err := jsonstore.List(dir)
	if err != nil {
		return nil, err
	}
	records := make([]*T, 0, len(paths))
	for _, path := range paths {
		record, err := jsonstore.Load[T](path)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
		records = append(records, record)
	}
	return records, nil
}

// ByURL finds the record scraped from the given source url.
func (c *Corpus) ByURL(url string) (Entity, bool) {
	e, ok := c.byURL[url]
	return e, ok
}

// ResolveAction follows a floor action's reference to the vote or bill it
// points at, if that record has been scraped.
func (c *Corpus) ResolveAction(item *floor.ActionItem) (Entity, bool) {
	if item == nil || item.URL == "" {
		return nil, false
	}
	return c.ByURL(item.URL)
}
