package corpus

import (
	"fmt"
	"sync"
)

// Searchable groups.
const (
	GroupReps  = "reps"
	GroupBills = "bills"
)

type UnknownGroupError struct {
	Group string
}

func (e *UnknownGroupError) Error() string {
	return fmt.Sprintf("unknown search group %q", e.Group)
}

// memo caches every answered query, keyed group → key → value. Entries are
// never invalidated; the corpus they index is immutable.
type memo struct {
	mu      sync.RWMutex
	entries map[string]map[string]map[string]Set
}

func newMemo() *memo {
	return &memo{entries: map[string]map[string]map[string]Set{}}
}

func (m *memo) get(group, key, value string) (Set, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.entries[group][key][value]
	return s, ok
}

func (m *memo) put(group, key, value string, s Set) {
	m.mu.Lock()
	defer m.mu.Unlock()
	byKey, ok := m.entries[group]
	if !ok {
		byKey = map[string]map[string]Set{}
		m.entries[group] = byKey
	}
	byValue, ok := byKey[key]
	if !ok {
		byValue = map[string]Set{}
		byKey[key] = byValue
	}
	byValue[value] = s
}

// Search answers a (group, key, value) query over the corpus. The first
// evaluation of a query scans the group; every later evaluation of the same
// triple returns the cached set. Two derived rep queries, sponsor and
// cosponsor, answer with the set of bills the member with the given url
// sponsored or cosponsored.
func (c *Corpus) Search(group, key, value string) (Set, error) {
	if cached, ok := c.memo.get(group, key, value); ok {
		return cached, nil
	}

	result, err := c.search(group, key, value)
	if err != nil {
		return nil, err
	}
	c.memo.put(group, key, value, result)
	return result, nil
}

func (c *Corpus) search(group, key, value string) (Set, error) {
	switch group {
	case GroupReps:
		switch key {
		case "sponsor":
			return c.Search(GroupBills, "sponsor url", value)
		case "cosponsor":
			return c.Search(GroupBills, "cosponsor url", value)
		}
		result := Set{}
		for _, r := range c.Reps {
			ok, err := r.Matches(key, value)
			if err != nil {
				return nil, err
			}
			if ok {
				result[r] = struct{}{}
			}
		}
		return result, nil

	case GroupBills:
		result := Set{}
		for _, b := range c.Bills {
			ok, err := b.Matches(key, value)
			if err != nil {
				return nil, err
			}
			if ok {
				result[b] = struct{}{}
			}
		}
		return result, nil
	}

	return nil, &UnknownGroupError{Group: group}
}
