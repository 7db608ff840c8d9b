package ingest

import (
	"context"
	"path"
	"slices"

	"demnow-backend/internal/house"
	"demnow-backend/internal/house/corpus"
	"demnow-backend/internal/house/floor"
	"demnow-backend/lib/jsonstore"
)

// ScrapeFloor fetches and persists a floor-proceedings session document. The
// document name in the url identifies the session.
func (s *Scraper) ScrapeFloor(ctx context.Context, url string, force bool) (*floor.Session, error) {
	cache := s.caches["session"]
	body, err := cache.Fetch(ctx, url, force)
	if err != nil {
		return nil, err
	}

	source := path.Base(url)
	session, err := floor.Extract(body, source, house.Sources{URL: url, CachePath: cache.CachePath(url)})
	if err != nil {
		return nil, err
	}

	session.Sources.JSONPath = s.jsonPath("session", session.Filename())
	err = jsonstore.Save(session.Sources.JSONPath, session)
	if err != nil {
		return nil, err
	}
	return session, nil
}

// ResolveFloorRefs scrapes every vote and bill a session's floor actions
// reference that the corpus does not hold yet. Each referenced url is
// scraped at most once even when many actions point at it.
func (s *Scraper) ResolveFloorRefs(ctx context.Context, c *corpus.Corpus, session *floor.Session, force bool) Report {
	var voteURLs, billURLs []string
	seen := map[string]bool{}
	for _, activity := range session.Activities {
		for _, action := range activity.Actions {
			item := action.Item
			if item == nil || item.URL == "" || seen[item.URL] {
				continue
			}
			seen[item.URL] = true
			if _, ok := c.ByURL(item.URL); ok {
				continue
			}
			switch item.Type {
			case floor.ItemVote:
				voteURLs = append(voteURLs, item.URL)
			case floor.ItemBill:
				billURLs = append(billURLs, item.URL)
			}
		}
	}

	report := s.ScrapeVotes(ctx, voteURLs, force)
	report.merge(s.ScrapeBills(ctx, billURLs, force))
	return report
}

// RepURLs collects every member-page url the corpus's bills point at,
// sponsors and cosponsors alike, deduplicated and sorted.
func RepURLs(c *corpus.Corpus) []string {
	seen := map[string]bool{}
	for _, b := range c.Bills {
		if b.Overview.Sponsor != nil && b.Overview.Sponsor.URL != "" {
			seen[b.Overview.Sponsor.URL] = true
		}
		for _, co := range b.Cosponsors {
			if co.URL != "" {
				seen[co.URL] = true
			}
		}
	}

	urls := make([]string, 0, len(seen))
	for url := range seen {
		urls = append(urls, url)
	}
	slices.Sort(urls)
	return urls
}
