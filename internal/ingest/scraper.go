// Package ingest drives batch scraping: fetch a document per url, extract
// the typed record, persist it. One bad url costs that record, never the
// batch.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"demnow-backend/internal/house"
	"demnow-backend/internal/house/bill"
	"demnow-backend/internal/house/rep"
	"demnow-backend/internal/house/vote"
	"demnow-backend/internal/telemetry"
	"demnow-backend/lib/fetchcache"
	"demnow-backend/lib/jsonstore"
)

var tracer = otel.Tracer("demnow.ingest")

const (
	report_scrape_failed = "scrape.failed"
	report_scrape_count  = "scrape.completed"
)

const defaultConcurrency = 4

// kinds name the entity directories under the data root; each holds a web/
// mirror of the raw documents and a json/ directory of extracted records.
var kinds = []string{"bills", "reps", "votes", "session"}

type Scraper struct {
	dataDir     string
	tel         telemetry.API
	concurrency int
	caches      map[string]*fetchcache.Client
}

func New(dataDir string, tel telemetry.API, concurrency int) (*Scraper, error) {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	s := &Scraper{
		dataDir:     dataDir,
		tel:         telemetry.NewScopedAPI("ingest", tel),
		concurrency: concurrency,
		caches:      map[string]*fetchcache.Client{},
	}
	for _, kind := range kinds {
		cache, err := fetchcache.New(filepath.Join(dataDir, kind, "web"))
		if err != nil {
			return nil, err
		}
		s.caches[kind] = cache
	}
	err := os.MkdirAll(dataDir, 0755)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scraper) jsonPath(kind, filename string) string {
	return filepath.Join(s.dataDir, kind, "json", filename)
}

type Failure struct {
	URL string
	Err error
}

// Report summarizes a batch: how many records landed and which urls did not.
type Report struct {
	OK       int
	Failures []Failure
}

func (r *Report) merge(other Report) {
	r.OK += other.OK
	r.Failures = append(r.Failures, other.Failures...)
}

// Err folds the failures into a single error, nil for a clean batch.
func (r Report) Err() error {
	if len(r.Failures) == 0 {
		return nil
	}
	errs := make([]error, 0, len(r.Failures))
	for _, f := range r.Failures {
		errs = append(errs, fmt.Errorf("%s: %w", f.URL, f.Err))
	}
	return errors.Join(errs...)
}

// scrapeAll runs one scrape per url over a bounded worker pool. Failures are
// collected, not propagated: the pool always drains the full url list.
func (s *Scraper) scrapeAll(ctx context.Context, kind string, urls []string, one func(ctx context.Context, url string) error) Report {
	ctx, span := tracer.Start(ctx, "scrapeAll")
	defer span.End()
	span.SetAttributes(
		attribute.String("kind", kind),
		attribute.Int("urls", len(urls)),
	)

	var (
		mu     sync.Mutex
		report Report
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, url := range urls {
		g.Go(func() error {
			err := one(ctx, url)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				s.tel.ReportWarning(report_scrape_failed, "kind", kind, "url", url, "err", err)
				report.Failures = append(report.Failures, Failure{URL: url, Err: err})
				return nil
			}
			report.OK++
			return nil
		})
	}
	// workers never return errors; Wait is only a join point
	_ = g.Wait()

	s.tel.ReportCount(report_scrape_count, int64(report.OK))
	return report
}

// ScrapeBills fetches, extracts and persists one bill per detail-page url.
func (s *Scraper) ScrapeBills(ctx context.Context, urls []string, force bool) Report {
	cache := s.caches["bills"]
	return s.scrapeAll(ctx, "bills", urls, func(ctx context.Context, url string) error {
		body, err := cache.Fetch(ctx, url, force)
		if err != nil {
			return err
		}
		b, err := bill.Extract(body, house.Sources{URL: url, CachePath: cache.CachePath(url)})
		if err != nil {
			return err
		}
		b.Sources.JSONPath = s.jsonPath("bills", b.Filename())
		return jsonstore.Save(b.Sources.JSONPath, b)
	})
}

// ScrapeReps fetches, extracts and persists one member per member-page url.
func (s *Scraper) ScrapeReps(ctx context.Context, urls []string, force bool) Report {
	cache := s.caches["reps"]
	return s.scrapeAll(ctx, "reps", urls, func(ctx context.Context, url string) error {
		body, err := cache.Fetch(ctx, url, force)
		if err != nil {
			return err
		}
		r, err := rep.Extract(body, house.Sources{URL: url, CachePath: cache.CachePath(url)})
		if err != nil {
			return err
		}
		r.Sources.JSONPath = s.jsonPath("reps", r.Filename())
		return jsonstore.Save(r.Sources.JSONPath, r)
	})
}

// ScrapeVotes fetches, extracts and persists one roll-call vote per feed url.
func (s *Scraper) ScrapeVotes(ctx context.Context, urls []string, force bool) Report {
	cache := s.caches["votes"]
	return s.scrapeAll(ctx, "votes", urls, func(ctx context.Context, url string) error {
		body, err := cache.Fetch(ctx, url, force)
		if err != nil {
			return err
		}
		v, err := vote.Extract(body, house.Sources{URL: url, CachePath: cache.CachePath(url)})
		if err != nil {
			return err
		}
		v.Sources.JSONPath = s.jsonPath("votes", v.Filename())
		return jsonstore.Save(v.Sources.JSONPath, v)
	})
}
