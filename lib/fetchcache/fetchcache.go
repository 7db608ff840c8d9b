// Package fetchcache retrieves documents over HTTP and mirrors each response
// body verbatim into a local cache directory. A cached document is valid
// forever; callers opt into a refresh explicitly.
package fetchcache

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"context"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("demnow.lib.fetchcache")

// FetchError wraps any network or filesystem failure while retrieving a
// document. It is fatal for the record being built and nothing else.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %s", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// CacheName maps a url to its cache filename: scheme stripped, every slash
// replaced with an underscore. The mapping is deterministic so re-scraping a
// url overwrites its previous cache entry.
func CacheName(url string) string {
	if _, rest, found := strings.Cut(url, "://"); found {
		url = rest
	}
	return strings.ReplaceAll(url, "/", "_")
}

type Client struct {
	http *resty.Client
	dir  string

	mu    sync.Mutex
	paths map[string]*sync.Mutex
}

func New(dir string) (*Client, error) {
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return nil, err
	}
	return &Client{
		http:  resty.New(),
		dir:   dir,
		paths: map[string]*sync.Mutex{},
	}, nil
}

func (c *Client) CachePath(url string) string {
	return filepath.Join(c.dir, CacheName(url))
}

// lockPath serializes the existence check and write for one cache path so
// concurrent workers fetching distinct urls never interleave on a shared
// file.
func (c *Client) lockPath(path string) func() {
	c.mu.Lock()
	lock, ok := c.paths[path]
	if !ok {
		lock = &sync.Mutex{}
		c.paths[path] = lock
	}
	c.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

// Fetch returns the document at url, reading the local cache when it exists
// and forceReload is unset. A network fetch writes the response body to the
// cache before returning it.
//
// TODO: there is no retry policy; a transient network failure surfaces
// directly to the caller, who currently just loses that record for the run.
func (c *Client) Fetch(ctx context.Context, url string, forceReload bool) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "Fetch")
	defer span.End()
	span.SetAttributes(
		attribute.String("url", url),
		attribute.Bool("force_reload", forceReload),
	)

	path := c.CachePath(url)
	unlock := c.lockPath(path)
	defer unlock()

	if !forceReload {
		cached, err := os.ReadFile(path)
		if err == nil {
			span.AddEvent("cache hit")
			return cached, nil
		}
		if !os.IsNotExist(err) {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to read cache")
			return nil, &FetchError{URL: url, Err: err}
		}
	}

	res, err := c.http.R().SetContext(ctx).Get(url)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return nil, &FetchError{URL: url, Err: err}
	}

	body := res.Body()
	err = writeAtomic(c.dir, path, body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to write cache")
		return nil, &FetchError{URL: url, Err: err}
	}

	slog.Debug("fetched document", "url", url, "bytes", len(body), "cache", path)
	return body, nil
}

// writeAtomic stages the body in a temp file and renames it into place, so a
// crashed or cancelled fetch never leaves a truncated cache entry behind.
func writeAtomic(dir, path string, body []byte) error {
	tmp, err := os.CreateTemp(dir, ".fetch-*")
	if err != nil {
		return err
	}
	_, err = tmp.Write(body)
	if err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	err = tmp.Close()
	if err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
