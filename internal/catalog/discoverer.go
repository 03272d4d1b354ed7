package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly"
	"golang.org/x/sync/errgroup"

	"github.com/dkudrin/taratdl/internal/config"
	"github.com/dkudrin/taratdl/internal/http"
	"github.com/dkudrin/taratdl/internal/logging"
	"github.com/dkudrin/taratdl/internal/model"
)

// ErrNoArtists is returned when the /music listing yields no artist
// pages.
//
// This typically occurs when:
//   - The base URL does not point at the catalog
//   - The listing markup has changed unexpectedly
var ErrNoArtists = errors.New("no artist pages found in listing")

// Fetcher is the subset of the HTTP client discovery uses for artist
// pages.
type Fetcher interface {
	GetString(ctx context.Context, url string, timeout time.Duration) (string, error)
}

// Discoverer crawls the catalog and produces the flat track list.
//
// Example usage:
//
//	d := catalog.NewDiscoverer(settings, client, log)
//	tracks, err := d.DiscoverAll(ctx)
//	if err != nil {
//	    return err
//	}
//	catalog.SaveCache(settings.TracksCacheFile, tracks)
type Discoverer struct {
	settings *config.Settings
	fetcher  Fetcher
	log      *slog.Logger
	base     *url.URL

	// OnArtist, when set, is called after each artist page is
	// processed, with the number done so far and the total.
	OnArtist func(done, total int)
}

// NewDiscoverer creates a Discoverer. A nil log discards log output.
func NewDiscoverer(settings *config.Settings, fetcher Fetcher, log *slog.Logger) (*Discoverer, error) {
	if log == nil {
		log = logging.Discard()
	}
	base, err := url.Parse(settings.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	return &Discoverer{
		settings: settings,
		fetcher:  fetcher,
		log:      log,
		base:     base,
	}, nil
}

// DiscoverAll crawls the listing and every artist page, returning all
// tracks found.
//
// An unreachable listing is fatal. A failed artist page is logged and
// skipped; the rest of the crawl continues.
func (d *Discoverer) DiscoverAll(ctx context.Context) ([]model.TrackRecord, error) {
	artistURLs, err := d.ListArtistURLs(ctx)
	if err != nil {
		return nil, err
	}

	var (
		mu   sync.Mutex
		all  []model.TrackRecord
		done int
	)
	total := len(artistURLs)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(d.settings.DiscoveryConcurrency)

	for _, artistURL := range artistURLs {
		artistURL := artistURL // capture
		g.Go(func() error {
			tracks, err := d.Artist(ctx, artistURL)
			if err != nil {
				d.log.Error("artist page failed", "url", artistURL, "error", err)
			}

			mu.Lock()
			all = append(all, tracks...)
			done++
			n := done
			mu.Unlock()

			if d.OnArtist != nil {
				d.OnArtist(n, total)
			}

			d.pause(ctx, d.settings.ArtistDelayMin, d.settings.ArtistDelayMax)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return all, nil
}

// ListArtistURLs walks the paginated /music listing and returns the
// absolute artist page URLs, sorted and deduplicated.
//
// Pagination follows ?page=N while the page both yields artist links
// and carries a rel="next" link. A failure on the first page aborts
// with an error; a failure on a later page ends pagination with what
// was collected so far.
func (d *Discoverer) ListArtistURLs(ctx context.Context) ([]string, error) {
	seen := make(map[string]struct{})

	var pageLinks int
	var hasNext bool

	c := colly.NewCollector(colly.AllowURLRevisit())

	c.OnRequest(func(r *colly.Request) {
		for key, values := range http.RandomHeaders(d.settings.BaseURL) {
			r.Headers.Set(key, values[0])
		}
	})

	c.OnHTML(`h4.property-item-title a[href^="/music/"]`, func(e *colly.HTMLElement) {
		href := e.Attr("href")
		if href == "" || strings.HasSuffix(href, "/music") {
			return
		}
		if abs := d.resolve(href); abs != "" {
			if _, ok := seen[abs]; !ok {
				seen[abs] = struct{}{}
				pageLinks++
			}
		}
	})

	c.OnHTML(`ul.pagination a[rel="next"]`, func(*colly.HTMLElement) {
		hasNext = true
	})

	listingURL := d.settings.BaseURL + d.settings.MusicPagePath

	for page := 1; ; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		pageURL := listingURL
		if page > 1 {
			pageURL = fmt.Sprintf("%s?page=%d", listingURL, page)
		}

		pageLinks = 0
		hasNext = false

		if err := c.Visit(pageURL); err != nil {
			if page == 1 {
				return nil, fmt.Errorf("listing page unreachable: %w", err)
			}
			d.log.Error("listing page failed", "url", pageURL, "error", err)
			break
		}

		if pageLinks == 0 || !hasNext {
			break
		}

		d.pause(ctx, d.settings.PageDelayMin, d.settings.PageDelayMax)
	}

	if len(seen) == 0 {
		return nil, ErrNoArtists
	}

	urls := make([]string, 0, len(seen))
	for u := range seen {
		urls = append(urls, u)
	}
	sort.Strings(urls)
	return urls, nil
}

// Artist fetches and parses one artist page into track records.
//
// An artist page without a recognizable name still yields tracks under
// the name "Unknown"; a page without tracks yields an empty slice and
// no error.
func (d *Discoverer) Artist(ctx context.Context, artistURL string) ([]model.TrackRecord, error) {
	html, err := d.fetcher.GetString(ctx, artistURL, secs(d.settings.HTMLTimeout))
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(doc.Find("div.page-title h1").First().Text())
	if name == "" {
		name = "Unknown"
	}

	var coverURL string
	if src, ok := doc.Find("img.img-fluid").First().Attr("src"); ok && src != "" {
		coverURL = d.resolve(src)
	}

	var tracks []model.TrackRecord
	doc.Find("li.song i.play[data-file][data-song-title]").Each(func(_ int, s *goquery.Selection) {
		title := strings.TrimSpace(s.AttrOr("data-song-title", ""))
		file := strings.TrimSpace(s.AttrOr("data-file", ""))
		if title == "" || file == "" {
			return
		}
		tracks = append(tracks, model.TrackRecord{
			Artist:   name,
			Title:    title,
			AudioURL: d.resolve(file),
			CoverURL: coverURL,
		})
	})

	return tracks, nil
}

// resolve turns a possibly relative reference into an absolute URL
// against the catalog base. Unparseable references resolve to "".
func (d *Discoverer) resolve(ref string) string {
	u, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	return d.base.ResolveReference(u).String()
}

// pause sleeps a random duration between minS and maxS seconds, or
// until ctx is done.
func (d *Discoverer) pause(ctx context.Context, minS, maxS float64) {
	if maxS <= 0 {
		return
	}
	span := maxS - minS
	delay := secs(minS + rand.Float64()*span)
	select {
	case <-ctx.Done():
	case <-time.After(delay):
	}
}

func secs(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
