package client

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/hazirlageldim/pickup-app/models"
	"github.com/hazirlageldim/pickup-app/utils"
)

const (
	// MaxDistanceKm caps discovery to businesses within 20 km.
	MaxDistanceKm = 20.0
	// PerPage is the nearby page size; a short page means no more results.
	PerPage = 50

	nearbyRefreshInterval = 30 * time.Second
	openBadgeInterval     = time.Minute
)

// Fallback when the device gives no location: Istanbul city center.
const (
	FallbackLat = 41.0082
	FallbackLng = 28.9784
)

// LocationProvider abstracts the device's geolocation.
type LocationProvider interface {
	Current(ctx context.Context) (lat, lng float64, err error)
}

// NearbyRow is one discovery result: the business plus its distance.
type NearbyRow struct {
	models.Business
	DistanceKm float64 `json:"distance_km"`
}

// NearbyBrowser drives the discovery screen: first page, infinite scroll,
// search, a silent 30s refresh of the first page and a 60s re-evaluation of
// the open/closed badges.
type NearbyBrowser struct {
	gw  Gateway
	loc LocationProvider

	refresh   *Poller
	openClock *Poller

	mu       sync.Mutex
	lat, lng float64
	located  bool
	rows     []NearbyRow
	page     int
	hasMore  bool
	search   string
	revision int
}

func NewNearbyBrowser(gw Gateway, loc LocationProvider) *NearbyBrowser {
	b := &NearbyBrowser{gw: gw, loc: loc}
	b.refresh = NewPoller(nearbyRefreshInterval, b.silentRefresh)
	b.openClock = NewPoller(openBadgeInterval, b.tickOpenBadges)
	return b
}

func (b *NearbyBrowser) locate(ctx context.Context) (float64, float64) {
	b.mu.Lock()
	if b.located {
		lat, lng := b.lat, b.lng
		b.mu.Unlock()
		return lat, lng
	}
	b.mu.Unlock()

	lat, lng := FallbackLat, FallbackLng
	if b.loc != nil {
		if gotLat, gotLng, err := b.loc.Current(ctx); err == nil {
			lat, lng = gotLat, gotLng
		} else {
			utils.Infof("nearby: no device location, using fallback: %v", err)
		}
	}

	b.mu.Lock()
	b.lat, b.lng, b.located = lat, lng, true
	b.mu.Unlock()
	return lat, lng
}

func (b *NearbyBrowser) fetchPage(ctx context.Context, offset int) ([]NearbyRow, error) {
	lat, lng := b.locate(ctx)

	b.mu.Lock()
	term := b.search
	b.mu.Unlock()

	args := map[string]interface{}{
		"user_lat":        lat,
		"user_lng":        lng,
		"max_distance_km": MaxDistanceKm,
		"limit_count":     PerPage,
		"offset_count":    offset,
	}
	name := "get_nearby_businesses"
	if term != "" {
		name = "search_nearby_businesses"
		args["search_term"] = term
	}

	var rows []NearbyRow
	if err := b.gw.RPC(ctx, name, args, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// Load fetches the first page.
func (b *NearbyBrowser) Load(ctx context.Context) error {
	rows, err := b.fetchPage(ctx, 0)
	if err != nil {
		return err
	}

	b.mu.Lock()
	b.rows = rows
	b.page = 0
	b.hasMore = b.search == "" && len(rows) == PerPage
	b.mu.Unlock()
	return nil
}

// LoadMore appends the next page; a no-op once the feed is exhausted or a
// search is active.
func (b *NearbyBrowser) LoadMore(ctx context.Context) error {
	b.mu.Lock()
	if !b.hasMore {
		b.mu.Unlock()
		return nil
	}
	offset := (b.page + 1) * PerPage
	b.mu.Unlock()

	rows, err := b.fetchPage(ctx, offset)
	if err != nil {
		return err
	}

	b.mu.Lock()
	b.rows = append(b.rows, rows...)
	b.page++
	b.hasMore = len(rows) == PerPage
	b.mu.Unlock()
	return nil
}

// Search switches the browser to search results; paging is disabled until
// ClearSearch.
func (b *NearbyBrowser) Search(ctx context.Context, term string) error {
	b.mu.Lock()
	b.search = strings.TrimSpace(term)
	b.mu.Unlock()
	return b.Load(ctx)
}

func (b *NearbyBrowser) ClearSearch(ctx context.Context) error {
	b.mu.Lock()
	b.search = ""
	b.mu.Unlock()
	return b.Load(ctx)
}

// silentRefresh re-runs the first page in the background; appended pages
// survive only until the next scroll-to-load.
func (b *NearbyBrowser) silentRefresh(ctx context.Context) error {
	rows, err := b.fetchPage(ctx, 0)
	if err != nil {
		return err
	}
	if ctx.Err() != nil {
		return nil
	}

	b.mu.Lock()
	b.rows = rows
	b.page = 0
	b.hasMore = b.search == "" && len(rows) == PerPage
	b.revision++
	b.mu.Unlock()
	return nil
}

func (b *NearbyBrowser) tickOpenBadges(ctx context.Context) error {
	b.mu.Lock()
	b.revision++
	b.mu.Unlock()
	return nil
}

// StartAutoRefresh runs the 30s silent refresh and the 60s open-badge
// clock until Stop.
func (b *NearbyBrowser) StartAutoRefresh(ctx context.Context) {
	b.refresh.Start(ctx)
	b.openClock.Start(ctx)
}

func (b *NearbyBrowser) Stop() {
	b.refresh.Stop()
	b.openClock.Stop()
}

func (b *NearbyBrowser) Rows() []NearbyRow {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]NearbyRow, len(b.rows))
	copy(out, b.rows)
	return out
}

func (b *NearbyBrowser) HasMore() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hasMore
}

// Revision bumps whenever the list or the clock moved; UIs re-render the
// open/closed badges on change.
func (b *NearbyBrowser) Revision() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.revision
}
