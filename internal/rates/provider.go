package rates

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/godilite/procurement-server/internal/budget"
	"github.com/godilite/procurement-server/internal/repository/models"
	"github.com/godilite/procurement-server/pkg/cache"
)

type Source string

const (
	SourceLive     Source = "live"
	SourceSnapshot Source = "snapshot"
	SourceFallback Source = "fallback"
)

// RateTable is a rate table together with where it came from.
type RateTable struct {
	Reference string           `json:"reference"`
	Rates     budget.RateTable `json:"rates"`
	Source    Source           `json:"source"`
	FetchedAt time.Time        `json:"fetchedAt"`
}

type Fetcher interface {
	Latest(ctx context.Context, reference string) (map[string]float64, error)
}

type SnapshotStore interface {
	SaveRateSnapshot(ctx context.Context, snap models.RateSnapshot) error
	LatestRateSnapshot(ctx context.Context, reference string) (models.RateSnapshot, error)
}

const defaultCacheTTL = 30 * time.Minute

// Provider resolves the current rate table: the last good table held in
// memory, cache, upstream, last snapshot, then the built-in defaults.
type Provider struct {
	fetcher   Fetcher
	snapshots SnapshotStore
	cache     cache.Cacher
	sf        singleflight.Group
	reference string
	ttl       time.Duration
	logger    *zap.Logger
	now       func() time.Time

	mu     sync.Mutex
	last   RateTable
	lastAt time.Time
}

type ProviderOption func(*Provider)

// WithCache enables the read-through cache. A nil cacher is ignored.
func WithCache(c cache.Cacher, ttl time.Duration) ProviderOption {
	return func(p *Provider) {
		if c != nil {
			p.cache = c
		}
		if ttl > 0 {
			p.ttl = ttl
		}
	}
}

func WithSnapshots(s SnapshotStore) ProviderOption {
	return func(p *Provider) { p.snapshots = s }
}

func WithReference(code string) ProviderOption {
	return func(p *Provider) {
		if code != "" {
			p.reference = code
		}
	}
}

func WithLogger(l *zap.Logger) ProviderOption {
	return func(p *Provider) {
		if l != nil {
			p.logger = l
		}
	}
}

func NewProvider(fetcher Fetcher, opts ...ProviderOption) *Provider {
	if fetcher == nil {
		panic("nil fetcher provided to NewProvider")
	}
	p := &Provider{
		fetcher:   fetcher,
		reference: budget.ReferenceCurrency,
		ttl:       defaultCacheTTL,
		logger:    zap.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.Named("rates")
	return p
}

func (p *Provider) Reference() string { return p.reference }

func (p *Provider) cacheKey() string { return "rates:" + p.reference }

// Rates never fails; every upstream or storage error degrades to the next source.
func (p *Provider) Rates(ctx context.Context) RateTable {
	if table, ok := p.recent(); ok {
		return table
	}

	table, err := cache.FindAndCache(ctx, p.cache, &p.sf, p.cacheKey(), p.ttl, false, p.logger, p.fetchLive)
	if err == nil {
		p.remember(table)
		return table
	}
	p.logger.Warn("live rates unavailable", zap.Error(err))

	if table, ok := p.fromSnapshot(ctx); ok {
		return table
	}

	p.logger.Warn("using fallback rate table", zap.String("reference", p.reference))
	return p.fallback()
}

// Refresh forces an upstream fetch and overwrites the cached table.
func (p *Provider) Refresh(ctx context.Context) (RateTable, error) {
	table, err := p.fetchLive(ctx)
	if err != nil {
		return RateTable{}, err
	}
	p.remember(table)
	if p.cache != nil {
		if err := p.cache.Set(ctx, p.cacheKey(), table, p.ttl); err != nil {
			p.logger.Warn("failed to cache refreshed rates", zap.Error(err))
		}
	}
	return table, nil
}

// recent returns the last good table while it is younger than the cache TTL.
// It keeps a deployment without Redis from going upstream on every call.
func (p *Provider) recent() (RateTable, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.lastAt.IsZero() || p.now().Sub(p.lastAt) >= p.ttl {
		return RateTable{}, false
	}
	return p.last, true
}

func (p *Provider) remember(table RateTable) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.last = table
	p.lastAt = p.now()
}

func (p *Provider) fetchLive(ctx context.Context) (RateTable, error) {
	raw, err := p.fetcher.Latest(ctx, p.reference)
	if err != nil {
		return RateTable{}, err
	}

	table := RateTable{
		Reference: p.reference,
		Rates:     budget.RateTable(raw),
		Source:    SourceLive,
		FetchedAt: p.now().UTC(),
	}

	if p.snapshots != nil {
		snap := models.RateSnapshot{Reference: p.reference, Rates: raw, FetchedAt: table.FetchedAt}
		if err := p.snapshots.SaveRateSnapshot(ctx, snap); err != nil {
			p.logger.Warn("failed to persist rate snapshot", zap.Error(err))
		}
	}
	return table, nil
}

func (p *Provider) fromSnapshot(ctx context.Context) (RateTable, bool) {
	if p.snapshots == nil {
		return RateTable{}, false
	}
	snap, err := p.snapshots.LatestRateSnapshot(ctx, p.reference)
	if err != nil {
		p.logger.Debug("no usable rate snapshot", zap.Error(err))
		return RateTable{}, false
	}
	p.logger.Info("using persisted rate snapshot", zap.Time("fetchedAt", snap.FetchedAt))
	return RateTable{
		Reference: snap.Reference,
		Rates:     budget.RateTable(snap.Rates),
		Source:    SourceSnapshot,
		FetchedAt: snap.FetchedAt,
	}, true
}

func (p *Provider) fallback() RateTable {
	rates := budget.DefaultRates()
	if p.reference != budget.ReferenceCurrency {
		// The built-in table is quoted in TRY; rebase it on the configured reference.
		base := budget.ResolveRateOrDefault(rates, p.reference)
		for code, r := range rates {
			rates[code] = r / base
		}
		rates[p.reference] = 1.0
	}
	return RateTable{Reference: p.reference, Rates: rates, Source: SourceFallback}
}
