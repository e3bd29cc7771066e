// Package engine orchestrates the check pipeline: load the stored snapshot,
// fetch the page, extract matching notices, diff against the snapshot,
// dispatch what is new, and persist the union.
package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/donaldgifford/notice-tracker/internal/fetch"
	"github.com/donaldgifford/notice-tracker/internal/metrics"
	"github.com/donaldgifford/notice-tracker/internal/notify"
	"github.com/donaldgifford/notice-tracker/internal/store"
	"github.com/donaldgifford/notice-tracker/internal/telemetry"
	"github.com/donaldgifford/notice-tracker/pkg/extract"
	domain "github.com/donaldgifford/notice-tracker/pkg/types"
)

// passLogSize bounds the in-memory history of completed passes.
const passLogSize = 50

// ErrPassInProgress is returned by RunPass when a pass is already running.
// Overlapping passes are skipped, never queued.
var ErrPassInProgress = errors.New("check pass already in progress")

// ErrUnknownSite is returned when a site key is not in the registry.
var ErrUnknownSite = errors.New("unknown site")

// Engine runs checks across the configured site registry.
type Engine struct {
	store    store.Store
	fetcher  fetch.Fetcher
	notifier notify.Notifier
	log      *slog.Logger

	sites      []domain.Site
	extractor  *extract.Extractor
	batchLimit int

	// One pass at a time; per-site locks additionally serialize a manual
	// single-site check against a running pass touching the same snapshot.
	running atomic.Bool
	siteMu  map[string]*sync.Mutex

	mu         sync.Mutex
	passes     []domain.PassSummary
	lastResult map[string]*domain.SiteResult
}

// NewEngine creates an Engine with injected dependencies.
func NewEngine(
	s store.Store,
	f fetch.Fetcher,
	n notify.Notifier,
	sites []domain.Site,
	opts ...EngineOption,
) *Engine {
	eng := &Engine{
		store:      s,
		fetcher:    f,
		notifier:   n,
		log:        slog.Default(),
		sites:      sites,
		extractor:  extract.New(),
		batchLimit: defaultBatchLimit,
		siteMu:     make(map[string]*sync.Mutex, len(sites)),
		lastResult: make(map[string]*domain.SiteResult, len(sites)),
	}
	for _, site := range sites {
		eng.siteMu[site.Key] = &sync.Mutex{}
	}
	for _, opt := range opts {
		opt(eng)
	}
	return eng
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.log = l
	}
}

// WithExtractor sets the extractor used for sites without a custom selector.
func WithExtractor(ex *extract.Extractor) EngineOption {
	return func(e *Engine) {
		e.extractor = ex
	}
}

// WithBatchLimit sets the per-message character limit for dispatch.
func WithBatchLimit(n int) EngineOption {
	return func(e *Engine) {
		e.batchLimit = n
	}
}

// Sites returns the configured site registry in pass order.
func (eng *Engine) Sites() []domain.Site {
	out := make([]domain.Site, len(eng.sites))
	copy(out, eng.sites)
	return out
}

// SiteByKey looks up a site in the registry.
func (eng *Engine) SiteByKey(key string) (domain.Site, bool) {
	for _, s := range eng.sites {
		if s.Key == key {
			return s, true
		}
	}
	return domain.Site{}, false
}

// RunPass checks every site in the registry once. A failing site never stops
// the pass; its failure is recorded in the summary and the pass moves on.
// Only one pass runs at a time: a second caller gets ErrPassInProgress.
func (eng *Engine) RunPass(ctx context.Context, trigger domain.CheckTrigger) (*domain.PassSummary, error) {
	if !eng.running.CompareAndSwap(false, true) {
		return nil, ErrPassInProgress
	}
	defer eng.running.Store(false)

	start := time.Now()
	pass := domain.PassSummary{
		ID:        uuid.NewString(),
		Trigger:   trigger,
		StartedAt: start,
	}

	ctx, span := telemetry.Tracer().Start(ctx, "pass.run", trace.WithAttributes(
		attribute.String("pass.id", pass.ID),
		attribute.String("pass.trigger", string(trigger)),
	))
	defer span.End()

	eng.log.Info("check pass starting",
		"pass_id", pass.ID,
		"trigger", trigger,
		"sites", len(eng.sites),
	)

	for _, site := range eng.sites {
		if ctx.Err() != nil {
			break
		}
		pass.Sites = append(pass.Sites, eng.CheckSite(ctx, site))
	}

	pass.CompletedAt = time.Now()
	span.SetAttributes(
		attribute.Int("pass.new", pass.NewTotal()),
		attribute.Int("pass.failed", pass.FailedCount()),
	)

	metrics.CheckPassesTotal.WithLabelValues(string(trigger), passStatus(&pass)).Inc()
	metrics.CheckPassDuration.Observe(time.Since(start).Seconds())

	eng.recordPass(pass)

	eng.log.Info("check pass complete",
		"pass_id", pass.ID,
		"trigger", trigger,
		"sites", len(pass.Sites),
		"new", pass.NewTotal(),
		"failed", pass.FailedCount(),
		"duration", time.Since(start).Round(time.Millisecond),
	)

	if err := ctx.Err(); err != nil {
		return &pass, err
	}
	return &pass, nil
}

// CheckSite runs the pipeline for one site and records the outcome. It never
// returns an error; failures land in the result so a pass can keep going.
func (eng *Engine) CheckSite(ctx context.Context, site domain.Site) domain.SiteResult {
	if mu, ok := eng.siteMu[site.Key]; ok {
		mu.Lock()
		defer mu.Unlock()
	}

	ctx, span := telemetry.Tracer().Start(ctx, "site.check", trace.WithAttributes(
		attribute.String("site.key", site.Key),
	))
	defer span.End()

	start := time.Now()
	result := eng.checkSite(ctx, site)
	elapsed := time.Since(start)
	result.ElapsedMS = elapsed.Milliseconds()

	metrics.SiteCheckDuration.WithLabelValues(site.Key).Observe(elapsed.Seconds())

	if result.Status == domain.CheckFailed {
		span.RecordError(errors.New(result.Error))
		span.SetStatus(codes.Error, "site check failed")
		metrics.SiteCheckFailuresTotal.WithLabelValues(site.Key).Inc()
		eng.log.Error("site check failed", "site", site.Key, "error", result.Error)
	} else {
		span.SetAttributes(
			attribute.Int("site.items_new", result.ItemsNew),
			attribute.Int("site.snapshot_size", result.SnapshotSize),
		)
		metrics.LastSuccessTimestamp.WithLabelValues(site.Key).SetToCurrentTime()
		metrics.SnapshotSize.WithLabelValues(site.Key).Set(float64(result.SnapshotSize))
	}

	eng.mu.Lock()
	eng.lastResult[site.Key] = &result
	eng.mu.Unlock()

	return result
}

// CheckSiteByKey runs a single-site check by registry key.
func (eng *Engine) CheckSiteByKey(ctx context.Context, key string) (domain.SiteResult, error) {
	site, ok := eng.SiteByKey(key)
	if !ok {
		return domain.SiteResult{}, fmt.Errorf("%w: %q", ErrUnknownSite, key)
	}
	return eng.CheckSite(ctx, site), nil
}

func (eng *Engine) checkSite(ctx context.Context, site domain.Site) domain.SiteResult {
	result := domain.SiteResult{SiteKey: site.Key}

	seen, initialized, err := eng.store.Load(ctx, site.Key)
	if err != nil {
		return failResult(result, fmt.Errorf("loading snapshot: %w", err))
	}

	body, err := eng.fetcher.Fetch(ctx, site.URL)
	if err != nil {
		return failResult(result, fmt.Errorf("fetching page: %w", err))
	}

	notices, err := eng.extractorFor(site).Parse(bytes.NewReader(body), site.BaseURL, site.Keywords)
	if err != nil {
		return failResult(result, fmt.Errorf("extracting notices: %w", err))
	}

	result.ItemsFound = len(notices)
	metrics.NoticesExtractedTotal.WithLabelValues(site.Key).Add(float64(len(notices)))

	current := domain.NewNoticeSet(notices...)

	// First observation seeds the snapshot with no notifications, even when
	// the page matched nothing. An empty snapshot and a missing one are
	// different states.
	if !initialized {
		if err := eng.store.Save(ctx, site.Key, current); err != nil {
			return failResult(result, fmt.Errorf("seeding snapshot: %w", err))
		}
		result.Status = domain.CheckSeeded
		result.SnapshotSize = current.Len()
		eng.log.Info("seeded baseline", "site", site.Key, "notices", current.Len())
		return result
	}

	fresh := current.Diff(seen)
	result.ItemsNew = len(fresh)

	// Nothing new means the snapshot already covers everything on the page;
	// there is no union worth rewriting.
	if len(fresh) == 0 {
		result.Status = domain.CheckOK
		result.SnapshotSize = seen.Len()
		return result
	}

	metrics.NoticesNewTotal.WithLabelValues(site.Key).Add(float64(len(fresh)))
	sent, dispatchErr := DispatchNotices(ctx, eng.notifier, site.Key, fresh, eng.batchLimit, eng.log)
	result.BatchesSent = sent
	if dispatchErr != nil {
		// The union is still persisted below, so undelivered notices
		// will not be re-sent on the next pass.
		eng.log.Warn("dispatch incomplete",
			"site", site.Key,
			"sent", sent,
			"error", dispatchErr,
		)
	}

	union := seen.Union(current)
	if err := eng.store.Save(ctx, site.Key, union); err != nil {
		return failResult(result, fmt.Errorf("saving snapshot: %w", err))
	}

	result.Status = domain.CheckOK
	result.SnapshotSize = union.Len()

	eng.log.Info("new notices dispatched",
		"site", site.Key,
		"new", result.ItemsNew,
		"batches", result.BatchesSent,
		"snapshot", result.SnapshotSize,
	)
	return result
}

func (eng *Engine) extractorFor(site domain.Site) *extract.Extractor {
	if site.Selector == "" {
		return eng.extractor
	}
	return extract.New(extract.WithSelector(site.Selector))
}

func failResult(r domain.SiteResult, err error) domain.SiteResult {
	r.Status = domain.CheckFailed
	r.Error = err.Error()
	return r
}

func passStatus(p *domain.PassSummary) string {
	switch {
	case len(p.Sites) == 0:
		return "ok"
	case p.FailedCount() == len(p.Sites):
		return "failed"
	case p.FailedCount() > 0:
		return "partial"
	default:
		return "ok"
	}
}

func (eng *Engine) recordPass(p domain.PassSummary) {
	eng.mu.Lock()
	defer eng.mu.Unlock()

	eng.passes = append(eng.passes, p)
	if len(eng.passes) > passLogSize {
		eng.passes = eng.passes[len(eng.passes)-passLogSize:]
	}
}

// RecentPasses returns up to limit recorded pass summaries, newest first.
// A non-positive limit returns the whole retained history.
func (eng *Engine) RecentPasses(limit int) []domain.PassSummary {
	eng.mu.Lock()
	defer eng.mu.Unlock()

	n := len(eng.passes)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]domain.PassSummary, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, eng.passes[i])
	}
	return out
}

// SiteStatuses reports every registry site with its stored snapshot state
// and the result of its most recent check, if any.
func (eng *Engine) SiteStatuses(ctx context.Context) ([]domain.SiteStatus, error) {
	eng.mu.Lock()
	last := make(map[string]*domain.SiteResult, len(eng.lastResult))
	for k, v := range eng.lastResult {
		last[k] = v
	}
	eng.mu.Unlock()

	out := make([]domain.SiteStatus, 0, len(eng.sites))
	for _, site := range eng.sites {
		set, initialized, err := eng.store.Load(ctx, site.Key)
		if err != nil {
			return nil, fmt.Errorf("loading snapshot for %s: %w", site.Key, err)
		}
		out = append(out, domain.SiteStatus{
			Site:         site,
			Initialized:  initialized,
			SnapshotSize: set.Len(),
			LastResult:   last[site.Key],
		})
	}
	return out, nil
}

// SiteStatusByKey reports one registry site with its stored snapshot state.
func (eng *Engine) SiteStatusByKey(ctx context.Context, key string) (*domain.SiteStatus, error) {
	site, ok := eng.SiteByKey(key)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSite, key)
	}

	set, initialized, err := eng.store.Load(ctx, site.Key)
	if err != nil {
		return nil, fmt.Errorf("loading snapshot for %s: %w", site.Key, err)
	}

	eng.mu.Lock()
	lastResult := eng.lastResult[site.Key]
	eng.mu.Unlock()

	return &domain.SiteStatus{
		Site:         site,
		Initialized:  initialized,
		SnapshotSize: set.Len(),
		LastResult:   lastResult,
	}, nil
}
