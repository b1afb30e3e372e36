package app

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gsindri/hotelfinder-worker/internal/adapters/observability"
	"github.com/gsindri/hotelfinder-worker/internal/domain"
	"github.com/gsindri/hotelfinder-worker/internal/matching"
)

// Resolver orchestrates one resolution attempt across the four cache tiers,
// validating every hit against the current query, and falls back to a live
// upstream search on a total miss. Cache reads block within the request;
// cache writes are dispatched fire-and-forget.
type Resolver struct {
	cache  domain.Cache
	search domain.SearchClient
	bg     *Background
	log    zerolog.Logger
}

func NewResolver(cache domain.Cache, search domain.SearchClient, bg *Background, log zerolog.Logger) *Resolver {
	return &Resolver{cache: cache, search: search, bg: bg, log: log}
}

// ResolveRequest is one inbound entity query.
type ResolveRequest struct {
	Region         string
	HotelName      string
	OfficialDomain string
	ListingURL     string // third-party listing, e.g. a booking.com URL
	Language       string
	CheckIn        string
	CheckOut       string
	PartySize      int
	Currency       string
	ContextID      string // set when the caller already holds a prefetch context
}

func (r *ResolveRequest) contextID() string {
	if r.ContextID != "" {
		return r.ContextID
	}
	return ContextID(r.Region, r.Language, r.HotelName, r.CheckIn, r.CheckOut, r.PartySize, r.Currency)
}

// Resolve tries, in priority order: session context, domain-keyed record,
// slug-keyed record, name-keyed record, live search. First success wins.
func (r *Resolver) Resolve(ctx context.Context, req ResolveRequest) (domain.Resolution, error) {
	slug := SlugFromListingURL(req.ListingURL)
	altQuery := strings.ReplaceAll(slug, "-", " ")

	if res, ok := r.fromContext(ctx, req, altQuery); ok {
		observability.ObserveResolution("ctx")
		return res, nil
	}

	if req.OfficialDomain != "" {
		if res, ok := r.fromRecord(ctx, req, domainKey(req.Region, req.OfficialDomain), "hit-domain", ttlDomain); ok {
			observability.ObserveResolution("hit-domain")
			return res, nil
		}
	}

	if slug != "" {
		if res, ok := r.fromRecord(ctx, req, slugKey(req.Region, slug), "hit-booking", ttlSlug); ok {
			observability.ObserveResolution("hit-booking")
			return res, nil
		}
	}

	if res, ok := r.fromRecord(ctx, req, nameKey(req.Region, req.HotelName), "hit-name", ttlNameWeak); ok {
		observability.ObserveResolution("hit-name")
		return res, nil
	}

	res, err := r.fromLiveSearch(ctx, req, slug, altQuery)
	if err != nil {
		observability.ObserveResolution("none")
		return domain.Resolution{}, err
	}
	observability.ObserveResolution("live")
	return res, nil
}

// fromContext serves a prefetched session snapshot, if one exists and wins.
func (r *Resolver) fromContext(ctx context.Context, req ResolveRequest, altQuery string) (domain.Resolution, bool) {
	var snap domain.ContextRecord
	found, err := r.cache.Get(ctx, contextKey(req.contextID()), &snap)
	if err != nil || !found || !snap.Usable() {
		return domain.Resolution{}, false
	}

	pick := matching.Pick(snap.Candidates, req.HotelName, req.OfficialDomain, matching.PickOptions{AltQuery: altQuery})
	if pick.Best == nil || pick.Confidence < confidenceFloor {
		return domain.Resolution{}, false
	}

	rec := r.buildRecord(req, pick)
	rec.FromCtx = true
	if rec.Confidence >= confidenceHigh {
		r.backfill(req, rec)
	}
	return r.resolution(rec, "ctx"), true
}

// fromRecord fetches one keyed TokenRecord, revalidates it against the
// current query, and serves it when the verdict is Valid. A rejection is
// recovered silently by the caller falling through to the next tier.
func (r *Resolver) fromRecord(ctx context.Context, req ResolveRequest, key, source string, ttl int) (domain.Resolution, bool) {
	var rec domain.TokenRecord
	found, err := r.cache.Get(ctx, key, &rec)
	if err != nil || !found || rec.PropertyToken == "" {
		return domain.Resolution{}, false
	}

	switch v := validateToken(req.HotelName, req.OfficialDomain, &rec, source).(type) {
	case Invalid:
		r.log.Debug().Str("tier", source).Str("key", key).Str("reason", v.Reason).Msg("stale cache record rejected")
		return domain.Resolution{}, false
	case Valid:
		v.Updates.apply(&rec)
	}

	r.ensureSummary(ctx, req, &rec)

	recCopy := rec
	r.bg.Go("refresh:"+source, func(ctx context.Context) error {
		return r.cache.Set(ctx, key, recCopy, ttl)
	})
	if source == "hit-name" && req.OfficialDomain != "" && rec.DomainMatch && rec.CoreOverlapAny {
		r.bg.Go("backfill:domain", func(ctx context.Context) error {
			return r.cache.Set(ctx, domainKey(req.Region, req.OfficialDomain), recCopy, ttlDomain)
		})
	}
	return r.resolution(rec, source), true
}

// fromLiveSearch is the total-miss path: one upstream search, rescored.
func (r *Resolver) fromLiveSearch(ctx context.Context, req ResolveRequest, slug, altQuery string) (domain.Resolution, error) {
	candidates, err := r.search.Search(ctx, domain.SearchQuery{
		Query:    req.HotelName,
		Region:   req.Region,
		Language: req.Language,
	})
	if err != nil {
		return domain.Resolution{}, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	if len(candidates) == 0 {
		return domain.Resolution{}, domain.ErrNoProperty
	}

	pick := matching.Pick(candidates, req.HotelName, req.OfficialDomain, matching.PickOptions{AltQuery: altQuery})
	if pick.Best == nil {
		return domain.Resolution{}, domain.ErrNoProperty
	}

	rec := r.buildRecord(req, pick)
	r.writeResult(req, rec, slug)
	return r.resolution(rec, "live"), nil
}

// ensureSummary performs the one extra verify lookup: an uncertain cached
// record that carries no per-candidate summary (older entry) gets exactly
// one live search to recompute it. Never repeated once a summary exists.
func (r *Resolver) ensureSummary(ctx context.Context, req ResolveRequest, rec *domain.TokenRecord) {
	if rec.Confidence >= uncertainBelow || len(rec.CandidateSummary) > 0 {
		return
	}
	candidates, err := r.search.Search(ctx, domain.SearchQuery{
		Query:    req.HotelName,
		Region:   req.Region,
		Language: req.Language,
	})
	if err != nil || len(candidates) == 0 {
		return // best effort; the hit is still served without a summary
	}
	pick := matching.Pick(candidates, req.HotelName, req.OfficialDomain, matching.PickOptions{})
	rec.CandidateSummary = pick.Summary(5)
}

func (r *Resolver) buildRecord(req ResolveRequest, pick matching.PickResult) domain.TokenRecord {
	best := *pick.Best
	rec := domain.TokenRecord{
		PropertyToken:  best.PropertyToken,
		PropertyName:   best.Name,
		City:           best.City,
		Country:        best.Country,
		Link:           best.Link,
		LinkHost:       matching.HostOf(best.Link),
		NameScore:      pick.EffectiveBase,
		Confidence:     pick.Confidence,
		DomainMatch:    pick.DomainMatch,
		CoreOverlapAny: pick.MatchDetails != nil && pick.MatchDetails.CoreOverlapAny,
		MatchDetails:   pick.MatchDetails,
		OfficialDomain: matching.HostOf(req.OfficialDomain),
	}
	if rec.Confidence < uncertainBelow {
		rec.CandidateSummary = pick.Summary(5)
	}
	return rec
}

// backfill populates the name and domain tiers after a confident context hit.
func (r *Resolver) backfill(req ResolveRequest, rec domain.TokenRecord) {
	r.bg.Go("backfill:name", func(ctx context.Context) error {
		return r.cache.Set(ctx, nameKey(req.Region, req.HotelName), rec, nameTTL(rec))
	})
	if req.OfficialDomain != "" && rec.DomainMatch && rec.CoreOverlapAny {
		r.bg.Go("backfill:domain", func(ctx context.Context) error {
			return r.cache.Set(ctx, domainKey(req.Region, req.OfficialDomain), rec, ttlDomain)
		})
	}
}

// writeResult caches a fresh live-search resolution: always the name tier,
// and the domain/slug tiers when confidence is high enough.
func (r *Resolver) writeResult(req ResolveRequest, rec domain.TokenRecord, slug string) {
	r.bg.Go("cache:name", func(ctx context.Context) error {
		return r.cache.Set(ctx, nameKey(req.Region, req.HotelName), rec, nameTTL(rec))
	})
	if rec.Confidence < confidenceHigh {
		return
	}
	if req.OfficialDomain != "" && rec.DomainMatch && rec.CoreOverlapAny {
		r.bg.Go("cache:domain", func(ctx context.Context) error {
			return r.cache.Set(ctx, domainKey(req.Region, req.OfficialDomain), rec, ttlDomain)
		})
	}
	if slug != "" {
		r.bg.Go("cache:slug", func(ctx context.Context) error {
			return r.cache.Set(ctx, slugKey(req.Region, slug), rec, ttlSlug)
		})
	}
}

func nameTTL(rec domain.TokenRecord) int {
	if rec.DomainMatch && rec.Confidence >= confidenceHigh {
		return ttlNameStrong
	}
	return ttlNameWeak
}

func (r *Resolver) resolution(rec domain.TokenRecord, tier string) domain.Resolution {
	matchedBy := "name"
	if rec.DomainMatch && rec.CoreOverlapAny {
		matchedBy = "officialDomain"
	}
	res := domain.Resolution{
		Token:          rec.PropertyToken,
		Confidence:     rec.Confidence,
		MatchedBy:      matchedBy,
		Tier:           tier,
		MatchUncertain: rec.Confidence < uncertainBelow,
		MatchDetails:   rec.MatchDetails,
		PropertyName:   rec.PropertyName,
	}
	if res.MatchUncertain {
		res.CandidateSummary = rec.CandidateSummary
	}
	return res
}

// Prefetch runs the upstream search for a session query and snapshots the
// minimal candidate fields under the context tier. The resolution path reads
// this snapshot but never writes it.
func (r *Resolver) Prefetch(ctx context.Context, req ResolveRequest) (string, int, error) {
	candidates, err := r.search.Search(ctx, domain.SearchQuery{
		Query:    req.HotelName,
		Region:   req.Region,
		Language: req.Language,
	})
	if err != nil {
		return "", 0, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	id := req.contextID()
	snap := domain.ContextRecord{Query: req.HotelName, Candidates: candidates}
	if err := r.cache.Set(ctx, contextKey(id), snap, ttlContext); err != nil {
		return "", 0, err
	}
	return id, len(candidates), nil
}

// SlugFromListingURL pulls the identity-bearing path segment out of a
// third-party listing URL, e.g.
// https://www.booking.com/hotel/is/alda-reykjavik.en.html -> alda-reykjavik
func SlugFromListingURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	path := strings.Trim(u.Path, "/")
	if path == "" {
		return ""
	}
	segs := strings.Split(path, "/")
	last := segs[len(segs)-1]
	// drop .html and any locale extension chain (alda.en-gb.html)
	for {
		i := strings.LastIndex(last, ".")
		if i < 0 {
			break
		}
		last = last[:i]
	}
	return strings.ToLower(last)
}
