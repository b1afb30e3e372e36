package app

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"

	redisad "github.com/gsindri/hotelfinder-worker/internal/adapters/redis"
	"github.com/gsindri/hotelfinder-worker/internal/domain"
)

// ---- fakes ----

type fakeSearch struct {
	candidates []domain.Candidate
	err        error
	calls      int32
}

func (f *fakeSearch) Search(ctx context.Context, q domain.SearchQuery) ([]domain.Candidate, error) {
	atomic.AddInt32(&f.calls, 1)
	return f.candidates, f.err
}

func (f *fakeSearch) callCount() int { return int(atomic.LoadInt32(&f.calls)) }

func newTestResolver(t *testing.T, search *fakeSearch) (*Resolver, domain.Cache, *Background) {
	t.Helper()
	mr := miniredis.RunT(t)
	cache := redisad.New(mr.Addr(), "", 0)
	bg := NewBackground(4, zerolog.Nop())
	return NewResolver(cache, search, bg, zerolog.Nop()), cache, bg
}

func aldaCandidates() []domain.Candidate {
	return []domain.Candidate{
		{Name: "Hotel A Reykjavík", City: "Reykjavik", Country: "Iceland", Link: "https://hotela.is", PropertyToken: "TA"},
		{Name: "Alda Hotel", City: "Reykjavik", Country: "Iceland", Link: "https://example.com", PropertyToken: "T1"},
	}
}

func seedDomainRecord(t *testing.T, cache domain.Cache) {
	t.Helper()
	rec := domain.TokenRecord{
		PropertyToken:  "T1",
		PropertyName:   "Alda Hotel",
		City:           "Reykjavik",
		Country:        "Iceland",
		Link:           "https://example.com",
		OfficialDomain: "example.com",
		Confidence:     0.9,
	}
	if err := cache.Set(context.Background(), domainKey("us", "example.com"), rec, ttlDomain); err != nil {
		t.Fatalf("seed: %v", err)
	}
}

// ---- tests ----

func TestResolve_DomainTier_NoLiveSearch(t *testing.T) {
	search := &fakeSearch{}
	r, cache, bg := newTestResolver(t, search)
	seedDomainRecord(t, cache)

	res, err := r.Resolve(context.Background(), ResolveRequest{
		Region:         "us",
		HotelName:      "Alda Hotel Reykjavík",
		OfficialDomain: "example.com",
	})
	bg.Wait()
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if res.Token != "T1" || res.Tier != "hit-domain" {
		t.Fatalf("unexpected resolution: %+v", res)
	}
	if res.Confidence < 0.65 {
		t.Fatalf("confidence = %v, want >= 0.65", res.Confidence)
	}
	if res.MatchedBy != "officialDomain" {
		t.Fatalf("matchedBy = %q", res.MatchedBy)
	}
	if search.callCount() != 0 {
		t.Fatalf("live search performed on a domain hit: %d", search.callCount())
	}
}

func TestResolve_StaleDomainRecord_FallsThroughToLive(t *testing.T) {
	search := &fakeSearch{candidates: []domain.Candidate{
		{Name: "Hilton Garden Inn Reykjavik", City: "Reykjavik", Country: "Iceland", Link: "https://hilton.com/rek", PropertyToken: "TH"},
	}}
	r, cache, bg := newTestResolver(t, search)
	seedDomainRecord(t, cache)

	// the cached name hard-mismatches the branded query; the record must be
	// rejected silently and resolution recovered via live search
	res, err := r.Resolve(context.Background(), ResolveRequest{
		Region:         "us",
		HotelName:      "Hilton Garden Inn Reykjavik",
		OfficialDomain: "example.com",
	})
	bg.Wait()
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if res.Token != "TH" || res.Tier != "live" {
		t.Fatalf("unexpected resolution: %+v", res)
	}
	if search.callCount() != 1 {
		t.Fatalf("expected exactly one live search, got %d", search.callCount())
	}

	// the live result lands in the name tier
	var rec domain.TokenRecord
	found, err := cache.Get(context.Background(), nameKey("us", "Hilton Garden Inn Reykjavik"), &rec)
	if err != nil || !found || rec.PropertyToken != "TH" {
		t.Fatalf("name tier not written: found=%v err=%v rec=%+v", found, err, rec)
	}
}

func TestResolve_NameTier_BackfillsDomain(t *testing.T) {
	search := &fakeSearch{}
	r, cache, bg := newTestResolver(t, search)

	rec := domain.TokenRecord{
		PropertyToken: "T1",
		PropertyName:  "Alda Hotel",
		City:          "Reykjavik",
		Country:       "Iceland",
		Link:          "https://example.com",
		Confidence:    0.9,
	}
	if err := cache.Set(context.Background(), nameKey("us", "Alda Hotel Reykjavík"), rec, ttlNameWeak); err != nil {
		t.Fatalf("seed: %v", err)
	}

	res, err := r.Resolve(context.Background(), ResolveRequest{
		Region:         "us",
		HotelName:      "Alda Hotel Reykjavík",
		OfficialDomain: "example.com",
	})
	bg.Wait()
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if res.Token != "T1" || res.Tier != "hit-name" {
		t.Fatalf("unexpected resolution: %+v", res)
	}

	var got domain.TokenRecord
	found, _ := cache.Get(context.Background(), domainKey("us", "example.com"), &got)
	if !found || got.PropertyToken != "T1" {
		t.Fatalf("domain tier not backfilled: found=%v rec=%+v", found, got)
	}
}

func TestResolve_SlugTier(t *testing.T) {
	search := &fakeSearch{}
	r, cache, bg := newTestResolver(t, search)

	rec := domain.TokenRecord{
		PropertyToken: "T1",
		PropertyName:  "Alda Hotel",
		City:          "Reykjavik",
		Country:       "Iceland",
		Link:          "https://aldahotel.is",
		Confidence:    0.9,
	}
	if err := cache.Set(context.Background(), slugKey("us", "alda-reykjavik"), rec, ttlSlug); err != nil {
		t.Fatalf("seed: %v", err)
	}

	res, err := r.Resolve(context.Background(), ResolveRequest{
		Region:     "us",
		HotelName:  "Alda Hotel Reykjavík",
		ListingURL: "https://www.booking.com/hotel/is/alda-reykjavik.en-gb.html",
	})
	bg.Wait()
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if res.Token != "T1" || res.Tier != "hit-booking" {
		t.Fatalf("unexpected resolution: %+v", res)
	}
	if search.callCount() != 0 {
		t.Fatalf("live search performed on a slug hit")
	}
}

func TestResolve_PrefetchThenContextTier(t *testing.T) {
	search := &fakeSearch{candidates: aldaCandidates()}
	r, cache, bg := newTestResolver(t, search)

	req := ResolveRequest{Region: "us", HotelName: "Alda Hotel Reykjavík", CheckIn: "2026-09-01", CheckOut: "2026-09-03", PartySize: 2, Currency: "EUR"}
	id, n, err := r.Prefetch(context.Background(), req)
	if err != nil || n != 2 {
		t.Fatalf("prefetch: id=%q n=%d err=%v", id, n, err)
	}

	res, err := r.Resolve(context.Background(), req)
	bg.Wait()
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if res.Token != "T1" || res.Tier != "ctx" {
		t.Fatalf("unexpected resolution: %+v", res)
	}
	// only the prefetch touched the upstream
	if search.callCount() != 1 {
		t.Fatalf("expected 1 search, got %d", search.callCount())
	}

	// a confident context hit backfills the name tier
	var rec domain.TokenRecord
	found, _ := cache.Get(context.Background(), nameKey("us", "Alda Hotel Reykjavík"), &rec)
	if !found || rec.PropertyToken != "T1" || !rec.FromCtx {
		t.Fatalf("name tier not backfilled from ctx: found=%v rec=%+v", found, rec)
	}
}

func TestResolve_ContextWithoutTokensIsIgnored(t *testing.T) {
	search := &fakeSearch{candidates: aldaCandidates()}
	r, cache, bg := newTestResolver(t, search)

	req := ResolveRequest{Region: "us", HotelName: "Alda Hotel Reykjavík"}
	snap := domain.ContextRecord{Query: req.HotelName, Candidates: []domain.Candidate{
		{Name: "Alda Hotel", City: "Reykjavik", Country: "Iceland"}, // tokenless
	}}
	if err := cache.Set(context.Background(), contextKey(req.contextID()), snap, ttlContext); err != nil {
		t.Fatalf("seed: %v", err)
	}

	res, err := r.Resolve(context.Background(), req)
	bg.Wait()
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if res.Tier != "live" {
		t.Fatalf("tokenless context must be treated as empty: %+v", res)
	}
}

func TestResolve_MissOutcomes(t *testing.T) {
	search := &fakeSearch{}
	r, _, _ := newTestResolver(t, search)

	_, err := r.Resolve(context.Background(), ResolveRequest{Region: "us", HotelName: "Nowhere Inn"})
	if !errors.Is(err, domain.ErrNoProperty) {
		t.Fatalf("expected ErrNoProperty, got %v", err)
	}

	search.err = errors.New("connection refused")
	_, err = r.Resolve(context.Background(), ResolveRequest{Region: "us", HotelName: "Nowhere Inn"})
	if !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
	if errors.Is(err, domain.ErrNoProperty) {
		t.Fatalf("upstream failure must not masquerade as no-candidates")
	}
}

func TestResolve_UncertainHitGetsOneSummaryLookup(t *testing.T) {
	search := &fakeSearch{candidates: []domain.Candidate{
		{Name: "Sunrise Lodge", City: "Vik", Country: "Iceland", Link: "https://sunriselodge.is", PropertyToken: "TS"},
		{Name: "Sunset Lodge", City: "Vik", Country: "Iceland", Link: "https://sunsetlodge.is", PropertyToken: "TT"},
	}}
	r, cache, bg := newTestResolver(t, search)

	// an older low-confidence record without a candidate summary
	rec := domain.TokenRecord{
		PropertyToken: "TS",
		PropertyName:  "Sunrise Lodge",
		City:          "Vik",
		Country:       "Iceland",
		Link:          "https://sunriselodge.is",
		Confidence:    0.58,
	}
	if err := cache.Set(context.Background(), nameKey("us", "Sunset Lodge"), rec, ttlNameWeak); err != nil {
		t.Fatalf("seed: %v", err)
	}

	req := ResolveRequest{Region: "us", HotelName: "Sunset Lodge"}
	res, err := r.Resolve(context.Background(), req)
	bg.Wait()
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if res.Tier != "hit-name" || !res.MatchUncertain {
		t.Fatalf("unexpected resolution: %+v", res)
	}
	if len(res.CandidateSummary) == 0 {
		t.Fatalf("expected a backfilled candidate summary")
	}
	if search.callCount() != 1 {
		t.Fatalf("expected exactly one verify lookup, got %d", search.callCount())
	}

	// the summary was persisted; a second resolve must not search again
	res2, err := r.Resolve(context.Background(), req)
	bg.Wait()
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(res2.CandidateSummary) == 0 {
		t.Fatalf("expected cached summary on second hit")
	}
	if search.callCount() != 1 {
		t.Fatalf("verify lookup repeated: %d", search.callCount())
	}
}

func TestResolve_LiveHighConfidence_WritesDomainAndSlug(t *testing.T) {
	search := &fakeSearch{candidates: aldaCandidates()}
	r, cache, bg := newTestResolver(t, search)

	res, err := r.Resolve(context.Background(), ResolveRequest{
		Region:         "us",
		HotelName:      "Alda Hotel Reykjavík",
		OfficialDomain: "example.com",
		ListingURL:     "https://www.booking.com/hotel/is/alda-reykjavik.html",
	})
	bg.Wait()
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if res.Token != "T1" || res.Tier != "live" {
		t.Fatalf("unexpected resolution: %+v", res)
	}

	ctx := context.Background()
	var rec domain.TokenRecord
	for _, key := range []string{
		nameKey("us", "Alda Hotel Reykjavík"),
		domainKey("us", "example.com"),
		slugKey("us", "alda-reykjavik"),
	} {
		found, err := cache.Get(ctx, key, &rec)
		if err != nil || !found || rec.PropertyToken != "T1" {
			t.Fatalf("key %s not written: found=%v err=%v", key, found, err)
		}
	}
}

func TestSlugFromListingURL(t *testing.T) {
	cases := map[string]string{
		"https://www.booking.com/hotel/is/alda-reykjavik.en-gb.html": "alda-reykjavik",
		"https://www.booking.com/hotel/is/alda-reykjavik.html":       "alda-reykjavik",
		"https://www.booking.com/hotel/is/Alda-Reykjavik":            "alda-reykjavik",
		"https://www.booking.com/":                                   "",
		"": "",
	}
	for in, want := range cases {
		if got := SlugFromListingURL(in); got != want {
			t.Fatalf("SlugFromListingURL(%q)=%q, want %q", in, got, want)
		}
	}
}

func TestContextID_Stable(t *testing.T) {
	a := ContextID("us", "en", "Alda Hotel Reykjavík", "2026-09-01", "2026-09-03", 2, "EUR")
	b := ContextID("us", "en", "Alda Hotel Reykjavik", "2026-09-01", "2026-09-03", 2, "EUR")
	if a != b {
		t.Fatalf("context id must be diacritic-stable: %s != %s", a, b)
	}
	c := ContextID("us", "en", "Alda Hotel Reykjavík", "2026-09-02", "2026-09-03", 2, "EUR")
	if a == c {
		t.Fatalf("different dates must hash differently")
	}
}
