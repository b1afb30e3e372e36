package app

import (
	"github.com/gsindri/hotelfinder-worker/internal/domain"
	"github.com/gsindri/hotelfinder-worker/internal/matching"
)

// Verdict is the tagged-union outcome of re-validating a cached record
// against the current query.
type Verdict interface{ isVerdict() }

// Valid carries refreshed fields for the caller to merge into the record
// before re-serving or re-caching it.
type Valid struct {
	Updates RecordUpdates
}

// Invalid rejects the cached record; resolution falls through to the next
// tier without surfacing anything to the caller.
type Invalid struct {
	Reason string
}

func (Valid) isVerdict()   {}
func (Invalid) isVerdict() {}

// RecordUpdates are the freshened score fields of a revalidated record.
type RecordUpdates struct {
	LinkHost       string
	NameScore      float64
	Confidence     float64
	DomainMatch    bool
	CoreOverlapAny bool
	MatchDetails   *domain.MatchDetails
}

const (
	// The domain tier is the one most exposed to "same domain, different
	// sister property" collisions, so it validates strictly.
	domainHitMinBase = 0.70
)

// validateToken re-scores the cached record against the current query.
// source is one of hit-domain, hit-booking, hit-name.
func validateToken(query, officialDomain string, rec *domain.TokenRecord, source string) Verdict {
	sq := matching.StripTrailingLocationSuffix(query, rec.City, rec.Country)
	details := matching.Score(sq.Stripped, rec.PropertyName, rec.City, rec.Country)
	details.StrippedSuffix = sq.StrippedSuffix

	if details.HardMismatch {
		return Invalid{Reason: "hard_mismatch"}
	}

	linkHost := matching.HostOf(rec.Link)
	domainMatch := matching.SameDomain(officialDomain, linkHost) ||
		matching.SameDomain(officialDomain, rec.OfficialDomain)
	eligible := domainMatch && details.CoreOverlapAny
	conf := matching.Confidence(eligible, details.BaseScore, false)

	if source == "hit-domain" {
		if details.BaseScore < domainHitMinBase {
			return Invalid{Reason: "low_score"}
		}
		if !details.CoreOverlapAny {
			return Invalid{Reason: "no_core_overlap"}
		}
	} else if conf < confidenceFloor {
		return Invalid{Reason: "low_confidence"}
	}

	d := details
	return Valid{Updates: RecordUpdates{
		LinkHost:       linkHost,
		NameScore:      details.BaseScore,
		Confidence:     conf,
		DomainMatch:    domainMatch,
		CoreOverlapAny: details.CoreOverlapAny,
		MatchDetails:   &d,
	}}
}

// apply merges refreshed fields into the record in place.
func (u RecordUpdates) apply(rec *domain.TokenRecord) {
	rec.LinkHost = u.LinkHost
	rec.NameScore = u.NameScore
	rec.Confidence = u.Confidence
	rec.DomainMatch = u.DomainMatch
	rec.CoreOverlapAny = u.CoreOverlapAny
	rec.MatchDetails = u.MatchDetails
}
