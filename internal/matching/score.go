package matching

import (
	"strings"

	"github.com/gsindri/hotelfinder-worker/internal/domain"
)

const containsBoost = 0.25

// Score runs the full scoring pipeline for one (query, candidate) pair.
// The caller is expected to have location-suffix-stripped the query against
// this candidate's city/country already. Hard-mismatch verdicts (brand,
// key-group) are computed independently of the soft score and always
// override it.
func Score(query, candidateName, city, country string) domain.MatchDetails {
	d := domain.MatchDetails{}

	nq := Normalize(query)
	nc := Normalize(candidateName)

	qBrands := ExtractBrands(query)
	cBrands := ExtractBrands(candidateName)
	d.QueryBrands = setToSorted(qBrands)
	d.CandidateBrands = setToSorted(cBrands)
	d.BrandMismatch = brandMismatch(qBrands, cBrands)

	qKeys := ExtractKeySignals(query)
	cKeys := ExtractKeySignals(candidateName)
	d.QueryKeyStrong = setToSorted(qKeys.Strong)
	d.QueryKeyWeak = setToSorted(qKeys.Weak)
	d.CandidateKeyStrong = setToSorted(cKeys.Strong)
	d.CandidateKeyWeak = setToSorted(cKeys.Weak)
	d.KeyConflict = keyConflict(qKeys, cKeys)
	d.KeyGroupBoost, d.KeyOverlap = keyGroupBoost(qKeys, cKeys)

	qTokens := TokenizeForMatch(query)
	cTokens := tokenSet(TokenizeForMatch(candidateName))
	if len(qTokens) > 0 {
		hits := 0
		for _, t := range qTokens {
			if _, ok := cTokens[t]; ok {
				hits++
			}
		}
		d.Coverage = float64(hits) / float64(len(qTokens))
	}

	// Bidirectional contains boost. The candidate-side gate counts raw
	// tokens (not stopword-filtered) so a one-identity-word name like
	// "Alda Hotel" still qualifies.
	if nq != "" && nc != "" {
		qContainsC := stringContains(nq, nc) && len(nc) >= 6 && len(TokenizeRaw(candidateName)) >= 2
		cContainsQ := stringContains(nc, nq) && len(nq) >= 6
		if qContainsC || cContainsQ {
			d.ContainsBoost = containsBoost
		}
	}

	qCore := CoreTokens(query, city, country)
	cCore := tokenSet(CoreTokens(candidateName, city, country))
	for _, t := range qCore {
		if _, ok := cCore[t]; ok {
			d.CoreOverlapAny = true
			break
		}
	}
	d.OnlyLocOverlap = d.Coverage > 0 && !d.CoreOverlapAny

	qTypes := ExtractTypeGroups(query)
	cTypes := ExtractTypeGroups(candidateName)
	d.QueryTypes = setToSorted(qTypes.Groups)
	d.CandidateTypes = setToSorted(cTypes.Groups)
	d.TypeBoost, d.TypePenalty, d.TypeOverlap = typeSignal(qTypes, cTypes)

	base := d.Coverage + d.ContainsBoost + d.KeyGroupBoost + d.TypeBoost - d.TypePenalty
	if base < 0 {
		base = 0
	}
	d.BaseScore = base

	switch {
	case d.BrandMismatch:
		d.HardMismatch = true
		d.HardMismatchWhy = "brand"
	case d.KeyConflict:
		d.HardMismatch = true
		d.HardMismatchWhy = "key_group"
	}
	return d
}

func stringContains(haystack, needle string) bool {
	return needle != "" && strings.Contains(haystack, needle)
}
