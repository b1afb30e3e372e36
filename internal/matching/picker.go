package matching

import (
	"net/url"
	"strings"

	"github.com/gsindri/hotelfinder-worker/internal/domain"
)

// PickOptions carries the optional alternate query, e.g. derived from a
// third-party listing slug. The alt query may only raise the effective base
// score; it never bypasses a hard mismatch of the main query.
type PickOptions struct {
	AltQuery string
}

// CandidateScore is the per-candidate diagnostic row.
type CandidateScore struct {
	Candidate     domain.Candidate     `json:"candidate"`
	Details       *domain.MatchDetails `json:"details,omitempty"`
	EffectiveBase float64              `json:"effectiveBase"`
	DomainBoost   float64              `json:"domainBoost"`
	FinalScore    float64              `json:"finalScore"`
	Confidence    float64              `json:"confidence"`
	DomainMatch   bool                 `json:"domainMatch"`
	Skipped       bool                 `json:"skipped"`
	SkipReason    string               `json:"skipReason,omitempty"`
}

// PickResult is the picker outcome with full diagnostics for every
// non-skipped candidate.
type PickResult struct {
	Best          *domain.Candidate
	BestScore     float64
	Confidence    float64
	MatchDetails  *domain.MatchDetails
	DomainMatch   bool
	EffectiveBase float64
	All           []CandidateScore
}

// Pick scans all candidates for a query and selects the best by final score
// (base + domain boost). Ties break to the first seen. Confidence is
// reported but never used for ranking.
func Pick(candidates []domain.Candidate, query, officialDomain string, opts PickOptions) PickResult {
	res := PickResult{}
	for i := range candidates {
		cand := candidates[i]
		row := CandidateScore{Candidate: cand}

		sq := StripTrailingLocationSuffix(query, cand.City, cand.Country)
		details := Score(sq.Stripped, cand.Name, cand.City, cand.Country)
		details.StrippedSuffix = sq.StrippedSuffix
		row.Details = &details

		if details.HardMismatch {
			row.Skipped = true
			row.SkipReason = details.HardMismatchWhy
			res.All = append(res.All, row)
			continue
		}

		effBase := details.BaseScore
		if opts.AltQuery != "" {
			alt := StripTrailingLocationSuffix(opts.AltQuery, cand.City, cand.Country)
			altDetails := Score(alt.Stripped, cand.Name, cand.City, cand.Country)
			if !altDetails.HardMismatch && altDetails.BaseScore > effBase {
				effBase = altDetails.BaseScore
			}
		}

		row.DomainMatch = SameDomain(officialDomain, HostOf(cand.Link))
		eligible := row.DomainMatch && details.CoreOverlapAny
		row.EffectiveBase = effBase
		row.DomainBoost = DomainBoost(eligible, effBase)
		row.FinalScore = effBase + row.DomainBoost
		row.Confidence = Confidence(eligible, effBase, false)
		res.All = append(res.All, row)

		if cand.PropertyToken == "" {
			continue
		}
		if res.Best == nil || row.FinalScore > res.BestScore {
			best := cand
			res.Best = &best
			res.BestScore = row.FinalScore
			res.Confidence = row.Confidence
			res.MatchDetails = row.Details
			res.DomainMatch = row.DomainMatch
			res.EffectiveBase = effBase
		}
	}
	return res
}

// Summary returns the redacted top-n disclosure rows, ordered by score.
func (r PickResult) Summary(n int) []domain.CandidateBrief {
	rows := make([]CandidateScore, 0, len(r.All))
	for _, row := range r.All {
		if !row.Skipped {
			rows = append(rows, row)
		}
	}
	// insertion sort; candidate sets are bounded (~20)
	for i := 1; i < len(rows); i++ {
		for j := i; j > 0 && rows[j].FinalScore > rows[j-1].FinalScore; j-- {
			rows[j], rows[j-1] = rows[j-1], rows[j]
		}
	}
	if len(rows) > n {
		rows = rows[:n]
	}
	out := make([]domain.CandidateBrief, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.CandidateBrief{
			Name:        row.Candidate.Name,
			Score:       row.FinalScore,
			DomainMatch: row.DomainMatch,
		})
	}
	return out
}

// HostOf extracts a lowercased host (sans www.) from a URL or bare domain.
func HostOf(link string) string {
	if link == "" {
		return ""
	}
	s := strings.TrimSpace(strings.ToLower(link))
	if strings.Contains(s, "://") {
		if u, err := url.Parse(s); err == nil && u.Host != "" {
			s = u.Host
		}
	} else if i := strings.IndexAny(s, "/?#"); i >= 0 {
		s = s[:i]
	}
	if h, _, ok := strings.Cut(s, ":"); ok {
		s = h
	}
	return strings.TrimPrefix(s, "www.")
}

// SameDomain compares two domains after host normalization.
func SameDomain(a, b string) bool {
	ha, hb := HostOf(a), HostOf(b)
	return ha != "" && ha == hb
}
