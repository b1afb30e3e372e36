package domain

// Candidate is one upstream search result. Supplied per request by the
// search collaborator and never mutated.
type Candidate struct {
	Name          string `json:"name"`
	City          string `json:"city"`
	Country       string `json:"country"`
	Link          string `json:"link"`
	PropertyToken string `json:"property_token"`
}

// MatchDetails is the full scoring breakdown for one (query, candidate) pair.
// Produced fresh on every scoring call; embedded into cached records for
// diagnostics.
type MatchDetails struct {
	QueryBrands     []string `json:"queryBrands,omitempty"`
	CandidateBrands []string `json:"candidateBrands,omitempty"`
	BrandMismatch   bool     `json:"brandMismatch"`

	QueryKeyStrong     []string `json:"queryKeyStrong,omitempty"`
	QueryKeyWeak       []string `json:"queryKeyWeak,omitempty"`
	CandidateKeyStrong []string `json:"candidateKeyStrong,omitempty"`
	CandidateKeyWeak   []string `json:"candidateKeyWeak,omitempty"`
	KeyOverlap         []string `json:"keyOverlap,omitempty"`
	KeyConflict        bool     `json:"keyConflict"`
	KeyGroupBoost      float64  `json:"keyGroupBoost"`

	QueryTypes     []string `json:"queryTypes,omitempty"`
	CandidateTypes []string `json:"candidateTypes,omitempty"`
	TypeOverlap    []string `json:"typeOverlap,omitempty"`
	TypeBoost      float64  `json:"typeBoost"`
	TypePenalty    float64  `json:"typePenalty"`

	Coverage        float64 `json:"coverage"`
	ContainsBoost   float64 `json:"containsBoost"`
	CoreOverlapAny  bool    `json:"coreOverlapAny"`
	OnlyLocOverlap  bool    `json:"onlyLocationOverlap"`
	StrippedSuffix  string  `json:"strippedSuffix,omitempty"`
	BaseScore       float64 `json:"baseScore"`
	HardMismatch    bool    `json:"hardMismatch"`
	HardMismatchWhy string  `json:"hardMismatchWhy,omitempty"`
}

// CandidateBrief is one redacted line of the uncertain-match disclosure:
// name, score and domain-match only, never raw tokens.
type CandidateBrief struct {
	Name        string  `json:"name"`
	Score       float64 `json:"score"`
	DomainMatch bool    `json:"domainMatch"`
}

// TokenRecord is the cached resolution. Mutated in place when a validation
// run freshens its score fields; expires by TTL, never deleted explicitly.
type TokenRecord struct {
	PropertyToken    string           `json:"property_token"`
	PropertyName     string           `json:"property_name"`
	City             string           `json:"city"`
	Country          string           `json:"country"`
	Link             string           `json:"link"`
	LinkHost         string           `json:"linkHost"`
	NameScore        float64          `json:"nameScore"`
	Confidence       float64          `json:"confidence"`
	DomainMatch      bool             `json:"domainMatch"`
	CoreOverlapAny   bool             `json:"coreOverlapAny"`
	MatchDetails     *MatchDetails    `json:"matchDetails,omitempty"`
	OfficialDomain   string           `json:"officialDomain,omitempty"`
	CandidateSummary []CandidateBrief `json:"candidateSummary,omitempty"`
	FromCtx          bool             `json:"fromCtx,omitempty"`
}

// ContextRecord is a short-lived snapshot of a prefetched search. Written once
// by the prefetch step, read (not written) by the resolution path. Treated as
// empty unless at least one candidate carries a token.
type ContextRecord struct {
	Query      string      `json:"query"`
	Candidates []Candidate `json:"candidates"`
}

// Usable reports whether the snapshot holds anything resolvable.
func (c *ContextRecord) Usable() bool {
	if c == nil {
		return false
	}
	for _, cand := range c.Candidates {
		if cand.PropertyToken != "" {
			return true
		}
	}
	return false
}

// Resolution is what the core exposes to the routing layer.
type Resolution struct {
	Token            string           `json:"token"`
	Confidence       float64          `json:"confidence"`
	MatchedBy        string           `json:"matchedBy"` // officialDomain|name
	Tier             string           `json:"tier"`      // ctx|hit-domain|hit-booking|hit-name|live
	MatchUncertain   bool             `json:"matchUncertain"`
	MatchDetails     *MatchDetails    `json:"matchDetails,omitempty"`
	CandidateSummary []CandidateBrief `json:"candidateSummary,omitempty"`
	PropertyName     string           `json:"propertyName,omitempty"`
}
