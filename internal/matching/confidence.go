package matching

const (
	confidenceCap         = 0.95
	domainConfidenceBonus = 0.15
	domainBonusFloor      = 0.65
	domainBoostFloor      = 0.55
	domainBoostCap        = 0.7
	domainBoostFactor     = 0.9
)

// Confidence maps a base score plus the domain-match signal to a bounded
// trust value. Exactly zero on a hard mismatch. domainMatchEligible is
// domain equality AND core-identity overlap, never domain equality alone.
func Confidence(domainMatchEligible bool, baseScore float64, hardMismatch bool) float64 {
	if hardMismatch {
		return 0
	}
	c := baseScore
	if c > confidenceCap {
		c = confidenceCap
	}
	if domainMatchEligible && baseScore >= domainBonusFloor {
		c += domainConfidenceBonus
		if c > confidenceCap {
			c = confidenceCap
		}
	}
	if c < 0 {
		c = 0
	}
	return c
}

// DomainBoost is added to the base score to form the final ranking score.
// It never fires below the floor, so a shared parent domain cannot drag a
// weak name match to the top.
func DomainBoost(domainMatchEligible bool, baseScore float64) float64 {
	if !domainMatchEligible || baseScore < domainBoostFloor {
		return 0
	}
	b := domainBoostFactor * baseScore
	if b > domainBoostCap {
		b = domainBoostCap
	}
	return b
}
