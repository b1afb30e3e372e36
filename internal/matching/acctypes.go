package matching

import "regexp"

// Accommodation-type groups. Apartment/hostel/guesthouse are strong
// classifications; the hotel-like catch-all is weak. This signal never hard
// mismatches, it only nudges the score.
type typeRule struct {
	id      string
	strong  bool
	phrases []string
}

var typeRules = []typeRule{
	{"apartment", true, []string{"apartment", "apartments", "aparthotel", "apartotel", "serviced apartments", "residence"}},
	{"hostel", true, []string{"hostel", "backpackers"}},
	{"guesthouse", true, []string{"guesthouse", "guest house", "bed and breakfast", "pension"}},
	{"hotel", false, []string{"hotel", "inn", "lodge", "resort", "suite", "suites", "motel"}},
}

type compiledType struct {
	id     string
	strong bool
	res    []*regexp.Regexp
}

var compiledTypes = compileTypes(typeRules)

func compileTypes(rules []typeRule) []compiledType {
	out := make([]compiledType, 0, len(rules))
	for _, r := range rules {
		ct := compiledType{id: r.id, strong: r.strong}
		for _, p := range r.phrases {
			ct.res = append(ct.res, phraseRegexp(p))
		}
		out = append(out, ct)
	}
	return out
}

// TypeSignals holds the soft accommodation classification of one name.
type TypeSignals struct {
	Groups    map[string]struct{}
	Strengths map[string]string // strong|weak
}

func ExtractTypeGroups(name string) TypeSignals {
	n := Normalize(name)
	ts := TypeSignals{Groups: map[string]struct{}{}, Strengths: map[string]string{}}
	for _, g := range compiledTypes {
		if matchAny(g.res, n) {
			ts.Groups[g.id] = struct{}{}
			if g.strong {
				ts.Strengths[g.id] = "strong"
			} else {
				ts.Strengths[g.id] = "weak"
			}
		}
	}
	return ts
}

func (t TypeSignals) hasStrongNonHotel() bool {
	for id, s := range t.Strengths {
		if s == "strong" && id != "hotel" {
			return true
		}
	}
	return false
}

const (
	typeBoostShared   = 0.05
	typeSignalCap     = 0.20
	typePenaltyStrong = 0.18
	typePenaltyWeak   = 0.10
)

// typeSignal computes the shared-group boost and the divergence penalty.
// Omission on either side is never penalized.
func typeSignal(q, c TypeSignals) (boost, penalty float64, overlap []string) {
	for _, g := range compiledTypes {
		_, qok := q.Groups[g.id]
		_, cok := c.Groups[g.id]
		if qok && cok {
			overlap = append(overlap, g.id)
			boost += typeBoostShared
		}
	}
	if boost > typeSignalCap {
		boost = typeSignalCap
	}

	if len(overlap) == 0 && len(q.Groups) > 0 && len(c.Groups) > 0 {
		qStrong, cStrong := q.hasStrongNonHotel(), c.hasStrongNonHotel()
		switch {
		case qStrong && cStrong:
			penalty = typePenaltyStrong
		case qStrong || cStrong:
			penalty = typePenaltyWeak
		}
	}
	if penalty > typeSignalCap {
		penalty = typeSignalCap
	}
	return boost, penalty, overlap
}
