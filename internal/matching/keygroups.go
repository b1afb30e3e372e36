package matching

import "regexp"

// keyGroupRule is one location-disambiguator group. Strong phrases are
// location-defining; weak phrases are ambiguous standalone words. A name
// lands in strong OR weak per group, never both.
type keyGroupRule struct {
	id     string
	strong []string
	weak   []string
}

var keyGroupRules = []keyGroupRule{
	{
		id:     "airport",
		strong: []string{"airport", "international airport"},
		weak:   []string{"terminal"},
	},
	{
		id:     "station",
		strong: []string{"train station", "railway station", "central station", "bus station", "main station"},
		weak:   []string{"station"},
	},
	{
		id:     "center",
		strong: []string{"city centre", "city center", "downtown", "centre ville", "old town", "city hall"},
		weak:   []string{"central", "centre", "center", "centro"},
	},
	{
		id:     "waterfront",
		strong: []string{"waterfront", "beachfront", "seafront", "harbourfront", "harborfront"},
		weak:   []string{"harbor", "harbour", "beach", "marina", "bay", "port"},
	},
}

type compiledKeyGroup struct {
	id     string
	strong []*regexp.Regexp
	weak   []*regexp.Regexp
}

var compiledKeyGroups = compileKeyGroups(keyGroupRules)

func compileKeyGroups(rules []keyGroupRule) []compiledKeyGroup {
	out := make([]compiledKeyGroup, 0, len(rules))
	for _, r := range rules {
		cg := compiledKeyGroup{id: r.id}
		for _, p := range r.strong {
			cg.strong = append(cg.strong, phraseRegexp(p))
		}
		for _, p := range r.weak {
			cg.weak = append(cg.weak, phraseRegexp(p))
		}
		out = append(out, cg)
	}
	return out
}

// KeySignals is the per-name outcome of the key-group extractor.
type KeySignals struct {
	Strong map[string]struct{}
	Weak   map[string]struct{}
}

// ExtractKeySignals classifies name into strong/weak per group. The strong
// check short-circuits the weak one.
func ExtractKeySignals(name string) KeySignals {
	n := Normalize(name)
	ks := KeySignals{Strong: map[string]struct{}{}, Weak: map[string]struct{}{}}
	for _, g := range compiledKeyGroups {
		if matchAny(g.strong, n) {
			ks.Strong[g.id] = struct{}{}
			continue
		}
		if matchAny(g.weak, n) {
			ks.Weak[g.id] = struct{}{}
		}
	}
	return ks
}

func matchAny(res []*regexp.Regexp, s string) bool {
	for _, re := range res {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

func (k KeySignals) all() map[string]struct{} {
	out := make(map[string]struct{}, len(k.Strong)+len(k.Weak))
	for id := range k.Strong {
		out[id] = struct{}{}
	}
	for id := range k.Weak {
		out[id] = struct{}{}
	}
	return out
}

// keyConflict is true iff both sides carry at least one strong group and
// their strong sets are disjoint.
func keyConflict(q, c KeySignals) bool {
	if len(q.Strong) == 0 || len(c.Strong) == 0 {
		return false
	}
	for id := range q.Strong {
		if _, ok := c.Strong[id]; ok {
			return false
		}
	}
	return true
}

const (
	keyBoostStrong = 0.12
	keyBoostWeak   = 0.06
	keyBoostCap    = 0.24
)

// keyGroupBoost sums per-group boosts over the strong+weak overlap: full
// boost when both sides hit the group strongly, half when at least one side
// is only weak. Capped across all groups.
func keyGroupBoost(q, c KeySignals) (float64, []string) {
	var boost float64
	var overlap []string
	qAll, cAll := q.all(), c.all()
	for _, g := range compiledKeyGroups {
		if _, ok := qAll[g.id]; !ok {
			continue
		}
		if _, ok := cAll[g.id]; !ok {
			continue
		}
		overlap = append(overlap, g.id)
		_, qs := q.Strong[g.id]
		_, cs := c.Strong[g.id]
		if qs && cs {
			boost += keyBoostStrong
		} else {
			boost += keyBoostWeak
		}
	}
	if boost > keyBoostCap {
		boost = keyBoostCap
	}
	return boost, overlap
}
