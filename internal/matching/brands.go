package matching

import (
	"regexp"
	"sort"
	"strings"
)

// brandRule binds a brand id to one or more phrase patterns. Patterns are
// matched on normalized text, on word boundaries, with flexible inter-word
// whitespace; a bare generic token never matches ("Western Bayside Hotel"
// carries no brand, "Best Western Plus Bayside" does).
type brandRule struct {
	id      string
	phrases []string
}

var brandRules = []brandRule{
	{"best-western", []string{"best western"}},
	{"holiday-inn", []string{"holiday inn"}},
	{"comfort-inn", []string{"comfort inn", "comfort suites"}},
	{"hampton", []string{"hampton inn", "hampton by hilton"}},
	{"days-inn", []string{"days inn"}},
	{"quality-inn", []string{"quality inn"}},
	{"premier-inn", []string{"premier inn"}},
	{"crowne-plaza", []string{"crowne plaza"}},
	{"four-seasons", []string{"four seasons"}},
	{"ritz-carlton", []string{"ritz carlton"}},
	{"motel-6", []string{"motel 6"}},
	{"super-8", []string{"super 8"}},
	{"la-quinta", []string{"la quinta"}},
	{"four-points", []string{"four points"}},
	{"grand-hyatt", []string{"grand hyatt"}},

	{"marriott", []string{"marriott"}},
	{"hilton", []string{"hilton"}},
	{"hyatt", []string{"hyatt"}},
	{"sheraton", []string{"sheraton"}},
	{"westin", []string{"westin"}},
	{"radisson", []string{"radisson"}},
	{"novotel", []string{"novotel"}},
	{"ibis", []string{"ibis"}},
	{"mercure", []string{"mercure"}},
	{"sofitel", []string{"sofitel"}},
	{"kempinski", []string{"kempinski"}},
	{"intercontinental", []string{"intercontinental"}},
	{"doubletree", []string{"doubletree"}},
	{"ramada", []string{"ramada"}},
	{"travelodge", []string{"travelodge"}},
	{"wyndham", []string{"wyndham"}},
	{"scandic", []string{"scandic"}},
	{"accor", []string{"accor"}},
	{"nh", []string{"nh collection"}},
	{"leonardo", []string{"leonardo"}},
	{"melia", []string{"melia"}},
	{"moxy", []string{"moxy"}},
	{"citizenm", []string{"citizenm"}},
}

type compiledBrand struct {
	id  string
	res []*regexp.Regexp
}

// Compiled once at init; rule tables are pure configuration.
var compiledBrands = compileBrands(brandRules)

func compileBrands(rules []brandRule) []compiledBrand {
	out := make([]compiledBrand, 0, len(rules))
	for _, r := range rules {
		cb := compiledBrand{id: r.id}
		for _, p := range r.phrases {
			cb.res = append(cb.res, phraseRegexp(p))
		}
		out = append(out, cb)
	}
	return out
}

// phraseRegexp compiles a space-separated phrase into a word-boundary
// pattern tolerant of flexible inter-word whitespace.
func phraseRegexp(phrase string) *regexp.Regexp {
	words := strings.Fields(phrase)
	for i, w := range words {
		words[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(`\b` + strings.Join(words, `\s+`) + `\b`)
}

// ExtractBrands returns the set of brand ids detected in name. Multiple
// patterns for one brand collapse to one id.
func ExtractBrands(name string) map[string]struct{} {
	n := Normalize(name)
	out := map[string]struct{}{}
	for _, cb := range compiledBrands {
		for _, re := range cb.res {
			if re.MatchString(n) {
				out[cb.id] = struct{}{}
				break
			}
		}
	}
	return out
}

// brandMismatch is true iff the query names at least one brand and the
// candidate shares none of them.
func brandMismatch(query, candidate map[string]struct{}) bool {
	if len(query) == 0 {
		return false
	}
	for id := range query {
		if _, ok := candidate[id]; ok {
			return false
		}
	}
	return true
}

func setToSorted(s map[string]struct{}) []string {
	if len(s) == 0 {
		return nil
	}
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
