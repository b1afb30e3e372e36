package matching

import "strings"

// locationQualifiers are generic words allowed inside a trailing location
// suffix alongside real city/country tokens. Qualifiers alone never justify
// a strip ("New York" must not be misread as a stray "York" suffix).
var locationQualifiers = map[string]struct{}{
	"city": {}, "centre": {}, "center": {}, "central": {}, "downtown": {},
	"old": {}, "town": {}, "historic": {},
}

// StrippedQuery is the outcome of the trailing-location-suffix strip.
type StrippedQuery struct {
	Stripped       string
	WasStripped    bool
	StrippedSuffix string
}

// StripTrailingLocationSuffix removes a ", City" / "- Country" tail from the
// query when every suffix token belongs to the candidate's city/country (or
// is a known qualifier) and at least one token genuinely matches the
// city/country.
func StripTrailingLocationSuffix(query, city, country string) StrippedQuery {
	idx := strings.LastIndexAny(query, ",-")
	if idx < 0 {
		return StrippedQuery{Stripped: query}
	}
	head := strings.TrimSpace(query[:idx])
	suffix := strings.TrimSpace(query[idx+1:])
	if head == "" || suffix == "" {
		return StrippedQuery{Stripped: query}
	}

	loc := tokenSet(TokenizeRaw(city))
	for _, t := range TokenizeRaw(country) {
		loc[t] = struct{}{}
	}

	genuine := false
	for _, t := range TokenizeRaw(suffix) {
		if _, ok := loc[t]; ok {
			genuine = true
			continue
		}
		if _, ok := locationQualifiers[t]; ok {
			continue
		}
		return StrippedQuery{Stripped: query}
	}
	if !genuine {
		return StrippedQuery{Stripped: query}
	}
	return StrippedQuery{Stripped: head, WasStripped: true, StrippedSuffix: suffix}
}

// CoreTokens is the name's match tokens with the candidate's city/country
// tokens and the location qualifiers removed. Core overlap is what keeps two
// unrelated "…Reykjavik" properties from tying on the shared city token.
func CoreTokens(name, city, country string) []string {
	loc := tokenSet(TokenizeRaw(city))
	for _, t := range TokenizeRaw(country) {
		loc[t] = struct{}{}
	}
	var out []string
	for _, t := range TokenizeForMatch(name) {
		if _, ok := loc[t]; ok {
			continue
		}
		if _, ok := locationQualifiers[t]; ok {
			continue
		}
		out = append(out, t)
	}
	return out
}
