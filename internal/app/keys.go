package app

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/gsindri/hotelfinder-worker/internal/matching"
)

// Cache key schemas, store-agnostic:
//
//	tok:{region}:n:{normalizedQueryKey}  name tier
//	tok:{region}:d:{domain}              domain tier
//	tok:{region}:b:{slug}                slug tier
//	ctx:{contextId}                      context tier
const (
	ttlDomain       = 21 * 24 * 3600 // domain corroboration lives longest
	ttlSlug         = 21 * 24 * 3600
	ttlNameStrong   = 14 * 24 * 3600 // name tier with domain corroboration
	ttlNameWeak     = 3 * 24 * 3600  // name tier on name evidence alone
	ttlContext      = 30 * 60        // one session window
	confidenceHigh  = 0.75           // backfill/correction threshold
	confidenceFloor = 0.55           // context/validator accept floor
	uncertainBelow  = 0.65           // matchUncertain + summary disclosure
)

func nameKey(region, query string) string {
	return fmt.Sprintf("tok:%s:n:%s", region, queryKey(query))
}

func domainKey(region, dom string) string {
	return fmt.Sprintf("tok:%s:d:%s", region, matching.HostOf(dom))
}

func slugKey(region, slug string) string {
	return fmt.Sprintf("tok:%s:b:%s", region, slug)
}

func contextKey(id string) string {
	return fmt.Sprintf("ctx:%s", id)
}

// queryKey collapses the query to its normalized, dash-joined token form.
func queryKey(q string) string {
	return strings.ReplaceAll(matching.Normalize(q), " ", "-")
}

// ContextID is the stable hash identifying one prefetched search context.
func ContextID(region, languageKey, query, checkIn, checkOut string, partySize int, currency string) string {
	seed := fmt.Sprintf("%s|%s|%s|%s|%s|%d|%s",
		region, languageKey, matching.Normalize(query), checkIn, checkOut, partySize, currency)
	sum := sha1.Sum([]byte(seed))
	return hex.EncodeToString(sum[:])
}
