package app

import (
	"testing"

	"github.com/gsindri/hotelfinder-worker/internal/domain"
)

func aldaRecord() *domain.TokenRecord {
	return &domain.TokenRecord{
		PropertyToken:  "T1",
		PropertyName:   "Alda Hotel",
		City:           "Reykjavik",
		Country:        "Iceland",
		Link:           "https://example.com",
		OfficialDomain: "example.com",
	}
}

func TestValidateToken_DomainHitAccepts(t *testing.T) {
	v := validateToken("Alda Hotel Reykjavík", "example.com", aldaRecord(), "hit-domain")
	val, ok := v.(Valid)
	if !ok {
		t.Fatalf("expected Valid, got %#v", v)
	}
	if !val.Updates.DomainMatch || !val.Updates.CoreOverlapAny {
		t.Fatalf("unexpected updates: %+v", val.Updates)
	}
	if val.Updates.Confidence < 0.65 {
		t.Fatalf("confidence = %v, want >= 0.65", val.Updates.Confidence)
	}
	if val.Updates.LinkHost != "example.com" {
		t.Fatalf("linkHost = %q", val.Updates.LinkHost)
	}
}

func TestValidateToken_HardMismatchRejects(t *testing.T) {
	// branded query against an unbranded cached name
	v := validateToken("Hilton Garden Inn Reykjavik", "example.com", aldaRecord(), "hit-domain")
	inv, ok := v.(Invalid)
	if !ok || inv.Reason != "hard_mismatch" {
		t.Fatalf("expected hard_mismatch, got %#v", v)
	}
}

func TestValidateToken_DomainHitIsStricter(t *testing.T) {
	// a weak name overlap passes the name tier threshold but not the
	// domain tier, which is the one exposed to sister-property collisions
	rec := aldaRecord()
	rec.PropertyName = "Alda Marina Apartments"

	v := validateToken("Alda Marina Suites Harbor", "example.com", rec, "hit-domain")
	if inv, ok := v.(Invalid); !ok || inv.Reason != "low_score" {
		t.Fatalf("expected low_score on domain tier, got %#v", v)
	}

	// the same pairing clears the laxer name-tier threshold
	if _, ok := validateToken("Alda Marina Suites Harbor", "example.com", rec, "hit-name").(Valid); !ok {
		t.Fatalf("expected name tier to accept")
	}
}

func TestValidateToken_DomainHitRequiresCoreOverlap(t *testing.T) {
	rec := aldaRecord()
	rec.PropertyName = "Reykjavík Downtown"

	v := validateToken("Reykjavík Downtown", "example.com", rec, "hit-domain")
	if inv, ok := v.(Invalid); !ok || inv.Reason != "no_core_overlap" {
		t.Fatalf("expected no_core_overlap, got %#v", v)
	}
}

func TestValidateToken_NameHitThreshold(t *testing.T) {
	v := validateToken("Alda Hotel", "", aldaRecord(), "hit-name")
	if _, ok := v.(Valid); !ok {
		t.Fatalf("expected Valid, got %#v", v)
	}

	v = validateToken("Completely Different Place", "", aldaRecord(), "hit-name")
	if inv, ok := v.(Invalid); !ok || inv.Reason != "low_confidence" {
		t.Fatalf("expected low_confidence, got %#v", v)
	}
}

func TestRecordUpdates_Apply(t *testing.T) {
	rec := aldaRecord()
	v := validateToken("Alda Hotel Reykjavík", "example.com", rec, "hit-domain")
	val := v.(Valid)
	val.Updates.apply(rec)
	if rec.NameScore != val.Updates.NameScore || rec.Confidence != val.Updates.Confidence {
		t.Fatalf("apply did not refresh record: %+v", rec)
	}
	if rec.MatchDetails == nil || rec.MatchDetails.BaseScore != rec.NameScore {
		t.Fatalf("match details missing: %+v", rec.MatchDetails)
	}
}
