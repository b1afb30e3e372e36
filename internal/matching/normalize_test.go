package matching_test

import (
	"reflect"
	"testing"

	"github.com/gsindri/hotelfinder-worker/internal/matching"
)

func TestNormalize_DiacriticInvariance(t *testing.T) {
	cases := [][2]string{
		{"Reykjavík", "Reykjavik"},
		{"Hôtel Élysée", "Hotel Elysee"},
		{"München Marriott", "Munchen Marriott"},
		{"São Paulo", "Sao Paulo"},
	}
	for _, c := range cases {
		if got, want := matching.Normalize(c[0]), matching.Normalize(c[1]); got != want {
			t.Fatalf("Normalize(%q)=%q, want %q", c[0], got, want)
		}
	}
}

func TestNormalize_CollapsesPunctuation(t *testing.T) {
	got := matching.Normalize("  The Ritz-Carlton, New York!!  ")
	if got != "the ritz carlton new york" {
		t.Fatalf("got %q", got)
	}
}

func TestNormalize_NonLatinPassThrough(t *testing.T) {
	// CJK names must survive normalization without crash or loss
	got := matching.Normalize("東京ホテル 2000")
	if got != "東京ホテル 2000" {
		t.Fatalf("got %q", got)
	}
}

func TestTokenizeRaw_DropsSingleRuneTokens(t *testing.T) {
	got := matching.TokenizeRaw("Hotel A Reykjavík")
	want := []string{"hotel", "reykjavik"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestTokenizeForMatch_FiltersStopwords(t *testing.T) {
	got := matching.TokenizeForMatch("The Alda Hotel and Suites by Marriott")
	want := []string{"alda", "marriott"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}
