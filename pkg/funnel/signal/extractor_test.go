package signal

import (
	"strings"
	"testing"
)

func TestExtractCoercion(t *testing.T) {
	raw := map[string]interface{}{
		"year":           float64(2011), // JSON numbers decode as float64
		"make":           "Porsche",
		"model":          "Boxster",
		"trim":           "  S  ",
		"transmission":   "Manual",
		"exterior_color": "Speed Yellow",
		"price":          "45,000",
		"miles":          "62000",
		"city":           "Denver",
		"state":          "CO",
		"dealer":         "Prestige Imports",
		"vin":            "WP0CB2A84BS710001",
		"vdp_url":        "https://example.com/listing/1",
	}

	r := Extract(raw)

	if r.Year != 2011 {
		t.Errorf("Year = %d, want 2011", r.Year)
	}
	if r.Trim != "S" {
		t.Errorf("Trim = %q, want trimmed %q", r.Trim, "S")
	}
	if r.PriceUSD != 45000 {
		t.Errorf("PriceUSD = %d, want 45000 from comma string", r.PriceUSD)
	}
	if r.Mileage != 62000 {
		t.Errorf("Mileage = %d, want 62000", r.Mileage)
	}
	if r.Region != "Denver, CO" {
		t.Errorf("Region = %q, want Denver, CO", r.Region)
	}
	if r.Title != "2011 Porsche Boxster S" {
		t.Errorf("Title = %q", r.Title)
	}
	for _, want := range []string{"porsche", "boxster", "speed yellow", "manual"} {
		if !strings.Contains(r.Blob, want) {
			t.Errorf("Blob missing %q: %q", want, r.Blob)
		}
	}
}

func TestExtractMalformedNeverPanics(t *testing.T) {
	raw := map[string]interface{}{
		"year":  "not-a-year",
		"price": map[string]interface{}{"amount": 1},
		"miles": nil,
		"make":  42,
	}
	r := Extract(raw)
	if r.Year != 0 || r.PriceUSD != 0 || r.Mileage != 0 || r.Make != "" {
		t.Errorf("malformed fields should stay unset: %+v", r)
	}
}

func TestStableID(t *testing.T) {
	a := Record{VIN: "VIN1", Year: 2011, Make: "Porsche", Model: "Boxster", Trim: "S", PriceUSD: 45000}
	b := Record{VIN: "VIN1", Year: 2011, Make: "porsche", Model: "BOXSTER", Trim: "s", PriceUSD: 45000}
	if a.StableID() != b.StableID() {
		t.Error("identity should be case-insensitive on make/model/trim")
	}

	c := a
	c.PriceUSD = 44000
	if a.StableID() == c.StableID() {
		t.Error("a price change must change the identity")
	}

	// URL anchors identity when VIN is absent.
	d := Record{URL: "https://x/1", Year: 2011}
	e := Record{URL: "https://x/1", Year: 2011}
	if d.StableID() != e.StableID() {
		t.Error("URL-anchored identity should be stable")
	}
}

func TestDedupe(t *testing.T) {
	records := []Record{
		{VIN: "A", URL: "u1"},
		{VIN: "A", URL: "u2"},  // same VIN, different URL: duplicate
		{VIN: "", URL: "u3"},   // URL-keyed
		{VIN: "", URL: "u3"},   // duplicate by URL
		{VIN: "", URL: ""},     // keyless, kept
		{VIN: "B", URL: "u1"},  // same URL as first but distinct VIN: kept
	}
	got := Dedupe(records)
	if len(got) != 4 {
		t.Fatalf("Dedupe kept %d records, want 4: %+v", len(got), got)
	}
	if got[0].URL != "u1" || got[1].URL != "u3" {
		t.Errorf("Dedupe should keep first occurrences: %+v", got)
	}
}
