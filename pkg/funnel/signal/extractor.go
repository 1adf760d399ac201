package signal

import (
	"crypto/md5"
	"fmt"
	"strconv"
	"strings"
)

// Record is a flat, provider-agnostic extraction from one raw listing. Zero
// values mean "unknown"; extraction is tolerant and never fails on a listing.
type Record struct {
	Year          int    `json:"year,omitempty"`
	Make          string `json:"make,omitempty"`
	Model         string `json:"model,omitempty"`
	Trim          string `json:"trim,omitempty"`
	Transmission  string `json:"transmission,omitempty"`
	ExteriorColor string `json:"exterior_color,omitempty"`
	PriceUSD      int    `json:"price_usd,omitempty"`
	Mileage       int    `json:"mileage,omitempty"`
	Region        string `json:"region,omitempty"`
	Dealer        string `json:"dealer,omitempty"`
	VIN           string `json:"vin,omitempty"`
	URL           string `json:"url,omitempty"`
	Title         string `json:"title,omitempty"`

	// Blob is the lowercased concatenation of the listing's descriptive text,
	// used for weak evidence matching (trim/color confirmation).
	Blob string `json:"-"`

	Placeholder bool `json:"placeholder,omitempty"`
}

// Extract maps one raw retrieved listing into a Record. Numeric fields accept
// numbers or numeric strings and stay unset otherwise; text fields are trimmed
// with emptiness-to-unset.
func Extract(raw map[string]interface{}) Record {
	r := Record{
		Year:          toInt(pick(raw, "year", "model_year")),
		Make:          toStr(pick(raw, "make")),
		Model:         toStr(pick(raw, "model")),
		Trim:          toStr(pick(raw, "trim")),
		Transmission:  toStr(pick(raw, "transmission")),
		ExteriorColor: toStr(pick(raw, "exterior_color", "color")),
		PriceUSD:      toInt(pick(raw, "price", "asking_price")),
		Mileage:       toInt(pick(raw, "miles", "mileage", "odometer")),
		Dealer:        toStr(pick(raw, "dealer", "dealer_name", "seller_name")),
		VIN:           toStr(pick(raw, "vin")),
		URL:           toStr(pick(raw, "vdp_url", "url", "listing_url")),
	}

	city := toStr(pick(raw, "city"))
	state := toStr(pick(raw, "state", "region"))
	switch {
	case city != "" && state != "":
		r.Region = city + ", " + state
	case city != "":
		r.Region = city
	default:
		r.Region = state
	}

	r.Title = toStr(pick(raw, "heading", "title"))
	if r.Title == "" {
		r.Title = buildTitle(r)
	}

	parts := []string{
		r.Make, r.Model, r.Trim, r.Transmission, r.ExteriorColor,
		toStr(pick(raw, "engine")), toStr(pick(raw, "series", "generation")),
		r.Title, r.Region, r.Dealer,
	}
	var blob []string
	for _, p := range parts {
		if p != "" {
			blob = append(blob, strings.ToLower(p))
		}
	}
	r.Blob = strings.Join(blob, " ")

	r.Placeholder, _ = raw["placeholder"].(bool)

	return r
}

// StableID derives a deterministic candidate identity from the listing, so
// re-running retrieval against an unchanged listing never mints a new one.
func (r Record) StableID() string {
	anchor := r.VIN
	if anchor == "" {
		anchor = r.URL
	}
	key := strings.Join([]string{
		anchor,
		strconv.Itoa(r.Year),
		strings.ToLower(r.Make),
		strings.ToLower(r.Model),
		strings.ToLower(r.Trim),
		strconv.Itoa(r.PriceUSD),
	}, "|")
	return fmt.Sprintf("%x", md5.Sum([]byte(key)))
}

// Dedupe drops repeated listings before scoring, by VIN when present and by
// URL otherwise, keeping first occurrence. Without this, duplicated listings
// would bias the finalist and discovery caps.
func Dedupe(records []Record) []Record {
	seen := make(map[string]bool)
	out := make([]Record, 0, len(records))
	for _, r := range records {
		key := r.VIN
		if key == "" {
			key = r.URL
		}
		if key == "" {
			// No identity at all: keep it, scoring will sort it out.
			out = append(out, r)
			continue
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, r)
	}
	return out
}

func buildTitle(r Record) string {
	var parts []string
	if r.Year > 0 {
		parts = append(parts, strconv.Itoa(r.Year))
	}
	for _, p := range []string{r.Make, r.Model, r.Trim} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

func pick(raw map[string]interface{}, keys ...string) interface{} {
	for _, k := range keys {
		if v, ok := raw[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func toStr(v interface{}) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

// toInt coerces numeric or numeric-string values; anything else is unset.
func toInt(v interface{}) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	case string:
		s := strings.TrimSpace(strings.NewReplacer(",", "", "$", "").Replace(n))
		if s == "" {
			return 0
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return int(f)
		}
		return 0
	default:
		return 0
	}
}
