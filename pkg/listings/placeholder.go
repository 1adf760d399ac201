package listings

import (
	"context"
	"crypto/md5"
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/wjyergin98/autonomous-auto-agent/pkg/funnel/seed"
)

// Placeholder synthesizes a deterministic market sample for a seed: a mix of
// full matches, near-misses with missing evidence, and out-of-spec rows. Every
// row is flagged so it can never be mistaken for a live listing downstream.
type Placeholder struct{}

var _ Source = Placeholder{}

// Fetch is a pure function of the seed and limit.
func (Placeholder) Fetch(_ context.Context, s seed.Seed, limit int) ([]map[string]interface{}, error) {
	if limit <= 0 {
		return nil, nil
	}

	mk := orDefault(s.Make, "Example")
	model := orDefault(s.Model, "Roadster")
	yearLo, yearHi := s.YearMin, s.YearMax
	if yearLo == 0 {
		yearLo = 2008
	}
	if yearHi == 0 {
		yearHi = yearLo + 4
	}
	// Tolerate inverted spans from upstream intent so the fallback never fails.
	if yearHi < yearLo {
		yearLo, yearHi = yearHi, yearLo
	}
	budget := s.BudgetMaxUSD
	if budget == 0 {
		budget = 40000
	}

	h := md5.Sum([]byte(strings.ToLower(mk + "|" + model + "|" + s.Trim + "|" + s.ExteriorColor)))
	base := binary.BigEndian.Uint32(h[:4])

	var rows []map[string]interface{}
	for i := 0; i < limit; i++ {
		jitter := int((base >> (uint(i%8) * 4)) & 0xf)
		year := yearLo + (i+jitter)%(yearHi-yearLo+1)
		price := budget - 2000 - (i%5)*1500 + jitter*250
		miles := 35000 + (i%7)*9000 + jitter*500

		row := map[string]interface{}{
			"make":        mk,
			"model":       model,
			"year":        year,
			"price":       price,
			"miles":       miles,
			"city":        "Sample City",
			"state":       "CA",
			"vin":         fmt.Sprintf("PLACEHOLDER%05d%04d", base%100000, i),
			"url":         fmt.Sprintf("https://listings.example.invalid/%s-%s-%d", strings.ToLower(mk), strings.ToLower(model), i),
			"placeholder": true,
		}

		switch i % 4 {
		case 0:
			// Full-evidence match for the requested configuration.
			row["trim"] = s.Trim
			row["transmission"] = "6-Speed Manual"
			if s.ExteriorColor != "" {
				row["exterior_color"] = s.ExteriorColor
			}
		case 1:
			// Evidence gap: right car, listing says nothing about trim or color.
			row["transmission"] = "Manual"
		case 2:
			// Wrong transmission.
			row["transmission"] = "Automatic"
			row["trim"] = s.Trim
		case 3:
			// Over budget.
			row["price"] = budget + 5000 + jitter*300
			row["transmission"] = "Manual"
			row["trim"] = s.Trim
			if s.ExteriorColor != "" {
				row["exterior_color"] = s.ExteriorColor
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
