package listings

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/wjyergin98/autonomous-auto-agent/pkg/funnel/seed"
	"github.com/wjyergin98/autonomous-auto-agent/pkg/funnel/signal"
)

func boxsterSeed() seed.Seed {
	return seed.Seed{
		Make:         "Porsche",
		Model:        "Boxster",
		Trim:         "S",
		Transmission: seed.TransmissionManual,
		YearMin:      2009,
		YearMax:      2012,
		BudgetMaxUSD: 60000,
	}
}

func TestClientProjectsSeedIntoQuery(t *testing.T) {
	var gotQuery map[string][]string
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"listings": []map[string]interface{}{{"make": "Porsche", "model": "Boxster"}},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret", 5*time.Second)
	rows, err := c.Fetch(context.Background(), boxsterSeed(), 25)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}

	want := map[string]string{
		"make": "Porsche", "model": "Boxster", "trim": "S",
		"year_min": "2009", "year_max": "2012",
		"price_max": "60000", "transmission": "manual", "rows": "25",
	}
	for k, v := range want {
		if got := gotQuery[k]; !reflect.DeepEqual(got, []string{v}) {
			t.Errorf("query[%s] = %v, want %s", k, got, v)
		}
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("auth header = %q", gotAuth)
	}
}

func TestClientErrorStatusFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", time.Second)
	if _, err := c.Fetch(context.Background(), boxsterSeed(), 10); err == nil {
		t.Fatal("non-200 must surface as an error, not empty rows")
	}
}

func TestClientTruncatesToLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rows := make([]map[string]interface{}, 10)
		for i := range rows {
			rows[i] = map[string]interface{}{"make": "Porsche"}
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"listings": rows})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", time.Second)
	rows, err := c.Fetch(context.Background(), boxsterSeed(), 4)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(rows) != 4 {
		t.Errorf("rows = %d, want truncated to 4", len(rows))
	}
}

func TestPlaceholderDeterministic(t *testing.T) {
	s := boxsterSeed()
	a, _ := Placeholder{}.Fetch(context.Background(), s, 12)
	b, _ := Placeholder{}.Fetch(context.Background(), s, 12)
	if !reflect.DeepEqual(a, b) {
		t.Fatal("placeholder rows must be identical across calls")
	}
	if len(a) != 12 {
		t.Fatalf("rows = %d, want 12", len(a))
	}
}

func TestPlaceholderToleratesInvertedYearRange(t *testing.T) {
	s := boxsterSeed()
	s.YearMin, s.YearMax = 2010, 2009
	rows, err := Placeholder{}.Fetch(context.Background(), s, 8)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(rows) != 8 {
		t.Fatalf("rows = %d, want 8", len(rows))
	}
	for _, raw := range rows {
		y, ok := raw["year"].(int)
		if !ok || y < 2009 || y > 2010 {
			t.Errorf("year = %v, want within 2009-2010", raw["year"])
		}
	}
}

func TestPlaceholderRowsAreFlaggedAndVaried(t *testing.T) {
	s := boxsterSeed()
	s.ExteriorColor = "yellow"
	rows, _ := Placeholder{}.Fetch(context.Background(), s, 8)

	var fullMatch, evidenceGap, wrongTrans, overBudget int
	for _, raw := range rows {
		if raw["placeholder"] != true {
			t.Fatalf("unflagged placeholder row: %v", raw)
		}
		rec := signal.Extract(raw)
		if !rec.Placeholder {
			t.Fatal("flag must survive signal extraction")
		}
		switch {
		case rec.PriceUSD > s.BudgetMaxUSD:
			overBudget++
		case rec.Transmission == "Automatic":
			wrongTrans++
		case rec.Trim == "" && rec.ExteriorColor == "":
			evidenceGap++
		default:
			fullMatch++
		}
	}
	for name, n := range map[string]int{
		"full match": fullMatch, "evidence gap": evidenceGap,
		"wrong transmission": wrongTrans, "over budget": overBudget,
	} {
		if n == 0 {
			t.Errorf("sample lacks %s rows", name)
		}
	}
}
