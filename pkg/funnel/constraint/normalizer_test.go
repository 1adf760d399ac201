package constraint

import (
	"reflect"
	"testing"

	"github.com/wjyergin98/autonomous-auto-agent/pkg/store"
)

func TestNormalizeReclassification(t *testing.T) {
	tests := []struct {
		name string
		in   store.Constraints
		want store.Constraints
	}{
		{
			name: "hard indicator promotes to tier1",
			in: store.Constraints{
				Tier3: []string{"Manual transmission only"},
			},
			want: store.Constraints{
				Tier1: []string{"Manual transmission only"},
			},
		},
		{
			name: "soft indicator demotes to tier3",
			in: store.Constraints{
				Tier1: []string{"Sunroof would be nice to have"},
			},
			want: store.Constraints{
				Tier3: []string{"Sunroof would be nice to have"},
			},
		},
		{
			name: "preference language never reaches tier1",
			in: store.Constraints{
				Tier1: []string{"Prefer yellow paint"},
			},
			want: store.Constraints{
				Tier2: []string{"Prefer yellow paint"},
			},
		},
		{
			name: "preference language in tier3 stays tier3",
			in: store.Constraints{
				Tier3: []string{"Ideally under 60k miles"},
			},
			want: store.Constraints{
				Tier3: []string{"Ideally under 60k miles"},
			},
		},
		{
			name: "hard token inside a model name does not fire",
			in: store.Constraints{
				Tier2: []string{"Mustang GT fastback"},
			},
			want: store.Constraints{
				Tier2: []string{"Mustang GT fastback"},
			},
		},
		{
			name: "taste statement about such a model stays tier3",
			in: store.Constraints{
				Tier3: []string{"a Mustang would be cool"},
			},
			want: store.Constraints{
				Tier3: []string{"a Mustang would be cool"},
			},
		},
		{
			name: "preference over such a model caps at tier2",
			in: store.Constraints{
				Tier1: []string{"Prefer a Mustang GT"},
			},
			want: store.Constraints{
				Tier2: []string{"Prefer a Mustang GT"},
			},
		},
		{
			name: "no indicator retains source tier",
			in: store.Constraints{
				Tier2: []string{"Yellow exterior"},
			},
			want: store.Constraints{
				Tier2: []string{"Yellow exterior"},
			},
		},
		{
			name: "duplicates collapse to first occurrence casing",
			in: store.Constraints{
				Tier1: []string{"Deal-breaker: rust", "deal–breaker:  rust"}, // en dash + extra space
				Tier2: []string{"Clean title"},
			},
			want: store.Constraints{
				Tier1: []string{"Deal-breaker: rust", "Clean title"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Normalize() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	in := store.Constraints{
		Tier1: []string{"Manual only", "Prefer yellow", "Clean title required"},
		Tier2: []string{"avoid salt states", "Under 80k miles ideal"},
		Tier3: []string{"Sunroof nice to have", "ideally Speed Yellow"},
	}
	once := Normalize(in)
	twice := Normalize(once)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("Normalize is not a fixed point:\n once=%+v\ntwice=%+v", once, twice)
	}
}

func TestBoundaryDeterminismAndDedup(t *testing.T) {
	s := &store.Session{
		Constraints: store.Constraints{
			Tier1: []string{"Manual transmission only", "Clean title"},
			Tier2: []string{"Yellow exterior"},
		},
		Taste: store.Taste{
			Rejections: []string{"No automatics", "violates non-negotiable: clean title"},
		},
	}

	b1 := Boundary(s)
	b2 := Boundary(s)
	if !reflect.DeepEqual(b1, b2) {
		t.Fatalf("Boundary not deterministic:\n%+v\n%+v", b1, b2)
	}

	wantRejections := []string{
		"No automatics",
		"violates non-negotiable: clean title", // explicit copy wins over synthesized duplicate
		"Violates non-negotiable: Manual transmission only",
	}
	if !reflect.DeepEqual(b1.HardRejections, wantRejections) {
		t.Errorf("HardRejections = %v, want %v", b1.HardRejections, wantRejections)
	}
	if !reflect.DeepEqual(b1.Tier1, s.Constraints.Tier1) {
		t.Errorf("Tier1 not passed through verbatim: %v", b1.Tier1)
	}
}

func TestBackfillIntent(t *testing.T) {
	c := store.Constraints{
		Tier1: []string{"987.2 generation", "2009–2012 model years"},
	}

	// Empty intent gets back-filled.
	got := BackfillIntent(store.Intent{}, c)
	if got.Generation != "987.2" {
		t.Errorf("Generation = %q, want 987.2", got.Generation)
	}
	if got.YearMin != 2009 || got.YearMax != 2012 {
		t.Errorf("Years = %d-%d, want 2009-2012", got.YearMin, got.YearMax)
	}

	// Explicit structured fields are never overwritten.
	explicit := store.Intent{Generation: "981", YearMin: 2013, YearMax: 2016}
	got = BackfillIntent(explicit, c)
	if got.Generation != "981" || got.YearMin != 2013 || got.YearMax != 2016 {
		t.Errorf("explicit intent was overwritten: %+v", got)
	}
}

func TestExtractYearRange(t *testing.T) {
	tests := []struct {
		text   string
		lo, hi int
		ok     bool
	}{
		{"looking at 2009-2012 cars", 2009, 2012, true},
		{"2009 to 2012 model years", 2009, 2012, true},
		{"2010-2009 typo comes back low to high", 2009, 2010, true},
		{"2010 to 2009", 2009, 2010, true},
		{"no span here", 0, 0, false},
	}
	for _, tt := range tests {
		lo, hi, ok := ExtractYearRange(tt.text)
		if lo != tt.lo || hi != tt.hi || ok != tt.ok {
			t.Errorf("ExtractYearRange(%q) = %d, %d, %v, want %d, %d, %v",
				tt.text, lo, hi, ok, tt.lo, tt.hi, tt.ok)
		}
	}
}

func TestExtractGenerationFamilies(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"looking at a 987.2 cayman", "987.2"},
		{"an e46 with the zhp package", "e46"},
		{"b6 or b7 s4", "b6"},
		{"the 997 is out of budget", "997"},
		{"no generation mentioned here", ""},
	}
	for _, tt := range tests {
		if got := ExtractGeneration(tt.text); got != tt.want {
			t.Errorf("ExtractGeneration(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}
