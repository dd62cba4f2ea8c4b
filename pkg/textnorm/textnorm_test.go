package textnorm

import (
	"sort"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "lowercase", input: "PROYECTOR", want: "proyector"},
		{name: "acute accent", input: "Café", want: "cafe"},
		{name: "trailing space", input: "CAFÉ ", want: "cafe"},
		{name: "tilde", input: "Pizarrón", want: "pizarron"},
		{name: "enye", input: "Año", want: "ano"},
		{name: "public", input: "público", want: "publico"},
		{name: "surrounding whitespace", input: "\t semi \n", want: "semi"},
		{name: "decomposed input", input: "café", want: "cafe"},
		{name: "inner spaces kept", input: "Aire  Acondicionado", want: "aire  acondicionado"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{"Café", "  PÚBLICO ", "Pizarrón", "tv", "", "Ñandú"}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize(Normalize(%q)) = %q, want %q", in, twice, once)
		}
	}
}

func TestEqual(t *testing.T) {
	if !Equal("Café", "cafe") || !Equal("cafe", "CAFÉ ") {
		t.Error("expected Café, cafe and CAFÉ to be equal")
	}
	if Equal("semi", "privado") {
		t.Error("semi and privado should differ")
	}
}

func TestNormalizeAll(t *testing.T) {
	got := NormalizeAll([]string{"Proyector", "Pizarrón"})
	if len(got) != 2 || got[0] != "proyector" || got[1] != "pizarron" {
		t.Errorf("NormalizeAll = %v", got)
	}
}

func TestCompare_SortsByNormalizedLabel(t *testing.T) {
	labels := []string{"tv", "Proyector", "audio", "Pizarrón", "Wifi"}
	sort.SliceStable(labels, func(i, j int) bool {
		return Compare(labels[i], labels[j]) < 0
	})

	want := []string{"audio", "Pizarrón", "Proyector", "tv", "Wifi"}
	for i := range want {
		if labels[i] != want[i] {
			t.Fatalf("sorted = %v, want %v", labels, want)
		}
	}
}

func TestCompare_EqualKeys(t *testing.T) {
	if c := Compare("Pizarrón", "pizarron"); c != 0 {
		t.Errorf("Compare(Pizarrón, pizarron) = %d, want 0", c)
	}
}
