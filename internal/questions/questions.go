// Package questions defines the three questions a user answers to find a
// space. Capacity and privacy options are fixed; equipment options are taken
// from the catalog.
package questions

import (
	"sort"

	"github.com/HerbHall/spacematch/pkg/catalog"
	"github.com/HerbHall/spacematch/pkg/textnorm"
)

// Question IDs.
const (
	IDCapacity  = "capacidad"
	IDPrivacy   = "privacidad"
	IDEquipment = "equipamiento"
)

// Kind is how many answers a question takes and in which form.
type Kind string

// Question kinds.
const (
	KindSingle       Kind = "single"
	KindSingleObject Kind = "single-object"
	KindMultiple     Kind = "multiple"
)

// Privacy levels.
const (
	PrivacyPublic  = "público"
	PrivacySemi    = "semi"
	PrivacyPrivate = "privado"
)

// Bucket is a capacity option.
type Bucket struct {
	Label string        `json:"label"`
	Range catalog.Range `json:"range"`
}

// Question is one step of the questionnaire. Options holds the labels shown
// to the user; for capacity questions Buckets carries the ranges behind them.
type Question struct {
	ID      string   `json:"id"`
	Kind    Kind     `json:"type"`
	Text    string   `json:"text"`
	Options []string `json:"options"`
	Buckets []Bucket `json:"buckets,omitempty"`
}

// Buckets returns the capacity options in display order.
func Buckets() []Bucket {
	return []Bucket{
		{Label: "2 personas", Range: catalog.Range{Min: 2, Max: 2}},
		{Label: "2 a 4", Range: catalog.Range{Min: 2, Max: 4}},
		{Label: "4 a 8", Range: catalog.Range{Min: 4, Max: 8}},
		{Label: "8 a 20", Range: catalog.Range{Min: 8, Max: 20}},
		{Label: "Más de 20", Range: catalog.Range{Min: 21, Max: catalog.Unbounded}},
	}
}

// FindBucket looks up a capacity bucket by label, ignoring case and accents.
func FindBucket(label string) (Bucket, bool) {
	key := textnorm.Normalize(label)
	for _, b := range Buckets() {
		if textnorm.Normalize(b.Label) == key {
			return b, true
		}
	}
	return Bucket{}, false
}

// PrivacyLevels returns the privacy options in display order.
func PrivacyLevels() []string {
	return []string{PrivacyPublic, PrivacySemi, PrivacyPrivate}
}

// IsPrivacyLevel reports whether level names one of PrivacyLevels.
func IsPrivacyLevel(level string) bool {
	return matchOption(PrivacyLevels(), level) != ""
}

// EquipmentOptions collects the distinct equipment labels of spaces. Labels
// that differ only in case or accents count once, keeping the first spelling
// seen. The result is sorted by normalized label.
func EquipmentOptions(spaces []catalog.Space) []string {
	seen := make(map[string]struct{})
	opts := make([]string, 0)
	for i := range spaces {
		for _, eq := range spaces[i].Equipment {
			key := textnorm.Normalize(eq)
			if key == "" {
				continue
			}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			opts = append(opts, eq)
		}
	}

	sort.SliceStable(opts, func(a, b int) bool {
		return textnorm.Compare(opts[a], opts[b]) < 0
	})
	return opts
}

// Build returns the capacity, privacy and equipment questions in order.
func Build(spaces []catalog.Space) []Question {
	buckets := Buckets()
	labels := make([]string, len(buckets))
	for i, b := range buckets {
		labels[i] = b.Label
	}

	return []Question{
		{
			ID:      IDCapacity,
			Kind:    KindSingleObject,
			Text:    "¿Para cuántas personas será el espacio?",
			Options: labels,
			Buckets: buckets,
		},
		{
			ID:      IDPrivacy,
			Kind:    KindSingle,
			Text:    "¿Qué nivel de privacidad necesitás?",
			Options: PrivacyLevels(),
		},
		{
			ID:      IDEquipment,
			Kind:    KindMultiple,
			Text:    "¿Qué equipamiento necesitás? (podés elegir más de uno)",
			Options: EquipmentOptions(spaces),
		},
	}
}

// Option returns the option of q matching value, ignoring case and accents,
// or "" when there is none.
func (q Question) Option(value string) string {
	return matchOption(q.Options, value)
}

// Bucket returns the bucket behind a capacity option label.
func (q Question) Bucket(label string) (Bucket, bool) {
	key := textnorm.Normalize(label)
	for _, b := range q.Buckets {
		if textnorm.Normalize(b.Label) == key {
			return b, true
		}
	}
	return Bucket{}, false
}

func matchOption(options []string, value string) string {
	key := textnorm.Normalize(value)
	if key == "" {
		return ""
	}
	for _, o := range options {
		if textnorm.Normalize(o) == key {
			return o
		}
	}
	return ""
}
