// Package match scores catalog spaces against a user's selection and ranks
// them into exact matches or, when none qualify, near matches.
//
// Exact scoring gives 2 points for covering every requested equipment item,
// 1 for a matching privacy level and 1 for an overlapping capacity. A space
// qualifies at 3 points, so full equipment coverage plus either of the other
// two criteria is enough; privacy and capacity alone never qualify.
package match

import (
	"github.com/HerbHall/spacematch/pkg/catalog"
	"github.com/HerbHall/spacematch/pkg/textnorm"
)

// Exact score weights.
const (
	weightEquipment = 2
	weightPrivacy   = 1
	weightCapacity  = 1

	// MaxScore is the best possible exact score.
	MaxScore = weightEquipment + weightPrivacy + weightCapacity
)

// Scored is the outcome of evaluating one space against a selection.
type Scored struct {
	Space            *catalog.Space
	Range            catalog.Range
	CapacityOverlap  bool
	PrivacyMatch     bool
	EquipmentCovered bool
	EquipmentMatched int
	Score            int
}

// Evaluate scores space against sel. It is pure: the same inputs always give
// the same result.
func Evaluate(space *catalog.Space, sel Selection) Scored {
	r := space.Capacity.Range()
	privacy := textnorm.NormalizeAll(space.Privacy)
	equipment := textnorm.NormalizeAll(space.Equipment)
	wanted := textnorm.NormalizeAll(sel.Equipment)

	matched := countPresent(wanted, equipment)

	s := Scored{
		Space:            space,
		Range:            r,
		CapacityOverlap:  Overlaps(r, sel.Capacity),
		PrivacyMatch:     contains(privacy, textnorm.Normalize(sel.Privacy)),
		EquipmentCovered: matched == len(wanted),
		EquipmentMatched: matched,
	}

	if s.EquipmentCovered {
		s.Score += weightEquipment
	}
	if s.PrivacyMatch {
		s.Score += weightPrivacy
	}
	if s.CapacityOverlap {
		s.Score += weightCapacity
	}
	return s
}

// Overlaps reports whether two capacity ranges intersect. Ranges that only
// touch at a bound overlap.
func Overlaps(a, b catalog.Range) bool {
	return a.Overlaps(b)
}

// Qualifies reports whether s reaches the given exact-match threshold.
func (s Scored) Qualifies(threshold int) bool {
	return s.Score >= threshold
}

// countPresent counts the wanted keys found in have. Duplicated wanted keys
// are counted each time.
func countPresent(wanted, have []string) int {
	n := 0
	for _, w := range wanted {
		if contains(have, w) {
			n++
		}
	}
	return n
}

func contains(list []string, target string) bool {
	for i := range list {
		if list[i] == target {
			return true
		}
	}
	return false
}
