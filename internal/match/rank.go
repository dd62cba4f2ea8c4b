package match

import (
	"sort"

	"github.com/HerbHall/spacematch/pkg/catalog"
	"go.uber.org/zap"
)

// Near-match weights.
const (
	nearWeightCapacity      = 1.0
	nearWeightPrivacy       = 1.0
	nearWeightEquipmentItem = 0.5
)

// Policy holds the ranking thresholds.
type Policy struct {
	// QualifyScore is the minimum exact score for a primary match.
	QualifyScore int `mapstructure:"qualify_score"`
	// NearThreshold is the minimum near score for a fallback match.
	NearThreshold float64 `mapstructure:"near_threshold"`
	// NearLimit caps the fallback list. Zero or less means no cap.
	NearLimit int `mapstructure:"near_limit"`
}

// DefaultPolicy returns the standard thresholds: qualify at 3, near matches
// from 1.5, at most 5 of them.
func DefaultPolicy() Policy {
	return Policy{QualifyScore: 3, NearThreshold: 1.5, NearLimit: 5}
}

// Mode tells which list of a Result is populated.
type Mode string

// Result modes.
const (
	ModeExact Mode = "exact"
	ModeNear  Mode = "near"
	ModeNone  Mode = "none"
)

// Result holds the ranked spaces. Fallback is only computed when Primary is
// empty. Entries point into the slice passed to Rank.
type Result struct {
	Primary  []*catalog.Space
	Fallback []*catalog.Space
}

// Mode returns which list the result carries.
func (r Result) Mode() Mode {
	switch {
	case len(r.Primary) > 0:
		return ModeExact
	case len(r.Fallback) > 0:
		return ModeNear
	default:
		return ModeNone
	}
}

// Spaces returns the list a caller should show: Primary when present,
// Fallback otherwise.
func (r Result) Spaces() []*catalog.Space {
	if len(r.Primary) > 0 {
		return r.Primary
	}
	return r.Fallback
}

// Near is the outcome of the near-match pass for one space.
type Near struct {
	Space            *catalog.Space
	CapacityOverlap  bool
	PrivacyMatch     bool
	EquipmentMatched int
	Score            float64
}

// EvaluateNear computes the near-match score of space: 1 for overlapping
// capacity, 1 for matching privacy and 0.5 per requested equipment item the
// space has.
func EvaluateNear(space *catalog.Space, sel Selection) Near {
	s := Evaluate(space, sel)
	n := Near{
		Space:            space,
		CapacityOverlap:  s.CapacityOverlap,
		PrivacyMatch:     s.PrivacyMatch,
		EquipmentMatched: s.EquipmentMatched,
	}
	if n.CapacityOverlap {
		n.Score += nearWeightCapacity
	}
	if n.PrivacyMatch {
		n.Score += nearWeightPrivacy
	}
	n.Score += nearWeightEquipmentItem * float64(n.EquipmentMatched)
	return n
}

// ScoreAll evaluates every space in catalog order.
func ScoreAll(spaces []catalog.Space, sel Selection) []Scored {
	out := make([]Scored, len(spaces))
	for i := range spaces {
		out[i] = Evaluate(&spaces[i], sel)
	}
	return out
}

// Qualifying returns the spaces scoring at least p.QualifyScore, best first.
// Equal scores keep catalog order.
func (p Policy) Qualifying(spaces []catalog.Space, sel Selection) []Scored {
	qualified := make([]Scored, 0, len(spaces))
	for _, s := range ScoreAll(spaces, sel) {
		if s.Qualifies(p.QualifyScore) {
			qualified = append(qualified, s)
		}
	}
	sort.SliceStable(qualified, func(a, b int) bool {
		return qualified[a].Score > qualified[b].Score
	})
	return qualified
}

// NearMatches returns the spaces whose near score reaches p.NearThreshold,
// best first with catalog order kept for ties, capped at p.NearLimit.
func (p Policy) NearMatches(spaces []catalog.Space, sel Selection) []Near {
	near := make([]Near, 0, len(spaces))
	for i := range spaces {
		n := EvaluateNear(&spaces[i], sel)
		if n.Score >= p.NearThreshold {
			near = append(near, n)
		}
	}
	sort.SliceStable(near, func(a, b int) bool {
		return near[a].Score > near[b].Score
	})
	if p.NearLimit > 0 && len(near) > p.NearLimit {
		near = near[:p.NearLimit]
	}
	return near
}

// Rank applies p to spaces: qualifying spaces go to Primary; if there are
// none, near matches go to Fallback.
func (p Policy) Rank(spaces []catalog.Space, sel Selection) Result {
	var res Result
	for _, s := range p.Qualifying(spaces, sel) {
		res.Primary = append(res.Primary, s.Space)
	}
	if len(res.Primary) > 0 {
		return res
	}
	for _, n := range p.NearMatches(spaces, sel) {
		res.Fallback = append(res.Fallback, n.Space)
	}
	return res
}

// Rank ranks spaces with DefaultPolicy.
func Rank(spaces []catalog.Space, sel Selection) Result {
	return DefaultPolicy().Rank(spaces, sel)
}

// Engine ranks spaces with a fixed policy and logs each pass.
type Engine struct {
	policy Policy
	logger *zap.Logger
}

// NewEngine creates an Engine. A nil logger disables logging.
func NewEngine(policy Policy, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{policy: policy, logger: logger}
}

// Policy returns the engine's thresholds.
func (e *Engine) Policy() Policy {
	return e.policy
}

// Rank ranks spaces against sel.
func (e *Engine) Rank(spaces []catalog.Space, sel Selection) Result {
	res := e.policy.Rank(spaces, sel)
	e.logger.Debug("ranked spaces",
		zap.String("mode", string(res.Mode())),
		zap.Int("catalog", len(spaces)),
		zap.Int("primary", len(res.Primary)),
		zap.Int("fallback", len(res.Fallback)),
		zap.Stringer("capacity", sel.Capacity),
		zap.String("privacy", sel.Privacy),
		zap.Strings("equipment", sel.Equipment),
	)
	return res
}
