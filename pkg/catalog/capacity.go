package catalog

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Unbounded marks an open upper bound on a Range.
const Unbounded = math.MaxInt

// anyLabel is the display label of a capacity that was not given at all.
const anyLabel = "cualquiera"

var (
	rangePattern  = regexp.MustCompile(`(\d+)\s*-\s*(\d+)\+?`)
	singlePattern = regexp.MustCompile(`^\s*(\d+)\s*\+?\s*$`)
)

// Range is a closed interval of people. Max == Unbounded means "or more".
type Range struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// FullRange is the unrestricted interval used whenever a capacity cannot be
// determined.
func FullRange() Range {
	return Range{Min: 0, Max: Unbounded}
}

// IsUnbounded reports whether r has no upper limit.
func (r Range) IsUnbounded() bool {
	return r.Max == Unbounded
}

// Overlaps reports whether r and o share at least one value. Touching bounds
// count: 4-8 overlaps 8-20.
func (r Range) Overlaps(o Range) bool {
	return !(r.Max < o.Min || r.Min > o.Max)
}

// String renders r as "N-M", or "N+" when unbounded.
func (r Range) String() string {
	if r.IsUnbounded() {
		return strconv.Itoa(r.Min) + "+"
	}
	return strconv.Itoa(r.Min) + "-" + strconv.Itoa(r.Max)
}

// MarshalJSON writes an unbounded max as null.
func (r Range) MarshalJSON() ([]byte, error) {
	out := struct {
		Min int  `json:"min"`
		Max *int `json:"max"`
	}{Min: r.Min}
	if !r.IsUnbounded() {
		out.Max = &r.Max
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads a null or missing max as Unbounded.
func (r *Range) UnmarshalJSON(data []byte) error {
	var in struct {
		Min int  `json:"min"`
		Max *int `json:"max"`
	}
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	r.Min = in.Min
	r.Max = Unbounded
	if in.Max != nil {
		r.Max = *in.Max
	}
	return nil
}

// CapacityKind is the shape a capacity was authored in.
type CapacityKind int

// Capacity shapes.
const (
	KindAbsent CapacityKind = iota
	KindStructured
	KindRange
	KindSingle
	KindUnparsed
)

func (k CapacityKind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
	case KindStructured:
		return "structured"
	case KindRange:
		return "range"
	case KindSingle:
		return "single"
	case KindUnparsed:
		return "unparsed"
	default:
		return fmt.Sprintf("CapacityKind(%d)", int(k))
	}
}

// Capacity is a catalog capacity resolved once into a canonical Range. The raw
// value is kept so it can be shown back the way it was written.
type Capacity struct {
	Kind   CapacityKind
	Label  string
	bounds Range
	raw    any
}

// Range returns the canonical interval. A zero Capacity is unrestricted.
func (c Capacity) Range() Range {
	if c.Kind == KindAbsent {
		return FullRange()
	}
	return c.bounds
}

// Raw returns the value the capacity was parsed from.
func (c Capacity) Raw() any {
	return c.raw
}

// ParseCapacity converts any supported capacity representation into a
// Capacity. It never fails: input it cannot read yields FullRange.
//
// Accepted forms:
//
//	{min: 2, max: 8}   structured
//	"2-8", "8-20+"     range (a trailing + opens the upper bound)
//	"6", "20+"         single value
func ParseCapacity(raw any) Capacity {
	raw = jsonSafe(raw)
	if isFalsy(raw) {
		return Capacity{Kind: KindAbsent, bounds: FullRange(), Label: anyLabel, raw: raw}
	}

	if m, ok := asMap(raw); ok {
		if c, ok := parseStructured(m); ok {
			c.raw = m
			return c
		}
		raw = m
	}

	if s, ok := scalarString(raw); ok {
		c := parseCapacityString(s)
		c.raw = raw
		return c
	}

	return Capacity{Kind: KindUnparsed, bounds: FullRange(), Label: fmt.Sprint(raw), raw: raw}
}

func parseStructured(m map[string]any) (Capacity, bool) {
	minRaw, hasMin := m["min"]
	maxRaw, hasMax := m["max"]
	if !hasMin || !hasMax || minRaw == nil || maxRaw == nil {
		return Capacity{}, false
	}

	label := fmt.Sprintf("%v-%v", minRaw, maxRaw)
	lo, okMin := toInt(minRaw)
	hi, okMax := toInt(maxRaw)
	if !okMin || !okMax {
		return Capacity{Kind: KindStructured, bounds: FullRange(), Label: label}, true
	}
	return Capacity{Kind: KindStructured, bounds: ordered(lo, hi), Label: label}, true
}

func parseCapacityString(raw string) Capacity {
	s := strings.TrimSpace(raw)
	plus := strings.HasSuffix(s, "+")

	if m := rangePattern.FindStringSubmatch(s); m != nil {
		lo, errMin := strconv.Atoi(m[1])
		hi, errMax := strconv.Atoi(m[2])
		if errMin == nil && errMax == nil {
			// Open ranges keep their first number as min.
			r := Range{Min: lo, Max: Unbounded}
			if !plus {
				r = ordered(lo, hi)
			}
			return Capacity{Kind: KindRange, bounds: r, Label: s}
		}
	}

	if m := singlePattern.FindStringSubmatch(s); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			r := Range{Min: n, Max: n}
			if plus {
				r.Max = Unbounded
			}
			return Capacity{Kind: KindSingle, bounds: r, Label: s}
		}
	}

	return Capacity{Kind: KindUnparsed, bounds: FullRange(), Label: raw}
}

func ordered(lo, hi int) Range {
	if lo > hi {
		lo, hi = hi, lo
	}
	return Range{Min: lo, Max: hi}
}

// isFalsy reports the values a capacity is considered "not given" for.
func isFalsy(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case bool:
		return !x
	case int:
		return x == 0
	case int64:
		return x == 0
	case uint64:
		return x == 0
	case float64:
		return x == 0 || math.IsNaN(x)
	case json.Number:
		f, err := x.Float64()
		return err == nil && f == 0
	}
	return false
}

// jsonSafe rewrites YAML maps with non-string keys, at any depth, into
// map[string]any so the raw value can always be encoded as JSON.
func jsonSafe(v any) any {
	switch x := v.(type) {
	case map[any]any:
		out := make(map[string]any, len(x))
		for k, val := range x {
			out[fmt.Sprint(k)] = jsonSafe(val)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, val := range x {
			out[k] = jsonSafe(val)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, val := range x {
			out[i] = jsonSafe(val)
		}
		return out
	}
	return v
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	}
	return nil, false
}

// scalarString renders strings and numbers; other kinds are not parseable.
func scalarString(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case json.Number:
		return x.String(), true
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(x), true
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	}
	return "", false
}

func toInt(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case int64:
		return int(x), true
	case uint64:
		if x > math.MaxInt {
			return Unbounded, true
		}
		return int(x), true
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return 0, false
		}
		return int(x), true
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return int(n), true
		}
		f, err := x.Float64()
		if err != nil {
			return 0, false
		}
		return int(f), true
	case string:
		s := strings.TrimSpace(x)
		if n, err := strconv.Atoi(s); err == nil {
			return n, true
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return int(f), true
	}
	return 0, false
}

// UnmarshalYAML resolves the capacity while the catalog is decoded.
func (c *Capacity) UnmarshalYAML(node *yaml.Node) error {
	var raw any
	if err := node.Decode(&raw); err != nil {
		return err
	}
	*c = ParseCapacity(raw)
	return nil
}

// UnmarshalJSON resolves the capacity while a JSON document is decoded.
func (c *Capacity) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*c = ParseCapacity(raw)
	return nil
}

// MarshalJSON writes the capacity back in the form it was authored. A raw
// value JSON cannot represent is written as its label.
func (c Capacity) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(c.raw)
	if err != nil {
		return json.Marshal(c.Label)
	}
	return data, nil
}

// IsZero lets yaml/json omitempty treat an absent capacity as empty.
func (c Capacity) IsZero() bool {
	return c.Kind == KindAbsent && c.raw == nil
}
