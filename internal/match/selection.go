package match

import "github.com/HerbHall/spacematch/pkg/catalog"

// Selection is a user's answers: the capacity bucket, a privacy level and the
// equipment the space must provide. Equipment order is irrelevant.
type Selection struct {
	Capacity  catalog.Range
	Privacy   string
	Equipment []string
}

// NewSelection builds a Selection. The equipment slice is copied.
func NewSelection(capacity catalog.Range, privacy string, equipment ...string) Selection {
	eq := make([]string, len(equipment))
	copy(eq, equipment)
	return Selection{Capacity: capacity, Privacy: privacy, Equipment: eq}
}
