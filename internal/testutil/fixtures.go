package testutil

import (
	"encoding/json"
	"testing"

	"github.com/HerbHall/spacematch/pkg/catalog"
)

// NewSpace returns a Space with sensible defaults, suitable for test fixtures.
// Override individual fields with options.
func NewSpace(opts ...func(*catalog.Space)) catalog.Space {
	s := catalog.Space{
		Name:      "Sala de prueba",
		Capacity:  catalog.ParseCapacity("2-8"),
		Privacy:   catalog.StringList{"privado"},
		Equipment: catalog.StringList{"wifi"},
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// WithName sets the space name.
func WithName(name string) func(*catalog.Space) {
	return func(s *catalog.Space) { s.Name = name }
}

// WithCapacity sets the capacity from any raw catalog form.
func WithCapacity(raw any) func(*catalog.Space) {
	return func(s *catalog.Space) { s.Capacity = catalog.ParseCapacity(raw) }
}

// WithPrivacy sets the privacy levels.
func WithPrivacy(levels ...string) func(*catalog.Space) {
	return func(s *catalog.Space) { s.Privacy = levels }
}

// WithEquipment sets the equipment list.
func WithEquipment(items ...string) func(*catalog.Space) {
	return func(s *catalog.Space) { s.Equipment = items }
}

// NewCatalog encodes spaces as a JSON catalog and returns it loaded.
func NewCatalog(t *testing.T, spaces ...catalog.Space) *catalog.Catalog {
	t.Helper()

	if spaces == nil {
		spaces = []catalog.Space{}
	}
	data, err := json.Marshal(spaces)
	if err != nil {
		t.Fatalf("testutil.NewCatalog: marshal: %v", err)
	}
	c := catalog.NewCatalogFromBytes(data, catalog.FormatJSON)
	if _, err := c.Entries(); err != nil {
		t.Fatalf("testutil.NewCatalog: load: %v", err)
	}
	return c
}
