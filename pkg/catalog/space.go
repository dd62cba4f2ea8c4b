package catalog

import "strings"

// Space is one bookable space of the catalog. Spaces are read-only once
// loaded.
type Space struct {
	Name        string     `json:"nombre" yaml:"nombre"`
	Capacity    Capacity   `json:"capacidad" yaml:"capacidad"`
	Privacy     StringList `json:"privacidad" yaml:"privacidad"`
	Equipment   StringList `json:"equipamiento" yaml:"equipamiento"`
	Description string     `json:"descripcion,omitempty" yaml:"descripcion"`
	Image       string     `json:"imagen,omitempty" yaml:"imagen"`
}

// CapacityLabel is the capacity as it should be shown to a user.
func (s *Space) CapacityLabel() string {
	if s.Capacity.Label == "" {
		return anyLabel
	}
	return s.Capacity.Label
}

// PrivacyLabel joins the privacy levels for display.
func (s *Space) PrivacyLabel() string {
	return strings.Join(s.Privacy, ", ")
}

// EquipmentLabel joins the equipment for display.
func (s *Space) EquipmentLabel() string {
	return strings.Join(s.Equipment, ", ")
}
