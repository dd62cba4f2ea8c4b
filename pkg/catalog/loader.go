package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed espacios.yaml
var catalogRawData []byte

// catalogFile is the mapping form of a catalog document. A bare list of
// spaces is accepted as well.
type catalogFile struct {
	Spaces []Space `json:"espacios" yaml:"espacios"`
}

// Catalog provides lazy-loaded access to a set of spaces.
type Catalog struct {
	once   sync.Once
	data   []byte
	format Format
	spaces []Space
	err    error
}

// Format is the encoding of a catalog document.
type Format int

// Supported catalog formats.
const (
	FormatYAML Format = iota
	FormatJSON
)

// NewCatalog creates a Catalog over the embedded default spaces, parsed on
// first access.
func NewCatalog() *Catalog {
	return &Catalog{data: catalogRawData, format: FormatYAML}
}

// NewCatalogFromBytes creates a Catalog over data in the given format.
func NewCatalogFromBytes(data []byte, format Format) *Catalog {
	return &Catalog{data: data, format: format}
}

// LoadFile reads a catalog from path. Files ending in .json are decoded as
// JSON, anything else as YAML.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	format := FormatYAML
	if strings.EqualFold(filepath.Ext(path), ".json") {
		format = FormatJSON
	}
	c := NewCatalogFromBytes(data, format)
	if _, err := c.Entries(); err != nil {
		return nil, err
	}
	return c, nil
}

// Entries returns a copy of all spaces in catalog order.
func (c *Catalog) Entries() ([]Space, error) {
	c.once.Do(c.load)
	if c.err != nil {
		return nil, c.err
	}
	cp := make([]Space, len(c.spaces))
	copy(cp, c.spaces)
	return cp, nil
}

// Len returns the number of spaces, or 0 if the catalog failed to load.
func (c *Catalog) Len() int {
	c.once.Do(c.load)
	return len(c.spaces)
}

func (c *Catalog) load() {
	var (
		spaces []Space
		err    error
	)
	switch c.format {
	case FormatJSON:
		spaces, err = ParseJSON(c.data)
	default:
		spaces, err = ParseYAML(c.data)
	}
	c.spaces, c.err = spaces, err
}

// ParseYAML decodes spaces from a YAML document holding either a list of
// spaces or a mapping with an "espacios" list. Any other document shape
// yields an empty catalog.
func ParseYAML(data []byte) ([]Space, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("catalog: parse yaml: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return []Space{}, nil
	}

	root := doc.Content[0]
	switch root.Kind {
	case yaml.SequenceNode:
		var spaces []Space
		if err := root.Decode(&spaces); err != nil {
			return nil, fmt.Errorf("catalog: decode spaces: %w", err)
		}
		return nonNil(spaces), nil
	case yaml.MappingNode:
		var f catalogFile
		if err := root.Decode(&f); err != nil {
			return nil, fmt.Errorf("catalog: decode spaces: %w", err)
		}
		return nonNil(f.Spaces), nil
	default:
		return []Space{}, nil
	}
}

// ParseJSON decodes spaces from a JSON array, or an object with an
// "espacios" array. Any other JSON value yields an empty catalog.
func ParseJSON(data []byte) ([]Space, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return []Space{}, nil
	}

	switch trimmed[0] {
	case '[':
		var spaces []Space
		if err := json.Unmarshal(trimmed, &spaces); err != nil {
			return nil, fmt.Errorf("catalog: parse json: %w", err)
		}
		return nonNil(spaces), nil
	case '{':
		var f catalogFile
		if err := json.Unmarshal(trimmed, &f); err != nil {
			return nil, fmt.Errorf("catalog: parse json: %w", err)
		}
		return nonNil(f.Spaces), nil
	default:
		if !json.Valid(trimmed) {
			return nil, fmt.Errorf("catalog: parse json: invalid document")
		}
		return []Space{}, nil
	}
}

func nonNil(spaces []Space) []Space {
	if spaces == nil {
		return []Space{}
	}
	return spaces
}
