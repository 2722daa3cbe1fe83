package board

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

type variantsFile struct {
	Variants []*Variant `yaml:"variants"`
}

// Catalog holds the variants available to new games, keyed by name.
type Catalog map[string]*Variant

// NewCatalog returns a catalog holding only the classic board.
func NewCatalog() Catalog {
	c := Catalog{}
	c[DefaultVariant] = Classic()
	return c
}

// Get looks up a variant by name.
func (c Catalog) Get(name string) (*Variant, error) {
	v, ok := c[name]
	if !ok {
		return nil, fmt.Errorf("unknown board variant %q", name)
	}
	return v, nil
}

// LoadVariants parses a YAML variants document and validates every entry.
func LoadVariants(r io.Reader) ([]*Variant, error) {
	var doc variantsFile
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode variants: %w", err)
	}

	var err error
	seen := make(map[string]bool, len(doc.Variants))
	for _, v := range doc.Variants {
		if v.Snakes == nil {
			v.Snakes = map[int]int{}
		}
		if v.Ladders == nil {
			v.Ladders = map[int]int{}
		}
		if seen[v.Name] {
			err = multierr.Append(err, fmt.Errorf("duplicate variant %q", v.Name))
		}
		seen[v.Name] = true
		err = multierr.Append(err, v.Validate())
	}
	if err != nil {
		return nil, err
	}
	return doc.Variants, nil
}

// LoadFile adds the variants in path to the catalog.
func (c Catalog) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open variants file: %w", err)
	}
	defer f.Close()

	variants, err := LoadVariants(f)
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	for _, v := range variants {
		c[v.Name] = v
	}
	return nil
}
