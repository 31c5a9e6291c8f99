package prefabs

import (
	"fmt"
	"sort"

	"github.com/milk9111/tileengine/atlas"
	"gopkg.in/yaml.v3"
)

// StructureKind names a multi-tile structure.
type StructureKind string

const (
	NormalBigHouseOne   StructureKind = "NormalBigHouseOne"
	NormalBigHouseTwo   StructureKind = "NormalBigHouseTwo"
	NormalBigHouseThree StructureKind = "NormalBigHouseThree"

	NormalHouseOne   StructureKind = "NormalHouseOne"
	NormalHouseTwo   StructureKind = "NormalHouseTwo"
	NormalHouseThree StructureKind = "NormalHouseThree"

	Pillar  StructureKind = "Pillar"
	Mirror  StructureKind = "Mirror"
	ArenaT1 StructureKind = "ArenaT1"
	ArenaT2 StructureKind = "ArenaT2"
)

// Footprint is the rectangle of atlas cells a structure stamps onto the grid.
// Cell (i, j) of the structure uses atlas cell Origin + (i, j).
type Footprint struct {
	Origin atlas.Coord
	Width  int
	Height int
	Atlas  string
}

// DefaultFootprints returns the built-in structure table. Mirror, ArenaT1 and
// ArenaT2 have no footprint yet.
func DefaultFootprints() map[StructureKind]Footprint {
	return map[StructureKind]Footprint{
		NormalBigHouseOne:   {Origin: atlas.Coord{X: 0, Y: 18}, Width: 7, Height: 7, Atlas: "Atlas1"},
		NormalBigHouseTwo:   {Origin: atlas.Coord{X: 7, Y: 18}, Width: 7, Height: 7, Atlas: "Atlas1"},
		NormalBigHouseThree: {Origin: atlas.Coord{X: 14, Y: 18}, Width: 7, Height: 7, Atlas: "Atlas1"},
		NormalHouseOne:      {Origin: atlas.Coord{X: 0, Y: 18}, Width: 7, Height: 6, Atlas: "Atlas1"},
		NormalHouseTwo:      {Origin: atlas.Coord{X: 7, Y: 18}, Width: 7, Height: 6, Atlas: "Atlas1"},
		NormalHouseThree:    {Origin: atlas.Coord{X: 14, Y: 18}, Width: 7, Height: 6, Atlas: "Atlas1"},
		Pillar:              {Origin: atlas.Coord{X: 0, Y: 0}, Width: 3, Height: 5, Atlas: "pillar"},
	}
}

type StructureSpec struct {
	Structures []FootprintSpec `yaml:"structures"`
}

type FootprintSpec struct {
	Kind   string    `yaml:"kind"`
	Atlas  string    `yaml:"atlas"`
	Origin CoordSpec `yaml:"origin"`
	Width  int       `yaml:"width"`
	Height int       `yaml:"height"`
}

type CoordSpec struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// ParseStructureSpec decodes a structure table from YAML.
func ParseStructureSpec(data []byte) (*StructureSpec, error) {
	var spec StructureSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("prefabs: unmarshal structures: %w", err)
	}
	for i, s := range spec.Structures {
		if s.Kind == "" {
			return nil, fmt.Errorf("prefabs: structure %d has no kind", i)
		}
		if s.Atlas == "" {
			return nil, fmt.Errorf("prefabs: structure %s has no atlas", s.Kind)
		}
		if s.Width <= 0 || s.Height <= 0 {
			return nil, fmt.Errorf("prefabs: structure %s has invalid size %dx%d", s.Kind, s.Width, s.Height)
		}
	}
	return &spec, nil
}

// LoadStructureSpec loads a structure table by prefab file name.
func LoadStructureSpec(filename string) (*StructureSpec, error) {
	data, err := Load(filename)
	if err != nil {
		return nil, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}
	return ParseStructureSpec(data)
}

// Footprints merges the loaded structures over the built-in table.
func (s *StructureSpec) Footprints() map[StructureKind]Footprint {
	out := DefaultFootprints()
	if s == nil {
		return out
	}
	for _, fs := range s.Structures {
		out[StructureKind(fs.Kind)] = Footprint{
			Origin: atlas.Coord{X: fs.Origin.X, Y: fs.Origin.Y},
			Width:  fs.Width,
			Height: fs.Height,
			Atlas:  fs.Atlas,
		}
	}
	return out
}

// LoadFootprints loads structures.yaml and merges it over the defaults.
func LoadFootprints() (map[StructureKind]Footprint, error) {
	spec, err := LoadStructureSpec(StructuresFile)
	if err != nil {
		return nil, err
	}
	return spec.Footprints(), nil
}

// SortedKinds returns the kinds present in table, sorted by name.
func SortedKinds(table map[StructureKind]Footprint) []StructureKind {
	kinds := make([]StructureKind, 0, len(table))
	for k := range table {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}
