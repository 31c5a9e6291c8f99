package tilepath

import "github.com/milk9111/tileengine/atlas"

// Resolver turns an atlas cell into its canonical region. *atlas.Cache
// implements it.
type Resolver interface {
	Sprite(atlasName string, coord atlas.Coord) (*atlas.Region, error)
}

// Resolve decodes path and resolves every layer in order. Index 0 is the
// bottom layer. On error no regions are returned.
func Resolve(r Resolver, path string) ([]*atlas.Region, error) {
	refs, err := Decode(path)
	if err != nil {
		return nil, err
	}
	out := make([]*atlas.Region, 0, len(refs))
	for _, ref := range refs {
		region, err := r.Sprite(ref.Atlas, ref.Coord)
		if err != nil {
			return nil, err
		}
		out = append(out, region)
	}
	return out, nil
}
