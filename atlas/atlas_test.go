package atlas

import (
	"errors"
	"image"
	"testing"
)

func newTestAtlas(cols, rows int) *image.RGBA {
	return image.NewRGBA(image.Rect(0, 0, cols*16, rows*16))
}

func TestSpriteCanonicalization(t *testing.T) {
	c := NewCache(nil)
	c.Add("Atlas1", newTestAtlas(4, 4))

	cases := []struct {
		name  string
		coord Coord
		key   string
	}{
		{"origin", Coord{0, 0}, "Atlas1,0,0"},
		{"middle", Coord{1, 2}, "Atlas1,1,2"},
		{"corner", Coord{3, 3}, "Atlas1,3,3"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a, err := c.Sprite("Atlas1", tc.coord)
			if err != nil {
				t.Fatalf("Sprite: %v", err)
			}
			b, err := c.Sprite("Atlas1", tc.coord)
			if err != nil {
				t.Fatalf("Sprite: %v", err)
			}
			if a != b {
				t.Fatalf("expected identical region for repeated request")
			}
			key, ok := c.Key(a)
			if !ok || key != tc.key {
				t.Fatalf("expected key %q, got %q ok=%v", tc.key, key, ok)
			}
		})
	}

	if c.Len() != len(cases) {
		t.Fatalf("expected %d cached regions, got %d", len(cases), c.Len())
	}
}

func TestSpriteRectIsFlipped(t *testing.T) {
	c := NewCache(nil)
	c.Add("a", newTestAtlas(2, 3))

	cases := []struct {
		coord Coord
		want  image.Rectangle
	}{
		{Coord{0, 0}, image.Rect(0, 32, 16, 48)},
		{Coord{1, 0}, image.Rect(16, 32, 32, 48)},
		{Coord{0, 2}, image.Rect(0, 0, 16, 16)},
	}
	for _, tc := range cases {
		r, err := c.Sprite("a", tc.coord)
		if err != nil {
			t.Fatalf("Sprite(%v): %v", tc.coord, err)
		}
		if r.Rect != tc.want {
			t.Fatalf("Sprite(%v) rect = %v, want %v", tc.coord, r.Rect, tc.want)
		}
		if r.Image.Bounds() != tc.want {
			t.Fatalf("Sprite(%v) image bounds = %v, want %v", tc.coord, r.Image.Bounds(), tc.want)
		}
	}
}

func TestSpriteUnknownAtlas(t *testing.T) {
	c := NewCache(nil)
	_, err := c.Sprite("missing", Coord{})
	var nf *AtlasNotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected AtlasNotFoundError, got %v", err)
	}
	if nf.Name != "missing" {
		t.Fatalf("expected name missing, got %q", nf.Name)
	}
	if !errors.Is(err, ErrAtlasNotFound) {
		t.Fatalf("expected errors.Is ErrAtlasNotFound")
	}
	if c.Len() != 0 {
		t.Fatalf("failed lookup must not populate the cache")
	}
}

func TestLoadUsesProviderOnce(t *testing.T) {
	calls := map[string]int{}
	p := ProviderFunc(func(name string) (Image, error) {
		calls[name]++
		if name == "pillar" {
			return newTestAtlas(3, 5), nil
		}
		return nil, ErrAtlasNotFound
	})
	c := NewCache(p)

	if err := c.LoadAll([]string{"pillar", "pillar"}); err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if _, err := c.Sprite("pillar", Coord{2, 4}); err != nil {
		t.Fatalf("Sprite: %v", err)
	}
	if calls["pillar"] != 1 {
		t.Fatalf("expected one provider call, got %d", calls["pillar"])
	}

	if _, err := c.Load("nope"); !errors.Is(err, ErrAtlasNotFound) {
		t.Fatalf("expected ErrAtlasNotFound, got %v", err)
	}
	if got := c.Atlases(); len(got) != 1 || got[0] != "pillar" {
		t.Fatalf("unexpected atlases %v", got)
	}
}

func TestKeyUnknownRegion(t *testing.T) {
	c := NewCache(nil)
	if _, ok := c.Key(&Region{Atlas: "x"}); ok {
		t.Fatalf("foreign region must not resolve")
	}
	if _, ok := c.Key(nil); ok {
		t.Fatalf("nil region must not resolve")
	}
}
