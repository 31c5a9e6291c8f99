package assets

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/milk9111/tileengine/atlas"
)

func testProvider(dir string) *Provider {
	p := NewProvider(dir)
	p.Convert = nil
	return p
}

func TestEmbeddedAtlases(t *testing.T) {
	p := testProvider("")
	names, err := p.Names()
	if err != nil {
		t.Fatalf("Names: %v", err)
	}
	want := map[string]bool{"Atlas1": true, "pillar": true}
	for _, n := range names {
		delete(want, n)
	}
	if len(want) != 0 {
		t.Fatalf("missing embedded atlases %v in %v", want, names)
	}

	cases := []struct {
		name string
		w, h int
	}{
		{"Atlas1", 21 * 16, 25 * 16},
		{"pillar", 3 * 16, 5 * 16},
		{"atli/pillar.png", 3 * 16, 5 * 16},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			img, err := p.Atlas(tc.name)
			if err != nil {
				t.Fatalf("Atlas: %v", err)
			}
			if b := img.Bounds(); b.Dx() != tc.w || b.Dy() != tc.h {
				t.Fatalf("unexpected bounds %v", b)
			}
		})
	}
}

func TestMissingAtlas(t *testing.T) {
	p := testProvider(t.TempDir())
	_, err := p.Atlas("T")
	if !errors.Is(err, atlas.ErrAtlasNotFound) {
		t.Fatalf("expected ErrAtlasNotFound, got %v", err)
	}

	c := atlas.NewCache(p)
	_, err = c.Sprite("T", atlas.Coord{})
	var nf *atlas.AtlasNotFoundError
	if !errors.As(err, &nf) || nf.Name != "T" {
		t.Fatalf("expected AtlasNotFoundError for T, got %v", err)
	}
}

func TestDiskOverridesEmbedded(t *testing.T) {
	dir := t.TempDir()
	img := image.NewNRGBA(image.Rect(0, 0, 32, 16))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	f, err := os.Create(filepath.Join(dir, "pillar.png"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	f.Close()

	p := testProvider(dir)
	got, err := p.Atlas("pillar")
	if err != nil {
		t.Fatalf("Atlas: %v", err)
	}
	if got.Bounds().Dx() != 32 {
		t.Fatalf("expected disk atlas, got bounds %v", got.Bounds())
	}

	c := atlas.NewCache(p)
	r, err := c.Sprite("pillar", atlas.Coord{X: 1})
	if err != nil {
		t.Fatalf("Sprite: %v", err)
	}
	if r.Rect != image.Rect(16, 0, 32, 16) {
		t.Fatalf("unexpected rect %v", r.Rect)
	}
}
