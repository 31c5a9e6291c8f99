package levels

import (
	"errors"
	"image"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/milk9111/tileengine/atlas"
	"github.com/milk9111/tileengine/tilemap"
	"github.com/milk9111/tileengine/tilepath"
)

func newCache() *atlas.Cache {
	c := atlas.NewCache(nil)
	c.Add("Atlas1", image.NewRGBA(image.Rect(0, 0, 21*16, 25*16)))
	c.Add("pillar", image.NewRGBA(image.Rect(0, 0, 3*16, 5*16)))
	return c
}

func uniform(path string, n int) []string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = path
	}
	return lines
}

func TestActivate(t *testing.T) {
	cache := newCache()
	grid := tilemap.NewGrid(10, 10, nil)
	set := NewSet(grid, cache)

	design := uniform("Atlas1:1,1:pillar:0,0:T", 100)
	design[0] = "Atlas1:0,0:T"
	lvl, err := NewLevel("first", design, 10, 10)
	if err != nil {
		t.Fatalf("NewLevel: %v", err)
	}
	set.Add(lvl)

	if err := set.Activate("first"); err != nil {
		t.Fatalf("Activate: %v", err)
	}

	tile, _ := grid.At(0, 0)
	want, _ := cache.Sprite("Atlas1", atlas.Coord{})
	if tile.Len() != 1 || tile.Sprites()[0] != want {
		t.Fatalf("tile 0,0: expected single Atlas1,0,0 layer, got %d layers", tile.Len())
	}

	other, _ := grid.At(9, 9)
	if other.Len() != 2 {
		t.Fatalf("tile 9,9: expected 2 layers, got %d", other.Len())
	}
	if !lvl.Active() || set.Active() != lvl {
		t.Fatalf("expected level to be active")
	}
}

func TestActivateSingleActive(t *testing.T) {
	set := NewSet(tilemap.NewGrid(10, 10, nil), newCache())
	for _, name := range []string{"a", "b", "c"} {
		lvl, err := NewLevel(name, uniform("Atlas1:0,0:T", 100), 10, 10)
		if err != nil {
			t.Fatalf("NewLevel: %v", err)
		}
		set.Add(lvl)
	}

	for _, name := range []string{"a", "c", "b", "b"} {
		if err := set.Activate(name); err != nil {
			t.Fatalf("Activate(%s): %v", name, err)
		}
		active := 0
		for _, n := range set.Names() {
			l, _ := set.Get(n)
			if l.Active() {
				active++
				if n != name {
					t.Fatalf("expected %s active, got %s", name, n)
				}
			}
		}
		if active != 1 {
			t.Fatalf("expected exactly one active level, got %d", active)
		}
	}
}

func TestActivateErrors(t *testing.T) {
	cache := newCache()
	grid := tilemap.NewGrid(10, 10, nil)
	set := NewSet(grid, cache)

	good, _ := NewLevel("good", uniform("Atlas1:2,2:T", 100), 10, 10)
	set.Add(good)
	if err := set.Activate("good"); err != nil {
		t.Fatalf("Activate: %v", err)
	}

	t.Run("unknown_level", func(t *testing.T) {
		var nf *LevelNotFoundError
		if err := set.Activate("nope"); !errors.As(err, &nf) {
			t.Fatalf("expected LevelNotFoundError, got %v", err)
		}
	})

	cases := []struct {
		name  string
		path  string
		check func(error) bool
	}{
		{"malformed_path", "Atlas1:0,0", func(err error) bool {
			var mp *tilepath.MalformedPathError
			return errors.As(err, &mp)
		}},
		{"unknown_atlas", "Missing:0,0:T", func(err error) bool {
			return errors.Is(err, atlas.ErrAtlasNotFound)
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			design := uniform("Atlas1:0,0:pillar:1,1:T", 100)
			design[99] = tc.path
			bad, _ := NewLevel(tc.name, design, 10, 10)
			set.Add(bad)

			err := set.Activate(tc.name)
			if !tc.check(err) {
				t.Fatalf("unexpected error %v", err)
			}
			if set.Active() != good {
				t.Fatalf("failed activation changed the active level")
			}
			tile, _ := grid.At(0, 0)
			want, _ := cache.Sprite("Atlas1", atlas.Coord{X: 2, Y: 2})
			if tile.Len() != 1 || tile.Sprites()[0] != want {
				t.Fatalf("failed activation mutated tile 0,0")
			}
		})
	}
}

func TestActivateRejectsNonSquareGrid(t *testing.T) {
	cases := []struct {
		name          string
		width, height int
	}{
		{"tall", 2, 3},
		{"wide", 3, 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			grid := tilemap.NewGrid(tc.width, tc.height, nil)
			set := NewSet(grid, newCache())
			lvl, err := NewLevel(tc.name, uniform("Atlas1:0,0:T", tc.width*tc.height), tc.width, tc.height)
			if err != nil {
				t.Fatalf("NewLevel: %v", err)
			}
			set.Add(lvl)

			err = set.Activate(tc.name)
			var ns *NonSquareGridError
			if !errors.As(err, &ns) || ns.Width != tc.width || ns.Height != tc.height {
				t.Fatalf("expected NonSquareGridError, got %v", err)
			}
			if set.Active() != nil {
				t.Fatalf("rejected level should not be active")
			}
			tile, _ := grid.At(0, 0)
			if tile.Sprites()[0] != nil {
				t.Fatalf("rejected activation mutated tile 0,0")
			}
		})
	}
}

func TestNewLevelLength(t *testing.T) {
	_, err := NewLevel("short", uniform("Atlas1:0,0:T", 99), 10, 10)
	var dl *DesignLengthError
	if !errors.As(err, &dl) || dl.Got != 99 || dl.Want != 100 {
		t.Fatalf("expected DesignLengthError 99/100, got %v", err)
	}
}

func TestPathIndexUsesHeight(t *testing.T) {
	design := []string{"p0", "p1", "p2", "p3", "p4", "p5"}
	lvl, err := NewLevel("wide", design, 3, 2)
	if err != nil {
		t.Fatalf("NewLevel: %v", err)
	}
	// col + row*height, not col + row*width.
	if got := lvl.Path(1, 0); got != "p2" {
		t.Fatalf("Path(1,0) = %q, want p2", got)
	}
	if got := lvl.Path(1, 2); got != "p4" {
		t.Fatalf("Path(1,2) = %q, want p4", got)
	}
}

func TestAddReplacesByName(t *testing.T) {
	set := NewSet(tilemap.NewGrid(10, 10, nil), newCache())
	first, _ := NewLevel("x", uniform("Atlas1:0,0:T", 100), 10, 10)
	second, _ := NewLevel("x", uniform("Atlas1:1,0:T", 100), 10, 10)
	set.Add(first)
	if err := set.Activate("x"); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	set.Add(second)

	if names := set.Names(); len(names) != 1 {
		t.Fatalf("expected one level, got %v", names)
	}
	got, _ := set.Get("x")
	if got != second || !second.Active() {
		t.Fatalf("replacement should take over the name and active flag")
	}
}

func TestLoad(t *testing.T) {
	good := strings.Join(uniform("Atlas1:0,0:T", 100), "\n\n") + "\n   \n"
	fsys := fstest.MapFS{
		"maps/town.txt":   {Data: []byte(good)},
		"maps/broken.txt": {Data: []byte("Atlas1:0,0:T\n")},
		"maps/notes.md":   {Data: []byte("ignored")},
	}

	lvls, err := Load(fsys, "maps", 10, 10)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(lvls) != 1 || lvls[0].Name != "town" {
		t.Fatalf("expected only town to load, got %d levels", len(lvls))
	}
	if len(lvls[0].Design()) != 100 {
		t.Fatalf("blank lines were not dropped")
	}

	if _, err := Load(fsys, "missing", 10, 10); err == nil {
		t.Fatalf("expected error for missing dir")
	}
}

func TestLoadAllEmbedded(t *testing.T) {
	lvls, err := LoadAll("", 10, 10)
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	names := map[string]bool{}
	for _, l := range lvls {
		names[l.Name] = true
	}
	for _, want := range []string{"meadow", "courtyard"} {
		if !names[want] {
			t.Fatalf("expected embedded level %s, got %v", want, names)
		}
	}

	set := NewSet(tilemap.NewGrid(10, 10, nil), newCache())
	for _, l := range lvls {
		set.Add(l)
	}
	if err := set.Activate("courtyard"); err != nil {
		t.Fatalf("Activate embedded courtyard: %v", err)
	}
}

func TestLevelName(t *testing.T) {
	cases := map[string]string{
		"town.txt":              "town",
		"maps/town.txt":         "town",
		`Assets\Maps\arena.txt`: "arena",
	}
	for in, want := range cases {
		if got := LevelName(in); got != want {
			t.Fatalf("LevelName(%q) = %q, want %q", in, got, want)
		}
	}
}
