// Package assets provides sprite atlases from the embedded atli directory or
// from disk.
package assets

import (
	"bytes"
	"embed"
	"fmt"
	"image"
	_ "image/png"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/tileengine/atlas"
)

//go:embed atli/*.png
var atliFS embed.FS

// AtlasExt is the file extension of atlas images.
const AtlasExt = ".png"

// Provider loads atlases by name, preferring <Dir>/<name>.png on disk over the
// embedded copy. It implements atlas.Provider.
type Provider struct {
	Dir string
	// Convert turns a decoded image into an atlas image. It defaults to
	// ebiten.NewImageFromImage.
	Convert func(image.Image) atlas.Image
}

// NewProvider returns a Provider reading disk atlases from dir. An empty dir
// only serves the embedded atlases.
func NewProvider(dir string) *Provider {
	return &Provider{
		Dir: dir,
		Convert: func(img image.Image) atlas.Image {
			return ebiten.NewImageFromImage(img)
		},
	}
}

// Atlas loads and converts the atlas called name.
func (p *Provider) Atlas(name string) (atlas.Image, error) {
	img, err := p.Decode(name)
	if err != nil {
		return nil, err
	}
	if p.Convert == nil {
		if a, ok := img.(atlas.Image); ok {
			return a, nil
		}
		return nil, fmt.Errorf("assets: atlas %s: unsupported image type %T", name, img)
	}
	return p.Convert(img), nil
}

// Decode reads and decodes the atlas image called name.
func (p *Provider) Decode(name string) (image.Image, error) {
	file := cleanAtlasName(name) + AtlasExt
	b, err := p.read(file)
	if err != nil {
		return nil, fmt.Errorf("assets: atlas %s: %w", name, atlas.ErrAtlasNotFound)
	}
	img, _, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("assets: decode atlas %s: %w", name, err)
	}
	return img, nil
}

func (p *Provider) read(file string) ([]byte, error) {
	if p.Dir != "" {
		if b, err := os.ReadFile(filepath.Join(p.Dir, file)); err == nil {
			return b, nil
		}
	}
	return atliFS.ReadFile(path.Join("atli", file))
}

// Names lists every atlas available from disk or the embedded set, sorted.
func (p *Provider) Names() ([]string, error) {
	seen := map[string]bool{}
	collect := func(entries []fs.DirEntry) {
		for _, e := range entries {
			if e.IsDir() || !strings.EqualFold(path.Ext(e.Name()), AtlasExt) {
				continue
			}
			seen[strings.TrimSuffix(e.Name(), path.Ext(e.Name()))] = true
		}
	}

	embedded, err := atliFS.ReadDir("atli")
	if err != nil {
		return nil, fmt.Errorf("assets: read embedded atli: %w", err)
	}
	collect(embedded)

	if p.Dir != "" {
		disk, err := os.ReadDir(p.Dir)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("assets: read %s: %w", p.Dir, err)
		}
		collect(disk)
	}

	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}

func cleanAtlasName(name string) string {
	s := filepath.ToSlash(name)
	s = path.Base(s)
	return strings.TrimSuffix(s, path.Ext(s))
}
