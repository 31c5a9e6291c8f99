package render

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

var images = map[string]*ebiten.Image{}

// RegisterImage stores an image by key.
func RegisterImage(key string, img *ebiten.Image) {
	if key == "" || img == nil {
		return
	}
	images[key] = img
}

// GetImage returns a cached image by key.
func GetImage(key string) *ebiten.Image {
	if key == "" {
		return nil
	}
	return images[key]
}

// ImageFor returns src as an ebiten image, converting and caching it under key
// the first time.
func ImageFor(key string, src image.Image) *ebiten.Image {
	if src == nil {
		return nil
	}
	if img, ok := src.(*ebiten.Image); ok {
		return img
	}
	if img := GetImage(key); img != nil {
		return img
	}
	img := ebiten.NewImageFromImage(src)
	RegisterImage(key, img)
	return img
}
