package sink

import (
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"github.com/matzehuels/kenburns/pkg/errors"
	"github.com/matzehuels/kenburns/pkg/geom"
)

// LoadImage decodes the image at path with its EXIF orientation applied.
func LoadImage(path string) (image.Image, error) {
	if err := checkFile(path); err != nil {
		return nil, err
	}
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode %s", path)
	}
	return img, nil
}

// ImageSize returns the bounds LoadImage would produce for path. Only JPEGs
// carry an orientation tag, so other formats are sized from their header.
func ImageSize(path string) (geom.Rect, error) {
	if err := checkFile(path); err != nil {
		return geom.Rect{}, err
	}
	if isJPEG(path) {
		img, err := LoadImage(path)
		if err != nil {
			return geom.Rect{}, err
		}
		return Bounds(img), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return geom.Rect{}, errors.Wrap(errors.ErrCodeInvalidPath, err, "open %s", path)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return geom.Rect{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read header of %s", path)
	}
	return geom.FromSize(float64(cfg.Width), float64(cfg.Height)), nil
}

// Bounds converts an image's pixel bounds to a geom.Rect.
func Bounds(img image.Image) geom.Rect {
	b := img.Bounds()
	return geom.Rect{
		Left:   float64(b.Min.X),
		Top:    float64(b.Min.Y),
		Right:  float64(b.Max.X),
		Bottom: float64(b.Max.Y),
	}
}

func checkFile(path string) error {
	if path == "" {
		return errors.New(errors.ErrCodeInvalidPath, "image path cannot be empty")
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return errors.New(errors.ErrCodeFileNotFound, "image not found: %s", path)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "stat %s", path)
	}
	if info.IsDir() {
		return errors.New(errors.ErrCodeInvalidPath, "%s is a directory", path)
	}
	return nil
}

func isJPEG(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return true
	}
	return false
}
