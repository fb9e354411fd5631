package sink

import (
	"image"
	"image/color"
	"strconv"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/matzehuels/kenburns/pkg/errors"
	"github.com/matzehuels/kenburns/pkg/geom"
)

// DefaultStoryboardWidth is the storyboard width in pixels.
const DefaultStoryboardWidth = 960

// Move is one transition drawn on a storyboard.
type Move struct {
	Src geom.Rect
	Dst geom.Rect
}

// StoryboardOption configures storyboard rendering.
type StoryboardOption func(*storyboardRenderer)

type storyboardRenderer struct {
	width     int
	lineWidth float64
	palette   []color.Color
}

// WithStoryboardWidth sets the output width; height follows the image ratio.
func WithStoryboardWidth(w int) StoryboardOption {
	return func(r *storyboardRenderer) { r.width = w }
}

// WithLineWidth sets the outline stroke width.
func WithLineWidth(w float64) StoryboardOption {
	return func(r *storyboardRenderer) { r.lineWidth = w }
}

var defaultPalette = []color.Color{
	color.RGBA{0xe6, 0x39, 0x46, 0xff},
	color.RGBA{0x2a, 0x9d, 0x8f, 0xff},
	color.RGBA{0xe9, 0xc4, 0x6a, 0xff},
	color.RGBA{0x45, 0x7b, 0x9d, 0xff},
	color.RGBA{0xf4, 0xa2, 0x61, 0xff},
}

// RenderStoryboard outlines every move on a thumbnail of src.
func RenderStoryboard(src image.Image, moves []Move, opts ...StoryboardOption) (image.Image, error) {
	r := storyboardRenderer{width: DefaultStoryboardWidth, lineWidth: 2, palette: defaultPalette}
	for _, opt := range opts {
		opt(&r)
	}
	if r.width <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "storyboard width must be positive (got %d)", r.width)
	}

	bounds := Bounds(src)
	thumb := imaging.Resize(src, r.width, 0, imaging.Lanczos)
	scale := float64(thumb.Bounds().Dx()) / bounds.Width()
	dc := gg.NewContextForImage(thumb)

	toThumb := geom.Translate(-bounds.Left, -bounds.Top).Then(geom.Scale(scale, scale))

	for i, m := range moves {
		c := r.palette[i%len(r.palette)]
		s := toThumb.ApplyRect(m.Src)
		d := toThumb.ApplyRect(m.Dst)

		dc.SetColor(c)
		dc.SetLineWidth(r.lineWidth)

		dc.SetDash()
		dc.DrawRectangle(s.Left, s.Top, s.Width(), s.Height())
		dc.Stroke()

		dc.SetDash(6, 4)
		dc.DrawRectangle(d.Left, d.Top, d.Width(), d.Height())
		dc.Stroke()

		dc.SetDash()
		dc.DrawLine(s.CenterX(), s.CenterY(), d.CenterX(), d.CenterY())
		dc.Stroke()
		dc.DrawCircle(d.CenterX(), d.CenterY(), r.lineWidth*2)
		dc.Fill()

		label := strconv.Itoa(i + 1)
		dc.SetColor(color.Black)
		dc.DrawStringAnchored(label, s.Left+7, s.Top+9, 0.5, 0.5)
		dc.SetColor(c)
		dc.DrawStringAnchored(label, s.Left+6, s.Top+8, 0.5, 0.5)
	}
	return dc.Image(), nil
}
