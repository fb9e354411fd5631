package sink

import (
	"image"
	"image/color"
	"io"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/matzehuels/kenburns/pkg/errors"
	"github.com/matzehuels/kenburns/pkg/geom"
	"github.com/matzehuels/kenburns/pkg/render"
)

// Format is an encoded frame format.
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
)

// Ext returns the file extension for f, including the dot.
func (f Format) Ext() string {
	if f == FormatJPEG {
		return ".jpg"
	}
	return ".png"
}

// ParseFormat resolves a format name.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "png":
		return FormatPNG, nil
	case "jpg", "jpeg":
		return FormatJPEG, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported frame format %q (want png or jpeg)", s)
}

// FrameOption configures frame rasterization.
type FrameOption func(*frameRenderer)

type frameRenderer struct {
	interp     draw.Interpolator
	background color.Color
}

// WithInterpolator sets the resampling kernel (default draw.CatmullRom).
// draw.ApproxBiLinear is several times faster for previews.
func WithInterpolator(i draw.Interpolator) FrameOption {
	return func(r *frameRenderer) {
		if i != nil {
			r.interp = i
		}
	}
}

// WithBackground sets the letterbox color (default black).
func WithBackground(c color.Color) FrameOption {
	return func(r *frameRenderer) { r.background = c }
}

// RenderFrame draws src into a width x height canvas using the frame's matrix.
// The frame must have been computed for a viewport anchored at the origin.
func RenderFrame(src image.Image, f render.Frame, width, height int, opts ...FrameOption) *image.RGBA {
	r := frameRenderer{interp: draw.CatmullRom, background: color.Black}
	for _, opt := range opts {
		opt(&r)
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(r.background), image.Point{}, draw.Src)
	r.interp.Transform(dst, toAff3(f.Matrix), src, src.Bounds(), draw.Over, nil)
	return dst
}

// toAff3 reorders a column-major geom.Matrix into x/image's row-major layout.
func toAff3(m geom.Matrix) f64.Aff3 {
	return f64.Aff3{
		m[0], m[2], m[4],
		m[1], m[3], m[5],
	}
}

// Encode writes img in the given format.
func Encode(w io.Writer, img image.Image, format Format) error {
	var err error
	switch format {
	case FormatPNG, "":
		err = imaging.Encode(w, img, imaging.PNG)
	case FormatJPEG:
		err = imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(92))
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported frame format %q", string(format))
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode %s", string(format))
	}
	return nil
}
