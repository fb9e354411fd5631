// Package sink turns Ken Burns frames into pixels.
//
// # Source Images
//
// [LoadImage] decodes a source image and applies its EXIF orientation, so
// the bounds a plan is computed against match the pixels that get drawn.
// [ImageSize] reports those bounds without keeping the pixels around.
//
// # Frames
//
// [RenderFrame] rasterizes one [render.Frame] by applying its matrix to the
// source image with an x/image/draw interpolator:
//
//	img, _ := sink.LoadImage("beach.jpg")
//	out := sink.RenderFrame(img, frame, 1280, 720)
//	err := sink.Encode(w, out, sink.FormatPNG)
//
// # Storyboards
//
// [RenderStoryboard] draws a thumbnail of the source image with every
// transition's source (solid) and destination (dashed) outlined and
// numbered, which makes a plan easy to review before rendering hundreds of
// frames.
package sink
