// Package export encodes rendered textures to image files and applies
// optional post-synthesis steps (integer upscaling, Gaussian softening).
package export

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"

	"github.com/disintegration/gift"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
)

// Format selects the output encoding.
type Format string

const (
	PNG  Format = "png"
	BMP  Format = "bmp"
	TIFF Format = "tiff"
)

// ParseFormat normalizes a user-supplied format name. An empty string
// selects PNG.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "", "png":
		return PNG, nil
	case "bmp":
		return BMP, nil
	case "tif", "tiff":
		return TIFF, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want png, bmp or tiff)", s)
	}
}

// ParsePNGCompression maps a compression name to the encoder level.
// An empty string selects the default level.
func ParsePNGCompression(s string) (png.CompressionLevel, error) {
	switch s {
	case "", "default":
		return png.DefaultCompression, nil
	case "none":
		return png.NoCompression, nil
	case "speed":
		return png.BestSpeed, nil
	case "best":
		return png.BestCompression, nil
	default:
		return png.DefaultCompression,
			fmt.Errorf("unknown PNG compression %q (want default, none, speed or best)", s)
	}
}

// Options configure encoding and post-processing. The zero value writes
// an unprocessed PNG at the default compression level.
type Options struct {
	Format         Format
	PNGCompression png.CompressionLevel

	// Upscale multiplies both output dimensions; values below 2 leave
	// the image untouched.
	Upscale int

	// SmoothUpscale selects Catmull-Rom resampling instead of
	// nearest-neighbor when upscaling.
	SmoothUpscale bool

	// Soften is the Gaussian blur sigma applied after upscaling;
	// zero disables it.
	Soften float64
}

// Validate checks the post-processing knobs.
func (o Options) Validate() error {
	if o.Upscale < 0 {
		return fmt.Errorf("upscale factor must not be negative, got %d", o.Upscale)
	}
	if o.Soften < 0 {
		return fmt.Errorf("soften sigma must not be negative, got %g", o.Soften)
	}
	return nil
}

// Process applies the post-synthesis steps in order: integer upscale,
// then Gaussian soften. The input is never modified.
func Process(img *image.NRGBA, o Options) *image.NRGBA {
	out := img
	if o.Upscale > 1 {
		out = Upscale(out, o.Upscale, o.SmoothUpscale)
	}
	if o.Soften > 0 {
		out = Soften(out, float32(o.Soften))
	}
	return out
}

// Upscale resizes src by an integer factor. Nearest-neighbor keeps the
// per-pixel noise values exact; smooth selects Catmull-Rom resampling.
func Upscale(src image.Image, factor int, smooth bool) *image.NRGBA {
	if factor < 1 {
		factor = 1
	}

	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))

	var scaler draw.Scaler = draw.NearestNeighbor
	if smooth {
		scaler = draw.CatmullRom
	}
	scaler.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)

	return dst
}

// Soften applies a Gaussian blur to soften hard value transitions.
// The sigma parameter controls the blur radius (larger = more blur).
func Soften(src image.Image, sigma float32) *image.NRGBA {
	g := gift.New(gift.GaussianBlur(sigma))

	dst := image.NewNRGBA(g.Bounds(src.Bounds()))
	g.Draw(dst, src)

	return dst
}

// Encode writes img to w in the configured format.
func Encode(w io.Writer, img image.Image, o Options) error {
	switch o.Format {
	case BMP:
		return bmp.Encode(w, img)
	case TIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		enc := png.Encoder{CompressionLevel: o.PNGCompression}
		return enc.Encode(w, img)
	}
}

// Write encodes img into a freshly created file at path.
func Write(path string, img image.Image, o Options) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	if err := Encode(file, img, o); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return nil
}
