package textrecovery

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// ProcessedSuffix is appended to a source image path to name the derived,
// preprocessing output. Derived files are scoped to one pipeline run and
// removed on every exit path.
const ProcessedSuffix = ".processed.png"

const binarizeCutoff = 128

// PreprocessImage runs the fixed transform chain (grayscale, contrast
// stretch, sharpen, binary threshold) and writes the result next to the
// source file. Returns the derived file's path.
func PreprocessImage(path string) (string, error) {
	src, err := imaging.Open(path)
	if err != nil {
		return "", fmt.Errorf("open image: %w", err)
	}

	img := imaging.Grayscale(src)
	img = stretchContrast(img)
	img = imaging.Sharpen(img, 1.0)
	bw := binarize(img, binarizeCutoff)

	out := path + ProcessedSuffix
	if err := imaging.Save(bw, out); err != nil {
		return "", fmt.Errorf("save processed image: %w", err)
	}
	return out, nil
}

// stretchContrast linearly rescales luminance so the darkest pixel maps to 0
// and the brightest to 255. The input must already be grayscale (R=G=B),
// which lets the red channel stand in for luminance.
func stretchContrast(img *image.NRGBA) *image.NRGBA {
	lo, hi := uint8(255), uint8(0)
	for i := 0; i < len(img.Pix); i += 4 {
		v := img.Pix[i]
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if hi <= lo {
		return img
	}

	span := int(hi) - int(lo)
	out := imaging.Clone(img)
	for i := 0; i < len(out.Pix); i += 4 {
		v := uint8((int(out.Pix[i]) - int(lo)) * 255 / span)
		out.Pix[i] = v
		out.Pix[i+1] = v
		out.Pix[i+2] = v
	}
	return out
}

// binarize maps every pixel to pure black or white around the cutoff.
func binarize(img *image.NRGBA, cutoff uint8) *image.Gray {
	bounds := img.Bounds()
	out := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			v := img.NRGBAAt(x, y).R
			if v >= cutoff {
				out.SetGray(x, y, color.Gray{Y: 255})
			} else {
				out.SetGray(x, y, color.Gray{Y: 0})
			}
		}
	}
	return out
}
