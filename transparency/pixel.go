// Package transparency classifies background pixels and clears their alpha.
//
// Pixels are handled in non-premultiplied form so a fully transparent pixel
// can still carry its original colour.
package transparency

import "image"

// Pixel is a single non-premultiplied RGBA sample.
// A == 0 is fully transparent, A == 255 fully opaque.
type Pixel struct {
	R, G, B, A uint8
}

// Transparent white is what a matched pixel becomes when colour replacement is on.
var clearWhite = Pixel{R: 255, G: 255, B: 255, A: 0}

// Pixels returns the image's pixels as a flat row-major sequence.
func Pixels(img *image.NRGBA) []Pixel {
	b := img.Bounds()
	out := make([]Pixel, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		off := img.PixOffset(b.Min.X, y)
		row := img.Pix[off : off+b.Dx()*4]
		for i := 0; i < len(row); i += 4 {
			out = append(out, Pixel{R: row[i], G: row[i+1], B: row[i+2], A: row[i+3]})
		}
	}
	return out
}

// FromPixels builds a width x height image from a row-major pixel sequence.
// It returns ErrPixelCount if len(pixels) != width*height.
func FromPixels(width, height int, pixels []Pixel) (*image.NRGBA, error) {
	if width < 0 || height < 0 || len(pixels) != width*height {
		return nil, ErrPixelCount
	}
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for i, p := range pixels {
		img.Pix[i*4] = p.R
		img.Pix[i*4+1] = p.G
		img.Pix[i*4+2] = p.B
		img.Pix[i*4+3] = p.A
	}
	return img, nil
}
