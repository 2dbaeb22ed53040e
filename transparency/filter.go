package transparency

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// Filter returns a copy of pixels in which every pixel matching pred has its
// alpha cleared. With replaceColor the matched pixel becomes transparent
// white; otherwise its RGB is kept. Non-matching pixels are copied unchanged.
//
// This is a pure function: pixels is not modified.
func Filter(pixels []Pixel, pred Predicate, replaceColor bool) []Pixel {
	out := make([]Pixel, len(pixels))
	for i, p := range pixels {
		out[i] = clearPixel(p, pred, replaceColor)
	}
	return out
}

func clearPixel(p Pixel, pred Predicate, replaceColor bool) Pixel {
	if !pred(p.R, p.G, p.B) {
		return p
	}
	if replaceColor {
		return clearWhite
	}
	p.A = 0
	return p
}

// Stats describes what Apply did to an image.
type Stats struct {
	Total    int
	Cleared  int
	ByPolicy map[string]int
}

// Apply clears background pixels of img in place and returns counts.
// Stats.ByPolicy is left nil; use ApplyChain for per-policy counts.
func Apply(img *image.NRGBA, pred Predicate, replaceColor bool) Stats {
	return apply(img, pred, nil, replaceColor)
}

// ApplyChain is Apply with per-policy statistics.
func ApplyChain(img *image.NRGBA, chain Chain, replaceColor bool) Stats {
	return apply(img, chain.Predicate(), chain, replaceColor)
}

func apply(img *image.NRGBA, pred Predicate, chain Chain, replaceColor bool) Stats {
	b := img.Bounds()
	stats := Stats{Total: b.Dx() * b.Dy()}
	if chain != nil {
		stats.ByPolicy = make(map[string]int, len(chain))
	}

	for y := b.Min.Y; y < b.Max.Y; y++ {
		off := img.PixOffset(b.Min.X, y)
		row := img.Pix[off : off+b.Dx()*4]
		for i := 0; i < len(row); i += 4 {
			r, g, bl := row[i], row[i+1], row[i+2]

			var matched bool
			if chain != nil {
				var name string
				if name, matched = chain.Classify(r, g, bl); matched {
					stats.ByPolicy[name]++
				}
			} else {
				matched = pred(r, g, bl)
			}
			if !matched {
				continue
			}

			stats.Cleared++
			if replaceColor {
				row[i], row[i+1], row[i+2] = clearWhite.R, clearWhite.G, clearWhite.B
			}
			row[i+3] = 0
		}
	}
	return stats
}

// Normalize converts img to a non-premultiplied 4-channel image with its
// origin at (0,0). Images without alpha come out fully opaque.
//
// NRGBA, NRGBA64 and paletted sources are converted without going through
// premultiplied alpha, so transparent pixels keep their colour.
func Normalize(img image.Image) *image.NRGBA {
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))

	switch src := img.(type) {
	case *image.NRGBA:
		rowLen := b.Dx() * 4
		for y := 0; y < b.Dy(); y++ {
			so := src.PixOffset(b.Min.X, b.Min.Y+y)
			copy(dst.Pix[y*dst.Stride:y*dst.Stride+rowLen], src.Pix[so:so+rowLen])
		}
	case *image.NRGBA64:
		for y := 0; y < b.Dy(); y++ {
			so := src.PixOffset(b.Min.X, b.Min.Y+y)
			row := dst.Pix[y*dst.Stride : y*dst.Stride+b.Dx()*4]
			// Big-endian samples: keep the high byte of each channel.
			for i := range row {
				row[i] = src.Pix[so+i*2]
			}
		}
	case *image.Paletted:
		palette := nrgbaPalette(src.Palette)
		for y := 0; y < b.Dy(); y++ {
			so := src.PixOffset(b.Min.X, b.Min.Y+y)
			row := dst.Pix[y*dst.Stride : y*dst.Stride+b.Dx()*4]
			for x := 0; x < b.Dx(); x++ {
				var c color.NRGBA
				if idx := int(src.Pix[so+x]); idx < len(palette) {
					c = palette[idx]
				}
				row[x*4], row[x*4+1], row[x*4+2], row[x*4+3] = c.R, c.G, c.B, c.A
			}
		}
	default:
		draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	}
	return dst
}

func nrgbaPalette(p color.Palette) []color.NRGBA {
	out := make([]color.NRGBA, len(p))
	for i, c := range p {
		if n, ok := c.(color.NRGBA); ok {
			out[i] = n
			continue
		}
		out[i] = color.NRGBAModel.Convert(c).(color.NRGBA)
	}
	return out
}
