// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package enhance converts rasterized slides to pure black and white.
// Dark slide backgrounds become white and light text becomes black, so the
// result prints economically. The transform is per pixel with no
// cross-pixel dependency.
package enhance

import "image"

const (
	contrastFactor = 2.8
	midGray        = 128
	threshold      = 140
)

// Level returns the binarized channel value (0 or 255) for one RGB pixel.
func Level(r, g, b uint8) uint8 {
	// Explicit conversions keep the compiler from fusing multiply-adds, so
	// results match plain IEEE double arithmetic on every architecture.
	gray := float64(0.299*float64(r)) + float64(0.587*float64(g)) + float64(0.114*float64(b))

	enhanced := float64((gray-midGray)*contrastFactor) + midGray
	if enhanced < 0 {
		enhanced = 0
	} else if enhanced > 255 {
		enhanced = 255
	}

	enhanced = 255 - enhanced

	if enhanced < threshold {
		return 0
	}
	return 255
}

// Binarize applies Level to every pixel of img in place. Alpha is untouched.
func Binarize(img *image.RGBA) {
	b := img.Bounds()
	BinarizeRows(img, b.Min.Y, b.Max.Y)
}

// BinarizeRows applies Level to the rows [y0, y1) of img in place. Disjoint
// row bands may be processed concurrently.
func BinarizeRows(img *image.RGBA, y0, y1 int) {
	b := img.Bounds()
	if y0 < b.Min.Y {
		y0 = b.Min.Y
	}
	if y1 > b.Max.Y {
		y1 = b.Max.Y
	}
	for y := y0; y < y1; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y):img.PixOffset(b.Max.X, y)]
		for i := 0; i+3 < len(row); i += 4 {
			v := Level(row[i], row[i+1], row[i+2])
			row[i] = v
			row[i+1] = v
			row[i+2] = v
		}
	}
}
