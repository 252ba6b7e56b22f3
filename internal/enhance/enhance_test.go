// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package enhance

import (
	"image"
	"image/color"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// randomImage returns a w x h image filled with pseudo-random pixels.
func randomImage(t *testing.T, w, h int, seed int64) *image.RGBA {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	_, err := rng.Read(img.Pix)
	require.NoError(t, err)
	return img
}

func cloneRGBA(img *image.RGBA) *image.RGBA {
	out := image.NewRGBA(img.Bounds())
	copy(out.Pix, img.Pix)
	return out
}

func TestLevel(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b uint8
		want    uint8
	}{
		{name: "black background becomes white", r: 0, g: 0, b: 0, want: 255},
		{name: "white text becomes black", r: 255, g: 255, b: 255, want: 0},
		{name: "mid gray becomes black", r: 128, g: 128, b: 128, want: 0},
		{name: "gray just below cutoff stays white", r: 123, g: 123, b: 123, want: 255},
		{name: "gray just above cutoff turns black", r: 124, g: 124, b: 124, want: 0},
		{name: "saturated blue is dark", r: 0, g: 0, b: 255, want: 255},
		{name: "saturated yellow is light", r: 255, g: 255, b: 0, want: 0},
		{name: "navy slide background", r: 20, g: 30, b: 70, want: 255},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Level(tt.r, tt.g, tt.b))
		})
	}
}

func TestLevel_MatchesReferenceFormula(t *testing.T) {
	ref := func(r, g, b uint8) uint8 {
		gray := float64(0.299*float64(r)) + float64(0.587*float64(g)) + float64(0.114*float64(b))
		e := float64((gray-128)*2.8) + 128
		e = max(0, min(255, e))
		e = 255 - e
		if e < 140 {
			return 0
		}
		return 255
	}

	for v := 0; v < 256; v++ {
		c := uint8(v)
		require.Equal(t, ref(c, c, c), Level(c, c, c), "gray %d", v)
		require.Equal(t, ref(c, 255-c, c/2), Level(c, 255-c, c/2), "mix %d", v)
	}
}

func TestBinarize_Totality(t *testing.T) {
	img := randomImage(t, 64, 48, 1)
	alpha := make([]uint8, 0, 64*48)
	for i := 3; i < len(img.Pix); i += 4 {
		alpha = append(alpha, img.Pix[i])
	}

	Binarize(img)

	for i := 0; i < len(img.Pix); i += 4 {
		r, g, b := img.Pix[i], img.Pix[i+1], img.Pix[i+2]
		require.True(t, r == 0 || r == 255, "pixel %d has intermediate value %d", i/4, r)
		require.Equal(t, r, g)
		require.Equal(t, r, b)
		require.Equal(t, alpha[i/4], img.Pix[i+3], "alpha changed at pixel %d", i/4)
	}

	black, white := classify(img)
	assert.Equal(t, 64*48, black+white)
}

func TestBinarize_ClassificationStable(t *testing.T) {
	img := randomImage(t, 40, 30, 2)

	Binarize(img)
	first := cloneRGBA(img)

	// A second pass inverts a binary image; the partition into two classes
	// is kept and every later pair of passes is a fixed point.
	Binarize(img)
	for i := 0; i < len(img.Pix); i += 4 {
		require.Equal(t, 255-first.Pix[i], img.Pix[i], "pixel %d", i/4)
	}
	second := cloneRGBA(img)

	Binarize(img)
	Binarize(img)
	assert.Equal(t, second.Pix, img.Pix)
}

func TestBinarizeRows_OrderIndependent(t *testing.T) {
	src := randomImage(t, 37, 53, 3)

	whole := cloneRGBA(src)
	Binarize(whole)

	banded := cloneRGBA(src)
	const band = 7
	var starts []int
	for y := 0; y < 53; y += band {
		starts = append(starts, y)
	}
	rand.New(rand.NewSource(4)).Shuffle(len(starts), func(i, j int) {
		starts[i], starts[j] = starts[j], starts[i]
	})

	var wg sync.WaitGroup
	for _, y := range starts {
		wg.Add(1)
		go func(y0 int) {
			defer wg.Done()
			BinarizeRows(banded, y0, y0+band)
		}(y)
	}
	wg.Wait()

	assert.Equal(t, whole.Pix, banded.Pix)
}

func TestBinarize_SubImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.RGBA{A: 255})
		}
	}

	sub := img.SubImage(image.Rect(1, 1, 3, 3)).(*image.RGBA)
	Binarize(sub)

	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, img.RGBAAt(1, 1))
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, img.RGBAAt(2, 2))
	assert.Equal(t, color.RGBA{A: 255}, img.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{A: 255}, img.RGBAAt(3, 3))
}

// classify counts black and white pixels by their red channel after
// Binarize. Pixels that are neither are counted in neither.
func classify(img *image.RGBA) (black, white int) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y):img.PixOffset(b.Max.X, y)]
		for i := 0; i+3 < len(row); i += 4 {
			switch row[i] {
			case 0:
				black++
			case 255:
				white++
			}
		}
	}
	return black, white
}
