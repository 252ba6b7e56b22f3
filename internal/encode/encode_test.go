// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package encode

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/bidibo/pkg/types"
)

// stripes returns a binarized test card: black and white horizontal bands.
func stripes(w, h, band int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		v := uint8(255)
		if (y/band)%2 == 1 {
			v = 0
		}
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return img
}

func TestSlide(t *testing.T) {
	img := stripes(120, 90, 15)

	slide, err := Slide(img, 4)
	require.NoError(t, err)

	assert.Equal(t, 4, slide.SourcePage)
	assert.Equal(t, 120, slide.Width)
	assert.Equal(t, 90, slide.Height)

	cfg, format, err := image.DecodeConfig(bytes.NewReader(slide.Data))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 120, cfg.Width)
	assert.Equal(t, 90, cfg.Height)
}

func TestSlide_VisuallyLossless(t *testing.T) {
	img := stripes(64, 64, 16)

	slide, err := Slide(img, 1)
	require.NoError(t, err)

	decoded, err := jpeg.Decode(bytes.NewReader(slide.Data))
	require.NoError(t, err)

	// Sample band centres, away from the edges where JPEG ringing lives.
	for _, y := range []int{8, 24, 40, 56} {
		want := 255
		if (y/16)%2 == 1 {
			want = 0
		}
		r, _, _, _ := decoded.At(32, y).RGBA()
		assert.InDelta(t, want, int(r>>8), 8, "row %d", y)
	}
}

func TestSlide_Deterministic(t *testing.T) {
	img := stripes(50, 40, 5)

	a, err := Slide(img, 1)
	require.NoError(t, err)
	b, err := Slide(img, 1)
	require.NoError(t, err)

	assert.Equal(t, a.Data, b.Data)
}

func TestSlide_EmptyImage(t *testing.T) {
	_, err := Slide(image.NewRGBA(image.Rect(0, 0, 0, 0)), 7)
	require.Error(t, err)

	var encErr *types.EncodeError
	require.True(t, errors.As(err, &encErr))
	assert.Equal(t, 7, encErr.Page)
}

func TestJPEG_QualityAffectsSize(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 80, 80))
	for y := 0; y < 80; y++ {
		for x := 0; x < 80; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x * 3), G: uint8(y * 3), B: uint8(x + y), A: 255})
		}
	}

	hi, err := JPEG(img, SlideQuality)
	require.NoError(t, err)
	lo, err := JPEG(img, PreviewQuality)
	require.NoError(t, err)

	assert.Greater(t, len(hi), len(lo))
}

func TestBound(t *testing.T) {
	tests := []struct {
		name     string
		w, h     int
		maxWidth int
		wantW    int
		wantH    int
	}{
		{name: "no bound", w: 595, h: 842, maxWidth: 0, wantW: 595, wantH: 842},
		{name: "already narrow", w: 200, h: 300, maxWidth: 400, wantW: 200, wantH: 300},
		{name: "halved", w: 600, h: 800, maxWidth: 300, wantW: 300, wantH: 400},
		{name: "a4 preview", w: 595, h: 842, maxWidth: 240, wantW: 240, wantH: 339},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Bound(image.NewRGBA(image.Rect(0, 0, tt.w, tt.h)), tt.maxWidth)
			assert.Equal(t, tt.wantW, out.Bounds().Dx())
			assert.Equal(t, tt.wantH, out.Bounds().Dy())
		})
	}
}
