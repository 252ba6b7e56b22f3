// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package encode compresses processed pages into JPEG artifacts and bounds
// preview images.
package encode

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	"golang.org/x/image/draw"

	"github.com/pdiddy/bidibo/pkg/types"
)

const (
	// SlideQuality is the JPEG quality for slides embedded in the output.
	SlideQuality = 98
	// PreviewQuality is the JPEG quality for preview renderings.
	PreviewQuality = 80
)

// JPEG encodes img at the given quality (1-100).
func JPEG(img image.Image, quality int) ([]byte, error) {
	if img == nil {
		return nil, fmt.Errorf("nil image")
	}
	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("empty image %dx%d", b.Dx(), b.Dy())
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Slide encodes a binarized page rendering at SlideQuality. Failures are
// reported as *types.EncodeError.
func Slide(img *image.RGBA, page int) (types.ProcessedSlide, error) {
	if img == nil {
		return types.ProcessedSlide{}, &types.EncodeError{Page: page, Err: fmt.Errorf("nil image")}
	}
	data, err := JPEG(img, SlideQuality)
	if err != nil {
		return types.ProcessedSlide{}, &types.EncodeError{Page: page, Err: err}
	}
	b := img.Bounds()
	return types.ProcessedSlide{
		SourcePage: page,
		Data:       data,
		Width:      b.Dx(),
		Height:     b.Dy(),
	}, nil
}

// Bound scales img down so it is at most maxWidth pixels wide, keeping its
// aspect ratio. Images already narrow enough, or maxWidth <= 0, are returned
// unchanged.
func Bound(img image.Image, maxWidth int) image.Image {
	b := img.Bounds()
	if maxWidth <= 0 || b.Dx() <= maxWidth {
		return img
	}

	h := b.Dy() * maxWidth / b.Dx()
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}
