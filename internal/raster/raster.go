// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package raster decodes PDF documents and renders single pages to pixel
// buffers. The Engine and Document interfaces let the pipeline run against
// MuPDF in production and against fakes in tests.
package raster

import (
	"fmt"
	"image"

	"github.com/pdiddy/bidibo/pkg/types"
)

const (
	// DefaultScale is the render scale for slides: 1.5x the page's native
	// point size, i.e. 108 DPI.
	DefaultScale = 1.5
	// PreviewScale is the render scale for preview pages (72 DPI).
	PreviewScale = 1.0

	pointsPerInch = 72.0
)

// Engine decodes PDF bytes into page-addressable documents. An Engine is
// created once by the caller and shared across runs.
type Engine interface {
	// Open decodes data. The caller must Close the returned Document.
	Open(data []byte) (Document, error)
}

// Document is a decoded PDF. Page numbers are 1-based.
type Document interface {
	// NumPages returns the number of pages in the document.
	NumPages() int

	// Render rasterizes page at scale times its native point size.
	Render(page int, scale float64) (*image.RGBA, error)

	// Close releases the decoded document.
	Close() error
}

// Open decodes data with engine, reporting failures as *types.DecodeError.
func Open(engine Engine, data []byte) (Document, error) {
	if len(data) == 0 {
		return nil, &types.DecodeError{Err: fmt.Errorf("PDF document is empty")}
	}
	doc, err := engine.Open(data)
	if err != nil {
		return nil, &types.DecodeError{Err: err}
	}
	return doc, nil
}

// Rasterize renders one page of doc at scale. Out-of-range pages and render
// failures are reported as *types.RenderError.
func Rasterize(doc Document, page int, scale float64) (*image.RGBA, error) {
	if page < 1 || page > doc.NumPages() {
		return nil, &types.RenderError{Page: page, Err: fmt.Errorf("page out of range 1-%d", doc.NumPages())}
	}
	if scale <= 0 {
		return nil, &types.RenderError{Page: page, Err: fmt.Errorf("invalid render scale %v", scale)}
	}

	img, err := doc.Render(page, scale)
	if err != nil {
		return nil, &types.RenderError{Page: page, Err: err}
	}
	if img == nil || img.Bounds().Empty() {
		return nil, &types.RenderError{Page: page, Err: fmt.Errorf("empty rendering")}
	}
	return img, nil
}

// DPI converts a render scale to dots per inch.
func DPI(scale float64) float64 {
	return scale * pointsPerInch
}
