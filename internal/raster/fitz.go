// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package raster

import (
	"fmt"
	"image"
	"sync"

	"github.com/gen2brain/go-fitz"
)

// FitzEngine renders PDFs with MuPDF through go-fitz.
type FitzEngine struct{}

// NewFitzEngine returns the MuPDF-backed engine.
func NewFitzEngine() *FitzEngine {
	return &FitzEngine{}
}

// Open decodes data with MuPDF.
func (e *FitzEngine) Open(data []byte) (Document, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("unable to open PDF document: %w", err)
	}
	return &fitzDocument{doc: doc}, nil
}

// fitzDocument serializes access to one MuPDF document; MuPDF contexts are
// not safe for concurrent use.
type fitzDocument struct {
	mu  sync.Mutex
	doc *fitz.Document
}

func (d *fitzDocument) NumPages() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.doc.NumPage()
}

func (d *fitzDocument) Render(page int, scale float64) (*image.RGBA, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	img, err := d.doc.ImageDPI(page-1, DPI(scale))
	if err != nil {
		return nil, fmt.Errorf("unable to render page %d: %w", page, err)
	}
	return img, nil
}

func (d *fitzDocument) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.doc.Close()
}
