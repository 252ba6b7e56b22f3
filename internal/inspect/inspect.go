// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package inspect reports the page structure of a PDF so a caller can pick
// pages to exclude before processing.
package inspect

import (
	"bytes"
	"fmt"
	"io"

	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/pdiddy/bidibo/pkg/types"
)

// Page is the size of one page in PDF points.
type Page struct {
	Number int     `yaml:"number"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Landscape reports whether the page is wider than it is tall, as slides
// usually are.
func (p Page) Landscape() bool {
	return p.Width > p.Height
}

// Report describes a document.
type Report struct {
	Pages []Page `yaml:"pages"`
}

// Inspect reads the page dimensions of data.
func Inspect(data []byte) (*Report, error) {
	if len(data) == 0 {
		return nil, &types.DecodeError{Err: fmt.Errorf("PDF document is empty")}
	}
	dims, err := pdfapi.PageDims(bytes.NewReader(data), nil)
	if err != nil {
		return nil, &types.DecodeError{Err: err}
	}

	r := &Report{Pages: make([]Page, 0, len(dims))}
	for i, d := range dims {
		r.Pages = append(r.Pages, Page{Number: i + 1, Width: d.Width, Height: d.Height})
	}
	return r, nil
}

// Print writes a human-readable summary of r to w.
func (r *Report) Print(w io.Writer, name string) {
	fmt.Fprintf(w, "%s: %d page(s)\n", name, len(r.Pages))
	for _, p := range r.Pages {
		orient := "portrait"
		if p.Landscape() {
			orient = "landscape"
		}
		fmt.Fprintf(w, "  %3d  %7.2f x %7.2f pt  %s\n", p.Number, p.Width, p.Height, orient)
	}
}
