// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ProcessedSlide is one binarized source page, encoded for embedding.
// Slides are immutable once created and ordered by SourcePage.
type ProcessedSlide struct {
	// SourcePage is the 1-based page number in the source document.
	SourcePage int `json:"source_page" yaml:"source_page"`

	// Data holds the JPEG-encoded image.
	Data []byte `json:"-" yaml:"-"`

	// Width and Height are the pixel dimensions of the encoded image.
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// Progress is a single progress update emitted during a run.
type Progress struct {
	// Percent is in the range 0-100.
	Percent float64 `json:"percent" yaml:"percent"`

	// Message describes the current step.
	Message string `json:"message" yaml:"message"`
}

// ProgressFunc receives progress updates. Updates arrive in order with
// non-decreasing Percent; only the latest value is meaningful.
type ProgressFunc func(Progress)

// Result is the outcome of a successful processing run.
type Result struct {
	// Document is the serialized output PDF.
	Document []byte

	// Previews holds up to three JPEG renderings of the first output pages.
	Previews [][]byte

	// Filename is the suggested name for Document.
	Filename string

	// Pages is the number of pages in Document.
	Pages int

	// Retained lists the source pages that were processed, in order.
	Retained []int

	// Skipped lists slides that could not be embedded in the output.
	Skipped []EmbedError
}

// RunReport summarizes a finished run for the CLI's --report output.
type RunReport struct {
	Source        string        `json:"source" yaml:"source"`
	Output        string        `json:"output" yaml:"output"`
	SlidesPerPage int           `json:"slides_per_page" yaml:"slides_per_page"`
	OutputPages   int           `json:"output_pages" yaml:"output_pages"`
	Retained      []int         `json:"retained" yaml:"retained"`
	Skipped       []SkippedPage `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Previews      []string      `json:"previews,omitempty" yaml:"previews,omitempty"`
	Duration      time.Duration `json:"duration" yaml:"duration"`
	FinishedAt    time.Time     `json:"finished_at" yaml:"finished_at"`
}

// SkippedPage records a source page left out of the output and why.
type SkippedPage struct {
	Page   int    `json:"page" yaml:"page"`
	Reason string `json:"reason" yaml:"reason"`
}
