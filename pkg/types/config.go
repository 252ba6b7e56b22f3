// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// FetchConfig holds settings for loading a source document from a URL.
type FetchConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with download requests
	// (e.g. "bidibo/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`

	// MaxRetries is the number of retries on HTTP 429/503 (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// RenderConfig holds rasterization settings.
type RenderConfig struct {
	// Scale multiplies the page's native point size when rasterizing slides
	// (default 1.5).
	Scale float64 `json:"scale" yaml:"scale"`

	// PreviewScale is the render scale for preview pages (default 1.0).
	PreviewScale float64 `json:"preview_scale" yaml:"preview_scale"`

	// PreviewWidth bounds preview images to this many pixels wide.
	// Zero keeps the rendered width.
	PreviewWidth int `json:"preview_width" yaml:"preview_width"`

	// Workers is the number of pages processed concurrently (default 1).
	Workers int `json:"workers" yaml:"workers"`
}

// ProcessConfig holds settings for a processing run started from the CLI.
type ProcessConfig struct {
	Render RenderConfig `json:"render" yaml:"render"`
	Fetch  FetchConfig  `json:"fetch" yaml:"fetch"`

	// SlidesPerPage is the number of slides stacked on each output page (1-10).
	SlidesPerPage int `json:"slides_per_page" yaml:"slides_per_page"`

	// Exclude lists 1-based source pages to leave out of the output.
	Exclude []int `json:"exclude,omitempty" yaml:"exclude,omitempty"`

	// OutputDir is where the output document and previews are written.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Previews controls whether preview images are written next to the output.
	Previews bool `json:"previews" yaml:"previews"`

	// Timeout bounds the whole run. Zero means no limit.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}
