// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

// DecodeError reports that the source document could not be decoded.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	if e.Err == nil {
		return "cannot decode PDF"
	}
	return e.Err.Error()
}

func (e *DecodeError) Unwrap() error { return e.Err }

// RenderError reports that a single page could not be rasterized.
type RenderError struct {
	Page int
	Err  error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("rendering page %d: %v", e.Page, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// EncodeError reports that a processed page could not be compressed.
type EncodeError struct {
	Page int
	Err  error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("encoding page %d: %v", e.Page, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }

// EmbedError reports that a processed slide could not be embedded into the
// output document. It is recovered locally: the slide is skipped.
type EmbedError struct {
	Page int
	Err  error
}

func (e EmbedError) Error() string {
	return fmt.Sprintf("embedding slide from page %d: %v", e.Page, e.Err)
}

func (e EmbedError) Unwrap() error { return e.Err }

// ProcessingError is the single error surfaced to the caller when a run
// fails. Its message is the message of the underlying failure.
type ProcessingError struct {
	Stage RunState
	Err   error
}

func (e *ProcessingError) Error() string {
	if e.Err == nil || e.Err.Error() == "" {
		return "failed to process PDF"
	}
	return e.Err.Error()
}

func (e *ProcessingError) Unwrap() error { return e.Err }
