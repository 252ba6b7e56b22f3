// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs one slide-deck conversion: rasterize each retained
// page, binarize it, encode it, compose the N-up document and render a short
// preview of the result.
package pipeline

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/bidibo/internal/compose"
	"github.com/pdiddy/bidibo/internal/encode"
	"github.com/pdiddy/bidibo/internal/enhance"
	"github.com/pdiddy/bidibo/internal/raster"
	"github.com/pdiddy/bidibo/pkg/types"
)

// maxPreviews is the number of output pages rendered for the preview.
const maxPreviews = 3

// Request describes one processing run.
type Request struct {
	// Document holds the source PDF. It is not retained after the run.
	Document []byte

	// Filename is the uploaded file name, used to derive the output name.
	Filename string

	// SlidesPerPage is the number of slides stacked per output page (1-10).
	SlidesPerPage int

	// Exclude lists 1-based source pages to leave out.
	Exclude []int
}

// Assembler orchestrates processing runs. It holds no per-run state and may
// be reused; runs on the same Assembler are independent.
type Assembler struct {
	engine       raster.Engine
	log          logrus.FieldLogger
	workers      int
	scale        float64
	previewScale float64
	previewWidth int
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithLogger sets the diagnostic logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(a *Assembler) { a.log = log }
}

// WithWorkers sets how many pages are processed concurrently. Values below 2
// keep the run strictly sequential.
func WithWorkers(n int) Option {
	return func(a *Assembler) { a.workers = n }
}

// WithScale sets the slide render scale.
func WithScale(scale float64) Option {
	return func(a *Assembler) { a.scale = scale }
}

// WithPreviewScale sets the preview render scale.
func WithPreviewScale(scale float64) Option {
	return func(a *Assembler) { a.previewScale = scale }
}

// WithPreviewWidth bounds preview images to px pixels wide.
func WithPreviewWidth(px int) Option {
	return func(a *Assembler) { a.previewWidth = px }
}

// New returns an Assembler that decodes documents with engine.
func New(engine raster.Engine, opts ...Option) *Assembler {
	a := &Assembler{
		engine:       engine,
		log:          logrus.StandardLogger(),
		workers:      1,
		scale:        raster.DefaultScale,
		previewScale: raster.PreviewScale,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.scale <= 0 {
		a.scale = raster.DefaultScale
	}
	if a.previewScale <= 0 {
		a.previewScale = raster.PreviewScale
	}
	if a.workers < 1 {
		a.workers = 1
	}
	return a
}

// run tracks the state of a single Process call.
type run struct {
	a        *Assembler
	ctx      context.Context
	state    types.RunState
	progress *reporter
	log      logrus.FieldLogger
}

// enter moves the run to s. A finished run stays finished.
func (r *run) enter(s types.RunState) {
	if r.state.Terminal() {
		r.log.WithFields(logrus.Fields{"from": r.state, "to": s}).Warn("ignoring transition out of finished run")
		return
	}
	r.state = s
	r.log.WithField("state", s).Debug("run state changed")
}

// Process converts req.Document and reports progress to onProgress. On
// failure it returns a *types.ProcessingError and no partial result; no
// progress is reported after the failure.
func (a *Assembler) Process(ctx context.Context, req Request, onProgress types.ProgressFunc) (*types.Result, error) {
	r := &run{
		a:        a,
		ctx:      ctx,
		state:    types.StateIdle,
		progress: newReporter(onProgress),
		log:      a.log.WithField("file", req.Filename),
	}

	res, err := r.execute(req)
	if err != nil {
		stage := r.state
		r.progress.close()
		r.enter(types.StateFailed)
		r.log.WithField("stage", stage).WithError(err).Error("PDF processing failed")
		return nil, &types.ProcessingError{Stage: stage, Err: err}
	}
	return res, nil
}

func (r *run) execute(req Request) (*types.Result, error) {
	if err := compose.ValidateSlidesPerPage(req.SlidesPerPage); err != nil {
		return nil, err
	}
	if err := r.ctx.Err(); err != nil {
		return nil, err
	}

	r.enter(types.StateLoading)
	r.progress.report(percentLoading, "Loading PDF...")

	doc, err := raster.Open(r.a.engine, req.Document)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	total := doc.NumPages()
	retained := RetainedPages(total, req.Exclude)

	r.enter(types.StatePerPageProcessing)
	r.progress.report(percentProcessing, fmt.Sprintf("Processing %d slides...", total))

	slides, err := r.processPages(doc, req.Document, total, retained)
	if err != nil {
		return nil, err
	}
	if err := r.ctx.Err(); err != nil {
		return nil, err
	}

	r.enter(types.StateComposing)
	r.progress.report(percentComposing, "Creating N-up layout...")

	comp, err := compose.Compose(slides, req.SlidesPerPage, r.log)
	if err != nil {
		return nil, err
	}

	r.enter(types.StateSerializing)
	if err := r.ctx.Err(); err != nil {
		return nil, err
	}
	r.progress.report(percentPreview, "Generating preview...")

	r.enter(types.StatePreviewRendering)
	previews, err := r.renderPreviews(comp.Document)
	if err != nil {
		return nil, err
	}

	r.enter(types.StateDone)
	r.progress.report(percentDone, "Complete!")

	return &types.Result{
		Document: comp.Document,
		Previews: previews,
		Filename: OutputFilename(req.Filename),
		Pages:    comp.Pages,
		Retained: retained,
		Skipped:  comp.Skipped,
	}, nil
}

// processPage rasterizes, binarizes and encodes one source page.
func processPage(doc raster.Document, page int, scale float64) (types.ProcessedSlide, error) {
	img, err := raster.Rasterize(doc, page, scale)
	if err != nil {
		return types.ProcessedSlide{}, err
	}
	enhance.Binarize(img)
	return encode.Slide(img, page)
}

// processPages runs every retained page through processPage in ascending
// order, reporting progress after each one.
func (r *run) processPages(doc raster.Document, data []byte, total int, retained []int) ([]types.ProcessedSlide, error) {
	if r.a.workers > 1 && len(retained) > 1 {
		return r.processPagesConcurrently(doc, data, total, retained)
	}

	slides := make([]types.ProcessedSlide, 0, len(retained))
	for _, page := range retained {
		if err := r.ctx.Err(); err != nil {
			return nil, err
		}

		slide, err := processPage(doc, page, r.a.scale)
		if err != nil {
			return nil, err
		}
		slides = append(slides, slide)

		r.log.WithField("page", page).Debug("processed slide")
		r.progress.report(pagePercent(page, total), fmt.Sprintf("Processing slide %d of %d...", page, total))
	}
	return slides, nil
}

// renderPreviews renders the first output pages without enhancement, so the
// preview shows the document exactly as it will print.
func (r *run) renderPreviews(document []byte) ([][]byte, error) {
	doc, err := raster.Open(r.a.engine, document)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	n := min(maxPreviews, doc.NumPages())
	previews := make([][]byte, 0, n)
	for page := 1; page <= n; page++ {
		if err := r.ctx.Err(); err != nil {
			return nil, err
		}

		img, err := raster.Rasterize(doc, page, r.a.previewScale)
		if err != nil {
			return nil, err
		}
		data, err := encode.JPEG(encode.Bound(img, r.a.previewWidth), encode.PreviewQuality)
		if err != nil {
			return nil, &types.EncodeError{Page: page, Err: err}
		}
		previews = append(previews, data)
	}
	return previews, nil
}
