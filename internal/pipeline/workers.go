// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"fmt"

	"github.com/sourcegraph/conc/stream"

	"github.com/pdiddy/bidibo/internal/raster"
	"github.com/pdiddy/bidibo/pkg/types"
)

// processPagesConcurrently processes up to r.a.workers pages at once. Each
// worker renders from its own decoded document. Results are collected by
// stream callbacks, which run serially in submission order, so slide order
// and progress match the sequential run.
func (r *run) processPagesConcurrently(doc raster.Document, data []byte, total int, retained []int) ([]types.ProcessedSlide, error) {
	workers := min(r.a.workers, len(retained))

	docs := make(chan raster.Document, workers)
	docs <- doc
	for i := 1; i < workers; i++ {
		d, err := raster.Open(r.a.engine, data)
		if err != nil {
			drainDocs(docs, doc)
			return nil, err
		}
		docs <- d
	}
	defer drainDocs(docs, doc)

	ctx, cancel := context.WithCancel(r.ctx)
	defer cancel()

	var (
		slides   = make([]types.ProcessedSlide, 0, len(retained))
		firstErr error
	)

	s := stream.New().WithMaxGoroutines(workers)
	for _, page := range retained {
		s.Go(func() stream.Callback {
			if err := ctx.Err(); err != nil {
				return func() { keepFirst(&firstErr, err) }
			}

			d := <-docs
			slide, err := processPage(d, page, r.a.scale)
			docs <- d

			return func() {
				if firstErr != nil {
					return
				}
				if err != nil {
					firstErr = err
					cancel()
					return
				}
				slides = append(slides, slide)
				r.log.WithField("page", page).Debug("processed slide")
				r.progress.report(pagePercent(page, total), fmt.Sprintf("Processing slide %d of %d...", page, total))
			}
		})
	}
	s.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return slides, nil
}

func keepFirst(dst *error, err error) {
	if *dst == nil {
		*dst = err
	}
}

// drainDocs closes the extra worker documents. keep is owned by the caller.
func drainDocs(docs chan raster.Document, keep raster.Document) {
	for {
		select {
		case d := <-docs:
			if d != keep {
				d.Close()
			}
		default:
			return
		}
	}
}
