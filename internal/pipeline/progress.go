// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import "github.com/pdiddy/bidibo/pkg/types"

// Progress milestones of a run.
const (
	percentLoading    = 10
	percentProcessing = 20
	percentPageSpan   = 50
	percentComposing  = 75
	percentPreview    = 85
	percentDone       = 100
)

// reporter forwards progress to the caller's sink. Percentages never go
// backwards and nothing is forwarded once the run has failed.
type reporter struct {
	sink   types.ProgressFunc
	last   float64
	closed bool
}

func newReporter(sink types.ProgressFunc) *reporter {
	return &reporter{sink: sink}
}

func (r *reporter) report(percent float64, message string) {
	if r.closed || r.sink == nil {
		return
	}
	if percent < r.last {
		percent = r.last
	}
	if percent > percentDone {
		percent = percentDone
	}
	r.last = percent
	r.sink(types.Progress{Percent: percent, Message: message})
}

func (r *reporter) close() {
	r.closed = true
}

// pagePercent is the progress after finishing source page page of total.
func pagePercent(page, total int) float64 {
	return percentProcessing + float64(page)/float64(total)*percentPageSpan
}
