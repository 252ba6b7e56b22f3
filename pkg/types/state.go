// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// RunState is the state of one processing run.
type RunState string

const (
	StateIdle              RunState = "idle"
	StateLoading           RunState = "loading"
	StatePerPageProcessing RunState = "processing"
	StateComposing         RunState = "composing"
	StateSerializing       RunState = "serializing"
	StatePreviewRendering  RunState = "preview"
	StateDone              RunState = "done"
	StateFailed            RunState = "failed"
)

// Terminal reports whether no further transition can follow s.
func (s RunState) Terminal() bool {
	return s == StateDone || s == StateFailed
}
