// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package compose

import "fmt"

// A4 portrait page geometry in PDF points.
const (
	PageWidth  = 595.28
	PageHeight = 841.89

	MarginTop    = 0.0
	MarginBottom = 0.0
	MarginLeft   = 3.0
	MarginRight  = 3.0

	// MinSlidesPerPage and MaxSlidesPerPage bound K.
	MinSlidesPerPage = 1
	MaxSlidesPerPage = 10
)

// AvailableWidth is the slide width: the page minus the side margins.
const AvailableWidth = PageWidth - MarginLeft - MarginRight

// AvailableHeight is the full page height. The top and bottom margins are
// declared but not subtracted; both are zero.
const AvailableHeight = PageHeight

// Rect is a placement in PDF user space (origin bottom-left).
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// PagePlan lists the slot placements on one output page, top to bottom.
type PagePlan struct {
	Slots []Rect
}

// SlotHeight returns the height of every slot when k slides share a page.
func SlotHeight(k int) float64 {
	return AvailableHeight / float64(k)
}

// ValidateSlidesPerPage reports whether k is within 1-10.
func ValidateSlidesPerPage(k int) error {
	if k < MinSlidesPerPage || k > MaxSlidesPerPage {
		return fmt.Errorf("slides per page must be between %d and %d, got %d", MinSlidesPerPage, MaxSlidesPerPage, k)
	}
	return nil
}

// Layout places n slides onto pages holding k slides each. Every slide gets
// the full available width and a slot height of AvailableHeight/k,
// regardless of its own aspect ratio, so the slots tile each page without
// gaps. With n == 0 a single empty page is returned.
func Layout(n, k int) ([]PagePlan, error) {
	if err := ValidateSlidesPerPage(k); err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, fmt.Errorf("negative slide count %d", n)
	}

	slotHeight := SlotHeight(k)
	pages := []PagePlan{{}}
	cursor := PageHeight

	for i := 0; i < n; i++ {
		current := &pages[len(pages)-1]
		if len(current.Slots) >= k {
			pages = append(pages, PagePlan{})
			current = &pages[len(pages)-1]
			cursor = PageHeight
		}

		current.Slots = append(current.Slots, Rect{
			X:      MarginLeft,
			Y:      cursor - slotHeight,
			Width:  AvailableWidth,
			Height: slotHeight,
		})
		cursor -= slotHeight
	}

	return pages, nil
}
