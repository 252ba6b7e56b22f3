// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"path"
	"strings"
)

// outputSuffix is appended to the stripped input name.
const outputSuffix = "_bidibo.pdf"

// RetainedPages returns the 1-based pages of a total-page document that are
// not in exclude, in ascending order. Duplicate and out-of-range entries in
// exclude are ignored.
func RetainedPages(total int, exclude []int) []int {
	skip := make(map[int]struct{}, len(exclude))
	for _, p := range exclude {
		skip[p] = struct{}{}
	}

	retained := make([]int, 0, total)
	for p := 1; p <= total; p++ {
		if _, ok := skip[p]; ok {
			continue
		}
		retained = append(retained, p)
	}
	return retained
}

// OutputFilename derives the output name from the uploaded file name:
// "Lecture3.pdf" becomes "Lecture3_bidibo.pdf".
func OutputFilename(input string) string {
	base := strings.TrimSuffix(input, path.Ext(input))
	if strings.TrimSpace(input) == "" {
		base = "document"
	}
	return base + outputSuffix
}
