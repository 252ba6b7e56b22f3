// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package compose

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"testing"

	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/bidibo/internal/encode"
	"github.com/pdiddy/bidibo/pkg/types"
)

// testSlides encodes n small binarized slides for source pages 1..n.
func testSlides(t *testing.T, n int) []types.ProcessedSlide {
	t.Helper()
	slides := make([]types.ProcessedSlide, 0, n)
	for i := 1; i <= n; i++ {
		img := image.NewRGBA(image.Rect(0, 0, 160, 90))
		for y := 0; y < 90; y++ {
			for x := 0; x < 160; x++ {
				v := uint8(255)
				if x < 10*i {
					v = 0
				}
				img.SetRGBA(x, y, color.RGBA{R: v, G: v, B: v, A: 255})
			}
		}
		s, err := encode.Slide(img, i)
		require.NoError(t, err)
		slides = append(slides, s)
	}
	return slides
}

func pageCount(t *testing.T, doc []byte) int {
	t.Helper()
	n, err := pdfapi.PageCount(bytes.NewReader(doc), nil)
	require.NoError(t, err)
	return n
}

func TestCompose_PageCounts(t *testing.T) {
	tests := []struct {
		name      string
		slides    int
		k         int
		wantPages int
	}{
		{name: "six slides three per page", slides: 6, k: 3, wantPages: 2},
		{name: "partial last page", slides: 7, k: 3, wantPages: 3},
		{name: "one per page", slides: 4, k: 1, wantPages: 4},
		{name: "ten per page", slides: 10, k: 10, wantPages: 1},
		{name: "no slides", slides: 0, k: 4, wantPages: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := test.NewNullLogger()
			comp, err := Compose(testSlides(t, tt.slides), tt.k, logger)
			require.NoError(t, err)

			assert.Equal(t, tt.wantPages, comp.Pages)
			assert.Equal(t, tt.wantPages, pageCount(t, comp.Document))
			assert.Len(t, comp.Placed, tt.slides)
			assert.Empty(t, comp.Skipped)
			assert.True(t, bytes.HasPrefix(comp.Document, []byte("%PDF-")))
		})
	}
}

func TestCompose_PageSize(t *testing.T) {
	comp, err := Compose(testSlides(t, 2), 2, nil)
	require.NoError(t, err)

	dims, err := pdfapi.PageDims(bytes.NewReader(comp.Document), nil)
	require.NoError(t, err)
	require.Len(t, dims, 1)
	assert.InDelta(t, PageWidth, dims[0].Width, 0.01)
	assert.InDelta(t, PageHeight, dims[0].Height, 0.01)
}

func TestCompose_SkipsCorruptSlide(t *testing.T) {
	slides := testSlides(t, 4)
	slides[1].Data = []byte("not an image at all")

	logger, hook := test.NewNullLogger()
	comp, err := Compose(slides, 3, logger)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 3, 4}, comp.Placed)
	require.Len(t, comp.Skipped, 1)
	assert.Equal(t, 2, comp.Skipped[0].Page)

	// The skipped slide takes no slot: three slides fit on one page.
	assert.Equal(t, 1, comp.Pages)
	assert.Equal(t, 1, pageCount(t, comp.Document))

	require.Len(t, hook.Entries, 1)
	entry := hook.LastEntry()
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, 2, entry.Data["page"])
}

func TestCompose_AllSlidesCorrupt(t *testing.T) {
	slides := []types.ProcessedSlide{
		{SourcePage: 1, Data: []byte("junk")},
		{SourcePage: 2},
	}

	logger, hook := test.NewNullLogger()
	comp, err := Compose(slides, 2, logger)
	require.NoError(t, err)

	assert.Equal(t, 1, comp.Pages)
	assert.Len(t, comp.Skipped, 2)
	assert.Len(t, hook.Entries, 2)

	var embErr types.EmbedError
	require.True(t, errors.As(error(comp.Skipped[0]), &embErr))
	assert.Equal(t, 1, embErr.Page)
}

func TestCompose_InvalidSlidesPerPage(t *testing.T) {
	_, err := Compose(testSlides(t, 1), 0, nil)
	assert.Error(t, err)
	_, err = Compose(testSlides(t, 1), 11, nil)
	assert.Error(t, err)
}
