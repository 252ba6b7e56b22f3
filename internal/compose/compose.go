// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package compose lays processed slides out N-up on A4 pages and writes the
// resulting PDF with pdfcpu.
package compose

import (
	"bytes"
	"fmt"

	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	pdftypes "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"github.com/sirupsen/logrus"

	"github.com/pdiddy/bidibo/pkg/types"
)

// Composition is the serialized N-up document plus the per-slide outcome.
type Composition struct {
	// Document is the serialized PDF.
	Document []byte

	// Pages is the number of output pages.
	Pages int

	// Placed lists the source pages of the embedded slides, in order.
	Placed []int

	// Skipped lists slides that failed to embed. They take no slot.
	Skipped []types.EmbedError
}

// embeddedSlide is a slide whose image XObject was added to the document.
type embeddedSlide struct {
	page int
	ref  *pdftypes.IndirectRef
}

// Compose embeds slides in order and stacks k of them per page. A slide that
// cannot be embedded is logged, recorded in Composition.Skipped and left out
// of the layout; it never fails the composition.
func Compose(slides []types.ProcessedSlide, k int, log logrus.FieldLogger) (*Composition, error) {
	if err := ValidateSlidesPerPage(k); err != nil {
		return nil, err
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	conf := model.NewDefaultConfiguration()
	ctx, err := pdfcpu.CreateContextWithXRefTable(conf, &pdftypes.Dim{Width: PageWidth, Height: PageHeight})
	if err != nil {
		return nil, fmt.Errorf("creating output document: %w", err)
	}

	comp := &Composition{}
	embedded := make([]embeddedSlide, 0, len(slides))
	for i, s := range slides {
		ref, err := embed(ctx, s)
		if err != nil {
			embErr := types.EmbedError{Page: s.SourcePage, Err: err}
			log.WithFields(logrus.Fields{
				"slide": i,
				"page":  s.SourcePage,
			}).WithError(err).Warn("skipping slide that could not be embedded")
			comp.Skipped = append(comp.Skipped, embErr)
			continue
		}
		embedded = append(embedded, embeddedSlide{page: s.SourcePage, ref: ref})
		comp.Placed = append(comp.Placed, s.SourcePage)
	}

	plans, err := Layout(len(embedded), k)
	if err != nil {
		return nil, err
	}

	pagesRef, err := ctx.Pages()
	if err != nil {
		return nil, fmt.Errorf("locating page tree: %w", err)
	}
	pagesDict, err := ctx.DereferenceDict(*pagesRef)
	if err != nil {
		return nil, fmt.Errorf("reading page tree: %w", err)
	}

	next := 0
	for n, plan := range plans {
		onPage := embedded[next : next+len(plan.Slots)]
		next += len(plan.Slots)

		pageRef, err := addPage(ctx, pagesRef, plan, onPage)
		if err != nil {
			return nil, fmt.Errorf("writing output page %d: %w", n+1, err)
		}
		kids, _ := pagesDict["Kids"].(pdftypes.Array)
		kids = append(kids, *pageRef)
		pagesDict["Kids"] = kids
		pagesDict["Count"] = pdftypes.Integer(len(kids))
	}
	ctx.PageCount = len(plans)

	var out bytes.Buffer
	if err := pdfapi.WriteContext(ctx, &out); err != nil {
		return nil, fmt.Errorf("serializing output document: %w", err)
	}

	log.WithFields(logrus.Fields{
		"pages":   len(plans),
		"placed":  len(comp.Placed),
		"skipped": len(comp.Skipped),
	}).Debug("composed n-up document")

	comp.Document = out.Bytes()
	comp.Pages = len(plans)
	return comp, nil
}

// embed adds the slide's JPEG as an image XObject.
func embed(ctx *model.Context, s types.ProcessedSlide) (ref *pdftypes.IndirectRef, err error) {
	if len(s.Data) == 0 {
		return nil, fmt.Errorf("slide has no image data")
	}

	// pdfcpu panics on some malformed image headers.
	defer func() {
		if r := recover(); r != nil {
			ref, err = nil, fmt.Errorf("malformed image: %v", r)
		}
	}()

	ref, _, _, err = model.CreateImageResource(ctx.XRefTable, bytes.NewReader(s.Data))
	if err != nil {
		return nil, err
	}
	return ref, nil
}

// addPage writes one page drawing each slide into its slot.
func addPage(ctx *model.Context, parent *pdftypes.IndirectRef, plan PagePlan, slides []embeddedSlide) (*pdftypes.IndirectRef, error) {
	pageDict := pdftypes.Dict(map[string]pdftypes.Object{
		"Type":     pdftypes.Name("Page"),
		"Parent":   *parent,
		"MediaBox": pdftypes.RectForWidthAndHeight(0, 0, PageWidth, PageHeight).Array(),
	})

	xobjects := pdftypes.Dict(map[string]pdftypes.Object{})
	var content bytes.Buffer
	for i, slot := range plan.Slots {
		name := fmt.Sprintf("Im%d", i)
		xobjects[name] = *slides[i].ref
		fmt.Fprintf(&content, "q %.4f 0 0 %.4f %.4f %.4f cm /%s Do Q\n",
			slot.Width, slot.Height, slot.X, slot.Y, name)
	}

	resources := pdftypes.Dict(map[string]pdftypes.Object{})
	if len(xobjects) > 0 {
		resources["XObject"] = xobjects

		sd, err := ctx.NewStreamDictForBuf(content.Bytes())
		if err != nil {
			return nil, err
		}
		if err := sd.Encode(); err != nil {
			return nil, err
		}
		contentRef, err := ctx.IndRefForNewObject(*sd)
		if err != nil {
			return nil, err
		}
		pageDict["Contents"] = *contentRef
	}
	pageDict["Resources"] = resources

	return ctx.IndRefForNewObject(pageDict)
}
