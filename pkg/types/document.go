// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "context"

// PageImage is a rendered page as seen by the engine. Only pixel
// dimensions and fractional cropping are needed here; rasterization
// itself is a collaborator concern.
type PageImage interface {
	// Size returns the pixel dimensions of the image.
	Size() (width, height int)

	// CropTop returns the top fraction of the image (0 < fraction <= 1),
	// used to isolate running-header strips.
	CropTop(fraction float64) PageImage
}

// Document is the engine's view of a source PDF or image. Page numbers
// are 1-based throughout.
type Document interface {
	// Name returns the source file name for provenance.
	Name() string

	// IsPDF reports whether the source is a multi-page PDF rather than
	// a single image.
	IsPDF() bool

	// PageCount returns the number of pages.
	PageCount() int

	// HasTextLayer reports whether page text can be read directly
	// without OCR.
	HasTextLayer() bool

	// PageText returns the text of one page. Only meaningful when
	// HasTextLayer is true.
	PageText(page int) (string, error)

	// RenderPage rasterizes one page at the given DPI.
	RenderPage(ctx context.Context, page, dpi int) (PageImage, error)
}

// Recognizer turns a rendered page (or a cropped strip of one) into
// text. Implementations wrap an external OCR engine; the engine treats
// any error as "this page produced nothing".
type Recognizer interface {
	Recognize(ctx context.Context, img PageImage, page int) (string, error)
}
