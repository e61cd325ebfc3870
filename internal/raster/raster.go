package raster

import (
	"bytes"
	"fmt"
	"image"
	"log"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gen2brain/go-fitz"

	"invoicr/internal/config"
	"invoicr/internal/domain"
	"invoicr/internal/port"
)

// baseDPI is the PDF rendering resolution at zoom factor 1.0.
const baseDPI = 72.0

// Rasterizer renders source documents into per-page JPEG images. PDF pages
// are rendered at a configurable zoom factor; raster inputs are re-encoded
// as JPEG at the configured quality. It implements port.Rasterizer.
type Rasterizer struct {
	zoom    float64
	quality int
}

// New creates a Rasterizer from raster settings.
func New(cfg *config.RasterConfig) *Rasterizer {
	zoom := cfg.PDFZoomFactor
	if zoom <= 0 {
		zoom = 2.0
	}
	quality := cfg.JPEGQuality
	if quality <= 0 || quality > 100 {
		quality = 85
	}
	return &Rasterizer{zoom: zoom, quality: quality}
}

// Rasterize converts document bytes into ordered page images. PDF inputs
// yield one image per page; anything else is decoded as a single image.
func (r *Rasterizer) Rasterize(data []byte, contentType string) ([]port.PageImage, error) {
	if IsPDF(contentType) {
		return r.rasterizePDF(data)
	}
	return r.rasterizeImage(data)
}

func (r *Rasterizer) rasterizePDF(data []byte) ([]port.PageImage, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("%w: opening PDF: %v", domain.ErrRasterFailed, err)
	}
	defer func() { _ = doc.Close() }()

	pages := make([]port.PageImage, 0, doc.NumPage())
	for n := 0; n < doc.NumPage(); n++ {
		img, err := doc.ImageDPI(n, baseDPI*r.zoom)
		if err != nil {
			return nil, fmt.Errorf("%w: rendering page %d: %v", domain.ErrRasterFailed, n+1, err)
		}
		jpeg, err := r.encodeJPEG(img)
		if err != nil {
			return nil, fmt.Errorf("%w: encoding page %d: %v", domain.ErrRasterFailed, n+1, err)
		}
		pages = append(pages, port.PageImage{Number: n + 1, JPEG: jpeg})
	}
	log.Printf("raster.Rasterizer: converted PDF to %d page images", len(pages))
	return pages, nil
}

func (r *Rasterizer) rasterizeImage(data []byte) ([]port.PageImage, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: decoding image: %v", domain.ErrRasterFailed, err)
	}
	jpeg, err := r.encodeJPEG(img)
	if err != nil {
		return nil, fmt.Errorf("%w: encoding image: %v", domain.ErrRasterFailed, err)
	}
	return []port.PageImage{{Number: 1, JPEG: jpeg}}, nil
}

func (r *Rasterizer) encodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(r.quality)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// IsPDF reports whether a content type denotes a PDF document.
func IsPDF(contentType string) bool {
	return strings.Contains(strings.ToLower(contentType), "pdf")
}
