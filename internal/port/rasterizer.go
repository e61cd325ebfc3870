package port

// PageImage is one rasterized page ready for extraction.
type PageImage struct {
	Number int // 1-based
	JPEG   []byte
}

// Rasterizer converts a source document into per-page bitmaps. PDF inputs
// yield one image per page; raster image inputs yield exactly one page.
type Rasterizer interface {
	Rasterize(data []byte, contentType string) ([]PageImage, error)
}
