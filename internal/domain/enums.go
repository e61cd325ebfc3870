package domain

// ProcessingStatus tags the outcome of one page extraction.
type ProcessingStatus string

const (
	StatusSuccess ProcessingStatus = "success"
	StatusError   ProcessingStatus = "error"
)

// AllowedExtensions maps supported upload extensions (lowercase, no dot) to
// their MIME content type.
var AllowedExtensions = map[string]string{
	"pdf":  "application/pdf",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"tif":  "image/tiff",
	"tiff": "image/tiff",
	"bmp":  "image/bmp",
	"webp": "image/webp",
}

// AllowedContentTypes is the set of MIME types accepted after magic-byte
// sniffing. http.DetectContentType cannot identify TIFF beyond octet-stream,
// so that is tolerated for .tif/.tiff uploads at the service layer.
var AllowedContentTypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/png":       true,
	"image/tiff":      true,
	"image/bmp":       true,
	"image/webp":      true,
}
