package domain

import "errors"

var (
	ErrNoFiles             = errors.New("no files provided")
	ErrTooManyFiles        = errors.New("too many files in one request")
	ErrMissingFilename     = errors.New("uploaded file has no filename")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrTotalSizeExceeded   = errors.New("total upload size exceeds limit")
	ErrNoData              = errors.New("no data extracted from any files")
	ErrMalformedOutput     = errors.New("generation service returned malformed output")
	ErrExtractionFailed    = errors.New("extraction failed after exhausting retries")
	ErrReconcileDegraded   = errors.New("model-assisted reconciliation unavailable")
	ErrRasterFailed        = errors.New("document could not be rasterized")
)
