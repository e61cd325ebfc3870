package service

import (
	"net/http"
	"path/filepath"
	"strings"

	"invoicr/internal/config"
	"invoicr/internal/domain"
)

// UploadedFile is one request file, fully read into memory.
type UploadedFile struct {
	Filename    string
	ContentType string // client-declared, may be empty
	Data        []byte
}

// EffectiveContentType returns the client-declared content type, falling
// back to an extension-based guess, then octet-stream.
func (f *UploadedFile) EffectiveContentType() string {
	if f.ContentType != "" {
		return f.ContentType
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(f.Filename), "."))
	if ct, ok := domain.AllowedExtensions[ext]; ok {
		return ct
	}
	return "application/octet-stream"
}

// ValidateFiles enforces the batch upload contract: at least one file, a
// file-count cap, per-file and aggregate size caps, an extension allowlist,
// and magic-byte content sniffing. The first violation is returned; nothing
// is extracted for an invalid batch.
func ValidateFiles(files []UploadedFile, cfg *config.UploadConfig) error {
	if len(files) == 0 {
		return domain.ErrNoFiles
	}
	if len(files) > cfg.MaxFiles {
		return domain.ErrTooManyFiles
	}

	var total int64
	for _, f := range files {
		total += int64(len(f.Data))
	}
	if total > cfg.MaxTotalBytes() {
		return domain.ErrTotalSizeExceeded
	}

	for i := range files {
		f := &files[i]
		if f.Filename == "" {
			return domain.ErrMissingFilename
		}

		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(f.Filename), "."))
		if _, ok := domain.AllowedExtensions[ext]; !ok {
			return domain.ErrUnsupportedFileType
		}

		if int64(len(f.Data)) > cfg.MaxFileBytes() {
			return domain.ErrFileTooLarge
		}

		sniffLen := len(f.Data)
		if sniffLen > 512 {
			sniffLen = 512
		}
		detected := http.DetectContentType(f.Data[:sniffLen])
		if !domain.AllowedContentTypes[detected] && detected != "application/octet-stream" {
			return domain.ErrUnsupportedFileType
		}
	}
	return nil
}
