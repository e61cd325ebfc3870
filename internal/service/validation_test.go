package service

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"invoicr/internal/config"
	"invoicr/internal/domain"
)

func uploadConfig() *config.UploadConfig {
	return &config.UploadConfig{
		MaxFiles:       20,
		MaxFileSizeMB:  50,
		MaxTotalSizeMB: 200,
	}
}

var pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<< >>\nendobj\ntrailer\n<< >>\n%%EOF")

var pngBytes = []byte{
	0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A,
	0x00, 0x00, 0x00, 0x0D, 0x49, 0x48, 0x44, 0x52,
}

func TestValidateFiles_ValidBatch(t *testing.T) {
	files := []UploadedFile{
		{Filename: "invoice.pdf", ContentType: "application/pdf", Data: pdfBytes},
		{Filename: "scan.png", ContentType: "image/png", Data: pngBytes},
	}

	assert.NoError(t, ValidateFiles(files, uploadConfig()))
}

func TestValidateFiles_NoFiles(t *testing.T) {
	err := ValidateFiles(nil, uploadConfig())

	assert.ErrorIs(t, err, domain.ErrNoFiles)
}

func TestValidateFiles_TooManyFiles(t *testing.T) {
	cfg := uploadConfig()
	cfg.MaxFiles = 1
	files := []UploadedFile{
		{Filename: "a.pdf", Data: pdfBytes},
		{Filename: "b.pdf", Data: pdfBytes},
	}

	err := ValidateFiles(files, cfg)

	assert.ErrorIs(t, err, domain.ErrTooManyFiles)
}

func TestValidateFiles_MissingFilename(t *testing.T) {
	files := []UploadedFile{{Filename: "", Data: pdfBytes}}

	err := ValidateFiles(files, uploadConfig())

	assert.ErrorIs(t, err, domain.ErrMissingFilename)
}

func TestValidateFiles_UnsupportedExtension(t *testing.T) {
	files := []UploadedFile{{Filename: "notes.txt", Data: []byte("hello")}}

	err := ValidateFiles(files, uploadConfig())

	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
}

func TestValidateFiles_ExtensionCaseInsensitive(t *testing.T) {
	files := []UploadedFile{{Filename: "INVOICE.PDF", Data: pdfBytes}}

	assert.NoError(t, ValidateFiles(files, uploadConfig()))
}

func TestValidateFiles_FileTooLarge(t *testing.T) {
	cfg := uploadConfig()
	cfg.MaxFileSizeMB = 1
	big := append(append([]byte{}, pdfBytes...), bytes.Repeat([]byte{0x00}, 2*1024*1024)...)
	files := []UploadedFile{{Filename: "big.pdf", Data: big}}

	err := ValidateFiles(files, cfg)

	assert.ErrorIs(t, err, domain.ErrFileTooLarge)
}

func TestValidateFiles_TotalSizeExceeded(t *testing.T) {
	cfg := uploadConfig()
	cfg.MaxFileSizeMB = 2
	cfg.MaxTotalSizeMB = 3
	chunk := append(append([]byte{}, pdfBytes...), bytes.Repeat([]byte{0x00}, 2*1024*1024)...)
	files := []UploadedFile{
		{Filename: "a.pdf", Data: chunk},
		{Filename: "b.pdf", Data: chunk},
	}

	err := ValidateFiles(files, cfg)

	assert.ErrorIs(t, err, domain.ErrTotalSizeExceeded)
}

func TestValidateFiles_ContentMismatchRejected(t *testing.T) {
	// extension says PNG but the body is HTML
	files := []UploadedFile{{Filename: "sneaky.png", Data: []byte("<html><body>hi</body></html>")}}

	err := ValidateFiles(files, uploadConfig())

	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
}

func TestValidateFiles_OctetStreamTolerated(t *testing.T) {
	// TIFF bodies sniff as octet-stream
	files := []UploadedFile{{Filename: "scan.tiff", Data: []byte{0x49, 0x49, 0x2A, 0x00, 0x08, 0x00, 0x00, 0x00}}}

	assert.NoError(t, ValidateFiles(files, uploadConfig()))
}

func TestEffectiveContentType(t *testing.T) {
	declared := UploadedFile{Filename: "a.pdf", ContentType: "application/pdf"}
	assert.Equal(t, "application/pdf", declared.EffectiveContentType())

	guessed := UploadedFile{Filename: "b.jpg"}
	assert.Equal(t, "image/jpeg", guessed.EffectiveContentType())

	unknown := UploadedFile{Filename: "c.xyz"}
	assert.Equal(t, "application/octet-stream", unknown.EffectiveContentType())
}
