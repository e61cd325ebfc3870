package handler

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"invoicr/internal/csvexport"
	"invoicr/internal/present"
	"invoicr/internal/service"
)

// maxErrorStrings caps how many error messages are surfaced to the caller.
const maxErrorStrings = 10

// InvoiceHandler handles invoice processing endpoints.
type InvoiceHandler struct {
	batchService *service.BatchService
}

// NewInvoiceHandler creates a new InvoiceHandler.
func NewInvoiceHandler(batchService *service.BatchService) *InvoiceHandler {
	return &InvoiceHandler{batchService: batchService}
}

// ExtractResponse is the nested-record response body.
type ExtractResponse struct {
	Success             bool                     `json:"success"`
	Message             string                   `json:"message"`
	Data                []present.DocumentRecord `json:"data"`
	TotalFilesProcessed int                      `json:"total_files_processed"`
	TotalPagesProcessed int                      `json:"total_pages_processed"`
	ProcessingErrors    []string                 `json:"processing_errors,omitempty"`
	TotalErrors         int                      `json:"total_errors,omitempty"`
}

// Process handles POST /api/v1/invoices/process
// @Summary Process invoices and return CSV
// @Description Process uploaded invoice files (PDFs and images), extract data, standardize columns, and return one merged CSV file
// @Tags invoices
// @Accept multipart/form-data
// @Produce text/csv
// @Param files formData file true "PDF or image files to process"
// @Success 200 {string} string "CSV file"
// @Failure 400 {object} APIResponse "Validation failure or no extractable data"
// @Router /invoices/process [post]
func (h *InvoiceHandler) Process(c *gin.Context) {
	files, err := readUploads(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "BAD_MULTIPART", err.Error())
		return
	}

	result, err := h.batchService.ProcessBatch(c.Request.Context(), files)
	if err != nil {
		HandleError(c, err)
		return
	}

	table, err := h.batchService.BuildTable(c.Request.Context(), result)
	if err != nil {
		HandleError(c, err)
		return
	}

	filename := csvexport.BuildFilename("processed_invoices")
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Status(http.StatusOK)

	if _, err := c.Writer.Write(csvexport.BOM); err != nil {
		return
	}
	w := csvexport.NewWriter(c.Writer)
	if err := w.WriteTable(table); err != nil {
		return
	}
	w.Flush()
}

// Extract handles POST /api/v1/invoices/extract
// @Summary Extract per-page invoice records
// @Description Extract structured data from uploaded invoice files and return nested per-page JSON records with a batch summary
// @Tags invoices
// @Accept multipart/form-data
// @Produce json
// @Param files formData file true "PDF or image files to process"
// @Success 200 {object} APIResponse{data=ExtractResponse}
// @Failure 400 {object} APIResponse "Validation failure"
// @Router /invoices/extract [post]
func (h *InvoiceHandler) Extract(c *gin.Context) {
	files, err := readUploads(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "BAD_MULTIPART", err.Error())
		return
	}

	result, err := h.batchService.ProcessBatch(c.Request.Context(), files)
	if err != nil {
		HandleError(c, err)
		return
	}

	resp := ExtractResponse{
		Success:             result.PagesProcessed > 0,
		Data:                present.BuildDocumentRecords(result.Records),
		TotalFilesProcessed: result.FilesProcessed,
		TotalPagesProcessed: result.PagesProcessed,
	}
	switch {
	case resp.Success && len(result.Errors) > 0:
		resp.Message = fmt.Sprintf("Successfully processed %d files and %d pages with %d errors.",
			result.FilesProcessed, result.PagesProcessed, len(result.Errors))
	case resp.Success:
		resp.Message = fmt.Sprintf("Successfully processed %d files and %d pages without errors.",
			result.FilesProcessed, result.PagesProcessed)
	default:
		resp.Message = "Failed to extract data from any files. Check uploaded files and try again."
	}

	if len(result.Errors) > 0 {
		resp.ProcessingErrors = result.Errors
		if len(resp.ProcessingErrors) > maxErrorStrings {
			resp.ProcessingErrors = resp.ProcessingErrors[:maxErrorStrings]
		}
		resp.TotalErrors = len(result.Errors)
	}

	c.JSON(http.StatusOK, APIResponse{Success: resp.Success, Data: resp})
}

// readUploads pulls every "files" part of the multipart form into memory.
func readUploads(c *gin.Context) ([]service.UploadedFile, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, fmt.Errorf("reading multipart form: %w", err)
	}

	headers := form.File["files"]
	files := make([]service.UploadedFile, 0, len(headers))
	for _, header := range headers {
		data, err := readFile(header)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", header.Filename, err)
		}
		files = append(files, service.UploadedFile{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Data:        data,
		})
	}
	return files, nil
}

func readFile(header *multipart.FileHeader) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return io.ReadAll(f)
}
