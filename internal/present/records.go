package present

import (
	"fmt"
	"sort"
	"time"

	"invoicr/internal/domain"
)

// RawTextContent holds the synthesized human-readable summaries for one page.
type RawTextContent struct {
	InvoiceSummary   string `json:"invoice_summary"`
	LineItemsSummary string `json:"line_items_summary"`
}

// RecordMetadata describes extraction coverage and processing status.
type RecordMetadata struct {
	HasLineItems      bool                    `json:"has_line_items"`
	LineItemsCount    int                     `json:"line_items_count"`
	HasInvoiceDetails bool                    `json:"has_invoice_details"`
	ExtractedFields   []string                `json:"extracted_fields"`
	ProcessingStatus  domain.ProcessingStatus `json:"processing_status"`
	ErrorMessage      string                  `json:"error_message,omitempty"`
}

// DocumentRecord is the nested per-page response shape.
type DocumentRecord struct {
	DocumentID          string           `json:"document_id"`
	SourceFile          string           `json:"source_file"`
	PageNumber          int              `json:"page_number"`
	TotalPages          int              `json:"total_pages"`
	FileType            string           `json:"file_type"`
	ExtractionTimestamp string           `json:"extraction_timestamp"`
	InvoiceDetails      map[string]any   `json:"invoice_details"`
	LineItems           []map[string]any `json:"line_items"`
	RawTextContent      RawTextContent   `json:"raw_text_content"`
	Metadata            RecordMetadata   `json:"metadata"`
}

// BuildDocumentRecords converts page records, failed pages included, into
// the nested response shape in their original page order.
func BuildDocumentRecords(records []domain.PageRecord) []DocumentRecord {
	out := make([]DocumentRecord, 0, len(records))
	for _, rec := range records {
		out = append(out, buildDocumentRecord(rec))
	}
	return out
}

func buildDocumentRecord(rec domain.PageRecord) DocumentRecord {
	doc := DocumentRecord{
		DocumentID:          rec.DocumentID,
		SourceFile:          rec.SourceFile,
		PageNumber:          rec.PageNumber,
		TotalPages:          rec.TotalPages,
		FileType:            rec.FileType,
		ExtractionTimestamp: rec.ExtractedAt.Format(time.RFC3339),
		InvoiceDetails:      rec.InvoiceDetails,
		LineItems:           rec.LineItems,
		Metadata: RecordMetadata{
			HasLineItems:      len(rec.LineItems) > 0,
			LineItemsCount:    len(rec.LineItems),
			HasInvoiceDetails: len(rec.InvoiceDetails) > 0,
			ExtractedFields:   sortedKeys(rec.InvoiceDetails),
			ProcessingStatus:  rec.Status,
			ErrorMessage:      rec.ErrorMessage,
		},
	}

	if rec.Status == domain.StatusError {
		doc.RawTextContent = RawTextContent{
			InvoiceSummary:   "Failed to extract data",
			LineItemsSummary: "No line items extracted due to error",
		}
		return doc
	}

	doc.RawTextContent = RawTextContent{
		InvoiceSummary: fmt.Sprintf("Invoice from %s dated %s with total amount %s",
			orDefault(rec.Header.VendorName, "Unknown Vendor"),
			orDefault(rec.Header.InvoiceDate, "Unknown Date"),
			totalAmount(rec.Header.TotalAmount)),
		LineItemsSummary: fmt.Sprintf("Contains %d line items", len(rec.LineItems)),
	}
	return doc
}

func orDefault(p *string, fallback string) string {
	if p == nil || *p == "" {
		return fallback
	}
	return *p
}

func totalAmount(p *float64) string {
	if p == nil {
		return "0"
	}
	return fmt.Sprintf("%g", *p)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
