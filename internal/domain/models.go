package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// InvoiceHeader holds the invoice-level fields extracted from one page.
// Every field is optional; nil means the model did not find a value.
type InvoiceHeader struct {
	InvoiceNumber *string  `json:"invoice_number"`
	VendorName    *string  `json:"vendor_name"`
	VendorAddress *string  `json:"vendor_address"`
	InvoiceDate   *string  `json:"invoice_date"`
	DueDate       *string  `json:"due_date"`
	TotalAmount   *float64 `json:"total_amount"`
	TaxAmount     *float64 `json:"tax_amount"`
	Subtotal      *float64 `json:"subtotal"`
	Currency      *string  `json:"currency"`
}

// LineItem holds the canonical per-row fields of an invoice table.
// Every field is optional; nil means the model did not find a value.
type LineItem struct {
	Description *string  `json:"description"`
	Quantity    *float64 `json:"quantity"`
	UnitPrice   *float64 `json:"unit_price"`
	TotalPrice  *float64 `json:"total_price"`
	ItemCode    *string  `json:"item_code"`
}

// PageRecord is the structured result of extracting one rasterized page.
// Immutable after creation; owned by the batch result until serialized.
type PageRecord struct {
	DocumentID     string
	SourceFile     string
	PageNumber     int // 1-based
	TotalPages     int
	FileType       string
	ExtractedAt    time.Time
	Header         InvoiceHeader
	InvoiceDetails map[string]any
	LineItems      []map[string]any
	Status         ProcessingStatus
	ErrorMessage   string
}

// NewPageRecord creates a successful page record from the extractor's raw
// decoded output. Header fields are decoded from the details map; unknown
// detail keys are preserved in InvoiceDetails for the nested response shape.
func NewPageRecord(sourceFile string, pageNumber, totalPages int, fileType string, details map[string]any, lineItems []map[string]any) PageRecord {
	if details == nil {
		details = map[string]any{}
	}
	if lineItems == nil {
		lineItems = []map[string]any{}
	}
	return PageRecord{
		DocumentID:     fmt.Sprintf("%s_page_%d", sourceFile, pageNumber),
		SourceFile:     sourceFile,
		PageNumber:     pageNumber,
		TotalPages:     totalPages,
		FileType:       fileType,
		ExtractedAt:    time.Now(),
		Header:         DecodeInvoiceHeader(details),
		InvoiceDetails: details,
		LineItems:      lineItems,
		Status:         StatusSuccess,
	}
}

// NewErrorPageRecord creates a failed page record carrying the error detail.
func NewErrorPageRecord(sourceFile string, pageNumber, totalPages int, fileType string, err error) PageRecord {
	return PageRecord{
		DocumentID:     fmt.Sprintf("%s_page_%d_error", sourceFile, pageNumber),
		SourceFile:     sourceFile,
		PageNumber:     pageNumber,
		TotalPages:     totalPages,
		FileType:       fileType,
		ExtractedAt:    time.Now(),
		InvoiceDetails: map[string]any{},
		LineItems:      []map[string]any{},
		Status:         StatusError,
		ErrorMessage:   err.Error(),
	}
}

// DecodeInvoiceHeader pulls the known header fields out of the extractor's
// raw details map, coercing loosely typed JSON values. Fields the model
// omitted or produced as null stay nil.
func DecodeInvoiceHeader(details map[string]any) InvoiceHeader {
	return InvoiceHeader{
		InvoiceNumber: StringField(details, "invoice_number"),
		VendorName:    StringField(details, "vendor_name"),
		VendorAddress: StringField(details, "vendor_address"),
		InvoiceDate:   StringField(details, "invoice_date"),
		DueDate:       StringField(details, "due_date"),
		TotalAmount:   NumberField(details, "total_amount"),
		TaxAmount:     NumberField(details, "tax_amount"),
		Subtotal:      NumberField(details, "subtotal"),
		Currency:      StringField(details, "currency"),
	}
}

// DecodeLineItem pulls the canonical per-row fields out of one raw line item.
func DecodeLineItem(item map[string]any) LineItem {
	return LineItem{
		Description: StringField(item, "description"),
		Quantity:    NumberField(item, "quantity"),
		UnitPrice:   NumberField(item, "unit_price"),
		TotalPrice:  NumberField(item, "total_price"),
		ItemCode:    StringField(item, "item_code"),
	}
}

// StringField returns the trimmed string value for key, or nil when the value
// is absent, null, or blank. Numeric values are rendered to their string form.
func StringField(m map[string]any, key string) *string {
	v, ok := m[key]
	if !ok || v == nil {
		return nil
	}
	var s string
	switch t := v.(type) {
	case string:
		s = strings.TrimSpace(t)
	case float64:
		s = strconv.FormatFloat(t, 'f', -1, 64)
	default:
		s = strings.TrimSpace(fmt.Sprintf("%v", t))
	}
	if s == "" {
		return nil
	}
	return &s
}

// NumberField returns the numeric value for key, or nil when the value is
// absent, null, or not parseable as a number.
func NumberField(m map[string]any, key string) *float64 {
	v, ok := m[key]
	if !ok || v == nil {
		return nil
	}
	switch t := v.(type) {
	case float64:
		return &t
	case int:
		f := float64(t)
		return &f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return nil
		}
		return &f
	default:
		return nil
	}
}
