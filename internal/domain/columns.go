package domain

// CanonicalColumns is the fixed vocabulary all fragment columns are
// reconciled toward. currency is internal-only and is dropped by the
// presenter after price formatting.
var CanonicalColumns = []string{
	"source_file",
	"address",
	"description",
	"company_name",
	"invoice_number",
	"date",
	"due_date",
	"item_code",
	"quantity",
	"unit_price",
	"total_price",
	"page_no",
	"currency",
}
