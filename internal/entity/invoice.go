package entity

// Invoice is the persisted invoice header for data transfer between layers.
// Date is the canonical ISO rendering (YYYY-MM-DD); amounts are nil when the
// extractors could not produce them.
type Invoice struct {
	ID           int64    `json:"id" db:"id"`
	SupplierID   int64    `json:"supplier_id" db:"supplier_id"`
	SupplierName string   `json:"supplier_name,omitempty" db:"supplier_name"`
	Number       string   `json:"invoice_number" db:"invoice_number"`
	Date         string   `json:"invoice_date" db:"invoice_date"`
	TotalHT      *float64 `json:"total_ht,omitempty" db:"total_ht"`
	VATAmount    *float64 `json:"vat_amount,omitempty" db:"vat_amount"`
	TotalTTC     *float64 `json:"total_ttc,omitempty" db:"total_ttc"`
	Currency     string   `json:"currency" db:"currency"`

	Supplier Supplier   `json:"supplier" db:"-"`
	Items    []LineItem `json:"line_items" db:"-"`
}

// LineItem is one product row owned by an invoice. Position preserves the
// order the row appeared in the source document.
type LineItem struct {
	ID          int64   `json:"id" db:"id"`
	InvoiceID   int64   `json:"invoice_id" db:"invoice_id"`
	Position    int     `json:"position" db:"position"`
	Designation string  `json:"designation" db:"designation"`
	Quantity    float64 `json:"quantity" db:"quantity"`
	UnitPrice   float64 `json:"unit_price" db:"unit_price"`
	TotalPrice  float64 `json:"total_price" db:"total_price"`
}
