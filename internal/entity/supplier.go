package entity

// Supplier is the deduplicated counterparty of an invoice. Identity for
// dedup purposes is the (Name, ICE) pair; many invoices reference one
// supplier row.
type Supplier struct {
	ID      int64  `json:"id" db:"id"`
	Name    string `json:"name" db:"name"`
	Address string `json:"address,omitempty" db:"address"`
	ICE     string `json:"ice,omitempty" db:"ice"`
	CNSS    string `json:"cnss,omitempty" db:"cnss"`
	TaxID   string `json:"tax_id,omitempty" db:"tax_id"`
}
