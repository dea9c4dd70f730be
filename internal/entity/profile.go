package entity

// CompanyProfile is the caller's own registered company. It is passed into
// the extraction pipeline so the AI prompt can steer the model toward the
// counterparty rather than the issuer's own identity.
type CompanyProfile struct {
	ID      int64  `json:"id" db:"id"`
	Name    string `json:"name" db:"name"`
	Address string `json:"address,omitempty" db:"address"`
	ICE     string `json:"ice,omitempty" db:"ice"`
	CNSS    string `json:"cnss,omitempty" db:"cnss"`
	TaxID   string `json:"tax_id,omitempty" db:"tax_id"`
}
