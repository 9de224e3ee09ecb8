// Package customer holds the phone-keyed customer records produced by OTP
// verification and by orders and bills that carry a phone number.
package customer

// Customer is the persisted customer record. Phone is the normalized
// unique key; Name and TableNumber are last-known values overwritten on
// each upsert, with no history kept.
type Customer struct {
	Phone       string `json:"phone"`
	Name        string `json:"name,omitempty"`
	TableNumber *int   `json:"tableNumber,omitempty"`
	VerifiedAt  *int64 `json:"verifiedAt,omitempty"`
	CreatedAt   int64  `json:"createdAt"`
	UpdatedAt   int64  `json:"updatedAt"`
}
