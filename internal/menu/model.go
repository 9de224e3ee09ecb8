package menu

// Item is a priced menu entry. Price is in minor currency units.
type Item struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Category  string `json:"category,omitempty"`
	Available bool   `json:"available"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt"`
}
