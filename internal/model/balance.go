package model

// Balance represents the futures wallet balance of an asset.
type Balance struct {
	Asset     string  `json:"asset"`
	Total     float64 `json:"total"`
	Available float64 `json:"available"`
}

// Used returns the part of the balance locked as margin or in orders.
func (b Balance) Used() float64 {
	return b.Total - b.Available
}
