package models

// CatalogEntry represents one listed dataset available for purchase.
// Entries are immutable once created; the catalog only grows.
type CatalogEntry struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Size        string  `json:"size"`
	Format      string  `json:"format"`
	Records     int     `json:"records"`
}

// CartLine is a catalog entry plus the quantity the user intends to buy.
// Quantity is always >= 1; removal is the mechanism for dropping a line.
type CartLine struct {
	CatalogEntry
	Quantity int `json:"quantity"`
}

// LineTotal returns price x quantity for a single line
func (l CartLine) LineTotal() float64 {
	return l.Price * float64(l.Quantity)
}
