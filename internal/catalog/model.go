package catalog

// ServiceItem is one bookable offering on the spa menu.
type ServiceItem struct {
	ID          string `json:"id" toml:"id"`
	Name        string `json:"name" toml:"name"`
	Description string `json:"description" toml:"description"`
	Duration    string `json:"duration" toml:"duration"`
	Price       string `json:"price" toml:"price"`
	// PriceRange is the flat price used for arithmetic regardless of the
	// duration a customer picks.
	PriceRange int    `json:"priceRange" toml:"price_range"`
	Icon       string `json:"icon" toml:"icon"`
	Category   string `json:"category" toml:"category"`
}

// Provider is the read-only view of the catalog the booking core depends on.
type Provider interface {
	Lookup(id string) (ServiceItem, bool)
	All() []ServiceItem
}

// Category labels used on the services page.
const (
	CategoryAll        = "ทั้งหมด"
	CategoryRelaxation = "ผ่อนคลาย"
	CategoryTherapy    = "บำบัด"
	CategorySpecial    = "พิเศษ"
	CategoryExpress    = "ด่วน"
)

// Categories returns the category filter options in display order.
func Categories() []string {
	return []string{CategoryAll, CategoryRelaxation, CategoryTherapy, CategorySpecial, CategoryExpress}
}
