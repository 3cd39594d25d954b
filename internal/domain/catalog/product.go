package catalog

// Product is one record in the catalog. The wire shape follows the legacy
// API: identifiers travel as "_id" and an absent warranty is null, which is
// distinct from zero years.
type Product struct {
	ID            int64   `gorm:"primaryKey;autoIncrement" json:"_id"`
	Name          string  `gorm:"type:varchar(255)"        json:"name"`
	Category      string  `gorm:"type:varchar(255)"        json:"category"`
	Price         float64 `                                json:"price"`
	Rating        float64 `                                json:"rating"`
	WarrantyYears *int64  `                                json:"warranty_years"`
	Available     bool    `                                json:"available"`
}

// Record is a loosely typed product payload as received off the wire. It is
// the only place raw shapes are allowed; everything downstream works on
// canonical Product values.
type Record map[string]any

// MutableFields is the allow-list of fields a partial update may touch. The
// identifier is never mutable.
var MutableFields = []string{"name", "category", "price", "rating", "warranty_years", "available"}

// Fields renders the product back into its wire record form.
func (p Product) Fields() Record {
	r := Record{
		"_id":       p.ID,
		"name":      p.Name,
		"category":  p.Category,
		"price":     p.Price,
		"rating":    p.Rating,
		"available": p.Available,
	}
	if p.WarrantyYears != nil {
		r["warranty_years"] = *p.WarrantyYears
	}
	return r
}
