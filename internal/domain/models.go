package domain

type Category struct {
	ID        int64  `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	CreatedAt string `db:"created_at" json:"-"`
	UpdatedAt string `db:"updated_at" json:"-"`
}

// Product is the catalog record the storefront sells. The cart embeds a full
// copy of it at add-time, so the JSON shape below is also the persisted
// cart-snapshot shape.
type Product struct {
	ID          int64  `db:"id" json:"id"`
	CategoryID  int64  `db:"category_id" json:"-"`
	Category    string `db:"category" json:"category"`
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description"`
	Price       int64  `db:"price" json:"price"` // VND, no subunit
	Image       string `db:"image" json:"image"`
	Available   bool   `db:"available" json:"available"`

	// Variant attributes (optional)
	Color     string `db:"color" json:"color,omitempty"`
	Size      string `db:"size" json:"size,omitempty"`
	VariantID int64  `db:"variant_id" json:"variantId,omitempty"`

	// Physical attributes per unit, used by the shipping estimator (optional)
	Weight int `db:"weight" json:"weight,omitempty"` // grams
	Length int `db:"length" json:"length,omitempty"` // cm
	Width  int `db:"width" json:"width,omitempty"`   // cm
	Height int `db:"height" json:"height,omitempty"` // cm

	CreatedAt string `db:"created_at" json:"-"`
	UpdatedAt string `db:"updated_at" json:"-"`
}

type Color struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
	Code string `db:"code" json:"code"` // hex, e.g. #8B5A2B
}

type Size struct {
	ID    int64  `db:"id" json:"id"`
	Label string `db:"label" json:"label"`
}

// Promotion is a checkout discount code. Either Percent or Amount is set,
// never both.
type Promotion struct {
	ID       int64  `db:"id" json:"id"`
	Code     string `db:"code" json:"code"`
	Percent  int    `db:"percent" json:"percent"` // 0..100
	Amount   int64  `db:"amount" json:"amount"`   // VND off
	StartsAt string `db:"starts_at" json:"startsAt"`
	EndsAt   string `db:"ends_at" json:"endsAt"`
	Active   bool   `db:"active" json:"active"`
}
