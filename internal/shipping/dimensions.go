// Package shipping derives package dimensions from cart contents and talks
// to the GHN shipping API for fee quotes and order creation.
package shipping

import "noithat/internal/cart"

// Per-unit fallbacks for products without physical attributes.
const (
	defaultUnitWeight = 200 // g
	defaultUnitLength = 15  // cm
	defaultUnitWidth  = 10  // cm
	defaultUnitHeight = 3   // cm
)

// Carrier limits for a single package.
const (
	maxPackageWeight = 30000 // g
	maxPackageSide   = 150   // cm
	minPackageLength = 15
	minPackageWidth  = 10
	minPackageHeight = 5
)

// Dimensions is the aggregate package weight and bounding box handed to the
// shipping-quote request.
type Dimensions struct {
	Weight int `json:"weight"` // grams
	Length int `json:"length"` // cm
	Width  int `json:"width"`  // cm
	Height int `json:"height"` // cm
}

// EstimateDimensions reduces cart line items to one shippable package.
// Weight and height accumulate per unit; length and width take the largest
// single unit. Pure function, no I/O.
func EstimateDimensions(items []cart.LineItem) Dimensions {
	if len(items) == 0 {
		return Dimensions{Weight: 500, Length: 20, Width: 15, Height: 10}
	}

	var d Dimensions
	for _, it := range items {
		w := it.Product.Weight
		if w <= 0 {
			w = defaultUnitWeight
		}
		d.Weight += w * it.Quantity

		l := it.Product.Length
		if l <= 0 {
			l = defaultUnitLength
		}
		if l > d.Length {
			d.Length = l
		}

		wd := it.Product.Width
		if wd <= 0 {
			wd = defaultUnitWidth
		}
		if wd > d.Width {
			d.Width = wd
		}

		h := it.Product.Height
		if h <= 0 {
			h = defaultUnitHeight
		}
		d.Height += h * it.Quantity
	}

	d.Weight = min(d.Weight, maxPackageWeight)
	d.Length = clamp(d.Length, minPackageLength, maxPackageSide)
	d.Width = clamp(d.Width, minPackageWidth, maxPackageSide)
	d.Height = clamp(d.Height, minPackageHeight, maxPackageSide)
	return d
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
