package domain

// DateLayout is the canonical calendar date format used as join key across
// the whole engine. ISO dates compare correctly as strings, so date ordering
// never requires parsing.
const DateLayout = "2006-01-02"

// ListPriceClampFactor bounds list_price relative to current_price.
// Upstream "regular price" fields are occasionally corrupted; anything above
// this factor is treated as a data error and clamped to current_price.
const ListPriceClampFactor = 10.0

// RawProductRow is one unvalidated row as produced by the external crawler.
// All fields are strings; the normalizer owns coercion and filtering.
type RawProductRow struct {
	ProductID    string
	Name         string
	Brand        string
	Category     string
	TopCategory  string
	CurrentPrice string
	ListPrice    string
	Date         string
}

// PriceRecord is one product's observed price on one calendar date.
// Invariants: CurrentPrice > 0; ListPrice <= ListPriceClampFactor*CurrentPrice.
type PriceRecord struct {
	ProductID    string  // stable SKU identity
	Name         string
	Brand        string
	Category     string  // leaf-level category, free text
	TopCategory  string  // one of TopCategories or TopCategoryOther
	CurrentPrice float64
	ListPrice    float64 // reference "regular" price, may equal CurrentPrice after clamping
	Date         string  // DateLayout
}
