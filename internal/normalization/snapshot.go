// Package normalization turns raw crawler rows into the canonical per-day
// snapshot. The transform is pure: bad rows are dropped, never reported.
package normalization

import (
	"strconv"
	"strings"

	"retail-price-lab/internal/domain"
)

// NormalizeSnapshot validates and cleans one day's raw rows.
// Rules, applied in order:
//  0. Drop rows without a product_id; the stores reject them and one broken
//     row must not fail the whole merge.
//  1. Coerce current_price; rows that fail coercion or are <= 0 are dropped.
//  2. Clamp list_price to current_price when it exceeds 10x current_price.
//  3. Default empty top_category to TopCategoryOther.
//  4. Stamp every row with the snapshot date.
//  5. Deduplicate by product_id keeping the last occurrence (the same product
//     can appear under several category listing pages in one crawl; the most
//     recently parsed row wins).
//
// Output order is the input order of the surviving (last) occurrences.
func NormalizeSnapshot(rows []domain.RawProductRow, date string) []*domain.PriceRecord {
	records := make([]*domain.PriceRecord, 0, len(rows))
	for _, row := range rows {
		productID := strings.TrimSpace(row.ProductID)
		if productID == "" {
			continue
		}

		price, ok := parsePrice(row.CurrentPrice)
		if !ok || price <= 0 {
			continue
		}

		listPrice, ok := parsePrice(row.ListPrice)
		if !ok || listPrice < 0 {
			listPrice = 0
		}
		if listPrice > domain.ListPriceClampFactor*price {
			listPrice = price
		}

		topCategory := strings.TrimSpace(row.TopCategory)
		if topCategory == "" {
			topCategory = domain.TopCategoryOther
		}

		records = append(records, &domain.PriceRecord{
			ProductID:    productID,
			Name:         row.Name,
			Brand:        row.Brand,
			Category:     row.Category,
			TopCategory:  topCategory,
			CurrentPrice: price,
			ListPrice:    listPrice,
			Date:         date,
		})
	}

	return dedupeLastWins(records)
}

// dedupeLastWins keeps, for each product, the row at its last position.
func dedupeLastWins(records []*domain.PriceRecord) []*domain.PriceRecord {
	lastIdx := make(map[string]int, len(records))
	for i, r := range records {
		lastIdx[r.ProductID] = i
	}

	deduped := make([]*domain.PriceRecord, 0, len(lastIdx))
	for i, r := range records {
		if lastIdx[r.ProductID] == i {
			deduped = append(deduped, r)
		}
	}
	return deduped
}

// parsePrice coerces a raw price field to float64.
// Only plain dot-decimal numbers with optional surrounding whitespace are
// accepted; locale-formatted values ("12,5", "1.234,56") fail coercion and
// the row is dropped like any other unparsable price.
func parsePrice(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
