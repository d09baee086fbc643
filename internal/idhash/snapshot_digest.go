// Package idhash derives short stable identifiers for merged snapshots.
// The digest is content-addressed: two runs that merge identical data for a
// day report the same digest, which makes idempotent re-runs visible in logs
// and reports without diffing the store.
package idhash

import (
	"crypto/sha256"
	"fmt"
	"sort"
	"strings"

	"github.com/mr-tron/base58"

	"retail-price-lab/internal/domain"
)

// SnapshotDigest returns a base58-encoded SHA-256 over the snapshot's
// canonical form. Row order in the input does not affect the digest.
func SnapshotDigest(records []*domain.PriceRecord) string {
	lines := make([]string, 0, len(records))
	for _, r := range records {
		lines = append(lines, canonicalLine(r))
	}
	sort.Strings(lines)

	sum := sha256.Sum256([]byte(strings.Join(lines, "\n")))
	return base58.Encode(sum[:])
}

// canonicalLine serializes the fields that define a row's identity and
// value. Display metadata (name, brand, leaf category) is included so that
// relabeling a product also changes the digest.
func canonicalLine(r *domain.PriceRecord) string {
	return fmt.Sprintf("%s|%s|%.4f|%.4f|%s|%s|%s|%s",
		r.ProductID, r.Date, r.CurrentPrice, r.ListPrice,
		r.TopCategory, r.Category, r.Brand, r.Name)
}
