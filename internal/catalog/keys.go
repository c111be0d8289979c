package catalog

import "strconv"

// Cache key families. Every cached value belongs to exactly one family,
// and hit/miss counters are partitioned by the family's key type.
const (
	keyAllProducts = "products:all"

	keyTypeProduct  = "product"
	keyTypeAll      = "all"
	keyTypeCategory = "category"
)

func productKey(id int) string {
	return "product:" + strconv.Itoa(id)
}

func categoryKey(category string) string {
	return "products:category:" + category
}

// listKey resolves the key and key type for a list request: the full
// catalog snapshot when no category filter is given, the per-category
// snapshot otherwise.
func listKey(category string) (key, keyType string) {
	if category == "" {
		return keyAllProducts, keyTypeAll
	}
	return categoryKey(category), keyTypeCategory
}
