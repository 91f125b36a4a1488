package pricing

import "github.com/sellbridge/sellbridge-api/internal/models"

// Matches reports whether a product satisfies a rule's condition set.
// Every present key must be satisfied; absent keys impose no constraint,
// so an empty condition set matches everything.
func Matches(p *models.Product, c models.RuleConditions) bool {
	if c.MinCost > 0 && p.Cost < c.MinCost {
		return false
	}
	if c.MaxCost > 0 && p.Cost > c.MaxCost {
		return false
	}
	if len(c.CategoryCodes) > 0 && !contains(c.CategoryCodes, p.CategoryCode) {
		return false
	}
	if len(c.SupplierIDs) > 0 && !contains(c.SupplierIDs, p.SupplierID) {
		return false
	}
	return true
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
