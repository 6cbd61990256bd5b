package persistence

import (
	"strings"

	"github.com/retail/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// listSortFields whitelists columns accepted in list ordering. Anything
// else falls back to created_at to keep user input out of the ORDER BY.
var listSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"sku":        true,
	"price":      true,
	"status":     true,
	"total":      true,
}

// applyFilter applies pagination and ordering from a shared.Filter
func applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	orderBy := strings.TrimSpace(filter.OrderBy)
	if orderBy == "" {
		// Default listing is newest first
		return query.Order("created_at DESC")
	}
	if !listSortFields[orderBy] {
		orderBy = "created_at"
	}
	dir := "ASC"
	if filter.Desc {
		dir = "DESC"
	}
	return query.Order(orderBy + " " + dir)
}
