package persistence

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/krodas7/constructora-backend/internal/domain/shared"
)

// orderableColumns guards ORDER BY input. Only plain identifier column names
// pass; anything else falls back to created_at.
func safeColumn(col string) string {
	if col == "" {
		return "created_at"
	}
	for _, r := range col {
		if (r < 'a' || r > 'z') && r != '_' {
			return "created_at"
		}
	}
	return col
}

// applyFilter adds ordering and pagination from a shared.Filter. When
// searchColumns are given and the filter carries a search term, a
// case-insensitive LIKE across those columns is added too.
func applyFilter(query *gorm.DB, filter shared.Filter, searchColumns ...string) *gorm.DB {
	if filter.Search != "" && len(searchColumns) > 0 {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		var conds []string
		var args []interface{}
		for _, col := range searchColumns {
			conds = append(conds, fmt.Sprintf("LOWER(%s) LIKE ?", safeColumn(col)))
			args = append(args, pattern)
		}
		query = query.Where(strings.Join(conds, " OR "), args...)
	}

	dir := "DESC"
	if strings.EqualFold(filter.OrderDir, "asc") {
		dir = "ASC"
	}
	query = query.Order(fmt.Sprintf("%s %s", safeColumn(filter.OrderBy), dir))

	return query.Offset(filter.Offset()).Limit(filter.Limit())
}
