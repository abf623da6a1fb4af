package postgres

import (
	"fmt"
	"strings"

	"food-spot-backend/internal/domain/ports/repository"
)

// condBuilder collects WHERE conditions with positional args, the way the
// list endpoints combine search, filter and pagination options.
type condBuilder struct {
	conds []string
	args  []interface{}
}

// add appends a condition; the %d verbs in expr are replaced with the
// positional indexes of the given args.
func (b *condBuilder) add(expr string, args ...interface{}) {
	idx := make([]interface{}, len(args))
	for i := range args {
		b.args = append(b.args, args[i])
		idx[i] = len(b.args)
	}
	b.conds = append(b.conds, fmt.Sprintf(expr, idx...))
}

// where renders the combined clause, or an empty string with no conditions.
func (b *condBuilder) where() string {
	if len(b.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.conds, " AND ")
}

// next returns the next positional placeholder index after the collected args.
func (b *condBuilder) next() int { return len(b.args) + 1 }

// orderClause renders a safe ORDER BY from a normalized page request. SortBy
// must be whitelisted per table; anything else falls back to created_at.
func orderClause(page repository.PageRequest, allowed map[string]bool) string {
	col := page.SortBy
	if !allowed[col] {
		col = "created_at"
	}
	dir := "DESC"
	if page.SortOrder == "asc" {
		dir = "ASC"
	}
	return fmt.Sprintf(" ORDER BY %s %s", col, dir)
}
