package repo

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// isDupKey reports a unique constraint violation on any supported driver.
func isDupKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "duplicate key value")
}

// likeEscape is the LIKE escape character. '!' needs no quoting in any of
// the supported dialects.
const likeEscape = "!"

// likePattern builds a case-insensitive substring pattern for searchClause.
func likePattern(s string) string {
	r := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	return "%" + r.Replace(strings.ToLower(s)) + "%"
}

// searchClause ORs a substring match over cols.
func searchClause(cols ...string) string {
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = "LOWER(" + c + ") LIKE @q ESCAPE '" + likeEscape + "'"
	}
	return "(" + strings.Join(parts, " OR ") + ")"
}

// countRow is one row of a grouped count. The aliases avoid reserved words.
type countRow struct {
	Grp string
	Cnt int64
}

const countSelect = " AS grp, COUNT(*) AS cnt"

func countMap(rows []countRow) map[string]int64 {
	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.Grp] = r.Cnt
	}
	return out
}
