package repository

import (
	"database/sql"
	"fmt"
	"strings"
)

// where accumulates positional conditions.
type where struct {
	conditions []string
	args       []interface{}
}

func (w *where) add(format string, arg interface{}) {
	w.args = append(w.args, arg)
	w.conditions = append(w.conditions, fmt.Sprintf(format, len(w.args)))
}

func (w *where) ilike(column, value string) {
	w.add(column+" ILIKE $%d", "%"+value+"%")
}

func (w *where) String() string {
	if len(w.conditions) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conditions, " AND ")
}

// window renders LIMIT/OFFSET. A zero limit means no limit.
func window(skip, limit int) string {
	var b strings.Builder
	if limit > 0 {
		fmt.Fprintf(&b, " LIMIT %d", limit)
	}
	if skip > 0 {
		fmt.Fprintf(&b, " OFFSET %d", skip)
	}
	return b.String()
}

// affected maps a zero-row write to sql.ErrNoRows.
func affected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
