// Package query turns flat request parameters into typed predicates over an
// entity's columns. The compiler only describes the filter; repositories
// execute it against the store.
package query

import (
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"fleet-registry/internal/model"
)

// ColumnType is the closed set of column kinds the compiler can branch on.
type ColumnType int

const (
	Integer ColumnType = iota
	Text
	Date
	Other
)

// Schema maps filterable column names to their declared types.
type Schema map[string]ColumnType

// Options carries the per-entity pagination and ordering defaults.
type Options struct {
	DefaultLimit int
	DefaultOrder string
}

// Condition is one SQL predicate with its bound arguments. Expressions are
// assembled only from schema-known column names, never from raw input.
type Condition struct {
	Expr string
	Args []interface{}
}

// Query is a compiled filter: the conjunction of Conditions plus pagination
// and ordering.
type Query struct {
	Conditions []Condition
	Page       int
	Limit      int
	Offset     int
	OrderBy    string
}

const (
	pageParam  = "page"
	limitParam = "limit"
	sortParam  = "sort"

	fallbackOrder = "created_at DESC"
)

// Compile builds a Query from request parameters. Reserved keys (page,
// limit, sort) control pagination and ordering; every other key that names a
// schema column becomes a predicate according to the column type. Unknown
// keys are ignored.
func Compile(params map[string]string, schema Schema, opts Options) Query {
	q := Query{
		Page:    positiveInt(params[pageParam], 1),
		OrderBy: compileOrder(params[sortParam], schema, opts),
	}

	defaultLimit := opts.DefaultLimit
	if defaultLimit <= 0 {
		defaultLimit = 10
	}
	q.Limit = positiveInt(params[limitParam], defaultLimit)
	q.Offset = (q.Page - 1) * q.Limit

	for key, value := range params {
		if key == pageParam || key == limitParam || key == sortParam {
			continue
		}
		colType, ok := schema[key]
		if !ok {
			continue
		}
		if cond, ok := compileCondition(key, value, colType); ok {
			q.Conditions = append(q.Conditions, cond)
		}
	}

	return q
}

func compileCondition(column, value string, colType ColumnType) (Condition, bool) {
	switch colType {
	case Integer:
		return compileInteger(column, value)
	case Text:
		return compileText(column, value)
	case Date:
		return compileDate(column, value)
	default:
		return Condition{Expr: column + " = ?", Args: []interface{}{value}}, true
	}
}

func compileInteger(column, value string) (Condition, bool) {
	if strings.Contains(value, ",") {
		parts := strings.SplitN(value, ",", 2)
		min, errMin := strconv.Atoi(strings.TrimSpace(parts[0]))
		max, errMax := strconv.Atoi(strings.TrimSpace(parts[1]))
		if errMin != nil || errMax != nil {
			return Condition{}, false
		}
		return Condition{
			Expr: column + " BETWEEN ? AND ?",
			Args: []interface{}{min, max},
		}, true
	}
	exact, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return Condition{}, false
	}
	return Condition{Expr: column + " = ?", Args: []interface{}{exact}}, true
}

// compileText builds case-insensitive containment predicates. LOWER/LIKE is
// used rather than ILIKE so the predicate runs on any SQL backend.
func compileText(column, value string) (Condition, bool) {
	parts := strings.Split(value, ",")
	exprs := make([]string, 0, len(parts))
	args := make([]interface{}, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		exprs = append(exprs, "LOWER("+column+") LIKE LOWER(?)")
		args = append(args, "%"+part+"%")
	}
	if len(exprs) == 0 {
		return Condition{}, false
	}
	expr := strings.Join(exprs, " OR ")
	if len(exprs) > 1 {
		expr = "(" + expr + ")"
	}
	return Condition{Expr: expr, Args: args}, true
}

func compileDate(column, value string) (Condition, bool) {
	if strings.Contains(value, ",") {
		parts := strings.SplitN(value, ",", 2)
		start, errStart := model.ParseDate(parts[0])
		end, errEnd := model.ParseDate(parts[1])
		if errStart != nil || errEnd != nil {
			return Condition{}, false
		}
		return Condition{
			Expr: column + " BETWEEN ? AND ?",
			Args: []interface{}{start, end},
		}, true
	}
	exact, err := model.ParseDate(value)
	if err != nil {
		return Condition{}, false
	}
	return Condition{Expr: column + " = ?", Args: []interface{}{exact}}, true
}

func compileOrder(value string, schema Schema, opts Options) string {
	fallback := opts.DefaultOrder
	if fallback == "" {
		fallback = fallbackOrder
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}
	parts := strings.SplitN(value, ",", 2)
	field := strings.TrimSpace(parts[0])
	if _, ok := schema[field]; !ok {
		return fallback
	}
	direction := "ASC"
	if len(parts) == 2 && strings.EqualFold(strings.TrimSpace(parts[1]), "desc") {
		direction = "DESC"
	}
	return field + " " + direction
}

func positiveInt(raw string, fallback int) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

// ApplyConditions adds only the predicates, for counting matches.
func (q Query) ApplyConditions(tx *gorm.DB) *gorm.DB {
	for _, cond := range q.Conditions {
		tx = tx.Where(cond.Expr, cond.Args...)
	}
	return tx
}

// Apply adds predicates, ordering and pagination to a gorm statement.
func (q Query) Apply(tx *gorm.DB) *gorm.DB {
	tx = q.ApplyConditions(tx)
	if q.OrderBy != "" {
		tx = tx.Order(q.OrderBy)
	}
	return tx.Offset(q.Offset).Limit(q.Limit)
}

// TotalPages computes the page count for a result set of the given size.
func (q Query) TotalPages(total int64) int {
	if q.Limit <= 0 {
		return 0
	}
	pages := int(total) / q.Limit
	if int(total)%q.Limit != 0 {
		pages++
	}
	return pages
}

// String renders the compiled filter for debug logging.
func (q Query) String() string {
	exprs := make([]string, 0, len(q.Conditions))
	for _, cond := range q.Conditions {
		exprs = append(exprs, cond.Expr)
	}
	return fmt.Sprintf("where=%s order=%q page=%d limit=%d",
		strings.Join(exprs, " AND "), q.OrderBy, q.Page, q.Limit)
}
