package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileIntegerRange(t *testing.T) {
	q := Compile(map[string]string{"model_year": "2000,2010"}, VehicleSchema, Options{})

	require.Len(t, q.Conditions, 1)
	assert.Equal(t, "model_year BETWEEN ? AND ?", q.Conditions[0].Expr)
	assert.Equal(t, []interface{}{2000, 2010}, q.Conditions[0].Args)
}

func TestCompileIntegerExact(t *testing.T) {
	q := Compile(map[string]string{"model_year": "2015"}, VehicleSchema, Options{})

	require.Len(t, q.Conditions, 1)
	assert.Equal(t, "model_year = ?", q.Conditions[0].Expr)
	assert.Equal(t, []interface{}{2015}, q.Conditions[0].Args)
}

func TestCompileIntegerMalformedSkipped(t *testing.T) {
	q := Compile(map[string]string{"model_year": "new-ish"}, VehicleSchema, Options{})
	assert.Empty(t, q.Conditions)
}

func TestCompileTextContains(t *testing.T) {
	q := Compile(map[string]string{"sector": "North"}, VehicleSchema, Options{})

	require.Len(t, q.Conditions, 1)
	assert.Equal(t, "LOWER(sector) LIKE LOWER(?)", q.Conditions[0].Expr)
	assert.Equal(t, []interface{}{"%North%"}, q.Conditions[0].Args)
}

func TestCompileTextMultiValueBecomesOr(t *testing.T) {
	q := Compile(map[string]string{"sector": "North, South"}, VehicleSchema, Options{})

	require.Len(t, q.Conditions, 1)
	assert.Equal(t, "(LOWER(sector) LIKE LOWER(?) OR LOWER(sector) LIKE LOWER(?))", q.Conditions[0].Expr)
	assert.Equal(t, []interface{}{"%North%", "%South%"}, q.Conditions[0].Args)
}

func TestCompileDateRange(t *testing.T) {
	q := Compile(map[string]string{"created_at": "2026-01-01,2026-06-30"}, VehicleSchema, Options{})

	require.Len(t, q.Conditions, 1)
	assert.Equal(t, "created_at BETWEEN ? AND ?", q.Conditions[0].Expr)
	assert.Equal(t, []interface{}{
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC),
	}, q.Conditions[0].Args)
}

func TestCompileIgnoresUnknownKeys(t *testing.T) {
	q := Compile(map[string]string{"favorite_color": "red"}, VehicleSchema, Options{})
	assert.Empty(t, q.Conditions)
}

func TestCompilePagination(t *testing.T) {
	q := Compile(map[string]string{"page": "3", "limit": "20"}, VehicleSchema, Options{DefaultLimit: 500})

	assert.Equal(t, 3, q.Page)
	assert.Equal(t, 20, q.Limit)
	assert.Equal(t, 40, q.Offset)
}

func TestCompilePaginationDefaults(t *testing.T) {
	q := Compile(map[string]string{"page": "0", "limit": "bogus"}, VehicleSchema, Options{DefaultLimit: 500})

	assert.Equal(t, 1, q.Page)
	assert.Equal(t, 500, q.Limit)
	assert.Equal(t, 0, q.Offset)
}

func TestCompileSort(t *testing.T) {
	tests := []struct {
		name string
		sort string
		want string
	}{
		{"explicit descending", "model_year,desc", "model_year DESC"},
		{"implicit ascending", "sector", "sector ASC"},
		{"unknown field falls back", "favorite_color,desc", "created_at DESC"},
		{"empty falls back", "", "created_at DESC"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := Compile(map[string]string{"sort": tt.sort}, VehicleSchema, Options{})
			assert.Equal(t, tt.want, q.OrderBy)
		})
	}
}

func TestTotalPages(t *testing.T) {
	q := Query{Limit: 10}

	assert.Equal(t, 3, q.TotalPages(25))
	assert.Equal(t, 2, q.TotalPages(20))
	assert.Equal(t, 0, q.TotalPages(0))
}
