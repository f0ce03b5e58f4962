package utils

import (
	"math"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPage    = 1
	DefaultPerPage = 20
	MaxPerPage     = 100
)

type Pagination struct {
	Page      int
	PerPage   int
	SortBy    string
	SortOrder string // asc|desc
}

type Meta struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

func ParsePagination(ctx *gin.Context, defaultSortBy, defaultSortOrder string) Pagination {
	page := atoiDefault(ctx.Query("page"), DefaultPage)
	if page < 1 {
		page = DefaultPage
	}

	perPage := atoiDefault(firstNonEmpty(ctx.Query("per_page"), ctx.Query("limit")), DefaultPerPage)
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}

	sortBy := strings.TrimSpace(ctx.Query("sort_by"))
	if sortBy == "" {
		sortBy = defaultSortBy
	}

	order := strings.ToLower(strings.TrimSpace(ctx.Query("order")))
	if order != "asc" && order != "desc" {
		order = defaultSortOrder
	}

	return Pagination{
		Page:      page,
		PerPage:   perPage,
		SortBy:    sortBy,
		SortOrder: order,
	}
}

func (p Pagination) Limit() int  { return p.PerPage }
func (p Pagination) Offset() int { return (p.Page - 1) * p.PerPage }

// OrderClause maps SortBy through a whitelist of columns.
func (p Pagination) OrderClause(allowed map[string]string, defaultKey string) string {
	column, ok := allowed[p.SortBy]
	if !ok {
		column = allowed[defaultKey]
	}

	direction := "DESC"
	if p.SortOrder == "asc" {
		direction = "ASC"
	}

	return column + " " + direction
}

func BuildMeta(total int64, p Pagination) Meta {
	totalPages := 0
	if total > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(p.PerPage)))
	}

	return Meta{
		Page:       p.Page,
		PerPage:    p.PerPage,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    p.Page < totalPages,
		HasPrev:    p.Page > 1,
	}
}

func atoiDefault(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return n
}

func firstNonEmpty(a, b string) string {
	if strings.TrimSpace(a) != "" {
		return a
	}
	return b
}
