package utils

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/portfolio-cms/internal/constants"
)

// PaginationParams holds the pagination parameters
type PaginationParams struct {
	Page   int
	Limit  int
	Offset int
}

// NewPaginationParams normalizes a 1-indexed page number against a fixed page size.
func NewPaginationParams(page, limit int) PaginationParams {
	if page < constants.MinPage {
		page = constants.MinPage
	}
	if limit < 1 {
		limit = constants.ProjectsPerPage
	}
	// Keeps the offset from overflowing; such a page is past the end anyway.
	if maxPage := math.MaxInt / limit; page > maxPage {
		page = maxPage
	}

	return PaginationParams{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

// GetPaginationParams reads the "page" query parameter; the page size is fixed
// by the caller. Invalid values fall back to the first page.
func GetPaginationParams(c *gin.Context, limit int) PaginationParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	return NewPaginationParams(page, limit)
}

// Pagination is the pager state handed to templates.
type Pagination struct {
	Page    int
	PerPage int
	Total   int64
}

// NewPagination builds the pager for a result set.
func NewPagination(params PaginationParams, total int64) Pagination {
	return Pagination{Page: params.Page, PerPage: params.Limit, Total: total}
}

// Pages returns the number of pages, at least one.
func (p Pagination) Pages() int {
	if p.PerPage <= 0 || p.Total == 0 {
		return 1
	}
	return int((p.Total + int64(p.PerPage) - 1) / int64(p.PerPage))
}

func (p Pagination) HasPrev() bool { return p.Page > 1 }
func (p Pagination) HasNext() bool { return p.Page < p.Pages() }
func (p Pagination) PrevNum() int  { return p.Page - 1 }
func (p Pagination) NextNum() int  { return p.Page + 1 }
