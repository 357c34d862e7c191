// Package query binds the list parameters shared by every listing endpoint.
package query

import (
	"time"

	"github.com/vetclinic/backend/internal/domain/shared"
)

// PageQuery is the common search, paging, ordering and date range input
type PageQuery struct {
	Search   string     `form:"search"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string     `form:"order_by"`
	OrderDir string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	From     *time.Time `form:"from" time_format:"2006-01-02"`
	To       *time.Time `form:"to" time_format:"2006-01-02"`
}

// Filter converts the query into a repository filter. filters holds the
// endpoint's own equality filters; empty values are dropped. To covers the
// whole calendar day it names.
func (q PageQuery) Filter(filters map[string]string) shared.Filter {
	f := shared.DefaultFilter()
	f.Page = q.Page
	f.PageSize = q.PageSize
	f.Search = q.Search
	if q.OrderBy != "" {
		f.OrderBy = q.OrderBy
	}
	if q.OrderDir != "" {
		f.OrderDir = q.OrderDir
	}
	f.From = q.From
	if q.To != nil {
		end := q.To.Add(24*time.Hour - time.Nanosecond)
		f.To = &end
	}
	for k, v := range filters {
		if v != "" {
			f.Filters[k] = v
		}
	}
	f.Normalize()
	return f
}
