package repository

import (
	"go.mongodb.org/mongo-driver/mongo/options"
)

// normalizePagination clamps pagination inputs to sane values
func normalizePagination(opts PaginationOptions) PaginationOptions {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit < 1 || opts.Limit > 100 {
		opts.Limit = 20
	}
	if opts.SortBy == "" {
		opts.SortBy = "created_at"
	}
	if opts.SortDir != 1 && opts.SortDir != -1 {
		opts.SortDir = -1
	}
	return opts
}

// findOptions translates pagination options into mongo find options
func findOptions(opts PaginationOptions) *options.FindOptions {
	skip := int64((opts.Page - 1) * opts.Limit)
	limit := int64(opts.Limit)
	return options.Find().
		SetSkip(skip).
		SetLimit(limit).
		SetSort(map[string]interface{}{opts.SortBy: opts.SortDir})
}

// newPaginatedResult assembles a result page with derived page counts
func newPaginatedResult[T any](items []T, total int64, opts PaginationOptions) *PaginatedResult[T] {
	totalPages := int(total) / opts.Limit
	if int(total)%opts.Limit != 0 {
		totalPages++
	}
	return &PaginatedResult[T]{
		Items:      items,
		TotalCount: total,
		Page:       opts.Page,
		Limit:      opts.Limit,
		TotalPages: totalPages,
	}
}
