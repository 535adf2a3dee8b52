package handler

import "filmsocial/backend/internal/repository"

// PaginationMeta defines the structure for pagination metadata.
type PaginationMeta struct {
	TotalItems  int64 `json:"total_items"`
	TotalPages  int   `json:"total_pages"`
	CurrentPage int   `json:"current_page"`
	PageSize    int   `json:"page_size"`
}

// PaginatedResponse defines the structure for a paginated list of any type.
type PaginatedResponse[T any] struct {
	Data []T            `json:"data"`
	Meta PaginationMeta `json:"meta"`
}

// NewPaginatedResponse converts a repository page into its response, mapping each item with fn.
func NewPaginatedResponse[T, R any](page *repository.Page[T], fn func(T) R) PaginatedResponse[R] {
	data := make([]R, 0, len(page.Items))
	for _, item := range page.Items {
		data = append(data, fn(item))
	}
	return PaginatedResponse[R]{
		Data: data,
		Meta: PaginationMeta{
			TotalItems:  page.Total,
			TotalPages:  page.TotalPages(),
			CurrentPage: page.Page,
			PageSize:    page.Limit,
		},
	}
}

func identity[T any](v T) T { return v }
