package repository

import "gorm.io/gorm"

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// PageRequest selects a 1-based page of results.
type PageRequest struct {
	Page  int
	Limit int
}

// Normalize clamps the request to sane bounds.
func (r PageRequest) Normalize() PageRequest {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.Limit < 1 {
		r.Limit = DefaultPageSize
	}
	if r.Limit > MaxPageSize {
		r.Limit = MaxPageSize
	}
	return r
}

func (r PageRequest) offset() int {
	return (r.Page - 1) * r.Limit
}

// Page is one page of results plus the total number of matching rows.
type Page[T any] struct {
	Items []T
	Total int64
	Page  int
	Limit int
}

// TotalPages returns the number of pages needed for Total items.
func (p *Page[T]) TotalPages() int {
	if p.Limit <= 0 {
		return 0
	}
	return (int(p.Total) + p.Limit - 1) / p.Limit
}

// MapPage converts the items of a page while keeping its metadata.
func MapPage[T, R any](p *Page[T], fn func(T) R) *Page[R] {
	items := make([]R, 0, len(p.Items))
	for _, item := range p.Items {
		items = append(items, fn(item))
	}
	return &Page[R]{Items: items, Total: p.Total, Page: p.Page, Limit: p.Limit}
}

// paginate counts the rows matched by query and loads the requested page.
// order and scopes (preloads) are applied only to the page query so the count
// stays a plain aggregate.
func paginate[T any](query *gorm.DB, order string, req PageRequest, scopes ...func(*gorm.DB) *gorm.DB) (*Page[T], error) {
	req = req.Normalize()
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Model(new(T)).Count(&total).Error; err != nil {
		return nil, err
	}

	items := make([]T, 0, req.Limit)
	find := query.Scopes(scopes...).Order(order).Offset(req.offset()).Limit(req.Limit)
	if err := find.Find(&items).Error; err != nil {
		return nil, err
	}

	return &Page[T]{Items: items, Total: total, Page: req.Page, Limit: req.Limit}, nil
}

func preload(name string, args ...interface{}) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Preload(name, args...)
	}
}
