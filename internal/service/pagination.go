package service

import (
	"github.com/Payphone-Digital/jury/internal/dto"
	"github.com/Payphone-Digital/jury/internal/repository"
)

// PageQuery is a validated page request.
type PageQuery struct {
	Page     int
	PageSize int
}

func (q PageQuery) Offset() int {
	return (q.Page - 1) * q.PageSize
}

func toPagedResponse[M any, R any](p repository.Page[M], q PageQuery, conv func(*M) R) dto.PagedResponse[R] {
	items := make([]R, 0, len(p.Items))
	for i := range p.Items {
		items = append(items, conv(&p.Items[i]))
	}
	return dto.NewPagedResponse(items, q.Page, q.PageSize, p.Total)
}
