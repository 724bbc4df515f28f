package service

import (
	"go-shop-api/internal/model"
	"go-shop-api/internal/pagination"
)

func listOptions[T pagination.Fielder](q model.ListQuery) pagination.Options[T] {
	return pagination.Options[T]{
		Page:      q.Page,
		PageSize:  q.PageSize,
		SortBy:    q.SortBy,
		SortOrder: pagination.ParseOrder(q.SortOrder),
		FilterBy:  q.FilterBy,
	}
}
